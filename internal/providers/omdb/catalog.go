package omdb

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"mediahub/discoveryservice/internal/domain"
)

// OMDb has no popularity endpoints, so popular movies and trending shows
// are served from curated title lists.
var popularMovieTitles = []string{
	"The Shawshank Redemption",
	"The Godfather",
	"The Dark Knight",
	"Pulp Fiction",
	"Fight Club",
	"Forrest Gump",
	"Inception",
	"The Matrix",
	"Goodfellas",
	"The Lord of the Rings",
	"Interstellar",
	"Parasite",
	"Joker",
	"Avengers",
	"Star Wars",
	"Titanic",
	"Avatar",
	"Jurassic Park",
	"The Lion King",
	"Gladiator",
}

var trendingShowTitles = []string{
	"Breaking Bad",
	"Game of Thrones",
	"Stranger Things",
	"The Office",
	"Friends",
	"The Mandalorian",
	"The Crown",
	"Westworld",
	"Black Mirror",
	"The Witcher",
}

const curatedLookupConcurrency = 4

// PopularMovies looks up ten curated titles per page, rotating through the
// list, and keeps the first hit of each lookup. Failed lookups are
// skipped; an error is returned only when every lookup failed.
func (c *Client) PopularMovies(ctx context.Context, page int) (domain.MediaPage, error) {
	if page < 1 {
		page = 1
	}
	start := ((page - 1) % (len(popularMovieTitles) / PageSize)) * PageSize

	hits := make([]*SearchRecord, PageSize)
	errs := make([]error, PageSize)
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(curatedLookupConcurrency)
	for i := 0; i < PageSize; i++ {
		title := popularMovieTitles[(start+i)%len(popularMovieTitles)]
		group.Go(func() error {
			response, err := c.Search(groupCtx, title, KindMovie, 1, "")
			if err != nil {
				errs[i] = err
				return nil
			}
			if len(response.Search) > 0 {
				first := response.Search[0]
				hits[i] = &first
			}
			return nil
		})
	}
	_ = group.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			failed++
		}
	}
	if failed == PageSize {
		return domain.EmptyMediaPage(page), errs[0]
	}

	seenIDs := make(map[string]struct{}, PageSize)
	seenTitles := make(map[string]struct{}, PageSize)
	results := make([]domain.MediaItem, 0, PageSize)
	for _, hit := range hits {
		if hit == nil {
			continue
		}
		titleKey := strings.ToLower(strings.TrimSpace(hit.Title))
		if _, dup := seenIDs[hit.IMDbID]; dup && hit.IMDbID != "" {
			continue
		}
		if _, dup := seenTitles[titleKey]; dup && titleKey != "" {
			continue
		}
		seenIDs[hit.IMDbID] = struct{}{}
		seenTitles[titleKey] = struct{}{}
		item, ok := NormalizeSearchRecord(hit, len(results))
		if ok {
			results = append(results, item)
		}
	}

	total := len(popularMovieTitles)
	return domain.MediaPage{
		Page:                 page,
		Results:              results,
		TotalPages:           (total + PageSize - 1) / PageSize,
		TotalResults:         total,
		UpstreamTotalResults: total,
	}, nil
}

// TrendingShows searches the curated show title picked by the page number.
func (c *Client) TrendingShows(ctx context.Context, page int) (domain.MediaPage, error) {
	if page < 1 {
		page = 1
	}
	title := trendingShowTitles[(page-1)%len(trendingShowTitles)]
	response, err := c.Search(ctx, title, KindSeries, 1, "")
	if err != nil {
		empty := domain.EmptyMediaPage(page)
		empty.TotalPages = 1
		return empty, err
	}
	return FormatSearchPage(response, page), nil
}

// MovieDetails looks up a title by the IMDb id found in rawID. Failed
// lookups return the fallback record together with the error.
func (c *Client) MovieDetails(ctx context.Context, rawID string) (domain.MediaItem, error) {
	imdbID, ok := ExtractIMDbID(rawID)
	if !ok {
		return FallbackTitle(rawID), fmt.Errorf("%w: %q is not an imdb id", domain.ErrNotFound, rawID)
	}
	record, err := c.Title(ctx, imdbID)
	if err != nil {
		return FallbackTitle(imdbID), err
	}
	item, _ := NormalizeTitle(&record)
	return item, nil
}
