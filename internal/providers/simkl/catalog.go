package simkl

import (
	"context"

	"mediahub/discoveryservice/internal/domain"
)

func listPage(page int, items []domain.MediaItem) domain.MediaPage {
	if page < 1 {
		page = 1
	}
	return domain.MediaPage{
		Page:                 page,
		Results:              items,
		TotalPages:           ListTotalPages,
		TotalResults:         ListTotalResults,
		UpstreamTotalResults: ListTotalResults,
	}
}

func (c *Client) TrendingMoviesPage(ctx context.Context, page int) (domain.MediaPage, error) {
	records, err := c.TrendingMovies(ctx, page)
	if err != nil {
		return domain.EmptyMediaPage(page), err
	}
	return listPage(page, normalizeList(records, NormalizeMovie)), nil
}

func (c *Client) TrendingShowsPage(ctx context.Context, page int) (domain.MediaPage, error) {
	records, err := c.TrendingShows(ctx, page)
	if err != nil {
		return domain.EmptyMediaPage(page), err
	}
	return listPage(page, normalizeList(records, NormalizeShow)), nil
}

func (c *Client) UpcomingMoviesPage(ctx context.Context, page int) (domain.MediaPage, error) {
	records, err := c.AnticipatedMovies(ctx, page)
	if err != nil {
		return domain.EmptyMediaPage(page), err
	}
	return listPage(page, normalizeList(records, NormalizeMovie)), nil
}

// SearchPage runs a text search. Simkl reports no totals, so the total is
// estimated as ten pages of the current page size.
func (c *Client) SearchPage(ctx context.Context, query string, page int) (domain.MediaPage, error) {
	records, err := c.SearchText(ctx, query, page)
	if err != nil {
		return domain.EmptyMediaPage(page), err
	}
	items := normalizeList(records, NormalizeSearchResult)
	result := listPage(page, items)
	result.TotalResults = len(items) * ListTotalPages
	result.UpstreamTotalResults = result.TotalResults
	return result, nil
}

func (c *Client) MovieDetails(ctx context.Context, id string) (domain.MediaItem, error) {
	record, err := c.MovieSummary(ctx, id)
	if err != nil {
		return domain.MediaItem{}, err
	}
	item, _ := NormalizeMovie(&record, 0)
	return item, nil
}

func (c *Client) ShowDetails(ctx context.Context, id string) (domain.MediaItem, error) {
	record, err := c.ShowSummary(ctx, id)
	if err != nil {
		return domain.MediaItem{}, err
	}
	item, _ := NormalizeShow(&record, 0)
	return item, nil
}

func (c *Client) Episodes(ctx context.Context, showID string) ([]domain.Episode, error) {
	records, err := c.ShowEpisodes(ctx, showID)
	if err != nil {
		return []domain.Episode{}, err
	}
	episodes := make([]domain.Episode, 0, len(records))
	for index := range records {
		episode, ok := NormalizeEpisode(showID, &records[index], index)
		if ok {
			episodes = append(episodes, episode)
		}
	}
	return episodes, nil
}
