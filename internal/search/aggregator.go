package search

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/providers/common"
)

const (
	// maxConcurrentProviders bounds the provider calls of one search.
	maxConcurrentProviders = 4
	// TitlePageSize is the page size the title providers report against.
	TitlePageSize = 10
	// placeholderQuery is sent upstream when only genre or year is given.
	placeholderQuery = "popular"
)

type titleSearch struct {
	query     string
	kind      domain.TitleType
	genre     string
	year      string
	page      int
	providers []Provider
}

// providerYear is the year forwarded upstream. Decade buckets are applied
// locally only.
func (t titleSearch) providerYear() string {
	if common.IsExactYear(t.year) {
		return t.year
	}
	return ""
}

func (t titleSearch) filtered() bool {
	return t.genre != "" || t.year != ""
}

// SearchTitles runs a title search across the movie and show providers
// selected by the request type, then applies the genre and year filters.
func (s *Service) SearchTitles(ctx context.Context, request domain.TitleSearchRequest) (domain.MediaPage, error) {
	search, err := s.prepareTitleSearch(request)
	if err != nil {
		return domain.MediaPage{}, err
	}

	if s.cacheDisabled || request.NoCache {
		return s.executeTitleSearch(ctx, search), nil
	}

	startedAt := time.Now()
	cacheKey := buildTitleCacheKey(search)
	if cached, ok, needsRefresh := s.cacheLookup(ctx, cacheKey, startedAt); ok {
		if needsRefresh {
			s.refreshCacheAsync(cacheKey, search)
		}
		return cached, nil
	}

	page := s.executeTitleSearch(ctx, search)
	if allProvidersOK(page) {
		s.cacheStore(ctx, cacheKey, page, time.Now())
	}
	return page, nil
}

func (s *Service) prepareTitleSearch(request domain.TitleSearchRequest) (titleSearch, error) {
	kind, ok := domain.NormalizeTitleType(string(request.Type))
	if !ok {
		return titleSearch{}, ErrInvalidType
	}

	query := strings.TrimSpace(request.Query)
	genre := strings.ToLower(strings.TrimSpace(request.Genre))
	if genre == "all" {
		genre = ""
	}
	year := strings.TrimSpace(request.Year)
	if strings.EqualFold(year, "all") {
		year = ""
	}
	if year != "" && !IsYearFilter(year) {
		return titleSearch{}, ErrInvalidYear
	}
	if query == "" && genre == "" && year == "" {
		return titleSearch{}, ErrInvalidQuery
	}
	if query == "" {
		query = placeholderQuery
	}

	page := ClampPage(request.Page)

	selected := make([]Provider, 0, len(s.providers))
	for _, provider := range s.providers {
		if kind.Includes(provider.MediaType()) {
			selected = append(selected, provider)
		}
	}
	if len(selected) == 0 {
		return titleSearch{}, ErrNoProviders
	}

	return titleSearch{
		query:     query,
		kind:      kind,
		genre:     genre,
		year:      strings.ToLower(year),
		page:      page,
		providers: selected,
	}, nil
}

// executeTitleSearch never fails: a provider error leaves its slot empty
// and is reported in the page's provider statuses.
func (s *Service) executeTitleSearch(ctx context.Context, search titleSearch) domain.MediaPage {
	slots := make([]domain.ProviderPage, len(search.providers))
	statuses := make([]domain.ProviderStatus, len(search.providers))
	query := domain.ProviderQuery{
		Query: search.query,
		Year:  search.providerYear(),
		Page:  search.page,
	}

	sem := semaphore.NewWeighted(maxConcurrentProviders)
	group, groupCtx := errgroup.WithContext(ctx)
	for i, provider := range search.providers {
		name := strings.ToLower(strings.TrimSpace(provider.Name()))
		group.Go(func() error {
			if err := sem.Acquire(groupCtx, 1); err != nil {
				statuses[i] = domain.ProviderStatus{Name: name, Error: "context cancelled"}
				return nil
			}
			defer sem.Release(1)

			result, err := callValue(groupCtx, s, name, "search", func(ctx context.Context) (domain.ProviderPage, error) {
				return provider.Search(ctx, query)
			})
			if err != nil {
				logDegraded(name, "search", err)
				statuses[i] = domain.ProviderStatus{Name: name, Error: err.Error()}
				return nil
			}
			slots[i] = result
			statuses[i] = domain.ProviderStatus{Name: name, OK: true, Count: len(result.Items)}
			return nil
		})
	}
	_ = group.Wait()

	merged := make([]domain.MediaItem, 0)
	upstreamTotal := 0
	for _, slot := range slots {
		merged = append(merged, slot.Items...)
		upstreamTotal += slot.TotalResults
	}

	results := merged
	totalResults := upstreamTotal
	if search.filtered() {
		results = FilterTitles(merged, search.genre, search.year)
		totalResults = len(results)
	}

	slog.Debug("title search complete",
		slog.String("query", search.query),
		slog.String("type", string(search.kind)),
		slog.Int("merged", len(merged)),
		slog.Int("results", len(results)),
	)

	return domain.MediaPage{
		Page:                 search.page,
		Results:              results,
		TotalPages:           TotalPages(totalResults, TitlePageSize),
		TotalResults:         totalResults,
		Filtered:             search.filtered(),
		UpstreamTotalResults: upstreamTotal,
		Providers:            statuses,
	}
}
