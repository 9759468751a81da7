package search

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"mediahub/discoveryservice/internal/domain"
)

type pageFetch func(ctx context.Context, page int) (domain.MediaPage, error)

// listPage runs a catalog list call and degrades failures to an empty
// envelope that carries the provider status.
func (s *Service) listPage(ctx context.Context, providerName, operation string, page int, fetch pageFetch) domain.MediaPage {
	page = ClampPage(page)
	result, err := callValue(ctx, s, providerName, operation, func(ctx context.Context) (domain.MediaPage, error) {
		return fetch(ctx, page)
	})
	if err != nil {
		logDegraded(providerName, operation, err)
		empty := domain.EmptyMediaPage(page)
		empty.Providers = []domain.ProviderStatus{{Name: providerName, Error: err.Error()}}
		return empty
	}
	if result.Results == nil {
		result.Results = []domain.MediaItem{}
	}
	result.Providers = []domain.ProviderStatus{{Name: providerName, OK: true, Count: len(result.Results)}}
	return result
}

// detailError maps a failed detail lookup onto the errors the HTTP layer
// distinguishes.
func detailError(providerName string, err error) error {
	if errors.Is(err, domain.ErrNotFound) {
		return err
	}
	logDegraded(providerName, "details", err)
	return fmt.Errorf("%w: %s: %v", ErrProviderUnavailable, providerName, err)
}

func (s *Service) PopularMovies(ctx context.Context, page int) (domain.MediaPage, error) {
	if s.curated == nil {
		return domain.EmptyMediaPage(page), ErrNotConfigured
	}
	return s.listPage(ctx, curatedProvider, "popular-movies", page, s.curated.PopularMovies), nil
}

func (s *Service) TrendingShows(ctx context.Context, page int) (domain.MediaPage, error) {
	if s.curated == nil {
		return domain.EmptyMediaPage(page), ErrNotConfigured
	}
	return s.listPage(ctx, curatedProvider, "trending-shows", page, s.curated.TrendingShows), nil
}

// MovieDetails always yields a record: lookups that fail return the
// placeholder built from the requested id.
func (s *Service) MovieDetails(ctx context.Context, id string) (domain.MediaItem, error) {
	if s.curated == nil {
		return domain.MediaItem{}, ErrNotConfigured
	}
	item, err := callValue(ctx, s, curatedProvider, "movie-details", func(ctx context.Context) (domain.MediaItem, error) {
		return s.curated.MovieDetails(ctx, id)
	})
	if err != nil {
		logDegraded(curatedProvider, "movie-details", err)
		if strings.TrimSpace(item.Title) == "" {
			item = domain.PlaceholderMovie(id)
		}
	}
	if item.Genres == nil {
		item.Genres = []domain.Genre{}
	}
	if item.Cast == nil {
		item.Cast = []domain.CastMember{}
	}
	return item, nil
}

func (s *Service) TrendingMovies(ctx context.Context, page int) (domain.MediaPage, error) {
	if s.trends == nil {
		return domain.EmptyMediaPage(page), ErrNotConfigured
	}
	return s.listPage(ctx, trendProvider, "trending-movies", page, s.trends.TrendingMoviesPage), nil
}

func (s *Service) PopularShows(ctx context.Context, page int) (domain.MediaPage, error) {
	if s.trends == nil {
		return domain.EmptyMediaPage(page), ErrNotConfigured
	}
	return s.listPage(ctx, trendProvider, "trending-shows", page, s.trends.TrendingShowsPage), nil
}

func (s *Service) UpcomingMovies(ctx context.Context, page int) (domain.MediaPage, error) {
	if s.trends == nil {
		return domain.EmptyMediaPage(page), ErrNotConfigured
	}
	return s.listPage(ctx, trendProvider, "upcoming-movies", page, s.trends.UpcomingMoviesPage), nil
}

// SearchMedia is the free-text search across movies and shows.
func (s *Service) SearchMedia(ctx context.Context, query string, page int) (domain.MediaPage, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.EmptyMediaPage(page), ErrMissingQuery
	}
	if s.trends == nil {
		return domain.EmptyMediaPage(page), ErrNotConfigured
	}
	return s.listPage(ctx, trendProvider, "search", page, func(ctx context.Context, page int) (domain.MediaPage, error) {
		return s.trends.SearchPage(ctx, query, page)
	}), nil
}

func (s *Service) ShowDetails(ctx context.Context, id string) (domain.MediaItem, error) {
	if s.trends == nil {
		return domain.MediaItem{}, ErrNotConfigured
	}
	item, err := callValue(ctx, s, trendProvider, "show-details", func(ctx context.Context) (domain.MediaItem, error) {
		return s.trends.ShowDetails(ctx, id)
	})
	if err != nil {
		return domain.MediaItem{}, detailError(trendProvider, err)
	}
	return item, nil
}

// Episodes degrades to an empty list.
func (s *Service) Episodes(ctx context.Context, showID string) ([]domain.Episode, error) {
	if s.trends == nil {
		return []domain.Episode{}, ErrNotConfigured
	}
	episodes, err := callValue(ctx, s, trendProvider, "episodes", func(ctx context.Context) ([]domain.Episode, error) {
		return s.trends.Episodes(ctx, showID)
	})
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logDegraded(trendProvider, "episodes", err)
		}
		return []domain.Episode{}, nil
	}
	if episodes == nil {
		episodes = []domain.Episode{}
	}
	return episodes, nil
}
