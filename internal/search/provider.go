package search

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"

	"mediahub/discoveryservice/internal/domain"
)

var (
	ErrInvalidQuery        = errors.New("query, genre or year is required")
	ErrInvalidType         = errors.New("type must be one of all, movie, series, tv")
	ErrInvalidYear         = errors.New("year must be a four digit year or one of 2010s, 2000s, 1990s, older")
	ErrMissingQuery        = errors.New("query parameter is required")
	ErrInvalidMusicType    = errors.New("type must be one of track, album, artist, playlist")
	ErrNoProviders         = errors.New("no title providers configured")
	ErrNotConfigured       = errors.New("catalog is not configured")
	ErrProviderUnavailable = errors.New("provider unavailable")
)

// Provider searches one media type of the title catalog.
type Provider interface {
	Name() string
	Info() domain.ProviderInfo
	MediaType() domain.MediaType
	Search(ctx context.Context, query domain.ProviderQuery) (domain.ProviderPage, error)
}

// CuratedCatalog serves the hand-picked title lists and movie details.
type CuratedCatalog interface {
	Enabled() bool
	PopularMovies(ctx context.Context, page int) (domain.MediaPage, error)
	TrendingShows(ctx context.Context, page int) (domain.MediaPage, error)
	MovieDetails(ctx context.Context, id string) (domain.MediaItem, error)
}

// TrendCatalog serves trending lists, show summaries and episodes.
type TrendCatalog interface {
	Enabled() bool
	TrendingMoviesPage(ctx context.Context, page int) (domain.MediaPage, error)
	TrendingShowsPage(ctx context.Context, page int) (domain.MediaPage, error)
	UpcomingMoviesPage(ctx context.Context, page int) (domain.MediaPage, error)
	SearchPage(ctx context.Context, query string, page int) (domain.MediaPage, error)
	ShowDetails(ctx context.Context, id string) (domain.MediaItem, error)
	Episodes(ctx context.Context, showID string) ([]domain.Episode, error)
}

type MusicCatalog interface {
	Enabled() bool
	Search(ctx context.Context, kind domain.MusicKind, query string, limit, index int) (domain.MusicSearchResult, error)
	Chart(ctx context.Context, kind domain.MusicKind, limit int) (domain.MusicList, error)
	NewReleases(ctx context.Context, limit int) ([]domain.AlbumItem, error)
	GenreTracks(ctx context.Context, genreID, limit int) ([]domain.TrackItem, error)
	Genres(ctx context.Context) ([]domain.MusicGenre, error)
	Track(ctx context.Context, id string) (domain.TrackItem, error)
	Album(ctx context.Context, id string) (domain.AlbumDetails, error)
	Artist(ctx context.Context, id string) (domain.ArtistDetails, error)
}

type BookCatalog interface {
	Enabled() bool
	Trending(ctx context.Context) (domain.BookPage, error)
	Popular(ctx context.Context) (domain.BookPage, error)
	Search(ctx context.Context, query string) (domain.BookPage, error)
	Book(ctx context.Context, id string) (domain.BookItem, error)
	Genres() []domain.BookGenre
}

const (
	curatedProvider = "omdb"
	trendProvider   = "simkl"
	musicProvider   = "deezer"
	bookProvider    = "openlibrary"
)

type Service struct {
	providers     []Provider
	curated       CuratedCatalog
	trends        TrendCatalog
	music         MusicCatalog
	books         BookCatalog
	timeout       time.Duration
	retry         retryPolicy
	cacheDisabled bool
	cacheCfg      cacheConfig
	cacheMu       sync.Mutex
	cache         map[string]*cachedPage
	refreshSem    *semaphore.Weighted
	redisCache    *RedisCacheBackend
	healthMu      sync.Mutex
	health        map[string]*providerHealth
}

type ServiceOption func(*Service)

func WithCuratedCatalog(catalog CuratedCatalog) ServiceOption {
	return func(s *Service) {
		s.curated = catalog
	}
}

func WithTrendCatalog(catalog TrendCatalog) ServiceOption {
	return func(s *Service) {
		s.trends = catalog
	}
}

func WithMusicCatalog(catalog MusicCatalog) ServiceOption {
	return func(s *Service) {
		s.music = catalog
	}
}

func WithBookCatalog(catalog BookCatalog) ServiceOption {
	return func(s *Service) {
		s.books = catalog
	}
}

// WithRetryAttempts enables backoff retries of transient provider errors.
func WithRetryAttempts(attempts int) ServiceOption {
	return func(s *Service) {
		if attempts > 0 {
			s.retry.attempts = attempts
		}
	}
}

func WithRedisCache(backend *RedisCacheBackend) ServiceOption {
	return func(s *Service) {
		s.redisCache = backend
	}
}

func WithCacheTTL(ttl time.Duration) ServiceOption {
	return func(s *Service) {
		if ttl > 0 {
			s.cacheCfg.cacheTTL = ttl
			s.cacheCfg.staleTTL = ttl * 3
		}
	}
}

func WithCacheDisabled(disabled bool) ServiceOption {
	return func(s *Service) {
		s.cacheDisabled = disabled
	}
}

// NewService builds the discovery service. Title providers are kept in a
// stable order with movie providers first so merged results never depend
// on completion order.
func NewService(providers []Provider, timeout time.Duration, opts ...ServiceOption) *Service {
	registry := make([]Provider, 0, len(providers))
	seen := make(map[string]struct{}, len(providers))
	for _, provider := range providers {
		if provider == nil {
			continue
		}
		name := strings.ToLower(strings.TrimSpace(provider.Name()))
		if name == "" {
			continue
		}
		if _, exists := seen[name]; exists {
			continue
		}
		seen[name] = struct{}{}
		registry = append(registry, provider)
	}
	sort.SliceStable(registry, func(i, j int) bool {
		return mediaOrder(registry[i].MediaType()) < mediaOrder(registry[j].MediaType())
	})

	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	svc := &Service{
		providers:  registry,
		timeout:    timeout,
		retry:      defaultRetryPolicy(),
		cacheCfg:   defaultCacheConfig(),
		cache:      make(map[string]*cachedPage),
		refreshSem: semaphore.NewWeighted(maxConcurrentRefreshes),
		health:     make(map[string]*providerHealth),
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

func mediaOrder(mediaType domain.MediaType) int {
	switch mediaType {
	case domain.MediaTypeMovie:
		return 0
	case domain.MediaTypeTV:
		return 1
	default:
		return 2
	}
}

// Providers lists the title providers and the catalogs behind the list
// and detail endpoints.
func (s *Service) Providers() []domain.ProviderInfo {
	items := make([]domain.ProviderInfo, 0, len(s.providers)+4)
	seen := make(map[string]struct{}, len(s.providers)+4)
	add := func(info domain.ProviderInfo) {
		info.Name = strings.ToLower(strings.TrimSpace(info.Name))
		if info.Name == "" {
			return
		}
		if _, exists := seen[info.Name]; exists {
			return
		}
		seen[info.Name] = struct{}{}
		if info.Label == "" {
			info.Label = info.Name
		}
		items = append(items, info)
	}

	for _, provider := range s.providers {
		info := provider.Info()
		if info.Name == "" {
			info.Name = provider.Name()
		}
		add(info)
	}
	if s.curated != nil {
		add(domain.ProviderInfo{Name: curatedProvider, Label: "OMDb curated lists", Kind: "media", Enabled: s.curated.Enabled()})
	}
	if s.trends != nil {
		add(domain.ProviderInfo{Name: trendProvider, Label: "Simkl", Kind: "media", Enabled: s.trends.Enabled()})
	}
	if s.music != nil {
		add(domain.ProviderInfo{Name: musicProvider, Label: "Deezer", Kind: "music", Enabled: s.music.Enabled()})
	}
	if s.books != nil {
		add(domain.ProviderInfo{Name: bookProvider, Label: "Open Library", Kind: "books", Enabled: s.books.Enabled()})
	}

	sort.Slice(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items
}
