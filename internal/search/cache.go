package search

import (
	"context"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/metrics"
)

const (
	defaultCacheTTL        = 30 * time.Minute
	defaultCacheMaxEntries = 400
	maxConcurrentRefreshes = 3
	redisCacheTimeout      = 500 * time.Millisecond
)

type cacheConfig struct {
	cacheTTL   time.Duration
	staleTTL   time.Duration
	maxEntries int
}

type cachedPage struct {
	page        domain.MediaPage
	updatedAt   time.Time
	expiresAt   time.Time
	staleUntil  time.Time
	refreshOnce sync.Once
}

func defaultCacheConfig() cacheConfig {
	return cacheConfig{
		cacheTTL:   defaultCacheTTL,
		staleTTL:   defaultCacheTTL * 3,
		maxEntries: defaultCacheMaxEntries,
	}
}

func (c cacheConfig) ttls() (time.Duration, time.Duration) {
	cacheTTL := c.cacheTTL
	if cacheTTL <= 0 {
		cacheTTL = defaultCacheTTL
	}
	staleTTL := c.staleTTL
	if staleTTL <= cacheTTL {
		staleTTL = cacheTTL * 3
	}
	return cacheTTL, staleTTL
}

// cacheLookup returns a cached page. needsRefresh is true for exactly one
// caller per stale window.
func (s *Service) cacheLookup(ctx context.Context, key string, now time.Time) (page domain.MediaPage, ok bool, needsRefresh bool) {
	if s.redisCache != nil {
		redisCtx, cancel := context.WithTimeout(ctx, redisCacheTimeout)
		resp, found, err := s.redisCache.Get(redisCtx, key)
		cancel()
		if err != nil {
			slog.Debug("redis cache lookup failed", slog.String("error", err.Error()))
		}
		if err == nil && found {
			metrics.CacheHitsTotal.Inc()
			s.cacheStoreMemoryOnly(key, resp, now)
			return resp, true, false
		}
	}

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	entry, found := s.cache[key]
	if !found {
		metrics.CacheMissesTotal.Inc()
		return domain.MediaPage{}, false, false
	}

	if now.Before(entry.expiresAt) {
		metrics.CacheHitsTotal.Inc()
		return cloneMediaPage(entry.page), true, false
	}

	if now.Before(entry.staleUntil) {
		metrics.CacheHitsTotal.Inc()
		entry.refreshOnce.Do(func() {
			needsRefresh = true
		})
		return cloneMediaPage(entry.page), true, needsRefresh
	}

	metrics.CacheMissesTotal.Inc()
	delete(s.cache, key)
	return domain.MediaPage{}, false, false
}

func (s *Service) cacheStore(ctx context.Context, key string, page domain.MediaPage, now time.Time) {
	cacheTTL, _ := s.cacheCfg.ttls()
	if s.redisCache != nil {
		redisCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), redisCacheTimeout)
		if err := s.redisCache.Set(redisCtx, key, page, cacheTTL); err != nil {
			slog.Debug("redis cache store failed", slog.String("error", err.Error()))
		}
		cancel()
	}
	s.cacheStoreMemoryOnly(key, page, now)
}

func (s *Service) cacheStoreMemoryOnly(key string, page domain.MediaPage, now time.Time) {
	cacheTTL, staleTTL := s.cacheCfg.ttls()

	s.cacheMu.Lock()
	defer s.cacheMu.Unlock()

	s.cache[key] = &cachedPage{
		page:       cloneMediaPage(page),
		updatedAt:  now,
		expiresAt:  now.Add(cacheTTL),
		staleUntil: now.Add(staleTTL),
	}
	s.trimCacheLocked(now)
}

// refreshCacheAsync re-runs a stale search in the background. Refreshes
// beyond maxConcurrentRefreshes are skipped; the entry keeps serving
// stale data until it expires.
func (s *Service) refreshCacheAsync(key string, search titleSearch) {
	if !s.refreshSem.TryAcquire(1) {
		return
	}
	go func() {
		defer s.refreshSem.Release(1)
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout+2*time.Second)
		defer cancel()
		page := s.executeTitleSearch(ctx, search)
		if allProvidersOK(page) {
			s.cacheStore(ctx, key, page, time.Now())
		}
	}()
}

func (s *Service) trimCacheLocked(now time.Time) {
	maxEntries := s.cacheCfg.maxEntries
	if maxEntries <= 0 {
		maxEntries = defaultCacheMaxEntries
	}

	for key, entry := range s.cache {
		if now.After(entry.staleUntil) {
			delete(s.cache, key)
		}
	}

	if len(s.cache) <= maxEntries {
		return
	}

	type pair struct {
		key   string
		entry *cachedPage
	}
	items := make([]pair, 0, len(s.cache))
	for key, entry := range s.cache {
		items = append(items, pair{key: key, entry: entry})
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].entry.updatedAt.Before(items[j].entry.updatedAt)
	})
	for i := 0; i < len(items)-maxEntries; i++ {
		delete(s.cache, items[i].key)
	}
}

func cloneMediaPage(page domain.MediaPage) domain.MediaPage {
	cloned := page
	if page.Results != nil {
		cloned.Results = make([]domain.MediaItem, len(page.Results))
		for i, item := range page.Results {
			copied := item
			copied.Genres = append([]domain.Genre(nil), item.Genres...)
			copied.Cast = append([]domain.CastMember(nil), item.Cast...)
			if item.Genres != nil && copied.Genres == nil {
				copied.Genres = []domain.Genre{}
			}
			if item.Cast != nil && copied.Cast == nil {
				copied.Cast = []domain.CastMember{}
			}
			cloned.Results[i] = copied
		}
	}
	if page.Providers != nil {
		cloned.Providers = append([]domain.ProviderStatus(nil), page.Providers...)
	}
	return cloned
}

func buildTitleCacheKey(search titleSearch) string {
	names := make([]string, 0, len(search.providers))
	for _, provider := range search.providers {
		names = append(names, strings.ToLower(provider.Name()))
	}
	sort.Strings(names)
	return strings.Join([]string{
		"q=" + strings.ToLower(search.query),
		"t=" + string(search.kind),
		"g=" + search.genre,
		"y=" + strings.ToLower(search.year),
		"pg=" + strconv.Itoa(search.page),
		"p=" + strings.Join(names, ","),
	}, "|")
}

func allProvidersOK(page domain.MediaPage) bool {
	for _, status := range page.Providers {
		if !status.OK {
			return false
		}
	}
	return true
}
