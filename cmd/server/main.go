package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.opentelemetry.io/contrib/instrumentation/go.mongodb.org/mongo-driver/mongo/otelmongo"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	apihttp "mediahub/discoveryservice/internal/api/http"
	"mediahub/discoveryservice/internal/app"
	"mediahub/discoveryservice/internal/auth"
	"mediahub/discoveryservice/internal/domain/ports"
	"mediahub/discoveryservice/internal/metrics"
	"mediahub/discoveryservice/internal/providers/deezer"
	"mediahub/discoveryservice/internal/providers/omdb"
	"mediahub/discoveryservice/internal/providers/openlibrary"
	"mediahub/discoveryservice/internal/providers/simkl"
	"mediahub/discoveryservice/internal/repository/memory"
	mongorepo "mediahub/discoveryservice/internal/repository/mongo"
	"mediahub/discoveryservice/internal/search"
	"mediahub/discoveryservice/internal/telemetry"
	"mediahub/discoveryservice/internal/usecase"
)

const serviceName = "media-discovery"

var version = "dev"

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before exit.
func run() int {
	cfg := app.LoadConfig()
	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics.Register(registry)

	shutdownTracer, err := telemetry.Init(context.Background(), telemetry.ConfigFromEnv(serviceName, version))
	if err != nil {
		logger.Warn("otel init failed", slog.String("error", err.Error()))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	logger.Info("configuration loaded",
		slog.String("service", serviceName),
		slog.String("httpAddr", cfg.HTTPAddr),
		slog.String("logLevel", cfg.LogLevel),
		slog.String("logFormat", cfg.LogFormat),
		slog.Duration("providerTimeout", cfg.ProviderTimeout),
		slog.Bool("hasOMDbKey", cfg.OMDbAPIKey != ""),
		slog.Bool("hasSimklClientID", cfg.SimklClientID != ""),
		slog.Bool("hasRedis", strings.TrimSpace(cfg.RedisURL) != ""),
		slog.Bool("hasMongo", strings.TrimSpace(cfg.MongoURI) != ""),
		slog.Bool("hasJWTSecret", cfg.JWTSecret != ""),
		slog.Bool("trustAuthHeaders", cfg.TrustAuthHeaders),
		slog.Duration("cacheTTL", cfg.CacheTTL),
		slog.Bool("cacheDisabled", cfg.CacheDisabled),
	)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	redisClient := buildRedisClient(rootCtx, cfg, logger)
	if redisClient != nil {
		defer redisClient.Close()
	}
	upstream := &http.Client{Timeout: cfg.ProviderTimeout, Transport: otelhttp.NewTransport(http.DefaultTransport)}

	omdbClient := omdb.NewClient(omdb.Config{
		APIKey:    cfg.OMDbAPIKey,
		BaseURL:   cfg.OMDbBaseURL,
		UserAgent: cfg.UserAgent,
		Client:    upstream,
		Redis:     redisClient,
		CacheTTL:  cfg.ProviderCacheTTL,
		RateLimit: cfg.ProviderRateLimit,
	})
	simklClient := simkl.NewClient(simkl.Config{
		ClientID:  cfg.SimklClientID,
		BaseURL:   cfg.SimklBaseURL,
		UserAgent: cfg.UserAgent,
		Client:    upstream,
		Redis:     redisClient,
		CacheTTL:  cfg.ProviderCacheTTL,
		RateLimit: cfg.ProviderRateLimit,
	})
	deezerClient := deezer.NewClient(deezer.Config{
		BaseURL:   cfg.DeezerBaseURL,
		UserAgent: cfg.UserAgent,
		Client:    upstream,
		Redis:     redisClient,
		CacheTTL:  cfg.ProviderCacheTTL,
		RateLimit: cfg.ProviderRateLimit,
	})
	openLibraryClient := openlibrary.NewClient(openlibrary.Config{
		BaseURL:   cfg.OpenLibraryBaseURL,
		CoversURL: cfg.OpenLibraryCovers,
		UserAgent: cfg.UserAgent,
		Client:    upstream,
		Redis:     redisClient,
		CacheTTL:  cfg.ProviderCacheTTL,
		RateLimit: cfg.ProviderRateLimit,
	})
	if !omdbClient.Enabled() {
		logger.Warn("omdb api key not configured, title search and details disabled")
	}
	if !simklClient.Enabled() {
		logger.Warn("simkl client id not configured, trending lists disabled")
	}

	searchService := search.NewService([]search.Provider{
		omdb.NewMovieProvider(omdbClient),
		omdb.NewSeriesProvider(omdbClient),
	}, cfg.ProviderTimeout, buildServiceOptions(cfg, redisClient, omdbClient, simklClient, deezerClient, openLibraryClient)...)

	repo, closeRepo, err := buildFavoriteRepository(rootCtx, cfg, logger)
	if err != nil {
		logger.Error("favorites store unavailable", slog.String("error", err.Error()))
		return 1
	}
	defer closeRepo()

	favorites := apihttp.Favorites{
		Add:    usecase.AddFavorite{Repo: repo},
		Remove: usecase.RemoveFavorite{Repo: repo},
		List:   usecase.ListFavorites{Repo: repo},
		Check:  usecase.CheckFavorite{Repo: repo},
	}

	serverOpts := []apihttp.ServerOption{
		apihttp.WithLogger(logger),
		apihttp.WithMusic(searchService),
		apihttp.WithBooks(searchService),
		apihttp.WithFavorites(favorites),
		apihttp.WithAuthenticator(buildAuthenticator(cfg, logger)),
		apihttp.WithRateLimit(cfg.HTTPRateLimit, cfg.HTTPBurst),
		apihttp.WithGatherer(registry),
	}
	if len(cfg.ImageHosts) > 0 {
		serverOpts = append(serverOpts, apihttp.WithImageHosts(cfg.ImageHosts))
	}

	handler := apihttp.NewServer(searchService, serverOpts...).Handler()
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      cfg.ProviderTimeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	logger.Info("media discovery service started",
		slog.String("addr", cfg.HTTPAddr),
		slog.String("version", version),
	)

	exitCode := 0
	select {
	case <-rootCtx.Done():
		logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", slog.String("error", err.Error()))
			exitCode = 1
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Warn("shutdown error", slog.String("error", err.Error()))
	}
	logger.Info("media discovery service stopped")
	return exitCode
}

func newLogger(levelRaw, formatRaw string) *slog.Logger {
	level := parseLogLevel(levelRaw)
	handlerOpts := &slog.HandlerOptions{Level: level}
	format := strings.ToLower(strings.TrimSpace(formatRaw))
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stdout, handlerOpts))
	}
	return slog.New(slog.NewTextHandler(os.Stdout, handlerOpts))
}

func parseLogLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// buildRedisClient returns nil when REDIS_URL is unset, malformed or
// unreachable. Every cache layer falls back to process memory.
func buildRedisClient(ctx context.Context, cfg app.Config, logger *slog.Logger) *redis.Client {
	redisURL := strings.TrimSpace(cfg.RedisURL)
	if redisURL == "" {
		return nil
	}
	redisOpts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("invalid redis url, using in-memory cache only", slog.String("error", err.Error()))
		return nil
	}
	client := redis.NewClient(redisOpts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis not reachable, using in-memory cache only", slog.String("error", err.Error()))
		_ = client.Close()
		return nil
	}
	logger.Info("redis connected", slog.String("addr", redisOpts.Addr))
	return client
}

func buildServiceOptions(
	cfg app.Config,
	redisClient *redis.Client,
	omdbClient *omdb.Client,
	simklClient *simkl.Client,
	deezerClient *deezer.Client,
	openLibraryClient *openlibrary.Client,
) []search.ServiceOption {
	opts := []search.ServiceOption{
		search.WithCuratedCatalog(omdbClient),
		search.WithTrendCatalog(simklClient),
		search.WithMusicCatalog(deezerClient),
		search.WithBookCatalog(openLibraryClient),
		search.WithRetryAttempts(cfg.ProviderMaxAttempts),
	}

	if cfg.CacheDisabled {
		return append(opts, search.WithCacheDisabled(true))
	}
	if cfg.CacheTTL > 0 {
		opts = append(opts, search.WithCacheTTL(cfg.CacheTTL))
	}
	if redisClient != nil {
		opts = append(opts, search.WithRedisCache(search.NewRedisCacheBackend(redisClient)))
	}
	return opts
}

// buildFavoriteRepository connects to MongoDB when MONGO_URI is set and
// falls back to the process-local store otherwise.
func buildFavoriteRepository(ctx context.Context, cfg app.Config, logger *slog.Logger) (ports.FavoriteRepository, func(), error) {
	uri := strings.TrimSpace(cfg.MongoURI)
	if uri == "" {
		logger.Warn("mongo uri not configured, favorites are kept in memory")
		return memory.NewFavoriteRepository(), func() {}, nil
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongorepo.Connect(connectCtx, uri, options.Client().SetMonitor(otelmongo.NewMonitor()))
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}

	repo := mongorepo.NewFavoriteRepository(client, cfg.MongoDatabase, cfg.FavoritesCollection)
	if err := repo.EnsureIndexes(connectCtx); err != nil {
		closeFn()
		return nil, nil, err
	}
	logger.Info("mongo connected",
		slog.String("database", cfg.MongoDatabase),
		slog.String("collection", cfg.FavoritesCollection),
	)
	return repo, closeFn, nil
}

func buildAuthenticator(cfg app.Config, logger *slog.Logger) auth.Authenticator {
	var chain auth.Chain
	if cfg.JWTSecret != "" {
		jwtAuth, err := auth.NewJWTAuthenticator(cfg.JWTSecret)
		if err != nil {
			logger.Warn("jwt authenticator disabled", slog.String("error", err.Error()))
		} else {
			chain = append(chain, jwtAuth)
		}
	}
	if cfg.TrustAuthHeaders {
		chain = append(chain, auth.HeaderAuthenticator{})
	}
	if len(chain) == 0 {
		logger.Warn("no authenticator configured, favorites endpoints will respond 503")
	}
	return chain
}
