package apihttp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"mediahub/discoveryservice/internal/auth"
	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/search"
	"mediahub/discoveryservice/internal/usecase"
)

type TitleService interface {
	SearchTitles(ctx context.Context, request domain.TitleSearchRequest) (domain.MediaPage, error)
	PopularMovies(ctx context.Context, page int) (domain.MediaPage, error)
	TrendingMovies(ctx context.Context, page int) (domain.MediaPage, error)
	UpcomingMovies(ctx context.Context, page int) (domain.MediaPage, error)
	MovieDetails(ctx context.Context, id string) (domain.MediaItem, error)
	TrendingShows(ctx context.Context, page int) (domain.MediaPage, error)
	PopularShows(ctx context.Context, page int) (domain.MediaPage, error)
	ShowDetails(ctx context.Context, id string) (domain.MediaItem, error)
	Episodes(ctx context.Context, showID string) ([]domain.Episode, error)
	SearchMedia(ctx context.Context, query string, page int) (domain.MediaPage, error)
	Providers() []domain.ProviderInfo
	ProviderDiagnostics() []domain.ProviderDiagnostics
}

type MusicService interface {
	SearchMusic(ctx context.Context, request search.MusicSearchRequest) (domain.MusicPage, error)
	TrendingMusic(ctx context.Context, limit int) (domain.MusicList, error)
	PopularMusic(ctx context.Context, rawKind string, limit int) (domain.MusicList, error)
	Playlists(ctx context.Context, limit int) (domain.MusicList, error)
	FeaturedArtists(ctx context.Context, limit int) (domain.MusicList, error)
	NewReleases(ctx context.Context, limit int) (domain.MusicList, error)
	GenreTracks(ctx context.Context, genreID, limit int) (domain.MusicList, error)
	MusicGenres(ctx context.Context) ([]domain.MusicGenre, error)
	Track(ctx context.Context, id string) (domain.TrackItem, error)
	Album(ctx context.Context, id string) (domain.AlbumDetails, error)
	Artist(ctx context.Context, id string) (domain.ArtistDetails, error)
}

type BookService interface {
	TrendingBooks(ctx context.Context) (domain.BookPage, error)
	PopularBooks(ctx context.Context) (domain.BookPage, error)
	SearchBooks(ctx context.Context, query string) (domain.BookPage, error)
	BookGenres() []domain.BookGenre
	Book(ctx context.Context, id string) (domain.BookItem, error)
}

type AddFavoriteUseCase interface {
	Execute(ctx context.Context, input usecase.AddFavoriteInput) (domain.FavoriteEntry, error)
}

type RemoveFavoriteUseCase interface {
	Execute(ctx context.Context, userID, itemID, category string) error
}

type ListFavoritesUseCase interface {
	Execute(ctx context.Context, userID, category string) (domain.FavoriteList, []domain.FavoriteEntry, error)
}

type CheckFavoriteUseCase interface {
	Execute(ctx context.Context, userID, itemID, category string) (bool, error)
}

// Favorites bundles the favorites use cases. Nil members answer 500.
type Favorites struct {
	Add    AddFavoriteUseCase
	Remove RemoveFavoriteUseCase
	List   ListFavoritesUseCase
	Check  CheckFavoriteUseCase
}

type Server struct {
	titles    TitleService
	music     MusicService
	books     BookService
	favorites Favorites
	auth      auth.Authenticator
	images    *imageProxy
	gatherer  prometheus.Gatherer
	rateRPS   float64
	rateBurst int
	logger    *slog.Logger
}

const (
	maxQueryLength  = 500
	maxRequestBody  = 1 << 20
	defaultRateRPS  = 50
	defaultBurst    = 100
	serviceSpanName = "media-discovery"
)

type ServerOption func(*Server)

func WithLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		s.logger = logger
	}
}

func WithMusic(music MusicService) ServerOption {
	return func(s *Server) {
		s.music = music
	}
}

func WithBooks(books BookService) ServerOption {
	return func(s *Server) {
		s.books = books
	}
}

func WithFavorites(favorites Favorites) ServerOption {
	return func(s *Server) {
		s.favorites = favorites
	}
}

func WithAuthenticator(authenticator auth.Authenticator) ServerOption {
	return func(s *Server) {
		s.auth = authenticator
	}
}

// WithImageHosts replaces the default poster and cover host allow-list.
func WithImageHosts(hosts []string) ServerOption {
	return func(s *Server) {
		if len(hosts) > 0 {
			s.images = newImageProxy(hosts, nil)
		}
	}
}

func WithRateLimit(rps float64, burst int) ServerOption {
	return func(s *Server) {
		if rps > 0 {
			s.rateRPS = rps
		}
		if burst > 0 {
			s.rateBurst = burst
		}
	}
}

// WithGatherer serves /metrics from gatherer instead of the default registry.
func WithGatherer(gatherer prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		s.gatherer = gatherer
	}
}

func NewServer(titles TitleService, options ...ServerOption) *Server {
	server := &Server{
		titles:    titles,
		images:    newImageProxy(defaultImageHosts, nil),
		rateRPS:   defaultRateRPS,
		rateBurst: defaultBurst,
		logger:    slog.Default(),
	}
	for _, option := range options {
		if option != nil {
			option(server)
		}
	}
	if server.logger == nil {
		server.logger = slog.Default()
	}
	return server
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.Handle("GET /metrics", s.metricsHandler())
	mux.HandleFunc("GET /providers", s.handleProviders)
	mux.HandleFunc("GET /providers/health", s.handleProvidersHealth)
	mux.HandleFunc("GET /images", s.handleImageProxy)

	mux.HandleFunc("GET /search/movies", s.handleSearchTitles)
	mux.HandleFunc("GET /search/media", s.handleSearchMedia)
	mux.HandleFunc("GET /movies/popular", s.handleTitleList(s.titleList(TitleService.PopularMovies)))
	mux.HandleFunc("GET /movies/trending", s.handleTitleList(s.titleList(TitleService.TrendingMovies)))
	mux.HandleFunc("GET /movies/upcoming", s.handleTitleList(s.titleList(TitleService.UpcomingMovies)))
	mux.HandleFunc("GET /movies/{id}", s.handleMovieDetails)
	mux.HandleFunc("GET /shows/trending", s.handleTitleList(s.titleList(TitleService.TrendingShows)))
	mux.HandleFunc("GET /shows/popular", s.handleTitleList(s.titleList(TitleService.PopularShows)))
	mux.HandleFunc("GET /shows/{id}", s.handleShowDetails)
	mux.HandleFunc("GET /shows/{id}/episodes", s.handleEpisodes)

	mux.HandleFunc("GET /search/music", s.handleSearchMusic)
	mux.HandleFunc("GET /music/trending", s.handleMusicList(func(r *http.Request, limit int) (domain.MusicList, error) {
		return s.music.TrendingMusic(r.Context(), limit)
	}))
	mux.HandleFunc("GET /music/popular", s.handleMusicList(func(r *http.Request, limit int) (domain.MusicList, error) {
		return s.music.PopularMusic(r.Context(), r.URL.Query().Get("type"), limit)
	}))
	mux.HandleFunc("GET /music/new-releases", s.handleMusicList(func(r *http.Request, limit int) (domain.MusicList, error) {
		return s.music.NewReleases(r.Context(), limit)
	}))
	mux.HandleFunc("GET /music/playlists", s.handleMusicList(func(r *http.Request, limit int) (domain.MusicList, error) {
		return s.music.Playlists(r.Context(), limit)
	}))
	mux.HandleFunc("GET /music/featured-artists", s.handleMusicList(func(r *http.Request, limit int) (domain.MusicList, error) {
		return s.music.FeaturedArtists(r.Context(), limit)
	}))
	mux.HandleFunc("GET /music/genre", s.handleGenreTracks)
	mux.HandleFunc("GET /music/genres", s.handleMusicGenres)
	mux.HandleFunc("GET /music/tracks/{id}", s.handleTrack)
	mux.HandleFunc("GET /music/albums/{id}", s.handleAlbum)
	mux.HandleFunc("GET /music/artists/{id}", s.handleArtist)

	mux.HandleFunc("POST /search/books", s.handleSearchBooks)
	mux.HandleFunc("GET /books/trending", s.handleBookList(BookService.TrendingBooks))
	mux.HandleFunc("GET /books/popular", s.handleBookList(BookService.PopularBooks))
	mux.HandleFunc("GET /books/genres", s.handleBookGenres)
	mux.HandleFunc("GET /books/{id}", s.handleBookDetails)

	requireUser := auth.Require(s.auth, s.rejectUnauthenticated)
	mux.Handle("GET /favorites", requireUser(http.HandlerFunc(s.handleListFavorites)))
	mux.Handle("POST /favorites", requireUser(http.HandlerFunc(s.handleAddFavorite)))
	mux.Handle("GET /favorites/check", requireUser(http.HandlerFunc(s.handleCheckFavorite)))
	mux.Handle("DELETE /favorites/{itemId}", requireUser(http.HandlerFunc(s.handleRemoveFavorite)))

	traced := otelhttp.NewHandler(loggingMiddleware(s.logger, mux), serviceSpanName,
		otelhttp.WithFilter(func(r *http.Request) bool {
			p := r.URL.Path
			return p != "/metrics" && p != "/health"
		}),
	)
	return recoveryMiddleware(s.logger, rateLimitMiddleware(s.rateRPS, s.rateBurst, metricsMiddleware(traced)))
}

func (s *Server) metricsHandler() http.Handler {
	if s.gatherer != nil {
		return promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleProviders(w http.ResponseWriter, _ *http.Request) {
	if s.titles == nil {
		writeJSON(w, http.StatusOK, map[string]any{"items": []domain.ProviderInfo{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.titles.Providers()})
}

func (s *Server) handleProvidersHealth(w http.ResponseWriter, _ *http.Request) {
	if s.titles == nil {
		writeJSON(w, http.StatusOK, map[string]any{"items": []domain.ProviderDiagnostics{}})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": s.titles.ProviderDiagnostics()})
}

// writeServiceError maps service errors to a status and writes the error
// body merged into envelope, so clients always receive the route's shape.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, action string, err error, envelope map[string]any) {
	status := http.StatusInternalServerError
	message := "failed to " + action
	details := "internal error"

	switch {
	case search.IsClientError(err),
		errors.Is(err, usecase.ErrInvalidCategory),
		errors.Is(err, usecase.ErrInvalidItem),
		errors.Is(err, usecase.ErrMissingItemID):
		status = http.StatusBadRequest
		message = "invalid request"
		details = err.Error()
	case errors.Is(err, usecase.ErrMissingUser):
		status = http.StatusUnauthorized
		message = "authentication required"
		details = err.Error()
	case errors.Is(err, domain.ErrAlreadyExists):
		status = http.StatusConflict
		message = "Item already exists in your list"
		details = "duplicate item"
	case errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
		message = "not found"
		details = "the requested record does not exist"
	case errors.Is(err, search.ErrProviderUnavailable):
		status = http.StatusBadGateway
		details = "upstream provider unavailable"
	case errors.Is(err, search.ErrNotConfigured), errors.Is(err, search.ErrNoProviders):
		status = http.StatusServiceUnavailable
		details = "provider not configured"
	case errors.Is(err, context.Canceled):
		// Client went away; nobody reads the body.
		status = 499
		details = "request cancelled"
	}

	level := slog.LevelWarn
	if status >= 500 {
		level = slog.LevelError
	}
	s.logger.LogAttrs(r.Context(), level, "request failed",
		slog.String("action", action),
		slog.String("path", r.URL.Path),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	)
	writeErrorEnvelope(w, status, message, details, envelope)
}

func (s *Server) rejectUnauthenticated(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrNotConfigured):
		s.logger.Error("favorites requested without an authenticator")
		writeError(w, http.StatusServiceUnavailable, "authentication not configured", "internal error")
	case errors.Is(err, auth.ErrExpiredCredentials):
		writeError(w, http.StatusUnauthorized, "authentication required", "token expired")
	case errors.Is(err, auth.ErrInvalidCredentials):
		s.logger.Debug("rejected credentials", slog.String("error", err.Error()))
		writeError(w, http.StatusUnauthorized, "authentication required", "invalid token")
	default:
		writeError(w, http.StatusUnauthorized, "authentication required", "sign in to manage your list")
	}
}

func decodeJSONBody(r *http.Request, dest any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()
	data, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody+1))
	if err != nil {
		return err
	}
	if len(data) > maxRequestBody {
		return errors.New("request body too large")
	}
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return errors.New("request body is required")
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}

func parsePositiveInt(r *http.Request, key string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return value, nil
}

// parsePage is lenient: anything that is not a positive number means page 1,
// and pages past search.MaxPage are clamped.
func parsePage(r *http.Request) int {
	page, err := parsePositiveInt(r, "page", 1)
	if err != nil {
		return 1
	}
	return search.ClampPage(page)
}

func queryParam(r *http.Request, keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(r.URL.Query().Get(key)); value != "" {
			return value
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeErrorEnvelope(w, status, message, details, nil)
}

func writeErrorEnvelope(w http.ResponseWriter, status int, message, details string, envelope map[string]any) {
	body := make(map[string]any, len(envelope)+2)
	for key, value := range envelope {
		body[key] = value
	}
	body["error"] = message
	body["details"] = details
	writeJSON(w, status, body)
}
