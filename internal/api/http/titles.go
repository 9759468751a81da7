package apihttp

import (
	"context"
	"log/slog"
	"net/http"
	"strings"

	"mediahub/discoveryservice/internal/domain"
)

func emptyTitleEnvelope(page int) map[string]any {
	return map[string]any{
		"page":                 page,
		"results":              []domain.MediaItem{},
		"totalPages":           0,
		"totalResults":         0,
		"filtered":             false,
		"upstreamTotalResults": 0,
	}
}

func (s *Server) handleSearchTitles(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	if s.titles == nil {
		writeErrorEnvelope(w, http.StatusServiceUnavailable, "failed to search titles", "search service is not configured", emptyTitleEnvelope(page))
		return
	}

	query := queryParam(r, "query", "q")
	if len(query) > maxQueryLength {
		writeErrorEnvelope(w, http.StatusBadRequest, "invalid request", "query too long (max 500 characters)", emptyTitleEnvelope(page))
		return
	}
	q := r.URL.Query()
	request := domain.TitleSearchRequest{
		Query:   query,
		Type:    domain.TitleType(strings.TrimSpace(q.Get("type"))),
		Genre:   strings.TrimSpace(q.Get("genre")),
		Year:    strings.TrimSpace(q.Get("year")),
		Page:    page,
		NoCache: parseOptionalBool(q.Get("nocache")) || parseOptionalBool(q.Get("noCache")),
	}

	result, err := s.titles.SearchTitles(r.Context(), request)
	if err != nil {
		s.writeServiceError(w, r, "search titles", err, emptyTitleEnvelope(page))
		return
	}
	s.logDegradedProviders(r, result.Providers)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearchMedia(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	if s.titles == nil {
		writeErrorEnvelope(w, http.StatusServiceUnavailable, "failed to search media", "search service is not configured", emptyTitleEnvelope(page))
		return
	}
	query := queryParam(r, "q", "query")
	if len(query) > maxQueryLength {
		writeErrorEnvelope(w, http.StatusBadRequest, "invalid request", "query too long (max 500 characters)", emptyTitleEnvelope(page))
		return
	}
	result, err := s.titles.SearchMedia(r.Context(), query, page)
	if err != nil {
		s.writeServiceError(w, r, "search media", err, emptyTitleEnvelope(page))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

type titleListFunc func(ctx context.Context, page int) (domain.MediaPage, error)

func (s *Server) titleList(method func(TitleService, context.Context, int) (domain.MediaPage, error)) titleListFunc {
	return func(ctx context.Context, page int) (domain.MediaPage, error) {
		return method(s.titles, ctx, page)
	}
}

func (s *Server) handleTitleList(list titleListFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page := parsePage(r)
		if s.titles == nil {
			writeErrorEnvelope(w, http.StatusServiceUnavailable, "failed to load titles", "search service is not configured", emptyTitleEnvelope(page))
			return
		}
		result, err := list(r.Context(), page)
		if err != nil {
			s.writeServiceError(w, r, "load titles", err, emptyTitleEnvelope(page))
			return
		}
		s.logDegradedProviders(r, result.Providers)
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleMovieDetails(w http.ResponseWriter, r *http.Request) {
	if s.titles == nil {
		writeError(w, http.StatusServiceUnavailable, "failed to load movie", "search service is not configured")
		return
	}
	item, err := s.titles.MovieDetails(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, "load movie", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleShowDetails(w http.ResponseWriter, r *http.Request) {
	if s.titles == nil {
		writeError(w, http.StatusServiceUnavailable, "failed to load show", "search service is not configured")
		return
	}
	item, err := s.titles.ShowDetails(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, "load show", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	envelope := map[string]any{"results": []domain.Episode{}}
	if s.titles == nil {
		writeErrorEnvelope(w, http.StatusServiceUnavailable, "failed to load episodes", "search service is not configured", envelope)
		return
	}
	episodes, err := s.titles.Episodes(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, "load episodes", err, envelope)
		return
	}
	if episodes == nil {
		episodes = []domain.Episode{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": episodes})
}

func (s *Server) logDegradedProviders(r *http.Request, statuses []domain.ProviderStatus) {
	for _, status := range statuses {
		if status.OK {
			continue
		}
		s.logger.Warn("provider degraded",
			slog.String("path", r.URL.Path),
			slog.String("provider", status.Name),
			slog.String("error", truncate(status.Error, 200)),
		)
	}
}

func parseOptionalBool(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}
