package apihttp

import (
	"net/http"
	"strconv"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/search"
)

func emptyMusicPageEnvelope(page int) map[string]any {
	return map[string]any{
		"results":     []domain.MusicItem{},
		"total":       0,
		"currentPage": page,
		"totalPages":  0,
		"nextPage":    nil,
		"prevPage":    nil,
	}
}

func emptyMusicListEnvelope() map[string]any {
	return map[string]any{"results": []domain.MusicItem{}, "total": 0}
}

func (s *Server) handleSearchMusic(w http.ResponseWriter, r *http.Request) {
	page := parsePage(r)
	if s.music == nil {
		writeErrorEnvelope(w, http.StatusServiceUnavailable, "failed to search music", "music catalog is not configured", emptyMusicPageEnvelope(page))
		return
	}
	query := queryParam(r, "q", "query")
	if len(query) > maxQueryLength {
		writeErrorEnvelope(w, http.StatusBadRequest, "invalid request", "query too long (max 500 characters)", emptyMusicPageEnvelope(page))
		return
	}
	limit, err := parsePositiveInt(r, "limit", 0)
	if err != nil {
		writeErrorEnvelope(w, http.StatusBadRequest, "invalid request", err.Error(), emptyMusicPageEnvelope(page))
		return
	}

	result, err := s.music.SearchMusic(r.Context(), search.MusicSearchRequest{
		Query: query,
		Type:  queryParam(r, "type"),
		Page:  page,
		Limit: limit,
	})
	if err != nil {
		s.writeServiceError(w, r, "search music", err, emptyMusicPageEnvelope(page))
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMusicList(list func(r *http.Request, limit int) (domain.MusicList, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.music == nil {
			writeErrorEnvelope(w, http.StatusServiceUnavailable, "failed to load music", "music catalog is not configured", emptyMusicListEnvelope())
			return
		}
		limit, err := parsePositiveInt(r, "limit", 0)
		if err != nil {
			writeErrorEnvelope(w, http.StatusBadRequest, "invalid request", err.Error(), emptyMusicListEnvelope())
			return
		}
		result, err := list(r, limit)
		if err != nil {
			s.writeServiceError(w, r, "load music", err, emptyMusicListEnvelope())
			return
		}
		writeJSON(w, http.StatusOK, result)
	}
}

func (s *Server) handleGenreTracks(w http.ResponseWriter, r *http.Request) {
	if s.music == nil {
		writeErrorEnvelope(w, http.StatusServiceUnavailable, "failed to load genre", "music catalog is not configured", emptyMusicListEnvelope())
		return
	}
	genreID := 0
	if raw := queryParam(r, "id", "genreId"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil || value < 0 {
			writeErrorEnvelope(w, http.StatusBadRequest, "invalid request", "invalid genre id", emptyMusicListEnvelope())
			return
		}
		genreID = value
	}
	limit, err := parsePositiveInt(r, "limit", 0)
	if err != nil {
		writeErrorEnvelope(w, http.StatusBadRequest, "invalid request", err.Error(), emptyMusicListEnvelope())
		return
	}
	result, err := s.music.GenreTracks(r.Context(), genreID, limit)
	if err != nil {
		s.writeServiceError(w, r, "load genre", err, emptyMusicListEnvelope())
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleMusicGenres(w http.ResponseWriter, r *http.Request) {
	envelope := map[string]any{"results": []domain.MusicGenre{}}
	if s.music == nil {
		writeErrorEnvelope(w, http.StatusServiceUnavailable, "failed to load genres", "music catalog is not configured", envelope)
		return
	}
	genres, err := s.music.MusicGenres(r.Context())
	if err != nil {
		s.writeServiceError(w, r, "load genres", err, envelope)
		return
	}
	if genres == nil {
		genres = []domain.MusicGenre{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": genres})
}

func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	if s.music == nil {
		writeError(w, http.StatusServiceUnavailable, "failed to load track", "music catalog is not configured")
		return
	}
	track, err := s.music.Track(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, "load track", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

func (s *Server) handleAlbum(w http.ResponseWriter, r *http.Request) {
	if s.music == nil {
		writeError(w, http.StatusServiceUnavailable, "failed to load album", "music catalog is not configured")
		return
	}
	album, err := s.music.Album(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, "load album", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, album)
}

func (s *Server) handleArtist(w http.ResponseWriter, r *http.Request) {
	if s.music == nil {
		writeError(w, http.StatusServiceUnavailable, "failed to load artist", "music catalog is not configured")
		return
	}
	artist, err := s.music.Artist(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, "load artist", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, artist)
}
