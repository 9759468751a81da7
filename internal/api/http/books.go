package apihttp

import (
	"context"
	"net/http"
	"strings"

	"mediahub/discoveryservice/internal/domain"
)

func emptyBookEnvelope() map[string]any {
	return map[string]any{
		"books": []domain.BookItem{},
		"total": 0,
		"page":  1,
		"limit": 20,
	}
}

type searchBooksRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleSearchBooks(w http.ResponseWriter, r *http.Request) {
	if s.books == nil {
		writeErrorEnvelope(w, http.StatusServiceUnavailable, "failed to search books", "book catalog is not configured", emptyBookEnvelope())
		return
	}
	var body searchBooksRequest
	if err := decodeJSONBody(r, &body); err != nil {
		writeErrorEnvelope(w, http.StatusBadRequest, "invalid request", err.Error(), emptyBookEnvelope())
		return
	}
	query := strings.TrimSpace(body.Query)
	if len(query) > maxQueryLength {
		writeErrorEnvelope(w, http.StatusBadRequest, "invalid request", "query too long (max 500 characters)", emptyBookEnvelope())
		return
	}
	page, err := s.books.SearchBooks(r.Context(), query)
	if err != nil {
		s.writeServiceError(w, r, "search books", err, emptyBookEnvelope())
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleBookList(method func(BookService, context.Context) (domain.BookPage, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.books == nil {
			writeErrorEnvelope(w, http.StatusServiceUnavailable, "failed to load books", "book catalog is not configured", emptyBookEnvelope())
			return
		}
		page, err := method(s.books, r.Context())
		if err != nil {
			s.writeServiceError(w, r, "load books", err, emptyBookEnvelope())
			return
		}
		writeJSON(w, http.StatusOK, page)
	}
}

func (s *Server) handleBookGenres(w http.ResponseWriter, _ *http.Request) {
	genres := []domain.BookGenre{}
	if s.books != nil {
		if listed := s.books.BookGenres(); listed != nil {
			genres = listed
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"genres": genres})
}

func (s *Server) handleBookDetails(w http.ResponseWriter, r *http.Request) {
	if s.books == nil {
		writeError(w, http.StatusServiceUnavailable, "failed to load book", "book catalog is not configured")
		return
	}
	book, err := s.books.Book(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeServiceError(w, r, "load book", err, nil)
		return
	}
	writeJSON(w, http.StatusOK, book)
}
