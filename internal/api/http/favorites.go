package apihttp

import (
	"net/http"

	"mediahub/discoveryservice/internal/auth"
	"mediahub/discoveryservice/internal/usecase"
)

type addFavoriteRequest struct {
	Item     map[string]any `json:"item"`
	Category string         `json:"category"`
}

func (s *Server) handleAddFavorite(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	if s.favorites.Add == nil {
		writeError(w, http.StatusInternalServerError, "failed to add item", "favorites are not configured")
		return
	}
	var body addFavoriteRequest
	if err := decodeJSONBody(r, &body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request", err.Error())
		return
	}
	entry, err := s.favorites.Add.Execute(r.Context(), usecase.AddFavoriteInput{
		UserID:   user.ID,
		Category: body.Category,
		Item:     body.Item,
	})
	if err != nil {
		s.writeServiceError(w, r, "add item", err, nil)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":       entry.ID,
		"itemId":   entry.ItemID,
		"category": entry.Category,
		"addedAt":  entry.AddedAt,
	})
}

func (s *Server) handleRemoveFavorite(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	if s.favorites.Remove == nil {
		writeError(w, http.StatusInternalServerError, "failed to remove item", "favorites are not configured")
		return
	}
	err := s.favorites.Remove.Execute(r.Context(), user.ID, r.PathValue("itemId"), queryParam(r, "category"))
	if err != nil {
		s.writeServiceError(w, r, "remove item", err, nil)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListFavorites(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	if s.favorites.List == nil {
		writeError(w, http.StatusInternalServerError, "failed to fetch list", "favorites are not configured")
		return
	}
	grouped, items, err := s.favorites.List.Execute(r.Context(), user.ID, queryParam(r, "category"))
	if err != nil {
		s.writeServiceError(w, r, "fetch list", err, nil)
		return
	}
	if items != nil {
		writeJSON(w, http.StatusOK, map[string]any{"items": items})
		return
	}
	writeJSON(w, http.StatusOK, grouped)
}

func (s *Server) handleCheckFavorite(w http.ResponseWriter, r *http.Request) {
	user, _ := auth.UserFromContext(r.Context())
	if s.favorites.Check == nil {
		writeJSON(w, http.StatusOK, map[string]any{"inList": false})
		return
	}
	inList, err := s.favorites.Check.Execute(r.Context(), user.ID, queryParam(r, "itemId", "id"), queryParam(r, "category"))
	if err != nil {
		s.writeServiceError(w, r, "check item", err, map[string]any{"inList": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"inList": inList})
}
