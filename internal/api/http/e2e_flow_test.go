package apihttp

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"mediahub/discoveryservice/internal/auth"
	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/providers/omdb"
	"mediahub/discoveryservice/internal/repository/memory"
	"mediahub/discoveryservice/internal/search"
	"mediahub/discoveryservice/internal/usecase"
)

// newFlowServer wires the real search service, OMDb client, favorites use
// cases and JWT auth against a fake OMDb upstream.
func newFlowServer(t *testing.T) (http.Handler, *auth.JWTAuthenticator, *atomic.Int32) {
	t.Helper()
	var upstreamCalls atomic.Int32
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalls.Add(1)
		q := r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		switch {
		case q.Get("i") == "tt0372784":
			_, _ = w.Write([]byte(`{"Title":"Batman Begins","Year":"2005","Genre":"Action, Crime, Drama","Plot":"After witnessing his parents' death...","Actors":"Christian Bale, Michael Caine","imdbRating":"8.2","imdbVotes":"1,500,000","imdbID":"tt0372784","Type":"movie","Poster":"N/A","Response":"True"}`))
		case q.Get("i") != "":
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Incorrect IMDb ID."}`))
		case q.Get("type") == "movie":
			_, _ = w.Write([]byte(`{"Search":[{"Title":"Batman Begins","Year":"2005","imdbID":"tt0372784","Type":"movie","Poster":"N/A"},{"Title":"The Batman","Year":"2022","imdbID":"tt1877830","Type":"movie","Poster":"N/A"}],"totalResults":"2","Response":"True"}`))
		default:
			_, _ = w.Write([]byte(`{"Response":"False","Error":"Series not found!"}`))
		}
	}))
	t.Cleanup(upstream.Close)

	client := omdb.NewClient(omdb.Config{APIKey: "key", BaseURL: upstream.URL, Client: upstream.Client()})
	svc := search.NewService(
		[]search.Provider{omdb.NewMovieProvider(client), omdb.NewSeriesProvider(client)},
		2*time.Second,
		search.WithCuratedCatalog(client),
		search.WithCacheDisabled(true),
	)

	jwtAuth, err := auth.NewJWTAuthenticator("flow-secret")
	if err != nil {
		t.Fatalf("NewJWTAuthenticator: %v", err)
	}
	repo := memory.NewFavoriteRepository()
	server := NewServer(svc,
		WithAuthenticator(auth.Chain{jwtAuth}),
		WithFavorites(Favorites{
			Add:    usecase.AddFavorite{Repo: repo},
			Remove: usecase.RemoveFavorite{Repo: repo},
			List:   usecase.ListFavorites{Repo: repo},
			Check:  usecase.CheckFavorite{Repo: repo},
		}),
	)
	return server.Handler(), jwtAuth, &upstreamCalls
}

func authed(t *testing.T, handler http.Handler, token, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestFlowSearchMovieOnly(t *testing.T) {
	handler, _, upstreamCalls := newFlowServer(t)

	w := doRequest(t, handler, http.MethodGet, "/search/movies?query=batman&type=movie&page=1", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if upstreamCalls.Load() != 1 {
		t.Fatalf("expected exactly one upstream call, got %d", upstreamCalls.Load())
	}

	var page domain.MediaPage
	if err := json.Unmarshal(w.Body.Bytes(), &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Results) != 2 || page.TotalResults != 2 || page.TotalPages != 1 {
		t.Fatalf("unexpected page: %+v", page)
	}
	for _, item := range page.Results {
		if item.Type != domain.MediaTypeMovie || item.Title == "" || strings.HasPrefix(item.Title, "Movie ") {
			t.Fatalf("unexpected item: %+v", item)
		}
	}
}

func TestFlowMovieDetailsAndFallback(t *testing.T) {
	handler, _, _ := newFlowServer(t)

	w := doRequest(t, handler, http.MethodGet, "/movies/tt0372784", "")
	var item domain.MediaItem
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil || w.Code != http.StatusOK {
		t.Fatalf("unexpected response: %d %s", w.Code, w.Body.String())
	}
	if item.Title != "Batman Begins" || len(item.Genres) != 3 {
		t.Fatalf("unexpected details: %+v", item)
	}

	w = doRequest(t, handler, http.MethodGet, "/movies/tt9999999", "")
	if err := json.Unmarshal(w.Body.Bytes(), &item); err != nil || w.Code != http.StatusOK {
		t.Fatalf("unexpected fallback response: %d %s", w.Code, w.Body.String())
	}
	if item.Title != "Movie tt9999999" || item.Type != domain.MediaTypeUnknown {
		t.Fatalf("unexpected fallback: %+v", item)
	}
}

func TestFlowFavorites(t *testing.T) {
	handler, jwtAuth, _ := newFlowServer(t)
	token, err := jwtAuth.IssueToken(domain.User{ID: "user-1", Email: "u@example.com"}, time.Hour)
	if err != nil {
		t.Fatalf("IssueToken: %v", err)
	}
	body := `{"category":"movies","item":{"id":"tt0372784","title":"Batman Begins","posterUrl":null,"genres":[{"id":"action","name":"Action"}]}}`

	if w := authed(t, handler, "", http.MethodPost, "/favorites", body); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	w := authed(t, handler, token, http.MethodPost, "/favorites", body)
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	created := decodeBody(t, w)
	if created["itemId"] != "tt0372784" || created["category"] != "movies" || created["id"] == "" {
		t.Fatalf("unexpected created body: %v", created)
	}

	w = authed(t, handler, token, http.MethodPost, "/favorites", body)
	if w.Code != http.StatusConflict || decodeBody(t, w)["error"] != "Item already exists in your list" {
		t.Fatalf("expected 409 duplicate, got %d: %s", w.Code, w.Body.String())
	}

	w = authed(t, handler, token, http.MethodGet, "/favorites", "")
	var grouped domain.FavoriteList
	if err := json.Unmarshal(w.Body.Bytes(), &grouped); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(grouped.Movies) != 1 || len(grouped.Books) != 0 || grouped.Songs == nil {
		t.Fatalf("unexpected grouped list: %s", w.Body.String())
	}
	if _, ok := grouped.Movies[0].Item["posterUrl"]; ok {
		t.Fatal("expected null field to be stripped before storage")
	}

	w = authed(t, handler, token, http.MethodGet, "/favorites?category=movies", "")
	if items, ok := decodeBody(t, w)["items"].([]any); !ok || len(items) != 1 {
		t.Fatalf("unexpected filtered list: %s", w.Body.String())
	}

	w = authed(t, handler, token, http.MethodGet, "/favorites/check?itemId=tt0372784&category=movies", "")
	if decodeBody(t, w)["inList"] != true {
		t.Fatalf("expected inList true, got %s", w.Body.String())
	}

	if w := authed(t, handler, token, http.MethodDelete, "/favorites/tt0372784?category=movies", ""); w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
	if w := authed(t, handler, token, http.MethodDelete, "/favorites/tt0372784?category=movies", ""); w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}

	w = authed(t, handler, token, http.MethodPost, "/favorites", `{"category":"podcasts","item":{"id":"1"}}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad category, got %d", w.Code)
	}
}

func TestFlowFavoritesUsersAreIsolated(t *testing.T) {
	handler, jwtAuth, _ := newFlowServer(t)
	alice, _ := jwtAuth.IssueToken(domain.User{ID: "alice"}, time.Hour)
	bob, _ := jwtAuth.IssueToken(domain.User{ID: "bob"}, time.Hour)

	body := `{"category":"songs","item":{"id":3135556,"title":"Harder, Better, Faster, Stronger"}}`
	if w := authed(t, handler, alice, http.MethodPost, "/favorites", body); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	w := authed(t, handler, bob, http.MethodGet, "/favorites/check?itemId=3135556&category=songs", "")
	if decodeBody(t, w)["inList"] != false {
		t.Fatalf("expected bob not to see alice's item, got %s", w.Body.String())
	}
	w = authed(t, handler, alice, http.MethodGet, "/favorites/check?itemId=3135556&category=songs", "")
	if decodeBody(t, w)["inList"] != true {
		t.Fatalf("expected numeric id to be stored as text, got %s", w.Body.String())
	}
}
