package deezer

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/providers/common"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(Config{BaseURL: server.URL, Client: server.Client()})
}

func TestSearchTracks(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/track" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		query := r.URL.Query()
		if query.Get("q") != "daft punk" || query.Get("limit") != "20" || query.Get("index") != "20" {
			t.Errorf("unexpected query: %s", r.URL.RawQuery)
		}
		_, _ = w.Write([]byte(`{"data":[{"id":1,"title":"Around the World","artist":{"name":"Daft Punk"}}],"total":45,"next":"https://api.deezer.com/search/track?index=40"}`))
	})
	result, err := client.Search(context.Background(), domain.MusicKindTrack, "daft punk", 20, 20)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if result.Total != 45 || !result.HasNext || len(result.Items) != 1 {
		t.Fatalf("unexpected result: %+v", result)
	}
	track, ok := result.Items[0].(domain.TrackItem)
	if !ok || track.Artist != "Daft Punk" {
		t.Fatalf("unexpected item: %#v", result.Items[0])
	}
}

func TestChartPlaylists(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chart/0/playlists" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[{"id":"10","title":"Hits"},{"id":"11","title":"Chill"}]}`))
	})
	list, err := client.Chart(context.Background(), domain.MusicKindPlaylist, 10)
	if err != nil {
		t.Fatalf("Chart: %v", err)
	}
	if list.Total != 2 || len(list.Results) != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}
	if list.Results[0].MusicKind() != domain.MusicKindPlaylist {
		t.Fatalf("unexpected kind: %q", list.Results[0].MusicKind())
	}
}

func TestErrorEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"type":"Exception","message":"Quota limit exceeded","code":4}}`))
	})
	_, err := client.Chart(context.Background(), domain.MusicKindTrack, 5)
	if !errors.Is(err, common.ErrUpstreamRejected) {
		t.Fatalf("expected ErrUpstreamRejected, got %v", err)
	}
}

func TestUnknownIDIsNotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"type":"DataException","message":"no data","code":800}}`))
	})
	_, err := client.Track(context.Background(), "0")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestNewReleasesFallsBackToYearSearch(t *testing.T) {
	var fallbackQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/editorial/0/releases":
			w.WriteHeader(http.StatusBadGateway)
		case "/search/album":
			fallbackQuery = r.URL.Query().Get("q")
			if r.URL.Query().Get("order") != "RANKING" {
				t.Errorf("expected ranking order, got %s", r.URL.RawQuery)
			}
			_, _ = w.Write([]byte(`{"data":[{"id":5,"title":"Fresh","cover_big":"big.jpg"}]}`))
		default:
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
	})
	client.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }

	albums, err := client.NewReleases(context.Background(), 20)
	if err != nil {
		t.Fatalf("NewReleases: %v", err)
	}
	if fallbackQuery != `year:"2026"` {
		t.Fatalf("unexpected fallback query: %q", fallbackQuery)
	}
	if len(albums) != 1 || albums[0].CoverURL != "big.jpg" {
		t.Fatalf("unexpected albums: %+v", albums)
	}
}

func TestGenreTracksDefaultsToPop(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/radio/132/tracks" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{"data":[]}`))
	})
	tracks, err := client.GenreTracks(context.Background(), 0, 20)
	if err != nil {
		t.Fatalf("GenreTracks: %v", err)
	}
	if tracks == nil || len(tracks) != 0 {
		t.Fatalf("expected empty tracks, got %+v", tracks)
	}
}

func TestAlbumDetailsFillTrackAlbum(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"id":302127,"title":"Discovery","cover_big":"big.jpg","artist":{"id":27,"name":"Daft Punk"},
			"genres":{"data":[{"id":113,"name":"Dance"}]},
			"tracks":{"data":[{"id":3135553,"title":"One More Time","artist":{"name":"Daft Punk"}}]}}`))
	})
	album, err := client.Album(context.Background(), "302127")
	if err != nil {
		t.Fatalf("Album: %v", err)
	}
	if len(album.Genres) != 1 || album.Genres[0] != "Dance" {
		t.Fatalf("unexpected genres: %v", album.Genres)
	}
	if len(album.Tracks) != 1 || album.Tracks[0].AlbumID != "302127" || album.Tracks[0].Album != "Discovery" {
		t.Fatalf("unexpected tracks: %+v", album.Tracks)
	}
}

func TestArtistTopTracksFailureKeepsArtist(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/artist/27/top" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte(`{"id":27,"name":"Daft Punk","nb_fan":4000000}`))
	})
	artist, err := client.Artist(context.Background(), "27")
	if err != nil {
		t.Fatalf("Artist: %v", err)
	}
	if artist.Name != "Daft Punk" || artist.FanCount != 4000000 || artist.TopTracks == nil {
		t.Fatalf("unexpected artist: %+v", artist)
	}
}
