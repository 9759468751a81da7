package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"mediahub/discoveryservice/internal/domain"
)

type fakeMusicCatalog struct {
	search    domain.MusicSearchResult
	list      domain.MusicList
	albums    []domain.AlbumItem
	tracks    []domain.TrackItem
	genres    []domain.MusicGenre
	err       error
	detailErr error

	lastKind    domain.MusicKind
	lastLimit   int
	lastIndex   int
	lastGenreID int
}

func (c *fakeMusicCatalog) Enabled() bool { return true }

func (c *fakeMusicCatalog) Search(ctx context.Context, kind domain.MusicKind, query string, limit, index int) (domain.MusicSearchResult, error) {
	c.lastKind, c.lastLimit, c.lastIndex = kind, limit, index
	if c.err != nil {
		return domain.MusicSearchResult{}, c.err
	}
	return c.search, nil
}

func (c *fakeMusicCatalog) Chart(ctx context.Context, kind domain.MusicKind, limit int) (domain.MusicList, error) {
	c.lastKind, c.lastLimit = kind, limit
	if c.err != nil {
		return domain.MusicList{}, c.err
	}
	return c.list, nil
}

func (c *fakeMusicCatalog) NewReleases(ctx context.Context, limit int) ([]domain.AlbumItem, error) {
	c.lastLimit = limit
	return c.albums, c.err
}

func (c *fakeMusicCatalog) GenreTracks(ctx context.Context, genreID, limit int) ([]domain.TrackItem, error) {
	c.lastGenreID, c.lastLimit = genreID, limit
	return c.tracks, c.err
}

func (c *fakeMusicCatalog) Genres(ctx context.Context) ([]domain.MusicGenre, error) {
	return c.genres, c.err
}

func (c *fakeMusicCatalog) Track(ctx context.Context, id string) (domain.TrackItem, error) {
	if c.detailErr != nil {
		return domain.TrackItem{}, c.detailErr
	}
	return domain.TrackItem{ID: id, Title: "One More Time"}, nil
}

func (c *fakeMusicCatalog) Album(ctx context.Context, id string) (domain.AlbumDetails, error) {
	if c.detailErr != nil {
		return domain.AlbumDetails{}, c.detailErr
	}
	return domain.AlbumDetails{AlbumItem: domain.AlbumItem{ID: id, Title: "Discovery"}}, nil
}

func (c *fakeMusicCatalog) Artist(ctx context.Context, id string) (domain.ArtistDetails, error) {
	if c.detailErr != nil {
		return domain.ArtistDetails{}, c.detailErr
	}
	return domain.ArtistDetails{ArtistItem: domain.ArtistItem{ID: id, Name: "Daft Punk"}}, nil
}

// ---------------------------------------------------------------------------
// SearchMusic
// ---------------------------------------------------------------------------

func TestSearchMusicPagesByIndex(t *testing.T) {
	catalog := &fakeMusicCatalog{search: domain.MusicSearchResult{
		Items:   []domain.MusicItem{domain.TrackItem{ID: "3135556", Title: "Harder, Better, Faster, Stronger"}},
		Total:   95,
		HasNext: true,
	}}
	svc := NewService(nil, time.Second, WithMusicCatalog(catalog))

	page, err := svc.SearchMusic(context.Background(), MusicSearchRequest{Query: "daft punk", Type: "track", Page: 3, Limit: 20})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.lastIndex != 40 || catalog.lastLimit != 20 || catalog.lastKind != domain.MusicKindTrack {
		t.Fatalf("unexpected upstream call: kind=%s limit=%d index=%d", catalog.lastKind, catalog.lastLimit, catalog.lastIndex)
	}
	if page.CurrentPage != 3 || page.TotalPages != 5 || page.Total != 95 {
		t.Fatalf("unexpected paging: %+v", page)
	}
	if page.NextPage == nil || *page.NextPage != 4 || page.PrevPage == nil || *page.PrevPage != 2 {
		t.Fatalf("unexpected neighbours: next=%v prev=%v", page.NextPage, page.PrevPage)
	}
}

func TestSearchMusicDefaultsAndLastPage(t *testing.T) {
	catalog := &fakeMusicCatalog{search: domain.MusicSearchResult{Total: 3}}
	svc := NewService(nil, time.Second, WithMusicCatalog(catalog))

	page, err := svc.SearchMusic(context.Background(), MusicSearchRequest{Query: "x"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.lastKind != domain.MusicKindTrack || catalog.lastLimit != 20 || catalog.lastIndex != 0 {
		t.Fatalf("unexpected defaults: kind=%s limit=%d index=%d", catalog.lastKind, catalog.lastLimit, catalog.lastIndex)
	}
	if page.NextPage != nil || page.PrevPage != nil {
		t.Fatalf("expected no neighbours, got next=%v prev=%v", page.NextPage, page.PrevPage)
	}
	if page.Results == nil {
		t.Fatal("expected non-nil results")
	}
}

func TestSearchMusicValidation(t *testing.T) {
	svc := NewService(nil, time.Second, WithMusicCatalog(&fakeMusicCatalog{}))

	if _, err := svc.SearchMusic(context.Background(), MusicSearchRequest{}); !errors.Is(err, ErrMissingQuery) {
		t.Fatalf("expected ErrMissingQuery, got %v", err)
	}
	if _, err := svc.SearchMusic(context.Background(), MusicSearchRequest{Query: "x", Type: "podcast"}); !errors.Is(err, ErrInvalidMusicType) {
		t.Fatalf("expected ErrInvalidMusicType, got %v", err)
	}
	if !IsClientError(ErrMissingQuery) || IsClientError(ErrProviderUnavailable) {
		t.Fatal("unexpected client error classification")
	}
}

func TestSearchMusicDegrades(t *testing.T) {
	svc := NewService(nil, time.Second, WithMusicCatalog(&fakeMusicCatalog{err: errors.New("deezer HTTP 500")}))

	page, err := svc.SearchMusic(context.Background(), MusicSearchRequest{Query: "x", Page: 2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.CurrentPage != 2 || page.Total != 0 || len(page.Results) != 0 {
		t.Fatalf("expected empty page, got %+v", page)
	}
}

// ---------------------------------------------------------------------------
// Charts and lists
// ---------------------------------------------------------------------------

func TestChartDefaults(t *testing.T) {
	catalog := &fakeMusicCatalog{list: domain.MusicList{Results: []domain.MusicItem{}, Total: 0}}
	svc := NewService(nil, time.Second, WithMusicCatalog(catalog))

	cases := []struct {
		name  string
		run   func() (domain.MusicList, error)
		kind  domain.MusicKind
		limit int
	}{
		{"trending", func() (domain.MusicList, error) { return svc.TrendingMusic(context.Background(), 0) }, domain.MusicKindTrack, 20},
		{"popular", func() (domain.MusicList, error) { return svc.PopularMusic(context.Background(), "", 0) }, domain.MusicKindAlbum, 20},
		{"popular artists", func() (domain.MusicList, error) { return svc.PopularMusic(context.Background(), "artist", 5) }, domain.MusicKindArtist, 5},
		{"playlists", func() (domain.MusicList, error) { return svc.Playlists(context.Background(), 0) }, domain.MusicKindPlaylist, 10},
		{"featured artists", func() (domain.MusicList, error) { return svc.FeaturedArtists(context.Background(), 0) }, domain.MusicKindArtist, 6},
	}
	for _, tc := range cases {
		if _, err := tc.run(); err != nil {
			t.Fatalf("%s: unexpected error: %v", tc.name, err)
		}
		if catalog.lastKind != tc.kind || catalog.lastLimit != tc.limit {
			t.Fatalf("%s: expected %s/%d, got %s/%d", tc.name, tc.kind, tc.limit, catalog.lastKind, catalog.lastLimit)
		}
	}

	if _, err := svc.PopularMusic(context.Background(), "podcast", 0); !errors.Is(err, ErrInvalidMusicType) {
		t.Fatalf("expected ErrInvalidMusicType, got %v", err)
	}
}

func TestGenreTracksUsesDefaultGenre(t *testing.T) {
	catalog := &fakeMusicCatalog{tracks: []domain.TrackItem{{ID: "1"}, {ID: "2"}}}
	svc := NewService(nil, time.Second, WithMusicCatalog(catalog))

	list, err := svc.GenreTracks(context.Background(), 0, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if catalog.lastGenreID != DefaultMusicGenreID {
		t.Fatalf("expected default genre %d, got %d", DefaultMusicGenreID, catalog.lastGenreID)
	}
	if list.Total != 2 || len(list.Results) != 2 {
		t.Fatalf("unexpected list: %+v", list)
	}
}

func TestMusicListsDegrade(t *testing.T) {
	svc := NewService(nil, time.Second, WithMusicCatalog(&fakeMusicCatalog{err: errors.New("deezer HTTP 503")}))

	releases, err := svc.NewReleases(context.Background(), 10)
	if err != nil || releases.Results == nil || len(releases.Results) != 0 {
		t.Fatalf("expected empty releases, got %+v, %v", releases, err)
	}
	genres, err := svc.MusicGenres(context.Background())
	if err != nil || genres == nil || len(genres) != 0 {
		t.Fatalf("expected empty genres, got %+v, %v", genres, err)
	}
	chart, err := svc.TrendingMusic(context.Background(), 10)
	if err != nil || chart.Results == nil || chart.Total != 0 {
		t.Fatalf("expected empty chart, got %+v, %v", chart, err)
	}
}

// ---------------------------------------------------------------------------
// Details
// ---------------------------------------------------------------------------

func TestMusicDetailErrors(t *testing.T) {
	catalog := &fakeMusicCatalog{detailErr: fmt.Errorf("deezer: %w", domain.ErrNotFound)}
	svc := NewService(nil, time.Second, WithMusicCatalog(catalog))

	if _, err := svc.Track(context.Background(), "1"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	catalog.detailErr = errors.New("deezer HTTP 500")
	if _, err := svc.Album(context.Background(), "1"); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
	catalog.detailErr = nil
	artist, err := svc.Artist(context.Background(), "27")
	if err != nil || artist.Name != "Daft Punk" {
		t.Fatalf("unexpected artist: %+v, %v", artist, err)
	}
}
