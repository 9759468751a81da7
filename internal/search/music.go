package search

import (
	"context"
	"errors"
	"strings"

	"mediahub/discoveryservice/internal/domain"
)

const (
	defaultMusicLimit    = 20
	maxMusicLimit        = 100
	defaultArtistLimit   = 6
	defaultPlaylistLimit = 10
	// DefaultMusicGenreID is the genre radio served when none is given.
	DefaultMusicGenreID = 132
)

type MusicSearchRequest struct {
	Query string
	Type  string
	Page  int
	Limit int
}

// SearchMusic pages a music search by index and limit. Provider failures
// degrade to an empty page.
func (s *Service) SearchMusic(ctx context.Context, request MusicSearchRequest) (domain.MusicPage, error) {
	window := NewPageWindow(request.Page, clampLimit(request.Limit, defaultMusicLimit, maxMusicLimit))
	empty := domain.MusicPage{Results: []domain.MusicItem{}, CurrentPage: window.Page}

	query := strings.TrimSpace(request.Query)
	if query == "" {
		return empty, ErrMissingQuery
	}
	kind, ok := domain.ParseMusicKind(strings.ToLower(strings.TrimSpace(request.Type)))
	if !ok {
		return empty, ErrInvalidMusicType
	}
	if s.music == nil {
		return empty, ErrNotConfigured
	}

	result, err := callValue(ctx, s, musicProvider, "search", func(ctx context.Context) (domain.MusicSearchResult, error) {
		return s.music.Search(ctx, kind, query, window.Limit, window.Index)
	})
	if err != nil {
		logDegraded(musicProvider, "search", err)
		return empty, nil
	}

	items := result.Items
	if items == nil {
		items = []domain.MusicItem{}
	}
	return domain.MusicPage{
		Results:     items,
		Total:       result.Total,
		CurrentPage: window.Page,
		TotalPages:  TotalPages(result.Total, window.Limit),
		NextPage:    window.NextPage(result.HasNext),
		PrevPage:    window.PrevPage(),
	}, nil
}

func (s *Service) chart(ctx context.Context, kind domain.MusicKind, limit int) (domain.MusicList, error) {
	if s.music == nil {
		return emptyMusicList(), ErrNotConfigured
	}
	operation := "chart-" + string(kind)
	list, err := callValue(ctx, s, musicProvider, operation, func(ctx context.Context) (domain.MusicList, error) {
		return s.music.Chart(ctx, kind, limit)
	})
	if err != nil {
		logDegraded(musicProvider, operation, err)
		return emptyMusicList(), nil
	}
	if list.Results == nil {
		list.Results = []domain.MusicItem{}
	}
	return list, nil
}

func emptyMusicList() domain.MusicList {
	return domain.MusicList{Results: []domain.MusicItem{}}
}

// TrendingMusic is the track chart.
func (s *Service) TrendingMusic(ctx context.Context, limit int) (domain.MusicList, error) {
	return s.chart(ctx, domain.MusicKindTrack, clampLimit(limit, defaultMusicLimit, maxMusicLimit))
}

// PopularMusic is the chart of the requested kind, albums by default.
func (s *Service) PopularMusic(ctx context.Context, rawKind string, limit int) (domain.MusicList, error) {
	kind := domain.MusicKindAlbum
	if rawKind = strings.ToLower(strings.TrimSpace(rawKind)); rawKind != "" {
		parsed, ok := domain.ParseMusicKind(rawKind)
		if !ok {
			return emptyMusicList(), ErrInvalidMusicType
		}
		kind = parsed
	}
	return s.chart(ctx, kind, clampLimit(limit, defaultMusicLimit, maxMusicLimit))
}

func (s *Service) Playlists(ctx context.Context, limit int) (domain.MusicList, error) {
	return s.chart(ctx, domain.MusicKindPlaylist, clampLimit(limit, defaultPlaylistLimit, maxMusicLimit))
}

func (s *Service) FeaturedArtists(ctx context.Context, limit int) (domain.MusicList, error) {
	return s.chart(ctx, domain.MusicKindArtist, clampLimit(limit, defaultArtistLimit, maxMusicLimit))
}

func (s *Service) NewReleases(ctx context.Context, limit int) (domain.MusicList, error) {
	if s.music == nil {
		return emptyMusicList(), ErrNotConfigured
	}
	albums, err := callValue(ctx, s, musicProvider, "new-releases", func(ctx context.Context) ([]domain.AlbumItem, error) {
		return s.music.NewReleases(ctx, clampLimit(limit, defaultMusicLimit, maxMusicLimit))
	})
	if err != nil {
		logDegraded(musicProvider, "new-releases", err)
		return emptyMusicList(), nil
	}
	items := make([]domain.MusicItem, 0, len(albums))
	for _, album := range albums {
		items = append(items, album)
	}
	return domain.MusicList{Results: items, Total: len(items)}, nil
}

// GenreTracks is the radio of a genre; non-positive ids use the default
// genre.
func (s *Service) GenreTracks(ctx context.Context, genreID, limit int) (domain.MusicList, error) {
	if s.music == nil {
		return emptyMusicList(), ErrNotConfigured
	}
	if genreID <= 0 {
		genreID = DefaultMusicGenreID
	}
	tracks, err := callValue(ctx, s, musicProvider, "genre-tracks", func(ctx context.Context) ([]domain.TrackItem, error) {
		return s.music.GenreTracks(ctx, genreID, clampLimit(limit, defaultMusicLimit, maxMusicLimit))
	})
	if err != nil {
		logDegraded(musicProvider, "genre-tracks", err)
		return emptyMusicList(), nil
	}
	items := make([]domain.MusicItem, 0, len(tracks))
	for _, track := range tracks {
		items = append(items, track)
	}
	return domain.MusicList{Results: items, Total: len(items)}, nil
}

func (s *Service) MusicGenres(ctx context.Context) ([]domain.MusicGenre, error) {
	if s.music == nil {
		return []domain.MusicGenre{}, ErrNotConfigured
	}
	genres, err := callValue(ctx, s, musicProvider, "genres", s.music.Genres)
	if err != nil {
		logDegraded(musicProvider, "genres", err)
		return []domain.MusicGenre{}, nil
	}
	if genres == nil {
		genres = []domain.MusicGenre{}
	}
	return genres, nil
}

func (s *Service) Track(ctx context.Context, id string) (domain.TrackItem, error) {
	if s.music == nil {
		return domain.TrackItem{}, ErrNotConfigured
	}
	track, err := callValue(ctx, s, musicProvider, "track", func(ctx context.Context) (domain.TrackItem, error) {
		return s.music.Track(ctx, id)
	})
	if err != nil {
		return domain.TrackItem{}, detailError(musicProvider, err)
	}
	return track, nil
}

func (s *Service) Album(ctx context.Context, id string) (domain.AlbumDetails, error) {
	if s.music == nil {
		return domain.AlbumDetails{}, ErrNotConfigured
	}
	album, err := callValue(ctx, s, musicProvider, "album", func(ctx context.Context) (domain.AlbumDetails, error) {
		return s.music.Album(ctx, id)
	})
	if err != nil {
		return domain.AlbumDetails{}, detailError(musicProvider, err)
	}
	return album, nil
}

func (s *Service) Artist(ctx context.Context, id string) (domain.ArtistDetails, error) {
	if s.music == nil {
		return domain.ArtistDetails{}, ErrNotConfigured
	}
	artist, err := callValue(ctx, s, musicProvider, "artist", func(ctx context.Context) (domain.ArtistDetails, error) {
		return s.music.Artist(ctx, id)
	})
	if err != nil {
		return domain.ArtistDetails{}, detailError(musicProvider, err)
	}
	return artist, nil
}

// IsClientError reports whether err is a request validation failure.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidQuery) ||
		errors.Is(err, ErrInvalidType) ||
		errors.Is(err, ErrInvalidYear) ||
		errors.Is(err, ErrMissingQuery) ||
		errors.Is(err, ErrInvalidMusicType)
}
