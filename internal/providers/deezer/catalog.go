package deezer

import (
	"context"
	"errors"
	"net/url"
	"strconv"
	"strings"

	"mediahub/discoveryservice/internal/domain"
)

// Search queries one record kind starting at index.
func (c *Client) Search(ctx context.Context, kind domain.MusicKind, query string, limit, index int) (domain.MusicSearchResult, error) {
	params := limitParams(limit)
	params.Set("q", strings.TrimSpace(query))
	params.Set("index", strconv.Itoa(max(index, 0)))
	return collect(ctx, c, kind, "/search/"+string(kind), params)
}

// Chart returns the global chart of one record kind.
func (c *Client) Chart(ctx context.Context, kind domain.MusicKind, limit int) (domain.MusicList, error) {
	result, err := collect(ctx, c, kind, "/chart/0/"+string(kind)+"s", limitParams(limit))
	if err != nil {
		return domain.MusicList{Results: []domain.MusicItem{}}, err
	}
	total := result.Total
	if total == 0 {
		total = len(result.Items)
	}
	return domain.MusicList{Results: result.Items, Total: total}, nil
}

func collect(ctx context.Context, c *Client, kind domain.MusicKind, path string, params url.Values) (domain.MusicSearchResult, error) {
	switch kind {
	case domain.MusicKindTrack:
		list, err := fetchList[Track](ctx, c, path, params)
		if err != nil {
			return domain.MusicSearchResult{}, err
		}
		items := make([]domain.MusicItem, 0, len(list.Data))
		for _, item := range normalizeTracks(list.Data) {
			items = append(items, item)
		}
		return domain.MusicSearchResult{Items: items, Total: list.Total, HasNext: list.Next != ""}, nil
	case domain.MusicKindAlbum:
		list, err := fetchList[Album](ctx, c, path, params)
		if err != nil {
			return domain.MusicSearchResult{}, err
		}
		items := make([]domain.MusicItem, 0, len(list.Data))
		for _, item := range normalizeAlbums(list.Data) {
			items = append(items, item)
		}
		return domain.MusicSearchResult{Items: items, Total: list.Total, HasNext: list.Next != ""}, nil
	case domain.MusicKindArtist:
		list, err := fetchList[Artist](ctx, c, path, params)
		if err != nil {
			return domain.MusicSearchResult{}, err
		}
		items := make([]domain.MusicItem, 0, len(list.Data))
		for index := range list.Data {
			if item, ok := NormalizeArtist(&list.Data[index], index); ok {
				items = append(items, item)
			}
		}
		return domain.MusicSearchResult{Items: items, Total: list.Total, HasNext: list.Next != ""}, nil
	case domain.MusicKindPlaylist:
		list, err := fetchList[Playlist](ctx, c, path, params)
		if err != nil {
			return domain.MusicSearchResult{}, err
		}
		items := make([]domain.MusicItem, 0, len(list.Data))
		for index := range list.Data {
			if item, ok := NormalizePlaylist(&list.Data[index], index); ok {
				items = append(items, item)
			}
		}
		return domain.MusicSearchResult{Items: items, Total: list.Total, HasNext: list.Next != ""}, nil
	default:
		return domain.MusicSearchResult{}, errors.New("deezer: unsupported record kind " + string(kind))
	}
}

// NewReleases returns the editorial release selection. When that fails
// it falls back to the best ranked albums of the current year.
func (c *Client) NewReleases(ctx context.Context, limit int) ([]domain.AlbumItem, error) {
	list, err := fetchList[Album](ctx, c, "/editorial/0/releases", limitParams(limit))
	if err == nil {
		return normalizeAlbums(list.Data), nil
	}
	params := limitParams(limit)
	params.Set("q", `year:"`+strconv.Itoa(c.now().Year())+`"`)
	params.Set("order", "RANKING")
	fallback, fallbackErr := fetchList[Album](ctx, c, "/search/album", params)
	if fallbackErr != nil {
		return []domain.AlbumItem{}, errors.Join(err, fallbackErr)
	}
	return normalizeAlbums(fallback.Data), nil
}

// GenreTracks returns the radio tracks of a genre, Pop by default.
func (c *Client) GenreTracks(ctx context.Context, genreID, limit int) ([]domain.TrackItem, error) {
	if genreID <= 0 {
		genreID = DefaultGenreID
	}
	list, err := fetchList[Track](ctx, c, "/radio/"+strconv.Itoa(genreID)+"/tracks", limitParams(limit))
	if err != nil {
		return []domain.TrackItem{}, err
	}
	return normalizeTracks(list.Data), nil
}

func (c *Client) Genres(ctx context.Context) ([]domain.MusicGenre, error) {
	list, err := fetchList[Genre](ctx, c, "/genre", nil)
	if err != nil {
		return []domain.MusicGenre{}, err
	}
	genres := make([]domain.MusicGenre, 0, len(list.Data))
	for index := range list.Data {
		if genre, ok := NormalizeGenre(&list.Data[index]); ok {
			genres = append(genres, genre)
		}
	}
	return genres, nil
}

func (c *Client) Track(ctx context.Context, id string) (domain.TrackItem, error) {
	var track Track
	if err := c.getJSON(ctx, "/track/"+url.PathEscape(id), nil, &track); err != nil {
		return domain.TrackItem{}, err
	}
	item, _ := NormalizeTrack(&track, 0)
	return item, nil
}

func (c *Client) Album(ctx context.Context, id string) (domain.AlbumDetails, error) {
	var album Album
	if err := c.getJSON(ctx, "/album/"+url.PathEscape(id), nil, &album); err != nil {
		return domain.AlbumDetails{}, err
	}
	item, _ := NormalizeAlbum(&album, 0)
	details := domain.AlbumDetails{AlbumItem: item, Genres: []string{}, Tracks: []domain.TrackItem{}}
	if album.Genres != nil {
		for _, genre := range album.Genres.Data {
			if name := strings.TrimSpace(genre.Name); name != "" {
				details.Genres = append(details.Genres, name)
			}
		}
	}
	if album.Tracks != nil {
		// Album track listings omit the album object.
		for _, track := range normalizeTracks(album.Tracks.Data) {
			if track.AlbumID == "" {
				track.Album = item.Title
				track.AlbumID = item.ID
				track.CoverURL = item.CoverURL
			}
			details.Tracks = append(details.Tracks, track)
		}
	}
	return details, nil
}

const artistTopTracksLimit = 10

// Artist returns the artist with its top tracks. A failed top track lookup
// leaves the list empty.
func (c *Client) Artist(ctx context.Context, id string) (domain.ArtistDetails, error) {
	var artist Artist
	if err := c.getJSON(ctx, "/artist/"+url.PathEscape(id), nil, &artist); err != nil {
		return domain.ArtistDetails{}, err
	}
	item, _ := NormalizeArtist(&artist, 0)
	details := domain.ArtistDetails{ArtistItem: item, TopTracks: []domain.TrackItem{}}
	top, err := fetchList[Track](ctx, c, "/artist/"+url.PathEscape(id)+"/top", limitParams(artistTopTracksLimit))
	if err == nil {
		details.TopTracks = normalizeTracks(top.Data)
	}
	return details, nil
}
