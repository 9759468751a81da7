package deezer

import (
	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/providers/common"
)

const (
	unknownArtist = "Unknown Artist"
	unknownAlbum  = "Unknown Album"
)

func artistName(artist *Artist) string {
	if artist == nil {
		return ""
	}
	return artist.Name
}

func artistID(artist *Artist) string {
	if artist == nil {
		return ""
	}
	return artist.ID.String()
}

// NormalizeTrack maps a raw track. Artist falls back to "Unknown Artist",
// album to "Unknown Album" and cover is album.cover_medium, then
// album.cover.
func NormalizeTrack(track *Track, index int) (domain.TrackItem, bool) {
	if track == nil {
		return domain.TrackItem{}, false
	}
	artist := common.FirstNonEmpty(artistName(track.Artist))
	if artist == "" {
		artist = unknownArtist
	}
	album, albumID, cover := unknownAlbum, "", ""
	if track.Album != nil {
		album = common.FirstNonEmpty(track.Album.Title, unknownAlbum)
		albumID = track.Album.ID.String()
		cover = common.FirstNonEmpty(track.Album.CoverMedium, track.Album.Cover)
	}
	title := common.FirstNonEmpty(track.Title, track.TitleShort)
	id := common.FirstNonEmpty(track.ID.String())
	if id == "" {
		id = common.SyntheticID("deezer-track", index, title, artist)
	}
	if title == "" {
		title = "Track " + id
	}
	return domain.TrackItem{
		ID:          id,
		Title:       title,
		Artist:      artist,
		ArtistID:    artistID(track.Artist),
		Album:       album,
		AlbumID:     albumID,
		CoverURL:    cover,
		Duration:    track.Duration,
		PreviewURL:  track.Preview,
		ReleaseDate: track.ReleaseDate,
		Explicit:    track.ExplicitLyrics,
		Link:        track.Link,
		Type:        domain.MusicKindTrack,
	}, true
}

// NormalizeAlbum maps a raw album. Cover priority: cover_big, cover_xl,
// cover_medium, cover.
func NormalizeAlbum(album *Album, index int) (domain.AlbumItem, bool) {
	if album == nil {
		return domain.AlbumItem{}, false
	}
	artist := common.FirstNonEmpty(artistName(album.Artist))
	if artist == "" {
		artist = unknownArtist
	}
	title := common.FirstNonEmpty(album.Title)
	id := common.FirstNonEmpty(album.ID.String())
	if id == "" {
		id = common.SyntheticID("deezer-album", index, title, artist)
	}
	if title == "" {
		title = unknownAlbum
	}
	return domain.AlbumItem{
		ID:          id,
		Title:       title,
		Artist:      artist,
		ArtistID:    artistID(album.Artist),
		CoverURL:    common.FirstNonEmpty(album.CoverBig, album.CoverXL, album.CoverMedium, album.Cover),
		TrackCount:  album.NbTracks,
		ReleaseDate: album.ReleaseDate,
		Link:        album.Link,
		Type:        domain.MusicKindAlbum,
	}, true
}

func NormalizeArtist(artist *Artist, index int) (domain.ArtistItem, bool) {
	if artist == nil {
		return domain.ArtistItem{}, false
	}
	name := common.FirstNonEmpty(artist.Name)
	id := common.FirstNonEmpty(artist.ID.String())
	if id == "" {
		id = common.SyntheticID("deezer-artist", index, name)
	}
	if name == "" {
		name = unknownArtist
	}
	return domain.ArtistItem{
		ID:         id,
		Name:       name,
		PictureURL: common.FirstNonEmpty(artist.PictureMedium, artist.Picture),
		FanCount:   artist.NbFan,
		AlbumCount: artist.NbAlbum,
		Link:       artist.Link,
		Type:       domain.MusicKindArtist,
	}, true
}

// NormalizePlaylist maps a raw playlist. The creator defaults to Deezer
// for editorial playlists.
func NormalizePlaylist(playlist *Playlist, index int) (domain.PlaylistItem, bool) {
	if playlist == nil {
		return domain.PlaylistItem{}, false
	}
	title := common.FirstNonEmpty(playlist.Title)
	id := common.FirstNonEmpty(playlist.ID.String())
	if id == "" {
		id = common.SyntheticID("deezer-playlist", index, title)
	}
	if title == "" {
		title = "Playlist " + id
	}
	creator := ""
	if playlist.User != nil {
		creator = playlist.User.Name
	}
	if creator == "" && playlist.Creator != nil {
		creator = playlist.Creator.Name
	}
	return domain.PlaylistItem{
		ID:         id,
		Title:      title,
		PictureURL: common.FirstNonEmpty(playlist.PictureBig, playlist.PictureXL, playlist.PictureMedium, playlist.Picture),
		TrackCount: playlist.NbTracks,
		Creator:    common.FirstNonEmpty(creator, "Deezer"),
		Link:       playlist.Link,
		Type:       domain.MusicKindPlaylist,
	}, true
}

func NormalizeGenre(genre *Genre) (domain.MusicGenre, bool) {
	if genre == nil || genre.ID.String() == "" {
		return domain.MusicGenre{}, false
	}
	return domain.MusicGenre{
		ID:         genre.ID.String(),
		Name:       common.FirstNonEmpty(genre.Name, "Genre "+genre.ID.String()),
		PictureURL: common.FirstNonEmpty(genre.PictureMedium, genre.Picture),
	}, true
}

func normalizeTracks(tracks []Track) []domain.TrackItem {
	items := make([]domain.TrackItem, 0, len(tracks))
	for index := range tracks {
		if item, ok := NormalizeTrack(&tracks[index], index); ok {
			items = append(items, item)
		}
	}
	return items
}

func normalizeAlbums(albums []Album) []domain.AlbumItem {
	items := make([]domain.AlbumItem, 0, len(albums))
	for index := range albums {
		if item, ok := NormalizeAlbum(&albums[index], index); ok {
			items = append(items, item)
		}
	}
	return items
}
