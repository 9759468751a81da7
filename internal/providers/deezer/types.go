package deezer

import "mediahub/discoveryservice/internal/providers/common"

type Artist struct {
	ID            common.FlexString `json:"id"`
	Name          string            `json:"name"`
	Picture       string            `json:"picture"`
	PictureMedium string            `json:"picture_medium"`
	PictureBig    string            `json:"picture_big"`
	NbAlbum       int               `json:"nb_album"`
	NbFan         int               `json:"nb_fan"`
	Link          string            `json:"link"`
}

type Album struct {
	ID          common.FlexString `json:"id"`
	Title       string            `json:"title"`
	Cover       string            `json:"cover"`
	CoverMedium string            `json:"cover_medium"`
	CoverBig    string            `json:"cover_big"`
	CoverXL     string            `json:"cover_xl"`
	NbTracks    int               `json:"nb_tracks"`
	ReleaseDate string            `json:"release_date"`
	Link        string            `json:"link"`
	Artist      *Artist           `json:"artist"`
	Genres      *List[Genre]      `json:"genres"`
	Tracks      *List[Track]      `json:"tracks"`
}

type Track struct {
	ID             common.FlexString `json:"id"`
	Title          string            `json:"title"`
	TitleShort     string            `json:"title_short"`
	Duration       int               `json:"duration"`
	Preview        string            `json:"preview"`
	ReleaseDate    string            `json:"release_date"`
	ExplicitLyrics bool              `json:"explicit_lyrics"`
	Link           string            `json:"link"`
	Artist         *Artist           `json:"artist"`
	Album          *Album            `json:"album"`
}

type User struct {
	Name string `json:"name"`
}

type Playlist struct {
	ID            common.FlexString `json:"id"`
	Title         string            `json:"title"`
	Picture       string            `json:"picture"`
	PictureMedium string            `json:"picture_medium"`
	PictureBig    string            `json:"picture_big"`
	PictureXL     string            `json:"picture_xl"`
	NbTracks      int               `json:"nb_tracks"`
	Link          string            `json:"link"`
	User          *User             `json:"user"`
	Creator       *User             `json:"creator"`
}

type Genre struct {
	ID            common.FlexString `json:"id"`
	Name          string            `json:"name"`
	Picture       string            `json:"picture"`
	PictureMedium string            `json:"picture_medium"`
}

// List is the paged envelope of every Deezer collection endpoint.
type List[T any] struct {
	Data  []T    `json:"data"`
	Total int    `json:"total"`
	Next  string `json:"next"`
}
