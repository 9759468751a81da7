package domain

type MusicKind string

const (
	MusicKindTrack    MusicKind = "track"
	MusicKindAlbum    MusicKind = "album"
	MusicKindArtist   MusicKind = "artist"
	MusicKindPlaylist MusicKind = "playlist"
)

// ParseMusicKind accepts the search type names of the catalog API.
func ParseMusicKind(raw string) (MusicKind, bool) {
	switch MusicKind(raw) {
	case "":
		return MusicKindTrack, true
	case MusicKindTrack, MusicKindAlbum, MusicKindArtist, MusicKindPlaylist:
		return MusicKind(raw), true
	default:
		return "", false
	}
}

// MusicItem is implemented by every normalized music record.
type MusicItem interface {
	MusicKind() MusicKind
	MusicID() string
}

type TrackItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	ArtistID    string    `json:"artistId,omitempty"`
	Album       string    `json:"album"`
	AlbumID     string    `json:"albumId,omitempty"`
	CoverURL    string    `json:"coverUrl"`
	Duration    int       `json:"duration"`
	PreviewURL  string    `json:"preview"`
	ReleaseDate string    `json:"releaseDate"`
	Explicit    bool      `json:"explicit"`
	Link        string    `json:"link,omitempty"`
	Type        MusicKind `json:"type"`
}

func (t TrackItem) MusicKind() MusicKind { return MusicKindTrack }
func (t TrackItem) MusicID() string      { return t.ID }

type AlbumItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	ArtistID    string    `json:"artistId,omitempty"`
	CoverURL    string    `json:"coverUrl"`
	TrackCount  int       `json:"trackCount"`
	ReleaseDate string    `json:"releaseDate"`
	Link        string    `json:"link,omitempty"`
	Type        MusicKind `json:"type"`
}

func (a AlbumItem) MusicKind() MusicKind { return MusicKindAlbum }
func (a AlbumItem) MusicID() string      { return a.ID }

type ArtistItem struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	PictureURL string    `json:"pictureUrl"`
	FanCount   int       `json:"fanCount"`
	AlbumCount int       `json:"albumCount"`
	Link       string    `json:"link,omitempty"`
	Type       MusicKind `json:"type"`
}

func (a ArtistItem) MusicKind() MusicKind { return MusicKindArtist }
func (a ArtistItem) MusicID() string      { return a.ID }

type PlaylistItem struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	PictureURL string    `json:"pictureUrl"`
	TrackCount int       `json:"trackCount"`
	Creator    string    `json:"creator"`
	Link       string    `json:"link,omitempty"`
	Type       MusicKind `json:"type"`
}

func (p PlaylistItem) MusicKind() MusicKind { return MusicKindPlaylist }
func (p PlaylistItem) MusicID() string      { return p.ID }

type MusicGenre struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	PictureURL string `json:"pictureUrl"`
}

type MusicPage struct {
	Results     []MusicItem `json:"results"`
	Total       int         `json:"total"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	NextPage    *int        `json:"nextPage"`
	PrevPage    *int        `json:"prevPage"`
}

type MusicList struct {
	Results []MusicItem `json:"results"`
	Total   int         `json:"total"`
}

type ArtistDetails struct {
	ArtistItem
	TopTracks []TrackItem `json:"topTracks"`
}

type AlbumDetails struct {
	AlbumItem
	Genres []string    `json:"genres"`
	Tracks []TrackItem `json:"tracks"`
}

// MusicSearchResult is one provider page of a music search. HasNext
// reports whether the provider advertised a following page.
type MusicSearchResult struct {
	Items   []MusicItem
	Total   int
	HasNext bool
}
