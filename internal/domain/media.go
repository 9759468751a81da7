package domain

type MediaType string

const (
	MediaTypeMovie   MediaType = "movie"
	MediaTypeTV      MediaType = "tv"
	MediaTypeUnknown MediaType = "unknown"
)

type Genre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CastMember struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	Character  string  `json:"character"`
	ProfileURL *string `json:"profileUrl"`
}

// MediaItem is the normalized movie or TV record shared by every provider.
// Optional scalars are pointers so they encode as null rather than a zero
// value that could be mistaken for data.
type MediaItem struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Overview    string       `json:"overview"`
	PosterURL   *string      `json:"posterUrl"`
	BackdropURL *string      `json:"backdropUrl"`
	ReleaseDate *string      `json:"releaseDate"`
	Year        *int         `json:"year"`
	Type        MediaType    `json:"type"`
	Genres      []Genre      `json:"genres"`
	Cast        []CastMember `json:"cast"`
	Runtime     int          `json:"runtime"`
	VoteAverage float64      `json:"voteAverage"`
	VoteCount   int          `json:"voteCount"`

	Director      string `json:"director,omitempty"`
	Writer        string `json:"writer,omitempty"`
	Language      string `json:"language,omitempty"`
	Country       string `json:"country,omitempty"`
	Awards        string `json:"awards,omitempty"`
	Production    string `json:"production,omitempty"`
	Rated         string `json:"rated,omitempty"`
	IMDbID        string `json:"imdbId,omitempty"`
	Status        string `json:"status,omitempty"`
	Network       string `json:"network,omitempty"`
	Trailer       string `json:"trailer,omitempty"`
	TotalSeasons  int    `json:"totalSeasons,omitempty"`
	TotalEpisodes int    `json:"totalEpisodes,omitempty"`
	Rank          int    `json:"rank,omitempty"`
	Source        string `json:"source,omitempty"`
}

// YearValue returns the release year when one is known.
func (m MediaItem) YearValue() (int, bool) {
	if m.Year == nil || *m.Year <= 0 {
		return 0, false
	}
	return *m.Year, true
}

type Episode struct {
	ID       string  `json:"id"`
	Season   int     `json:"season"`
	Number   int     `json:"episode"`
	Title    string  `json:"title"`
	Overview string  `json:"overview"`
	AirDate  *string `json:"airDate"`
	ImageURL *string `json:"imageUrl"`
}

// PlaceholderMovie is served when a movie lookup cannot produce a record.
func PlaceholderMovie(id string) MediaItem {
	return MediaItem{
		ID:       id,
		Title:    "Movie " + id,
		Overview: "Information could not be retrieved. The id may be invalid or the provider unavailable.",
		Type:     MediaTypeUnknown,
		Genres:   []Genre{},
		Cast:     []CastMember{},
		Status:   "Unknown",
	}
}
