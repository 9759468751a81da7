package simkl

import (
	"bytes"
	"encoding/json"

	"mediahub/discoveryservice/internal/providers/common"
)

type IDs struct {
	Simkl   common.FlexString `json:"simkl"`
	SimklID common.FlexString `json:"simkl_id"`
	Slug    string            `json:"slug"`
	IMDb    string            `json:"imdb"`
}

type Images struct {
	Poster string `json:"poster"`
	Fanart string `json:"fanart"`
}

type Rating struct {
	Rating float64 `json:"rating"`
	Votes  int     `json:"votes"`
	Rank   int     `json:"rank"`
}

type Ratings struct {
	Simkl *Rating `json:"simkl"`
}

type Person struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Image     string `json:"image"`
}

// Record is the raw movie or show payload. Depending on the endpoint the
// interesting fields sit at the top level or under Movie/Show.
type Record struct {
	Title         string            `json:"title"`
	Name          string            `json:"name"`
	Year          int               `json:"year"`
	Type          string            `json:"type"`
	Released      string            `json:"released"`
	FirstAired    string            `json:"first_aired"`
	Date          string            `json:"date"`
	Overview      string            `json:"overview"`
	Description   string            `json:"description"`
	Poster        string            `json:"poster"`
	Fanart        string            `json:"fanart"`
	Images        *Images           `json:"images"`
	IDs           IDs               `json:"ids"`
	MovieID       common.FlexString `json:"movie_id"`
	ShowID        common.FlexString `json:"show_id"`
	Genres        Genres            `json:"genres"`
	Cast          []Person          `json:"cast"`
	Runtime       common.FlexString `json:"runtime"`
	Ratings       *Ratings          `json:"ratings"`
	Status        string            `json:"status"`
	Network       string            `json:"network"`
	Trailer       common.FlexString `json:"trailer"`
	TotalSeasons  int               `json:"total_seasons"`
	TotalEpisodes int               `json:"total_episodes"`
	Movie         *Record           `json:"movie"`
	Show          *Record           `json:"show"`
}

type EpisodeRecord struct {
	Season      int    `json:"season"`
	Episode     int    `json:"episode"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Image       string `json:"img"`
	IDs         IDs    `json:"ids"`
}

// Genres accepts either a list of names or an object whose keys are the
// names. Key order is preserved.
type Genres []string

func (g *Genres) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == 'n' {
		*g = nil
		return nil
	}
	switch data[0] {
	case '[':
		var names []string
		if err := json.Unmarshal(data, &names); err != nil {
			return err
		}
		*g = names
		return nil
	case '{':
		decoder := json.NewDecoder(bytes.NewReader(data))
		if _, err := decoder.Token(); err != nil {
			return err
		}
		var names []string
		for decoder.More() {
			token, err := decoder.Token()
			if err != nil {
				return err
			}
			key, _ := token.(string)
			names = append(names, key)
			var skip json.RawMessage
			if err := decoder.Decode(&skip); err != nil {
				return err
			}
		}
		*g = names
		return nil
	default:
		*g = nil
		return nil
	}
}
