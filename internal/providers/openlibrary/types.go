package openlibrary

import (
	"bytes"
	"encoding/json"
)

// Text decodes the shapes Open Library uses for prose: a plain string, a
// {"type": ..., "value": ...} object or a list of either. Lists keep every
// entry in order.
type Text []string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = nil
		return nil
	}
	switch data[0] {
	case '"':
		var value string
		if err := json.Unmarshal(data, &value); err != nil {
			return err
		}
		*t = Text{value}
	case '{':
		var typed struct {
			Value string `json:"value"`
		}
		if err := json.Unmarshal(data, &typed); err != nil {
			return err
		}
		*t = Text{typed.Value}
	case '[':
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		var flat Text
		for _, item := range items {
			flat = append(flat, item...)
		}
		*t = flat
	default:
		*t = nil
	}
	return nil
}

// First returns the first entry or "".
func (t Text) First() string {
	if len(t) == 0 {
		return ""
	}
	return t[0]
}

// Doc is one search.json hit.
type Doc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	Subtitle         string   `json:"subtitle"`
	AuthorName       []string `json:"author_name"`
	CoverID          int      `json:"cover_i"`
	FirstPublishYear int      `json:"first_publish_year"`
	Subject          []string `json:"subject"`
	FirstSentence    Text     `json:"first_sentence"`
}

type SearchResponse struct {
	NumFound int   `json:"numFound"`
	Docs     []Doc `json:"docs"`
}

type Created struct {
	Value string `json:"value"`
}

// Work is the /works/{id}.json record.
type Work struct {
	Key         string   `json:"key"`
	Title       string   `json:"title"`
	Description Text     `json:"description"`
	Subjects    []string `json:"subjects"`
	Covers      []int    `json:"covers"`
	Created     *Created `json:"created"`
}
