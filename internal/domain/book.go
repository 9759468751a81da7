package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

const unknownBookYear = "Unknown"

// BookYear is a first-publication year that encodes as a number when known
// and as the string "Unknown" otherwise.
type BookYear struct {
	Value int
}

func KnownBookYear(year int) BookYear {
	return BookYear{Value: year}
}

func (y BookYear) Known() bool {
	return y.Value > 0
}

func (y BookYear) MarshalJSON() ([]byte, error) {
	if !y.Known() {
		return json.Marshal(unknownBookYear)
	}
	return []byte(strconv.Itoa(y.Value)), nil
}

func (y *BookYear) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || data[0] == '"' || bytes.Equal(data, []byte("null")) {
		var raw string
		_ = json.Unmarshal(data, &raw)
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			y.Value = 0
			return nil
		}
		y.Value = parsed
		return nil
	}
	var value int
	if err := json.Unmarshal(data, &value); err != nil {
		return err
	}
	y.Value = value
	return nil
}

type BookItem struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	CoverURL    string   `json:"coverUrl"`
	Year        BookYear `json:"year"`
	Genre       string   `json:"genre"`
	Description string   `json:"description"`
	Subjects    []string `json:"subjects,omitempty"`
	Covers      []string `json:"covers,omitempty"`
}

type BookPage struct {
	Books []BookItem `json:"books"`
	Total int        `json:"total"`
	Page  int        `json:"page"`
	Limit int        `json:"limit"`
}

type BookGenre struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
