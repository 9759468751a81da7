package domain

import (
	"strings"
	"time"
)

type Category string

const (
	CategoryMovies Category = "movies"
	CategoryBooks  Category = "books"
	CategorySongs  Category = "songs"
)

// Categories lists the favorite categories in display order.
func Categories() []Category {
	return []Category{CategoryMovies, CategoryBooks, CategorySongs}
}

// ParseCategory accepts the canonical category names plus singular and
// media-type aliases used by clients.
func ParseCategory(raw string) (Category, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "movies", "movie", "tv", "shows", "show":
		return CategoryMovies, true
	case "books", "book":
		return CategoryBooks, true
	case "songs", "song", "music", "tracks", "track", "albums", "album":
		return CategorySongs, true
	default:
		return "", false
	}
}

// FavoriteEntry is one saved item. Item holds the normalized record as a
// JSON object with null fields removed.
type FavoriteEntry struct {
	ID       string         `json:"id"`
	UserID   string         `json:"userId"`
	ItemID   string         `json:"itemId"`
	Category Category       `json:"category"`
	Item     map[string]any `json:"item"`
	AddedAt  time.Time      `json:"addedAt"`
}

type FavoriteFilter struct {
	UserID   string
	Category Category
}

// FavoriteList groups a user's entries by category.
type FavoriteList struct {
	Movies []FavoriteEntry `json:"movies"`
	Books  []FavoriteEntry `json:"books"`
	Songs  []FavoriteEntry `json:"songs"`
}

func NewFavoriteList() FavoriteList {
	return FavoriteList{
		Movies: []FavoriteEntry{},
		Books:  []FavoriteEntry{},
		Songs:  []FavoriteEntry{},
	}
}

func (l *FavoriteList) Add(entry FavoriteEntry) {
	switch entry.Category {
	case CategoryMovies:
		l.Movies = append(l.Movies, entry)
	case CategoryBooks:
		l.Books = append(l.Books, entry)
	case CategorySongs:
		l.Songs = append(l.Songs, entry)
	}
}

func (l FavoriteList) Len() int {
	return len(l.Movies) + len(l.Books) + len(l.Songs)
}
