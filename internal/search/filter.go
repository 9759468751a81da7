package search

import (
	"strconv"
	"strings"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/providers/common"
)

var genreKeywords = map[string][]string{
	"action":      {"action", "adventure", "war", "western", "fight", "combat", "battle"},
	"comedy":      {"comedy", "funny", "humor", "sitcom", "laugh"},
	"drama":       {"drama", "emotional", "biography", "history"},
	"fantasy":     {"fantasy", "magic", "mythical", "supernatural"},
	"horror":      {"horror", "scary", "terror", "nightmare", "monster"},
	"mystery":     {"mystery", "detective", "crime", "thriller", "suspense"},
	"romance":     {"romance", "love", "romantic", "relationship"},
	"sci-fi":      {"sci-fi", "science fiction", "space", "future", "alien", "robot"},
	"thriller":    {"thriller", "suspense", "tension", "crime"},
	"documentary": {"documentary", "real", "true story", "history"},
	"animation":   {"animation", "cartoon", "animated", "anime"},
	"family":      {"family", "children", "kids", "child-friendly"},
	"crime":       {"crime", "criminal", "detective", "police", "mafia", "gangster"},
	"adventure":   {"adventure", "quest", "journey", "exploration"},
	"superhero":   {"superhero", "hero", "comic", "marvel", "dc"},
}

const (
	YearBucket2010s = "2010s"
	YearBucket2000s = "2000s"
	YearBucket1990s = "1990s"
	YearBucketOlder = "older"
)

// GenreKeywords expands a genre filter. Unknown genres expand to
// themselves.
func GenreKeywords(genre string) []string {
	genre = strings.ToLower(strings.TrimSpace(genre))
	if keywords, ok := genreKeywords[genre]; ok {
		return keywords
	}
	if genre == "" {
		return nil
	}
	return []string{genre}
}

// MatchesGenre reports whether any of the item's genre names contains a
// keyword. Items without genres match on title or type instead.
func MatchesGenre(item domain.MediaItem, genre string) bool {
	keywords := GenreKeywords(genre)
	if len(keywords) == 0 {
		return true
	}
	if len(item.Genres) == 0 {
		title := strings.ToLower(item.Title)
		for _, keyword := range keywords {
			if strings.Contains(title, keyword) || string(item.Type) == keyword {
				return true
			}
		}
		return false
	}
	for _, g := range item.Genres {
		name := strings.ToLower(g.Name)
		for _, keyword := range keywords {
			if strings.Contains(name, keyword) {
				return true
			}
		}
	}
	return false
}

// IsYearFilter reports whether raw is an exact year or a decade bucket.
func IsYearFilter(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case YearBucket2010s, YearBucket2000s, YearBucket1990s, YearBucketOlder:
		return true
	}
	return common.IsExactYear(raw)
}

// MatchesYear applies an exact year or decade bucket. Items without a
// known year never match.
func MatchesYear(item domain.MediaItem, filter string) bool {
	year, ok := item.YearValue()
	if !ok {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(filter)) {
	case "":
		return true
	case YearBucket2010s:
		return year >= 2010 && year <= 2019
	case YearBucket2000s:
		return year >= 2000 && year <= 2009
	case YearBucket1990s:
		return year >= 1990 && year <= 1999
	case YearBucketOlder:
		return year < 1990
	default:
		return strconv.Itoa(year) == strings.TrimSpace(filter)
	}
}

// FilterTitles keeps the items that pass both filters, preserving order.
func FilterTitles(items []domain.MediaItem, genre, year string) []domain.MediaItem {
	out := make([]domain.MediaItem, 0, len(items))
	for _, item := range items {
		if genre != "" && !MatchesGenre(item, genre) {
			continue
		}
		if year != "" && !MatchesYear(item, year) {
			continue
		}
		out = append(out, item)
	}
	return out
}
