package simkl

import (
	"encoding/json"
	"strings"
	"testing"

	"mediahub/discoveryservice/internal/domain"
)

func decodeRecord(t *testing.T, raw string) *Record {
	t.Helper()
	var record Record
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		t.Fatalf("decode record: %v", err)
	}
	return &record
}

// ---------------------------------------------------------------------------
// Movies
// ---------------------------------------------------------------------------

func TestNormalizeMovieFlatRecord(t *testing.T) {
	record := decodeRecord(t, `{
		"title": "Inception",
		"year": 2010,
		"released": "2010-07-16",
		"overview": "A thief who steals corporate secrets...",
		"poster": "74/74415673dcdc9cdd",
		"fanart": "12/12ab",
		"ids": {"simkl": 53536, "slug": "inception", "imdb": "tt1375666"},
		"genres": ["Action", "Science Fiction"],
		"cast": [{"name": "Leonardo DiCaprio", "character": "Cobb", "image": "p/1"}, {"character": "Extra"}],
		"runtime": 148,
		"ratings": {"simkl": {"rating": 8.5, "votes": 12000, "rank": 12}}
	}`)
	item, ok := NormalizeMovie(record, 0)
	if !ok {
		t.Fatal("expected movie to normalize")
	}
	if item.ID != "53536" || item.Title != "Inception" || item.Type != domain.MediaTypeMovie {
		t.Fatalf("unexpected identity: %+v", item)
	}
	if item.PosterURL == nil || *item.PosterURL != "https://wsrv.nl/?url=https://simkl.in/posters/74/74415673dcdc9cdd_c.webp" {
		t.Fatalf("unexpected poster: %v", item.PosterURL)
	}
	if item.BackdropURL == nil || !strings.HasSuffix(*item.BackdropURL, "/fanart/12/12ab_medium.webp") {
		t.Fatalf("unexpected backdrop: %v", item.BackdropURL)
	}
	if item.ReleaseDate == nil || *item.ReleaseDate != "2010-07-16" {
		t.Fatalf("unexpected release date: %v", item.ReleaseDate)
	}
	if len(item.Genres) != 2 || item.Genres[1].ID != "53536-genre-1" {
		t.Fatalf("unexpected genres: %+v", item.Genres)
	}
	if len(item.Cast) != 2 || item.Cast[1].Name != "Unknown Actor" || item.Cast[1].ProfileURL != nil {
		t.Fatalf("unexpected cast: %+v", item.Cast)
	}
	if item.Cast[0].ProfileURL == nil || !strings.Contains(*item.Cast[0].ProfileURL, "/people/p/1_c.webp") {
		t.Fatalf("unexpected profile url: %v", item.Cast[0].ProfileURL)
	}
	if item.Runtime != 148 || item.VoteAverage != 8.5 || item.VoteCount != 12000 || item.Rank != 12 {
		t.Fatalf("unexpected numbers: %+v", item)
	}
	if item.IMDbID != "tt1375666" {
		t.Fatalf("unexpected imdb id: %q", item.IMDbID)
	}
}

func TestNormalizeMovieNestedRecord(t *testing.T) {
	record := decodeRecord(t, `{
		"movie": {"title": "Dune", "year": 2021, "ids": {"simkl": 100}},
		"released": "2021-10-22"
	}`)
	item, _ := NormalizeMovie(record, 0)
	if item.Title != "Dune" || item.ID != "100" {
		t.Fatalf("unexpected identity: %q %q", item.ID, item.Title)
	}
	if item.ReleaseDate == nil || *item.ReleaseDate != "2021-10-22" {
		t.Fatalf("expected outer released date, got %v", item.ReleaseDate)
	}
	if item.Rank != unknownRank {
		t.Fatalf("expected default rank, got %d", item.Rank)
	}
}

func TestNormalizeMovieTitleFallbacks(t *testing.T) {
	slug, _ := NormalizeMovie(decodeRecord(t, `{"ids": {"simkl": 7, "slug": "the-dark-knight"}}`), 0)
	if slug.Title != "The Dark Knight" {
		t.Fatalf("expected slug title, got %q", slug.Title)
	}
	named, _ := NormalizeMovie(decodeRecord(t, `{"name": "Named", "ids": {"simkl": 8}}`), 0)
	if named.Title != "Named" {
		t.Fatalf("expected name title, got %q", named.Title)
	}
	bare, _ := NormalizeMovie(decodeRecord(t, `{"movie_id": 99}`), 0)
	if bare.Title != "Movie 99" || bare.ID != "99" {
		t.Fatalf("expected placeholder, got %q %q", bare.ID, bare.Title)
	}
}

func TestNormalizeMovieSyntheticIDDeterministic(t *testing.T) {
	raw := `{"title": "No Ids", "year": 1999}`
	first, _ := NormalizeMovie(decodeRecord(t, raw), 3)
	second, _ := NormalizeMovie(decodeRecord(t, raw), 3)
	if first.ID == "" || first.ID != second.ID {
		t.Fatalf("expected stable synthetic id, got %q and %q", first.ID, second.ID)
	}
	other, _ := NormalizeMovie(decodeRecord(t, `{"title": "Other", "year": 1999}`), 3)
	if other.ID == first.ID {
		t.Fatal("expected different titles to get different ids")
	}
}

func TestNormalizeMovieReleaseDateFallbacks(t *testing.T) {
	aired, _ := NormalizeMovie(decodeRecord(t, `{"title": "A", "first_aired": "2008-01-20T02:00:00Z"}`), 0)
	if aired.ReleaseDate == nil || *aired.ReleaseDate != "2008-01-20" {
		t.Fatalf("expected first_aired date, got %v", aired.ReleaseDate)
	}
	if year, ok := aired.YearValue(); !ok || year != 2008 {
		t.Fatalf("expected year derived from date, got %v", aired.Year)
	}
	yearOnly, _ := NormalizeMovie(decodeRecord(t, `{"title": "B", "year": 1985}`), 0)
	if yearOnly.ReleaseDate == nil || *yearOnly.ReleaseDate != "1985-01-01" {
		t.Fatalf("expected year fallback date, got %v", yearOnly.ReleaseDate)
	}
	none, _ := NormalizeMovie(decodeRecord(t, `{"title": "C"}`), 0)
	if none.ReleaseDate != nil || none.Year != nil {
		t.Fatalf("expected null date and year, got %v %v", none.ReleaseDate, none.Year)
	}
	if none.Overview != "" || none.Genres == nil || none.Cast == nil {
		t.Fatalf("expected empty defaults, got %+v", none)
	}
}

func TestNormalizeMovieOverviewFallsBackToDescription(t *testing.T) {
	item, _ := NormalizeMovie(decodeRecord(t, `{"title": "D", "description": "desc"}`), 0)
	if item.Overview != "desc" {
		t.Fatalf("expected description overview, got %q", item.Overview)
	}
}

func TestGenresObjectKeysKeepOrder(t *testing.T) {
	record := decodeRecord(t, `{"title": "E", "ids": {"simkl": 1}, "genres": {"Drama": 1, "Crime": 2, "Action": 3}}`)
	item, _ := NormalizeMovie(record, 0)
	names := make([]string, 0, len(item.Genres))
	for _, genre := range item.Genres {
		names = append(names, genre.Name)
	}
	if strings.Join(names, ",") != "Drama,Crime,Action" {
		t.Fatalf("unexpected genre order: %v", names)
	}
}

func TestNormalizeNil(t *testing.T) {
	if _, ok := NormalizeMovie(nil, 0); ok {
		t.Fatal("expected nil movie to be skipped")
	}
	if _, ok := NormalizeShow(nil, 0); ok {
		t.Fatal("expected nil show to be skipped")
	}
}

// ---------------------------------------------------------------------------
// Shows and episodes
// ---------------------------------------------------------------------------

func TestNormalizeShowExtras(t *testing.T) {
	record := decodeRecord(t, `{
		"show": {"title": "Breaking Bad", "year": 2008, "ids": {"simkl": 11121},
			"status": "ended", "network": "AMC", "total_seasons": 5, "total_episodes": 62}
	}`)
	item, _ := NormalizeShow(record, 0)
	if item.Type != domain.MediaTypeTV || item.Title != "Breaking Bad" {
		t.Fatalf("unexpected identity: %+v", item)
	}
	if item.Status != "ended" || item.Network != "AMC" || item.TotalSeasons != 5 || item.TotalEpisodes != 62 {
		t.Fatalf("unexpected extras: %+v", item)
	}
	bare, _ := NormalizeShow(decodeRecord(t, `{"show_id": 5}`), 0)
	if bare.Title != "Show 5" {
		t.Fatalf("expected show placeholder, got %q", bare.Title)
	}
}

func TestNormalizeSearchResultRoutesByType(t *testing.T) {
	movie, _ := NormalizeSearchResult(decodeRecord(t, `{"type": "movie", "title": "M", "ids": {"simkl_id": 1}}`), 0)
	show, _ := NormalizeSearchResult(decodeRecord(t, `{"type": "tv", "title": "S", "ids": {"simkl_id": 2}}`), 1)
	if movie.Type != domain.MediaTypeMovie || show.Type != domain.MediaTypeTV {
		t.Fatalf("unexpected types: %q %q", movie.Type, show.Type)
	}
	if movie.ID != "1" || show.ID != "2" {
		t.Fatalf("unexpected ids: %q %q", movie.ID, show.ID)
	}
}

func TestNormalizeEpisode(t *testing.T) {
	episode, ok := NormalizeEpisode("11121", &EpisodeRecord{Season: 1, Episode: 3, Date: "2008-02-10T02:00:00Z", Image: "e/1"}, 2)
	if !ok {
		t.Fatal("expected episode")
	}
	if episode.ID != "11121-episode-2" || episode.Title != "Episode 3" {
		t.Fatalf("unexpected episode: %+v", episode)
	}
	if episode.AirDate == nil || *episode.AirDate != "2008-02-10" {
		t.Fatalf("unexpected air date: %v", episode.AirDate)
	}
	if episode.ImageURL == nil || !strings.HasSuffix(*episode.ImageURL, "/episodes/e/1_w.webp") {
		t.Fatalf("unexpected image: %v", episode.ImageURL)
	}
}
