package omdb

import (
	"strings"
	"testing"

	"mediahub/discoveryservice/internal/domain"
)

// ---------------------------------------------------------------------------
// Search records
// ---------------------------------------------------------------------------

func TestNormalizeSearchRecordMapsFields(t *testing.T) {
	item, ok := NormalizeSearchRecord(&SearchRecord{
		Title:  "Breaking Bad",
		Year:   "2008–2013",
		IMDbID: "tt0903747",
		Type:   "series",
		Poster: "https://m.media-amazon.com/images/bb.jpg",
	}, 0)
	if !ok {
		t.Fatal("expected record to normalize")
	}
	if item.ID != "tt0903747" || item.Title != "Breaking Bad" {
		t.Fatalf("unexpected id/title: %q %q", item.ID, item.Title)
	}
	if item.Type != domain.MediaTypeTV {
		t.Fatalf("expected tv type, got %q", item.Type)
	}
	if year, ok := item.YearValue(); !ok || year != 2008 {
		t.Fatalf("expected year 2008, got %v", item.Year)
	}
	if item.PosterURL == nil || !strings.HasSuffix(*item.PosterURL, "bb.jpg") {
		t.Fatalf("unexpected poster: %v", item.PosterURL)
	}
	if len(item.Genres) != 2 || item.Genres[0].Name != "drama" || item.Genres[1].Name != "series" {
		t.Fatalf("expected default tv genres, got %+v", item.Genres)
	}
	if item.Genres[1].ID != "tt0903747-genre-1" {
		t.Fatalf("expected index scoped genre id, got %q", item.Genres[1].ID)
	}
	if item.Cast == nil {
		t.Fatal("expected empty, non-nil cast")
	}
}

func TestNormalizeSearchRecordPosterNotAvailable(t *testing.T) {
	item, _ := NormalizeSearchRecord(&SearchRecord{Title: "Heat", IMDbID: "tt0113277", Poster: "N/A", Type: "movie"}, 0)
	if item.PosterURL != nil {
		t.Fatalf("expected nil poster for N/A, got %v", *item.PosterURL)
	}
}

func TestNormalizeSearchRecordTitleFallbacks(t *testing.T) {
	withID, _ := NormalizeSearchRecord(&SearchRecord{IMDbID: "tt1", Type: "movie"}, 4)
	if withID.Title != "Movie tt1" {
		t.Fatalf("expected id placeholder title, got %q", withID.Title)
	}
	showWithID, _ := NormalizeSearchRecord(&SearchRecord{IMDbID: "tt2", Type: "series"}, 4)
	if showWithID.Title != "Show tt2" {
		t.Fatalf("expected show placeholder title, got %q", showWithID.Title)
	}
	bare, _ := NormalizeSearchRecord(&SearchRecord{Type: "movie"}, 4)
	if bare.Title != "Untitled 5" {
		t.Fatalf("expected index placeholder title, got %q", bare.Title)
	}
	if bare.ID == "" {
		t.Fatal("expected synthetic id")
	}
}

func TestNormalizeSearchRecordNil(t *testing.T) {
	if _, ok := NormalizeSearchRecord(nil, 0); ok {
		t.Fatal("expected nil record to be skipped")
	}
}

func TestNormalizeSearchRecordSyntheticIDStable(t *testing.T) {
	record := &SearchRecord{Title: "No Id Movie", Year: "2001", Type: "movie"}
	first, _ := NormalizeSearchRecord(record, 2)
	second, _ := NormalizeSearchRecord(record, 2)
	if first.ID != second.ID {
		t.Fatalf("expected stable synthetic id, got %q and %q", first.ID, second.ID)
	}
}

func TestInferGenres(t *testing.T) {
	got := InferGenres("War of the Worlds", domain.MediaTypeMovie)
	if strings.Join(got, ",") != "action,drama" {
		t.Fatalf("unexpected genres for war title: %v", got)
	}
	got = InferGenres("Superhero Crime Family", domain.MediaTypeMovie)
	want := "crime,thriller,family,comedy,action,adventure,fantasy"
	if strings.Join(got, ",") != want {
		t.Fatalf("expected %s, got %v", want, got)
	}
	got = InferGenres("Heat", domain.MediaTypeMovie)
	if strings.Join(got, ",") != "drama,movie" {
		t.Fatalf("expected defaults, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Search pages
// ---------------------------------------------------------------------------

func TestFormatSearchPageEmpty(t *testing.T) {
	page := FormatSearchPage(SearchResponse{Response: "False"}, 3)
	if page.Page != 1 || page.TotalPages != 0 || page.TotalResults != 0 {
		t.Fatalf("unexpected empty page: %+v", page)
	}
	if page.Results == nil || len(page.Results) != 0 {
		t.Fatalf("expected empty non-nil results, got %v", page.Results)
	}
}

func TestFormatSearchPageTotals(t *testing.T) {
	page := FormatSearchPage(SearchResponse{
		Search:       []SearchRecord{{Title: "A", IMDbID: "tt1"}, {Title: "B", IMDbID: "tt2"}},
		TotalResults: "25",
	}, 2)
	if page.TotalPages != 3 || page.TotalResults != 25 || page.Page != 2 {
		t.Fatalf("unexpected totals: %+v", page)
	}
	if len(page.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(page.Results))
	}
}

// ---------------------------------------------------------------------------
// Title records
// ---------------------------------------------------------------------------

func TestNormalizeTitle(t *testing.T) {
	item, ok := NormalizeTitle(&TitleRecord{
		Title:      "Heat",
		Year:       "1995",
		Rated:      "R",
		Released:   "15 Dec 1995",
		Runtime:    "170 min",
		Genre:      "Action, Crime, Drama",
		Director:   "Michael Mann",
		Writer:     "N/A",
		Actors:     "Al Pacino, Robert De Niro",
		Plot:       "A group of high-end professional thieves...",
		Poster:     "https://img/heat.jpg",
		IMDbRating: "8.3",
		IMDbVotes:  "712,441",
		IMDbID:     "tt0113277",
		Type:       "movie",
	})
	if !ok {
		t.Fatal("expected record to normalize")
	}
	if item.Runtime != 170 || item.VoteCount != 712441 || item.VoteAverage != 8.3 {
		t.Fatalf("unexpected numbers: runtime=%d votes=%d rating=%v", item.Runtime, item.VoteCount, item.VoteAverage)
	}
	if item.ReleaseDate == nil || *item.ReleaseDate != "1995-12-15" {
		t.Fatalf("unexpected release date: %v", item.ReleaseDate)
	}
	if len(item.Genres) != 3 || item.Genres[2].ID != "tt0113277-genre-2" || item.Genres[2].Name != "Drama" {
		t.Fatalf("unexpected genres: %+v", item.Genres)
	}
	if len(item.Cast) != 2 || item.Cast[1].ID != "tt0113277-cast-1" || item.Cast[1].Name != "Robert De Niro" {
		t.Fatalf("unexpected cast: %+v", item.Cast)
	}
	if item.Writer != "" {
		t.Fatalf("expected N/A writer to be empty, got %q", item.Writer)
	}
	if item.Status != "Released" || item.Director != "Michael Mann" {
		t.Fatalf("unexpected extras: %+v", item)
	}
}

func TestNormalizeTitleUnparsableNumbers(t *testing.T) {
	item, _ := NormalizeTitle(&TitleRecord{Title: "X", IMDbID: "tt9", Runtime: "N/A", IMDbVotes: "N/A", IMDbRating: "N/A"})
	if item.Runtime != 0 || item.VoteCount != 0 || item.VoteAverage != 0 {
		t.Fatalf("expected zero defaults, got %+v", item)
	}
}

func TestFallbackTitle(t *testing.T) {
	item := FallbackTitle("tt404")
	if item.Title != "Movie tt404" || item.Type != domain.MediaTypeUnknown {
		t.Fatalf("unexpected fallback: %+v", item)
	}
}

func TestExtractIMDbID(t *testing.T) {
	if id, ok := ExtractIMDbID("movie-tt0113277"); !ok || id != "tt0113277" {
		t.Fatalf("unexpected extraction: %q %v", id, ok)
	}
	if _, ok := ExtractIMDbID("12345"); ok {
		t.Fatal("expected no imdb id")
	}
}
