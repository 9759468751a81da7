package common

import (
	"strings"
	"testing"
)

func TestFirstNonEmptySkipsBlankAndNotAvailable(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "N/A", "Heat", "Ronin"); got != "Heat" {
		t.Fatalf("expected Heat, got %q", got)
	}
	if got := FirstNonEmpty("", "N/A"); got != "" {
		t.Fatalf("expected empty result, got %q", got)
	}
}

func TestFirstPositive(t *testing.T) {
	if got := FirstPositive(0, -1, 7, 9); got != 7 {
		t.Fatalf("expected 7, got %d", got)
	}
	if got := FirstPositive(); got != 0 {
		t.Fatalf("expected 0, got %d", got)
	}
}

func TestStringPtr(t *testing.T) {
	if StringPtr("") != nil || StringPtr("N/A") != nil {
		t.Fatal("expected nil for empty and N/A values")
	}
	if value := StringPtr(" https://x/p.jpg "); value == nil || *value != "https://x/p.jpg" {
		t.Fatalf("unexpected pointer value: %v", value)
	}
}

func TestTitleFromSlug(t *testing.T) {
	cases := map[string]string{
		"the-dark-knight": "The Dark Knight",
		"heat":            "Heat",
		"--matrix--":      "Matrix",
		"":                "",
	}
	for input, want := range cases {
		if got := TitleFromSlug(input); got != want {
			t.Errorf("TitleFromSlug(%q) = %q, want %q", input, got, want)
		}
	}
}

// ---------------------------------------------------------------------------
// SyntheticID
// ---------------------------------------------------------------------------

func TestSyntheticIDIsDeterministic(t *testing.T) {
	first := SyntheticID("movie", 3, "Heat", "1995")
	second := SyntheticID("movie", 3, "Heat", "1995")
	if first != second {
		t.Fatalf("expected stable id, got %q and %q", first, second)
	}
	if !strings.HasPrefix(first, "movie-") {
		t.Fatalf("expected prefix, got %q", first)
	}
}

func TestSyntheticIDIgnoresIndexWhenStableFieldsExist(t *testing.T) {
	if SyntheticID("movie", 0, "Heat", "1995") != SyntheticID("movie", 9, "heat ", "1995") {
		t.Fatal("expected index and case to be ignored when title is present")
	}
}

func TestSyntheticIDFallsBackToIndex(t *testing.T) {
	a := SyntheticID("show", 0)
	b := SyntheticID("show", 1)
	if a == b {
		t.Fatal("expected different ids for different indexes without stable fields")
	}
	if a != SyntheticID("show", 0, "", " ") {
		t.Fatal("expected blank fields to behave like missing fields")
	}
}

func TestSyntheticIDSeparatesPrefixes(t *testing.T) {
	if SyntheticID("movie", 0, "Fargo") == SyntheticID("show", 0, "Fargo") {
		t.Fatal("expected type prefix to be part of the hash")
	}
}

func TestChildID(t *testing.T) {
	if got := ChildID("tt0113277", "genre", 2); got != "tt0113277-genre-2" {
		t.Fatalf("unexpected child id %q", got)
	}
}
