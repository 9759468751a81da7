package domain

import (
	"strings"
	"time"
)

type TitleType string

const (
	TitleTypeAll   TitleType = "all"
	TitleTypeMovie TitleType = "movie"
	TitleTypeTV    TitleType = "tv"
)

// NormalizeTitleType maps the accepted spellings of the search type
// parameter onto TitleType. An empty value means all.
func NormalizeTitleType(raw string) (TitleType, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "all":
		return TitleTypeAll, true
	case "movie", "movies":
		return TitleTypeMovie, true
	case "tv", "series", "show", "shows":
		return TitleTypeTV, true
	default:
		return "", false
	}
}

// Includes reports whether a search of type t covers media of type m.
func (t TitleType) Includes(m MediaType) bool {
	switch t {
	case TitleTypeAll:
		return m == MediaTypeMovie || m == MediaTypeTV
	case TitleTypeMovie:
		return m == MediaTypeMovie
	case TitleTypeTV:
		return m == MediaTypeTV
	default:
		return false
	}
}

type TitleSearchRequest struct {
	Query   string
	Type    TitleType
	Genre   string
	Year    string
	Page    int
	NoCache bool
}

// ProviderQuery is the request a single title provider receives. Year is
// either empty or an exact four digit year.
type ProviderQuery struct {
	Query string
	Year  string
	Page  int
}

type ProviderPage struct {
	Items        []MediaItem
	TotalResults int
}

type MediaPage struct {
	Page                 int              `json:"page"`
	Results              []MediaItem      `json:"results"`
	TotalPages           int              `json:"totalPages"`
	TotalResults         int              `json:"totalResults"`
	Filtered             bool             `json:"filtered"`
	UpstreamTotalResults int              `json:"upstreamTotalResults"`
	Providers            []ProviderStatus `json:"providers,omitempty"`
}

// EmptyMediaPage is the envelope returned when nothing could be fetched.
func EmptyMediaPage(page int) MediaPage {
	if page < 1 {
		page = 1
	}
	return MediaPage{Page: page, Results: []MediaItem{}}
}

type ProviderInfo struct {
	Name    string `json:"name"`
	Label   string `json:"label"`
	Kind    string `json:"kind"`
	Enabled bool   `json:"enabled"`
}

type ProviderStatus struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Count int    `json:"count"`
	Error string `json:"error,omitempty"`
}

type ProviderDiagnostics struct {
	Name                string     `json:"name"`
	Label               string     `json:"label"`
	Kind                string     `json:"kind"`
	Enabled             bool       `json:"enabled"`
	ConsecutiveFailures int        `json:"consecutiveFailures"`
	BlockedUntil        *time.Time `json:"blockedUntil,omitempty"`
	LastError           string     `json:"lastError,omitempty"`
	LastSuccessAt       *time.Time `json:"lastSuccessAt,omitempty"`
	LastFailureAt       *time.Time `json:"lastFailureAt,omitempty"`
	LastLatencyMS       int64      `json:"lastLatencyMs,omitempty"`
	LastTimeout         bool       `json:"lastTimeout,omitempty"`
	LastOperation       string     `json:"lastOperation,omitempty"`
	TotalRequests       int64      `json:"totalRequests,omitempty"`
	TotalFailures       int64      `json:"totalFailures,omitempty"`
	TimeoutCount        int64      `json:"timeoutCount,omitempty"`
}
