package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/providers/common"
)

const (
	defaultBaseURL = "https://www.omdbapi.com"
	providerName   = "omdb"

	// PageSize is the fixed number of records OMDb returns per search page.
	PageSize = 10
)

type SearchKind string

const (
	KindMovie  SearchKind = "movie"
	KindSeries SearchKind = "series"
)

var imdbIDPattern = regexp.MustCompile(`tt\d+`)

type Config struct {
	APIKey    string
	BaseURL   string
	UserAgent string
	Client    *http.Client
	Redis     *redis.Client
	CacheTTL  time.Duration
	RateLimit float64
}

type Client struct {
	apiKey  string
	fetcher *common.Fetcher
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey: strings.TrimSpace(cfg.APIKey),
		fetcher: common.NewFetcher(common.FetcherConfig{
			Name:      providerName,
			BaseURL:   baseURL,
			Client:    cfg.Client,
			UserAgent: cfg.UserAgent,
			Validate:  validateEnvelope,
			Redis:     cfg.Redis,
			CacheTTL:  cfg.CacheTTL,
			RateLimit: cfg.RateLimit,
		}),
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.apiKey != ""
}

// Search runs one OMDb search page. Year is forwarded only when it is an
// exact four digit year. A "not found" answer is an empty page, not an
// error.
func (c *Client) Search(ctx context.Context, query string, kind SearchKind, page int, year string) (SearchResponse, error) {
	if !c.Enabled() {
		return SearchResponse{}, common.ErrNotConfigured
	}
	if page < 1 {
		page = 1
	}
	params := url.Values{
		"apikey": {c.apiKey},
		"s":      {strings.TrimSpace(query)},
		"type":   {string(kind)},
		"page":   {strconv.Itoa(page)},
	}
	if common.IsExactYear(year) {
		params.Set("y", strings.TrimSpace(year))
	}

	body, err := c.fetcher.Get(ctx, "/", params)
	if err != nil {
		return SearchResponse{}, err
	}
	var response SearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return SearchResponse{}, fmt.Errorf("omdb decode search: %w", err)
	}
	if response.Response == "False" {
		return SearchResponse{Response: "False", TotalResults: "0"}, nil
	}
	return response, nil
}

// Title fetches the full record for an IMDb id.
func (c *Client) Title(ctx context.Context, imdbID string) (TitleRecord, error) {
	if !c.Enabled() {
		return TitleRecord{}, common.ErrNotConfigured
	}
	params := url.Values{
		"apikey": {c.apiKey},
		"i":      {strings.TrimSpace(imdbID)},
		"plot":   {"full"},
	}
	body, err := c.fetcher.Get(ctx, "/", params)
	if err != nil {
		return TitleRecord{}, err
	}
	var record TitleRecord
	if err := json.Unmarshal(body, &record); err != nil {
		return TitleRecord{}, fmt.Errorf("omdb decode title: %w", err)
	}
	if record.Response == "False" {
		return TitleRecord{}, fmt.Errorf("%w: omdb title %s", domain.ErrNotFound, imdbID)
	}
	return record, nil
}

// ExtractIMDbID finds an IMDb id inside values such as "movie-tt0113277".
func ExtractIMDbID(raw string) (string, bool) {
	match := imdbIDPattern.FindString(raw)
	return match, match != ""
}

type envelope struct {
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// validateEnvelope rejects OMDb bodies that carry Response "False" unless
// the message only means the query matched nothing.
func validateEnvelope(body []byte) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("omdb decode envelope: %w", err)
	}
	if env.Response != "False" {
		return nil
	}
	if isEmptyResultMessage(env.Error) {
		return nil
	}
	return common.Rejected(providerName, env.Error)
}

func isEmptyResultMessage(message string) bool {
	lower := strings.ToLower(message)
	return strings.Contains(lower, "not found") ||
		strings.Contains(lower, "too many results") ||
		strings.Contains(lower, "incorrect imdb id")
}
