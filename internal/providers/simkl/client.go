package simkl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"mediahub/discoveryservice/internal/domain"
	"mediahub/discoveryservice/internal/providers/common"
)

const (
	defaultBaseURL = "https://api.simkl.com"
	providerName   = "simkl"
	listLimit      = 20
)

type Config struct {
	ClientID  string
	BaseURL   string
	UserAgent string
	Client    *http.Client
	Redis     *redis.Client
	CacheTTL  time.Duration
	RateLimit float64
}

type Client struct {
	clientID string
	fetcher  *common.Fetcher
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	clientID := strings.TrimSpace(cfg.ClientID)
	return &Client{
		clientID: clientID,
		fetcher: common.NewFetcher(common.FetcherConfig{
			Name:      providerName,
			BaseURL:   baseURL,
			Client:    cfg.Client,
			UserAgent: cfg.UserAgent,
			Headers:   map[string]string{"simkl-api-key": clientID},
			Validate:  validateBody,
			Redis:     cfg.Redis,
			CacheTTL:  cfg.CacheTTL,
			RateLimit: cfg.RateLimit,
		}),
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.clientID != ""
}

func (c *Client) TrendingMovies(ctx context.Context, page int) ([]Record, error) {
	return c.list(ctx, "/movies/trending/", pageParams(page))
}

func (c *Client) TrendingShows(ctx context.Context, page int) ([]Record, error) {
	return c.list(ctx, "/tv/trending/", pageParams(page))
}

func (c *Client) AnticipatedMovies(ctx context.Context, page int) ([]Record, error) {
	params := pageParams(page)
	params.Set("extended", "full")
	return c.list(ctx, "/movies/anticipated/", params)
}

// SearchText searches movies and shows by free text.
func (c *Client) SearchText(ctx context.Context, query string, page int) ([]Record, error) {
	params := pageParams(page)
	params.Set("q", strings.TrimSpace(query))
	return c.list(ctx, "/search/text", params)
}

func (c *Client) MovieSummary(ctx context.Context, id string) (Record, error) {
	return c.summary(ctx, "/movies/summary", id)
}

func (c *Client) ShowSummary(ctx context.Context, id string) (Record, error) {
	return c.summary(ctx, "/tv/summary", id)
}

func (c *Client) ShowEpisodes(ctx context.Context, id string) ([]EpisodeRecord, error) {
	body, err := c.get(ctx, "/tv/episodes", url.Values{
		"simkl":    {strings.TrimSpace(id)},
		"extended": {"full"},
	})
	if err != nil {
		return nil, err
	}
	if isEmptyBody(body) {
		return []EpisodeRecord{}, nil
	}
	var episodes []EpisodeRecord
	if err := json.Unmarshal(body, &episodes); err != nil {
		return nil, fmt.Errorf("simkl decode episodes: %w", err)
	}
	return episodes, nil
}

func (c *Client) summary(ctx context.Context, path, id string) (Record, error) {
	body, err := c.get(ctx, path, url.Values{
		"simkl":    {strings.TrimSpace(id)},
		"extended": {"full"},
	})
	if err != nil {
		if common.IsNotFound(err) {
			return Record{}, fmt.Errorf("%w: simkl %s", domain.ErrNotFound, id)
		}
		return Record{}, err
	}
	if isEmptyBody(body) {
		return Record{}, fmt.Errorf("%w: simkl %s", domain.ErrNotFound, id)
	}
	var record Record
	if err := json.Unmarshal(body, &record); err != nil {
		return Record{}, fmt.Errorf("simkl decode summary: %w", err)
	}
	return record, nil
}

func (c *Client) list(ctx context.Context, path string, params url.Values) ([]Record, error) {
	body, err := c.get(ctx, path, params)
	if err != nil {
		return nil, err
	}
	if isEmptyBody(body) {
		return []Record{}, nil
	}
	var records []Record
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("simkl decode %s: %w", path, err)
	}
	return records, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	if !c.Enabled() {
		return nil, common.ErrNotConfigured
	}
	params.Set("client_id", c.clientID)
	return c.fetcher.Get(ctx, path, params)
}

func pageParams(page int) url.Values {
	if page < 1 {
		page = 1
	}
	return url.Values{
		"page":  {strconv.Itoa(page)},
		"limit": {strconv.Itoa(listLimit)},
	}
}

func isEmptyBody(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// validateBody rejects object bodies that carry an error marker. Lists
// and summaries never have a top level "error" key.
func validateBody(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}
	var payload errorBody
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return fmt.Errorf("simkl decode body: %w", err)
	}
	if payload.Error == "" {
		return nil
	}
	return common.Rejected(providerName, common.FirstNonEmpty(payload.Message, payload.Error))
}
