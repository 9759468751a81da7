package openlibrary

import (
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
	defaultBaseURL   = "https://openlibrary.org"
	defaultCoversURL = "https://covers.openlibrary.org"
	providerName     = "openlibrary"

	searchFetchLimit = 100
	searchFields     = "key,title,subtitle,author_name,cover_i,first_publish_year,subject,first_sentence"
)

type Config struct {
	BaseURL   string
	CoversURL string
	UserAgent string
	Client    *http.Client
	Redis     *redis.Client
	CacheTTL  time.Duration
	RateLimit float64
}

type Client struct {
	coversURL string
	fetcher   *common.Fetcher
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	coversURL := strings.TrimRight(strings.TrimSpace(cfg.CoversURL), "/")
	if coversURL == "" {
		coversURL = defaultCoversURL
	}
	return &Client{
		coversURL: coversURL,
		fetcher: common.NewFetcher(common.FetcherConfig{
			Name:      providerName,
			BaseURL:   baseURL,
			Client:    cfg.Client,
			UserAgent: cfg.UserAgent,
			Redis:     cfg.Redis,
			CacheTTL:  cfg.CacheTTL,
			RateLimit: cfg.RateLimit,
		}),
	}
}

func (c *Client) Enabled() bool {
	return c != nil
}

// SearchDocs runs search.json. Sort is optional.
func (c *Client) SearchDocs(ctx context.Context, query, sort string, fullText bool) (SearchResponse, error) {
	params := url.Values{
		"q":      {strings.TrimSpace(query)},
		"fields": {searchFields},
		"limit":  {strconv.Itoa(searchFetchLimit)},
	}
	if sort != "" {
		params.Set("sort", sort)
	}
	if fullText {
		params.Set("has_fulltext", "true")
	}
	body, err := c.fetcher.Get(ctx, "/search.json", params)
	if err != nil {
		return SearchResponse{}, err
	}
	var response SearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return SearchResponse{}, fmt.Errorf("openlibrary decode search: %w", err)
	}
	return response, nil
}

func (c *Client) Work(ctx context.Context, id string) (Work, error) {
	body, err := c.fetcher.Get(ctx, "/works/"+url.PathEscape(strings.TrimSpace(id))+".json", nil)
	if err != nil {
		if common.IsNotFound(err) {
			return Work{}, fmt.Errorf("%w: openlibrary work %s", domain.ErrNotFound, id)
		}
		return Work{}, err
	}
	var work Work
	if err := json.Unmarshal(body, &work); err != nil {
		return Work{}, fmt.Errorf("openlibrary decode work: %w", err)
	}
	return work, nil
}

func (c *Client) coverURL(coverID int, size string) string {
	if coverID <= 0 {
		return placeholderCover
	}
	return c.coversURL + "/b/id/" + strconv.Itoa(coverID) + "-" + size + ".jpg"
}
