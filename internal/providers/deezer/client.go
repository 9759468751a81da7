package deezer

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
	defaultBaseURL = "https://api.deezer.com"
	providerName   = "deezer"

	// DefaultGenreID is the Pop radio.
	DefaultGenreID = 132

	dataNotFoundCode = 800
)

type Config struct {
	BaseURL   string
	UserAgent string
	Client    *http.Client
	Redis     *redis.Client
	CacheTTL  time.Duration
	RateLimit float64
}

type Client struct {
	fetcher *common.Fetcher
	now     func() time.Time
}

func NewClient(cfg Config) *Client {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		fetcher: common.NewFetcher(common.FetcherConfig{
			Name:      providerName,
			BaseURL:   baseURL,
			Client:    cfg.Client,
			UserAgent: cfg.UserAgent,
			Validate:  validateBody,
			Redis:     cfg.Redis,
			CacheTTL:  cfg.CacheTTL,
			RateLimit: cfg.RateLimit,
		}),
		now: time.Now,
	}
}

// Deezer needs no credentials.
func (c *Client) Enabled() bool {
	return c != nil
}

func (c *Client) getJSON(ctx context.Context, path string, params url.Values, out any) error {
	body, err := c.fetcher.Get(ctx, path, params)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("deezer decode %s: %w", path, err)
	}
	return nil
}

func fetchList[T any](ctx context.Context, c *Client, path string, params url.Values) (List[T], error) {
	var list List[T]
	if err := c.getJSON(ctx, path, params, &list); err != nil {
		return List[T]{}, err
	}
	return list, nil
}

func limitParams(limit int) url.Values {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	return params
}

type errorBody struct {
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"error"`
}

// validateBody rejects bodies carrying {"error": {...}}. Deezer answers
// unknown ids with HTTP 200 and error code 800.
func validateBody(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' || !bytes.Contains(trimmed, []byte(`"error"`)) {
		return nil
	}
	var payload errorBody
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return fmt.Errorf("deezer decode body: %w", err)
	}
	if payload.Error == nil {
		return nil
	}
	if payload.Error.Code == dataNotFoundCode {
		return fmt.Errorf("%w: deezer: %s", domain.ErrNotFound, payload.Error.Message)
	}
	return common.Rejected(providerName, common.FirstNonEmpty(payload.Error.Message, payload.Error.Type))
}
