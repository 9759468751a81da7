package common

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

const (
	defaultMaxBodyBytes = int64(2 << 20)
	redisPayloadPrefix  = "discovery:provider:"
)

var (
	ErrUpstreamStatus   = errors.New("provider returned unexpected status")
	ErrUpstreamRejected = errors.New("provider rejected request")
	ErrNotConfigured    = errors.New("provider is not configured")
	ErrBodyTooLarge     = errors.New("provider response too large")
)

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Provider string
	Status   int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s HTTP %d: %s", e.Provider, e.Status, e.Body)
}

func (e *StatusError) Unwrap() error {
	return ErrUpstreamStatus
}

// IsNotFound reports whether err is an upstream 404.
func IsNotFound(err error) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == http.StatusNotFound
}

// Rejected wraps a provider-embedded error message.
func Rejected(provider, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		message = "unknown error"
	}
	return fmt.Errorf("%w: %s: %s", ErrUpstreamRejected, provider, message)
}

type FetcherConfig struct {
	Name      string
	BaseURL   string
	Client    *http.Client
	UserAgent string
	Headers   map[string]string
	// Validate inspects a 2xx body for provider-embedded errors. Bodies it
	// rejects are neither returned nor cached.
	Validate     func(body []byte) error
	Redis        *redis.Client
	CacheTTL     time.Duration
	RateLimit    float64
	RateBurst    int
	MaxBodyBytes int64
}

// Fetcher performs GET requests against one provider with rate limiting,
// body limits and an optional Redis payload cache.
type Fetcher struct {
	name      string
	baseURL   string
	http      *http.Client
	userAgent string
	headers   map[string]string
	validate  func([]byte) error
	redis     *redis.Client
	cacheTTL  time.Duration
	limiter   *rate.Limiter
	maxBody   int64
}

func NewFetcher(cfg FetcherConfig) *Fetcher {
	httpClient := cfg.Client
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	maxBody := cfg.MaxBodyBytes
	if maxBody <= 0 {
		maxBody = defaultMaxBodyBytes
	}
	var limiter *rate.Limiter
	if cfg.RateLimit > 0 {
		burst := cfg.RateBurst
		if burst <= 0 {
			burst = int(cfg.RateLimit) + 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimit), burst)
	}
	headers := make(map[string]string, len(cfg.Headers))
	for key, value := range cfg.Headers {
		if strings.TrimSpace(value) != "" {
			headers[key] = value
		}
	}
	return &Fetcher{
		name:      strings.TrimSpace(cfg.Name),
		baseURL:   strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		http:      httpClient,
		userAgent: strings.TrimSpace(cfg.UserAgent),
		headers:   headers,
		validate:  cfg.Validate,
		redis:     cfg.Redis,
		cacheTTL:  cfg.CacheTTL,
		limiter:   limiter,
		maxBody:   maxBody,
	}
}

func (f *Fetcher) Name() string {
	return f.name
}

// Get requests path (relative to the base URL) with params and returns the
// raw body of a successful response.
func (f *Fetcher) Get(ctx context.Context, path string, params url.Values) ([]byte, error) {
	reqURL := f.baseURL + path
	if encoded := params.Encode(); encoded != "" {
		reqURL += "?" + encoded
	}

	cacheKey := f.cacheKey(reqURL)
	if f.redis != nil && f.cacheTTL > 0 {
		if data, err := f.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			return data, nil
		}
	}

	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	for key, value := range f.headers {
		req.Header.Set(key, value)
	}

	resp, err := f.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, &StatusError{
			Provider: f.name,
			Status:   resp.StatusCode,
			Body:     strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%s read body: %w", f.name, err)
	}
	if int64(len(body)) > f.maxBody {
		return nil, fmt.Errorf("%w: %s body exceeds %d bytes", ErrBodyTooLarge, f.name, f.maxBody)
	}
	if f.validate != nil {
		if err := f.validate(body); err != nil {
			return nil, err
		}
	}

	if f.redis != nil && f.cacheTTL > 0 {
		_ = f.redis.Set(ctx, cacheKey, body, f.cacheTTL).Err()
	}
	return body, nil
}

// cacheKey hashes the full URL so API keys never appear in Redis keys.
func (f *Fetcher) cacheKey(reqURL string) string {
	sum := sha1.Sum([]byte(reqURL))
	return redisPayloadPrefix + f.name + ":" + hex.EncodeToString(sum[:])
}
