package app

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	HTTPAddr        string
	ProviderTimeout time.Duration
	LogLevel        string
	LogFormat       string
	UserAgent       string

	OMDbAPIKey         string
	OMDbBaseURL        string
	SimklClientID      string
	SimklBaseURL       string
	DeezerBaseURL      string
	OpenLibraryBaseURL string
	OpenLibraryCovers  string

	ProviderMaxAttempts int
	ProviderRateLimit   float64
	ProviderCacheTTL    time.Duration

	RedisURL      string
	CacheTTL      time.Duration
	CacheDisabled bool

	MongoURI            string
	MongoDatabase       string
	FavoritesCollection string

	JWTSecret        string
	TrustAuthHeaders bool

	HTTPRateLimit float64
	HTTPBurst     int
	ImageHosts    []string
}

func LoadConfig() Config {
	return Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8090"),
		ProviderTimeout: time.Duration(getEnvInt("PROVIDER_TIMEOUT_SECONDS", 10)) * time.Second,
		LogLevel:        strings.ToLower(getEnv("LOG_LEVEL", "info")),
		LogFormat:       strings.ToLower(getEnv("LOG_FORMAT", "text")),
		UserAgent:       getEnv("HTTP_USER_AGENT", "media-discovery/1.0"),

		OMDbAPIKey:         strings.TrimSpace(os.Getenv("OMDB_API_KEY")),
		OMDbBaseURL:        getEnv("OMDB_BASE_URL", "https://www.omdbapi.com"),
		SimklClientID:      strings.TrimSpace(os.Getenv("SIMKL_CLIENT_ID")),
		SimklBaseURL:       getEnv("SIMKL_BASE_URL", "https://api.simkl.com"),
		DeezerBaseURL:      getEnv("DEEZER_BASE_URL", "https://api.deezer.com"),
		OpenLibraryBaseURL: getEnv("OPENLIBRARY_BASE_URL", "https://openlibrary.org"),
		OpenLibraryCovers:  getEnv("OPENLIBRARY_COVERS_URL", "https://covers.openlibrary.org"),

		ProviderMaxAttempts: getEnvInt("PROVIDER_MAX_ATTEMPTS", 1),
		ProviderRateLimit:   getEnvFloat("PROVIDER_RATE_LIMIT_RPS", 10),
		ProviderCacheTTL:    time.Duration(getEnvInt("PROVIDER_CACHE_TTL_MINUTES", 60)) * time.Minute,

		RedisURL:      getEnv("REDIS_URL", ""),
		CacheTTL:      time.Duration(getEnvInt("SEARCH_CACHE_TTL_MINUTES", 30)) * time.Minute,
		CacheDisabled: getEnvBool("SEARCH_CACHE_DISABLED", false),

		MongoURI:            getEnv("MONGO_URI", ""),
		MongoDatabase:       getEnv("MONGO_DATABASE", "media_discovery"),
		FavoritesCollection: getEnv("MONGO_FAVORITES_COLLECTION", "myList"),

		JWTSecret:        strings.TrimSpace(os.Getenv("AUTH_JWT_SECRET")),
		TrustAuthHeaders: getEnvBool("AUTH_TRUST_HEADERS", false),

		HTTPRateLimit: getEnvFloat("HTTP_RATE_LIMIT_RPS", 50),
		HTTPBurst:     getEnvInt("HTTP_RATE_LIMIT_BURST", 100),
		ImageHosts:    getEnvList("IMAGE_PROXY_HOSTS"),
	}
}

func getEnv(key, fallback string) string {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return fallback
	}
	return value
}

func getEnvInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvFloat(key string, fallback float64) float64 {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseFloat(raw, 64)
	if err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return fallback
	}
}

func getEnvList(key string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if value := strings.TrimSpace(part); value != "" {
			out = append(out, value)
		}
	}
	return out
}
