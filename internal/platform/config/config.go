package config

import (
	"os"
	"strconv"
	"time"
)

// Config is the full runtime configuration, assembled once in main. Nothing
// outside this package reads the environment; adapters in particular receive
// their provider credentials at construction so they stay testable.
type Config struct {
	Server    Server
	Postgres  Postgres
	Redis     Redis
	Auth      Auth
	Enrich    Enrich
	Scan      Scan
	Providers Providers
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string
}

// Postgres holds the connection string for the run/profile stores. Empty
// means in-memory stores (development mode).
type Postgres struct {
	URL string
}

// Redis holds provider-cache configuration. Empty URL disables the cache.
type Redis struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CacheTTL     time.Duration
}

// Auth configures bearer token validation on the scan API.
type Auth struct {
	JWTSigningKey string
}

// Enrich configures the language-model enrichment pipeline.
type Enrich struct {
	APIKey    string
	Model     string
	BatchSize int
}

// Scan holds orchestration tunables.
type Scan struct {
	MaxResults     int
	Timeout        time.Duration
	AdapterTimeout time.Duration
}

// Providers carries one credential set per external data source. Absence of
// a credential is a documented degraded mode, not an error: the owning
// adapter skips its call (or emits labeled placeholder data where noted).
type Providers struct {
	GoogleCSEKey       string
	GoogleCSECX        string
	BraveSearchKey     string
	NewsAPIKey         string
	RedditUserAgent    string
	CrunchbaseKey      string
	CourtListenerToken string
	OpenSanctionsKey   string
	YouTubeKey         string
}

// FromEnv builds the Config from environment variables so main stays lean.
func FromEnv() Config {
	return Config{
		Server: Server{
			Addr: envOr("LUMINARY_ADDR", ":8080"),
		},
		Postgres: Postgres{
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: Redis{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     envInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  envDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
			CacheTTL:     envDuration("PROVIDER_CACHE_TTL", 6*time.Hour),
		},
		Auth: Auth{
			// Development default, must be overridden in production.
			JWTSigningKey: envOr("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		},
		Enrich: Enrich{
			APIKey:    os.Getenv("GEMINI_API_KEY"),
			Model:     envOr("ENRICH_MODEL", "gemini-2.0-flash"),
			BatchSize: envInt("ENRICH_BATCH_SIZE", 20),
		},
		Scan: Scan{
			MaxResults:     envInt("SCAN_MAX_RESULTS", 200),
			Timeout:        envDuration("SCAN_TIMEOUT", 10*time.Minute),
			AdapterTimeout: envDuration("SCAN_ADAPTER_TIMEOUT", 15*time.Second),
		},
		Providers: Providers{
			GoogleCSEKey:       os.Getenv("GOOGLE_CSE_KEY"),
			GoogleCSECX:        os.Getenv("GOOGLE_CSE_CX"),
			BraveSearchKey:     os.Getenv("BRAVE_SEARCH_KEY"),
			NewsAPIKey:         os.Getenv("NEWSAPI_KEY"),
			RedditUserAgent:    envOr("REDDIT_USER_AGENT", "luminary-scan/1.0"),
			CrunchbaseKey:      os.Getenv("CRUNCHBASE_KEY"),
			CourtListenerToken: os.Getenv("COURTLISTENER_TOKEN"),
			OpenSanctionsKey:   os.Getenv("OPENSANCTIONS_KEY"),
			YouTubeKey:         os.Getenv("YOUTUBE_API_KEY"),
		},
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
