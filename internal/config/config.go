// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes application settings
// such as server timeouts, logging, database and asset paths, the upstream
// image API, authentication, rate limiting, and observability.
//
// The resulting Config is built once at process start and passed explicitly to
// every component that needs it; nothing in this repository reads the process
// environment after Load returns.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// devJWTSecret is only accepted when GIN_MODE=debug and JWT_SECRET is unset.
const devJWTSecret = "dev-only-secret-change-me-please"

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS bool
	HSTSMaxAge time.Duration
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "go-imagegen-backend")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// UpstreamConfig describes the remote generative API.
type UpstreamConfig struct {
	APIKey      string        // NANOBANANA_KEY
	BaseURL     string        // GEMINI_BASE_URL
	ImageModel  string        // GEMINI_IMAGE_MODEL
	TextModel   string        // GEMINI_TEXT_MODEL
	Timeout     time.Duration // UPSTREAM_TIMEOUT, 0 disables
	Placeholder bool          // PLACEHOLDER_OUTPUT
	// PlaceholderImage is the file name (inside GeneratedDir) returned in placeholder mode.
	PlaceholderImage string
}

// AuthConfig holds token signing settings.
type AuthConfig struct {
	JWTSecret string
	TokenTTL  time.Duration
	// Required forces a valid bearer token on generation and history routes.
	Required bool
}

// MaxUpstreamCalls is the most upstream calls one request makes in
// sequence (a four-scene story). The write deadline must outlast them all.
const MaxUpstreamCalls = 4

// writeMargin is added on top of the upstream budget for uploads, disk and
// database work before the response is written.
const writeMargin = 30 * time.Second

// writeBudget returns the default WRITE_TIMEOUT for an upstream timeout. A
// zero upstream timeout (no limit) keeps the plain default of 120s.
func writeBudget(upstream time.Duration) time.Duration {
	if upstream <= 0 {
		return 120 * time.Second
	}
	return time.Duration(MaxUpstreamCalls)*upstream + writeMargin
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // defaults to MaxUpstreamCalls x UPSTREAM_TIMEOUT + 30s
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	MaxBodyBytes      int64         // request body cap (uploads included)
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage
	DBPath        string // SQLite path
	GeneratedDir  string // generated images
	UploadDir     string // user uploads
	PublicBaseURL string // prefix of the URLs returned to clients

	// Upstream generative API
	Upstream UpstreamConfig

	// Auth
	Auth AuthConfig

	// Rate limiting
	RateRPS   float64 // tokens per second (>= 0)
	RateBurst int     // bucket size (>= 1)

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Observability
	OTEL OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables,
// applies defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	port := getenv("PORT", "5000")
	upstreamTimeout := getdur("UPSTREAM_TIMEOUT", 60*time.Second)
	cfg := Config{
		// Server
		Port:              port,
		ReadTimeout:       getdur("READ_TIMEOUT", 30*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", writeBudget(upstreamTimeout)),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    getint("MAX_HEADER_BYTES", 1<<20),
		MaxBodyBytes:      int64(getint("MAX_BODY_BYTES", 20<<20)),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty:      getbool("LOG_PRETTY", false),
		SwaggerEnabled: getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(getenv("API_BASE_PATH", "/api")),

		// Storage
		DBPath:        getenv("DB_PATH", "imageai.db"),
		GeneratedDir:  getenv("GENERATED_DIR", "generated"),
		UploadDir:     getenv("UPLOAD_DIR", "uploads"),
		PublicBaseURL: strings.TrimRight(getenv("PUBLIC_BASE_URL", "http://127.0.0.1:"+port), "/"),

		Upstream: UpstreamConfig{
			APIKey:           strings.TrimSpace(getenv("NANOBANANA_KEY", "")),
			BaseURL:          strings.TrimRight(getenv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"), "/"),
			ImageModel:       getenv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
			TextModel:        getenv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),
			Timeout:          upstreamTimeout,
			Placeholder:      getbool("PLACEHOLDER_OUTPUT", false),
			PlaceholderImage: getenv("PLACEHOLDER_IMAGE", "test.jpg"),
		},

		Auth: AuthConfig{
			JWTSecret: getenv("JWT_SECRET", ""),
			TokenTTL:  getdur("TOKEN_TTL", 24*time.Hour),
			Required:  getbool("AUTH_REQUIRED", false),
		},

		// Rate limiting
		RateRPS:   getfloat("RATE_RPS", 5.0),
		RateBurst: getint("RATE_BURST", 10),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getenv("CORS_ALLOWED_ORIGINS", "")),
		},
		Security: SecurityConfig{
			EnableHSTS: getbool("ENABLE_HSTS", false),
			HSTSMaxAge: getdur("HSTS_MAX_AGE", 180*24*time.Hour),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-imagegen-backend"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}
	if cfg.Auth.JWTSecret == "" && cfg.GinMode == "debug" {
		cfg.Auth.JWTSecret = devJWTSecret
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if cfg.MaxHeaderBytes <= 0 {
		return cfg, errors.New("MAX_HEADER_BYTES must be > 0")
	}
	if cfg.MaxBodyBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES must be > 0")
	}
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if strings.TrimSpace(cfg.GeneratedDir) == "" || strings.TrimSpace(cfg.UploadDir) == "" {
		return cfg, errors.New("GENERATED_DIR and UPLOAD_DIR must not be empty")
	}
	if !cfg.Upstream.Placeholder && cfg.Upstream.APIKey == "" {
		return cfg, errors.New("NANOBANANA_KEY is required unless PLACEHOLDER_OUTPUT is enabled")
	}
	if cfg.Upstream.Timeout < 0 {
		return cfg, errors.New("UPSTREAM_TIMEOUT must be >= 0")
	}
	if t := cfg.Upstream.Timeout; t > 0 && cfg.WriteTimeout <= time.Duration(MaxUpstreamCalls)*t {
		return cfg, fmt.Errorf("WRITE_TIMEOUT (%s) must exceed %d x UPSTREAM_TIMEOUT (%s)", cfg.WriteTimeout, MaxUpstreamCalls, t)
	}
	if len(cfg.Auth.JWTSecret) < 16 {
		return cfg, errors.New("JWT_SECRET must be at least 16 bytes")
	}
	if cfg.Auth.TokenTTL <= 0 {
		return cfg, errors.New("TOKEN_TTL must be > 0")
	}
	if cfg.RateRPS < 0 {
		return cfg, errors.New("RATE_RPS must be >= 0")
	}
	if cfg.RateBurst < 1 {
		return cfg, errors.New("RATE_BURST must be >= 1")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		t := strings.TrimSpace(p)
		if t != "" {
			out = append(out, t)
		}
	}
	return out
}

// normalizeBasePath ensures leading '/' and strips trailing '/' (except root).
func normalizeBasePath(p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return "/"
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 && strings.HasSuffix(p, "/") {
		p = strings.TrimRight(p, "/")
	}
	return p
}
