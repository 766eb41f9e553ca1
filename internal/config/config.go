// Package config provides application configuration with defaults and
// validation. Values come from an optional YAML file named by CONFIG_FILE,
// overlaid by the process environment; keys are the flat environment names
// (PORT, GEMINI_API_KEY, ...), written in lower case inside the YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEnv names the environment variable pointing at the optional YAML file.
const FileEnv = "CONFIG_FILE"

// CORSConfig defines Cross-Origin Resource Sharing settings.
type CORSConfig struct {
	AllowedOrigins []string
}

// SecurityConfig defines security-related settings such as HSTS.
type SecurityConfig struct {
	EnableHSTS          bool
	HSTSMaxAge          time.Duration
	SessionCookieSecure bool // SESSION_COOKIE_SECURE
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME (e.g. "claim-gateway")
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// ResponderConfig configures the text-generation client.
type ResponderConfig struct {
	APIKey  string        // GEMINI_API_KEY; empty is allowed, calls fail at use time
	Model   string        // GEMINI_MODEL_NAME
	BaseURL string        // GEMINI_API_BASE
	Timeout time.Duration // RESPONDER_TIMEOUT
}

// VerifierConfig configures the fact-check client.
type VerifierConfig struct {
	BaseURL string        // VERIFIER_BASE_URL
	Timeout time.Duration // VERIFIER_TIMEOUT
}

// TelegramConfig configures the outbound Bot API client and the webhook
// analysis variant.
type TelegramConfig struct {
	BotToken string        // TELEGRAM_BOT_TOKEN; empty disables outbound messages
	APIBase  string        // TELEGRAM_API_BASE
	Timeout  time.Duration // TELEGRAM_TIMEOUT
	Analyzer string        // TELEGRAM_ANALYZER: verifier|responder
}

// Config holds all configuration values for the application.
type Config struct {
	// Server
	Port              string        // just the number
	ReadTimeout       time.Duration // e.g. 15s
	ReadHeaderTimeout time.Duration // e.g. 10s
	WriteTimeout      time.Duration // must cover the slowest upstream call
	IdleTimeout       time.Duration // e.g. 60s
	MaxHeaderBytes    int           // bytes
	GinMode           string        // debug|release|test

	// Logging / Docs
	LogLevel       string // debug|info|warn|error|fatal|panic
	LogPretty      bool   // pretty console logs in dev
	SwaggerEnabled bool   // enable Swagger UI route
	APIBasePath    string // base path for API routes

	// Storage and request limits
	DBPath         string // SQLite path
	MaxBodyBytes   int64  // JSON request bodies
	MaxUploadBytes int64  // chat upload file size

	// Web protection
	CORS     CORSConfig
	Security SecurityConfig

	// Upstreams
	Responder ResponderConfig
	Verifier  VerifierConfig
	Telegram  TelegramConfig

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

// Load reads the optional CONFIG_FILE and the environment, applies
// defaults, normalizes values, and validates the result.
func Load() (Config, error) {
	src, err := newSource(os.Getenv(FileEnv))
	if err != nil {
		return Config{}, err
	}
	return src.config()
}

// source resolves flat keys against the merged file and environment values.
type source struct {
	k *koanf.Koanf
}

func newSource(path string) (*source, error) {
	k := koanf.New(".")
	if path = strings.TrimSpace(path); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}
	if err := k.Load(env.Provider("", ".", strings.ToLower), nil); err != nil {
		return nil, fmt.Errorf("loading environment: %w", err)
	}
	return &source{k: k}, nil
}

func (s *source) config() (Config, error) {
	cfg := Config{
		// Server
		Port:              s.getenv("PORT", "8080"),
		ReadTimeout:       s.getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: s.getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      s.getdur("WRITE_TIMEOUT", 90*time.Second),
		IdleTimeout:       s.getdur("IDLE_TIMEOUT", 60*time.Second),
		MaxHeaderBytes:    s.getint("MAX_HEADER_BYTES", 1<<20),
		GinMode:           strings.ToLower(s.getenv("GIN_MODE", "release")),

		// Logging / Docs
		LogLevel:       strings.ToLower(s.getenv("LOG_LEVEL", "info")),
		LogPretty:      s.getbool("LOG_PRETTY", false),
		SwaggerEnabled: s.getbool("SWAGGER_ENABLED", false),
		APIBasePath:    normalizeBasePath(s.getenv("API_BASE_PATH", "/api/v1")),

		// Storage and request limits
		DBPath:         s.getenv("DB_PATH", "gateway.db"),
		MaxBodyBytes:   int64(s.getint("MAX_BODY_BYTES", 1<<20)),
		MaxUploadBytes: int64(s.getint("MAX_UPLOAD_BYTES", 10<<20)),

		// Web protection
		CORS: CORSConfig{
			AllowedOrigins: s.getcsv("CORS_ALLOWED_ORIGINS"),
		},
		Security: SecurityConfig{
			EnableHSTS:          s.getbool("ENABLE_HSTS", false),
			HSTSMaxAge:          s.getdur("HSTS_MAX_AGE", 180*24*time.Hour),
			SessionCookieSecure: s.getbool("SESSION_COOKIE_SECURE", false),
		},

		// Upstreams
		Responder: ResponderConfig{
			APIKey:  s.getenv("GEMINI_API_KEY", ""),
			Model:   s.getenv("GEMINI_MODEL_NAME", "gemini-2.5-flash"),
			BaseURL: s.getenv("GEMINI_API_BASE", "https://generativelanguage.googleapis.com/v1beta"),
			Timeout: s.getdur("RESPONDER_TIMEOUT", 30*time.Second),
		},
		Verifier: VerifierConfig{
			BaseURL: s.getenv("VERIFIER_BASE_URL", "https://penguin27-ukweli-lens-api.hf.space"),
			Timeout: s.getdur("VERIFIER_TIMEOUT", 60*time.Second),
		},
		Telegram: TelegramConfig{
			BotToken: s.getenv("TELEGRAM_BOT_TOKEN", ""),
			APIBase:  s.getenv("TELEGRAM_API_BASE", "https://api.telegram.org"),
			Timeout:  s.getdur("TELEGRAM_TIMEOUT", 10*time.Second),
			Analyzer: strings.ToLower(s.getenv("TELEGRAM_ANALYZER", "verifier")),
		},

		// Observability (OpenTelemetry)
		OTEL: OTELConfig{
			Enabled:     s.getbool("OTEL_ENABLED", false),
			Endpoint:    s.getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    s.getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: s.getenv("OTEL_SERVICE_NAME", "claim-gateway"),
			SampleRatio: s.getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
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
	cfg.Responder.BaseURL = strings.TrimRight(cfg.Responder.BaseURL, "/")
	cfg.Verifier.BaseURL = strings.TrimRight(cfg.Verifier.BaseURL, "/")
	cfg.Telegram.APIBase = strings.TrimRight(cfg.Telegram.APIBase, "/")

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
	if strings.TrimSpace(cfg.DBPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.MaxBodyBytes <= 0 || cfg.MaxUploadBytes <= 0 {
		return cfg, errors.New("MAX_BODY_BYTES and MAX_UPLOAD_BYTES must be > 0")
	}
	if cfg.Security.HSTSMaxAge < 0 {
		return cfg, errors.New("HSTS_MAX_AGE must be >= 0")
	}
	if cfg.Responder.Timeout <= 0 || cfg.Verifier.Timeout <= 0 || cfg.Telegram.Timeout <= 0 {
		return cfg, errors.New("upstream timeouts must be positive durations")
	}
	if cfg.Verifier.BaseURL == "" {
		return cfg, errors.New("VERIFIER_BASE_URL must not be empty")
	}
	switch cfg.Telegram.Analyzer {
	case "verifier", "responder":
	default:
		return cfg, errors.New("TELEGRAM_ANALYZER must be one of: verifier, responder")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// ---- helpers ----

// raw returns the string form of key, or "" when unset.
func (s *source) raw(k string) string {
	v := s.k.Get(strings.ToLower(k))
	if v == nil {
		return ""
	}
	return fmt.Sprint(v)
}

func (s *source) getenv(k, def string) string {
	if v := s.raw(k); v != "" {
		return v
	}
	return def
}

func (s *source) getfloat(k string, def float64) float64 {
	if v := s.raw(k); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func (s *source) getint(k string, def int) int {
	if v := s.raw(k); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func (s *source) getbool(k string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(s.raw(k))) {
	case "1", "true", "yes", "y", "on":
		return true
	case "0", "false", "no", "n", "off":
		return false
	}
	return def
}

func (s *source) getdur(k string, def time.Duration) time.Duration {
	if v := s.raw(k); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

// getcsv accepts a comma-separated string or, from YAML, a list.
func (s *source) getcsv(k string) []string {
	switch v := s.k.Get(strings.ToLower(k)).(type) {
	case nil:
		return nil
	case []interface{}:
		parts := make([]string, 0, len(v))
		for _, p := range v {
			parts = append(parts, fmt.Sprint(p))
		}
		return splitCSV(strings.Join(parts, ","))
	default:
		return splitCSV(fmt.Sprint(v))
	}
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
	if len(out) == 0 {
		return nil
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
