// Package config loads and validates application configuration from environment variables.
package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Keys, lower-cased. AutomaticEnv upper-cases them to find the environment variable.
const (
	keyPort            = "port"
	keyDatabaseURL     = "database_url"
	keyLogLevel        = "log_level"
	keyCORSOrigins     = "cors_origins"
	keyMaxBodyBytes    = "max_body_bytes"
	keyShutdownTimeout = "shutdown_timeout"
	keyTracingExporter = "tracing_exporter"
	keyOTLPEndpoint    = "otlp_endpoint"
	keyServiceName     = "service_name"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level: debug, info, warn, error.
	// Defaults to "info".
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// CORS_ORIGINS is a comma-separated list; defaults to the Vite dev server.
	CORSOrigins []string

	// MaxBodyBytes caps request bodies. Defaults to 1 MiB.
	MaxBodyBytes int64

	// ShutdownTimeout bounds graceful shutdown. Defaults to 15s.
	ShutdownTimeout time.Duration

	Tracing Tracing
}

// Tracing selects where spans go.
type Tracing struct {
	// Exporter is one of "none", "stdout", "otlp". Defaults to "none".
	Exporter string

	// OTLPEndpoint is the collector address for the otlp exporter.
	OTLPEndpoint string

	// ServiceName is reported as service.name on every span.
	ServiceName string
}

// Enabled reports whether spans are exported at all.
func (t Tracing) Enabled() bool {
	return t.Exporter != "" && t.Exporter != "none"
}

// New returns a viper instance with defaults registered and environment
// lookup enabled. Callers may bind command-line flags to it before FromViper.
// Empty environment variables count as unset.
func New() *viper.Viper {
	v := viper.New()
	v.SetDefault(keyPort, "8080")
	v.SetDefault(keyLogLevel, "info")
	v.SetDefault(keyCORSOrigins, "http://localhost:5173")
	v.SetDefault(keyMaxBodyBytes, int64(1<<20))
	v.SetDefault(keyShutdownTimeout, 15*time.Second)
	v.SetDefault(keyTracingExporter, "none")
	v.SetDefault(keyOTLPEndpoint, "localhost:4317")
	v.SetDefault(keyServiceName, "gift-catalog")
	v.AutomaticEnv()
	return v
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	return FromViper(New())
}

// FromViper builds a Config from v and validates it.
func FromViper(v *viper.Viper) (Config, error) {
	cfg := Config{
		Port:            v.GetString(keyPort),
		DatabaseURL:     v.GetString(keyDatabaseURL),
		LogLevel:        strings.ToLower(v.GetString(keyLogLevel)),
		CORSOrigins:     splitCSV(v.GetString(keyCORSOrigins)),
		MaxBodyBytes:    v.GetInt64(keyMaxBodyBytes),
		ShutdownTimeout: v.GetDuration(keyShutdownTimeout),
		Tracing: Tracing{
			Exporter:     strings.ToLower(v.GetString(keyTracingExporter)),
			OTLPEndpoint: v.GetString(keyOTLPEndpoint),
			ServiceName:  v.GetString(keyServiceName),
		},
	}

	var missing []string
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	if cfg.MaxBodyBytes <= 0 {
		return Config{}, fmt.Errorf("MAX_BODY_BYTES must be a positive integer, got %q", v.GetString(keyMaxBodyBytes))
	}
	if cfg.ShutdownTimeout <= 0 {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT must be a positive duration, got %q", v.GetString(keyShutdownTimeout))
	}
	switch cfg.Tracing.Exporter {
	case "none", "stdout", "otlp":
	default:
		return Config{}, fmt.Errorf("TRACING_EXPORTER must be none, stdout or otlp, got %q", cfg.Tracing.Exporter)
	}

	return cfg, nil
}

// SlogLevel parses LogLevel, falling back to info for unknown values.
func (c Config) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
