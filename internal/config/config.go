package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config represents the application configuration. Values come from a YAML
// file with environment variable overrides.
type Config struct {
	// Environment specifies the current running environment (development, production, etc.)
	Environment string `env:"ENVIRONMENT" env-default:"development" yaml:"environment"`

	// HTTP contains all HTTP server related configurations
	HTTP struct {
		// Addr is the address and port the HTTP server will listen on
		Addr string `env:"HTTP_ADDR" env-default:":8080" yaml:"addr"`
		// ReadTimeout is the maximum duration for reading the entire request, including the body
		ReadTimeout time.Duration `env:"HTTP_READ_TIMEOUT" env-default:"1m" yaml:"readTimeout"`
		// ReadHeaderTimeout is the amount of time allowed to read request headers
		ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" env-default:"10s" yaml:"readHeaderTimeout"`
		// WriteTimeout is the maximum duration before timing out writes of the response
		WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT" env-default:"2m" yaml:"writeTimeout"`
		// IdleTimeout is the maximum amount of time to wait for the next request when keep-alives are enabled
		IdleTimeout time.Duration `env:"HTTP_IDLE_TIMEOUT" env-default:"2m" yaml:"idleTimeout"`
		// RequestTimeout is the maximum time allowed for processing a single request.
		// Scans probe every domain inline, so this must comfortably exceed the
		// probe timeout times the expected queue depth.
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" env-default:"1m" yaml:"requestTimeout"`
		// MaxHeaderBytes controls the maximum number of bytes the server will read parsing the request header
		MaxHeaderBytes int `env:"HTTP_MAX_HEADER_BYTES" env-default:"0" yaml:"maxHeaderBytes"`
		// MetricsPath defines the URL path where metrics are exposed
		MetricsPath string `env:"HTTP_METRICS_PATH" env-default:"/metrics" yaml:"metricsPath"`
	} `yaml:"http"`

	// Store contains settings for the JSON file store
	Store struct {
		// DataDir is the directory holding the per-account domain documents and users.json
		DataDir string `env:"STORE_DATA_DIR" env-default:"./data" yaml:"dataDir"`
		// Strict makes unparsable stored documents an error instead of treating them as empty
		Strict bool `env:"STORE_STRICT" env-default:"false" yaml:"strict"`
	} `yaml:"store"`

	// Monitor contains settings for the health-check engine
	Monitor struct {
		// ProbeTimeout bounds each DNS lookup, TCP connect, TLS handshake and plaintext read
		ProbeTimeout time.Duration `env:"MONITOR_PROBE_TIMEOUT" env-default:"1s" yaml:"probeTimeout"`
		// MaxConcurrentProbes caps simultaneous in-flight probes per scan
		MaxConcurrentProbes int `env:"MONITOR_MAX_CONCURRENT_PROBES" env-default:"50" yaml:"maxConcurrentProbes"`
	} `yaml:"monitor"`

	// JWT contains settings for bearer token issuance and verification
	JWT struct {
		// Secret is the HMAC signing secret. Must be overridden outside development.
		Secret string `env:"JWT_SECRET" env-default:"development-secret" yaml:"secret"`
		// TTL is the token lifetime
		TTL time.Duration `env:"JWT_TTL" env-default:"1h" yaml:"ttl"`
	} `yaml:"jwt"`

	// GracefulShutdownTimeout is the maximum duration to wait for ongoing requests to complete during shutdown
	GracefulShutdownTimeout time.Duration `env:"GRACEFUL_SHUTDOWN_TIMEOUT" env-default:"10s" yaml:"gracefulShutdownTimeout"` //nolint: lll
}

// Load receives the path for a yaml config file and returns a filled Config.
func Load(configPath string) (*Config, error) {
	var cfg Config
	err := cleanenv.ReadConfig(configPath, &cfg)
	if err != nil {
		return nil, fmt.Errorf("could not read config: %w", err)
	}

	return &cfg, nil
}
