package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config carries every tunable of the gateway. It is built once in main and
// injected into the components that need it; nothing else reads the process
// environment.
type Config struct {
	Environment string          `yaml:"environment"`
	Server      ServerConfig    `yaml:"server"`
	Ops         OpsConfig       `yaml:"ops"`
	Backend     BackendConfig   `yaml:"backend"`
	JWT         JWTConfig       `yaml:"jwt"`
	CORS        CORSConfig      `yaml:"cors"`
	RateLimit   RateLimitConfig `yaml:"rate_limit"`
	Logging     LoggingConfig   `yaml:"logging"`
	Notify      NotifyConfig    `yaml:"notify"`
	Analytics   AnalyticsConfig `yaml:"analytics"`
}

type ServerConfig struct {
	Host         string `yaml:"host"`
	Port         string `yaml:"port"`
	ReadTimeout  int    `yaml:"read_timeout"`
	WriteTimeout int    `yaml:"write_timeout"`
}

type OpsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// BackendConfig describes the single remote backend the gateway fronts.
type BackendConfig struct {
	Origin             string        `yaml:"origin"`
	PathPrefix         string        `yaml:"path_prefix"`
	Timeout            time.Duration `yaml:"timeout"`
	BacktestRunTimeout time.Duration `yaml:"backtest_run_timeout"`
	OAuthTimeout       time.Duration `yaml:"oauth_timeout"`
	MaxBacktestDays    int           `yaml:"max_backtest_days"`
}

type JWTConfig struct {
	SecretKey string `yaml:"secret_key"`
}

type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins"`
	AllowedMethods string `yaml:"allowed_methods"`
	AllowedHeaders string `yaml:"allowed_headers"`
}

type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerSecond int  `yaml:"requests_per_second"`
	BurstSize         int  `yaml:"burst_size"`
}

type LoggingConfig struct {
	Level      string `yaml:"level"`
	JSONFormat bool   `yaml:"json_format"`
}

type NotifyConfig struct {
	PollInterval time.Duration `yaml:"poll_interval"`
}

type AnalyticsConfig struct {
	StorePath   string   `yaml:"store_path"`
	Capacity    int      `yaml:"capacity"`
	FunnelSteps []string `yaml:"funnel_steps"`
}

// Default returns the built-in configuration. The backend origin fallback
// chain is resolved in applyEnv, not here.
func Default() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         "8080",
			ReadTimeout:  15,
			WriteTimeout: 15,
		},
		Ops: OpsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
		Backend: BackendConfig{
			Origin:             "http://localhost:10010",
			PathPrefix:         "/api/v1",
			Timeout:            10 * time.Second,
			BacktestRunTimeout: 15 * time.Second,
			OAuthTimeout:       10 * time.Second,
			MaxBacktestDays:    365,
		},
		CORS: CORSConfig{
			AllowedOrigins: "*",
			AllowedMethods: "GET,POST,PUT,DELETE,PATCH,OPTIONS",
			AllowedHeaders: "Content-Type,Authorization",
		},
		RateLimit: RateLimitConfig{
			Enabled:           false,
			RequestsPerSecond: 50,
			BurstSize:         100,
		},
		Logging: LoggingConfig{
			Level:      "info",
			JSONFormat: false,
		},
		Notify: NotifyConfig{
			PollInterval: 30 * time.Second,
		},
		Analytics: AnalyticsConfig{
			StorePath: "data/funnel_events.json",
			Capacity:  200,
			FunnelSteps: []string{
				"landing_view",
				"signup_started",
				"signup_completed",
				"onboarding_completed",
				"first_backtest_run",
			},
		},
	}
}

// Load builds the configuration from defaults, an optional YAML overlay
// (GATEWAY_CONFIG_FILE), and finally the environment.
func Load() (*Config, error) {
	cfg := Default()

	if path := getEnv("GATEWAY_CONFIG_FILE", ""); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.applyEnv()

	if cfg.Analytics.Capacity <= 0 {
		return nil, fmt.Errorf("analytics capacity must be positive, got %d", cfg.Analytics.Capacity)
	}
	if len(cfg.Analytics.FunnelSteps) == 0 {
		return nil, fmt.Errorf("at least one funnel step is required")
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

func (c *Config) applyEnv() {
	c.Environment = getEnv("ENVIRONMENT", c.Environment)
	c.Server.Host = getEnv("SERVER_HOST", c.Server.Host)
	c.Server.Port = getEnv("SERVER_PORT", c.Server.Port)
	c.Server.ReadTimeout = getEnvInt("SERVER_READ_TIMEOUT", c.Server.ReadTimeout)
	c.Server.WriteTimeout = getEnvInt("SERVER_WRITE_TIMEOUT", c.Server.WriteTimeout)

	c.Ops.Enabled = getEnvBool("OPS_ENABLED", c.Ops.Enabled)
	c.Ops.Addr = getEnv("OPS_ADDR", c.Ops.Addr)

	// Backend origin fallback chain: BACKEND_API_URL wins, then the public
	// URL the web client is built with, then the local default.
	if v := os.Getenv("BACKEND_API_URL"); v != "" {
		c.Backend.Origin = v
	} else if v := os.Getenv("QUANTJUMP_API_URL"); v != "" {
		c.Backend.Origin = v
	}
	c.Backend.Origin = strings.TrimRight(c.Backend.Origin, "/")
	c.Backend.PathPrefix = getEnv("BACKEND_PATH_PREFIX", c.Backend.PathPrefix)
	c.Backend.Timeout = getEnvDuration("BACKEND_TIMEOUT", c.Backend.Timeout)
	c.Backend.BacktestRunTimeout = getEnvDuration("BACKEND_BACKTEST_RUN_TIMEOUT", c.Backend.BacktestRunTimeout)
	c.Backend.OAuthTimeout = getEnvDuration("BACKEND_OAUTH_TIMEOUT", c.Backend.OAuthTimeout)
	c.Backend.MaxBacktestDays = getEnvInt("BACKEND_MAX_BACKTEST_DAYS", c.Backend.MaxBacktestDays)

	c.JWT.SecretKey = getEnv("JWT_SECRET_KEY", c.JWT.SecretKey)

	c.CORS.AllowedOrigins = getEnv("CORS_ALLOWED_ORIGINS", c.CORS.AllowedOrigins)
	c.CORS.AllowedMethods = getEnv("CORS_ALLOWED_METHODS", c.CORS.AllowedMethods)
	c.CORS.AllowedHeaders = getEnv("CORS_ALLOWED_HEADERS", c.CORS.AllowedHeaders)

	c.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", c.RateLimit.Enabled)
	c.RateLimit.RequestsPerSecond = getEnvInt("RATE_LIMIT_REQUESTS_PER_SECOND", c.RateLimit.RequestsPerSecond)
	c.RateLimit.BurstSize = getEnvInt("RATE_LIMIT_BURST_SIZE", c.RateLimit.BurstSize)

	c.Logging.Level = getEnv("LOG_LEVEL", c.Logging.Level)
	c.Logging.JSONFormat = getEnvBool("LOG_JSON_FORMAT", c.Logging.JSONFormat)

	c.Notify.PollInterval = getEnvDuration("NOTIFY_POLL_INTERVAL", c.Notify.PollInterval)

	c.Analytics.StorePath = getEnv("ANALYTICS_STORE_PATH", c.Analytics.StorePath)
	c.Analytics.Capacity = getEnvInt("ANALYTICS_CAPACITY", c.Analytics.Capacity)
}

// BackendURL joins the backend origin, version prefix and a resource path.
func (c *Config) BackendURL(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.Backend.Origin + c.Backend.PathPrefix + path
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	return strings.ToLower(valueStr) == "true" || valueStr == "1"
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
