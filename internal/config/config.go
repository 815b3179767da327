package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// HTTP Server
	Port string

	// Logging
	LogLevel  string
	LogFormat string

	// Presentation
	CurrencySymbol   string
	DefaultSort      string
	DefaultDirection string
	OutputFormat     string

	// Sorted row cache
	CacheSize int
	CacheTTL  time.Duration

	// API rate limiting
	RateLimitPerMinute int

	// AMQP (optional, empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// fileConfig mirrors the optional YAML file pointed to by CONFIG_FILE.
type fileConfig struct {
	Server struct {
		Port string `yaml:"port"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`
	Report struct {
		CurrencySymbol   string `yaml:"currency_symbol"`
		DefaultSort      string `yaml:"default_sort"`
		DefaultDirection string `yaml:"default_direction"`
		OutputFormat     string `yaml:"output_format"`
	} `yaml:"report"`
	Cache struct {
		Size int    `yaml:"size"`
		TTL  string `yaml:"ttl"`
	} `yaml:"cache"`
	RateLimit struct {
		PerMinute int `yaml:"per_minute"`
	} `yaml:"rate_limit"`
	AMQP struct {
		URL      string `yaml:"url"`
		Exchange string `yaml:"exchange"`
		Queue    string `yaml:"queue"`
	} `yaml:"amqp"`
}

func defaults() *Config {
	return &Config{
		Port:               "8081",
		LogLevel:           "info",
		LogFormat:          "text",
		CurrencySymbol:     "R$",
		DefaultSort:        "name",
		DefaultDirection:   "asc",
		OutputFormat:       "table",
		CacheSize:          32,
		CacheTTL:           10 * time.Minute,
		RateLimitPerMinute: 120,
		AMQPExchange:       "commissions",
		AMQPQueue:          "report_computed",
	}
}

// Load resolves configuration in priority order: defaults -> file -> env.
// The file is read from CONFIG_FILE (default "config.yaml"); a missing file
// is not an error, a malformed one is.
func Load() (*Config, error) {
	cfg := defaults()

	path := getEnv("CONFIG_FILE", "config.yaml")
	if err := cfg.applyFile(path); err != nil {
		return nil, err
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)
	cfg.CurrencySymbol = getEnv("CURRENCY_SYMBOL", cfg.CurrencySymbol)
	cfg.DefaultSort = getEnv("DEFAULT_SORT", cfg.DefaultSort)
	cfg.DefaultDirection = getEnv("DEFAULT_DIRECTION", cfg.DefaultDirection)
	cfg.OutputFormat = getEnv("OUTPUT_FORMAT", cfg.OutputFormat)
	cfg.CacheSize = getEnvInt("CACHE_SIZE", cfg.CacheSize)
	cfg.CacheTTL = getEnvDuration("CACHE_TTL", cfg.CacheTTL)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)
	cfg.AMQPURL = getEnv("AMQP_URL", cfg.AMQPURL)
	cfg.AMQPExchange = getEnv("AMQP_EXCHANGE", cfg.AMQPExchange)
	cfg.AMQPQueue = getEnv("AMQP_QUEUE", cfg.AMQPQueue)

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file %s: %w", path, err)
	}

	var f fileConfig
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&c.Port, f.Server.Port)
	setString(&c.LogLevel, f.Log.Level)
	setString(&c.LogFormat, f.Log.Format)
	setString(&c.CurrencySymbol, f.Report.CurrencySymbol)
	setString(&c.DefaultSort, f.Report.DefaultSort)
	setString(&c.DefaultDirection, f.Report.DefaultDirection)
	setString(&c.OutputFormat, f.Report.OutputFormat)
	setString(&c.AMQPURL, f.AMQP.URL)
	setString(&c.AMQPExchange, f.AMQP.Exchange)
	setString(&c.AMQPQueue, f.AMQP.Queue)
	if f.Cache.Size > 0 {
		c.CacheSize = f.Cache.Size
	}
	if f.Cache.TTL != "" {
		d, err := time.ParseDuration(f.Cache.TTL)
		if err != nil {
			return fmt.Errorf("parse config file %s: cache.ttl: %w", path, err)
		}
		c.CacheTTL = d
	}
	if f.RateLimit.PerMinute > 0 {
		c.RateLimitPerMinute = f.RateLimit.PerMinute
	}
	return nil
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if !oneOf(strings.ToLower(c.LogLevel), "debug", "info", "warn", "warning", "error") {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of [debug info warn error]", c.LogLevel))
	}
	if !oneOf(c.LogFormat, "text", "json") {
		errors = append(errors, fmt.Sprintf("invalid log format '%s': must be one of [text json]", c.LogFormat))
	}
	if !oneOf(c.OutputFormat, "table", "json", "yaml") {
		errors = append(errors, fmt.Sprintf("invalid output format '%s': must be one of [table json yaml]", c.OutputFormat))
	}
	if !oneOf(c.DefaultSort, "name", "count", "sales", "commission", "percentage") {
		errors = append(errors, fmt.Sprintf("invalid default sort '%s': must be one of [name count sales commission percentage]", c.DefaultSort))
	}
	if !oneOf(c.DefaultDirection, "asc", "desc") {
		errors = append(errors, fmt.Sprintf("invalid default direction '%s': must be 'asc' or 'desc'", c.DefaultDirection))
	}

	if c.CacheSize < 1 {
		errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	}
	if c.CacheTTL < time.Second {
		errors = append(errors, fmt.Sprintf("invalid cache ttl %v: must be at least 1 second", c.CacheTTL))
	}
	if c.RateLimitPerMinute < 1 {
		errors = append(errors, fmt.Sprintf("invalid rate limit %d: must be at least 1 request per minute", c.RateLimitPerMinute))
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

func oneOf(v string, allowed ...string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}

func setString(dst *string, v string) {
	if v = strings.TrimSpace(v); v != "" {
		*dst = v
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
