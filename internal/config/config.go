// Package config loads service configuration from a YAML file with
// environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the full service configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Extractor ExtractorConfig `yaml:"extractor"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Downloads DownloadsConfig `yaml:"downloads"`
	Storage   StorageConfig   `yaml:"storage"`
	Cache     CacheConfig     `yaml:"cache"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// Addr returns the host:port listen address.
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// ExtractorConfig holds extraction engine settings.
type ExtractorConfig struct {
	BinaryPath string `yaml:"binary_path"`
	Timeout    int    `yaml:"timeout"` // seconds
}

// GetTimeout returns the extraction deadline.
func (c *ExtractorConfig) GetTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// RateLimitConfig holds per-address admission settings.
type RateLimitConfig struct {
	Requests int `yaml:"requests"` // admits per window
	Window   int `yaml:"window"`   // seconds
	IdleTTL  int `yaml:"idle_ttl"` // seconds before an idle bucket is evicted
}

// GetWindow returns the fixed-window length.
func (c *RateLimitConfig) GetWindow() time.Duration {
	return time.Duration(c.Window) * time.Second
}

// GetIdleTTL returns the bucket eviction threshold.
func (c *RateLimitConfig) GetIdleTTL() time.Duration {
	return time.Duration(c.IdleTTL) * time.Second
}

// DownloadsConfig holds download lifecycle settings.
type DownloadsConfig struct {
	Dir             string `yaml:"dir"`              // completed artifacts (local backend)
	TempDir         string `yaml:"temp_dir"`         // in-flight transfers
	Retention       int    `yaml:"retention"`        // seconds a terminal record and its file are kept
	CleanupInterval int    `yaml:"cleanup_interval"` // seconds between cleanup sweeps
}

// GetRetention returns how long terminal records are retained.
func (c *DownloadsConfig) GetRetention() time.Duration {
	return time.Duration(c.Retention) * time.Second
}

// GetCleanupInterval returns the sweep interval.
func (c *DownloadsConfig) GetCleanupInterval() time.Duration {
	return time.Duration(c.CleanupInterval) * time.Second
}

// StorageConfig selects the artifact storage backend.
type StorageConfig struct {
	Backend string   `yaml:"backend"` // "local" (default) or "s3"
	S3      S3Config `yaml:"s3"`
}

// S3Config holds S3 backend credentials and target bucket.
type S3Config struct {
	Region          string `yaml:"region"`
	Bucket          string `yaml:"bucket"`
	AccessKeyID     string `yaml:"access_key_id"`
	SecretAccessKey string `yaml:"secret_access_key"`
}

// CacheConfig holds the optional Redis metadata cache. The cache is
// disabled unless Addr is set; by default every /video/info re-resolves.
type CacheConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      int    `yaml:"ttl"` // seconds
}

// Enabled reports whether the metadata cache is configured.
func (c *CacheConfig) Enabled() bool {
	return c.Addr != ""
}

// GetTTL returns the cache entry lifetime.
func (c *CacheConfig) GetTTL() time.Duration {
	return time.Duration(c.TTL) * time.Second
}

// Load reads the YAML config at path (optional), applies environment
// overrides and fills defaults. A missing file is not an error; the
// service runs on defaults.
func Load(path string) (*Config, error) {
	// A local .env is a development convenience; absence is fine.
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("HOST"); v != "" {
		c.Server.Host = v
	}
	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}
	if v := os.Getenv("DOWNLOADS_DIR"); v != "" {
		c.Downloads.Dir = v
	}
	if v := os.Getenv("TEMP_DIR"); v != "" {
		c.Downloads.TempDir = v
	}
	if v := os.Getenv("RATE_LIMIT_REQUESTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit.Requests = n
		}
	}
	if v := os.Getenv("RATE_LIMIT_WINDOW"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.RateLimit.Window = n
		}
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Cache.Password = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		c.Storage.S3.Region = v
	}
	if v := os.Getenv("AWS_S3_BUCKET"); v != "" {
		c.Storage.S3.Bucket = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY_ID"); v != "" {
		c.Storage.S3.AccessKeyID = v
	}
	if v := os.Getenv("AWS_SECRET_ACCESS_KEY"); v != "" {
		c.Storage.S3.SecretAccessKey = v
	}
}

// applyDefaults fills unset values. Non-positive numeric settings are
// treated as unset; a negative window or interval must never reach a
// ticker.
func (c *Config) applyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Extractor.BinaryPath == "" {
		c.Extractor.BinaryPath = "yt-dlp"
	}
	if c.Extractor.Timeout <= 0 {
		c.Extractor.Timeout = 30
	}
	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = 10
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = 60
	}
	if c.RateLimit.IdleTTL <= 0 {
		c.RateLimit.IdleTTL = 600
	}
	if c.Downloads.Dir == "" {
		c.Downloads.Dir = "./downloads"
	}
	if c.Downloads.TempDir == "" {
		c.Downloads.TempDir = "./downloads/.tmp"
	}
	if c.Downloads.Retention <= 0 {
		c.Downloads.Retention = 3600
	}
	if c.Downloads.CleanupInterval <= 0 {
		c.Downloads.CleanupInterval = 600
	}
	if c.Storage.Backend == "" {
		c.Storage.Backend = "local"
	}
	if c.Cache.TTL <= 0 {
		c.Cache.TTL = 3600
	}
}
