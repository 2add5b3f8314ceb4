package model

import "time"

// Config is the complete runtime configuration
type Config struct {
	Database     DatabaseConfig     `yaml:"database" mapstructure:"database"`
	Classifier   ClassifierConfig   `yaml:"classifier" mapstructure:"classifier"`
	Coref        CorefConfig        `yaml:"coref" mapstructure:"coref"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	HTTP         HTTPConfig         `yaml:"http" mapstructure:"http"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	RateLimiting RateLimitingConfig `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Site         SiteConfig         `yaml:"site" mapstructure:"site"`
	Log          LogConfig          `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig locates the sqlite record store
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ClassifierConfig controls training and evaluation
type ClassifierConfig struct {
	Iterations          int      `yaml:"iterations" mapstructure:"iterations"`                     // Iterative scaling passes
	InformativeFeatures int      `yaml:"informative_features" mapstructure:"informative_features"` // Features listed by evaluate
	ExtraFeatures       []string `yaml:"extra_features" mapstructure:"extra_features"`             // Inactive features to enable by name
	TrainFraction       float64  `yaml:"train_fraction" mapstructure:"train_fraction"`             // Share of training rows used for fitting during evaluate
}

// CorefConfig selects and configures the entity extraction provider
type CorefConfig struct {
	Provider          string        `yaml:"provider" mapstructure:"provider"` // http, openai, anthropic, ollama, "" (disabled)
	Endpoint          string        `yaml:"endpoint" mapstructure:"endpoint"`
	APIKey            string        `yaml:"api_key,omitempty" mapstructure:"api_key"`
	Model             string        `yaml:"model,omitempty" mapstructure:"model"`
	Submitter         string        `yaml:"submitter" mapstructure:"submitter"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int           `yaml:"burst_size" mapstructure:"burst_size"`
}

// CacheConfig controls caching of extraction responses
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"`
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// HTTPConfig controls story page and feed fetching
type HTTPConfig struct {
	Timeout       time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent     string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes  int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	InsecureTLS   bool          `yaml:"insecure_tls" mapstructure:"insecure_tls"`
	RespectRobots bool          `yaml:"respect_robots" mapstructure:"respect_robots"`
	HTTPProxy     string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy    string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy       string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ConcurrencyConfig sizes the ingestion worker pool
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// RateLimitingConfig limits page fetches per host
type RateLimitingConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// SiteConfig describes the publication the stories come from
type SiteConfig struct {
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
}

// LogConfig controls log verbosity
type LogConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Path: "quotex.db",
		},
		Classifier: ClassifierConfig{
			Iterations:          10,
			InformativeFeatures: 10,
			TrainFraction:       0.5,
		},
		Coref: CorefConfig{
			Provider:          "",
			Submitter:         "quotex",
			Timeout:           30 * time.Second,
			RequestsPerSecond: 2,
			BurstSize:         1,
		},
		Cache: CacheConfig{
			Enabled:   true,
			Dir:       ".quotex-cache",
			MemoryTTL: 1 * time.Hour,
			DiskTTL:   7 * 24 * time.Hour,
		},
		HTTP: HTTPConfig{
			Timeout:       30 * time.Second,
			UserAgent:     "quotex/0.1 (+https://github.com/ppiankov/quotex)",
			MaxBodyBytes:  2_000_000,
			RespectRobots: true,
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		RateLimiting: RateLimitingConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Site: SiteConfig{
			BaseURL: "http://www.baycitizen.org",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}
