package coref

import (
	"fmt"
	"strings"
	"time"

	"github.com/ppiankov/quotex/internal/cache"
	"github.com/ppiankov/quotex/internal/model"
)

// Config holds provider configuration
type Config struct {
	// Provider name: "http", "openai", "anthropic", "ollama", "" (disabled)
	Provider string

	// Endpoint of the extraction service, or a custom model API base URL
	Endpoint string

	APIKey    string
	Model     string
	Submitter string
	Timeout   time.Duration

	RequestsPerSecond float64
	BurstSize         int

	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// ConfigFromModel builds provider configuration from the runtime config
func ConfigFromModel(cfg *model.Config) Config {
	return Config{
		Provider:          cfg.Coref.Provider,
		Endpoint:          cfg.Coref.Endpoint,
		APIKey:            cfg.Coref.APIKey,
		Model:             cfg.Coref.Model,
		Submitter:         cfg.Coref.Submitter,
		Timeout:           cfg.Coref.Timeout,
		RequestsPerSecond: cfg.Coref.RequestsPerSecond,
		BurstSize:         cfg.Coref.BurstSize,
		HTTPProxy:         cfg.HTTP.HTTPProxy,
		HTTPSProxy:        cfg.HTTP.HTTPSProxy,
		NoProxy:           cfg.HTTP.NoProxy,
	}
}

// NewProvider creates a provider based on configuration. An empty provider
// name disables attribution and returns nil.
func NewProvider(config Config) (Provider, error) {
	switch strings.ToLower(config.Provider) {
	case "http", "calais":
		return NewHTTPProvider(config)

	case "openai":
		return NewOpenAIProvider(config)

	case "anthropic", "claude":
		return NewAnthropicProvider(config)

	case "ollama":
		return NewOllamaProvider(config)

	case "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown coref provider: %s (supported: http, openai, anthropic, ollama)", config.Provider)
	}
}

// NewProviderFromModel creates the configured provider, wrapped in a
// response cache when caching is enabled
func NewProviderFromModel(cfg *model.Config) (Provider, error) {
	p, err := NewProvider(ConfigFromModel(cfg))
	if err != nil || p == nil {
		return p, err
	}
	if !cfg.Cache.Enabled {
		return p, nil
	}
	c := cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
	return NewCachedProvider(p, c, cfg.Cache.DiskTTL), nil
}
