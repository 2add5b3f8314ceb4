package coref

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/quotex/internal/util"
	"github.com/ppiankov/quotex/internal/worker"
)

// maxResponseBytes bounds the annotations read from the service
const maxResponseBytes = 8 << 20

// HTTPProvider posts story text to a JSON entity extraction endpoint
type HTTPProvider struct {
	endpoint   string
	apiKey     string
	submitter  string
	httpClient *http.Client
	limiter    *worker.Limiter
}

type analyzeRequest struct {
	Content   string `json:"content"`
	Submitter string `json:"submitter"`
}

// NewHTTPProvider creates a provider for the service at endpoint
func NewHTTPProvider(config Config) (*HTTPProvider, error) {
	if config.Endpoint == "" {
		return nil, fmt.Errorf("coref endpoint is required for the http provider")
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &HTTPProvider{
		endpoint:  strings.TrimSuffix(config.Endpoint, "/"),
		apiKey:    config.APIKey,
		submitter: config.Submitter,
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
			},
		},
		limiter: worker.NewLimiter(config.RequestsPerSecond, config.BurstSize),
	}, nil
}

// Name returns the provider name
func (p *HTTPProvider) Name() string {
	return "http"
}

// Analyze makes a single request. Failures are returned, never retried.
func (p *HTTPProvider) Analyze(ctx context.Context, text string) (*Annotations, error) {
	if err := p.limiter.Wait(ctx, p.endpoint); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	body, err := json.Marshal(analyzeRequest{Content: text, Submitter: p.submitter})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Submitter", p.submitter)
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("analyze: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status: %d %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return DecodeAnnotations(data)
}

// DecodeAnnotations parses a service response
func DecodeAnnotations(data []byte) (*Annotations, error) {
	var ann Annotations
	if err := json.Unmarshal(data, &ann); err != nil {
		return nil, fmt.Errorf("decode annotations: %w", err)
	}
	return &ann, nil
}
