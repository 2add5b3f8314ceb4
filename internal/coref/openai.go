package coref

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ppiankov/quotex/internal/util"
	"github.com/ppiankov/quotex/internal/worker"
	"github.com/sashabaranov/go-openai"
)

// systemPrompt frames every extraction request
const systemPrompt = "You extract people and their coreferent mentions from news text."

const extractionPrompt = `Find every person mentioned in the news story below, including pronouns and
partial names that refer to them. Respond with JSON only, in this shape:

{"entities": [{"_type": "Person", "commonname": "<full name>", "instances": [
  {"exact": "<mention as written>", "prefix": "<up to 40 characters before it>", "suffix": "<up to 40 characters after it>"}
]}]}

Copy prefix and suffix verbatim from the story. If nobody is mentioned, respond with {"entities": []}.

Story:
`

// OpenAIProvider extracts person mentions with an OpenAI chat model
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	limiter *worker.Limiter
	key     string
}

// NewOpenAIProvider creates a new OpenAI provider
func NewOpenAIProvider(config Config) (*OpenAIProvider, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	clientConfig := openai.DefaultConfig(config.APIKey)
	if config.Endpoint != "" {
		clientConfig.BaseURL = config.Endpoint
	}
	clientConfig.HTTPClient = &http.Client{
		Transport: &http.Transport{
			Proxy: util.NewProxyFunc(config.HTTPProxy, config.HTTPSProxy, config.NoProxy),
		},
	}

	model := config.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   model,
		timeout: timeout,
		limiter: worker.NewLimiter(config.RequestsPerSecond, config.BurstSize),
		key:     clientConfig.BaseURL,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// Analyze asks the model for person entities in text
func (p *OpenAIProvider) Analyze(ctx context.Context, text string) (*Annotations, error) {
	if err := p.limiter.Wait(ctx, p.key); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	ctxWithTimeout, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	resp, err := p.client.CreateChatCompletion(ctxWithTimeout, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: extractionPrompt + text,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Temperature: 0,
	})
	if err != nil {
		return nil, fmt.Errorf("OpenAI API error: %w", err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no response from OpenAI")
	}

	return decodeReply(resp.Choices[0].Message.Content)
}

// decodeReply parses annotations from a model reply, tolerating a fenced
// code block around the JSON
func decodeReply(content string) (*Annotations, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.Trim(content, "`\n ")

	return DecodeAnnotations([]byte(content))
}
