package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGenerator implements RemoteGenerator using the OpenAI chat
// completion API. Every call is bounded by a timeout so a slow upstream can
// never stall a tutoring turn beyond it; there is no retry, the caller falls
// back instead.
type OpenAIGenerator struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
	Timeout time.Duration
}

const defaultRemoteTimeout = 10 * time.Second

func NewOpenAIGenerator(cfg OpenAIConfig) (*OpenAIGenerator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key is required")
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}

	model := cfg.Model
	if model == "" {
		model = openai.GPT4oMini
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRemoteTimeout
	}

	return &OpenAIGenerator{
		client:  openai.NewClientWithConfig(config),
		model:   model,
		timeout: timeout,
	}, nil
}

func (g *OpenAIGenerator) Generate(ctx context.Context, prompt, systemContext string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemContext},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.7,
	})
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	if len(resp.Choices) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("no choices in completion response")}
	}

	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", &GenerationError{Err: fmt.Errorf("empty completion text")}
	}
	return text, nil
}
