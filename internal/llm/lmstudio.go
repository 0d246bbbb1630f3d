package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const defaultLMStudioBaseURL = "http://localhost:1234/v1"

// LMStudioClient implements Client against LM Studio's OpenAI-compatible server.
type LMStudioClient struct {
	client  openai.Client
	model   string
	baseURL string
}

// NewLMStudioClient creates a new LM Studio client. The API key is read
// from LMSTUDIO_API_KEY, then OPENAI_API_KEY; LM Studio accepts any value.
func NewLMStudioClient(model, baseURL string) (*LMStudioClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("lm studio model is required")
	}
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}

	apiKey := "lm-studio"
	for _, env := range []string{"LMSTUDIO_API_KEY", "OPENAI_API_KEY"} {
		if v := os.Getenv(env); v != "" {
			apiKey = v
			break
		}
	}

	return &LMStudioClient{
		client:  openai.NewClient(option.WithBaseURL(baseURL), option.WithAPIKey(apiKey)),
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *LMStudioClient) Chat(ctx context.Context, messages []Message) (string, error) {
	content, err := openAIChat(ctx, c.client, c.model, messages)
	if err != nil {
		return "", fmt.Errorf("lm studio chat completion: %w", err)
	}
	return content, nil
}

// ChatJSON sends messages and parses the response as JSON into result.
func (c *LMStudioClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}
