package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	copilotTokenURL = "https://api.github.com/copilot_internal/v2/token"
	copilotBaseURL  = "https://api.githubcopilot.com"
	userAgent       = "Bnapp/1.0"

	// DefaultModel is the model used when none is configured.
	DefaultModel = "gpt-4o"
)

// CopilotClient implements Client on top of GitHub Copilot's chat API.
type CopilotClient struct {
	client openai.Client
	model  string
}

type copilotToken struct {
	Token     string `json:"token"`
	ExpiresAt int64  `json:"expires_at"`
}

// NewCopilotClient loads the GitHub token and exchanges it for a Copilot
// bearer token.
func NewCopilotClient(model string) (*CopilotClient, error) {
	if model == "" {
		model = DefaultModel
	}

	githubToken, err := LoadGitHubToken()
	if err != nil {
		return nil, fmt.Errorf("loading GitHub token: %w", err)
	}

	http := resty.New().
		SetTimeout(30*time.Second).
		SetHeader("User-Agent", userAgent)
	bearer, err := exchangeToken(context.Background(), http, copilotTokenURL, githubToken)
	if err != nil {
		return nil, fmt.Errorf("exchanging token: %w", err)
	}

	client := openai.NewClient(
		option.WithBaseURL(copilotBaseURL),
		option.WithAPIKey(bearer),
		option.WithHeader("Editor-Version", userAgent),
		option.WithHeader("Editor-Plugin-Version", userAgent),
		option.WithHeader("Copilot-Integration-Id", "vscode-chat"),
	)
	return &CopilotClient{client: client, model: model}, nil
}

// exchangeToken trades a GitHub OAuth token for a Copilot bearer token.
func exchangeToken(ctx context.Context, http *resty.Client, url, githubToken string) (string, error) {
	var out copilotToken
	resp, err := http.R().
		SetContext(ctx).
		SetHeader("Authorization", "Token "+githubToken).
		SetResult(&out).
		Get(url)
	if err != nil {
		return "", fmt.Errorf("making request: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("token exchange failed (status %d): %s", resp.StatusCode(), resp.String())
	}
	if out.Token == "" {
		return "", fmt.Errorf("token exchange returned an empty token")
	}
	return out.Token, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *CopilotClient) Chat(ctx context.Context, messages []Message) (string, error) {
	content, err := openAIChat(ctx, c.client, c.model, messages)
	if err != nil {
		return "", fmt.Errorf("copilot chat: %w", err)
	}
	return content, nil
}

// ChatJSON sends messages and parses the response as JSON into result.
func (c *CopilotClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	return decodeJSON(content, result)
}
