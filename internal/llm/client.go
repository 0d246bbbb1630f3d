// Package llm provides chat clients for the assistant's language model
// backends and the prompts bnapp sends to them.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
)

// ErrNoChoices is returned when a backend answers without any completion.
var ErrNoChoices = errors.New("no response choices returned")

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client defines the interface for LLM providers.
type Client interface {
	// Chat sends messages to the LLM and returns the response.
	Chat(ctx context.Context, messages []Message) (string, error)

	// ChatJSON sends messages and parses the response as JSON into the provided type.
	ChatJSON(ctx context.Context, messages []Message, result any) error
}

// openAIChat runs a chat completion against any OpenAI-compatible endpoint.
func openAIChat(ctx context.Context, client openai.Client, model string, messages []Message) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case "system":
			params[i] = openai.SystemMessage(msg.Content)
		case "assistant":
			params[i] = openai.AssistantMessage(msg.Content)
		default:
			params[i] = openai.UserMessage(msg.Content)
		}
	}

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    model,
		Messages: params,
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", ErrNoChoices
	}
	return resp.Choices[0].Message.Content, nil
}

// decodeJSON extracts the JSON payload of a model answer into result.
func decodeJSON(content string, result any) error {
	if err := json.Unmarshal([]byte(extractJSON(content)), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}
	return nil
}

// extractJSON returns the JSON object or array embedded in s. Fenced code
// blocks win over bare objects; s is returned unchanged if nothing matches.
func extractJSON(s string) string {
	for _, fence := range []string{"```json", "```"} {
		idx := strings.Index(s, fence)
		if idx == -1 {
			continue
		}
		rest := strings.TrimLeft(s[idx+len(fence):], "\r\n")
		if end := strings.Index(rest, "```"); end != -1 {
			return strings.TrimRight(rest[:end], "\r\n")
		}
	}

	start := strings.IndexAny(s, "{[")
	if start == -1 {
		return s
	}
	depth := 0
	for j := start; j < len(s); j++ {
		switch s[j] {
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[start : j+1]
			}
		}
	}
	return s
}
