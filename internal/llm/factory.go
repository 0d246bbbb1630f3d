package llm

import (
	"errors"
	"fmt"
	"strings"
)

const (
	ProviderCopilot  = "copilot"
	ProviderOllama   = "ollama"
	ProviderLMStudio = "lmstudio"
	ProviderNone     = "none"
)

// ErrDisabled is returned by NewClient for the none provider.
var ErrDisabled = errors.New("llm provider disabled")

// providerName folds the configured value; an empty provider means copilot.
func providerName(provider string) string {
	p := strings.ToLower(strings.TrimSpace(provider))
	if p == "" {
		return ProviderCopilot
	}
	return p
}

// NewClient builds the client for the [llm] settings.
func NewClient(provider, model, baseURL string) (Client, error) {
	switch providerName(provider) {
	case ProviderCopilot:
		return NewCopilotClient(model)
	case ProviderOllama:
		return NewOllamaClient(model, baseURL)
	case ProviderLMStudio:
		return NewLMStudioClient(model, baseURL)
	case ProviderNone:
		return nil, ErrDisabled
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}

// IsLocal reports whether provider runs on this machine. Local models get
// the compact prompt.
func IsLocal(provider string) bool {
	p := providerName(provider)
	return p == ProviderOllama || p == ProviderLMStudio
}
