package llm

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var errNoGitHubToken = errors.New("GitHub token not found: set BNAPP_GITHUB_TOKEN or sign in to GitHub Copilot")

// LoadGitHubToken finds the GitHub OAuth token used for the Copilot
// exchange: BNAPP_GITHUB_TOKEN, then GITHUB_TOKEN, then the token the
// Copilot editor plugins keep in github-copilot/hosts.json.
func LoadGitHubToken() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = ""
	}
	return findGitHubToken(os.Getenv, dir)
}

func findGitHubToken(getenv func(string) string, configDir string) (string, error) {
	for _, name := range []string{"BNAPP_GITHUB_TOKEN", "GITHUB_TOKEN"} {
		if token := strings.TrimSpace(getenv(name)); token != "" {
			return token, nil
		}
	}
	if configDir == "" {
		return "", errNoGitHubToken
	}
	token, err := readHostsToken(filepath.Join(configDir, "github-copilot", "hosts.json"))
	if err != nil {
		return "", fmt.Errorf("%w (%v)", errNoGitHubToken, err)
	}
	return token, nil
}

// readHostsToken returns the oauth_token of the github.com entry.
func readHostsToken(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	var hosts map[string]struct {
		OAuthToken string `json:"oauth_token"`
	}
	if err := json.Unmarshal(data, &hosts); err != nil {
		return "", fmt.Errorf("parsing %s: %w", path, err)
	}
	for host, entry := range hosts {
		if strings.Contains(host, "github.com") && entry.OAuthToken != "" {
			return entry.OAuthToken, nil
		}
	}
	return "", fmt.Errorf("no github.com token in %s", path)
}
