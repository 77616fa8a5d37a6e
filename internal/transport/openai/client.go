package openai

import openai "github.com/sashabaranov/go-openai"

// NewClient builds the shared API client. baseURL is optional and exists for
// OpenAI-compatible gateways and tests.
func NewClient(apiKey, baseURL string) *openai.Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return openai.NewClientWithConfig(cfg)
}
