package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	api "github.com/ollama/ollama/api"
)

// OllamaClient talks to a self-hosted Ollama daemon. No credential needed.
type OllamaClient struct {
	client *api.Client
	model  string
}

// NewOllamaClient builds a client against baseURL (e.g. "http://localhost:11434").
func NewOllamaClient(baseURL, model string) (*OllamaClient, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("ollama: invalid base URL %q: %w", baseURL, err)
	}

	httpClient := &http.Client{
		Timeout: 120 * time.Second, // whatever is sensible for your env
	}

	return &OllamaClient{
		client: api.NewClient(base, httpClient),
		model:  model,
	}, nil
}

func (o *OllamaClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	stream := false
	req := &api.ChatRequest{
		Model:  o.model,
		Stream: &stream,
		Messages: []api.Message{
			{Role: "system", Content: prompt.System},
			{Role: "user", Content: prompt.User},
		},
	}

	var sb strings.Builder
	err := o.client.Chat(ctx, req, func(cr api.ChatResponse) error {
		sb.WriteString(cr.Message.Content)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("ollama: chat: %w", err)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("ollama: empty response from model %s", o.model)
	}
	return sb.String(), nil
}

func (o *OllamaClient) ProviderName() string { return "ollama" }
