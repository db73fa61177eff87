package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiTemperature = 0.7

// GeminiClient talks to the hosted Gemini API. The API key comes from the
// environment at startup; a missing key fails construction, never a call.
type GeminiClient struct {
	client *genai.Client
	model  string
}

// NewGeminiClient builds a client for the given model (e.g. "gemini-2.0-flash").
func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrMissingAPIKey
	}
	c, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: new client: %w", err)
	}
	return &GeminiClient{client: c, model: model}, nil
}

func (g *GeminiClient) Generate(ctx context.Context, prompt Prompt) (string, error) {
	m := g.client.GenerativeModel(g.model)
	m.SetTemperature(geminiTemperature)
	if prompt.System != "" {
		m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(prompt.System)}}
	}

	resp, err := m.GenerateContent(ctx, genai.Text(prompt.User))
	if err != nil {
		return "", fmt.Errorf("gemini: generate: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if txt, ok := part.(genai.Text); ok {
				sb.WriteString(string(txt))
			}
		}
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("gemini: empty response from model %s", g.model)
	}
	return sb.String(), nil
}

func (g *GeminiClient) ProviderName() string { return "gemini" }

// Close releases the underlying gRPC connection to the Gemini API.
func (g *GeminiClient) Close() error { return g.client.Close() }
