package rewrite

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"time"

	cohere "github.com/cohere-ai/cohere-go/v2"
	cohereclient "github.com/cohere-ai/cohere-go/v2/client"
)

// CohereGenerator implements TextGenerator using the Cohere Chat API.
type CohereGenerator struct {
	client *cohereclient.Client
	model  string
}

// NewCohereGenerator builds a chat client. The HTTP client forces HTTP/1.1
// to avoid HTTP/2 protocol errors seen against the Cohere endpoint.
func NewCohereGenerator(apiKey, model string) *CohereGenerator {
	if model == "" {
		model = "command-r-plus"
	}

	httpClient := &http.Client{
		Timeout: 120 * time.Second,
		Transport: &http.Transport{
			TLSNextProto:      make(map[string]func(authority string, c *tls.Conn) http.RoundTripper),
			ForceAttemptHTTP2: false,
		},
	}
	client := cohereclient.NewClient(
		cohereclient.WithToken(apiKey),
		cohereclient.WithHTTPClient(httpClient),
	)
	return &CohereGenerator{client: client, model: model}
}

// Generate sends the prompt as a single chat message and returns the
// complete (non-streamed) response text.
func (g *CohereGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := g.client.Chat(ctx, &cohere.ChatRequest{
		Message: prompt,
		Model:   &g.model,
	})
	if err != nil {
		return "", fmt.Errorf("cohere chat error: %w", err)
	}
	if resp == nil {
		return "", errors.New("cohere chat returned empty response")
	}
	return resp.Text, nil
}
