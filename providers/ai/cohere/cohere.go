// Package cohere implements the ai.Provider translator/decoder pair for
// Cohere's chat endpoint, whose schema accepts a single flattened message
// rather than a message list. The provider has no native incremental form;
// streaming is emulated by the delivery engine via ai.NewSingleEventStream,
// which invokes the caller's sink exactly once with the whole reply.
package cohere

import (
	"context"
	"net/http"

	"github.com/echoline-ai/echoline/internal/utils"
	"github.com/echoline-ai/echoline/providers/ai"
)

const (
	defaultModel       = "command"
	defaultTemperature = float32(0.7)
)

// Provider implements the ai.Provider interface for the Cohere chat API.
// Authentication is a bearer Authorization header.
type Provider struct {
	name     string
	endpoint string
	apiKey   string
	client   *http.Client
}

// New creates a Cohere provider for the given display name and endpoint URL.
func New(name, endpoint string) *Provider {
	return &Provider{
		name:     name,
		endpoint: endpoint,
		client:   &http.Client{},
	}
}

// Name returns the provider's display name.
func (p *Provider) Name() string { return p.name }

// WithAPIKey sets the API key used for authenticating requests.
func (p *Provider) WithAPIKey(apiKey string) *Provider {
	p.apiKey = apiKey
	return p
}

// WithHTTPClient sets the HTTP client used for outbound requests.
func (p *Provider) WithHTTPClient(httpClient *http.Client) *Provider {
	p.client = httpClient
	return p
}

// SendMessage implements the ai.Provider interface.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	wireRequest := requestToWire(request)

	_, resp, err := utils.DoPostSync[chatResponse](ctx, p.client, p.endpoint, p.apiKey, wireRequest)
	if err != nil {
		return nil, err
	}

	if resp == nil || resp.Text == "" {
		return nil, ai.ErrEmptyResponse
	}

	return &ai.ChatResponse{Content: resp.Text}, nil
}
