package openai

import (
	"context"
	"net/http"

	"github.com/echoline-ai/echoline/internal/utils"
	"github.com/echoline-ai/echoline/providers/ai"
)

// defaultModel is substituted when the canonical request leaves Model unset.
const defaultModel = "gpt-3.5-turbo"

// Provider implements the ai.Provider interface for any service speaking the
// OpenAI chat-completions schema. Authentication is a bearer Authorization
// header when an API key is configured.
type Provider struct {
	name     string
	endpoint string
	apiKey   string
	client   *http.Client
}

// New creates a provider for an OpenAI-compatible service. name is the
// display name used in errors and cache keys; endpoint is the full
// chat-completions URL.
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

// SendMessage implements the ai.Provider interface: it translates the
// canonical request into the chat-completions schema, performs the exchange
// and decodes the first choice's message text.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	wireRequest := requestToWire(request, false)

	_, resp, err := utils.DoPostSync[chatCompletionResponse](ctx, p.client, p.endpoint, p.apiKey, wireRequest)
	if err != nil {
		return nil, err
	}

	return responseToGeneric(resp)
}
