// Package gemini implements the ai.Provider translator/decoder pair for
// Google's Gemini generateContent API. The schema nests content in a
// contents/parts hierarchy, has no native system role, scopes its endpoint
// by model name, and authenticates via a "key" query parameter rather than a
// header. Streaming is emulated by the delivery engine via
// ai.NewSingleEventStream (single sink invocation with the whole reply).
package gemini

import (
	"context"
	"fmt"
	"net/http"

	"github.com/echoline-ai/echoline/internal/utils"
	"github.com/echoline-ai/echoline/providers/ai"
)

const defaultModel = "gemini-pro"

// Provider implements the ai.Provider interface for the Gemini API.
type Provider struct {
	name    string
	baseURL string
	apiKey  string
	client  *http.Client
}

// New creates a Gemini provider. baseURL is the API base (version included,
// no trailing slash); the model-scoped path is composed per request.
func New(name, baseURL string) *Provider {
	return &Provider{
		name:    name,
		baseURL: baseURL,
		client:  &http.Client{},
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

// SendMessage implements the ai.Provider interface. The endpoint is built by
// substituting the requested model (or the package default) into the
// model-scoped generateContent path.
func (p *Provider) SendMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatResponse, error) {
	model := request.Model
	if model == "" {
		model = defaultModel
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", p.baseURL, model)
	wireRequest := requestToWire(request)

	// Empty apiKey for DoPostSync's bearer default; Gemini authenticates
	// through the query string.
	_, resp, err := utils.DoPostSync[generateContentResponse](ctx, p.client, url, "", wireRequest,
		utils.QueryOption{Key: "key", Value: p.apiKey})
	if err != nil {
		return nil, err
	}

	text, err := firstCandidateText(resp)
	if err != nil {
		return nil, err
	}

	return &ai.ChatResponse{Model: model, Content: text}, nil
}

// Model describes one entry of the Gemini model listing.
type Model struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type modelList struct {
	Models []Model `json:"models"`
}

// ListModels fetches the models available to the configured API key.
func (p *Provider) ListModels(ctx context.Context) ([]Model, error) {
	url := p.baseURL + "/models"

	_, resp, err := utils.DoGetSync[modelList](ctx, p.client, url, "",
		utils.QueryOption{Key: "key", Value: p.apiKey})
	if err != nil {
		return nil, err
	}

	return resp.Models, nil
}
