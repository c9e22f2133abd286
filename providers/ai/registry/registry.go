// Package registry resolves free-form provider identifiers into provider
// specifications and constructs the matching translator/decoder pair. The
// closed set of known services lives in a single lookup table keyed by name;
// identifiers beginning with http:// or https:// resolve to a generic custom
// endpoint speaking the OpenAI-compatible schema.
package registry

import (
	"net/http"
	"strings"

	"github.com/echoline-ai/echoline/providers/ai"
	"github.com/echoline-ai/echoline/providers/ai/cohere"
	"github.com/echoline-ai/echoline/providers/ai/gemini"
	"github.com/echoline-ai/echoline/providers/ai/openai"
)

// Kind selects which translator/decoder pair a provider uses.
type Kind string

const (
	// KindOpenAICompatible speaks the chat-completions schema with a
	// messages array and bearer-header auth.
	KindOpenAICompatible Kind = "openai-compatible"
	// KindFlattened speaks a single-message schema (Cohere).
	KindFlattened Kind = "flattened"
	// KindHierarchical speaks the contents/parts schema with a
	// model-templated endpoint and query-parameter auth (Gemini).
	KindHierarchical Kind = "hierarchical"
)

// Spec describes a resolved provider: where to send requests, whether a
// credential is mandatory, the display name used in error messages and
// cache-key hashing, and the schema kind. Specs are immutable values.
type Spec struct {
	Name        string // display name
	Endpoint    string // full URL, or the API base for KindHierarchical
	RequiresKey bool
	Kind        Kind
}

// known is the closed table of well-known services. Claude and Ollama ride
// the OpenAI-compatible path: both expose chat-completions-shaped endpoints.
var known = map[string]Spec{
	"chat":         {Name: "chat", Endpoint: "https://ch.at/v1/chat/completions", RequiresKey: false, Kind: KindOpenAICompatible},
	"chatanywhere": {Name: "chatanywhere", Endpoint: "https://api.chatanywhere.tech/v1/chat/completions", RequiresKey: true, Kind: KindOpenAICompatible},
	"openai":       {Name: "openai", Endpoint: "https://api.openai.com/v1/chat/completions", RequiresKey: true, Kind: KindOpenAICompatible},
	"claude":       {Name: "claude", Endpoint: "https://api.anthropic.com/v1/messages", RequiresKey: true, Kind: KindOpenAICompatible},
	"ollama":       {Name: "ollama", Endpoint: "http://localhost:11434/api/chat", RequiresKey: false, Kind: KindOpenAICompatible},
	"grok":         {Name: "grok", Endpoint: "https://api.x.ai/v1/chat/completions", RequiresKey: true, Kind: KindOpenAICompatible},
	"mistral":      {Name: "mistral", Endpoint: "https://api.mistral.ai/v1/chat/completions", RequiresKey: true, Kind: KindOpenAICompatible},
	"cohere":       {Name: "cohere", Endpoint: "https://api.cohere.ai/v1/chat", RequiresKey: true, Kind: KindFlattened},
	"gemini":       {Name: "gemini", Endpoint: "https://generativelanguage.googleapis.com/v1beta", RequiresKey: true, Kind: KindHierarchical},
}

// Resolve maps an identifier to a provider Spec. Known names are matched
// case-insensitively; http(s) URLs become a custom OpenAI-compatible
// endpoint. Anything else fails with ai.UnknownProviderError. Resolution is
// pure: no I/O, no side effects.
func Resolve(identifier string) (Spec, error) {
	trimmed := strings.TrimSpace(identifier)
	lower := strings.ToLower(trimmed)

	if spec, ok := known[lower]; ok {
		return spec, nil
	}

	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return Spec{Name: "custom", Endpoint: trimmed, RequiresKey: true, Kind: KindOpenAICompatible}, nil
	}

	return Spec{}, &ai.UnknownProviderError{Identifier: identifier}
}

// Names returns the known provider names in no particular order, for help
// text and completion.
func Names() []string {
	names := make([]string, 0, len(known))
	for name := range known {
		names = append(names, name)
	}
	return names
}

// New constructs the capability-typed provider for the spec, selected by
// Kind. The httpClient is shared across providers so concurrent calls reuse
// the same connection pool; pass nil to use a per-provider default client.
func (s Spec) New(apiKey string, httpClient *http.Client) ai.Provider {
	switch s.Kind {
	case KindFlattened:
		provider := cohere.New(s.Name, s.Endpoint).WithAPIKey(apiKey)
		if httpClient != nil {
			provider = provider.WithHTTPClient(httpClient)
		}
		return provider
	case KindHierarchical:
		provider := gemini.New(s.Name, s.Endpoint).WithAPIKey(apiKey)
		if httpClient != nil {
			provider = provider.WithHTTPClient(httpClient)
		}
		return provider
	default:
		provider := openai.New(s.Name, s.Endpoint).WithAPIKey(apiKey)
		if httpClient != nil {
			provider = provider.WithHTTPClient(httpClient)
		}
		return provider
	}
}
