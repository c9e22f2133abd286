// Package engine orchestrates a chat delivery end to end: cache lookup,
// provider translation and transport, response decoding, cache store, and an
// ordered fallback chain of secondary providers. It is the only component
// with network side effects; everything above it hands in a canonical
// ai.ChatRequest and gets back plain text (or a stream of text increments).
package engine

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/echoline-ai/echoline/core/cache"
	"github.com/echoline-ai/echoline/providers/ai"
	"github.com/echoline-ai/echoline/providers/ai/registry"
)

const (
	// EnvAPIKey is the process-wide credential fallback, consulted once at
	// engine construction.
	EnvAPIKey = "ECHOLINE_API_KEY"

	// DefaultTimeout is the hard per-request transport deadline when the
	// caller does not override it.
	DefaultTimeout = 30 * time.Second

	// cacheTTL bounds how long a completed non-streaming reply is reused.
	cacheTTL = 5 * time.Minute
)

// Engine delivers chat requests to a primary provider, falling back through
// an ordered chain of secondary providers on failure. An Engine is immutable
// after construction and safe for concurrent use: concurrent calls share
// only the HTTP connection pool and the optional response cache.
type Engine struct {
	spec       registry.Spec
	fallbacks  []registry.Spec
	apiKey     string
	httpClient *http.Client
	cache      *cache.ResponseCache
}

type options struct {
	apiKey     string
	timeout    time.Duration
	cache      *cache.ResponseCache
	fallbacks  []string
	httpClient *http.Client
}

// Option configures an Engine at construction.
type Option func(*options)

// WithAPIKey supplies an explicit credential, taking precedence over the
// environment variable.
func WithAPIKey(apiKey string) Option {
	return func(o *options) { o.apiKey = apiKey }
}

// WithTimeout sets the hard per-request transport deadline.
func WithTimeout(timeout time.Duration) Option {
	return func(o *options) { o.timeout = timeout }
}

// WithCache attaches a shared response cache for non-streaming replies.
// Without it the engine performs no memoization.
func WithCache(responseCache *cache.ResponseCache) Option {
	return func(o *options) { o.cache = responseCache }
}

// WithFallbacks sets the ordered chain of secondary provider identifiers
// attempted after the primary fails. Each is tried at most once per call.
func WithFallbacks(identifiers ...string) Option {
	return func(o *options) { o.fallbacks = append(o.fallbacks, identifiers...) }
}

// WithHTTPClient overrides the transport client. Intended for sharing one
// connection pool across engines (and for tests).
func WithHTTPClient(httpClient *http.Client) Option {
	return func(o *options) { o.httpClient = httpClient }
}

// New resolves identifier into a provider and builds an engine around it.
//
// The credential is resolved once, here: the explicit option wins, then the
// ECHOLINE_API_KEY environment variable. A provider that mandates a
// credential fails construction with ai.MissingCredentialError when neither
// supplies one. Fallback identifiers are resolved eagerly so that a
// misspelled chain fails up front rather than mid-delivery.
func New(identifier string, opts ...Option) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	spec, err := registry.Resolve(identifier)
	if err != nil {
		return nil, err
	}

	apiKey := o.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(EnvAPIKey)
	}
	if spec.RequiresKey && apiKey == "" {
		return nil, &ai.MissingCredentialError{Provider: spec.Name}
	}

	fallbacks := make([]registry.Spec, 0, len(o.fallbacks))
	for _, fallbackID := range o.fallbacks {
		fallbackSpec, err := registry.Resolve(fallbackID)
		if err != nil {
			return nil, err
		}
		fallbacks = append(fallbacks, fallbackSpec)
	}

	timeout := o.timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = NewHTTPClient(timeout)
	}

	return &Engine{
		spec:       spec,
		fallbacks:  fallbacks,
		apiKey:     apiKey,
		httpClient: httpClient,
		cache:      o.cache,
	}, nil
}

// NewHTTPClient builds the pooled transport client used for provider
// exchanges. The timeout is a hard per-request deadline covering connect,
// headers and the full body read; keep-alive settings let concurrent and
// repeated calls reuse connections instead of opening new ones.
func NewHTTPClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 60 * time.Second,
			}).DialContext,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 20,
			IdleConnTimeout:     90 * time.Second,
			ForceAttemptHTTP2:   true,
		},
	}
}

// Provider returns the primary provider's display name.
func (e *Engine) Provider() string { return e.spec.Name }

// chain returns the primary spec followed by the fallback specs, in order.
func (e *Engine) chain() []registry.Spec {
	return append([]registry.Spec{e.spec}, e.fallbacks...)
}

// Deliver sends the request and returns the complete reply text.
//
// Non-streaming requests consult the response cache first and memoize the
// decoded reply for a fixed TTL on success. Each provider in the chain is
// tried at most once, in order; the first success wins and an exhausted
// chain returns the last failure verbatim.
func (e *Engine) Deliver(ctx context.Context, request ai.ChatRequest) (string, error) {
	useCache := e.cache != nil && !request.Streaming()

	if useCache {
		fingerprint := cache.FingerprintRequest(e.spec.Name, request)
		if text, ok := e.cache.Lookup(fingerprint); ok {
			return text, nil
		}
	}

	var lastErr error
	for attemptIndex, spec := range e.chain() {
		if attemptIndex > 0 {
			slog.Warn("provider failed, falling back", "failed", lastErr.Error(), "next", spec.Name)
		}

		text, err := e.attempt(ctx, spec, request)
		if err != nil {
			lastErr = err
			continue
		}

		if useCache {
			e.cache.Store(cache.FingerprintRequest(spec.Name, request), text, cacheTTL)
		}
		return text, nil
	}

	return "", lastErr
}

// attempt performs exactly one exchange against the given provider spec.
func (e *Engine) attempt(ctx context.Context, spec registry.Spec, request ai.ChatRequest) (string, error) {
	if spec.RequiresKey && e.apiKey == "" {
		return "", &ai.MissingCredentialError{Provider: spec.Name}
	}

	provider := spec.New(e.apiKey, e.httpClient)
	response, err := provider.SendMessage(ctx, request)
	if err != nil {
		return "", err
	}
	return response.Content, nil
}

// DeliverStream sends the request and forwards each text increment to sink
// as it arrives, returning the accumulated reply text.
//
// Streaming never reads from or writes to the cache, even when an identical
// non-streaming request was previously cached. Providers without a native
// incremental form deliver the whole reply through a single sink invocation.
// The fallback discipline matches Deliver; note that a mid-stream failure
// advances the chain even though sink may already have received partial
// output from the failed provider.
func (e *Engine) DeliverStream(ctx context.Context, request ai.ChatRequest, sink func(chunk string)) (string, error) {
	var lastErr error
	for attemptIndex, spec := range e.chain() {
		if attemptIndex > 0 {
			slog.Warn("provider failed, falling back", "failed", lastErr.Error(), "next", spec.Name)
		}

		text, err := e.attemptStream(ctx, spec, request, sink)
		if err != nil {
			lastErr = err
			continue
		}
		return text, nil
	}

	return "", lastErr
}

// attemptStream performs one streaming exchange against the given spec,
// emulating streaming with a single whole-body exchange when the provider
// has no native incremental form.
func (e *Engine) attemptStream(ctx context.Context, spec registry.Spec, request ai.ChatRequest, sink func(chunk string)) (string, error) {
	if spec.RequiresKey && e.apiKey == "" {
		return "", &ai.MissingCredentialError{Provider: spec.Name}
	}

	provider := spec.New(e.apiKey, e.httpClient)

	var stream *ai.ChatStream
	if streamProvider, ok := provider.(ai.StreamProvider); ok {
		var err error
		stream, err = streamProvider.StreamMessage(ctx, request)
		if err != nil {
			return "", err
		}
	} else {
		response, err := provider.SendMessage(ctx, request)
		if err != nil {
			return "", err
		}
		stream = ai.NewSingleEventStream(response)
	}

	var accumulated []byte
	for event, err := range stream.Iter() {
		if err != nil {
			return string(accumulated), err
		}
		if event.Type == ai.StreamEventContent && event.Content != "" {
			if sink != nil {
				sink(event.Content)
			}
			accumulated = append(accumulated, event.Content...)
		}
	}

	return string(accumulated), nil
}
