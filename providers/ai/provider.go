package ai

import "context"

// Provider is the core interface that every LLM provider implementation must
// satisfy. A provider owns exactly one translator/decoder pair: it converts a
// canonical [ChatRequest] into its own wire format, performs the HTTP
// exchange, and decodes the reply back into a [ChatResponse].
// Use [StreamProvider] in addition when the provider supports native
// incremental delivery.
type Provider interface {
	// Name returns the provider's display name, used in error messages and
	// cache-key hashing.
	Name() string

	// SendMessage sends a chat request to the provider and returns the
	// completed response. Returns an error if the exchange fails, the
	// context is cancelled, or the reply carries no content
	// ([ErrEmptyResponse]).
	SendMessage(ctx context.Context, request ChatRequest) (*ChatResponse, error)
}

// StreamProvider is an optional interface that providers implement to support
// native incremental (SSE) delivery. Callers detect streaming support via
// type assertion: provider.(StreamProvider). Providers that do not implement
// it emulate streaming with a single whole-body call wrapped by
// [NewSingleEventStream]; callers must not assume chunk granularity is
// uniform across providers.
type StreamProvider interface {
	Provider

	// StreamMessage sends a chat request and returns a ChatStream that
	// yields incremental deltas as they arrive. Pre-stream errors (auth,
	// bad request, network) are returned as a normal error; mid-stream
	// errors are yielded through the iterator.
	StreamMessage(ctx context.Context, request ChatRequest) (*ChatStream, error)
}
