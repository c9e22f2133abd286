// Package ai defines the shared, provider-agnostic types used across all LLM
// provider implementations (OpenAI-compatible services, Cohere, Gemini). Each
// provider's conversion layer is responsible for mapping these types to its
// own wire format, keeping the rest of the codebase decoupled from
// provider-specific details.
//
// The two central interfaces are [Provider] for whole-body chat completions
// and [StreamProvider] for SSE-based streaming responses. Request data flows
// through [ChatRequest] and responses are returned as [ChatResponse]. For
// incremental delivery, [ChatStream] and [StreamEvent] carry text deltas to
// the caller. The package also defines the error taxonomy shared by the
// transport layer and the delivery engine ([APIError], [TransportError],
// [MissingCredentialError], [ErrEmptyResponse]).
package ai
