package ai

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// ErrEmptyResponse is returned when a decoded provider reply carries no
// completion at all (no choices, no candidates, or an empty text field).
var ErrEmptyResponse = errors.New("echoline: no response content received from API")

// MissingCredentialError is returned at client construction when a provider
// mandates an API key and neither an explicit key nor the environment
// variable supplies one.
type MissingCredentialError struct {
	Provider string
}

func (e *MissingCredentialError) Error() string {
	return fmt.Sprintf("API key required for provider %q. Set it in the config file or via the ECHOLINE_API_KEY environment variable", e.Provider)
}

// UnknownProviderError is returned when a provider identifier matches no
// known name and is not an http(s) URL.
type UnknownProviderError struct {
	Identifier string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("invalid provider %q: supported providers are chat, chatanywhere, openai, claude, gemini, ollama, grok, mistral, cohere, or a custom URL", e.Identifier)
}

// TransportError wraps a failure to complete the HTTP exchange itself:
// connection refused, DNS failure, timeout, or a broken body read. The
// Timeout flag lets callers decide between lengthening the deadline and
// switching providers.
type TransportError struct {
	Err     error
	Timeout bool
}

func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("request timed out: %v. The API might be slow or unavailable", e.Err)
	}
	return fmt.Sprintf("network error: %v. Please check your internet connection", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// NewTransportError classifies err and wraps it as a TransportError,
// detecting timeouts via net.Error and context deadlines.
func NewTransportError(err error) *TransportError {
	timeout := errors.Is(err, context.DeadlineExceeded)
	var netErr net.Error
	if !timeout && errors.As(err, &netErr) {
		timeout = netErr.Timeout()
	}
	return &TransportError{Err: err, Timeout: timeout}
}

// APIError represents a non-2xx HTTP reply from a provider. The body is kept
// as best-effort text and a remediation hint is attached based on the status
// class.
type APIError struct {
	Status  int
	Message string
	Hint    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("API request failed with status %d: %s. %s", e.Status, e.Message, e.Hint)
}

// NewAPIError builds an APIError with the hint for the given status class.
func NewAPIError(status int, message string) *APIError {
	return &APIError{Status: status, Message: message, Hint: HintForStatus(status)}
}

// HintForStatus maps an HTTP status code to a human-readable remediation
// hint. Known classes: credential issues (401/403), rate limiting (429) and
// service outage (5xx); anything else gets a generic pointer to the
// provider's documentation.
func HintForStatus(status int) string {
	switch {
	case status == 401:
		return "Check your API key is correct and has the right permissions."
	case status == 403:
		return "Your API key may not have access to this resource or may be expired."
	case status == 429:
		return "Rate limit exceeded. Try again later or reduce request frequency."
	case status >= 500 && status <= 599:
		return "Server error. The API service may be down, try again later."
	default:
		return "Check the API documentation for this status code."
	}
}
