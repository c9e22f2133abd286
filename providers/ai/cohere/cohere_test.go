package cohere

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/echoline-ai/echoline/internal/utils"
	"github.com/echoline-ai/echoline/providers/ai"
)

// TestRequestToWire_Flattening verifies the message selection: newest user
// message wins, then the last message of any role, then empty.
func TestRequestToWire_Flattening_NewestUserMessageWins(t *testing.T) {
	conversation := ai.ChatRequest{Messages: []ai.Message{
		ai.NewTextMessage(ai.RoleSystem, "be brief"),
		ai.NewTextMessage(ai.RoleUser, "first question"),
		ai.NewTextMessage(ai.RoleAssistant, "first answer"),
		ai.NewTextMessage(ai.RoleUser, "second question"),
		ai.NewTextMessage(ai.RoleAssistant, "trailing answer"),
	}}
	if got := requestToWire(conversation).Message; got != "second question" {
		t.Errorf("expected newest user message, got %q", got)
	}

	noUser := ai.ChatRequest{Messages: []ai.Message{
		ai.NewTextMessage(ai.RoleSystem, "be brief"),
		ai.NewTextMessage(ai.RoleAssistant, "unsolicited"),
	}}
	if got := requestToWire(noUser).Message; got != "unsolicited" {
		t.Errorf("expected last message fallback, got %q", got)
	}

	if got := requestToWire(ai.ChatRequest{}).Message; got != "" {
		t.Errorf("expected empty message for empty conversation, got %q", got)
	}
}

// TestRequestToWire_Defaults verifies the Cohere-specific model and
// temperature defaults and explicit-value passthrough.
func TestRequestToWire_Defaults_ModelAndTemperature(t *testing.T) {
	wire := requestToWire(ai.ChatRequest{})
	if wire.Model != "command" {
		t.Errorf("expected default model command, got %q", wire.Model)
	}
	if wire.Temperature != 0.7 {
		t.Errorf("expected default temperature 0.7, got %v", wire.Temperature)
	}

	explicit := requestToWire(ai.ChatRequest{
		Model:       "command-r",
		Temperature: utils.Ptr(float32(0.1)),
		MaxTokens:   utils.Ptr(uint32(64)),
	})
	if explicit.Model != "command-r" {
		t.Errorf("expected explicit model kept, got %q", explicit.Model)
	}
	if explicit.Temperature != 0.1 {
		t.Errorf("expected explicit temperature kept, got %v", explicit.Temperature)
	}
	if explicit.MaxTokens == nil || *explicit.MaxTokens != 64 {
		t.Errorf("expected max tokens passthrough, got %v", explicit.MaxTokens)
	}
}

// TestSendMessage_RoundTrip verifies the exchange against a Cohere-shaped
// test server, including the flattened wire form.
func TestSendMessage_RoundTrip_TextDecoded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer co-test" {
			t.Errorf("expected bearer auth, got %q", auth)
		}

		var wire chatRequest
		if err := json.NewDecoder(r.Body).Decode(&wire); err != nil {
			t.Errorf("failed to decode wire request: %v", err)
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		if wire.Message != "hello" {
			t.Errorf("expected flattened message %q, got %q", "hello", wire.Message)
		}

		_, _ = w.Write([]byte(`{"text":"hi there"}`))
	}))
	defer server.Close()

	provider := New("cohere", server.URL).WithAPIKey("co-test").WithHTTPClient(server.Client())

	response, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.NewTextMessage(ai.RoleUser, "hello")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if response.Content != "hi there" {
		t.Errorf("expected content %q, got %q", "hi there", response.Content)
	}
}

// TestSendMessage_EmptyText verifies the empty-reply sentinel.
func TestSendMessage_EmptyText_ReturnsErrEmptyResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"text":""}`))
	}))
	defer server.Close()

	provider := New("cohere", server.URL).WithAPIKey("co-test").WithHTTPClient(server.Client())

	_, err := provider.SendMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.NewTextMessage(ai.RoleUser, "hello")},
	})
	if !errors.Is(err, ai.ErrEmptyResponse) {
		t.Errorf("expected ErrEmptyResponse, got %v", err)
	}
}
