package openai

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/echoline-ai/echoline/internal/utils"
	"github.com/echoline-ai/echoline/providers/ai"
)

// sseHandler writes each chunk with an explicit flush, so the client sees the
// stream split exactly at the given boundaries.
func sseHandler(t *testing.T, chunks []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		flusher, ok := w.(http.Flusher)
		if !ok {
			t.Error("test server does not support flushing")
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		for _, chunk := range chunks {
			_, _ = io.WriteString(w, chunk)
			flusher.Flush()
		}
	}
}

func streamEvents(t *testing.T, chunks []string) ([]string, string) {
	t.Helper()

	server := httptest.NewServer(sseHandler(t, chunks))
	defer server.Close()

	provider := New("openai", server.URL).WithAPIKey("sk-test").WithHTTPClient(server.Client())

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.NewTextMessage(ai.RoleUser, "hello")},
		Stream:   utils.Ptr(true),
	})
	if err != nil {
		t.Fatalf("unexpected error starting stream: %v", err)
	}

	var deltas []string
	var accumulated string
	for event, iterErr := range stream.Iter() {
		if iterErr != nil {
			t.Fatalf("unexpected mid-stream error: %v", iterErr)
		}
		if event.Type == ai.StreamEventContent {
			deltas = append(deltas, event.Content)
			accumulated += event.Content
		}
	}
	return deltas, accumulated
}

// TestStreamMessage_DeltaOrder verifies that each SSE data line becomes
// exactly one content event, in order, and that the concatenation equals the
// full reply.
func TestStreamMessage_DeltaOrder_ExactIncrements(t *testing.T) {
	deltas, accumulated := streamEvents(t, []string{
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n",
		"data: [DONE]\n",
	})

	if len(deltas) != 2 || deltas[0] != "Hel" || deltas[1] != "lo" {
		t.Errorf("expected deltas [Hel lo], got %v", deltas)
	}
	if accumulated != "Hello" {
		t.Errorf("expected accumulated %q, got %q", "Hello", accumulated)
	}
}

// TestStreamMessage_SplitChunks verifies that network chunk boundaries that
// fall mid-line do not change the delivered deltas.
func TestStreamMessage_SplitChunks_SameDeltas(t *testing.T) {
	deltas, accumulated := streamEvents(t, []string{
		"data: {\"choices\":[{\"del",
		"ta\":{\"content\":\"Hel\"}}]}\ndata: {\"choi",
		"ces\":[{\"delta\":{\"content\":\"lo\"}}]}\nda",
		"ta: [DONE]\n",
	})

	if len(deltas) != 2 || deltas[0] != "Hel" || deltas[1] != "lo" {
		t.Errorf("expected deltas [Hel lo], got %v", deltas)
	}
	if accumulated != "Hello" {
		t.Errorf("expected accumulated %q, got %q", "Hello", accumulated)
	}
}

// TestStreamMessage_MalformedChunkSkipped verifies that an unparseable data
// line is skipped without aborting the stream.
func TestStreamMessage_MalformedChunkSkipped_StreamContinues(t *testing.T) {
	deltas, accumulated := streamEvents(t, []string{
		"data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n",
		"data: {broken json\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n",
		"data: [DONE]\n",
	})

	if len(deltas) != 2 {
		t.Fatalf("expected malformed chunk skipped, got deltas %v", deltas)
	}
	if accumulated != "Hello" {
		t.Errorf("expected accumulated %q, got %q", "Hello", accumulated)
	}
}

// TestStreamMessage_EmptyDeltasProduceNoEvents verifies that role-only and
// empty-content deltas yield nothing.
func TestStreamMessage_EmptyDeltasProduceNoEvents(t *testing.T) {
	deltas, _ := streamEvents(t, []string{
		"data: {\"choices\":[{\"delta\":{}}]}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"\"}}]}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"ok\"}}]}\n",
		"data: [DONE]\n",
	})

	if len(deltas) != 1 || deltas[0] != "ok" {
		t.Errorf("expected single delta [ok], got %v", deltas)
	}
}

// TestStreamMessage_CollectAccumulates verifies Collect over a native stream.
func TestStreamMessage_CollectAccumulates(t *testing.T) {
	server := httptest.NewServer(sseHandler(t, []string{
		"data: {\"choices\":[{\"delta\":{\"content\":\"a\"}}]}\n",
		"data: {\"choices\":[{\"delta\":{\"content\":\"b\"}}]}\n",
		"data: [DONE]\n",
	}))
	defer server.Close()

	provider := New("openai", server.URL).WithAPIKey("sk-test").WithHTTPClient(server.Client())

	stream, err := provider.StreamMessage(context.Background(), ai.ChatRequest{
		Messages: []ai.Message{ai.NewTextMessage(ai.RoleUser, "hi")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	response, err := stream.Collect()
	if err != nil {
		t.Fatalf("unexpected collect error: %v", err)
	}
	if response.Content != "ab" {
		t.Errorf("expected collected content %q, got %q", "ab", response.Content)
	}
}
