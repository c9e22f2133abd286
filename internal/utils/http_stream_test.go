package utils

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/echoline-ai/echoline/providers/ai"
)

// ---- SSEScanner tests -------------------------------------------------------

// TestSSEScanner_LineFramedEvents verifies that every data line yields one
// event and the [DONE] sentinel ends the stream with io.EOF.
func TestSSEScanner_LineFramedEvents_OnePayloadPerLine(t *testing.T) {
	input := "data: {\"a\":1}\ndata: {\"b\":2}\ndata: [DONE]\n"
	sseScanner := NewSSEScanner(strings.NewReader(input))

	first, err := sseScanner.Next()
	if err != nil {
		t.Fatalf("unexpected error on first event: %v", err)
	}
	if first != `{"a":1}` {
		t.Errorf("expected first payload %q, got %q", `{"a":1}`, first)
	}

	second, err := sseScanner.Next()
	if err != nil {
		t.Fatalf("unexpected error on second event: %v", err)
	}
	if second != `{"b":2}` {
		t.Errorf("expected second payload %q, got %q", `{"b":2}`, second)
	}

	if _, err = sseScanner.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF after [DONE], got %v", err)
	}
}

// TestSSEScanner_ArbitraryChunkBoundaries verifies that payloads survive the
// transport splitting the byte stream anywhere, including mid-line. The
// one-byte reader is the worst case: every read delivers a single byte.
func TestSSEScanner_ArbitraryChunkBoundaries_PayloadsIntact(t *testing.T) {
	input := "data: {\"choices\":[{\"delta\":{\"content\":\"Hel\"}}]}\n" +
		"data: {\"choices\":[{\"delta\":{\"content\":\"lo\"}}]}\n" +
		"data: [DONE]\n"
	sseScanner := NewSSEScanner(iotest.OneByteReader(strings.NewReader(input)))

	var payloads []string
	for {
		payload, err := sseScanner.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		payloads = append(payloads, payload)
	}

	if len(payloads) != 2 {
		t.Fatalf("expected 2 payloads, got %d: %v", len(payloads), payloads)
	}
	if payloads[0] != `{"choices":[{"delta":{"content":"Hel"}}]}` {
		t.Errorf("unexpected first payload: %q", payloads[0])
	}
	if payloads[1] != `{"choices":[{"delta":{"content":"lo"}}]}` {
		t.Errorf("unexpected second payload: %q", payloads[1])
	}
}

// TestSSEScanner_TrailingPartialLine verifies that a final data line without
// a terminating newline is still delivered when the stream ends.
func TestSSEScanner_TrailingPartialLine_Delivered(t *testing.T) {
	sseScanner := NewSSEScanner(strings.NewReader("data: {\"x\":1}"))

	payload, err := sseScanner.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload != `{"x":1}` {
		t.Errorf("expected trailing payload %q, got %q", `{"x":1}`, payload)
	}

	if _, err = sseScanner.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF at end of input, got %v", err)
	}
}

// TestSSEScanner_SkipsNoise verifies that comments, blank lines, CRLF
// endings and non-data fields are skipped without producing events.
func TestSSEScanner_SkipsNoise_CommentsBlanksOtherFields(t *testing.T) {
	input := ": keep-alive\n" +
		"\n" +
		"event: message\n" +
		"id: 42\n" +
		"data: {\"ok\":true}\r\n" +
		"data:\n" +
		"data: [DONE]\n"
	sseScanner := NewSSEScanner(strings.NewReader(input))

	payload, err := sseScanner.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload != `{"ok":true}` {
		t.Errorf("expected payload %q, got %q", `{"ok":true}`, payload)
	}

	if _, err = sseScanner.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF, got %v", err)
	}
}

// TestSSEScanner_EmptyStream verifies io.EOF on immediately exhausted input.
func TestSSEScanner_EmptyStream_ReturnsEOF(t *testing.T) {
	sseScanner := NewSSEScanner(strings.NewReader(""))

	if _, err := sseScanner.Next(); !errors.Is(err, io.EOF) {
		t.Errorf("expected io.EOF on empty stream, got %v", err)
	}
}

// ---- DoPostStream tests -----------------------------------------------------

// TestDoPostStream_LeavesBodyOpen verifies the happy path: the response body
// stays open and readable by the caller.
func TestDoPostStream_LeavesBodyOpen_BodyReadable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if accept := r.Header.Get("Accept"); accept != "text/event-stream" {
			t.Errorf("expected Accept text/event-stream, got %q", accept)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: hello\n")
	}))
	defer server.Close()

	response, err := DoPostStream(context.Background(), server.Client(), server.URL, "test-key", map[string]string{"q": "hi"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer CloseWithLog(response.Body)

	body, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("failed to read streamed body: %v", err)
	}
	if string(body) != "data: hello\n" {
		t.Errorf("unexpected body: %q", string(body))
	}
}

// TestDoPostStream_ErrorStatus verifies that a non-2xx reply comes back as an
// APIError carrying the status and the body text.
func TestDoPostStream_ErrorStatus_ReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	_, err := DoPostStream(context.Background(), server.Client(), server.URL, "test-key", nil)

	var apiErr *ai.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *ai.APIError, got %T: %v", err, err)
	}
	if apiErr.Status != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", apiErr.Status)
	}
	if !strings.Contains(apiErr.Message, "rate limited") {
		t.Errorf("expected body text in error message, got %q", apiErr.Message)
	}
}
