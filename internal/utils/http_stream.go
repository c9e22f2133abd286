package utils

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/echoline-ai/echoline/providers/ai"
)

// DoPostStream performs an HTTP POST request and returns the raw response
// with the body left open for SSE reading. The caller is responsible for
// closing the response body when done reading. On error paths the body is
// read and closed before returning, with the same error taxonomy as
// [DoPostSync].
func DoPostStream(ctx context.Context, client *http.Client, url string, apiKey string, body any, options ...any) (*http.Response, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}

	applyRequestOptions(req, apiKey, options)
	req.Header.Set("Accept", "text/event-stream")

	response, err := httpClient.Do(req)
	if err != nil {
		return response, ai.NewTransportError(err)
	}

	// Non-2xx: read the body as best-effort text and close it before
	// returning the error.
	if response.StatusCode < 200 || response.StatusCode >= 300 {
		defer CloseWithLog(response.Body)
		errorBody, readErr := io.ReadAll(io.LimitReader(response.Body, maxResponseBodySize))
		if readErr != nil {
			return response, ai.NewAPIError(response.StatusCode, fmt.Sprintf("(failed to read body: %v)", readErr))
		}
		return response, ai.NewAPIError(response.StatusCode, string(errorBody))
	}

	return response, nil
}

// maxSSELineSize is the maximum size of a single SSE line (1 MB). The default
// bufio.Scanner limit is 64 KiB, which is too small for large events such as
// long completions. If a line exceeds this limit the scanner returns a
// wrapped bufio.ErrTooLong via the Next() error path.
const maxSSELineSize = 1 * 1024 * 1024

// SSEScanner reads Server-Sent Events from an io.Reader using the
// line-framed "data: <payload>\n" convention of OpenAI-compatible chat
// streams: every data line is one event. Partial lines are buffered across
// reads (network chunks need not align with line boundaries), comments and
// blank lines are skipped, and a trailing line without a final newline is
// still delivered when the stream ends. The "data: [DONE]" sentinel
// terminates the stream.
type SSEScanner struct {
	scanner *bufio.Scanner
}

// NewSSEScanner creates an SSEScanner that reads SSE events from the given
// reader. Individual lines up to maxSSELineSize (1 MB) are supported.
func NewSSEScanner(reader io.Reader) *SSEScanner {
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), maxSSELineSize)
	return &SSEScanner{scanner: scanner}
}

// Next returns the next SSE data payload as a string. It skips empty lines,
// comment lines (starting with ':') and non-data fields. Returns io.EOF when
// no more events are available or when the [DONE] sentinel is encountered.
func (sseScanner *SSEScanner) Next() (string, error) {
	for sseScanner.scanner.Scan() {
		line := strings.TrimRight(sseScanner.scanner.Text(), "\r")

		if line == "" {
			continue
		}

		// Skip SSE comments
		if strings.HasPrefix(line, ":") {
			continue
		}

		if !strings.HasPrefix(line, "data:") {
			// Ignore other SSE fields (event:, id:, retry:)
			continue
		}

		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

		// The [DONE] sentinel (OpenAI convention) ends the stream
		if data == "[DONE]" {
			return "", io.EOF
		}

		if data == "" {
			continue
		}
		return data, nil
	}

	if err := sseScanner.scanner.Err(); err != nil {
		return "", fmt.Errorf("SSE scanner error: %w", err)
	}

	return "", io.EOF
}
