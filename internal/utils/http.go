package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/echoline-ai/echoline/providers/ai"
)

// maxResponseBodySize is the maximum response body size (10 MB). Enforced via
// io.LimitReader to prevent unbounded memory allocation from rogue responses.
const maxResponseBodySize int64 = 10 * 1024 * 1024

// HeaderOption is an extra header applied to an outgoing request. Options are
// applied after the defaults, so they can override Authorization when a
// provider authenticates differently.
type HeaderOption struct {
	Key   string
	Value string
}

// QueryOption is an extra query parameter appended to the request URL. Used
// by providers that authenticate via the query string instead of a header.
type QueryOption struct {
	Key   string
	Value string
}

// CloseWithLog closes c and logs a warning on failure. Used for response
// bodies in defer position where the close error must not override the
// primary error.
func CloseWithLog(c io.Closer) {
	if err := c.Close(); err != nil {
		slog.Warn("failed to close response body", "error", err.Error())
	}
}

// DoPostSync performs a synchronous HTTP POST request with a JSON body and
// parses the response into OutputStruct.
//
// Error handling strategy:
//   - Transport failures (connect, DNS, timeout) come back as [ai.TransportError],
//     with timeouts flagged so callers can distinguish slow from broken.
//   - Non-2xx replies come back as [ai.APIError] carrying the status, the
//     best-effort body text and a remediation hint.
//   - JSON decode errors include a response preview for debugging.
//
// The response body is always closed before returning; close errors are
// logged without overriding the primary error.
func DoPostSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, body any, options ...any) (*http.Response, *OutputStruct, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, nil, fmt.Errorf("error marshaling body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}

	applyRequestOptions(req, apiKey, options)

	res, err := httpClient.Do(req)
	if err != nil {
		return res, nil, ai.NewTransportError(err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, ai.NewTransportError(err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, ai.NewAPIError(res.StatusCode, string(respBody))
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling LLM response body (status %d): %w\nResponse preview: %s", res.StatusCode, err, TruncateString(string(respBody), 500))
	}

	return res, &resStruct, nil
}

// applyRequestOptions sets the default JSON headers, bearer auth when apiKey
// is non-empty, and then any HeaderOption/QueryOption values in order.
func applyRequestOptions(req *http.Request, apiKey string, options []any) {
	req.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+apiKey)
	}

	var query = req.URL.Query()
	queryChanged := false
	for _, option := range options {
		switch opt := option.(type) {
		case HeaderOption:
			req.Header.Set(opt.Key, opt.Value)
		case QueryOption:
			query.Set(opt.Key, opt.Value)
			queryChanged = true
		}
	}
	if queryChanged {
		req.URL.RawQuery = query.Encode()
	}
}

// DoGetSync performs a synchronous HTTP GET request and parses the JSON
// response into OutputStruct, with the same error contract as [DoPostSync].
// Used for provider metadata endpoints such as model listings.
func DoGetSync[OutputStruct any](ctx context.Context, client *http.Client, url string, apiKey string, options ...any) (*http.Response, *OutputStruct, error) {
	httpClient := client
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("error creating request: %w", err)
	}

	applyRequestOptions(req, apiKey, options)
	req.Header.Del("Content-Type")

	res, err := httpClient.Do(req)
	if err != nil {
		return res, nil, ai.NewTransportError(err)
	}
	defer CloseWithLog(res.Body)

	respBody, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBodySize))
	if err != nil {
		return res, nil, ai.NewTransportError(err)
	}

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return res, nil, ai.NewAPIError(res.StatusCode, string(respBody))
	}

	var resStruct OutputStruct
	if err = json.Unmarshal(respBody, &resStruct); err != nil {
		return res, nil, fmt.Errorf("error unmarshaling response body (status %d): %w\nResponse preview: %s", res.StatusCode, err, TruncateString(string(respBody), 500))
	}

	return res, &resStruct, nil
}
