package engine

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/echoline-ai/echoline/internal/utils"
	"github.com/echoline-ai/echoline/providers/ai"
)

// CompareTarget identifies one provider/model pair in a comparison run.
// Model may be empty to use the provider's default.
type CompareTarget struct {
	Provider string
	Model    string
}

// CompareResult is the outcome of a single comparison target. Either Content
// or Err is set; Elapsed covers the full delivery including fallbacks.
type CompareResult struct {
	Provider string
	Model    string
	Content  string
	Elapsed  time.Duration
	Err      error
}

// Compare delivers the same request concurrently against several
// provider/model pairs and returns one result per target, in target order.
// The targets share one connection pool and whatever cache the options
// attach; beyond that they touch no common state. A failing target records
// its error in the corresponding result instead of aborting the others.
func Compare(ctx context.Context, request ai.ChatRequest, targets []CompareTarget, opts ...Option) []CompareResult {
	results := make([]CompareResult, len(targets))

	// One pool for all targets so keep-alive connections are reused.
	var shared options
	for _, opt := range opts {
		opt(&shared)
	}
	httpClient := shared.httpClient
	if httpClient == nil {
		timeout := shared.timeout
		if timeout <= 0 {
			timeout = DefaultTimeout
		}
		httpClient = NewHTTPClient(timeout)
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for targetIndex, target := range targets {
		group.Go(func() error {
			results[targetIndex] = compareOne(groupCtx, request, target, httpClient, opts)
			return nil
		})
	}
	// Goroutines never return errors; Wait is the join point.
	_ = group.Wait()

	return results
}

func compareOne(ctx context.Context, request ai.ChatRequest, target CompareTarget, httpClient *http.Client, opts []Option) CompareResult {
	result := CompareResult{Provider: target.Provider, Model: target.Model}

	targetOpts := append([]Option{WithHTTPClient(httpClient)}, opts...)
	targetEngine, err := New(target.Provider, targetOpts...)
	if err != nil {
		result.Err = err
		return result
	}

	targetRequest := request
	if target.Model != "" {
		targetRequest.Model = target.Model
	}

	timer := utils.NewTimer()
	content, err := targetEngine.Deliver(ctx, targetRequest)
	timer.Stop()

	result.Content = content
	result.Elapsed = timer.GetDuration()
	result.Err = err
	return result
}
