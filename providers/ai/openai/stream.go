package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"

	"github.com/echoline-ai/echoline/internal/utils"
	"github.com/echoline-ai/echoline/providers/ai"
)

// chatCompletionStreamChunk is one SSE delta of a streaming reply.
type chatCompletionStreamChunk struct {
	Choices []streamChoice `json:"choices"`
}

type streamChoice struct {
	Delta        delta   `json:"delta"`
	FinishReason *string `json:"finish_reason"`
}

type delta struct {
	Content *string `json:"content"`
}

// StreamMessage implements ai.StreamProvider. It sends the request with
// stream=true and returns a ChatStream yielding one content event per delta
// as SSE lines arrive.
//
// Malformed or non-matching data lines (heartbeats, partial fragments) are
// skipped silently rather than aborting the stream; the [DONE] sentinel and
// EOF both terminate it normally.
func (p *Provider) StreamMessage(ctx context.Context, request ai.ChatRequest) (*ai.ChatStream, error) {
	wireRequest := requestToWire(request, true)

	httpResponse, err := utils.DoPostStream(ctx, p.client, p.endpoint, p.apiKey, wireRequest)
	if err != nil {
		return nil, err
	}

	sseScanner := utils.NewSSEScanner(httpResponse.Body)

	iteratorFunc := func(yield func(ai.StreamEvent, error) bool) {
		defer utils.CloseWithLog(httpResponse.Body)

		for {
			if ctx.Err() != nil {
				yield(ai.StreamEvent{}, ai.NewTransportError(ctx.Err()))
				return
			}

			payload, sseErr := sseScanner.Next()
			if sseErr == io.EOF {
				yield(ai.StreamEvent{Type: ai.StreamEventDone}, nil)
				return
			}
			if sseErr != nil {
				yield(ai.StreamEvent{}, ai.NewTransportError(sseErr))
				return
			}

			var chunk chatCompletionStreamChunk
			if parseErr := json.Unmarshal([]byte(payload), &chunk); parseErr != nil {
				// Heartbeats and partial lines must not abort the stream
				slog.Debug("skipping malformed stream chunk", "provider", p.name, "error", parseErr.Error())
				continue
			}

			for _, event := range chunkToStreamEvents(chunk) {
				if !yield(event, nil) {
					return
				}
			}
		}
	}

	return ai.NewChatStream(iteratorFunc), nil
}

// chunkToStreamEvents converts one streaming chunk into zero or more
// StreamEvents. Empty deltas produce nothing.
func chunkToStreamEvents(chunk chatCompletionStreamChunk) []ai.StreamEvent {
	var events []ai.StreamEvent

	for _, streamedChoice := range chunk.Choices {
		if streamedChoice.Delta.Content != nil && *streamedChoice.Delta.Content != "" {
			events = append(events, ai.StreamEvent{
				Type:    ai.StreamEventContent,
				Content: *streamedChoice.Delta.Content,
			})
		}
	}

	return events
}
