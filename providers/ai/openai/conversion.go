package openai

import "github.com/echoline-ai/echoline/providers/ai"

// chatCompletionRequest is the wire form of a chat-completions request. The
// canonical request maps nearly verbatim; only the model default and the
// stream flag are decided here.
type chatCompletionRequest struct {
	Model       string       `json:"model"`
	Messages    []ai.Message `json:"messages"`
	Temperature *float32     `json:"temperature,omitempty"`
	MaxTokens   *uint32      `json:"max_tokens,omitempty"`
	TopP        *float32     `json:"top_p,omitempty"`
	TopK        *uint32      `json:"top_k,omitempty"`
	Stream      bool         `json:"stream,omitempty"`
}

// chatCompletionResponse is the whole-body wire reply.
type chatCompletionResponse struct {
	Id      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []choice `json:"choices"`
}

type choice struct {
	Message      wireMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type wireMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// requestToWire translates a canonical request into the chat-completions
// schema. Messages are carried over as-is (the canonical message already
// marshals to the OpenAI shape, including multimodal part arrays); an unset
// model falls back to the provider default.
func requestToWire(request ai.ChatRequest, stream bool) chatCompletionRequest {
	model := request.Model
	if model == "" {
		model = defaultModel
	}

	return chatCompletionRequest{
		Model:       model,
		Messages:    request.Messages,
		Temperature: request.Temperature,
		MaxTokens:   request.MaxTokens,
		TopP:        request.TopP,
		TopK:        request.TopK,
		Stream:      stream,
	}
}

// responseToGeneric extracts the first choice's message text. A reply with
// no choices or an empty message decodes to ai.ErrEmptyResponse.
func responseToGeneric(resp *chatCompletionResponse) (*ai.ChatResponse, error) {
	if resp == nil || len(resp.Choices) == 0 {
		return nil, ai.ErrEmptyResponse
	}

	first := resp.Choices[0]
	if first.Message.Content == "" {
		return nil, ai.ErrEmptyResponse
	}

	return &ai.ChatResponse{
		Id:           resp.Id,
		Model:        resp.Model,
		Content:      first.Message.Content,
		FinishReason: first.FinishReason,
	}, nil
}
