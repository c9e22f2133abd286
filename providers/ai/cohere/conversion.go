package cohere

import "github.com/echoline-ai/echoline/providers/ai"

// chatRequest is Cohere's flattened wire form: one message string instead of
// a conversation list.
type chatRequest struct {
	Message     string  `json:"message"`
	Model       string  `json:"model"`
	Temperature float32 `json:"temperature"`
	MaxTokens   *uint32 `json:"max_tokens,omitempty"`
}

// chatResponse is the whole-body wire reply.
type chatResponse struct {
	Text string `json:"text"`
}

// requestToWire flattens the canonical conversation into Cohere's schema:
// the most recent user-role message (or the last message overall when no
// user message exists) becomes the singular message field. Model and
// temperature get Cohere-specific defaults when unset.
func requestToWire(request ai.ChatRequest) chatRequest {
	model := request.Model
	if model == "" {
		model = defaultModel
	}

	temperature := defaultTemperature
	if request.Temperature != nil {
		temperature = *request.Temperature
	}

	return chatRequest{
		Message:     flattenMessage(request.Messages),
		Model:       model,
		Temperature: temperature,
		MaxTokens:   request.MaxTokens,
	}
}

// flattenMessage selects the text carried on the wire: the newest user
// message wins, then the last message of any role, then empty.
func flattenMessage(messages []ai.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == ai.RoleUser {
			return messages[i].Content.Text()
		}
	}
	if len(messages) > 0 {
		return messages[len(messages)-1].Content.Text()
	}
	return ""
}
