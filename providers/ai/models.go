package ai

import (
	"encoding/json"
	"strings"
)

/*
	##### PROVIDER INPUT #####
*/

// ChatRequest represents a provider-agnostic chat request. It is immutable by
// convention: the delivery engine never modifies a request between fallback
// attempts, so the same value can be safely translated for several providers
// in turn. Optional fields are pointers and are omitted from every serialized
// wire form when nil; each provider's conversion layer decides how to fill
// provider-required fields left unset by the caller.
type ChatRequest struct {
	Messages    []Message `json:"messages"`              // Ordered conversation, oldest first
	Model       string    `json:"model,omitempty"`       // Model name; providers substitute their own default when empty
	Temperature *float32  `json:"temperature,omitempty"` // Sampling temperature
	MaxTokens   *uint32   `json:"max_tokens,omitempty"`  // Response token budget
	TopP        *float32  `json:"top_p,omitempty"`       // Nucleus sampling
	TopK        *uint32   `json:"top_k,omitempty"`       // Top-k sampling
	Stream      *bool     `json:"stream,omitempty"`      // Request incremental delivery where supported
}

// Streaming reports whether the request asks for incremental delivery.
func (r ChatRequest) Streaming() bool {
	return r.Stream != nil && *r.Stream
}

// Message represents a single message in a conversation. Role is one of
// "system", "user" or "assistant" by convention; the type does not enforce
// the set so that provider-specific roles pass through untouched.
type Message struct {
	Role    MessageRole    `json:"role"`
	Content MessageContent `json:"content"`
}

// NewTextMessage builds a plain-text message for the given role.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{Role: role, Content: TextContent(text)}
}

// MessageContent is the untagged union over a message's body: either a plain
// text string or an ordered sequence of typed parts (text segments and image
// references). The zero value is the empty text form.
//
// On the wire the text form marshals as a bare JSON string and the parts form
// as an array of part objects, matching the OpenAI multimodal convention.
type MessageContent struct {
	text  string
	parts []ContentPart
}

// TextContent returns the plain-text form of MessageContent.
func TextContent(text string) MessageContent {
	return MessageContent{text: text}
}

// PartsContent returns the multimodal form of MessageContent.
func PartsContent(parts ...ContentPart) MessageContent {
	return MessageContent{parts: parts}
}

// IsText reports whether the content is the plain-text form.
func (c MessageContent) IsText() bool {
	return c.parts == nil
}

// Parts returns the content's parts, or nil for the plain-text form.
func (c MessageContent) Parts() []ContentPart {
	return c.parts
}

// Text flattens the content to plain text. For the parts form, the text of
// every text part is concatenated in order; image parts contribute nothing.
func (c MessageContent) Text() string {
	if c.parts == nil {
		return c.text
	}
	var b strings.Builder
	for _, part := range c.parts {
		if part.Type == PartText {
			b.WriteString(part.Text)
		}
	}
	return b.String()
}

// MarshalJSON emits a bare string for the text form and a part array for the
// multimodal form.
func (c MessageContent) MarshalJSON() ([]byte, error) {
	if c.parts == nil {
		return json.Marshal(c.text)
	}
	return json.Marshal(c.parts)
}

// UnmarshalJSON accepts either a bare string or a part array.
func (c *MessageContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*c = MessageContent{text: text}
		return nil
	}
	var parts []ContentPart
	if err := json.Unmarshal(data, &parts); err != nil {
		return err
	}
	*c = MessageContent{parts: parts}
	return nil
}

// ContentPart is one typed segment of a multimodal message.
type ContentPart struct {
	Type     string    `json:"type"` // PartText or PartImageURL
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

// ImageURL carries an image reference inside a multimodal part.
type ImageURL struct {
	URL string `json:"url"`
}

// Content part types.
const (
	PartText     = "text"
	PartImageURL = "image_url"
)

// TextPart builds a text content part.
func TextPart(text string) ContentPart {
	return ContentPart{Type: PartText, Text: text}
}

// ImagePart builds an image-reference content part.
func ImagePart(url string) ContentPart {
	return ContentPart{Type: PartImageURL, ImageURL: &ImageURL{URL: url}}
}

/*
	##### PROVIDER OUTPUT #####
*/

// ChatResponse represents the decoded reply from a provider: the assistant's
// text plus whatever identifying metadata the provider included.
type ChatResponse struct {
	Id           string `json:"id,omitempty"`
	Model        string `json:"model,omitempty"`
	Content      string `json:"content"`
	FinishReason string `json:"finish_reason,omitempty"`
}

/*
	##### ENUMS #####
*/

// MessageRole represents the role of a message; compatible with string.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"    // System instructions/configuration
	RoleUser      MessageRole = "user"      // End-user message
	RoleAssistant MessageRole = "assistant" // Model response
)
