package gemini

import "github.com/echoline-ai/echoline/providers/ai"

// Wire types for the generateContent request/response hierarchy.

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateContentResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content content `json:"content"`
}

// requestToWire maps the canonical conversation into the contents/parts
// hierarchy: one content entry with one text part per message. Gemini has no
// native system role, so system messages are carried with the user role;
// image parts are dropped (the text-only endpoint is used).
func requestToWire(request ai.ChatRequest) generateContentRequest {
	contents := make([]content, 0, len(request.Messages))
	for _, message := range request.Messages {
		role := string(message.Role)
		if message.Role == ai.RoleSystem {
			role = string(ai.RoleUser)
		}
		contents = append(contents, content{
			Role:  role,
			Parts: []part{{Text: message.Content.Text()}},
		})
	}

	return generateContentRequest{Contents: contents}
}

// firstCandidateText extracts the text of the first candidate's first part.
func firstCandidateText(resp *generateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return "", ai.ErrEmptyResponse
	}
	parts := resp.Candidates[0].Content.Parts
	if len(parts) == 0 || parts[0].Text == "" {
		return "", ai.ErrEmptyResponse
	}
	return parts[0].Text, nil
}
