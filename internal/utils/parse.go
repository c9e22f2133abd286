package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
)

// ParseJSONLoose parses model output into T, tolerating the noise LLMs wrap
// around JSON. Markdown code fences are stripped first; if plain
// unmarshalling fails, the string is run through jsonrepair (fixing single
// quotes, unquoted keys, trailing commas and similar) and unmarshalling is
// retried once.
//
// Example:
//
//	person, err := ParseJSONLoose[Person]("```json\n{name: 'John', age: 30}\n```")
func ParseJSONLoose[T any](content string) (T, error) {
	var result T

	cleaned := StripCodeFences(content)

	err := json.Unmarshal([]byte(cleaned), &result)
	if err == nil {
		return result, nil
	}

	repaired, repairErr := jsonrepair.JSONRepair(cleaned)
	if repairErr != nil {
		return result, fmt.Errorf("failed to parse content as %T: %w (repair also failed: %v)", result, err, repairErr)
	}

	if err = json.Unmarshal([]byte(repaired), &result); err != nil {
		return result, fmt.Errorf("failed to unmarshal repaired JSON as %T: %w", result, err)
	}
	return result, nil
}

// StripCodeFences removes a single leading/trailing Markdown code fence pair
// (``` or ```json style) from s, returning the inner content trimmed. Input
// without fences is returned trimmed but otherwise untouched.
func StripCodeFences(s string) string {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	// Drop the opening fence line, including any language tag
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		trimmed = trimmed[idx+1:]
	} else {
		trimmed = strings.TrimPrefix(trimmed, "```")
		trimmed = strings.TrimSuffix(trimmed, "```")
		return strings.TrimSpace(trimmed)
	}

	trimmed = strings.TrimSpace(trimmed)
	trimmed = strings.TrimSuffix(trimmed, "```")
	return strings.TrimSpace(trimmed)
}
