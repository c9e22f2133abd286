package utils

import (
	"strings"
	"testing"
)

type person struct {
	Name string `json:"name"`
	Age  int    `json:"age"`
}

// TestParseJSONLoose_PlainJSON verifies the fast path: valid JSON parses
// without repair.
func TestParseJSONLoose_PlainJSON_Parses(t *testing.T) {
	parsed, err := ParseJSONLoose[person](`{"name":"John","age":30}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Name != "John" || parsed.Age != 30 {
		t.Errorf("unexpected result: %+v", parsed)
	}
}

// TestParseJSONLoose_CodeFences verifies that Markdown fences around the
// payload are stripped before parsing.
func TestParseJSONLoose_CodeFences_Stripped(t *testing.T) {
	parsed, err := ParseJSONLoose[person]("```json\n{\"name\":\"Ada\",\"age\":36}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Name != "Ada" || parsed.Age != 36 {
		t.Errorf("unexpected result: %+v", parsed)
	}
}

// TestParseJSONLoose_BrokenJSON verifies the repair path: single quotes and
// unquoted keys are fixed before the retry.
func TestParseJSONLoose_BrokenJSON_Repaired(t *testing.T) {
	parsed, err := ParseJSONLoose[person]("{name: 'John', age: 30,}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if parsed.Name != "John" || parsed.Age != 30 {
		t.Errorf("unexpected result: %+v", parsed)
	}
}

// TestParseJSONLoose_Hopeless verifies that unparseable input errors instead
// of returning a zero value silently.
func TestParseJSONLoose_Hopeless_ReturnsError(t *testing.T) {
	if _, err := ParseJSONLoose[person]("certainly! here is some prose with no json at all"); err == nil {
		t.Error("expected error for non-JSON input, got nil")
	}
}

func TestStripCodeFences(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{name: "no fences", input: `  {"a":1}  `, want: `{"a":1}`},
		{name: "bare fences", input: "```\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "language tag", input: "```json\n{\"a\":1}\n```", want: `{"a":1}`},
		{name: "single line", input: "```{\"a\":1}```", want: `{"a":1}`},
	}

	for _, testCase := range cases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := StripCodeFences(testCase.input); got != testCase.want {
				t.Errorf("expected %q, got %q", testCase.want, got)
			}
		})
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("hello", 10); got != "hello" {
		t.Errorf("expected short string untouched, got %q", got)
	}
	got := TruncateString("hello world", 5)
	if got != "hello... (truncated, total: 11 chars)" {
		t.Errorf("expected truncated string with length note, got %q", got)
	}
}

// TestTruncateString_ZeroMaxLen verifies the default limit applies before
// any slicing, for inputs both shorter and longer than the default.
func TestTruncateString_ZeroMaxLen_UsesDefault(t *testing.T) {
	if got := TruncateString("abc", 0); got != "abc" {
		t.Errorf("expected short string untouched with zero maxLen, got %q", got)
	}

	long := strings.Repeat("x", DefaultMaxStringLength+100)
	got := TruncateString(long, 0)
	if !strings.HasPrefix(got, strings.Repeat("x", DefaultMaxStringLength)+"...") {
		t.Errorf("expected truncation at the default limit, got %d chars", len(got))
	}
}
