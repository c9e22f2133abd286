package main

import "testing"

// TestCompareTargets verifies the model-to-provider inference rules: gpt*
// means openai, claude* means claude, provider/model is explicit, everything
// else uses the active default provider.
func TestCompareTargets_ProviderInference(t *testing.T) {
	targets, err := compareTargets("gpt-4, claude-3-opus, mistral/mistral-small, command", "cohere")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(targets) != 4 {
		t.Fatalf("expected 4 targets, got %d", len(targets))
	}

	expected := []struct{ provider, model string }{
		{"openai", "gpt-4"},
		{"claude", "claude-3-opus"},
		{"mistral", "mistral-small"},
		{"cohere", "command"},
	}
	for i, want := range expected {
		if targets[i].Provider != want.provider || targets[i].Model != want.model {
			t.Errorf("target %d: expected %s/%s, got %s/%s",
				i, want.provider, want.model, targets[i].Provider, targets[i].Model)
		}
	}
}

// TestCompareTargets_EmptyEntries verifies that blank list entries are
// skipped and an entirely empty list is an error.
func TestCompareTargets_EmptyEntries(t *testing.T) {
	targets, err := compareTargets("gpt-4,, ,", "chat")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(targets) != 1 {
		t.Errorf("expected blank entries skipped, got %d targets", len(targets))
	}

	if _, err := compareTargets(" , ,", "chat"); err == nil {
		t.Error("expected error for empty model list")
	}
}
