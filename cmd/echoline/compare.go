package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/echoline-ai/echoline/core/engine"
	"github.com/echoline-ai/echoline/internal/config"
	"github.com/echoline-ai/echoline/providers/ai"
)

// compareTargets maps the comma-separated model list to provider/model
// pairs. Model names carry their provider implicitly: "gpt*" means openai,
// "claude*" means claude, "provider/model" is explicit, anything else uses
// the active default provider.
func compareTargets(modelsFlag, defaultProvider string) ([]engine.CompareTarget, error) {
	var targets []engine.CompareTarget
	for _, raw := range strings.Split(modelsFlag, ",") {
		model := strings.TrimSpace(raw)
		if model == "" {
			continue
		}

		switch {
		case strings.HasPrefix(model, "gpt"):
			targets = append(targets, engine.CompareTarget{Provider: "openai", Model: model})
		case strings.HasPrefix(model, "claude"):
			targets = append(targets, engine.CompareTarget{Provider: "claude", Model: model})
		case strings.Contains(model, "/"):
			parts := strings.SplitN(model, "/", 2)
			targets = append(targets, engine.CompareTarget{Provider: parts[0], Model: parts[1]})
		default:
			targets = append(targets, engine.CompareTarget{Provider: defaultProvider, Model: model})
		}
	}

	if len(targets) == 0 {
		return nil, fmt.Errorf("no models specified for comparison")
	}
	return targets, nil
}

// runCompare delivers the prompt concurrently to every target model and
// prints each reply under its own heading.
func runCompare(ctx context.Context, cmd *cobra.Command, opts *askOptions, cfg *config.Config, prompt string) error {
	s := resolveSettings(cmd, opts, cfg)

	targets, err := compareTargets(opts.compare, s.provider)
	if err != nil {
		return err
	}

	messages, err := leadMessages(ctx, opts, cfg)
	if err != nil {
		return err
	}

	request := s.request
	request.Messages = append(messages, ai.NewTextMessage(ai.RoleUser, prompt))

	results := engine.Compare(ctx, request, targets,
		engine.WithAPIKey(s.apiKey),
		engine.WithTimeout(s.timeoutDuration()),
	)

	fmt.Println("=== Multi-Model Comparison ===")
	fmt.Printf("Input: %s\n", prompt)
	for _, result := range results {
		fmt.Printf("\nModel: %s (%s, %s)\n", result.Model, result.Provider, result.Elapsed.Round(10*time.Millisecond))
		fmt.Println(strings.Repeat("─", 80))
		if result.Err != nil {
			fmt.Printf("Error: %v\n", result.Err)
			continue
		}
		fmt.Println(result.Content)
	}

	return nil
}
