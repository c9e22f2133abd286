package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/echoline-ai/echoline/core/engine"
	"github.com/echoline-ai/echoline/providers/ai/gemini"
	"github.com/echoline-ai/echoline/providers/ai/registry"
)

func newModelsCmd(opts *askOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models available to the Gemini API key",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runModels(cmd, opts)
		},
		SilenceUsage: true,
	}
}

// runModels queries the Gemini model listing endpoint. Only Gemini exposes a
// listing in this client; other providers publish their catalogs out of
// band.
func runModels(cmd *cobra.Command, opts *askOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	s := resolveSettings(cmd, opts, cfg)

	apiKey := s.apiKey
	if apiKey == "" {
		apiKey = os.Getenv(engine.EnvAPIKey)
	}

	spec, err := registry.Resolve("gemini")
	if err != nil {
		return err
	}

	provider := gemini.New(spec.Name, spec.Endpoint).
		WithAPIKey(apiKey).
		WithHTTPClient(engine.NewHTTPClient(s.timeoutDuration()))

	models, err := provider.ListModels(ctx)
	if err != nil {
		return err
	}

	for _, model := range models {
		fmt.Printf("%s\t%s\n", model.Name, model.Description)
	}
	return nil
}
