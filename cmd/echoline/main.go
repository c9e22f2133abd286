// Command echoline forwards a prompt to a remote LLM chat service and prints
// the reply. Provider selection, fallback chains, streaming, response
// caching, model comparison and conversation history are all driven from
// flags and the YAML config file.
package main

import (
	"fmt"
	"os"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	askOpts := &askOptions{}

	root := &cobra.Command{
		Use:     "echoline [prompt...]",
		Short:   "echoline — send a prompt to an LLM provider and print the reply",
		Version: version,
		Args:    cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAsk(cmd, askOpts, args)
		},
		SilenceUsage: true,
	}

	registerFlags(root, askOpts)

	root.AddCommand(
		newREPLCmd(askOpts),
		newModelsCmd(askOpts),
	)

	return root
}

func registerFlags(root *cobra.Command, askOpts *askOptions) {
	flags := root.PersistentFlags()
	flags.StringVarP(&askOpts.provider, "provider", "p", "", "provider name or custom URL (chat, openai, claude, gemini, cohere, ...)")
	flags.StringVarP(&askOpts.model, "model", "m", "", "model name (provider default when unset)")
	flags.StringVar(&askOpts.apiKey, "api-key", "", "API key (falls back to ECHOLINE_API_KEY)")
	flags.StringVar(&askOpts.configPath, "config", "", "config file path")
	flags.StringVarP(&askOpts.system, "system", "s", "", "system prompt")
	flags.StringVar(&askOpts.preset, "preset", "", "named preset from the config file")
	flags.StringVar(&askOpts.historyFile, "history", "", "conversation history file to resume and update")
	flags.StringVar(&askOpts.contextURL, "context-url", "", "fetch this URL and prepend its content as context")
	flags.StringVar(&askOpts.compare, "compare", "", "comma-separated models to compare (e.g. gpt-4,claude-3-opus)")
	flags.StringSliceVar(&askOpts.fallbacks, "fallback", nil, "fallback providers tried in order on failure")
	flags.Float32VarP(&askOpts.temperature, "temperature", "t", 0, "sampling temperature")
	flags.Uint32Var(&askOpts.maxTokens, "max-tokens", 0, "maximum response tokens")
	flags.Float32Var(&askOpts.topP, "top-p", 0, "nucleus sampling")
	flags.Uint32Var(&askOpts.topK, "top-k", 0, "top-k sampling")
	flags.IntVar(&askOpts.timeoutSeconds, "timeout", 0, "request timeout in seconds")
	flags.BoolVar(&askOpts.stream, "stream", false, "stream the reply incrementally")
	flags.BoolVar(&askOpts.jsonOut, "json", false, "extract and pretty-print JSON from the reply")
	flags.BoolVar(&askOpts.noCache, "no-cache", false, "disable the response cache")
}
