package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/echoline-ai/echoline/core/cache"
	"github.com/echoline-ai/echoline/core/engine"
	"github.com/echoline-ai/echoline/internal/config"
	"github.com/echoline-ai/echoline/internal/history"
	"github.com/echoline-ai/echoline/internal/utils"
	"github.com/echoline-ai/echoline/providers/ai"
	"github.com/echoline-ai/echoline/providers/content"
)

type askOptions struct {
	provider       string
	model          string
	apiKey         string
	configPath     string
	system         string
	preset         string
	historyFile    string
	contextURL     string
	compare        string
	fallbacks      []string
	temperature    float32
	maxTokens      uint32
	topP           float32
	topK           uint32
	timeoutSeconds int
	stream         bool
	jsonOut        bool
	noCache        bool
}

// loadConfig reads the config file from the flag path or the default
// location.
func loadConfig(opts *askOptions) (*config.Config, error) {
	path := opts.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return config.Load(path)
}

// settings is the flag-over-config merge used by every subcommand.
type settings struct {
	provider  string
	model     string
	apiKey    string
	fallbacks []string
	timeout   int
	stream    bool
	request   ai.ChatRequest // sampling defaults, no messages
}

// timeoutDuration returns the resolved per-request deadline.
func (s settings) timeoutDuration() time.Duration {
	if s.timeout > 0 {
		return time.Duration(s.timeout) * time.Second
	}
	return engine.DefaultTimeout
}

func resolveSettings(cmd *cobra.Command, opts *askOptions, cfg *config.Config) settings {
	s := settings{
		provider:  cfg.API.Provider,
		model:     cfg.API.Model,
		apiKey:    cfg.API.APIKey,
		fallbacks: cfg.API.FallbackProviders,
		timeout:   cfg.API.TimeoutSeconds,
	}

	if opts.provider != "" {
		s.provider = opts.provider
	}
	if cmd.Flags().Changed("model") {
		s.model = opts.model
	}
	if opts.apiKey != "" {
		s.apiKey = opts.apiKey
	}
	if cmd.Flags().Changed("fallback") {
		s.fallbacks = opts.fallbacks
	}
	if cmd.Flags().Changed("timeout") {
		s.timeout = opts.timeoutSeconds
	}
	s.stream = cfg.Defaults.Stream
	if cmd.Flags().Changed("stream") {
		s.stream = opts.stream
	}

	temperature := cfg.Defaults.Temperature
	if cmd.Flags().Changed("temperature") {
		temperature = opts.temperature
	}
	s.request = ai.ChatRequest{
		Model:       s.model,
		Temperature: utils.Ptr(temperature),
		MaxTokens:   cfg.Defaults.MaxTokens,
		TopP:        cfg.Defaults.TopP,
		TopK:        cfg.Defaults.TopK,
	}
	if cmd.Flags().Changed("max-tokens") {
		s.request.MaxTokens = utils.Ptr(opts.maxTokens)
	}
	if cmd.Flags().Changed("top-p") {
		s.request.TopP = utils.Ptr(opts.topP)
	}
	if cmd.Flags().Changed("top-k") {
		s.request.TopK = utils.Ptr(opts.topK)
	}

	return s
}

// leadMessages builds the conversation prefix: preset seed, system prompt
// and fetched URL context, in that order.
func leadMessages(ctx context.Context, opts *askOptions, cfg *config.Config) ([]ai.Message, error) {
	var messages []ai.Message

	if opts.preset != "" {
		preset, ok := cfg.Presets[opts.preset]
		if !ok {
			return nil, fmt.Errorf("preset %q not found in config", opts.preset)
		}
		if preset.SystemPrompt != "" {
			messages = append(messages, ai.NewTextMessage(ai.RoleSystem, preset.SystemPrompt))
		}
		for _, presetMessage := range preset.Messages {
			messages = append(messages, ai.NewTextMessage(ai.MessageRole(presetMessage.Role), presetMessage.Content))
		}
	}

	if opts.system != "" {
		messages = append(messages, ai.NewTextMessage(ai.RoleSystem, opts.system))
	}

	if opts.contextURL != "" {
		markdown, err := content.Fetch(ctx, opts.contextURL)
		if err != nil {
			return nil, fmt.Errorf("cannot fetch context URL: %w", err)
		}
		contextPrompt := fmt.Sprintf("Use the following page content as context.\nSource: %s\n\n%s", opts.contextURL, markdown)
		messages = append(messages, ai.NewTextMessage(ai.RoleSystem, contextPrompt))
	}

	return messages, nil
}

// readPrompt joins the positional args, or reads piped stdin when no args
// were given.
func readPrompt(args []string) (string, error) {
	if len(args) > 0 {
		return strings.TrimSpace(strings.Join(args, " ")), nil
	}

	stat, err := os.Stdin.Stat()
	if err != nil || stat.Mode()&os.ModeCharDevice != 0 {
		return "", nil // interactive terminal, nothing piped
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read input from stdin: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func runAsk(cmd *cobra.Command, opts *askOptions, args []string) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}

	prompt, err := readPrompt(args)
	if err != nil {
		return err
	}
	if prompt == "" {
		return cmd.Help()
	}

	if opts.compare != "" {
		return runCompare(ctx, cmd, opts, cfg, prompt)
	}

	s := resolveSettings(cmd, opts, cfg)

	messages, err := leadMessages(ctx, opts, cfg)
	if err != nil {
		return err
	}

	var session *history.Session
	if opts.historyFile != "" {
		session, err = history.Load(opts.historyFile)
		if err != nil {
			return err
		}
		messages = append(messages, session.Messages...)
	}

	userMessage := ai.NewTextMessage(ai.RoleUser, prompt)
	request := s.request
	request.Messages = append(messages, userMessage)

	engineOpts := []engine.Option{
		engine.WithAPIKey(s.apiKey),
		engine.WithTimeout(s.timeoutDuration()),
		engine.WithFallbacks(s.fallbacks...),
	}
	if !opts.noCache {
		engineOpts = append(engineOpts, engine.WithCache(cache.New(cache.DefaultCapacity)))
	}

	deliveryEngine, err := engine.New(s.provider, engineOpts...)
	if err != nil {
		return err
	}

	var reply string
	if s.stream {
		request.Stream = utils.Ptr(true)
		reply, err = deliveryEngine.DeliverStream(ctx, request, func(chunk string) {
			fmt.Print(chunk)
		})
		fmt.Println()
	} else {
		reply, err = deliveryEngine.Deliver(ctx, request)
	}
	if err != nil {
		return err
	}

	if !s.stream {
		output := reply
		if opts.jsonOut {
			parsed, parseErr := utils.ParseJSONLoose[any](reply)
			if parseErr != nil {
				return parseErr
			}
			pretty, marshalErr := json.MarshalIndent(parsed, "", "  ")
			if marshalErr != nil {
				return marshalErr
			}
			output = string(pretty)
		}
		fmt.Println(output)
	}

	if session != nil {
		session.Append(s.provider, s.model, userMessage, ai.NewTextMessage(ai.RoleAssistant, reply))
		if err := session.Save(opts.historyFile); err != nil {
			return err
		}
	}

	return nil
}
