package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/echoline-ai/echoline/core/cache"
	"github.com/echoline-ai/echoline/core/engine"
	"github.com/echoline-ai/echoline/internal/history"
	"github.com/echoline-ai/echoline/internal/utils"
	"github.com/echoline-ai/echoline/providers/ai"
)

func newREPLCmd(opts *askOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Interactive conversation loop with the configured provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runREPL(cmd, opts)
		},
		SilenceUsage: true,
	}
}

func runREPL(cmd *cobra.Command, opts *askOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	s := resolveSettings(cmd.Root(), opts, cfg)

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

	fmt.Printf("echoline repl — provider %s. Type 'exit' to quit, 'reset' to clear the conversation.\n", deliveryEngine.Provider())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())

		switch line {
		case "":
			continue
		case "exit", "quit":
			return saveSession(session, messages, opts, s)
		case "reset":
			messages = messages[:0]
			fmt.Println("(conversation cleared)")
			continue
		}

		messages = append(messages, ai.NewTextMessage(ai.RoleUser, line))

		request := s.request
		request.Messages = messages
		request.Stream = utils.Ptr(true)

		reply, err := deliveryEngine.DeliverStream(ctx, request, func(chunk string) {
			fmt.Print(chunk)
		})
		fmt.Println()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			// Drop the failed turn so the next prompt retries cleanly
			messages = messages[:len(messages)-1]
			continue
		}

		messages = append(messages, ai.NewTextMessage(ai.RoleAssistant, reply))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read input from stdin: %w", err)
	}
	return saveSession(session, messages, opts, s)
}

func saveSession(session *history.Session, messages []ai.Message, opts *askOptions, s settings) error {
	if session == nil {
		return nil
	}
	session.Messages = nil
	session.Append(s.provider, s.model, messages...)
	return session.Save(opts.historyFile)
}
