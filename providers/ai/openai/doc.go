// Package openai implements the ai.Provider translator/decoder pair for the
// OpenAI chat-completions wire schema. The same schema is spoken by several
// services (OpenAI, ch.at, ChatAnywhere, Grok, Mistral, Ollama, Anthropic's
// compatibility surface, and arbitrary custom endpoints), so one provider
// instance is parameterised by display name and endpoint URL instead of
// hard-coding a single service.
//
// It implements both [ai.Provider] for whole-body exchanges and
// [ai.StreamProvider] for native SSE streaming.
package openai
