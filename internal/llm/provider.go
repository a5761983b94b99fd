package llm

import "context"

// ChatMessage models the message format consumed by downstream LLM providers.
type ChatMessage struct {
	Role    string
	Content string
}

// Params captures generation knobs for a single completion call.
type Params struct {
	Model       string
	MaxTokens   int
	Temperature float32
}

// Completer abstracts a chat completion provider. Implementations return the
// full completion text; callers own timeout and retry policy.
type Completer interface {
	Complete(ctx context.Context, messages []ChatMessage, params Params) (string, error)
}
