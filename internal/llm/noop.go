package llm

import "context"

// NoopCompleter is a placeholder Completer that returns an empty completion.
// Callers with a fallback policy degrade to their canned responses when wired
// against it, which makes it useful for running the service without an API key.
type NoopCompleter struct{}

// NewNoopCompleter creates a new NoopCompleter instance.
func NewNoopCompleter() *NoopCompleter {
	return &NoopCompleter{}
}

// Complete returns an empty string to satisfy the interface.
func (c *NoopCompleter) Complete(_ context.Context, _ []ChatMessage, _ Params) (string, error) {
	return "", nil
}

var _ Completer = (*NoopCompleter)(nil)
