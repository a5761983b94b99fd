package discussion

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"future-workshop/internal/llm"
	"future-workshop/internal/logging"
	"future-workshop/internal/persona"
)

// GeneratorConfig holds the generation policy knobs.
type GeneratorConfig struct {
	Model       string
	Temperature float32
	MaxTokens   int

	// MinWords/MaxWords define the target output length band injected into
	// the prompt instructions.
	MinWords int
	MaxWords int

	// HistoryWindow bounds how many recent history entries reach the prompt.
	HistoryWindow int

	// Timeout bounds each upstream call. MaxRetries counts additional
	// attempts after the first; RetryBaseDelay is doubled per retry. Retries
	// default to zero so upstream trouble turns into an immediate fallback
	// instead of compounding delay in the user-facing stream.
	Timeout        time.Duration
	MaxRetries     int
	RetryBaseDelay time.Duration
}

const genericFallback = "I'm unable to weigh in on this right now."

var errEmptyCompletion = errors.New("empty completion")

// Generator produces one bounded text response per persona per turn. It never
// surfaces upstream failures to the caller: errors, timeouts, and empty
// completions all resolve to a line from the persona's fallback pool.
type Generator struct {
	completer llm.Completer
	cfg       GeneratorConfig
	logger    logging.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

// NewGenerator constructs a Generator. A nil rng selects a time-seeded source;
// tests inject a fixed seed to make fallback selection deterministic.
func NewGenerator(cfg GeneratorConfig, completer llm.Completer, rng *rand.Rand, logger logging.Logger) (*Generator, error) {
	if completer == nil {
		return nil, errors.New("completer must be provided")
	}
	if logger == nil {
		return nil, errors.New("logger must be provided")
	}
	if cfg.MinWords <= 0 {
		cfg.MinWords = 40
	}
	if cfg.MaxWords <= cfg.MinWords {
		cfg.MaxWords = 100
	}
	if cfg.HistoryWindow <= 0 {
		cfg.HistoryWindow = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 60 * time.Second
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.8
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 300
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{completer: completer, cfg: cfg, logger: logger, rng: rng}, nil
}

// Generate returns the persona's response for this turn. The returned text is
// always non-empty.
func (g *Generator) Generate(ctx context.Context, p persona.Persona, dctx Context, history []HistoryEntry, userMessage string, prior []PersonaResult) string {
	messages := buildMessages(p, dctx, historyWindow(history, g.cfg.HistoryWindow), userMessage, prior, g.cfg.MinWords, g.cfg.MaxWords)
	params := llm.Params{Model: g.cfg.Model, MaxTokens: g.cfg.MaxTokens, Temperature: g.cfg.Temperature}

	var lastErr error
	for attempt := 0; attempt <= g.cfg.MaxRetries; attempt++ {
		if attempt > 0 && g.cfg.RetryBaseDelay > 0 {
			if err := sleepCtx(ctx, g.cfg.RetryBaseDelay<<(attempt-1)); err != nil {
				lastErr = err
				break
			}
		}

		callCtx, cancel := context.WithTimeout(ctx, g.cfg.Timeout)
		text, err := g.completer.Complete(callCtx, messages, params)
		cancel()

		if err == nil {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				return trimmed
			}
			err = errEmptyCompletion
		}
		lastErr = err
	}

	g.logger.With(logging.Field{Key: "persona", Value: p.Key}).
		Error(fmt.Sprintf("generation failed, using fallback: %v", lastErr))
	return g.fallback(p)
}

func (g *Generator) fallback(p persona.Persona) string {
	if len(p.FallbackPool) == 0 {
		return genericFallback
	}
	g.mu.Lock()
	idx := g.rng.Intn(len(p.FallbackPool))
	g.mu.Unlock()
	return p.FallbackPool[idx]
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
