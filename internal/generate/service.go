package generate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"future-workshop/internal/llm"
	"future-workshop/internal/logging"
)

// Config holds the shared policy for single-shot generation calls.
type Config struct {
	Model string

	// MaxRetries counts additional attempts after the first; RetryBaseDelay
	// is doubled per retry (1s, 2s, 4s with the defaults).
	MaxRetries     int
	RetryBaseDelay time.Duration
}

// Brief carries the title/description pair used by several workshop inputs.
type Brief struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ChallengeReply is the parsed output of the challenge-explorer assistant.
type ChallengeReply struct {
	Title string
	Reply string
}

// Service implements the single-shot generation operations of the workshop:
// the challenge explorer, the interpretation sentence, the prototyping card,
// the "magic if" analysis, and the persona diagnostic. Unlike the discussion
// generator these surface upstream failures to the caller; the HTTP layer
// maps them to error responses.
type Service struct {
	completer llm.Completer
	cfg       Config
	logger    logging.Logger
}

// NewService constructs a Service.
func NewService(cfg Config, completer llm.Completer, logger logging.Logger) (*Service, error) {
	if completer == nil {
		return nil, errors.New("completer must be provided")
	}
	if logger == nil {
		return nil, errors.New("logger must be provided")
	}
	if cfg.Model == "" {
		cfg.Model = "gpt-4o"
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBaseDelay == 0 {
		cfg.RetryBaseDelay = time.Second
	}
	return &Service{completer: completer, cfg: cfg, logger: logger}, nil
}

// ExploreChallenge answers a free-form question about a local challenge. The
// model is instructed to produce TITLE/CONTENT sections; the title names a
// new challenge derived from the exchange.
func (s *Service) ExploreChallenge(ctx context.Context, message, selectedChallenge string) (ChallengeReply, error) {
	topic := selectedChallenge
	if strings.TrimSpace(topic) == "" {
		topic = "No topic selected"
	}

	system := fmt.Sprintf(`You are an AI assistant helping users explore local challenges in the Aizu region.

Current topic: %s

Your response should be in this format:
TITLE: [A short 3-5 word title for a new challenge]
CONTENT: [Your main response in 50-80 words]

Guidelines:
1. Title should be concise and capture the key point
2. Use plain English text
3. Focus on practical insights
4. Be direct and clear
5. Maintain a professional tone`, topic)

	text, err := s.complete(ctx, []llm.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: message},
	}, llm.Params{Model: s.cfg.Model, Temperature: 0.7, MaxTokens: 1000})
	if err != nil {
		return ChallengeReply{}, err
	}

	title, reply := parseTitleContent(text)
	return ChallengeReply{Title: title, Reply: reply}, nil
}

// Interpretation produces the sentence connecting a future signal, a
// prototype concept, and a local challenge.
func (s *Service) Interpretation(ctx context.Context, signalTitle, prototypingCard, challengeTitle string) (string, error) {
	prompt := fmt.Sprintf(`Based on the following three elements, generate one explanatory sentence:

A. Future signal: %s
B. Prototype concept: %s
C. Local challenge: %s

Use this sentence pattern to produce a complete explanation:
In the future, [A] will [B], because [C].

Requirements:
1. Keep the language fluent and natural
2. Make the logical relationship clear
3. Express the causal link
4. Write in English`, signalTitle, prototypingCard, challengeTitle)

	return s.complete(ctx, []llm.ChatMessage{{Role: "user", Content: prompt}},
		llm.Params{Model: s.cfg.Model, Temperature: 0.7, MaxTokens: 300})
}

// PrototypingCard produces a prototype concept applying a future signal to a
// local challenge.
func (s *Service) PrototypingCard(ctx context.Context, signal, challenge Brief) (string, error) {
	prompt := fmt.Sprintf(`Based on the following future signal and local challenge, generate an innovative prototype concept:

Future signal:
Title: %s
Description: %s

Local challenge:
Title: %s
Description: %s

Describe a concrete prototype concept explaining how the future signal could be applied to the local challenge.
Requirements:
1. Offer a concrete, feasible solution
2. Account for local conditions
3. Include an innovative element
4. Keep the description clear and under 200 words
5. Write in English`, signal.Title, signal.Description, challenge.Title, challenge.Description)

	return s.complete(ctx, []llm.ChatMessage{{Role: "user", Content: prompt}},
		llm.Params{Model: s.cfg.Model, Temperature: 0.7, MaxTokens: 500})
}

// MagicIf expands an interpretation along a caller-supplied template prompt.
func (s *Service) MagicIf(ctx context.Context, interpretation, templatePrompt string) (string, error) {
	prompt := fmt.Sprintf(`Based on the following interpretation:
"%s"

Analyze and expand it following this prompt:
%s

Requirements:
1. Stay professional and insightful
2. Provide concrete analysis and observations
3. Organize the answer in Markdown
4. Include these sections:
   - Key points
   - Analysis
   - Future impact
   - Suggestions and implications
5. Write in English and keep it under 300 words`, interpretation, templatePrompt)

	return s.complete(ctx, []llm.ChatMessage{{Role: "user", Content: prompt}},
		llm.Params{Model: s.cfg.Model, Temperature: 0.7, MaxTokens: 1000})
}

// TestPersona performs the single-persona diagnostic call. It deliberately
// bypasses the registry and orchestration path so the upstream connection can
// be checked in isolation.
func (s *Service) TestPersona(ctx context.Context, agentID, message string) (string, error) {
	system := fmt.Sprintf("You are a %s role. User asks: %q. Please respond in 40-100 words as this role.", agentID, message)

	return s.complete(ctx, []llm.ChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: "Please respond concisely"},
	}, llm.Params{Model: s.cfg.Model, Temperature: 0.8, MaxTokens: 150})
}

// complete wraps the provider call with the retry/backoff policy shared by
// all single-shot operations.
func (s *Service) complete(ctx context.Context, messages []llm.ChatMessage, params llm.Params) (string, error) {
	var lastErr error
	for attempt := 0; attempt <= s.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			delay := s.cfg.RetryBaseDelay << (attempt - 1)
			s.logger.Info(fmt.Sprintf("retrying generation in %s (attempt %d of %d)", delay, attempt+1, s.cfg.MaxRetries+1))
			timer := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				timer.Stop()
				return "", ctx.Err()
			case <-timer.C:
			}
		}

		text, err := s.completer.Complete(ctx, messages, params)
		if err == nil {
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				return trimmed, nil
			}
			err = errors.New("empty completion")
		}
		lastErr = err
	}

	s.logger.Error(fmt.Sprintf("generation failed after %d attempts: %v", s.cfg.MaxRetries+1, lastErr))
	return "", lastErr
}

// parseTitleContent splits a TITLE/CONTENT formatted completion. A missing
// title defaults to "New Challenge"; a missing CONTENT marker returns the
// whole text as the reply.
func parseTitleContent(text string) (title, content string) {
	title = "New Challenge"
	content = strings.TrimSpace(text)

	upper := text
	titleIdx := strings.Index(upper, "TITLE:")
	contentIdx := strings.Index(upper, "CONTENT:")

	if contentIdx >= 0 {
		content = strings.TrimSpace(upper[contentIdx+len("CONTENT:"):])
	}
	if titleIdx >= 0 {
		end := len(upper)
		if contentIdx > titleIdx {
			end = contentIdx
		}
		if t := strings.TrimSpace(upper[titleIdx+len("TITLE:") : end]); t != "" {
			title = t
		}
	}
	return title, content
}
