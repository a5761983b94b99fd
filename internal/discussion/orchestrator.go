package discussion

import (
	"context"

	"future-workshop/internal/logging"
	"future-workshop/internal/persona"
)

// Orchestrator drives one discussion turn: one generation per selected
// persona, strictly in order. Generation is deliberately sequential - persona
// i+1's prompt includes the literal text produced for personas 0..i, so later
// participants can endorse or push back on earlier views. Parallelizing the
// calls would break that.
type Orchestrator struct {
	registry  *persona.Registry
	generator *Generator
	logger    logging.Logger
}

// NewOrchestrator wires the persona registry and response generator together.
func NewOrchestrator(registry *persona.Registry, generator *Generator, logger logging.Logger) *Orchestrator {
	return &Orchestrator{registry: registry, generator: generator, logger: logger}
}

// RunTurn produces one PersonaResult per resolvable persona key, in input
// order. Unknown keys are skipped. Every returned result has non-empty text;
// per-persona upstream failures are absorbed by the generator's fallback
// contract, so RunTurn itself cannot fail.
func (o *Orchestrator) RunTurn(ctx context.Context, userMessage string, personaKeys []string, dctx Context, history []HistoryEntry) []PersonaResult {
	results := make([]PersonaResult, 0, len(personaKeys))

	for _, key := range personaKeys {
		p, err := o.registry.Lookup(key)
		if err != nil {
			o.logger.With(logging.Field{Key: "persona", Value: key}).Info("skipping unknown persona")
			continue
		}

		text := o.generator.Generate(ctx, p, dctx, history, userMessage, results)
		results = append(results, PersonaResult{Persona: p, Text: text})
	}

	return results
}
