package discussion

import (
	"context"
	"time"
)

// Pacing controls the simulated-typing delays of the delivery channel.
// A zero value disables pacing; cancellation is still honored.
type Pacing struct {
	// UnitDelay is the pause after each content fragment.
	UnitDelay time.Duration
	// PersonaDelay is the pause between one persona's agent_end and the next
	// persona's agent_start.
	PersonaDelay time.Duration
}

// DefaultPacing mirrors the live-typing feel of the workshop UI.
func DefaultPacing() Pacing {
	return Pacing{UnitDelay: 50 * time.Millisecond, PersonaDelay: 500 * time.Millisecond}
}

// Emitter replays already-finalized persona results over a Sink as a paced
// sequence of typed events. It only replays text computed by the orchestrator;
// it never triggers generation.
type Emitter struct {
	pacing Pacing
}

// NewEmitter constructs an Emitter with the given pacing policy.
func NewEmitter(pacing Pacing) *Emitter {
	return &Emitter{pacing: pacing}
}

// Stream emits, for each result in order: one agent_start, one content event
// per rune of the text, one agent_end; then a single done event after the
// last persona. A sink error or context cancellation stops emission and is
// returned; events already sent remain a valid prefix of the protocol.
func (e *Emitter) Stream(ctx context.Context, results []PersonaResult, sink Sink) error {
	for i, res := range results {
		start := Event{
			Type:    EventAgentStart,
			AgentID: res.Persona.Key,
			Name:    res.Persona.DisplayName,
			Color:   res.Persona.Color,
		}
		if err := sink.Send(ctx, start); err != nil {
			return err
		}

		for _, r := range res.Text {
			if err := sink.Send(ctx, Event{Type: EventContent, AgentID: res.Persona.Key, Content: string(r)}); err != nil {
				return err
			}
			if err := e.pause(ctx, e.pacing.UnitDelay); err != nil {
				return err
			}
		}

		if err := sink.Send(ctx, Event{Type: EventAgentEnd, AgentID: res.Persona.Key}); err != nil {
			return err
		}

		if i < len(results)-1 {
			if err := e.pause(ctx, e.pacing.PersonaDelay); err != nil {
				return err
			}
		}
	}

	return sink.Send(ctx, Event{Type: EventDone})
}

func (e *Emitter) pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			return nil
		}
	}
	return sleepCtx(ctx, d)
}
