package discussion

import (
	"context"

	"future-workshop/internal/persona"
)

// Context carries the caller-supplied framing shared by every persona in one
// discussion turn. It is built fresh per request and never persisted.
type Context struct {
	Topic              string
	SelectedChallenges []string
	Interpretation     string
}

// EntryRole tags a conversation history entry as user- or persona-authored.
type EntryRole string

const (
	// EntryUser denotes an utterance from the workshop participant.
	EntryUser EntryRole = "user"
	// EntryPersona denotes an utterance from a discussion persona.
	EntryPersona EntryRole = "assistant"
)

// HistoryEntry is one prior utterance in the caller-supplied conversation
// history. Name carries the originating persona's display name for persona
// entries and is empty for user entries.
type HistoryEntry struct {
	Role    EntryRole
	Name    string
	Content string
}

// PersonaResult pairs a resolved persona with the text generated for it in
// the current turn.
type PersonaResult struct {
	Persona persona.Persona
	Text    string
}

// EventType discriminates the stream event variants.
type EventType string

const (
	EventAgentStart EventType = "agent_start"
	EventContent    EventType = "content"
	EventAgentEnd   EventType = "agent_end"
	EventDone       EventType = "done"
)

// Event is the wire-level unit emitted to the client.
type Event struct {
	Type    EventType `json:"type"`
	AgentID string    `json:"agentId,omitempty"`
	Name    string    `json:"name,omitempty"`
	Color   string    `json:"color,omitempty"`
	Content string    `json:"content,omitempty"`
}

// Sink abstracts the push channel events are delivered through.
type Sink interface {
	Send(ctx context.Context, event Event) error
}
