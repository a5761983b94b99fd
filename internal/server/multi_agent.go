package server

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/google/uuid"

	"future-workshop/internal/discussion"
	"future-workshop/internal/logging"
)

type multiAgentRequest struct {
	Message        string   `json:"message"`
	SelectedAgents []string `json:"selectedAgents"`
	Context        *struct {
		Topic              string   `json:"topic"`
		SelectedChallenges []string `json:"selectedChallenges"`
		Interpretation     string   `json:"interpretation"`
	} `json:"context"`
	ConversationHistory []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
		Name    string `json:"name"`
	} `json:"conversationHistory"`
}

// handleMultiAgentChat is the request boundary of the simulated discussion:
// it validates the request, runs the full turn, then replays the results over
// SSE. Generation completes before the first byte of the stream is written,
// so a client disconnect never cancels in-flight provider calls.
func (s *Server) handleMultiAgentChat(w http.ResponseWriter, r *http.Request) {
	var req multiAgentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if len(req.SelectedAgents) == 0 {
		s.writeError(w, http.StatusBadRequest, "select at least one discussion participant")
		return
	}
	if req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "message must not be empty")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	var dctx discussion.Context
	if req.Context != nil {
		dctx = discussion.Context{
			Topic:              req.Context.Topic,
			SelectedChallenges: req.Context.SelectedChallenges,
			Interpretation:     req.Context.Interpretation,
		}
	}

	history := make([]discussion.HistoryEntry, 0, len(req.ConversationHistory))
	for _, msg := range req.ConversationHistory {
		entry := discussion.HistoryEntry{Content: msg.Content, Name: msg.Name}
		if msg.Role == "user" {
			entry.Role = discussion.EntryUser
		} else {
			entry.Role = discussion.EntryPersona
		}
		history = append(history, entry)
	}

	log := s.logger.With(
		logging.Field{Key: "turn_id", Value: uuid.NewString()},
		logging.Field{Key: "personas", Value: len(req.SelectedAgents)},
	)
	log.Info("running discussion turn")

	results := s.orchestrator.RunTurn(r.Context(), req.Message, req.SelectedAgents, dctx, history)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sink := &sseSink{w: w, flusher: flusher}
	if err := s.emitter.Stream(r.Context(), results, sink); err != nil {
		// The connection is gone or broken; events already flushed remain a
		// valid prefix of the protocol.
		log.Info(fmt.Sprintf("stream ended early: %v", err))
		return
	}
	log.Debug("discussion stream completed")
}

// sseSink frames discussion events as SSE data lines.
type sseSink struct {
	w       io.Writer
	flusher http.Flusher
}

func (s *sseSink) Send(ctx context.Context, event discussion.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

var _ discussion.Sink = (*sseSink)(nil)
