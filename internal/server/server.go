package server

import (
	"encoding/json"
	"net/http"

	"future-workshop/internal/content"
	"future-workshop/internal/discussion"
	"future-workshop/internal/generate"
	"future-workshop/internal/imagegen"
	"future-workshop/internal/logging"
)

// Server holds the HTTP handlers for the workshop API.
type Server struct {
	orchestrator *discussion.Orchestrator
	emitter      *discussion.Emitter
	generate     *generate.Service
	images       *imagegen.Client
	library      *content.Library
	logger       logging.Logger
}

// New wires the workshop services into an HTTP surface.
func New(orchestrator *discussion.Orchestrator, emitter *discussion.Emitter, generateSvc *generate.Service, images *imagegen.Client, library *content.Library, logger logging.Logger) *Server {
	return &Server{
		orchestrator: orchestrator,
		emitter:      emitter,
		generate:     generateSvc,
		images:       images,
		library:      library,
		logger:       logger,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/multi-agent-chat", s.handleMultiAgentChat)
	mux.HandleFunc("POST /api/chat", s.handleChat)
	mux.HandleFunc("POST /api/interpretation", s.handleInterpretation)
	mux.HandleFunc("POST /api/prototyping", s.handlePrototyping)
	mux.HandleFunc("POST /api/magic-if", s.handleMagicIf)
	mux.HandleFunc("POST /api/image", s.handleImage)
	mux.HandleFunc("POST /api/test-agent", s.handleTestAgent)

	mux.HandleFunc("GET /api/future-signals", s.handleFutureSignals)
	mux.HandleFunc("GET /api/local-challenges", s.handleLocalChallenges)
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	return mux
}

func (s *Server) handleFutureSignals(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.library.FutureSignals())
}

func (s *Server) handleLocalChallenges(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, s.library.LocalChallenges())
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write response: " + err.Error())
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}
