package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"future-workshop/internal/generate"
)

type chatRequest struct {
	Message           string          `json:"message"`
	SelectedChallenge json.RawMessage `json:"selectedChallenge"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		s.writeError(w, http.StatusBadRequest, "message must not be empty")
		return
	}

	challenge := ""
	if len(req.SelectedChallenge) > 0 && string(req.SelectedChallenge) != "null" {
		challenge = string(req.SelectedChallenge)
	}

	reply, err := s.generate.ExploreChallenge(r.Context(), req.Message, challenge)
	if err != nil {
		s.logger.Error(fmt.Sprintf("challenge exploration failed: %v", err))
		s.writeError(w, http.StatusServiceUnavailable, "the assistant is temporarily unavailable, please retry later")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"reply": reply.Reply, "title": reply.Title})
}

type interpretationRequest struct {
	FutureSignal *struct {
		Title string `json:"title"`
	} `json:"futureSignal"`
	PrototypingCard string `json:"prototypingCard"`
	LocalChallenge  *struct {
		Title         string `json:"title"`
		AllChallenges string `json:"allChallenges"`
	} `json:"localChallenge"`
}

func (s *Server) handleInterpretation(w http.ResponseWriter, r *http.Request) {
	var req interpretationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FutureSignal == nil || req.PrototypingCard == "" || req.LocalChallenge == nil {
		s.writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	challengeTitle := req.LocalChallenge.Title
	if req.LocalChallenge.AllChallenges != "" {
		challengeTitle = req.LocalChallenge.AllChallenges
	}

	interpretation, err := s.generate.Interpretation(r.Context(), req.FutureSignal.Title, req.PrototypingCard, challengeTitle)
	if err != nil {
		s.logger.Error(fmt.Sprintf("interpretation generation failed: %v", err))
		s.writeError(w, http.StatusInternalServerError, "failed to generate interpretation")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"interpretation": interpretation})
}

type prototypingRequest struct {
	FutureSignal   *generate.Brief `json:"futureSignal"`
	LocalChallenge *generate.Brief `json:"localChallenge"`
}

func (s *Server) handlePrototyping(w http.ResponseWriter, r *http.Request) {
	var req prototypingRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FutureSignal == nil || req.LocalChallenge == nil {
		s.writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	card, err := s.generate.PrototypingCard(r.Context(), *req.FutureSignal, *req.LocalChallenge)
	if err != nil {
		s.logger.Error(fmt.Sprintf("prototyping generation failed: %v", err))
		s.writeError(w, http.StatusInternalServerError, "failed to generate prototyping card")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"prototypingCard": card})
}

type magicIfRequest struct {
	Interpretation string `json:"interpretation"`
	TemplatePrompt string `json:"templatePrompt"`
}

func (s *Server) handleMagicIf(w http.ResponseWriter, r *http.Request) {
	var req magicIfRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Interpretation == "" || req.TemplatePrompt == "" {
		s.writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	reply, err := s.generate.MagicIf(r.Context(), req.Interpretation, req.TemplatePrompt)
	if err != nil {
		s.logger.Error(fmt.Sprintf("magic-if generation failed: %v", err))
		s.writeError(w, http.StatusInternalServerError, "failed to generate analysis")
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

type imageRequest struct {
	Interpretation string `json:"interpretation"`
	Year           string `json:"year"`
	Style          string `json:"style"`
}

func (s *Server) handleImage(w http.ResponseWriter, r *http.Request) {
	var req imageRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Interpretation == "" || req.Year == "" || req.Style == "" {
		s.writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	result := s.images.Generate(r.Context(), req.Interpretation, req.Style, req.Year)

	s.writeJSON(w, http.StatusOK, map[string]any{
		"imageUrl":       result.URL,
		"method":         result.Method,
		"style":          req.Style,
		"year":           req.Year,
		"interpretation": req.Interpretation,
		"success":        result.Generated,
	})
}

type testAgentRequest struct {
	AgentID string `json:"agentId"`
	Message string `json:"message"`
}

func (s *Server) handleTestAgent(w http.ResponseWriter, r *http.Request) {
	var req testAgentRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.AgentID == "" || req.Message == "" {
		s.writeError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	response, err := s.generate.TestPersona(r.Context(), req.AgentID, req.Message)
	if err != nil {
		s.writeJSON(w, http.StatusInternalServerError, map[string]any{
			"error":   "generation call failed",
			"details": err.Error(),
			"agentId": req.AgentID,
		})
		return
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"agentId":  req.AgentID,
		"response": response,
	})
}
