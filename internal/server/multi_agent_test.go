package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"future-workshop/internal/content"
	"future-workshop/internal/discussion"
	"future-workshop/internal/generate"
	"future-workshop/internal/imagegen"
	"future-workshop/internal/llm"
	"future-workshop/internal/logging"
	"future-workshop/internal/persona"
)

// fixedCompleter returns the same completion for every call, or an error.
type fixedCompleter struct {
	text  string
	err   error
	calls int
}

func (c *fixedCompleter) Complete(_ context.Context, _ []llm.ChatMessage, _ llm.Params) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return c.text, nil
}

func newTestHandler(t *testing.T, completer llm.Completer) http.Handler {
	t.Helper()
	logger := logging.NewStdLoggerWithWriter(io.Discard)

	registry, err := persona.NewRegistry(persona.DefaultPersonas())
	require.NoError(t, err)
	gen, err := discussion.NewGenerator(discussion.GeneratorConfig{Model: "test-model"}, completer, rand.New(rand.NewSource(1)), logger)
	require.NoError(t, err)
	orchestrator := discussion.NewOrchestrator(registry, gen, logger)
	emitter := discussion.NewEmitter(discussion.Pacing{})

	generateSvc, err := generate.NewService(generate.Config{Model: "test-model", RetryBaseDelay: time.Millisecond}, completer, logger)
	require.NoError(t, err)

	images := imagegen.NewClient(imagegen.Config{}, logger)
	library, err := content.LoadLibrary(t.TempDir(), logger)
	require.NoError(t, err)

	return New(orchestrator, emitter, generateSvc, images, library, logger).Handler()
}

func decodeSSE(t *testing.T, body string) []discussion.Event {
	t.Helper()
	var events []discussion.Event
	for _, line := range strings.Split(body, "\n") {
		if !strings.HasPrefix(line, "data: ") {
			continue
		}
		var ev discussion.Event
		require.NoError(t, json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &ev))
		events = append(events, ev)
	}
	return events
}

func postJSON(handler http.Handler, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestMultiAgentChatStreamsOnePersona(t *testing.T) {
	completer := &fixedCompleter{text: "We should study the housing budget."}
	handler := newTestHandler(t, completer)

	rec := postJSON(handler, "/api/multi-agent-chat", `{
		"message": "How should we handle housing costs?",
		"selectedAgents": ["government"]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", rec.Header().Get("Cache-Control"))

	events := decodeSSE(t, rec.Body.String())
	require.NotEmpty(t, events)

	assert.Equal(t, discussion.EventAgentStart, events[0].Type)
	assert.Equal(t, "government", events[0].AgentID)
	assert.Equal(t, "Government Official", events[0].Name)

	var assembled strings.Builder
	contentEvents := 0
	for _, ev := range events[1 : len(events)-2] {
		require.Equal(t, discussion.EventContent, ev.Type)
		assert.Equal(t, "government", ev.AgentID)
		assembled.WriteString(ev.Content)
		contentEvents++
	}
	assert.Greater(t, contentEvents, 0)
	assert.Equal(t, "We should study the housing budget.", assembled.String())

	assert.Equal(t, discussion.EventAgentEnd, events[len(events)-2].Type)
	assert.Equal(t, discussion.EventDone, events[len(events)-1].Type)
}

func TestMultiAgentChatRejectsEmptySelection(t *testing.T) {
	handler := newTestHandler(t, &fixedCompleter{text: "unused"})

	rec := postJSON(handler, "/api/multi-agent-chat", `{"message": "Hello", "selectedAgents": []}`)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["error"])
}

func TestMultiAgentChatSkipsUnknownPersona(t *testing.T) {
	completer := &fixedCompleter{text: "From the street, keep it affordable."}
	handler := newTestHandler(t, completer)

	rec := postJSON(handler, "/api/multi-agent-chat", `{
		"message": "Hello",
		"selectedAgents": ["citizen", "unknownkey"]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeSSE(t, rec.Body.String())

	for _, ev := range events {
		if ev.AgentID != "" {
			assert.Equal(t, "citizen", ev.AgentID)
		}
	}
	starts := 0
	for _, ev := range events {
		if ev.Type == discussion.EventAgentStart {
			starts++
		}
	}
	assert.Equal(t, 1, starts)
}

func TestMultiAgentChatCompletesWithFallbacksOnUpstreamFailure(t *testing.T) {
	completer := &fixedCompleter{err: errors.New("provider timeout")}
	handler := newTestHandler(t, completer)

	rec := postJSON(handler, "/api/multi-agent-chat", `{
		"message": "Hello",
		"selectedAgents": ["government", "ngo", "citizen", "student"]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	events := decodeSSE(t, rec.Body.String())
	require.NotEmpty(t, events)
	assert.Equal(t, discussion.EventDone, events[len(events)-1].Type)

	registry, err := persona.NewRegistry(persona.DefaultPersonas())
	require.NoError(t, err)

	texts := map[string]*strings.Builder{}
	for _, ev := range events {
		if ev.Type == discussion.EventContent {
			if texts[ev.AgentID] == nil {
				texts[ev.AgentID] = &strings.Builder{}
			}
			texts[ev.AgentID].WriteString(ev.Content)
		}
	}
	require.Len(t, texts, 4)
	for key, b := range texts {
		p, err := registry.Lookup(key)
		require.NoError(t, err)
		assert.Contains(t, p.FallbackPool, b.String())
	}
}

func TestMultiAgentChatPassesContextAndHistory(t *testing.T) {
	var captured [][]llm.ChatMessage
	completer := capturingCompleter{calls: &captured, text: "ok"}
	handler := newTestHandler(t, completer)

	rec := postJSON(handler, "/api/multi-agent-chat", `{
		"message": "And next?",
		"selectedAgents": ["student"],
		"context": {"topic": "Housing", "selectedChallenges": ["Population decline"], "interpretation": "A background line."},
		"conversationHistory": [
			{"role": "user", "content": "Earlier question"},
			{"role": "assistant", "content": "Earlier answer", "name": "Citizen"}
		]
	}`)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, captured, 1)

	prompt := captured[0][0].Content
	assert.Contains(t, prompt, "Discussion topic: Housing")
	assert.Contains(t, prompt, "Population decline")
	assert.Contains(t, prompt, "Background: A background line.")
	assert.Contains(t, prompt, "User: Earlier question")
	assert.Contains(t, prompt, "Citizen: Earlier answer")
}

type capturingCompleter struct {
	calls *[][]llm.ChatMessage
	text  string
}

func (c capturingCompleter) Complete(_ context.Context, messages []llm.ChatMessage, _ llm.Params) (string, error) {
	*c.calls = append(*c.calls, messages)
	return c.text, nil
}
