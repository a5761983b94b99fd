package imagegen

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"future-workshop/internal/logging"
)

func testLogger() logging.Logger {
	return logging.NewStdLoggerWithWriter(io.Discard)
}

func TestClientGeneratesImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Key test-key", r.Header.Get("Authorization"))

		var req falRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 1, req.NumImages)
		assert.Contains(t, req.Prompt, "optimistic future")

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"images":[{"url":"https://img.example/headline.png"}]}`))
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, HTTPClient: server.Client()}, testLogger())

	result := client.Generate(context.Background(), "A shared-housing future", "positive", "2040")
	assert.True(t, result.Generated)
	assert.Equal(t, "https://img.example/headline.png", result.URL)
	assert.Equal(t, "fal-ai flux-pro", result.Method)
}

func TestClientParsesAlternateResponseShapes(t *testing.T) {
	for _, body := range []string{
		`{"image":{"url":"https://img.example/a.png"}}`,
		`{"image_url":"https://img.example/a.png"}`,
	} {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(body))
		}))
		client := NewClient(Config{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()}, testLogger())

		result := client.Generate(context.Background(), "prompt", "neutral", "2035")
		assert.True(t, result.Generated, "body %s", body)
		assert.Equal(t, "https://img.example/a.png", result.URL)
		server.Close()
	}
}

func TestClientFallsBackToPlaceholderOnUpstreamFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, HTTPClient: server.Client()}, testLogger())

	result := client.Generate(context.Background(), "prompt", "negative", "2050")
	assert.False(t, result.Generated)
	assert.Equal(t, "placeholder", result.Method)
	assert.Contains(t, result.URL, "EF4444")
	assert.Contains(t, result.URL, "2050")
}

func TestClientWithoutKeyServesPlaceholder(t *testing.T) {
	client := NewClient(Config{}, testLogger())

	result := client.Generate(context.Background(), "prompt", "positive", "2040")
	assert.False(t, result.Generated)
	assert.Contains(t, result.URL, "10B981")
	assert.True(t, strings.Contains(result.URL, "Positive+Future+2040") || strings.Contains(result.URL, "Positive%20Future%202040"))
}

func TestEnhancePrompt(t *testing.T) {
	assert.Contains(t, enhancePrompt("p", "neutral"), "balanced perspective")
	assert.Contains(t, enhancePrompt("p", "negative"), "dystopian")
	assert.Equal(t, "p", enhancePrompt("p", "unknown"))
}
