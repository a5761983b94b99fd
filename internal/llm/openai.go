package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// OpenAIConfig configures the OpenAIClient.
type OpenAIConfig struct {
	APIKey     string
	BaseURL    string
	Model      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

// OpenAIClient implements Completer against OpenAI's Chat Completions API
// (or any compatible endpoint selected via BaseURL).
type OpenAIClient struct {
	client *http.Client
	apiKey string
	base   string
	model  string
}

const defaultOpenAIBaseURL = "https://api.openai.com/v1"
const defaultHTTPTimeout = 60 * time.Second

// NewOpenAIClient constructs an OpenAI-backed completer.
func NewOpenAIClient(cfg OpenAIConfig) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai api key must be provided")
	}
	if cfg.Model == "" {
		return nil, errors.New("openai model must be provided")
	}
	base := cfg.BaseURL
	if base == "" {
		base = defaultOpenAIBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultHTTPTimeout
		}
		client = &http.Client{Timeout: timeout}
	}
	return &OpenAIClient{client: client, apiKey: cfg.APIKey, base: strings.TrimRight(base, "/"), model: cfg.Model}, nil
}

// Complete performs a single non-streaming chat completion call.
func (c *OpenAIClient) Complete(ctx context.Context, messages []ChatMessage, params Params) (string, error) {
	if len(messages) == 0 {
		return "", errors.New("at least one message must be provided")
	}

	reqBody := openAIChatRequest{
		Model:       coalesce(params.Model, c.model),
		Temperature: params.Temperature,
	}
	if params.MaxTokens > 0 {
		reqBody.MaxTokens = params.MaxTokens
	}
	reqBody.Messages = make([]openAIMessage, 0, len(messages))
	for _, msg := range messages {
		reqBody.Messages = append(reqBody.Messages, openAIMessage{Role: msg.Role, Content: msg.Content})
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/chat/completions", c.base), bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed openAIChatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}

	return parsed.Choices[0].Message.Content, nil
}

func coalesce(value, fallback string) string {
	if strings.TrimSpace(value) != "" {
		return value
	}
	return fallback
}

type openAIChatRequest struct {
	Model       string          `json:"model"`
	Messages    []openAIMessage `json:"messages"`
	Temperature float32         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason *string `json:"finish_reason"`
	} `json:"choices"`
}

var _ Completer = (*OpenAIClient)(nil)
