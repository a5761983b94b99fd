package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"future-workshop/internal/logging"
)

// Config configures the FAL-backed image client.
type Config struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
}

const defaultFALBaseURL = "https://fal.run/fal-ai/flux-pro"
const defaultTimeout = 60 * time.Second

// Result is the outcome of one headline-image request. Generated reports
// whether the upstream produced the image; when false, URL points at a
// style-matched placeholder.
type Result struct {
	URL       string
	Method    string
	Generated bool
}

// Client generates speculative headline images through a FAL-compatible
// endpoint, degrading to placeholder imagery when the upstream is
// unavailable. A client without an API key always serves placeholders.
type Client struct {
	client *http.Client
	apiKey string
	base   string
	logger logging.Logger
}

// NewClient constructs an image client.
func NewClient(cfg Config, logger logging.Logger) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = defaultFALBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout == 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	return &Client{client: httpClient, apiKey: cfg.APIKey, base: base, logger: logger}
}

// Generate produces an image URL for the interpretation, styled for the
// chosen future year. It never fails: upstream errors resolve to a
// placeholder result.
func (c *Client) Generate(ctx context.Context, interpretation, style, year string) Result {
	if c.apiKey != "" {
		imageURL, err := c.request(ctx, enhancePrompt(interpretation, style))
		if err == nil {
			return Result{URL: imageURL, Method: "fal-ai flux-pro", Generated: true}
		}
		c.logger.With(logging.Field{Key: "style", Value: style}).
			Error(fmt.Sprintf("image generation failed, using placeholder: %v", err))
	}
	return placeholderResult(style, year)
}

func (c *Client) request(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(falRequest{Prompt: prompt, NumImages: 1})
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Key %s", c.apiKey))

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("fal returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed falResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	// The endpoint has returned the image URL under several shapes over time.
	switch {
	case len(parsed.Images) > 0 && parsed.Images[0].URL != "":
		return parsed.Images[0].URL, nil
	case parsed.Image.URL != "":
		return parsed.Image.URL, nil
	case parsed.ImageURL != "":
		return parsed.ImageURL, nil
	}
	return "", errors.New("no image url in fal response")
}

func enhancePrompt(prompt, style string) string {
	switch style {
	case "positive":
		return prompt + ", optimistic future, bright colors, innovative technology, hope, prosperity"
	case "neutral":
		return prompt + ", realistic future, balanced perspective, neutral colors"
	case "negative":
		return prompt + ", challenging future, dark tones, dystopian elements, caution"
	}
	return prompt
}

func placeholderResult(style, year string) Result {
	color := "5157E8"
	caption := "Future Headline Image"
	switch style {
	case "positive":
		color = "10B981"
		caption = "Positive Future"
	case "neutral":
		color = "6B7280"
		caption = "Neutral Future"
	case "negative":
		color = "EF4444"
		caption = "Challenging Future"
	}
	placeholder := fmt.Sprintf(
		"https://via.placeholder.com/1024x1024/%s/FFFFFF?text=%s",
		color,
		url.QueryEscape(fmt.Sprintf("%s %s", caption, year)),
	)
	return Result{URL: placeholder, Method: "placeholder"}
}

type falRequest struct {
	Prompt    string `json:"prompt"`
	NumImages int    `json:"num_images"`
}

type falResponse struct {
	Images []struct {
		URL string `json:"url"`
	} `json:"images"`
	Image struct {
		URL string `json:"url"`
	} `json:"image"`
	ImageURL string `json:"image_url"`
}
