package generate

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

const (
	completionsPath = "chat/completions"

	DefaultTemperature = 0.7
	DefaultMaxTokens   = 500
	DefaultTimeout     = 60 * time.Second
)

// ErrEmptyContent is returned when a provider answers without usable content.
var ErrEmptyContent = errors.New("generate: provider returned no content")

// StatusError is returned for non-2xx provider responses.
type StatusError struct {
	Provider string
	Code     int
	Body     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("generate: %s status %d, body: %s", e.Provider, e.Code, e.Body)
}

// Provider is one OpenAI compatible chat-completion endpoint.
type Provider struct {
	Name    string
	BaseURL string
	APIKey  string
	Model   string
	// Header is added to every request, e.g. HTTP-Referer.
	Header http.Header
	// Reasoning accepts message.reasoning when message.content is empty.
	Reasoning bool
}

// Options are the sampling parameters shared by all providers.
type Options struct {
	Temperature float64
	MaxTokens   int
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
	MaxTokens   int       `json:"max_tokens"`
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content   *string `json:"content"`
			Reasoning *string `json:"reasoning"`
		} `json:"message"`
	} `json:"choices"`
}

// Client calls chat-completion providers.
type Client struct {
	hc   *http.Client
	opts Options
}

func NewClient(hc *http.Client, opts Options) *Client {
	if hc == nil {
		hc = &http.Client{Timeout: DefaultTimeout}
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	return &Client{hc: hc, opts: opts}
}

// Complete sends prompt as the single user message and returns the trimmed content.
func (c *Client) Complete(ctx context.Context, p Provider, prompt string) (string, error) {
	urlString := fmt.Sprintf("%s/%s", strings.TrimRight(p.BaseURL, "/"), completionsPath)

	b, err := json.Marshal(chatRequest{
		Model:       p.Model,
		Messages:    []message{{Role: "user", Content: prompt}},
		Temperature: c.opts.Temperature,
		MaxTokens:   c.opts.MaxTokens,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, urlString, bytes.NewReader(b))
	if err != nil {
		return "", fmt.Errorf("generate: failed create request: %w", err)
	}

	for k, vs := range p.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.APIKey))

	resp, err := c.hc.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate: %s request: %w", p.Name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<10))
		return "", &StatusError{Provider: p.Name, Code: resp.StatusCode, Body: string(body)}
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("generate: %s decode response: %w", p.Name, err)
	}

	text := extract(&out, p.Reasoning)
	if text == "" {
		return "", ErrEmptyContent
	}
	return text, nil
}

func extract(out *chatResponse, reasoning bool) string {
	if len(out.Choices) == 0 {
		return ""
	}
	msg := out.Choices[0].Message
	if msg.Content != nil && strings.TrimSpace(*msg.Content) != "" {
		return strings.TrimSpace(*msg.Content)
	}
	if reasoning && msg.Reasoning != nil {
		return strings.TrimSpace(*msg.Reasoning)
	}
	return ""
}
