// Package llm talks to an external language-model API. Two provider
// dialects are supported, Ollama-style and OpenAI-style chat
// completions, as a closed union keyed by Provider. The HTTP call goes
// through an injectable Transport so tests never touch the network.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Provider selects the request/response dialect.
type Provider string

const (
	ProviderOllama Provider = "ollama"
	ProviderOpenAI Provider = "openai"
)

// Config describes the model endpoint. Read-only to this package.
type Config struct {
	Provider     Provider
	BaseURL      string
	EndpointPath string
	Model        string
	APIKeyHeader string
	APIKeyValue  string
	Temperature  float64
	MaxTokens    int
	Timeout      time.Duration
}

// Request is the wire-level call handed to a Transport.
type Request struct {
	URL     string
	Method  string
	Headers map[string]string
	Body    []byte
}

// Response is what a Transport returns for a completed HTTP exchange.
// HTTP error statuses are reported via Status, never as a Go error;
// Transport errors mean the call itself failed (connectivity, DNS,
// timeout).
type Response struct {
	Status int
	Body   []byte
}

// Transport performs one HTTP exchange.
type Transport func(ctx context.Context, req Request) (*Response, error)

// Error is the single failure kind surfaced by this package, so
// callers can tell model/API failures apart from everything else with
// errors.As.
type Error struct {
	Status int // HTTP status when >= 400 caused the failure, else 0
	Msg    string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("llm: %s: %v", e.Msg, e.Err)
	}
	return "llm: " + e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Client issues chat-completion calls for a fixed Config.
type Client struct {
	cfg       Config
	transport Transport
}

// New creates a Client. A nil transport falls back to the default
// net/http-backed one with the configured timeout.
func New(cfg Config, transport Transport) *Client {
	if transport == nil {
		transport = HTTPTransport(cfg.Timeout)
	}
	return &Client{cfg: cfg, transport: transport}
}

// BuildRequestBody returns the provider-specific request payload. Both
// shapes carry model, a single user message, and stream:false. The
// openai shape puts generation params at the top level; the ollama
// shape nests them under options. The two never mix.
func BuildRequestBody(cfg Config, prompt string) map[string]any {
	body := map[string]any{
		"model": cfg.Model,
		"messages": []map[string]string{{
			"role":    "user",
			"content": prompt,
		}},
		"stream": false,
	}
	switch cfg.Provider {
	case ProviderOpenAI:
		body["temperature"] = cfg.Temperature
		body["max_tokens"] = cfg.MaxTokens
	default: // ollama
		body["options"] = map[string]any{
			"temperature": cfg.Temperature,
			"num_predict": cfg.MaxTokens,
		}
	}
	return body
}

// ParseResponseContent extracts the assistant text from a raw response
// body. Failure messages name the expected field path.
func ParseResponseContent(provider Provider, raw []byte) (string, error) {
	switch provider {
	case ProviderOpenAI:
		var decoded struct {
			Choices []struct {
				Message struct {
					Content any `json:"content"`
				} `json:"message"`
			} `json:"choices"`
		}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return "", fmt.Errorf("response is not valid JSON at choices[0].message.content: %w", err)
		}
		if len(decoded.Choices) == 0 {
			return "", fmt.Errorf("response missing choices[0].message.content")
		}
		s, ok := decoded.Choices[0].Message.Content.(string)
		if !ok {
			return "", fmt.Errorf("response missing choices[0].message.content")
		}
		return s, nil
	default: // ollama
		var decoded struct {
			Message struct {
				Content any `json:"content"`
			} `json:"message"`
		}
		if err := json.Unmarshal(raw, &decoded); err != nil {
			return "", fmt.Errorf("response is not valid JSON at message content: %w", err)
		}
		s, ok := decoded.Message.Content.(string)
		if !ok {
			return "", fmt.Errorf("response missing message content")
		}
		return s, nil
	}
}

// Call sends prompt to the configured endpoint and returns the model
// text. Transport-level failures are retried exactly once; HTTP status
// >= 400 and parse failures are terminal on the first attempt. Every
// failure is an *Error.
func (c *Client) Call(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(BuildRequestBody(c.cfg, prompt))
	if err != nil {
		return "", &Error{Msg: "marshal request", Err: err}
	}

	headers := map[string]string{
		"Content-Type": "application/json",
	}
	if c.cfg.APIKeyHeader != "" && c.cfg.APIKeyValue != "" {
		headers[c.cfg.APIKeyHeader] = c.cfg.APIKeyValue
	}

	req := Request{
		URL:     strings.TrimRight(c.cfg.BaseURL, "/") + c.cfg.EndpointPath,
		Method:  "POST",
		Headers: headers,
		Body:    payload,
	}

	resp, err := c.transport(ctx, req)
	if err != nil {
		// One retry, for transport-level failures only.
		resp, err = c.transport(ctx, req)
		if err != nil {
			return "", &Error{Msg: "request failed after retry", Err: err}
		}
	}

	if resp.Status >= 400 {
		return "", &Error{
			Status: resp.Status,
			Msg:    fmt.Sprintf("api returned status %d: %s", resp.Status, strings.TrimSpace(string(resp.Body))),
		}
	}

	content, err := ParseResponseContent(c.cfg.Provider, resp.Body)
	if err != nil {
		return "", &Error{Msg: "parse response", Err: err}
	}
	return content, nil
}
