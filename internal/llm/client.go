// internal/llm/client.go
// OpenAI-compatible chat completion client. One call per request, no retry:
// a failed completion is terminal and the caller's aggregation policy
// decides what to do with it.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"time"
)

// TransportError covers network, auth and rate-limit failures.
type TransportError struct {
	Status int // 0 when the request never reached the server
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("transport error (HTTP %d): %v", e.Status, e.Err)
	}
	return fmt.Sprintf("transport error: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ModelError means the server rejected the requested model.
type ModelError struct {
	Model string
	Err   error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("model %q: %v", e.Model, e.Err)
}

func (e *ModelError) Unwrap() error { return e.Err }

// Client talks to an OpenAI-compatible chat completions endpoint.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout:   10 * time.Second,
					KeepAlive: 30 * time.Second,
				}).DialContext,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 30 * time.Second,
				IdleConnTimeout:       90 * time.Second,
				MaxIdleConns:          10,
				MaxIdleConnsPerHost:   5,
			},
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Complete sends one prompt to the given model and returns the reply text.
func (c *Client) Complete(ctx context.Context, model, prompt string, temperature float64, maxTokens int) (string, error) {
	reqBody := chatRequest{
		Model:       model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("marshal: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", &TransportError{Err: fmt.Errorf("request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Status: resp.StatusCode, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		apiErr := fmt.Errorf("API error %d: %s", resp.StatusCode, truncate(string(body), 300))
		if isModelRejection(resp.StatusCode, string(body)) {
			return "", &ModelError{Model: model, Err: apiErr}
		}
		return "", &TransportError{Status: resp.StatusCode, Err: apiErr}
	}

	var parsed chatResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("decode: %w", err)}
	}
	if parsed.Error != nil {
		return "", &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("API error: %s", parsed.Error.Message)}
	}
	if len(parsed.Choices) == 0 {
		return "", &TransportError{Status: resp.StatusCode, Err: fmt.Errorf("empty response")}
	}

	return parsed.Choices[0].Message.Content, nil
}

// isModelRejection detects "this model does not exist / is not available"
// responses, which are configuration problems rather than transient faults.
func isModelRejection(status int, body string) bool {
	if status != http.StatusNotFound && status != http.StatusForbidden && status != http.StatusBadRequest {
		return false
	}
	return strings.Contains(body, "model_not_found") || strings.Contains(body, "does not exist")
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
