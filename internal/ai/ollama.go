package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// OllamaClient is a minimal HTTP client for a local Ollama runtime using
// the non-streaming /api/generate endpoint.
//
// Exactly one attempt per call: the surrounding pipeline degrades on
// failure instead of retrying, so a slow runtime can never stall a request
// past the HTTP timeout.
type OllamaClient struct {
	httpClient *http.Client
	host       string
	model      string
}

// NewOllamaClient creates a client targeting the given host
// (e.g., http://127.0.0.1:11434) and model.
func NewOllamaClient(host, model string, httpTimeout time.Duration) *OllamaClient {
	if host == "" {
		host = "http://127.0.0.1:11434"
	}
	if model == "" {
		model = "llama3"
	}
	if httpTimeout <= 0 {
		httpTimeout = 45 * time.Second
	}
	return &OllamaClient{
		httpClient: &http.Client{Timeout: httpTimeout},
		host:       host,
		model:      model,
	}
}

// Structures aligned with Ollama /api/generate (non-streaming).
type ollamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Format  string         `json:"format,omitempty"`
	Options map[string]any `json:"options,omitempty"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete sends one prompt to Ollama and returns the raw response text.
func (c *OllamaClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if req.Prompt == "" {
		return nil, errors.New("prompt cannot be empty")
	}

	oreq := ollamaGenerateRequest{
		Model:   c.model,
		Prompt:  req.Prompt,
		Stream:  false,
		Options: map[string]any{},
	}
	if req.JSONFormat {
		oreq.Format = "json"
	}
	if req.Temperature > 0 {
		oreq.Options["temperature"] = req.Temperature
	}

	payload, err := json.Marshal(oreq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	endpoint := c.host + "/api/generate"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &UnreachableError{Host: c.host, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 8<<10))
		var raw map[string]any
		_ = json.Unmarshal(body, &raw)
		apiErr := &APIError{StatusCode: resp.StatusCode, Raw: raw}
		if msg, ok := raw["error"].(string); ok {
			apiErr.Message = msg
		}
		if resp.StatusCode == http.StatusNotFound {
			// Likely missing model
			return nil, &ModelNotFoundError{APIError: apiErr}
		}
		if resp.StatusCode >= 500 {
			return nil, &ServerError{APIError: apiErr}
		}
		if resp.StatusCode == http.StatusBadRequest {
			return nil, &BadRequestError{APIError: apiErr}
		}
		return nil, apiErr
	}

	var oresp ollamaGenerateResponse
	if err := json.NewDecoder(resp.Body).Decode(&oresp); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &CompletionResponse{
		Text:      oresp.Response,
		RequestID: "ollama_" + uuid.NewString(),
	}, nil
}
