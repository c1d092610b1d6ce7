// Package ollama implements pkg/llm's Generator client for Ollama's
// completion API.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/litemindhq/litemind/pkg/llm"
)

const (
	// DefaultModel is the default model used for generation.
	DefaultModel = "tinyllama"

	// DefaultBaseURL is the default Ollama API URL.
	DefaultBaseURL = "http://localhost:11434"

	// DefaultTimeout bounds a single generation call.
	DefaultTimeout = 60 * time.Second
)

// Generator wraps Ollama's completion API.
type Generator struct {
	baseURL    string
	model      string
	maxRetries int
	retryDelay time.Duration
	httpClient *http.Client
	logger     *zap.Logger
}

// GeneratorConfig holds configuration for the Ollama generator.
type GeneratorConfig struct {
	// BaseURL is the Ollama API URL (e.g., "http://localhost:11434").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model is the generation model to use (e.g., "tinyllama", "llama3").
	// Defaults to DefaultModel if empty.
	Model string

	// Timeout bounds each generation call. Defaults to DefaultTimeout
	// if zero.
	Timeout time.Duration

	// MaxRetries is how many additional attempts are made after a
	// transport failure or a 5xx response. Malformed responses and 4xx
	// statuses are never retried.
	MaxRetries int

	// RetryDelay is the pause between attempts. Defaults to 500ms if
	// zero while retries are enabled.
	RetryDelay time.Duration
}

// generateRequest is the request body for Ollama's completion API.
type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// generateResponse is the response from Ollama's completion API.
type generateResponse struct {
	Response string `json:"response"`
}

// NewGenerator creates a new generator using Ollama's completion API.
func NewGenerator(cfg GeneratorConfig, logger *zap.Logger) (*Generator, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	retryDelay := cfg.RetryDelay
	if retryDelay == 0 && cfg.MaxRetries > 0 {
		retryDelay = 500 * time.Millisecond
	}

	return &Generator{
		baseURL:    baseURL,
		model:      model,
		maxRetries: cfg.MaxRetries,
		retryDelay: retryDelay,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}, nil
}

// Generate sends the prompt to Ollama and returns the completed text.
// Transient failures are retried up to MaxRetries times.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			g.logger.Debug("retrying generation",
				zap.Int("attempt", attempt),
				zap.Error(lastErr),
			)
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("%w: %v", llm.ErrGeneration, ctx.Err())
			case <-time.After(g.retryDelay):
			}
		}

		response, retryable, err := g.generateOnce(ctx, prompt)
		if err == nil {
			return response, nil
		}

		lastErr = err
		if !retryable {
			return "", err
		}
	}

	return "", lastErr
}

// generateOnce performs a single completion call. The second return
// value reports whether the failure is worth retrying.
func (g *Generator) generateOnce(ctx context.Context, prompt string) (string, bool, error) {
	reqBody := generateRequest{
		Model:  g.model,
		Prompt: prompt,
		Stream: false,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", false, fmt.Errorf("%w: marshaling request: %v", llm.ErrGeneration, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", g.baseURL+"/api/generate", bytes.NewReader(jsonBody))
	if err != nil {
		return "", false, fmt.Errorf("%w: creating request: %v", llm.ErrGeneration, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", true, fmt.Errorf("%w: sending request: %v", llm.ErrGeneration, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		retryable := resp.StatusCode >= http.StatusInternalServerError
		return "", retryable, fmt.Errorf("%w: ollama returned status %d: %s", llm.ErrGeneration, resp.StatusCode, string(body))
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return "", false, fmt.Errorf("%w: decoding response: %v", llm.ErrGeneration, err)
	}

	return genResp.Response, false, nil
}

// Close releases resources held by the generator.
func (g *Generator) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// Ensure Generator implements llm.Generator
var _ llm.Generator = (*Generator)(nil)
