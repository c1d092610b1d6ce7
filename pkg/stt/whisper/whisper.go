// Package whisper implements pkg/stt's Transcriber client for a
// whisper.cpp compatible server.
package whisper

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/litemindhq/litemind/pkg/stt"
)

const (
	// DefaultBaseURL is the default whisper server URL.
	DefaultBaseURL = "http://localhost:8580"

	// DefaultTimeout bounds a single transcription call.
	DefaultTimeout = 120 * time.Second
)

// Transcriber wraps a whisper server's inference API.
type Transcriber struct {
	baseURL    string
	httpClient *http.Client
}

// Config holds configuration for the whisper transcriber.
type Config struct {
	// BaseURL is the whisper server URL (e.g., "http://localhost:8580").
	// Defaults to DefaultBaseURL if empty.
	BaseURL string

	// Timeout bounds each transcription call. Defaults to
	// DefaultTimeout if zero.
	Timeout time.Duration
}

// inferenceResponse is the response from the whisper inference API.
type inferenceResponse struct {
	Text string `json:"text"`
}

// NewTranscriber creates a transcriber using a whisper server.
func NewTranscriber(cfg Config) (*Transcriber, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return &Transcriber{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Transcribe uploads the audio file as multipart form data and returns
// the recognized text.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	audio, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("%w: opening audio file: %v", stt.ErrTranscription, err)
	}
	defer audio.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("%w: building upload: %v", stt.ErrTranscription, err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("%w: reading audio file: %v", stt.ErrTranscription, err)
	}
	if err := writer.WriteField("response_format", "json"); err != nil {
		return "", fmt.Errorf("%w: building upload: %v", stt.ErrTranscription, err)
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("%w: building upload: %v", stt.ErrTranscription, err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", t.baseURL+"/inference", &body)
	if err != nil {
		return "", fmt.Errorf("%w: creating request: %v", stt.ErrTranscription, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: sending request: %v", stt.ErrTranscription, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("%w: whisper returned status %d: %s", stt.ErrTranscription, resp.StatusCode, string(respBody))
	}

	var inference inferenceResponse
	if err := json.NewDecoder(resp.Body).Decode(&inference); err != nil {
		return "", fmt.Errorf("%w: decoding response: %v", stt.ErrTranscription, err)
	}

	return inference.Text, nil
}

// Close releases resources held by the transcriber.
func (t *Transcriber) Close() error {
	// HTTP client doesn't require explicit cleanup
	return nil
}

// Ensure Transcriber implements stt.Transcriber
var _ stt.Transcriber = (*Transcriber)(nil)
