// Package whisper provides a transcription adapter for OpenAI-compatible
// speech-to-text servers (whisper.cpp server, faster-whisper-server, or the
// OpenAI audio API itself).
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
	"strings"
	"time"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
)

// Ensure Transcriber implements the interface.
var _ driven.Transcriber = (*Transcriber)(nil)

// Default configuration values.
const (
	DefaultBaseURL = "http://localhost:8000/v1"
	DefaultModel   = "whisper-1"
	DefaultTimeout = 10 * time.Minute
)

// supportedExtensions lists the audio formats accepted for transcription.
var supportedExtensions = map[string]bool{
	".mp3": true, ".wav": true, ".m4a": true,
	".webm": true, ".ogg": true, ".flac": true,
}

// Config holds configuration for the whisper transcriber.
type Config struct {
	// BaseURL is the API base URL (default: http://localhost:8000/v1).
	BaseURL string

	// APIKey is the bearer token, if the server requires one.
	APIKey string

	// Model is the transcription model (default: whisper-1).
	Model string

	// Timeout is the request timeout (default: 10m; transcription of a
	// long recording is slow).
	Timeout time.Duration
}

// Transcriber converts audio files to timestamped segments via an
// OpenAI-compatible /audio/transcriptions endpoint.
type Transcriber struct {
	client  *http.Client
	baseURL string
	apiKey  string
	model   string
}

// transcriptionResponse is the verbose_json response format.
type transcriptionResponse struct {
	Text     string `json:"text"`
	Segments []struct {
		Start   float64 `json:"start"`
		End     float64 `json:"end"`
		Text    string  `json:"text"`
		Speaker string  `json:"speaker,omitempty"`
	} `json:"segments"`
}

// New creates a new whisper transcriber.
func New(cfg Config) *Transcriber {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Transcriber{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		model:   cfg.Model,
	}
}

// Transcribe uploads the audio file and returns its segments in order.
// Empty segments are dropped; positions are assigned sequentially.
func (t *Transcriber) Transcribe(ctx context.Context, path, language string) ([]domain.Segment, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedExtensions[ext] {
		return nil, fmt.Errorf("%w: audio format %q", domain.ErrUnsupportedType, ext)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open audio file: %w", err)
	}
	defer file.Close()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, fmt.Errorf("copy audio file: %w", err)
	}

	fields := map[string]string{
		"model":           t.model,
		"response_format": "verbose_json",
	}
	if language != "" {
		fields["language"] = language
	}
	for name, value := range fields {
		if err := writer.WriteField(name, value); err != nil {
			return nil, fmt.Errorf("write form field %s: %w", name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		t.baseURL+"/audio/transcriptions",
		&buf,
	)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: whisper: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError {
			return nil, fmt.Errorf("%w: whisper (status %d): %s", domain.ErrProviderUnavailable, resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("whisper error (status %d): %s", resp.StatusCode, string(body))
	}

	var transcription transcriptionResponse
	if err := json.Unmarshal(body, &transcription); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	segments := make([]domain.Segment, 0, len(transcription.Segments))
	for _, s := range transcription.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		segments = append(segments, domain.Segment{
			Position:  len(segments),
			Text:      text,
			StartTime: s.Start,
			EndTime:   s.End,
			Speaker:   s.Speaker,
		})
	}

	return segments, nil
}

// Ping validates the server is reachable by listing models.
func (t *Transcriber) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.baseURL+"/models", http.NoBody)
	if err != nil {
		return fmt.Errorf("whisper: failed to create ping request: %w", err)
	}
	if t.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+t.apiKey)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: whisper: ping failed: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("whisper: API returned status %d", resp.StatusCode)
	}
	return nil
}

// Close releases resources.
func (t *Transcriber) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
