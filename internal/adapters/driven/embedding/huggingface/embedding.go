// Package huggingface provides an embedding service adapter using the
// Hugging Face inference API (feature-extraction pipeline).
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api-inference.huggingface.co"
	DefaultModel      = "BAAI/bge-m3"
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 1024 // bge-m3 default
)

// Config holds configuration for the Hugging Face embedding service.
type Config struct {
	// APIToken is the Hugging Face API token (required).
	APIToken string

	// BaseURL is the inference API base URL
	// (default: https://api-inference.huggingface.co).
	BaseURL string

	// Model is the embedding model ID (default: BAAI/bge-m3).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions is the embedding vector size (model-dependent).
	Dimensions int
}

// EmbeddingService generates embeddings using the Hugging Face inference API.
type EmbeddingService struct {
	client     *http.Client
	baseURL    string
	apiToken   string
	model      string
	dimensions int
}

// featureRequest is the feature-extraction pipeline request format.
type featureRequest struct {
	Inputs  []string       `json:"inputs"`
	Options featureOptions `json:"options"`
}

// featureOptions control model loading behaviour on the inference API.
type featureOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// NewEmbeddingService creates a new Hugging Face embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("huggingface: API token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Dimensions == 0 {
		cfg.Dimensions = DefaultDimensions
	}

	return &EmbeddingService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:    cfg.BaseURL,
		apiToken:   cfg.APIToken,
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
	}, nil
}

// Embed generates a vector embedding for the given text.
// Empty text is embedded as-is.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("huggingface: no embedding returned")
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in one API call.
// The pipeline returns one vector per input, in input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	reqBody := featureRequest{
		Inputs:  texts,
		Options: featureOptions{WaitForModel: true},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := s.baseURL + "/pipeline/feature-extraction/" + s.model
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: huggingface: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusServiceUnavailable {
			return nil, fmt.Errorf("%w: huggingface (status %d): %s", domain.ErrProviderUnavailable, resp.StatusCode, string(body))
		}
		return nil, fmt.Errorf("huggingface error (status %d): %s", resp.StatusCode, string(body))
	}

	var vectors [][]float64
	if err := json.Unmarshal(body, &vectors); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("huggingface: expected %d embeddings, got %d", len(texts), len(vectors))
	}

	embeddings := make([][]float32, len(vectors))
	for i, v := range vectors {
		embedding := make([]float32, len(v))
		for j, f := range v {
			embedding[j] = float32(f)
		}
		embeddings[i] = embedding
	}

	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the token and model by requesting the model status endpoint.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/status/"+s.model, http.NoBody)
	if err != nil {
		return fmt.Errorf("huggingface: failed to create ping request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.apiToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: huggingface: ping failed: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("huggingface: API returned status %d (failed to read body: %w)", resp.StatusCode, err)
		}
		return fmt.Errorf("huggingface: API returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
