// Package huggingface provides a generation service adapter using the
// Hugging Face inference API (text-generation pipeline).
package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api-inference.huggingface.co"
	DefaultLLMModel   = "mistralai/Mistral-7B-Instruct-v0.3"
	DefaultLLMTimeout = 120 * time.Second
)

// LLMConfig holds configuration for the Hugging Face generation service.
type LLMConfig struct {
	// APIToken is the Hugging Face API token (required).
	APIToken string

	// BaseURL is the inference API base URL
	// (default: https://api-inference.huggingface.co).
	BaseURL string

	// Model is the generation model ID
	// (default: mistralai/Mistral-7B-Instruct-v0.3).
	Model string

	// Timeout is the request timeout (default: 120s).
	Timeout time.Duration
}

// LLMService provides text generation using the Hugging Face inference API.
type LLMService struct {
	client   *http.Client
	baseURL  string
	apiToken string
	model    string
}

// generateRequest is the text-generation pipeline request format.
type generateRequest struct {
	Inputs     string             `json:"inputs"`
	Parameters generateParameters `json:"parameters"`
	Options    generateOptions    `json:"options"`
}

// generateParameters holds generation parameters.
type generateParameters struct {
	MaxNewTokens   int      `json:"max_new_tokens,omitempty"`
	Temperature    float64  `json:"temperature,omitempty"`
	Stop           []string `json:"stop,omitempty"`
	ReturnFullText bool     `json:"return_full_text"`
}

// generateOptions control model loading behaviour on the inference API.
type generateOptions struct {
	WaitForModel bool `json:"wait_for_model"`
}

// generateResponse is one element of the text-generation response array.
type generateResponse struct {
	GeneratedText string `json:"generated_text"`
}

// apiError is the inference API error format.
type apiError struct {
	Error string `json:"error"`
}

// NewLLMService creates a new Hugging Face generation service.
func NewLLMService(cfg LLMConfig) (*LLMService, error) {
	if cfg.APIToken == "" {
		return nil, fmt.Errorf("huggingface: API token is required")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultLLMModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultLLMTimeout
	}

	return &LLMService{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:  cfg.BaseURL,
		apiToken: cfg.APIToken,
		model:    cfg.Model,
	}, nil
}

// Generate produces a text completion from a prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	reqBody := generateRequest{
		Inputs: prompt,
		Parameters: generateParameters{
			MaxNewTokens:   opts.MaxTokens,
			Temperature:    opts.Temperature,
			Stop:           opts.StopWords,
			ReturnFullText: false,
		},
		Options: generateOptions{WaitForModel: true},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		s.baseURL+"/models/"+s.model,
		bytes.NewReader(jsonBody),
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.apiToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: huggingface: %w", domain.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
			if strings.Contains(apiErr.Error, "tokens") && strings.Contains(apiErr.Error, "exceed") {
				return "", fmt.Errorf("%w: huggingface: %s", domain.ErrPromptTooLarge, apiErr.Error)
			}
		}
		if resp.StatusCode >= http.StatusInternalServerError || resp.StatusCode == http.StatusServiceUnavailable {
			return "", fmt.Errorf("%w: huggingface (status %d): %s", domain.ErrProviderUnavailable, resp.StatusCode, string(body))
		}
		return "", fmt.Errorf("huggingface error (status %d): %s", resp.StatusCode, string(body))
	}

	var genResp []generateResponse
	if err := json.Unmarshal(body, &genResp); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}

	if len(genResp) == 0 {
		return "", fmt.Errorf("huggingface: no generation returned")
	}

	return genResp[0].GeneratedText, nil
}

// ModelName returns the name of the generation model being used.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping validates the token and model by requesting the model status endpoint.
func (s *LLMService) Ping(ctx context.Context) error {
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
func (s *LLMService) Close() error {
	// HTTP client doesn't need explicit cleanup
	return nil
}
