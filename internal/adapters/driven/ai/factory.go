// Package ai provides factory functions for creating AI service adapters.
//
// The concrete embedding and generation providers are selected from
// configuration exactly once at startup and injected into the core services;
// no pipeline code ever inspects provider types at runtime.
package ai

import (
	"context"
	"fmt"
	"time"

	hfembed "github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/embedding/huggingface"
	ollamaembed "github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/embedding/openai"
	hfllm "github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/llm/huggingface"
	ollamallm "github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/llm/ollama"
	openaillm "github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/llm/openai"
	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
	"github.com/meetmind-labs/meetmind-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the embedding service selected by settings.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("embedding provider %q is not configured", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderHuggingFace:
		return hfembed.NewEmbeddingService(hfembed.Config{
			APIToken: settings.APIKey,
			BaseURL:  settings.BaseURL,
			Model:    settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateLLMService creates the generation service selected by settings.
func CreateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("generation provider %q is not configured", settings.Provider)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.LLMConfig{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		return openaillm.NewLLMService(openaillm.LLMConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})

	case domain.AIProviderHuggingFace:
		return hfllm.NewLLMService(hfllm.LLMConfig{
			APIToken: settings.APIKey,
			BaseURL:  settings.BaseURL,
			Model:    settings.Model,
		})

	default:
		return nil, fmt.Errorf("%w: generation provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateAndValidateEmbeddingService creates an embedding service and
// validates connectivity before returning it.
func CreateAndValidateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	svc, err := CreateEmbeddingService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("embedding service unreachable: %w", err)
	}

	return svc, nil
}

// CreateAndValidateLLMService creates a generation service and validates
// connectivity before returning it.
func CreateAndValidateLLMService(settings domain.LLMSettings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		svc.Close()
		return nil, fmt.Errorf("generation service unreachable: %w", err)
	}

	return svc, nil
}
