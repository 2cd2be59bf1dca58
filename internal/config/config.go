// Package config loads MeetMind settings from a TOML file plus environment
// overrides. Precedence, lowest to highest: built-in defaults, the config
// file, then MEETMIND_* environment variables (a local .env file is read
// first so keys never need to live in the shell profile).
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

// Config is the full resolved configuration, immutable after Load.
type Config struct {
	// DataDir holds the SQLite database. Empty means ~/.meetmind/data.
	DataDir string

	Embedding domain.EmbeddingSettings
	LLM       domain.LLMSettings
	RAG       domain.RAGSettings

	// Whisper configures the optional audio transcription backend.
	Whisper WhisperConfig
}

// WhisperConfig points at an OpenAI-compatible transcription server.
type WhisperConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// fileConfig mirrors the TOML layout of ~/.meetmind/config.toml.
type fileConfig struct {
	DataDir string `toml:"data_dir"`

	Embedding struct {
		Provider string `toml:"provider"`
		Model    string `toml:"model"`
		BaseURL  string `toml:"base_url"`
		APIKey   string `toml:"api_key"`
	} `toml:"embedding"`

	LLM struct {
		Provider string `toml:"provider"`
		Model    string `toml:"model"`
		BaseURL  string `toml:"base_url"`
		APIKey   string `toml:"api_key"`
	} `toml:"llm"`

	RAG struct {
		TopK           int     `toml:"top_k"`
		ChunkSize      int     `toml:"chunk_size"`
		ChunkOverlap   int     `toml:"chunk_overlap"`
		LookbackDays   int     `toml:"lookback_days"`
		ContextBudget  int     `toml:"context_budget"`
		MaxTokens      int     `toml:"max_tokens"`
		Temperature    float64 `toml:"temperature"`
		PromptTemplate string  `toml:"prompt_template"`
	} `toml:"rag"`

	Whisper struct {
		BaseURL string `toml:"base_url"`
		APIKey  string `toml:"api_key"`
		Model   string `toml:"model"`
	} `toml:"whisper"`
}

// DefaultConfigDir returns ~/.meetmind.
func DefaultConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".meetmind"), nil
}

// Load resolves the configuration. If configDir is empty the default
// directory is used; a missing config file is not an error.
func Load(configDir string) (*Config, error) {
	// Best effort: a .env in the working directory supplies API keys
	// during development. Absence is normal.
	_ = godotenv.Load()

	if configDir == "" {
		dir, err := DefaultConfigDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	cfg := defaults()

	var fc fileConfig
	data, err := os.ReadFile(filepath.Join(configDir, "config.toml"))
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, &fc); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
		applyFile(cfg, fc)
	case os.IsNotExist(err):
		// No config file yet, defaults plus env apply.
	default:
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	applyEnv(cfg)

	if err := cfg.RAG.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retrieval settings: %w", err)
	}
	if !cfg.Embedding.Provider.IsValid() {
		return nil, fmt.Errorf("%w: unknown embedding provider %q", domain.ErrInvalidInput, cfg.Embedding.Provider)
	}
	if !cfg.LLM.Provider.IsValid() {
		return nil, fmt.Errorf("%w: unknown llm provider %q", domain.ErrInvalidInput, cfg.LLM.Provider)
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Embedding: domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama,
		},
		LLM: domain.LLMSettings{
			Provider: domain.AIProviderOllama,
		},
		RAG: domain.RAGSettings{
			TopK:           domain.DefaultTopK,
			ChunkSize:      domain.DefaultChunkSize,
			ChunkOverlap:   domain.DefaultChunkOverlap,
			LookbackDays:   domain.DefaultLookbackDays,
			ContextBudget:  domain.DefaultContextBudget,
			MaxTokens:      domain.DefaultMaxTokens,
			Temperature:    0,
			PromptTemplate: domain.DefaultPromptTemplate,
		},
	}
}

func applyFile(cfg *Config, fc fileConfig) {
	setString(&cfg.DataDir, fc.DataDir)

	if fc.Embedding.Provider != "" {
		cfg.Embedding.Provider = domain.AIProvider(fc.Embedding.Provider)
	}
	setString(&cfg.Embedding.Model, fc.Embedding.Model)
	setString(&cfg.Embedding.BaseURL, fc.Embedding.BaseURL)
	setString(&cfg.Embedding.APIKey, fc.Embedding.APIKey)

	if fc.LLM.Provider != "" {
		cfg.LLM.Provider = domain.AIProvider(fc.LLM.Provider)
	}
	setString(&cfg.LLM.Model, fc.LLM.Model)
	setString(&cfg.LLM.BaseURL, fc.LLM.BaseURL)
	setString(&cfg.LLM.APIKey, fc.LLM.APIKey)

	setInt(&cfg.RAG.TopK, fc.RAG.TopK)
	setInt(&cfg.RAG.ChunkSize, fc.RAG.ChunkSize)
	setInt(&cfg.RAG.ChunkOverlap, fc.RAG.ChunkOverlap)
	setInt(&cfg.RAG.LookbackDays, fc.RAG.LookbackDays)
	setInt(&cfg.RAG.ContextBudget, fc.RAG.ContextBudget)
	setInt(&cfg.RAG.MaxTokens, fc.RAG.MaxTokens)
	if fc.RAG.Temperature != 0 {
		cfg.RAG.Temperature = fc.RAG.Temperature
	}
	setString(&cfg.RAG.PromptTemplate, fc.RAG.PromptTemplate)

	setString(&cfg.Whisper.BaseURL, fc.Whisper.BaseURL)
	setString(&cfg.Whisper.APIKey, fc.Whisper.APIKey)
	setString(&cfg.Whisper.Model, fc.Whisper.Model)
}

// applyEnv overlays MEETMIND_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("MEETMIND_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}

	if v := os.Getenv("MEETMIND_EMBEDDING_PROVIDER"); v != "" {
		cfg.Embedding.Provider = domain.AIProvider(v)
	}
	envString(&cfg.Embedding.Model, "MEETMIND_EMBEDDING_MODEL")
	envString(&cfg.Embedding.BaseURL, "MEETMIND_EMBEDDING_BASE_URL")
	envString(&cfg.Embedding.APIKey, "MEETMIND_EMBEDDING_API_KEY")

	if v := os.Getenv("MEETMIND_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = domain.AIProvider(v)
	}
	envString(&cfg.LLM.Model, "MEETMIND_LLM_MODEL")
	envString(&cfg.LLM.BaseURL, "MEETMIND_LLM_BASE_URL")
	envString(&cfg.LLM.APIKey, "MEETMIND_LLM_API_KEY")

	// Provider keys fall back to the conventional variable names so an
	// existing OPENAI_API_KEY just works.
	if cfg.Embedding.Provider == domain.AIProviderOpenAI && cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.LLM.Provider == domain.AIProviderOpenAI && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Embedding.Provider == domain.AIProviderHuggingFace && cfg.Embedding.APIKey == "" {
		cfg.Embedding.APIKey = os.Getenv("HF_TOKEN")
	}
	if cfg.LLM.Provider == domain.AIProviderHuggingFace && cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("HF_TOKEN")
	}

	envInt(&cfg.RAG.TopK, "MEETMIND_TOP_K")
	envInt(&cfg.RAG.ChunkSize, "MEETMIND_CHUNK_SIZE")
	envInt(&cfg.RAG.ChunkOverlap, "MEETMIND_CHUNK_OVERLAP")
	envInt(&cfg.RAG.LookbackDays, "MEETMIND_LOOKBACK_DAYS")
	envInt(&cfg.RAG.ContextBudget, "MEETMIND_CONTEXT_BUDGET")
	envInt(&cfg.RAG.MaxTokens, "MEETMIND_MAX_TOKENS")

	envString(&cfg.Whisper.BaseURL, "MEETMIND_WHISPER_BASE_URL")
	envString(&cfg.Whisper.APIKey, "MEETMIND_WHISPER_API_KEY")
	envString(&cfg.Whisper.Model, "MEETMIND_WHISPER_MODEL")
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func envString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	if n, err := strconv.Atoi(v); err == nil {
		*dst = n
	}
}
