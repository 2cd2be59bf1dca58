// Package cli implements the meetmind command-line interface.
//
// Commands wire the core services to the SQLite store and the configured
// AI providers. Providers are only created (and pinged) by commands that
// actually need them, so metadata commands work offline.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/ai"
	"github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/storage/sqlite"
	"github.com/meetmind-labs/meetmind-cli/internal/config"
	"github.com/meetmind-labs/meetmind-cli/internal/core/services"
	"github.com/meetmind-labs/meetmind-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verbose   bool
	configDir string

	cfg   *config.Config
	store *sqlite.Store
)

var rootCmd = &cobra.Command{
	Use:   "meetmind",
	Short: "Ask questions about your recorded meetings",
	Long: `MeetMind indexes meeting transcripts and answers natural-language
questions about them, with citations back to the exact moments in the
recordings.

Upload transcripts (or transcribe audio), then ask:

  meetmind upload standup.txt
  meetmind ask "what did we decide about the rollout?"`,
	SilenceUsage:      true,
	PersistentPreRunE: initDependencies,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose pipeline logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.meetmind)")
}

// Execute runs the CLI.
func Execute() error {
	defer func() {
		if store != nil {
			store.Close()
		}
	}()
	return rootCmd.Execute()
}

// initDependencies loads configuration and opens the store. The version
// command stays dependency-free.
func initDependencies(cmd *cobra.Command, _ []string) error {
	logger.SetVerbose(verbose)

	if cmd.Name() == "version" {
		return nil
	}

	c, err := config.Load(configDir)
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	cfg = c

	s, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	store = s

	logger.Debug("Store: %s", store.Path())
	logger.Debug("Embedding provider: %s, generation provider: %s",
		cfg.Embedding.Provider, cfg.LLM.Provider)
	return nil
}

// buildIngestService wires an ingestion service against a live, validated
// embedding provider. The returned cleanup closes the provider.
func buildIngestService() (*services.IngestService, func(), error) {
	embedder, err := ai.CreateAndValidateEmbeddingService(cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}

	svc := services.NewIngestService(store.TranscriptStore(), store.VectorIndex(), embedder, cfg.RAG)
	return svc, func() { embedder.Close() }, nil
}

// buildAskService wires the question answering pipeline against validated
// embedding and generation providers.
func buildAskService() (*services.AskService, func(), error) {
	embedder, err := ai.CreateAndValidateEmbeddingService(cfg.Embedding)
	if err != nil {
		return nil, nil, err
	}

	llm, err := ai.CreateAndValidateLLMService(cfg.LLM)
	if err != nil {
		embedder.Close()
		return nil, nil, err
	}

	svc := services.NewAskService(store.VectorIndex(), embedder, llm, store.HistoryStore(), cfg.RAG)
	cleanup := func() {
		llm.Close()
		embedder.Close()
	}
	return svc, cleanup, nil
}
