package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/meetmind-labs/meetmind-cli/internal/core/services"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show corpus statistics",
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, _ []string) error {
	svc := services.NewStatsService(store.TranscriptStore(), store.VectorIndex())

	stats, err := svc.Stats(cmd.Context())
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	cmd.Println(headingStyle.Render("Corpus"))
	cmd.Printf("  Transcripts:    %d\n", stats.TotalTranscripts)
	cmd.Printf("  Segments:       %d\n", stats.TotalSegments)
	cmd.Printf("  Indexed chunks: %d\n", stats.IndexedChunks)
	if !stats.EarliestUpload.IsZero() {
		cmd.Printf("  Uploads:        %s to %s\n",
			stats.EarliestUpload.Local().Format("2006-01-02"),
			stats.LatestUpload.Local().Format("2006-01-02"))
	}
	return nil
}
