package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload [file]...",
	Short: "Upload and index transcript files",
	Long: `Reads plain-text transcript files, stores them, and indexes their
chunks for retrieval.

Lines of the form "SPEAKER: text" are treated as individual utterances;
any other layout is ingested as a single block of text.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	svc, cleanup, err := buildIngestService()
	if err != nil {
		return err
	}
	defer cleanup()

	for _, path := range args {
		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		transcript, indexed, err := svc.IngestText(cmd.Context(), filepath.Base(path), string(content))
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		cmd.Printf("Uploaded %s: transcript %d, %d segments, %d chunks indexed\n",
			transcript.Filename, transcript.ID, len(transcript.Segments), indexed)
	}

	return nil
}
