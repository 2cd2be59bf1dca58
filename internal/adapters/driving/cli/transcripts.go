package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	transcriptsLimit  int
	transcriptsOffset int
)

var transcriptsCmd = &cobra.Command{
	Use:   "transcripts",
	Short: "Manage stored transcripts",
}

var transcriptsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored transcripts, newest first",
	RunE:  runTranscriptsList,
}

var transcriptsShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Print a transcript with timestamps and speakers",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscriptsShow,
}

var transcriptsDeleteCmd = &cobra.Command{
	Use:   "delete [id]",
	Short: "Delete a transcript and its index entries",
	Args:  cobra.ExactArgs(1),
	RunE:  runTranscriptsDelete,
}

var transcriptsReindexCmd = &cobra.Command{
	Use:   "reindex [id]",
	Short: "Re-chunk and re-embed a transcript",
	Long: `Rebuilds the index entries of a transcript, e.g. after changing the
chunking configuration or switching embedding models. Chunk identifiers
are stable, so reindexing overwrites in place.`,
	Args: cobra.ExactArgs(1),
	RunE: runTranscriptsReindex,
}

func init() {
	transcriptsListCmd.Flags().IntVarP(&transcriptsLimit, "limit", "n", 20, "maximum number of transcripts")
	transcriptsListCmd.Flags().IntVar(&transcriptsOffset, "offset", 0, "number of transcripts to skip")
	transcriptsCmd.AddCommand(transcriptsListCmd)
	transcriptsCmd.AddCommand(transcriptsShowCmd)
	transcriptsCmd.AddCommand(transcriptsDeleteCmd)
	transcriptsCmd.AddCommand(transcriptsReindexCmd)
	rootCmd.AddCommand(transcriptsCmd)
}

func runTranscriptsList(cmd *cobra.Command, _ []string) error {
	transcripts, err := store.TranscriptStore().ListTranscripts(cmd.Context(), transcriptsLimit, transcriptsOffset)
	if err != nil {
		return fmt.Errorf("list transcripts: %w", err)
	}

	if len(transcripts) == 0 {
		cmd.Println("No transcripts stored. Use 'meetmind upload' to add one.")
		return nil
	}

	for _, t := range transcripts {
		cmd.Printf("  %4d  %s  %s\n", t.ID, t.UploadedAt.Local().Format("2006-01-02 15:04"), t.Filename)
	}
	return nil
}

func runTranscriptsShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	transcript, err := store.TranscriptStore().GetTranscript(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("get transcript: %w", err)
	}

	cmd.Println(headingStyle.Render(fmt.Sprintf("%s (transcript %d, uploaded %s)",
		transcript.Filename, transcript.ID, transcript.UploadedAt.Local().Format("2006-01-02 15:04"))))
	cmd.Println()

	for _, seg := range transcript.Segments {
		prefix := fmt.Sprintf("[%s]", formatClock(seg.StartTime))
		if seg.Speaker != "" {
			prefix += " " + seg.Speaker + ":"
		}
		cmd.Printf("%s %s\n", citationStyle.Render(prefix), seg.Text)
	}
	return nil
}

func runTranscriptsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	if err := store.TranscriptStore().DeleteTranscript(cmd.Context(), id); err != nil {
		return fmt.Errorf("delete transcript: %w", err)
	}
	if err := store.VectorIndex().DeleteByTranscript(cmd.Context(), id); err != nil {
		return fmt.Errorf("delete index entries: %w", err)
	}

	cmd.Printf("Deleted transcript %d\n", id)
	return nil
}

func runTranscriptsReindex(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	svc, cleanup, err := buildIngestService()
	if err != nil {
		return err
	}
	defer cleanup()

	indexed, err := svc.Reindex(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("reindex transcript: %w", err)
	}

	cmd.Printf("Reindexed transcript %d: %d chunks\n", id, indexed)
	return nil
}

func parseID(arg string) (int64, error) {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid transcript id %q", arg)
	}
	return id, nil
}
