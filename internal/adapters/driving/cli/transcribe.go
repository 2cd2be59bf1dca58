package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/meetmind-labs/meetmind-cli/internal/adapters/driven/transcriber/whisper"
)

var transcribeLanguage string

var transcribeCmd = &cobra.Command{
	Use:   "transcribe [audio-file]...",
	Short: "Transcribe audio recordings and index them",
	Long: `Sends audio files to the configured transcription server, stores the
resulting timestamped segments, and indexes them for retrieval.

Supports mp3, wav, m4a, webm, ogg, and flac. The server must speak the
OpenAI /audio/transcriptions API (whisper.cpp server, faster-whisper, or
the OpenAI audio API).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTranscribe,
}

func init() {
	transcribeCmd.Flags().StringVarP(&transcribeLanguage, "language", "l", "", "spoken language hint (e.g. en, de)")
	rootCmd.AddCommand(transcribeCmd)
}

func runTranscribe(cmd *cobra.Command, args []string) error {
	t := whisper.New(whisper.Config{
		BaseURL: cfg.Whisper.BaseURL,
		APIKey:  cfg.Whisper.APIKey,
		Model:   cfg.Whisper.Model,
	})
	defer t.Close()

	svc, cleanup, err := buildIngestService()
	if err != nil {
		return err
	}
	defer cleanup()

	for _, path := range args {
		cmd.Printf("Transcribing %s...\n", path)

		segments, err := t.Transcribe(cmd.Context(), path, transcribeLanguage)
		if err != nil {
			return fmt.Errorf("transcribe %s: %w", path, err)
		}
		if len(segments) == 0 {
			cmd.Println(warnStyle.Render(fmt.Sprintf("No speech found in %s, skipping", path)))
			continue
		}

		transcript, indexed, err := svc.IngestSegments(cmd.Context(), filepath.Base(path), segments)
		if err != nil {
			return fmt.Errorf("ingest %s: %w", path, err)
		}

		cmd.Printf("Transcribed %s: transcript %d, %d segments, %d chunks indexed\n",
			transcript.Filename, transcript.ID, len(segments), indexed)
	}

	return nil
}
