package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/meetmind-labs/meetmind-cli/internal/logger"
)

// watchSettleDelay is how long a file must stay quiet after the last write
// event before it is ingested. Editors and download tools write in bursts.
const watchSettleDelay = 500 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch [directory]",
	Short: "Watch a directory and ingest new transcripts automatically",
	Long: `Watches a directory and ingests every new or modified .txt transcript
as it appears. Meeting tools that drop transcripts into a folder are
indexed without further interaction. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("watch target %s is not a directory", dir)
	}

	svc, cleanup, err := buildIngestService()
	if err != nil {
		return err
	}
	defer cleanup()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	cmd.Printf("Watching %s for new transcripts (Ctrl-C to stop)\n", dir)

	// Per-file timers debounce write bursts into one ingestion.
	var mu sync.Mutex
	pending := make(map[string]*time.Timer)

	ingest := func(path string) {
		content, err := os.ReadFile(path)
		if err != nil {
			cmd.PrintErrln(warnStyle.Render(fmt.Sprintf("Skipping %s: %v", path, err)))
			return
		}

		transcript, indexed, err := svc.IngestText(cmd.Context(), filepath.Base(path), string(content))
		if err != nil {
			cmd.PrintErrln(warnStyle.Render(fmt.Sprintf("Failed to ingest %s: %v", path, err)))
			return
		}
		cmd.Printf("Ingested %s: transcript %d, %d chunks\n", transcript.Filename, transcript.ID, indexed)
	}

	for {
		select {
		case <-cmd.Context().Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".txt") {
				continue
			}
			logger.Debug("Watch event: %s %s", event.Op, event.Name)

			mu.Lock()
			if timer, exists := pending[event.Name]; exists {
				timer.Stop()
			}
			path := event.Name
			pending[path] = time.AfterFunc(watchSettleDelay, func() {
				mu.Lock()
				delete(pending, path)
				mu.Unlock()
				ingest(path)
			})
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			cmd.PrintErrln(warnStyle.Render(fmt.Sprintf("Watch error: %v", err)))
		}
	}
}
