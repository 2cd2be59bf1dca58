package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/meetmind-labs/meetmind-cli/internal/core/domain"
)

var (
	askFrom    string
	askTo      string
	askSpeaker string
	askTopK    int
	askJSON    bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question about your meetings",
	Long: `Retrieves the transcript chunks most relevant to the question and has
the configured generation provider synthesise an answer, citing the
meetings it drew from.

Without --from/--to, only meetings from the configured lookback window
(default: last 7 days) are considered.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVar(&askFrom, "from", "", "earliest meeting date (YYYY-MM-DD)")
	askCmd.Flags().StringVar(&askTo, "to", "", "latest meeting date (YYYY-MM-DD)")
	askCmd.Flags().StringVar(&askSpeaker, "speaker", "", "only consider this speaker")
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of chunks to retrieve (default from config)")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output the answer as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := domain.Question{
		Text:    args[0],
		Speaker: askSpeaker,
		TopK:    askTopK,
	}

	var err error
	if question.From, err = parseDate(askFrom); err != nil {
		return err
	}
	if question.To, err = parseDate(askTo); err != nil {
		return err
	}
	// --to names a day; include the whole of it.
	if !question.To.IsZero() {
		question.To = question.To.Add(24*time.Hour - time.Nanosecond)
	}

	svc, cleanup, err := buildAskService()
	if err != nil {
		return err
	}
	defer cleanup()

	answer, err := svc.Ask(cmd.Context(), question)
	if err != nil {
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		data, err := json.MarshalIndent(answer, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal answer: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	printAnswer(cmd, answer)
	return nil
}

func printAnswer(cmd *cobra.Command, answer *domain.Answer) {
	cmd.Println()
	cmd.Println(answerStyle.Render(answer.Answer))
	cmd.Println()

	if len(answer.Sources) == 0 {
		return
	}

	cmd.Println(headingStyle.Render("Sources:"))
	for i, src := range answer.Sources {
		where := fmt.Sprintf("%s, %s-%s", src.Filename,
			formatClock(src.StartTime), formatClock(src.EndTime))
		if src.Speaker != "" {
			where += ", " + src.Speaker
		}
		cmd.Printf("  [%d] %s %s\n", i+1,
			citationStyle.Render(where),
			scoreStyle.Render(fmt.Sprintf("(%.2f)", src.Score)))
	}
	cmd.Println()
}

// parseDate parses an optional YYYY-MM-DD flag value.
func parseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse("2006-01-02", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q, expected YYYY-MM-DD", domain.ErrInvalidInput, value)
	}
	return t, nil
}

// formatClock renders seconds as m:ss or h:mm:ss.
func formatClock(seconds float64) string {
	total := int(seconds)
	h, m, s := total/3600, total/60%60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%d:%02d", m, s)
}
