package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent questions and answers",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 10, "maximum number of entries")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	entries, err := store.HistoryStore().ListHistory(cmd.Context(), historyLimit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}

	if len(entries) == 0 {
		cmd.Println("No questions asked yet.")
		return nil
	}

	for _, entry := range entries {
		cmd.Println(headingStyle.Render(fmt.Sprintf("Q: %s", entry.Question)))
		cmd.Println(citationStyle.Render("   " + entry.AskedAt.Local().Format("2006-01-02 15:04")))
		cmd.Printf("A: %s\n\n", entry.Answer)
	}
	return nil
}
