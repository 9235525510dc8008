package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/msto63/actionvm/internal/history"
	"github.com/msto63/actionvm/internal/tui/journalview"
	"github.com/msto63/actionvm/pkg/core/version"
	"github.com/spf13/cobra"
)

var (
	historyLimit   int
	historySession string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the batch journal",
	Long: `Reads the batch journal written when [history] is enabled in the
configuration.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent batches",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(func(ctx context.Context, j history.Journal) error {
			entries, err := j.Recent(ctx, historySession, historyLimit)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				fmt.Println("No batches recorded.")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "BATCH\tSESSION\tWHEN\tACTIONS\tSTATUS")
			for _, e := range entries {
				status := "ok"
				if e.Failed() {
					status = e.ErrorCode
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\t%s\n",
					e.BatchID, shortID(e.SessionID), e.CreatedAt.Local().Format(time.DateTime),
					e.Executed, e.Total, status)
			}
			return w.Flush()
		})
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <batch-id>",
	Short: "Show a recorded batch",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(func(ctx context.Context, j history.Journal) error {
			e, err := j.Get(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("Batch:    %s\n", e.BatchID)
			fmt.Printf("Session:  %s\n", e.SessionID)
			fmt.Printf("When:     %s\n", e.CreatedAt.Local().Format(time.DateTime))
			fmt.Printf("Duration: %s\n", e.Duration)
			fmt.Printf("Executed: %d of %d\n", e.Executed, e.Total)
			if e.Failed() {
				fmt.Printf("Error:    [%s] %s\n", e.ErrorCode, e.ErrorMessage)
			}
			fmt.Printf("\nActions:\n  %s\n", e.Actions)
			if len(e.Output) > 0 {
				fmt.Printf("\nOutput:\n  %s\n", strings.Join(e.Output, "\n  "))
			}
			return nil
		})
	},
}

var historyBrowseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Watch the journal in a terminal view",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(func(ctx context.Context, j history.Journal) error {
			cfg := journalview.DefaultConfig(j)
			cfg.Session = historySession
			cfg.Version = version.Platform
			return journalview.Run(cfg)
		})
	},
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journal counters",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJournal(func(ctx context.Context, j history.Journal) error {
			stats, err := j.Statistics(ctx)
			if err != nil {
				return err
			}
			for _, key := range []string{"batches", "sessions", "actions", "failures"} {
				fmt.Printf("%-9s %v\n", key+":", stats[key])
			}
			return nil
		})
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of batches")
	historyListCmd.Flags().StringVar(&historySession, "session", "", "only batches of this session")
	historyBrowseCmd.Flags().StringVar(&historySession, "session", "", "only batches of this session")

	historyCmd.AddCommand(historyListCmd, historyShowCmd, historyBrowseCmd, historyStatsCmd)
	rootCmd.AddCommand(historyCmd)
}

// withJournal opens the configured journal for the duration of fn. The
// journal is read even when recording is disabled.
func withJournal(fn func(ctx context.Context, j history.Journal) error) error {
	journal, err := history.Open(history.Config{Path: appConfig.History.Path})
	if err != nil {
		return err
	}
	defer journal.Close()
	return fn(context.Background(), journal)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
