package cmd

import (
	"io"
	"os"

	"github.com/msto63/actionvm/internal/tui/repl"
	"github.com/msto63/actionvm/pkg/core/version"
	"github.com/spf13/cobra"
)

var (
	replHistoryFile string
	replNoHistory   bool
	replLogFile     string
)

var replCmd = &cobra.Command{
	Use:   "repl",
	Short: "Start the interactive action REPL",
	Long: `Starts a terminal REPL on a fresh interpreter session. Each line is
a JSON action or a JSON list of actions. Type :help for commands.

Logs are discarded unless --log-file is given.`,
	RunE: runREPL,
}

func init() {
	replCmd.Flags().StringVar(&replHistoryFile, "history", repl.DefaultHistoryFile(), "input history file")
	replCmd.Flags().BoolVar(&replNoHistory, "no-history", false, "do not load or save input history")
	replCmd.Flags().StringVar(&replLogFile, "log-file", "", "write logs to this file")

	rootCmd.AddCommand(replCmd)
}

func runREPL(cmd *cobra.Command, args []string) error {
	// the TUI owns the terminal
	var logOutput io.Writer = io.Discard
	if replLogFile != "" {
		f, err := os.OpenFile(replLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return err
		}
		defer f.Close()
		logOutput = f
	}
	logger := setupLogging(appConfig, logOutput)

	host, cleanup, err := newHost(appConfig, logger, io.Discard)
	if err != nil {
		return err
	}
	defer cleanup()

	historyFile := replHistoryFile
	if replNoHistory {
		historyFile = ""
	}
	return repl.Run(host, repl.Config{
		HistoryFile: historyFile,
		Version:     version.Platform,
	})
}
