package cmd

import (
	"fmt"
	"os"

	mdwlog "github.com/msto63/actionvm/foundation/core/log"
	"github.com/msto63/actionvm/pkg/core/config"
	"github.com/spf13/cobra"
)

var (
	cfgFile  string
	seedFile string
	strict   bool
	verbose  bool

	appConfig *config.Config
	appLogger *mdwlog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "actionvm",
	Short: "actionvm - embeddable action interpreter",
	Long: `actionvm executes structured actions (ASSIGN, CALL, PRINT) against a
hierarchical data store.

Scripts are JSON or YAML lists of actions. The same interpreter can be
driven from the command line, over gRPC, over a WebSocket or from an
interactive REPL.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		appConfig = cfg
		appLogger = setupLogging(cfg, nil)
		return nil
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $ACTIONVM_CONFIG or ./configs/actionvm.toml)")
	rootCmd.PersistentFlags().StringVar(&seedFile, "seed", "", "TOML or YAML file with initial bindings")
	rootCmd.PersistentFlags().BoolVar(&strict, "strict", false, "fail on unresolved identifiers instead of skipping")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

func printError(msg string, err error) {
	fmt.Fprintf(os.Stderr, "Error: %s: %v\n", msg, err)
}
