package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	mdwlog "github.com/msto63/actionvm/foundation/core/log"
	"github.com/msto63/actionvm/internal/action"
	"github.com/msto63/actionvm/internal/server/rpc"
	"github.com/msto63/actionvm/internal/session"
	"github.com/msto63/actionvm/internal/watch"
	coregrpc "github.com/msto63/actionvm/pkg/core/grpc"
	"github.com/spf13/cobra"
)

var (
	runFormat  string
	runWatch   bool
	runRemote  string
	runTimeout time.Duration
)

var runCmd = &cobra.Command{
	Use:   "run <script>...",
	Short: "Run action scripts",
	Long: `Runs one or more scripts in order against a single data store.
Use "-" to read a script from stdin. The format is taken from the file
extension unless --format is given.

Examples:
  actionvm run demo.json
  actionvm run --seed classes.toml setup.yaml main.yaml
  cat demo.json | actionvm run -
  actionvm run --watch demo.yaml
  actionvm run --remote localhost:9310 demo.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScripts,
}

func init() {
	runCmd.Flags().StringVarP(&runFormat, "format", "f", "", "script format: json or yaml")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "re-run the script in a fresh store whenever it changes")
	runCmd.Flags().StringVar(&runRemote, "remote", "", "run on a gRPC server at this address")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", 0, "abort a batch after this duration")

	rootCmd.AddCommand(runCmd)
}

func runScripts(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if runWatch {
		if len(args) != 1 || args[0] == "-" {
			return fmt.Errorf("--watch needs exactly one script file")
		}
		return watchScript(ctx, args[0])
	}

	if runRemote != "" {
		return runRemoteScripts(ctx, args)
	}

	host, cleanup, err := newHost(appConfig, appLogger, os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	for _, path := range args {
		if err := runScript(ctx, host, path); err != nil {
			return err
		}
	}
	return nil
}

// runScript decodes path and streams its output to stdout
func runScript(ctx context.Context, host *session.Host, path string) error {
	actions, err := readScript(path)
	if err != nil {
		return err
	}

	if runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, runTimeout)
		defer cancel()
	}

	result := host.ExecuteTo(ctx, actions, os.Stdout)
	appLogger.Debug("Script finished", mdwlog.Fields{
		"script":   path,
		"batch_id": result.BatchID,
		"executed": result.Executed,
		"duration": result.Duration.String(),
	})
	return result.Err
}

func watchScript(ctx context.Context, path string) error {
	rerun := func(path string) {
		host, cleanup, err := newHost(appConfig, appLogger, os.Stdout)
		if err != nil {
			printError("create host", err)
			return
		}
		defer cleanup()

		fmt.Fprintf(os.Stderr, "--- %s (%s)\n", path, time.Now().Format("15:04:05"))
		if err := runScript(ctx, host, path); err != nil {
			printError("run "+path, err)
		}
	}

	rerun(path)
	err := watch.New(path).Run(ctx, rerun)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

func runRemoteScripts(ctx context.Context, args []string) error {
	conn, err := coregrpc.DialSimple(runRemote)
	if err != nil {
		return err
	}
	defer conn.Close()

	client := rpc.NewClient(conn)
	for _, path := range args {
		actions, err := readScript(path)
		if err != nil {
			return err
		}
		reply, err := client.ExecuteStream(ctx, actions, func(line string) {
			fmt.Println(line)
		})
		if err != nil {
			return err
		}
		if err := reply.Err(); err != nil {
			return err
		}
	}
	return nil
}

func readScript(path string) ([]action.Action, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	format := action.FormatFromPath(path)
	if runFormat != "" {
		format = action.Format(runFormat)
	}
	return action.Parse(data, format)
}
