package cmd

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	mdwlog "github.com/msto63/actionvm/foundation/core/log"
	"github.com/msto63/actionvm/internal/server/rpc"
	"github.com/msto63/actionvm/internal/server/ws"
	coregrpc "github.com/msto63/actionvm/pkg/core/grpc"
	"github.com/msto63/actionvm/pkg/core/health"
	"github.com/msto63/actionvm/pkg/core/version"
	"github.com/spf13/cobra"
)

var (
	serveGRPCPort int
	serveWSPort   int
	serveNoGRPC   bool
	serveNoWS     bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve one interpreter session over gRPC and WebSocket",
	Long: `Starts the gRPC and WebSocket front ends on a single shared
interpreter. Batches from all clients are serialized and share one store.

The WebSocket server also answers GET /healthz.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&serveGRPCPort, "grpc-port", 0, "gRPC port (overrides config)")
	serveCmd.Flags().IntVar(&serveWSPort, "ws-port", 0, "WebSocket port (overrides config)")
	serveCmd.Flags().BoolVar(&serveNoGRPC, "no-grpc", false, "disable the gRPC server")
	serveCmd.Flags().BoolVar(&serveNoWS, "no-ws", false, "disable the WebSocket server")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := appConfig
	if serveGRPCPort != 0 {
		cfg.GRPC.Port = serveGRPCPort
	}
	if serveWSPort != 0 {
		cfg.WebSocket.Port = serveWSPort
	}
	if serveNoGRPC {
		cfg.GRPC.Enabled = false
	}
	if serveNoWS {
		cfg.WebSocket.Enabled = false
	}
	if !cfg.GRPC.Enabled && !cfg.WebSocket.Enabled {
		return fmt.Errorf("both gRPC and WebSocket are disabled")
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	host, cleanup, err := newHost(cfg, appLogger, os.Stdout)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)

	var grpcServer *coregrpc.Server
	if cfg.GRPC.Enabled {
		grpcServer = coregrpc.NewServer(coregrpc.ServerConfigFrom(cfg.GRPC))
		rpc.NewService(host).Register(grpcServer.GRPCServer())
		if err := grpcServer.StartAsync(); err != nil {
			return err
		}
		appLogger.Info("gRPC server listening", mdwlog.Fields{"address": grpcServer.Address()})
	}

	var wsServer *ws.Server
	if cfg.WebSocket.Enabled {
		wsServer = ws.New(cfg.WebSocket, host, version.Platform)
		if grpcServer != nil {
			wsServer.HealthRegistry().Register(health.TCPCheck("grpc", dialAddress(cfg.GRPC.Host, cfg.GRPC.Port), 2*time.Second))
		}
		go func() {
			errCh <- wsServer.Start()
		}()
	}

	appLogger.Info("Session ready", mdwlog.Fields{"session_id": host.ID()})

	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if wsServer != nil {
		if stopErr := wsServer.Stop(shutdownCtx); stopErr != nil {
			appLogger.WarnWithErr("WebSocket shutdown", stopErr)
		}
	}
	if grpcServer != nil {
		grpcServer.StopWithTimeout(shutdownCtx)
	}
	appLogger.Info("Stopped")
	return err
}

// dialAddress turns a listen address into one a local client can reach
func dialAddress(host string, port int) string {
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	return net.JoinHostPort(host, strconv.Itoa(port))
}
