package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"example.com/fieldtrack/agent/api"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	// Serve command flags
	serverPort      int
	gracefulTimeout int
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the local API server for the UI shell",
	Long: `Starts the agent's local HTTP API. The mobile UI shell talks to it for
record browsing, draft edits, photo staging, and the pull/push/upload
synchronization flows.

The server respects the configuration in config.yaml or specified via the
--config flag. It will gracefully shut down on SIGINT or SIGTERM.`,
	Run: func(cmd *cobra.Command, args []string) {
		startServer()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().IntVar(&serverPort, "port", 0, "Server port (overrides config file)")
	serveCmd.Flags().IntVar(&gracefulTimeout, "graceful-timeout", 30, "Graceful shutdown timeout in seconds")
}

// startServer initializes and starts the local API server
func startServer() {
	svc, cfg, cleanup, err := buildService(nil)
	if err != nil {
		log.Fatalf("Failed to initialize agent: %v", err)
	}
	defer cleanup()

	if serverPort > 0 {
		cfg.Server.Port = serverPort
	}

	server := api.NewServer(cfg, log, svc)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	group.Go(func() error {
		<-ctx.Done()
		log.Info("Shutting down local API server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(gracefulTimeout)*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
	log.Info("Server shutdown complete")
}
