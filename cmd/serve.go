package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/williamsnieves/ai-tech-tutor/internal/config"
	"github.com/williamsnieves/ai-tech-tutor/internal/server"
)

var (
	serveHost string
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long: `Run the HTTP API exposing the tutor and the data generator.

Endpoints:
  POST /api/tutor                      ask a question or explain code
  POST /api/generate                   generate a synthetic dataset
  GET  /api/v1/download/{job}/{file}   download a generated file`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("configuration error: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		fmt.Printf("Listening on %s:%d\n", serveHost, servePort)
		return server.Start(ctx, cfg, server.Options{Host: serveHost, Port: servePort})
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "127.0.0.1", "Host to bind")
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 8080, "Port to listen on")
}
