package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"atelier/internal/api"
	"atelier/internal/config"
	"atelier/internal/gateway"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP gateway",
	Long:  `Starts the HTTP front door: an authenticated POST /mcp endpoint for tool invocations and an unauthenticated GET /health probe. Refuses to start without the auth secret, backend token, and backend base URL.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return fmt.Errorf("config not loaded")
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		requestTimeout, err := config.DurationOrDefault(cfg.API.RequestTimeout, config.DefaultAPIRequestTimeout)
		if err != nil {
			return fmt.Errorf("parse api request timeout: %w", err)
		}
		fetchTimeout, err := config.DurationOrDefault(cfg.API.FetchTimeout, config.DefaultAPIFetchTimeout)
		if err != nil {
			return fmt.Errorf("parse api fetch timeout: %w", err)
		}
		uploadTimeout, err := config.DurationOrDefault(cfg.API.UploadTimeout, config.DefaultAPIUploadTimeout)
		if err != nil {
			return fmt.Errorf("parse api upload timeout: %w", err)
		}

		client := api.New(api.Config{
			BaseURL:        cfg.API.URL,
			Token:          cfg.API.Token,
			RequestTimeout: requestTimeout,
			FetchTimeout:   fetchTimeout,
			UploadTimeout:  uploadTimeout,
		})

		srv, err := gateway.New(cfg, client)
		if err != nil {
			return err
		}

		srv.Start()
		slog.Info("atelier ready",
			"health", fmt.Sprintf("http://0.0.0.0:%d/health", cfg.Server.Port),
			"mcp", fmt.Sprintf("http://0.0.0.0:%d/mcp", cfg.Server.Port),
			"backend", cfg.API.URL,
		)

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		<-ctx.Done()

		slog.Info("Shutting down...")
		return srv.Stop(context.Background())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
