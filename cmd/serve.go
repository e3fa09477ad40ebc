package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/PolarWolf314/securehide/internal/server"
	"github.com/PolarWolf314/securehide/internal/ui"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
)

var serveListen string

func init() {
	serveCmd.Flags().StringVar(&serveListen, "listen", "", "address to listen on (default from config, :8080)")
}

// resetServeCommandState resets the serve command's global state for testing.
func resetServeCommandState() {
	serveListen = ""
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the SecureHide HTTP API",
	Long: `Serves hide, extract and capacity over HTTP.

Routes:
  GET  /          health
  POST /hide      multipart image, message, password
  POST /extract   multipart image, password
  GET  /capacity  ?width=&height=&message_bytes=
  POST /capacity  multipart image, optional message
  GET  /metrics   Prometheus metrics

Examples:
  securehide serve
  securehide serve --listen 127.0.0.1:9000 -v`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting serve command")

		cfg, err := loadConfig()
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to load config: %v", err)
		}
		if serveListen != "" {
			cfg.Server.Listen = serveListen
		}

		fmt.Println()
		banner := figure.NewColorFigure("SecureHide", "small", "green", true)
		banner.Print()
		fmt.Println()
		fmt.Println(ui.Success.Sprint("✓") + " Listening on " + ui.Highlight.Sprint(cfg.Server.Listen) +
			" " + ui.Muted.Sprintf("%d workers, %ds timeout", cfg.Server.MaxConcurrent, cfg.Server.RequestTimeoutSeconds))
		fmt.Println(ui.Info.Sprint("→") + " Press Ctrl+C to stop")

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		srv := server.New(cfg, Logger, Version)
		if err := srv.ListenAndServe(ctx); err != nil {
			return Logger.ErrorfAndReturn("Server failed: %v", err)
		}

		fmt.Println(ui.Success.Sprint("✓") + " Server stopped")
		return nil
	},
}
