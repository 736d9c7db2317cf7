package cmd

import (
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sheetwright/sheetwright/internal/server"
)

var (
	serveHost      string
	servePort      int
	serveWorkspace string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			return errors.New("configuration not loaded")
		}
		host, port, workspace := cfg.ServerHost, cfg.ServerPort, cfg.WorkspaceDir
		if serveHost != "" {
			host = serveHost
		}
		if servePort != 0 {
			port = servePort
		}
		if serveWorkspace != "" {
			workspace = serveWorkspace
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		srv := server.New(server.Config{
			Service:      newService(),
			WorkspaceDir: workspace,
			Host:         host,
			Port:         port,
			Logger:       newLogger(),
		})
		fmt.Printf("✓ Serving on http://%s:%d (workspace: %s)\n", host, port, workspace)
		return srv.Serve(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveHost, "host", "", "bind address (overrides config)")
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides config)")
	serveCmd.Flags().StringVar(&serveWorkspace, "workspace", "", "workbook directory the server may touch (overrides config)")
	rootCmd.AddCommand(serveCmd)
}
