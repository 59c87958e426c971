package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vaconvert/internal/server"
)

var serveFlags struct {
	port    int
	dev     bool
	dataDir string
	open    bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  runServe,
}

func init() {
	f := serveCmd.Flags()
	f.IntVar(&serveFlags.port, "port", 0, "Listen port (only applies when config.toml does not set server.port)")
	f.BoolVar(&serveFlags.dev, "dev", false, "Development mode (gin debug output)")
	f.StringVar(&serveFlags.dataDir, "data-dir", "", "Data directory (overrides config)")
	f.BoolVar(&serveFlags.open, "open", false, "Open the status endpoint in a browser once listening")
}

func runServe(cmd *cobra.Command, args []string) error {
	// 命令行参数覆盖配置
	if serveFlags.port > 0 && !cfgInfo.PortSpecified {
		cfg.Server.Port = serveFlags.port
	}
	if serveFlags.dev {
		cfg.Server.DevMode = true
	}
	if serveFlags.dataDir != "" {
		cfg.Data.DataDir = serveFlags.dataDir
	}

	srv, err := server.NewServer(cfg, logger)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	url := fmt.Sprintf("http://localhost:%d/api/status", cfg.Server.Port)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", zap.String("addr", addr), zap.Bool("recordRuns", cfg.Data.RecordRuns))
		errCh <- srv.Run(addr)
	}()

	if serveFlags.open {
		if err := openBrowser(url); err != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "could not open a browser, visit %s\n", url)
		}
	}

	ctx, cancel := signalContext()
	defer cancel()

	select {
	case err := <-errCh:
		_ = srv.Shutdown(context.Background())
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, stop := context.WithTimeout(context.Background(), 10*time.Second)
	defer stop()
	return srv.Shutdown(shutdownCtx)
}
