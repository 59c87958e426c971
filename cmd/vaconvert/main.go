package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"vaconvert/internal/config"
	"vaconvert/internal/logging"
	"vaconvert/internal/store"
)

var (
	// Global flags
	configPath string
	verbose    bool
	record     bool

	cfg     *config.AppConfig
	cfgInfo config.LoadConfigInfo
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "vaconvert",
	Short: "Convert verbal autopsy questionnaires into ternary symptom indicators",
	Long: `vaconvert turns PHMRC-style verbal autopsy tables (adult / child) into
Yes / No / Missing symptom indicators, either in the legacy (Y, "", .) or the
short (y, n, -) encoding, and re-encodes already tabulated symptom data with
caller-supplied label sets.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, cfgInfo, err = config.LoadConfigWithInfo(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("record") {
			cfg.Data.RecordRuns = record
		}

		logger, err = logging.New(cfg.Log, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: config.toml beside the executable)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&record, "record", false, "Record the run in the SQLite run log (overrides data.record_runs)")

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(remapCmd)
	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(serveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// signalContext 收到 SIGINT / SIGTERM 时取消
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigCh:
			logger.Info("received shutdown signal")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(sigCh)
	}()
	return ctx, cancel
}

// openRunLog 按配置打开运行记录库，未启用时返回 nil
func openRunLog() (*store.Store, error) {
	if !cfg.Data.RecordRuns {
		return nil, nil
	}
	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare data directory: %w", err)
	}
	return store.New(filepath.Join(dataDir, "vaconvert.db"))
}
