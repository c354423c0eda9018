package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomchat-server/internal/app"
	"github.com/vovakirdan/roomchat-server/internal/config"
	applog "github.com/vovakirdan/roomchat-server/internal/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		overrides  config.Config
	)

	cmd := &cobra.Command{
		Use:           "roomchat-server",
		Short:         "Real-time chat server speaking a line protocol over WebSocket",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath, overrides)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&configPath, "config", "", "path to config file (default ./config.yaml)")
	flags.StringVar(&overrides.Addr, "addr", "", "HTTP listen address")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.DurationVar(&overrides.ReadHeaderTimeout, "read-header-timeout", 0, "HTTP read header timeout")
	flags.DurationVar(&overrides.ShutdownTimeout, "shutdown-timeout", 0, "graceful shutdown timeout")
	flags.BoolVar(&overrides.APIEnabled, "api", false, "enable the read-only /api endpoints (cannot disable api_enabled set in config or env)")

	return cmd
}

func run(ctx context.Context, configPath string, overrides config.Config) error {
	bootLog := applog.New("info")

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		bootLog.Warn().Err(err).Msg("failed to load .env")
	}

	cfg, path, err := config.Load(bootLog, configPath)
	if err != nil {
		bootLog.Error().Err(err).Str("path", path).Msg("load config")
		return err
	}
	cfg.UpdateFrom(overrides)

	logger := applog.New(cfg.LogLevel)

	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(&cfg, logger)
	if err != nil {
		logger.Error().Err(err).Msg("init app")
		return err
	}

	logger.Info().Str("addr", cfg.Addr).Str("config", path).Msg("starting roomchat server")
	if err := application.Run(ctx); err != nil {
		logger.Error().Err(err).Msg("server exited with error")
		return err
	}
	logger.Info().Msg("server stopped")
	return nil
}
