package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	clientcmd "github.com/manigandand/pathivu/internal/cmd/client"
	serverrun "github.com/manigandand/pathivu/internal/cmd/server"
	cfgpkg "github.com/manigandand/pathivu/internal/config"
	pebblestore "github.com/manigandand/pathivu/internal/storage/pebble"
	logpkg "github.com/manigandand/pathivu/pkg/log"
)

func main() {
	// Respect PATHIVU_LOG_LEVEL for both CLI and server start output.
	level := os.Getenv("PATHIVU_LOG_LEVEL")
	parsed, err := logpkg.ParseLevel(level)
	if err != nil || level == "" {
		parsed = logpkg.InfoLevel
	}
	logger := logpkg.NewLogger(
		logpkg.WithLevel(parsed),
		logpkg.WithFormat(os.Getenv("PATHIVU_LOG_FORMAT")),
	)

	rootCmd := &cobra.Command{
		Use:   "pathivu",
		Short: "Pathivu log store CLI",
		Long:  "Pathivu is a single-binary segmented log store. This CLI manages the server and basic log operations.",
	}

	// server start
	serverCmd := &cobra.Command{Use: "server", Short: "Server commands"}
	serverStartCmd := &cobra.Command{
		Use:     "start",
		Short:   "Start pathivu server",
		Aliases: []string{"run"},
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, _ := cmd.Flags().GetString("data-dir")
			httpAddr, _ := cmd.Flags().GetString("http")
			fsyncMode, _ := cmd.Flags().GetString("fsync")
			fsyncIntervalMs, _ := cmd.Flags().GetInt("fsync-interval-ms")
			logLevel, _ := cmd.Flags().GetString("log-level")
			logFormat, _ := cmd.Flags().GetString("log-format")
			maxSegBytes, _ := cmd.Flags().GetInt("max-segment-bytes")

			mode, err := pebblestore.ParseFsyncMode(fsyncMode)
			if err != nil {
				return fmt.Errorf("invalid --fsync; use always|interval|never")
			}

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if logLevel != "" {
				_ = os.Setenv("PATHIVU_LOG_LEVEL", logLevel)
			}
			if logFormat != "" {
				_ = os.Setenv("PATHIVU_LOG_FORMAT", logFormat)
			}
			cfg := cfgpkg.Default()
			cfgpkg.FromEnv(&cfg)
			if maxSegBytes > 0 {
				cfg.MaxSegmentBytes = maxSegBytes
			}

			if err := serverrun.Run(ctx, serverrun.Options{
				DataDir:       dataDir,
				HTTPAddr:      httpAddr,
				Fsync:         mode,
				FsyncInterval: time.Duration(fsyncIntervalMs) * time.Millisecond,
				Config:        cfg,
				Logger:        logger,
			}); err != nil {
				return fmt.Errorf("server error: %w", err)
			}
			// brief delay to allow logs flush
			time.Sleep(100 * time.Millisecond)
			return nil
		},
	}
	serverStartCmd.Flags().String("data-dir", "", "Data directory (if not specified, uses OS-specific application data directory)")
	serverStartCmd.Flags().String("http", ":6180", "HTTP listen address")
	serverStartCmd.Flags().String("fsync", "always", "Fsync mode: always|interval|never")
	serverStartCmd.Flags().Int("fsync-interval-ms", 5, "When --fsync=interval, group-commit window in ms (default 5)")
	serverStartCmd.Flags().String("log-level", os.Getenv("PATHIVU_LOG_LEVEL"), "Log level: debug|info|warn|error")
	serverStartCmd.Flags().String("log-format", os.Getenv("PATHIVU_LOG_FORMAT"), "Log format: text|json (default text)")
	serverStartCmd.Flags().Int("max-segment-bytes", func() int { v, _ := strconv.Atoi(os.Getenv("PATHIVU_MAX_SEGMENT_BYTES")); return v }(), "Seal open segments once they reach this many bytes")
	serverCmd.AddCommand(serverStartCmd)
	rootCmd.AddCommand(serverCmd)

	// client commands speak to a running server over HTTP
	rootCmd.AddCommand(clientcmd.NewLogCommand(apiURL))
	rootCmd.AddCommand(clientcmd.NewQueryCommand(apiURL))

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func apiURL() string {
	if v := os.Getenv("PATHIVU_HTTP"); v != "" {
		return v
	}
	return "http://127.0.0.1:6180"
}
