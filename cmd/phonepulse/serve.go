package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/nijhum/phonepulse/internal/alert"
	"github.com/nijhum/phonepulse/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the market analysis API server",
		Long: `Start the HTTP API that powers search, comparisons, price estimates
and price alerts. Also runs the hourly alert sweep in the background.`,
		RunE: runServe,
	}

	// Flags
	cmd.Flags().String("addr", ":8000", "Listen address")
	cmd.Flags().Duration("alert-interval", time.Hour, "Interval between alert sweeps")

	_ = viper.BindPFlag("server.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("alerts.interval", cmd.Flags().Lookup("alert-interval"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	alerts := newAlertService(store)

	cfg := server.DefaultConfig()
	cfg.Addr = viper.GetString("server.addr")

	srv, err := server.New(cfg, store, newAnalyzer(), alerts, newReportCache(), slog.Default())
	if err != nil {
		return fmt.Errorf("failed to build server: %w", err)
	}

	// Sweep alerts on a schedule alongside the API
	scheduler := alert.NewScheduler(alerts, viper.GetDuration("alerts.interval"), slog.Default())
	go scheduler.Run(ctx)

	return srv.Run(ctx)
}
