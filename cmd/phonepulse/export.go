package main

import (
	"fmt"
	"log/slog"

	"github.com/nijhum/phonepulse/internal/cli"
	"github.com/nijhum/phonepulse/internal/config"
	"github.com/nijhum/phonepulse/internal/service"
	"github.com/nijhum/phonepulse/internal/sheets"
	"github.com/spf13/cobra"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <brand> <model>",
		Short: "Export a market report",
		Long: `Analyze a phone model and export the report to Google Sheets, or to a
local CSV file with --csv.`,
		Args: cobra.ExactArgs(2),
		RunE: runExport,
	}

	cmd.Flags().String("csv", "", "Write a CSV file to this path instead of Google Sheets")

	return cmd
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	brand, phoneModel := args[0], args[1]
	csvPath, _ := cmd.Flags().GetString("csv")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	listings, err := store.GetListings(ctx, brand, phoneModel)
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}

	report, err := newAnalyzer().Analyze(brand, phoneModel, listings)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	var writer service.ReportWriter
	if csvPath != "" {
		writer, err = sheets.NewCSVWriter(csvPath)
		if err != nil {
			return err
		}
	} else {
		sheetsCfg, cfgErr := config.LoadSheetsConfig()
		if cfgErr != nil {
			return fmt.Errorf("google sheets not configured (use --csv for a local export): %w", cfgErr)
		}
		writer, err = sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
		if err != nil {
			return err
		}
	}

	destination, err := writer.Write(ctx, report)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Report exported to " + destination))
	return nil
}
