package main

import (
	"fmt"
	"log/slog"

	"github.com/nijhum/phonepulse/internal/cli"
	"github.com/nijhum/phonepulse/internal/scraper"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func scrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Scrape phone listings from Bikroy",
		Long: `Crawl the mobile phone section of Bikroy, extract listing details and
store the new listings in the local database. Requires a Chrome or
Chromium binary.`,
		RunE: runScrape,
	}

	// Flags
	cmd.Flags().Int("max-pages", 300, "Maximum listing pages to crawl")
	cmd.Flags().Int("concurrency", 8, "Concurrent detail page fetches")
	cmd.Flags().Bool("progress", true, "Show a progress bar")

	_ = viper.BindPFlag("scraper.max_pages", cmd.Flags().Lookup("max-pages"))
	_ = viper.BindPFlag("scraper.concurrency", cmd.Flags().Lookup("concurrency"))
	_ = viper.BindPFlag("scraper.progress", cmd.Flags().Lookup("progress"))

	return cmd
}

func runScrape(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	cfg := scraper.DefaultConfig()
	cfg.MaxPages = viper.GetInt("scraper.max_pages")
	cfg.MaxConcurrency = viper.GetInt("scraper.concurrency")
	cfg.ShowProgress = viper.GetBool("scraper.progress")
	if v := viper.GetString("scraper.base_url"); v != "" {
		cfg.BaseURL = v
	}
	if v := viper.GetString("scraper.chrome_bin"); v != "" {
		cfg.ChromeBin = v
	}

	slog.Info(cli.FormatTitle("Scraping Bikroy listings..."))

	result, err := scraper.New(cfg, store, slog.Default()).Run(ctx)
	if err != nil {
		return fmt.Errorf("scrape failed: %w", err)
	}

	slog.Info(cli.FormatSuccess("Scrape completed"),
		"pages", result.PagesVisited,
		"urls_found", result.URLsFound,
		"urls_new", result.URLsNew,
		"saved", result.Saved,
		"failed", result.Failed)

	return nil
}
