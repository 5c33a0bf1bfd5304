package main

import (
	"errors"
	"fmt"

	"github.com/nijhum/phonepulse/internal/cli"
	"github.com/nijhum/phonepulse/internal/common"
	"github.com/spf13/cobra"
)

func searchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "search <brand> <model>",
		Short: "Analyze the market for a phone model",
		Long: `Run the full market analysis for one phone model: price statistics,
deal categorization, buy recommendation, price forecast and insights.`,
		Args: cobra.ExactArgs(2),
		RunE: runSearch,
	}
}

func runSearch(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	brand, phoneModel := args[0], args[1]

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
		if errors.Is(err, common.ErrNoListings) {
			fmt.Println(cli.FormatWarning(fmt.Sprintf("No listings found for %s %s", brand, phoneModel)))
			return nil
		}
		return fmt.Errorf("analysis failed: %w", err)
	}

	fmt.Println(cli.RenderReport(report))
	return nil
}
