package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/nijhum/phonepulse/internal/cli"
	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/compare"
	"github.com/nijhum/phonepulse/internal/intel"
	"github.com/nijhum/phonepulse/internal/model"
	"github.com/nijhum/phonepulse/internal/service"
	"github.com/spf13/cobra"
)

func compareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compare <brandA> <modelA> <brandB> <modelB>",
		Short: "Compare two phone models head to head",
		Long: `Score two phone models against each other across price, specs, deal
availability and market health, and print the verdict.`,
		Args: cobra.ExactArgs(4),
		RunE: runCompare,
	}
}

func runCompare(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	analyzer := newAnalyzer()

	summaryA, err := summarizePhone(ctx, store, analyzer, args[0], args[1])
	if err != nil {
		return err
	}
	summaryB, err := summarizePhone(ctx, store, analyzer, args[2], args[3])
	if err != nil {
		return err
	}

	result := compare.Score(*summaryA, *summaryB)
	fmt.Println(cli.RenderComparison(summaryA, summaryB, result))
	return nil
}

func summarizePhone(ctx context.Context, store service.Storage, analyzer *intel.Analyzer, brand, phoneModel string) (*model.PhoneSummary, error) {
	listings, err := store.GetListings(ctx, brand, phoneModel)
	if err != nil {
		return nil, fmt.Errorf("failed to load listings: %w", err)
	}

	summary, err := analyzer.Summarize(brand, phoneModel, listings)
	if err != nil {
		if errors.Is(err, common.ErrNoListings) {
			return nil, fmt.Errorf("no listings found for %s %s", brand, phoneModel)
		}
		return nil, fmt.Errorf("failed to summarize %s %s: %w", brand, phoneModel, err)
	}
	return summary, nil
}
