package main

import (
	"errors"
	"fmt"

	"github.com/nijhum/phonepulse/internal/cli"
	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/model"
	"github.com/spf13/cobra"
)

func estimateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estimate <brand> <model>",
		Short: "Estimate a fair price for a phone",
		Long: `Predict what a phone with the given specs should cost, based on the
median price of comparable stored listings.`,
		Args: cobra.ExactArgs(2),
		RunE: runEstimate,
	}

	cmd.Flags().String("condition", "", "Condition (New, Used)")
	cmd.Flags().String("ram", "", "RAM, e.g. 8 GB")
	cmd.Flags().String("storage", "", "Storage, e.g. 128 GB")
	cmd.Flags().Bool("warranty", false, "Has warranty")
	cmd.Flags().Bool("store", false, "Sold by a store")

	return cmd
}

func runEstimate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	condition, _ := cmd.Flags().GetString("condition")
	ram, _ := cmd.Flags().GetString("ram")
	storageSize, _ := cmd.Flags().GetString("storage")
	warranty, _ := cmd.Flags().GetBool("warranty")
	isStore, _ := cmd.Flags().GetBool("store")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	req := model.EstimateRequest{
		Brand:       args[0],
		Model:       args[1],
		Condition:   condition,
		RAM:         ram,
		Storage:     storageSize,
		HasWarranty: warranty,
		IsStore:     isStore,
	}

	listings, err := store.GetListings(ctx, req.Brand, req.Model)
	if err != nil {
		return fmt.Errorf("failed to load listings: %w", err)
	}

	estimate, err := newAnalyzer().Estimate(req, listings)
	if err != nil {
		if errors.Is(err, common.ErrNoListings) {
			fmt.Println(cli.FormatWarning(fmt.Sprintf("No listings found for %s %s", req.Brand, req.Model)))
			return nil
		}
		return fmt.Errorf("estimate failed: %w", err)
	}

	fmt.Println(cli.RenderEstimate(estimate))
	return nil
}
