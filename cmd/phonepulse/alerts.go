package main

import (
	"fmt"
	"strconv"

	"github.com/nijhum/phonepulse/internal/cli"
	"github.com/nijhum/phonepulse/internal/model"
	"github.com/spf13/cobra"
)

func alertsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "alerts",
		Short: "Manage price alerts",
		Long: `Create, list, delete and check price-drop alerts. An alert fires when a
listing for the watched model appears at or under the target price.`,
	}

	cmd.AddCommand(alertsCreateCmd())
	cmd.AddCommand(alertsListCmd())
	cmd.AddCommand(alertsDeleteCmd())
	cmd.AddCommand(alertsCheckCmd())

	return cmd
}

func alertsCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <brand> <model> <target-price>",
		Short: "Create a price alert",
		Args:  cobra.ExactArgs(3),
		RunE:  runAlertsCreate,
	}

	cmd.Flags().String("email", "", "Email address to notify (required)")
	cmd.Flags().String("condition", "", "Required condition (New, Used)")
	cmd.Flags().String("location", "", "Required location")
	cmd.Flags().String("min-ram", "", "Minimum RAM, e.g. 8 GB")
	cmd.Flags().String("min-storage", "", "Minimum storage, e.g. 128 GB")
	cmd.Flags().Bool("warranty", false, "Only match listings with warranty")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runAlertsCreate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	targetPrice, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid target price %q", args[2])
	}

	email, _ := cmd.Flags().GetString("email")
	condition, _ := cmd.Flags().GetString("condition")
	location, _ := cmd.Flags().GetString("location")
	minRAM, _ := cmd.Flags().GetString("min-ram")
	minStorage, _ := cmd.Flags().GetString("min-storage")
	warranty, _ := cmd.Flags().GetBool("warranty")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	alert := model.Alert{
		Email:         email,
		Brand:         args[0],
		Model:         args[1],
		TargetPrice:   targetPrice,
		Condition:     condition,
		Location:      location,
		MinRAM:        minRAM,
		MinStorage:    minStorage,
		NeedsWarranty: warranty,
	}

	id, err := newAlertService(store).Create(ctx, &alert)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Alert %d created for %s %s under %s",
		id, alert.Brand, alert.Model, cli.FormatTaka(alert.TargetPrice))))
	return nil
}

func alertsListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your price alerts",
		RunE:  runAlertsList,
	}

	cmd.Flags().String("email", "", "Email address the alerts were created with (required)")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func runAlertsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	email, _ := cmd.Flags().GetString("email")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	alerts, err := newAlertService(store).List(ctx, email)
	if err != nil {
		return err
	}

	fmt.Println(cli.RenderAlerts(alerts))
	return nil
}

func alertsDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a price alert",
		Args:  cobra.ExactArgs(1),
		RunE:  runAlertsDelete,
	}
}

func runAlertsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid alert id %q", args[0])
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := newAlertService(store).Delete(ctx, id); err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Alert %d deleted", id)))
	return nil
}

func alertsCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Sweep all active alerts once",
		RunE:  runAlertsCheck,
	}
}

func runAlertsCheck(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	result, err := newAlertService(store).CheckAll(ctx)
	if err != nil {
		return err
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Checked %d alerts, triggered %d",
		result.Checked, result.Triggered)))
	return nil
}
