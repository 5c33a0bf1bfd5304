package storage

import (
	"context"
	"testing"
	"time"

	"github.com/nijhum/phonepulse/internal/model"
)

func createTestAlert() *model.Alert {
	return &model.Alert{
		Email:       "buyer@example.com",
		Brand:       "Samsung",
		Model:       "Galaxy A54",
		TargetPrice: 20000,
	}
}

func TestCreateAlert(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	alert := createTestAlert()
	id, err := store.CreateAlert(ctx, alert)
	if err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}
	if id <= 0 {
		t.Fatalf("Expected positive alert id, got %d", id)
	}
	if alert.ID != id {
		t.Errorf("Expected alert.ID to be set to %d, got %d", id, alert.ID)
	}

	// Optional filters normalize to the unconstrained marker.
	if alert.Condition != model.AnyFilter || alert.MinRAM != model.AnyFilter {
		t.Errorf("Expected normalized filters, got condition=%q min_ram=%q", alert.Condition, alert.MinRAM)
	}
}

func TestCreateAlertValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if _, err := store.CreateAlert(ctx, nil); err == nil {
		t.Error("Expected error for nil alert")
	}

	bad := createTestAlert()
	bad.Email = "not-an-email"
	if _, err := store.CreateAlert(ctx, bad); err == nil {
		t.Error("Expected error for invalid email")
	}

	bad = createTestAlert()
	bad.TargetPrice = 0
	if _, err := store.CreateAlert(ctx, bad); err == nil {
		t.Error("Expected error for zero target price")
	}
}

func TestGetAlertsByEmail(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	first := createTestAlert()
	if _, err := store.CreateAlert(ctx, first); err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}
	second := createTestAlert()
	second.Model = "Galaxy S23"
	second.TargetPrice = 60000
	if _, err := store.CreateAlert(ctx, second); err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}
	other := createTestAlert()
	other.Email = "someone.else@example.com"
	if _, err := store.CreateAlert(ctx, other); err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}

	alerts, err := store.GetAlertsByEmail(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("Failed to get alerts: %v", err)
	}
	if len(alerts) != 2 {
		t.Fatalf("Expected 2 alerts, got %d", len(alerts))
	}

	// Newest first.
	if alerts[0].Model != "Galaxy S23" {
		t.Errorf("Expected newest alert first, got %q", alerts[0].Model)
	}
	if !alerts[0].IsActive {
		t.Error("Expected new alerts to be active")
	}
	if alerts[0].CreatedAt.IsZero() {
		t.Error("Expected created_at to be populated")
	}
}

func TestDeleteAlert(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.CreateAlert(ctx, createTestAlert())
	if err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}

	if err := store.DeleteAlert(ctx, id); err != nil {
		t.Fatalf("Failed to delete alert: %v", err)
	}

	alerts, err := store.GetAlertsByEmail(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("Failed to get alerts: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("Expected no alerts after delete, got %d", len(alerts))
	}

	if err := store.DeleteAlert(ctx, id); err == nil {
		t.Error("Expected error deleting a missing alert")
	}
	if err := store.DeleteAlert(ctx, 0); err == nil {
		t.Error("Expected error for non-positive id")
	}
}

func TestMarkAlertTriggered(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.CreateAlert(ctx, createTestAlert())
	if err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}

	at := time.Now()
	if err := store.MarkAlertTriggered(ctx, id, at); err != nil {
		t.Fatalf("Failed to mark alert triggered: %v", err)
	}
	if err := store.MarkAlertTriggered(ctx, id, at.Add(time.Hour)); err != nil {
		t.Fatalf("Failed to mark alert triggered twice: %v", err)
	}

	alerts, err := store.GetAlertsByEmail(ctx, "buyer@example.com")
	if err != nil {
		t.Fatalf("Failed to get alerts: %v", err)
	}
	if alerts[0].TimesTriggered != 2 {
		t.Errorf("Expected times_triggered 2, got %d", alerts[0].TimesTriggered)
	}
	if alerts[0].LastChecked == nil {
		t.Error("Expected last_checked to be set")
	}
}

func TestGetActiveAlerts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	id, err := store.CreateAlert(ctx, createTestAlert())
	if err != nil {
		t.Fatalf("Failed to create alert: %v", err)
	}

	alerts, err := store.GetActiveAlerts(ctx)
	if err != nil {
		t.Fatalf("Failed to get active alerts: %v", err)
	}
	if len(alerts) != 1 {
		t.Fatalf("Expected 1 active alert, got %d", len(alerts))
	}

	if _, err := store.db.ExecContext(ctx, "UPDATE price_alerts SET is_active = 0 WHERE id = ?", id); err != nil {
		t.Fatalf("Failed to deactivate alert: %v", err)
	}

	alerts, err = store.GetActiveAlerts(ctx)
	if err != nil {
		t.Fatalf("Failed to get active alerts: %v", err)
	}
	if len(alerts) != 0 {
		t.Errorf("Expected no active alerts, got %d", len(alerts))
	}
}

func TestFindAlertMatches(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	listings := []model.Listing{
		{
			URL: "https://bikroy.com/en/ad/match-1", Brand: "Samsung", Model: "Galaxy A54",
			Price: 18000, Condition: "Used", Location: "Dhaka", RAM: "8", Storage: "128",
			HasWarranty: true,
		},
		{
			URL: "https://bikroy.com/en/ad/too-expensive", Brand: "Samsung", Model: "Galaxy A54",
			Price: 25000, Condition: "Used", Location: "Dhaka", RAM: "8", Storage: "128",
		},
		{
			URL: "https://bikroy.com/en/ad/low-ram", Brand: "Samsung", Model: "Galaxy A54",
			Price: 17000, Condition: "Used", Location: "Dhaka", RAM: "4", Storage: "64",
		},
		{
			URL: "https://bikroy.com/en/ad/wrong-city", Brand: "Samsung", Model: "Galaxy A54",
			Price: 16000, Condition: "Used", Location: "Sylhet", RAM: "8", Storage: "128",
		},
	}
	if err := store.SaveListings(ctx, listings); err != nil {
		t.Fatalf("Failed to save listings: %v", err)
	}

	alert := model.Alert{
		Brand: "Samsung", Model: "Galaxy A54", TargetPrice: 20000,
		Location: "Dhaka", MinRAM: "8", MinStorage: "128",
		Condition: model.AnyFilter,
	}

	matches, err := store.FindAlertMatches(ctx, alert)
	if err != nil {
		t.Fatalf("Failed to find matches: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Expected 1 match, got %d", len(matches))
	}
	if matches[0].URL != "https://bikroy.com/en/ad/match-1" {
		t.Errorf("Unexpected match: %s", matches[0].URL)
	}

	// Warranty constraint filters the remaining match out only when the
	// listing lacks one.
	alert.NeedsWarranty = true
	matches, err = store.FindAlertMatches(ctx, alert)
	if err != nil {
		t.Fatalf("Failed to find matches: %v", err)
	}
	if len(matches) != 1 {
		t.Errorf("Expected warranty-holding match to remain, got %d", len(matches))
	}

	// Unconstrained alert matches everything under the price ceiling.
	loose := model.Alert{Brand: "Samsung", Model: "Galaxy A54", TargetPrice: 20000}
	matches, err = store.FindAlertMatches(ctx, loose)
	if err != nil {
		t.Fatalf("Failed to find matches: %v", err)
	}
	if len(matches) != 3 {
		t.Errorf("Expected 3 matches, got %d", len(matches))
	}
}
