package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/nijhum/phonepulse/internal/model"
)

// Helper function to create test storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

// Helper function to create test listings.
func createTestListings(count int) []model.Listing {
	listings := make([]model.Listing, count)
	baseTime := time.Now().Add(-24 * time.Hour)

	for i := 0; i < count; i++ {
		listings[i] = model.Listing{
			URL:           fmt.Sprintf("https://bikroy.com/en/ad/galaxy-a54-%d", i+1),
			Title:         fmt.Sprintf("Samsung Galaxy A54 #%d", i+1),
			Brand:         "Samsung",
			Model:         "Galaxy A54",
			Price:         20000 + i*500,
			Condition:     "Used",
			Location:      "Dhaka",
			Division:      "Dhaka",
			SellerName:    fmt.Sprintf("Seller %d", i+1),
			RAM:           "8",
			Storage:       "128",
			Battery:       "5000",
			CameraPixel:   "64",
			Network:       "5G",
			PublishedDate: baseTime.Add(time.Duration(i) * time.Hour),
		}
	}
	return listings
}

func TestNewSQLiteStorage(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	if store.db == nil {
		t.Fatal("Expected database connection to be initialized")
	}
}

func TestNewSQLiteStorageEmptyPath(t *testing.T) {
	if _, err := NewSQLiteStorage(""); err == nil {
		t.Fatal("Expected error for empty database path")
	}
}

func TestMigrateIdempotent(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	// Running migrations a second time must be a no-op.
	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("Second migration failed: %v", err)
	}

	var version int
	if err := store.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatalf("Failed to read schema version: %v", err)
	}
	if version != ExpectedSchemaVersion {
		t.Errorf("Expected schema version %d, got %d", ExpectedSchemaVersion, version)
	}
}

func TestSaveAndGetListings(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	listings := createTestListings(3)
	if err := store.SaveListings(ctx, listings); err != nil {
		t.Fatalf("Failed to save listings: %v", err)
	}

	got, err := store.GetListings(ctx, "Samsung", "Galaxy A54")
	if err != nil {
		t.Fatalf("Failed to get listings: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("Expected 3 listings, got %d", len(got))
	}

	byURL := make(map[string]model.Listing)
	for _, l := range got {
		byURL[l.URL] = l
	}
	first, ok := byURL[listings[0].URL]
	if !ok {
		t.Fatalf("Listing %s not found", listings[0].URL)
	}
	if first.Price != 20000 {
		t.Errorf("Expected price 20000, got %d", first.Price)
	}
	if first.RAM != "8" || first.Storage != "128" {
		t.Errorf("Spec fields not round-tripped: ram=%q storage=%q", first.RAM, first.Storage)
	}
	if first.PublishedDate.IsZero() {
		t.Error("Expected published date to survive the round trip")
	}
}

func TestSaveListingsDuplicateURLIgnored(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	listings := createTestListings(1)
	if err := store.SaveListings(ctx, listings); err != nil {
		t.Fatalf("Failed to save listings: %v", err)
	}

	// Same URL with a different price should be ignored, not duplicated.
	listings[0].Price = 99999
	if err := store.SaveListings(ctx, listings); err != nil {
		t.Fatalf("Failed to save duplicate: %v", err)
	}

	got, err := store.GetListings(ctx, "Samsung", "Galaxy A54")
	if err != nil {
		t.Fatalf("Failed to get listings: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 listing, got %d", len(got))
	}
	if got[0].Price != 20000 {
		t.Errorf("Expected original price 20000, got %d", got[0].Price)
	}
}

func TestSaveListingsValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	if err := store.SaveListings(ctx, nil); err == nil {
		t.Error("Expected error for nil listings")
	}
	if err := store.SaveListings(ctx, []model.Listing{}); err == nil {
		t.Error("Expected error for empty listings")
	}
	if err := store.SaveListings(ctx, []model.Listing{{Price: 100}}); err == nil {
		t.Error("Expected error for listing without URL")
	}
}

func TestGetListingCount(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	count, err := store.GetListingCount(ctx)
	if err != nil {
		t.Fatalf("Failed to count listings: %v", err)
	}
	if count != 0 {
		t.Errorf("Expected 0 listings, got %d", count)
	}

	if err := store.SaveListings(ctx, createTestListings(5)); err != nil {
		t.Fatalf("Failed to save listings: %v", err)
	}

	count, err = store.GetListingCount(ctx)
	if err != nil {
		t.Fatalf("Failed to count listings: %v", err)
	}
	if count != 5 {
		t.Errorf("Expected 5 listings, got %d", count)
	}
}

func TestFilterNewURLs(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	listings := createTestListings(2)
	if err := store.SaveListings(ctx, listings); err != nil {
		t.Fatalf("Failed to save listings: %v", err)
	}

	urls := []string{
		listings[0].URL,
		"https://bikroy.com/en/ad/unseen-phone-1",
		listings[1].URL,
		"https://bikroy.com/en/ad/unseen-phone-2",
	}

	fresh, err := store.FilterNewURLs(ctx, urls)
	if err != nil {
		t.Fatalf("Failed to filter urls: %v", err)
	}
	if len(fresh) != 2 {
		t.Fatalf("Expected 2 new urls, got %d: %v", len(fresh), fresh)
	}
	if fresh[0] != "https://bikroy.com/en/ad/unseen-phone-1" {
		t.Errorf("Expected input order preserved, got %v", fresh)
	}
}

func TestFilterNewURLsEmpty(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	fresh, err := store.FilterNewURLs(context.Background(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fresh != nil {
		t.Errorf("Expected nil for empty input, got %v", fresh)
	}
}

func TestCatalogLookups(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	listings := createTestListings(2)
	listings = append(listings, model.Listing{
		URL:         "https://bikroy.com/en/ad/redmi-note-11-1",
		Brand:       "Xiaomi",
		Model:       "Redmi Note 11",
		Price:       15000,
		Location:    "Chattogram",
		Division:    "Chattogram",
		CameraPixel: "48",
	})
	if err := store.SaveListings(ctx, listings); err != nil {
		t.Fatalf("Failed to save listings: %v", err)
	}

	brands, err := store.GetBrands(ctx)
	if err != nil {
		t.Fatalf("Failed to get brands: %v", err)
	}
	if len(brands) != 2 || brands[0] != "Samsung" || brands[1] != "Xiaomi" {
		t.Errorf("Expected sorted [Samsung Xiaomi], got %v", brands)
	}

	models, err := store.GetModels(ctx, "Xiaomi")
	if err != nil {
		t.Fatalf("Failed to get models: %v", err)
	}
	if len(models) != 1 || models[0] != "Redmi Note 11" {
		t.Errorf("Expected [Redmi Note 11], got %v", models)
	}

	divisions, err := store.GetDivisions(ctx)
	if err != nil {
		t.Fatalf("Failed to get divisions: %v", err)
	}
	if len(divisions) != 2 {
		t.Errorf("Expected 2 divisions, got %v", divisions)
	}

	locations, err := store.GetLocationsByDivision(ctx)
	if err != nil {
		t.Fatalf("Failed to get locations: %v", err)
	}
	if len(locations["Dhaka"]) != 1 || locations["Dhaka"][0] != "Dhaka" {
		t.Errorf("Expected Dhaka division to contain [Dhaka], got %v", locations["Dhaka"])
	}

	cameras, err := store.GetTopCameraPixels(ctx, 10)
	if err != nil {
		t.Fatalf("Failed to get camera pixels: %v", err)
	}
	if len(cameras) != 2 || cameras[0] != "64" {
		t.Errorf("Expected 64 as the most frequent camera pixel, got %v", cameras)
	}
}
