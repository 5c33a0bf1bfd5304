package server

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/nijhum/phonepulse/internal/alert"
	"github.com/nijhum/phonepulse/internal/intel"
	"github.com/nijhum/phonepulse/internal/model"
	"github.com/nijhum/phonepulse/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	service.Storage

	listings map[string][]model.Listing
	brands   []string
	models   map[string][]string
	alerts   []model.Alert
	nextID   int64

	listingsErr error
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{
		listings: make(map[string][]model.Listing),
		models:   make(map[string][]string),
		nextID:   1,
	}
}

func marketKey(brand, phoneModel string) string {
	return brand + "|" + phoneModel
}

func (f *fakeStorage) GetListings(_ context.Context, brand, phoneModel string) ([]model.Listing, error) {
	if f.listingsErr != nil {
		return nil, f.listingsErr
	}
	return f.listings[marketKey(brand, phoneModel)], nil
}

func (f *fakeStorage) GetListingCount(context.Context) (int, error) {
	n := 0
	for _, l := range f.listings {
		n += len(l)
	}
	return n, nil
}

func (f *fakeStorage) GetBrands(context.Context) ([]string, error) {
	return f.brands, nil
}

func (f *fakeStorage) GetModels(_ context.Context, brand string) ([]string, error) {
	return f.models[brand], nil
}

func (f *fakeStorage) GetDivisions(context.Context) ([]string, error) {
	return []string{"Dhaka"}, nil
}

func (f *fakeStorage) GetLocationsByDivision(context.Context) (map[string][]string, error) {
	return map[string][]string{"Dhaka": {"Mirpur", "Dhanmondi"}}, nil
}

func (f *fakeStorage) GetTopCameraPixels(context.Context, int) ([]string, error) {
	return []string{"50 MP", "108 MP"}, nil
}

func (f *fakeStorage) CreateAlert(_ context.Context, a *model.Alert) (int64, error) {
	a.ID = f.nextID
	f.nextID++
	f.alerts = append(f.alerts, *a)
	return a.ID, nil
}

func (f *fakeStorage) GetAlertsByEmail(_ context.Context, email string) ([]model.Alert, error) {
	var out []model.Alert
	for _, a := range f.alerts {
		if a.Email == email {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeStorage) GetActiveAlerts(context.Context) ([]model.Alert, error) {
	return nil, nil
}

func (f *fakeStorage) DeleteAlert(_ context.Context, id int64) error {
	for i, a := range f.alerts {
		if a.ID == id {
			f.alerts = append(f.alerts[:i], f.alerts[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("failed to delete alert %d: %w", id, sql.ErrNoRows)
}

func testListings(n, price int) []model.Listing {
	listings := make([]model.Listing, 0, n)
	for i := 0; i < n; i++ {
		listings = append(listings, model.Listing{
			URL:           fmt.Sprintf("https://example.com/%d", i),
			Title:         fmt.Sprintf("Listing %d", i),
			Brand:         "Samsung",
			Model:         "Galaxy A54",
			Price:         price + i*500,
			Condition:     "Used",
			Location:      "Mirpur",
			RAM:           "8 GB",
			Storage:       "128 GB",
			Battery:       "5000 mAh",
			CameraPixel:   "50 MP",
			Network:       "5G",
			PublishedDate: time.Now().AddDate(0, 0, -i),
		})
	}
	return listings
}

func testServer(t *testing.T, storage *fakeStorage) *Server {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := intel.NewAnalyzer(intel.DefaultConfig())
	alerts := alert.NewService(storage, nil, logger)

	srv, err := New(DefaultConfig(), storage, analyzer, alerts, nil, logger)
	require.NoError(t, err)
	return srv
}

func doRequest(t *testing.T, srv *Server, method, target string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	rec := httptest.NewRecorder()
	srv.Routes().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGetBrands(t *testing.T) {
	storage := newFakeStorage()
	storage.brands = []string{"Samsung", "Xiaomi"}
	srv := testServer(t, storage)

	rec := doRequest(t, srv, http.MethodGet, "/get_Brands", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var brands []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &brands))
	assert.Equal(t, []string{"Samsung", "Xiaomi"}, brands)
}

func TestGetModelsRequiresBrand(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodGet, "/get_Models", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Brand parameter required", decodeBody(t, rec)["error"])
}

func TestGetModels(t *testing.T) {
	storage := newFakeStorage()
	storage.models["Samsung"] = []string{"Galaxy A54", "Galaxy S23"}
	srv := testServer(t, storage)

	rec := doRequest(t, srv, http.MethodGet, "/get_Models?Brand=Samsung", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var models []string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &models))
	assert.Len(t, models, 2)
}

func TestSearchRequiresParams(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodGet, "/search?Brand=Samsung", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Brand and Model parameters required", decodeBody(t, rec)["error"])
}

func TestSearchNoListings(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodGet, "/search?Brand=Samsung&Model=Unknown", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "No listings found", decodeBody(t, rec)["error"])
}

func TestSearch(t *testing.T) {
	storage := newFakeStorage()
	storage.listings[marketKey("Samsung", "Galaxy A54")] = testListings(5, 30000)
	srv := testServer(t, storage)

	rec := doRequest(t, srv, http.MethodGet, "/search?Brand=Samsung&Model=Galaxy+A54", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	var report model.MarketReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.True(t, report.Success)
	assert.Equal(t, 5, report.Stats.Count)
	assert.Len(t, report.Listings, 5)
}

func TestCompare(t *testing.T) {
	storage := newFakeStorage()
	storage.listings[marketKey("Samsung", "Galaxy A54")] = testListings(4, 30000)
	storage.listings[marketKey("Xiaomi", "Redmi Note 13")] = testListings(4, 24000)
	srv := testServer(t, storage)

	rec := doRequest(t, srv, http.MethodGet,
		"/compare?BrandA=Samsung&ModelA=Galaxy+A54&BrandB=Xiaomi&ModelB=Redmi+Note+13", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Contains(t, body, "comparison")
}

func TestCompareMissingSide(t *testing.T) {
	storage := newFakeStorage()
	storage.listings[marketKey("Samsung", "Galaxy A54")] = testListings(4, 30000)
	srv := testServer(t, storage)

	rec := doRequest(t, srv, http.MethodGet,
		"/compare?BrandA=Samsung&ModelA=Galaxy+A54&BrandB=Nokia&ModelB=3310", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "No listings found for Nokia 3310", body["error"])
}

func TestCreateAlert(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodPost, "/create_alert", map[string]any{
		"email":        "buyer@example.com",
		"brand":        "Samsung",
		"model":        "Galaxy A54",
		"target_price": 28000,
	})

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, float64(1), body["alert_id"])
	assert.Equal(t, "✅ Alert created!", body["message"])
}

func TestCreateAlertInvalidEmail(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodPost, "/create_alert", map[string]any{
		"email":        "not-an-email",
		"brand":        "Samsung",
		"model":        "Galaxy A54",
		"target_price": 28000,
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email address", decodeBody(t, rec)["error"])
}

func TestCreateAlertMissingField(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodPost, "/create_alert", map[string]any{
		"email": "buyer@example.com",
		"brand": "Samsung",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decodeBody(t, rec)["success"])
}

func TestMyAlerts(t *testing.T) {
	storage := newFakeStorage()
	srv := testServer(t, storage)

	doRequest(t, srv, http.MethodPost, "/create_alert", map[string]any{
		"email":        "buyer@example.com",
		"brand":        "Samsung",
		"model":        "Galaxy A54",
		"target_price": 28000,
	})

	rec := doRequest(t, srv, http.MethodGet, "/my_alerts?email=buyer@example.com", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Len(t, body["alerts"], 1)
}

func TestMyAlertsInvalidEmail(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodGet, "/my_alerts?email=nope", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Invalid email", decodeBody(t, rec)["error"])
}

func TestDeleteAlert(t *testing.T) {
	storage := newFakeStorage()
	srv := testServer(t, storage)

	doRequest(t, srv, http.MethodPost, "/create_alert", map[string]any{
		"email":        "buyer@example.com",
		"brand":        "Samsung",
		"model":        "Galaxy A54",
		"target_price": 28000,
	})

	rec := doRequest(t, srv, http.MethodDelete, "/delete_alert/1", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alert deleted", decodeBody(t, rec)["message"])
	assert.Empty(t, storage.alerts)
}

func TestDeleteAlertNotFound(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodDelete, "/delete_alert/99", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Alert not found", decodeBody(t, rec)["error"])
}

func TestCheckAlerts(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodGet, "/check_alerts", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Checked 0 alerts, triggered 0", body["message"])
}

func TestFormOptions(t *testing.T) {
	storage := newFakeStorage()
	storage.brands = []string{"Samsung"}
	srv := testServer(t, storage)

	rec := doRequest(t, srv, http.MethodGet, "/get_form_options", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.Contains(t, body, "brands")
	assert.Contains(t, body, "locations")
	assert.Equal(t, []any{"4G", "5G"}, body["networks"])
	assert.Equal(t, []any{"New", "Used"}, body["conditions"])
}

func TestEstimatePrice(t *testing.T) {
	storage := newFakeStorage()
	storage.listings[marketKey("Samsung", "Galaxy A54")] = testListings(6, 30000)
	srv := testServer(t, storage)

	rec := doRequest(t, srv, http.MethodPost, "/estimate_price", map[string]any{
		"Brand":   "Samsung",
		"Model":   "Galaxy A54",
		"RAM":     "8 GB",
		"Storage": "128 GB",
	})

	require.Equal(t, http.StatusOK, rec.Code)
	var estimate model.PriceEstimate
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &estimate))
	assert.True(t, estimate.Success)
	assert.Positive(t, estimate.PredictedPrice)
}

func TestEstimatePriceNoListings(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodPost, "/estimate_price", map[string]any{
		"Brand": "Nokia",
		"Model": "3310",
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "No listings found for Nokia 3310", decodeBody(t, rec)["error"])
}

func TestEstimatePriceRateLimited(t *testing.T) {
	storage := newFakeStorage()
	storage.listings[marketKey("Samsung", "Galaxy A54")] = testListings(6, 30000)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	analyzer := intel.NewAnalyzer(intel.DefaultConfig())
	alerts := alert.NewService(storage, nil, logger)

	cfg := DefaultConfig()
	cfg.EstimateRateLimit = 2
	srv, err := New(cfg, storage, analyzer, alerts, nil, logger)
	require.NoError(t, err)

	payload := map[string]any{"Brand": "Samsung", "Model": "Galaxy A54"}
	for i := 0; i < 2; i++ {
		rec := doRequest(t, srv, http.MethodPost, "/estimate_price", payload)
		require.Equal(t, http.StatusOK, rec.Code)
	}

	rec := doRequest(t, srv, http.MethodPost, "/estimate_price", payload)
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate limit exceeded", decodeBody(t, rec)["error"])
}

func TestUnknownEndpoint(t *testing.T) {
	srv := testServer(t, newFakeStorage())

	rec := doRequest(t, srv, http.MethodGet, "/nope", nil)

	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Endpoint not found", decodeBody(t, rec)["error"])
}
