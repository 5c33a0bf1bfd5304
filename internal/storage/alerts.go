package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/nijhum/phonepulse/internal/model"
)

// CreateAlert stores a price alert and returns its id. Optional filter
// fields are normalized before storage.
func (s *SQLiteStorage) CreateAlert(ctx context.Context, alert *model.Alert) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateAlert(alert); err != nil {
		return 0, err
	}
	alert.Normalize()

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO price_alerts
		(email, brand, model, target_price, condition, location, min_ram, min_storage, needs_warranty)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		alert.Email, alert.Brand, alert.Model, alert.TargetPrice,
		alert.Condition, alert.Location, alert.MinRAM, alert.MinStorage,
		boolToInt(alert.NeedsWarranty),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to create alert: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get alert id: %w", err)
	}
	alert.ID = id
	return id, nil
}

// GetAlertsByEmail returns all alerts registered for an email address,
// newest first.
func (s *SQLiteStorage) GetAlertsByEmail(ctx context.Context, email string) ([]model.Alert, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(email, "email"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, brand, model, target_price, condition, location,
		       min_ram, min_storage, needs_warranty, is_active,
		       created_at, last_checked, times_triggered
		FROM price_alerts
		WHERE email = ?
		ORDER BY created_at DESC, id DESC
	`, email)
	if err != nil {
		return nil, fmt.Errorf("failed to query alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanAlerts(rows)
}

// GetActiveAlerts returns all alerts still marked active.
func (s *SQLiteStorage) GetActiveAlerts(ctx context.Context) ([]model.Alert, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, brand, model, target_price, condition, location,
		       min_ram, min_storage, needs_warranty, is_active,
		       created_at, last_checked, times_triggered
		FROM price_alerts
		WHERE is_active = 1
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query active alerts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanAlerts(rows)
}

// DeleteAlert removes an alert by id.
func (s *SQLiteStorage) DeleteAlert(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM price_alerts WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("alert %d: %w", id, sql.ErrNoRows)
	}
	return nil
}

// MarkAlertTriggered records a trigger: bumps the counter and timestamps the
// check.
func (s *SQLiteStorage) MarkAlertTriggered(ctx context.Context, id int64, at time.Time) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateID(id, "id"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		UPDATE price_alerts
		SET last_checked = ?, times_triggered = times_triggered + 1
		WHERE id = ?
	`, at, id)
	if err != nil {
		return fmt.Errorf("failed to mark alert triggered: %w", err)
	}
	return nil
}

// FindAlertMatches returns the listings that satisfy an alert's price ceiling
// and optional spec filters.
func (s *SQLiteStorage) FindAlertMatches(ctx context.Context, alert model.Alert) ([]model.Listing, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := `
		SELECT url, title, brand, model, price, condition, location,
		       division, seller_name, ram, storage, battery, camera_pixel,
		       network, is_store, has_warranty, published_date, scraped_at
		FROM listings
		WHERE brand = ? AND model = ? AND price <= ?
	`
	args := []any{alert.Brand, alert.Model, alert.TargetPrice}

	if alert.Condition != "" && alert.Condition != model.AnyFilter {
		query += " AND condition = ?"
		args = append(args, alert.Condition)
	}
	if alert.Location != "" && alert.Location != model.AnyFilter {
		query += " AND location = ?"
		args = append(args, alert.Location)
	}
	if alert.MinRAM != "" && alert.MinRAM != model.AnyFilter {
		query += " AND CAST(ram AS INTEGER) >= CAST(? AS INTEGER)"
		args = append(args, alert.MinRAM)
	}
	if alert.MinStorage != "" && alert.MinStorage != model.AnyFilter {
		query += " AND CAST(storage AS INTEGER) >= CAST(? AS INTEGER)"
		args = append(args, alert.MinStorage)
	}
	if alert.NeedsWarranty {
		query += " AND has_warranty = 1"
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query alert matches: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanListings(rows)
}

func scanAlerts(rows *sql.Rows) ([]model.Alert, error) {
	var alerts []model.Alert
	for rows.Next() {
		var a model.Alert
		var condition, location, minRAM, minStorage sql.NullString
		var needsWarranty, isActive int
		var lastChecked sql.NullTime

		if err := rows.Scan(
			&a.ID, &a.Email, &a.Brand, &a.Model, &a.TargetPrice,
			&condition, &location, &minRAM, &minStorage,
			&needsWarranty, &isActive, &a.CreatedAt, &lastChecked,
			&a.TimesTriggered,
		); err != nil {
			return nil, fmt.Errorf("failed to scan alert: %w", err)
		}

		a.Condition = condition.String
		a.Location = location.String
		a.MinRAM = minRAM.String
		a.MinStorage = minStorage.String
		a.NeedsWarranty = needsWarranty == 1
		a.IsActive = isActive == 1
		if lastChecked.Valid {
			t := lastChecked.Time
			a.LastChecked = &t
		}

		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}
