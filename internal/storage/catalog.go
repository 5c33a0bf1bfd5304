package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// GetBrands returns the distinct brands present in the listings table.
func (s *SQLiteStorage) GetBrands(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryStrings(ctx, `
		SELECT DISTINCT brand FROM listings
		WHERE brand IS NOT NULL AND brand != ''
		ORDER BY brand
	`)
}

// GetModels returns the distinct models stored for a brand.
func (s *SQLiteStorage) GetModels(ctx context.Context, brand string) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(brand, "brand"); err != nil {
		return nil, err
	}
	return s.queryStrings(ctx, `
		SELECT DISTINCT model FROM listings
		WHERE brand = ? AND model IS NOT NULL AND model != ''
		ORDER BY model
	`, brand)
}

// GetDivisions returns the distinct administrative divisions seen in listings.
func (s *SQLiteStorage) GetDivisions(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryStrings(ctx, `
		SELECT DISTINCT division FROM listings
		WHERE division IS NOT NULL AND division != ''
		ORDER BY division
	`)
}

// GetLocationsByDivision returns locations grouped under their division.
func (s *SQLiteStorage) GetLocationsByDivision(ctx context.Context) (map[string][]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT location, division FROM listings
		WHERE location IS NOT NULL AND location != ''
		ORDER BY location
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string][]string)
	for rows.Next() {
		var location string
		var division sql.NullString
		if err := rows.Scan(&location, &division); err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		key := division.String
		if key == "" {
			key = "Other"
		}
		out[key] = append(out[key], location)
	}
	return out, rows.Err()
}

// GetTopCameraPixels returns the most frequent camera pixel values, for the
// estimator form's dropdown.
func (s *SQLiteStorage) GetTopCameraPixels(ctx context.Context, limit int) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return s.queryStrings(ctx, `
		SELECT camera_pixel FROM listings
		WHERE camera_pixel IS NOT NULL AND camera_pixel != '' AND camera_pixel != 'N/A'
		GROUP BY camera_pixel
		ORDER BY COUNT(*) DESC
		LIMIT ?
	`, limit)
}

func (s *SQLiteStorage) queryStrings(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("failed to scan value: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
