package storage

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/nijhum/phonepulse/internal/model"
)

// SaveListings saves scraped listings, skipping URLs already stored.
func (s *SQLiteStorage) SaveListings(ctx context.Context, listings []model.Listing) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateListings(listings); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := s.saveListingsTx(ctx, tx, listings); err != nil {
		return err
	}

	return tx.Commit()
}

func (s *SQLiteStorage) saveListingsTx(ctx context.Context, tx *sql.Tx, listings []model.Listing) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO listings (
			url, hash, title, brand, model, price, condition, location,
			division, seller_name, ram, storage, battery, camera_pixel,
			network, is_store, has_warranty, published_date, scraped_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range listings {
		l := &listings[i]

		var published any
		if !l.PublishedDate.IsZero() {
			published = l.PublishedDate
		}
		scrapedAt := l.ScrapedAt
		if scrapedAt.IsZero() {
			scrapedAt = time.Now()
		}

		if _, err := stmt.ExecContext(ctx,
			l.URL, l.GenerateHash(), l.Title, l.Brand, l.Model, l.Price,
			l.Condition, l.Location, l.Division, l.SellerName,
			l.RAM, l.Storage, l.Battery, l.CameraPixel, l.Network,
			boolToInt(l.IsStore), boolToInt(l.HasWarranty),
			published, scrapedAt,
		); err != nil {
			return fmt.Errorf("failed to save listing %s: %w", l.URL, err)
		}
	}

	return nil
}

// GetListings returns all stored listings for a brand and model.
func (s *SQLiteStorage) GetListings(ctx context.Context, brand, phoneModel string) ([]model.Listing, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(brand, "brand"); err != nil {
		return nil, err
	}
	if err := validateString(phoneModel, "phoneModel"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT url, title, brand, model, price, condition, location,
		       division, seller_name, ram, storage, battery, camera_pixel,
		       network, is_store, has_warranty, published_date, scraped_at
		FROM listings
		WHERE brand = ? AND model = ?
	`, brand, phoneModel)
	if err != nil {
		return nil, fmt.Errorf("failed to query listings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanListings(rows)
}

// GetListingCount returns the total number of stored listings.
func (s *SQLiteStorage) GetListingCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM listings").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// FilterNewURLs returns the subset of urls not yet stored, preserving order.
// The scraper uses this to skip detail pages it has already visited.
func (s *SQLiteStorage) FilterNewURLs(ctx context.Context, urls []string) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if len(urls) == 0 {
		return nil, nil
	}

	// SQLite caps bound parameters, so check in chunks.
	const chunkSize = 500

	known := make(map[string]struct{})
	for start := 0; start < len(urls); start += chunkSize {
		end := start + chunkSize
		if end > len(urls) {
			end = len(urls)
		}
		chunk := urls[start:end]

		placeholders := strings.Repeat("?,", len(chunk))
		placeholders = placeholders[:len(placeholders)-1]
		args := make([]any, len(chunk))
		for i, u := range chunk {
			args[i] = u
		}

		rows, err := s.db.QueryContext(ctx,
			"SELECT url FROM listings WHERE url IN ("+placeholders+")", args...)
		if err != nil {
			return nil, fmt.Errorf("failed to query existing urls: %w", err)
		}
		for rows.Next() {
			var u string
			if err := rows.Scan(&u); err != nil {
				_ = rows.Close()
				return nil, fmt.Errorf("failed to scan url: %w", err)
			}
			known[u] = struct{}{}
		}
		if err := rows.Err(); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to iterate urls: %w", err)
		}
		_ = rows.Close()
	}

	fresh := make([]string, 0, len(urls))
	for _, u := range urls {
		if _, ok := known[u]; !ok {
			fresh = append(fresh, u)
		}
	}
	return fresh, nil
}

// scanListings reads listing rows into models. Nullable columns degrade to
// zero values.
func scanListings(rows *sql.Rows) ([]model.Listing, error) {
	var listings []model.Listing
	for rows.Next() {
		var l model.Listing
		var title, condition, location, division, seller sql.NullString
		var ram, storage, battery, camera, network sql.NullString
		var isStore, hasWarranty sql.NullInt64
		var published, scrapedAt sql.NullTime

		if err := rows.Scan(
			&l.URL, &title, &l.Brand, &l.Model, &l.Price,
			&condition, &location, &division, &seller,
			&ram, &storage, &battery, &camera, &network,
			&isStore, &hasWarranty, &published, &scrapedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan listing: %w", err)
		}

		l.Title = title.String
		l.Condition = condition.String
		l.Location = location.String
		l.Division = division.String
		l.SellerName = seller.String
		l.RAM = ram.String
		l.Storage = storage.String
		l.Battery = battery.String
		l.CameraPixel = camera.String
		l.Network = network.String
		l.IsStore = isStore.Int64 == 1
		l.HasWarranty = hasWarranty.Int64 == 1
		if published.Valid {
			l.PublishedDate = published.Time
		}
		if scrapedAt.Valid {
			l.ScrapedAt = scrapedAt.Time
		}

		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
