package sheets

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nijhum/phonepulse/internal/model"
)

// CSVWriter exports the listing table of a market report to a CSV file.
// It is the fallback for environments without Google Sheets credentials.
type CSVWriter struct {
	path string
}

// NewCSVWriter returns a writer that exports to the given file path.
func NewCSVWriter(path string) (*CSVWriter, error) {
	if path == "" {
		return nil, fmt.Errorf("csv: output path is empty")
	}
	return &CSVWriter{path: path}, nil
}

// Write writes the report listings (truncating any previous file) and
// returns the output path.
func (c *CSVWriter) Write(ctx context.Context, report *model.MarketReport) (string, error) {
	if report == nil {
		return "", fmt.Errorf("csv: nil report")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(filepath.Dir(c.path), 0o750); err != nil {
		return "", fmt.Errorf("csv: create output dir: %w", err)
	}

	f, err := os.Create(c.path)
	if err != nil {
		return "", fmt.Errorf("csv: create file %q: %w", c.path, err)
	}
	defer func() { _ = f.Close() }()

	w := csv.NewWriter(f)

	header := []string{
		"brand", "model", "title", "price", "deal", "condition", "location",
		"ram", "storage", "trust_score", "published_date", "url",
	}
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("csv: write header: %w", err)
	}

	for _, l := range report.Listings {
		published := ""
		if !l.PublishedDate.IsZero() {
			published = l.PublishedDate.Format(time.RFC3339)
		}
		row := []string{
			report.Stats.Brand,
			report.Stats.Model,
			l.Title,
			strconv.Itoa(l.Price),
			l.DealLabel,
			l.Condition,
			l.Location,
			l.RAM,
			l.Storage,
			strconv.Itoa(l.TrustScore),
			published,
			l.URL,
		}
		if err := w.Write(row); err != nil {
			return "", fmt.Errorf("csv: write row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return "", fmt.Errorf("csv: flush: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("csv: close file: %w", err)
	}

	return c.path, nil
}
