// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Listing represents a single secondhand-phone listing scraped from the
// marketplace, plus the deal/trust fields derived during market analysis.
type Listing struct {
	PublishedDate time.Time `json:"-"`
	ScrapedAt     time.Time `json:"-"`

	URL        string `json:"url"`
	Title      string `json:"-"`
	Brand      string `json:"-"`
	Model      string `json:"-"`
	Condition  string `json:"condition"`
	Location   string `json:"location"`
	Division   string `json:"-"`
	SellerName string `json:"seller_name"`

	// Spec fields are kept as strings: the marketplace publishes them
	// inconsistently and "N/A" is a legitimate value.
	RAM         string `json:"ram"`
	Storage     string `json:"storage"`
	Battery     string `json:"battery"`
	CameraPixel string `json:"Camera_Pixel"`
	Network     string `json:"Network"`

	Price       int  `json:"price"`
	IsStore     bool `json:"-"`
	HasWarranty bool `json:"-"`

	// Derived during analysis; zero-valued until then.
	DealType    string   `json:"deal_type"`
	DealLabel   string   `json:"deal_label"`
	DealMsg     string   `json:"deal_msg"`
	PriceDiff   int      `json:"price_diff"`
	TrustScore  int      `json:"trust_score"`
	TrustBadges []string `json:"trust_badges"`

	PublishedDateString string `json:"published_date"`
}

// GenerateHash creates a stable hash for duplicate detection across scrapes.
func (l *Listing) GenerateHash() string {
	data := fmt.Sprintf("%s:%d:%s", l.URL, l.Price, l.PublishedDate.Format("2006-01-02"))
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}

// Validate ensures the listing carries the minimum fields worth persisting.
func (l *Listing) Validate() error {
	if l.URL == "" {
		return fmt.Errorf("listing URL is required")
	}
	if l.Price < 0 {
		return fmt.Errorf("listing price must be non-negative, got %d", l.Price)
	}
	return nil
}

// SpecValue parses a numeric spec string, degrading to 0 for absent or
// non-numeric values ("N/A", ""). Callers treat 0 as "cannot earn points".
func SpecValue(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "n/a") {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// Deal type values assigned by market analysis.
const (
	DealGreat      = "great"
	DealFair       = "fair"
	DealAverage    = "average"
	DealOverpriced = "overpriced"
)

// Trust badge labels attached to listings.
const (
	BadgeVerifiedStore = "🏪 Verified Store"
	BadgeWarranty      = "✅ Warranty"
)
