package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nijhum/phonepulse/internal/model"
)

// Validation errors.
var (
	ErrNilContext     = errors.New("context cannot be nil")
	ErrEmptyString    = errors.New("string parameter cannot be empty")
	ErrNilParameter   = errors.New("parameter cannot be nil")
	ErrEmptySlice     = errors.New("slice cannot be empty")
	ErrInvalidID      = errors.New("id must be positive")
	ErrInvalidListing = errors.New("invalid listing")
	ErrInvalidAlert   = errors.New("invalid alert")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateID ensures a row id is positive.
func validateID(id int64, paramName string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s", ErrInvalidID, paramName)
	}
	return nil
}

// validateListings validates a slice of listings.
func validateListings(listings []model.Listing) error {
	if listings == nil {
		return fmt.Errorf("%w: listings", ErrNilParameter)
	}
	if len(listings) == 0 {
		return fmt.Errorf("%w: listings", ErrEmptySlice)
	}

	for i := range listings {
		if err := listings[i].Validate(); err != nil {
			return fmt.Errorf("%w: listing at index %d: %v", ErrInvalidListing, i, err)
		}
	}
	return nil
}

// validateAlert validates an alert before it is stored.
func validateAlert(alert *model.Alert) error {
	if alert == nil {
		return fmt.Errorf("%w: alert", ErrNilParameter)
	}
	if err := alert.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAlert, err)
	}
	return nil
}
