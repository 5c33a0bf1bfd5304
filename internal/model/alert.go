package model

import (
	"fmt"
	"regexp"
	"time"
)

// AnyFilter marks an alert filter field as unconstrained.
const AnyFilter = "Any"

var emailPattern = regexp.MustCompile(`^[\w.-]+@[\w.-]+\.\w+$`)

// Alert is a stored price-drop alert.
type Alert struct {
	CreatedAt      time.Time  `json:"created_at"`
	LastChecked    *time.Time `json:"last_checked,omitempty"`
	Email          string     `json:"email"`
	Brand          string     `json:"brand"`
	Model          string     `json:"model"`
	Condition      string     `json:"condition"`
	Location       string     `json:"location"`
	MinRAM         string     `json:"min_ram"`
	MinStorage     string     `json:"min_storage"`
	ID             int64      `json:"id"`
	TargetPrice    int        `json:"target_price"`
	TimesTriggered int        `json:"times_triggered"`
	NeedsWarranty  bool       `json:"needs_warranty"`
	IsActive       bool       `json:"is_active"`
}

// Validate checks the fields required to store an alert.
func (a *Alert) Validate() error {
	if !ValidEmail(a.Email) {
		return fmt.Errorf("invalid email address")
	}
	if a.Brand == "" {
		return fmt.Errorf("missing required field: brand")
	}
	if a.Model == "" {
		return fmt.Errorf("missing required field: model")
	}
	if a.TargetPrice <= 0 {
		return fmt.Errorf("missing required field: target_price")
	}
	return nil
}

// Normalize fills optional filter fields with the unconstrained marker.
func (a *Alert) Normalize() {
	if a.Condition == "" {
		a.Condition = AnyFilter
	}
	if a.Location == "" {
		a.Location = AnyFilter
	}
	if a.MinRAM == "" {
		a.MinRAM = AnyFilter
	}
	if a.MinStorage == "" {
		a.MinStorage = AnyFilter
	}
}

// ValidEmail reports whether s looks like an email address.
func ValidEmail(s string) bool {
	return emailPattern.MatchString(s)
}
