// Package alert manages price-drop alerts: registration, matching against
// stored listings, and email notification of triggered alerts.
package alert

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/model"
	"github.com/nijhum/phonepulse/internal/service"
)

// Service coordinates alert storage, matching and notification.
type Service struct {
	storage  service.Storage
	notifier service.Notifier
	logger   *slog.Logger
	now      func() time.Time
}

// NewService creates an alert service. notifier may be nil, in which case
// triggered alerts are logged but not delivered.
func NewService(storage service.Storage, notifier service.Notifier, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		storage:  storage,
		notifier: notifier,
		logger:   logger,
		now:      time.Now,
	}
}

// Create validates and stores a new alert.
func (s *Service) Create(ctx context.Context, alert *model.Alert) (int64, error) {
	if err := alert.Validate(); err != nil {
		return 0, common.NewUserError(err.Error(), err)
	}
	alert.Normalize()

	id, err := s.storage.CreateAlert(ctx, alert)
	if err != nil {
		return 0, fmt.Errorf("failed to create alert: %w", err)
	}

	s.logger.Info("Alert created",
		"id", id,
		"email", alert.Email,
		"phone", alert.Brand+" "+alert.Model,
		"target_price", alert.TargetPrice)
	return id, nil
}

// List returns all alerts registered for an email address.
func (s *Service) List(ctx context.Context, email string) ([]model.Alert, error) {
	if !model.ValidEmail(email) {
		return nil, common.ErrInvalidEmail
	}
	alerts, err := s.storage.GetAlertsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to list alerts: %w", err)
	}
	return alerts, nil
}

// Delete removes an alert by id.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteAlert(ctx, id); err != nil {
		return fmt.Errorf("failed to delete alert: %w", err)
	}
	s.logger.Info("Alert deleted", "id", id)
	return nil
}

// CheckResult summarizes one alert sweep.
type CheckResult struct {
	Checked   int `json:"alerts_checked"`
	Triggered int `json:"alerts_triggered"`
}

// CheckAll sweeps every active alert against the stored listings, notifying
// and marking the ones that matched. A notification failure skips the
// trigger update so the alert fires again on the next sweep.
func (s *Service) CheckAll(ctx context.Context) (CheckResult, error) {
	alerts, err := s.storage.GetActiveAlerts(ctx)
	if err != nil {
		return CheckResult{}, fmt.Errorf("failed to load active alerts: %w", err)
	}

	result := CheckResult{Checked: len(alerts)}
	for _, alert := range alerts {
		matches, err := s.storage.FindAlertMatches(ctx, alert)
		if err != nil {
			s.logger.Error("Alert match query failed", "id", alert.ID, "error", err)
			continue
		}
		if len(matches) == 0 {
			continue
		}

		if s.notifier != nil {
			if err := s.notifier.NotifyAlert(ctx, alert, matches); err != nil {
				s.logger.Error("Alert notification failed", "id", alert.ID, "error", err)
				continue
			}
		} else {
			s.logger.Info("Alert matched (no notifier configured)",
				"id", alert.ID, "matches", len(matches))
		}

		if err := s.storage.MarkAlertTriggered(ctx, alert.ID, s.now()); err != nil {
			s.logger.Error("Failed to mark alert triggered", "id", alert.ID, "error", err)
			continue
		}
		result.Triggered++
	}

	s.logger.Info("Alert sweep complete",
		"checked", result.Checked,
		"triggered", result.Triggered)
	return result, nil
}
