package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/nijhum/phonepulse/internal/common"
	"github.com/nijhum/phonepulse/internal/compare"
	"github.com/nijhum/phonepulse/internal/model"
)

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil && logger != nil {
		logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(s.logger, w, status, map[string]any{"success": false, "error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	count, err := s.storage.GetListingCount(r.Context())
	if err != nil {
		s.logger.Error("health check failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"status":   "ok",
		"listings": count,
	})
}

func (s *Server) handleGetBrands(w http.ResponseWriter, r *http.Request) {
	brands, err := s.storage.GetBrands(r.Context())
	if err != nil {
		s.logger.Error("failed to fetch brands", "error", err)
		brands = []string{}
	}
	if brands == nil {
		brands = []string{}
	}
	writeJSON(s.logger, w, http.StatusOK, brands)
}

func (s *Server) handleGetModels(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("Brand")
	if brand == "" {
		writeJSON(s.logger, w, http.StatusBadRequest, map[string]any{"error": "Brand parameter required"})
		return
	}

	models, err := s.storage.GetModels(r.Context(), brand)
	if err != nil {
		s.logger.Error("failed to fetch models", "brand", brand, "error", err)
		models = []string{}
	}
	if models == nil {
		models = []string{}
	}
	writeJSON(s.logger, w, http.StatusOK, models)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	brand := r.URL.Query().Get("Brand")
	phoneModel := r.URL.Query().Get("Model")
	if brand == "" || phoneModel == "" {
		writeJSON(s.logger, w, http.StatusBadRequest, map[string]any{"error": "Brand and Model parameters required"})
		return
	}

	s.logger.Info("search request", "brand", brand, "model", phoneModel)

	if s.cache != nil {
		if report, ok := s.cache.Get(r.Context(), brand, phoneModel); ok {
			writeJSON(s.logger, w, http.StatusOK, report)
			return
		}
	}

	report, err := s.analyzeMarket(r, brand, phoneModel)
	if err != nil {
		if errors.Is(err, common.ErrNoListings) {
			writeJSON(s.logger, w, http.StatusOK, map[string]any{"error": "No listings found"})
			return
		}
		s.logger.Error("search failed", "brand", brand, "model", phoneModel, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	if s.cache != nil {
		if err := s.cache.Set(r.Context(), brand, phoneModel, report); err != nil {
			s.logger.Warn("failed to cache report", "error", err)
		}
	}

	writeJSON(s.logger, w, http.StatusOK, report)
}

func (s *Server) analyzeMarket(r *http.Request, brand, phoneModel string) (*model.MarketReport, error) {
	listings, err := s.storage.GetListings(r.Context(), brand, phoneModel)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Analyze(brand, phoneModel, listings)
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	brandA, modelA := q.Get("BrandA"), q.Get("ModelA")
	brandB, modelB := q.Get("BrandB"), q.Get("ModelB")
	if brandA == "" || modelA == "" || brandB == "" || modelB == "" {
		writeJSON(s.logger, w, http.StatusBadRequest, map[string]any{"error": "BrandA, ModelA, BrandB and ModelB parameters required"})
		return
	}

	summaryA, err := s.summarize(r, brandA, modelA)
	if err != nil {
		s.respondSummaryError(w, brandA, modelA, err)
		return
	}
	summaryB, err := s.summarize(r, brandB, modelB)
	if err != nil {
		s.respondSummaryError(w, brandB, modelB, err)
		return
	}

	result := compare.Score(*summaryA, *summaryB)
	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"success":    true,
		"phone_a":    summaryA,
		"phone_b":    summaryB,
		"comparison": result,
	})
}

func (s *Server) summarize(r *http.Request, brand, phoneModel string) (*model.PhoneSummary, error) {
	listings, err := s.storage.GetListings(r.Context(), brand, phoneModel)
	if err != nil {
		return nil, err
	}
	return s.analyzer.Summarize(brand, phoneModel, listings)
}

func (s *Server) respondSummaryError(w http.ResponseWriter, brand, phoneModel string, err error) {
	if errors.Is(err, common.ErrNoListings) {
		s.writeError(w, http.StatusOK, fmt.Sprintf("No listings found for %s %s", brand, phoneModel))
		return
	}
	s.logger.Error("compare failed", "brand", brand, "model", phoneModel, "error", err)
	s.writeError(w, http.StatusInternalServerError, "Internal server error")
}

func (s *Server) handleCreateAlert(w http.ResponseWriter, r *http.Request) {
	var alert model.Alert
	if err := json.NewDecoder(r.Body).Decode(&alert); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if !model.ValidEmail(alert.Email) {
		s.writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}

	id, err := s.alerts.Create(r.Context(), &alert)
	if err != nil {
		var userErr *common.UserError
		if errors.As(err, &userErr) {
			s.writeError(w, http.StatusBadRequest, userErr.UserMessage)
			return
		}
		s.logger.Error("failed to create alert", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"success":  true,
		"alert_id": id,
		"message":  "✅ Alert created!",
	})
}

func (s *Server) handleMyAlerts(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")

	alerts, err := s.alerts.List(r.Context(), email)
	if err != nil {
		if errors.Is(err, common.ErrInvalidEmail) {
			s.writeError(w, http.StatusBadRequest, "Invalid email")
			return
		}
		s.logger.Error("failed to fetch alerts", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if alerts == nil {
		alerts = []model.Alert{}
	}

	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"success": true,
		"alerts":  alerts,
	})
}

func (s *Server) handleDeleteAlert(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeError(w, http.StatusBadRequest, "Invalid alert id")
		return
	}

	if err := s.alerts.Delete(r.Context(), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.writeError(w, http.StatusNotFound, "Alert not found")
			return
		}
		s.logger.Error("failed to delete alert", "id", id, "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"success": true,
		"message": "Alert deleted",
	})
}

func (s *Server) handleCheckAlerts(w http.ResponseWriter, r *http.Request) {
	result, err := s.alerts.CheckAll(r.Context())
	if err != nil {
		s.logger.Error("alert check failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"success": true,
		"message": fmt.Sprintf("Checked %d alerts, triggered %d", result.Checked, result.Triggered),
	})
}

func (s *Server) handleFormOptions(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	brands, err := s.storage.GetBrands(ctx)
	if err != nil {
		s.respondFormOptionsError(w, err)
		return
	}
	divisions, err := s.storage.GetDivisions(ctx)
	if err != nil {
		s.respondFormOptionsError(w, err)
		return
	}
	locations, err := s.storage.GetLocationsByDivision(ctx)
	if err != nil {
		s.respondFormOptionsError(w, err)
		return
	}
	cameras, err := s.storage.GetTopCameraPixels(ctx, 10)
	if err != nil {
		s.respondFormOptionsError(w, err)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"brands":       brands,
		"divisions":    divisions,
		"locations":    locations,
		"cameras":      cameras,
		"networks":     []string{"4G", "5G"},
		"camera_types": []string{"Single", "Dual", "Triple", "Quad"},
		"conditions":   []string{"New", "Used"},
	})
}

func (s *Server) respondFormOptionsError(w http.ResponseWriter, err error) {
	s.logger.Error("failed to build form options", "error", err)
	writeJSON(s.logger, w, http.StatusInternalServerError, map[string]any{"error": "Internal server error"})
}

func (s *Server) handleEstimatePrice(w http.ResponseWriter, r *http.Request) {
	var req model.EstimateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Brand == "" || req.Model == "" {
		s.writeError(w, http.StatusBadRequest, "Brand and Model are required")
		return
	}

	listings, err := s.storage.GetListings(r.Context(), req.Brand, req.Model)
	if err != nil {
		s.logger.Error("estimate lookup failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	estimate, err := s.analyzer.Estimate(req, listings)
	if err != nil {
		if errors.Is(err, common.ErrNoListings) {
			s.writeError(w, http.StatusBadRequest, fmt.Sprintf("No listings found for %s %s", req.Brand, req.Model))
			return
		}
		s.logger.Error("estimate failed", "error", err)
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	writeJSON(s.logger, w, http.StatusOK, estimate)
}
