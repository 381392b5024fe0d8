package server

import (
	"encoding/json"
	"net/http"

	"crypto-alerts-bot/internal/store"
	"crypto-alerts-bot/internal/types"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

type createAlertRequest struct {
	OwnerID   string   `json:"ownerId"`
	Asset     string   `json:"asset"`
	Direction string   `json:"direction"`
	Threshold *float64 `json:"threshold"`
}

type updateAlertRequest struct {
	OwnerID   string   `json:"ownerId"`
	AlertID   string   `json:"alertId"`
	Asset     *string  `json:"asset,omitempty"`
	Direction *string  `json:"direction,omitempty"`
	Threshold *float64 `json:"threshold,omitempty"`
}

type deleteAlertRequest struct {
	OwnerID string `json:"ownerId"`
	AlertID string `json:"alertId"`
}

func (s *Server) handleAlerts(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.listAlerts(w, r)
	case http.MethodPost:
		s.createAlert(w, r)
	case http.MethodPut, http.MethodPatch:
		s.updateAlert(w, r)
	case http.MethodDelete:
		s.deleteAlert(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) listAlerts(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	alerts, err := s.alerts.List(r.Context(), userID)
	if err != nil {
		log.Errorf("failed to list alerts for %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, alerts)
}

func (s *Server) createAlert(w http.ResponseWriter, r *http.Request) {
	var req createAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OwnerID == "" || req.Asset == "" || req.Threshold == nil {
		writeError(w, http.StatusBadRequest, "missing required fields: ownerId, asset, direction, threshold")
		return
	}

	created, err := s.alerts.Create(r.Context(), req.OwnerID, req.Asset, types.Direction(req.Direction), *req.Threshold)
	switch {
	case errors.Is(err, store.ErrQuotaExceeded):
		writeError(w, http.StatusForbidden, "quota exceeded")
	case errors.Is(err, store.ErrInvalidAlert):
		writeError(w, http.StatusBadRequest, "invalid alert fields")
	case err != nil:
		log.Errorf("failed to create alert for %s: %v", req.OwnerID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		writeJSON(w, http.StatusCreated, created)
	}
}

func (s *Server) updateAlert(w http.ResponseWriter, r *http.Request) {
	var req updateAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OwnerID == "" || req.AlertID == "" {
		writeError(w, http.StatusBadRequest, "missing required fields: ownerId, alertId")
		return
	}

	patch := store.AlertPatch{Asset: req.Asset, Threshold: req.Threshold}
	if req.Direction != nil {
		d := types.Direction(*req.Direction)
		patch.Direction = &d
	}

	updated, err := s.alerts.Update(r.Context(), req.OwnerID, req.AlertID, patch)
	switch {
	case errors.Is(err, store.ErrAlertNotFound):
		writeError(w, http.StatusNotFound, "alert not found")
	case errors.Is(err, store.ErrInvalidAlert):
		writeError(w, http.StatusBadRequest, "invalid alert fields")
	case err != nil:
		log.Errorf("failed to update alert %s for %s: %v", req.AlertID, req.OwnerID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	default:
		writeJSON(w, http.StatusOK, updated)
	}
}

func (s *Server) deleteAlert(w http.ResponseWriter, r *http.Request) {
	var req deleteAlertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.OwnerID == "" || req.AlertID == "" {
		writeError(w, http.StatusBadRequest, "missing required fields: ownerId, alertId")
		return
	}

	// deleting an absent alert succeeds; delete is idempotent
	if err := s.alerts.Delete(r.Context(), req.OwnerID, req.AlertID); err != nil {
		log.Errorf("failed to delete alert %s for %s: %v", req.AlertID, req.OwnerID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) handleUpgradeVIP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		writeError(w, http.StatusBadRequest, "missing userId")
		return
	}

	user, err := s.users.UpgradeVIP(r.Context(), userID)
	if err != nil {
		log.Errorf("failed to upgrade user %s: %v", userID, err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true, "vip": user.VIP})
}
