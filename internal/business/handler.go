package business

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/glossworks/detailing-ai-platform/pkg/logging"
)

// Handler provides HTTP endpoints for business calendar management.
type Handler struct {
	store  *Store
	logger *logging.Logger
}

// NewHandler creates a new business calendar HTTP handler.
func NewHandler(store *Store, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{
		store:  store,
		logger: logger,
	}
}

// Routes returns a chi router with business admin routes.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{businessID}/config", h.GetConfig)
	r.Put("/{businessID}/config", h.UpdateConfig)
	r.Post("/{businessID}/config", h.UpdateConfig)
	return r
}

// GetConfig returns the calendar configuration for a business.
// GET /admin/businesses/{businessID}/config
func (h *Handler) GetConfig(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if businessID == "" {
		http.Error(w, `{"error": "business_id required"}`, http.StatusBadRequest)
		return
	}

	cal, err := h.store.Get(r.Context(), businessID)
	if err != nil {
		h.logger.Error("failed to get business calendar", "business_id", businessID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cal); err != nil {
		h.logger.Error("failed to encode business calendar", "business_id", businessID, "error", err)
	}
}

// UpdateConfigRequest is the request body for updating a business calendar.
type UpdateConfigRequest struct {
	Name                   string   `json:"name,omitempty"`
	Timezone               string   `json:"timezone,omitempty"`
	Hours                  *Hours   `json:"business_hours,omitempty"`
	ExternalCalendarID     *string  `json:"external_calendar_id,omitempty"`
	Services               []string `json:"services,omitempty"`
	DefaultDurationMinutes *int     `json:"default_duration_minutes,omitempty"`
}

// UpdateConfig creates or updates the calendar configuration for a business.
// PUT /admin/businesses/{businessID}/config
func (h *Handler) UpdateConfig(w http.ResponseWriter, r *http.Request) {
	businessID := chi.URLParam(r, "businessID")
	if businessID == "" {
		http.Error(w, `{"error": "business_id required"}`, http.StatusBadRequest)
		return
	}

	var req UpdateConfigRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}

	if req.Timezone != "" {
		if _, err := time.LoadLocation(req.Timezone); err != nil {
			http.Error(w, `{"error": "unknown timezone"}`, http.StatusBadRequest)
			return
		}
	}

	cal, err := h.store.Get(r.Context(), businessID)
	if err != nil {
		h.logger.Error("failed to get business calendar", "business_id", businessID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	if req.Name != "" {
		cal.Name = req.Name
	}
	if req.Timezone != "" {
		cal.Timezone = req.Timezone
	}
	if req.Hours != nil {
		cal.Hours = *req.Hours
	}
	if req.ExternalCalendarID != nil {
		cal.ExternalCalendarID = *req.ExternalCalendarID
	}
	if req.Services != nil {
		cal.Services = req.Services
	}
	if req.DefaultDurationMinutes != nil {
		cal.DefaultDurationMinutes = *req.DefaultDurationMinutes
	}

	if err := h.store.Set(r.Context(), cal); err != nil {
		h.logger.Error("failed to save business calendar", "business_id", businessID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	h.logger.Info("business calendar updated", "business_id", businessID, "timezone", cal.Timezone)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(cal); err != nil {
		h.logger.Error("failed to encode business calendar", "business_id", businessID, "error", err)
	}
}
