package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/glossworks/detailing-ai-platform/internal/schedule"
	"github.com/glossworks/detailing-ai-platform/internal/tenancy"
	"github.com/glossworks/detailing-ai-platform/pkg/logging"
)

// AvailabilityHandler exposes the slot generator and conflict validator over
// HTTP for the web widget and conversational layer.
type AvailabilityHandler struct {
	engine   *schedule.Engine
	defaults schedule.SlotOptions
	logger   *logging.Logger
}

// NewAvailabilityHandler creates an availability HTTP handler. defaults fill
// in slot parameters the request leaves unset; zero fields fall back to the
// engine's own defaults.
func NewAvailabilityHandler(engine *schedule.Engine, defaults schedule.SlotOptions, logger *logging.Logger) *AvailabilityHandler {
	if engine == nil {
		panic("handlers: schedule engine required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &AvailabilityHandler{engine: engine, defaults: defaults, logger: logger}
}

type slotsResponse struct {
	BusinessID string          `json:"business_id"`
	Slots      []schedule.Slot `json:"slots"`
}

// GetSlots returns bookable slots for the tenant business.
// GET /api/availability/slots?days=14&duration=120&step=30
func (h *AvailabilityHandler) GetSlots(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "business id required"}`, http.StatusBadRequest)
		return
	}

	opts := h.defaults
	var err error
	if opts.Days, err = intQueryDefault(r, "days", opts.Days); err != nil {
		http.Error(w, `{"error": "days must be a positive integer"}`, http.StatusBadRequest)
		return
	}
	if opts.DurationMinutes, err = intQueryDefault(r, "duration", opts.DurationMinutes); err != nil {
		http.Error(w, `{"error": "duration must be a positive integer"}`, http.StatusBadRequest)
		return
	}
	if opts.StepMinutes, err = intQueryDefault(r, "step", opts.StepMinutes); err != nil {
		http.Error(w, `{"error": "step must be a positive integer"}`, http.StatusBadRequest)
		return
	}

	slots, err := h.engine.GenerateSlots(r.Context(), businessID, opts)
	if err != nil {
		h.logger.Error("slot generation failed", "business_id", businessID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	if slots == nil {
		slots = []schedule.Slot{}
	}
	writeJSON(w, http.StatusOK, slotsResponse{BusinessID: businessID, Slots: slots}, h.logger)
}

type validateRequest struct {
	Date            string `json:"date"` // "2026-01-05"
	Time            string `json:"time"` // "10:00 AM"
	Timezone        string `json:"timezone,omitempty"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
}

// Validate checks one requested time against the resolved busy set.
// POST /api/availability/validate
func (h *AvailabilityHandler) Validate(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "business id required"}`, http.StatusBadRequest)
		return
	}

	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, `{"error": "date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	result, err := h.engine.Validate(r.Context(), businessID, schedule.ValidateRequest{
		Date:            date,
		LocalTime:       req.Time,
		Timezone:        req.Timezone,
		DurationMinutes: req.DurationMinutes,
	})
	if err != nil {
		h.logger.Error("validation failed", "business_id", businessID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, result, h.logger)
}

func intQueryDefault(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
