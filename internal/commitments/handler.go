package commitments

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/glossworks/detailing-ai-platform/internal/tenancy"
	"github.com/glossworks/detailing-ai-platform/pkg/logging"
)

// Handler exposes booking endpoints to the conversational and web layers.
type Handler struct {
	service *Service
	repo    Repository
	logger  *logging.Logger
}

// NewHandler creates a bookings HTTP handler.
func NewHandler(service *Service, repo Repository, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{service: service, repo: repo, logger: logger}
}

// Routes returns a chi router with booking routes. The business id comes
// from the tenancy middleware.
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.CreateBooking)
	r.Get("/{id}", h.GetBooking)
	r.Delete("/{id}", h.CancelBooking)
	return r
}

type createBookingRequest struct {
	Date            string `json:"date"` // "2026-01-05"
	Time            string `json:"time"` // "10:00 AM"
	DurationMinutes int    `json:"duration_minutes"`
	Kind            string `json:"kind,omitempty"`
	Title           string `json:"title,omitempty"`
	CustomerName    string `json:"customer_name,omitempty"`
	CustomerPhone   string `json:"customer_phone,omitempty"`
	Vehicle         string `json:"vehicle,omitempty"`
}

// CreateBooking validates and books an appointment.
// POST /api/bookings
func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "business id required"}`, http.StatusBadRequest)
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error": "invalid JSON body"}`, http.StatusBadRequest)
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		http.Error(w, `{"error": "date must be YYYY-MM-DD"}`, http.StatusBadRequest)
		return
	}

	outcome, err := h.service.Book(r.Context(), businessID, BookingRequest{
		Date:            date,
		LocalTime:       req.Time,
		DurationMinutes: req.DurationMinutes,
		Kind:            Kind(req.Kind),
		Title:           req.Title,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
		Vehicle:         req.Vehicle,
	})
	if err != nil {
		h.logger.Error("booking failed", "business_id", businessID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}

	status := http.StatusCreated
	if !outcome.Booked() {
		status = http.StatusConflict
	}
	writeJSON(w, status, outcome, h.logger)
}

// GetBooking returns one commitment.
// GET /api/bookings/{id}
func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "business id required"}`, http.StatusBadRequest)
		return
	}

	c, err := h.repo.GetByID(r.Context(), businessID, chi.URLParam(r, "id"))
	if errors.Is(err, ErrCommitmentNotFound) {
		http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("get booking failed", "business_id", businessID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, c, h.logger)
}

// CancelBooking cancels a commitment.
// DELETE /api/bookings/{id}
func (h *Handler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	businessID, ok := tenancy.BusinessIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error": "business id required"}`, http.StatusBadRequest)
		return
	}

	err := h.service.Cancel(r.Context(), businessID, chi.URLParam(r, "id"))
	if errors.Is(err, ErrCommitmentNotFound) {
		http.Error(w, `{"error": "not found"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		h.logger.Error("cancel booking failed", "business_id", businessID, "error", err)
		http.Error(w, `{"error": "internal server error"}`, http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any, logger *logging.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", "error", err)
	}
}
