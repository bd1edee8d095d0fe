package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"
)

// CreateBookingRequest is the request body for POST /api/bookings.
type CreateBookingRequest struct {
	EventID string `json:"event_id"`
	Email   string `json:"email"`
}

// Validate implements helpers.Validator. The email shape is checked by the booking service.
func (req *CreateBookingRequest) Validate() []string {
	var errs []string
	req.EventID = strings.TrimSpace(req.EventID)
	if req.EventID == "" {
		errs = append(errs, "event_id is required")
	}
	if strings.TrimSpace(req.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// BookingSuccessResponse is the success response envelope for POST /api/bookings (201).
type BookingSuccessResponse struct {
	Data  *domain.Booking   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type BookingController struct {
	Logger   *slog.Logger
	Bookings domain.BookingService
	Metrics  *metrics.Metrics
}

func NewBookingController(logger *slog.Logger, bookings domain.BookingService, m *metrics.Metrics) *BookingController {
	return &BookingController{
		Logger:   logger,
		Bookings: bookings,
		Metrics:  m,
	}
}

// CreateBooking godoc
// @Summary Book a spot at an event
// @Description Books the event for the given email. The email is trimmed and lowercased; each email can book an event once. A confirmation email is sent when mail delivery is configured.
// @Tags bookings
// @Accept json
// @Produce json
// @Param booking body controllers.CreateBookingRequest true "Event id and visitor email"
// @Success 201 {object} controllers.BookingSuccessResponse "data contains the booking"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or already_booked"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 429 {object} helpers.APIResponse "error.code: too_many_requests"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/bookings [post]
func (c *BookingController) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req CreateBookingRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	booking, err := c.Bookings.Book(r.Context(), req.EventID, req.Email)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateBooking):
			c.Metrics.ObserveBooking(metrics.BookingDuplicate)
		case errors.Is(err, domain.ErrInvalidInput), errors.Is(err, domain.ErrNotFound):
			c.Metrics.ObserveBooking(metrics.BookingRejected)
		}
		if helpers.WriteDomainError(w, err) {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		return
	}
	c.Metrics.ObserveBooking(metrics.BookingCreated)
	helpers.WriteJSONSuccess(w, http.StatusCreated, booking)
}
