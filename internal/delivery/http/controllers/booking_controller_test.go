package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingController_CreateBooking(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		bookErr    error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "success",
			body:       `{"event_id":"ev-1","email":"ada@example.com"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:       "missing email",
			body:       `{"event_id":"ev-1"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "missing event id",
			body:       `{"event_id":"  ","email":"ada@example.com"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "unknown field",
			body:       `{"event_id":"ev-1","email":"ada@example.com","name":"Ada"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "malformed email",
			body:       `{"event_id":"ev-1","email":"not-an-email"}`,
			bookErr:    domain.NewValidationError("email", "must be a valid email address"),
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
			wantField:  "email",
		},
		{
			name:       "unknown event",
			body:       `{"event_id":"ev-404","email":"ada@example.com"}`,
			bookErr:    domain.NewNotFoundError(domain.EntityEvent),
			wantStatus: http.StatusNotFound,
			wantCode:   helpers.ErrCodeNotFound,
		},
		{
			name:       "already booked",
			body:       `{"event_id":"ev-1","email":"ada@example.com"}`,
			bookErr:    domain.ErrDuplicateBooking,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeAlreadyBooked,
			wantField:  "email",
		},
		{
			name:       "storage failure",
			body:       `{"event_id":"ev-1","email":"ada@example.com"}`,
			bookErr:    errors.New("write timeout"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &fakeBookingService{bookErr: tt.bookErr}
			c := NewBookingController(testLogger, svc, metrics.New(prometheus.NewRegistry()))

			req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			c.CreateBooking(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			env := decodeEnvelope(t, rr)
			if tt.wantCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
				assert.Equal(t, tt.wantField, env.Error.Field)
				return
			}
			var booking domain.Booking
			require.NoError(t, json.Unmarshal(env.Data, &booking))
			assert.Equal(t, "bk-1", booking.ID)
			assert.Equal(t, "ev-1", svc.lastEventID)
			assert.Equal(t, "ada@example.com", svc.lastEmail)
		})
	}
}
