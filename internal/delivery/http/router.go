package http

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/adapters/image"
	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
)

// RouterConfig holds the controllers and guards mounted by NewRouter.
type RouterConfig struct {
	Events   *controllers.EventController
	Bookings *controllers.BookingController
	// RequireAdmin guards event creation; nil leaves it open.
	RequireAdmin func(http.HandlerFunc) http.HandlerFunc
	// BookingLimiter throttles POST /api/bookings per client IP; nil disables it.
	BookingLimiter *middleware.RateLimiter
	// UploadDir is served under /uploads/ when set.
	UploadDir string
	// Ping reports storage health for /healthz; nil always reports ok.
	Ping func(ctx context.Context) error
}

// HealthResponse is the data of GET /healthz.
type HealthResponse struct {
	Status string `json:"status"`
}

// NewRouter initializes the HTTP router with all application routes
func NewRouter(cfg RouterConfig) *http.ServeMux {
	mux := http.NewServeMux()

	createEvent := cfg.Events.CreateEvent
	if cfg.RequireAdmin != nil {
		createEvent = cfg.RequireAdmin(createEvent)
	}
	createBooking := cfg.Bookings.CreateBooking
	if cfg.BookingLimiter != nil {
		createBooking = cfg.BookingLimiter.Limit(createBooking)
	}

	// API Routes
	mux.HandleFunc("GET /api/events", cfg.Events.ListEvents)
	mux.HandleFunc("POST /api/events", createEvent)
	mux.HandleFunc("GET /api/events/{slug}", cfg.Events.GetEvent)
	mux.HandleFunc("GET /api/events/{slug}/similar", cfg.Events.GetSimilarEvents)
	mux.HandleFunc("GET /api/events/{slug}/calendar.ics", cfg.Events.ExportCalendar)
	mux.HandleFunc("POST /api/bookings", createBooking)

	// Uploaded images
	if cfg.UploadDir != "" {
		mux.Handle("GET "+image.URLPrefix, http.StripPrefix(image.URLPrefix, http.FileServer(http.Dir(cfg.UploadDir))))
	}

	// Ops
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if cfg.Ping != nil {
			if err := cfg.Ping(r.Context()); err != nil {
				helpers.WriteJSONError(w, http.StatusServiceUnavailable, helpers.ErrCodeInternalError, "storage unavailable")
				return
			}
		}
		helpers.WriteJSONSuccess(w, http.StatusOK, HealthResponse{Status: "ok"})
	})
	mux.Handle("GET /metrics", promhttp.Handler())

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
