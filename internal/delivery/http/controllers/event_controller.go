package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"
)

// Upload and field limits for event creation.
const (
	MaxUploadBytes   = 10 << 20
	MaxSimilarLimit  = 20
	maxShortField    = 200
	maxLongField     = 5000
	maxListItems     = 50
	formMemoryBuffer = 1 << 20
)

// CreateEventRequest is the request body for POST /api/events. Every accepted field is listed;
// slug, timestamps and the canonical date and time are derived by the server.
type CreateEventRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Overview    string   `json:"overview"`
	Image       string   `json:"image"`
	Venue       string   `json:"venue"`
	Location    string   `json:"location"`
	Date        string   `json:"date"`
	Time        string   `json:"time"`
	Mode        string   `json:"mode"`
	Audience    string   `json:"audience"`
	Agenda      []string `json:"agenda"`
	Organizer   string   `json:"organizer"`
	Tags        []string `json:"tags"`
}

// Validate implements helpers.Validator. Presence is checked by the event service so the
// first missing field is reported consistently; this only bounds sizes.
func (req *CreateEventRequest) Validate() []string {
	var errs []string
	short := map[string]string{
		"title": req.Title, "venue": req.Venue, "location": req.Location, "date": req.Date,
		"time": req.Time, "mode": req.Mode, "audience": req.Audience, "organizer": req.Organizer,
	}
	for _, name := range []string{"title", "venue", "location", "date", "time", "mode", "audience", "organizer"} {
		if utf8.RuneCountInString(short[name]) > maxShortField {
			errs = append(errs, fmt.Sprintf("%s must be at most %d characters", name, maxShortField))
		}
	}
	if utf8.RuneCountInString(req.Description) > maxLongField {
		errs = append(errs, fmt.Sprintf("description must be at most %d characters", maxLongField))
	}
	if utf8.RuneCountInString(req.Overview) > maxLongField {
		errs = append(errs, fmt.Sprintf("overview must be at most %d characters", maxLongField))
	}
	if len(req.Image) > maxLongField {
		errs = append(errs, "image URL is too long")
	}
	if len(req.Agenda) > maxListItems {
		errs = append(errs, fmt.Sprintf("agenda must have at most %d items", maxListItems))
	}
	if len(req.Tags) > maxListItems {
		errs = append(errs, fmt.Sprintf("tags must have at most %d items", maxListItems))
	}
	return errs
}

func (req *CreateEventRequest) attrs() domain.EventAttrs {
	return domain.EventAttrs{
		Title:       req.Title,
		Description: req.Description,
		Overview:    req.Overview,
		Image:       req.Image,
		Venue:       req.Venue,
		Location:    req.Location,
		Date:        req.Date,
		Time:        req.Time,
		Mode:        req.Mode,
		Audience:    req.Audience,
		Agenda:      req.Agenda,
		Organizer:   req.Organizer,
		Tags:        req.Tags,
	}
}

// EventSuccessResponse is the success response envelope for a single event.
type EventSuccessResponse struct {
	Data  *domain.Event     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListEventsResponse is the data of GET /api/events.
type ListEventsResponse struct {
	Events     []*domain.Event        `json:"events"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListEventsSuccessResponse is the success response envelope for GET /api/events (200).
type ListEventsSuccessResponse struct {
	Data  ListEventsResponse `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// EventPageResponse is the data of GET /api/events/{slug}.
type EventPageResponse struct {
	Event         *domain.Event `json:"event"`
	BookingsCount int           `json:"bookings_count"`
}

// EventPageSuccessResponse is the success response envelope for GET /api/events/{slug} (200).
type EventPageSuccessResponse struct {
	Data  EventPageResponse `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// SimilarEventsSuccessResponse is the success response envelope for GET /api/events/{slug}/similar (200).
type SimilarEventsSuccessResponse struct {
	Data  []*domain.SimilarEvent `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type EventController struct {
	Logger   *slog.Logger
	Events   domain.EventService
	Query    domain.QueryService
	Bookings domain.BookingService
	Images   domain.ImageStore
	Calendar domain.CalendarExporter
	Metrics  *metrics.Metrics
}

func NewEventController(
	logger *slog.Logger,
	events domain.EventService,
	query domain.QueryService,
	bookings domain.BookingService,
	images domain.ImageStore,
	calendar domain.CalendarExporter,
	m *metrics.Metrics,
) *EventController {
	return &EventController{
		Logger:   logger,
		Events:   events,
		Query:    query,
		Bookings: bookings,
		Images:   images,
		Calendar: calendar,
		Metrics:  m,
	}
}

func (c *EventController) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if helpers.WriteDomainError(w, err) {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	}
}

// ListEvents godoc
// @Summary List events
// @Description Returns one page of events, newest first.
// @Tags events
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param page_size query int false "Page size (max 50)" default(12)
// @Success 200 {object} controllers.ListEventsSuccessResponse "data contains events and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [get]
func (c *EventController) ListEvents(w http.ResponseWriter, r *http.Request) {
	params, err := helpers.ParsePagination(r)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	events, total, err := c.Events.List(r.Context(), params)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if events == nil {
		events = []*domain.Event{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListEventsResponse{
		Events:     events,
		Pagination: helpers.NewPaginationMeta(params, total),
	})
}

// CreateEvent godoc
// @Summary Create an event
// @Description Creates an event from a JSON body or a multipart form. In a form, agenda and tags accept a JSON array, a comma or newline separated string, or repeated fields, and an "image" file part replaces the image URL. The slug is derived from the title and must be unique.
// @Tags events
// @Accept json
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param event body controllers.CreateEventRequest true "Event data"
// @Success 201 {object} controllers.EventSuccessResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request or duplicate_slug"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events [post]
func (c *EventController) CreateEvent(w http.ResponseWriter, r *http.Request) {
	var req CreateEventRequest
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" || mediaType == "application/x-www-form-urlencoded" {
		if !c.decodeForm(w, r, &req) {
			return
		}
	} else if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	event, err := c.Events.Create(r.Context(), req.attrs())
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	c.Metrics.EventCreated()
	c.Logger.InfoContext(r.Context(), "event created", "event_id", event.ID, "slug", event.Slug)
	helpers.WriteJSONSuccess(w, http.StatusCreated, event)
}

var formFields = map[string]struct{}{
	"title": {}, "description": {}, "overview": {}, "image": {}, "venue": {}, "location": {},
	"date": {}, "time": {}, "mode": {}, "audience": {}, "agenda": {}, "organizer": {}, "tags": {},
}

// decodeForm fills req from a form post, storing an uploaded image when one is attached.
// It writes the error response and returns false on failure.
func (c *EventController) decodeForm(w http.ResponseWriter, r *http.Request, req *CreateEventRequest) bool {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(formMemoryBuffer); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "invalid form data: "+err.Error())
		return false
	}
	for key := range r.PostForm {
		if _, ok := formFields[key]; !ok {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, fmt.Sprintf("unknown field %q", key))
			return false
		}
	}
	form := r.PostForm
	req.Title = form.Get("title")
	req.Description = form.Get("description")
	req.Overview = form.Get("overview")
	req.Image = form.Get("image")
	req.Venue = form.Get("venue")
	req.Location = form.Get("location")
	req.Date = form.Get("date")
	req.Time = form.Get("time")
	req.Mode = form.Get("mode")
	req.Audience = form.Get("audience")
	req.Organizer = form.Get("organizer")
	var err error
	if req.Agenda, err = parseFormList(form["agenda"]); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "agenda: "+err.Error())
		return false
	}
	if req.Tags, err = parseFormList(form["tags"]); err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "tags: "+err.Error())
		return false
	}
	if !helpers.Validate(w, req) {
		return false
	}

	if r.MultipartForm == nil || len(r.MultipartForm.File["image"]) == 0 {
		return true
	}
	if c.Images == nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "image uploads are not enabled")
		return false
	}
	header := r.MultipartForm.File["image"][0]
	file, err := header.Open()
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "cannot read image upload")
		return false
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "cannot read image upload")
		return false
	}
	url, err := c.Images.Save(r.Context(), header.Filename, data)
	if err != nil {
		c.writeError(w, r, err)
		return false
	}
	req.Image = url
	return true
}

// parseFormList accepts repeated fields, a JSON array string, or a comma or newline separated string.
func parseFormList(values []string) ([]string, error) {
	if len(values) != 1 {
		return values, nil
	}
	raw := strings.TrimSpace(values[0])
	if strings.HasPrefix(raw, "[") {
		var list []string
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, errors.New("must be a JSON array of strings")
		}
		return list, nil
	}
	return strings.FieldsFunc(raw, func(r rune) bool { return r == ',' || r == '\n' }), nil
}

// GetEvent godoc
// @Summary Get an event page
// @Description Returns the event with the given slug and how many people have booked it.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Success 200 {object} controllers.EventPageSuccessResponse "data contains the event and bookings_count"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{slug} [get]
func (c *EventController) GetEvent(w http.ResponseWriter, r *http.Request) {
	event, err := c.Query.GetEventPage(r.Context(), r.PathValue("slug"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	count, err := c.Bookings.CountForEvent(r.Context(), event.ID)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, EventPageResponse{Event: event, BookingsCount: count})
}

// GetSimilarEvents godoc
// @Summary Get similar events
// @Description Returns events sharing at least one tag with the given event, never the event itself. An unknown slug yields an empty list.
// @Tags events
// @Produce json
// @Param slug path string true "Event slug"
// @Param limit query int false "Maximum number of events (max 20)" default(3)
// @Success 200 {object} controllers.SimilarEventsSuccessResponse "data is an array of similar events"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{slug}/similar [get]
func (c *EventController) GetSimilarEvents(w http.ResponseWriter, r *http.Request) {
	limit := domain.DefaultSimilarLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil {
			helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "limit must be an integer")
			return
		}
		limit = min(v, MaxSimilarLimit)
	}
	similar, err := c.Query.GetSimilarEvents(r.Context(), r.PathValue("slug"), limit)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	if similar == nil {
		similar = []*domain.SimilarEvent{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, similar)
}

// ExportCalendar godoc
// @Summary Export an event to iCalendar
// @Description Returns the event as a single-event .ics document.
// @Tags events
// @Produce text/calendar
// @Param slug path string true "Event slug"
// @Success 200 {string} string "iCalendar document"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /api/events/{slug}/calendar.ics [get]
func (c *EventController) ExportCalendar(w http.ResponseWriter, r *http.Request) {
	event, err := c.Query.GetEventPage(r.Context(), r.PathValue("slug"))
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	doc, err := c.Calendar.Export(event)
	if err != nil {
		c.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", event.Slug+".ics"))
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, doc)
}
