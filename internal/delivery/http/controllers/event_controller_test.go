package controllers

import (
	"bytes"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/domain"
	"eventhub/internal/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Data  json.RawMessage   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

func decodeEnvelope(t *testing.T, rr *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	return env
}

type eventControllerDeps struct {
	events   *fakeEventService
	query    *fakeQueryService
	bookings *fakeBookingService
	images   *fakeImageStore
	calendar *fakeCalendar
}

func newTestEventController() (*EventController, *eventControllerDeps) {
	deps := &eventControllerDeps{
		events:   &fakeEventService{},
		query:    &fakeQueryService{events: map[string]*domain.Event{}},
		bookings: &fakeBookingService{},
		images:   &fakeImageStore{},
		calendar: &fakeCalendar{},
	}
	c := NewEventController(testLogger, deps.events, deps.query, deps.bookings, deps.images, deps.calendar, metrics.New(prometheus.NewRegistry()))
	return c, deps
}

const validEventJSON = `{
	"title": "Go Meetup",
	"description": "Monthly gathering",
	"overview": "Talks and pizza",
	"image": "https://cdn.example.com/go.png",
	"venue": "Hall A",
	"location": "Berlin",
	"date": "March 15, 2025",
	"time": "6:30 pm",
	"mode": "offline",
	"audience": "developers",
	"agenda": ["Welcome", "Talks"],
	"organizer": "Go Berlin",
	"tags": ["go", "meetup"]
}`

func TestEventController_CreateEvent_JSON(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		createErr  error
		wantStatus int
		wantCode   string
		wantField  string
		wantCalled bool
	}{
		{
			name:       "success",
			body:       validEventJSON,
			wantStatus: http.StatusCreated,
			wantCalled: true,
		},
		{
			name:       "malformed json",
			body:       `{"title":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "unknown field rejected",
			body:       `{"title":"Go","slug":"custom"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "title too long",
			body:       `{"title":"` + strings.Repeat("a", maxShortField+1) + `"}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
		},
		{
			name:       "validation error names the field",
			body:       validEventJSON,
			createErr:  domain.NewValidationError("date", "cannot be parsed"),
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeBadRequest,
			wantField:  "date",
			wantCalled: true,
		},
		{
			name:       "duplicate slug",
			body:       validEventJSON,
			createErr:  domain.ErrDuplicateSlug,
			wantStatus: http.StatusBadRequest,
			wantCode:   helpers.ErrCodeDuplicateSlug,
			wantField:  "slug",
			wantCalled: true,
		},
		{
			name:       "storage failure",
			body:       validEventJSON,
			createErr:  errors.New("connection reset"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   helpers.ErrCodeInternalError,
			wantCalled: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, deps := newTestEventController()
			deps.events.createErr = tt.createErr

			req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()
			c.CreateEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantCalled, deps.events.createCalls == 1)
			env := decodeEnvelope(t, rr)
			if tt.wantCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
				assert.Equal(t, tt.wantField, env.Error.Field)
				assert.NotContains(t, env.Error.Message, "connection reset")
				return
			}
			assert.Nil(t, env.Error)
			var event domain.Event
			require.NoError(t, json.Unmarshal(env.Data, &event))
			assert.Equal(t, "go-meetup", event.Slug)
			assert.Equal(t, []string{"Welcome", "Talks"}, deps.events.lastAttrs.Agenda)
			assert.Equal(t, "6:30 pm", deps.events.lastAttrs.Time)
		})
	}
}

func newMultipartRequest(t *testing.T, fields map[string][]string, image []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, mw.WriteField(key, v))
		}
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "poster.png")
		require.NoError(t, err)
		_, err = fw.Write(image)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/events", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestEventController_CreateEvent_Multipart(t *testing.T) {
	fields := map[string][]string{
		"title":  {"Go Meetup"},
		"agenda": {`["Welcome", "Talks"]`},
		"tags":   {"go, meetup\ncommunity"},
	}

	t.Run("image upload replaces image url", func(t *testing.T) {
		c, deps := newTestEventController()
		rr := httptest.NewRecorder()
		c.CreateEvent(rr, newMultipartRequest(t, fields, []byte("png-bytes")))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, "poster.png", deps.images.filename)
		assert.Equal(t, []byte("png-bytes"), deps.images.saved)
		attrs := deps.events.lastAttrs
		assert.Equal(t, "http://localhost:8080/uploads/abc.jpg", attrs.Image)
		assert.Equal(t, "Go Meetup", attrs.Title)
		assert.Equal(t, []string{"Welcome", "Talks"}, attrs.Agenda)
		assert.Equal(t, []string{"go", " meetup", "community"}, attrs.Tags)
	})

	t.Run("repeated fields", func(t *testing.T) {
		c, deps := newTestEventController()
		rr := httptest.NewRecorder()
		c.CreateEvent(rr, newMultipartRequest(t, map[string][]string{"tags": {"go", "cloud"}}, nil))

		require.Equal(t, http.StatusCreated, rr.Code)
		assert.Equal(t, []string{"go", "cloud"}, deps.events.lastAttrs.Tags)
		assert.Nil(t, deps.images.saved)
	})

	t.Run("unknown field", func(t *testing.T) {
		c, deps := newTestEventController()
		rr := httptest.NewRecorder()
		c.CreateEvent(rr, newMultipartRequest(t, map[string][]string{"slug": {"mine"}}, nil))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, deps.events.createCalls)
	})

	t.Run("bad json list", func(t *testing.T) {
		c, deps := newTestEventController()
		rr := httptest.NewRecorder()
		c.CreateEvent(rr, newMultipartRequest(t, map[string][]string{"agenda": {"[1, 2"}}, nil))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		env := decodeEnvelope(t, rr)
		require.NotNil(t, env.Error)
		assert.Contains(t, env.Error.Message, "agenda")
		assert.Zero(t, deps.events.createCalls)
	})

	t.Run("undecodable image", func(t *testing.T) {
		c, deps := newTestEventController()
		deps.images.err = domain.NewValidationError("image", "unsupported image format")
		rr := httptest.NewRecorder()
		c.CreateEvent(rr, newMultipartRequest(t, fields, []byte("not an image")))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		env := decodeEnvelope(t, rr)
		require.NotNil(t, env.Error)
		assert.Equal(t, "image", env.Error.Field)
		assert.Zero(t, deps.events.createCalls)
	})

	t.Run("uploads disabled", func(t *testing.T) {
		c, deps := newTestEventController()
		c.Images = nil
		rr := httptest.NewRecorder()
		c.CreateEvent(rr, newMultipartRequest(t, fields, []byte("png-bytes")))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Zero(t, deps.events.createCalls)
	})
}

func TestEventController_CreateEvent_URLEncoded(t *testing.T) {
	c, deps := newTestEventController()
	form := url.Values{"title": {"Go Meetup"}, "agenda": {"Welcome,Talks"}, "tags": {"go"}}
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	c.CreateEvent(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, []string{"Welcome", "Talks"}, deps.events.lastAttrs.Agenda)
	assert.Equal(t, []string{"go"}, deps.events.lastAttrs.Tags)
}

func TestEventController_ListEvents(t *testing.T) {
	t.Run("page with meta", func(t *testing.T) {
		c, deps := newTestEventController()
		deps.events.listResult = []*domain.Event{{ID: "ev-2", Slug: "b"}, {ID: "ev-1", Slug: "a"}}
		deps.events.listTotal = 5

		rr := httptest.NewRecorder()
		c.ListEvents(rr, httptest.NewRequest(http.MethodGet, "/api/events?page=2&page_size=2", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, domain.PaginationParams{Page: 2, PageSize: 2}, deps.events.lastParams)
		var data ListEventsResponse
		require.NoError(t, json.Unmarshal(decodeEnvelope(t, rr).Data, &data))
		assert.Len(t, data.Events, 2)
		assert.Equal(t, helpers.PaginationMeta{Page: 2, PageSize: 2, Total: 5, TotalPages: 3}, data.Pagination)
	})

	t.Run("empty list is an array", func(t *testing.T) {
		c, _ := newTestEventController()
		rr := httptest.NewRecorder()
		c.ListEvents(rr, httptest.NewRequest(http.MethodGet, "/api/events", nil))

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"events":[]`)
	})

	t.Run("bad page", func(t *testing.T) {
		c, deps := newTestEventController()
		rr := httptest.NewRecorder()
		c.ListEvents(rr, httptest.NewRequest(http.MethodGet, "/api/events?page=zero", nil))

		require.Equal(t, http.StatusBadRequest, rr.Code)
		env := decodeEnvelope(t, rr)
		assert.Equal(t, helpers.ErrCodeBadRequest, env.Error.Code)
		assert.Equal(t, "page", env.Error.Field)
		assert.Equal(t, domain.PaginationParams{}, deps.events.lastParams)
	})

	t.Run("storage failure", func(t *testing.T) {
		c, deps := newTestEventController()
		deps.events.listErr = domain.ErrStorageUnavailable
		rr := httptest.NewRecorder()
		c.ListEvents(rr, httptest.NewRequest(http.MethodGet, "/api/events", nil))

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestEventController_GetEvent(t *testing.T) {
	event := &domain.Event{ID: "ev-1", Title: "Go Meetup", Slug: "go-meetup"}

	tests := []struct {
		name       string
		slug       string
		queryErr   error
		countErr   error
		wantStatus int
		wantCode   string
	}{
		{name: "found", slug: "go-meetup", wantStatus: http.StatusOK},
		{name: "missing", slug: "nope", wantStatus: http.StatusNotFound, wantCode: helpers.ErrCodeNotFound},
		{name: "blank slug", slug: " ", queryErr: domain.ErrInvalidArgument, wantStatus: http.StatusBadRequest, wantCode: helpers.ErrCodeBadRequest},
		{name: "count failure", slug: "go-meetup", countErr: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantCode: helpers.ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, deps := newTestEventController()
			deps.query.events["go-meetup"] = event
			deps.query.err = tt.queryErr
			deps.bookings.count = 7
			deps.bookings.countErr = tt.countErr

			req := httptest.NewRequest(http.MethodGet, "/api/events/"+tt.slug, nil)
			req.SetPathValue("slug", tt.slug)
			rr := httptest.NewRecorder()
			c.GetEvent(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			env := decodeEnvelope(t, rr)
			if tt.wantCode != "" {
				require.NotNil(t, env.Error)
				assert.Equal(t, tt.wantCode, env.Error.Code)
				return
			}
			var page EventPageResponse
			require.NoError(t, json.Unmarshal(env.Data, &page))
			assert.Equal(t, "ev-1", page.Event.ID)
			assert.Equal(t, 7, page.BookingsCount)
		})
	}
}

func TestEventController_GetSimilarEvents(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		similar    []*domain.SimilarEvent
		wantStatus int
		wantLimit  int
		wantBody   string
	}{
		{name: "default limit", wantStatus: http.StatusOK, wantLimit: domain.DefaultSimilarLimit, wantBody: `"data":[]`},
		{name: "explicit limit", query: "?limit=5", similar: []*domain.SimilarEvent{{ID: "ev-2", Slug: "rust-meetup"}}, wantStatus: http.StatusOK, wantLimit: 5, wantBody: `"slug":"rust-meetup"`},
		{name: "limit capped", query: "?limit=500", wantStatus: http.StatusOK, wantLimit: MaxSimilarLimit},
		{name: "non-numeric limit", query: "?limit=abc", wantStatus: http.StatusBadRequest},
		{name: "zero limit", query: "?limit=0", wantStatus: http.StatusBadRequest, wantLimit: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, deps := newTestEventController()
			deps.query.similar = tt.similar
			deps.query.lastLimit = -1

			req := httptest.NewRequest(http.MethodGet, "/api/events/go-meetup/similar"+tt.query, nil)
			req.SetPathValue("slug", "go-meetup")
			rr := httptest.NewRecorder()
			c.GetSimilarEvents(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusOK || tt.query == "?limit=0" {
				assert.Equal(t, tt.wantLimit, deps.query.lastLimit)
				assert.Equal(t, "go-meetup", deps.query.lastSlug)
			}
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
		})
	}
}

func TestEventController_ExportCalendar(t *testing.T) {
	t.Run("ics document", func(t *testing.T) {
		c, deps := newTestEventController()
		deps.query.events["go-meetup"] = &domain.Event{ID: "ev-1", Title: "Go Meetup", Slug: "go-meetup"}

		req := httptest.NewRequest(http.MethodGet, "/api/events/go-meetup/calendar.ics", nil)
		req.SetPathValue("slug", "go-meetup")
		rr := httptest.NewRecorder()
		c.ExportCalendar(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		assert.Equal(t, "text/calendar; charset=utf-8", rr.Header().Get("Content-Type"))
		assert.Equal(t, `attachment; filename="go-meetup.ics"`, rr.Header().Get("Content-Disposition"))
		assert.Contains(t, rr.Body.String(), "SUMMARY:Go Meetup")
	})

	t.Run("missing event", func(t *testing.T) {
		c, _ := newTestEventController()
		req := httptest.NewRequest(http.MethodGet, "/api/events/nope/calendar.ics", nil)
		req.SetPathValue("slug", "nope")
		rr := httptest.NewRecorder()
		c.ExportCalendar(rr, req)

		require.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("export failure", func(t *testing.T) {
		c, deps := newTestEventController()
		deps.query.events["go-meetup"] = &domain.Event{ID: "ev-1", Slug: "go-meetup"}
		deps.calendar.err = errors.New("bad date")
		req := httptest.NewRequest(http.MethodGet, "/api/events/go-meetup/calendar.ics", nil)
		req.SetPathValue("slug", "go-meetup")
		rr := httptest.NewRecorder()
		c.ExportCalendar(rr, req)

		require.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}
