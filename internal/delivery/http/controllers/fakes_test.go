package controllers

import (
	"context"
	"io"
	"log/slog"

	"eventhub/internal/domain"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	createErr   error
	lastAttrs   domain.EventAttrs
	createCalls int
	listResult  []*domain.Event
	listTotal   int
	listErr     error
	lastParams  domain.PaginationParams
}

func (f *fakeEventService) Create(_ context.Context, attrs domain.EventAttrs) (*domain.Event, error) {
	f.createCalls++
	f.lastAttrs = attrs
	if f.createErr != nil {
		return nil, f.createErr
	}
	return &domain.Event{ID: "ev-1", Title: attrs.Title, Slug: "go-meetup", Image: attrs.Image, Agenda: attrs.Agenda, Tags: attrs.Tags}, nil
}

func (f *fakeEventService) GetBySlug(context.Context, string) (*domain.Event, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) GetByID(context.Context, string) (*domain.Event, error) {
	return nil, domain.ErrNotFound
}

func (f *fakeEventService) FindSimilar(context.Context, *domain.Event, int) ([]*domain.Event, error) {
	return nil, nil
}

func (f *fakeEventService) List(_ context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.lastParams = params
	return f.listResult, f.listTotal, f.listErr
}

// fakeQueryService implements domain.QueryService keyed by slug.
type fakeQueryService struct {
	events    map[string]*domain.Event
	err       error
	similar   []*domain.SimilarEvent
	lastSlug  string
	lastLimit int
}

func (f *fakeQueryService) GetEventPage(_ context.Context, slug string) (*domain.Event, error) {
	f.lastSlug = slug
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.events[slug]; ok {
		return e, nil
	}
	return nil, domain.NewNotFoundError(domain.EntityEvent)
}

func (f *fakeQueryService) GetSimilarEvents(_ context.Context, slug string, limit int) ([]*domain.SimilarEvent, error) {
	f.lastSlug = slug
	f.lastLimit = limit
	if limit <= 0 {
		return nil, domain.ErrInvalidArgument
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.similar, nil
}

// fakeBookingService implements domain.BookingService.
type fakeBookingService struct {
	bookErr     error
	lastEventID string
	lastEmail   string
	count       int
	countErr    error
}

func (f *fakeBookingService) Book(_ context.Context, eventID, email string) (*domain.Booking, error) {
	f.lastEventID = eventID
	f.lastEmail = email
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return &domain.Booking{ID: "bk-1", EventID: eventID, Email: email}, nil
}

func (f *fakeBookingService) CountForEvent(context.Context, string) (int, error) {
	return f.count, f.countErr
}

// fakeImageStore implements domain.ImageStore.
type fakeImageStore struct {
	saved    []byte
	filename string
	err      error
}

func (f *fakeImageStore) Save(_ context.Context, filename string, data []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.filename = filename
	f.saved = data
	return "http://localhost:8080/uploads/abc.jpg", nil
}

// fakeCalendar implements domain.CalendarExporter.
type fakeCalendar struct {
	err error
}

func (f *fakeCalendar) Export(e *domain.Event) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return "BEGIN:VCALENDAR\r\nSUMMARY:" + e.Title + "\r\nEND:VCALENDAR\r\n", nil
}
