package services

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"eventhub/internal/domain"
)

// fakeEventRepo is an in-memory EventRepository for tests. Slugs are unique.
type fakeEventRepo struct {
	mu     sync.Mutex
	byID   map[string]*domain.Event
	order  []string
	nextID int
	err    error // if set, every call returns this error
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{
		byID:   make(map[string]*domain.Event),
		nextID: 1,
	}
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.byID {
		if existing.Slug == e.Slug {
			return domain.ErrDuplicateSlug
		}
	}
	e.ID = fmt.Sprintf("ev-%d", f.nextID)
	f.nextID++
	f.byID[e.ID] = e
	f.order = append(f.order, e.ID)
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if e, ok := f.byID[id]; ok {
		return e, nil
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	for _, e := range f.byID {
		if e.Slug == slug {
			return e, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeEventRepo) FindByTags(ctx context.Context, tags []string, excludeID string, limit int) ([]*domain.Event, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	want := make(map[string]bool, len(tags))
	for _, t := range tags {
		want[t] = true
	}
	var out []*domain.Event
	for _, id := range f.order {
		e := f.byID[id]
		if id == excludeID {
			continue
		}
		for _, t := range e.Tags {
			if want[t] {
				out = append(out, e)
				break
			}
		}
		if len(out) == limit {
			break
		}
	}
	return out, nil
}

func (f *fakeEventRepo) List(ctx context.Context, params domain.PaginationParams) ([]*domain.Event, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, 0, f.err
	}
	all := make([]*domain.Event, 0, len(f.order))
	for _, id := range f.order {
		all = append(all, f.byID[id])
	}
	// newest first, like the real stores
	sort.SliceStable(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	start := params.Offset()
	if start >= len(all) {
		return nil, len(all), nil
	}
	end := min(start+params.PageSize, len(all))
	return all[start:end], len(all), nil
}

// fakeBookingRepo enforces (event, email) uniqueness under a lock, like a unique index.
type fakeBookingRepo struct {
	mu       sync.Mutex
	bookings []*domain.Booking
	nextID   int
	err      error
}

func newFakeBookingRepo() *fakeBookingRepo {
	return &fakeBookingRepo{nextID: 1}
}

func (f *fakeBookingRepo) Create(ctx context.Context, b *domain.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	for _, existing := range f.bookings {
		if existing.EventID == b.EventID && existing.Email == b.Email {
			return domain.ErrDuplicateBooking
		}
	}
	b.ID = fmt.Sprintf("bk-%d", f.nextID)
	f.nextID++
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeBookingRepo) CountByEventID(ctx context.Context, eventID string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	n := 0
	for _, b := range f.bookings {
		if b.EventID == eventID {
			n++
		}
	}
	return n, nil
}

type fakeEmailService struct {
	mu   sync.Mutex
	sent []*domain.BookingConfirmationEmailData
	err  error
}

func (f *fakeEmailService) SendBookingConfirmation(ctx context.Context, data *domain.BookingConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, data)
	return nil
}
