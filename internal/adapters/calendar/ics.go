// Package calendar exports events as iCalendar (.ics) documents.
package calendar

import (
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/normalize"

	ics "github.com/arran4/golang-ical"
)

// DefaultDuration is the length assumed for an event; events carry only a start.
const DefaultDuration = 2 * time.Hour

const productID = "-//eventhub//events//EN"

type icsExporter struct {
	baseURL   string
	organizer string
}

// NewICSExporter returns a CalendarExporter. Event links point at baseURL; organizerAddress,
// when set, is advertised as the ORGANIZER mailbox.
func NewICSExporter(baseURL, organizerAddress string) domain.CalendarExporter {
	return &icsExporter{baseURL: strings.TrimRight(baseURL, "/"), organizer: organizerAddress}
}

// StartTime combines the event's canonical date with its HH:MM time, in UTC.
func StartTime(e *domain.Event) (time.Time, error) {
	day, err := time.Parse(normalize.ISOLayout, e.Date)
	if err != nil {
		return time.Time{}, fmt.Errorf("event date %q: %w", e.Date, err)
	}
	clock, err := time.Parse("15:04", e.Time)
	if err != nil {
		return time.Time{}, fmt.Errorf("event time %q: %w", e.Time, err)
	}
	day = day.UTC()
	return time.Date(day.Year(), day.Month(), day.Day(), clock.Hour(), clock.Minute(), 0, 0, time.UTC), nil
}

func (x *icsExporter) Export(e *domain.Event) (string, error) {
	start, err := StartTime(e)
	if err != nil {
		return "", err
	}

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(productID)

	ev := cal.AddEvent(e.ID + "@eventhub")
	ev.SetDtStampTime(e.UpdatedAt)
	ev.SetCreatedTime(e.CreatedAt)
	ev.SetModifiedAt(e.UpdatedAt)
	ev.SetStartAt(start)
	ev.SetEndAt(start.Add(DefaultDuration))
	ev.SetSummary(e.Title)
	ev.SetDescription(e.Description)
	ev.SetLocation(e.Venue + ", " + e.Location)
	ev.SetURL(x.baseURL + "/events/" + e.Slug)
	if x.organizer != "" {
		ev.SetOrganizer(x.organizer, ics.WithCN(e.Organizer))
	}
	for _, tag := range e.Tags {
		ev.AddCategory(tag)
	}
	return cal.Serialize(), nil
}
