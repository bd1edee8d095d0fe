package domain

import "context"

// ImageStore persists an uploaded image and returns the URL it can be retrieved from.
type ImageStore interface {
	Save(ctx context.Context, filename string, data []byte) (url string, err error)
}

// CalendarExporter renders an event as an iCalendar document.
type CalendarExporter interface {
	Export(event *Event) (string, error)
}
