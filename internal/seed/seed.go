// Package seed loads starter events from YAML and creates them through the event service.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"eventhub/internal/domain"

	"gopkg.in/yaml.v3"
)

// EventSpec is one event in a seed file.
type EventSpec struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	Overview    string   `yaml:"overview"`
	Image       string   `yaml:"image"`
	Venue       string   `yaml:"venue"`
	Location    string   `yaml:"location"`
	Date        string   `yaml:"date"`
	Time        string   `yaml:"time"`
	Mode        string   `yaml:"mode"`
	Audience    string   `yaml:"audience"`
	Agenda      []string `yaml:"agenda"`
	Organizer   string   `yaml:"organizer"`
	Tags        []string `yaml:"tags"`
}

// File is the top-level layout of a seed file.
type File struct {
	Events []EventSpec `yaml:"events"`
}

// Result counts what Run did.
type Result struct {
	Created int
	Skipped int
}

// Load parses a seed file. Unknown keys are rejected.
func Load(r io.Reader) (*File, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return &File{}, nil
		}
		return nil, fmt.Errorf("parse seed file: %w", err)
	}
	return &f, nil
}

func (s EventSpec) attrs() domain.EventAttrs {
	return domain.EventAttrs{
		Title:       s.Title,
		Description: s.Description,
		Overview:    s.Overview,
		Image:       s.Image,
		Venue:       s.Venue,
		Location:    s.Location,
		Date:        s.Date,
		Time:        s.Time,
		Mode:        s.Mode,
		Audience:    s.Audience,
		Agenda:      s.Agenda,
		Organizer:   s.Organizer,
		Tags:        s.Tags,
	}
}

// Run creates every event in f. Events whose slug already exists are skipped, so seeding
// twice is harmless; any other failure stops the run.
func Run(ctx context.Context, events domain.EventService, f *File, logger *slog.Logger) (Result, error) {
	var res Result
	for i, entry := range f.Events {
		event, err := events.Create(ctx, entry.attrs())
		switch {
		case errors.Is(err, domain.ErrDuplicateSlug):
			logger.InfoContext(ctx, "event already seeded", "title", entry.Title)
			res.Skipped++
		case err != nil:
			return res, fmt.Errorf("seed event %d (%q): %w", i+1, entry.Title, err)
		default:
			logger.InfoContext(ctx, "event seeded", "slug", event.Slug, "id", event.ID)
			res.Created++
		}
	}
	return res, nil
}
