package normalize

import (
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ISOLayout is the canonical instant format stored on events (UTC, millisecond precision).
const ISOLayout = "2006-01-02T15:04:05.000Z07:00"

// dateLayouts are tried in order. Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"2 January 2006",
	"2 Jan 2006",
	"Monday, January 2, 2006",
	"Mon, Jan 2, 2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
}

var naturalDates = newNaturalParser()

// newNaturalParser only carries rules that name a day. Clock rules ("10:00", "noon") and
// offsets below a day ("in 5 minutes", "2 hours ago") are left out.
func newNaturalParser() *when.Parser {
	w := when.New(nil)
	w.Add(
		en.Weekday(rules.Override),
		en.CasualDate(rules.Override),
		en.ExactMonthDate(rules.Override),
		common.SlashDMY(rules.Override),
	)
	return w
}

// dayless reports natural phrases the parser accepts that still do not pick a day:
// "now" and a bare month name.
func dayless(s string) bool {
	lower := strings.ToLower(s)
	if lower == "now" {
		return true
	}
	_, isMonth := en.MONTH_OFFSET[lower]
	return isMonth
}

// Date parses a free-form date and returns it as a canonical UTC instant (ISOLayout).
func Date(raw string) (string, error) {
	return DateAt(raw, time.Now())
}

// DateAt is Date with an explicit reference time for relative phrases such as "next friday".
func DateAt(raw string, now time.Time) (string, error) {
	t, err := ParseDate(raw, now)
	if err != nil {
		return "", err
	}
	return FormatInstant(t), nil
}

// ParseDate parses a free-form date into an instant. Fixed layouts are tried first; otherwise
// the whole input must be a natural-language date expression relative to now, which
// resolves to midnight UTC of the day it names.
func ParseDate(raw string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("date %q: %w", raw, ErrNotRepresentable)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	r, err := naturalDates.Parse(s, now.UTC())
	if err != nil || r == nil || r.Index != 0 || len(r.Text) != len(s) || dayless(s) {
		return time.Time{}, fmt.Errorf("date %q: %w", raw, ErrNotRepresentable)
	}
	return r.Time.UTC().Truncate(24 * time.Hour), nil
}

// FormatInstant formats t in the canonical ISOLayout, in UTC.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}
