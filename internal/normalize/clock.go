package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	twelveHour     = regexp.MustCompile(`^(\d{1,2}):(\d{2})\s*(am|pm)$`)
	twentyFourHour = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
)

// Time converts "9:30 am", "12:00 PM", "9:30" or "21:05" into 24-hour "HH:MM".
func Time(raw string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(raw))

	if m := twelveHour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour < 1 || hour > 12 || minute > 59 {
			return "", fmt.Errorf("time %q: %w", raw, ErrNotRepresentable)
		}
		switch {
		case hour == 12 && m[3] == "am":
			hour = 0
		case hour != 12 && m[3] == "pm":
			hour += 12
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}

	if m := twentyFourHour.FindStringSubmatch(s); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if hour > 23 || minute > 59 {
			return "", fmt.Errorf("time %q: %w", raw, ErrNotRepresentable)
		}
		return fmt.Sprintf("%02d:%02d", hour, minute), nil
	}

	return "", fmt.Errorf("time %q: %w", raw, ErrNotRepresentable)
}
