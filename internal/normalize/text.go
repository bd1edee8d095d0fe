package normalize

import (
	"fmt"
	"regexp"
	"strings"
)

var emailShape = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email trims and lowercases raw and checks it has the local@domain.tld shape.
func Email(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if !emailShape.MatchString(email) {
		return "", fmt.Errorf("email %q: %w", raw, ErrNotRepresentable)
	}
	return email, nil
}

// List trims every entry and drops blank ones, keeping order.
func List(raw []string) []string {
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s := strings.TrimSpace(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Tags is List with duplicates removed; the first occurrence wins.
func Tags(raw []string) []string {
	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, tag := range List(raw) {
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}

// Slug prepares a caller-supplied slug for lookup.
func Slug(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
