package util

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// CanonicalizeDate rewrites "2026.01.17", "2026/01/17" or
// "2026-01-17 00:00:00" as "2026-01-17". It does not validate the calendar;
// ParseDate decides whether the result is a real date.
func CanonicalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	s = strings.ReplaceAll(s, ".", "-")
	s = strings.ReplaceAll(s, "/", "-")
	if r := []rune(s); len(r) > 10 {
		s = string(r[:10])
	}
	return s
}

// ParseDate canonicalizes and parses. ok is false for anything that is not a
// YYYY-MM-DD date after cleanup; callers treat such rows as out of range.
func ParseDate(raw string) (time.Time, bool) {
	s := CanonicalizeDate(raw)
	if s == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate is the inverse used when writing rows back to the store.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}
