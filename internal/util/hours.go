package util

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	clockPattern  = regexp.MustCompile(`^\d+\s*:\s*\d+$`)
	numberPattern = regexp.MustCompile(`[-+]?\d*\.?\d+`)
)

// ParseHours turns loosely-typed cell text into hours. "2", "2.5시간",
// "1,000" and "0:30" all parse; anything without a numeric substring is 0.
// Source data quality is uncontrolled, so this never fails.
func ParseHours(raw string) float64 {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0
	}

	s = strings.ReplaceAll(s, ",", "")

	if clockPattern.MatchString(s) {
		parts := strings.SplitN(s, ":", 2)
		hh, errH := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
		mm, errM := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
		if errH != nil || errM != nil {
			return 0
		}
		return hh + mm/60
	}

	token := numberPattern.FindString(s)
	if token == "" {
		return 0
	}
	parsed, err := strconv.ParseFloat(token, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// ParseCount reads non-negative integer cells (sample counts, fees) with the
// same tolerance as ParseHours: malformed input is 0, never an error.
func ParseCount(raw string) int {
	return int(ParseHours(raw))
}
