package ranking

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

var relativeAgeRe = regexp.MustCompile(`(\d+)\+?\s*(minute|min|hour|hr|day|week|month|year)s?\s+ago`)

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// maxAge keeps absurd relative ages from overflowing time.Duration.
const maxAge = 100 * 365 * 24 * time.Hour

var units = map[string]time.Duration{
	"minute": time.Minute,
	"min":    time.Minute,
	"hour":   time.Hour,
	"hr":     time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// PostingAge converts a provider posting date into an age relative to now.
// It understands relative phrases ("3 days ago", "30+ days ago", "just posted", "today",
// "yesterday") and absolute dates. The boolean is false when the date is unknown.
func PostingAge(postedAt string, now time.Time) (time.Duration, bool) {
	s := strings.ToLower(strings.TrimSpace(postedAt))
	if s == "" {
		return 0, false
	}

	switch s {
	case "just posted", "just now", "today", "new":
		return 0, true
	case "yesterday":
		return 24 * time.Hour, true
	}

	if m := relativeAgeRe.FindStringSubmatch(s); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return 0, false
		}
		unit := units[m[2]]
		if n > int(maxAge/unit) {
			return maxAge, true
		}
		return time.Duration(n) * unit, true
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(postedAt)); err == nil {
			age := now.Sub(t)
			if age < 0 {
				age = 0
			}
			return age, true
		}
	}

	return 0, false
}
