package event

import (
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// Venue pages publish dates as free text: "Oct 5, 2024", "March 7th, 2025",
// "January 10 - January 12, 2025", "Napa * June 1". Parsing is best-effort
// and unparseable input yields nil rather than an error, since the analyzer
// tolerates missing dates.

var (
	ordinalRe  = regexp.MustCompile(`(\d+)(?:st|nd|rd|th)\b`)
	meridiemRe = regexp.MustCompile(`(?i)([ap])\.m\.`)
	yearRe     = regexp.MustCompile(`\b\d{4}\b`)

	monthDayRe = regexp.MustCompile(`(?i)^(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\.?\s+\d{1,2}$`)

	rangeSeparators = []string{" - ", "–", "−", " to ", " through ", " until "}
	listSeparators  = []string{" and ", " & "}
)

// ParseDate normalizes a free-text date string into a structured date.
// Ranges resolve to their start date and lists of dates to the earliest.
// Returns nil when nothing parseable remains.
func ParseDate(raw string) *time.Time {
	s := cleanDateText(raw)
	if s == "" {
		return nil
	}

	s = stripLocationPrefix(s)

	if t := parseRange(s); t != nil {
		return validated(t)
	}

	if t := parseList(s); t != nil {
		return validated(t)
	}

	return validated(parseSingle(s))
}

// cleanDateText normalizes whitespace, drops ordinal suffixes and rewrites
// "p.m." style meridiems so the underlying parser sees plain "pm".
func cleanDateText(raw string) string {
	s := strings.Join(strings.Fields(strings.TrimSpace(raw)), " ")
	s = ordinalRe.ReplaceAllString(s, "$1")
	s = meridiemRe.ReplaceAllString(s, "${1}m")
	return s
}

// stripLocationPrefix removes prefixes like "Napa * June 1" that some
// listings use to tag the town.
func stripLocationPrefix(s string) string {
	if i := strings.Index(s, "*"); i >= 0 {
		return strings.TrimSpace(s[i+1:])
	}
	return s
}

// parseRange resolves "January 10 - January 12, 2025" to the start date.
// A year present only on the end date is carried over to the start.
func parseRange(s string) *time.Time {
	for _, sep := range rangeSeparators {
		if !strings.Contains(s, sep) {
			continue
		}
		parts := strings.SplitN(s, sep, 2)
		start, end := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])
		if start == "" || end == "" {
			continue
		}

		if year := yearRe.FindString(end); year != "" && yearRe.FindString(start) == "" {
			start = start + ", " + year
		}

		if t := parseSingle(start); t != nil {
			return t
		}
	}
	return nil
}

// parseList resolves "Jan 5, 2025 and Jan 12, 2025" to the earliest date.
func parseList(s string) *time.Time {
	for _, sep := range listSeparators {
		if !strings.Contains(s, sep) {
			continue
		}

		var earliest *time.Time
		for _, part := range strings.Split(s, sep) {
			t := parseSingle(strings.TrimSpace(part))
			if t == nil {
				continue
			}
			if earliest == nil || t.Before(*earliest) {
				earliest = t
			}
		}
		if earliest != nil {
			return earliest
		}
	}
	return nil
}

func parseSingle(s string) *time.Time {
	if s == "" {
		return nil
	}

	// Month-day with no year implies the next occurrence.
	if monthDayRe.MatchString(s) {
		for _, layout := range []string{"January 2", "Jan 2"} {
			if t, err := time.Parse(layout, s); err == nil {
				t = withImpliedYear(t)
				return &t
			}
		}
	}

	if t, err := dateparse.ParseAny(s); err == nil {
		return &t
	}

	// Extra commas ("Dec 06, 2024, 4:00 pm") trip the parser; retry bare.
	bare := strings.ReplaceAll(s, ",", "")
	if bare != s {
		if t, err := dateparse.ParseAny(bare); err == nil {
			return &t
		}
	}

	return nil
}

// withImpliedYear pins a yearless date to the current year, rolling to the
// next year when that day has already passed.
func withImpliedYear(t time.Time) time.Time {
	now := time.Now()
	pinned := time.Date(now.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, time.Local)
	if pinned.Before(now.Truncate(24 * time.Hour)) {
		pinned = pinned.AddDate(1, 0, 0)
	}
	return pinned
}

// validated drops dates outside a plausibility window. Scrape noise
// occasionally parses to something absurd ("page 3 of 1847").
func validated(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	now := time.Now()
	if t.Before(now.AddDate(-5, 0, 0)) || t.After(now.AddDate(5, 0, 0)) {
		return nil
	}
	return t
}
