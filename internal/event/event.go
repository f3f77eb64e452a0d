package event

import (
	"sort"
	"strings"
	"time"
)

// Event represents a scraped venue event. Fields are best-effort: a venue
// page that omits a date or description still yields a record, and the
// analyzer is expected to repair inconsistencies downstream.
type Event struct {
	Title         string     `json:"title"`
	DateText      string     `json:"datetime"`
	Date          *time.Time `json:"parsed_date,omitempty"`
	Description   string     `json:"description,omitempty"`
	Venue         string     `json:"venue,omitempty"`
	ImageURL      string     `json:"image_url,omitempty"`
	URL           string     `json:"url,omitempty"`
	Provider      string     `json:"provider"`
	MultipleDates bool       `json:"multiple_dates,omitempty"`
}

// Valid reports whether the record carries the minimum fields worth
// forwarding to the analyzer.
func (e *Event) Valid() bool {
	return e.Title != "" && e.DateText != ""
}

// GroupByTitle merges events that share a title (case-insensitive) into a
// single record whose DateText joins the individual dates with " and ".
// A venue that lists the same show on several nights collapses into one
// digest entry. Input order of first appearance is preserved.
func GroupByTitle(events []Event) []Event {
	type group struct {
		event     Event
		dateTexts []string
	}

	var order []string
	groups := make(map[string]*group)

	for _, e := range events {
		key := strings.ToLower(e.Title)
		if g, ok := groups[key]; ok {
			g.dateTexts = append(g.dateTexts, e.DateText)
			continue
		}
		groups[key] = &group{event: e, dateTexts: []string{e.DateText}}
		order = append(order, key)
	}

	grouped := make([]Event, 0, len(order))
	for _, key := range order {
		g := groups[key]
		sort.Strings(g.dateTexts)

		merged := g.event
		merged.DateText = strings.Join(g.dateTexts, " and ")
		merged.MultipleDates = len(g.dateTexts) > 1
		if merged.Date == nil {
			merged.Date = ParseDate(merged.DateText)
		}
		grouped = append(grouped, merged)
	}

	return grouped
}
