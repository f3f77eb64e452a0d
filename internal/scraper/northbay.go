package scraper

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mkaplan/eventdigest/internal/event"
	"mkaplan/eventdigest/services/cache"
)

// NorthBayScraper scrapes the North Bay Stage & Screen listing page. The
// page is a single WordPress post: shows are separated by "***" dividers,
// the title paragraph holds "<strong>Title</strong> – Theater", a centered
// paragraph holds the run dates, and the remaining paragraphs are prose.
// Selector tables cannot express that, so this one walks the page.
type NorthBayScraper struct {
	BaseScraper
}

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// NewNorthBayScraper creates a new North Bay Stage & Screen scraper
func NewNorthBayScraper(url string, cacheSvc cache.CacheService) *NorthBayScraper {
	return &NorthBayScraper{
		BaseScraper: BaseScraper{
			URL:       url,
			CacheKey:  "northbay_rate_limited",
			CacheSvc:  cacheSvc,
			BlockTime: 500 * time.Second,
			BaseURL:   "https://northbaystageandscreen.com",
			Venue:     "North Bay Stage & Screen",
			Provider:  "northbay",
		},
	}
}

// ScrapeEvents fetches the listing page and walks its sections
func (s *NorthBayScraper) ScrapeEvents() ([]event.Event, error) {
	utf8Body, err := s.fetchWithCache()
	if err != nil {
		return nil, err
	}

	doc, err := s.createDocument(utf8Body)
	if err != nil {
		return nil, err
	}

	var events []event.Event
	current := event.Event{Provider: s.Provider}

	flush := func() {
		if current.Valid() {
			current.Date = event.ParseDate(current.DateText)
			events = append(events, current)
		}
		current = event.Event{Provider: s.Provider}
	}

	doc.Find("p, div.wp-block-image").Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())

		// Divider between shows
		if strings.Contains(text, "***") {
			flush()
			return
		}

		// Image blocks carry no text
		if img := sel.Find("img"); img.Length() > 0 {
			if src, exists := img.Attr("src"); exists && current.ImageURL == "" {
				current.ImageURL = s.ResolveURL(strings.TrimSpace(src))
			}
		}

		if text == "" {
			return
		}

		// Title paragraph: bold title, em-dash separated theater name
		if sel.Find("strong").Length() > 0 {
			if title, theater, found := strings.Cut(text, " – "); found {
				current.Title = strings.TrimSpace(title)
				current.Venue = strings.TrimSpace(theater)
				return
			}
		}

		class, _ := sel.Attr("class")
		centered := strings.Contains(class, "has-text-align-center")

		// Centered paragraph naming a month is the run dates
		if centered && containsMonth(text) {
			current.DateText = text
			return
		}

		// Everything else is prose; skip cast/credit lines
		if !centered && current.Description == "" &&
			!strings.HasPrefix(text, "with ") && !strings.Contains(text, "Directed by") {
			current.Description = text
		}
	})

	// The last show has no trailing divider
	flush()

	return event.GroupByTitle(events), nil
}

func containsMonth(text string) bool {
	for _, month := range monthNames {
		if strings.Contains(text, month) {
			return true
		}
	}
	return false
}
