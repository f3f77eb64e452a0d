package scraper

import (
	"io"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mkaplan/eventdigest/internal/event"
	"mkaplan/eventdigest/logger"
	"mkaplan/eventdigest/services/cache"
)

// ConfigurableScraper is a scraper driven entirely by per-venue selectors
type ConfigurableScraper struct {
	BaseScraper
	Selectors      Selectors
	CustomHandlers map[string]ElementHandlerFunc
	RemoveElements []ElementRemoval
	BrowserAddr    string
	fetchFunc      func() (io.Reader, error)
}

// NewConfigurableScraper creates a new selector-driven venue scraper
func NewConfigurableScraper(config ScraperConfig, cacheSvc cache.CacheService) *ConfigurableScraper {
	s := &ConfigurableScraper{
		BaseScraper: BaseScraper{
			URL:       config.URL,
			CacheKey:  config.CacheKey,
			CacheSvc:  cacheSvc,
			BlockTime: time.Duration(config.BlockTime) * time.Second,
			BaseURL:   config.BaseURL,
			Venue:     config.Venue,
			Provider:  config.Provider,
		},
		Selectors:      config.Selectors,
		CustomHandlers: config.CustomHandlers,
		RemoveElements: config.RemoveElements,
		BrowserAddr:    config.BrowserAddr,
	}

	// The fetch path depends on whether the venue renders server-side
	if config.UseBrowser && s.BrowserAddr != "" {
		logger.Info("Using browser service for %s", config.Provider)
		s.fetchFunc = s.fetchWithBrowser
	} else {
		logger.Info("Using standard fetch for %s", config.Provider)
		s.fetchFunc = s.fetchWithCache
	}

	return s
}

// ScrapeEvents fetches the venue page and extracts its event listings
func (s *ConfigurableScraper) ScrapeEvents() ([]event.Event, error) {
	utf8Body, err := s.fetchFunc()
	if err != nil {
		return nil, err
	}

	doc, err := s.createDocument(utf8Body)
	if err != nil {
		return nil, err
	}

	selections := doc.Find(s.Selectors.EventList)

	events := s.processEvents(selections, s.processEvent)

	// Drop records missing the fields the analyzer needs, then collapse
	// shows listed once per night into a single entry.
	valid := events[:0]
	for _, e := range events {
		if e.Valid() {
			valid = append(valid, e)
		}
	}

	return event.GroupByTitle(valid), nil
}

// cleanSelection removes specified elements from a selection before getting text
func (s *ConfigurableScraper) cleanSelection(sel *goquery.Selection, path string) *goquery.Selection {
	if sel.Length() == 0 {
		return sel
	}

	// Clone the selection to avoid modifying the original
	clone := sel.Clone()

	for _, removal := range s.RemoveElements {
		if removal.ApplyToPath == path {
			clone.Find(removal.Selector).Remove()
		}
	}

	return clone
}

// processElement extracts text from an element using custom handlers or default method
func (s *ConfigurableScraper) processElement(sel *goquery.Selection, path string, selector string) string {
	if handler, exists := s.CustomHandlers[path]; exists && handler != nil {
		return handler(sel)
	}

	if selector == "" {
		return ""
	}

	elementSel := sel.Find(selector)
	if elementSel.Length() > 0 {
		cleanSel := s.cleanSelection(elementSel, path)
		return strings.TrimSpace(cleanSel.Text())
	}

	return ""
}

// processEvent processes a single listing entry based on the configuration
func (s *ConfigurableScraper) processEvent(sel *goquery.Selection) (*event.Event, error) {
	// Skip entries carrying the filtered class (ads, cancelled shows)
	if s.Selectors.ClassFilter != "" && sel.HasClass(s.Selectors.ClassFilter) {
		return nil, nil
	}

	// Extract title
	var title string
	titleSel := sel.Find(s.Selectors.Title)
	if handler, exists := s.CustomHandlers["title"]; exists && handler != nil {
		title = handler(sel)
	} else {
		if titleSel.Length() == 0 {
			return nil, nil
		}
		cleanTitleSel := s.cleanSelection(titleSel, "title")

		if titleAttr, exists := cleanTitleSel.Attr("title"); exists && titleAttr != "" {
			title = titleAttr
		} else {
			title = cleanTitleSel.Text()
		}
	}

	title = strings.TrimSpace(title)
	if title == "" {
		return nil, nil
	}

	// Extract link
	var link string
	if s.Selectors.Link != "" {
		if href, exists := sel.Find(s.Selectors.Link).Attr("href"); exists {
			link = s.ResolveURL(strings.TrimSpace(href))
		}
	}

	// Extract date text and description
	dateText := s.processElement(sel, "dateText", s.Selectors.DateText)
	description := s.processElement(sel, "description", s.Selectors.Description)

	// Extract image URL
	var imageURL string
	if s.Selectors.Image != "" {
		if src, exists := sel.Find(s.Selectors.Image).Attr("src"); exists {
			imageURL = s.ResolveURL(strings.TrimSpace(src))
		}
	}

	return &event.Event{
		Title:       title,
		DateText:    dateText,
		Date:        event.ParseDate(dateText),
		Description: description,
		Venue:       s.Venue,
		ImageURL:    imageURL,
		URL:         link,
		Provider:    s.Provider,
	}, nil
}
