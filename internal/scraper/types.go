package scraper

import (
	"github.com/PuerkitoBio/goquery"

	"mkaplan/eventdigest/internal/event"
)

// Scraper interface defines the contract for all venue scraper implementations
type Scraper interface {
	// ScrapeEvents retrieves event listings from a venue page
	ScrapeEvents() ([]event.Event, error)

	// GetName returns the scraper's name for logging and identification
	GetName() string

	// GetVenue returns the venue display name
	GetVenue() string
}

// ElementHandlerFunc customizes extraction logic for a single field
type ElementHandlerFunc func(*goquery.Selection) string

// ElementRemoval defines elements to remove from a selection before extracting text
type ElementRemoval struct {
	Selector    string // Selector to find elements to remove
	ApplyToPath string // The field to apply this to (e.g., "title", "dateText")
}

// Selectors contains CSS selectors for the parts of a venue listing page
type Selectors struct {
	EventList   string
	Title       string
	Link        string
	DateText    string
	Description string
	Image       string
	ClassFilter string
}

// ScraperConfig contains configuration for a selector-driven venue scraper
type ScraperConfig struct {
	URL         string
	CacheKey    string
	BlockTime   int
	BaseURL     string
	Venue       string
	Provider    string
	UseBrowser  bool
	BrowserAddr string
	Selectors   Selectors

	// CustomHandlers maps field paths to extraction overrides
	CustomHandlers map[string]ElementHandlerFunc

	// RemoveElements strips markup before text extraction
	RemoveElements []ElementRemoval
}
