package scraper

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"

	"mkaplan/eventdigest/helpers"
	"mkaplan/eventdigest/internal/event"
	"mkaplan/eventdigest/services/cache"
)

// BaseScraper provides common functionality for all venue scrapers
type BaseScraper struct {
	URL       string
	CacheKey  string
	CacheSvc  cache.CacheService
	BlockTime time.Duration
	BaseURL   string
	Venue     string
	Provider  string
}

// fetchWithCache fetches a URL with an optional rate-limit guard. When a
// previous fetch was rate limited the guard key blocks further requests
// until it expires.
func (s *BaseScraper) fetchWithCache() (io.Reader, error) {
	if s.CacheSvc != nil && s.CacheKey != "" {
		_, err := s.CacheSvc.Get(s.CacheKey)
		if err == nil {
			return nil, fmt.Errorf("%s: blocked for %d more seconds after rate limit", s.CacheKey, s.BlockTime/time.Second)
		}
	}

	utf8Body, err := helpers.FetchWithRandomHeaders(s.URL)
	if err != nil {
		if s.CacheSvc != nil && s.CacheKey != "" && strings.HasPrefix(err.Error(), "rate limited") {
			if setErr := s.CacheSvc.Set(s.CacheKey, []byte(fmt.Sprintf("%d", s.BlockTime/time.Second)), s.BlockTime); setErr != nil {
				return nil, setErr
			}
		}
		return nil, err
	}

	return utf8Body, nil
}

// createDocument creates a goquery document from a reader
func (s *BaseScraper) createDocument(reader io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("HTML parse error: %v", err)
	}
	return doc, nil
}

// processEvents processes listing entries in parallel using goroutines
func (s *BaseScraper) processEvents(selections *goquery.Selection, processor func(*goquery.Selection) (*event.Event, error)) []event.Event {
	eventChan := make(chan *event.Event, selections.Length())
	var wg sync.WaitGroup

	selections.Each(func(i int, sel *goquery.Selection) {
		wg.Add(1)
		go func(sel *goquery.Selection) {
			defer wg.Done()

			evt, err := processor(sel)
			if err != nil {
				return
			}
			if evt != nil {
				eventChan <- evt
			}
		}(sel)
	})

	wg.Wait()
	close(eventChan)

	var events []event.Event
	for evt := range eventChan {
		events = append(events, *evt)
	}

	return events
}

// ResolveURL converts a page-relative href into an absolute URL
func (s *BaseScraper) ResolveURL(href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return s.BaseURL + href
	default:
		return href
	}
}

// GetName returns the scraper's name for logging
func (s *BaseScraper) GetName() string {
	return s.Provider + "Scraper"
}

// GetVenue returns the venue display name
func (s *BaseScraper) GetVenue() string {
	return s.Venue
}
