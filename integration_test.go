package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkaplan/eventdigest/internal/event"
	"mkaplan/eventdigest/internal/notify"
	"mkaplan/eventdigest/internal/scraper"
	"mkaplan/eventdigest/services/cache"
	"mkaplan/eventdigest/services/runner"
)

// This is a simple test HTML that mimics a venue listing page
const testHTML = `
<!DOCTYPE html>
<html>
<head>
    <title>Test Venue</title>
</head>
<body>
    <div class="listing">
        <div class="card">
            <h3 class="title"><a href="/events/1">Murder at the Manor</a></h3>
            <div class="when">Oct 5, 2024 7:30pm</div>
            <div class="preview">An immersive whodunit over three courses.</div>
            <div class="photo"><img src="/img/manor.jpg" alt="Poster" /></div>
        </div>
        <div class="card">
            <h3 class="title"><a href="/events/2">Harvest Wine Walk</a></h3>
            <div class="when">Oct 12, 2024 2:00pm</div>
            <div class="preview">Tastings at a dozen downtown shops.</div>
            <div class="photo"><img src="/img/wine.jpg" alt="Poster" /></div>
        </div>
    </div>
</body>
</html>
`

// MockCacheService implements a simple in-memory cache for testing
type MockCacheService struct {
	cache map[string][]byte
}

// Ensure MockCacheService implements cache.CacheService
var _ cache.CacheService = (*MockCacheService)(nil)

func (m *MockCacheService) Get(key string) ([]byte, error) {
	if val, ok := m.cache[key]; ok {
		return val, nil
	}
	return nil, errors.New("cache miss")
}

func (m *MockCacheService) Set(key string, value []byte, expiration time.Duration) error {
	m.cache[key] = value
	return nil
}

func (m *MockCacheService) Delete(key string) error {
	delete(m.cache, key)
	return nil
}

// recordingAnalyzer returns a canned fragment and records its input
type recordingAnalyzer struct {
	events []event.Event
}

func (a *recordingAnalyzer) Analyze(_ context.Context, events []event.Event) (string, error) {
	a.events = events
	var b strings.Builder
	for _, e := range events {
		b.WriteString(`<div class="event"><div class="score">Score: 5/10</div><div class="title">`)
		b.WriteString(e.Title)
		b.WriteString(`</div></div>`)
	}
	return b.String(), nil
}

func (a *recordingAnalyzer) GetName() string { return "recording" }

// capturingNotifier stores the digest it was asked to deliver
type capturingNotifier struct {
	digest *notify.Digest
}

func (n *capturingNotifier) Notify(d *notify.Digest) error {
	n.digest = d
	return nil
}

func (n *capturingNotifier) GetName() string { return "capturing" }

func TestPipelineEndToEnd(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(testHTML))
	}))
	defer server.Close()

	cacheSvc := &MockCacheService{cache: make(map[string][]byte)}

	s := scraper.NewConfigurableScraper(scraper.ScraperConfig{
		URL:       server.URL,
		CacheKey:  "test_rate_limited",
		BlockTime: 60,
		BaseURL:   server.URL,
		Venue:     "Test Venue",
		Provider:  "testvenue",
		Selectors: scraper.Selectors{
			EventList:   "div.listing div.card",
			Title:       "h3.title a",
			Link:        "h3.title a",
			DateText:    "div.when",
			Description: "div.preview",
			Image:       "div.photo img",
		},
	}, cacheSvc)

	a := &recordingAnalyzer{}
	n := &capturingNotifier{}
	r := runner.NewRunner([]scraper.Scraper{s}, a, []notify.Notifier{n}, "Upcoming Events", "someone@example.com")

	require.NoError(t, r.Run(context.Background()))

	require.Len(t, a.events, 2)
	titles := map[string]event.Event{}
	for _, e := range a.events {
		titles[e.Title] = e
	}
	manor, ok := titles["Murder at the Manor"]
	require.True(t, ok)
	assert.Equal(t, "Oct 5, 2024 7:30pm", manor.DateText)
	assert.Equal(t, server.URL+"/events/1", manor.URL)
	assert.Equal(t, server.URL+"/img/manor.jpg", manor.ImageURL)
	assert.Equal(t, "Test Venue", manor.Venue)
	require.NotNil(t, manor.Date)
	assert.Equal(t, time.October, manor.Date.Month())
	assert.Equal(t, 5, manor.Date.Day())

	require.NotNil(t, n.digest)
	assert.Equal(t, "Upcoming Events", n.digest.Subject)
	assert.Contains(t, n.digest.HTML, "Murder at the Manor")
	assert.Contains(t, n.digest.HTML, "Harvest Wine Walk")
	assert.Contains(t, n.digest.RenderBody(), "<h1>Upcoming Events</h1>")
}

func TestPipelineRateLimitedVenueSkipped(t *testing.T) {
	cacheSvc := &MockCacheService{cache: map[string][]byte{
		"limited_rate_limited": []byte("true"),
	}}

	s := scraper.NewConfigurableScraper(scraper.ScraperConfig{
		URL:       "http://localhost:1", // never reached
		CacheKey:  "limited_rate_limited",
		BlockTime: 60,
		Venue:     "Limited Venue",
		Provider:  "limited",
		Selectors: scraper.Selectors{EventList: "div.card"},
	}, cacheSvc)

	a := &recordingAnalyzer{}
	n := &capturingNotifier{}
	r := runner.NewRunner([]scraper.Scraper{s}, a, []notify.Notifier{n}, "Upcoming Events", "someone@example.com")

	// The failing scraper yields no events, so the run ends quietly
	require.NoError(t, r.Run(context.Background()))
	assert.Empty(t, a.events)
	assert.Nil(t, n.digest)
}
