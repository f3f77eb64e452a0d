package runner

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mkaplan/eventdigest/internal/event"
	"mkaplan/eventdigest/internal/notify"
	"mkaplan/eventdigest/internal/scraper"
	pkgerr "mkaplan/eventdigest/pkg/errors"
)

type stubScraper struct {
	name   string
	venue  string
	events []event.Event
	err    error
}

func (s *stubScraper) ScrapeEvents() ([]event.Event, error) { return s.events, s.err }
func (s *stubScraper) GetName() string                      { return s.name }
func (s *stubScraper) GetVenue() string                     { return s.venue }

type stubAnalyzer struct {
	fragment string
	err      error
	gotCount int
	called   bool
}

func (a *stubAnalyzer) Analyze(_ context.Context, events []event.Event) (string, error) {
	a.called = true
	a.gotCount = len(events)
	return a.fragment, a.err
}

func (a *stubAnalyzer) GetName() string { return "stub" }

type stubNotifier struct {
	name   string
	err    error
	digest *notify.Digest
}

func (n *stubNotifier) Notify(d *notify.Digest) error {
	n.digest = d
	return n.err
}

func (n *stubNotifier) GetName() string { return n.name }

func sampleEvents(titles ...string) []event.Event {
	events := make([]event.Event, 0, len(titles))
	for _, t := range titles {
		events = append(events, event.Event{Title: t, DateText: "Oct 5, 2024"})
	}
	return events
}

func TestRunnerRun(t *testing.T) {
	a := &stubAnalyzer{fragment: `<div class="event">ranked</div>`}
	n := &stubNotifier{name: "test"}
	r := NewRunner(
		[]scraper.Scraper{
			&stubScraper{name: "one", venue: "Venue A", events: sampleEvents("Show A")},
			&stubScraper{name: "two", venue: "Venue B", events: sampleEvents("Show B")},
		}, a, []notify.Notifier{n}, "Events", "a@b.com",
	)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 2, a.gotCount)
	require.NotNil(t, n.digest)
	assert.Equal(t, "Events", n.digest.Subject)
	assert.Equal(t, "a@b.com", n.digest.Recipient)
	assert.Equal(t, `<div class="event">ranked</div>`, n.digest.HTML)
}

func TestRunnerRunScraperFailureIsolated(t *testing.T) {
	a := &stubAnalyzer{fragment: "<div class=\"event\">ok</div>"}
	n := &stubNotifier{name: "test"}
	r := NewRunner(
		[]scraper.Scraper{
			&stubScraper{name: "broken", venue: "Venue A", err: errors.New("fetch failed")},
			&stubScraper{name: "working", venue: "Venue B", events: sampleEvents("Show B")},
		}, a, []notify.Notifier{n}, "Events", "a@b.com",
	)

	require.NoError(t, r.Run(context.Background()))
	assert.Equal(t, 1, a.gotCount, "only the working scraper's events reach the analyzer")
	assert.NotNil(t, n.digest)
}

func TestRunnerRunNoEvents(t *testing.T) {
	a := &stubAnalyzer{}
	n := &stubNotifier{name: "test"}
	r := NewRunner(
		[]scraper.Scraper{
			&stubScraper{name: "empty", venue: "Venue A"},
		}, a, []notify.Notifier{n}, "Events", "a@b.com",
	)

	require.NoError(t, r.Run(context.Background()))
	assert.False(t, a.called, "analyzer should not run without events")
	assert.Nil(t, n.digest, "nothing should be sent without events")
}

func TestRunnerRunAnalysisFailure(t *testing.T) {
	a := &stubAnalyzer{err: pkgerr.NewAnalysis("stub", "model call failed", errors.New("overloaded"))}
	n := &stubNotifier{name: "test"}
	r := NewRunner(
		[]scraper.Scraper{
			&stubScraper{name: "one", venue: "Venue A", events: sampleEvents("Show A")},
		}, a, []notify.Notifier{n}, "Events", "a@b.com",
	)

	err := r.Run(context.Background())
	require.Error(t, err)

	var perr *pkgerr.PipelineError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, pkgerr.ErrorTypeAnalysis, perr.Type)
	assert.Nil(t, n.digest, "no digest should go out when analysis fails")
}

func TestRunnerRunNotifierFailureContinues(t *testing.T) {
	a := &stubAnalyzer{fragment: "<div class=\"event\">ok</div>"}
	failing := &stubNotifier{name: "broken", err: pkgerr.NewNotification("broken", "failed to send email", errors.New("connection refused"))}
	working := &stubNotifier{name: "working"}
	r := NewRunner(
		[]scraper.Scraper{
			&stubScraper{name: "one", venue: "Venue A", events: sampleEvents("Show A")},
		}, a, []notify.Notifier{failing, working}, "Events", "a@b.com",
	)

	err := r.Run(context.Background())
	require.Error(t, err)

	var perr *pkgerr.PipelineError
	require.True(t, errors.As(err, &perr))
	assert.Equal(t, pkgerr.ErrorTypeNotification, perr.Type)
	assert.NotNil(t, working.digest, "remaining notifiers still run after one fails")
}
