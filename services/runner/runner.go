package runner

import (
	"context"
	"time"

	"mkaplan/eventdigest/internal/analyzer"
	"mkaplan/eventdigest/internal/event"
	"mkaplan/eventdigest/internal/notify"
	"mkaplan/eventdigest/internal/scraper"
	"mkaplan/eventdigest/logger"
)

// Runner drives a single scrape, analyze and notify pass. It is meant
// to be invoked once per run from a scheduler such as cron.
type Runner struct {
	scrapers  []scraper.Scraper
	analyzer  analyzer.Analyzer
	notifiers []notify.Notifier
	subject   string
	recipient string
}

// NewRunner creates a new runner
func NewRunner(
	scrapers []scraper.Scraper,
	a analyzer.Analyzer,
	notifiers []notify.Notifier,
	subject string,
	recipient string,
) *Runner {
	return &Runner{
		scrapers:  scrapers,
		analyzer:  a,
		notifiers: notifiers,
		subject:   subject,
		recipient: recipient,
	}
}

// Run executes one full pipeline pass. A failing scraper never aborts
// the run; its events are simply missing from the digest. With no
// events at all the run ends without calling the analyzer or sending
// anything.
func (r *Runner) Run(ctx context.Context) error {
	log := logger.ForRunner()
	start := time.Now()

	events := r.scrapeAll()
	log.Info().
		Int("event_count", len(events)).
		Str("elapsed", time.Since(start).String()).
		Msg("Scraping finished")

	if len(events) == 0 {
		log.Warn().Msg("No events scraped, skipping analysis and notification")
		return nil
	}

	fragment, err := r.analyzer.Analyze(ctx, events)
	if err != nil {
		logger.LogError(r.analyzer.GetName(), err)
		return err
	}
	// The analysis output goes to the log before any delivery attempt so
	// it survives a notification failure.
	log.Info().Int("fragment_length", len(fragment)).Msg("Analysis output")
	log.Info().Msg(fragment)

	digest := notify.NewDigest(r.subject, r.recipient, fragment)
	if err := r.notifyAll(digest); err != nil {
		return err
	}

	log.Info().
		Str("elapsed", time.Since(start).String()).
		Msg("Run complete")

	return nil
}

// scrapeAll runs the scrapers one at a time. The venues are few and the
// browser service handles one page at a time anyway, so there is no
// point fanning out.
func (r *Runner) scrapeAll() []event.Event {
	var events []event.Event
	for _, s := range r.scrapers {
		scraped, err := s.ScrapeEvents()
		if err != nil {
			logger.LogError(s.GetName(), err)
			continue
		}
		logger.ForScraper(s.GetName()).Info().
			Str("venue", s.GetVenue()).
			Int("event_count", len(scraped)).
			Msg("Scraped events")
		events = append(events, scraped...)
	}
	return events
}

// notifyAll delivers the digest to every notifier and returns the last
// failure, if any. One broken channel does not stop the others.
func (r *Runner) notifyAll(digest *notify.Digest) error {
	var lastErr error
	for _, n := range r.notifiers {
		if err := n.Notify(digest); err != nil {
			logger.LogError(n.GetName(), err)
			lastErr = err
			continue
		}
	}
	return lastErr
}
