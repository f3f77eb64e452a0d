package analyzer

import (
	"context"

	"mkaplan/eventdigest/internal/event"
)

// Analyzer interface defines the contract for event analysis. An analyzer
// takes the raw scraped records and returns formatted digest content; it is
// trusted to repair whatever inconsistencies the scrapers let through.
type Analyzer interface {
	// Analyze ranks and formats the given events
	Analyze(ctx context.Context, events []event.Event) (string, error)

	// GetName returns the analyzer's name for logging
	GetName() string
}
