package notify

import (
	"mkaplan/eventdigest/logger"
)

// DryRunNotifier logs the digest instead of delivering it, used in test mode
type DryRunNotifier struct{}

// NewDryRunNotifier creates a new dry-run notifier
func NewDryRunNotifier() *DryRunNotifier {
	return &DryRunNotifier{}
}

// GetName returns the notifier name
func (n *DryRunNotifier) GetName() string {
	return "dryrun"
}

// Notify logs the digest without sending anything
func (n *DryRunNotifier) Notify(digest *Digest) error {
	logger.ForNotifier(n.GetName()).Info().
		Str("recipient", digest.Recipient).
		Str("subject", digest.Subject).
		Int("body_length", len(digest.HTML)).
		Msg("Dry run, not sending")

	logger.ForNotifier(n.GetName()).Debug().Msg(digest.RenderBody())

	return nil
}
