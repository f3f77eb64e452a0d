package notify

// Notifier represents a delivery channel for a rendered digest
type Notifier interface {
	// Notify delivers the digest
	Notify(digest *Digest) error

	// GetName returns the notifier's name for logging
	GetName() string
}
