package watcher

import "context"

// Backend is the platform-specific change notification source.
type Backend interface {
	// Watch registers a directory to be monitored. The directory itself is
	// watched, not its subtree.
	Watch(path string) error

	// Start begins delivering events. Blocks until the context is
	// cancelled or the backend hits a fatal error.
	Start(ctx context.Context) error

	// Stop tears the backend down and releases its resources.
	Stop() error

	// Events returns the channel of decoded events.
	Events() <-chan Event

	// Errors returns the channel of fatal backend errors.
	Errors() <-chan error
}
