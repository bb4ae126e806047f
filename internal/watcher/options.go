package watcher

import "time"

// Options configures the change notification backends.
type Options struct {
	// EventBuffer is the capacity of the decoded event channel.
	EventBuffer int
	// SettleDelay is how long the fallback backend waits for a path to go
	// quiet before reporting it. The native backend does not debounce.
	SettleDelay time.Duration
}

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.EventBuffer == 0 {
		o.EventBuffer = 100
	}
	if o.SettleDelay == 0 {
		o.SettleDelay = 100 * time.Millisecond
	}
}
