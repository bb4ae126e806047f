package watcher

import (
	"fmt"
	"os"
	"sync"

	"github.com/SublimeIbanez/Overseer/internal/errors"
)

// ChangeLog is the append-only text record of observed events, one
// "Kind|name" line per event. The file is opened for append so restarts
// extend the history rather than truncating it.
type ChangeLog struct {
	mu   sync.Mutex
	f    *os.File
	path string
}

// OpenChangeLog opens (or creates) the change log at path.
func OpenChangeLog(path string) (*ChangeLog, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR|os.O_APPEND, 0o644)
	if err != nil {
		return nil, errors.IO("open change log", err)
	}
	return &ChangeLog{f: f, path: path}, nil
}

// Path returns the change log file path.
func (c *ChangeLog) Path() string { return c.path }

// Append writes one event line.
func (c *ChangeLog) Append(ev Event) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if _, err := fmt.Fprintf(c.f, "%s|%s\n", ev.Kind, ev.Name); err != nil {
		return errors.IO("append change log", err)
	}
	return nil
}

// Close closes the underlying file.
func (c *ChangeLog) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.f.Close(); err != nil {
		return errors.IO("close change log", err)
	}
	return nil
}
