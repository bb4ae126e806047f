package walker

import (
	"runtime"
	"slices"
	"strings"
)

// SidecarName is the file name of the snapshot stored alongside a watched
// root. It is excluded from every walk so a tree never tracks its own
// snapshot.
const SidecarName = ".watcher"

// HiddenFunc decides whether a bare entry name denotes a hidden entry.
// The predicate is pluggable so platforms with a hidden-attribute bit (or
// tests) can substitute their own rule.
type HiddenFunc func(name string) bool

// Options configures pruning and fan-out for a walk.
type Options struct {
	// IgnoreHidden prunes entries the Hidden predicate matches.
	IgnoreHidden bool
	// IgnoreNames is an ordered set of bare names pruned at every depth.
	IgnoreNames []string
	// Hidden is the hidden-entry predicate. Defaults to the POSIX rule
	// (leading dot).
	Hidden HiddenFunc
	// Concurrency caps the fan-out of the concurrent strategy. Defaults to
	// a small multiple of GOMAXPROCS.
	Concurrency int
}

// setDefaults applies default values to unset options.
func (o *Options) setDefaults() {
	if o.Hidden == nil {
		o.Hidden = HiddenPOSIX
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4 * runtime.GOMAXPROCS(0)
	}
}

// HiddenPOSIX reports whether name is hidden under the POSIX convention.
func HiddenPOSIX(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}

// prune reports whether an entry with the given bare name is skipped
// entirely. A pruned directory's descendants are never visited.
func (o *Options) prune(name string) bool {
	if name == SidecarName {
		return true
	}
	if o.IgnoreHidden && o.Hidden(name) {
		return true
	}
	return slices.Contains(o.IgnoreNames, name)
}
