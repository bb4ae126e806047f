// Package walker builds node trees from the real filesystem.
//
// A walk mirrors the accessible portion of a subtree at call time, minus
// pruned entries. Three strategies produce observably equivalent trees up
// to child ordering: a sequential depth-first recursion, a concurrent
// fan-out that dispatches one task per subdirectory, and an iterative
// traversal driven by an explicit pending stack.
package walker

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/SublimeIbanez/Overseer/internal/errors"
	"github.com/SublimeIbanez/Overseer/internal/node"
)

// Strategy selects the walk execution model.
type Strategy int

const (
	// Sequential walks depth-first on the calling goroutine.
	Sequential Strategy = iota
	// Concurrent dispatches one task per subdirectory and joins before
	// assembling each parent.
	Concurrent
	// Iterative traverses with an explicit pending stack instead of
	// recursion, bounding depth by heap rather than call stack.
	Iterative
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case Sequential:
		return "sequential"
	case Concurrent:
		return "concurrent"
	case Iterative:
		return "iterative"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a strategy name to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "sequential", "":
		return Sequential, nil
	case "concurrent":
		return Concurrent, nil
	case "iterative":
		return Iterative, nil
	default:
		return Sequential, errors.Internal("unknown walk strategy: " + s)
	}
}

// Walker traverses the filesystem and builds node trees.
type Walker struct {
	logger *slog.Logger
	opts   Options
}

// New creates a new walker.
func New(logger *slog.Logger, opts Options) *Walker {
	opts.setDefaults()
	return &Walker{
		logger: logger,
		opts:   opts,
	}
}

// Walk mirrors the subtree rooted at root using the given strategy.
// Any I/O error at any depth aborts the whole walk; there is no partial
// result. Child ordering within a directory is discovery order for the
// sequential and iterative strategies and unspecified for the concurrent
// one.
func (w *Walker) Walk(ctx context.Context, root string, strategy Strategy) (*node.Directory, error) {
	dir, err := node.NewDirectory(root)
	if err != nil {
		return nil, err
	}

	w.logger.Debug("walk started", "root", dir.Path(), "strategy", strategy.String())

	switch strategy {
	case Concurrent:
		err = w.walkConcurrent(ctx, dir)
	case Iterative:
		err = w.walkIterative(ctx, dir)
	default:
		err = w.walkSequential(ctx, dir)
	}
	if err != nil {
		return nil, err
	}

	return dir, nil
}

// readEntries lists dir's immediate entries, already pruned, pairing each
// with its file info. Metadata failures abort, mirroring the all-or-nothing
// walk contract.
func (w *Walker) readEntries(ctx context.Context, dir string) ([]entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	dirents, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.IO("read directory failed", err)
	}

	entries := make([]entry, 0, len(dirents))
	for _, de := range dirents {
		name := de.Name()
		if w.opts.prune(name) {
			continue
		}

		info, err := de.Info()
		if err != nil {
			return nil, errors.IO("read entry metadata failed", err)
		}

		entries = append(entries, entry{
			path: filepath.Join(dir, name),
			info: info,
		})
	}

	return entries, nil
}

// entry is one non-pruned directory entry with its metadata.
type entry struct {
	path string
	info fs.FileInfo
}
