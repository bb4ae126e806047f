package walker

import (
	"context"

	"github.com/SublimeIbanez/Overseer/internal/node"
)

// walkSequential fills dir depth-first on the calling goroutine.
func (w *Walker) walkSequential(ctx context.Context, dir *node.Directory) error {
	entries, err := w.readEntries(ctx, dir.Path())
	if err != nil {
		return err
	}

	children := make([]node.Node, 0, len(entries))
	for _, e := range entries {
		if !e.info.IsDir() {
			children = append(children, node.NewFile(e.path, e.info.ModTime()))
			continue
		}

		sub := node.DirectoryAt(e.path, e.info.ModTime())
		if err := w.walkSequential(ctx, sub); err != nil {
			return err
		}
		children = append(children, sub)
	}

	dir.SetChildren(children)
	return nil
}
