package walker

import (
	"context"

	"github.com/SublimeIbanez/Overseer/internal/node"
)

// walkIterative fills dir with an explicit pending stack, applying the same
// prune-before-descend rules as the recursive strategies. Useful when tree
// depth must be bounded by available memory rather than call-stack depth.
func (w *Walker) walkIterative(ctx context.Context, dir *node.Directory) error {
	pending := []*node.Directory{dir}

	for len(pending) > 0 {
		current := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := w.readEntries(ctx, current.Path())
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
			children = append(children, sub)
			pending = append(pending, sub)
		}

		current.SetChildren(children)
	}

	return nil
}
