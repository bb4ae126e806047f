package walker

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/SublimeIbanez/Overseer/internal/node"
)

// walkConcurrent fills dir by dispatching one task per subdirectory and
// joining before each parent assembles its children. Every subtree is
// exclusively owned by the task that builds it until handed to its parent,
// so the join is the only synchronization point. The semaphore caps how
// many directory reads are in flight to avoid descriptor exhaustion on
// very wide trees.
func (w *Walker) walkConcurrent(ctx context.Context, dir *node.Directory) error {
	sem := make(chan struct{}, w.opts.Concurrency)
	return w.fanout(ctx, dir, sem)
}

func (w *Walker) fanout(ctx context.Context, dir *node.Directory, sem chan struct{}) error {
	select {
	case sem <- struct{}{}:
	case <-ctx.Done():
		return ctx.Err()
	}
	entries, err := w.readEntries(ctx, dir.Path())
	<-sem
	if err != nil {
		return err
	}

	// Files fill their slots immediately; each subdirectory task owns one
	// slot, so assembly after the join needs no locking.
	children := make([]node.Node, len(entries))
	g, ctx := errgroup.WithContext(ctx)
	for i, e := range entries {
		if !e.info.IsDir() {
			children[i] = node.NewFile(e.path, e.info.ModTime())
			continue
		}

		sub := node.DirectoryAt(e.path, e.info.ModTime())
		children[i] = sub
		g.Go(func() error {
			return w.fanout(ctx, sub, sem)
		})
	}

	// The first error cancels all outstanding child tasks; their partial
	// subtrees are discarded with the walk result.
	if err := g.Wait(); err != nil {
		return err
	}

	dir.SetChildren(children)
	return nil
}
