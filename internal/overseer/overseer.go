// Package overseer owns one mirrored tree plus its walk configuration.
//
// The aggregate composes the walker (to populate the tree), the renderer
// (to display it) and the sidecar codec (to persist it). Ignore settings
// are mutable at any time and take effect on the next walk.
package overseer

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/SublimeIbanez/Overseer/internal/errors"
	"github.com/SublimeIbanez/Overseer/internal/id"
	"github.com/SublimeIbanez/Overseer/internal/node"
	"github.com/SublimeIbanez/Overseer/internal/render"
	"github.com/SublimeIbanez/Overseer/internal/walker"
)

// Overseer tracks one directory root: its name, path, ignore configuration
// and the walked tree. It is safe for concurrent use; the watch loop
// refreshes the tree while HTTP handlers read it.
type Overseer struct {
	rootName string
	rootPath string
	logger   *slog.Logger

	mu           sync.RWMutex
	ignoreHidden bool
	ignoreList   []string
	tree         *node.Directory
	snapshotID   string
	savedAt      time.Time
}

// New creates an Overseer for the given path with an empty tree. An empty
// path means the current working directory. Hidden entries are ignored by
// default.
func New(path string, logger *slog.Logger) (*Overseer, error) {
	tree, err := node.NewDirectory(path)
	if err != nil {
		return nil, err
	}

	return &Overseer{
		rootName:     tree.Name(),
		rootPath:     tree.Path(),
		ignoreHidden: true,
		tree:         tree,
		logger:       logger,
	}, nil
}

// FromTree creates an Overseer around a pre-built tree. The tree's path
// must still refer to a real directory.
func FromTree(tree *node.Directory, logger *slog.Logger) (*Overseer, error) {
	info, err := os.Stat(tree.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.PathNotFound(tree.Path())
		}
		return nil, errors.IO("stat failed", err)
	}
	if !info.IsDir() {
		return nil, errors.NotADirectory(tree.Path())
	}

	return &Overseer{
		rootName:     tree.Name(),
		rootPath:     tree.Path(),
		ignoreHidden: true,
		tree:         tree,
		logger:       logger,
	}, nil
}

// RootName returns the root's final path component.
func (o *Overseer) RootName() string { return o.rootName }

// RootPath returns the root's absolute path.
func (o *Overseer) RootPath() string { return o.rootPath }

// Tree returns the current tree.
func (o *Overseer) Tree() *node.Directory {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.tree
}

// SetTree replaces the tree wholesale.
func (o *Overseer) SetTree(tree *node.Directory) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.tree = tree
}

// SnapshotID returns the ID stamped by the most recent Save or Load, or ""
// if the aggregate has never been persisted.
func (o *Overseer) SnapshotID() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.snapshotID
}

// IgnoreHidden reports whether hidden entries are pruned on the next walk.
func (o *Overseer) IgnoreHidden() bool {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.ignoreHidden
}

// SetIgnoreHidden sets the hidden-entry policy for the next walk.
func (o *Overseer) SetIgnoreHidden(v bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ignoreHidden = v
}

// IgnoreList returns a copy of the ignored bare names, in insertion order.
func (o *Overseer) IgnoreList() []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return slices.Clone(o.ignoreList)
}

// AddIgnore adds a bare name to the ignore list. Names match entries at
// every depth. Duplicates are dropped.
func (o *Overseer) AddIgnore(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if slices.Contains(o.ignoreList, name) {
		return
	}
	o.ignoreList = append(o.ignoreList, name)
}

// RemoveIgnore drops a name from the ignore list.
func (o *Overseer) RemoveIgnore(name string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ignoreList = slices.DeleteFunc(o.ignoreList, func(s string) bool {
		return s == name
	})
}

// ResetIgnore clears the ignore list.
func (o *Overseer) ResetIgnore() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.ignoreList = nil
}

// Walk mirrors the filesystem under the root and replaces the tree. On
// failure the previous tree is left untouched. The lock is not held while
// the filesystem is read; only the final swap takes it.
func (o *Overseer) Walk(ctx context.Context, strategy walker.Strategy) error {
	o.mu.RLock()
	opts := walker.Options{
		IgnoreHidden: o.ignoreHidden,
		IgnoreNames:  slices.Clone(o.ignoreList),
	}
	o.mu.RUnlock()

	w := walker.New(o.logger, opts)

	tree, err := w.Walk(ctx, o.rootPath, strategy)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.tree = tree
	o.mu.Unlock()
	return nil
}

// Render returns the tree's display lines using the given renderer.
func (o *Overseer) Render(r *render.Renderer) []string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return r.Render(o.tree)
}

// SidecarPath returns the path of this root's snapshot file.
func (o *Overseer) SidecarPath() string {
	return filepath.Join(o.rootPath, walker.SidecarName)
}

// Save serializes the whole aggregate to the sidecar file, overwriting any
// prior snapshot in full. The write is not atomic; a crash mid-write can
// leave a truncated sidecar.
func (o *Overseer) Save() error {
	snapshotID, err := id.Generate("snap")
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "generate snapshot id")
	}

	o.mu.Lock()
	o.snapshotID = snapshotID
	o.savedAt = time.Now()
	data := o.marshalXDR()
	o.mu.Unlock()

	if data == nil {
		return errors.Internal("encode snapshot")
	}

	if err := os.WriteFile(o.SidecarPath(), data, 0o644); err != nil {
		return errors.IO("write snapshot", err)
	}

	o.logger.Info("snapshot saved", "path", o.SidecarPath(), "snapshot_id", snapshotID)
	return nil
}

// Load restores an aggregate from the sidecar under path. No filesystem
// re-validation is performed; the loaded tree is trusted as-is even if it
// describes a now-stale filesystem state.
func Load(path string, logger *slog.Logger) (*Overseer, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, errors.ErrPathNotFound.WithCause(err)
		}
		path = wd
	}

	data, err := os.ReadFile(filepath.Join(path, walker.SidecarName))
	if err != nil {
		return nil, errors.Decode("snapshot missing or unreadable", err)
	}

	o := &Overseer{logger: logger}
	if err := o.UnmarshalXDR(data); err != nil {
		return nil, err
	}

	logger.Debug("snapshot loaded", "path", path, "snapshot_id", o.snapshotID)
	return o, nil
}
