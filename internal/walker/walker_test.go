package walker

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SublimeIbanez/Overseer/internal/errors"
	"github.com/SublimeIbanez/Overseer/internal/node"
)

func discard() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// writeFixture creates nested files under root. Paths use / separators and
// entries ending in / are directories.
func writeFixture(t *testing.T, root string, entries ...string) {
	t.Helper()
	for _, e := range entries {
		full := filepath.Join(root, filepath.FromSlash(strings.TrimSuffix(e, "/")))
		if strings.HasSuffix(e, "/") {
			require.NoError(t, os.MkdirAll(full, 0o755))
			continue
		}
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	}
}

// collect flattens a tree into relative (path, isDir) pairs.
func collect(t *testing.T, root string, n node.Node) map[string]bool {
	t.Helper()
	out := make(map[string]bool)
	var visit func(node.Node)
	visit = func(n node.Node) {
		rel, err := filepath.Rel(root, n.Path())
		require.NoError(t, err)
		out[filepath.ToSlash(rel)] = n.IsDir()
		if d, ok := n.(*node.Directory); ok {
			for _, c := range d.Children() {
				visit(c)
			}
		}
	}
	visit(n)
	return out
}

func TestWalk_EmptyDirectory(t *testing.T) {
	root := t.TempDir()
	w := New(discard(), Options{IgnoreHidden: true})

	tree, err := w.Walk(context.Background(), root, Sequential)
	require.NoError(t, err)

	assert.Empty(t, tree.Children())
	assert.Equal(t, root, tree.Path())
}

func TestWalk_PruneHiddenAndIgnored(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root,
		".git/config",
		"a.txt",
		"node_modules/pkg/index.js",
	)

	w := New(discard(), Options{
		IgnoreHidden: true,
		IgnoreNames:  []string{"node_modules"},
	})

	for _, strategy := range []Strategy{Sequential, Concurrent, Iterative} {
		t.Run(strategy.String(), func(t *testing.T) {
			tree, err := w.Walk(context.Background(), root, strategy)
			require.NoError(t, err)

			require.Len(t, tree.Children(), 1)
			assert.Equal(t, "a.txt", tree.Children()[0].Name())
		})
	}
}

func TestWalk_PruningIsRecursive(t *testing.T) {
	root := t.TempDir()
	// visible.txt lives inside an ignored directory and must not surface.
	writeFixture(t, root,
		"ignored/visible.txt",
		"kept/inner.txt",
	)

	w := New(discard(), Options{IgnoreNames: []string{"ignored"}})

	tree, err := w.Walk(context.Background(), root, Sequential)
	require.NoError(t, err)

	got := collect(t, root, tree)
	assert.NotContains(t, got, "ignored")
	assert.NotContains(t, got, "ignored/visible.txt")
	assert.Contains(t, got, "kept/inner.txt")
}

func TestWalk_IgnoreListMatchesAtEveryDepth(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root,
		"a/build/out.o",
		"b/c/build/out.o",
		"a/keep.txt",
	)

	w := New(discard(), Options{IgnoreNames: []string{"build"}})

	tree, err := w.Walk(context.Background(), root, Iterative)
	require.NoError(t, err)

	got := collect(t, root, tree)
	assert.NotContains(t, got, "a/build")
	assert.NotContains(t, got, "b/c/build")
	assert.Contains(t, got, "a/keep.txt")
	assert.Contains(t, got, "b/c")
}

func TestWalk_StrategiesAreEquivalent(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root,
		"a.txt",
		"b/c.txt",
		"b/d/e.txt",
		"b/d/f/",
		"g/",
		".hidden/x.txt",
		"h/i/j/k/deep.txt",
	)

	w := New(discard(), Options{IgnoreHidden: true, Concurrency: 2})

	seq, err := w.Walk(context.Background(), root, Sequential)
	require.NoError(t, err)
	con, err := w.Walk(context.Background(), root, Concurrent)
	require.NoError(t, err)
	itr, err := w.Walk(context.Background(), root, Iterative)
	require.NoError(t, err)

	want := collect(t, root, seq)
	assert.Equal(t, want, collect(t, root, con))
	assert.Equal(t, want, collect(t, root, itr))
}

func TestWalk_RootDoesNotExist(t *testing.T) {
	w := New(discard(), Options{})

	_, err := w.Walk(context.Background(), filepath.Join(t.TempDir(), "missing"), Sequential)
	assert.True(t, errors.Is(err, errors.ErrPathNotFound))
}

func TestWalk_RootIsAFile(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	w := New(discard(), Options{})

	_, err := w.Walk(context.Background(), file, Concurrent)
	assert.True(t, errors.Is(err, errors.ErrNotADirectory))
}

func TestWalk_UnreadableSubdirectory(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions do not apply to root")
	}

	root := t.TempDir()
	writeFixture(t, root, "ok/a.txt", "locked/secret.txt")

	locked := filepath.Join(root, "locked")
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	w := New(discard(), Options{})

	// A failure below the root aborts the whole walk; no partial tree.
	for _, strategy := range []Strategy{Sequential, Concurrent, Iterative} {
		t.Run(strategy.String(), func(t *testing.T) {
			tree, err := w.Walk(context.Background(), root, strategy)
			assert.True(t, errors.Is(err, errors.ErrIO))
			assert.Nil(t, tree)
		})
	}
}

func TestWalk_SidecarNeverTracked(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, SidecarName, "a.txt")

	// Hidden filtering off: the sidecar must still be excluded.
	w := New(discard(), Options{IgnoreHidden: false})

	tree, err := w.Walk(context.Background(), root, Sequential)
	require.NoError(t, err)

	require.Len(t, tree.Children(), 1)
	assert.Equal(t, "a.txt", tree.Children()[0].Name())
}

func TestWalk_HiddenPredicateIsPluggable(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "_private/x.txt", ".dotted", "normal.txt")

	w := New(discard(), Options{
		IgnoreHidden: true,
		Hidden: func(name string) bool {
			return strings.HasPrefix(name, "_")
		},
	})

	tree, err := w.Walk(context.Background(), root, Sequential)
	require.NoError(t, err)

	got := collect(t, root, tree)
	assert.NotContains(t, got, "_private")
	assert.Contains(t, got, ".dotted")
	assert.Contains(t, got, "normal.txt")
}

func TestWalk_CancelledContext(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "a/b/c.txt")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w := New(discard(), Options{})
	_, err := w.Walk(ctx, root, Concurrent)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWalk_ModTimesPopulated(t *testing.T) {
	root := t.TempDir()
	writeFixture(t, root, "d/f.txt")

	w := New(discard(), Options{})
	tree, err := w.Walk(context.Background(), root, Sequential)
	require.NoError(t, err)

	require.Len(t, tree.Children(), 1)
	sub := tree.Children()[0].(*node.Directory)
	assert.False(t, sub.ModTime().IsZero())
	require.Len(t, sub.Children(), 1)
	assert.False(t, sub.Children()[0].ModTime().IsZero())
	assert.True(t, sub.Expanded())
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{"sequential", Sequential, false},
		{"concurrent", Concurrent, false},
		{"iterative", Iterative, false},
		{"", Sequential, false},
		{"parallel", Sequential, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseStrategy(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
