package node

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SublimeIbanez/Overseer/internal/errors"
)

func TestNewDirectory(t *testing.T) {
	dir := t.TempDir()

	d, err := NewDirectory(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Base(dir), d.Name())
	assert.Equal(t, dir, d.Path())
	assert.True(t, d.IsDir())
	assert.True(t, d.Expanded())
	assert.Empty(t, d.Children())
	assert.False(t, d.ModTime().IsZero())
}

func TestNewDirectory_EmptyPathUsesWorkingDirectory(t *testing.T) {
	d, err := NewDirectory("")
	require.NoError(t, err)

	wd, err := os.Getwd()
	require.NoError(t, err)
	assert.Equal(t, wd, d.Path())
}

func TestNewDirectory_PathDoesNotExist(t *testing.T) {
	_, err := NewDirectory(filepath.Join(t.TempDir(), "missing"))
	assert.True(t, errors.Is(err, errors.ErrPathNotFound))
}

func TestNewDirectory_NotADirectory(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "plain.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := NewDirectory(file)
	assert.True(t, errors.Is(err, errors.ErrNotADirectory))
}

func TestNewFile_NameDerivedFromPath(t *testing.T) {
	f := NewFile("/data/library/a.txt", time.Time{})
	assert.Equal(t, "a.txt", f.Name())
	assert.Equal(t, "/data/library/a.txt", f.Path())
	assert.False(t, f.IsDir())
}

func TestDirectory_InsertReplacesDuplicatePath(t *testing.T) {
	d := testDirectory(t)

	d.Insert(NewFile(filepath.Join(d.Path(), "a.txt"), time.Time{}))
	d.Insert(NewFile(filepath.Join(d.Path(), "b.txt"), time.Time{}))
	d.Insert(NewFile(filepath.Join(d.Path(), "a.txt"), time.Unix(100, 0)))

	require.Len(t, d.Children(), 2)
	assert.Equal(t, time.Unix(100, 0), d.Children()[0].ModTime())
}

func TestDirectory_RemoveDropsAllMatches(t *testing.T) {
	d := testDirectory(t)
	target := filepath.Join(d.Path(), "gone.txt")

	d.SetChildren([]Node{
		NewFile(target, time.Time{}),
		NewFile(filepath.Join(d.Path(), "kept.txt"), time.Time{}),
	})

	d.Remove(target)

	require.Len(t, d.Children(), 1)
	assert.Equal(t, "kept.txt", d.Children()[0].Name())
}

func TestDirectory_ExpandToggleDoesNotTouchChildren(t *testing.T) {
	d := testDirectory(t)
	d.SetChildren([]Node{NewFile(filepath.Join(d.Path(), "a.txt"), time.Time{})})

	d.Collapse()
	assert.False(t, d.Expanded())
	assert.Len(t, d.Children(), 1)

	d.Expand()
	assert.True(t, d.Expanded())
	assert.Len(t, d.Children(), 1)
}

func TestDirectory_CloneIsDeep(t *testing.T) {
	d := testDirectory(t)
	sub := &Directory{name: "sub", path: filepath.Join(d.Path(), "sub"), expanded: true}
	sub.Insert(NewFile(filepath.Join(sub.Path(), "g.txt"), time.Time{}))
	d.SetChildren([]Node{sub})
	d.SetAttr("color", "blue")

	clone := d.Clone().(*Directory)
	assert.Equal(t, d, clone)

	// Mutating the clone's subtree must not leak into the original.
	clone.Children()[0].(*Directory).Remove(filepath.Join(sub.Path(), "g.txt"))
	clone.SetAttr("color", "red")

	assert.Len(t, sub.Children(), 1)
	v, _ := d.Attr("color")
	assert.Equal(t, "blue", v)
}

func TestAttributes_UpsertAndLookup(t *testing.T) {
	f := NewFile("/tmp/a.txt", time.Time{})

	_, ok := f.Attr("owner")
	assert.False(t, ok)

	f.SetAttr("owner", "sam")
	f.SetAttr("owner", "robin")

	v, ok := f.Attr("owner")
	assert.True(t, ok)
	assert.Equal(t, "robin", v)
}

func TestXDR_RoundTrip(t *testing.T) {
	d := testDirectory(t)
	sub := &Directory{name: "sub", path: filepath.Join(d.Path(), "sub"), expanded: false, modTime: time.Unix(1700000000, 500)}
	sub.Insert(NewFile(filepath.Join(sub.Path(), "g.txt"), time.Unix(1700000001, 0)))
	d.SetChildren([]Node{
		NewFile(filepath.Join(d.Path(), "f.txt"), time.Unix(1700000002, 0)),
		sub,
	})
	d.SetAttr("tag", "library")
	d.SetModTime(time.Unix(1700000003, 0))

	bs := d.MarshalXDR()
	require.NotEmpty(t, bs)

	var out Directory
	require.NoError(t, out.UnmarshalXDR(bs))
	assert.Equal(t, d, &out)
}

func TestXDR_TruncatedPayload(t *testing.T) {
	d := testDirectory(t)
	d.Insert(NewFile(filepath.Join(d.Path(), "f.txt"), time.Time{}))

	bs := d.MarshalXDR()

	var out Directory
	err := out.UnmarshalXDR(bs[:len(bs)/2])
	assert.True(t, errors.Is(err, errors.ErrDecode))
}

func TestXDR_UnknownVariant(t *testing.T) {
	var out Directory
	// First word is the variant tag; 7 is not a known variant.
	err := out.UnmarshalXDR([]byte{0, 0, 0, 7})
	assert.True(t, errors.Is(err, errors.ErrDecode))
}

func testDirectory(t *testing.T) *Directory {
	t.Helper()
	d, err := NewDirectory(t.TempDir())
	require.NoError(t, err)
	return d
}
