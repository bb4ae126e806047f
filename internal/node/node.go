// Package node defines the in-memory mirror of a directory subtree.
//
// A tree is built from Directory and File values. Nodes are owned by their
// parent directory's child list; the root is owned by the aggregate that
// walked it. The package holds no behavior beyond structural mutation - the
// walker populates trees, the renderer and codec consume them.
package node

import (
	"maps"
	"os"
	"path/filepath"
	"time"

	"github.com/SublimeIbanez/Overseer/internal/errors"
)

// Node is one entry in a mirrored tree: either a *Directory or a *File.
// The set of implementations is closed; consumers dispatch with a type
// switch over the two variants.
type Node interface {
	// Name returns the final path component.
	Name() string
	// Path returns the absolute path.
	Path() string
	// IsDir reports whether the node is a directory.
	IsDir() bool
	// ModTime returns the last-modified time read from the filesystem.
	// The zero time means the metadata has never been read.
	ModTime() time.Time
	// Clone returns a deep copy of the node and, for directories, its
	// entire subtree.
	Clone() Node

	node()
}

// Directory is a mirrored directory with an ordered list of children.
type Directory struct {
	name     string
	path     string
	modTime  time.Time
	expanded bool
	children []Node
	attrs    map[string]string
}

// File is a mirrored regular file.
type File struct {
	name    string
	path    string
	modTime time.Time
	attrs   map[string]string
}

func (*Directory) node() {}
func (*File) node()      {}

// NewDirectory creates a Directory from a live filesystem path.
// An empty path means the current working directory. The path must exist
// and refer to a directory; the directory starts expanded with no children
// and carries the last-modified time observed during validation.
func NewDirectory(path string) (*Directory, error) {
	abs, name, modTime, err := resolveDir(path)
	if err != nil {
		return nil, err
	}
	return &Directory{
		name:     name,
		path:     abs,
		modTime:  modTime,
		expanded: true,
	}, nil
}

// DirectoryAt constructs a Directory for a path the caller has just
// observed to be a directory, skipping re-validation. Used by the walker,
// which learns entry types from the parent's directory read.
func DirectoryAt(path string, modTime time.Time) *Directory {
	return &Directory{
		name:     filepath.Base(path),
		path:     path,
		modTime:  modTime,
		expanded: true,
	}
}

// NewFile creates a File for the given absolute path.
// No filesystem validation is performed; a file need not still exist at
// later access.
func NewFile(path string, modTime time.Time) *File {
	return &File{
		name:    filepath.Base(path),
		path:    path,
		modTime: modTime,
	}
}

// resolveDir normalizes path, validates it refers to a directory and
// returns the absolute path, its final component and last-modified time.
func resolveDir(path string) (abs, name string, modTime time.Time, err error) {
	if path == "" {
		path, err = os.Getwd()
		if err != nil {
			return "", "", time.Time{}, errors.ErrPathNotFound.WithCause(err)
		}
	}

	abs, err = filepath.Abs(filepath.Clean(path))
	if err != nil {
		return "", "", time.Time{}, errors.InvalidName(path)
	}

	info, err := os.Stat(abs)
	if err != nil {
		if os.IsNotExist(err) {
			return "", "", time.Time{}, errors.PathNotFound(abs)
		}
		return "", "", time.Time{}, errors.IO("stat failed", err)
	}
	if !info.IsDir() {
		return "", "", time.Time{}, errors.NotADirectory(abs)
	}

	name = filepath.Base(abs)
	if name == "" || name == "/" || name == "." {
		return "", "", time.Time{}, errors.InvalidName(abs)
	}

	return abs, name, info.ModTime(), nil
}

// Name returns the directory's final path component.
func (d *Directory) Name() string { return d.name }

// Path returns the directory's absolute path.
func (d *Directory) Path() string { return d.path }

// IsDir reports true.
func (d *Directory) IsDir() bool { return true }

// ModTime returns the directory's last-modified time (zero if never read).
func (d *Directory) ModTime() time.Time { return d.modTime }

// SetModTime records the directory's last-modified time.
func (d *Directory) SetModTime(t time.Time) { d.modTime = t }

// Expanded reports the display-only expansion flag. It never gates whether
// children are loaded.
func (d *Directory) Expanded() bool { return d.expanded }

// Expand marks the directory as expanded for rendering.
func (d *Directory) Expand() { d.expanded = true }

// Collapse marks the directory as collapsed for rendering. Children remain
// in memory.
func (d *Directory) Collapse() { d.expanded = false }

// SetExpanded sets the expansion flag directly.
func (d *Directory) SetExpanded(v bool) { d.expanded = v }

// Children returns the ordered child list. Insertion order is walk
// discovery order and is not guaranteed stable across walk strategies.
func (d *Directory) Children() []Node { return d.children }

// SetChildren replaces the child list wholesale.
func (d *Directory) SetChildren(children []Node) { d.children = children }

// Insert adds a child. A child with the same absolute path is replaced in
// place, keeping the list free of duplicate paths.
func (d *Directory) Insert(n Node) {
	for i, c := range d.children {
		if c.Path() == n.Path() {
			d.children[i] = n
			return
		}
	}
	d.children = append(d.children, n)
}

// Remove drops every child whose absolute path equals path.
func (d *Directory) Remove(path string) {
	kept := d.children[:0]
	for _, c := range d.children {
		if c.Path() != path {
			kept = append(kept, c)
		}
	}
	d.children = kept
}

// SetAttr upserts a caller-defined attribute. The walker never touches
// attributes.
func (d *Directory) SetAttr(key, value string) {
	if d.attrs == nil {
		d.attrs = make(map[string]string)
	}
	d.attrs[key] = value
}

// Attr looks up a caller-defined attribute.
func (d *Directory) Attr(key string) (string, bool) {
	v, ok := d.attrs[key]
	return v, ok
}

// Clone returns a deep copy of the directory and its entire subtree.
func (d *Directory) Clone() Node {
	out := &Directory{
		name:     d.name,
		path:     d.path,
		modTime:  d.modTime,
		expanded: d.expanded,
	}
	if d.children != nil {
		out.children = make([]Node, len(d.children))
		for i, c := range d.children {
			out.children[i] = c.Clone()
		}
	}
	if d.attrs != nil {
		out.attrs = maps.Clone(d.attrs)
	}
	return out
}

// Name returns the file's final path component.
func (f *File) Name() string { return f.name }

// Path returns the file's absolute path.
func (f *File) Path() string { return f.path }

// IsDir reports false.
func (f *File) IsDir() bool { return false }

// ModTime returns the file's last-modified time (zero if never read).
func (f *File) ModTime() time.Time { return f.modTime }

// SetModTime records the file's last-modified time.
func (f *File) SetModTime(t time.Time) { f.modTime = t }

// SetAttr upserts a caller-defined attribute.
func (f *File) SetAttr(key, value string) {
	if f.attrs == nil {
		f.attrs = make(map[string]string)
	}
	f.attrs[key] = value
}

// Attr looks up a caller-defined attribute.
func (f *File) Attr(key string) (string, bool) {
	v, ok := f.attrs[key]
	return v, ok
}

// Clone returns a deep copy of the file.
func (f *File) Clone() Node {
	out := &File{
		name:    f.name,
		path:    f.path,
		modTime: f.modTime,
	}
	if f.attrs != nil {
		out.attrs = maps.Clone(f.attrs)
	}
	return out
}
