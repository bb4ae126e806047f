package search

import (
	"strings"

	"github.com/SublimeIbanez/Overseer/internal/node"
)

// Document types stored in the "type" field.
const (
	TypeFile      = "file"
	TypeDirectory = "directory"
)

// Document is the indexed representation of one tree entry. The document
// ID is the entry's absolute path.
type Document struct {
	ID      string
	Type    string
	Name    string
	Path    string
	Depth   int
	ModTime int64
}

// ToMap converts the document to a map with the lowercase field names the
// index mapping expects.
func (d *Document) ToMap() map[string]any {
	return map[string]any{
		"id":       d.ID,
		"type":     d.Type,
		"name":     d.Name,
		"path":     d.Path,
		"depth":    d.Depth,
		"mod_time": d.ModTime,
	}
}

// FromNode builds a document for one tree entry at the given depth.
func FromNode(n node.Node, depth int) *Document {
	docType := TypeFile
	if n.IsDir() {
		docType = TypeDirectory
	}

	modTime := int64(0)
	if !n.ModTime().IsZero() {
		modTime = n.ModTime().UnixNano()
	}

	return &Document{
		ID:      n.Path(),
		Type:    docType,
		Name:    n.Name(),
		Path:    n.Path(),
		Depth:   depth,
		ModTime: modTime,
	}
}

// Flatten collects documents for a whole tree, root included.
func Flatten(root *node.Directory) []*Document {
	var docs []*Document
	var walk func(n node.Node, depth int)
	walk = func(n node.Node, depth int) {
		docs = append(docs, FromNode(n, depth))
		if dir, ok := n.(*node.Directory); ok {
			for _, c := range dir.Children() {
				walk(c, depth+1)
			}
		}
	}
	walk(root, 0)
	return docs
}

// normalizeQuery lowercases and trims a raw user query.
func normalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}
