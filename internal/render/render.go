// Package render turns a node tree into display lines.
//
// Rendering is pure: no I/O, no mutation, one line per visible node. At
// each level files come before subdirectories; within a category the
// tree's child order is kept. Collapsed directories emit their own line
// but none of their descendants'.
package render

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/SublimeIbanez/Overseer/internal/node"
)

// Connector glyphs. A middle child hangs off a branch, the last child off
// a corner; ancestors contribute a continuation pipe or blank padding
// depending on whether they were themselves last children.
const (
	branchConnector = " ├──"
	cornerConnector = " ╰──"
	continuation    = " │  "
	blankPadding    = "    "

	expandedMark  = "˅"
	collapsedMark = "˃"
)

// Renderer renders node trees as text.
type Renderer struct {
	markerStyle lipgloss.Style
	dirStyle    lipgloss.Style
	plain       bool
}

// New creates a renderer with the default styling: bold green expansion
// markers and bold blue directory names.
func New() *Renderer {
	return &Renderer{
		markerStyle: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("2")),
		dirStyle:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
	}
}

// NewPlain creates a renderer without any styling, for piping and tests.
func NewPlain() *Renderer {
	return &Renderer{plain: true}
}

// Render returns one line per visible node, root first. The root is always
// rendered regardless of its expansion flag.
func (r *Renderer) Render(dir *node.Directory) []string {
	lines := []string{r.dirLine("", dir)}
	if dir.Expanded() {
		r.renderChildren(dir, "", &lines)
	}
	return lines
}

// renderChildren appends lines for dir's children. prefix carries the
// accumulated ancestor connectors for this depth.
func (r *Renderer) renderChildren(dir *node.Directory, prefix string, lines *[]string) {
	// Files first, then subdirectories, both in child order.
	ordered := make([]node.Node, 0, len(dir.Children()))
	for _, c := range dir.Children() {
		if !c.IsDir() {
			ordered = append(ordered, c)
		}
	}
	for _, c := range dir.Children() {
		if c.IsDir() {
			ordered = append(ordered, c)
		}
	}

	for i, child := range ordered {
		isLast := i == len(ordered)-1
		connector := branchConnector
		if isLast {
			connector = cornerConnector
		}

		switch n := child.(type) {
		case *node.File:
			*lines = append(*lines, prefix+connector+" "+n.Name())
		case *node.Directory:
			*lines = append(*lines, r.dirLine(prefix+connector, n))

			subPrefix := prefix + continuation
			if isLast {
				subPrefix = prefix + blankPadding
			}
			if n.Expanded() {
				r.renderChildren(n, subPrefix, lines)
			}
		}
	}
}

// dirLine formats a directory's own line: prefix, expansion marker, name.
func (r *Renderer) dirLine(prefix string, dir *node.Directory) string {
	mark := expandedMark
	if !dir.Expanded() {
		mark = collapsedMark
	}
	if r.plain {
		return prefix + "[" + mark + "]" + dir.Name()
	}
	return prefix + "[" + r.markerStyle.Render(mark) + "]" + r.dirStyle.Render(dir.Name())
}
