// Package ast defines the language-agnostic program tree produced by the
// parsing stage and consumed by the graph builders. A node carries a
// structural kind, the source text it covers, its byte span, and an ordered
// list of children. Ownership is strictly tree-shaped: every node has one
// parent and the tree is never mutated after construction.
package ast

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Node is one program tree node. The JSON shape matches the on-disk
// .ast.json artifacts written by the ast stage.
type Node struct {
	Kind      string  `json:"kind"`       // Structural tag, e.g. "function_item", "identifier"
	Text      string  `json:"text"`       // Source text covered by this node
	StartByte uint32  `json:"start_byte"` // Start offset in the source file
	EndByte   uint32  `json:"end_byte"`   // End offset in the source file
	Children  []*Node `json:"children"`   // Ordered child nodes
}

// FindChild returns the first direct child with the given kind, or nil.
func (n *Node) FindChild(kind string) *Node {
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

// FirstLine returns the first line of the node's text, trimmed of
// surrounding whitespace. Used to summarize a multi-line statement as a
// single readable line.
func (n *Node) FirstLine() string {
	line := n.Text
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	return strings.TrimSpace(line)
}

// ReadFile loads a program tree previously serialized as JSON.
func ReadFile(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading program tree %s: %w", path, err)
	}
	var root Node
	if err := json.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("decoding program tree %s: %w", path, err)
	}
	return &root, nil
}
