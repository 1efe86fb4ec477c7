package ast

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
)

// Parser converts source text into program trees. A Parser can be reused
// across files but is not safe for concurrent use; batch runs create one per
// worker.
type Parser struct {
	parser *sitter.Parser
}

// NewParser creates a parser with no language configured; Parse sets the
// language per call.
func NewParser() *Parser {
	return &Parser{parser: sitter.NewParser()}
}

// Parse parses content with the given grammar and converts the resulting
// tree depth-first into Nodes.
func (p *Parser) Parse(content []byte, g *Grammar) (*Node, error) {
	p.parser.SetLanguage(g.Language)

	tree := p.parser.Parse(nil, content)
	if tree == nil {
		return nil, fmt.Errorf("parsing %s source failed", g.Name)
	}
	defer tree.Close()

	return convert(tree.RootNode(), content), nil
}

// convert recursively maps a tree-sitter node onto the serializable tree.
func convert(node *sitter.Node, content []byte) *Node {
	children := make([]*Node, 0, node.ChildCount())
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child == nil {
			continue
		}
		children = append(children, convert(child, content))
	}

	return &Node{
		Kind:      node.Type(),
		Text:      nodeText(node, content),
		StartByte: node.StartByte(),
		EndByte:   node.EndByte(),
		Children:  children,
	}
}

func nodeText(node *sitter.Node, content []byte) string {
	start := node.StartByte()
	end := node.EndByte()
	if start >= uint32(len(content)) || end > uint32(len(content)) {
		return ""
	}
	return string(content[start:end])
}
