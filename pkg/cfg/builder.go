package cfg

import (
	"fmt"

	"github.com/l3aro/contract-graph/pkg/ast"
)

// FuncDef pairs a discovered function definition node with its name and
// body. Body is nil when the definition carries no block, in which case the
// function's graph is just Entry→Exit.
type FuncDef struct {
	Name string
	Node *ast.Node
	Body *ast.Node
}

// Functions returns every function definition under root in pre-order.
// A definition's name is taken from its first identifier child, falling
// back to "unknown_function"; its body is the first block child.
func Functions(root *ast.Node, p Profile) []FuncDef {
	var defs []FuncDef
	var walk func(n *ast.Node)
	walk = func(n *ast.Node) {
		if p.isFunction(n.Kind) {
			def := FuncDef{Name: "unknown_function", Node: n}
			if id := n.FindChild(p.IdentifierKind); id != nil {
				def.Name = id.Text
			}
			def.Body = findBody(n, p)
			defs = append(defs, def)
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(root)
	return defs
}

// findBody returns the first direct child whose kind is a block kind.
func findBody(n *ast.Node, p Profile) *ast.Node {
	for _, child := range n.Children {
		if p.isBlock(child.Kind) {
			return child
		}
	}
	return nil
}

// BuildFunction constructs the control-flow graph for one discovered
// function and adds the finalization edge from the last live block to Exit,
// capturing implicit fallthrough at the end of a body with no explicit
// return. Construction cannot fail: absent children mean the feature is not
// present.
func BuildFunction(def FuncDef, p Profile) *Graph {
	b := &builder{graph: NewGraph(), profile: p}
	b.current = b.graph.Entry
	if def.Body != nil {
		b.visit(def.Body)
	}
	b.graph.AddEdge(b.current, b.graph.Exit)
	return b.graph
}

// builder carries the mutable construction state for one function: the
// block new statements and edges attach to, and the stack of enclosing loop
// contexts consulted by break. It lives only for the duration of one
// BuildFunction call.
type builder struct {
	graph   *Graph
	current BlockID
	loops   []loopContext
	profile Profile
}

// loopContext is one enclosing loop: its header and the block control
// reaches after the loop exits.
type loopContext struct {
	header BlockID
	after  BlockID
}

func (b *builder) visit(n *ast.Node) {
	switch {
	case b.profile.isBlock(n.Kind):
		// A nested block shares the current block context; no new basic
		// block is created merely for entering it.
		for _, child := range n.Children {
			b.visit(child)
		}

	case b.profile.isIf(n.Kind):
		b.visitIf(n)

	case b.profile.isReturn(n.Kind):
		b.graph.Append(b.current, n.Text)
		b.graph.AddEdge(b.current, b.graph.Exit)
		// Code after a return is unreachable; it gets a fresh block with no
		// incoming edge so later statements cannot corrupt a live block.
		b.current = b.graph.AddBlock()

	case b.profile.isLoop(n.Kind):
		b.visitLoop(n)

	case b.profile.isBreak(n.Kind):
		b.graph.Append(b.current, "break")
		if len(b.loops) > 0 {
			b.graph.AddEdge(b.current, b.loops[len(b.loops)-1].after)
		}
		// break outside any loop drops the edge silently.
		b.current = b.graph.AddBlock()

	default:
		if b.profile.IsLeafStatement(n.Kind) {
			if line := n.FirstLine(); line != "" {
				b.graph.Append(b.current, line)
			}
			return
		}
		// Transparent container: descend looking for statements.
		for _, child := range n.Children {
			b.visit(child)
		}
	}
}

func (b *builder) visitIf(n *ast.Node) {
	condition := ""
	if c := n.FindChild(b.profile.ConditionKind); c != nil {
		condition = c.Text
	}
	b.graph.Append(b.current, fmt.Sprintf("IF (%s)", condition))

	pre := b.current
	merge := b.graph.AddBlock()

	if consequence := n.FindChild(b.profile.ConsequenceKind); consequence != nil {
		start := b.graph.AddBlock()
		b.graph.AddEdge(pre, start)
		b.current = start
		b.visit(consequence)
		b.graph.AddEdge(b.current, merge)
	}

	if alternative := n.FindChild(b.profile.AlternativeKind); alternative != nil {
		start := b.graph.AddBlock()
		b.graph.AddEdge(pre, start)
		b.current = start
		b.visit(alternative)
		b.graph.AddEdge(b.current, merge)
	} else {
		// No else branch: control can fall through directly.
		b.graph.AddEdge(pre, merge)
	}

	b.current = merge
}

func (b *builder) visitLoop(n *ast.Node) {
	header := b.graph.AddBlock()
	b.graph.AddEdge(b.current, header)

	body := b.graph.AddBlock()
	after := b.graph.AddBlock()

	b.loops = append(b.loops, loopContext{header: header, after: after})

	b.graph.AddEdge(header, body)
	// Conservative exit edge, added for every loop kind including
	// unconditional loops.
	b.graph.AddEdge(header, after)

	b.current = body
	if bodyNode := findBody(n, b.profile); bodyNode != nil {
		b.visit(bodyNode)
	}
	// Back edge closing the loop.
	b.graph.AddEdge(b.current, header)

	b.loops = b.loops[:len(b.loops)-1]
	b.current = after
}
