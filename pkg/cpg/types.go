// Package cpg builds per-function code property graphs over the flat IR:
// one node per instruction or terminator, control-flow edges across block
// boundaries, and def-use data-flow edges derived from a linear
// last-definition scan.
package cpg

// Location addresses an IR instruction inside its function. Statement equal
// to the block's instruction count denotes the block's terminator.
type Location struct {
	Block     int `json:"block" msgpack:"block"`
	Statement int `json:"statement" msgpack:"statement"`
}

// NodeID addresses a node inside its owning graph's arena.
type NodeID int

// Node is one instruction or terminator.
type Node struct {
	Label string   `json:"label" msgpack:"label"` // rendered instruction text
	Loc   Location `json:"location" msgpack:"location"`
}

// EdgeKind distinguishes control-flow from data-flow edges.
type EdgeKind int

const (
	ControlFlow EdgeKind = iota
	DataFlow
)

func (k EdgeKind) String() string {
	switch k {
	case ControlFlow:
		return "CFG"
	case DataFlow:
		return "DFG"
	default:
		return "unknown"
	}
}

// Edge is a typed directed edge between two nodes.
type Edge struct {
	From NodeID   `json:"from" msgpack:"from"`
	To   NodeID   `json:"to" msgpack:"to"`
	Kind EdgeKind `json:"kind" msgpack:"kind"`
}

// Graph is the code property graph for one function. There is no
// distinguished entry or exit: consumers infer them from block 0 and from
// terminators with no successors.
type Graph struct {
	Function string `json:"function" msgpack:"function"`
	Nodes    []Node `json:"nodes" msgpack:"nodes"`
	Edges    []Edge `json:"edges" msgpack:"edges"`
}

func (g *Graph) addNode(label string, loc Location) NodeID {
	g.Nodes = append(g.Nodes, Node{Label: label, Loc: loc})
	return NodeID(len(g.Nodes) - 1)
}

func (g *Graph) addEdge(from, to NodeID, kind EdgeKind) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Kind: kind})
}

// HasEdge reports whether an edge of the given kind exists from→to.
func (g *Graph) HasEdge(from, to NodeID, kind EdgeKind) bool {
	for _, e := range g.Edges {
		if e.From == from && e.To == to && e.Kind == kind {
			return true
		}
	}
	return false
}
