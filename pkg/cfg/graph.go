// Package cfg builds per-function control-flow graphs from program trees.
//
// Blocks live in an arena addressed by stable integer ids; edges are plain
// (from, to) pairs with no payload. Loops create cycles and returns create
// unreachable islands, so blocks never hold references to each other.
package cfg

// BlockID addresses a basic block inside its owning graph's arena.
type BlockID int

// BasicBlock is an ordered list of single-line statement summaries.
type BasicBlock struct {
	Statements []string `json:"statements"`
}

// Edge is an unlabeled control transfer between two blocks.
type Edge struct {
	From BlockID `json:"from"`
	To   BlockID `json:"to"`
}

// Graph is the basic-block graph for one function. Entry and Exit are always
// present. Blocks with no incoming edges model unreachable code after a
// return or break; they stay in the arena so serialization is complete.
type Graph struct {
	Blocks []BasicBlock `json:"blocks"`
	Edges  []Edge       `json:"edges"`
	Entry  BlockID      `json:"entry"`
	Exit   BlockID      `json:"exit"`
}

// NewGraph creates a graph holding only the labeled Entry and Exit blocks.
func NewGraph() *Graph {
	g := &Graph{}
	g.Entry = g.AddBlock("Entry")
	g.Exit = g.AddBlock("Exit")
	return g
}

// AddBlock appends a new block to the arena, optionally pre-seeded with
// statements, and returns its id.
func (g *Graph) AddBlock(statements ...string) BlockID {
	g.Blocks = append(g.Blocks, BasicBlock{
		Statements: append(make([]string, 0, len(statements)), statements...),
	})
	return BlockID(len(g.Blocks) - 1)
}

// AddEdge records a directed edge between two blocks.
func (g *Graph) AddEdge(from, to BlockID) {
	g.Edges = append(g.Edges, Edge{From: from, To: to})
}

// Append adds one statement line to the block.
func (g *Graph) Append(id BlockID, line string) {
	g.Blocks[id].Statements = append(g.Blocks[id].Statements, line)
}

// HasEdge reports whether an edge from→to exists.
func (g *Graph) HasEdge(from, to BlockID) bool {
	for _, e := range g.Edges {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// InDegree returns the number of edges targeting the block.
func (g *Graph) InDegree(id BlockID) int {
	count := 0
	for _, e := range g.Edges {
		if e.To == id {
			count++
		}
	}
	return count
}

// Successors returns the targets of all edges leaving the block.
func (g *Graph) Successors(id BlockID) []BlockID {
	var succs []BlockID
	for _, e := range g.Edges {
		if e.From == id {
			succs = append(succs, e.To)
		}
	}
	return succs
}
