package cpg

import (
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// WriteDOT writes a Graphviz rendering of the graph. Edges are unlabeled in
// the rendering even though they are typed internally.
func (g *Graph) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph {"); err != nil {
		return err
	}
	for id, node := range g.Nodes {
		if _, err := fmt.Fprintf(w, "    %d [ label=\"%s\" ]\n", id, dotEscape(node.Label)); err != nil {
			return err
		}
	}
	for _, e := range g.Edges {
		if _, err := fmt.Fprintf(w, "    %d -> %d [ ]\n", e.From, e.To); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w, "}")
	return err
}

// Save writes the graph in its structured binary form for programmatic
// consumers.
func (g *Graph) Save(w io.Writer) error {
	if err := msgpack.NewEncoder(w).Encode(g); err != nil {
		return fmt.Errorf("encoding code property graph: %w", err)
	}
	return nil
}

// Load reads a graph previously written by Save.
func Load(r io.Reader) (*Graph, error) {
	var g Graph
	if err := msgpack.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decoding code property graph: %w", err)
	}
	return &g, nil
}

func dotEscape(label string) string {
	label = strings.ReplaceAll(label, `\`, `\\`)
	label = strings.ReplaceAll(label, `"`, `\"`)
	return strings.ReplaceAll(label, "\n", `\n`)
}
