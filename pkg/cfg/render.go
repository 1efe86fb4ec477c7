package cfg

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// WriteDOT writes a Graphviz rendering of the graph: nodes labeled with
// their statement lines, edges unlabeled.
func (g *Graph) WriteDOT(w io.Writer) error {
	if _, err := fmt.Fprintln(w, "digraph {"); err != nil {
		return err
	}
	for id, block := range g.Blocks {
		if _, err := fmt.Fprintf(w, "    %d [ label=\"%s\" ]\n", id, dotLabel(block.Statements)); err != nil {
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

// EncodeJSON writes the structured rendering of the graph: the full node
// arena with statement-line arrays plus the edge list, suitable for
// programmatic re-loading.
func (g *Graph) EncodeJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(g)
}

// DecodeJSON reloads a graph previously written by EncodeJSON.
func DecodeJSON(r io.Reader) (*Graph, error) {
	var g Graph
	if err := json.NewDecoder(r).Decode(&g); err != nil {
		return nil, fmt.Errorf("decoding control-flow graph: %w", err)
	}
	return &g, nil
}

// dotLabel joins statement lines into a single DOT label, escaping quotes
// and backslashes.
func dotLabel(lines []string) string {
	escaped := make([]string, len(lines))
	for i, line := range lines {
		line = strings.ReplaceAll(line, `\`, `\\`)
		line = strings.ReplaceAll(line, `"`, `\"`)
		escaped[i] = line
	}
	return strings.Join(escaped, `\n`)
}
