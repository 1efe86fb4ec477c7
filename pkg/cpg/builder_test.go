package cpg

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/contract-graph/pkg/ir"
)

// twoBlockFunc builds a function exercising definitions, uses, a switch
// discriminant, and an empty successor block:
//
//	bb0: x = const; y = x; switch x -> bb1
//	bb1: return
func twoBlockFunc() *ir.Function {
	return &ir.Function{
		Name: "f",
		Blocks: []ir.Block{
			{
				Instructions: []ir.Instruction{
					{Text: "x = 1", Assign: &ir.Assignment{
						Target: "x",
						Value:  ir.RValue{Kind: ir.RValueUse, Operands: []ir.Operand{{}}},
					}},
					{Text: "y = x", Assign: &ir.Assignment{
						Target: "y",
						Value:  ir.RValue{Kind: ir.RValueUse, Operands: []ir.Operand{{Var: "x"}}},
					}},
				},
				Terminator: ir.Terminator{
					Text:       "switch x",
					Kind:       ir.TerminatorSwitch,
					Discr:      &ir.Operand{Var: "x"},
					Successors: []int{1},
				},
			},
			{
				Terminator: ir.Terminator{Text: "return", Kind: ir.TerminatorReturn},
			},
		},
	}
}

func TestBuildNodesAndEdges(t *testing.T) {
	g := Build(twoBlockFunc())

	assert.Equal(t, "f", g.Function)

	// Two instructions + terminator in bb0, terminator only in bb1.
	require.Len(t, g.Nodes, 4)
	assert.Equal(t, "x = 1", g.Nodes[0].Label)
	assert.Equal(t, "y = x", g.Nodes[1].Label)
	assert.Equal(t, "switch x", g.Nodes[2].Label)
	assert.Equal(t, "return", g.Nodes[3].Label)

	// The terminator of an empty block sits at statement 0.
	assert.Equal(t, Location{Block: 1, Statement: 0}, g.Nodes[3].Loc)

	// Data flow: x's definition feeds both its uses.
	assert.True(t, g.HasEdge(0, 1, DataFlow), "x = 1 -> y = x")
	assert.True(t, g.HasEdge(0, 2, DataFlow), "x = 1 -> switch x")

	// Constant operands record no use.
	for _, e := range g.Edges {
		assert.NotEqual(t, NodeID(0), e.To, "nothing flows into the constant assignment")
	}

	// Control flow crosses the block boundary to the empty block's terminator.
	assert.True(t, g.HasEdge(2, 3, ControlFlow))
}

func TestBuildUndefinedUseIsSilent(t *testing.T) {
	fn := &ir.Function{
		Name: "g",
		Blocks: []ir.Block{{
			Instructions: []ir.Instruction{
				{Text: "y = a", Assign: &ir.Assignment{
					Target: "y",
					Value:  ir.RValue{Kind: ir.RValueUse, Operands: []ir.Operand{{Var: "a"}}},
				}},
			},
			Terminator: ir.Terminator{Text: "return", Kind: ir.TerminatorReturn},
		}},
	}

	g := Build(fn)

	// "a" was never defined, so no data-flow edge exists.
	for _, e := range g.Edges {
		assert.NotEqual(t, DataFlow, e.Kind)
	}
}

func TestBuildBinaryUsesTwoOperands(t *testing.T) {
	fn := &ir.Function{
		Name: "h",
		Blocks: []ir.Block{{
			Instructions: []ir.Instruction{
				{Text: "a = 1", Assign: &ir.Assignment{Target: "a", Value: ir.RValue{Kind: ir.RValueUse}}},
				{Text: "b = 2", Assign: &ir.Assignment{Target: "b", Value: ir.RValue{Kind: ir.RValueUse}}},
				{Text: "c = a + b", Assign: &ir.Assignment{
					Target: "c",
					Value: ir.RValue{Kind: ir.RValueBinary, Operands: []ir.Operand{
						{Var: "a"}, {Var: "b"},
					}},
				}},
			},
			Terminator: ir.Terminator{Text: "return", Kind: ir.TerminatorReturn},
		}},
	}

	g := Build(fn)

	assert.True(t, g.HasEdge(0, 2, DataFlow))
	assert.True(t, g.HasEdge(1, 2, DataFlow))
}

func TestBuildCallArguments(t *testing.T) {
	fn := &ir.Function{
		Name: "k",
		Blocks: []ir.Block{
			{
				Instructions: []ir.Instruction{
					{Text: "v = 1", Assign: &ir.Assignment{Target: "v", Value: ir.RValue{Kind: ir.RValueUse}}},
				},
				Terminator: ir.Terminator{
					Text:       "call sink(v)",
					Kind:       ir.TerminatorCall,
					Args:       []ir.Operand{{Var: "v"}},
					Successors: []int{1},
				},
			},
			{Terminator: ir.Terminator{Text: "return", Kind: ir.TerminatorReturn}},
		},
	}

	g := Build(fn)

	assert.True(t, g.HasEdge(0, 1, DataFlow), "argument flows into the call terminator")
	assert.True(t, g.HasEdge(1, 2, ControlFlow))
}

func TestBuildDeterministic(t *testing.T) {
	fn := twoBlockFunc()
	assert.Equal(t, Build(fn), Build(fn))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	g := Build(twoBlockFunc())

	var buf bytes.Buffer
	require.NoError(t, g.Save(&buf))

	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, g, loaded)
}

func TestWriteDOT(t *testing.T) {
	g := Build(twoBlockFunc())

	var buf bytes.Buffer
	require.NoError(t, g.WriteDOT(&buf))
	out := buf.String()

	assert.True(t, strings.HasPrefix(out, "digraph {\n"))
	assert.Contains(t, out, `0 [ label="x = 1" ]`)
	assert.Contains(t, out, "2 -> 3 [ ]")
}

func TestEdgeKindString(t *testing.T) {
	assert.Equal(t, "CFG", ControlFlow.String())
	assert.Equal(t, "DFG", DataFlow.String())
}
