package cpg

import (
	"fmt"

	"github.com/l3aro/contract-graph/pkg/ir"
)

// Build constructs the code property graph for one function's IR. It is a
// pure function of its input: constructing twice from the same IR yields
// identical graphs.
func Build(fn *ir.Function) *Graph {
	g := &Graph{Function: fn.Name}

	// Pass 1: one node per instruction, plus one per terminator, in block
	// order.
	lookup := make(map[Location]NodeID)
	for bi, block := range fn.Blocks {
		for si, instr := range block.Instructions {
			loc := Location{Block: bi, Statement: si}
			lookup[loc] = g.addNode(instr.Text, loc)
		}
		loc := Location{Block: bi, Statement: len(block.Instructions)}
		lookup[loc] = g.addNode(block.Terminator.Text, loc)
	}

	// Pass 2: data-flow edges from the last-definition map, then
	// control-flow edges across block boundaries.
	//
	// lastDef is a single map scanned in block-then-statement order, not a
	// reaching-definitions fixed point: a definition on one branch can show
	// up as the "last definition" for a sibling branch purely because of
	// iteration order. Downstream consumers rely on exactly this
	// approximation.
	lastDef := make(map[string]NodeID)
	for bi, block := range fn.Blocks {
		for si, instr := range block.Instructions {
			node := mustNode(lookup, Location{Block: bi, Statement: si})
			if instr.Assign == nil {
				continue
			}
			visitRValue(g, instr.Assign.Value, lastDef, node)
			lastDef[instr.Assign.Target] = node
		}

		term := mustNode(lookup, Location{Block: bi, Statement: len(block.Instructions)})
		visitTerminator(g, block.Terminator, lastDef, term)

		for _, succ := range block.Terminator.Successors {
			// Statement 0 of an empty block is its terminator node.
			g.addEdge(term, mustNode(lookup, Location{Block: succ, Statement: 0}), ControlFlow)
		}
	}

	return g
}

// visitRValue adds a data-flow edge for every variable the right-hand side
// reads, according to its shape. Unlisted shapes contribute no uses.
func visitRValue(g *Graph, rv ir.RValue, lastDef map[string]NodeID, use NodeID) {
	switch rv.Kind {
	case ir.RValueUse, ir.RValueCopyForDeref, ir.RValueUnary:
		if len(rv.Operands) > 0 {
			visitOperand(g, rv.Operands[0], lastDef, use)
		}
	case ir.RValueBinary, ir.RValueCheckedBinary:
		for i, op := range rv.Operands {
			if i == 2 {
				break
			}
			visitOperand(g, op, lastDef, use)
		}
	case ir.RValueAggregate:
		for _, op := range rv.Operands {
			visitOperand(g, op, lastDef, use)
		}
	}
}

// visitTerminator adds data-flow edges for the variables a terminator
// reads: a call's arguments, a switch's discriminant. No variable is
// defined by a terminator.
func visitTerminator(g *Graph, term ir.Terminator, lastDef map[string]NodeID, use NodeID) {
	switch term.Kind {
	case ir.TerminatorCall:
		for _, arg := range term.Args {
			visitOperand(g, arg, lastDef, use)
		}
	case ir.TerminatorSwitch:
		if term.Discr != nil {
			visitOperand(g, *term.Discr, lastDef, use)
		}
	}
}

func visitOperand(g *Graph, op ir.Operand, lastDef map[string]NodeID, use NodeID) {
	if op.Var == "" {
		return
	}
	if def, ok := lastDef[op.Var]; ok {
		g.addEdge(def, use, DataFlow)
	}
}

// mustNode panics on a missing location: every location is created in pass
// 1, so a miss is a broken internal invariant, not a recoverable input
// error.
func mustNode(lookup map[Location]NodeID, loc Location) NodeID {
	id, ok := lookup[loc]
	if !ok {
		panic(fmt.Sprintf("cpg: no node at block %d statement %d", loc.Block, loc.Statement))
	}
	return id
}
