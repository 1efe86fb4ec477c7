// Package ir models the flat, per-function intermediate representation the
// CPG builder consumes: an ordered sequence of basic blocks, each an ordered
// sequence of instructions plus exactly one terminator. Units are produced
// either by the in-process SSA frontend (CompileUnit) or loaded from a JSON
// dump written by an external compiler bridge (LoadUnit).
package ir

// RValueKind tags the shape of an assignment's right-hand side. Only the
// listed shapes contribute variable uses; anything else is skipped for
// data-flow purposes.
type RValueKind string

const (
	RValueUse           RValueKind = "use"            // plain value copy/move
	RValueCopyForDeref  RValueKind = "copy_for_deref" // dereference copy
	RValueBinary        RValueKind = "binary"
	RValueCheckedBinary RValueKind = "checked_binary"
	RValueUnary         RValueKind = "unary"
	RValueAggregate     RValueKind = "aggregate" // struct/tuple/array construction
)

// TerminatorKind tags the control transfer ending a block. Only calls and
// multi-way switches carry variable uses.
type TerminatorKind string

const (
	TerminatorCall        TerminatorKind = "call"
	TerminatorSwitch      TerminatorKind = "switch"
	TerminatorGoto        TerminatorKind = "goto"
	TerminatorReturn      TerminatorKind = "return"
	TerminatorUnreachable TerminatorKind = "unreachable"
)

// Operand is a value read by an instruction or terminator. Var is empty for
// constants and other non-variable operands, which record no use.
type Operand struct {
	Var string `json:"var,omitempty"`
}

// RValue is the right-hand side of an assignment.
type RValue struct {
	Kind     RValueKind `json:"kind"`
	Operands []Operand  `json:"operands,omitempty"`
}

// Assignment writes Value into the variable named Target.
type Assignment struct {
	Target string `json:"target"`
	Value  RValue `json:"value"`
}

// Instruction is one flat IR statement. Assign is nil for instructions that
// neither define nor use variables.
type Instruction struct {
	Text   string      `json:"text"`
	Assign *Assignment `json:"assign,omitempty"`
}

// Terminator is the control transfer ending a block. Successors index into
// the owning function's block list.
type Terminator struct {
	Text       string         `json:"text"`
	Kind       TerminatorKind `json:"kind"`
	Args       []Operand      `json:"args,omitempty"`  // call arguments
	Discr      *Operand       `json:"discr,omitempty"` // switch discriminant
	Successors []int          `json:"successors,omitempty"`
}

// Block is one basic block: instructions in order plus a terminator.
type Block struct {
	Instructions []Instruction `json:"instructions"`
	Terminator   Terminator    `json:"terminator"`
}

// Function is one function body in block order. Block 0 is the entry block.
type Function struct {
	Name   string  `json:"name"`
	Blocks []Block `json:"blocks"`
}

// Unit is one compiled target: a package, crate, or equivalent.
type Unit struct {
	Name      string     `json:"name"`
	Functions []Function `json:"functions"`
}
