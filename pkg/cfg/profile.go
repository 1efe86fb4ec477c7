package cfg

import "strings"

// Profile maps a grammar's node kinds onto control-flow constructs. New
// source grammars supply their own profile; the recursion engine itself
// never hardcodes kind strings.
type Profile struct {
	FunctionKinds  []string // kinds that define a function
	IdentifierKind string   // kind of a function's name child

	BlockKinds []string // compound blocks recursed into in place

	IfKinds         []string // conditional expressions/statements
	ConditionKind   string   // the condition slot child
	ConsequenceKind string   // the "then" branch child
	AlternativeKind string   // the "else" branch child

	ReturnKinds []string
	LoopKinds   []string // loop/while/for, handled uniformly
	BreakKinds  []string

	// IsLeafStatement decides whether an unrecognized kind is a one-line
	// statement summary or a transparent container to recurse into.
	IsLeafStatement func(kind string) bool
}

// DefaultProfile matches the tree-sitter Rust grammar used for contract
// sources.
func DefaultProfile() Profile {
	return Profile{
		FunctionKinds:   []string{"function_item"},
		IdentifierKind:  "identifier",
		BlockKinds:      []string{"statement_block", "block"},
		IfKinds:         []string{"if_expression"},
		ConditionKind:   "condition",
		ConsequenceKind: "consequence",
		AlternativeKind: "alternative",
		ReturnKinds:     []string{"return_expression"},
		LoopKinds:       []string{"loop_expression", "while_expression", "for_expression"},
		BreakKinds:      []string{"break_expression"},
		IsLeafStatement: SuffixClassifier("_statement", "_declaration", "_item"),
	}
}

// SuffixClassifier builds a leaf-statement classifier that matches any kind
// carrying one of the given suffixes.
func SuffixClassifier(suffixes ...string) func(string) bool {
	return func(kind string) bool {
		for _, suffix := range suffixes {
			if strings.HasSuffix(kind, suffix) {
				return true
			}
		}
		return false
	}
}

func (p Profile) isFunction(kind string) bool { return containsKind(p.FunctionKinds, kind) }
func (p Profile) isBlock(kind string) bool    { return containsKind(p.BlockKinds, kind) }
func (p Profile) isIf(kind string) bool       { return containsKind(p.IfKinds, kind) }
func (p Profile) isReturn(kind string) bool   { return containsKind(p.ReturnKinds, kind) }
func (p Profile) isLoop(kind string) bool     { return containsKind(p.LoopKinds, kind) }
func (p Profile) isBreak(kind string) bool    { return containsKind(p.BreakKinds, kind) }

func containsKind(kinds []string, kind string) bool {
	for _, k := range kinds {
		if k == kind {
			return true
		}
	}
	return false
}
