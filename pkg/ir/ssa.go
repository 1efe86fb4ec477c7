package ir

import (
	"fmt"
	"go/token"
	"sort"

	"golang.org/x/tools/go/packages"
	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// CompileUnit loads the Go packages matched by patterns under dir, builds
// SSA form, and converts every function body into the flat IR model.
// Toolchain failures are fatal for the whole invocation: IR is obtained once
// per process, not per file in a loop.
func CompileUnit(dir string, patterns []string, buildFlags []string) (*Unit, error) {
	cfg := &packages.Config{
		Mode: packages.NeedName |
			packages.NeedFiles |
			packages.NeedCompiledGoFiles |
			packages.NeedImports |
			packages.NeedDeps |
			packages.NeedTypes |
			packages.NeedSyntax |
			packages.NeedTypesInfo,
		Dir:        dir,
		BuildFlags: buildFlags,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("loading packages: %w", err)
	}
	if len(pkgs) == 0 {
		return nil, fmt.Errorf("no packages matched %v", patterns)
	}
	for _, pkg := range pkgs {
		if len(pkg.Errors) > 0 {
			return nil, fmt.Errorf("package %s has errors: %v", pkg.PkgPath, pkg.Errors)
		}
	}

	prog, ssaPkgs := ssautil.AllPackages(pkgs, ssa.InstantiateGenerics)
	prog.Build()

	unit := &Unit{Name: pkgs[0].PkgPath}
	for _, ssaPkg := range ssaPkgs {
		if ssaPkg == nil {
			continue
		}
		// Stable member order so repeated compilations yield identical units.
		names := make([]string, 0, len(ssaPkg.Members))
		for name := range ssaPkg.Members {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if fn, ok := ssaPkg.Members[name].(*ssa.Function); ok {
				collectFunctions(fn, unit)
			}
		}
	}
	return unit, nil
}

// collectFunctions appends fn and its anonymous functions, skipping bodies
// external to the build.
func collectFunctions(fn *ssa.Function, unit *Unit) {
	if fn.Blocks != nil {
		unit.Functions = append(unit.Functions, convertFunction(fn))
	}
	for _, anon := range fn.AnonFuncs {
		collectFunctions(anon, unit)
	}
}

func convertFunction(fn *ssa.Function) Function {
	out := Function{Name: fn.String()}
	for _, block := range fn.Blocks {
		out.Blocks = append(out.Blocks, convertBlock(block))
	}
	return out
}

// convertBlock splits an SSA block into flat instructions plus the trailing
// control instruction, which becomes the terminator.
func convertBlock(block *ssa.BasicBlock) Block {
	out := Block{Instructions: []Instruction{}}
	n := len(block.Instrs)
	for i, instr := range block.Instrs {
		if i == n-1 {
			out.Terminator = convertTerminator(instr, block)
			break
		}
		out.Instructions = append(out.Instructions, convertInstruction(instr))
	}
	return out
}

// convertInstruction maps one SSA instruction onto the assignment model.
// Shapes without an obvious mapping keep their rendered text but carry no
// assignment, so they contribute nothing to data flow.
func convertInstruction(instr ssa.Instruction) Instruction {
	out := Instruction{Text: instrText(instr)}

	switch v := instr.(type) {
	case *ssa.UnOp:
		kind := RValueUnary
		if v.Op == token.MUL {
			// Pointer load: a dereference copy, not an arithmetic negation.
			kind = RValueCopyForDeref
		}
		out.Assign = assignment(v, kind, v.X)
	case *ssa.BinOp:
		out.Assign = assignment(v, RValueBinary, v.X, v.Y)
	case *ssa.Phi:
		out.Assign = assignment(v, RValueAggregate, v.Edges...)
	case *ssa.Call:
		// Call results surface their arguments as aggregate components so
		// argument reads are tracked.
		out.Assign = assignment(v, RValueAggregate, v.Call.Args...)
	case *ssa.MakeClosure:
		out.Assign = assignment(v, RValueAggregate, v.Bindings...)
	case *ssa.Convert:
		out.Assign = assignment(v, RValueUse, v.X)
	case *ssa.ChangeType:
		out.Assign = assignment(v, RValueUse, v.X)
	case *ssa.ChangeInterface:
		out.Assign = assignment(v, RValueUse, v.X)
	case *ssa.MakeInterface:
		out.Assign = assignment(v, RValueUse, v.X)
	case *ssa.Slice:
		out.Assign = assignment(v, RValueUse, v.X)
	case *ssa.Extract:
		out.Assign = assignment(v, RValueUse, v.Tuple)
	case *ssa.Field:
		out.Assign = assignment(v, RValueUse, v.X)
	case *ssa.FieldAddr:
		out.Assign = assignment(v, RValueUse, v.X)
	case *ssa.Index:
		out.Assign = assignment(v, RValueAggregate, v.X, v.Index)
	case *ssa.IndexAddr:
		out.Assign = assignment(v, RValueAggregate, v.X, v.Index)
	case *ssa.Lookup:
		out.Assign = assignment(v, RValueAggregate, v.X, v.Index)
	case *ssa.Store:
		out.Assign = &Assignment{
			Target: storeTarget(v.Addr),
			Value:  RValue{Kind: RValueUse, Operands: operands(v.Val)},
		}
	case *ssa.Alloc:
		out.Assign = &Assignment{
			Target: v.Name(),
			Value:  RValue{Kind: RValueAggregate},
		}
	}
	return out
}

func convertTerminator(instr ssa.Instruction, block *ssa.BasicBlock) Terminator {
	term := Terminator{Text: instrText(instr)}
	for _, succ := range block.Succs {
		term.Successors = append(term.Successors, succ.Index)
	}

	switch v := instr.(type) {
	case *ssa.If:
		term.Kind = TerminatorSwitch
		discr := operand(v.Cond)
		term.Discr = &discr
	case *ssa.Jump:
		term.Kind = TerminatorGoto
	case *ssa.Return:
		term.Kind = TerminatorReturn
	default:
		term.Kind = TerminatorUnreachable
	}
	return term
}

func assignment(v ssa.Value, kind RValueKind, vals ...ssa.Value) *Assignment {
	return &Assignment{
		Target: v.Name(),
		Value:  RValue{Kind: kind, Operands: operands(vals...)},
	}
}

func operands(vals ...ssa.Value) []Operand {
	ops := make([]Operand, 0, len(vals))
	for _, val := range vals {
		ops = append(ops, operand(val))
	}
	return ops
}

// operand names the variable a value reads, or stays empty for constants,
// globals, and function references, which record no use.
func operand(val ssa.Value) Operand {
	switch val.(type) {
	case nil, *ssa.Const, *ssa.Global, *ssa.Function, *ssa.Builtin:
		return Operand{}
	}
	return Operand{Var: val.Name()}
}

// storeTarget names the location a store writes through. Stores through
// computed addresses define the address variable itself, a coarse but
// honest approximation at this IR level.
func storeTarget(addr ssa.Value) string {
	if op := operand(addr); op.Var != "" {
		return op.Var
	}
	return addr.Name()
}

func instrText(instr ssa.Instruction) string {
	if v, ok := instr.(ssa.Value); ok {
		return v.Name() + " = " + v.String()
	}
	return instr.String()
}
