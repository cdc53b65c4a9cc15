package ir

import (
	"fmt"

	"cinder/internal/ast"
	"cinder/internal/semantic"
)

// Program is the root of the middle-end representation for one compilation
// unit. It owns every basic block, the per-function entry/exit blocks, and
// the shared pool of global variables. It also owns the id counters that
// used to be global mutable state: block ids and temporary numbers are
// process-unique within a Program, which keeps the subsystem reusable and
// testable in isolation.
type Program struct {
	File    *ast.File
	Context *semantic.Context

	Funcs   []*Function
	Globals []*semantic.VarSymbol
	Blocks  []*Block // every block, in allocation order

	nextBlockID int
	nextTempID  int
	nextTableID int
	nextConstID int
}

// Function groups one function's blocks plus the allocator- and
// emitter-facing side tables: the jump tables for its switches, its
// local-constant pool, and (after the live-range builder runs) the live
// ranges and interference graph the register allocator consumes.
type Function struct {
	Sym   *semantic.FuncSymbol
	Decl  *ast.FuncDecl
	Entry *Block
	Exit  *Block

	Blocks []*Block // layout order; Entry first
	Tables []*JumpTable
	Consts []*LocalConst

	Ranges       []*LiveRange
	Interference *InterferenceGraph
}

// JumpTable is an ordered array of case targets for a multi-way branch,
// reached through an indirect jump.
type JumpTable struct {
	ID      int
	Values  []int64
	Blocks  []*Block // one per value, same order
	Default *Block
}

func (t *JumpTable) Label() string { return fmt.Sprintf(".JT%d", t.ID) }

// LocalConst is a string or float literal interned into the function's
// constant pool.
type LocalConst struct {
	ID      int
	Str     string
	Float   float64
	IsFloat bool
}

func (c *LocalConst) Label() string { return fmt.Sprintf(".LC%d", c.ID) }

// NewBlock allocates a block with a fresh, monotonically increasing id and
// registers it with both the program and its owning function.
func (p *Program) NewBlock(fn *Function, kind BlockKind) *Block {
	p.nextBlockID++
	b := &Block{ID: p.nextBlockID, Kind: kind, Fn: fn}
	p.Blocks = append(p.Blocks, b)
	fn.Blocks = append(fn.Blocks, b)
	return b
}

// NewTemp allocates a fresh temporary occurrence. Temporaries are uniquely
// numbered and never reused.
func (p *Program) NewTemp() *Operand {
	p.nextTempID++
	return &Operand{Temp: p.nextTempID}
}

func (p *Program) newTable(fn *Function) *JumpTable {
	p.nextTableID++
	t := &JumpTable{ID: p.nextTableID}
	fn.Tables = append(fn.Tables, t)
	return t
}

func (p *Program) newConst(fn *Function) *LocalConst {
	p.nextConstID++
	c := &LocalConst{ID: p.nextConstID}
	fn.Consts = append(fn.Consts, c)
	return c
}

// linkLayout records the final linear block order as a direct-successor
// chain, the shape the text emitter walks. Conditional branches name only
// their taken target; the not-taken side is reached by falling through, so
// a branch block must be immediately followed by its fall-through
// successor. Blocks ending in a jump, indirect jump, or return name every
// target explicitly and can be followed by anything; the exit block goes
// last.
func (fn *Function) linkLayout() {
	placed := make(map[*Block]bool, len(fn.Blocks))
	order := make([]*Block, 0, len(fn.Blocks))

	chain := func(b *Block) {
		for b != nil && b != fn.Exit && !placed[b] {
			placed[b] = true
			order = append(order, b)
			b = fallthroughSucc(b)
		}
	}

	chain(fn.Entry)
	for _, b := range fn.Blocks {
		chain(b)
	}
	order = append(order, fn.Exit)

	fn.Blocks = order
	for i, b := range order {
		if i+1 < len(order) {
			b.LayoutNext = order[i+1]
		} else {
			b.LayoutNext = nil
		}
	}
}

// fallthroughSucc returns the successor that must directly follow b in the
// linear order: the not-taken side of a conditional branch. Every
// fall-through target has exactly one branch falling into it, so following
// these edges forms disjoint chains.
func fallthroughSucc(b *Block) *Block {
	in := b.Last()
	if in == nil || in.Op != OpBranch {
		return nil
	}
	for _, s := range b.Succs {
		if s != in.Target.Block {
			return s
		}
	}
	return nil
}
