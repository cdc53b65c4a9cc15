package ir

import (
	"cinder/internal/ast"
	"cinder/internal/errors"
	"cinder/internal/semantic"
	"cinder/internal/types"
)

// Builder walks the resolved tree one function at a time and produces the
// initial block graph: one block per leader statement, a dedicated entry
// and exit block per function, and explicit edges for every transfer of
// control. Returns funnel through the exit block so postdominance always
// has a single root.
type Builder struct {
	program *Program
	ctx     *semantic.Context

	fn  *Function
	cur *Block

	breakTargets    []*Block
	continueTargets []*Block

	strConsts   map[string]*LocalConst
	floatConsts map[float64]*LocalConst

	err error // first internal consistency failure
}

func NewBuilder(ctx *semantic.Context) *Builder {
	return &Builder{ctx: ctx}
}

// Build constructs the block graph for every function in the file. A
// returned error is always an *errors.InternalError: user-level problems
// were already diagnosed by the front end and show up here only as guarded
// Bad* nodes.
func (b *Builder) Build(file *ast.File) (*Program, error) {
	b.program = &Program{
		File:    file,
		Context: b.ctx,
		Globals: b.ctx.Globals,
	}

	for _, decl := range file.Funcs {
		sym := b.ctx.Functions[decl.Name]
		if sym == nil || sym.Decl != decl {
			continue // duplicate declaration, already diagnosed
		}
		b.buildFunc(decl, sym)
		if b.err != nil {
			return nil, b.err
		}
	}
	return b.program, nil
}

func (b *Builder) fail(stage, format string, args ...interface{}) {
	if b.err == nil {
		b.err = errors.Internalf(stage, format, args...)
	}
}

func (b *Builder) buildFunc(decl *ast.FuncDecl, sym *semantic.FuncSymbol) {
	fn := &Function{Sym: sym, Decl: decl}
	b.fn = fn
	b.strConsts = make(map[string]*LocalConst)
	b.floatConsts = make(map[float64]*LocalConst)

	fn.Entry = b.program.NewBlock(fn, KindFuncEntry)
	fn.Exit = b.program.NewBlock(fn, KindFuncExit)
	fn.Exit.Append(&Instr{Op: OpIdle})

	b.cur = fn.Entry
	b.lowerBlock(decl.Body)

	// Fall off the end of the body: flow into the exit block.
	if b.cur != nil {
		b.emit(&Instr{Op: OpJump, Target: Target{Block: fn.Exit}})
		addEdge(b.cur, fn.Exit, EdgeBidirectional)
	}

	fn.linkLayout()
	b.program.Funcs = append(b.program.Funcs, fn)
	b.fn = nil
	b.cur = nil
}

// emit appends an instruction to the current block.
func (b *Builder) emit(in *Instr) *Instr {
	b.cur.Append(in)
	return in
}

// startBlock makes a fresh block current without linking it; callers add
// the edges.
func (b *Builder) startBlock(kind BlockKind) *Block {
	blk := b.program.NewBlock(b.fn, kind)
	b.cur = blk
	return blk
}

// jumpTo ends the current block with a direct jump.
func (b *Builder) jumpTo(target *Block) {
	b.emit(&Instr{Op: OpJump, Target: Target{Block: target}})
	addEdge(b.cur, target, EdgeBidirectional)
}

// regCandidate reports whether a variable lives in SSA-renamed registers.
// Globals, aliased variables, and aggregates stay in memory and are
// reached through load/store instead.
func regCandidate(sym *semantic.VarSymbol) bool {
	return sym != nil && !sym.Global && !sym.Aliased && sym.Type != nil && types.IsScalar(sym.Type)
}

func (b *Builder) lowerBlock(blk *ast.BlockStmt) {
	if blk == nil {
		return
	}
	for _, s := range blk.Stmts {
		b.lowerStmt(s)
	}
}

func (b *Builder) lowerStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		b.lowerStmt(s)
	}
}

func (b *Builder) lowerStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.BlockStmt:
		b.lowerBlock(stmt)
	case *ast.DeclStmt:
		if stmt.Decl.Init != nil {
			val := b.genExpr(stmt.Decl.Init)
			b.assignTo(b.ctx.SymbolOf(stmt.Decl), val)
		}
	case *ast.AssignStmt:
		b.lowerAssign(stmt)
	case *ast.IfStmt:
		b.lowerIf(stmt)
	case *ast.WhileStmt:
		b.lowerWhile(stmt)
	case *ast.SwitchStmt:
		b.lowerSwitch(stmt)
	case *ast.ReturnStmt:
		b.lowerReturn(stmt)
	case *ast.BreakStmt:
		b.lowerLoopJump(b.breakTargets, "break")
	case *ast.ContinueStmt:
		b.lowerLoopJump(b.continueTargets, "continue")
	case *ast.AsmStmt:
		b.emit(&Instr{Op: OpAsm, Text: stmt.Text})
	case *ast.ExprStmt:
		b.genExpr(stmt.X)
	case *ast.BadStmt:
		// error node from the front end; nothing to lower
	}
}

func (b *Builder) lowerAssign(stmt *ast.AssignStmt) {
	val := b.genExpr(stmt.Value)
	switch target := stmt.Target.(type) {
	case *ast.Ident:
		b.assignTo(b.ctx.VarOf(target), val)
	case *ast.IndexExpr:
		sym := b.ctx.IndexBaseOf(target)
		if sym == nil {
			return // unresolved, already diagnosed
		}
		in := &Instr{Op: OpStore, Base: sym, Src2: val}
		b.applyIndex(in, sym, target.Index)
		b.emit(in)
	}
}

// assignTo stores val into a scalar variable: a move for register
// candidates, a store for memory-resident variables.
func (b *Builder) assignTo(sym *semantic.VarSymbol, val *Operand) {
	if sym == nil {
		return
	}
	if regCandidate(sym) {
		b.emit(&Instr{Op: OpMove, Dst: &Operand{Sym: sym}, Src1: val})
		return
	}
	b.emit(&Instr{Op: OpStore, Base: sym, Offset: OffsetZero, Src2: val})
}

// applyIndex fills in the addressing mode of a load or store from an index
// expression: a zero or constant offset when the index is a literal, a
// scaled variable offset otherwise.
func (b *Builder) applyIndex(in *Instr, sym *semantic.VarSymbol, index ast.Expr) {
	arr, isArray := sym.Type.(*types.ArrayType)
	if !isArray {
		in.Offset = OffsetZero
		return
	}
	elemSize := arr.Elem.Size()
	if lit, isLit := index.(*ast.IntLit); isLit {
		offset := lit.Value * elemSize
		if offset == 0 {
			in.Offset = OffsetZero
		} else {
			in.Offset = OffsetConst
			in.Const = offset
		}
		return
	}
	idx := b.genExpr(index)
	scaled := b.program.NewTemp()
	size := b.genInt(elemSize)
	b.emit(&Instr{Op: OpBinary, Operator: "*", Dst: scaled, Src1: idx, Src2: size})
	in.Offset = OffsetVar
	in.Src1 = scaled
}

func (b *Builder) lowerIf(stmt *ast.IfStmt) {
	cond := b.genExpr(stmt.Cond)
	condBlock := b.cur
	if condBlock.Kind == KindBlock {
		condBlock.Kind = KindIfEntry
	}

	thenBlock := b.program.NewBlock(b.fn, KindBlock)
	join := b.program.NewBlock(b.fn, KindIfExit)

	elseTarget := join
	var elseBlock *Block
	if stmt.Else != nil {
		elseBlock = b.program.NewBlock(b.fn, KindBlock)
		elseTarget = elseBlock
	}

	condBlock.Append(&Instr{Op: OpBranch, Src1: cond, Target: Target{Block: thenBlock}})
	addEdge(condBlock, thenBlock, EdgeBidirectional)
	addEdge(condBlock, elseTarget, EdgeBidirectional)

	b.cur = thenBlock
	b.lowerBlock(stmt.Then)
	if b.cur != nil {
		b.jumpTo(join)
	}

	if elseBlock != nil {
		b.cur = elseBlock
		b.lowerStmt(stmt.Else)
		if b.cur != nil {
			b.jumpTo(join)
		}
	}

	b.cur = join
}

func (b *Builder) lowerWhile(stmt *ast.WhileStmt) {
	header := b.program.NewBlock(b.fn, KindLoopEntry)
	body := b.program.NewBlock(b.fn, KindBlock)
	exit := b.program.NewBlock(b.fn, KindLoopExit)

	b.jumpTo(header)

	b.cur = header
	cond := b.genExpr(stmt.Cond)
	// The condition may have grown new blocks; branch from wherever it
	// ended.
	b.emit(&Instr{Op: OpBranch, Src1: cond, Target: Target{Block: body}})
	addEdge(b.cur, body, EdgeBidirectional)
	addEdge(b.cur, exit, EdgeBidirectional)

	b.breakTargets = append(b.breakTargets, exit)
	b.continueTargets = append(b.continueTargets, header)
	b.cur = body
	b.lowerBlock(stmt.Body)
	if b.cur != nil {
		b.jumpTo(header)
	}
	b.breakTargets = b.breakTargets[:len(b.breakTargets)-1]
	b.continueTargets = b.continueTargets[:len(b.continueTargets)-1]

	b.cur = exit
}

func (b *Builder) lowerSwitch(stmt *ast.SwitchStmt) {
	tag := b.genExpr(stmt.Tag)
	if len(stmt.Cases) == 0 && stmt.Default == nil {
		return
	}

	switchBlock := b.cur
	if switchBlock.Kind == KindBlock {
		switchBlock.Kind = KindSwitch
	}

	table := b.program.newTable(b.fn)
	join := b.program.NewBlock(b.fn, KindLabel)

	switchBlock.Append(&Instr{Op: OpIndirectJump, Src1: tag, Target: Target{Table: table}})

	for _, c := range stmt.Cases {
		caseBlock := b.program.NewBlock(b.fn, KindCase)
		table.Values = append(table.Values, c.Value)
		table.Blocks = append(table.Blocks, caseBlock)
		addEdge(switchBlock, caseBlock, EdgeBidirectional)

		b.cur = caseBlock
		b.lowerStmts(c.Body)
		if b.cur != nil {
			b.jumpTo(join)
		}
	}

	if stmt.Default != nil {
		defaultBlock := b.program.NewBlock(b.fn, KindCase)
		table.Default = defaultBlock
		addEdge(switchBlock, defaultBlock, EdgeBidirectional)

		b.cur = defaultBlock
		b.lowerStmts(stmt.Default)
		if b.cur != nil {
			b.jumpTo(join)
		}
	} else {
		// No default arm: the tag may miss every case.
		table.Default = join
		addEdge(switchBlock, join, EdgeBidirectional)
	}

	b.cur = join
}

func (b *Builder) lowerReturn(stmt *ast.ReturnStmt) {
	in := &Instr{Op: OpReturn}
	if stmt.Value != nil {
		in.Src1 = b.genExpr(stmt.Value)
	}
	b.emit(in)
	addEdge(b.cur, b.fn.Exit, EdgeBidirectional)
	// Anything after the return starts a fresh, unreachable block.
	b.startBlock(KindBlock)
}

func (b *Builder) lowerLoopJump(targets []*Block, kind string) {
	if len(targets) == 0 {
		b.fail("cfg", "%s lowered outside a loop", kind)
		return
	}
	b.jumpTo(targets[len(targets)-1])
	b.startBlock(KindBlock)
}

// genExpr lowers an expression and returns the occurrence holding its
// value.
func (b *Builder) genExpr(e ast.Expr) *Operand {
	switch expr := e.(type) {
	case *ast.IntLit:
		return b.genInt(expr.Value)
	case *ast.FloatLit:
		lc, found := b.floatConsts[expr.Value]
		if !found {
			lc = b.program.newConst(b.fn)
			lc.Float = expr.Value
			lc.IsFloat = true
			b.floatConsts[expr.Value] = lc
		}
		dst := b.program.NewTemp()
		b.emit(&Instr{Op: OpConst, Dst: dst, LC: lc})
		return dst
	case *ast.StringLit:
		lc, found := b.strConsts[expr.Value]
		if !found {
			lc = b.program.newConst(b.fn)
			lc.Str = expr.Value
			b.strConsts[expr.Value] = lc
		}
		dst := b.program.NewTemp()
		b.emit(&Instr{Op: OpConst, Dst: dst, LC: lc})
		return dst
	case *ast.Ident:
		sym := b.ctx.VarOf(expr)
		if sym == nil {
			return b.genInt(0) // unresolved, already diagnosed
		}
		if regCandidate(sym) {
			return &Operand{Sym: sym}
		}
		dst := b.program.NewTemp()
		b.emit(&Instr{Op: OpLoad, Dst: dst, Base: sym, Offset: OffsetZero})
		return dst
	case *ast.IndexExpr:
		sym := b.ctx.IndexBaseOf(expr)
		if sym == nil {
			return b.genInt(0)
		}
		in := &Instr{Op: OpLoad, Dst: b.program.NewTemp(), Base: sym}
		b.applyIndex(in, sym, expr.Index)
		b.emit(in)
		return in.Dst
	case *ast.UnaryExpr:
		if expr.Op == "&" {
			return b.genAddr(expr)
		}
		src := b.genExpr(expr.X)
		dst := b.program.NewTemp()
		b.emit(&Instr{Op: OpUnary, Operator: expr.Op, Dst: dst, Src1: src})
		return dst
	case *ast.BinaryExpr:
		left := b.genExpr(expr.X)
		right := b.genExpr(expr.Y)
		dst := b.program.NewTemp()
		b.emit(&Instr{Op: OpBinary, Operator: expr.Op, Dst: dst, Src1: left, Src2: right})
		return dst
	case *ast.CallExpr:
		return b.genCall(expr)
	case *ast.BadExpr:
		return b.genInt(0)
	}
	return b.genInt(0)
}

func (b *Builder) genInt(v int64) *Operand {
	dst := b.program.NewTemp()
	b.emit(&Instr{Op: OpConst, Dst: dst, Const: v})
	return dst
}

// genAddr lowers &x. Taking an address forces the variable into memory;
// the front end marked it aliased before the builder ran, so every other
// access already goes through load/store.
func (b *Builder) genAddr(expr *ast.UnaryExpr) *Operand {
	id, isIdent := expr.X.(*ast.Ident)
	if !isIdent {
		return b.genInt(0)
	}
	return b.genAddrOf(id)
}

func (b *Builder) genAddrOf(id *ast.Ident) *Operand {
	sym := b.ctx.VarOf(id)
	if sym == nil {
		return b.genInt(0)
	}
	dst := b.program.NewTemp()
	b.emit(&Instr{Op: OpUnary, Operator: "&", Dst: dst, Base: sym})
	return dst
}

func (b *Builder) genCall(expr *ast.CallExpr) *Operand {
	callee := b.ctx.CalleeOf(expr)
	if callee == nil {
		return b.genInt(0)
	}
	in := &Instr{Op: OpCall, Callee: callee}
	for i, arg := range expr.Args {
		// A by-ref callee receives the address of its last argument;
		// writing `readi(x)` and `readi(&x)` lower identically.
		if callee.ByRef && i == len(expr.Args)-1 {
			if id, isIdent := arg.(*ast.Ident); isIdent {
				in.Args = append(in.Args, b.genAddrOf(id))
				continue
			}
		}
		in.Args = append(in.Args, b.genExpr(arg))
	}
	if callee.Return != nil {
		in.Dst = b.program.NewTemp()
	}
	b.emit(in)
	return in.Dst
}
