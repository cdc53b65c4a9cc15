package semantic

import (
	"fmt"

	"cinder/internal/ast"
	"cinder/internal/builtins"
	"cinder/internal/errors"
	"cinder/internal/types"
)

// Analyzer resolves names against the symbol tables, performs the loose
// type checks the middle end relies on (conditions are bool, switch tags
// are int), and marks variables used/aliased. Diagnostics accumulate; the
// tree is always handed on, with Bad* nodes guarding unresolved regions.
type Analyzer struct {
	ctx       *Context
	errs      []errors.CompilerError
	scope     *SymbolTable
	globals   *SymbolTable
	currentFn *FuncSymbol
	loopDepth int
}

func NewAnalyzer() *Analyzer {
	return &Analyzer{ctx: NewContext()}
}

// GetErrors returns the accumulated diagnostics.
func (a *Analyzer) GetErrors() []errors.CompilerError { return a.errs }

// Analyze resolves the whole file and returns the populated context.
func (a *Analyzer) Analyze(file *ast.File) *Context {
	a.globals = NewSymbolTable(nil)
	a.scope = a.globals

	for _, b := range builtins.Functions {
		sym := a.ctx.newFuncSymbol(b.Name, nil)
		sym.Builtin = true
		sym.Return = b.Return
		sym.ByRef = b.ByRef
		for i, pt := range b.Params {
			p := a.ctx.newVarSymbol(fmt.Sprintf("%s$%d", b.Name, i), pt, nil)
			p.Param = true
			sym.Params = append(sym.Params, p)
		}
		a.ctx.Functions[b.Name] = sym
	}

	for _, g := range file.Globals {
		a.declareVar(g, true)
	}

	// Declare all functions first so forward calls resolve.
	for _, fn := range file.Funcs {
		a.declareFunc(fn)
	}
	for _, fn := range file.Funcs {
		a.analyzeFunc(fn)
	}

	return a.ctx
}

func (a *Analyzer) errorf(pos ast.Position, code, format string, args ...interface{}) {
	a.errs = append(a.errs, errors.CompilerError{
		Level:    errors.Error,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	})
}

func (a *Analyzer) warnf(pos ast.Position, code, format string, args ...interface{}) {
	a.errs = append(a.errs, errors.CompilerError{
		Level:    errors.Warning,
		Code:     code,
		Message:  fmt.Sprintf(format, args...),
		Position: pos,
	})
}

func (a *Analyzer) resolveType(t *ast.TypeName) types.Type {
	if t == nil {
		return nil
	}
	resolved := a.ctx.Types.Resolve(t.Name, t.Len)
	if resolved == nil {
		a.errorf(t.Pos, errors.ErrorUnknownType, "unknown type '%s'", t.Name)
	}
	return resolved
}

func (a *Analyzer) declareVar(decl *ast.VarDecl, global bool) *VarSymbol {
	if existing := a.scope.LookupLocal(decl.Name); existing != nil {
		a.errorf(decl.Pos, errors.ErrorDuplicateDeclaration,
			"'%s' is already declared in this scope", decl.Name)
	}
	sym := a.ctx.newVarSymbol(decl.Name, a.resolveType(decl.Type), decl)
	sym.Global = global
	a.scope.Define(sym)
	a.ctx.declSyms[decl] = sym
	if global {
		a.ctx.Globals = append(a.ctx.Globals, sym)
	} else if a.currentFn != nil && a.currentFn.Decl != nil {
		a.ctx.Locals[a.currentFn.Decl] = append(a.ctx.Locals[a.currentFn.Decl], sym)
	}
	return sym
}

func (a *Analyzer) declareFunc(fn *ast.FuncDecl) {
	if _, exists := a.ctx.Functions[fn.Name]; exists {
		a.errorf(fn.Pos, errors.ErrorDuplicateDeclaration,
			"function '%s' is already declared", fn.Name)
		return
	}
	sym := a.ctx.newFuncSymbol(fn.Name, fn)
	sym.Return = a.resolveType(fn.Return)
	a.ctx.Functions[fn.Name] = sym
}

func (a *Analyzer) analyzeFunc(fn *ast.FuncDecl) {
	sym := a.ctx.Functions[fn.Name]
	if sym == nil || sym.Decl != fn {
		return // duplicate declaration; only the first body is analyzed
	}
	a.currentFn = sym
	a.scope = NewSymbolTable(a.globals)

	for _, p := range fn.Params {
		ps := a.declareVar(p, false)
		ps.Param = true
		sym.Params = append(sym.Params, ps)
	}

	a.analyzeBlock(fn.Body)

	for _, local := range a.ctx.Locals[fn] {
		if !local.Used && !local.Param {
			a.warnf(local.Decl.Pos, errors.WarningUnusedVariable,
				"variable '%s' is never used", local.Name)
		}
	}

	a.scope = a.globals
	a.currentFn = nil
}

func (a *Analyzer) analyzeBlock(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	outer := a.scope
	a.scope = NewSymbolTable(outer)
	for _, s := range b.Stmts {
		a.analyzeStmt(s)
	}
	a.scope = outer
}

func (a *Analyzer) analyzeStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.BlockStmt:
		a.analyzeBlock(stmt)
	case *ast.DeclStmt:
		if stmt.Decl.Init != nil {
			initType := a.analyzeExpr(stmt.Decl.Init)
			declared := a.ctx.Types.Resolve(stmt.Decl.Type.Name, stmt.Decl.Type.Len)
			a.checkAssignable(stmt.Pos, declared, initType)
		}
		a.declareVar(stmt.Decl, false)
	case *ast.AssignStmt:
		valueType := a.analyzeExpr(stmt.Value)
		targetType := a.analyzeAssignTarget(stmt.Target)
		a.checkAssignable(stmt.Pos, targetType, valueType)
	case *ast.IfStmt:
		a.checkCondition(stmt.Cond)
		a.analyzeBlock(stmt.Then)
		if stmt.Else != nil {
			a.analyzeStmt(stmt.Else)
		}
	case *ast.WhileStmt:
		a.checkCondition(stmt.Cond)
		a.loopDepth++
		a.analyzeBlock(stmt.Body)
		a.loopDepth--
	case *ast.SwitchStmt:
		tagType := a.analyzeExpr(stmt.Tag)
		if tagType != nil {
			if _, isInt := tagType.(*types.IntType); !isInt {
				a.errorf(stmt.Pos, errors.ErrorTypeMismatch,
					"switch tag must be int, got %s", tagType)
			}
		}
		for _, c := range stmt.Cases {
			a.analyzeStmts(c.Body)
		}
		a.analyzeStmts(stmt.Default)
	case *ast.ReturnStmt:
		if stmt.Value != nil {
			valueType := a.analyzeExpr(stmt.Value)
			if a.currentFn != nil {
				a.checkAssignable(stmt.Pos, a.currentFn.Return, valueType)
			}
		}
	case *ast.BreakStmt:
		if a.loopDepth == 0 {
			a.errorf(stmt.Pos, errors.ErrorMisplacedJump, "break outside a loop")
		}
	case *ast.ContinueStmt:
		if a.loopDepth == 0 {
			a.errorf(stmt.Pos, errors.ErrorMisplacedJump, "continue outside a loop")
		}
	case *ast.AsmStmt, *ast.BadStmt:
		// nothing to resolve
	case *ast.ExprStmt:
		a.analyzeExpr(stmt.X)
	}
}

func (a *Analyzer) analyzeStmts(stmts []ast.Stmt) {
	outer := a.scope
	a.scope = NewSymbolTable(outer)
	for _, s := range stmts {
		a.analyzeStmt(s)
	}
	a.scope = outer
}

// analyzeAssignTarget resolves the left side of an assignment without
// marking the variable as used: a plain store is a definition, not a read.
func (a *Analyzer) analyzeAssignTarget(target ast.Expr) types.Type {
	switch t := target.(type) {
	case *ast.Ident:
		sym := a.scope.Lookup(t.Name)
		if sym == nil {
			a.errorf(t.Pos, errors.ErrorUndefinedVariable, "undefined variable '%s'", t.Name)
			return nil
		}
		a.ctx.varUses[t] = sym
		if _, isArray := sym.Type.(*types.ArrayType); isArray {
			a.errorf(t.Pos, errors.ErrorInvalidAssignment,
				"cannot assign to array '%s' as a whole", t.Name)
			return nil
		}
		return sym.Type
	case *ast.IndexExpr:
		return a.analyzeIndex(t)
	default:
		a.errorf(target.GetPosition(), errors.ErrorInvalidAssignment,
			"invalid assignment target")
		return nil
	}
}

func (a *Analyzer) checkCondition(cond ast.Expr) {
	t := a.analyzeExpr(cond)
	if t == nil {
		return
	}
	if _, isBool := t.(*types.BoolType); !isBool {
		a.errorf(cond.GetPosition(), errors.ErrorTypeMismatch,
			"condition must be bool, got %s", t)
	}
}

func (a *Analyzer) checkAssignable(pos ast.Position, dst, src types.Type) {
	if dst == nil || src == nil {
		return // already diagnosed, or void
	}
	if dst.String() != src.String() {
		a.errorf(pos, errors.ErrorTypeMismatch,
			"cannot assign %s to %s", src, dst)
	}
}

func (a *Analyzer) analyzeExpr(e ast.Expr) types.Type {
	switch expr := e.(type) {
	case *ast.IntLit:
		return &types.IntType{}
	case *ast.FloatLit:
		return &types.FloatType{}
	case *ast.StringLit:
		return &types.StringType{}
	case *ast.Ident:
		sym := a.scope.Lookup(expr.Name)
		if sym == nil {
			a.errorf(expr.Pos, errors.ErrorUndefinedVariable,
				"undefined variable '%s'", expr.Name)
			return nil
		}
		sym.Used = true
		a.ctx.varUses[expr] = sym
		return sym.Type
	case *ast.IndexExpr:
		return a.analyzeIndex(expr)
	case *ast.UnaryExpr:
		operand := a.analyzeExpr(expr.X)
		switch expr.Op {
		case "&":
			id, isIdent := expr.X.(*ast.Ident)
			if !isIdent {
				a.errorf(expr.Pos, errors.ErrorInvalidAssignment,
					"can only take the address of a variable")
				return nil
			}
			if sym := a.ctx.varUses[id]; sym != nil {
				sym.Aliased = true
			}
			return &types.IntType{}
		case "!":
			return &types.BoolType{}
		default: // "-"
			return operand
		}
	case *ast.BinaryExpr:
		left := a.analyzeExpr(expr.X)
		a.analyzeExpr(expr.Y)
		switch expr.Op {
		case "==", "!=", "<", "<=", ">", ">=", "&&", "||":
			return &types.BoolType{}
		default:
			return left
		}
	case *ast.CallExpr:
		return a.analyzeCall(expr)
	case *ast.BadExpr:
		return nil
	}
	return nil
}

func (a *Analyzer) analyzeIndex(expr *ast.IndexExpr) types.Type {
	sym := a.scope.Lookup(expr.Name)
	if sym == nil {
		a.errorf(expr.Pos, errors.ErrorUndefinedVariable,
			"undefined variable '%s'", expr.Name)
		return nil
	}
	sym.Used = true
	a.ctx.indexes[expr] = sym
	a.analyzeExpr(expr.Index)
	arr, isArray := sym.Type.(*types.ArrayType)
	if !isArray {
		a.errorf(expr.Pos, errors.ErrorTypeMismatch,
			"'%s' is not an array", expr.Name)
		return nil
	}
	return arr.Elem
}

func (a *Analyzer) analyzeCall(expr *ast.CallExpr) types.Type {
	fn := a.ctx.Functions[expr.Name]
	if fn == nil {
		a.errorf(expr.Pos, errors.ErrorUndefinedFunction,
			"undefined function '%s'", expr.Name)
		for _, arg := range expr.Args {
			a.analyzeExpr(arg)
		}
		return nil
	}
	a.ctx.calls[expr] = fn
	if len(expr.Args) != len(fn.Params) {
		a.errorf(expr.Pos, errors.ErrorInvalidArguments,
			"'%s' expects %d arguments, got %d", fn.Name, len(fn.Params), len(expr.Args))
	}
	for _, arg := range expr.Args {
		a.analyzeExpr(arg)
	}
	// A by-ref callee writes through its last argument, so the variable
	// must live in memory, exactly as if its address had been taken.
	if fn.ByRef && len(expr.Args) == len(fn.Params) && len(expr.Args) > 0 {
		if id, isIdent := expr.Args[len(expr.Args)-1].(*ast.Ident); isIdent {
			if sym := a.ctx.varUses[id]; sym != nil {
				sym.Aliased = true
			}
		}
	}
	return fn.Return
}
