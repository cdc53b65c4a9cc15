package parser

import (
	"cinder/grammar"
	"cinder/internal/ast"
	"cinder/internal/errors"

	"github.com/alecthomas/participle/v2/lexer"
)

// ParseSource parses cinder source text and converts the grammar tree into
// the resolved-tree shape the middle end consumes. Parse failures come back
// as diagnostics; a partial tree is still returned when the grammar
// recovered enough to produce one.
func ParseSource(filename, source string) (*ast.File, []errors.CompilerError) {
	var diags []errors.CompilerError

	tree, err := grammar.ParseSource(filename, source)
	if err != nil {
		pos := ast.Position{Filename: filename, Line: 1, Column: 1}
		if line, col, ok := grammar.ErrorPosition(err); ok {
			pos.Line, pos.Column = line, col
		}
		diags = append(diags, errors.CompilerError{
			Level:    errors.Error,
			Code:     errors.ErrorSyntax,
			Message:  err.Error(),
			Position: pos,
		})
	}
	if tree == nil {
		return &ast.File{Filename: filename}, diags
	}

	file := &ast.File{Filename: filename}
	for _, decl := range tree.Decls {
		switch {
		case decl.Global != nil:
			file.Globals = append(file.Globals, &ast.VarDecl{
				Pos:  pos(decl.Global.Pos),
				Name: decl.Global.Name,
				Type: convertType(decl.Global.Type),
			})
		case decl.Func != nil:
			file.Funcs = append(file.Funcs, convertFunc(decl.Func))
		}
	}
	return file, diags
}

func pos(p lexer.Position) ast.Position {
	return ast.Position{Filename: p.Filename, Line: p.Line, Column: p.Column}
}

func convertType(t *grammar.Type) *ast.TypeName {
	if t == nil {
		return nil
	}
	name := &ast.TypeName{Pos: pos(t.Pos), Name: t.Name}
	if t.Len != nil {
		name.Len = *t.Len
	}
	return name
}

func convertFunc(fn *grammar.FuncDecl) *ast.FuncDecl {
	decl := &ast.FuncDecl{
		Pos:    pos(fn.Pos),
		Name:   fn.Name,
		Return: convertType(fn.Return),
		Body:   convertBlock(fn.Body, pos(fn.Pos)),
	}
	for _, p := range fn.Params {
		decl.Params = append(decl.Params, &ast.VarDecl{
			Pos:  pos(p.Pos),
			Name: p.Name,
			Type: convertType(p.Type),
		})
	}
	return decl
}

func convertBlock(b *grammar.Block, at ast.Position) *ast.BlockStmt {
	block := &ast.BlockStmt{Pos: at}
	if b == nil {
		return block
	}
	for _, s := range b.Stmts {
		block.Stmts = append(block.Stmts, convertStmt(s))
	}
	return block
}

func convertStmts(stmts []*grammar.Stmt) []ast.Stmt {
	var out []ast.Stmt
	for _, s := range stmts {
		out = append(out, convertStmt(s))
	}
	return out
}

func convertStmt(s *grammar.Stmt) ast.Stmt {
	switch {
	case s.Var != nil:
		decl := &ast.VarDecl{
			Pos:  pos(s.Var.Pos),
			Name: s.Var.Name,
			Type: convertType(s.Var.Type),
		}
		if s.Var.Init != nil {
			decl.Init = convertExpr(s.Var.Init)
		}
		return &ast.DeclStmt{Pos: decl.Pos, Decl: decl}
	case s.If != nil:
		return convertIf(s.If)
	case s.While != nil:
		return &ast.WhileStmt{
			Pos:  pos(s.While.Pos),
			Cond: convertExpr(s.While.Cond),
			Body: convertBlock(s.While.Body, pos(s.While.Pos)),
		}
	case s.Switch != nil:
		return convertSwitch(s.Switch)
	case s.Return != nil:
		ret := &ast.ReturnStmt{Pos: pos(s.Return.Pos)}
		if s.Return.Value != nil {
			ret.Value = convertExpr(s.Return.Value)
		}
		return ret
	case s.Break != nil:
		return &ast.BreakStmt{Pos: pos(s.Break.Pos)}
	case s.Continue != nil:
		return &ast.ContinueStmt{Pos: pos(s.Continue.Pos)}
	case s.Asm != nil:
		return &ast.AsmStmt{Pos: pos(s.Asm.Pos), Text: s.Asm.Text}
	case s.Assign != nil:
		return &ast.AssignStmt{
			Pos:    pos(s.Assign.Pos),
			Target: convertLValue(s.Assign.Target),
			Value:  convertExpr(s.Assign.Value),
		}
	case s.Expr != nil:
		return &ast.ExprStmt{Pos: pos(s.Expr.Pos), X: convertExpr(s.Expr.Expr)}
	case s.Block != nil:
		return convertBlock(s.Block, ast.Position{})
	}
	return &ast.BadStmt{}
}

func convertIf(s *grammar.IfStmt) *ast.IfStmt {
	out := &ast.IfStmt{
		Pos:  pos(s.Pos),
		Cond: convertExpr(s.Cond),
		Then: convertBlock(s.Then, pos(s.Pos)),
	}
	if s.Else != nil {
		if s.Else.If != nil {
			out.Else = convertIf(s.Else.If)
		} else {
			out.Else = convertBlock(s.Else.Block, pos(s.Pos))
		}
	}
	return out
}

func convertSwitch(s *grammar.SwitchStmt) *ast.SwitchStmt {
	out := &ast.SwitchStmt{
		Pos: pos(s.Pos),
		Tag: convertExpr(s.Tag),
	}
	for _, c := range s.Cases {
		out.Cases = append(out.Cases, &ast.CaseClause{
			Pos:   pos(c.Pos),
			Value: c.Value,
			Body:  convertStmts(c.Stmts),
		})
	}
	if s.Default != nil {
		out.Default = convertStmts(s.Default.Stmts)
		if out.Default == nil {
			out.Default = []ast.Stmt{}
		}
	}
	return out
}

func convertLValue(lv *grammar.LValue) ast.Expr {
	if lv.Index != nil {
		return &ast.IndexExpr{Pos: pos(lv.Pos), Name: lv.Name, Index: convertExpr(lv.Index)}
	}
	return &ast.Ident{Pos: pos(lv.Pos), Name: lv.Name}
}

// convertExpr folds the layered grammar expression levels into left-
// associative binary trees.
func convertExpr(e *grammar.Expr) ast.Expr {
	if e == nil {
		return &ast.BadExpr{}
	}
	left := convertAnd(e.Left)
	for _, tail := range e.Rest {
		left = &ast.BinaryExpr{Pos: left.GetPosition(), Op: tail.Op, X: left, Y: convertAnd(tail.Right)}
	}
	return left
}

func convertAnd(e *grammar.AndExpr) ast.Expr {
	left := convertCmp(e.Left)
	for _, tail := range e.Rest {
		left = &ast.BinaryExpr{Pos: left.GetPosition(), Op: tail.Op, X: left, Y: convertCmp(tail.Right)}
	}
	return left
}

func convertCmp(e *grammar.CmpExpr) ast.Expr {
	left := convertAdd(e.Left)
	for _, tail := range e.Rest {
		left = &ast.BinaryExpr{Pos: left.GetPosition(), Op: tail.Op, X: left, Y: convertAdd(tail.Right)}
	}
	return left
}

func convertAdd(e *grammar.AddExpr) ast.Expr {
	left := convertMul(e.Left)
	for _, tail := range e.Rest {
		left = &ast.BinaryExpr{Pos: left.GetPosition(), Op: tail.Op, X: left, Y: convertMul(tail.Right)}
	}
	return left
}

func convertMul(e *grammar.MulExpr) ast.Expr {
	left := convertUnary(e.Left)
	for _, tail := range e.Rest {
		left = &ast.BinaryExpr{Pos: left.GetPosition(), Op: tail.Op, X: left, Y: convertUnary(tail.Right)}
	}
	return left
}

func convertUnary(e *grammar.UnaryExpr) ast.Expr {
	inner := convertPrimary(e.Primary)
	if e.Op != "" {
		return &ast.UnaryExpr{Pos: pos(e.Pos), Op: e.Op, X: inner}
	}
	return inner
}

func convertPrimary(p *grammar.Primary) ast.Expr {
	switch {
	case p.Float != nil:
		return &ast.FloatLit{Pos: pos(p.Pos), Value: *p.Float}
	case p.Int != nil:
		return &ast.IntLit{Pos: pos(p.Pos), Value: *p.Int}
	case p.Str != nil:
		return &ast.StringLit{Pos: pos(p.Pos), Value: *p.Str}
	case p.Call != nil:
		call := &ast.CallExpr{Pos: pos(p.Call.Pos), Name: p.Call.Name}
		for _, arg := range p.Call.Args {
			call.Args = append(call.Args, convertExpr(arg))
		}
		return call
	case p.Index != nil:
		return &ast.IndexExpr{Pos: pos(p.Index.Pos), Name: p.Index.Name, Index: convertExpr(p.Index.Index)}
	case p.Ident != nil:
		return &ast.Ident{Pos: pos(p.Pos), Name: *p.Ident}
	case p.Paren != nil:
		return convertExpr(p.Paren)
	}
	return &ast.BadExpr{Pos: pos(p.Pos)}
}
