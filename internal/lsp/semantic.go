package lsp

import (
	"sort"
	"strconv"

	"cinder/internal/ast"
)

// semanticToken is one entry of the LSP token stream, positions 0-based.
type semanticToken struct {
	Line      uint32
	StartChar uint32
	Length    uint32
	TokenType int
	Modifiers int
}

const (
	tokenFunction = iota
	tokenVariable
	tokenParameter
	tokenTypeName
	tokenNumber
	tokenString
)

const modifierDeclaration = 1 << 0

type tokenCollector struct {
	tokens []semanticToken
}

// collectSemanticTokens walks the tree and produces tokens for the nodes
// whose exact source extent is known: identifiers, calls, type names, and
// literals. Keywords are left to the client's syntax highlighting.
func collectSemanticTokens(file *ast.File) []semanticToken {
	if file == nil {
		return nil
	}
	c := &tokenCollector{}
	c.walkFile(file)
	sort.Slice(c.tokens, func(i, j int) bool {
		if c.tokens[i].Line != c.tokens[j].Line {
			return c.tokens[i].Line < c.tokens[j].Line
		}
		return c.tokens[i].StartChar < c.tokens[j].StartChar
	})
	return c.tokens
}

func (c *tokenCollector) walkFile(file *ast.File) {
	for _, g := range file.Globals {
		c.typeName(g.Type)
	}
	for _, fn := range file.Funcs {
		for _, p := range fn.Params {
			c.add(p.Pos, len(p.Name), tokenParameter, modifierDeclaration)
			c.typeName(p.Type)
		}
		c.typeName(fn.Return)
		c.walkBlock(fn.Body)
	}
}

func (c *tokenCollector) add(pos ast.Position, length, tokenType, modifiers int) {
	if pos.Line < 1 || pos.Column < 1 || length < 1 {
		return
	}
	c.tokens = append(c.tokens, semanticToken{
		Line:      uint32(pos.Line - 1),
		StartChar: uint32(pos.Column - 1),
		Length:    uint32(length),
		TokenType: tokenType,
		Modifiers: modifiers,
	})
}

func (c *tokenCollector) typeName(t *ast.TypeName) {
	if t == nil {
		return
	}
	c.add(t.Pos, len(t.Name), tokenTypeName, 0)
}

func (c *tokenCollector) walkBlock(b *ast.BlockStmt) {
	if b == nil {
		return
	}
	for _, s := range b.Stmts {
		c.walkStmt(s)
	}
}

func (c *tokenCollector) walkStmts(stmts []ast.Stmt) {
	for _, s := range stmts {
		c.walkStmt(s)
	}
}

func (c *tokenCollector) walkStmt(s ast.Stmt) {
	switch stmt := s.(type) {
	case *ast.BlockStmt:
		c.walkBlock(stmt)
	case *ast.DeclStmt:
		c.typeName(stmt.Decl.Type)
		c.walkExpr(stmt.Decl.Init)
	case *ast.AssignStmt:
		c.walkExpr(stmt.Target)
		c.walkExpr(stmt.Value)
	case *ast.IfStmt:
		c.walkExpr(stmt.Cond)
		c.walkBlock(stmt.Then)
		if stmt.Else != nil {
			c.walkStmt(stmt.Else)
		}
	case *ast.WhileStmt:
		c.walkExpr(stmt.Cond)
		c.walkBlock(stmt.Body)
	case *ast.SwitchStmt:
		c.walkExpr(stmt.Tag)
		for _, arm := range stmt.Cases {
			c.walkStmts(arm.Body)
		}
		c.walkStmts(stmt.Default)
	case *ast.ReturnStmt:
		c.walkExpr(stmt.Value)
	case *ast.ExprStmt:
		c.walkExpr(stmt.X)
	}
}

func (c *tokenCollector) walkExpr(e ast.Expr) {
	switch expr := e.(type) {
	case nil:
		return
	case *ast.Ident:
		c.add(expr.Pos, len(expr.Name), tokenVariable, 0)
	case *ast.IntLit:
		c.add(expr.Pos, len(strconv.FormatInt(expr.Value, 10)), tokenNumber, 0)
	case *ast.FloatLit:
		c.add(expr.Pos, len(strconv.FormatFloat(expr.Value, 'g', -1, 64)), tokenNumber, 0)
	case *ast.StringLit:
		c.add(expr.Pos, len(expr.Value)+2, tokenString, 0)
	case *ast.BinaryExpr:
		c.walkExpr(expr.X)
		c.walkExpr(expr.Y)
	case *ast.UnaryExpr:
		c.walkExpr(expr.X)
	case *ast.CallExpr:
		c.add(expr.Pos, len(expr.Name), tokenFunction, 0)
		for _, arg := range expr.Args {
			c.walkExpr(arg)
		}
	case *ast.IndexExpr:
		c.add(expr.Pos, len(expr.Name), tokenVariable, 0)
		c.walkExpr(expr.Index)
	}
}
