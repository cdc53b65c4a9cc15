package grammar

import (
	"github.com/alecthomas/participle/v2/lexer"
)

type SourceFile struct {
	Decls []*Decl `@@*`
}

type Decl struct {
	Global *GlobalDecl `  @@`
	Func   *FuncDecl   `| @@`
}

type GlobalDecl struct {
	Pos  lexer.Position
	Name string `"var" @Ident ":"`
	Type *Type  `@@ ";"`
}

type FuncDecl struct {
	Pos    lexer.Position
	Name   string   `"fn" @Ident "("`
	Params []*Param `[ @@ { "," @@ } ] ")"`
	Return *Type    `[ ":" @@ ]`
	Body   *Block   `@@`
}

type Param struct {
	Pos  lexer.Position
	Name string `@Ident ":"`
	Type *Type  `@@`
}

type Type struct {
	Pos  lexer.Position
	Len  *int64 `[ "[" @Integer "]" ]`
	Name string `@Ident`
}

type Block struct {
	Stmts []*Stmt `"{" @@* "}"`
}

type Stmt struct {
	Var      *VarStmt      `  @@`
	If       *IfStmt       `| @@`
	While    *WhileStmt    `| @@`
	Switch   *SwitchStmt   `| @@`
	Return   *ReturnStmt   `| @@`
	Break    *BreakStmt    `| @@`
	Continue *ContinueStmt `| @@`
	Asm      *AsmStmt      `| @@`
	Assign   *AssignStmt   `| @@`
	Expr     *ExprStmt     `| @@`
	Block    *Block        `| @@`
}

type VarStmt struct {
	Pos  lexer.Position
	Name string `"var" @Ident ":"`
	Type *Type  `@@`
	Init *Expr  `[ "=" @@ ] ";"`
}

type IfStmt struct {
	Pos  lexer.Position
	Cond *Expr    `"if" "(" @@ ")"`
	Then *Block   `@@`
	Else *ElseArm `[ @@ ]`
}

type ElseArm struct {
	If    *IfStmt `"else" ( @@`
	Block *Block  `| @@ )`
}

type WhileStmt struct {
	Pos  lexer.Position
	Cond *Expr  `"while" "(" @@ ")"`
	Body *Block `@@`
}

type SwitchStmt struct {
	Pos     lexer.Position
	Tag     *Expr       `"switch" "(" @@ ")" "{"`
	Cases   []*CaseArm  `@@*`
	Default *DefaultArm `[ @@ ] "}"`
}

type CaseArm struct {
	Pos   lexer.Position
	Value int64   `"case" @Integer ":"`
	Stmts []*Stmt `@@*`
}

type DefaultArm struct {
	Pos   lexer.Position
	Stmts []*Stmt `"default" ":" @@*`
}

type ReturnStmt struct {
	Pos   lexer.Position
	Value *Expr `"return" [ @@ ] ";"`
}

type BreakStmt struct {
	Pos lexer.Position
	Kw  string `@"break" ";"`
}

type ContinueStmt struct {
	Pos lexer.Position
	Kw  string `@"continue" ";"`
}

type AsmStmt struct {
	Pos  lexer.Position
	Text string `"asm" @String ";"`
}

type AssignStmt struct {
	Pos    lexer.Position
	Target *LValue `@@ "="`
	Value  *Expr   `@@ ";"`
}

type LValue struct {
	Pos   lexer.Position
	Name  string `@Ident`
	Index *Expr  `[ "[" @@ "]" ]`
}

type ExprStmt struct {
	Pos  lexer.Position
	Expr *Expr `@@ ";"`
}

// Expressions, layered by precedence. Each level captures a left operand
// and a possibly empty tail of (operator, right operand) pairs.

type Expr struct {
	Left *AndExpr   `@@`
	Rest []*OrTail  `@@*`
}

type OrTail struct {
	Op    string   `@"||"`
	Right *AndExpr `@@`
}

type AndExpr struct {
	Left *CmpExpr   `@@`
	Rest []*AndTail `@@*`
}

type AndTail struct {
	Op    string   `@"&&"`
	Right *CmpExpr `@@`
}

type CmpExpr struct {
	Left *AddExpr   `@@`
	Rest []*CmpTail `@@*`
}

type CmpTail struct {
	Op    string   `@("==" | "!=" | "<=" | ">=" | "<" | ">")`
	Right *AddExpr `@@`
}

type AddExpr struct {
	Left *MulExpr   `@@`
	Rest []*AddTail `@@*`
}

type AddTail struct {
	Op    string   `@("+" | "-")`
	Right *MulExpr `@@`
}

type MulExpr struct {
	Left *UnaryExpr `@@`
	Rest []*MulTail `@@*`
}

type MulTail struct {
	Op    string     `@("*" | "/" | "%")`
	Right *UnaryExpr `@@`
}

type UnaryExpr struct {
	Pos     lexer.Position
	Op      string     `[ @("-" | "!" | "&") ]`
	Primary *Primary   `@@`
}

type Primary struct {
	Pos   lexer.Position
	Float *float64 `  @Float`
	Int   *int64   `| @Integer`
	Str   *string  `| @String`
	Call  *Call    `| @@`
	Index *Index   `| @@`
	Ident *string  `| @Ident`
	Paren *Expr    `| "(" @@ ")"`
}

type Call struct {
	Pos  lexer.Position
	Name string  `@Ident "("`
	Args []*Expr `[ @@ { "," @@ } ] ")"`
}

type Index struct {
	Pos   lexer.Position
	Name  string `@Ident "["`
	Index *Expr  `@@ "]"`
}
