package ast

type Stmt interface {
	Node
	stmtNode()
}

type BlockStmt struct {
	Pos   Position
	Stmts []Stmt
}

type DeclStmt struct {
	Pos  Position
	Decl *VarDecl
}

type AssignStmt struct {
	Pos    Position
	Target Expr // *Ident or *IndexExpr
	Value  Expr
}

type IfStmt struct {
	Pos  Position
	Cond Expr
	Then *BlockStmt
	Else Stmt // *BlockStmt, *IfStmt, or nil
}

type WhileStmt struct {
	Pos  Position
	Cond Expr
	Body *BlockStmt
}

type SwitchStmt struct {
	Pos     Position
	Tag     Expr
	Cases   []*CaseClause
	Default []Stmt // nil when no default arm
}

type CaseClause struct {
	Pos   Position
	Value int64
	Body  []Stmt
}

type ReturnStmt struct {
	Pos   Position
	Value Expr // nil for bare returns
}

type BreakStmt struct {
	Pos Position
}

type ContinueStmt struct {
	Pos Position
}

// AsmStmt carries a verbatim inline-assembly string through to emission.
type AsmStmt struct {
	Pos  Position
	Text string
}

type ExprStmt struct {
	Pos Position
	X   Expr
}

// BadStmt marks a statement that failed to parse or resolve. The middle end
// skips over it.
type BadStmt struct {
	Pos Position
}

func (s *BlockStmt) GetPosition() Position  { return s.Pos }
func (s *DeclStmt) GetPosition() Position   { return s.Pos }
func (s *AssignStmt) GetPosition() Position { return s.Pos }
func (s *IfStmt) GetPosition() Position     { return s.Pos }
func (s *WhileStmt) GetPosition() Position  { return s.Pos }
func (s *SwitchStmt) GetPosition() Position { return s.Pos }
func (s *CaseClause) GetPosition() Position { return s.Pos }
func (s *ReturnStmt) GetPosition() Position { return s.Pos }
func (s *BreakStmt) GetPosition() Position  { return s.Pos }
func (s *ContinueStmt) GetPosition() Position { return s.Pos }
func (s *AsmStmt) GetPosition() Position    { return s.Pos }
func (s *ExprStmt) GetPosition() Position   { return s.Pos }
func (s *BadStmt) GetPosition() Position    { return s.Pos }

func (*BlockStmt) stmtNode()    {}
func (*DeclStmt) stmtNode()     {}
func (*AssignStmt) stmtNode()   {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*SwitchStmt) stmtNode()   {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*AsmStmt) stmtNode()      {}
func (*ExprStmt) stmtNode()     {}
func (*BadStmt) stmtNode()      {}
