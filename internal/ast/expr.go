package ast

type Expr interface {
	Node
	exprNode()
}

type Ident struct {
	Pos  Position
	Name string
}

type IntLit struct {
	Pos   Position
	Value int64
}

type FloatLit struct {
	Pos   Position
	Value float64
}

type StringLit struct {
	Pos   Position
	Value string
}

type BinaryExpr struct {
	Pos Position
	Op  string
	X   Expr
	Y   Expr
}

type UnaryExpr struct {
	Pos Position
	Op  string // "-", "!", "&"
	X   Expr
}

type CallExpr struct {
	Pos  Position
	Name string
	Args []Expr
}

type IndexExpr struct {
	Pos   Position
	Name  string
	Index Expr
}

// BadExpr marks an expression that failed to parse or resolve.
type BadExpr struct {
	Pos Position
}

func (e *Ident) GetPosition() Position      { return e.Pos }
func (e *IntLit) GetPosition() Position     { return e.Pos }
func (e *FloatLit) GetPosition() Position   { return e.Pos }
func (e *StringLit) GetPosition() Position  { return e.Pos }
func (e *BinaryExpr) GetPosition() Position { return e.Pos }
func (e *UnaryExpr) GetPosition() Position  { return e.Pos }
func (e *CallExpr) GetPosition() Position   { return e.Pos }
func (e *IndexExpr) GetPosition() Position  { return e.Pos }
func (e *BadExpr) GetPosition() Position    { return e.Pos }

func (*Ident) exprNode()      {}
func (*IntLit) exprNode()     {}
func (*FloatLit) exprNode()   {}
func (*StringLit) exprNode()  {}
func (*BinaryExpr) exprNode() {}
func (*UnaryExpr) exprNode()  {}
func (*CallExpr) exprNode()   {}
func (*IndexExpr) exprNode()  {}
func (*BadExpr) exprNode()    {}
