package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinder/grammar"
)

func TestFibExample(t *testing.T) {
	file, err := grammar.ParseFile(`../examples/fib.cdr`)
	require.NoError(t, err)
	require.NotNil(t, file)

	require.Equal(t, 3, len(file.Decls))

	global := file.Decls[0].Global
	require.NotNil(t, global)
	assert.Equal(t, "total", global.Name)
	assert.Equal(t, "int", global.Type.Name)
	assert.Nil(t, global.Type.Len)

	fib := file.Decls[1].Func
	require.NotNil(t, fib)
	assert.Equal(t, "fib", fib.Name)
	require.Len(t, fib.Params, 1)
	assert.Equal(t, "n", fib.Params[0].Name)
	assert.Equal(t, "int", fib.Params[0].Type.Name)
	require.NotNil(t, fib.Return)
	assert.Equal(t, "int", fib.Return.Name)
	// var a, var b, var i, while, return
	assert.Len(t, fib.Body.Stmts, 5)

	main := file.Decls[2].Func
	require.NotNil(t, main)
	assert.Equal(t, "main", main.Name)
	assert.Empty(t, main.Params)
	assert.Nil(t, main.Return)
}

func TestGlobalDeclarations(t *testing.T) {
	source := `var counter: int;
var table: [16]int;
`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)
	require.Equal(t, 2, len(file.Decls))

	scalar := file.Decls[0].Global
	require.NotNil(t, scalar)
	assert.Equal(t, "counter", scalar.Name)
	assert.Nil(t, scalar.Type.Len)

	array := file.Decls[1].Global
	require.NotNil(t, array)
	assert.Equal(t, "table", array.Name)
	require.NotNil(t, array.Type.Len)
	assert.Equal(t, int64(16), *array.Type.Len)
	assert.Equal(t, "int", array.Type.Name)
}

func TestVarStatementForms(t *testing.T) {
	source := `fn f() {
    var x: int;
    var y: int = 7;
    var buf: [4]int;
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	stmts := file.Decls[0].Func.Body.Stmts
	require.Len(t, stmts, 3)

	bare := stmts[0].Var
	require.NotNil(t, bare)
	assert.Equal(t, "x", bare.Name)
	assert.Nil(t, bare.Init)

	init := stmts[1].Var
	require.NotNil(t, init)
	require.NotNil(t, init.Init)

	arr := stmts[2].Var
	require.NotNil(t, arr)
	require.NotNil(t, arr.Type.Len)
	assert.Equal(t, int64(4), *arr.Type.Len)
}

func TestIfElseChain(t *testing.T) {
	source := `fn f(x: int) {
    if (x < 0) {
        printi(0);
    } else if (x == 0) {
        printi(1);
    } else {
        printi(2);
    }
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	outer := file.Decls[0].Func.Body.Stmts[0].If
	require.NotNil(t, outer)
	require.NotNil(t, outer.Else)
	require.NotNil(t, outer.Else.If, "else-if should nest another if")

	inner := outer.Else.If
	require.NotNil(t, inner.Else)
	assert.Nil(t, inner.Else.If)
	require.NotNil(t, inner.Else.Block)
}

func TestSwitchArms(t *testing.T) {
	source := `fn f(x: int) {
    switch (x) {
    case 1:
        printi(1);
    case 2:
        printi(2);
        printi(3);
    default:
        printi(0);
    }
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	sw := file.Decls[0].Func.Body.Stmts[0].Switch
	require.NotNil(t, sw)
	require.Len(t, sw.Cases, 2)
	assert.Equal(t, int64(1), sw.Cases[0].Value)
	assert.Len(t, sw.Cases[0].Stmts, 1)
	assert.Equal(t, int64(2), sw.Cases[1].Value)
	assert.Len(t, sw.Cases[1].Stmts, 2)
	require.NotNil(t, sw.Default)
	assert.Len(t, sw.Default.Stmts, 1)
}

func TestSwitchWithoutDefault(t *testing.T) {
	source := `fn f(x: int) {
    switch (x) {
    case 1:
        printi(1);
    }
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	sw := file.Decls[0].Func.Body.Stmts[0].Switch
	require.NotNil(t, sw)
	assert.Nil(t, sw.Default)
}

func TestPrecedenceLayers(t *testing.T) {
	source := `fn f(a: int, b: int, c: int) {
    var x: int = a + b * c;
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	expr := file.Decls[0].Func.Body.Stmts[0].Var.Init
	require.NotNil(t, expr)

	// a + b * c: one additive tail whose right side carries the
	// multiplicative pair, so * binds tighter than +.
	add := expr.Left.Left.Left
	require.Len(t, add.Rest, 1)
	assert.Equal(t, "+", add.Rest[0].Op)
	assert.Empty(t, add.Left.Rest, "left operand of + is bare a")
	require.Len(t, add.Rest[0].Right.Rest, 1)
	assert.Equal(t, "*", add.Rest[0].Right.Rest[0].Op)
}

func TestUnaryOperators(t *testing.T) {
	source := `fn f(x: int) {
    var a: int = -x;
    var b: int = !x;
    readi(&a);
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	stmts := file.Decls[0].Func.Body.Stmts
	neg := stmts[0].Var.Init.Left.Left.Left.Left.Left
	assert.Equal(t, "-", neg.Op)
	not := stmts[1].Var.Init.Left.Left.Left.Left.Left
	assert.Equal(t, "!", not.Op)

	call := stmts[2].Expr.Expr.Left.Left.Left.Left.Left.Primary.Call
	require.NotNil(t, call)
	require.Len(t, call.Args, 1)
	addr := call.Args[0].Left.Left.Left.Left.Left
	assert.Equal(t, "&", addr.Op)
}

func TestCallAndIndexPrimaries(t *testing.T) {
	source := `fn f(a: int) {
    g(a, 1);
    a = buf[3];
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	stmts := file.Decls[0].Func.Body.Stmts

	call := stmts[0].Expr.Expr.Left.Left.Left.Left.Left.Primary.Call
	require.NotNil(t, call)
	assert.Equal(t, "g", call.Name)
	assert.Len(t, call.Args, 2)

	idx := stmts[1].Assign.Value.Left.Left.Left.Left.Left.Primary.Index
	require.NotNil(t, idx)
	assert.Equal(t, "buf", idx.Name)
}

func TestAssignTargets(t *testing.T) {
	source := `fn f() {
    x = 1;
    buf[2] = 3;
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	stmts := file.Decls[0].Func.Body.Stmts

	plain := stmts[0].Assign
	require.NotNil(t, plain)
	assert.Equal(t, "x", plain.Target.Name)
	assert.Nil(t, plain.Target.Index)

	indexed := stmts[1].Assign
	require.NotNil(t, indexed)
	assert.Equal(t, "buf", indexed.Target.Name)
	require.NotNil(t, indexed.Target.Index)
}

func TestLiterals(t *testing.T) {
	source := `fn f() {
    printi(42);
    printi(0x2a);
    printf(3.25);
    print("hi\n");
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	stmts := file.Decls[0].Func.Body.Stmts
	arg := func(i int) *grammar.Primary {
		return stmts[i].Expr.Expr.Left.Left.Left.Left.Left.Primary.Call.Args[0].Left.Left.Left.Left.Left.Primary
	}

	require.NotNil(t, arg(0).Int)
	assert.Equal(t, int64(42), *arg(0).Int)
	require.NotNil(t, arg(1).Int)
	assert.Equal(t, int64(0x2a), *arg(1).Int)
	require.NotNil(t, arg(2).Float)
	assert.Equal(t, 3.25, *arg(2).Float)
	require.NotNil(t, arg(3).Str)
	assert.Equal(t, "hi\n", *arg(3).Str, "string literal should be unquoted")
}

func TestAsmStatement(t *testing.T) {
	source := `fn f() {
    asm "nop";
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	asm := file.Decls[0].Func.Body.Stmts[0].Asm
	require.NotNil(t, asm)
	assert.Equal(t, "nop", asm.Text)
}

func TestCommentsElided(t *testing.T) {
	source := `// leading comment
fn f() { // trailing comment
    return; // another
}
`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)
	require.Len(t, file.Decls, 1)
	assert.NotNil(t, file.Decls[0].Func.Body.Stmts[0].Return)
}

func TestKeywordPrefixIdentifiers(t *testing.T) {
	source := `fn f() {
    var variable: int = 1;
    var iffy: int = 2;
}`
	file, err := grammar.ParseSource("test.cdr", source)
	require.NoError(t, err)

	stmts := file.Decls[0].Func.Body.Stmts
	assert.Equal(t, "variable", stmts[0].Var.Name)
	assert.Equal(t, "iffy", stmts[1].Var.Name)
}

func TestParseErrorCarriesPosition(t *testing.T) {
	source := `fn f() {
    var x int = 1;
}`
	_, err := grammar.ParseSource("test.cdr", source)
	require.Error(t, err)

	line, _, ok := grammar.ErrorPosition(err)
	assert.True(t, ok, "participle errors should carry a position")
	assert.Equal(t, 2, line)
}
