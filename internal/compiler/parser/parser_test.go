package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/lexer"
)

func parseSource(t *testing.T, src string) (*ast.Program, []string) {
	t.Helper()
	l := lexer.New(src)
	tokens, lexErrs := l.ScanTokens()
	require.Empty(t, lexErrs, "unexpected lexer errors")
	prog, diags := Parse(tokens, nil)
	msgs := make([]string, len(diags))
	for i, d := range diags {
		msgs[i] = d.Error()
	}
	return prog, msgs
}

func TestParse_MinimalProgram(t *testing.T) {
	prog, errs := parseSource(t, `fn main() -> void { print.info("hi"); }`)
	require.Empty(t, errs)
	require.Len(t, prog.Declarations, 1)

	fn, ok := prog.Declarations[0].(*ast.FnDecl)
	require.True(t, ok)
	assert.Equal(t, "main", fn.Name)
	assert.False(t, fn.IsAsync)
	require.Len(t, fn.Body.Statements, 1)
}

func TestParse_StructAndEnumAndMatch(t *testing.T) {
	src := `
enum Shape {
  Circle { radius: number },
  Rectangle { w: number, h: number },
}
fn area(s: Shape) -> number {
  match s {
    Shape.Circle { radius } => 3.14 * radius * radius,
    Shape.Rectangle { w, h } => w * h,
  }
}`
	prog, errs := parseSource(t, src)
	require.Empty(t, errs)
	require.Len(t, prog.Declarations, 2)

	enum, ok := prog.Declarations[0].(*ast.EnumDecl)
	require.True(t, ok)
	require.Len(t, enum.Variants, 2)
	assert.Equal(t, "Circle", enum.Variants[0].Name)
	assert.Len(t, enum.Variants[0].Fields, 1)

	fn := prog.Declarations[1].(*ast.FnDecl)
	require.Len(t, fn.Body.Statements, 1)
	match, ok := fn.Body.Statements[0].(*ast.MatchStmt)
	require.True(t, ok)
	require.Len(t, match.Arms, 2)
	tagged, ok := match.Arms[0].Pattern.(*ast.TaggedPattern)
	require.True(t, ok)
	assert.Equal(t, "Shape", tagged.EnumName)
	assert.Equal(t, "Circle", tagged.VariantName)
}

func TestParse_GenericTypeApplicationDisambiguation(t *testing.T) {
	// `Channel<number>(10)` must parse as a single TypeApplication
	// node, never as a chain of comparisons.
	prog, errs := parseSource(t, `fn main() -> void { let c = Channel<number>(10); }`)
	require.Empty(t, errs)

	fn := prog.Declarations[0].(*ast.FnDecl)
	let := fn.Body.Statements[0].(*ast.LetStmt)
	app, ok := let.Value.(*ast.TypeApplication)
	require.True(t, ok, "expected a TypeApplication, got %T", let.Value)
	assert.True(t, app.Called)
	require.Len(t, app.Args, 1)
	named, ok := app.Args[0].(*ast.NamedType)
	require.True(t, ok)
	assert.Equal(t, "number", named.Name)
	require.Len(t, app.Arguments, 1)
}

func TestParse_LessThanStaysComparisonWhenNotAGeneric(t *testing.T) {
	prog, errs := parseSource(t, `fn main() -> void { let x = a < b; }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	let := fn.Body.Statements[0].(*ast.LetStmt)
	bin, ok := let.Value.(*ast.BinaryExpr)
	require.True(t, ok, "expected a BinaryExpr, got %T", let.Value)
	assert.Equal(t, "<", bin.Operator)
}

func TestParse_StructLiteralVsBlockDisambiguation(t *testing.T) {
	prog, errs := parseSource(t, `fn main() -> void { let u = User { name: "Ada" }; if u.name == "Ada" { print.info("yes"); } }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	let := fn.Body.Statements[0].(*ast.LetStmt)
	lit, ok := let.Value.(*ast.StructLiteralExpr)
	require.True(t, ok, "expected a StructLiteralExpr, got %T", let.Value)
	assert.Equal(t, "User", lit.TypeName)

	ifStmt, ok := fn.Body.Statements[1].(*ast.IfStmt)
	require.True(t, ok, "expected an IfStmt, got %T", fn.Body.Statements[1])
	require.Len(t, ifStmt.Then.Statements, 1)
}

func TestParse_LambdaVsParenExpr(t *testing.T) {
	prog, errs := parseSource(t, `fn main() -> void { let f = (x: number) -> number { return x; }; let y = (1 + 2); }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)

	letF := fn.Body.Statements[0].(*ast.LetStmt)
	lam, ok := letF.Value.(*ast.LambdaExpr)
	require.True(t, ok, "expected a LambdaExpr, got %T", letF.Value)
	require.Len(t, lam.Params, 1)

	letY := fn.Body.Statements[1].(*ast.LetStmt)
	_, ok = letY.Value.(*ast.BinaryExpr)
	require.True(t, ok, "expected a BinaryExpr (grouping), got %T", letY.Value)
}

func TestParse_MatchArmBlockVsExpressionBody(t *testing.T) {
	prog, errs := parseSource(t, `fn f(x: number) -> number {
  match x {
    0 => 1,
    _ => { let y = x * 2; y },
  }
}`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	match := fn.Body.Statements[0].(*ast.MatchStmt)
	require.Len(t, match.Arms, 2)
	assert.NotNil(t, match.Arms[0].Body)
	assert.Nil(t, match.Arms[0].BlockBody)
	assert.Nil(t, match.Arms[1].Body)
	assert.NotNil(t, match.Arms[1].BlockBody)
}

func TestParse_GenericFunctionDeclaration(t *testing.T) {
	prog, errs := parseSource(t, `fn id<T>(x: T) -> T { return x; }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	require.Len(t, fn.TypeParams, 1)
	assert.Equal(t, "T", fn.TypeParams[0].Name)
}

func TestParse_RoutineAsyncAwaitParallel(t *testing.T) {
	src := `
async fn main() -> void {
  let r = await async { 1 };
  routine { print.info("bg"); }
  let all = parallel [async { 1 }, async { 2 }];
}`
	prog, errs := parseSource(t, src)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	assert.True(t, fn.IsAsync)

	letR := fn.Body.Statements[0].(*ast.LetStmt)
	await, ok := letR.Value.(*ast.AwaitExpr)
	require.True(t, ok)
	_, ok = await.Value.(*ast.AsyncBlockExpr)
	require.True(t, ok)

	exprStmt := fn.Body.Statements[1].(*ast.ExprStmt)
	_, ok = exprStmt.Expr.(*ast.RoutineExpr)
	require.True(t, ok)

	letAll := fn.Body.Statements[2].(*ast.LetStmt)
	par, ok := letAll.Value.(*ast.ParallelExpr)
	require.True(t, ok)
	assert.Len(t, par.Elements, 2)
}

func TestParse_InterpolatedStringSplicesMemberAccess(t *testing.T) {
	prog, errs := parseSource(t, `fn main() -> void { let u = User { name: "Ada" }; print.info("hello {{u.name}}!"); }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	exprStmt := fn.Body.Statements[1].(*ast.ExprStmt)
	call := exprStmt.Expr.(*ast.CallExpr)
	require.Len(t, call.Args, 1)
	interp, ok := call.Args[0].(*ast.InterpolatedStringExpr)
	require.True(t, ok)
	require.Len(t, interp.Parts, 3)
	assert.Equal(t, "hello ", interp.Parts[0].Text)
	require.NotNil(t, interp.Parts[1].Splice)
	member, ok := interp.Parts[1].Splice.(*ast.MemberExpr)
	require.True(t, ok)
	assert.Equal(t, "name", member.Property)
	assert.Equal(t, "!", interp.Parts[2].Text)
}

func TestParse_ImportDecl(t *testing.T) {
	prog, errs := parseSource(t, `import { a, b } from "./mod.sfn"`)
	require.Empty(t, errs)
	imp := prog.Declarations[0].(*ast.ImportDecl)
	assert.Equal(t, "./mod.sfn", imp.SourcePath)
	assert.Equal(t, []string{"a", "b"}, imp.Items)
}

func TestParse_DecoratedFunctionDeclaration(t *testing.T) {
	prog, errs := parseSource(t, `@test
@slow
fn compute() -> void { return; }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	assert.Equal(t, []string{"test", "slow"}, fn.Decorators)
}

func TestParse_DecoratedStructMethod(t *testing.T) {
	prog, errs := parseSource(t, `struct User {
  name: string
  @deprecated
  fn greet() -> void { return; }
}`)
	require.Empty(t, errs)
	st := prog.Declarations[0].(*ast.StructDecl)
	require.Len(t, st.Methods, 1)
	assert.Equal(t, []string{"deprecated"}, st.Methods[0].Decorators)
	assert.Equal(t, "User", st.Methods[0].Receiver)
}

func TestParse_TryCatchFinally(t *testing.T) {
	prog, errs := parseSource(t, `fn main() -> void {
  try {
    throw "boom";
  } catch (err) {
    print.info(err);
  } finally {
    print.info("done");
  }
}`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	tryStmt := fn.Body.Statements[0].(*ast.TryStmt)
	assert.Equal(t, "err", tryStmt.CatchBinding)
	require.NotNil(t, tryStmt.Catch)
	require.NotNil(t, tryStmt.Finally)
}

func TestParse_ReportsErrorOnMalformedStatement(t *testing.T) {
	_, errs := parseSource(t, `fn main() -> void { let = ; }`)
	require.NotEmpty(t, errs)
}

func TestParse_TypeAnnotationGrammar(t *testing.T) {
	prog, errs := parseSource(t, `fn f(a: number[]?, b: User | Admin, c: Reader & Writer) -> void { return; }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	require.Len(t, fn.Params, 3)

	arrType, ok := fn.Params[0].Type.(*ast.GenericType)
	require.True(t, ok)
	assert.Equal(t, "Array", arrType.Name)
	assert.True(t, arrType.Nullable)

	union, ok := fn.Params[1].Type.(*ast.UnionType)
	require.True(t, ok)
	assert.Len(t, union.Members, 2)

	inter, ok := fn.Params[2].Type.(*ast.IntersectionType)
	require.True(t, ok)
	assert.Len(t, inter.Members, 2)
}

func TestParse_NullLiteralIsReserved(t *testing.T) {
	prog, errs := parseSource(t, `fn main() -> void { let x = null; }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	let := fn.Body.Statements[0].(*ast.LetStmt)
	lit, ok := let.Value.(*ast.LiteralExpr)
	require.True(t, ok, "expected a LiteralExpr, got %T", let.Value)
	assert.Nil(t, lit.Value)
}

func TestParse_TypeAliasDeclaration(t *testing.T) {
	prog, errs := parseSource(t, `type Id = number;
type Handle = Channel<number> | string;
fn main() -> void { }`)
	require.Empty(t, errs)
	require.Len(t, prog.Declarations, 3)

	alias := prog.Declarations[0].(*ast.TypeAliasDecl)
	assert.Equal(t, "Id", alias.Name)
	named, ok := alias.Aliased.(*ast.NamedType)
	require.True(t, ok)
	assert.Equal(t, "number", named.Name)

	union := prog.Declarations[1].(*ast.TypeAliasDecl)
	_, ok = union.Aliased.(*ast.UnionType)
	require.True(t, ok)
}

func TestParse_TypeStaysContextualIdentifier(t *testing.T) {
	// `type` only introduces an alias before `Name =`; elsewhere it is a
	// plain identifier.
	prog, errs := parseSource(t, `fn main() -> void { let type = 1; print.info(type); }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	let := fn.Body.Statements[0].(*ast.LetStmt)
	assert.Equal(t, "type", let.Name)
}

func TestParse_AssignmentIsAnExpression(t *testing.T) {
	// Right-associative: a = b = c nests as a = (b = c).
	prog, errs := parseSource(t, `fn main() -> void { a = b = c; }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)

	exprStmt, ok := fn.Body.Statements[0].(*ast.ExprStmt)
	require.True(t, ok, "expected an ExprStmt, got %T", fn.Body.Statements[0])
	outer, ok := exprStmt.Expr.(*ast.AssignExpr)
	require.True(t, ok, "expected an AssignExpr, got %T", exprStmt.Expr)
	assert.Equal(t, "=", outer.Operator)

	inner, ok := outer.Value.(*ast.AssignExpr)
	require.True(t, ok, "expected a nested AssignExpr, got %T", outer.Value)
	target, ok := inner.Target.(*ast.IdentifierExpr)
	require.True(t, ok)
	assert.Equal(t, "b", target.Name)
}

func TestParse_CompoundAssignment(t *testing.T) {
	prog, errs := parseSource(t, `fn main() -> void { total += 2; }`)
	require.Empty(t, errs)
	fn := prog.Declarations[0].(*ast.FnDecl)
	exprStmt := fn.Body.Statements[0].(*ast.ExprStmt)
	assign, ok := exprStmt.Expr.(*ast.AssignExpr)
	require.True(t, ok)
	assert.Equal(t, "+=", assign.Operator)
}
