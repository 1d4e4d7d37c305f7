package codegen

import "github.com/sailfin-lang/sailfin/internal/compiler/ast"

// analysis is the read-only result of the pre-emission scan pass. The
// emit pass consults it instead of annotating (or worse, mutating) the
// AST: node identity in, facts out.
type analysis struct {
	// functionsWithRoutines holds every named function whose body
	// contains a routine node, transitively through nested blocks but
	// stopping at nested function/lambda boundaries (a routine inside a
	// lambda belongs to the lambda, not to the function that defines it).
	functionsWithRoutines map[string]bool

	// topLevelRoutines counts `routine { ... }` declarations at module
	// scope. The emit pass generates their async function names, and the
	// entry point is shaped from those names, not from this count.
	topLevelRoutines int

	// globalVariables is every name declared at module scope, used for
	// `global` statements in functions that assign to one.
	globalVariables map[string]bool

	// typeVars is every generic type-parameter name declared anywhere,
	// for runtime TypeVar declarations in the output header.
	typeVars map[string]bool

	// hasMain and mainIsAsync describe the top-level main function, if
	// one exists, for the entry-point rules.
	hasMain     bool
	mainIsAsync bool
}

// scanFnKey identifies a function in the functionsWithRoutines set.
// Methods are keyed Receiver.Name so two structs with a same-named
// method cannot shadow each other's routine flag.
func scanFnKey(fn *ast.FnDecl) string {
	if fn.Receiver != "" {
		return fn.Receiver + "." + fn.Name
	}
	return fn.Name
}

func scanProgram(prog *ast.Program) *analysis {
	a := &analysis{
		functionsWithRoutines: map[string]bool{},
		globalVariables:       map[string]bool{},
		typeVars:              map[string]bool{},
	}
	for _, decl := range prog.Declarations {
		a.scanDecl(decl)
	}
	return a
}

func (a *analysis) scanDecl(d ast.Declaration) {
	switch decl := d.(type) {
	case *ast.FnDecl:
		a.scanFn(decl)
	case *ast.StructDecl:
		for _, tp := range decl.TypeParams {
			a.typeVars[tp.Name] = true
		}
		for _, m := range decl.Methods {
			a.scanFn(m)
		}
	case *ast.EnumDecl:
		for _, tp := range decl.TypeParams {
			a.typeVars[tp.Name] = true
		}
	case *ast.GlobalVarDecl:
		a.globalVariables[decl.Name] = true
	case *ast.RoutineDecl:
		a.topLevelRoutines++
	case *ast.ExportDecl:
		a.scanDecl(decl.Decl)
	case *ast.TestDecl:
		// Routines inside a test body behave like routines inside a sync
		// function and are rejected by the validator, so there is
		// nothing to collect here.
	}
}

func (a *analysis) scanFn(fn *ast.FnDecl) {
	for _, tp := range fn.TypeParams {
		a.typeVars[tp.Name] = true
	}
	if fn.Receiver == "" && fn.Name == "main" {
		a.hasMain = true
		a.mainIsAsync = fn.IsAsync
	}
	if fn.Body != nil && blockContainsRoutine(fn.Body) {
		a.functionsWithRoutines[scanFnKey(fn)] = true
	}
}

// blockContainsRoutine walks statements and expressions looking for a
// RoutineExpr, without descending into nested lambdas or async blocks
// (those establish their own function boundary).
func blockContainsRoutine(b *ast.BlockStmt) bool {
	for _, s := range b.Statements {
		if stmtContainsRoutine(s) {
			return true
		}
	}
	return false
}

func stmtContainsRoutine(s ast.Statement) bool {
	switch stmt := s.(type) {
	case *ast.BlockStmt:
		return blockContainsRoutine(stmt)
	case *ast.ExprStmt:
		return exprContainsRoutine(stmt.Expr)
	case *ast.LetStmt:
		return stmt.Value != nil && exprContainsRoutine(stmt.Value)
	case *ast.ConstStmt:
		return exprContainsRoutine(stmt.Value)
	case *ast.ReturnStmt:
		return stmt.Value != nil && exprContainsRoutine(stmt.Value)
	case *ast.IfStmt:
		if stmt.Condition != nil && exprContainsRoutine(stmt.Condition) {
			return true
		}
		if blockContainsRoutine(stmt.Then) {
			return true
		}
		return stmt.Else != nil && stmtContainsRoutine(stmt.Else)
	case *ast.WhileStmt:
		return exprContainsRoutine(stmt.Condition) || blockContainsRoutine(stmt.Body)
	case *ast.ForStmt:
		return exprContainsRoutine(stmt.Iterable) || blockContainsRoutine(stmt.Body)
	case *ast.LoopStmt:
		return blockContainsRoutine(stmt.Body)
	case *ast.MatchStmt:
		if exprContainsRoutine(stmt.Scrutinee) {
			return true
		}
		for _, arm := range stmt.Arms {
			if arm.Body != nil && exprContainsRoutine(arm.Body) {
				return true
			}
			if arm.BlockBody != nil && blockContainsRoutine(arm.BlockBody) {
				return true
			}
		}
		return false
	case *ast.TryStmt:
		if blockContainsRoutine(stmt.Body) {
			return true
		}
		if stmt.Catch != nil && blockContainsRoutine(stmt.Catch) {
			return true
		}
		return stmt.Finally != nil && blockContainsRoutine(stmt.Finally)
	case *ast.ThrowStmt:
		return exprContainsRoutine(stmt.Value)
	case *ast.AssertStmt:
		return exprContainsRoutine(stmt.Value)
	default:
		return false
	}
}

func exprContainsRoutine(e ast.Expression) bool {
	switch expr := e.(type) {
	case *ast.RoutineExpr:
		return true
	case *ast.LambdaExpr, *ast.AsyncBlockExpr:
		// Function boundary: a routine inside belongs to that scope.
		return false
	case *ast.AssignExpr:
		return exprContainsRoutine(expr.Target) || exprContainsRoutine(expr.Value)
	case *ast.AwaitExpr:
		return exprContainsRoutine(expr.Value)
	case *ast.UnaryExpr:
		return exprContainsRoutine(expr.Operand)
	case *ast.BinaryExpr:
		return exprContainsRoutine(expr.Left) || exprContainsRoutine(expr.Right)
	case *ast.CallExpr:
		if exprContainsRoutine(expr.Callee) {
			return true
		}
		for _, a := range expr.Args {
			if exprContainsRoutine(a) {
				return true
			}
		}
		return false
	case *ast.MemberExpr:
		return exprContainsRoutine(expr.Object)
	case *ast.IndexExpr:
		return exprContainsRoutine(expr.Object) || exprContainsRoutine(expr.Index)
	case *ast.ArrayLiteralExpr:
		for _, el := range expr.Elements {
			if exprContainsRoutine(el) {
				return true
			}
		}
		return false
	case *ast.HashLiteralExpr:
		for _, entry := range expr.Entries {
			if exprContainsRoutine(entry.Key) || exprContainsRoutine(entry.Value) {
				return true
			}
		}
		return false
	case *ast.StructLiteralExpr:
		for _, f := range expr.Fields {
			if exprContainsRoutine(f.Value) {
				return true
			}
		}
		return false
	case *ast.EnumConstructExpr:
		for _, f := range expr.Fields {
			if exprContainsRoutine(f.Value) {
				return true
			}
		}
		return false
	case *ast.ParallelExpr:
		for _, el := range expr.Elements {
			if exprContainsRoutine(el) {
				return true
			}
		}
		return false
	case *ast.MatchExpr:
		if exprContainsRoutine(expr.Scrutinee) {
			return true
		}
		for _, arm := range expr.Arms {
			if arm.Body != nil && exprContainsRoutine(arm.Body) {
				return true
			}
			if arm.BlockBody != nil && blockContainsRoutine(arm.BlockBody) {
				return true
			}
		}
		return false
	case *ast.TypeApplication:
		for _, a := range expr.Arguments {
			if exprContainsRoutine(a) {
				return true
			}
		}
		return false
	case *ast.RangeExpr:
		return exprContainsRoutine(expr.Start) || exprContainsRoutine(expr.End)
	default:
		return false
	}
}
