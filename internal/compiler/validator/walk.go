package validator

import "github.com/sailfin-lang/sailfin/internal/compiler/ast"

func (v *Validator) validateBlock(b *ast.BlockStmt) {
	if v.failed() || b == nil {
		return
	}
	for _, s := range b.Statements {
		v.validateStmt(s)
		if v.failed() {
			return
		}
	}
}

func (v *Validator) validateStmt(s ast.Statement) {
	if v.failed() || s == nil {
		return
	}
	switch stmt := s.(type) {
	case *ast.BlockStmt:
		v.validateBlock(stmt)

	case *ast.LetStmt:
		v.requireIdent(stmt.Name, stmt.Loc, "variable name")
		v.validateType(stmt.Type)
		v.validateExpr(stmt.Value)

	case *ast.ConstStmt:
		v.requireIdent(stmt.Name, stmt.Loc, "constant name")
		v.validateType(stmt.Type)
		v.validateExpr(stmt.Value)

	case *ast.ReturnStmt:
		if v.funcDepth == 0 {
			v.fail(stmt.Loc, "return statement", "return may only appear inside a function, method, or lambda body")
			return
		}
		v.validateExpr(stmt.Value)

	case *ast.ExprStmt:
		v.validateExpr(stmt.Expr)

	case *ast.IfStmt:
		v.validateExpr(stmt.Condition)
		v.validateBlock(stmt.Then)
		if stmt.Else != nil {
			v.validateStmt(stmt.Else)
		}

	case *ast.WhileStmt:
		v.validateExpr(stmt.Condition)
		v.validateBlock(stmt.Body)

	case *ast.ForStmt:
		v.requireIdent(stmt.Binding, stmt.Loc, "loop variable name")
		v.validateExpr(stmt.Iterable)
		v.validateBlock(stmt.Body)

	case *ast.LoopStmt:
		v.validateBlock(stmt.Body)

	case *ast.BreakStmt, *ast.ContinueStmt:
		// nothing to check

	case *ast.MatchStmt:
		v.validateExpr(stmt.Scrutinee)
		for _, arm := range stmt.Arms {
			v.validateMatchArm(arm)
		}

	case *ast.AssertStmt:
		v.validateExpr(stmt.Value)
		v.validateExpr(stmt.Message)

	case *ast.ThrowStmt:
		v.validateExpr(stmt.Value)

	case *ast.TryStmt:
		v.validateBlock(stmt.Body)
		if stmt.Catch != nil {
			if stmt.CatchBinding != "" {
				v.requireIdent(stmt.CatchBinding, stmt.Loc, "catch binding name")
			}
			v.validateBlock(stmt.Catch)
		}
		v.validateBlock(stmt.Finally)

	default:
		v.fail(s.Location(), "statement", "unrecognized statement")
	}
}

func (v *Validator) validateMatchArm(arm *ast.MatchArm) {
	if v.failed() {
		return
	}
	v.validatePattern(arm.Pattern)
	v.validateExpr(arm.Guard)
	v.validateExpr(arm.Body)
	v.validateBlock(arm.BlockBody)
}

func (v *Validator) validatePattern(p ast.Pattern) {
	if v.failed() || p == nil {
		return
	}
	switch pat := p.(type) {
	case *ast.WildcardPattern, *ast.LiteralPattern:
		// always valid
	case *ast.BindingPattern:
		v.requireIdent(pat.Name, pat.Loc, "pattern binding name")
	case *ast.TaggedPattern:
		v.requireIdent(pat.EnumName, pat.Loc, "tagged pattern type name")
		v.requireIdent(pat.VariantName, pat.Loc, "tagged pattern variant name")
		for _, f := range pat.Fields {
			v.requireIdent(f.Name, pat.Loc, "tagged pattern field name")
			if f.Sub != nil {
				v.validatePattern(f.Sub)
			}
		}
	case *ast.TuplePattern:
		for _, el := range pat.Elements {
			v.validatePattern(el)
		}
	case *ast.OrPattern:
		for _, alt := range pat.Alternatives {
			v.validatePattern(alt)
		}
	default:
		v.fail(p.Location(), "pattern", "unrecognized pattern")
	}
}

func (v *Validator) validateExpr(e ast.Expression) {
	if v.failed() || e == nil {
		return
	}
	switch expr := e.(type) {
	case *ast.LiteralExpr:
		// always valid

	case *ast.InterpolatedStringExpr:
		for _, part := range expr.Parts {
			v.validateExpr(part.Splice)
		}

	case *ast.IdentifierExpr:
		v.requireIdent(expr.Name, expr.Loc, "identifier")

	case *ast.AssignExpr:
		v.validateExpr(expr.Target)
		v.validateExpr(expr.Value)

	case *ast.BinaryExpr:
		v.validateExpr(expr.Left)
		v.validateExpr(expr.Right)

	case *ast.UnaryExpr:
		v.validateExpr(expr.Operand)

	case *ast.CallExpr:
		v.validateExpr(expr.Callee)
		for _, a := range expr.Args {
			v.validateExpr(a)
		}

	case *ast.MemberExpr:
		v.validateExpr(expr.Object)

	case *ast.IndexExpr:
		v.validateExpr(expr.Object)
		v.validateExpr(expr.Index)

	case *ast.RangeExpr:
		v.validateExpr(expr.Start)
		v.validateExpr(expr.End)

	case *ast.StructLiteralExpr:
		v.requireIdent(expr.TypeName, expr.Loc, "struct instantiation name")
		for _, f := range expr.Fields {
			v.requireIdent(f.Name, f.Loc, "field name in struct instantiation")
			v.validateExpr(f.Value)
		}

	case *ast.EnumConstructExpr:
		v.requireIdent(expr.EnumName, expr.Loc, "enum name in variant construction")
		v.requireIdent(expr.VariantName, expr.Loc, "variant name in enum construction")
		for _, f := range expr.Fields {
			v.requireIdent(f.Name, f.Loc, "field name in enum variant construction")
			v.validateExpr(f.Value)
		}

	case *ast.ArrayLiteralExpr:
		for _, el := range expr.Elements {
			v.validateExpr(el)
		}

	case *ast.HashLiteralExpr:
		for _, entry := range expr.Entries {
			v.validateExpr(entry.Key)
			v.validateExpr(entry.Value)
		}

	case *ast.LambdaExpr:
		v.validateParams(expr.Params, "lambda parameter name")
		v.validateType(expr.ReturnType)
		v.funcDepth++
		v.validateExpr(expr.Body)
		v.validateBlock(expr.BlockBody)
		v.funcDepth--

	case *ast.MatchExpr:
		v.validateExpr(expr.Scrutinee)
		for _, arm := range expr.Arms {
			v.validateMatchArm(arm)
		}

	case *ast.IsExpr:
		v.validateExpr(expr.Value)
		if !v.typeNameValid(expr.TypeName) {
			v.fail(expr.Loc, "type check expression", "invalid type name in type check: %q", expr.TypeName)
		}

	case *ast.TypeApplication:
		v.validateExpr(expr.Base)
		if ident, ok := expr.Base.(*ast.IdentifierExpr); ok {
			if !v.checkArity(ident.Name, len(expr.Args), expr.Loc) {
				return
			}
		}
		for _, a := range expr.Args {
			v.validateType(a)
		}
		for _, a := range expr.Arguments {
			v.validateExpr(a)
		}

	case *ast.RoutineExpr:
		if n := len(v.asyncFuncStack); n > 0 && !v.asyncFuncStack[n-1] {
			v.fail(expr.Loc, "routine expression", "routine blocks are not allowed inside a non-async function; mark the enclosing function async")
			return
		}
		v.validateBlock(expr.Body)

	case *ast.AsyncBlockExpr:
		v.validateBlock(expr.Body)

	case *ast.AwaitExpr:
		v.validateExpr(expr.Value)

	case *ast.ParallelExpr:
		for _, el := range expr.Elements {
			v.validateExpr(el)
		}

	default:
		v.fail(e.Location(), "expression", "unrecognized expression")
	}
}
