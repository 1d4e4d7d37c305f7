package codegen

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
)

func (g *Generator) emitStmt(s ast.Statement) {
	if g.err != nil {
		return
	}
	switch stmt := s.(type) {
	case *ast.BlockStmt:
		// Python has no block scope; a bare nested block flattens into
		// its statements.
		for _, inner := range stmt.Statements {
			g.emitStmt(inner)
		}
	case *ast.LetStmt:
		g.emitLet(stmt)
	case *ast.ConstStmt:
		if stmt.Type != nil {
			g.write("%s: %s = %s", stmt.Name, g.pyType(stmt.Type), g.emitExpr(stmt.Value))
		} else {
			g.write("%s = %s", stmt.Name, g.emitExpr(stmt.Value))
		}
	case *ast.ReturnStmt:
		if stmt.Value != nil {
			g.write("return %s", g.emitExpr(stmt.Value))
		} else {
			g.write("return")
		}
	case *ast.ExprStmt:
		if assign, ok := stmt.Expr.(*ast.AssignExpr); ok {
			g.emitAssignStmt(assign)
			return
		}
		out := g.emitExpr(stmt.Expr)
		if out != "" {
			g.write("%s", out)
		}
	case *ast.IfStmt:
		g.emitIf(stmt)
	case *ast.WhileStmt:
		g.write("while %s:", g.emitExpr(stmt.Condition))
		g.emitIndentedBlock(stmt.Body)
	case *ast.ForStmt:
		g.write("for %s in %s:", stmt.Binding, g.emitExpr(stmt.Iterable))
		g.emitIndentedBlock(stmt.Body)
	case *ast.LoopStmt:
		g.write("while True:")
		g.emitIndentedBlock(stmt.Body)
	case *ast.BreakStmt:
		g.write("break")
	case *ast.ContinueStmt:
		g.write("continue")
	case *ast.MatchStmt:
		g.emitMatchStmt(stmt)
	case *ast.AssertStmt:
		if stmt.Message != nil {
			g.write("assert %s, %s", g.emitExpr(stmt.Value), g.emitExpr(stmt.Message))
		} else {
			g.write("assert %s", g.emitExpr(stmt.Value))
		}
	case *ast.ThrowStmt:
		g.write("raise Exception(%s)", g.emitExpr(stmt.Value))
	case *ast.TryStmt:
		g.emitTry(stmt)
	default:
		g.fail(diagnostics.NewInternalError(fmt.Sprintf("codegen: unhandled statement node %T", s)))
	}
}

// emitAssignStmt renders an assignment in statement position. A chain
// of plain `=` assignments flattens to the host's multi-target form
// (`a = b = c`); a compound operator keeps its augmented form.
func (g *Generator) emitAssignStmt(assign *ast.AssignExpr) {
	if assign.Operator == "=" {
		targets := []string{g.emitExpr(assign.Target)}
		value := assign.Value
		for {
			nested, ok := value.(*ast.AssignExpr)
			if !ok || nested.Operator != "=" {
				break
			}
			targets = append(targets, g.emitExpr(nested.Target))
			value = nested.Value
		}
		g.write("%s = %s", strings.Join(targets, " = "), g.emitExpr(value))
		return
	}
	g.write("%s %s %s", g.emitExpr(assign.Target), assign.Operator, g.emitExpr(assign.Value))
}

func (g *Generator) emitLet(stmt *ast.LetStmt) {
	if stmt.Value != nil && exprIsChannelConstruction(stmt.Value) {
		g.channelVars[stmt.Name] = true
	}
	value := "None"
	if stmt.Value != nil {
		value = g.emitExpr(stmt.Value)
	}
	if stmt.Type != nil {
		g.write("%s: %s = %s", stmt.Name, g.pyType(stmt.Type), value)
		return
	}
	g.write("%s = %s", stmt.Name, value)
}

func (g *Generator) emitIf(stmt *ast.IfStmt) {
	g.write("if %s:", g.emitExpr(stmt.Condition))
	g.emitIndentedBlock(stmt.Then)
	switch elseStmt := stmt.Else.(type) {
	case nil:
	case *ast.IfStmt:
		// Render else-if chains as a nested if under an else; Python's
		// elif is just sugar this emitter skips.
		g.write("else:")
		g.indent++
		g.emitIf(elseStmt)
		g.indent--
	case *ast.BlockStmt:
		g.write("else:")
		g.emitIndentedBlock(elseStmt)
	default:
		g.write("else:")
		g.indent++
		g.emitStmt(elseStmt)
		g.indent--
	}
}

func (g *Generator) emitTry(stmt *ast.TryStmt) {
	g.write("try:")
	g.emitIndentedBlock(stmt.Body)
	if stmt.Catch != nil {
		if stmt.CatchBinding != "" {
			g.write("except Exception as %s:", stmt.CatchBinding)
		} else {
			g.write("except Exception:")
		}
		g.emitIndentedBlock(stmt.Catch)
	}
	if stmt.Finally != nil {
		g.write("finally:")
		g.emitIndentedBlock(stmt.Finally)
	}
}

// emitIndentedBlock writes a block's statements one level deeper,
// emitting pass for an empty body.
func (g *Generator) emitIndentedBlock(b *ast.BlockStmt) {
	g.indent++
	g.emitFunctionBody(b)
	g.indent--
}

// emitFunctionBody emits a body at the current indent, substituting
// pass when there is nothing to emit.
func (g *Generator) emitFunctionBody(b *ast.BlockStmt) {
	if b == nil || len(b.Statements) == 0 {
		g.write("pass")
		return
	}
	before := len(g.lines)
	for _, s := range b.Statements {
		g.emitStmt(s)
	}
	if len(g.lines) == before {
		g.write("pass")
	}
}

// globalAssignments finds module-scope names assigned inside a function
// body, which Python requires to be declared with a global statement.
// Only direct statement-level assignments count, matching how module
// scope is actually mutated.
func (g *Generator) globalAssignments(b *ast.BlockStmt) []string {
	found := map[string]bool{}
	var walkBlock func(*ast.BlockStmt)
	var walkStmt func(ast.Statement)

	walkStmt = func(s ast.Statement) {
		switch stmt := s.(type) {
		case *ast.ExprStmt:
			// An assignment chain `a = b = c` assigns every target.
			for assign, ok := stmt.Expr.(*ast.AssignExpr); ok; assign, ok = assign.Value.(*ast.AssignExpr) {
				if ident, isIdent := assign.Target.(*ast.IdentifierExpr); isIdent && g.scan.globalVariables[ident.Name] {
					found[ident.Name] = true
				}
			}
		case *ast.BlockStmt:
			walkBlock(stmt)
		case *ast.IfStmt:
			walkBlock(stmt.Then)
			if stmt.Else != nil {
				walkStmt(stmt.Else)
			}
		case *ast.WhileStmt:
			walkBlock(stmt.Body)
		case *ast.ForStmt:
			walkBlock(stmt.Body)
		case *ast.LoopStmt:
			walkBlock(stmt.Body)
		case *ast.MatchStmt:
			for _, arm := range stmt.Arms {
				if arm.BlockBody != nil {
					walkBlock(arm.BlockBody)
				}
			}
		case *ast.TryStmt:
			walkBlock(stmt.Body)
			if stmt.Catch != nil {
				walkBlock(stmt.Catch)
			}
			if stmt.Finally != nil {
				walkBlock(stmt.Finally)
			}
		}
	}
	walkBlock = func(b *ast.BlockStmt) {
		for _, s := range b.Statements {
			walkStmt(s)
		}
	}

	if b != nil {
		walkBlock(b)
	}
	names := make([]string, 0, len(found))
	for name := range found {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func joinComma(parts []string) string { return strings.Join(parts, ", ") }
