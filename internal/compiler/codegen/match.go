package codegen

import (
	"fmt"
	"strings"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
)

// binding is one name extracted from a matched subject.
type binding struct {
	name string
	expr string
}

// patternCond computes the Python condition that decides whether subj
// matches pat, plus the bindings to extract once it does. Arms are tried
// in textual order, so overlapping patterns resolve to the first match.
func (g *Generator) patternCond(pat ast.Pattern, subj string) (string, []binding) {
	switch p := pat.(type) {
	case *ast.WildcardPattern:
		return "True", nil
	case *ast.BindingPattern:
		return "True", []binding{{name: p.Name, expr: subj}}
	case *ast.LiteralPattern:
		return fmt.Sprintf("%s == %s", subj, pyLiteral(p.Value)), nil
	case *ast.TaggedPattern:
		conds := []string{
			fmt.Sprintf("isinstance(%s, dict)", subj),
			fmt.Sprintf("%s.get(\"type\") == %s", subj, pyStringQuote(p.VariantName)),
		}
		var binds []binding
		for _, f := range p.Fields {
			fieldSubj := fmt.Sprintf("%s[%s]", subj, pyStringQuote(f.Name))
			if f.Sub == nil {
				binds = append(binds, binding{name: f.Name, expr: fieldSubj})
				continue
			}
			subCond, subBinds := g.patternCond(f.Sub, fieldSubj)
			if subCond != "True" {
				conds = append(conds, subCond)
			}
			binds = append(binds, subBinds...)
		}
		return strings.Join(conds, " and "), binds
	case *ast.TuplePattern:
		conds := []string{
			fmt.Sprintf("isinstance(%s, (list, tuple))", subj),
			fmt.Sprintf("len(%s) == %d", subj, len(p.Elements)),
		}
		var binds []binding
		for i, el := range p.Elements {
			elSubj := fmt.Sprintf("%s[%d]", subj, i)
			elCond, elBinds := g.patternCond(el, elSubj)
			if elCond != "True" {
				conds = append(conds, elCond)
			}
			binds = append(binds, elBinds...)
		}
		return strings.Join(conds, " and "), binds
	case *ast.OrPattern:
		alts := make([]string, len(p.Alternatives))
		for i, alt := range p.Alternatives {
			cond, _ := g.patternCond(alt, subj)
			alts[i] = "(" + cond + ")"
		}
		return strings.Join(alts, " or "), nil
	default:
		return "True", nil
	}
}

// armCondition folds an arm's pattern condition and optional guard into
// one boolean expression. When a guard references pattern bindings, the
// bindings are folded into the condition as assignment expressions (a
// one-element tuple keeps each truthy regardless of the bound value) so
// the guard sees them without a separate statement position.
func (g *Generator) armCondition(arm *ast.MatchArm, subj string) (string, []binding) {
	cond, binds := g.patternCond(arm.Pattern, subj)
	if arm.Guard == nil {
		return cond, binds
	}
	parts := []string{cond}
	for _, b := range binds {
		parts = append(parts, fmt.Sprintf("((%s := %s),)", b.name, b.expr))
	}
	parts = append(parts, "("+g.emitExpr(arm.Guard)+")")
	return strings.Join(parts, " and "), nil
}

// emitMatchStmt lowers a match statement to a sequential if/elif ladder
// over a captured subject, ending in a non-exhaustive-match raise that
// names the subject value.
func (g *Generator) emitMatchStmt(stmt *ast.MatchStmt) {
	subj := g.uniqueName("match_subject")
	g.write("%s = %s", subj, g.emitExpr(stmt.Scrutinee))

	for i, arm := range stmt.Arms {
		cond, binds := g.armCondition(arm, subj)
		if i == 0 {
			g.write("if %s:", cond)
		} else {
			g.write("elif %s:", cond)
		}
		g.indent++
		for _, b := range binds {
			g.write("%s = %s", b.name, b.expr)
		}
		g.emitMatchArmBody(arm)
		g.indent--
	}

	g.write("else:")
	g.indent++
	g.write(`raise Exception("non-exhaustive match: " + str(%s))`, subj)
	g.indent--
}

// emitMatchArmBody emits one statement-position arm. A block body runs
// for effect; a bare-expression body (`pattern => expr,`) returns its
// value from the enclosing function, which is what makes a match whose
// arms are expressions usable as a function's result position.
func (g *Generator) emitMatchArmBody(arm *ast.MatchArm) {
	if arm.BlockBody != nil {
		if len(arm.BlockBody.Statements) == 0 {
			g.write("pass")
			return
		}
		for _, s := range arm.BlockBody.Statements {
			g.emitStmt(s)
		}
		return
	}
	out := g.emitExpr(arm.Body)
	if out == "" {
		g.write("pass")
		return
	}
	if g.inFunction {
		g.write("return %s", out)
	} else {
		g.write("%s", out)
	}
}

// emitMatchExpr lowers a value-producing match to a hoisted helper
// function of the subject: each arm is a sequential if with an early
// return, so a failing guard falls through to the next arm, and the
// trailing raise covers the non-exhaustive case. The helper is async
// when emitted inside an async context so arm bodies can await.
func (g *Generator) emitMatchExpr(expr *ast.MatchExpr) string {
	name := g.uniqueName("match_expr")
	async := g.asyncDepth > 0

	if async {
		g.write("async def %s(_subject):", name)
	} else {
		g.write("def %s(_subject):", name)
	}
	g.indent++
	for _, arm := range expr.Arms {
		cond, binds := g.patternCond(arm.Pattern, "_subject")
		g.write("if %s:", cond)
		g.indent++
		for _, b := range binds {
			g.write("%s = %s", b.name, b.expr)
		}
		if arm.Guard != nil {
			g.write("if %s:", g.emitExpr(arm.Guard))
			g.indent++
			g.emitMatchExprArmResult(arm)
			g.indent--
		} else {
			g.emitMatchExprArmResult(arm)
		}
		g.indent--
	}
	g.write(`raise Exception("non-exhaustive match: " + str(_subject))`)
	g.indent--

	call := fmt.Sprintf("%s(%s)", name, g.emitExpr(expr.Scrutinee))
	if async {
		return "(await " + call + ")"
	}
	return call
}

func (g *Generator) emitMatchExprArmResult(arm *ast.MatchArm) {
	if arm.BlockBody != nil {
		stmts := arm.BlockBody.Statements
		if len(stmts) == 0 {
			g.write("return None")
			return
		}
		for _, s := range stmts[:len(stmts)-1] {
			g.emitStmt(s)
		}
		if exprStmt, ok := stmts[len(stmts)-1].(*ast.ExprStmt); ok {
			g.write("return %s", g.emitExpr(exprStmt.Expr))
			return
		}
		g.emitStmt(stmts[len(stmts)-1])
		g.write("return None")
		return
	}
	g.write("return %s", g.emitExpr(arm.Body))
}
