package codegen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
)

// emitExpr renders e as a Python expression string. Constructs with no
// inline Python equivalent (block-bodied lambdas, match expressions,
// routines, async blocks, parallel joins) hoist a helper definition
// into the current statement position and return a reference to it.
func (g *Generator) emitExpr(e ast.Expression) string {
	if g.err != nil {
		return ""
	}
	switch expr := e.(type) {
	case *ast.LiteralExpr:
		return pyLiteral(expr.Value)
	case *ast.InterpolatedStringExpr:
		return g.emitInterpolated(expr)
	case *ast.IdentifierExpr:
		return expr.Name
	case *ast.AssignExpr:
		return g.emitAssignExpr(expr)
	case *ast.BinaryExpr:
		return g.emitBinary(expr)
	case *ast.UnaryExpr:
		if expr.Operator == "!" {
			return fmt.Sprintf("(not %s)", g.emitExpr(expr.Operand))
		}
		return fmt.Sprintf("(%s%s)", expr.Operator, g.emitExpr(expr.Operand))
	case *ast.CallExpr:
		return g.emitCall(expr)
	case *ast.MemberExpr:
		return g.emitMember(expr)
	case *ast.IndexExpr:
		return fmt.Sprintf("%s[%s]", g.emitExpr(expr.Object), g.emitExpr(expr.Index))
	case *ast.RangeExpr:
		return fmt.Sprintf("range(%s, %s)", g.emitExpr(expr.Start), g.emitExpr(expr.End))
	case *ast.ArrayLiteralExpr:
		return "[" + g.emitExprList(expr.Elements) + "]"
	case *ast.HashLiteralExpr:
		return g.emitHashLiteral(expr)
	case *ast.StructLiteralExpr:
		return g.emitStructLiteral(expr)
	case *ast.EnumConstructExpr:
		return g.emitEnumConstruct(expr)
	case *ast.LambdaExpr:
		return g.emitLambda(expr)
	case *ast.MatchExpr:
		return g.emitMatchExpr(expr)
	case *ast.IsExpr:
		return g.emitIs(expr)
	case *ast.TypeApplication:
		return g.emitTypeApplication(expr)
	case *ast.AwaitExpr:
		return g.emitAwait(expr)
	case *ast.RoutineExpr:
		return g.emitRoutineExpr(expr)
	case *ast.AsyncBlockExpr:
		return g.emitAsyncBlock(expr)
	case *ast.ParallelExpr:
		return g.emitParallel(expr)
	default:
		g.fail(diagnostics.NewInternalError(fmt.Sprintf("codegen: unhandled expression node %T", e)))
		return ""
	}
}

func (g *Generator) emitExprList(exprs []ast.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = g.emitExpr(e)
	}
	return strings.Join(parts, ", ")
}

func pyLiteral(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "None"
	case bool:
		if val {
			return "True"
		}
		return "False"
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case string:
		return pyStringQuote(val)
	default:
		return fmt.Sprintf("%v", val)
	}
}

// emitAssignExpr renders an assignment in true expression position
// (statement-position assignments go through emitAssignStmt). The host
// only has the named-expression form, so a compound operator desugars
// through its plain binary operation.
func (g *Generator) emitAssignExpr(expr *ast.AssignExpr) string {
	target := g.emitExpr(expr.Target)
	value := g.emitExpr(expr.Value)
	if expr.Operator == "=" {
		return fmt.Sprintf("(%s := %s)", target, value)
	}
	op := strings.TrimSuffix(expr.Operator, "=")
	return fmt.Sprintf("(%s := (%s %s %s))", target, target, op, value)
}

func (g *Generator) emitBinary(expr *ast.BinaryExpr) string {
	left := g.emitExpr(expr.Left)
	right := g.emitExpr(expr.Right)
	switch expr.Operator {
	case "&&":
		return fmt.Sprintf("(%s and %s)", left, right)
	case "||":
		return fmt.Sprintf("(%s or %s)", left, right)
	case "??":
		return fmt.Sprintf("(%s if %s is not None else %s)", left, left, right)
	default:
		return fmt.Sprintf("(%s %s %s)", left, expr.Operator, right)
	}
}

// ---- calls and the member-method lowering table ----

func (g *Generator) emitCall(call *ast.CallExpr) string {
	argStrs := make([]string, len(call.Args))
	for i, a := range call.Args {
		argStrs[i] = g.emitExpr(a)
	}
	args := strings.Join(argStrs, ", ")

	if member, ok := call.Callee.(*ast.MemberExpr); ok {
		if out, handled := g.lowerMethodCall(member, argStrs, args); handled {
			return out
		}
	}

	if ident, ok := call.Callee.(*ast.IdentifierExpr); ok {
		switch ident.Name {
		case "Channel":
			g.addImport("import asyncio")
			return fmt.Sprintf("asyncio.Queue(%s)", args)
		case "sleep":
			return g.lowerSleep(args)
		}
	}

	if app, ok := call.Callee.(*ast.TypeApplication); ok && !app.Called {
		// `f<T>(x)` where the argument list was parsed as a postfix call
		// on the bare application rather than folded into it.
		return g.emitTypeAppCall(app, args)
	}

	return fmt.Sprintf("%s(%s)", g.emitExpr(call.Callee), args)
}

// lowerMethodCall implements the sequence/channel method lowerings.
// Returns handled=false for calls that pass through untouched.
func (g *Generator) lowerMethodCall(member *ast.MemberExpr, argStrs []string, args string) (string, bool) {
	if ident, ok := member.Object.(*ast.IdentifierExpr); ok && ident.Name == "print" {
		switch member.Property {
		case "info", "debug", "warn", "error":
			return fmt.Sprintf("print(%s)", args), true
		}
	}

	switch member.Property {
	case "map":
		return fmt.Sprintf("list(map(%s, %s))", args, g.emitExpr(member.Object)), true
	case "filter":
		return fmt.Sprintf("list(filter(%s, %s))", args, g.emitExpr(member.Object)), true
	case "reduce":
		g.addImport("import functools")
		obj := g.emitExpr(member.Object)
		if len(argStrs) == 2 {
			return fmt.Sprintf("functools.reduce(%s, %s, %s)", argStrs[1], obj, argStrs[0]), true
		}
		return fmt.Sprintf("functools.reduce(%s, %s)", args, obj), true
	case "concat":
		return fmt.Sprintf("(%s + %s)", g.emitExpr(member.Object), args), true
	case "send":
		if g.isChannelExpr(member.Object) {
			return fmt.Sprintf("%s.put_nowait(%s)", g.emitExpr(member.Object), args), true
		}
	case "receive":
		if g.isChannelExpr(member.Object) {
			return fmt.Sprintf("%s.get()", g.emitExpr(member.Object)), true
		}
	}
	return "", false
}

// isChannelExpr decides whether a send/receive target has channel shape:
// either its binding was created by a Channel(...) construction, or its
// name reads like a channel. Anything else (a WebSocket client, say)
// keeps its own send/receive methods.
func (g *Generator) isChannelExpr(obj ast.Expression) bool {
	ident, ok := obj.(*ast.IdentifierExpr)
	if !ok {
		return false
	}
	if g.channelVars[ident.Name] {
		return true
	}
	lower := strings.ToLower(ident.Name)
	if strings.Contains(lower, "channel") || strings.Contains(lower, "buffer") || strings.Contains(lower, "queue") {
		return true
	}
	switch lower {
	case "ch", "c", "chan", "tasks", "q":
		return true
	}
	return false
}

// exprIsChannelConstruction reports whether e constructs a channel, for
// channel-variable tracking at let/global bindings.
func exprIsChannelConstruction(e ast.Expression) bool {
	switch expr := e.(type) {
	case *ast.TypeApplication:
		if base, ok := expr.Base.(*ast.IdentifierExpr); ok {
			return base.Name == "Channel"
		}
	case *ast.CallExpr:
		if ident, ok := expr.Callee.(*ast.IdentifierExpr); ok {
			return ident.Name == "Channel"
		}
	}
	return false
}

func (g *Generator) lowerSleep(args string) string {
	if g.asyncDepth > 0 {
		g.addImport("import asyncio")
		if args == "" {
			return "await asyncio.sleep(0)"
		}
		return fmt.Sprintf("await asyncio.sleep(%s / 1000)", args)
	}
	g.addImport("import time")
	if args == "" {
		return "time.sleep(0)"
	}
	return fmt.Sprintf("time.sleep(%s / 1000)", args)
}

func (g *Generator) emitMember(expr *ast.MemberExpr) string {
	obj := g.emitExpr(expr.Object)
	if obj == "print" {
		switch expr.Property {
		case "info", "debug", "warn", "error":
			return "print"
		}
	}
	if expr.Property == "length" {
		return fmt.Sprintf("len(%s)", obj)
	}
	return fmt.Sprintf("%s.%s", obj, expr.Property)
}

func (g *Generator) emitHashLiteral(expr *ast.HashLiteralExpr) string {
	pairs := make([]string, len(expr.Entries))
	for i, entry := range expr.Entries {
		var key string
		if ident, ok := entry.Key.(*ast.IdentifierExpr); ok {
			key = pyStringQuote(ident.Name)
		} else {
			key = g.emitExpr(entry.Key)
		}
		pairs[i] = fmt.Sprintf("%s: %s", key, g.emitExpr(entry.Value))
	}
	return "{" + strings.Join(pairs, ", ") + "}"
}

func (g *Generator) emitStructLiteral(expr *ast.StructLiteralExpr) string {
	fields := make([]string, len(expr.Fields))
	for i, f := range expr.Fields {
		fields[i] = fmt.Sprintf("%s=%s", f.Name, g.emitExpr(f.Value))
	}
	return fmt.Sprintf("%s(%s)", expr.TypeName, strings.Join(fields, ", "))
}

// emitEnumConstruct lowers `E.V { a: 1 }` to the tagged dict
// `{"type": "V", "a": 1}`. A payload-free variant reference renders as
// the tag dict too, so `E.V` compares equal to a constructed value of
// the same variant under the match lowering's shape test.
func (g *Generator) emitEnumConstruct(expr *ast.EnumConstructExpr) string {
	parts := []string{fmt.Sprintf(`"type": %s`, pyStringQuote(expr.VariantName))}
	for _, f := range expr.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", pyStringQuote(f.Name), g.emitExpr(f.Value)))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (g *Generator) emitLambda(expr *ast.LambdaExpr) string {
	params := make([]string, len(expr.Params))
	for i, p := range expr.Params {
		params[i] = p.Name
	}
	paramList := strings.Join(params, ", ")

	if expr.Body != nil {
		return fmt.Sprintf("(lambda %s: %s)", paramList, g.emitExpr(expr.Body))
	}

	// Block-bodied lambdas have no inline Python form; hoist a def and
	// reference it by name.
	name := g.uniqueName("lambda")
	g.write("def %s(%s):", name, paramList)
	g.indent++
	g.emitFunctionBody(expr.BlockBody)
	g.indent--
	return name
}

func (g *Generator) emitIs(expr *ast.IsExpr) string {
	typeMap := map[string]string{
		"string":  "str",
		"number":  "(int, float)",
		"int":     "int",
		"float":   "float",
		"boolean": "bool",
		"bool":    "bool",
		"void":    "type(None)",
		"null":    "type(None)",
	}
	pyName, ok := typeMap[expr.TypeName]
	if !ok {
		pyName = expr.TypeName
	}
	return fmt.Sprintf("isinstance(%s, %s)", g.emitExpr(expr.Value), pyName)
}

// emitTypeApplication lowers a parsed generic application. Channel<T>(n)
// becomes a bounded asyncio queue; every other application erases its
// type arguments at runtime, since the host language's values are
// untyped (the arguments have already been validated for arity).
func (g *Generator) emitTypeApplication(app *ast.TypeApplication) string {
	if app.Called {
		return g.emitTypeAppCall(app, g.emitExprList(app.Arguments))
	}
	return g.emitExpr(app.Base)
}

func (g *Generator) emitTypeAppCall(app *ast.TypeApplication, args string) string {
	if base, ok := app.Base.(*ast.IdentifierExpr); ok && base.Name == "Channel" {
		g.addImport("import asyncio")
		return fmt.Sprintf("asyncio.Queue(%s)", args)
	}
	return fmt.Sprintf("%s(%s)", g.emitExpr(app.Base), args)
}

func (g *Generator) emitAwait(expr *ast.AwaitExpr) string {
	if g.asyncDepth == 0 {
		g.failf(expr.Loc, "await expression", "await is only allowed inside an async function or async block")
		return ""
	}
	// `await [a, b]` joins all of its elements.
	if arr, ok := expr.Value.(*ast.ArrayLiteralExpr); ok {
		g.addImport("import asyncio")
		return fmt.Sprintf("await asyncio.gather(%s)", g.emitExprList(arr.Elements))
	}
	return fmt.Sprintf("await %s", g.emitExpr(expr.Value))
}

// emitRoutineExpr handles a routine in expression/statement position
// inside an async function: the body becomes a named async def and the
// routine's value is the awaited call. (Top-level routines are
// RoutineDecl declarations; routines in sync functions were rejected by
// the validator.)
func (g *Generator) emitRoutineExpr(expr *ast.RoutineExpr) string {
	g.addImport("import asyncio")
	name := expr.Name
	if name == "" {
		name = g.uniqueName("routine")
	}

	g.write("async def %s():", name)
	g.indent++
	g.asyncDepth++
	g.emitFunctionBody(expr.Body)
	g.asyncDepth--
	g.indent--

	if g.asyncDepth > 0 {
		return fmt.Sprintf("await %s()", name)
	}
	return fmt.Sprintf("asyncio.create_task(%s())", name)
}

// emitAsyncBlock hoists the block as an async def and produces the
// coroutine object of calling it, ready for a later await.
func (g *Generator) emitAsyncBlock(expr *ast.AsyncBlockExpr) string {
	g.addImport("import asyncio")
	name := g.uniqueName("async_block")

	g.write("async def %s():", name)
	g.indent++
	g.asyncDepth++
	g.emitAsyncBlockBody(expr.Body)
	g.asyncDepth--
	g.indent--

	return fmt.Sprintf("%s()", name)
}

// emitAsyncBlockBody emits the block's statements, turning a trailing
// expression statement into the block's return value.
func (g *Generator) emitAsyncBlockBody(body *ast.BlockStmt) {
	if body == nil || len(body.Statements) == 0 {
		g.write("pass")
		return
	}
	for _, stmt := range body.Statements[:len(body.Statements)-1] {
		g.emitStmt(stmt)
	}
	last := body.Statements[len(body.Statements)-1]
	if exprStmt, ok := last.(*ast.ExprStmt); ok {
		g.write("return %s", g.emitExpr(exprStmt.Expr))
		return
	}
	g.emitStmt(last)
}

// emitParallel lowers `parallel [t1, t2, ...]` to an asyncio.gather of
// every thunk, preserving input order in the result list. Lambda thunks
// become async task defs so each runs concurrently on the event loop.
func (g *Generator) emitParallel(expr *ast.ParallelExpr) string {
	g.addImport("import asyncio")

	calls := make([]string, 0, len(expr.Elements))
	for _, el := range expr.Elements {
		if lam, ok := el.(*ast.LambdaExpr); ok {
			calls = append(calls, g.emitAsyncTask(lam)+"()")
			continue
		}
		calls = append(calls, g.emitExpr(el))
	}

	wrapper := g.uniqueName("parallel")
	g.write("async def %s():", wrapper)
	g.indent++
	g.write("return await asyncio.gather(%s)", strings.Join(calls, ", "))
	g.indent--

	if g.asyncDepth > 0 {
		return fmt.Sprintf("await %s()", wrapper)
	}
	return fmt.Sprintf("asyncio.run(%s())", wrapper)
}

// emitAsyncTask renders a lambda as a named async def for concurrent
// execution and returns its name.
func (g *Generator) emitAsyncTask(lam *ast.LambdaExpr) string {
	name := g.uniqueName("async_task")
	params := make([]string, len(lam.Params))
	for i, p := range lam.Params {
		params[i] = p.Name
	}

	g.write("async def %s(%s):", name, strings.Join(params, ", "))
	g.indent++
	g.asyncDepth++
	if lam.Body != nil {
		g.write("return %s", g.emitExpr(lam.Body))
	} else {
		g.emitFunctionBody(lam.BlockBody)
	}
	g.asyncDepth--
	g.indent--
	return name
}

// ---- string interpolation ----

// emitInterpolated renders an interpolated string as a Python f-string.
// A bare member-access splice uses the dict-or-attribute access pattern
// so interpolation works whether the value is an enum payload dict or a
// struct instance.
func (g *Generator) emitInterpolated(expr *ast.InterpolatedStringExpr) string {
	var b strings.Builder
	b.WriteString(`f"`)
	for _, part := range expr.Parts {
		if part.Splice == nil {
			b.WriteString(escapeFStringText(part.Text))
			continue
		}
		b.WriteString("{")
		b.WriteString(g.emitSplice(part.Splice))
		b.WriteString("}")
	}
	b.WriteString(`"`)
	return b.String()
}

func (g *Generator) emitSplice(splice ast.Expression) string {
	if member, ok := splice.(*ast.MemberExpr); ok && member.Property != "length" {
		obj := g.emitExpr(member.Object)
		return fmt.Sprintf("%s['%s'] if isinstance(%s, dict) else %s.%s",
			obj, member.Property, obj, obj, member.Property)
	}
	out := g.emitExpr(splice)
	// f-string expressions cannot contain the enclosing quote character
	// before Python 3.12; single-quote any double-quoted string literal
	// the splice produced.
	return strings.ReplaceAll(out, `"`, `'`)
}

func escapeFStringText(text string) string {
	text = strings.ReplaceAll(text, `\`, `\\`)
	text = strings.ReplaceAll(text, `"`, `\"`)
	text = strings.ReplaceAll(text, "{", "{{")
	text = strings.ReplaceAll(text, "}", "}}")
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\t", `\t`)
	return text
}
