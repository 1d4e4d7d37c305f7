// Package validator walks a parsed Program and rejects programs that are
// syntactically well-formed but lexically ill-formed: bad identifiers,
// malformed type annotations, return statements outside any function body,
// and malformed imports. It also rejects a routine block inside a
// non-async function. It does not type-check — field existence on struct
// literals and enum constructions is left to the host runtime, and the
// other async/await positional rules to the code generator.
package validator

import (
	"fmt"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
	"github.com/sailfin-lang/sailfin/internal/compiler/lexer"
	"github.com/sailfin-lang/sailfin/internal/compiler/stdlib"
)

// Validator is a stateful visitor. currentTypeParams tracks the type
// parameters in scope at the current point in the walk (a count per name
// rather than a plain set, since a method nested inside a generic struct
// re-declaring the same name would otherwise pop it out of scope early).
type Validator struct {
	currentTypeParams map[string]int
	funcDepth         int // > 0 while inside a function/method/lambda body

	// asyncFuncStack tracks the IsAsync flag of each enclosing function/
	// method declaration, innermost last. Empty while walking top-level
	// code, where a routine block is always allowed (it becomes one of
	// codegen's top_level_routines). Lambdas do not push a frame: the
	// language has no async-lambda syntax, so a routine written directly
	// inside a lambda is judged against the lambda's enclosing function.
	asyncFuncStack []bool

	// declaredArity maps a struct/enum name declared in this file to its
	// declared type-parameter count, so a generic application's argument
	// list can be checked for arity, not just for identifier shape. Names
	// not present here (host builtins like Channel/Array, or anything not
	// declared in this file) are not arity-checked.
	declaredArity map[string]int

	err *diagnostics.Diagnostic
}

// Validate checks prog and returns the first ValidationError encountered,
// or nil if the program is well-formed. Validation stops at the first
// error: unlike the lexer and parser, there is no value in reporting a
// second problem once the AST is already known to be malformed.
func Validate(prog *ast.Program) *diagnostics.Diagnostic {
	v := &Validator{currentTypeParams: map[string]int{}, declaredArity: map[string]int{}}
	for _, decl := range prog.Declarations {
		switch d := decl.(type) {
		case *ast.StructDecl:
			v.declaredArity[d.Name] = len(d.TypeParams)
		case *ast.EnumDecl:
			v.declaredArity[d.Name] = len(d.TypeParams)
		}
	}
	for _, decl := range prog.Declarations {
		if v.failed() {
			break
		}
		v.validateDecl(decl)
	}
	return v.err
}

// checkArity reports a ValidationError if name is a locally declared
// generic struct/enum and argCount does not match its declared arity.
// Host builtins (Channel, List, Map, ...) are provided by the runtime,
// not declared here, and are not arity-checked.
func (v *Validator) checkArity(name string, argCount int, loc ast.SourceLocation) bool {
	if stdlib.IsBuiltinGeneric(name) {
		return true
	}
	want, ok := v.declaredArity[name]
	if !ok || want == 0 {
		return true
	}
	if argCount != want {
		v.fail(loc, "generic type argument list", "%s takes %d type argument(s), got %d", name, want, argCount)
		return false
	}
	return true
}

func (v *Validator) failed() bool { return v.err != nil }

func (v *Validator) fail(loc ast.SourceLocation, nodeDesc, format string, args ...interface{}) {
	if v.err == nil {
		v.err = diagnostics.NewValidationError(loc.Line, loc.Column, nodeDesc, fmt.Sprintf(format, args...))
	}
}

// requireIdent records a ValidationError against loc/nodeDesc if name is
// not a valid, non-keyword identifier.
func (v *Validator) requireIdent(name string, loc ast.SourceLocation, nodeDesc string) {
	if v.failed() {
		return
	}
	if !lexer.IsValidIdentifier(name) {
		v.fail(loc, nodeDesc, "invalid %s: %q", nodeDesc, name)
	}
}

func (v *Validator) pushTypeParams(params []*ast.TypeParam) {
	for _, p := range params {
		v.currentTypeParams[p.Name]++
	}
}

func (v *Validator) popTypeParams(params []*ast.TypeParam) {
	for _, p := range params {
		v.currentTypeParams[p.Name]--
		if v.currentTypeParams[p.Name] <= 0 {
			delete(v.currentTypeParams, p.Name)
		}
	}
}

// validateType enforces the type-annotation grammar: a name (primitive,
// in-scope type parameter, or any other valid identifier) with optional
// `[]` / generic-argument / nullable decoration, optionally combined with
// `|` or `&`. Generic-argument identifiers are validated recursively;
// there is no existence check against declared struct/enum/interface
// names here — any identifier-shaped name is accepted as a type name.
func (v *Validator) validateType(t ast.TypeAnnotation) {
	if v.failed() || t == nil {
		return
	}
	switch ty := t.(type) {
	case *ast.NamedType:
		if !v.typeNameValid(ty.Name) {
			v.fail(ty.Loc, "type annotation", "invalid type name: %q", ty.Name)
		}
	case *ast.GenericType:
		if !v.typeNameValid(ty.Name) {
			v.fail(ty.Loc, "type annotation", "invalid type name: %q", ty.Name)
			return
		}
		if !v.checkArity(ty.Name, len(ty.Args), ty.Loc) {
			return
		}
		for _, arg := range ty.Args {
			v.validateType(arg)
		}
	case *ast.FunctionType:
		for _, p := range ty.Params {
			v.validateType(p)
		}
		v.validateType(ty.ReturnType)
	case *ast.TupleType:
		for _, el := range ty.Elements {
			v.validateType(el)
		}
	case *ast.UnionType:
		for _, m := range ty.Members {
			v.validateType(m)
		}
	case *ast.IntersectionType:
		for _, m := range ty.Members {
			v.validateType(m)
		}
	default:
		v.fail(t.Location(), "type annotation", "unrecognized type annotation")
	}
}

func (v *Validator) typeNameValid(name string) bool {
	if lexer.IsPrimitiveType(name) {
		return true
	}
	if _, ok := v.currentTypeParams[name]; ok {
		return true
	}
	return lexer.IsValidIdentifier(name)
}

func (v *Validator) validateParams(params []*ast.Param, nodeDesc string) {
	for _, p := range params {
		if v.failed() {
			return
		}
		v.requireIdent(p.Name, p.Loc, nodeDesc)
		v.validateType(p.Type)
	}
}

func (v *Validator) validateDecl(d ast.Declaration) {
	if v.failed() {
		return
	}
	switch decl := d.(type) {
	case *ast.StructDecl:
		v.requireIdent(decl.Name, decl.Loc, "struct name")
		for _, tp := range decl.TypeParams {
			v.requireIdent(tp.Name, tp.Loc, "type parameter name")
		}
		v.pushTypeParams(decl.TypeParams)
		for _, f := range decl.Fields {
			v.requireIdent(f.Name, f.Loc, "field name")
			v.validateType(f.Type)
		}
		for _, m := range decl.Methods {
			v.validateFn(m)
		}
		v.popTypeParams(decl.TypeParams)

	case *ast.EnumDecl:
		v.requireIdent(decl.Name, decl.Loc, "enum name")
		for _, tp := range decl.TypeParams {
			v.requireIdent(tp.Name, tp.Loc, "type parameter name")
		}
		v.pushTypeParams(decl.TypeParams)
		for _, variant := range decl.Variants {
			v.requireIdent(variant.Name, variant.Loc, "enum variant name")
			for _, f := range variant.Fields {
				v.requireIdent(f.Name, f.Loc, "variant field name")
				v.validateType(f.Type)
			}
		}
		v.popTypeParams(decl.TypeParams)

	case *ast.InterfaceDecl:
		v.requireIdent(decl.Name, decl.Loc, "interface name")
		for _, m := range decl.Methods {
			v.requireIdent(m.Name, m.Loc, "interface method name")
			v.validateParams(m.Params, "interface method parameter name")
			v.validateType(m.ReturnType)
		}

	case *ast.FnDecl:
		v.validateFn(decl)

	case *ast.ImportDecl:
		v.validateImport(decl)

	case *ast.ExportDecl:
		v.validateDecl(decl.Decl)

	case *ast.TestDecl:
		v.validateBlock(decl.Body)

	case *ast.GlobalVarDecl:
		nodeDesc := "variable name"
		if decl.Const {
			nodeDesc = "constant name"
		}
		v.requireIdent(decl.Name, decl.Loc, nodeDesc)
		v.validateType(decl.Type)
		v.validateExpr(decl.Value)

	case *ast.TypeAliasDecl:
		v.requireIdent(decl.Name, decl.Loc, "type alias name")
		v.validateType(decl.Aliased)

	case *ast.RoutineDecl:
		v.validateBlock(decl.Routine.Body)

	default:
		v.fail(d.Location(), "declaration", "unrecognized declaration")
	}
}

func (v *Validator) validateFn(fn *ast.FnDecl) {
	if v.failed() {
		return
	}
	// `new` is a reserved word, but the parser accepts it as a function
	// name; on a struct method it names the constructor.
	if fn.Name != "new" || fn.Receiver == "" {
		v.requireIdent(fn.Name, fn.Loc, "function name")
	}
	for _, tp := range fn.TypeParams {
		v.requireIdent(tp.Name, tp.Loc, "type parameter name")
	}
	v.pushTypeParams(fn.TypeParams)
	v.validateParams(fn.Params, "parameter name")
	v.validateType(fn.ReturnType)

	v.funcDepth++
	v.asyncFuncStack = append(v.asyncFuncStack, fn.IsAsync)
	v.validateBlock(fn.Body)
	v.asyncFuncStack = v.asyncFuncStack[:len(v.asyncFuncStack)-1]
	v.funcDepth--

	v.popTypeParams(fn.TypeParams)
}

func (v *Validator) validateImport(imp *ast.ImportDecl) {
	if imp.SourcePath == "" {
		v.fail(imp.Loc, "import", "import source must be a non-empty string")
		return
	}
	if len(imp.Items) == 0 {
		v.fail(imp.Loc, "import", "import items must be a non-empty list")
		return
	}
	for _, item := range imp.Items {
		if !lexer.IsValidIdentifier(item) {
			v.fail(imp.Loc, "import", "invalid import item: %q", item)
			return
		}
	}
}
