package codegen

import (
	"fmt"
	"strings"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
)

func (g *Generator) emitDecl(d ast.Declaration) {
	if g.err != nil {
		return
	}
	switch decl := d.(type) {
	case *ast.FnDecl:
		g.emitFn(decl, false)
	case *ast.StructDecl:
		g.emitStruct(decl)
	case *ast.EnumDecl:
		g.emitEnum(decl)
	case *ast.InterfaceDecl:
		g.emitInterface(decl)
	case *ast.GlobalVarDecl:
		g.emitGlobalVar(decl)
	case *ast.TestDecl:
		g.emitTest(decl)
	case *ast.TypeAliasDecl:
		// Compile-time-only binding; the alias erases and nothing is
		// emitted.
	case *ast.RoutineDecl:
		g.emitTopLevelRoutine(decl)
	case *ast.ImportDecl:
		g.emitImport(decl)
	case *ast.ExportDecl:
		// Exports are visible by construction: the module loader binds
		// every public top-level name of an embedded module onto its
		// namespace object, so the wrapped declaration just emits.
		g.emitDecl(decl.Decl)
	default:
		g.fail(diagnostics.NewInternalError(fmt.Sprintf("codegen: unhandled declaration node %T", d)))
	}
}

// emitFn emits a function or method. Methods get self as their first
// parameter, except a `new` constructor method, which becomes a
// classmethod with a quoted forward-reference return type.
func (g *Generator) emitFn(fn *ast.FnDecl, inClass bool) {
	async := g.fnShouldBeAsync(fn)

	for _, dec := range fn.Decorators {
		g.write("@%s", dec)
	}

	isConstructor := inClass && fn.Name == "new"
	if isConstructor {
		g.write("@classmethod")
	}

	params := make([]string, 0, len(fn.Params)+1)
	if inClass {
		if isConstructor {
			params = append(params, "cls")
		} else {
			params = append(params, "self")
		}
	}
	for _, p := range fn.Params {
		param := p.Name
		if p.Type != nil && !isVoidType(p.Type) {
			param += ": " + g.pyType(p.Type)
		}
		params = append(params, param)
	}

	ret := ""
	if fn.ReturnType != nil {
		mapped := g.pyType(fn.ReturnType)
		if isConstructor {
			mapped = "'" + mapped + "'"
		}
		ret = " -> " + mapped
	}

	prefix := ""
	if async {
		prefix = "async "
	}
	g.write("%sdef %s(%s)%s:", prefix, fn.Name, joinComma(params), ret)

	g.indent++
	g.pushFunction(scanFnKey(fn), async)
	if globals := g.globalAssignments(fn.Body); len(globals) > 0 {
		g.write("global %s", joinComma(globals))
	}
	g.emitFunctionBody(fn.Body)
	g.popFunction(async)
	g.indent--
	g.blank()
}

func (g *Generator) emitStruct(decl *ast.StructDecl) {
	g.addImport("from dataclasses import dataclass")

	var bases []string
	if len(decl.TypeParams) > 0 {
		g.addImport("from typing import TypeVar, Generic")
		names := make([]string, len(decl.TypeParams))
		for i, tp := range decl.TypeParams {
			names[i] = tp.Name
		}
		bases = append(bases, "Generic["+joinComma(names)+"]")
	}
	bases = append(bases, decl.Implements...)

	g.write("@dataclass")
	if len(bases) > 0 {
		g.write("class %s(%s):", decl.Name, joinComma(bases))
	} else {
		g.write("class %s:", decl.Name)
	}

	g.indent++
	if len(decl.Fields) == 0 && len(decl.Methods) == 0 {
		g.write("pass")
	}
	for _, field := range decl.Fields {
		g.write("%s: %s", field.Name, g.pyType(field.Type))
	}
	if len(decl.Fields) > 0 && len(decl.Methods) > 0 {
		g.blank()
	}
	for _, method := range decl.Methods {
		g.emitFn(method, true)
	}
	g.indent--
	if len(decl.Methods) == 0 {
		g.blank()
	}
}

// emitEnum declares the enum as a class of variant tag constants.
// Payload-carrying construction happens at the use site as a tagged
// dict; the class exists so a payload-free `E.V` reference resolves.
func (g *Generator) emitEnum(decl *ast.EnumDecl) {
	g.write("class %s:", decl.Name)
	g.indent++
	if len(decl.Variants) == 0 {
		g.write("pass")
	}
	for _, variant := range decl.Variants {
		if len(variant.Fields) == 0 {
			g.write("%s = {\"type\": %s}", variant.Name, pyStringQuote(variant.Name))
		} else {
			g.write("%s = %s", variant.Name, pyStringQuote(variant.Name))
		}
	}
	g.indent--
	g.blank()
}

func (g *Generator) emitInterface(decl *ast.InterfaceDecl) {
	g.addImport("from abc import ABC, abstractmethod")
	g.write("class %s(ABC):", decl.Name)
	g.indent++
	if len(decl.Methods) == 0 {
		g.write("pass")
	}
	for _, method := range decl.Methods {
		params := []string{"self"}
		for _, p := range method.Params {
			param := p.Name
			if p.Type != nil && !isVoidType(p.Type) {
				param += ": " + g.pyType(p.Type)
			}
			params = append(params, param)
		}
		ret := ""
		if method.ReturnType != nil && !isVoidType(method.ReturnType) {
			ret = " -> " + g.pyType(method.ReturnType)
		}
		g.write("@abstractmethod")
		g.write("def %s(%s)%s:", method.Name, joinComma(params), ret)
		g.indent++
		g.write("pass")
		g.indent--
	}
	g.indent--
	g.blank()
}

func (g *Generator) emitGlobalVar(decl *ast.GlobalVarDecl) {
	if decl.Value != nil && exprIsChannelConstruction(decl.Value) {
		g.channelVars[decl.Name] = true
	}
	value := "None"
	if decl.Value != nil {
		value = g.emitExpr(decl.Value)
	}
	if decl.Type != nil {
		g.write("%s: %s = %s", decl.Name, g.pyType(decl.Type), value)
		return
	}
	g.write("%s = %s", decl.Name, value)
}

type testCase struct {
	funcName    string
	description string
}

func (g *Generator) emitTest(decl *ast.TestDecl) {
	name := g.uniqueName("test")
	g.tests = append(g.tests, testCase{funcName: name, description: decl.Name})

	g.write("def %s():", name)
	g.indent++
	g.pushFunction(name, false)
	g.emitFunctionBody(decl.Body)
	g.popFunction(false)
	g.indent--
	g.blank()
}

// emitTopLevelRoutine turns a module-scope routine block into an async
// def registered for concurrent execution at program entry.
func (g *Generator) emitTopLevelRoutine(decl *ast.RoutineDecl) {
	g.addImport("import asyncio")
	name := decl.Routine.Name
	if name == "" {
		name = g.uniqueName("toplevel_routine")
	}
	g.topLevelRoutines = append(g.topLevelRoutines, name)

	g.write("async def %s():", name)
	g.indent++
	g.asyncDepth++
	g.pushFunction(name, false)
	g.emitFunctionBody(decl.Routine.Body)
	g.popFunction(false)
	g.asyncDepth--
	g.indent--
	g.blank()
}

// emitImport binds another module's exports into this one. Built-in
// sailfin/* modules import from the runtime package; everything else is
// compiled recursively by the session and embedded so the emitted
// program stands alone.
func (g *Generator) emitImport(decl *ast.ImportDecl) {
	if strings.HasPrefix(decl.SourcePath, "sailfin/") {
		pyModule := strings.ReplaceAll(decl.SourcePath, "/", ".")
		if decl.Alias != "" {
			g.write("import %s as %s", pyModule, decl.Alias)
			return
		}
		if len(decl.Items) > 0 {
			g.write("from %s import %s", pyModule, joinComma(decl.Items))
			return
		}
		g.write("import %s", pyModule)
		return
	}

	if g.loader == nil {
		g.fail(diagnostics.NewImportError(g.currentFile, decl.SourcePath, nil))
		return
	}

	mod, diag := g.loader.loadModule(decl.SourcePath, g.currentFile)
	if diag != nil {
		if diag.Line == 0 {
			diag.Line = decl.Loc.Line
			diag.Column = decl.Loc.Column
		}
		g.fail(diag)
		return
	}

	ns := g.namespaceFor(decl, mod)
	if g.embeddedNS[mod.Path] == "" {
		g.emitEmbeddedModule(ns, mod)
		g.embeddedNS[mod.Path] = ns
	} else {
		ns = g.embeddedNS[mod.Path]
	}

	for _, item := range decl.Items {
		g.write("%s = %s.%s", item, ns, item)
	}
}

// namespaceFor picks the namespace-object name an embedded module binds
// to: the alias if one was written, otherwise the module's file stem.
func (g *Generator) namespaceFor(decl *ast.ImportDecl, mod *compiledModule) string {
	if decl.Alias != "" {
		return decl.Alias
	}
	return moduleStem(mod.Path)
}

// emitEmbeddedModule writes the base64-embedded compiled source of a
// dependency and executes it into an isolated scope, then exposes its
// public names as attributes of a namespace object.
func (g *Generator) emitEmbeddedModule(ns string, mod *compiledModule) {
	g.addImport("import base64 as _base64")
	encoded := mod.Encoded()

	g.write("_code_%s = _base64.b64decode(%s).decode(\"utf-8\")", ns, pyStringQuote(encoded))
	g.write("_scope_%s = {}", ns)
	g.write("exec(compile(_code_%s, \"<module %s>\", \"exec\"), _scope_%s)", ns, ns, ns)
	g.write("class _module_%s:", ns)
	g.indent++
	g.write("pass")
	g.indent--
	g.write("%s = _module_%s()", ns, ns)
	g.write("for _k, _v in _scope_%s.items():", ns)
	g.indent++
	g.write("if not _k.startswith(\"_\"):")
	g.indent++
	g.write("setattr(%s, _k, _v)", ns)
	g.indent--
	g.indent--
}
