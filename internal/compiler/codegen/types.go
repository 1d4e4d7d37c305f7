package codegen

import (
	"strings"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
)

var primitiveTypeMap = map[string]string{
	"number":  "float",
	"int":     "int",
	"float":   "float",
	"string":  "str",
	"boolean": "bool",
	"bool":    "bool",
	"void":    "None",
	"any":     "Any",
}

// pyType renders a Sailfin type annotation as a Python annotation
// string, registering whatever typing imports the rendering needs.
func (g *Generator) pyType(t ast.TypeAnnotation) string {
	if t == nil {
		return ""
	}
	switch tt := t.(type) {
	case *ast.NamedType:
		name := g.pyTypeName(tt.Name)
		if tt.Nullable {
			g.addImport("from typing import Optional")
			return "Optional[" + name + "]"
		}
		return name
	case *ast.GenericType:
		if tt.Name == "Channel" {
			g.addImport("import asyncio")
			return "asyncio.Queue"
		}
		base := g.pyTypeName(tt.Name)
		if tt.Name == "array" || tt.Name == "Array" || tt.Name == "List" {
			g.addImport("from typing import List")
			base = "List"
		}
		if tt.Name == "hash" || tt.Name == "Map" {
			g.addImport("from typing import Dict")
			base = "Dict"
		}
		if tt.Name == "Optional" {
			g.addImport("from typing import Optional")
			base = "Optional"
		}
		args := make([]string, len(tt.Args))
		for i, a := range tt.Args {
			args[i] = g.pyType(a)
		}
		out := base + "[" + strings.Join(args, ", ") + "]"
		if tt.Nullable {
			g.addImport("from typing import Optional")
			return "Optional[" + out + "]"
		}
		return out
	case *ast.FunctionType:
		g.addImport("from typing import Callable")
		params := make([]string, len(tt.Params))
		for i, pt := range tt.Params {
			params[i] = g.pyType(pt)
		}
		ret := "None"
		if tt.ReturnType != nil {
			ret = g.pyType(tt.ReturnType)
		}
		return "Callable[[" + strings.Join(params, ", ") + "], " + ret + "]"
	case *ast.TupleType:
		g.addImport("from typing import Tuple")
		els := make([]string, len(tt.Elements))
		for i, el := range tt.Elements {
			els[i] = g.pyType(el)
		}
		return "Tuple[" + strings.Join(els, ", ") + "]"
	case *ast.UnionType:
		g.addImport("from typing import Union")
		members := make([]string, len(tt.Members))
		for i, m := range tt.Members {
			members[i] = g.pyType(m)
		}
		return "Union[" + strings.Join(members, ", ") + "]"
	case *ast.IntersectionType:
		// Python has no intersection types; Any is the closest runtime-
		// neutral annotation.
		g.addImport("from typing import Any")
		return "Any"
	default:
		return "Any"
	}
}

func (g *Generator) pyTypeName(name string) string {
	if mapped, ok := primitiveTypeMap[name]; ok {
		if mapped == "Any" {
			g.addImport("from typing import Any")
		}
		return mapped
	}
	if g.scan != nil && g.scan.typeVars[name] {
		g.addImport("from typing import TypeVar")
	}
	return name
}

// isVoidType reports whether t annotates the absence of a value, which
// is rendered `-> None` and never quoted as a forward reference.
func isVoidType(t ast.TypeAnnotation) bool {
	named, ok := t.(*ast.NamedType)
	return ok && named.Name == "void"
}
