package codegen

import (
	"strings"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
)

// emitEntryPoint writes the `if __name__ == "__main__":` block that
// drives the program:
//
//   - test declarations run first, each reported pass/fail, and a
//     test-only module exits nonzero if any failed;
//   - an async main (declared async, or made async by containing
//     routines) runs on the event loop, gathered with any top-level
//     routines;
//   - a sync main runs after all top-level routines have completed
//     concurrently;
//   - a module with none of these gets no entry block at all.
func (g *Generator) emitEntryPoint(prog *ast.Program) {
	hasMain := g.scan.hasMain
	mainAsync := g.scan.mainIsAsync || g.scan.functionsWithRoutines["main"]
	hasRoutines := len(g.topLevelRoutines) > 0

	if len(g.tests) == 0 && !hasMain && !hasRoutines {
		return
	}

	g.blank()
	g.write("if __name__ == \"__main__\":")
	g.indent++

	if len(g.tests) > 0 {
		g.addImport("import sys")
		g.write("_failed = 0")
		for _, test := range g.tests {
			desc := pyStringQuote(test.description)
			g.write("try:")
			g.indent++
			g.write("%s()", test.funcName)
			g.write("print(\"PASS: \" + %s)", desc)
			g.indent--
			g.write("except AssertionError as _e:")
			g.indent++
			g.write("_failed += 1")
			g.write("print(\"FAIL: \" + %s + \": \" + str(_e))", desc)
			g.indent--
			g.write("except Exception as _e:")
			g.indent++
			g.write("_failed += 1")
			g.write("print(\"ERROR: \" + %s + \": \" + str(_e))", desc)
			g.indent--
		}
		if !hasMain && !hasRoutines {
			g.write("sys.exit(1 if _failed else 0)")
			g.indent--
			return
		}
		g.write("if _failed:")
		g.indent++
		g.write("sys.exit(1)")
		g.indent--
	}

	routineCalls := make([]string, len(g.topLevelRoutines))
	for i, name := range g.topLevelRoutines {
		routineCalls[i] = name + "()"
	}

	switch {
	case hasMain && mainAsync:
		g.addImport("import asyncio")
		if hasRoutines {
			g.write("async def _run_all():")
			g.indent++
			g.write("await asyncio.gather(%s)", strings.Join(append(routineCalls, "main()"), ", "))
			g.indent--
			g.write("asyncio.run(_run_all())")
		} else {
			g.write("asyncio.run(main())")
		}
	case hasMain:
		if hasRoutines {
			g.addImport("import asyncio")
			g.write("async def _run_routines():")
			g.indent++
			g.write("await asyncio.gather(%s)", strings.Join(routineCalls, ", "))
			g.indent--
			g.write("asyncio.run(_run_routines())")
		}
		g.write("main()")
	case hasRoutines:
		g.addImport("import asyncio")
		g.write("async def _run_routines():")
		g.indent++
		g.write("await asyncio.gather(%s)", strings.Join(routineCalls, ", "))
		g.indent--
		g.write("asyncio.run(_run_routines())")
	}

	g.indent--
}
