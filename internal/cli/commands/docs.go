package commands

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/sailfin-lang/sailfin/internal/cli/ui"
	"github.com/sailfin-lang/sailfin/internal/compiler/stdlib"
)

// NewDocsCommand creates the docs command: built-in reference output
// for the runtime's namespaces and lowered sequence methods.
func NewDocsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "docs [namespace]",
		Short: "Show built-in function and type reference",
		Example: `  # List every namespace
  sailfin docs

  # Show one namespace
  sailfin docs print`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDocs,
	}
}

func runDocs(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	heading := color.New(color.FgCyan, color.Bold)

	if len(args) == 0 {
		generics := ui.NewSignatureTable(out, "Built-in generic types", flagNoColor)
		for _, name := range []string{"Array", "Channel", "List", "Map", "Optional", "Result"} {
			def := stdlib.BuiltinGenerics[name]
			generics.Add(def.Name, def.Description)
		}
		generics.Render()
		fmt.Fprintln(out)

		heading.Fprintln(out, "Namespaces")
		for _, ns := range stdlib.GetNamespaces() {
			fmt.Fprintf(out, "  %-12s %d function(s)\n", ns, len(stdlib.GetFunctions(ns)))
		}
		fmt.Fprintln(out)

		methods := ui.NewSignatureTable(out, "Sequence and channel methods", flagNoColor)
		for _, fn := range stdlib.SequenceMethods {
			methods.Add(fn.Signature, fn.Description)
		}
		methods.Render()
		return nil
	}

	ns := args[0]
	funcs := stdlib.GetFunctions(ns)
	if funcs == nil {
		suggestions := ui.FindSimilar(ns, stdlib.GetNamespaces(), nil)
		msg := fmt.Sprintf("unknown namespace %q", ns)
		if len(suggestions) > 0 {
			msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(suggestions, ", "))
		}
		return fmt.Errorf("%s", msg)
	}

	table := ui.NewSignatureTable(out, ns, flagNoColor)
	for _, fn := range funcs {
		table.Add(fn.Signature, fn.Description)
	}
	table.Render()
	return nil
}
