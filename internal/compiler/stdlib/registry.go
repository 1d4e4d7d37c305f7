// Package stdlib is the static registry of Sailfin's built-in surface:
// the generic type constructors the runtime provides, the runtime
// namespaces (print, sailfin/io, sailfin/net), and the sequence/channel
// methods the code generator lowers specially. The registry backs
// `sailfin docs` and keeps the validator's and code generator's notion
// of "built-in" in one place instead of scattered string literals.
package stdlib

import "sort"

// FunctionDef describes one built-in function for documentation output.
type FunctionDef struct {
	Name        string // function name without its namespace
	Signature   string // full signature: name(params) -> returnType
	Description string
}

// GenericDef describes a built-in generic type constructor.
type GenericDef struct {
	Name        string
	Arity       int // number of type parameters
	Description string
}

// BuiltinGenerics lists the generic type constructors every Sailfin
// program can apply without declaring. The validator accepts a type
// application on any of these names regardless of locally declared
// arities.
var BuiltinGenerics = map[string]GenericDef{
	"List":     {Name: "List", Arity: 1, Description: "Growable ordered sequence"},
	"Array":    {Name: "Array", Arity: 1, Description: "Fixed-shape ordered sequence (the T[] suffix form)"},
	"Optional": {Name: "Optional", Arity: 1, Description: "A value of T or null (the T? suffix form)"},
	"Channel":  {Name: "Channel", Arity: 1, Description: "Bounded FIFO queue connecting routines"},
	"Map":      {Name: "Map", Arity: 2, Description: "Key-to-value dictionary"},
	"Result":   {Name: "Result", Arity: 2, Description: "Success value or error value"},
}

// IsBuiltinGeneric reports whether name is a runtime-provided generic
// type constructor.
func IsBuiltinGeneric(name string) bool {
	_, ok := BuiltinGenerics[name]
	return ok
}

// Registry holds the runtime's callable surface by namespace. The
// "print" namespace is ambient (no import); the sailfin/* namespaces
// are importable modules backed by the host runtime.
var Registry = map[string][]FunctionDef{
	"print": {
		{Name: "info", Signature: "info(value: any) -> void", Description: "Writes a value to standard output"},
		{Name: "debug", Signature: "debug(value: any) -> void", Description: "Writes a value to standard output (debug channel)"},
		{Name: "warn", Signature: "warn(value: any) -> void", Description: "Writes a value to standard output (warning channel)"},
		{Name: "error", Signature: "error(value: any) -> void", Description: "Writes a value to standard output (error channel)"},
	},
	"global": {
		{Name: "sleep", Signature: "sleep(ms: number) -> void", Description: "Suspends for the given milliseconds; awaits inside async code, blocks outside"},
		{Name: "Channel", Signature: "Channel<T>(capacity: number) -> Channel<T>", Description: "Creates a bounded channel"},
	},
	"sailfin/io": {
		{Name: "read_file", Signature: "read_file(path: string) -> string", Description: "Reads a file's entire contents"},
		{Name: "write_file", Signature: "write_file(path: string, contents: string) -> void", Description: "Writes a file, replacing its contents"},
		{Name: "read_line", Signature: "read_line() -> string", Description: "Reads one line from standard input"},
	},
	"sailfin/net": {
		{Name: "get", Signature: "get(url: string) -> string", Description: "Performs an HTTP GET and returns the body"},
		{Name: "post", Signature: "post(url: string, body: string) -> string", Description: "Performs an HTTP POST and returns the body"},
	},
}

// SequenceMethods are the methods the code generator lowers onto host
// primitives rather than dispatching dynamically.
var SequenceMethods = []FunctionDef{
	{Name: "length", Signature: "seq.length -> number", Description: "Number of elements (lowers to a host length call)"},
	{Name: "map", Signature: "seq.map(f: (T) -> U) -> U[]", Description: "Applies f to every element"},
	{Name: "filter", Signature: "seq.filter(f: (T) -> boolean) -> T[]", Description: "Keeps elements where f holds"},
	{Name: "reduce", Signature: "seq.reduce(initial: U, f: (U, T) -> U) -> U", Description: "Folds the sequence from initial"},
	{Name: "concat", Signature: "seq.concat(other: T[]) -> T[]", Description: "Concatenates two sequences"},
	{Name: "send", Signature: "channel.send(value: T) -> void", Description: "Enqueues without blocking while capacity permits"},
	{Name: "receive", Signature: "channel.receive() -> T", Description: "Dequeues, suspending until a value is available"},
}

// GetNamespaces returns the registry's namespaces, sorted for stable
// documentation output.
func GetNamespaces() []string {
	namespaces := make([]string, 0, len(Registry))
	for namespace := range Registry {
		namespaces = append(namespaces, namespace)
	}
	sort.Strings(namespaces)
	return namespaces
}

// GetFunctions returns the functions of one namespace, or nil if the
// namespace doesn't exist.
func GetFunctions(namespace string) []FunctionDef {
	return Registry[namespace]
}

// TotalFunctionCount returns the number of registered functions across
// all namespaces.
func TotalFunctionCount() int {
	total := 0
	for _, funcs := range Registry {
		total += len(funcs)
	}
	return total
}
