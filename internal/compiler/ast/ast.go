// Package ast defines the abstract syntax tree produced by the parser and
// consumed by the validator and code generator.
//
// Every syntactic category is a single Go interface with an unexported
// marker method, and every concrete construct in the language is exactly
// one node type implementing that interface — there is no parallel
// "legacy" representation for anything (a generic type application is
// always a *TypeApplication, never also reachable as a miscomparison of
// binary expressions; a routine block is always a *RoutineExpr).
package ast

// SourceLocation pins a node to the span of source text it was parsed
// from, for diagnostics and for codegen's deterministic node identity
// (see Declaration.Location/Statement.Location/Expression.Location).
type SourceLocation struct {
	Line      int
	Column    int
	EndLine   int
	EndColumn int
}

// Node is implemented by every AST node, of any syntactic category.
type Node interface {
	Location() SourceLocation
	node()
}

// Declaration is a top-level or nested declaration: struct, enum,
// interface, function, import, export, or test.
type Declaration interface {
	Node
	declarationNode()
}

// Statement is anything that can appear in a block body.
type Statement interface {
	Node
	statementNode()
}

// Expression is anything that produces a value.
type Expression interface {
	Node
	expressionNode()
}

// TypeAnnotation is a type as written in source: a name, a generic
// application, a function type, a tuple, or a union/intersection.
type TypeAnnotation interface {
	Node
	typeAnnotationNode()
}

// Pattern is the left-hand side of a match arm.
type Pattern interface {
	Node
	patternNode()
}

// Program is the root node: the fully parsed contents of one source
// file, before import resolution links it to others.
type Program struct {
	Path         string
	Declarations []Declaration
	Loc          SourceLocation
}

func (p *Program) Location() SourceLocation { return p.Loc }
func (p *Program) node()                    {}

// ---- Declarations ----

type Param struct {
	Name     string
	Type     TypeAnnotation // nil if untyped (inferred at the host runtime)
	Variadic bool
	Loc      SourceLocation
}

func (p *Param) Location() SourceLocation { return p.Loc }
func (p *Param) node()                    {}

// TypeParam is a generic parameter, e.g. the T in fn identity<T>(x: T) -> T.
type TypeParam struct {
	Name  string
	Bound TypeAnnotation // nil if unbounded
	Loc   SourceLocation
}

func (p *TypeParam) Location() SourceLocation { return p.Loc }
func (p *TypeParam) node()                    {}

// FieldDecl is a struct field.
type FieldDecl struct {
	Name string
	Type TypeAnnotation
	Loc  SourceLocation
}

func (f *FieldDecl) Location() SourceLocation { return f.Loc }
func (f *FieldDecl) node()                    {}

// StructDecl declares a struct type, optionally implementing interfaces.
type StructDecl struct {
	Name       string
	TypeParams []*TypeParam
	Fields     []*FieldDecl
	Implements []string
	Methods    []*FnDecl
	Loc        SourceLocation
}

func (d *StructDecl) Location() SourceLocation { return d.Loc }
func (d *StructDecl) node()                    {}
func (d *StructDecl) declarationNode()         {}

// EnumVariant is one case of an enum, with zero or more typed payload
// fields (a "tagged" variant) or none (a plain tag).
type EnumVariant struct {
	Name   string
	Fields []*FieldDecl
	Loc    SourceLocation
}

func (v *EnumVariant) Location() SourceLocation { return v.Loc }
func (v *EnumVariant) node()                    {}

// EnumDecl declares an enum with payload-carrying variants.
type EnumDecl struct {
	Name       string
	TypeParams []*TypeParam
	Variants   []*EnumVariant
	Loc        SourceLocation
}

func (d *EnumDecl) Location() SourceLocation { return d.Loc }
func (d *EnumDecl) node()                    {}
func (d *EnumDecl) declarationNode()         {}

// InterfaceMethod is a method signature with no body.
type InterfaceMethod struct {
	Name       string
	Params     []*Param
	ReturnType TypeAnnotation
	Loc        SourceLocation
}

func (m *InterfaceMethod) Location() SourceLocation { return m.Loc }
func (m *InterfaceMethod) node()                    {}

// InterfaceDecl declares an interface (an abstract base at codegen time).
type InterfaceDecl struct {
	Name    string
	Methods []*InterfaceMethod
	Loc     SourceLocation
}

func (d *InterfaceDecl) Location() SourceLocation { return d.Loc }
func (d *InterfaceDecl) node()                    {}
func (d *InterfaceDecl) declarationNode()         {}

// FnDecl declares a named function, which may be async and may be a
// struct method (Receiver != "").
type FnDecl struct {
	Name       string
	Receiver   string // struct name this is a method of, or "" for free functions
	TypeParams []*TypeParam
	Params     []*Param
	ReturnType TypeAnnotation // nil for inferred/void
	IsAsync    bool
	Decorators []string // bare `@name` decorators written before the declaration, in source order
	Body       *BlockStmt
	Loc        SourceLocation
}

func (d *FnDecl) Location() SourceLocation { return d.Loc }
func (d *FnDecl) node()                    {}
func (d *FnDecl) declarationNode()         {}

// ImportDecl binds names exported by another module into this one.
//
// Items is empty for a bare `import "path"` (imported only for its
// embedding/side effects); Alias is set only for `import ... as name`.
type ImportDecl struct {
	SourcePath string
	Items      []string
	Alias      string
	Loc        SourceLocation
}

func (d *ImportDecl) Location() SourceLocation { return d.Loc }
func (d *ImportDecl) node()                    {}
func (d *ImportDecl) declarationNode()         {}

// ExportDecl re-exports a wrapped declaration from this module's
// namespace object.
type ExportDecl struct {
	Decl Declaration
	Loc  SourceLocation
}

func (d *ExportDecl) Location() SourceLocation { return d.Loc }
func (d *ExportDecl) node()                    {}
func (d *ExportDecl) declarationNode()         {}

// TestDecl declares a named test block, run by the generated test runner
// entry point when a module has no main function.
type TestDecl struct {
	Name string
	Body *BlockStmt
	Loc  SourceLocation
}

func (d *TestDecl) Location() SourceLocation { return d.Loc }
func (d *TestDecl) node()                    {}
func (d *TestDecl) declarationNode()         {}

// GlobalVarDecl declares a top-level (module-scope) variable or, when
// Const is true, a module-scope constant (which always carries a
// non-nil Value; enforced by the parser, which requires an initializer
// for `const` regardless of scope).
type GlobalVarDecl struct {
	Name    string
	Mutable bool
	Const   bool
	Type    TypeAnnotation
	Value   Expression
	Loc     SourceLocation
}

func (d *GlobalVarDecl) Location() SourceLocation { return d.Loc }
func (d *GlobalVarDecl) node()                    {}
func (d *GlobalVarDecl) declarationNode()         {}

// TypeAliasDecl binds a name to an existing type: `type Id = number;`.
// The `type` introducer is contextual, not a reserved word, so a
// binding named type still lexes as a plain identifier. The alias is a
// compile-time-only binding with no runtime artifact.
type TypeAliasDecl struct {
	Name    string
	Aliased TypeAnnotation
	Loc     SourceLocation
}

func (d *TypeAliasDecl) Location() SourceLocation { return d.Loc }
func (d *TypeAliasDecl) node()                    {}
func (d *TypeAliasDecl) declarationNode()         {}

// RoutineDecl is a `routine { ... }` block written at module scope. The
// code generator registers it as a top-level routine and runs it
// concurrently at program start, rather than it being invoked by any
// call.
type RoutineDecl struct {
	Routine *RoutineExpr
	Loc     SourceLocation
}

func (d *RoutineDecl) Location() SourceLocation { return d.Loc }
func (d *RoutineDecl) node()                    {}
func (d *RoutineDecl) declarationNode()         {}
