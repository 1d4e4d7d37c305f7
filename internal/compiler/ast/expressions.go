package ast

// LiteralExpr is a literal scalar: number, plain string, bool, or nil.
type LiteralExpr struct {
	Value interface{} // string, int64, float64, bool, or nil
	Loc   SourceLocation
}

func (e *LiteralExpr) Location() SourceLocation { return e.Loc }
func (e *LiteralExpr) node()                    {}
func (e *LiteralExpr) expressionNode()          {}

// InterpolationPart is one piece of an interpolated string: either a
// literal Text run or a Splice expression to format and substitute.
type InterpolationPart struct {
	Text   string
	Splice Expression // nil if this part is a literal Text run
}

// InterpolatedStringExpr is a `"...{{expr}}..."` string literal. Each
// splice lowers to the safe-member-access-or-dict-index pattern
// (`obj['member'] if isinstance(obj, dict) else obj.member`) when the splice is a
// bare member access, so interpolation works uniformly whether the host
// value is a dict-shaped or attribute-shaped object.
type InterpolatedStringExpr struct {
	Parts []InterpolationPart
	Loc   SourceLocation
}

func (e *InterpolatedStringExpr) Location() SourceLocation { return e.Loc }
func (e *InterpolatedStringExpr) node()                    {}
func (e *InterpolatedStringExpr) expressionNode()          {}

// AssignExpr assigns Value to an existing binding, field, or index
// target. Assignment is an expression (right-associative, the loosest
// binding level, so `a = b = c` nests as `a = (b = c)`) that most often
// appears in statement position wrapped in an ExprStmt.
type AssignExpr struct {
	Target   Expression
	Operator string // "=", "+=", "-=", "*=", "/="
	Value    Expression
	Loc      SourceLocation
}

func (e *AssignExpr) Location() SourceLocation { return e.Loc }
func (e *AssignExpr) node()                    {}
func (e *AssignExpr) expressionNode()          {}

// IdentifierExpr references a binding, function, struct, or enum by name.
type IdentifierExpr struct {
	Name string
	Loc  SourceLocation
}

func (e *IdentifierExpr) Location() SourceLocation { return e.Loc }
func (e *IdentifierExpr) node()                    {}
func (e *IdentifierExpr) expressionNode()          {}

// BinaryExpr is a two-operand operator expression. Operator is the
// lexeme: "+", "-", "*", "/", "==", "!=", "<", "<=", ">", ">=", "&&",
// "||". The lexer also produces "%", "^" and "??" tokens, but the parser
// builds no BinaryExpr from them.
type BinaryExpr struct {
	Left     Expression
	Operator string
	Right    Expression
	Loc      SourceLocation
}

func (e *BinaryExpr) Location() SourceLocation { return e.Loc }
func (e *BinaryExpr) node()                    {}
func (e *BinaryExpr) expressionNode()          {}

// UnaryExpr is a prefix operator expression: "-" or "!".
type UnaryExpr struct {
	Operator string
	Operand  Expression
	Loc      SourceLocation
}

func (e *UnaryExpr) Location() SourceLocation { return e.Loc }
func (e *UnaryExpr) node()                    {}
func (e *UnaryExpr) expressionNode()          {}

// CallExpr invokes Callee with Args. Callee is frequently a MemberExpr
// (for namespaced stdlib calls like `arr.map(...)` and method calls).
type CallExpr struct {
	Callee Expression
	Args   []Expression
	Loc    SourceLocation
}

func (e *CallExpr) Location() SourceLocation { return e.Loc }
func (e *CallExpr) node()                    {}
func (e *CallExpr) expressionNode()          {}

// MemberExpr is `Object.Property` field/method access.
type MemberExpr struct {
	Object   Expression
	Property string
	Loc      SourceLocation
}

func (e *MemberExpr) Location() SourceLocation { return e.Loc }
func (e *MemberExpr) node()                    {}
func (e *MemberExpr) expressionNode()          {}

// IndexExpr is `Object[Index]` subscript access.
type IndexExpr struct {
	Object Expression
	Index  Expression
	Loc    SourceLocation
}

func (e *IndexExpr) Location() SourceLocation { return e.Loc }
func (e *IndexExpr) node()                    {}
func (e *IndexExpr) expressionNode()          {}

// RangeExpr is `Start..End` (exclusive of End), used as a for-loop
// iterable or as a first-class value.
type RangeExpr struct {
	Start Expression
	End   Expression
	Loc   SourceLocation
}

func (e *RangeExpr) Location() SourceLocation { return e.Loc }
func (e *RangeExpr) node()                    {}
func (e *RangeExpr) expressionNode()          {}

// FieldInit is one `name: value` pair inside a struct or enum-variant
// literal.
type FieldInit struct {
	Name  string
	Value Expression
	Loc   SourceLocation
}

// StructLiteralExpr constructs a struct instance: `Name { field: value, ... }`.
type StructLiteralExpr struct {
	TypeName string
	Fields   []FieldInit
	Loc      SourceLocation
}

func (e *StructLiteralExpr) Location() SourceLocation { return e.Loc }
func (e *StructLiteralExpr) node()                    {}
func (e *StructLiteralExpr) expressionNode()          {}

// EnumConstructExpr constructs a tagged enum value:
// `EnumName.Variant { field: value, ... }` or `EnumName.Variant` for a
// payload-free variant.
type EnumConstructExpr struct {
	EnumName    string
	VariantName string
	Fields      []FieldInit
	Loc         SourceLocation
}

func (e *EnumConstructExpr) Location() SourceLocation { return e.Loc }
func (e *EnumConstructExpr) node()                    {}
func (e *EnumConstructExpr) expressionNode()          {}

// ArrayLiteralExpr is `[e1, e2, ...]`.
type ArrayLiteralExpr struct {
	Elements []Expression
	Loc      SourceLocation
}

func (e *ArrayLiteralExpr) Location() SourceLocation { return e.Loc }
func (e *ArrayLiteralExpr) node()                    {}
func (e *ArrayLiteralExpr) expressionNode()          {}

// HashEntry is one `key: value` pair inside a hash literal.
type HashEntry struct {
	Key   Expression
	Value Expression
}

// HashLiteralExpr is `{k1: v1, k2: v2}`.
type HashLiteralExpr struct {
	Entries []HashEntry
	Loc     SourceLocation
}

func (e *HashLiteralExpr) Location() SourceLocation { return e.Loc }
func (e *HashLiteralExpr) node()                    {}
func (e *HashLiteralExpr) expressionNode()          {}

// LambdaExpr is an anonymous function: `(params) -> expr` or
// `(params) -> { ... }`. Exactly one of Body/BlockBody is set.
type LambdaExpr struct {
	Params     []*Param
	ReturnType TypeAnnotation // nil if unannotated
	Body       Expression
	BlockBody  *BlockStmt
	Loc        SourceLocation
}

func (e *LambdaExpr) Location() SourceLocation { return e.Loc }
func (e *LambdaExpr) node()                    {}
func (e *LambdaExpr) expressionNode()          {}

// MatchExpr is match used in value-producing position; every arm body is
// an expression (after lowering `{ stmt; stmt; expr }` block bodies to
// their trailing expression). Exhaustiveness is required the same way as
// MatchStmt.
type MatchExpr struct {
	Scrutinee Expression
	Arms      []*MatchArm
	Loc       SourceLocation
}

func (e *MatchExpr) Location() SourceLocation { return e.Loc }
func (e *MatchExpr) node()                    {}
func (e *MatchExpr) expressionNode()          {}

// IsExpr is a runtime type-shape test: `value is Type`.
type IsExpr struct {
	Value    Expression
	TypeName string
	Loc      SourceLocation
}

func (e *IsExpr) Location() SourceLocation { return e.Loc }
func (e *IsExpr) node()                    {}
func (e *IsExpr) expressionNode()          {}

// TypeApplication is a generic instantiation used as a value-producing
// expression, e.g. `Channel<number>(10)`'s callee, or a bare
// `identity<string>` reference. The parser produces this node only via
// its bounded try-parse (see parser.tryParseTypeApplication); there is
// no codegen-side fallback path for a generic application that fails to
// parse as one — ambiguity against a less-than/greater-than comparison
// chain is resolved entirely during parsing.
type TypeApplication struct {
	Base Expression
	Args []TypeAnnotation

	// Called and Arguments record a value-argument list immediately
	// following the type arguments, e.g. `Channel<number>(10)`: Called is
	// true and Arguments holds the parsed `(10)`. A bare generic
	// reference with no call, e.g. `identity<string>`, has Called false
	// and a nil Arguments.
	Called    bool
	Arguments []Expression

	Loc SourceLocation
}

func (e *TypeApplication) Location() SourceLocation { return e.Loc }
func (e *TypeApplication) node()                     {}
func (e *TypeApplication) expressionNode()           {}

// RoutineExpr is a `routine { ... }` block. Lowering depends on its
// lexical position (top-level, inside an async function, or inside a
// sync function); see codegen's two-pass design. A RoutineExpr directly
// inside a non-async function declaration is rejected by the validator
// (see the routine-in-sync-function decision in DESIGN.md) before
// codegen ever sees it, so codegen may assume every surviving
// RoutineExpr is either top-level or inside an async function.
type RoutineExpr struct {
	Name string // "" for an anonymous routine block
	Body *BlockStmt
	Loc  SourceLocation
}

func (e *RoutineExpr) Location() SourceLocation { return e.Loc }
func (e *RoutineExpr) node()                    {}
func (e *RoutineExpr) expressionNode()          {}

// AsyncBlockExpr is an inline `async { ... }` block used as an
// expression, producing an awaitable.
type AsyncBlockExpr struct {
	Body *BlockStmt
	Loc  SourceLocation
}

func (e *AsyncBlockExpr) Location() SourceLocation { return e.Loc }
func (e *AsyncBlockExpr) node()                    {}
func (e *AsyncBlockExpr) expressionNode()          {}

// AwaitExpr suspends until Value resolves. Valid only inside an async
// function or async block; the code generator enforces this rather than
// the validator — unlike the routine-in-sync-function case, there is
// always a defined, if nonsensical, lowering available, so the check
// lives where the lowering decision is made.
type AwaitExpr struct {
	Value Expression
	Loc   SourceLocation
}

func (e *AwaitExpr) Location() SourceLocation { return e.Loc }
func (e *AwaitExpr) node()                    {}
func (e *AwaitExpr) expressionNode()          {}

// ParallelExpr evaluates every element concurrently and produces their
// results in the same order once all have completed.
type ParallelExpr struct {
	Elements []Expression
	Loc      SourceLocation
}

func (e *ParallelExpr) Location() SourceLocation { return e.Loc }
func (e *ParallelExpr) node()                    {}
func (e *ParallelExpr) expressionNode()          {}
