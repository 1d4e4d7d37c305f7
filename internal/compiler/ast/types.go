package ast

// NamedType is a bare type name, primitive or user-defined, with its
// optional `?` nullability suffix.
type NamedType struct {
	Name     string
	Nullable bool
	Loc      SourceLocation
}

func (t *NamedType) Location() SourceLocation { return t.Loc }
func (t *NamedType) node()                    {}
func (t *NamedType) typeAnnotationNode()      {}

// GenericType is a type constructor applied to arguments, e.g.
// `array<User>`, `hash<string, int>`, `Channel<number>`.
type GenericType struct {
	Name     string
	Args     []TypeAnnotation
	Nullable bool
	Loc      SourceLocation
}

func (t *GenericType) Location() SourceLocation { return t.Loc }
func (t *GenericType) node()                    {}
func (t *GenericType) typeAnnotationNode()      {}

// FunctionType is a first-class function type: `(T1, T2) -> R`.
type FunctionType struct {
	Params     []TypeAnnotation
	ReturnType TypeAnnotation
	Loc        SourceLocation
}

func (t *FunctionType) Location() SourceLocation { return t.Loc }
func (t *FunctionType) node()                    {}
func (t *FunctionType) typeAnnotationNode()      {}

// TupleType is a fixed-arity heterogeneous type: `(T1, T2, T3)`.
type TupleType struct {
	Elements []TypeAnnotation
	Loc      SourceLocation
}

func (t *TupleType) Location() SourceLocation { return t.Loc }
func (t *TupleType) node()                    {}
func (t *TupleType) typeAnnotationNode()      {}

// UnionType is `T1 | T2 | ...`.
type UnionType struct {
	Members []TypeAnnotation
	Loc     SourceLocation
}

func (t *UnionType) Location() SourceLocation { return t.Loc }
func (t *UnionType) node()                    {}
func (t *UnionType) typeAnnotationNode()      {}

// IntersectionType is `T1 & T2 & ...`.
type IntersectionType struct {
	Members []TypeAnnotation
	Loc     SourceLocation
}

func (t *IntersectionType) Location() SourceLocation { return t.Loc }
func (t *IntersectionType) node()                    {}
func (t *IntersectionType) typeAnnotationNode()      {}
