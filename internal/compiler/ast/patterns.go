package ast

// WildcardPattern matches anything and binds nothing: `_`.
type WildcardPattern struct {
	Loc SourceLocation
}

func (p *WildcardPattern) Location() SourceLocation { return p.Loc }
func (p *WildcardPattern) node()                    {}
func (p *WildcardPattern) patternNode()             {}

// BindingPattern matches anything and binds it to Name.
type BindingPattern struct {
	Name string
	Loc  SourceLocation
}

func (p *BindingPattern) Location() SourceLocation { return p.Loc }
func (p *BindingPattern) node()                    {}
func (p *BindingPattern) patternNode()             {}

// LiteralPattern matches a scalar literal exactly.
type LiteralPattern struct {
	Value interface{}
	Loc   SourceLocation
}

func (p *LiteralPattern) Location() SourceLocation { return p.Loc }
func (p *LiteralPattern) node()                    {}
func (p *LiteralPattern) patternNode()             {}

// FieldPattern is one `name: subpattern` binding inside a tagged pattern.
// When Sub is nil, the field is bound directly to a variable named Name
// (the `Name` shorthand for `Name: Name`).
type FieldPattern struct {
	Name string
	Sub  Pattern
	Loc  SourceLocation
}

// TaggedPattern matches a specific enum variant and destructures its
// payload fields: `EnumName.Variant { field: pattern, ... }`. Name
// validity of the type, variant, and fields is the validator's job,
// not a codegen or runtime concern.
type TaggedPattern struct {
	EnumName    string
	VariantName string
	Fields      []FieldPattern
	Loc         SourceLocation
}

func (p *TaggedPattern) Location() SourceLocation { return p.Loc }
func (p *TaggedPattern) node()                    {}
func (p *TaggedPattern) patternNode()             {}

// TuplePattern destructures a tuple value element-wise.
type TuplePattern struct {
	Elements []Pattern
	Loc      SourceLocation
}

func (p *TuplePattern) Location() SourceLocation { return p.Loc }
func (p *TuplePattern) node()                    {}
func (p *TuplePattern) patternNode()             {}

// OrPattern matches if any of its alternatives match: `pat1 | pat2`.
type OrPattern struct {
	Alternatives []Pattern
	Loc          SourceLocation
}

func (p *OrPattern) Location() SourceLocation { return p.Loc }
func (p *OrPattern) node()                    {}
func (p *OrPattern) patternNode()             {}
