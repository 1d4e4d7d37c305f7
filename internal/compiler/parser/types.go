package parser

import (
	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/lexer"
)

// parseTypeAnnotation parses the full type grammar: a named or generic
// base, optional `[]` array suffixes, an optional `?` nullability
// suffix, and optional `|`/`&` combination with further types.
//
// A parenthesized type is either a function type `(T1, T2) -> R` or a
// tuple type `(T1, T2, T3)`; a single-element parenthesized type is
// grouping and unwraps to that element.
func (p *Parser) parseTypeAnnotation() ast.TypeAnnotation {
	base := p.parseTypeUnary()

	if p.check(lexer.TokenPipe) {
		members := []ast.TypeAnnotation{base}
		for p.match(lexer.TokenPipe) {
			members = append(members, p.parseTypeUnary())
		}
		return &ast.UnionType{Members: members, Loc: base.Location()}
	}
	if p.check(lexer.TokenAmp) {
		members := []ast.TypeAnnotation{base}
		for p.match(lexer.TokenAmp) {
			members = append(members, p.parseTypeUnary())
		}
		return &ast.IntersectionType{Members: members, Loc: base.Location()}
	}
	return base
}

// parseTypeUnary parses one type term with its `[]` and `?` suffixes,
// without combining into a union/intersection.
func (p *Parser) parseTypeUnary() ast.TypeAnnotation {
	t := p.parseTypePrimary()

	for p.check(lexer.TokenLeftBracket) && p.peekAt(1).Type == lexer.TokenRightBracket {
		p.advance()
		p.advance()
		t = &ast.GenericType{Name: "Array", Args: []ast.TypeAnnotation{t}, Loc: t.Location()}
	}

	if p.match(lexer.TokenQuestion) {
		switch v := t.(type) {
		case *ast.NamedType:
			v.Nullable = true
		case *ast.GenericType:
			v.Nullable = true
		}
	}
	return t
}

func (p *Parser) parseTypePrimary() ast.TypeAnnotation {
	if p.check(lexer.TokenLeftParen) {
		return p.parseParenType()
	}
	nameTok := p.consume(lexer.TokenIdentifier, "a type name")
	loc := p.locFrom(nameTok)
	if p.match(lexer.TokenLess) {
		var args []ast.TypeAnnotation
		for {
			args = append(args, p.parseTypeAnnotation())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.consume(lexer.TokenGreater, "'>' to close a generic type's arguments")
		return &ast.GenericType{Name: nameTok.Lexeme, Args: args, Loc: loc}
	}
	return &ast.NamedType{Name: nameTok.Lexeme, Loc: loc}
}

func (p *Parser) parseParenType() ast.TypeAnnotation {
	start := p.advance() // '('
	var elements []ast.TypeAnnotation
	if !p.check(lexer.TokenRightParen) {
		for {
			elements = append(elements, p.parseTypeAnnotation())
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "')' to close a parenthesized type")

	if p.match(lexer.TokenArrow) {
		ret := p.parseTypeAnnotation()
		return &ast.FunctionType{Params: elements, ReturnType: ret, Loc: p.locFrom(start)}
	}
	if len(elements) == 1 {
		return elements[0]
	}
	return &ast.TupleType{Elements: elements, Loc: p.locFrom(start)}
}
