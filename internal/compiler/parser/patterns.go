package parser

import (
	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/lexer"
)

// parsePattern parses a full match-arm pattern, including `|`-joined
// alternatives.
func (p *Parser) parsePattern() ast.Pattern {
	first := p.parsePatternPrimary()
	if !p.check(lexer.TokenPipe) {
		return first
	}
	alts := []ast.Pattern{first}
	for p.match(lexer.TokenPipe) {
		alts = append(alts, p.parsePatternPrimary())
	}
	return &ast.OrPattern{Alternatives: alts, Loc: first.Location()}
}

func (p *Parser) parsePatternPrimary() ast.Pattern {
	switch {
	case p.check(lexer.TokenUnderscore):
		tok := p.advance()
		return &ast.WildcardPattern{Loc: p.locFrom(tok)}

	case p.check(lexer.TokenNumber), p.check(lexer.TokenString),
		p.check(lexer.TokenTrue), p.check(lexer.TokenFalse), p.check(lexer.TokenNull):
		tok := p.advance()
		return &ast.LiteralPattern{Value: literalPatternValue(tok), Loc: p.locFrom(tok)}

	case p.check(lexer.TokenLeftParen):
		start := p.advance()
		var elems []ast.Pattern
		if !p.check(lexer.TokenRightParen) {
			for {
				elems = append(elems, p.parsePattern())
				if !p.match(lexer.TokenComma) {
					break
				}
			}
		}
		p.consume(lexer.TokenRightParen, "')' to close a tuple pattern")
		return &ast.TuplePattern{Elements: elems, Loc: p.locFrom(start)}

	case p.check(lexer.TokenIdentifier):
		nameTok := p.advance()
		if p.match(lexer.TokenDot) {
			variantTok := p.consume(lexer.TokenIdentifier, "a variant name after '.'")
			pat := &ast.TaggedPattern{EnumName: nameTok.Lexeme, VariantName: variantTok.Lexeme, Loc: p.locFrom(nameTok)}
			if p.match(lexer.TokenLeftBrace) {
				for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
					fieldTok := p.consume(lexer.TokenIdentifier, "a field name")
					field := ast.FieldPattern{Name: fieldTok.Lexeme, Loc: p.locFrom(fieldTok)}
					if p.match(lexer.TokenColon) {
						field.Sub = p.parsePattern()
					}
					pat.Fields = append(pat.Fields, field)
					if !p.match(lexer.TokenComma) {
						break
					}
				}
				p.consume(lexer.TokenRightBrace, "'}' to close a tagged pattern")
			}
			return pat
		}
		return &ast.BindingPattern{Name: nameTok.Lexeme, Loc: p.locFrom(nameTok)}

	default:
		tok := p.peek()
		p.errorAt(tok, "a pattern")
		if !p.atEnd() {
			p.advance()
		}
		return &ast.WildcardPattern{Loc: p.locFrom(tok)}
	}
}

func literalPatternValue(tok lexer.Token) interface{} {
	switch tok.Type {
	case lexer.TokenTrue:
		return true
	case lexer.TokenFalse:
		return false
	case lexer.TokenNull:
		return nil
	case lexer.TokenNumber:
		return numberLiteralValue(tok.Lexeme)
	default:
		return tok.Literal
	}
}
