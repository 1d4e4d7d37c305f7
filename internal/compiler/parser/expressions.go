package parser

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/lexer"
)

// Expression grammar, tightest binding last:
//
//  1. assignment             = += -= *= /=   (right-associative)
//  2. logical or             ||
//  3. logical and             &&
//  4. equality                == !=
//  5. type check              is
//  6. comparison               < <= > >=
//  7. additive (with range)     + - ..
//  8. multiplicative              * /
//  9. unary                        ! - await
// 10. postfix                        . [] () {}
// 11. primary

func (p *Parser) parseExpression() ast.Expression {
	return p.parseAssignment()
}

// parseAssignment is the loosest level: right-associative, so
// `a = b = c` parses as `a = (b = c)`.
func (p *Parser) parseAssignment() ast.Expression {
	target := p.parseLogicalOr()
	if p.match(lexer.TokenEqual, lexer.TokenPlusEqual, lexer.TokenMinusEqual,
		lexer.TokenStarEqual, lexer.TokenSlashEqual) {
		op := p.previous()
		value := p.parseAssignment()
		return &ast.AssignExpr{Target: target, Operator: op.Lexeme, Value: value, Loc: target.Location()}
	}
	return target
}

func (p *Parser) parseLogicalOr() ast.Expression {
	left := p.parseLogicalAnd()
	for p.match(lexer.TokenOrOr) {
		op := p.previous()
		right := p.parseLogicalAnd()
		left = &ast.BinaryExpr{Left: left, Operator: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expression {
	left := p.parseEquality()
	for p.match(lexer.TokenAndAnd) {
		op := p.previous()
		right := p.parseEquality()
		left = &ast.BinaryExpr{Left: left, Operator: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseIsCheck()
	for p.match(lexer.TokenEqualEqual, lexer.TokenBangEqual) {
		op := p.previous()
		right := p.parseIsCheck()
		left = &ast.BinaryExpr{Left: left, Operator: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseIsCheck() ast.Expression {
	left := p.parseComparison()
	for p.match(lexer.TokenIs) {
		typeTok := p.consume(lexer.TokenIdentifier, "a type name after 'is'")
		left = &ast.IsExpr{Value: left, TypeName: typeTok.Lexeme, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseRange()
	for p.match(lexer.TokenLess, lexer.TokenLessEqual, lexer.TokenGreater, lexer.TokenGreaterEqual) {
		op := p.previous()
		right := p.parseRange()
		left = &ast.BinaryExpr{Left: left, Operator: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

// parseRange handles `start..end`. The lexer has no dedicated range
// token, so two adjacent '.' tokens are recognized here.
func (p *Parser) parseRange() ast.Expression {
	left := p.parseAdditive()
	if p.check(lexer.TokenDot) && p.peekAt(1).Type == lexer.TokenDot {
		p.advance()
		p.advance()
		right := p.parseAdditive()
		return &ast.RangeExpr{Start: left, End: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expression {
	left := p.parseMultiplicative()
	for p.match(lexer.TokenPlus, lexer.TokenMinus) {
		op := p.previous()
		right := p.parseMultiplicative()
		left = &ast.BinaryExpr{Left: left, Operator: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expression {
	left := p.parseUnary()
	for p.match(lexer.TokenStar, lexer.TokenSlash) {
		op := p.previous()
		right := p.parseUnary()
		left = &ast.BinaryExpr{Left: left, Operator: op.Lexeme, Right: right, Loc: left.Location()}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.match(lexer.TokenBang, lexer.TokenMinus) {
		op := p.previous()
		operand := p.parseUnary()
		return &ast.UnaryExpr{Operator: op.Lexeme, Operand: operand, Loc: p.locFrom(op)}
	}
	if p.match(lexer.TokenAwait) {
		op := p.previous()
		value := p.parseUnary()
		return &ast.AwaitExpr{Value: value, Loc: p.locFrom(op)}
	}
	return p.parsePostfix()
}

func (p *Parser) parsePostfix() ast.Expression {
	expr := p.parsePrimary()

	for {
		switch {
		case p.check(lexer.TokenDot):
			p.advance()
			nameTok := p.consume(lexer.TokenIdentifier, "a member name after '.'")
			if ident, ok := expr.(*ast.IdentifierExpr); ok && isExportedName(ident.Name) && isExportedName(nameTok.Lexeme) {
				if p.looksLikeFieldInitStart() {
					fields := p.parseFieldInits()
					expr = &ast.EnumConstructExpr{EnumName: ident.Name, VariantName: nameTok.Lexeme, Fields: fields, Loc: ident.Loc}
					continue
				}
				if !p.check(lexer.TokenDot) && !p.check(lexer.TokenLeftParen) {
					expr = &ast.EnumConstructExpr{EnumName: ident.Name, VariantName: nameTok.Lexeme, Loc: ident.Loc}
					continue
				}
			}
			expr = &ast.MemberExpr{Object: expr, Property: nameTok.Lexeme, Loc: expr.Location()}

		case p.check(lexer.TokenLeftBracket):
			p.advance()
			index := p.parseExpression()
			p.consume(lexer.TokenRightBracket, "']' after an index expression")
			expr = &ast.IndexExpr{Object: expr, Index: index, Loc: expr.Location()}

		case p.check(lexer.TokenLeftParen):
			p.advance()
			args := p.parseArgList()
			p.consume(lexer.TokenRightParen, "')' after call arguments")
			expr = &ast.CallExpr{Callee: expr, Args: args, Loc: expr.Location()}

		case !p.noStructLiterals && p.check(lexer.TokenLeftBrace) && p.looksLikeFieldInitStart():
			if ident, ok := expr.(*ast.IdentifierExpr); ok {
				fields := p.parseFieldInits()
				expr = &ast.StructLiteralExpr{TypeName: ident.Name, Fields: fields, Loc: ident.Loc}
				continue
			}
			return expr

		default:
			return expr
		}
	}
}

// looksLikeFieldInitStart reports whether the current '{' begins a
// struct/enum-variant literal (`identifier :` or an empty `}`) rather
// than a block.
func (p *Parser) looksLikeFieldInitStart() bool {
	if !p.check(lexer.TokenLeftBrace) {
		return false
	}
	next := p.peekAt(1)
	if next.Type == lexer.TokenRightBrace {
		return true
	}
	return next.Type == lexer.TokenIdentifier && p.peekAt(2).Type == lexer.TokenColon
}

func (p *Parser) parseFieldInits() []ast.FieldInit {
	p.consume(lexer.TokenLeftBrace, "'{' to begin field initializers")
	var fields []ast.FieldInit
	for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
		nameTok := p.consume(lexer.TokenIdentifier, "a field name")
		p.consume(lexer.TokenColon, "':' after a field name")
		value := p.parseExpression()
		fields = append(fields, ast.FieldInit{Name: nameTok.Lexeme, Value: value, Loc: p.locFrom(nameTok)})
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenRightBrace, "'}' to close field initializers")
	return fields
}

func (p *Parser) parseArgList() []ast.Expression {
	var args []ast.Expression
	if p.check(lexer.TokenRightParen) {
		return args
	}
	for {
		args = append(args, p.parseExpression())
		if !p.match(lexer.TokenComma) {
			break
		}
		if p.check(lexer.TokenRightParen) {
			break
		}
	}
	return args
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.peek()
	loc := ast.SourceLocation{Line: tok.Line, Column: tok.Column}

	switch {
	case p.match(lexer.TokenNumber):
		return numberLiteral(p.previous().Lexeme, loc)
	case p.match(lexer.TokenString):
		return &ast.LiteralExpr{Value: p.previous().Literal, Loc: loc}
	case p.match(lexer.TokenInterpolatedString):
		return p.parseInterpolatedString(p.previous())
	case p.match(lexer.TokenTrue):
		return &ast.LiteralExpr{Value: true, Loc: loc}
	case p.match(lexer.TokenFalse):
		return &ast.LiteralExpr{Value: false, Loc: loc}
	case p.match(lexer.TokenNull):
		return &ast.LiteralExpr{Value: nil, Loc: loc}
	case p.check(lexer.TokenIdentifier):
		return p.parseIdentifierOrTypeApp()
	case p.check(lexer.TokenLeftParen):
		return p.parseParenOrLambda()
	case p.match(lexer.TokenLeftBracket):
		return p.parseArrayLiteral(loc)
	case p.match(lexer.TokenLeftBrace):
		return p.parseHashLiteral(loc)
	case p.check(lexer.TokenMatch):
		return p.parseMatchExpr()
	case p.check(lexer.TokenAsync):
		return p.parseAsyncBlockExpr()
	case p.check(lexer.TokenRoutine):
		return p.parseRoutineExpr()
	case p.check(lexer.TokenParallel):
		return p.parseParallelExpr()
	case p.check(lexer.TokenLambda):
		return p.parseLambdaKeywordExpr()
	default:
		p.errorAt(tok, "an expression")
		if !p.atEnd() {
			p.advance()
		}
		return &ast.LiteralExpr{Value: nil, Loc: loc}
	}
}

func (p *Parser) parseIdentifierOrTypeApp() ast.Expression {
	nameTok := p.advance()
	loc := p.locFrom(nameTok)
	ident := &ast.IdentifierExpr{Name: nameTok.Lexeme, Loc: loc}
	if !p.check(lexer.TokenLess) {
		return ident
	}
	save := p.pos
	if app, ok := p.tryParseTypeApplication(ident); ok {
		return app
	}
	p.pos = save
	return ident
}

// tryParseTypeApplication is the bounded try-parse that disambiguates
// `Name<T>(args)` from a less-than comparison: it only commits once it
// has matched `< Type (, Type)* >`, and records whether a call
// immediately follows.
func (p *Parser) tryParseTypeApplication(base ast.Expression) (*ast.TypeApplication, bool) {
	start := p.pos
	if !p.match(lexer.TokenLess) {
		return nil, false
	}
	var args []ast.TypeAnnotation
	for {
		ta, ok := p.tryParseTypeArg()
		if !ok {
			p.pos = start
			return nil, false
		}
		args = append(args, ta)
		if p.match(lexer.TokenComma) {
			continue
		}
		break
	}
	if !p.match(lexer.TokenGreater) {
		p.pos = start
		return nil, false
	}
	result := &ast.TypeApplication{Base: base, Args: args, Loc: base.Location()}
	if p.match(lexer.TokenLeftParen) {
		result.Called = true
		result.Arguments = p.parseArgList()
		p.consume(lexer.TokenRightParen, "')' to close type-application call arguments")
	}
	return result, true
}

// tryParseTypeArg parses one type argument of a bounded type-application
// try-parse: an identifier, optionally with one level of its own
// `<...>` nesting. It never consumes a `|`/`&` combination, keeping the
// ambiguous window as narrow as possible.
func (p *Parser) tryParseTypeArg() (ast.TypeAnnotation, bool) {
	if !p.check(lexer.TokenIdentifier) {
		return nil, false
	}
	nameTok := p.advance()
	t := ast.TypeAnnotation(&ast.NamedType{Name: nameTok.Lexeme, Loc: p.locFrom(nameTok)})
	if p.check(lexer.TokenLess) {
		save := p.pos
		p.advance()
		var nested []ast.TypeAnnotation
		ok := true
		for {
			nt, nOk := p.tryParseTypeArg()
			if !nOk {
				ok = false
				break
			}
			nested = append(nested, nt)
			if p.match(lexer.TokenComma) {
				continue
			}
			break
		}
		if ok && p.match(lexer.TokenGreater) {
			t = &ast.GenericType{Name: nameTok.Lexeme, Args: nested, Loc: t.Location()}
		} else {
			p.pos = save
		}
	}
	return t, true
}

// matchesLambdaAhead scans, without consuming, from the current '(' to
// its matching ')' and reports whether a '->' or '{' immediately
// follows, which is what separates a lambda from a parenthesized
// grouping expression.
func (p *Parser) matchesLambdaAhead() bool {
	depth := 0
	i := p.pos
	for i < len(p.tokens) {
		switch p.tokens[i].Type {
		case lexer.TokenLeftParen:
			depth++
		case lexer.TokenRightParen:
			depth--
			if depth == 0 {
				if i+1 < len(p.tokens) {
					nt := p.tokens[i+1].Type
					return nt == lexer.TokenArrow || nt == lexer.TokenLeftBrace
				}
				return false
			}
		case lexer.TokenEOF:
			return false
		}
		i++
	}
	return false
}

func (p *Parser) parseParenOrLambda() ast.Expression {
	if p.matchesLambdaAhead() {
		start := p.peek()
		params := p.parseParamList()
		lam := &ast.LambdaExpr{Params: params, Loc: p.locFrom(start)}
		if p.match(lexer.TokenArrow) {
			save := p.pos
			rt := p.parseTypeAnnotation()
			if p.check(lexer.TokenLeftBrace) {
				lam.ReturnType = rt
			} else {
				p.pos = save
			}
		}
		if p.check(lexer.TokenLeftBrace) {
			lam.BlockBody = p.parseBlock()
		} else {
			lam.Body = p.parseExpression()
		}
		return lam
	}

	p.advance() // '('
	inner := p.parseExpression()
	p.consume(lexer.TokenRightParen, "')' to close a parenthesized expression")
	return inner
}

func (p *Parser) parseArrayLiteral(loc ast.SourceLocation) ast.Expression {
	var elems []ast.Expression
	for !p.check(lexer.TokenRightBracket) && !p.atEnd() {
		elems = append(elems, p.parseExpression())
		if !p.match(lexer.TokenComma) {
			break
		}
		if p.check(lexer.TokenRightBracket) {
			break
		}
	}
	p.consume(lexer.TokenRightBracket, "']' to close an array literal")
	return &ast.ArrayLiteralExpr{Elements: elems, Loc: loc}
}

func (p *Parser) parseHashLiteral(loc ast.SourceLocation) ast.Expression {
	var entries []ast.HashEntry
	for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
		var key ast.Expression
		if p.check(lexer.TokenIdentifier) && p.peekAt(1).Type == lexer.TokenColon {
			kt := p.advance()
			key = &ast.LiteralExpr{Value: kt.Lexeme, Loc: p.locFrom(kt)}
		} else {
			key = p.parseExpression()
		}
		p.consume(lexer.TokenColon, "':' after a dictionary key")
		val := p.parseExpression()
		entries = append(entries, ast.HashEntry{Key: key, Value: val})
		if !p.match(lexer.TokenComma) {
			break
		}
		if p.check(lexer.TokenRightBrace) {
			break
		}
	}
	p.consume(lexer.TokenRightBrace, "'}' to close a dictionary literal")
	return &ast.HashLiteralExpr{Entries: entries, Loc: loc}
}

func (p *Parser) parseMatchExpr() ast.Expression {
	start := p.advance() // 'match'
	scrutinee := p.parseControlExpr()
	arms := p.parseMatchArms()
	return &ast.MatchExpr{Scrutinee: scrutinee, Arms: arms, Loc: p.locFrom(start)}
}

func (p *Parser) parseAsyncBlockExpr() ast.Expression {
	start := p.advance() // 'async'
	body := p.parseBlock()
	return &ast.AsyncBlockExpr{Body: body, Loc: p.locFrom(start)}
}

func (p *Parser) parseRoutineExpr() ast.Expression {
	start := p.advance() // 'routine'
	name := ""
	if p.check(lexer.TokenIdentifier) {
		name = p.advance().Lexeme
	}
	body := p.parseBlock()
	return &ast.RoutineExpr{Name: name, Body: body, Loc: p.locFrom(start)}
}

func (p *Parser) parseParallelExpr() ast.Expression {
	start := p.advance() // 'parallel'
	p.consume(lexer.TokenLeftBracket, "'[' to begin a parallel list")
	var elems []ast.Expression
	for !p.check(lexer.TokenRightBracket) && !p.atEnd() {
		elems = append(elems, p.parseExpression())
		if !p.match(lexer.TokenComma) {
			break
		}
		if p.check(lexer.TokenRightBracket) {
			break
		}
	}
	p.consume(lexer.TokenRightBracket, "']' to close a parallel list")
	return &ast.ParallelExpr{Elements: elems, Loc: p.locFrom(start)}
}

func (p *Parser) parseLambdaKeywordExpr() ast.Expression {
	start := p.advance() // 'lambda'
	params := p.parseParamList()
	lam := &ast.LambdaExpr{Params: params, Loc: p.locFrom(start)}
	if p.match(lexer.TokenArrow) {
		lam.ReturnType = p.parseTypeAnnotation()
	}
	if p.check(lexer.TokenLeftBrace) {
		lam.BlockBody = p.parseBlock()
	} else {
		p.consume(lexer.TokenFatArrow, "'=>' before a lambda expression body")
		lam.Body = p.parseExpression()
	}
	return lam
}

// parseInterpolatedString splits an already-scanned interpolated
// string's raw text on `{{ ... }}` splice boundaries, re-lexing and
// re-parsing each splice as a full expression (per lexer.token.go's
// TokenInterpolatedString doc: "re-lexed by the parser").
func (p *Parser) parseInterpolatedString(tok lexer.Token) ast.Expression {
	raw, _ := tok.Literal.(string)
	loc := ast.SourceLocation{Line: tok.Line, Column: tok.Column}
	var parts []ast.InterpolationPart

	i := 0
	for i < len(raw) {
		j := strings.Index(raw[i:], "{{")
		if j < 0 {
			parts = append(parts, ast.InterpolationPart{Text: raw[i:]})
			break
		}
		if j > 0 {
			parts = append(parts, ast.InterpolationPart{Text: raw[i : i+j]})
		}
		spliceStart := i + j + 2
		end := strings.Index(raw[spliceStart:], "}}")
		if end < 0 {
			parts = append(parts, ast.InterpolationPart{Text: raw[spliceStart:]})
			break
		}
		spliceSrc := raw[spliceStart : spliceStart+end]
		parts = append(parts, ast.InterpolationPart{Splice: p.parseSplice(spliceSrc)})
		i = spliceStart + end + 2
	}

	return &ast.InterpolatedStringExpr{Parts: parts, Loc: loc}
}

// parseSplice re-lexes src and parses it as a standalone expression by
// temporarily swapping this parser's token buffer, so the full
// expression grammar (not just member access) is available inside a
// `{{ }}` splice.
func (p *Parser) parseSplice(src string) ast.Expression {
	sub := lexer.New(src)
	toks, _ := sub.ScanTokens()

	savedTokens, savedPos, savedNoLit := p.tokens, p.pos, p.noStructLiterals
	p.tokens, p.pos, p.noStructLiterals = toks, 0, false
	expr := p.parseExpression()
	p.tokens, p.pos, p.noStructLiterals = savedTokens, savedPos, savedNoLit
	return expr
}

func numberLiteral(lexeme string, loc ast.SourceLocation) ast.Expression {
	return &ast.LiteralExpr{Value: numberLiteralValue(lexeme), Loc: loc}
}

func numberLiteralValue(lexeme string) interface{} {
	if strings.ContainsAny(lexeme, ".eE") {
		f, _ := strconv.ParseFloat(lexeme, 64)
		return f
	}
	n, err := strconv.ParseInt(lexeme, 10, 64)
	if err != nil {
		f, _ := strconv.ParseFloat(lexeme, 64)
		return f
	}
	return n
}

func isExportedName(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r)
}
