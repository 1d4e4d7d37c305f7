// Package parser implements the Sailfin language parser, transforming a
// lexer.Token stream into an ast.Program by recursive descent with a
// precedence-climbing expression parser.
//
// Errors are accumulated (panic-mode recovery at statement/declaration
// boundaries) rather than stopping at the first one, so a single run
// reports every syntax error in a file, matching the lexer's behavior.
package parser

import (
	"fmt"

	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/diagnostics"
	"github.com/sailfin-lang/sailfin/internal/compiler/lexer"
)

// Parser holds the token stream and cursor for one parse.
type Parser struct {
	tokens []lexer.Token
	pos    int
	errors []*diagnostics.Diagnostic

	// noStructLiterals suppresses treating `Identifier {` as a struct
	// literal while parsing the controlling expression of an if/while/
	// for/match, where the `{` must instead begin the following block.
	// It is saved and restored around parenthesized sub-expressions,
	// where struct literals are unambiguous again.
	noStructLiterals bool

	sourceLines []string
}

// Parse tokenizes-already tokens into a Program, returning every parse
// error encountered.
func Parse(tokens []lexer.Token, sourceLines []string) (*ast.Program, []*diagnostics.Diagnostic) {
	p := &Parser{tokens: tokens, sourceLines: sourceLines}
	prog := &ast.Program{}
	if len(tokens) > 0 {
		prog.Loc = ast.SourceLocation{Line: tokens[0].Line, Column: tokens[0].Column}
	}

	for !p.atEnd() {
		decl := p.parseDeclaration()
		if decl != nil {
			prog.Declarations = append(prog.Declarations, decl)
		}
	}

	return prog, p.errors
}

// ---- token navigation ----

func (p *Parser) atEnd() bool {
	return p.peek().Type == lexer.TokenEOF
}

func (p *Parser) peek() lexer.Token {
	return p.tokens[p.pos]
}

func (p *Parser) peekAt(offset int) lexer.Token {
	idx := p.pos + offset
	if idx >= len(p.tokens) {
		return p.tokens[len(p.tokens)-1]
	}
	return p.tokens[idx]
}

func (p *Parser) previous() lexer.Token {
	return p.tokens[p.pos-1]
}

func (p *Parser) advance() lexer.Token {
	if !p.atEnd() {
		p.pos++
	}
	return p.previous()
}

func (p *Parser) check(tt lexer.TokenType) bool {
	if p.atEnd() {
		return tt == lexer.TokenEOF
	}
	return p.peek().Type == tt
}

func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, tt := range types {
		if p.check(tt) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(tt lexer.TokenType, expectedDesc string) lexer.Token {
	if p.check(tt) {
		return p.advance()
	}
	p.errorAt(p.peek(), expectedDesc)
	// Advance past the offending token even on failure, so a loop whose
	// termination condition is "next token is X" can never spin forever
	// on a single malformed token.
	tok := p.peek()
	if !p.atEnd() {
		p.advance()
	}
	return tok
}

func (p *Parser) errorAt(tok lexer.Token, expectedDesc string) {
	var src string
	if tok.Line-1 >= 0 && tok.Line-1 < len(p.sourceLines) {
		src = p.sourceLines[tok.Line-1]
	}
	found := tok.Lexeme
	if tok.Type == lexer.TokenEOF {
		found = "end of file"
	}
	p.errors = append(p.errors, diagnostics.NewParserError(tok.Line, tok.Column, found, []string{expectedDesc}, src))
}

func (p *Parser) locFrom(start lexer.Token) ast.SourceLocation {
	end := p.previous()
	return ast.SourceLocation{Line: start.Line, Column: start.Column, EndLine: end.Line, EndColumn: end.Column}
}

// synchronize discards tokens until a likely declaration or statement
// boundary, so one malformed construct doesn't cascade into spurious
// errors for everything after it.
func (p *Parser) synchronize() {
	p.advance()
	for !p.atEnd() {
		if p.previous().Type == lexer.TokenSemicolon || p.previous().Type == lexer.TokenRightBrace {
			return
		}
		switch p.peek().Type {
		case lexer.TokenStruct, lexer.TokenEnum, lexer.TokenInterface, lexer.TokenFn,
			lexer.TokenLet, lexer.TokenConst, lexer.TokenRoutine, lexer.TokenIf, lexer.TokenFor,
			lexer.TokenWhile, lexer.TokenReturn, lexer.TokenImport, lexer.TokenExport,
			lexer.TokenTest, lexer.TokenAt:
			return
		}
		p.advance()
	}
}

// ---- declarations ----

func (p *Parser) parseDeclaration() (decl ast.Declaration) {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
			decl = nil
		}
	}()

	switch {
	case p.check(lexer.TokenStruct):
		return p.parseStructDecl()
	case p.check(lexer.TokenEnum):
		return p.parseEnumDecl()
	case p.check(lexer.TokenInterface):
		return p.parseInterfaceDecl()
	case p.check(lexer.TokenAt):
		return p.parseDecoratedFnDecl()
	case p.check(lexer.TokenAsync) && p.peekAt(1).Type == lexer.TokenFn:
		return p.parseFnDecl()
	case p.check(lexer.TokenFn):
		return p.parseFnDecl()
	case p.check(lexer.TokenImport):
		return p.parseImportDecl()
	case p.check(lexer.TokenExport):
		return p.parseExportDecl()
	case p.check(lexer.TokenTest):
		return p.parseTestDecl()
	case p.check(lexer.TokenLet):
		return p.parseGlobalVarDecl()
	case p.check(lexer.TokenConst):
		return p.parseGlobalConstDecl()
	case p.check(lexer.TokenRoutine):
		return p.parseTopLevelRoutineDecl()
	case p.isTypeAliasStart():
		return p.parseTypeAliasDecl()
	case p.check(lexer.TokenSemicolon):
		// A stray terminator after a top-level binding is not a
		// declaration of its own.
		p.advance()
		return nil
	default:
		p.errorAt(p.peek(), "a declaration (struct, enum, interface, fn, let, const, type, import, export, routine, or test)")
		p.advance()
		return nil
	}
}

// isTypeAliasStart recognizes `type Name =` with the contextual `type`
// introducer; anything else starting with the identifier `type` (a call,
// a member access) stays an ordinary expression.
func (p *Parser) isTypeAliasStart() bool {
	return p.check(lexer.TokenIdentifier) && p.peek().Lexeme == "type" &&
		p.peekAt(1).Type == lexer.TokenIdentifier &&
		p.peekAt(2).Type == lexer.TokenEqual
}

func (p *Parser) parseTypeAliasDecl() ast.Declaration {
	start := p.advance() // contextual 'type'
	name := p.consume(lexer.TokenIdentifier, "a type alias name")
	p.consume(lexer.TokenEqual, "'=' in a type alias")
	aliased := p.parseTypeAnnotation()
	p.match(lexer.TokenSemicolon)
	return &ast.TypeAliasDecl{Name: name.Lexeme, Aliased: aliased, Loc: p.locFrom(start)}
}

// parseDecorators consumes a run of `@name` decorators preceding a
// function or method declaration. Decorators carry no argument list; the
// name may be a reserved word such as `test`.
func (p *Parser) parseDecorators() []string {
	var decorators []string
	for p.match(lexer.TokenAt) {
		if lexer.IsKeyword(p.peek().Lexeme) {
			decorators = append(decorators, p.advance().Lexeme)
			continue
		}
		decorators = append(decorators, p.consume(lexer.TokenIdentifier, "a decorator name after '@'").Lexeme)
	}
	return decorators
}

func (p *Parser) parseDecoratedFnDecl() ast.Declaration {
	decorators := p.parseDecorators()
	decl := p.parseFnDecl().(*ast.FnDecl)
	decl.Decorators = decorators
	return decl
}

func (p *Parser) parseTypeParams() []*ast.TypeParam {
	if !p.match(lexer.TokenLess) {
		return nil
	}
	var params []*ast.TypeParam
	for {
		nameTok := p.consume(lexer.TokenIdentifier, "a type parameter name")
		tp := &ast.TypeParam{Name: nameTok.Lexeme, Loc: p.locFrom(nameTok)}
		if p.match(lexer.TokenColon) {
			tp.Bound = p.parseTypeAnnotation()
		}
		params = append(params, tp)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenGreater, "'>' to close type parameter list")
	return params
}

func (p *Parser) parseStructDecl() ast.Declaration {
	start := p.advance() // 'struct'
	name := p.consume(lexer.TokenIdentifier, "a struct name")
	decl := &ast.StructDecl{Name: name.Lexeme}
	decl.TypeParams = p.parseTypeParams()

	if p.match(lexer.TokenImplements) {
		decl.Implements = append(decl.Implements, p.consume(lexer.TokenIdentifier, "an interface name").Lexeme)
		for p.match(lexer.TokenComma) {
			decl.Implements = append(decl.Implements, p.consume(lexer.TokenIdentifier, "an interface name").Lexeme)
		}
	}

	p.consume(lexer.TokenLeftBrace, "'{' to begin struct body")
	for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
		if p.check(lexer.TokenAt) || p.check(lexer.TokenFn) || (p.check(lexer.TokenAsync) && p.peekAt(1).Type == lexer.TokenFn) {
			decorators := p.parseDecorators()
			method := p.parseFnDecl().(*ast.FnDecl)
			method.Receiver = decl.Name
			method.Decorators = decorators
			decl.Methods = append(decl.Methods, method)
			continue
		}
		fieldName := p.consume(lexer.TokenIdentifier, "a field name")
		p.consume(lexer.TokenColon, "':' before a field's type")
		fieldType := p.parseTypeAnnotation()
		decl.Fields = append(decl.Fields, &ast.FieldDecl{
			Name: fieldName.Lexeme,
			Type: fieldType,
			Loc:  p.locFrom(fieldName),
		})
		p.match(lexer.TokenComma)
	}
	p.consume(lexer.TokenRightBrace, "'}' to close struct body")
	decl.Loc = p.locFrom(start)
	return decl
}

func (p *Parser) parseEnumDecl() ast.Declaration {
	start := p.advance() // 'enum'
	name := p.consume(lexer.TokenIdentifier, "an enum name")
	decl := &ast.EnumDecl{Name: name.Lexeme}
	decl.TypeParams = p.parseTypeParams()

	p.consume(lexer.TokenLeftBrace, "'{' to begin enum body")
	for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
		variantName := p.consume(lexer.TokenIdentifier, "a variant name")
		variant := &ast.EnumVariant{Name: variantName.Lexeme, Loc: p.locFrom(variantName)}
		if p.match(lexer.TokenLeftBrace) {
			for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
				fieldName := p.consume(lexer.TokenIdentifier, "a variant field name")
				p.consume(lexer.TokenColon, "':' before a variant field's type")
				fieldType := p.parseTypeAnnotation()
				variant.Fields = append(variant.Fields, &ast.FieldDecl{
					Name: fieldName.Lexeme,
					Type: fieldType,
					Loc:  p.locFrom(fieldName),
				})
				p.match(lexer.TokenComma)
			}
			p.consume(lexer.TokenRightBrace, "'}' to close variant payload")
		}
		decl.Variants = append(decl.Variants, variant)
		p.match(lexer.TokenComma)
	}
	p.consume(lexer.TokenRightBrace, "'}' to close enum body")
	decl.Loc = p.locFrom(start)
	return decl
}

func (p *Parser) parseInterfaceDecl() ast.Declaration {
	start := p.advance() // 'interface'
	name := p.consume(lexer.TokenIdentifier, "an interface name")
	decl := &ast.InterfaceDecl{Name: name.Lexeme}

	p.consume(lexer.TokenLeftBrace, "'{' to begin interface body")
	for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
		methodStart := p.consume(lexer.TokenFn, "'fn'")
		methodName := p.consume(lexer.TokenIdentifier, "a method name")
		method := &ast.InterfaceMethod{Name: methodName.Lexeme}
		method.Params = p.parseParamList()
		if p.match(lexer.TokenArrow) {
			method.ReturnType = p.parseTypeAnnotation()
		}
		method.Loc = p.locFrom(methodStart)
		decl.Methods = append(decl.Methods, method)
	}
	p.consume(lexer.TokenRightBrace, "'}' to close interface body")
	decl.Loc = p.locFrom(start)
	return decl
}

func (p *Parser) parseParamList() []*ast.Param {
	p.consume(lexer.TokenLeftParen, "'(' to begin parameter list")
	var params []*ast.Param
	for !p.check(lexer.TokenRightParen) && !p.atEnd() {
		nameTok := p.consume(lexer.TokenIdentifier, "a parameter name")
		param := &ast.Param{Name: nameTok.Lexeme}
		if p.match(lexer.TokenColon) {
			param.Type = p.parseTypeAnnotation()
		}
		param.Loc = p.locFrom(nameTok)
		params = append(params, param)
		if !p.match(lexer.TokenComma) {
			break
		}
	}
	p.consume(lexer.TokenRightParen, "')' to close parameter list")
	return params
}

func (p *Parser) parseFnDecl() ast.Declaration {
	isAsync := p.match(lexer.TokenAsync)
	start := p.consume(lexer.TokenFn, "'fn'")
	var name lexer.Token
	if p.check(lexer.TokenNew) {
		// `new` is a reserved word but also the conventional
		// constructor-method name, so it is accepted here specifically.
		name = p.advance()
	} else {
		name = p.consume(lexer.TokenIdentifier, "a function name")
	}
	decl := &ast.FnDecl{Name: name.Lexeme, IsAsync: isAsync}
	decl.TypeParams = p.parseTypeParams()
	decl.Params = p.parseParamList()
	if p.match(lexer.TokenArrow) {
		decl.ReturnType = p.parseTypeAnnotation()
	}
	decl.Body = p.parseBlock()
	decl.Loc = p.locFrom(start)
	return decl
}

func (p *Parser) parseImportDecl() ast.Declaration {
	start := p.advance() // 'import'
	decl := &ast.ImportDecl{}

	if p.check(lexer.TokenLeftBrace) {
		p.advance()
		for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
			decl.Items = append(decl.Items, p.consume(lexer.TokenIdentifier, "an imported name").Lexeme)
			if !p.match(lexer.TokenComma) {
				break
			}
		}
		p.consume(lexer.TokenRightBrace, "'}' to close the import list")
		p.consume(lexer.TokenFrom, "'from' after an import list")
	}

	pathTok := p.consume(lexer.TokenString, "an import path string")
	decl.SourcePath = fmt.Sprintf("%v", pathTok.Literal)

	if p.match(lexer.TokenAs) {
		decl.Alias = p.consume(lexer.TokenIdentifier, "an alias name").Lexeme
	}

	decl.Loc = p.locFrom(start)
	return decl
}

func (p *Parser) parseExportDecl() ast.Declaration {
	start := p.advance() // 'export'
	inner := p.parseDeclaration()
	decl := &ast.ExportDecl{Decl: inner}
	decl.Loc = p.locFrom(start)
	return decl
}

func (p *Parser) parseTestDecl() ast.Declaration {
	start := p.advance() // 'test'
	nameTok := p.consume(lexer.TokenString, "a test name string")
	decl := &ast.TestDecl{Name: fmt.Sprintf("%v", nameTok.Literal)}
	decl.Body = p.parseBlock()
	decl.Loc = p.locFrom(start)
	return decl
}

func (p *Parser) parseGlobalVarDecl() ast.Declaration {
	start := p.advance() // 'let'
	mutable := p.match(lexer.TokenMut)
	name := p.consume(lexer.TokenIdentifier, "a variable name")
	decl := &ast.GlobalVarDecl{Name: name.Lexeme, Mutable: mutable}
	if p.match(lexer.TokenColon) {
		decl.Type = p.parseTypeAnnotation()
	}
	p.consume(lexer.TokenEqual, "'=' to initialize a global variable")
	decl.Value = p.parseExpression()
	decl.Loc = p.locFrom(start)
	return decl
}

func (p *Parser) parseGlobalConstDecl() ast.Declaration {
	start := p.advance() // 'const'
	name := p.consume(lexer.TokenIdentifier, "a constant name")
	decl := &ast.GlobalVarDecl{Name: name.Lexeme, Const: true}
	if p.match(lexer.TokenColon) {
		decl.Type = p.parseTypeAnnotation()
	}
	p.consume(lexer.TokenEqual, "'=' to initialize a global constant")
	decl.Value = p.parseExpression()
	decl.Loc = p.locFrom(start)
	return decl
}

func (p *Parser) parseTopLevelRoutineDecl() ast.Declaration {
	start := p.peek()
	routine := p.parseRoutineExpr().(*ast.RoutineExpr)
	return &ast.RoutineDecl{Routine: routine, Loc: p.locFrom(start)}
}
