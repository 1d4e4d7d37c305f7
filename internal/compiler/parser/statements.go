package parser

import (
	"github.com/sailfin-lang/sailfin/internal/compiler/ast"
	"github.com/sailfin-lang/sailfin/internal/compiler/lexer"
)

// parseBlock parses a brace-delimited statement sequence.
func (p *Parser) parseBlock() *ast.BlockStmt {
	start := p.consume(lexer.TokenLeftBrace, "'{' to begin a block")
	var stmts []ast.Statement
	for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
		before := p.pos
		stmts = append(stmts, p.parseStatement())
		if p.pos == before {
			p.advance()
		}
	}
	p.consume(lexer.TokenRightBrace, "'}' to close a block")
	return &ast.BlockStmt{Statements: stmts, Loc: p.locFrom(start)}
}

func (p *Parser) consumeStmtEnd() {
	p.match(lexer.TokenSemicolon)
}

func (p *Parser) parseStatement() ast.Statement {
	switch {
	case p.check(lexer.TokenLeftBrace):
		return p.parseBlock()
	case p.check(lexer.TokenLet):
		return p.parseLetStmt()
	case p.check(lexer.TokenConst):
		return p.parseConstStmt()
	case p.check(lexer.TokenReturn):
		return p.parseReturnStmt()
	case p.check(lexer.TokenIf):
		return p.parseIfStmt()
	case p.check(lexer.TokenMatch):
		return p.parseMatchStmt()
	case p.check(lexer.TokenFor):
		return p.parseForStmt()
	case p.check(lexer.TokenWhile):
		return p.parseWhileStmt()
	case p.check(lexer.TokenLoop):
		return p.parseLoopStmt()
	case p.check(lexer.TokenBreak):
		tok := p.advance()
		p.consumeStmtEnd()
		return &ast.BreakStmt{Loc: p.locFrom(tok)}
	case p.check(lexer.TokenContinue):
		tok := p.advance()
		p.consumeStmtEnd()
		return &ast.ContinueStmt{Loc: p.locFrom(tok)}
	case p.check(lexer.TokenThrow):
		return p.parseThrowStmt()
	case p.check(lexer.TokenAssert):
		return p.parseAssertStmt()
	case p.check(lexer.TokenTry):
		return p.parseTryStmt()
	default:
		return p.parseExprStmt()
	}
}

func (p *Parser) parseLetStmt() ast.Statement {
	start := p.advance() // 'let'
	mutable := p.match(lexer.TokenMut)
	name := p.consume(lexer.TokenIdentifier, "a variable name")
	stmt := &ast.LetStmt{Name: name.Lexeme, Mutable: mutable}
	if p.match(lexer.TokenColon) {
		stmt.Type = p.parseTypeAnnotation()
	}
	if p.match(lexer.TokenEqual) {
		stmt.Value = p.parseExpression()
	}
	p.consumeStmtEnd()
	stmt.Loc = p.locFrom(start)
	return stmt
}

func (p *Parser) parseConstStmt() ast.Statement {
	start := p.advance() // 'const'
	name := p.consume(lexer.TokenIdentifier, "a constant name")
	stmt := &ast.ConstStmt{Name: name.Lexeme}
	if p.match(lexer.TokenColon) {
		stmt.Type = p.parseTypeAnnotation()
	}
	p.consume(lexer.TokenEqual, "'=' to initialize a constant")
	stmt.Value = p.parseExpression()
	p.consumeStmtEnd()
	stmt.Loc = p.locFrom(start)
	return stmt
}

func (p *Parser) parseReturnStmt() ast.Statement {
	start := p.advance() // 'return'
	stmt := &ast.ReturnStmt{}
	if !p.check(lexer.TokenSemicolon) && !p.check(lexer.TokenRightBrace) && !p.atEnd() {
		stmt.Value = p.parseExpression()
	}
	p.consumeStmtEnd()
	stmt.Loc = p.locFrom(start)
	return stmt
}

// parseControlExpr parses an expression in a context (if/while/for/match
// condition) where a following `{` must begin a block, not be
// mistaken for a struct literal.
func (p *Parser) parseControlExpr() ast.Expression {
	saved := p.noStructLiterals
	p.noStructLiterals = true
	expr := p.parseExpression()
	p.noStructLiterals = saved
	return expr
}

func (p *Parser) parseIfStmt() ast.Statement {
	start := p.advance() // 'if'
	cond := p.parseControlExpr()
	then := p.parseBlock()
	stmt := &ast.IfStmt{Condition: cond, Then: then}
	if p.match(lexer.TokenElse) {
		if p.check(lexer.TokenIf) {
			stmt.Else = p.parseIfStmt()
		} else {
			stmt.Else = p.parseBlock()
		}
	}
	stmt.Loc = p.locFrom(start)
	return stmt
}

func (p *Parser) parseWhileStmt() ast.Statement {
	start := p.advance() // 'while'
	cond := p.parseControlExpr()
	body := p.parseBlock()
	return &ast.WhileStmt{Condition: cond, Body: body, Loc: p.locFrom(start)}
}

func (p *Parser) parseLoopStmt() ast.Statement {
	start := p.advance() // 'loop'
	body := p.parseBlock()
	return &ast.LoopStmt{Body: body, Loc: p.locFrom(start)}
}

func (p *Parser) parseForStmt() ast.Statement {
	start := p.advance() // 'for'
	binding := p.consume(lexer.TokenIdentifier, "a loop variable name")
	p.consume(lexer.TokenIn, "'in' after a for-loop variable")
	iterable := p.parseControlExpr()
	body := p.parseBlock()
	return &ast.ForStmt{Binding: binding.Lexeme, Iterable: iterable, Body: body, Loc: p.locFrom(start)}
}

func (p *Parser) parseMatchArms() []*ast.MatchArm {
	p.consume(lexer.TokenLeftBrace, "'{' to begin match arms")
	var arms []*ast.MatchArm
	for !p.check(lexer.TokenRightBrace) && !p.atEnd() {
		before := p.pos
		pat := p.parsePattern()
		arm := &ast.MatchArm{Pattern: pat, Loc: pat.Location()}
		if p.match(lexer.TokenIf) {
			arm.Guard = p.parseExpression()
		}
		p.consume(lexer.TokenFatArrow, "'=>' after a match pattern")
		if p.check(lexer.TokenLeftBrace) {
			arm.BlockBody = p.parseBlock()
		} else {
			arm.Body = p.parseExpression()
		}
		arms = append(arms, arm)
		p.match(lexer.TokenComma)
		if p.pos == before {
			p.advance()
		}
	}
	p.consume(lexer.TokenRightBrace, "'}' to close match arms")
	return arms
}

func (p *Parser) parseMatchStmt() ast.Statement {
	start := p.advance() // 'match'
	scrutinee := p.parseControlExpr()
	arms := p.parseMatchArms()
	return &ast.MatchStmt{Scrutinee: scrutinee, Arms: arms, Loc: p.locFrom(start)}
}

func (p *Parser) parseThrowStmt() ast.Statement {
	start := p.advance() // 'throw'
	value := p.parseExpression()
	p.consumeStmtEnd()
	return &ast.ThrowStmt{Value: value, Loc: p.locFrom(start)}
}

func (p *Parser) parseAssertStmt() ast.Statement {
	start := p.advance() // 'assert'
	hasParen := p.match(lexer.TokenLeftParen)
	stmt := &ast.AssertStmt{Value: p.parseExpression()}
	if p.match(lexer.TokenComma) {
		stmt.Message = p.parseExpression()
	}
	if hasParen {
		p.consume(lexer.TokenRightParen, "')' to close 'assert'")
	}
	p.consumeStmtEnd()
	stmt.Loc = p.locFrom(start)
	return stmt
}

func (p *Parser) parseTryStmt() ast.Statement {
	start := p.advance() // 'try'
	stmt := &ast.TryStmt{Body: p.parseBlock()}
	if p.match(lexer.TokenCatch) {
		if p.match(lexer.TokenLeftParen) {
			stmt.CatchBinding = p.consume(lexer.TokenIdentifier, "a caught-value name").Lexeme
			p.consume(lexer.TokenRightParen, "')' after a catch binding")
		}
		stmt.Catch = p.parseBlock()
	}
	if p.match(lexer.TokenFinally) {
		stmt.Finally = p.parseBlock()
	}
	stmt.Loc = p.locFrom(start)
	return stmt
}

// parseExprStmt wraps a bare expression — including an assignment,
// which the expression grammar owns — as a statement.
func (p *Parser) parseExprStmt() ast.Statement {
	start := p.peek()
	expr := p.parseExpression()
	p.consumeStmtEnd()
	return &ast.ExprStmt{Expr: expr, Loc: p.locFrom(start)}
}
