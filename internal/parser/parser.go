// Package parser implements a recursive descent parser for Compiscript.
//
// PARSING STRATEGY: recursive descent, one function per grammar
// production, with expressions handled as a cascade of precedence-level
// functions (logical-or -> logical-and -> equality -> relational ->
// additive -> multiplicative -> unary -> call/index -> primary) rather
// than a generic Pratt table. This is deliberate: the node Kind a
// production emits (parsetree.LogicalOrExpr, parsetree.AdditiveExpr, …)
// must match the grammar's own nonterminal names one-for-one (see the
// parse-tree contract), and a per-level cascade makes that correspondence
// direct instead of mediated through a table.
//
// ERROR HANDLING STRATEGY: report and continue. Parse errors synchronize
// at the next statement boundary (panic/recover internally) so one
// malformed statement doesn't abort the whole parse.
package parser

import (
	"fmt"

	"github.com/compiscript-lang/compiscript/internal/lexer"
	"github.com/compiscript-lang/compiscript/internal/parsetree"
)

// Parser converts a token stream into a parsetree.Node.
type Parser struct {
	lexer *lexer.Lexer

	current  lexer.Token
	previous lexer.Token

	errors []error
}

// New creates a Parser reading from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{lexer: l}
	p.advance()
	return p
}

// ParseProgram parses a complete Compiscript source file into a Program
// node, one child per top-level statement. Parsing never aborts on error:
// malformed statements are skipped (after synchronizing) and their errors
// recorded.
func (p *Parser) ParseProgram() (parsetree.Node, []error) {
	line := p.current.Position.Line
	var stmts []parsetree.Node

	for !p.isAtEnd() {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}

	return parsetree.New(parsetree.Program, line, "", stmts...), p.errors
}

// parseStatement parses any statement or top-level declaration, recovering
// to the next statement boundary on error.
func (p *Parser) parseStatement() (node parsetree.Node) {
	defer func() {
		if r := recover(); r != nil {
			p.synchronize()
			node = nil
		}
	}()

	switch {
	case p.match(lexer.TokenVar):
		return p.parseVarOrConstDecl(false)
	case p.match(lexer.TokenConst):
		return p.parseVarOrConstDecl(true)
	case p.match(lexer.TokenFunction):
		return p.parseFunctionDecl()
	case p.match(lexer.TokenLeftBrace):
		return p.parseBlock()
	case p.match(lexer.TokenIf):
		return p.parseIfStatement()
	case p.match(lexer.TokenWhile):
		return p.parseWhileStatement()
	case p.match(lexer.TokenDo):
		return p.parseDoWhileStatement()
	case p.match(lexer.TokenFor):
		return p.parseForOrForeachStatement()
	case p.match(lexer.TokenForeach):
		return p.parseForOrForeachStatement()
	case p.match(lexer.TokenBreak):
		return p.finishSimpleStatement(parsetree.BreakStatement)
	case p.match(lexer.TokenContinue):
		return p.finishSimpleStatement(parsetree.ContinueStatement)
	case p.match(lexer.TokenReturn):
		return p.parseReturnStatement()
	default:
		return p.parseAssignmentOrExpressionStatement()
	}
}

func (p *Parser) finishSimpleStatement(kind parsetree.Kind) parsetree.Node {
	line := p.previous.Position.Line
	p.consume(lexer.TokenSemicolon, "expected ';'")
	return parsetree.New(kind, line, "")
}

// parseVarOrConstDecl parses `var name [: type] [= expr];` or the `const`
// form, which additionally requires the initializer.
func (p *Parser) parseVarOrConstDecl(isConst bool) parsetree.Node {
	line := p.previous.Position.Line
	p.consumeIdentifier("expected variable name")
	name := p.previous.Lexeme

	var children []parsetree.Node
	if p.match(lexer.TokenColon) {
		children = append(children, p.parseTypeAnnotation())
	}

	if p.match(lexer.TokenAssign) {
		children = append(children, p.parseExpression())
	} else if isConst {
		p.error("const declaration requires an initializer")
	}

	p.consume(lexer.TokenSemicolon, "expected ';'")

	kind := parsetree.VariableDeclaration
	if isConst {
		kind = parsetree.ConstantDeclaration
	}
	return parsetree.New(kind, line, name, children...)
}

// parseTypeAnnotation parses `integer`, `float`, `string`, `boolean`, or a
// repeated `[]` suffix for arrays, returning a TypeAnnotation leaf whose
// Text is the canonical surface spelling, e.g. "integer[]".
func (p *Parser) parseTypeAnnotation() parsetree.Node {
	line := p.current.Position.Line
	if !p.current.Type.IsTypeKeyword() {
		p.error(fmt.Sprintf("expected a type, got %s", p.current.Type))
		p.advance()
		return parsetree.New(parsetree.TypeAnnotation, line, "unknown")
	}
	base := p.current.Type.String()
	p.advance()

	suffix := ""
	for p.match(lexer.TokenLeftBracket) {
		p.consume(lexer.TokenRightBracket, "expected ']'")
		suffix += "[]"
	}
	return parsetree.New(parsetree.TypeAnnotation, line, base+suffix)
}

func (p *Parser) parseBlock() parsetree.Node {
	line := p.previous.Position.Line
	var stmts []parsetree.Node
	for !p.check(lexer.TokenRightBrace) && !p.isAtEnd() {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.consume(lexer.TokenRightBrace, "expected '}'")
	return parsetree.New(parsetree.Block, line, "", stmts...)
}

func (p *Parser) expectBlock() parsetree.Node {
	p.consume(lexer.TokenLeftBrace, "expected '{'")
	return p.parseBlock()
}

func (p *Parser) parseIfStatement() parsetree.Node {
	line := p.previous.Position.Line
	p.consume(lexer.TokenLeftParen, "expected '(' after 'if'")
	cond := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after condition")
	then := p.expectBlock()

	children := []parsetree.Node{cond, then}
	if p.match(lexer.TokenElse) {
		if p.check(lexer.TokenIf) {
			p.advance()
			children = append(children, p.parseIfStatement())
		} else {
			children = append(children, p.expectBlock())
		}
	}
	return parsetree.New(parsetree.IfStatement, line, "", children...)
}

func (p *Parser) parseWhileStatement() parsetree.Node {
	line := p.previous.Position.Line
	p.consume(lexer.TokenLeftParen, "expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after condition")
	body := p.expectBlock()
	return parsetree.New(parsetree.WhileStatement, line, "", cond, body)
}

func (p *Parser) parseDoWhileStatement() parsetree.Node {
	line := p.previous.Position.Line
	body := p.expectBlock()
	p.consume(lexer.TokenWhile, "expected 'while' after 'do' body")
	p.consume(lexer.TokenLeftParen, "expected '(' after 'while'")
	cond := p.parseExpression()
	p.consume(lexer.TokenRightParen, "expected ')' after condition")
	p.consume(lexer.TokenSemicolon, "expected ';'")
	return parsetree.New(parsetree.DoWhileStatement, line, "", body, cond)
}

// parseForOrForeachStatement disambiguates `for (init; cond; step) body`
// from `foreach (name in arr) body` by looking ahead for the `in` keyword
// right after an identifier. It is entered after either the `for` or the
// `foreach` keyword; the form is chosen by that lookahead alone.
func (p *Parser) parseForOrForeachStatement() parsetree.Node {
	line := p.previous.Position.Line
	p.consume(lexer.TokenLeftParen, "expected '(' after 'for'")

	if p.check(lexer.TokenIdentifier) {
		save := p.snapshot()
		name := p.current.Lexeme
		p.advance()
		if p.match(lexer.TokenIn) {
			arr := p.parseExpression()
			p.consume(lexer.TokenRightParen, "expected ')'")
			body := p.expectBlock()
			return parsetree.New(parsetree.ForeachStatement, line, name, arr, body)
		}
		p.restore(save)
	}

	var init parsetree.Node
	if !p.match(lexer.TokenSemicolon) {
		init = p.parseForInitOrPost()
		p.consume(lexer.TokenSemicolon, "expected ';'")
	}

	var cond parsetree.Node
	if !p.check(lexer.TokenSemicolon) {
		cond = p.parseExpression()
	}
	p.consume(lexer.TokenSemicolon, "expected ';' after condition")

	var post parsetree.Node
	if !p.check(lexer.TokenRightParen) {
		post = p.parseForInitOrPost()
	}
	p.consume(lexer.TokenRightParen, "expected ')'")

	body := p.expectBlock()
	return parsetree.New(parsetree.ForStatement, line, "", init, cond, post, body)
}

// parseForInitOrPost parses the init/post clauses of a C-style for
// statement: either a variable declaration (without its own semicolon) or
// an assignment/expression.
func (p *Parser) parseForInitOrPost() parsetree.Node {
	if p.match(lexer.TokenVar) {
		line := p.previous.Position.Line
		p.consumeIdentifier("expected variable name")
		name := p.previous.Lexeme
		var children []parsetree.Node
		if p.match(lexer.TokenColon) {
			children = append(children, p.parseTypeAnnotation())
		}
		if p.match(lexer.TokenAssign) {
			children = append(children, p.parseExpression())
		}
		return parsetree.New(parsetree.VariableDeclaration, line, name, children...)
	}
	return p.parseAssignmentOrExpression()
}

func (p *Parser) parseReturnStatement() parsetree.Node {
	line := p.previous.Position.Line
	var children []parsetree.Node
	if !p.check(lexer.TokenSemicolon) {
		children = append(children, p.parseExpression())
	}
	p.consume(lexer.TokenSemicolon, "expected ';'")
	return parsetree.New(parsetree.ReturnStatement, line, "", children...)
}

func (p *Parser) parseFunctionDecl() parsetree.Node {
	line := p.previous.Position.Line
	p.consumeIdentifier("expected function name")
	name := p.previous.Lexeme

	p.consume(lexer.TokenLeftParen, "expected '(' after function name")
	paramsLine := p.previous.Position.Line
	var params []parsetree.Node
	if !p.check(lexer.TokenRightParen) {
		for {
			pLine := p.current.Position.Line
			p.consumeIdentifier("expected parameter name")
			pName := p.previous.Lexeme
			var pChildren []parsetree.Node
			if p.match(lexer.TokenColon) {
				pChildren = append(pChildren, p.parseTypeAnnotation())
			}
			params = append(params, parsetree.New(parsetree.Parameter, pLine, pName, pChildren...))
			if !p.match(lexer.TokenComma) {
				break
			}
		}
	}
	p.consume(lexer.TokenRightParen, "expected ')' after parameters")

	children := []parsetree.Node{parsetree.New(parsetree.Parameters, paramsLine, "", params...)}
	if p.match(lexer.TokenColon) {
		children = append(children, p.parseTypeAnnotation())
	}

	body := p.expectBlock()
	children = append(children, body)

	return parsetree.New(parsetree.FunctionDeclaration, line, name, children...)
}

// parseAssignmentOrExpressionStatement parses either `name = expr;` or a
// bare expression statement `expr;`.
func (p *Parser) parseAssignmentOrExpressionStatement() parsetree.Node {
	line := p.current.Position.Line
	node := p.parseAssignmentOrExpression()
	p.consume(lexer.TokenSemicolon, "expected ';'")
	if node == nil {
		return nil
	}
	if node.Kind() == parsetree.Assignment {
		return node
	}
	return parsetree.New(parsetree.ExpressionStatement, line, "", node)
}

func (p *Parser) parseAssignmentOrExpression() parsetree.Node {
	if p.check(lexer.TokenIdentifier) {
		save := p.snapshot()
		line := p.current.Position.Line
		name := p.current.Lexeme
		p.advance()
		if p.match(lexer.TokenAssign) {
			value := p.parseExpression()
			return parsetree.New(parsetree.Assignment, line, name, value)
		}
		p.restore(save)
	}
	return p.parseExpression()
}

// --- expressions, cascaded by precedence ---

func (p *Parser) parseExpression() parsetree.Node {
	return p.parseLogicalOr()
}

func (p *Parser) parseLogicalOr() parsetree.Node {
	left := p.parseLogicalAnd()
	for p.check(lexer.TokenOr) {
		line := p.current.Position.Line
		p.advance()
		right := p.parseLogicalAnd()
		left = parsetree.New(parsetree.LogicalOrExpr, line, "||", left, right)
	}
	return left
}

func (p *Parser) parseLogicalAnd() parsetree.Node {
	left := p.parseEquality()
	for p.check(lexer.TokenAnd) {
		line := p.current.Position.Line
		p.advance()
		right := p.parseEquality()
		left = parsetree.New(parsetree.LogicalAndExpr, line, "&&", left, right)
	}
	return left
}

func (p *Parser) parseEquality() parsetree.Node {
	left := p.parseRelational()
	for p.check(lexer.TokenEqual) || p.check(lexer.TokenNotEqual) ||
		p.check(lexer.TokenStrictEqual) || p.check(lexer.TokenStrictNotEqual) {
		line := p.current.Position.Line
		op := p.current.Type.String()
		p.advance()
		right := p.parseRelational()
		left = parsetree.New(parsetree.EqualityExpr, line, op, left, right)
	}
	return left
}

func (p *Parser) parseRelational() parsetree.Node {
	left := p.parseAdditive()
	for p.check(lexer.TokenLess) || p.check(lexer.TokenLessEqual) ||
		p.check(lexer.TokenGreater) || p.check(lexer.TokenGreaterEqual) {
		line := p.current.Position.Line
		op := p.current.Type.String()
		p.advance()
		right := p.parseAdditive()
		left = parsetree.New(parsetree.RelationalExpr, line, op, left, right)
	}
	return left
}

func (p *Parser) parseAdditive() parsetree.Node {
	left := p.parseMultiplicative()
	for p.check(lexer.TokenPlus) || p.check(lexer.TokenMinus) {
		line := p.current.Position.Line
		op := p.current.Type.String()
		p.advance()
		right := p.parseMultiplicative()
		left = parsetree.New(parsetree.AdditiveExpr, line, op, left, right)
	}
	return left
}

func (p *Parser) parseMultiplicative() parsetree.Node {
	left := p.parseUnary()
	for p.check(lexer.TokenStar) || p.check(lexer.TokenSlash) || p.check(lexer.TokenPercent) {
		line := p.current.Position.Line
		op := p.current.Type.String()
		p.advance()
		right := p.parseUnary()
		left = parsetree.New(parsetree.MultiplicativeExpr, line, op, left, right)
	}
	return left
}

func (p *Parser) parseUnary() parsetree.Node {
	if p.check(lexer.TokenMinus) || p.check(lexer.TokenNot) {
		line := p.current.Position.Line
		op := p.current.Type.String()
		p.advance()
		operand := p.parseUnary()
		return parsetree.New(parsetree.UnaryExpr, line, op, operand)
	}
	return p.parseCallOrIndex()
}

func (p *Parser) parseCallOrIndex() parsetree.Node {
	expr := p.parsePrimary()
	for {
		switch {
		case p.match(lexer.TokenLeftParen):
			line := p.previous.Position.Line
			var args []parsetree.Node
			if !p.check(lexer.TokenRightParen) {
				for {
					args = append(args, p.parseExpression())
					if !p.match(lexer.TokenComma) {
						break
					}
				}
			}
			p.consume(lexer.TokenRightParen, "expected ')' after arguments")
			children := append([]parsetree.Node{expr}, args...)
			expr = parsetree.New(parsetree.CallExpr, line, "", children...)
		case p.match(lexer.TokenLeftBracket):
			line := p.previous.Position.Line
			index := p.parseExpression()
			p.consume(lexer.TokenRightBracket, "expected ']'")
			expr = parsetree.New(parsetree.IndexExpr, line, "", expr, index)
		default:
			return expr
		}
	}
}

func (p *Parser) parsePrimary() parsetree.Node {
	line := p.current.Position.Line

	switch {
	case p.match(lexer.TokenNumber), p.match(lexer.TokenString),
		p.match(lexer.TokenTrue), p.match(lexer.TokenFalse):
		return parsetree.New(parsetree.LiteralExpr, line, p.previous.Lexeme)

	case p.match(lexer.TokenIdentifier):
		return parsetree.New(parsetree.IdentifierExpr, line, p.previous.Lexeme)

	case p.match(lexer.TokenLeftParen):
		inner := p.parseExpression()
		p.consume(lexer.TokenRightParen, "expected ')'")
		return inner

	case p.match(lexer.TokenLeftBracket):
		var elements []parsetree.Node
		if !p.check(lexer.TokenRightBracket) {
			for {
				elements = append(elements, p.parseExpression())
				if !p.match(lexer.TokenComma) {
					break
				}
			}
		}
		p.consume(lexer.TokenRightBracket, "expected ']'")
		return parsetree.New(parsetree.ArrayLiteral, line, "", elements...)

	default:
		p.error(fmt.Sprintf("expected expression, got %s", p.current.Type))
		panic("invalid expression")
	}
}

// --- token-stream helpers ---

type snapshot struct {
	lexer    lexer.Lexer
	current  lexer.Token
	previous lexer.Token
}

func (p *Parser) snapshot() snapshot {
	return snapshot{lexer: *p.lexer, current: p.current, previous: p.previous}
}

func (p *Parser) restore(s snapshot) {
	*p.lexer = s.lexer
	p.current = s.current
	p.previous = s.previous
}

func (p *Parser) advance() {
	p.previous = p.current
	for {
		tok, err := p.lexer.NextToken()
		if err != nil {
			p.errors = append(p.errors, err)
			continue
		}
		if tok.Type == lexer.TokenComment {
			continue
		}
		p.current = tok
		return
	}
}

func (p *Parser) check(tokenType lexer.TokenType) bool {
	return p.current.Type == tokenType
}

func (p *Parser) match(tokenType lexer.TokenType) bool {
	if !p.check(tokenType) {
		return false
	}
	p.advance()
	return true
}

func (p *Parser) consume(tokenType lexer.TokenType, message string) {
	if p.check(tokenType) {
		p.advance()
		return
	}
	p.error(message)
	panic(message)
}

func (p *Parser) consumeIdentifier(message string) {
	p.consume(lexer.TokenIdentifier, message)
}

func (p *Parser) isAtEnd() bool {
	return p.current.Type == lexer.TokenEOF
}

func (p *Parser) error(message string) {
	p.errors = append(p.errors, fmt.Errorf("%s: %s", p.current.Position.String(), message))
}

// synchronize skips tokens until a likely statement boundary, so one
// parse error does not cascade into spurious following errors.
func (p *Parser) synchronize() {
	for !p.isAtEnd() {
		if p.previous.Type == lexer.TokenSemicolon {
			return
		}
		switch p.current.Type {
		case lexer.TokenVar, lexer.TokenConst, lexer.TokenFunction, lexer.TokenIf,
			lexer.TokenWhile, lexer.TokenFor, lexer.TokenReturn:
			return
		}
		p.advance()
	}
}
