package lox

// Parser is a recursive-descent parser with precedence climbing over a
// flat token stream produced by Scanner.
type Parser struct {
	tokens   []*Token
	reporter Reporter
	current  int
}

// NewParser creates a parser over tokens, reporting syntax errors to
// reporter. tokens must end with an Eof token.
func NewParser(tokens []*Token, reporter Reporter) *Parser {
	return &Parser{tokens: tokens, reporter: reporter}
}

// Parse consumes the whole token stream and returns the top-level
// statements. Parsing continues past a syntax error via panic-mode
// synchronization so a single pass can report more than one error.
func (p *Parser) Parse() []Stmt {
	var stmts []Stmt
	for !p.isEOF() {
		stmt, err := p.declaration()
		if err != nil {
			p.reporter.Report(err)
			p.sync()
			continue
		}
		stmts = append(stmts, stmt)
	}
	return stmts
}

func (p *Parser) declaration() (stmt Stmt, err error) {
	switch {
	case p.match(CLASS):
		return p.classDecl()
	case p.match(FUN):
		return p.function("function")
	case p.match(VAR):
		return p.varDecl()
	default:
		return p.statement()
	}
}

func (p *Parser) classDecl() (Stmt, error) {
	name, err := p.consume(IDENTIFIER, "Expect class name.")
	if err != nil {
		return nil, err
	}

	var superclass *VarExpr
	if p.match(LESS) {
		superName, err := p.consume(IDENTIFIER, "Expect superclass name.")
		if err != nil {
			return nil, err
		}
		superclass = NewVarExpr(superName)
	}

	if _, err := p.consume(LEFT_BRACE, "Expect '{' before class body."); err != nil {
		return nil, err
	}

	var methods []*FunctionStmt
	for !p.check(RIGHT_BRACE) && !p.isEOF() {
		method, err := p.function("method")
		if err != nil {
			return nil, err
		}
		methods = append(methods, method.(*FunctionStmt))
	}

	if _, err := p.consume(RIGHT_BRACE, "Expect '}' after class body."); err != nil {
		return nil, err
	}

	return NewClassStmt(name, superclass, methods), nil
}

func (p *Parser) function(kind string) (Stmt, error) {
	name, err := p.consume(IDENTIFIER, "Expect "+kind+" name.")
	if err != nil {
		return nil, err
	}

	if _, err := p.consume(LEFT_PAREN, "Expect '(' after "+kind+" name."); err != nil {
		return nil, err
	}
	var params []*Token
	if !p.check(RIGHT_PAREN) {
		for {
			if len(params) >= 255 {
				p.reporter.Report(NewParseError(p.peek(), "Can't have more than 255 parameters."))
			}
			param, err := p.consume(IDENTIFIER, "Expect parameter name.")
			if err != nil {
				return nil, err
			}
			params = append(params, param)
			if !p.match(COMMA) {
				break
			}
		}
	}
	if _, err := p.consume(RIGHT_PAREN, "Expect ')' after parameters."); err != nil {
		return nil, err
	}

	if _, err := p.consume(LEFT_BRACE, "Expect '{' before "+kind+" body."); err != nil {
		return nil, err
	}
	body, err := p.block()
	if err != nil {
		return nil, err
	}

	return NewFunctionStmt(name, params, body), nil
}

func (p *Parser) varDecl() (Stmt, error) {
	name, err := p.consume(IDENTIFIER, "Expect variable name.")
	if err != nil {
		return nil, err
	}

	var init Expr
	if p.match(EQUAL) {
		init, err = p.expression()
		if err != nil {
			return nil, err
		}
	}

	if _, err := p.consume(SEMICOLON, "Expect ';' after variable declaration."); err != nil {
		return nil, err
	}
	return NewVarStmt(name, init), nil
}

func (p *Parser) statement() (Stmt, error) {
	switch {
	case p.match(FOR):
		return p.forStmt()
	case p.match(IF):
		return p.ifStmt()
	case p.match(PRINT):
		return p.printStmt()
	case p.match(RETURN):
		return p.returnStmt()
	case p.match(WHILE):
		return p.whileStmt()
	case p.match(LEFT_BRACE):
		stmts, err := p.block()
		if err != nil {
			return nil, err
		}
		return NewBlockStmt(stmts), nil
	default:
		return p.exprStmt()
	}
}

func (p *Parser) block() ([]Stmt, error) {
	var stmts []Stmt
	for !p.check(RIGHT_BRACE) && !p.isEOF() {
		stmt, err := p.declaration()
		if err != nil {
			p.reporter.Report(err)
			p.sync()
			continue
		}
		stmts = append(stmts, stmt)
	}
	if _, err := p.consume(RIGHT_BRACE, "Expect '}' after block."); err != nil {
		return nil, err
	}
	return stmts, nil
}

func (p *Parser) exprStmt() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after expression."); err != nil {
		return nil, err
	}
	return NewExprStmt(expr), nil
}

// forStmt desugars the three-clause for loop into a block containing the
// initializer followed by a while loop, per the grammar's rewrite rule.
func (p *Parser) forStmt() (Stmt, error) {
	if _, err := p.consume(LEFT_PAREN, "Expect '(' after 'for'."); err != nil {
		return nil, err
	}

	var init Stmt
	var err error
	switch {
	case p.match(SEMICOLON):
		init = nil
	case p.match(VAR):
		init, err = p.varDecl()
	default:
		init, err = p.exprStmt()
	}
	if err != nil {
		return nil, err
	}

	var cond Expr
	if !p.check(SEMICOLON) {
		cond, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after loop condition."); err != nil {
		return nil, err
	}

	var inc Expr
	if !p.check(RIGHT_PAREN) {
		inc, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(RIGHT_PAREN, "Expect ')' after for clauses."); err != nil {
		return nil, err
	}

	body, err := p.statement()
	if err != nil {
		return nil, err
	}

	if inc != nil {
		body = NewBlockStmt([]Stmt{body, NewExprStmt(inc)})
	}
	if cond == nil {
		cond = NewLiteralExpr(true)
	}
	body = NewWhileStmt(cond, body)
	if init != nil {
		body = NewBlockStmt([]Stmt{init, body})
	}
	return body, nil
}

func (p *Parser) ifStmt() (Stmt, error) {
	if _, err := p.consume(LEFT_PAREN, "Expect '(' after 'if'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RIGHT_PAREN, "Expect ')' after if condition."); err != nil {
		return nil, err
	}

	thenBranch, err := p.statement()
	if err != nil {
		return nil, err
	}
	var elseBranch Stmt
	if p.match(ELSE) {
		elseBranch, err = p.statement()
		if err != nil {
			return nil, err
		}
	}
	return NewIfStmt(cond, thenBranch, elseBranch), nil
}

func (p *Parser) printStmt() (Stmt, error) {
	expr, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after value."); err != nil {
		return nil, err
	}
	return NewPrintStmt(expr), nil
}

func (p *Parser) returnStmt() (Stmt, error) {
	keyword := p.prev()
	var val Expr
	if !p.check(SEMICOLON) {
		var err error
		val, err = p.expression()
		if err != nil {
			return nil, err
		}
	}
	if _, err := p.consume(SEMICOLON, "Expect ';' after return value."); err != nil {
		return nil, err
	}
	return NewReturnStmt(keyword, val), nil
}

func (p *Parser) whileStmt() (Stmt, error) {
	if _, err := p.consume(LEFT_PAREN, "Expect '(' after 'while'."); err != nil {
		return nil, err
	}
	cond, err := p.expression()
	if err != nil {
		return nil, err
	}
	if _, err := p.consume(RIGHT_PAREN, "Expect ')' after condition."); err != nil {
		return nil, err
	}
	body, err := p.statement()
	if err != nil {
		return nil, err
	}
	return NewWhileStmt(cond, body), nil
}

func (p *Parser) expression() (Expr, error) {
	return p.assignment()
}

// assignment validates its parsed target per the grammar: a bare Variable
// becomes an Assign, a Get becomes a Set, anything else is reported (but
// parsing continues) as "Invalid assignment target.".
func (p *Parser) assignment() (Expr, error) {
	expr, err := p.or()
	if err != nil {
		return nil, err
	}

	if p.match(EQUAL) {
		equals := p.prev()
		val, err := p.assignment()
		if err != nil {
			return nil, err
		}

		switch e := expr.(type) {
		case *VarExpr:
			return NewAssignExpr(e.Name, val), nil
		case *GetExpr:
			return NewSetExpr(e.Obj, e.Name, val), nil
		default:
			p.reporter.Report(NewParseError(equals, "Invalid assignment target."))
			return expr, nil
		}
	}
	return expr, nil
}

func (p *Parser) or() (Expr, error) {
	expr, err := p.and()
	if err != nil {
		return nil, err
	}
	for p.match(OR) {
		op := p.prev()
		rhs, err := p.and()
		if err != nil {
			return nil, err
		}
		expr = NewLogicalExpr(op, expr, rhs)
	}
	return expr, nil
}

func (p *Parser) and() (Expr, error) {
	expr, err := p.equality()
	if err != nil {
		return nil, err
	}
	for p.match(AND) {
		op := p.prev()
		rhs, err := p.equality()
		if err != nil {
			return nil, err
		}
		expr = NewLogicalExpr(op, expr, rhs)
	}
	return expr, nil
}

func (p *Parser) equality() (Expr, error) {
	expr, err := p.comparison()
	if err != nil {
		return nil, err
	}
	for p.match(BANG_EQUAL, EQUAL_EQUAL) {
		op := p.prev()
		rhs, err := p.comparison()
		if err != nil {
			return nil, err
		}
		expr = NewBinaryExpr(op, expr, rhs)
	}
	return expr, nil
}

func (p *Parser) comparison() (Expr, error) {
	expr, err := p.term()
	if err != nil {
		return nil, err
	}
	for p.match(GREATER, GREATER_EQUAL, LESS, LESS_EQUAL) {
		op := p.prev()
		rhs, err := p.term()
		if err != nil {
			return nil, err
		}
		expr = NewBinaryExpr(op, expr, rhs)
	}
	return expr, nil
}

func (p *Parser) term() (Expr, error) {
	expr, err := p.factor()
	if err != nil {
		return nil, err
	}
	for p.match(MINUS, PLUS) {
		op := p.prev()
		rhs, err := p.factor()
		if err != nil {
			return nil, err
		}
		expr = NewBinaryExpr(op, expr, rhs)
	}
	return expr, nil
}

func (p *Parser) factor() (Expr, error) {
	expr, err := p.unary()
	if err != nil {
		return nil, err
	}
	for p.match(SLASH, STAR) {
		op := p.prev()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		expr = NewBinaryExpr(op, expr, rhs)
	}
	return expr, nil
}

func (p *Parser) unary() (Expr, error) {
	if p.match(BANG, MINUS) {
		op := p.prev()
		rhs, err := p.unary()
		if err != nil {
			return nil, err
		}
		return NewUnaryExpr(op, rhs), nil
	}
	return p.call()
}

func (p *Parser) call() (Expr, error) {
	expr, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.match(LEFT_PAREN):
			expr, err = p.finishCall(expr)
			if err != nil {
				return nil, err
			}
		case p.match(DOT):
			name, err := p.consume(IDENTIFIER, "Expect property name after '.'.")
			if err != nil {
				return nil, err
			}
			expr = NewGetExpr(expr, name)
		default:
			return expr, nil
		}
	}
}

func (p *Parser) finishCall(callee Expr) (Expr, error) {
	var args []Expr
	if !p.check(RIGHT_PAREN) {
		for {
			if len(args) >= 255 {
				p.reporter.Report(NewParseError(p.peek(), "Can't have more than 255 arguments."))
			}
			arg, err := p.expression()
			if err != nil {
				return nil, err
			}
			args = append(args, arg)
			if !p.match(COMMA) {
				break
			}
		}
	}
	paren, err := p.consume(RIGHT_PAREN, "Expect ')' after arguments.")
	if err != nil {
		return nil, err
	}
	return NewCallExpr(callee, paren, args), nil
}

func (p *Parser) primary() (Expr, error) {
	switch {
	case p.match(FALSE):
		return NewLiteralExpr(false), nil
	case p.match(TRUE):
		return NewLiteralExpr(true), nil
	case p.match(NIL):
		return NewLiteralExpr(nil), nil
	case p.match(NUMBER, STRING):
		return NewLiteralExpr(p.prev().Literal), nil
	case p.match(SUPER):
		keyword := p.prev()
		if _, err := p.consume(DOT, "Expect '.' after 'super'."); err != nil {
			return nil, err
		}
		method, err := p.consume(IDENTIFIER, "Expect superclass method name.")
		if err != nil {
			return nil, err
		}
		return NewSuperExpr(keyword, method), nil
	case p.match(THIS):
		return NewThisExpr(p.prev()), nil
	case p.match(IDENTIFIER):
		return NewVarExpr(p.prev()), nil
	case p.match(LEFT_PAREN):
		expr, err := p.expression()
		if err != nil {
			return nil, err
		}
		if _, err := p.consume(RIGHT_PAREN, "Expect ')' after expression."); err != nil {
			return nil, err
		}
		return NewGroupExpr(expr), nil
	default:
		return nil, NewParseError(p.peek(), "Expect expression.")
	}
}

// sync discards tokens until it reaches a point that plausibly begins a new
// statement, so the next declaration() call starts from a clean slate.
func (p *Parser) sync() {
	for !p.isEOF() {
		switch p.peek().Typ {
		case CLASS, FUN, VAR, FOR, IF, WHILE, PRINT, RETURN:
			return
		}
		if p.advance().Typ == SEMICOLON {
			return
		}
	}
}

func (p *Parser) match(types ...TokenType) bool {
	for _, typ := range types {
		if p.check(typ) {
			p.advance()
			return true
		}
	}
	return false
}

func (p *Parser) consume(typ TokenType, message string) (*Token, error) {
	if p.check(typ) {
		return p.advance(), nil
	}
	return nil, NewParseError(p.peek(), message)
}

func (p *Parser) check(typ TokenType) bool {
	if p.isEOF() {
		return false
	}
	return p.peek().Typ == typ
}

func (p *Parser) advance() *Token {
	if !p.isEOF() {
		p.current++
	}
	return p.prev()
}

func (p *Parser) isEOF() bool {
	return p.peek().Typ == EOF
}

func (p *Parser) peek() *Token {
	return p.tokens[p.current]
}

func (p *Parser) prev() *Token {
	return p.tokens[p.current-1]
}
