package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func scanAndParse(src string) ([]Stmt, *mockReporter) {
	reporter := &mockReporter{}
	scanner := NewScanner([]rune(src), reporter)
	tokens := scanner.Scan()
	parser := NewParser(tokens, reporter)
	return parser.Parse(), reporter
}

func TestParserLiteralExprStmt(t *testing.T) {
	assert := assert.New(t)
	stmts, reporter := scanAndParse("1;")
	assert.False(reporter.HadError())
	assert.Len(stmts, 1)

	exprStmt, ok := stmts[0].(*ExprStmt)
	assert.True(ok)
	lit, ok := exprStmt.Expr.(*LiteralExpr)
	assert.True(ok)
	assert.Equal(float64(1), lit.Val)
}

func TestParserBinaryPrecedence(t *testing.T) {
	assert := assert.New(t)
	stmts, reporter := scanAndParse("1 + 2 * 3;")
	assert.False(reporter.HadError())

	exprStmt := stmts[0].(*ExprStmt)
	add, ok := exprStmt.Expr.(*BinaryExpr)
	assert.True(ok)
	assert.Equal(PLUS, add.Op.Typ)

	mul, ok := add.Rhs.(*BinaryExpr)
	assert.True(ok)
	assert.Equal(STAR, mul.Op.Typ)
}

func TestParserAssignmentTarget(t *testing.T) {
	assert := assert.New(t)
	stmts, reporter := scanAndParse("x = 1;")
	assert.False(reporter.HadError())

	exprStmt := stmts[0].(*ExprStmt)
	assign, ok := exprStmt.Expr.(*AssignExpr)
	assert.True(ok)
	assert.Equal("x", assign.Name.Lexeme)
}

func TestParserInvalidAssignmentTarget(t *testing.T) {
	assert := assert.New(t)
	_, reporter := scanAndParse("1 = 2;")
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "Invalid assignment target.")
}

func TestParserVarDecl(t *testing.T) {
	assert := assert.New(t)
	stmts, reporter := scanAndParse("var x = 1;")
	assert.False(reporter.HadError())

	varStmt, ok := stmts[0].(*VarStmt)
	assert.True(ok)
	assert.Equal("x", varStmt.Name.Lexeme)
	assert.NotNil(varStmt.Init)
}

func TestParserForDesugarsToWhile(t *testing.T) {
	assert := assert.New(t)
	stmts, reporter := scanAndParse("for (var i = 0; i < 3; i = i + 1) print i;")
	assert.False(reporter.HadError())

	outer, ok := stmts[0].(*BlockStmt)
	assert.True(ok)
	assert.Len(outer.Stmts, 2)
	_, isVar := outer.Stmts[0].(*VarStmt)
	assert.True(isVar)
	whileStmt, ok := outer.Stmts[1].(*WhileStmt)
	assert.True(ok)

	body, ok := whileStmt.Body.(*BlockStmt)
	assert.True(ok)
	assert.Len(body.Stmts, 2)
}

func TestParserForWithoutClausesDefaultsConditionToTrue(t *testing.T) {
	assert := assert.New(t)
	stmts, reporter := scanAndParse("for (;;) print 1;")
	assert.False(reporter.HadError())

	whileStmt, ok := stmts[0].(*WhileStmt)
	assert.True(ok)
	lit, ok := whileStmt.Cond.(*LiteralExpr)
	assert.True(ok)
	assert.Equal(true, lit.Val)
}

func TestParserClassDecl(t *testing.T) {
	assert := assert.New(t)
	stmts, reporter := scanAndParse("class A < B { greet() { print 1; } }")
	assert.False(reporter.HadError())

	classStmt, ok := stmts[0].(*ClassStmt)
	assert.True(ok)
	assert.Equal("A", classStmt.Name.Lexeme)
	assert.Equal("B", classStmt.Superclass.Name.Lexeme)
	assert.Len(classStmt.Methods, 1)
	assert.Equal("greet", classStmt.Methods[0].Name.Lexeme)
}

func TestParserCallAndGetChaining(t *testing.T) {
	assert := assert.New(t)
	stmts, reporter := scanAndParse("a.b().c;")
	assert.False(reporter.HadError())

	exprStmt := stmts[0].(*ExprStmt)
	get, ok := exprStmt.Expr.(*GetExpr)
	assert.True(ok)
	assert.Equal("c", get.Name.Lexeme)

	_, ok = get.Obj.(*CallExpr)
	assert.True(ok)
}

func TestParserSuperExpression(t *testing.T) {
	assert := assert.New(t)
	stmts, reporter := scanAndParse("class A < B { init() { super.init(); } }")
	assert.False(reporter.HadError())

	classStmt := stmts[0].(*ClassStmt)
	body := classStmt.Methods[0].Body
	exprStmt := body[0].(*ExprStmt)
	call := exprStmt.Expr.(*CallExpr)
	super, ok := call.Callee.(*SuperExpr)
	assert.True(ok)
	assert.Equal("init", super.Method.Lexeme)
}

func TestParserMissingSemicolonReportsErrorAndSynchronizes(t *testing.T) {
	assert := assert.New(t)
	stmts, reporter := scanAndParse("var x = 1 var y = 2;")
	assert.True(reporter.HadError())
	// recovers enough to parse the second declaration
	assert.Len(stmts, 1)
	varStmt := stmts[0].(*VarStmt)
	assert.Equal("y", varStmt.Name.Lexeme)
}

func TestParserTooManyArguments(t *testing.T) {
	assert := assert.New(t)
	args := ""
	for i := 0; i < 256; i++ {
		if i > 0 {
			args += ", "
		}
		args += "1"
	}
	_, reporter := scanAndParse("f(" + args + ");")
	assert.True(reporter.HadError())
}
