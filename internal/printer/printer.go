// Package printer renders parsed Lox statements as parenthesized
// s-expressions. It is a standalone consumer of internal/lox's AST, not
// part of the scan/parse/resolve/interpret pipeline, used by the CLI's
// -p/--print mode and by the standalone ast_printer command.
package printer

import (
	"fmt"
	"strings"

	"github.com/munen/glox/internal/lox"
)

// AstPrinter walks statements and expressions, producing one fully
// parenthesized line per top-level statement.
type AstPrinter struct{}

// Print renders a single top-level statement as one line.
func (p *AstPrinter) Print(stmt lox.Stmt) string {
	v, err := stmt.Accept(p)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}

func (p *AstPrinter) printExpr(expr lox.Expr) string {
	v, _ := expr.Accept(p)
	return fmt.Sprintf("%v", v)
}

func (p *AstPrinter) parenthesize(name string, exprs ...lox.Expr) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = p.printExpr(e)
	}
	if len(parts) == 0 {
		return "(" + name + ")"
	}
	return "(" + name + " " + strings.Join(parts, " ") + ")"
}

func (p *AstPrinter) VisitAssignExpr(expr *lox.AssignExpr) (interface{}, error) {
	return p.parenthesize("= "+expr.Name.Lexeme, expr.Val), nil
}

func (p *AstPrinter) VisitBinaryExpr(expr *lox.BinaryExpr) (interface{}, error) {
	return p.parenthesize(expr.Op.Lexeme, expr.Lhs, expr.Rhs), nil
}

func (p *AstPrinter) VisitCallExpr(expr *lox.CallExpr) (interface{}, error) {
	exprs := append([]lox.Expr{expr.Callee}, expr.Args...)
	return p.parenthesize("call", exprs...), nil
}

func (p *AstPrinter) VisitGetExpr(expr *lox.GetExpr) (interface{}, error) {
	return p.parenthesize("get "+expr.Name.Lexeme, expr.Obj), nil
}

func (p *AstPrinter) VisitGroupExpr(expr *lox.GroupExpr) (interface{}, error) {
	return p.parenthesize("group", expr.Expr), nil
}

func (p *AstPrinter) VisitLiteralExpr(expr *lox.LiteralExpr) (interface{}, error) {
	if expr.Val == nil {
		return "nil", nil
	}
	switch v := expr.Val.(type) {
	case string:
		return v, nil
	case float64:
		return fmt.Sprintf("%v", v), nil
	case bool:
		if v {
			return "true", nil
		}
		return "false", nil
	default:
		return fmt.Sprintf("%v", v), nil
	}
}

func (p *AstPrinter) VisitLogicalExpr(expr *lox.LogicalExpr) (interface{}, error) {
	return p.parenthesize(expr.Op.Lexeme, expr.Lhs, expr.Rhs), nil
}

func (p *AstPrinter) VisitSetExpr(expr *lox.SetExpr) (interface{}, error) {
	return p.parenthesize("set "+expr.Name.Lexeme, expr.Obj, expr.Val), nil
}

func (p *AstPrinter) VisitSuperExpr(expr *lox.SuperExpr) (interface{}, error) {
	return "(super " + expr.Method.Lexeme + ")", nil
}

func (p *AstPrinter) VisitThisExpr(expr *lox.ThisExpr) (interface{}, error) {
	return "this", nil
}

func (p *AstPrinter) VisitUnaryExpr(expr *lox.UnaryExpr) (interface{}, error) {
	return p.parenthesize(expr.Op.Lexeme, expr.Expr), nil
}

func (p *AstPrinter) VisitVarExpr(expr *lox.VarExpr) (interface{}, error) {
	return expr.Name.Lexeme, nil
}

func (p *AstPrinter) VisitBlockStmt(stmt *lox.BlockStmt) (interface{}, error) {
	parts := make([]string, len(stmt.Stmts))
	for i, s := range stmt.Stmts {
		parts[i] = p.Print(s)
	}
	return "(block " + strings.Join(parts, " ") + ")", nil
}

func (p *AstPrinter) VisitClassStmt(stmt *lox.ClassStmt) (interface{}, error) {
	name := stmt.Name.Lexeme
	if stmt.Superclass != nil {
		name += " < " + stmt.Superclass.Name.Lexeme
	}
	parts := make([]string, len(stmt.Methods))
	for i, m := range stmt.Methods {
		parts[i] = p.Print(m)
	}
	return "(class " + name + " " + strings.Join(parts, " ") + ")", nil
}

func (p *AstPrinter) VisitExprStmt(stmt *lox.ExprStmt) (interface{}, error) {
	return p.parenthesize(";", stmt.Expr), nil
}

func (p *AstPrinter) VisitFunctionStmt(stmt *lox.FunctionStmt) (interface{}, error) {
	params := make([]string, len(stmt.Params))
	for i, param := range stmt.Params {
		params[i] = param.Lexeme
	}
	body := make([]string, len(stmt.Body))
	for i, s := range stmt.Body {
		body[i] = p.Print(s)
	}
	return fmt.Sprintf("(fun %s(%s) %s)", stmt.Name.Lexeme, strings.Join(params, " "), strings.Join(body, " ")), nil
}

func (p *AstPrinter) VisitIfStmt(stmt *lox.IfStmt) (interface{}, error) {
	if stmt.ElseBranch == nil {
		return fmt.Sprintf("(if %s %s)", p.printExpr(stmt.Cond), p.Print(stmt.ThenBranch)), nil
	}
	return fmt.Sprintf("(if %s %s %s)", p.printExpr(stmt.Cond), p.Print(stmt.ThenBranch), p.Print(stmt.ElseBranch)), nil
}

func (p *AstPrinter) VisitPrintStmt(stmt *lox.PrintStmt) (interface{}, error) {
	return p.parenthesize("print", stmt.Expr), nil
}

func (p *AstPrinter) VisitReturnStmt(stmt *lox.ReturnStmt) (interface{}, error) {
	if stmt.Val == nil {
		return "(return)", nil
	}
	return p.parenthesize("return", stmt.Val), nil
}

func (p *AstPrinter) VisitVarStmt(stmt *lox.VarStmt) (interface{}, error) {
	if stmt.Init == nil {
		return "(var " + stmt.Name.Lexeme + ")", nil
	}
	return p.parenthesize("var "+stmt.Name.Lexeme, stmt.Init), nil
}

func (p *AstPrinter) VisitWhileStmt(stmt *lox.WhileStmt) (interface{}, error) {
	return fmt.Sprintf("(while %s %s)", p.printExpr(stmt.Cond), p.Print(stmt.Body)), nil
}
