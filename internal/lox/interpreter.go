package lox

import (
	"fmt"
	"io"
)

// returnSignal is the control-flow value used to unwind a function call
// when a Return statement executes, possibly through several nested
// blocks. It satisfies the error interface purely so it can ride the same
// (interface{}, error) return path every exec/eval call already uses;
// callers must check for it with a type assertion rather than treating it
// as a real failure.
type returnSignal struct {
	value interface{}
}

func (r *returnSignal) Error() string {
	return "return"
}

// Interpreter walks a resolved AST, evaluating expressions and executing
// statements against a chain of Environments.
type Interpreter struct {
	globals     *Environment
	environment *Environment
	locals      map[Expr]int
	writer      io.Writer
	reporter    Reporter
}

// NewInterpreter creates an interpreter that writes Print output to writer
// and reports runtime errors to reporter. The global environment is seeded
// with the native clock and list builtins.
func NewInterpreter(writer io.Writer, reporter Reporter) *Interpreter {
	globals := NewEnvironment(nil)
	globals.Define("clock", newClockFn())
	globals.Define("list", newListFn())

	return &Interpreter{
		globals:     globals,
		environment: globals,
		locals:      make(map[Expr]int),
		writer:      writer,
		reporter:    reporter,
	}
}

// Interpret executes stmts in order, stopping and reporting on the first
// runtime error.
func (in *Interpreter) Interpret(stmts []Stmt) {
	for _, stmt := range stmts {
		if err := in.exec(stmt); err != nil {
			in.reporter.Report(err)
			return
		}
	}
}

// resolve records the scope distance the Resolver computed for expr. It is
// the side table described as owned by the interpreter: the resolver
// writes it, the interpreter's Variable/Assign/This/Super evaluation reads
// it.
func (in *Interpreter) resolve(expr Expr, depth int) {
	in.locals[expr] = depth
}

func (in *Interpreter) exec(stmt Stmt) error {
	_, err := stmt.Accept(in)
	return err
}

func (in *Interpreter) eval(expr Expr) (interface{}, error) {
	return expr.Accept(in)
}

// execBlock runs stmts against a fresh environment, restoring the
// interpreter's previous environment before returning even on error or
// non-local return.
func (in *Interpreter) execBlock(stmts []Stmt, env *Environment) error {
	prev := in.environment
	in.environment = env
	defer func() { in.environment = prev }()

	for _, stmt := range stmts {
		if err := in.exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

func (in *Interpreter) VisitBlockStmt(stmt *BlockStmt) (interface{}, error) {
	return nil, in.execBlock(stmt.Stmts, NewEnvironment(in.environment))
}

func (in *Interpreter) VisitClassStmt(stmt *ClassStmt) (interface{}, error) {
	var superclass *Class
	if stmt.Superclass != nil {
		val, err := in.eval(stmt.Superclass)
		if err != nil {
			return nil, err
		}
		class, ok := val.(*Class)
		if !ok {
			return nil, NewRuntimeError(stmt.Superclass.Name, "Superclass must be a class.")
		}
		superclass = class
	}

	in.environment.Define(stmt.Name.Lexeme, nil)

	env := in.environment
	if stmt.Superclass != nil {
		env = NewEnvironment(in.environment)
		env.Define("super", superclass)
	}

	methods := make(map[string]*UserFunction, len(stmt.Methods))
	for _, method := range stmt.Methods {
		methods[method.Name.Lexeme] = NewUserFunction(method, env, method.Name.Lexeme == "init")
	}

	class := NewClass(stmt.Name.Lexeme, superclass, methods)
	return nil, in.environment.Assign(stmt.Name, class)
}

func (in *Interpreter) VisitExprStmt(stmt *ExprStmt) (interface{}, error) {
	_, err := in.eval(stmt.Expr)
	return nil, err
}

func (in *Interpreter) VisitFunctionStmt(stmt *FunctionStmt) (interface{}, error) {
	fn := NewUserFunction(stmt, in.environment, false)
	in.environment.Define(stmt.Name.Lexeme, fn)
	return nil, nil
}

func (in *Interpreter) VisitIfStmt(stmt *IfStmt) (interface{}, error) {
	cond, err := in.eval(stmt.Cond)
	if err != nil {
		return nil, err
	}
	if isTruthy(cond) {
		return nil, in.exec(stmt.ThenBranch)
	}
	if stmt.ElseBranch != nil {
		return nil, in.exec(stmt.ElseBranch)
	}
	return nil, nil
}

func (in *Interpreter) VisitPrintStmt(stmt *PrintStmt) (interface{}, error) {
	val, err := in.eval(stmt.Expr)
	if err != nil {
		return nil, err
	}
	fmt.Fprintln(in.writer, stringify(val))
	return nil, nil
}

func (in *Interpreter) VisitReturnStmt(stmt *ReturnStmt) (interface{}, error) {
	var val interface{}
	if stmt.Val != nil {
		var err error
		val, err = in.eval(stmt.Val)
		if err != nil {
			return nil, err
		}
	}
	return nil, &returnSignal{val}
}

func (in *Interpreter) VisitVarStmt(stmt *VarStmt) (interface{}, error) {
	var val interface{}
	if stmt.Init != nil {
		var err error
		val, err = in.eval(stmt.Init)
		if err != nil {
			return nil, err
		}
	}
	in.environment.Define(stmt.Name.Lexeme, val)
	return nil, nil
}

func (in *Interpreter) VisitWhileStmt(stmt *WhileStmt) (interface{}, error) {
	for {
		cond, err := in.eval(stmt.Cond)
		if err != nil {
			return nil, err
		}
		if !isTruthy(cond) {
			return nil, nil
		}
		if err := in.exec(stmt.Body); err != nil {
			return nil, err
		}
	}
}

func (in *Interpreter) VisitAssignExpr(expr *AssignExpr) (interface{}, error) {
	val, err := in.eval(expr.Val)
	if err != nil {
		return nil, err
	}

	if dist, ok := in.locals[expr]; ok {
		in.environment.assignAt(dist, expr.Name, val)
	} else if err := in.globals.Assign(expr.Name, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (in *Interpreter) VisitBinaryExpr(expr *BinaryExpr) (interface{}, error) {
	lhs, err := in.eval(expr.Lhs)
	if err != nil {
		return nil, err
	}
	rhs, err := in.eval(expr.Rhs)
	if err != nil {
		return nil, err
	}

	switch expr.Op.Typ {
	case PLUS:
		if lf, ok := lhs.(float64); ok {
			if rf, ok := rhs.(float64); ok {
				return lf + rf, nil
			}
		}
		if ls, ok := lhs.(string); ok {
			if rs, ok := rhs.(string); ok {
				return ls + rs, nil
			}
		}
		return nil, NewRuntimeError(expr.Op, "Operands must be two numbers or two strings.")
	case MINUS:
		lf, rf, err := numericOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return lf - rf, nil
	case SLASH:
		lf, rf, err := numericOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return lf / rf, nil
	case STAR:
		lf, rf, err := numericOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return lf * rf, nil
	case GREATER:
		lf, rf, err := numericOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return lf > rf, nil
	case GREATER_EQUAL:
		lf, rf, err := numericOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return lf >= rf, nil
	case LESS:
		lf, rf, err := numericOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return lf < rf, nil
	case LESS_EQUAL:
		lf, rf, err := numericOperands(expr.Op, lhs, rhs)
		if err != nil {
			return nil, err
		}
		return lf <= rf, nil
	case BANG_EQUAL:
		return !isEqual(lhs, rhs), nil
	case EQUAL_EQUAL:
		return isEqual(lhs, rhs), nil
	}
	return nil, NewRuntimeError(expr.Op, "Unknown binary operator.")
}

func (in *Interpreter) VisitCallExpr(expr *CallExpr) (interface{}, error) {
	callee, err := in.eval(expr.Callee)
	if err != nil {
		return nil, err
	}

	args := make([]interface{}, len(expr.Args))
	for i, argExpr := range expr.Args {
		val, err := in.eval(argExpr)
		if err != nil {
			return nil, err
		}
		args[i] = val
	}

	callable, ok := callee.(Callable)
	if !ok {
		return nil, NewRuntimeError(expr.Paren, "Can only call functions and classes.")
	}
	if len(args) != callable.Arity() {
		return nil, NewRuntimeError(expr.Paren, fmt.Sprintf("Expected %d arguments but got %d.", callable.Arity(), len(args)))
	}
	return callable.Call(in, args)
}

func (in *Interpreter) VisitGetExpr(expr *GetExpr) (interface{}, error) {
	obj, err := in.eval(expr.Obj)
	if err != nil {
		return nil, err
	}
	gettable, ok := obj.(Gettable)
	if !ok {
		return nil, NewRuntimeError(expr.Name, "Only instances have fields.")
	}
	return gettable.Get(expr.Name)
}

func (in *Interpreter) VisitGroupExpr(expr *GroupExpr) (interface{}, error) {
	return in.eval(expr.Expr)
}

func (in *Interpreter) VisitLiteralExpr(expr *LiteralExpr) (interface{}, error) {
	return expr.Val, nil
}

func (in *Interpreter) VisitLogicalExpr(expr *LogicalExpr) (interface{}, error) {
	lhs, err := in.eval(expr.Lhs)
	if err != nil {
		return nil, err
	}
	if expr.Op.Typ == OR {
		if isTruthy(lhs) {
			return lhs, nil
		}
	} else if !isTruthy(lhs) {
		return lhs, nil
	}
	return in.eval(expr.Rhs)
}

func (in *Interpreter) VisitSetExpr(expr *SetExpr) (interface{}, error) {
	obj, err := in.eval(expr.Obj)
	if err != nil {
		return nil, err
	}
	gettable, ok := obj.(Gettable)
	if !ok {
		return nil, NewRuntimeError(expr.Name, "Only instances have fields.")
	}
	val, err := in.eval(expr.Val)
	if err != nil {
		return nil, err
	}
	if err := gettable.Set(expr.Name, val); err != nil {
		return nil, err
	}
	return val, nil
}

func (in *Interpreter) VisitSuperExpr(expr *SuperExpr) (interface{}, error) {
	dist := in.locals[expr]
	superclass, _ := in.environment.getAt(dist, "super").(*Class)
	instance, _ := in.environment.getAt(dist-1, "this").(*Instance)

	method, ok := superclass.FindMethod(expr.Method.Lexeme)
	if !ok {
		return nil, NewRuntimeError(expr.Method, "Undefined property '"+expr.Method.Lexeme+"'.")
	}
	return method.bind(instance), nil
}

func (in *Interpreter) VisitThisExpr(expr *ThisExpr) (interface{}, error) {
	return in.lookupVariable(expr.Keyword, expr)
}

func (in *Interpreter) VisitUnaryExpr(expr *UnaryExpr) (interface{}, error) {
	rhs, err := in.eval(expr.Expr)
	if err != nil {
		return nil, err
	}
	switch expr.Op.Typ {
	case BANG:
		return !isTruthy(rhs), nil
	case MINUS:
		f, ok := rhs.(float64)
		if !ok {
			return nil, NewRuntimeError(expr.Op, "Operand must be a number.")
		}
		return -f, nil
	}
	return nil, NewRuntimeError(expr.Op, "Unknown unary operator.")
}

func (in *Interpreter) VisitVarExpr(expr *VarExpr) (interface{}, error) {
	return in.lookupVariable(expr.Name, expr)
}

// lookupVariable reads a Variable/This reference through the resolver's
// scope-distance table when present, falling back to the global
// environment when absent — the "missing means global" invariant.
func (in *Interpreter) lookupVariable(name *Token, expr Expr) (interface{}, error) {
	if dist, ok := in.locals[expr]; ok {
		return in.environment.getAt(dist, name.Lexeme), nil
	}
	return in.globals.Get(name)
}

func numericOperands(op *Token, lhs, rhs interface{}) (float64, float64, error) {
	lf, lok := lhs.(float64)
	rf, rok := rhs.(float64)
	if !lok || !rok {
		return 0, 0, NewRuntimeError(op, "Operands must be numbers.")
	}
	return lf, rf, nil
}

// isTruthy implements Lox's truthiness rule: only nil and false are falsey.
func isTruthy(v interface{}) bool {
	if v == nil {
		return false
	}
	if b, ok := v.(bool); ok {
		return b
	}
	return true
}

// isEqual implements Value equality: same tag required, then value
// equality for primitives and identity equality (via ==) for everything
// else, which for Go pointers and interface values is exactly identity.
func isEqual(a, b interface{}) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return a == b
}
