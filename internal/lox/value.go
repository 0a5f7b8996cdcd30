package lox

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Callable is any runtime value that can appear as the callee of a Call
// expression: user-defined functions, classes (calling one constructs an
// instance) and natives.
type Callable interface {
	Arity() int
	Call(in *Interpreter, args []interface{}) (interface{}, error)
	String() string
}

// Gettable is implemented by every runtime value that supports property
// access through Get/Set expressions.
type Gettable interface {
	Get(name *Token) (interface{}, error)
	Set(name *Token, val interface{}) error
}

// UserFunction is a function or method value: a declaration paired with
// the environment that was active where it was declared.
type UserFunction struct {
	declaration   *FunctionStmt
	closure       *Environment
	isInitializer bool
}

// NewUserFunction wraps a parsed function declaration as a callable value
// closing over env.
func NewUserFunction(declaration *FunctionStmt, closure *Environment, isInitializer bool) *UserFunction {
	return &UserFunction{declaration, closure, isInitializer}
}

func (fn *UserFunction) Arity() int {
	return len(fn.declaration.Params)
}

func (fn *UserFunction) Call(in *Interpreter, args []interface{}) (interface{}, error) {
	env := NewEnvironment(fn.closure)
	for i, param := range fn.declaration.Params {
		env.Define(param.Lexeme, args[i])
	}

	err := in.execBlock(fn.declaration.Body, env)
	if ret, ok := err.(*returnSignal); ok {
		if fn.isInitializer {
			return fn.closure.getAt(0, "this"), nil
		}
		return ret.value, nil
	}
	if err != nil {
		return nil, err
	}

	if fn.isInitializer {
		return fn.closure.getAt(0, "this"), nil
	}
	return nil, nil
}

func (fn *UserFunction) String() string {
	return fmt.Sprintf("<fn %s>", fn.declaration.Name.Lexeme)
}

// bind returns a new function value whose closure adds one scope defining
// "this" as instance, implementing the method-access rebinding described
// for Get on an Instance.
func (fn *UserFunction) bind(instance *Instance) *UserFunction {
	env := NewEnvironment(fn.closure)
	env.Define("this", instance)
	return NewUserFunction(fn.declaration, env, fn.isInitializer)
}

// Class is a Lox class: its own methods plus (optionally) a superclass to
// fall back to on method lookup. Calling a Class constructs an Instance.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*UserFunction
}

// NewClass creates a class value. methods is owned by the caller; once
// constructed the method table is never mutated.
func NewClass(name string, superclass *Class, methods map[string]*UserFunction) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

func (c *Class) FindMethod(name string) (*UserFunction, bool) {
	if fn, ok := c.Methods[name]; ok {
		return fn, true
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil, false
}

func (c *Class) Arity() int {
	if init, ok := c.FindMethod("init"); ok {
		return init.Arity()
	}
	return 0
}

func (c *Class) Call(in *Interpreter, args []interface{}) (interface{}, error) {
	instance := NewInstance(c)
	if init, ok := c.FindMethod("init"); ok {
		if _, err := init.bind(instance).Call(in, args); err != nil {
			return nil, err
		}
	}
	return instance, nil
}

func (c *Class) String() string {
	return c.Name + " class"
}

// Instance is a runtime object: a reference to its class plus mutable
// fields. Fields are created on first assignment.
type Instance struct {
	Class  *Class
	Fields map[string]interface{}
}

// NewInstance creates a fieldless instance of class.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: make(map[string]interface{})}
}

func (inst *Instance) Get(name *Token) (interface{}, error) {
	if val, ok := inst.Fields[name.Lexeme]; ok {
		return val, nil
	}
	if method, ok := inst.Class.FindMethod(name.Lexeme); ok {
		return method.bind(inst), nil
	}
	return nil, NewRuntimeError(name, "Undefined property '"+name.Lexeme+"'.")
}

func (inst *Instance) Set(name *Token, val interface{}) error {
	inst.Fields[name.Lexeme] = val
	return nil
}

func (inst *Instance) String() string {
	return inst.Class.Name + " instance"
}

// NativeFunction wraps a Go function as a callable Lox value, used for
// built-ins like clock and the list constructor.
type NativeFunction struct {
	name  string
	arity int
	kind  string // "fn" or "class", only affects stringification
	fn    func(in *Interpreter, args []interface{}) (interface{}, error)
}

func (n *NativeFunction) Arity() int {
	return n.arity
}

func (n *NativeFunction) Call(in *Interpreter, args []interface{}) (interface{}, error) {
	return n.fn(in, args)
}

func (n *NativeFunction) String() string {
	if n.kind == "class" {
		return "<native class>"
	}
	return "<native fn>"
}

// newClockFn returns the native clock() builtin: seconds since Unix epoch.
func newClockFn() *NativeFunction {
	return &NativeFunction{
		name: "clock", arity: 0, kind: "fn",
		fn: func(in *Interpreter, args []interface{}) (interface{}, error) {
			return time.Since(time.Unix(0, 0)).Seconds(), nil
		},
	}
}

// newListFn returns the native list() constructor: arity 0, produces a
// fresh NativeList each call.
func newListFn() *NativeFunction {
	return &NativeFunction{
		name: "list", arity: 0, kind: "class",
		fn: func(in *Interpreter, args []interface{}) (interface{}, error) {
			return NewNativeList(), nil
		},
	}
}

// NativeList is the runtime representation of the builtin list() type. It
// implements Gettable directly rather than through a field map: every
// property access resolves to one of its built-in methods.
type NativeList struct {
	elems []interface{}
}

// NewNativeList creates an empty list instance.
func NewNativeList() *NativeList {
	return &NativeList{}
}

func (l *NativeList) Get(name *Token) (interface{}, error) {
	switch name.Lexeme {
	case "add":
		return l.method(1, func(in *Interpreter, args []interface{}) (interface{}, error) {
			l.elems = append(l.elems, args[0])
			return l, nil
		}), nil
	case "clear":
		return l.method(0, func(in *Interpreter, args []interface{}) (interface{}, error) {
			l.elems = nil
			return l, nil
		}), nil
	case "get":
		return l.method(1, func(in *Interpreter, args []interface{}) (interface{}, error) {
			i, err := l.index(name, args[0])
			if err != nil {
				return nil, err
			}
			return l.elems[i], nil
		}), nil
	case "length":
		return l.method(0, func(in *Interpreter, args []interface{}) (interface{}, error) {
			return float64(len(l.elems)), nil
		}), nil
	case "remove":
		return l.method(1, func(in *Interpreter, args []interface{}) (interface{}, error) {
			i, err := l.index(name, args[0])
			if err != nil {
				return nil, err
			}
			l.elems = append(l.elems[:i], l.elems[i+1:]...)
			return l, nil
		}), nil
	case "set":
		return l.method(2, func(in *Interpreter, args []interface{}) (interface{}, error) {
			i, err := l.index(name, args[0])
			if err != nil {
				return nil, err
			}
			l.elems[i] = args[1]
			return l, nil
		}), nil
	case "toString":
		return l.method(0, func(in *Interpreter, args []interface{}) (interface{}, error) {
			return l.String(), nil
		}), nil
	}
	return nil, NewRuntimeError(name, "Undefined property '"+name.Lexeme+"'.")
}

func (l *NativeList) Set(name *Token, val interface{}) error {
	return NewRuntimeError(name, "Can't set properties on a native instance.")
}

func (l *NativeList) method(arity int, fn func(in *Interpreter, args []interface{}) (interface{}, error)) *NativeFunction {
	return &NativeFunction{name: "list method", arity: arity, kind: "fn", fn: fn}
}

func (l *NativeList) index(name *Token, v interface{}) (int, error) {
	f, ok := v.(float64)
	if !ok || f != float64(int(f)) {
		return 0, NewRuntimeError(name, "List index must be an integer.")
	}
	i := int(f)
	if i < 0 || i >= len(l.elems) {
		return 0, NewRuntimeError(name, "List index out of range.")
	}
	return i, nil
}

func (l *NativeList) String() string {
	parts := make([]string, len(l.elems))
	for i, e := range l.elems {
		parts[i] = stringify(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// stringify renders a runtime value the way Print writes it to stdout.
func stringify(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return "nil"
	case bool:
		if val {
			return "true"
		}
		return "false"
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case string:
		return val
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
