package lox

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

// run drives the full scan -> parse -> resolve -> interpret pipeline over
// src and returns everything written to stdout.
func run(src string) (string, *mockReporter) {
	var out bytes.Buffer
	reporter := &mockReporter{}

	scanner := NewScanner([]rune(src), reporter)
	tokens := scanner.Scan()
	parser := NewParser(tokens, reporter)
	stmts := parser.Parse()
	if reporter.HadError() {
		return out.String(), reporter
	}

	interpreter := NewInterpreter(&out, reporter)
	resolver := NewResolver(interpreter, reporter)
	resolver.Resolve(stmts)
	if reporter.HadError() {
		return out.String(), reporter
	}

	interpreter.Interpret(stmts)
	return out.String(), reporter
}

func TestInterpreterPrintHelloWorld(t *testing.T) {
	assert := assert.New(t)
	out, reporter := run(`print "hello world";`)
	assert.False(reporter.HadError())
	assert.False(reporter.HadRuntimeError())
	assert.Equal("hello world\n", out)
}

func TestInterpreterBlockScoping(t *testing.T) {
	assert := assert.New(t)
	out, reporter := run(`var x = 1; { var x = 2; print x; } print x;`)
	assert.False(reporter.HadError())
	assert.Equal("2\n1\n", out)
}

func TestInterpreterClosureCapturesIndependentState(t *testing.T) {
	assert := assert.New(t)
	out, reporter := run(`
		fun make() {
			var i = 0;
			fun inc() { i = i + 1; return i; }
			return inc;
		}
		var f = make();
		print f();
		print f();
		print f();
	`)
	assert.False(reporter.HadError())
	assert.Equal("1\n2\n3\n", out)
}

func TestInterpreterClassAndMethodCall(t *testing.T) {
	assert := assert.New(t)
	out, reporter := run(`class A { greet() { print "hi"; } } A().greet();`)
	assert.False(reporter.HadError())
	assert.Equal("hi\n", out)
}

func TestInterpreterInheritanceAndSuperInit(t *testing.T) {
	assert := assert.New(t)
	out, reporter := run(`
		class A { init(n) { this.n = n; } }
		class B < A { init(n) { super.init(n); this.n = this.n + 1; } }
		print B(5).n;
	`)
	assert.False(reporter.HadError())
	assert.Equal("6\n", out)
}

func TestInterpreterUnterminatedStringIsScanError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := run(`print "hi`)
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "Unterminated string.")
}

func TestInterpreterUnexpectedCharacterIsScanError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := run("var x = @;")
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "Unexpected character.")
}

func TestInterpreterMixedAdditionIsRuntimeError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := run(`print 1 + "x";`)
	assert.True(reporter.HadRuntimeError())
	assert.Contains(reporter.errs[0].Error(), "Operands must be two numbers or two strings.")
	assert.Contains(reporter.errs[0].Error(), "[line 1]")
}

func TestInterpreterListBuiltin(t *testing.T) {
	assert := assert.New(t)
	out, reporter := run(`var a = list(); a.add(1); a.add(2); print a.toString();`)
	assert.False(reporter.HadError())
	assert.False(reporter.HadRuntimeError())
	assert.Equal("[1, 2]\n", out)
}

func TestInterpreterForLoop(t *testing.T) {
	assert := assert.New(t)
	out, reporter := run(`for (var i = 0; i < 3; i = i + 1) print i;`)
	assert.False(reporter.HadError())
	assert.Equal("0\n1\n2\n", out)
}

func TestInterpreterTruthiness(t *testing.T) {
	assert := assert.New(t)
	out, _ := run(`
		if (nil) print "a"; else print "b";
		if (false) print "a"; else print "b";
		if (0) print "a"; else print "b";
		if ("") print "a"; else print "b";
	`)
	assert.Equal("b\nb\na\na\n", out)
}

func TestInterpreterLogicalShortCircuit(t *testing.T) {
	assert := assert.New(t)
	out, _ := run(`
		fun sideEffect() { print "evaluated"; return true; }
		print false and sideEffect();
		print true or sideEffect();
	`)
	assert.Equal("false\ntrue\n", out)
}

func TestInterpreterUndefinedVariableIsRuntimeError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := run(`print nope;`)
	assert.True(reporter.HadRuntimeError())
	assert.Contains(reporter.errs[0].Error(), "Undefined variable 'nope'.")
}

func TestInterpreterCallingNonCallableIsRuntimeError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := run(`var x = 1; x();`)
	assert.True(reporter.HadRuntimeError())
	assert.Contains(reporter.errs[0].Error(), "Can only call functions and classes.")
}

func TestInterpreterWrongArityIsRuntimeError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := run(`fun f(a, b) { return a + b; } f(1);`)
	assert.True(reporter.HadRuntimeError())
	assert.Contains(reporter.errs[0].Error(), "Expected 2 arguments but got 1.")
}

func TestInterpreterClockIsNumber(t *testing.T) {
	assert := assert.New(t)
	_, reporter := run(`print clock() > 0;`)
	assert.False(reporter.HadError())
	assert.False(reporter.HadRuntimeError())
}

func TestInterpreterSuperclassMustBeClass(t *testing.T) {
	assert := assert.New(t)
	_, reporter := run(`var NotAClass = 1; class A < NotAClass {}`)
	assert.True(reporter.HadRuntimeError())
	assert.Contains(reporter.errs[0].Error(), "Superclass must be a class.")
}
