package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func resolveSource(src string) (*Interpreter, *mockReporter) {
	reporter := &mockReporter{}
	scanner := NewScanner([]rune(src), reporter)
	tokens := scanner.Scan()
	parser := NewParser(tokens, reporter)
	stmts := parser.Parse()

	interpreter := NewInterpreter(nil, reporter)
	resolver := NewResolver(interpreter, reporter)
	resolver.Resolve(stmts)
	return interpreter, reporter
}

func TestResolverLocalVariableDistance(t *testing.T) {
	assert := assert.New(t)
	interpreter, reporter := resolveSource(`{ var x = 1; { print x; } }`)
	assert.False(reporter.HadError())
	// the only resolved reference is x, used one block inside its declaration
	assert.Len(interpreter.locals, 1)
	for _, dist := range interpreter.locals {
		assert.Equal(1, dist)
	}
}

func TestResolverSelfInitializationError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := resolveSource(`{ var a = a; }`)
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "Can't read local variable in its own initializer.")
}

func TestResolverDuplicateDeclarationError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := resolveSource(`{ var a = 1; var a = 2; }`)
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "Already a variable with this name in this scope.")
}

func TestResolverTopLevelReturnError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := resolveSource(`return 1;`)
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "Can't return from top-level code.")
}

func TestResolverReturnValueInInitializerError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := resolveSource(`class A { init() { return 1; } }`)
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "Can't return a value from an initializer.")
}

func TestResolverThisOutsideClassError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := resolveSource(`print this;`)
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "Can't use 'this' outside of a class.")
}

func TestResolverSuperOutsideClassError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := resolveSource(`print super.foo;`)
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "Can't use 'super' outside of a class.")
}

func TestResolverSuperWithoutSuperclassError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := resolveSource(`class A { foo() { super.foo(); } }`)
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "Can't use 'super' in a class with no superclass.")
}

func TestResolverClassInheritingFromItselfError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := resolveSource(`class A < A {}`)
	assert.True(reporter.HadError())
	assert.Contains(reporter.errs[0].Error(), "A class can't inherit from itself.")
}

func TestResolverValidClassWithSuperclassNoError(t *testing.T) {
	assert := assert.New(t)
	_, reporter := resolveSource(`
		class A { greet() { print "hi"; } }
		class B < A { greet() { super.greet(); } }
	`)
	assert.False(reporter.HadError())
}
