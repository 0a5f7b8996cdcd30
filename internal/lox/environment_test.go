package lox

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnvironmentDefineAndGet(t *testing.T) {
	assert := assert.New(t)
	env := NewEnvironment(nil)
	env.Define("x", float64(1))

	val, err := env.Get(NewToken(IDENTIFIER, "x", nil, 1))
	assert.NoError(err)
	assert.Equal(float64(1), val)
}

func TestEnvironmentGetUndefined(t *testing.T) {
	assert := assert.New(t)
	env := NewEnvironment(nil)
	_, err := env.Get(NewToken(IDENTIFIER, "nope", nil, 1))
	assert.Error(err)
}

func TestEnvironmentGetWalksEnclosing(t *testing.T) {
	assert := assert.New(t)
	outer := NewEnvironment(nil)
	outer.Define("x", float64(1))
	inner := NewEnvironment(outer)

	val, err := inner.Get(NewToken(IDENTIFIER, "x", nil, 1))
	assert.NoError(err)
	assert.Equal(float64(1), val)
}

func TestEnvironmentAssignWalksEnclosing(t *testing.T) {
	assert := assert.New(t)
	outer := NewEnvironment(nil)
	outer.Define("x", float64(1))
	inner := NewEnvironment(outer)

	err := inner.Assign(NewToken(IDENTIFIER, "x", nil, 1), float64(2))
	assert.NoError(err)

	val, _ := outer.Get(NewToken(IDENTIFIER, "x", nil, 1))
	assert.Equal(float64(2), val)
}

func TestEnvironmentAssignUndefinedFails(t *testing.T) {
	assert := assert.New(t)
	env := NewEnvironment(nil)
	err := env.Assign(NewToken(IDENTIFIER, "nope", nil, 1), float64(1))
	assert.Error(err)
}

func TestEnvironmentGetAtAndAssignAt(t *testing.T) {
	assert := assert.New(t)
	global := NewEnvironment(nil)
	middle := NewEnvironment(global)
	inner := NewEnvironment(middle)

	global.Define("x", float64(1))

	assert.Equal(float64(1), inner.getAt(2, "x"))

	inner.assignAt(2, NewToken(IDENTIFIER, "x", nil, 1), float64(9))
	assert.Equal(float64(9), global.values["x"])
}

func TestEnvironmentShadowing(t *testing.T) {
	assert := assert.New(t)
	outer := NewEnvironment(nil)
	outer.Define("x", float64(1))
	inner := NewEnvironment(outer)
	inner.Define("x", float64(2))

	innerVal, _ := inner.Get(NewToken(IDENTIFIER, "x", nil, 1))
	outerVal, _ := outer.Get(NewToken(IDENTIFIER, "x", nil, 1))
	assert.Equal(float64(2), innerVal)
	assert.Equal(float64(1), outerVal)
}
