package value_test

import (
	"math"
	"testing"

	"github.com/Lingshinx/sognasm/lang/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToNumber(t *testing.T) {
	assert.Equal(t, 5.0, value.ToNumber(value.Number(5)))
	assert.Equal(t, 65.0, value.ToNumber(value.Byte(65)))
	assert.Equal(t, 1.0, value.ToNumber(value.Bool(true)))
	assert.Equal(t, 0.0, value.ToNumber(value.Bool(false)))
	assert.Equal(t, 3.0, value.ToNumber(mustList(t, "a", "b", "c")))
	assert.Equal(t, 42.0, value.ToNumber(value.String("42")))
	assert.True(t, math.IsNaN(value.ToNumber(value.String("nope"))))
	assert.True(t, math.IsNaN(value.ToNumber(value.Function(3))))
	assert.True(t, math.IsNaN(value.ToNumber(&value.Closure{})))
}

func TestToInteger(t *testing.T) {
	assert.EqualValues(t, 5, value.ToInteger(value.Number(5.9)))
	assert.EqualValues(t, -5, value.ToInteger(value.Number(-5.9)))
	assert.EqualValues(t, 0, value.ToInteger(value.Function(9)))
	assert.EqualValues(t, 0, value.ToInteger(&value.Closure{}))
	assert.EqualValues(t, 0, value.ToInteger(value.String("not a number")))
}

func TestToBoolInversion(t *testing.T) {
	assert.True(t, value.ToBool(value.Number(0)), "zero-is-true: Number(0) must be true")
	assert.False(t, value.ToBool(value.Number(1)), "zero-is-true: Number(1) must be false")
	assert.True(t, value.ToBool(value.Byte(0)))
	assert.False(t, value.ToBool(value.Byte(1)))
	assert.True(t, value.ToBool(value.Bool(true)))
	assert.False(t, value.ToBool(value.Bool(false)))
	assert.True(t, value.ToBool(value.NewList()))
	assert.False(t, value.ToBool(mustList(t, "x")))
	assert.True(t, value.ToBool(value.String("")))
	assert.False(t, value.ToBool(value.String("x")))
	assert.False(t, value.ToBool(value.Function(0)))
	assert.False(t, value.ToBool(&value.Closure{}))
}

func TestTypeTag(t *testing.T) {
	assert.Equal(t, value.TagNumber, value.TypeTag(value.Number(0)))
	assert.Equal(t, value.TagFunction, value.TypeTag(value.Function(0)))
	assert.Equal(t, value.TagClosure, value.TypeTag(&value.Closure{}))
	assert.Equal(t, value.TagList, value.TypeTag(value.NewList()))
	assert.Equal(t, value.TagString, value.TypeTag(value.String("")))
	assert.Equal(t, value.TagByte, value.TypeTag(value.Byte(0)))
	assert.Equal(t, value.TagBool, value.TypeTag(value.Bool(false)))
}

func TestListCloneIsDeep(t *testing.T) {
	l := mustList(t, "a", "b")
	clone := l.Clone().(*value.List)

	clone.PushBack(value.String("c"))
	assert.Equal(t, 2, l.Len(), "cloning must not affect the original list")
	assert.Equal(t, 3, clone.Len())
}

func TestClosureCloneIsShared(t *testing.T) {
	c := &value.Closure{IP: 4}
	assert.Same(t, c, c.Clone())
}

func TestListFrontPopFrontConcat(t *testing.T) {
	l := mustList(t, "a", "b")
	front, ok := l.Front()
	require.True(t, ok)
	assert.Equal(t, value.String("a"), front)

	popped, ok := l.PopFront()
	require.True(t, ok)
	assert.Equal(t, value.String("a"), popped)
	assert.Equal(t, 1, l.Len())

	_, ok = value.NewList().PopFront()
	assert.False(t, ok)

	other := mustList(t, "x", "y")
	l.Concat(other)
	assert.Equal(t, "[b, x, y]", l.String())
}

func mustList(t *testing.T, elems ...string) *value.List {
	t.Helper()
	l := value.NewList()
	for _, e := range elems {
		l.PushBack(value.String(e))
	}
	return l
}
