/*
File   : gday-mate/internal/env/env_test.go
*/
package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zackradisic/gday-mate/internal/value"
)

func TestEnvironment_DefineAndGet(t *testing.T) {
	e := New(nil)
	e.Define("x", value.Number(1))

	v, ok := e.Get("x")
	require.True(t, ok)
	assert.Equal(t, value.Number(1), v)

	_, ok = e.Get("missing")
	assert.False(t, ok)
}

func TestEnvironment_GetRecursesIntoParent(t *testing.T) {
	root := New(nil)
	root.Define("x", value.String("outer"))
	child := New(root)

	v, ok := child.Get("x")
	require.True(t, ok)
	assert.Equal(t, value.String("outer"), v)
}

func TestEnvironment_DefineShadowsOuterBinding(t *testing.T) {
	root := New(nil)
	root.Define("x", value.Number(10))
	child := New(root)
	child.Define("x", value.Number(5))

	v, _ := child.Get("x")
	assert.Equal(t, value.Number(5), v)
	v, _ = root.Get("x")
	assert.Equal(t, value.Number(10), v)
}

func TestEnvironment_AssignWalksToFirstContainingScope(t *testing.T) {
	root := New(nil)
	root.Define("x", value.Number(1))
	child := New(root)

	require.True(t, child.Assign("x", value.Number(2)))
	v, _ := root.Get("x")
	assert.Equal(t, value.Number(2), v)

	assert.False(t, child.Assign("never declared", value.Number(3)))
}

func TestEnvironment_AncestorHops(t *testing.T) {
	root := New(nil)
	mid := New(root)
	leaf := New(mid)

	assert.Same(t, leaf, leaf.Ancestor(0))
	assert.Same(t, mid, leaf.Ancestor(1))
	assert.Same(t, root, leaf.Ancestor(2))
}

func TestEnvironment_GetAtBypassesInnerShadow(t *testing.T) {
	root := New(nil)
	root.Define("x", value.Number(10))
	leaf := New(root)
	leaf.Define("x", value.Number(5))

	v, ok := leaf.GetAt(0, "x")
	require.True(t, ok)
	assert.Equal(t, value.Number(5), v)

	v, ok = leaf.GetAt(1, "x")
	require.True(t, ok)
	assert.Equal(t, value.Number(10), v)
}

func TestEnvironment_AssignAtTargetsExactScope(t *testing.T) {
	root := New(nil)
	root.Define("x", value.Number(10))
	leaf := New(root)
	leaf.Define("x", value.Number(5))

	require.True(t, leaf.AssignAt(1, "x", value.Number(99)))
	v, _ := root.Get("x")
	assert.Equal(t, value.Number(99), v)
	v, _ = leaf.GetAt(0, "x")
	assert.Equal(t, value.Number(5), v)

	assert.False(t, leaf.AssignAt(1, "y", value.Number(1)))
}

// Two frames chained to the same defining environment observe each
// other's writes through it, the sharing a closure relies on.
func TestEnvironment_ChainsShareCells(t *testing.T) {
	captured := New(nil)
	captured.Define("n", value.Number(0))

	frameA := New(captured)
	frameB := New(captured)

	require.True(t, frameA.Assign("n", value.Number(1)))
	v, _ := frameB.Get("n")
	assert.Equal(t, value.Number(1), v)
}
