/*
File   : gday-mate/internal/builtins/builtins_test.go
*/
package builtins

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zackradisic/gday-mate/internal/value"
)

func TestLookup_Registry(t *testing.T) {
	tests := []struct {
		name  string
		arity int
	}{
		{"HitTheSack", 1},
		{"GimmeTime", 0},
		{"ChuckSomeDice", 2},
	}
	for _, tt := range tests {
		b, ok := Lookup(tt.name)
		require.True(t, ok, "builtin %s", tt.name)
		assert.Equal(t, tt.name, b.Name())
		assert.Equal(t, tt.arity, b.Arity())
		assert.Equal(t, value.CallableKind, b.Kind())
	}
}

func TestLookup_UnknownName(t *testing.T) {
	_, ok := Lookup("ThrowAnotherShrimp")
	assert.False(t, ok)
}

func TestHitTheSack_SleepsRoughlyAsked(t *testing.T) {
	b, _ := Lookup("HitTheSack")
	start := time.Now()
	res, err := b.Call([]value.Value{value.Number(20)})
	require.NoError(t, err)
	assert.Equal(t, value.NilValue, res)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestHitTheSack_RejectsBadArgs(t *testing.T) {
	b, _ := Lookup("HitTheSack")

	_, err := b.Call([]value.Value{value.Number(-1)})
	assert.Error(t, err)

	_, err = b.Call([]value.Value{value.String("10")})
	assert.Error(t, err)
}

func TestGimmeTime_ReturnsTimestampString(t *testing.T) {
	b, _ := Lookup("GimmeTime")
	res, err := b.Call(nil)
	require.NoError(t, err)
	s, ok := res.(value.String)
	require.True(t, ok)
	// "2006-01-02 15:04:05 MST" and friends parse back
	_, parseErr := time.Parse("2006-01-02 15:04:05 MST", string(s))
	assert.NoError(t, parseErr)
}

func TestChuckSomeDice_StaysInHalfOpenRange(t *testing.T) {
	b, _ := Lookup("ChuckSomeDice")
	for i := 0; i < 100; i++ {
		res, err := b.Call([]value.Value{value.Number(3), value.Number(7)})
		require.NoError(t, err)
		n, ok := res.(value.Number)
		require.True(t, ok)
		assert.GreaterOrEqual(t, float64(n), 3.0)
		assert.Less(t, float64(n), 7.0)
	}
}

func TestChuckSomeDice_OneWideRangeIsDeterministic(t *testing.T) {
	b, _ := Lookup("ChuckSomeDice")
	res, err := b.Call([]value.Value{value.Number(5), value.Number(6)})
	require.NoError(t, err)
	assert.Equal(t, value.Number(5), res)
}

func TestChuckSomeDice_RejectsBadRanges(t *testing.T) {
	b, _ := Lookup("ChuckSomeDice")

	_, err := b.Call([]value.Value{value.Number(5), value.Number(5)})
	assert.Error(t, err)

	_, err = b.Call([]value.Value{value.Number(7), value.Number(3)})
	assert.Error(t, err)

	_, err = b.Call([]value.Value{value.String("1"), value.Number(2)})
	assert.Error(t, err)
}
