package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateSequential(t *testing.T) {
	tests := []struct {
		start, count int
	}{
		{0, 5},
		{1, 3},
		{98, 4},
	}
	for _, tt := range tests {
		seq := NewSequence(tt.start)
		var got []int
		for i := 0; i < tt.count; i++ {
			v, err := seq.Allocate()
			require.NoError(t, err)
			got = append(got, v)
		}
		for i, v := range got {
			assert.Equal(t, tt.start+i, v)
		}
		assert.Equal(t, tt.start+tt.count, seq.Next())
	}
}

func TestUndoOnlyLastAllocation(t *testing.T) {
	seq := NewSequence(10)
	a, err := seq.Allocate()
	require.NoError(t, err)
	b, err := seq.Allocate()
	require.NoError(t, err)

	assert.False(t, seq.Undo(a), "older ids are never given back")
	assert.True(t, seq.Undo(b))
	assert.False(t, seq.Undo(Unassigned))

	c, err := seq.Allocate()
	require.NoError(t, err)
	assert.Equal(t, b, c)
}

func TestMonotonicAcrossFailedAllocation(t *testing.T) {
	seq := NewSequence(5)
	var got []int
	for i := 0; i < 2; i++ {
		v, err := seq.Allocate()
		require.NoError(t, err)
		got = append(got, v)
	}

	// A creation that fails after allocating gives its id back.
	failed, err := seq.Allocate()
	require.NoError(t, err)
	require.True(t, seq.Undo(failed))

	for i := 0; i < 3; i++ {
		v, err := seq.Allocate()
		require.NoError(t, err)
		got = append(got, v)
	}
	assert.Equal(t, []int{5, 6, 7, 8, 9}, got)
}

func TestExhausted(t *testing.T) {
	seq := NewSequence(Max)
	v, err := seq.Allocate()
	require.NoError(t, err)
	assert.Equal(t, Max, v)

	_, err = seq.Allocate()
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestAdvance(t *testing.T) {
	seq := NewSequence(3)
	seq.Advance(10)
	assert.Equal(t, 10, seq.Next())
	seq.Advance(4)
	assert.Equal(t, 10, seq.Next())
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "-", Format(Unassigned))
	assert.Equal(t, "98", Format(98))
}
