package shapes

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestShape_Iter(t *testing.T) {
	// Version 1: there is only one value to iterate:
	shape := Make(F32, 1, 1, 1, 1)
	collect := make([][]int, 0, shape.Size())
	for indices := range shape.Iter() {
		collect = append(collect, slices.Clone(indices))
	}
	require.Equal(t, [][]int{{0, 0, 0, 0}}, collect)

	// Version 2: all axes have dim > 1.
	shape = Make(F64, 3, 2)
	collect = make([][]int, 0, shape.Size())
	for indices := range shape.Iter() {
		collect = append(collect, slices.Clone(indices))
	}
	want := [][]int{
		{0, 0},
		{0, 1},
		{1, 0},
		{1, 1},
		{2, 0},
		{2, 1},
	}
	require.Equal(t, want, collect)

	// Version 3: with only 2 axes with dim > 1.
	shape = Make(F16, 3, 1, 2, 1)
	collect = make([][]int, 0, shape.Size())
	for indices := range shape.Iter() {
		collect = append(collect, slices.Clone(indices))
	}
	want = [][]int{
		{0, 0, 0, 0},
		{0, 0, 1, 0},
		{1, 0, 0, 0},
		{1, 0, 1, 0},
		{2, 0, 0, 0},
		{2, 0, 1, 0},
	}
	require.Equal(t, want, collect)

	// A scalar yields exactly one empty set of indices.
	count := 0
	for indices := range Scalar[float32]().Iter() {
		require.Empty(t, indices)
		count++
	}
	require.Equal(t, 1, count)

	// An axis with dimension 0 yields nothing.
	for range Make(I32, 2, 0, 3).Iter() {
		t.Fatal("shape with an empty axis must not yield indices")
	}

	// Early break stops the iteration.
	count = 0
	for range Make(I32, 3, 3).Iter() {
		count++
		if count == 2 {
			break
		}
	}
	require.Equal(t, 2, count)
}
