package stacks

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"

	"github.com/gomlx/ndview/ndarray"
	"github.com/gomlx/ndview/shapes"
	"github.com/gomlx/ndview/xslices"
)

// iotaArray returns a writable (Int64) array of the given dimensions holding
// 0, 1, 2, ... in row-major order.
func iotaArray(dimensions ...int) *ndarray.Array {
	size := shapes.Make(shapes.Int64, dimensions...).Size()
	return ndarray.FromFlat(xslices.Iota(0, size), dimensions...)
}

func TestNewValidation(t *testing.T) {
	a := iotaArray(2, 2, 2)

	// Invalid array.
	_, err := New(nil, []int{0})
	require.ErrorIs(t, err, ErrInvalidArray)
	_, err = New(&ndarray.Array{}, []int{0})
	require.ErrorIs(t, err, ErrInvalidArray)

	// Nil axes.
	_, err = New(a, nil)
	require.ErrorIs(t, err, ErrInvalidAxes)

	// Stacking every axis leaves nothing to enumerate.
	_, err = New(a, []int{0, 1, 2})
	require.ErrorIs(t, err, ErrInvalidAxes)
	_, err = New(ndarray.FromValue(1.0), []int{})
	require.ErrorIs(t, err, ErrInvalidAxes, "scalar array")

	// Out-of-range axes, positive and negative.
	_, err = New(a, []int{3})
	require.ErrorIs(t, err, ErrAxisOutOfRange)
	_, err = New(a, []int{-4})
	require.ErrorIs(t, err, ErrAxisOutOfRange)

	// Axes must be strictly ascending: reordering is not supported.
	_, err = New(a, []int{2, 1})
	require.ErrorIs(t, err, ErrAxesNotSorted)

	// ... and unique.
	_, err = New(a, []int{1, 1})
	require.ErrorIs(t, err, ErrDuplicateAxes)

	// Writable iteration over a read-only array.
	_, err = New(a.ReadOnlyView(), []int{1, 2}, WithWritable(true))
	require.ErrorIs(t, err, ErrReadOnlySource)

	// Valid configurations.
	for _, stackAxes := range [][]int{{}, {0}, {1}, {2}, {0, 1}, {0, 2}, {1, 2}, {-2, -1}} {
		_, err := New(a, stackAxes)
		require.NoErrorf(t, err, "stackAxes=%v", stackAxes)
	}
}

func TestNewDoesNotMutateAxes(t *testing.T) {
	a := iotaArray(2, 2, 2)
	given := []int{-2, -1}
	it, err := New(a, given)
	require.NoError(t, err)
	require.Equal(t, []int{-2, -1}, given, "caller's slice must not be normalized in place")
	require.Equal(t, []int{1, 2}, it.StackAxes())
	require.Equal(t, []int{0}, it.FreeAxes())
}

// TestSubArrays checks the concrete sequence for shape [2, 2, 2] with values
// 0..7 and stack axes {1, 2}: element (i,j,k) == i*4+j*2+k, so the first view
// is [[0, 1], [2, 3]] and the second [[4, 5], [6, 7]].
func TestSubArrays(t *testing.T) {
	a := iotaArray(2, 2, 2)
	it, err := New(a, []int{1, 2})
	require.NoError(t, err)
	require.Equal(t, 2, it.Len())
	require.Equal(t, shapes.Make(shapes.Int64, 2, 2), it.Shape())

	view, ok := it.Next()
	require.True(t, ok)
	require.True(t, view.Equal(ndarray.FromValue([][]int{{0, 1}, {2, 3}})))

	view, ok = it.Next()
	require.True(t, ok)
	require.True(t, view.Equal(ndarray.FromValue([][]int{{4, 5}, {6, 7}})))

	// Exhausted: done stays true forever after.
	for ii := 0; ii < 3; ii++ {
		view, ok = it.Next()
		require.False(t, ok)
		require.Nil(t, view)
		require.True(t, it.Done())
	}
}

// TestRowMajorOrder checks the free axes are enumerated with the last one
// varying fastest.
func TestRowMajorOrder(t *testing.T) {
	a := iotaArray(2, 3, 2)
	it, err := New(a, []int{1})
	require.NoError(t, err)
	require.Equal(t, []int{0, 2}, it.FreeAxes())
	require.Equal(t, 4, it.Len())

	// Views fix (i, k) in order (0,0), (0,1), (1,0), (1,1); each view is the
	// middle axis, elements (i*6 + j*2 + k) for j in 0..2.
	want := [][]int{
		{0, 2, 4},
		{1, 3, 5},
		{6, 8, 10},
		{7, 9, 11},
	}
	var got [][]int
	for view := range it.All() {
		require.Equal(t, []int{3}, view.Shape().Dimensions)
		row := make([]int, 3)
		for j := range row {
			row[j] = ndarray.At[int](view, j)
		}
		got = append(got, row)
	}
	require.Equal(t, want, got)
}

// TestExhaustionCount checks the number of yielded views equals the product
// of the free dimensions, across a mix of shapes and stack axes.
func TestExhaustionCount(t *testing.T) {
	for _, test := range []struct {
		dims      []int
		stackAxes []int
		want      int
	}{
		{dims: []int{2, 2, 2}, stackAxes: []int{1, 2}, want: 2},
		{dims: []int{2, 2, 2}, stackAxes: []int{0}, want: 4},
		{dims: []int{2, 2, 2}, stackAxes: []int{}, want: 8},
		{dims: []int{3, 4, 5}, stackAxes: []int{1}, want: 15},
		{dims: []int{3, 1, 5, 2}, stackAxes: []int{0, 2}, want: 2},
		{dims: []int{7}, stackAxes: []int{}, want: 7},
		// Empty arrays yield no views, wherever the zero dimension sits.
		{dims: []int{0, 2, 2}, stackAxes: []int{1, 2}, want: 0},
		{dims: []int{2, 0, 2}, stackAxes: []int{1}, want: 0},
		{dims: []int{2, 0, 2}, stackAxes: []int{0, 1}, want: 0},
	} {
		it, err := New(iotaArray(test.dims...), test.stackAxes)
		require.NoErrorf(t, err, "dims=%v stackAxes=%v", test.dims, test.stackAxes)
		require.Equalf(t, test.want, it.Len(), "Len() for dims=%v stackAxes=%v", test.dims, test.stackAxes)
		count := 0
		for range it.All() {
			count++
		}
		require.Equalf(t, test.want, count, "views yielded for dims=%v stackAxes=%v", test.dims, test.stackAxes)
		require.True(t, it.Done())
	}
}

// TestViewShapes checks every yielded view's shape is the source shape
// restricted to the stack axes, in ascending order.
func TestViewShapes(t *testing.T) {
	a := iotaArray(2, 3, 4, 5)
	for _, test := range []struct {
		stackAxes []int
		want      []int
	}{
		{stackAxes: []int{1, 2}, want: []int{3, 4}},
		{stackAxes: []int{0, 3}, want: []int{2, 5}},
		{stackAxes: []int{3}, want: []int{5}},
		{stackAxes: []int{}, want: []int{}},
	} {
		it, err := New(a, test.stackAxes)
		require.NoError(t, err)
		require.Equal(t, test.want, it.Shape().Dimensions)
		for view := range it.All() {
			require.Equalf(t, test.want, view.Shape().Dimensions, "stackAxes=%v", test.stackAxes)
		}
	}
}

// TestLiveViews checks views alias the source buffer rather than snapshot it.
func TestLiveViews(t *testing.T) {
	a := iotaArray(2, 2)
	it, err := New(a, []int{1})
	require.NoError(t, err)

	first, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, 1, first.Value(1))

	// Mutating the source is visible through the already-yielded view and
	// through views yielded afterwards.
	ndarray.Set(a, 10, 0, 1)
	ndarray.Set(a, 20, 1, 0)
	require.Equal(t, 10, first.Value(1))
	second, ok := it.Next()
	require.True(t, ok)
	require.Equal(t, 20, second.Value(0))
}

func TestWriteGuard(t *testing.T) {
	a := iotaArray(2, 2, 2)

	// Default: views are read-only, even over a writable source.
	it, err := New(a, []int{1, 2})
	require.NoError(t, err)
	view, ok := it.Next()
	require.True(t, ok)
	require.True(t, view.IsReadOnly())
	require.Panics(t, func() { ndarray.Set(view, 0, 0, 0) })

	// WithWritable(true): writes through views reach the source.
	it, err = New(a, []int{1, 2}, WithWritable(true))
	require.NoError(t, err)
	view, ok = it.Next()
	require.True(t, ok)
	require.False(t, view.IsReadOnly())
	ndarray.Set(view, 100, 1, 0)
	require.Equal(t, 100, ndarray.At[int](a, 0, 1, 0))

	// WithWritable(false) is the explicit form of the default.
	it, err = New(a.ReadOnlyView(), []int{1, 2}, WithWritable(false))
	require.NoError(t, err)
	view, ok = it.Next()
	require.True(t, ok)
	require.True(t, view.IsReadOnly())
}

func TestClose(t *testing.T) {
	a := iotaArray(3, 2)

	// Close before the first Next.
	it, err := New(a, []int{1})
	require.NoError(t, err)
	it.Close()
	require.True(t, it.Done())
	view, ok := it.Next()
	require.False(t, ok)
	require.Nil(t, view)

	// Close mid-iteration, idempotent.
	it, err = New(a, []int{1})
	require.NoError(t, err)
	_, ok = it.Next()
	require.True(t, ok)
	it.Close()
	it.Close()
	_, ok = it.Next()
	require.False(t, ok)

	// Breaking out of All() closes the iterator.
	it, err = New(a, []int{1})
	require.NoError(t, err)
	for range it.All() {
		break
	}
	require.True(t, it.Done())
	_, ok = it.Next()
	require.False(t, ok)
}

func TestIterIsReusable(t *testing.T) {
	a := iotaArray(2, 2, 2)
	seq := Iter(a, []int{1, 2})

	// Each range over seq restarts from the first subarray.
	for round := 0; round < 2; round++ {
		var got []int
		for view := range seq {
			got = append(got, ndarray.At[int](view, 0, 0))
		}
		require.Equalf(t, []int{0, 4}, got, "round %d", round)
	}

	// Ranging with an early break doesn't affect later rounds either.
	for range seq {
		break
	}
	count := 0
	for range seq {
		count++
	}
	require.Equal(t, 2, count)
}

func TestIterPanicsOnInvalidAxes(t *testing.T) {
	a := iotaArray(2, 2, 2)
	seq := Iter(a, []int{2, 1})
	defer func() {
		r := recover()
		require.NotNil(t, r)
		err, isError := r.(error)
		require.True(t, isError)
		require.True(t, errors.Is(err, ErrAxesNotSorted))
	}()
	for range seq {
	}
	t.Fatal("expected Iter to panic on unsorted axes")
}

// TestScalarViews: with no stack axes every axis is free and each view is a
// scalar, yielded in flat row-major order.
func TestScalarViews(t *testing.T) {
	a := iotaArray(2, 3)
	it, err := New(a, []int{})
	require.NoError(t, err)
	require.Equal(t, 6, it.Len())
	require.True(t, it.Shape().IsScalar())
	var got []int
	for view := range it.All() {
		got = append(got, ndarray.At[int](view))
	}
	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, got)
}
