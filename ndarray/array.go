// Package ndarray provides an in-memory N-dimensional array backed by a flat
// buffer, and cheap strided views over it.
//
// An Array is either the owner of its buffer (created by FromShape, FromFlat
// or FromValue) or a view produced by Array.Slice: views share the owner's
// buffer, never copy it, and stay live -- writes to the source are visible
// through every view and vice versa. A view must not outlive its source
// buffer.
//
// Element access (Value, SetValue, At, Set) panics on out-of-range indices or
// writes to read-only arrays: these are programming errors of the caller, not
// runtime conditions to handle.
package ndarray

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndview/shapes"
)

// Array is an N-dimensional array of one of the supported dtypes
// (see shapes.DType).
//
// It is a strided window into a flat buffer: top-level arrays are row-major
// and span the whole buffer, views created with Array.Slice point into their
// source's buffer with adjusted offset and strides.
type Array struct {
	shape    shapes.Shape
	flat     reflect.Value // Slice of the Go type for shape.DType.
	offset   int
	strides  []int // Per-axis strides, in elements.
	readOnly bool
}

// FromShape returns a writable Array of the given shape with the data
// initialized to zeros.
func FromShape(shape shapes.Shape) *Array {
	if !shape.Ok() {
		exceptions.Panicf("ndarray.FromShape: invalid shape %s", shape)
	}
	size := shape.Size()
	flat := reflect.MakeSlice(reflect.SliceOf(shape.DType.GoType()), size, size)
	return &Array{
		shape:   shape.Clone(),
		flat:    flat,
		strides: rowMajorStrides(shape.Dimensions),
	}
}

// FromFlat returns a writable Array of the given dimensions wrapping the flat
// data in row-major order. The data is shared, not copied: changes to the
// slice are visible through the array.
//
// It panics if len(flat) doesn't match the product of the dimensions.
func FromFlat[T shapes.Supported](flat []T, dimensions ...int) *Array {
	shape := shapes.Make(shapes.DTypeGeneric[T](), dimensions...)
	if shape.Size() != len(flat) {
		exceptions.Panicf("ndarray.FromFlat: shape %s requires %d elements, data has %d",
			shape, shape.Size(), len(flat))
	}
	return &Array{
		shape:   shape,
		flat:    reflect.ValueOf(flat),
		strides: rowMajorStrides(shape.Dimensions),
	}
}

// FromValue converts a scalar or (nested) Go slices to a new writable Array.
// The dtype is taken from the innermost element type, and all nested slices
// at the same depth must have the same length. The data is copied.
//
// E.g: FromValue([][]float32{{1, 2}, {3, 4}}) returns a (Float32)[2 2] array.
func FromValue(value any) *Array {
	shape := shapeForValue(value)
	a := FromShape(shape)
	valueOf := reflect.ValueOf(value)
	for indices := range shape.Iter() {
		element := valueOf
		for _, idx := range indices {
			element = element.Index(idx)
		}
		a.flat.Index(a.flatIndex(indices)).Set(element)
	}
	return a
}

// shapeForValue infers the Shape of a scalar or nested Go slices, checking
// that the nesting is not ragged.
func shapeForValue(value any) shapes.Shape {
	valueOf := reflect.ValueOf(value)
	var dimensions []int
	t := valueOf.Type()
	v := valueOf
	for t.Kind() == reflect.Slice {
		dimensions = append(dimensions, v.Len())
		t = t.Elem()
		if v.Len() == 0 {
			// Remaining dimensions unknowable on an empty branch: count the
			// nesting depth with dimension 0.
			for t.Kind() == reflect.Slice {
				dimensions = append(dimensions, 0)
				t = t.Elem()
			}
			break
		}
		v = v.Index(0)
	}
	dtype := shapes.DTypeForType(t)
	if dtype == shapes.InvalidDType {
		exceptions.Panicf("ndarray.FromValue: unsupported element type %s", t)
	}
	shape := shapes.Make(dtype, dimensions...)
	checkUniformDims(valueOf, shape.Dimensions)
	return shape
}

func checkUniformDims(v reflect.Value, dimensions []int) {
	if len(dimensions) == 0 {
		return
	}
	if v.Len() != dimensions[0] {
		exceptions.Panicf("ndarray.FromValue: ragged nesting, got length %d where %d was expected",
			v.Len(), dimensions[0])
	}
	for ii := 0; ii < v.Len(); ii++ {
		checkUniformDims(v.Index(ii), dimensions[1:])
	}
}

// rowMajorStrides computes the strides (in elements) of a dense row-major
// array with the given dimensions.
func rowMajorStrides(dimensions []int) []int {
	strides := make([]int, len(dimensions))
	stride := 1
	for axis := len(dimensions) - 1; axis >= 0; axis-- {
		strides[axis] = stride
		stride *= dimensions[axis]
	}
	return strides
}

// Ok returns whether this is a valid, usable Array. The zero value and nil
// are not.
func (a *Array) Ok() bool {
	return a != nil && a.shape.Ok() && a.flat.IsValid()
}

// Shape of the array. Callers must not modify the returned dimensions.
func (a *Array) Shape() shapes.Shape { return a.shape }

// DType of the array's elements.
func (a *Array) DType() shapes.DType { return a.shape.DType }

// Rank of the array: the number of axes.
func (a *Array) Rank() int { return a.shape.Rank() }

// Size returns the number of elements visible through this array.
func (a *Array) Size() int { return a.shape.Size() }

// IsReadOnly returns whether writes through this array are rejected.
func (a *Array) IsReadOnly() bool { return a.readOnly }

// ReadOnlyView returns a view of the same data that rejects writes. The data
// is still shared: writes through the original remain visible.
func (a *Array) ReadOnlyView() *Array {
	view := *a
	view.readOnly = true
	return &view
}

// flatIndex translates per-axis indices to a position in the flat buffer.
// It panics on rank mismatch or out-of-range indices.
func (a *Array) flatIndex(indices []int) int {
	if len(indices) != a.Rank() {
		exceptions.Panicf("ndarray: got %d indices for shape %s", len(indices), a.shape)
	}
	pos := a.offset
	for axis, idx := range indices {
		if idx < 0 || idx >= a.shape.Dimensions[axis] {
			exceptions.Panicf("ndarray: index %d out of range for axis %d of shape %s",
				idx, axis, a.shape)
		}
		pos += idx * a.strides[axis]
	}
	return pos
}

// Value returns the element at the given indices, boxed as `any`. There must
// be exactly one index per axis -- none for a scalar array.
func (a *Array) Value(indices ...int) any {
	return a.flat.Index(a.flatIndex(indices)).Interface()
}

// SetValue sets the element at the given indices. The value must be of the
// Go type backing the array's dtype, or convertible to it.
// It panics if the array is read-only.
func (a *Array) SetValue(value any, indices ...int) {
	if a.readOnly {
		exceptions.Panicf("ndarray: write to read-only array %s", a.shape)
	}
	pos := a.flatIndex(indices)
	valueOf := reflect.ValueOf(value)
	goType := a.shape.DType.GoType()
	if valueOf.Type() != goType {
		if a.shape.DType == shapes.Float16 || !valueOf.CanConvert(goType) {
			exceptions.Panicf("ndarray: cannot set %s element from value of type %T",
				a.shape.DType, value)
		}
		valueOf = valueOf.Convert(goType)
	}
	a.flat.Index(pos).Set(valueOf)
}

// At returns the element of a at the given indices as the Go type T, which
// must match the array's dtype.
func At[T shapes.Supported](a *Array, indices ...int) T {
	if shapes.DTypeGeneric[T]() != a.shape.DType {
		exceptions.Panicf("ndarray.At[%s]: array has dtype %s",
			shapes.DTypeGeneric[T](), a.shape.DType)
	}
	return a.Value(indices...).(T)
}

// Set sets the element of a at the given indices. T must match the array's
// dtype. It panics if the array is read-only.
func Set[T shapes.Supported](a *Array, value T, indices ...int) {
	if shapes.DTypeGeneric[T]() != a.shape.DType {
		exceptions.Panicf("ndarray.Set[%s]: array has dtype %s",
			shapes.DTypeGeneric[T](), a.shape.DType)
	}
	a.SetValue(value, indices...)
}

// Equal compares shape and contents of the two arrays.
func (a *Array) Equal(b *Array) bool {
	if !a.Ok() || !b.Ok() {
		return a == b
	}
	if !a.shape.Equal(b.shape) {
		return false
	}
	for indices := range a.shape.Iter() {
		if a.Value(indices...) != b.Value(indices...) {
			return false
		}
	}
	return true
}

// String pretty-prints the shape and contents of the array.
func (a *Array) String() string {
	if !a.Ok() {
		return "ndarray.Array(invalid)"
	}
	var b strings.Builder
	b.WriteString(a.shape.String())
	b.WriteString(": ")
	a.appendValues(&b, nil)
	return b.String()
}

func (a *Array) appendValues(b *strings.Builder, indices []int) {
	if len(indices) == a.Rank() {
		fmt.Fprintf(b, "%v", a.Value(indices...))
		return
	}
	b.WriteByte('[')
	dim := a.shape.Dimensions[len(indices)]
	for idx := 0; idx < dim; idx++ {
		if idx > 0 {
			b.WriteString(", ")
		}
		a.appendValues(b, append(indices, idx))
	}
	b.WriteByte(']')
}
