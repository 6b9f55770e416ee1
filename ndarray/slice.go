package ndarray

import (
	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndview/shapes"
)

// SliceAxisSpec specifies what to take of one axis in a Slice.
//
// Full means to take the whole axis (and ignore Start/End), NoEnd means from
// Start to the full dimension of the axis, and Elem means to take the single
// element at Start and remove the axis from the resulting view.
//
// Consider using AxisRange and AxisElem below to construct SliceAxisSpec
// values.
type SliceAxisSpec struct {
	Start, End  int
	Full, NoEnd bool
	Elem        bool
}

// AxisRange defines a range to take for an axis in Slice. The resulting view
// keeps the axis, with the dimension of the range taken.
//
// The indices can have 0, 1 or 2 elements:
//   - If `len(indices) == 0`, the full range of the axis is taken.
//   - If `len(indices) == 1`, it is the start, and the range is taken to the
//     end of the axis.
//   - If `len(indices) == 2`, they are the start and (exclusive) end.
//   - If `len(indices) > 2`, an error is raised with panic.
//
// Negative indices count from the end of the axis.
//
// See AxisElem to take one element and drop the axis.
func AxisRange(indices ...int) SliceAxisSpec {
	if len(indices) == 0 {
		return SliceAxisSpec{Full: true}
	}
	if len(indices) == 1 {
		return SliceAxisSpec{Start: indices[0], NoEnd: true}
	}
	if len(indices) > 2 {
		exceptions.Panicf("AxisRange(%v): more than 2 indices provided, that's not supported", indices)
	}
	return SliceAxisSpec{Start: indices[0], End: indices[1]}
}

// AxisElem defines a single element to take for an axis in Slice. The axis is
// removed from the resulting view's shape. A negative index counts from the
// end of the axis.
func AxisElem(index int) SliceAxisSpec {
	return SliceAxisSpec{Start: index, Elem: true}
}

// Slice returns a view of the array restricted per axis by the given specs.
// The underlying buffer is shared (no copy): the view stays live with respect
// to writes to the source, and writing through the view (if the source is
// writable) changes the source.
//
// Each spec applies to the axis at its position; axes without a spec are
// taken in full. Axes sliced with AxisElem are removed from the view's shape,
// axes sliced with AxisRange are kept.
//
// Examples, for x with shape [5, 5, 5]:
//   - `x.Slice()` is a full view of x, shape [5, 5, 5].
//   - `x.Slice(AxisRange(), AxisElem(0))` has shape [5, 5].
//   - `x.Slice(AxisElem(-1), AxisRange(1, 3))` has shape [2, 5].
//
// It panics on malformed specs or out-of-range indices: the caller is
// expected to pass specs consistent with the array's shape.
func (a *Array) Slice(specs ...SliceAxisSpec) *Array {
	if !a.Ok() {
		exceptions.Panicf("ndarray.Slice: invalid array")
	}
	rank := a.Rank()
	if len(specs) > rank {
		exceptions.Panicf("ndarray.Slice: %d axis specs given for shape %s", len(specs), a.shape)
	}

	view := &Array{
		shape: shapes.Shape{
			DType:      a.shape.DType,
			Dimensions: make([]int, 0, rank),
		},
		flat:     a.flat,
		offset:   a.offset,
		strides:  make([]int, 0, rank),
		readOnly: a.readOnly,
	}
	for axis := 0; axis < rank; axis++ {
		spec := SliceAxisSpec{Full: true}
		if axis < len(specs) {
			spec = specs[axis]
		}
		dim := a.shape.Dimensions[axis]
		switch {
		case spec.Elem:
			idx := spec.Start
			if idx < 0 {
				idx += dim
			}
			if idx < 0 || idx >= dim {
				exceptions.Panicf("ndarray.Slice: element %d out of range for axis %d of shape %s",
					spec.Start, axis, a.shape)
			}
			view.offset += idx * a.strides[axis]
			// Axis is dropped from the view's shape.
		case spec.Full:
			view.shape.Dimensions = append(view.shape.Dimensions, dim)
			view.strides = append(view.strides, a.strides[axis])
		default:
			start, end := spec.Start, spec.End
			if start < 0 {
				start += dim
			}
			if spec.NoEnd {
				end = dim
			} else if end < 0 {
				end += dim
			}
			if start < 0 || end < start || end > dim {
				exceptions.Panicf("ndarray.Slice: range [%d, %d) invalid for axis %d of shape %s",
					spec.Start, spec.End, axis, a.shape)
			}
			view.offset += start * a.strides[axis]
			view.shape.Dimensions = append(view.shape.Dimensions, end-start)
			view.strides = append(view.strides, a.strides[axis])
		}
	}
	return view
}
