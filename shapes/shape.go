/*
 *	Copyright 2024 Jan Pfeifer
 *
 *	Licensed under the Apache License, Version 2.0 (the "License");
 *	you may not use this file except in compliance with the License.
 *	You may obtain a copy of the License at
 *
 *	http://www.apache.org/licenses/LICENSE-2.0
 *
 *	Unless required by applicable law or agreed to in writing, software
 *	distributed under the License is distributed on an "AS IS" BASIS,
 *	WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *	See the License for the specific language governing permissions and
 *	limitations under the License.
 */

// Package shapes defines Shape, DType and associated tools.
//
// Shape represents the shape (rank, dimensions and DType) of an N-dimensional
// array. DType indicates the type of the unit element of an array.
//
// ## Glossary
//
//   - Rank: number of axes (dimensions) of an array.
//   - Axis: the index of a dimension of a multidimensional array. We refer to
//     the dimension index as "axis" (plural axes), and its size as its
//     dimension.
//   - DType: the data type of the unit element in an array.
//   - Scalar: a shape with no axes (rank == 0), holding a single value of the
//     associated DType.
//
// Example: the multi-dimensional slice `[][]int32{{0, 1, 2}, {3, 4, 5}}` has
// shape `(Int32)[2 3]`: rank 2, axis 0 has dimension 2 and axis 1 has
// dimension 3. It could be created with `shapes.Make(shapes.Int32, 2, 3)`.
//
// Axes with dimension 0 are valid (arrays with no elements); negative
// dimensions are not.
package shapes

import (
	"fmt"
	"slices"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

// Shape represents the shape of an N-dimensional array: its DType and the
// ordered sequence of dimensions, one per axis.
//
// Use Make to create a new shape.
type Shape struct {
	DType      DType
	Dimensions []int
}

// Make returns a Shape structure filled with the values given.
// It panics if any dimension is negative or the dtype is not supported --
// dimensions of size 0 are valid and denote an empty array.
func Make(dtype DType, dimensions ...int) Shape {
	s := Shape{Dimensions: slices.Clone(dimensions), DType: dtype}
	if !dtype.IsSupported() {
		exceptions.Panicf("shapes.Make(%s): unsupported dtype", dtype)
	}
	for _, dim := range dimensions {
		if dim < 0 {
			exceptions.Panicf("shapes.Make(%s): cannot create a shape with a negative dimension", s)
		}
	}
	return s
}

// Scalar returns a scalar Shape for the given Go type.
func Scalar[T Supported]() Shape {
	return Shape{DType: DTypeGeneric[T]()}
}

// Invalid returns an invalid shape.
//
// Invalid().Ok() == false.
func Invalid() Shape {
	return Shape{DType: InvalidDType}
}

// Ok returns whether this is a valid Shape. A zero-valued Shape{} is invalid.
func (s Shape) Ok() bool { return s.DType != InvalidDType }

// Rank of the shape, that is, the number of axes.
func (s Shape) Rank() int { return len(s.Dimensions) }

// IsScalar returns whether the shape represents a scalar: no axes, one value.
func (s Shape) IsScalar() bool { return s.Ok() && s.Rank() == 0 }

// Dim returns the dimension of the given axis. axis can take negative values,
// in which case it counts from the end -- axis=-1 refers to the last axis.
// Like slice indexing, it panics for an out-of-bounds axis.
func (s Shape) Dim(axis int) int {
	adjusted, err := AdjustAxisToRank(axis, s.Rank())
	if err != nil {
		panic(errors.WithMessagef(err, "Shape.Dim(%d) for shape %s", axis, s))
	}
	return s.Dimensions[adjusted]
}

// Shape returns a shallow copy of itself. It implements the HasShape interface.
func (s Shape) Shape() Shape { return s }

// String implements fmt.Stringer, pretty-prints the shape.
func (s Shape) String() string {
	if s.Rank() == 0 {
		return fmt.Sprintf("(%s)", s.DType)
	}
	return fmt.Sprintf("(%s)%v", s.DType, s.Dimensions)
}

// Size returns the number of elements an array of this shape holds. It's the
// product of all dimensions: 0 if any axis has dimension 0, 1 for scalars.
func (s Shape) Size() (size int) {
	size = 1
	for _, d := range s.Dimensions {
		size *= d
	}
	return
}

// Memory returns the number of bytes needed to store an array of this shape.
func (s Shape) Memory() uintptr {
	return s.DType.Memory() * uintptr(s.Size())
}

// Equal compares two shapes for equality: dtype and dimensions are compared.
func (s Shape) Equal(s2 Shape) bool {
	if s.DType != s2.DType {
		return false
	}
	return slices.Equal(s.Dimensions, s2.Dimensions)
}

// EqualDimensions compares two shapes for equality of dimensions only,
// dtypes may differ.
func (s Shape) EqualDimensions(s2 Shape) bool {
	return slices.Equal(s.Dimensions, s2.Dimensions)
}

// Clone returns a new deep copy of the shape.
func (s Shape) Clone() (s2 Shape) {
	s2.DType = s.DType
	s2.Dimensions = slices.Clone(s.Dimensions)
	return
}

// HasShape is the interface for values with an associated Shape.
type HasShape interface {
	Shape() Shape
}
