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

package shapes

import (
	"reflect"

	"github.com/x448/float16"
)

// DType indicates the type of the unit element of an array.
//
// Float16 is represented in Go with github.com/x448/float16 (there is no
// native Go type for it), all others map to the obvious native type --
// notice Int64 maps to the Go `int` type.
type DType int32

const (
	InvalidDType DType = iota
	Bool
	Int32
	Int64
	Float16
	Float32
	Float64
)

const (
	I32 = Int32
	I64 = Int64
	F16 = Float16
	F32 = Float32
	F64 = Float64
)

// String implements fmt.Stringer.
func (dtype DType) String() string {
	switch dtype {
	case Bool:
		return "Bool"
	case Int32:
		return "Int32"
	case Int64:
		return "Int64"
	case Float16:
		return "Float16"
	case Float32:
		return "Float32"
	case Float64:
		return "Float64"
	}
	return "InvalidDType"
}

// IsFloat returns whether dtype is one of the supported float types.
func (dtype DType) IsFloat() bool {
	return dtype == Float16 || dtype == Float32 || dtype == Float64
}

// IsInt returns whether dtype is one of the supported integer types.
func (dtype DType) IsInt() bool {
	return dtype == Int32 || dtype == Int64
}

// IsSupported returns whether the dtype can back an array.
func (dtype DType) IsSupported() bool {
	return dtype == Bool || dtype.IsInt() || dtype.IsFloat()
}

// Memory returns the number of bytes to store one element of the given DType.
func (dtype DType) Memory() uintptr {
	switch dtype {
	case Bool:
		return 1
	case Float16:
		return 2
	case Int32, Float32:
		return 4
	case Int64, Float64:
		return 8
	}
	return 0
}

// GoType returns the reflect.Type of the Go value backing one element of the
// given DType.
func (dtype DType) GoType() reflect.Type {
	switch dtype {
	case Bool:
		return reflect.TypeOf(true)
	case Int32:
		return reflect.TypeOf(int32(0))
	case Int64:
		return reflect.TypeOf(int(0))
	case Float16:
		return reflect.TypeOf(float16.Float16(0))
	case Float32:
		return reflect.TypeOf(float32(0))
	case Float64:
		return reflect.TypeOf(float64(0))
	}
	return nil
}

// Supported lists the Go types an array can be built from or converted to.
// Used as a generics constraint.
type Supported interface {
	bool | int | int32 | float16.Float16 | float32 | float64
}

// Number lists the Go numeric types supported. Used as a generics constraint.
// Notice `int` is stored as Int64.
type Number interface {
	int | int32 | float32 | float64
}

// DTypeGeneric returns the DType corresponding to the Go type given as the
// generic parameter.
func DTypeGeneric[T Supported]() DType {
	var t T
	return DTypeForType(reflect.TypeOf(t))
}

// DTypeForType returns the DType backed by the given Go type, or InvalidDType
// if there isn't one.
func DTypeForType(t reflect.Type) DType {
	if t == reflect.TypeOf(float16.Float16(0)) {
		return Float16
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool
	case reflect.Int32:
		return Int32
	case reflect.Int:
		return Int64
	case reflect.Float32:
		return Float32
	case reflect.Float64:
		return Float64
	default:
		return InvalidDType
	}
}
