// Package stacks enumerates the lower-dimensional subarrays of an
// N-dimensional array obtained by holding a subset of its axes -- the "stack
// axes" -- at full range while walking every combination of indices of the
// remaining ("free") axes in row-major order (last free axis fastest).
//
// E.g.: for an array of shape [2, 3, 4] and stack axes {1, 2}, the iterator
// yields 2 views of shape [3, 4], the first fixing axis 0 at 0, the second at
// 1.
//
// Every yielded view shares the source array's buffer -- nothing is copied,
// and writes to the source remain visible through views already yielded. By
// default views are read-only; request writable views with
// WithWritable(true), which fails if the source itself is read-only.
//
// The iterator is a plain pull iterator: it is not safe for concurrent use,
// and the source array's shape must not change while iterating (contents
// may). Use New + Next/Close for step-by-step consumption, or Iter for a
// re-usable range-over-func sequence:
//
//	for view := range stacks.Iter(a, []int{1, 2}) {
//		process(view)
//	}
package stacks

import (
	"iter"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/ndview/ndarray"
	"github.com/gomlx/ndview/shapes"
	"github.com/gomlx/ndview/xslices"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Option configures New and Iter.
type Option func(*config)

type config struct {
	writable bool
}

// WithWritable sets whether the yielded views accept writes. It defaults to
// false: views are read-only even over a writable source.
//
// WithWritable(true) over a read-only source array fails construction with
// ErrReadOnlySource.
func WithWritable(writable bool) Option {
	return func(c *config) {
		c.writable = writable
	}
}

// Iterator yields successive subarray views of a source array, fixing the
// stack axes at full range and enumerating the free axes. See the package
// documentation for the semantics and New for the construction rules.
//
// An Iterator is single-use: once exhausted (or closed) it stays exhausted.
// Obtain a fresh one with New or Iter.
type Iterator struct {
	a        *ndarray.Array
	writable bool

	// Axis bookkeeping, fixed at construction: stackAxes and freeAxes
	// partition [0, rank), both ascending; freeShape are the source
	// dimensions at freeAxes.
	stackAxes []int
	freeAxes  []int
	freeShape []int

	// numSubArrays is the product of freeShape, forced to 0 for an empty
	// source array.
	numSubArrays int

	// Cursor state.
	coords []int // Current free-axis coordinates, len(freeAxes).
	step   int   // Views already yielded, in [0, numSubArrays].
	done   bool  // Monotonic: set on exhaustion or Close, never reset.
}

// New returns an Iterator over the subarrays of a obtained by holding
// stackAxes at full range. stackAxes entries may be negative (counting from
// the end), and after normalization must be strictly ascending and distinct;
// reordering axes is not supported. At least one axis must be left free:
// a.Rank() > len(stackAxes).
//
// The stackAxes slice is copied, the caller's slice is not modified.
//
// Construction failures are reported synchronously, wrapped around one of the
// Err* sentinel values of this package (match with errors.Is). A successfully
// constructed Iterator never fails afterwards.
func New(a *ndarray.Array, stackAxes []int, options ...Option) (*Iterator, error) {
	var cfg config
	for _, option := range options {
		option(&cfg)
	}

	if !a.Ok() {
		return nil, errors.Wrap(ErrInvalidArray, "stacks.New")
	}
	if stackAxes == nil {
		return nil, errors.Wrap(ErrInvalidAxes, "stacks.New: stackAxes is nil")
	}
	rank := a.Rank()
	if rank <= len(stackAxes) {
		return nil, errors.Wrapf(ErrInvalidAxes,
			"stacks.New: array must have more than %d axes to stack %d of them, shape is %s",
			len(stackAxes), len(stackAxes), a.Shape())
	}

	normalized := xslices.Copy(stackAxes)
	for ii, axis := range normalized {
		adjusted, err := shapes.AdjustAxisToRank(axis, rank)
		if err != nil {
			return nil, errors.Wrapf(ErrAxisOutOfRange, "stacks.New: stackAxes[%d]=%d for shape %s",
				ii, axis, a.Shape())
		}
		normalized[ii] = adjusted
	}
	for ii := 1; ii < len(normalized); ii++ {
		if normalized[ii] < normalized[ii-1] {
			return nil, errors.Wrapf(ErrAxesNotSorted, "stacks.New: stackAxes %v (normalized %v)",
				stackAxes, normalized)
		}
		if normalized[ii] == normalized[ii-1] {
			return nil, errors.Wrapf(ErrDuplicateAxes, "stacks.New: axis %d given twice in %v",
				normalized[ii], stackAxes)
		}
	}
	if cfg.writable && a.IsReadOnly() {
		return nil, errors.Wrap(ErrReadOnlySource, "stacks.New: WithWritable(true)")
	}

	it := &Iterator{
		a:         a,
		writable:  cfg.writable,
		stackAxes: normalized,
	}
	it.freeAxes = make([]int, 0, rank-len(normalized))
	it.freeShape = make([]int, 0, rank-len(normalized))
	for axis := 0; axis < rank; axis++ {
		if isStacked(normalized, axis) {
			continue
		}
		it.freeAxes = append(it.freeAxes, axis)
		it.freeShape = append(it.freeShape, a.Shape().Dimensions[axis])
	}

	// An empty array yields no subarrays, even when every free axis is
	// non-empty (a stacked axis may have dimension 0).
	if a.Size() > 0 {
		it.numSubArrays = xslices.Prod(it.freeShape)
	}
	it.coords = make([]int, len(it.freeAxes))
	it.done = it.numSubArrays == 0

	klog.V(2).Infof("stacks.New: shape=%s stackAxes=%v freeAxes=%v -> %d subarrays",
		a.Shape(), it.stackAxes, it.freeAxes, it.numSubArrays)
	return it, nil
}

// isStacked reports whether sorted contains axis, assuming ascending order.
func isStacked(sorted []int, axis int) bool {
	for _, value := range sorted {
		if value == axis {
			return true
		}
		if value > axis {
			break
		}
	}
	return false
}

// Next yields the next subarray view, or (nil, false) once the iterator is
// exhausted or closed. After it returns false once, it returns false forever.
//
// The returned view shares the source array's buffer. It is read-only unless
// the iterator was built with WithWritable(true).
func (it *Iterator) Next() (*ndarray.Array, bool) {
	if it.done {
		return nil, false
	}
	if it.step >= it.numSubArrays {
		it.done = true
		return nil, false
	}

	specs := make([]ndarray.SliceAxisSpec, it.a.Rank())
	for _, axis := range it.stackAxes {
		specs[axis] = ndarray.AxisRange()
	}
	for k, axis := range it.freeAxes {
		specs[axis] = ndarray.AxisElem(it.coords[k])
	}
	view := it.a.Slice(specs...)
	if !it.writable {
		view = view.ReadOnlyView()
	}

	it.step++
	it.advance()
	return view, true
}

// advance increments the free-axis coordinates by one row-major step: the
// last free axis varies fastest, overflow resets the axis to 0 and carries
// into the previous one.
func (it *Iterator) advance() {
	axis := len(it.coords) - 1
	for ; axis >= 0; axis-- {
		it.coords[axis]++
		if it.coords[axis] < it.freeShape[axis] {
			break
		}
		it.coords[axis] = 0
	}
	if axis < 0 && it.step != it.numSubArrays {
		// Carry past the first free axis and the step count must agree on
		// exhaustion.
		exceptions.Panicf("stacks: cursor overflowed after %d of %d subarrays (freeShape=%v)",
			it.step, it.numSubArrays, it.freeShape)
	}
}

// Close terminates the iteration early: every subsequent Next returns
// (nil, false). It is idempotent and safe to call before the first Next.
// Views already yielded remain valid.
func (it *Iterator) Close() {
	it.done = true
}

// Done returns whether the iterator is exhausted or closed.
func (it *Iterator) Done() bool { return it.done }

// Len returns the total number of subarrays this iterator yields over its
// lifetime -- not the number remaining.
func (it *Iterator) Len() int { return it.numSubArrays }

// Shape returns the shape of every yielded view: the source shape restricted
// to the stack axes, in ascending axis order.
func (it *Iterator) Shape() shapes.Shape {
	dimensions := make([]int, 0, len(it.stackAxes))
	for _, axis := range it.stackAxes {
		dimensions = append(dimensions, it.a.Shape().Dimensions[axis])
	}
	return shapes.Shape{DType: it.a.DType(), Dimensions: dimensions}
}

// StackAxes returns a copy of the normalized stack axes.
func (it *Iterator) StackAxes() []int { return xslices.Copy(it.stackAxes) }

// FreeAxes returns a copy of the free (enumerated) axes, the ascending
// complement of StackAxes.
func (it *Iterator) FreeAxes() []int { return xslices.Copy(it.freeAxes) }

// All returns a range-over-func sequence driving this iterator's cursor: it
// yields the remaining views, and an early break closes the iterator. Like
// the iterator itself it is single-use; see Iter for a re-usable sequence.
func (it *Iterator) All() iter.Seq[*ndarray.Array] {
	return func(yield func(*ndarray.Array) bool) {
		for {
			view, ok := it.Next()
			if !ok {
				return
			}
			if !yield(view) {
				it.Close()
				return
			}
		}
	}
}

// Iter returns a re-usable sequence of the subarray views of a: every range
// over it constructs a fresh, independent Iterator with the same
// configuration, so it can be ranged multiple times, each time from the
// start.
//
// Invalid arguments panic at the first range; use New to handle errors
// instead.
func Iter(a *ndarray.Array, stackAxes []int, options ...Option) iter.Seq[*ndarray.Array] {
	return func(yield func(*ndarray.Array) bool) {
		it, err := New(a, stackAxes, options...)
		if err != nil {
			panic(err)
		}
		it.All()(yield)
	}
}
