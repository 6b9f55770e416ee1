package shapes

import "iter"

// Iter iterates over all possible indices of the given shape, in row-major
// order (the last axis varies fastest).
// To avoid allocating a slice of indices per step, the yielded indices are
// owned by the Iter() method: don't change or retain it inside the loop.
func (s Shape) Iter() iter.Seq[[]int] {
	return func(yield func([]int) bool) {
		if !s.Ok() {
			return
		}

		rank := s.Rank()
		if rank == 0 {
			// Valid scalar: yield one empty index slice.
			_ = yield(make([]int, 0))
			return
		}

		// An axis with dimension 0 means the array has no elements.
		for _, dimSize := range s.Dimensions {
			if dimSize <= 0 {
				return
			}
		}

		currentIndices := make([]int, rank)
		// This structure simulates an N-dimensional counter for the indices.
		for {
			if !yield(currentIndices) {
				return // Consumer requested to stop iteration.
			}

			// Increment currentIndices to the next set of coordinates
			// (row-major order: the last index changes fastest).
			axis := rank - 1
			for ; axis >= 0; axis-- {
				if s.Dimensions[axis] == 1 {
					// Nothing to iterate at this axis.
					continue
				}
				currentIndices[axis]++
				if currentIndices[axis] < s.Dimensions[axis] {
					// Successfully incremented this axis; no carry-over needed.
					break
				}
				// The current axis overflowed; reset it to 0 and
				// carry over into the next higher-order axis.
				currentIndices[axis] = 0
			}

			// If axis went below 0, the first axis also overflowed and
			// all combinations have been visited.
			if axis < 0 {
				break
			}
		}
	}
}
