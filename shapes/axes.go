package shapes

import "github.com/pkg/errors"

// AdjustAxisToRank normalizes an axis index for a shape of the given rank:
// negative values count from the end, so axis=-1 refers to the last axis.
// It returns an error if the normalized axis falls outside [0, rank).
func AdjustAxisToRank(axis, rank int) (int, error) {
	adjusted := axis
	if adjusted < 0 {
		adjusted += rank
	}
	if adjusted < 0 || adjusted >= rank {
		return -1, errors.Errorf("axis %d is out of range for rank %d", axis, rank)
	}
	return adjusted, nil
}
