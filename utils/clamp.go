// SPDX-License-Identifier: EPL-2.0

package utils

import "math"

// Clamp limits v to [lo, hi]. NaN maps to lo.
func Clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}

	return v
}

// ClampUnit limits v to [0, 1].
func ClampUnit(v float64) float64 { return Clamp(v, 0, 1) }

// ClampPan limits v to [-1, 1].
func ClampPan(v float64) float64 { return Clamp(v, -1, 1) }
