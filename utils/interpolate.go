// SPDX-License-Identifier: EPL-2.0

package utils

// Hermite4 evaluates the Catmull-Rom segment between p1 and p2 at
// fraction t in [0, 1], using p0 and p3 as outer control points.
func Hermite4(p0, p1, p2, p3, t float32) float32 {
	c1 := 0.5 * (p2 - p0)
	c2 := p0 - 2.5*p1 + 2*p2 - 0.5*p3
	c3 := 0.5*(p3-p0) + 1.5*(p1-p2)

	return ((c3*t+c2)*t+c1)*t + p1
}
