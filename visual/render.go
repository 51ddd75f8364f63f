// SPDX-License-Identifier: EPL-2.0

package visual

import (
	"image/color"
	"math"

	"github.com/viterin/vek/vek32"
)

type Point struct{ X, Y float32 }

type Bar struct {
	Height float32
	Color  color.RGBA
}

type Palette int

const (
	// PaletteThirds colors bars by thirds: bass, mid, treble.
	PaletteThirds Palette = iota
	// PaletteHue sweeps the hue wheel across the bars.
	PaletteHue
)

var (
	bassColor   = color.RGBA{R: 0xe0, G: 0x4f, B: 0x3a, A: 0xff}
	midColor    = color.RGBA{R: 0xf2, G: 0xb1, B: 0x34, A: 0xff}
	trebleColor = color.RGBA{R: 0x3a, G: 0x9a, B: 0xd9, A: 0xff}
)

// Waveform maps samples in [-1, 1] to a polyline spanning a width by
// height view, with y growing downwards and silence on the midline.
func Waveform(dst []Point, samples []float32, width, height float32) []Point {
	dst = dst[:0]
	n := len(samples)
	if n == 0 {
		return dst
	}

	step := float32(0)
	if n > 1 {
		step = width / float32(n-1)
	}
	half := height / 2
	for i, v := range samples {
		v = min(max(v, -1), 1)
		dst = append(dst, Point{X: float32(i) * step, Y: half * (1 - v)})
	}

	return dst
}

// Spectrum splits data into n equal contiguous groups, averages each and
// scales the averages by height. Trailing values that do not fill a group
// are ignored.
func Spectrum(dst []Bar, data []float32, n int, height float32, p Palette) []Bar {
	dst = dst[:0]
	if n <= 0 || len(data) < n {
		return dst
	}

	size := len(data) / n
	for i := range n {
		avg := vek32.Mean(data[i*size : (i+1)*size])
		dst = append(dst, Bar{Height: avg * height, Color: BarColor(i, n, p)})
	}

	return dst
}

// BarColor picks the color of bar i out of n.
func BarColor(i, n int, p Palette) color.RGBA {
	if p == PaletteHue {
		return hue(300 * float64(i) / float64(max(n, 1)))
	}

	switch third := 3 * i / max(n, 1); third {
	case 0:
		return bassColor
	case 1:
		return midColor
	default:
		return trebleColor
	}
}

// hue converts a hue in degrees at full saturation and value to RGB.
func hue(deg float64) color.RGBA {
	h := math.Mod(deg, 360) / 60
	x := 1 - math.Abs(math.Mod(h, 2)-1)

	var r, g, b float64
	switch int(h) {
	case 0:
		r, g = 1, x
	case 1:
		r, g = x, 1
	case 2:
		g, b = 1, x
	case 3:
		g, b = x, 1
	case 4:
		r, b = x, 1
	default:
		r, b = 1, x
	}

	return color.RGBA{R: uint8(r * 255), G: uint8(g * 255), B: uint8(b * 255), A: 0xff}
}
