// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"math/bits"
	"math/cmplx"
	"sync"

	"github.com/cwbudde/algo-dsp/dsp/window"
	"github.com/viterin/vek/vek32"
)

const (
	DefaultTapSize = 2048
	minTapSize     = 32
	maxTapSize     = 32768

	tapSmoothing = 0.8
	tapMinDB     = -100.0
	tapMaxDB     = -30.0
)

// Tap observes the master output after the limiter. It keeps the most
// recent Size samples of the mono downmix and the peak of the last block.
type Tap struct {
	mu   sync.Mutex
	ring []float32
	pos  int
	peak float32

	window  []float32
	bitPerm []int
	smooth  []float32
	tmp1    []float32
	tmp2    []float32
	tmpC    []complex128
}

// NewTap returns a tap holding size samples, rounded up to a power of two.
func NewTap(size int) *Tap {
	size = min(max(size, minTapSize), maxTapSize)
	n := 1 << bits.Len(uint(size-1))

	t := &Tap{
		ring:    make([]float32, n),
		window:  make([]float32, n),
		bitPerm: make([]int, n),
		smooth:  make([]float32, n/2),
		tmp1:    make([]float32, n),
		tmp2:    make([]float32, n),
		tmpC:    make([]complex128, n),
	}

	for i, w := range window.Generate(window.TypeBlackman, n) {
		t.window[i] = float32(w)
		t.bitPerm[i] = i
	}
	for i, j := 1, 0; i < n; i++ {
		bit := n >> 1
		for ; j&bit != 0; bit >>= 1 {
			j ^= bit
		}
		j ^= bit

		if i < j {
			t.bitPerm[i], t.bitPerm[j] = t.bitPerm[j], t.bitPerm[i]
		}
	}

	return t
}

func (t *Tap) Size() int { return len(t.ring) }

// Bins is the number of frequency bins, half the size.
func (t *Tap) Bins() int { return len(t.ring) / 2 }

func (t *Tap) write(l, r []float64) {
	t.mu.Lock()
	defer t.mu.Unlock()

	var peak float64
	for i := range l {
		peak = max(peak, math.Abs(l[i]), math.Abs(r[i]))
		t.ring[t.pos] = float32((l[i] + r[i]) / 2)
		t.pos = (t.pos + 1) & (len(t.ring) - 1)
	}
	t.peak = float32(peak)
}

// Peak returns the largest absolute sample of the last rendered block.
func (t *Tap) Peak() float32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.peak
}

// TimeDomain appends the buffered samples, oldest first, to dst[:0].
func (t *Tap) TimeDomain(dst []float32) []float32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	dst = append(dst[:0], t.ring[t.pos:]...)

	return append(dst, t.ring[:t.pos]...)
}

// FrequencyData appends Bins magnitudes to dst[:0]. Each value maps the
// smoothed dB magnitude from [-100, -30] onto [0, 1].
func (t *Tap) FrequencyData(dst []float32) []float32 {
	t.mu.Lock()
	defer t.mu.Unlock()

	n := len(t.ring)
	copy(t.tmp1, t.ring[t.pos:])
	copy(t.tmp1[n-t.pos:], t.ring[:t.pos])

	vek32.Mul_Inplace(t.tmp1, t.window)
	vek32.Gather_Into(t.tmp2, t.tmp1, t.bitPerm)

	c := t.tmpC
	for i := range c {
		c[i] = complex(float64(t.tmp2[i]), 0)
	}
	fft(c)

	m := n / 2
	mag := t.tmp1[:m]
	for i := range mag {
		mag[i] = float32(cmplx.Abs(c[i]) / float64(n))
	}

	// smoothed = s*smoothed + (1-s)*mag
	vek32.MulNumber_Inplace(t.smooth, tapSmoothing)
	vek32.MulNumber_Inplace(mag, 1-tapSmoothing)
	vek32.Add_Inplace(t.smooth, mag)

	db := t.tmp2[:m]
	copy(db, t.smooth)
	vek32.Log10_Inplace(db)
	vek32.MulNumber_Inplace(db, 20)

	dst = dst[:0]
	for _, v := range db {
		dst = append(dst, float32(normalizeDB(float64(v))))
	}

	return dst
}

func normalizeDB(db float64) float64 {
	if math.IsNaN(db) || db <= tapMinDB {
		return 0
	}
	if db >= tapMaxDB {
		return 1
	}

	return (db - tapMinDB) / (tapMaxDB - tapMinDB)
}

// fft is an in-place radix-2 transform of bit-reversed input.
func fft(c []complex128) {
	n := len(c)
	for size := 2; size <= n; size <<= 1 {
		ang := -2 * math.Pi / float64(size)
		wlen := complex(math.Cos(ang), math.Sin(ang))
		for i := 0; i < n; i += size {
			w := complex(1, 0)
			for j := range size / 2 {
				u := c[i+j]
				v := c[i+j+size/2] * w
				c[i+j] = u + v
				c[i+j+size/2] = u - v
				w *= wlen
			}
		}
	}
}
