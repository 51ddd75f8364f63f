// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"
	"io"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"

	"github.com/ik5/soundscape/utils"
)

const (
	resampleBlockFrames = 1024
	antiAliasQ          = 0.7071
	antiAliasCutoff     = 0.45
)

// Resampler streams src at a new sample rate using Catmull-Rom interpolation
// over a four frame window. Channel count is preserved. When downsampling
// the input passes through a biquad lowpass at 0.45 of the target rate.
type Resampler struct {
	src      Source
	channels int
	dstRate  int
	step     float64 // source frames per output frame
	frac     float64

	// hist[1] is the frame at the current read position, hist[2] the next.
	hist [4][]float32

	in     []float32
	inPos  int
	inLen  int
	srcEOF bool
	err    error

	pad    int // frames synthesized after the source ran dry
	primed bool
	done   bool

	aa []*biquad.Section
}

func NewResampler(src Source, dstRate int) *Resampler {
	channels := src.Channels()
	r := &Resampler{
		src:      src,
		channels: channels,
		dstRate:  dstRate,
		step:     float64(src.SampleRate()) / float64(dstRate),
		in:       make([]float32, resampleBlockFrames*channels),
	}

	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}

	if r.step > 1 {
		coeffs := design.Lowpass(antiAliasCutoff*float64(dstRate), antiAliasQ, float64(src.SampleRate()))
		r.aa = make([]*biquad.Section, channels)
		for c := range r.aa {
			r.aa[c] = biquad.NewSection(coeffs)
		}
	}

	return r
}

func (r *Resampler) SampleRate() int { return r.dstRate }
func (r *Resampler) Channels() int   { return r.channels }
func (r *Resampler) BufSize() int    { return r.src.BufSize() }

func (r *Resampler) Close() error {
	if err := r.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (r *Resampler) ReadSamples(dst []float32) (int, error) {
	if len(dst)%r.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	if !r.primed {
		r.prime()
	}

	frames := len(dst) / r.channels
	out := 0
	for out < frames && !r.done {
		base := out * r.channels
		t := float32(r.frac)
		for c := range r.channels {
			dst[base+c] = utils.Hermite4(r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], t)
		}
		out++

		r.frac += r.step
		for r.frac >= 1 && !r.done {
			r.frac--
			r.shift()
		}
	}

	if out == 0 && r.done {
		if r.err != nil {
			return 0, r.err
		}

		return 0, io.EOF
	}

	return out * r.channels, nil
}

func (r *Resampler) prime() {
	r.primed = true

	if !r.next(r.hist[1]) {
		r.done = true
		return
	}

	copy(r.hist[0], r.hist[1])
	r.fill(r.hist[2], r.hist[1])
	r.fill(r.hist[3], r.hist[2])
}

func (r *Resampler) shift() {
	r.hist[0], r.hist[1], r.hist[2], r.hist[3] = r.hist[1], r.hist[2], r.hist[3], r.hist[0]
	r.fill(r.hist[3], r.hist[2])

	// hist[1] now holds a synthesized frame.
	if r.pad >= 3 {
		r.done = true
	}
}

// fill loads the next source frame into dst, or repeats prev past the end.
func (r *Resampler) fill(dst, prev []float32) {
	if r.next(dst) {
		return
	}

	copy(dst, prev)
	r.pad++
}

func (r *Resampler) next(dst []float32) bool {
	if r.inPos >= r.inLen {
		if r.srcEOF {
			return false
		}
		r.refill()
		if r.inLen == 0 {
			return false
		}
	}

	copy(dst, r.in[r.inPos:r.inPos+r.channels])
	r.inPos += r.channels

	for c, f := range r.aa {
		dst[c] = float32(f.ProcessSample(float64(dst[c])))
	}

	return true
}

func (r *Resampler) refill() {
	r.inPos, r.inLen = 0, 0

	for idle := 0; r.inLen == 0; idle++ {
		n, err := r.src.ReadSamples(r.in)
		r.inLen = n - n%r.channels

		if err != nil {
			r.srcEOF = true
			if err != io.EOF {
				r.err = fmt.Errorf("%w", err)
			}
			return
		}

		if idle >= maxIdleReads {
			r.srcEOF = true
			return
		}
	}
}
