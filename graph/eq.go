// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design"
)

const (
	lowShelfHz  = 320.0
	midPeakHz   = 1000.0
	highShelfHz = 3200.0
	shelfQ      = 0.7071
	midQ        = 0.5
)

// equalizer is a low shelf, a peaking band and a high shelf in series,
// one filter chain per channel.
type equalizer struct {
	sampleRate float64
	bands      [3][2]*biquad.Section
}

func newEqualizer(sampleRate float64, eq EQSettings) *equalizer {
	e := &equalizer{sampleRate: sampleRate}
	for b := range e.bands {
		for c := range e.bands[b] {
			e.bands[b][c] = biquad.NewSection(biquad.Coefficients{B0: 1})
		}
	}
	e.set(eq)

	return e
}

// set swaps coefficients without touching filter state.
func (e *equalizer) set(eq EQSettings) {
	coeffs := [3]biquad.Coefficients{
		design.LowShelf(lowShelfHz, eq.Low, shelfQ, e.sampleRate),
		design.Peak(midPeakHz, eq.Mid, midQ, e.sampleRate),
		design.HighShelf(highShelfHz, eq.High, shelfQ, e.sampleRate),
	}

	for b, c := range coeffs {
		for _, s := range e.bands[b] {
			s.Coefficients = c
		}
	}
}

func (e *equalizer) process(l, r []float64) {
	for b := range e.bands {
		e.bands[b][0].ProcessBlock(l)
		e.bands[b][1].ProcessBlock(r)
	}
}
