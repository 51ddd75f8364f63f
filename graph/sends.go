// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-dsp/dsp/delay"
	"github.com/cwbudde/algo-dsp/dsp/effects/dynamics"
	"github.com/cwbudde/algo-dsp/dsp/effects/reverb"
)

// reverbSend convolves each channel with its half of a stereo impulse.
type reverbSend struct {
	conv [impulseChannels]*reverb.ConvolutionReverb
	wet  [impulseChannels][]float64
}

func newReverbSend(ir [impulseChannels][]float64) (*reverbSend, error) {
	s := &reverbSend{}
	for c, kernel := range ir {
		cr, err := reverb.NewConvolutionReverb(kernel, reverbMinBlockOrder)
		if err != nil {
			return nil, fmt.Errorf("reverb channel %d: %w", c, err)
		}
		cr.SetWetDry(1, 0)
		s.conv[c] = cr
	}

	return s, nil
}

// process adds mix times the reverberated dry signal into out.
func (s *reverbSend) process(dry, out [impulseChannels][]float64, mix float64) error {
	for c := range s.conv {
		s.wet[c] = grow(s.wet[c], len(dry[c]))
		copy(s.wet[c], dry[c])
		if err := s.conv[c].ProcessInPlace(s.wet[c]); err != nil {
			return err
		}
		// The convolution carries state, so it runs even when muted.
		if mix == 0 {
			continue
		}
		for i, v := range s.wet[c] {
			out[c][i] += v * mix
		}
	}

	return nil
}

// delaySend is a feedback echo per channel.
type delaySend struct {
	lines [impulseChannels]*delay.Line
	size  int
}

func newDelaySend(sampleRate int) (*delaySend, error) {
	size := int(MaxDelayTime*float64(sampleRate)) + 2
	s := &delaySend{size: size}
	for c := range s.lines {
		l, err := delay.New(size)
		if err != nil {
			return nil, fmt.Errorf("delay channel %d: %w", c, err)
		}
		s.lines[c] = l
	}

	return s, nil
}

// samples converts a delay time to a whole number of samples, at least one.
func (s *delaySend) samples(seconds float64, sampleRate int) int {
	d := int(math.Round(seconds * float64(sampleRate)))

	return min(max(d, 1), s.size-1)
}

func (s *delaySend) process(dry, out [impulseChannels][]float64, d DelaySettings, sampleRate int) {
	n := s.samples(d.Time, sampleRate)
	for c, line := range s.lines {
		for i, x := range dry[c] {
			y := line.Read(n)
			line.Write(x + d.Feedback*y)
			out[c][i] += y * d.Mix
		}
	}
}

const (
	limiterThreshold = -10.0
	limiterRatio     = 12.0
	limiterAttackMs  = 3.0
	limiterReleaseMs = 250.0
)

// limiter is the output compressor, one unlinked detector per channel.
type limiter struct {
	comp [impulseChannels]*dynamics.Compressor
}

func newLimiter(sampleRate int) (*limiter, error) {
	l := &limiter{}
	for c := range l.comp {
		cp, err := dynamics.NewCompressor(float64(sampleRate))
		if err != nil {
			return nil, err
		}
		err = errors.Join(
			cp.SetThreshold(limiterThreshold),
			cp.SetRatio(limiterRatio),
			cp.SetKnee(0),
			cp.SetAttack(limiterAttackMs),
			cp.SetRelease(limiterReleaseMs),
			cp.SetMakeupGain(0),
		)
		if err != nil {
			return nil, fmt.Errorf("limiter: %w", err)
		}
		l.comp[c] = cp
	}

	return l, nil
}

func (l *limiter) process(bus [impulseChannels][]float64) {
	for c, cp := range l.comp {
		cp.ProcessInPlace(bus[c])
	}
}

func grow(buf []float64, n int) []float64 {
	if cap(buf) < n {
		return make([]float64, n)
	}

	return buf[:n]
}
