// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// maxIdleReads bounds consecutive (0, nil) reads before a source is
// treated as finished.
const maxIdleReads = 64

// StereoMixer maps any channel layout onto interleaved stereo. Mono is
// duplicated to both sides, stereo passes through, and wider layouts fold
// even channels into left and odd channels into right.
type StereoMixer struct {
	src Source
	tmp []float32
}

func NewStereoMixer(src Source) *StereoMixer {
	return &StereoMixer{
		src: src,
		tmp: make([]float32, 4096),
	}
}

func (m *StereoMixer) SampleRate() int { return m.src.SampleRate() }
func (m *StereoMixer) Channels() int   { return 2 }
func (m *StereoMixer) BufSize() int    { return m.src.BufSize() }

func (m *StereoMixer) Close() error {
	if err := m.src.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *StereoMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst)%2 != 0 {
		return 0, ErrInvalidDstSize
	}
	if len(dst) == 0 {
		return 0, nil
	}

	channels := m.src.Channels()
	if channels == 2 {
		return m.src.ReadSamples(dst)
	}

	frames := len(dst) / 2
	need := frames * channels
	if cap(m.tmp) < need {
		m.tmp = make([]float32, need)
	}
	m.tmp = m.tmp[:need]

	n, err := m.src.ReadSamples(m.tmp)
	got := n / channels

	switch channels {
	case 1:
		for f := range got {
			dst[2*f] = m.tmp[f]
			dst[2*f+1] = m.tmp[f]
		}
	default:
		left := float32(1) / float32((channels+1)/2)
		right := float32(1) / float32(channels/2)
		for f := range got {
			var l, r float32
			frame := m.tmp[f*channels : (f+1)*channels]
			for c, v := range frame {
				if c%2 == 0 {
					l += v
				} else {
					r += v
				}
			}
			dst[2*f] = l * left
			dst[2*f+1] = r * right
		}
	}

	return got * 2, err
}
