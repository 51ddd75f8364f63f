// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"context"
	"fmt"
	"io"
	"time"
)

const renderBlockFrames = 4096

// Clip is a fully decoded, interleaved stereo buffer at a fixed rate.
type Clip struct {
	SampleRate int
	Samples    []float32
}

// Frames returns the clip length in stereo frames.
func (c *Clip) Frames() int { return len(c.Samples) / 2 }

func (c *Clip) Duration() time.Duration {
	if c.SampleRate <= 0 {
		return 0
	}

	return time.Duration(c.Frames()) * time.Second / time.Duration(c.SampleRate)
}

// Frame returns the left and right samples at frame i.
func (c *Clip) Frame(i int) (float32, float32) {
	return c.Samples[2*i], c.Samples[2*i+1]
}

// Render drains src into a stereo Clip at rate, resampling when the
// source rate differs. src is not closed. Cancelling ctx aborts the
// render between blocks.
func Render(ctx context.Context, src Source, rate int) (*Clip, error) {
	if rate <= 0 || src.SampleRate() <= 0 || src.Channels() <= 0 {
		return nil, ErrInvalidRate
	}

	var s Source = src
	if src.SampleRate() != rate {
		s = NewResampler(s, rate)
	}
	stereo := NewStereoMixer(s)

	buf := make([]float32, renderBlockFrames*2)
	clip := &Clip{SampleRate: rate}

	for idle := 0; ; {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}

		n, err := stereo.ReadSamples(buf)
		clip.Samples = append(clip.Samples, buf[:n]...)

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}

		if n == 0 {
			idle++
			if idle >= maxIdleReads {
				break
			}
		} else {
			idle = 0
		}
	}

	if len(clip.Samples) == 0 {
		return nil, ErrEmptySource
	}

	return clip, nil
}
