// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"testing"

	"github.com/ik5/soundscape/internal/audiotest"
)

func TestStereoMixer_Layouts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		wave     func(frame, channel int) float32
		wantL    float32
		wantR    float32
	}{
		{
			name:     "mono duplicated",
			channels: 1,
			wave:     func(int, int) float32 { return 0.4 },
			wantL:    0.4,
			wantR:    0.4,
		},
		{
			name:     "stereo passthrough",
			channels: 2,
			wave:     func(_, c int) float32 { return float32(c) },
			wantL:    0,
			wantR:    1,
		},
		{
			name:     "quad folds even and odd",
			channels: 4,
			wave:     func(_, c int) float32 { return []float32{0.2, 0.6, 0.4, 0.2}[c] },
			wantL:    0.3,
			wantR:    0.4,
		},
		{
			name:     "three channels",
			channels: 3,
			wave:     func(_, c int) float32 { return []float32{0.2, 0.5, 0.6}[c] },
			wantL:    0.4,
			wantR:    0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m := NewStereoMixer(audiotest.NewMockSource(8000, tt.channels, 4, tt.wave))
			if m.Channels() != 2 {
				t.Fatalf("Channels() = %d, want 2", m.Channels())
			}

			dst := make([]float32, 8)
			n, _ := m.ReadSamples(dst)
			if n != 8 {
				t.Fatalf("ReadSamples() = %d, want 8", n)
			}

			for f := range 4 {
				if !near(dst[2*f], tt.wantL) || !near(dst[2*f+1], tt.wantR) {
					t.Errorf("frame %d = (%v, %v), want (%v, %v)", f, dst[2*f], dst[2*f+1], tt.wantL, tt.wantR)
				}
			}
		})
	}
}

func TestStereoMixer_OddDst(t *testing.T) {
	t.Parallel()

	m := NewStereoMixer(audiotest.NewSilentSource(8000, 1, 4))
	if _, err := m.ReadSamples(make([]float32, 5)); !errors.Is(err, ErrInvalidDstSize) {
		t.Errorf("error = %v, want ErrInvalidDstSize", err)
	}
}

func near(a, b float32) bool {
	d := a - b
	return d < 1e-6 && d > -1e-6
}
