// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

type stubOgg struct {
	channels int
	data     []float32
	err      error
}

func (s *stubOgg) SampleRate() int { return 48000 }
func (s *stubOgg) Channels() int   { return s.channels }

func (s *stubOgg) Read(p []float32) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		channels int
		data     []float32
		dst      int
		wantN    int
	}{
		{name: "stereo whole frames", channels: 2, data: []float32{0.1, 0.2, 0.3, 0.4}, dst: 4, wantN: 4},
		{name: "stereo trims odd dst", channels: 2, data: []float32{0.1, 0.2, 0.3, 0.4}, dst: 3, wantN: 2},
		{name: "mono short read", channels: 1, data: []float32{0.5}, dst: 8, wantN: 1},
		{name: "dst smaller than a frame", channels: 2, data: []float32{0.1, 0.2}, dst: 1, wantN: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &source{dec: &stubOgg{channels: tt.channels, data: tt.data}}
			dst := make([]float32, tt.dst)

			n, err := src.ReadSamples(dst)
			if err != nil {
				t.Fatalf("ReadSamples() error: %v", err)
			}
			if n != tt.wantN {
				t.Errorf("ReadSamples() = %d, want %d", n, tt.wantN)
			}
			for i := range n {
				if dst[i] != tt.data[i] {
					t.Errorf("sample %d = %v, want %v", i, dst[i], tt.data[i])
				}
			}
		})
	}
}

func TestSource_EOFAndErrors(t *testing.T) {
	t.Parallel()

	src := &source{dec: &stubOgg{channels: 2}}
	if n, err := src.ReadSamples(make([]float32, 4)); n != 0 || err != io.EOF {
		t.Errorf("ReadSamples() = %d, %v, want 0, EOF", n, err)
	}

	boom := errors.New("bad page")
	src = &source{dec: &stubOgg{channels: 2, err: boom}}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("error = %v, want bad page", err)
	}
}

func TestDecoder_RejectsGarbage(t *testing.T) {
	t.Parallel()

	if _, err := (Decoder{}).Decode(bytes.NewReader([]byte("OggS but not really"))); err == nil {
		t.Error("Decode(garbage) succeeded, want error")
	}
}
