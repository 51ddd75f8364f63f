// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"errors"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
)

type stubAiff struct {
	data []int
	err  error
}

func (s *stubAiff) Format() *goaudio.Format {
	return &goaudio.Format{NumChannels: 1, SampleRate: 44100}
}

func (s *stubAiff) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n := copy(buf.Data, s.data)
	s.data = s.data[n:]
	return n, nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		scale float32
		data  []int
		want  []float32
	}{
		{name: "16-bit", scale: 32768, data: []int{16384, -32768}, want: []float32{0.5, -1}},
		{name: "24-bit", scale: 8388608, data: []int{4194304}, want: []float32{0.5}},
		{name: "8-bit", scale: 128, data: []int{-64, 127}, want: []float32{-0.5, 127.0 / 128}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &source{dec: &stubAiff{data: tt.data}, sampleRate: 44100, channels: 1, scale: tt.scale}
			dst := make([]float32, 16)

			n, err := src.ReadSamples(dst)
			if err != io.EOF {
				t.Fatalf("short read error = %v, want EOF", err)
			}
			if n != len(tt.want) {
				t.Fatalf("ReadSamples() = %d, want %d", n, len(tt.want))
			}
			for i, w := range tt.want {
				if dst[i] != w {
					t.Errorf("sample %d = %v, want %v", i, dst[i], w)
				}
			}
		})
	}
}

func TestSource_DecoderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("ssnd chunk truncated")
	src := &source{dec: &stubAiff{err: boom}, sampleRate: 44100, channels: 1, scale: 32768}
	if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
		t.Errorf("error = %v, want ssnd chunk truncated", err)
	}
}

func TestDecoder_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("RIFF....WAVEfmt ")))
	if !errors.Is(err, ErrNotAiffFile) {
		t.Errorf("error = %v, want ErrNotAiffFile", err)
	}
}
