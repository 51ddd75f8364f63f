// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"

	"github.com/ik5/soundscape/audio"
)

func tempFile(t *testing.T) *os.File {
	t.Helper()

	f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
	if err != nil {
		t.Fatalf("create temp file: %v", err)
	}
	t.Cleanup(func() { _ = f.Close() })

	return f
}

func writeTone(t *testing.T, f *os.File, rate, channels, frames int) {
	t.Helper()

	w, err := NewWriter(f, rate, channels)
	if err != nil {
		t.Fatalf("NewWriter() error: %v", err)
	}

	block := make([]float32, frames*channels)
	for i := range frames {
		v := float32(0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate)))
		for c := range channels {
			block[i*channels+c] = v
		}
	}

	if err := w.Write(block); err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if w.Frames() != frames {
		t.Errorf("Frames() = %d, want %d", w.Frames(), frames)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}
}

func TestDecoder_ReadsWriterOutput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		rate     int
		channels int
		frames   int
	}{
		{name: "mono 8k", rate: 8000, channels: 1, frames: 800},
		{name: "stereo 44.1k", rate: 44100, channels: 2, frames: 4410},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := tempFile(t)
			writeTone(t, f, tt.rate, tt.channels, tt.frames)

			src, err := Decoder{}.Decode(f)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if src.SampleRate() != tt.rate || src.Channels() != tt.channels {
				t.Fatalf("format = %d Hz x %d, want %d Hz x %d", src.SampleRate(), src.Channels(), tt.rate, tt.channels)
			}

			var got []float32
			buf := make([]float32, 1000*tt.channels)
			for {
				n, err := src.ReadSamples(buf)
				got = append(got, buf[:n]...)
				if err == io.EOF {
					break
				}
				if err != nil {
					t.Fatalf("ReadSamples() error: %v", err)
				}
			}

			if len(got) != tt.frames*tt.channels {
				t.Fatalf("read %d samples, want %d", len(got), tt.frames*tt.channels)
			}

			var peak float32
			for _, v := range got {
				peak = max(peak, v)
			}
			if peak < 0.49 || peak > 0.51 {
				t.Errorf("peak = %v, want about 0.5", peak)
			}
		})
	}
}

func TestDecoder_NonSeekableInput(t *testing.T) {
	t.Parallel()

	f := tempFile(t)
	writeTone(t, f, 16000, 1, 160)

	data, err := io.ReadAll(f)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}

	src, err := Decoder{}.Decode(io.MultiReader(bytes.NewReader(data)))
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if src.SampleRate() != 16000 {
		t.Errorf("SampleRate() = %d, want 16000", src.SampleRate())
	}
}

func TestDecoder_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Decoder{}.Decode(bytes.NewReader([]byte("definitely not a riff file at all")))
	if !errors.Is(err, ErrNotWavFile) {
		t.Errorf("error = %v, want ErrNotWavFile", err)
	}
}

type stubReader struct {
	data []int
	err  error
}

func (s *stubReader) Format() *goaudio.Format {
	return &goaudio.Format{NumChannels: 2, SampleRate: 8000}
}

func (s *stubReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if s.err != nil {
		return 0, s.err
	}
	n := copy(buf.Data, s.data)
	s.data = s.data[n:]
	return n, nil
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	t.Run("scales by bit depth", func(t *testing.T) {
		t.Parallel()

		src := &source{dec: &stubReader{data: []int{16384, -16384}}, sampleRate: 8000, channels: 2, scale: 32768}
		dst := make([]float32, 4)

		n, err := src.ReadSamples(dst)
		if n != 2 || err != io.EOF {
			t.Fatalf("ReadSamples() = %d, %v, want 2, EOF", n, err)
		}
		if dst[0] != 0.5 || dst[1] != -0.5 {
			t.Errorf("samples = %v, want [0.5 -0.5]", dst[:2])
		}
	})

	t.Run("odd dst is trimmed to whole frames", func(t *testing.T) {
		t.Parallel()

		src := &source{dec: &stubReader{data: []int{1, 2, 3, 4}}, sampleRate: 8000, channels: 2, scale: 32768}
		n, err := src.ReadSamples(make([]float32, 3))
		if n != 2 || err != nil {
			t.Errorf("ReadSamples() = %d, %v, want 2, nil", n, err)
		}
	})

	t.Run("decoder error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("truncated chunk")
		src := &source{dec: &stubReader{err: boom}, sampleRate: 8000, channels: 2, scale: 32768}
		if _, err := src.ReadSamples(make([]float32, 4)); !errors.Is(err, boom) {
			t.Errorf("error = %v, want truncated chunk", err)
		}
	})
}

func TestWriter_Errors(t *testing.T) {
	t.Parallel()

	if _, err := NewWriter(tempFile(t), 8000, 0); !errors.Is(err, ErrInvalidChannels) {
		t.Errorf("NewWriter(channels=0) error = %v, want ErrInvalidChannels", err)
	}

	w, err := NewWriter(tempFile(t), 8000, 2)
	if err != nil {
		t.Fatalf("NewWriter() error: %v", err)
	}
	if err := w.Write(make([]float32, 3)); !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("Write(odd) error = %v, want ErrInvalidDstSize", err)
	}
}

func TestWriteClip(t *testing.T) {
	t.Parallel()

	f := tempFile(t)
	clip := &audio.Clip{SampleRate: 22050, Samples: make([]float32, 2*2205)}

	if err := WriteClip(f, clip); err != nil {
		t.Fatalf("WriteClip() error: %v", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		t.Fatalf("seek: %v", err)
	}

	src, err := Decoder{}.Decode(f)
	if err != nil {
		t.Fatalf("Decode() error: %v", err)
	}
	if src.Channels() != 2 || src.SampleRate() != 22050 {
		t.Errorf("format = %d Hz x %d, want 22050 Hz x 2", src.SampleRate(), src.Channels())
	}
}
