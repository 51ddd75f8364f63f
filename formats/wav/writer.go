// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/ik5/soundscape/audio"
	"github.com/ik5/soundscape/utils"
)

const bitDepth16 = 16

// Writer encodes interleaved float32 samples as 16-bit PCM WAV.
// The header sizes are patched in Close, which needs the Seek of w.
type Writer struct {
	enc      *wav.Encoder
	buf      *goaudio.IntBuffer
	channels int
	frames   int
}

func NewWriter(w io.WriteSeeker, sampleRate, channels int) (*Writer, error) {
	if channels <= 0 {
		return nil, ErrInvalidChannels
	}

	format := &goaudio.Format{NumChannels: channels, SampleRate: sampleRate}

	return &Writer{
		enc:      wav.NewEncoder(w, sampleRate, bitDepth16, channels, pcmFormat),
		buf:      &goaudio.IntBuffer{Format: format, SourceBitDepth: bitDepth16},
		channels: channels,
	}, nil
}

// Write appends samples. len(samples) must be a multiple of the channel
// count.
func (w *Writer) Write(samples []float32) error {
	if len(samples)%w.channels != 0 {
		return audio.ErrInvalidDstSize
	}
	if len(samples) == 0 {
		return nil
	}

	if cap(w.buf.Data) < len(samples) {
		w.buf.Data = make([]int, len(samples))
	}
	w.buf.Data = w.buf.Data[:len(samples)]

	for i, v := range samples {
		w.buf.Data[i] = int(utils.Float32ToInt16(v))
	}

	if err := w.enc.Write(w.buf); err != nil {
		return fmt.Errorf("encode frames: %w", err)
	}
	w.frames += len(samples) / w.channels

	return nil
}

// Frames reports how many frames were written so far.
func (w *Writer) Frames() int { return w.frames }

// Close finalizes the header. The underlying writer stays open.
func (w *Writer) Close() error {
	if err := w.enc.Close(); err != nil {
		return fmt.Errorf("finalize header: %w", err)
	}

	return nil
}

// WriteClip writes a whole clip as a stereo 16-bit WAV.
func WriteClip(w io.WriteSeeker, clip *audio.Clip) error {
	out, err := NewWriter(w, clip.SampleRate, 2)
	if err != nil {
		return err
	}

	if err := out.Write(clip.Samples); err != nil {
		return err
	}

	return out.Close()
}
