// SPDX-License-Identifier: EPL-2.0

package output

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/ik5/soundscape/formats/wav"
	"github.com/ik5/soundscape/graph"
)

// FileBackend renders a graph offline into a stereo 16-bit WAV stream.
// Audio is pulled only by Render, so the graph advances exactly as many
// frames as are written.
type FileBackend struct {
	w           io.WriteSeeker
	blockFrames int

	mu        sync.Mutex
	r         graph.Renderer
	enc       *wav.Writer
	buf       []float32
	suspended bool
	closed    bool
}

var _ graph.Backend = (*FileBackend)(nil)

func NewFileBackend(w io.WriteSeeker, blockFrames int) *FileBackend {
	if blockFrames <= 0 {
		blockFrames = DefaultBlockFrames
	}

	return &FileBackend{w: w, blockFrames: blockFrames}
}

func (b *FileBackend) Start(_ context.Context, r graph.Renderer, sampleRate int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if b.r != nil {
		return ErrAlreadyStarted
	}

	enc, err := wav.NewWriter(b.w, sampleRate, 2)
	if err != nil {
		return fmt.Errorf("wav writer: %w", err)
	}
	b.r, b.enc = r, enc
	b.buf = make([]float32, 2*b.blockFrames)

	return nil
}

// Render pulls frames from the graph and appends them to the file. While
// suspended it writes nothing.
func (b *FileBackend) Render(ctx context.Context, frames int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch {
	case b.closed:
		return ErrClosed
	case b.r == nil:
		return ErrNotStarted
	case b.suspended:
		return nil
	}

	for frames > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := min(frames, b.blockFrames)
		block := b.buf[:2*n]
		b.r.Process(block)
		if err := b.enc.Write(block); err != nil {
			return fmt.Errorf("render: %w", err)
		}
		frames -= n
	}

	return nil
}

// Frames reports how many frames have been written.
func (b *FileBackend) Frames() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.enc == nil {
		return 0
	}

	return b.enc.Frames()
}

func (b *FileBackend) Suspend() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.suspended = true

	return nil
}

func (b *FileBackend) Resume() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.suspended = false

	return nil
}

// Close finalizes the WAV header. The underlying writer is left open.
func (b *FileBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	if b.enc == nil {
		return nil
	}

	return b.enc.Close()
}
