// SPDX-License-Identifier: EPL-2.0

package output

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/ossrs/go-oryx-lib/logger"

	"github.com/ik5/soundscape/graph"
)

const DefaultBufferSize = 50 * time.Millisecond

// Device is the host audio output. The platform allows one per process,
// so a Device is created once and shared by every session; each session
// plays through its own Backend.
type Device struct {
	sampleRate int
	bufferSize time.Duration

	once  sync.Once
	ctx   *oto.Context
	ready <-chan struct{}
	err   error
}

// NewDevice describes an output device. Nothing is opened until the first
// Backend starts.
func NewDevice(sampleRate int, bufferSize time.Duration) *Device {
	if bufferSize <= 0 {
		bufferSize = DefaultBufferSize
	}

	return &Device{sampleRate: sampleRate, bufferSize: bufferSize}
}

func (d *Device) SampleRate() int { return d.sampleRate }

func (d *Device) open(ctx context.Context) (*oto.Context, error) {
	d.once.Do(func() {
		d.ctx, d.ready, d.err = oto.NewContext(&oto.NewContextOptions{
			SampleRate:   d.sampleRate,
			ChannelCount: 2,
			Format:       oto.FormatSignedInt16LE,
			BufferSize:   d.bufferSize,
		})
		if d.err == nil {
			logger.Tf(ctx, "audio device opened, rate=%v, buffer=%v", d.sampleRate, d.bufferSize)
		}
	})
	if d.err != nil {
		return nil, fmt.Errorf("open audio device: %w", d.err)
	}

	select {
	case <-d.ready:
		return d.ctx, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Backend returns a session backend pulling blockFrames frames at a time.
func (d *Device) Backend(blockFrames int) *PlayerBackend {
	return &PlayerBackend{dev: d, blockFrames: blockFrames}
}

// PlayerBackend plays a graph through the shared Device.
type PlayerBackend struct {
	dev         *Device
	blockFrames int

	mu     sync.Mutex
	player *oto.Player
	closed bool
}

var _ graph.Backend = (*PlayerBackend)(nil)

func (b *PlayerBackend) Start(ctx context.Context, r graph.Renderer, sampleRate int) error {
	if sampleRate != b.dev.sampleRate {
		return fmt.Errorf("%w: graph %v, device %v", ErrRateMismatch, sampleRate, b.dev.sampleRate)
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}
	if b.player != nil {
		return ErrAlreadyStarted
	}

	octx, err := b.dev.open(ctx)
	if err != nil {
		return err
	}

	b.player = octx.NewPlayer(newPCMReader(r, b.blockFrames))
	b.player.Play()

	return nil
}

func (b *PlayerBackend) Suspend() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player == nil {
		return ErrNotStarted
	}
	b.player.Pause()

	return nil
}

func (b *PlayerBackend) Resume() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.player == nil {
		return ErrNotStarted
	}
	b.player.Play()

	return nil
}

// Close stops playback. The Device stays open for other sessions.
func (b *PlayerBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closed = true
	if b.player == nil {
		return nil
	}

	p := b.player
	b.player = nil
	if err := p.Close(); err != nil {
		return fmt.Errorf("close player: %w", err)
	}

	return nil
}
