// SPDX-License-Identifier: EPL-2.0

package visual

import (
	"context"
	"sync"
	"time"

	"github.com/ossrs/go-oryx-lib/logger"
)

// Analyser is the read side of the output tap.
type Analyser interface {
	TimeDomain(dst []float32) []float32
	FrequencyData(dst []float32) []float32
	Peak() float32
}

// Frame is one rendered display frame. Its slices are reused by the next
// frame; a Renderer must copy what it keeps.
type Frame struct {
	Seq      int64
	Time     time.Time
	Waveform []Point
	Bars     []Bar
	Peak     float32
	Hold     float32
}

type Renderer interface {
	Render(f *Frame)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(f *Frame)

func (fn RendererFunc) Render(f *Frame) { fn(f) }

type Options struct {
	Width, Height float32
	Bins          int
	Palette       Palette
}

const (
	DefaultBins   = 32
	defaultWidth  = 512
	defaultHeight = 128
)

// Feed samples an Analyser once per display frame and hands the result to
// a Renderer. After Close returns the analyser is never read again.
type Feed struct {
	an     Analyser
	frames FrameSource
	r      Renderer
	opts   Options

	mu       sync.Mutex
	started  bool
	closed   bool
	cancel   context.CancelFunc
	finished chan struct{}

	td, fd []float32
	meter  *PeakMeter
	frame  Frame
}

func New(an Analyser, frames FrameSource, r Renderer, opts Options) *Feed {
	if opts.Width <= 0 {
		opts.Width = defaultWidth
	}
	if opts.Height <= 0 {
		opts.Height = defaultHeight
	}
	if opts.Bins <= 0 {
		opts.Bins = DefaultBins
	}

	return &Feed{
		an:       an,
		frames:   frames,
		r:        r,
		opts:     opts,
		finished: make(chan struct{}),
		meter:    NewPeakMeter(),
	}
}

// Start runs the frame loop on its own goroutine until ctx is done or
// Close is called.
func (f *Feed) Start(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case f.closed:
		return ErrClosed
	case f.started:
		return ErrStarted
	}

	ctx, f.cancel = context.WithCancel(logger.WithContext(ctx))
	f.started = true
	go f.run(ctx)

	return nil
}

func (f *Feed) run(ctx context.Context) {
	defer close(f.finished)
	defer f.frames.Stop()

	logger.Tf(ctx, "visualization feed started")
	for {
		select {
		case <-ctx.Done():
			logger.Tf(ctx, "visualization feed stopped")
			return
		case t, ok := <-f.frames.Frames():
			if !ok {
				return
			}
			if err := f.render(ctx, t); err != nil {
				return
			}
		}
	}
}

// Step renders a single frame synchronously.
func (f *Feed) Step() error {
	return f.render(context.Background(), time.Now())
}

func (f *Feed) render(ctx context.Context, t time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.closed || ctx.Err() != nil {
		return ErrClosed
	}

	f.td = f.an.TimeDomain(f.td)
	f.fd = f.an.FrequencyData(f.fd)
	peak := f.an.Peak()

	f.frame.Seq++
	f.frame.Time = t
	f.frame.Waveform = Waveform(f.frame.Waveform, f.td, f.opts.Width, f.opts.Height)
	f.frame.Bars = Spectrum(f.frame.Bars, f.fd, f.opts.Bins, f.opts.Height, f.opts.Palette)
	f.frame.Peak = peak
	f.frame.Hold = f.meter.Update(peak)

	f.r.Render(&f.frame)

	return nil
}

// Finished is closed when the frame loop has exited.
func (f *Feed) Finished() <-chan struct{} { return f.finished }

// Close cancels the frame loop and waits for it to exit. It is safe to
// call more than once.
func (f *Feed) Close() error {
	f.mu.Lock()
	if f.closed {
		f.mu.Unlock()
		return nil
	}
	f.closed = true
	started := f.started
	if f.cancel != nil {
		f.cancel()
	}
	f.mu.Unlock()

	if !started {
		f.frames.Stop()
		close(f.finished)
		return nil
	}
	<-f.finished

	return nil
}
