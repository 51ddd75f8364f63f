// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"math"
	"sync"

	"github.com/ik5/soundscape/audio"
	"github.com/ik5/soundscape/utils"
)

type State int32

const (
	StateUnloaded State = iota
	StateLoading
	StateLoaded
	StateFailed
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateFailed:
		return "failed"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// ReportFunc receives the outcome of a load: nil on success, a
// *PlaybackError otherwise. It runs on the load goroutine.
type ReportFunc func(id string, err error)

// Engine plays one looping track. Control methods may be called from any
// goroutine; Render is called by the mixing graph on the audio goroutine.
type Engine struct {
	id      string
	locator string
	loader  ClipLoader

	mu       sync.Mutex
	report   ReportFunc
	state    State
	clip     *audio.Clip
	pos      int
	playing  bool
	playable bool
	volume   float64
	pan      float64
	err      error
	cancel   context.CancelFunc
	done     chan struct{}
}

// New returns an unloaded engine at full volume, centered.
func New(id, locator string, loader ClipLoader) *Engine {
	return &Engine{
		id:       id,
		locator:  locator,
		loader:   loader,
		playable: true,
		volume:   1,
		done:     make(chan struct{}),
	}
}

func (e *Engine) ID() string      { return e.id }
func (e *Engine) Locator() string { return e.locator }

// SetReporter replaces the load outcome callback.
func (e *Engine) SetReporter(fn ReportFunc) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.report = fn
}

// attach installs fn as the reporter. When the load already finished, fn
// will not be called by it; finished is true and err is the outcome to
// deliver instead.
func (e *Engine) attach(fn ReportFunc) (finished bool, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.report = fn
	switch e.state {
	case StateLoaded:
		return true, nil
	case StateFailed:
		return true, e.err
	}

	return false, nil
}

// Load starts decoding in the background and returns immediately. Calls
// after the first are ignored. Cancelling ctx, or closing the engine,
// drops the outcome without reporting it.
func (e *Engine) Load(ctx context.Context) {
	e.mu.Lock()
	if e.state != StateUnloaded {
		e.mu.Unlock()
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	e.state = StateLoading
	e.cancel = cancel
	e.mu.Unlock()

	go e.load(ctx, cancel)
}

func (e *Engine) load(ctx context.Context, cancel context.CancelFunc) {
	defer close(e.done)
	defer cancel()

	clip, err := e.loader.Load(ctx, e.locator)

	e.mu.Lock()
	if ctx.Err() != nil || e.state == StateClosed {
		e.mu.Unlock()
		return
	}

	if err != nil {
		msg := err.Error()
		if errors.Is(err, ErrContentUnavailable) {
			msg = ErrContentUnavailable.Error()
		}

		perr := &PlaybackError{SourceID: e.id, Message: msg, Err: err}
		e.state = StateFailed
		e.playable = false
		e.playing = false
		e.err = perr
		report := e.report
		e.mu.Unlock()

		if report != nil {
			report(e.id, perr)
		}
		return
	}

	e.clip = clip
	e.pos = 0
	e.state = StateLoaded
	report := e.report
	e.mu.Unlock()

	if report != nil {
		report(e.id, nil)
	}
}

// Wait blocks until the load started by Load has finished.
func (e *Engine) Wait(ctx context.Context) error {
	e.mu.Lock()
	state := e.state
	e.mu.Unlock()

	if state == StateUnloaded {
		return ErrNotStarted
	}

	select {
	case <-e.done:
	case <-ctx.Done():
		return ctx.Err()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateClosed {
		return ErrClosed
	}

	return e.err
}

// Play starts or resumes playback. It is a no-op when already playing or
// when the track failed. A play before decoding finishes takes effect once
// the clip is ready.
func (e *Engine) Play() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playable || e.state == StateClosed {
		return
	}
	e.playing = true
}

// Pause halts playback and keeps the position.
func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.playing = false
}

// Stop halts playback and rewinds to the start.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.playing = false
	e.pos = 0
}

func (e *Engine) SetVolume(v float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.volume = utils.ClampUnit(v)
}

func (e *Engine) SetPan(p float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.pan = utils.ClampPan(p)
}

func (e *Engine) Volume() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.volume
}

func (e *Engine) Pan() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pan
}

func (e *Engine) IsPlaying() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.playing
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Loaded reports whether the clip is decoded and ready.
func (e *Engine) Loaded() bool { return e.State() == StateLoaded }

// Playable is false once loading failed.
func (e *Engine) Playable() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.playable
}

// Err returns the load failure, if any.
func (e *Engine) Err() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.err
}

// Position returns the current frame within the clip.
func (e *Engine) Position() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.pos
}

// Close cancels any load in flight and frees the clip.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == StateClosed {
		return
	}
	if e.cancel != nil {
		e.cancel()
	}

	e.state = StateClosed
	e.playing = false
	e.playable = false
	e.clip = nil
}

// Render mixes the next len(dst)/2 frames into dst, an interleaved stereo
// bus, looping at the clip end. Pan follows the equal-power stereo panner
// law.
func (e *Engine) Render(dst []float32) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.playing || e.clip == nil || e.clip.Frames() == 0 {
		return
	}

	vol := float32(e.volume)
	if vol == 0 {
		e.advance(len(dst) / 2)
		return
	}

	// Left pan folds right into left, right pan folds left into right.
	var ll, rl, rr, lr float32
	if e.pan <= 0 {
		x := (e.pan + 1) * math.Pi / 2
		ll, rl, rr = 1, float32(math.Cos(x)), float32(math.Sin(x))
	} else {
		x := e.pan * math.Pi / 2
		ll, lr, rr = float32(math.Cos(x)), float32(math.Sin(x)), 1
	}

	frames := e.clip.Frames()
	for i := range len(dst) / 2 {
		inL, inR := e.clip.Frame(e.pos)
		dst[2*i] += vol * (inL*ll + inR*rl)
		dst[2*i+1] += vol * (inR*rr + inL*lr)

		e.pos++
		if e.pos >= frames {
			e.pos = 0
		}
	}
}

func (e *Engine) advance(n int) {
	e.pos = (e.pos + n) % e.clip.Frames()
}
