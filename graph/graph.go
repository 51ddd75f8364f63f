// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sync"

	"github.com/ik5/soundscape/utils"
	"github.com/ossrs/go-oryx-lib/logger"
)

const DefaultSampleRate = 44100

// Options configure a Graph. Zero values take defaults; a nil Backend
// leaves pulling to the caller.
type Options struct {
	SampleRate int
	TapSize    int
	Seed       uint64
	Backend    Backend
}

// Graph is the master bus of a session: inputs are summed, scaled by the
// master volume, equalized, fed to the reverb and delay sends, limited and
// finally observed by the analysis tap.
//
// Process runs on the backend goroutine. Every other method is safe to call
// from the control goroutine.
type Graph struct {
	initMu sync.Mutex

	mu          sync.Mutex
	opts        Options
	ctx         context.Context
	initialized bool
	closed      bool
	suspended   bool

	master  float64
	effects EffectSettings
	inputs  []Input

	rng         *rand.Rand
	generations int
	frames      int64

	eq  *equalizer
	rev *reverbSend
	dly *delaySend
	lim *limiter
	tap *Tap

	bus [impulseChannels][]float64
	out [impulseChannels][]float64
}

// New returns an uninitialized graph. No DSP state is allocated and no
// backend is started until Initialize.
func New(opts Options) *Graph {
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.TapSize <= 0 {
		opts.TapSize = DefaultTapSize
	}

	return &Graph{
		opts:    opts,
		ctx:     context.Background(),
		master:  1,
		effects: DefaultEffects(),
		rng:     rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		tap:     NewTap(opts.TapSize),
	}
}

// Initialize builds the processing nodes and starts the backend. Calling
// it again after a success does nothing. A failure leaves the graph
// uninitialized and returns an *InitError; a later call may retry.
func (g *Graph) Initialize(ctx context.Context) error {
	g.initMu.Lock()
	defer g.initMu.Unlock()

	ctx = logger.WithContext(ctx)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	if g.initialized {
		g.mu.Unlock()
		return nil
	}
	if err := g.build(); err != nil {
		g.mu.Unlock()
		logger.Ef(ctx, "graph build failed, err=%v", err)
		return &InitError{Err: err}
	}
	g.ctx = ctx
	g.initialized = true
	g.suspended = false
	backend := g.opts.Backend
	g.mu.Unlock()

	if backend != nil {
		if err := backend.Start(ctx, g, g.opts.SampleRate); err != nil {
			g.mu.Lock()
			g.teardown()
			g.mu.Unlock()
			logger.Ef(ctx, "graph backend start failed, err=%v", err)
			return &InitError{Err: fmt.Errorf("start backend: %w", err)}
		}
	}

	logger.Tf(ctx, "graph initialized, rate=%v, tap=%v", g.opts.SampleRate, g.tap.Size())

	return nil
}

func (g *Graph) build() error {
	sr := g.opts.SampleRate

	eq := newEqualizer(float64(sr), g.effects.EQ)

	rev, err := g.newReverb()
	if err != nil {
		return err
	}

	dly, err := newDelaySend(sr)
	if err != nil {
		return err
	}

	lim, err := newLimiter(sr)
	if err != nil {
		return err
	}

	g.eq, g.rev, g.dly, g.lim = eq, rev, dly, lim

	return nil
}

func (g *Graph) newReverb() (*reverbSend, error) {
	ir := Impulse(g.rng, g.opts.SampleRate, g.effects.Reverb.Decay, g.effects.Reverb.RoomSize)
	normalizeImpulse(ir, g.opts.SampleRate)

	rev, err := newReverbSend(ir)
	if err != nil {
		return nil, err
	}
	g.generations++

	return rev, nil
}

func (g *Graph) teardown() {
	g.initialized = false
	g.eq, g.rev, g.dly, g.lim = nil, nil, nil, nil
}

// Initialized reports whether Initialize has succeeded.
func (g *Graph) Initialized() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.initialized
}

func (g *Graph) SampleRate() int { return g.opts.SampleRate }

// Tap returns the analysis tap. It is valid before Initialize and reads
// silence until audio flows.
func (g *Graph) Tap() *Tap { return g.tap }

// Connect adds in to the master bus. Connecting the same input twice is a
// no-op.
func (g *Graph) Connect(in Input) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !slices.Contains(g.inputs, in) {
		g.inputs = append(g.inputs, in)
	}
}

func (g *Graph) Disconnect(in Input) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.inputs = slices.DeleteFunc(g.inputs, func(i Input) bool { return i == in })
}

func (g *Graph) SetMasterVolume(v float64) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.master = utils.ClampUnit(v)
}

func (g *Graph) MasterVolume() float64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.master
}

func (g *Graph) Effects() EffectSettings {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.effects
}

// ApplyEffects merges p into the current settings and returns the result.
func (g *Graph) ApplyEffects(p EffectPatch) (EffectSettings, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	err := g.setEffects(g.effects.Merge(p))

	return g.effects, err
}

// SetEffects replaces every effect parameter.
func (g *Graph) SetEffects(s EffectSettings) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.setEffects(s.Clamp())
}

// setEffects takes effect at the current frame. The impulse is rebuilt
// only when its shape parameters change.
func (g *Graph) setEffects(s EffectSettings) error {
	if g.closed {
		return ErrClosed
	}

	prev := g.effects
	g.effects = s

	if !g.initialized {
		return nil
	}

	g.eq.set(s.EQ)

	if s.Reverb.Decay == prev.Reverb.Decay && s.Reverb.RoomSize == prev.Reverb.RoomSize {
		return nil
	}

	rev, err := g.newReverb()
	if err != nil {
		g.effects.Reverb = prev.Reverb
		return fmt.Errorf("rebuild reverb: %w", err)
	}
	g.rev = rev

	return nil
}

// ImpulseGenerations counts how many impulse responses have been built.
func (g *Graph) ImpulseGenerations() int {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.generations
}

// FrameTime is the number of frames processed so far.
func (g *Graph) FrameTime() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.frames
}

// Process renders len(dst)/2 interleaved stereo frames.
func (g *Graph) Process(dst []float32) {
	g.mu.Lock()
	defer g.mu.Unlock()

	clear(dst)
	if !g.initialized || g.closed {
		return
	}

	for _, in := range g.inputs {
		in.Render(dst)
	}

	n := len(dst) / 2
	for c := range g.bus {
		g.bus[c] = grow(g.bus[c], n)
		g.out[c] = grow(g.out[c], n)
	}
	for i := range n {
		g.bus[0][i] = float64(dst[2*i]) * g.master
		g.bus[1][i] = float64(dst[2*i+1]) * g.master
	}

	copy(g.out[0], g.bus[0])
	copy(g.out[1], g.bus[1])
	g.eq.process(g.out[0], g.out[1])

	if err := g.rev.process(g.bus, g.out, g.effects.Reverb.Mix); err != nil {
		logger.Ef(g.ctx, "reverb send failed, frame=%v, err=%v", g.frames, err)
	}
	g.dly.process(g.bus, g.out, g.effects.Delay, g.opts.SampleRate)
	g.lim.process(g.out)

	g.tap.write(g.out[0], g.out[1])

	for i := range n {
		dst[2*i] = float32(g.out[0][i])
		dst[2*i+1] = float32(g.out[1][i])
	}
	g.frames += int64(n)
}

// Suspend asks the backend to stop pulling audio.
func (g *Graph) Suspend() error {
	return g.backendCall(true)
}

func (g *Graph) Resume() error {
	return g.backendCall(false)
}

func (g *Graph) backendCall(suspend bool) error {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return ErrClosed
	}
	if !g.initialized || g.suspended == suspend {
		g.mu.Unlock()
		return nil
	}
	g.suspended = suspend
	backend := g.opts.Backend
	g.mu.Unlock()

	if backend == nil {
		return nil
	}
	if suspend {
		return backend.Suspend()
	}

	return backend.Resume()
}

// Suspended reports whether the output is suspended.
func (g *Graph) Suspended() bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.suspended
}

// Close stops the backend and releases DSP state. It is safe to call more
// than once.
func (g *Graph) Close() error {
	g.initMu.Lock()
	defer g.initMu.Unlock()

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil
	}
	g.closed = true
	started := g.initialized
	g.teardown()
	g.inputs = nil
	backend := g.opts.Backend
	ctx := g.ctx
	g.mu.Unlock()

	if backend == nil || !started {
		return nil
	}
	if err := backend.Close(); err != nil {
		return fmt.Errorf("close backend: %w", err)
	}
	logger.Tf(ctx, "graph closed")

	return nil
}
