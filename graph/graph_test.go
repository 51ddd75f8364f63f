// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"context"
	"errors"
	"math"
	"sync"
	"testing"
)

type fakeBackend struct {
	mu       sync.Mutex
	startErr error
	starts   int
	suspends int
	resumes  int
	closes   int
	r        Renderer
}

func (b *fakeBackend) Start(_ context.Context, r Renderer, _ int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.startErr != nil {
		return b.startErr
	}
	b.starts++
	b.r = r
	return nil
}

func (b *fakeBackend) Suspend() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.suspends++
	return nil
}

func (b *fakeBackend) Resume() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.resumes++
	return nil
}

func (b *fakeBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closes++
	return nil
}

// constInput adds the same stereo frame on every call.
type constInput struct{ l, r float32 }

func (c *constInput) Render(dst []float32) {
	for i := 0; i+1 < len(dst); i += 2 {
		dst[i] += c.l
		dst[i+1] += c.r
	}
}

// clickInput adds a single left/right sample on its first call.
type clickInput struct {
	v    float32
	done bool
}

func (c *clickInput) Render(dst []float32) {
	if c.done || len(dst) < 2 {
		return
	}
	dst[0] += c.v
	dst[1] += c.v
	c.done = true
}

func newTestGraph(t *testing.T, b Backend) *Graph {
	t.Helper()

	g := New(Options{SampleRate: 8000, TapSize: 256, Seed: 7, Backend: b})
	t.Cleanup(func() { _ = g.Close() })
	return g
}

func TestGraph_InitializeIdempotent(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	g := newTestGraph(t, b)

	if g.Initialized() {
		t.Fatal("Initialized() = true before Initialize")
	}
	if got := g.ImpulseGenerations(); got != 0 {
		t.Errorf("ImpulseGenerations() before init = %d, want 0", got)
	}

	for range 3 {
		if err := g.Initialize(context.Background()); err != nil {
			t.Fatalf("Initialize() error: %v", err)
		}
	}

	if !g.Initialized() {
		t.Error("Initialized() = false after Initialize")
	}
	if b.starts != 1 {
		t.Errorf("backend starts = %d, want 1", b.starts)
	}
	if got := g.ImpulseGenerations(); got != 1 {
		t.Errorf("ImpulseGenerations() = %d, want 1", got)
	}
	if b.r != Renderer(g) {
		t.Error("backend did not receive the graph as renderer")
	}
}

func TestGraph_InitializeFailure(t *testing.T) {
	t.Parallel()

	boom := errors.New("no audio device")
	b := &fakeBackend{startErr: boom}
	g := newTestGraph(t, b)

	err := g.Initialize(context.Background())
	var initErr *InitError
	if !errors.As(err, &initErr) {
		t.Fatalf("Initialize() error = %v, want *InitError", err)
	}
	if !errors.Is(err, boom) {
		t.Errorf("Initialize() error = %v, want wrapping %v", err, boom)
	}
	if g.Initialized() {
		t.Error("Initialized() = true after failed Initialize")
	}

	b.mu.Lock()
	b.startErr = nil
	b.mu.Unlock()

	if err := g.Initialize(context.Background()); err != nil {
		t.Fatalf("retry Initialize() error: %v", err)
	}
	if !g.Initialized() {
		t.Error("Initialized() = false after retry")
	}
}

func TestGraph_ImpulseRegeneration(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, nil)

	// Changes before initialization only update the settings.
	if _, err := g.ApplyEffects(EffectPatch{Reverb: &ReverbPatch{Decay: Float(1)}}); err != nil {
		t.Fatalf("ApplyEffects() error: %v", err)
	}
	if got := g.ImpulseGenerations(); got != 0 {
		t.Fatalf("ImpulseGenerations() = %d, want 0", got)
	}

	if err := g.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize() error: %v", err)
	}

	tests := []struct {
		name  string
		patch EffectPatch
		want  int
	}{
		{"decay", EffectPatch{Reverb: &ReverbPatch{Decay: Float(3)}}, 2},
		{"mix only", EffectPatch{Reverb: &ReverbPatch{Mix: Float(0.5)}}, 2},
		{"same decay", EffectPatch{Reverb: &ReverbPatch{Decay: Float(3)}}, 2},
		{"delay and eq", EffectPatch{
			Delay: &DelayPatch{Time: Float(0.1), Mix: Float(0.4)},
			EQ:    &EQPatch{Low: Float(6)},
		}, 2},
		{"room size", EffectPatch{Reverb: &ReverbPatch{RoomSize: Float(0.9)}}, 3},
	}

	for _, tt := range tests {
		if _, err := g.ApplyEffects(tt.patch); err != nil {
			t.Fatalf("%s: ApplyEffects() error: %v", tt.name, err)
		}
		if got := g.ImpulseGenerations(); got != tt.want {
			t.Errorf("%s: ImpulseGenerations() = %d, want %d", tt.name, got, tt.want)
		}
	}

	got := g.Effects()
	if got.Reverb.Decay != 3 || got.Reverb.Mix != 0.5 || got.Reverb.RoomSize != 0.9 {
		t.Errorf("Effects().Reverb = %+v", got.Reverb)
	}
	if got.Delay.Time != 0.1 || got.Delay.Mix != 0.4 || got.Delay.Feedback != defaultFeedback {
		t.Errorf("Effects().Delay = %+v", got.Delay)
	}
}

func TestGraph_ProcessSilentBeforeInitialize(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, nil)
	g.Connect(&constInput{l: 0.5, r: 0.5})

	dst := []float32{1, 1, 1, 1}
	g.Process(dst)
	for i, v := range dst {
		if v != 0 {
			t.Errorf("dst[%d] = %v, want 0", i, v)
		}
	}
	if g.FrameTime() != 0 {
		t.Errorf("FrameTime() = %d, want 0", g.FrameTime())
	}
}

func TestGraph_ProcessMasterVolume(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, nil)
	if err := g.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	in := &constInput{l: 0.02, r: 0.01}
	g.Connect(in)
	g.Connect(in)
	g.SetMasterVolume(0.5)

	dst := make([]float32, 2*64)
	g.Process(dst)

	if g.FrameTime() != 64 {
		t.Errorf("FrameTime() = %d, want 64", g.FrameTime())
	}
	last := len(dst) - 2
	if !near(dst[last], 0.01, 0.02) || !near(dst[last+1], 0.005, 0.02) {
		t.Errorf("last frame = (%v, %v), want about (0.01, 0.005)", dst[last], dst[last+1])
	}

	g.Disconnect(in)
	g.Process(dst)
	if math.Abs(float64(dst[last])) > 1e-4 {
		t.Errorf("after Disconnect dst = %v, want silence", dst[last])
	}
}

func TestGraph_DelayEcho(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, nil)
	if err := g.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	const echoAt = 10
	_, err := g.ApplyEffects(EffectPatch{Delay: &DelayPatch{
		Time:     Float(echoAt / 8000.0),
		Feedback: Float(0),
		Mix:      Float(1),
	}})
	if err != nil {
		t.Fatal(err)
	}
	g.Connect(&clickInput{v: 0.01})

	dst := make([]float32, 2*32)
	g.Process(dst)

	if !near(dst[0], 0.01, 0.02) {
		t.Errorf("dry click = %v, want 0.01", dst[0])
	}
	if !near(dst[2*echoAt], 0.01, 0.02) {
		t.Errorf("echo = %v, want 0.01", dst[2*echoAt])
	}
	for i := 1; i < echoAt; i++ {
		if math.Abs(float64(dst[2*i])) > 1e-4 {
			t.Errorf("dst frame %d = %v, want silence", i, dst[2*i])
		}
	}
}

func TestGraph_TapFollowsOutput(t *testing.T) {
	t.Parallel()

	g := newTestGraph(t, nil)
	if err := g.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	g.Connect(&constInput{l: 0.02, r: 0.02})

	dst := make([]float32, 2*g.Tap().Size())
	g.Process(dst)

	if p := g.Tap().Peak(); !near(p, 0.02, 0.02) {
		t.Errorf("Tap().Peak() = %v, want about 0.02", p)
	}
	td := g.Tap().TimeDomain(nil)
	if got := td[len(td)-1]; got != dst[len(dst)-1] {
		t.Errorf("tap newest sample = %v, want %v", got, dst[len(dst)-1])
	}
}

func TestGraph_SuspendResume(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	g := newTestGraph(t, b)

	if err := g.Suspend(); err != nil {
		t.Fatal(err)
	}
	if b.suspends != 0 {
		t.Errorf("Suspend before init reached backend")
	}

	if err := g.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}
	_ = g.Suspend()
	_ = g.Suspend()
	_ = g.Resume()
	_ = g.Resume()

	if b.suspends != 1 || b.resumes != 1 {
		t.Errorf("suspends = %d, resumes = %d, want 1, 1", b.suspends, b.resumes)
	}
	if g.Suspended() {
		t.Error("Suspended() = true after Resume")
	}
}

func TestGraph_Close(t *testing.T) {
	t.Parallel()

	b := &fakeBackend{}
	g := New(Options{SampleRate: 8000, Backend: b})
	if err := g.Initialize(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err := g.Close(); err != nil {
		t.Fatalf("Close() error: %v", err)
	}
	if err := g.Close(); err != nil {
		t.Fatalf("second Close() error: %v", err)
	}
	if b.closes != 1 {
		t.Errorf("backend closes = %d, want 1", b.closes)
	}
	if err := g.Initialize(context.Background()); !errors.Is(err, ErrClosed) {
		t.Errorf("Initialize() after Close = %v, want ErrClosed", err)
	}
	if _, err := g.ApplyEffects(EffectPatch{}); !errors.Is(err, ErrClosed) {
		t.Errorf("ApplyEffects() after Close = %v, want ErrClosed", err)
	}
	if err := g.Suspend(); !errors.Is(err, ErrClosed) {
		t.Errorf("Suspend() after Close = %v, want ErrClosed", err)
	}
}

func TestGraph_MasterVolumeClamped(t *testing.T) {
	t.Parallel()

	g := New(Options{})
	if g.SampleRate() != DefaultSampleRate {
		t.Errorf("SampleRate() = %d, want %d", g.SampleRate(), DefaultSampleRate)
	}
	if g.Tap().Size() != DefaultTapSize {
		t.Errorf("Tap().Size() = %d, want %d", g.Tap().Size(), DefaultTapSize)
	}

	for _, tt := range []struct{ in, want float64 }{
		{-1, 0}, {0, 0}, {0.3, 0.3}, {1, 1}, {4, 1}, {math.NaN(), 0},
	} {
		g.SetMasterVolume(tt.in)
		if got := g.MasterVolume(); got != tt.want {
			t.Errorf("SetMasterVolume(%v): MasterVolume() = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func near(got, want float32, rel float64) bool {
	return math.Abs(float64(got-want)) <= rel*math.Abs(float64(want))+1e-6
}

func BenchmarkGraph_Process(b *testing.B) {
	g := New(Options{SampleRate: 44100, Seed: 1})
	if err := g.Initialize(context.Background()); err != nil {
		b.Fatal(err)
	}
	defer g.Close()

	_, _ = g.ApplyEffects(EffectPatch{
		Reverb: &ReverbPatch{Mix: Float(0.3), Decay: Float(1)},
		Delay:  &DelayPatch{Mix: Float(0.2)},
		EQ:     &EQPatch{Low: Float(3), High: Float(-3)},
	})
	g.Connect(&constInput{l: 0.1, r: 0.1})

	dst := make([]float32, 2*512)

	b.ReportAllocs()
	for b.Loop() {
		g.Process(dst)
	}
}
