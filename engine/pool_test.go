// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/ik5/soundscape/audio"
)

func TestPool_RefCounting(t *testing.T) {
	t.Parallel()

	var loads atomic.Int32
	pool := NewPool(context.Background(), LoaderFunc(func(context.Context, string) (*audio.Clip, error) {
		loads.Add(1)
		return constantClip(4, 0, 0), nil
	}))

	first := pool.Acquire("koto", "koto.ogg", nil)
	second := pool.Acquire("koto", "koto.ogg", nil)
	if first != second {
		t.Fatal("second Acquire built a new engine")
	}
	if got := pool.Refs("koto"); got != 2 {
		t.Fatalf("Refs() = %d, want 2", got)
	}

	if err := first.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}

	pool.Release("koto")
	if first.State() == StateClosed {
		t.Fatal("engine closed while still referenced")
	}

	pool.Release("koto")
	if first.State() != StateClosed {
		t.Errorf("State() = %v after last release, want closed", first.State())
	}
	if pool.Len() != 0 {
		t.Errorf("Len() = %d, want 0", pool.Len())
	}

	if got := loads.Load(); got != 1 {
		t.Errorf("loader called %d times, want 1", got)
	}

	pool.Release("koto")
	pool.Release("never-acquired")
}

func TestPool_RemountKeepsReporterCurrent(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	pool := NewPool(context.Background(), LoaderFunc(func(context.Context, string) (*audio.Clip, error) {
		<-gate
		return constantClip(4, 0, 0), nil
	}))

	var oldHits, newHits atomic.Int32
	pool.Acquire("rain", "rain.wav", func(string, error) { oldHits.Add(1) })
	e := pool.Acquire("rain", "rain.wav", func(string, error) { newHits.Add(1) })
	pool.Release("rain")

	close(gate)
	if err := e.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error: %v", err)
	}

	if oldHits.Load() != 0 || newHits.Load() != 1 {
		t.Errorf("reports old=%d new=%d, want 0 and 1", oldHits.Load(), newHits.Load())
	}
}

func TestPool_RemountReplaysOutcome(t *testing.T) {
	t.Parallel()

	bad := errors.New("truncated file")
	pool := NewPool(context.Background(), LoaderFunc(func(_ context.Context, locator string) (*audio.Clip, error) {
		if locator == "broken.wav" {
			return nil, bad
		}
		return constantClip(4, 0, 0), nil
	}))

	for _, tt := range []struct {
		id, locator string
		want        error
	}{
		{"tabla", "tabla.wav", nil},
		{"sitar", "broken.wav", bad},
	} {
		var first atomic.Int32
		e := pool.Acquire(tt.id, tt.locator, func(string, error) { first.Add(1) })
		_ = e.Wait(context.Background())

		var hits int
		var got error
		pool.Acquire(tt.id, tt.locator, func(id string, err error) {
			if id != tt.id {
				t.Errorf("report id = %q, want %q", id, tt.id)
			}
			hits++
			got = err
		})

		if first.Load() != 1 || hits != 1 {
			t.Errorf("%s: reports first=%d remount=%d, want 1 and 1", tt.id, first.Load(), hits)
		}
		if !errors.Is(got, tt.want) {
			t.Errorf("%s: remount report = %v, want %v", tt.id, got, tt.want)
		}
		if tt.want != nil {
			var perr *PlaybackError
			if !errors.As(got, &perr) || perr.SourceID != tt.id {
				t.Errorf("%s: remount report = %#v, want *PlaybackError", tt.id, got)
			}
		}
	}
}

func TestPool_ReleaseCancelsLoad(t *testing.T) {
	t.Parallel()

	started := make(chan struct{})
	var reported atomic.Bool
	pool := NewPool(context.Background(), LoaderFunc(func(ctx context.Context, _ string) (*audio.Clip, error) {
		close(started)
		<-ctx.Done()
		return nil, ctx.Err()
	}))

	e := pool.Acquire("wind", "wind.wav", func(string, error) { reported.Store(true) })
	<-started
	pool.Release("wind")

	_ = e.Wait(context.Background())
	if reported.Load() {
		t.Error("cancelled load reported an error")
	}
}

func TestPool_Close(t *testing.T) {
	t.Parallel()

	pool := NewPool(context.Background(), clipLoader(constantClip(4, 0, 0)))
	a := pool.Acquire("a", "a.wav", nil)
	b := pool.Acquire("b", "b.wav", nil)
	pool.Acquire("b", "b.wav", nil)

	pool.Close()

	if a.State() != StateClosed || b.State() != StateClosed {
		t.Errorf("states after Close = %v, %v", a.State(), b.State())
	}
	if pool.Len() != 0 {
		t.Errorf("Len() = %d, want 0", pool.Len())
	}
}
