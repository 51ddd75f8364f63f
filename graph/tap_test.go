// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"math"
	"testing"
)

func TestNewTap_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, size int
	}{
		{0, minTapSize},
		{-5, minTapSize},
		{32, 32},
		{1000, 1024},
		{2048, 2048},
		{1 << 20, maxTapSize},
	}

	for _, tt := range tests {
		tap := NewTap(tt.in)
		if tap.Size() != tt.size || tap.Bins() != tt.size/2 {
			t.Errorf("NewTap(%d): Size() = %d, Bins() = %d, want %d, %d",
				tt.in, tap.Size(), tap.Bins(), tt.size, tt.size/2)
		}
	}
}

func TestTap_TimeDomainOrder(t *testing.T) {
	t.Parallel()

	tap := NewTap(32)
	l := make([]float64, 40)
	r := make([]float64, 40)
	for i := range l {
		l[i] = float64(i)
		r[i] = float64(i) + 2
	}
	tap.write(l, r)

	td := tap.TimeDomain(make([]float32, 3))
	if len(td) != 32 {
		t.Fatalf("len(TimeDomain) = %d, want 32", len(td))
	}
	for i, v := range td {
		// oldest retained frame is 8, mono value is frame+1
		if want := float32(8 + i + 1); v != want {
			t.Fatalf("TimeDomain[%d] = %v, want %v", i, v, want)
		}
	}
	if got := tap.Peak(); got != 41 {
		t.Errorf("Peak() = %v, want 41", got)
	}
}

func TestTap_FrequencyDataSilence(t *testing.T) {
	t.Parallel()

	tap := NewTap(64)
	fd := tap.FrequencyData(nil)
	if len(fd) != tap.Bins() {
		t.Fatalf("len(FrequencyData) = %d, want %d", len(fd), tap.Bins())
	}
	for i, v := range fd {
		if v != 0 {
			t.Fatalf("FrequencyData[%d] = %v, want 0", i, v)
		}
	}
}

func TestTap_FrequencyDataSine(t *testing.T) {
	t.Parallel()

	const (
		n   = 1024
		bin = 64
	)
	tap := NewTap(n)
	s := make([]float64, n)
	for i := range s {
		s[i] = math.Sin(2 * math.Pi * bin * float64(i) / n)
	}
	tap.write(s, s)

	fd := tap.FrequencyData(nil)

	peak := 0
	for i, v := range fd {
		if v < 0 || v > 1 {
			t.Fatalf("FrequencyData[%d] = %v, out of [0, 1]", i, v)
		}
		if v > fd[peak] {
			peak = i
		}
	}
	if peak != bin {
		t.Errorf("loudest bin = %d, want %d", peak, bin)
	}
	if fd[bin] != 1 {
		t.Errorf("FrequencyData[%d] = %v, want 1", bin, fd[bin])
	}
	if fd[bin+200] >= 0.5 {
		t.Errorf("FrequencyData[%d] = %v, want well below the tone", bin+200, fd[bin+200])
	}
}

func TestNormalizeDB(t *testing.T) {
	t.Parallel()

	tests := []struct {
		db, want float64
	}{
		{math.Inf(-1), 0},
		{math.NaN(), 0},
		{-120, 0},
		{-100, 0},
		{-65, 0.5},
		{-30, 1},
		{0, 1},
	}

	for _, tt := range tests {
		if got := normalizeDB(tt.db); math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("normalizeDB(%v) = %v, want %v", tt.db, got, tt.want)
		}
	}
}

func BenchmarkTap_FrequencyData(b *testing.B) {
	tap := NewTap(DefaultTapSize)
	s := make([]float64, DefaultTapSize)
	for i := range s {
		s[i] = math.Sin(float64(i) / 10)
	}
	tap.write(s, s)
	dst := make([]float32, tap.Bins())

	b.ReportAllocs()
	for b.Loop() {
		dst = tap.FrequencyData(dst)
	}
}
