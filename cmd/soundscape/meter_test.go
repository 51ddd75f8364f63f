// SPDX-License-Identifier: EPL-2.0

package main

import (
	"strings"
	"testing"

	"github.com/ik5/soundscape/visual"
)

func TestBlock(t *testing.T) {
	t.Parallel()

	tests := []struct {
		h, height float32
		want      rune
	}{
		{0, 8, ' '},
		{8, 8, '█'},
		{4, 8, '▄'},
		{20, 8, '█'},
		{-1, 8, ' '},
		{3, 0, ' '},
	}

	for _, tt := range tests {
		if got := block(tt.h, tt.height); got != tt.want {
			t.Errorf("block(%v, %v) = %q, want %q", tt.h, tt.height, got, tt.want)
		}
	}
}

func TestTermMeter_Render(t *testing.T) {
	t.Parallel()

	var sb strings.Builder
	m := newTermMeter(&sb, 8)
	m.Render(&visual.Frame{
		Peak: 0.5,
		Hold: 0.8,
		Bars: []visual.Bar{{Height: 0}, {Height: 8}},
	})

	want := "\r[" + strings.Repeat("#", 15) + strings.Repeat(" ", 9) + "|" + strings.Repeat(" ", 5) + "]  █"
	if got := sb.String(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}
