// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ik5/soundscape/visual"
)

const (
	meterHeight = 8
	meterBins   = 24
	meterWidth  = 30
)

var blocks = []rune(" ▁▂▃▄▅▆▇█")

// termMeter draws one status line per frame: a peak bar with its hold
// marker followed by the spectrum as block characters.
type termMeter struct {
	w      io.Writer
	height float32
	sb     strings.Builder
}

func newTermMeter(w io.Writer, height float32) *termMeter {
	return &termMeter{w: w, height: height}
}

func (t *termMeter) Render(f *visual.Frame) {
	t.sb.Reset()
	t.sb.WriteString("\r[")

	lit := int(min(f.Peak, 1) * meterWidth)
	hold := min(int(f.Hold*meterWidth), meterWidth-1)
	for i := range meterWidth {
		switch {
		case i < lit:
			t.sb.WriteByte('#')
		case i == hold && f.Hold > 0:
			t.sb.WriteByte('|')
		default:
			t.sb.WriteByte(' ')
		}
	}
	t.sb.WriteString("] ")

	for _, b := range f.Bars {
		t.sb.WriteRune(block(b.Height, t.height))
	}

	fmt.Fprint(t.w, t.sb.String())
}

func block(h, height float32) rune {
	if height <= 0 {
		return blocks[0]
	}

	i := int(h / height * float32(len(blocks)-1))

	return blocks[min(max(i, 0), len(blocks)-1)]
}
