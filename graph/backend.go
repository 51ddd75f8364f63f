// SPDX-License-Identifier: EPL-2.0

package graph

import "context"

// Renderer fills dst with interleaved stereo output.
type Renderer interface {
	Process(dst []float32)
}

// Input contributes interleaved stereo to the master bus by adding into
// dst.
type Input interface {
	Render(dst []float32)
}

// Backend pulls audio from a Renderer, usually on its own goroutine.
type Backend interface {
	Start(ctx context.Context, r Renderer, sampleRate int) error
	Suspend() error
	Resume() error
	Close() error
}
