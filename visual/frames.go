// SPDX-License-Identifier: EPL-2.0

package visual

import "time"

// FrameSource paces the feed, one tick per display frame.
type FrameSource interface {
	Frames() <-chan time.Time
	Stop()
}

// TickerFrames is a fixed rate FrameSource for hosts without a display
// callback.
type TickerFrames struct {
	t *time.Ticker
}

const DefaultFPS = 60

func NewTickerFrames(fps int) *TickerFrames {
	if fps <= 0 {
		fps = DefaultFPS
	}

	return &TickerFrames{t: time.NewTicker(time.Second / time.Duration(fps))}
}

func (f *TickerFrames) Frames() <-chan time.Time { return f.t.C }
func (f *TickerFrames) Stop()                    { f.t.Stop() }

// ChanFrames adapts a host vsync channel. Stop is a no-op; the host owns
// the channel.
type ChanFrames <-chan time.Time

func (c ChanFrames) Frames() <-chan time.Time { return c }
func (ChanFrames) Stop()                      {}
