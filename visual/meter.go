// SPDX-License-Identifier: EPL-2.0

package visual

const (
	DefaultHoldFrames = 30
	DefaultPeakDecay  = 0.01
)

// PeakMeter holds the highest recent peak. A new peak above the hold
// replaces it; after HoldFrames frames without one the hold falls by
// Decay per frame down to zero.
type PeakMeter struct {
	HoldFrames int
	Decay      float32

	hold  float32
	since int
}

func NewPeakMeter() *PeakMeter {
	return &PeakMeter{HoldFrames: DefaultHoldFrames, Decay: DefaultPeakDecay}
}

// Update feeds one frame's peak and returns the held value.
func (m *PeakMeter) Update(peak float32) float32 {
	if peak > m.hold {
		m.hold = peak
		m.since = 0
		return m.hold
	}

	m.since++
	if m.since > m.HoldFrames {
		m.hold = max(0, m.hold-m.Decay)
	}

	return m.hold
}

func (m *PeakMeter) Hold() float32 { return m.hold }

func (m *PeakMeter) Reset() {
	m.hold = 0
	m.since = 0
}
