// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"time"

	"github.com/ik5/soundscape/catalog"
	"github.com/ik5/soundscape/graph"
)

type ExportTrack struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Volume float64 `json:"volume"`
	Pan    float64 `json:"pan"`
}

type ExportAmbient struct {
	ID     string  `json:"id"`
	Name   string  `json:"name"`
	Volume float64 `json:"volume"`
}

// Export is a portable description of a mix. There is no import.
type Export struct {
	Name          string               `json:"name"`
	Region        string               `json:"region"`
	Tracks        []ExportTrack        `json:"tracks"`
	AmbientTracks []ExportAmbient      `json:"ambientTracks"`
	Effects       graph.EffectSettings `json:"effects"`
	Timestamp     time.Time            `json:"timestamp"`
}

// ExportSession describes the current mix. Muted tracks are left out; the
// name is the active preset, or the region name when none is loaded.
func (m *Mixer) ExportSession() (Export, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return Export{}, ErrClosed
	}

	ex := Export{
		Name:          m.region.Name + " mix",
		Region:        m.region.ID,
		Tracks:        []ExportTrack{},
		AmbientTracks: []ExportAmbient{},
		Effects:       m.graph.Effects(),
		Timestamp:     m.now().UTC(),
	}
	if m.preset != nil {
		ex.Name = *m.preset
	}

	for _, c := range m.channels {
		if c.muted {
			continue
		}
		if c.kind == catalog.Ambient {
			ex.AmbientTracks = append(ex.AmbientTracks, ExportAmbient{
				ID: c.desc.ID, Name: c.desc.DisplayName, Volume: c.volume,
			})
			continue
		}
		ex.Tracks = append(ex.Tracks, ExportTrack{
			ID: c.desc.ID, Name: c.desc.DisplayName, Volume: c.volume, Pan: c.pan,
		})
	}

	return ex, nil
}
