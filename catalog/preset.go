// SPDX-License-Identifier: EPL-2.0

package catalog

import "github.com/ik5/soundscape/graph"

type TrackOverride struct {
	ID     string   `yaml:"id" json:"id"`
	Volume float64  `yaml:"volume" json:"volume"`
	Pan    *float64 `yaml:"pan,omitempty" json:"pan,omitempty"`
}

type AmbientOverride struct {
	ID     string  `yaml:"id" json:"id"`
	Volume float64 `yaml:"volume" json:"volume"`
}

// Preset is a named bundle of track overrides and effect settings. Tracks
// not listed are muted when the preset loads.
type Preset struct {
	Name          string             `yaml:"name" json:"name"`
	Category      string             `yaml:"category,omitempty" json:"category,omitempty"`
	Tracks        []TrackOverride    `yaml:"tracks" json:"tracks"`
	AmbientTracks []AmbientOverride  `yaml:"ambient,omitempty" json:"ambientTracks,omitempty"`
	Effects       *graph.EffectPatch `yaml:"effects,omitempty" json:"effects,omitempty"`
}

func (p Preset) Track(id string) (TrackOverride, bool) {
	for _, o := range p.Tracks {
		if o.ID == id {
			return o, true
		}
	}

	return TrackOverride{}, false
}

func (p Preset) Ambient(id string) (AmbientOverride, bool) {
	for _, o := range p.AmbientTracks {
		if o.ID == id {
			return o, true
		}
	}

	return AmbientOverride{}, false
}
