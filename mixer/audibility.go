// SPDX-License-Identifier: EPL-2.0

package mixer

import "github.com/ik5/soundscape/catalog"

// SoloActive reports whether any instrument track is soloed.
func SoloActive(tracks []Track) bool {
	for _, t := range tracks {
		if t.Kind == catalog.Instrument && t.Solo {
			return true
		}
	}

	return false
}

// Audible decides whether t should sound. While any instrument is soloed
// only soloed instruments are audible and mute flags are ignored;
// otherwise every unmuted track is.
func Audible(t Track, soloActive bool) bool {
	if soloActive {
		return t.Kind == catalog.Instrument && t.Solo
	}

	return !t.Muted
}
