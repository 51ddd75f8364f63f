// SPDX-License-Identifier: EPL-2.0

// Package catalog loads the static content a mixing session is built from:
// regions with their instrument and ambient tracks, per region presets and
// the manifest of placeholder source files.
//
//	regions:
//	  - id: thar
//	    instruments:
//	      - {id: kamaycha, source: thar/kamaycha.ogg, category: strings}
//	    ambient:
//	      - {id: desert_wind, source: thar/wind.ogg, volume: 0.4}
//	    presets:
//	      - name: Dusk
//	        tracks: [{id: kamaycha, volume: 0.8}]
//	        effects: {reverb: {mix: 0.3}}
package catalog
