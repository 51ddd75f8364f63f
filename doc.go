// SPDX-License-Identifier: EPL-2.0

// Package soundscape mixes looping instrument and ambient recordings of a
// region into one live soundscape.
//
// A Session wires the pieces together: tracks are decoded by the engine
// pool, summed and processed by the effect graph, driven by the mixer and
// observed by the visualization feed.
//
// # Supported Formats
//
// Sources are decoded by extension through NewRegistry:
//   - WAV (PCM 16-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 16-bit) via formats/aiff
//
// # Quick Start
//
//	cfg, _ := config.Load(".env")
//	sess, err := soundscape.Open(ctx, soundscape.Options{
//	    Config:  cfg,
//	    Region:  "thar",
//	    Backend: output.NewDevice(cfg.SampleRate, 0).Backend(cfg.BlockFrames),
//	})
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
//
//	m := sess.Mixer()
//	preset, _ := sess.Region().Preset("Dusk")
//	m.LoadPreset(preset)
//	m.Play(ctx)
//
// # Lifecycle
//
// The effect graph is initialized by the first Mixer.Play, together with
// the backend. Close stops the feed first, then the mixer, which releases
// the engines and closes the graph and its backend.
package soundscape
