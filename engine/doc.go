// SPDX-License-Identifier: EPL-2.0

// Package engine implements per-track playback.
//
// An Engine decodes its source in the background, then loops the decoded
// clip into the mixing bus while playing. Volume and pan apply at once,
// playing or not. A failed load is reported as a *PlaybackError and the
// engine stays silent for the rest of the session.
//
// Engines are shared through a Pool that counts references per track id,
// so a remounted mixer picks up clips that are already decoded and a
// released engine drops the outcome of its unfinished load.
//
//	pool := engine.NewPool(ctx, &engine.Loader{Registry: reg, FS: os.DirFS("assets"), SampleRate: 44100})
//	e := pool.Acquire("koto", "kyoto/koto.ogg", report)
//	e.SetVolume(0.7)
//	e.Play()
//	defer pool.Release("koto")
package engine
