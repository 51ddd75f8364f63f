// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoding pipeline that feeds track playback.
//
// # Source Interface
//
// Every decoder and processor implements Source, so stages chain:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// # Registry
//
// A Registry maps file extensions to decoders. Lookup resolves a source
// locator such as "tracks/koto.ogg" to the matching Decoder:
//
//	reg := audio.NewRegistry()
//	reg.Register("wav", wav.Decoder{})
//	dec, err := reg.Lookup("tracks/drone.wav")
//
// # Resampling and channel layout
//
// Resampler converts between sample rates with four point Catmull-Rom
// interpolation and a biquad anti-alias stage when downsampling.
// StereoMixer maps mono and multichannel layouts onto stereo.
//
// # Clips
//
// Render drains a Source into a Clip, an in-memory interleaved stereo
// buffer at the session rate. Loops are played from clips:
//
//	clip, err := audio.Render(ctx, src, 44100)
//	l, r := clip.Frame(0)
package audio
