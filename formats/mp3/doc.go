// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer 3 audio with
// github.com/hajimehoshi/go-mp3. Output is always stereo, mono files are
// duplicated by the underlying decoder.
//
//	src, err := mp3.Decoder{}.Decode(file)
package mp3
