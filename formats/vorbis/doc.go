// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis streams with
// github.com/jfreymuth/oggvorbis. The native channel layout is kept.
//
//	src, err := vorbis.Decoder{}.Decode(file)
package vorbis
