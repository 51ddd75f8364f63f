// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes integer PCM AIFF files with github.com/go-audio/aiff.
// 8, 16, 24 and 32 bit samples are accepted. Non seekable readers are
// buffered in memory since the container needs random access.
//
//	src, err := aiff.Decoder{}.Decode(file)
package aiff
