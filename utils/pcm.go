// SPDX-License-Identifier: EPL-2.0

package utils

import "encoding/binary"

const (
	int16Scale = 32767.0
	int16Norm  = 1.0 / 32768.0
)

// Float32ToInt16 converts a normalized sample to signed 16-bit PCM,
// saturating anything outside [-1, 1].
func Float32ToInt16(x float32) int16 {
	if x > 1 {
		x = 1
	} else if x < -1 {
		x = -1
	}

	return int16(x * int16Scale)
}

// Int16ToFloat32 is the inverse of Float32ToInt16 for decoder use.
func Int16ToFloat32(v int16) float32 {
	return float32(v) * int16Norm
}

// PutInt16LE writes src into dst as little-endian signed 16-bit PCM and
// returns the number of bytes written. dst must hold 2*len(src) bytes;
// extra samples are dropped.
func PutInt16LE(dst []byte, src []float32) int {
	n := min(len(src), len(dst)/2)
	for i := range n {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(Float32ToInt16(src[i])))
	}

	return n * 2
}

// IntScale returns the full-scale magnitude for an integer PCM bit depth.
// Unknown depths are treated as 16-bit.
func IntScale(bitDepth int) float32 {
	switch bitDepth {
	case 8:
		return 1 << 7
	case 24:
		return 1 << 23
	case 32:
		return 1 << 31
	default:
		return 1 << 15
	}
}
