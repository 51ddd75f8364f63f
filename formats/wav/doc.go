// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes WAV files on top of
// github.com/go-audio/wav.
//
// # Decoding
//
// Decoder accepts integer PCM at 8, 16, 24 or 32 bits with any channel
// count. Readers that cannot seek are buffered in memory first:
//
//	src, err := wav.Decoder{}.Decode(file)
//
// # Encoding
//
// Writer produces 16-bit PCM from float32 samples, used for offline
// renders of a mix:
//
//	w, _ := wav.NewWriter(file, 44100, 2)
//	_ = w.Write(block)
//	_ = w.Close()
package wav
