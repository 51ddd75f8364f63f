// SPDX-License-Identifier: EPL-2.0

// Package graph implements the master signal chain of a session.
//
// Inputs are summed and scaled by the master volume. The dry path runs
// through a three band equalizer, a convolution reverb send and a feedback
// delay send are added, and the sum passes a fast compressor before the
// analysis Tap and the output Backend.
//
// A Graph allocates nothing until Initialize, which is meant to run on the
// first user initiated playback. Effect parameters may be changed at any
// time and apply from the current frame.
package graph
