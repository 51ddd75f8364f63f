// SPDX-License-Identifier: EPL-2.0

// Package visual turns the output tap into per frame drawing data: a
// waveform polyline, spectrum bars and a peak meter with hold.
//
// A Feed is paced by a FrameSource, normally the host display callback,
// and owns its loop: Close cancels it and returns once the loop is gone.
package visual
