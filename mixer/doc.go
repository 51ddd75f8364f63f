// SPDX-License-Identifier: EPL-2.0

// Package mixer is the control surface of a mixing session.
//
// A Mixer holds per track volume, pan, mute and solo state for one region
// and keeps the engines in line with the audibility rule: while any
// instrument is soloed only soloed instruments play, otherwise every
// unmuted track does. Presets, reset, effect changes and session export
// all go through the Mixer.
package mixer
