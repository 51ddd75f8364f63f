// SPDX-License-Identifier: EPL-2.0

// Package output provides graph backends: live playback on the host audio
// device and offline rendering to WAV.
package output
