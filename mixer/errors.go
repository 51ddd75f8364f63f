// SPDX-License-Identifier: EPL-2.0

package mixer

import "errors"

var (
	ErrUnknownTrack    = errors.New("unknown track")
	ErrClosed          = errors.New("mixer closed")
	ErrDisabled        = errors.New("mixer disabled until audio initializes")
	ErrSoloUnsupported = errors.New("solo is only available on instrument tracks")
	ErrIncomplete      = errors.New("mixer needs a region, a graph and an engine pool")
)
