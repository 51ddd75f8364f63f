// SPDX-License-Identifier: EPL-2.0

package output

import "errors"

var (
	ErrRateMismatch   = errors.New("sample rate does not match the output device")
	ErrNotStarted     = errors.New("output not started")
	ErrAlreadyStarted = errors.New("output already started")
	ErrClosed         = errors.New("output closed")
)
