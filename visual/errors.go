// SPDX-License-Identifier: EPL-2.0

package visual

import "errors"

var (
	ErrClosed  = errors.New("feed closed")
	ErrStarted = errors.New("feed already started")
)
