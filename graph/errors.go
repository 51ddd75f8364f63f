// SPDX-License-Identifier: EPL-2.0

package graph

import (
	"errors"
	"fmt"
)

var ErrClosed = errors.New("effect graph closed")

// InitError means the graph could not be brought up. The session stays
// unusable until a later Initialize succeeds.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("effect graph init: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }
