// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrContentUnavailable marks a source whose asset is a placeholder.
	ErrContentUnavailable = errors.New("content unavailable")
	// ErrNotStarted is returned by Wait before Load was called.
	ErrNotStarted = errors.New("load not started")
	// ErrClosed is returned by Wait on a released engine.
	ErrClosed = errors.New("engine closed")
	// ErrInvalidLocator rejects locators that cannot be opened.
	ErrInvalidLocator = errors.New("invalid source locator")
)

// PlaybackError reports a track that failed to load. It is never fatal
// to a session; the track stays in the model and is not played.
type PlaybackError struct {
	SourceID string
	Message  string
	Err      error
}

func (e *PlaybackError) Error() string {
	return fmt.Sprintf("track %s: %s", e.SourceID, e.Message)
}

func (e *PlaybackError) Unwrap() error { return e.Err }
