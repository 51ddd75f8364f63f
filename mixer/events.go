// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"errors"

	"github.com/ik5/soundscape/engine"
)

type EventKind int

const (
	EventLoaded EventKind = iota
	EventFailed
	EventUnavailable
)

func (k EventKind) String() string {
	switch k {
	case EventLoaded:
		return "loaded"
	case EventFailed:
		return "failed"
	case EventUnavailable:
		return "unavailable"
	default:
		return "unknown"
	}
}

// Event reports the load outcome of a track.
type Event struct {
	Kind    EventKind
	TrackID string
	Err     error
}

func eventFor(id string, err error) Event {
	switch {
	case err == nil:
		return Event{Kind: EventLoaded, TrackID: id}
	case errors.Is(err, engine.ErrContentUnavailable):
		return Event{Kind: EventUnavailable, TrackID: id, Err: err}
	default:
		return Event{Kind: EventFailed, TrackID: id, Err: err}
	}
}

// TrySend sends v on c unless that would block.
func TrySend[T any](c chan<- T, v T) bool {
	select {
	case c <- v:
		return true
	default:
		return false
	}
}
