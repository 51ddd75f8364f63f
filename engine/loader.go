// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"context"
	"fmt"
	"io/fs"
	"strings"

	"github.com/ik5/soundscape/audio"
)

// ClipLoader turns a source locator into a decoded clip.
type ClipLoader interface {
	Load(ctx context.Context, locator string) (*audio.Clip, error)
}

// Availability tells whether a locator refers to real content.
type Availability interface {
	Available(locator string) bool
}

// Loader opens locators from FS, picks a decoder by extension and renders
// the result at SampleRate.
type Loader struct {
	Registry     *audio.Registry
	FS           fs.FS
	Availability Availability
	SampleRate   int
}

func (l *Loader) Load(ctx context.Context, locator string) (*audio.Clip, error) {
	name := strings.TrimPrefix(locator, "/")
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	if l.Availability != nil && !l.Availability.Available(name) {
		return nil, fmt.Errorf("%s: %w", locator, ErrContentUnavailable)
	}
	if !fs.ValidPath(name) {
		return nil, fmt.Errorf("%q: %w", locator, ErrInvalidLocator)
	}

	dec, err := l.Registry.Lookup(name)
	if err != nil {
		return nil, err
	}

	f, err := l.FS.Open(name)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", name, err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	defer src.Close()

	clip, err := audio.Render(ctx, src, l.SampleRate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return clip, nil
}

// LoaderFunc adapts a function to ClipLoader.
type LoaderFunc func(ctx context.Context, locator string) (*audio.Clip, error)

func (f LoaderFunc) Load(ctx context.Context, locator string) (*audio.Clip, error) {
	return f(ctx, locator)
}
