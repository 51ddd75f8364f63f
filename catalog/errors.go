// SPDX-License-Identifier: EPL-2.0

package catalog

import "errors"

var (
	ErrUnknownRegion = errors.New("unknown region")
	ErrUnknownPreset = errors.New("unknown preset")
	ErrInvalid       = errors.New("invalid catalog")
)
