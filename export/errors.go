// SPDX-License-Identifier: EPL-2.0

package export

import "errors"

var ErrNoDir = errors.New("export directory is not set")
