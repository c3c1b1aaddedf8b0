// SPDX-License-Identifier: EPL-2.0

package codec

import "errors"

// ErrUnsupportedFormat is returned for files whose extension has no
// registered decoder.
var ErrUnsupportedFormat = errors.New("unsupported audio format")
