// SPDX-License-Identifier: EPL-2.0

package mp3

import "errors"

// ErrUnknownLength is returned by Probe when the stream length cannot be
// determined without a seekable reader.
var ErrUnknownLength = errors.New("mp3 stream length unknown")
