// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
	ErrChannelRemix   = errors.New("unsupported channel conversion")
	ErrInvalidRate    = errors.New("sample rate must be positive")
	ErrInvalidWindow  = errors.New("frame offset must not be negative")
	ErrNotSeekable    = errors.New("source cannot seek")
)
