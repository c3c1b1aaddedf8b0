// SPDX-License-Identifier: EPL-2.0

package dataset

import "errors"

var (
	ErrOutOfRange          = errors.New("example index out of range")
	ErrRateMismatch        = errors.New("sample rate does not match target")
	ErrChannelMismatch     = errors.New("channel count does not match target")
	ErrPairingLookup       = errors.New("clean file has no noisy counterpart")
	ErrCardinalityMismatch = errors.New("noisy and clean sizes differ")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnknownMatching     = errors.New("unknown matching strategy")
)
