// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes 16-bit PCM AIFF files using github.com/go-audio/aiff.
//
// go-audio needs an io.ReadSeeker; plain readers are buffered in memory
// first. Probe reads the COMM chunk and reports the frame count without
// touching the sound data.
//
// # Errors
//
//   - ErrNotAiffFile: the input is not a FORM/AIFF stream
//   - ErrOnlyPCM16bitSupported: the sample size is not 16 bits
//   - ErrUnsupportedAiffLayout: channel count or rate is missing
package aiff
