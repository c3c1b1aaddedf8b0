// SPDX-License-Identifier: EPL-2.0

// Package codec reads audio files from disk for the dataset.
//
// FileCodec picks a decoder from an audio.Registry by file extension and
// exposes two calls: Info, which reports frames, rate and channels, and
// Decode, which returns a window of planar samples at the native rate.
// Every call opens the file afresh, so nothing is cached between calls.
//
//	c := codec.NewFileCodec()
//	info, err := c.Info("clean/fileid_1.wav")
//	window, rate, err := c.Decode("clean/fileid_1.wav", 16000, 16000)
package codec
