// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio using github.com/jfreymuth/oggvorbis.
//
// The decoder produces float32 samples natively, so no scaling happens here.
// Over an io.ReadSeeker the Source implements audio.FrameSeeker and Probe
// reports the stream length from the final page without decoding audio.
package vorbis
