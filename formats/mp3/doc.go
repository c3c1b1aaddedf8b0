// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 Layer 3 audio through github.com/hajimehoshi/go-mp3.
//
// go-mp3 always produces 16-bit stereo, so every Source from this package
// reports two channels regardless of the encoded layout. Use
// audio.NewChannelMixer or audio.Convert to reach the layout you need.
//
//	f, _ := os.Open("speech.mp3")
//	src, err := mp3.Decoder{}.Decode(f)
//
// When the input is an io.ReadSeeker the returned Source also implements
// audio.FrameSeeker, so audio.ReadFrames jumps straight to a window offset
// instead of decoding everything in front of it. Probe relies on the same
// frame index and fails with ErrUnknownLength for non-seekable input.
package mp3
