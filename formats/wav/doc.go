// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding, probing and encoding.
//
// Decoding and probing use github.com/go-audio/wav, so files with extra
// chunks (LIST, smpl, ...) before the data chunk are handled.
//
// # Supported Formats
//
//   - integer PCM, 16, 24 and 32 bit
//   - any channel count and sample rate
//
// # Decoding
//
//	f, _ := os.Open("audio.wav")
//	src, err := wav.Decoder{}.Decode(f)
//
// The decoder returns an audio.Source producing float32 samples in [-1, 1].
//
// # Probing
//
// Probe reads only the headers and reports frames, rate and channels:
//
//	info, err := wav.Decoder{}.Probe(f)
//
// # Writing
//
// WriteWAV16 writes interleaved int16 PCM; WriteBuffer16 quantizes a planar
// audio.Buffer first:
//
//	err := wav.WriteBuffer16(out, 16000, window)
//
// # Errors
//
//   - ErrNotWavFile: the input is not a RIFF/WAVE stream
//   - ErrOnlyPCMSupported: the stream is not integer PCM
//   - ErrUnsupportedBitDepth: 8-bit or other unsupported depth
//   - ErrUnsupportedWavChunks: no data chunk could be located
package wav
