// SPDX-License-Identifier: EPL-2.0

// Package audio provides low-level audio processing primitives.
//
// This package contains the core audio building blocks:
//   - Source interface for streaming audio input
//   - Buffer, a planar [channel][frame] sample container
//   - ReadFrames for reading a window (offset, length) out of a Source
//   - Resampler for sample rate conversion
//   - ChannelMixer for channel conversion (including MonoMixer)
//   - Convert, the remix-then-resample service used by datasets
//   - Registry for decoder registration, and Prober for header-only metadata
//
// # Source Interface
//
// The Source interface is the foundation of audio processing:
//
//	type Source interface {
//	    SampleRate() int
//	    Channels() int
//	    ReadSamples(dst []float32) (int, error)
//	    BufSize() int
//	    Close() error
//	}
//
// All audio decoders and processors implement this interface, allowing
// them to be chained together in processing pipelines.
//
// # Windows
//
// ReadFrames skips a frame offset and collects a bounded number of frames,
// returning planar data:
//
//	win, err := audio.ReadFrames(src, 16000, 32000) // 2s starting at 1s @16kHz
//
// A stream that ends before the window is complete yields a shorter Buffer.
//
// # Conversion
//
// Convert remixes channels and then resamples:
//
//	mono8k, err := audio.Convert(buf, 44100, 8000, 1)
//
// Channel conversion averages to mono, copies mono to every output channel,
// or keeps the leading channels. Other upmixes return ErrChannelRemix.
//
// # Resampling
//
// The Resampler changes the sample rate using cubic interpolation:
//
//	resampler := audio.NewResampler(source, 16000)
//	buf := make([]float32, 4096)
//	n, err := resampler.ReadSamples(buf)
package audio
