// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/denoiseset/audio"
)

// pcmReader is the part of wav.Decoder the source needs, so tests can fake it.
type pcmReader interface {
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

type source struct {
	dec        pcmReader
	format     *goaudio.Format
	sampleRate int
	channels   int
	bitDepth   int
	intBuf     *goaudio.IntBuffer

	// Set when the data chunk was located: reads stop at its end and
	// SeekFrame can jump inside it.
	bounded    bool
	dataStart  int64
	blockAlign int64
	total      int // samples in the data chunk
	consumed   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int {
	if s.intBuf != nil {
		return cap(s.intBuf.Data)
	}
	return 4096
}

func (s *source) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.bounded {
		left := s.total - s.consumed
		if left <= 0 {
			return 0, io.EOF
		}
		dst = dst[:min(len(dst), left)]
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < len(dst) {
		s.intBuf = &goaudio.IntBuffer{
			Data:           make([]int, len(dst)),
			Format:         s.format,
			SourceBitDepth: s.bitDepth,
		}
	} else {
		s.intBuf.Data = s.intBuf.Data[:len(dst)]
	}

	n, err := s.dec.PCMBuffer(s.intBuf)
	if err != nil && err != io.EOF {
		return 0, fmt.Errorf("%w", err)
	}
	if n == 0 {
		return 0, io.EOF
	}

	n = min(n, len(dst))
	s.consumed += n

	scale := 1 / divisor(s.bitDepth)
	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]) * scale
	}

	if n < len(dst) {
		return n, io.EOF
	}

	return n, nil
}

// SeekFrame moves the read position inside the data chunk. A frame at or
// past the end leaves nothing to read.
func (s *source) SeekFrame(frame int) error {
	seeker, ok := s.dec.(io.Seeker)
	if !ok || !s.bounded {
		return audio.ErrNotSeekable
	}

	frames := s.total / s.channels
	if frame >= frames {
		s.consumed = s.total
		return nil
	}

	if _, err := seeker.Seek(s.dataStart+int64(frame)*s.blockAlign, io.SeekStart); err != nil {
		return fmt.Errorf("%w", err)
	}
	s.consumed = frame * s.channels

	return nil
}

// divisor returns the full-scale value for a signed PCM bit depth.
func divisor(bitDepth int) float32 {
	switch bitDepth {
	case 24:
		return 8388608.0
	case 32:
		return 2147483648.0
	default:
		return 32768.0
	}
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := open(r)
	if err != nil {
		return nil, err
	}

	if err := dec.FwdToPCM(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}
	if dec.PCMChunk == nil {
		return nil, ErrUnsupportedWavChunks
	}

	// The cursor now sits on the first sample of the data chunk.
	dataStart, err := dec.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	channels := int(dec.NumChans)
	blockAlign := int64(channels) * int64(dec.BitDepth/8)

	return &source{
		dec:        dec,
		format:     dec.Format(),
		sampleRate: int(dec.SampleRate),
		channels:   channels,
		bitDepth:   int(dec.BitDepth),
		bounded:    true,
		dataStart:  dataStart,
		blockAlign: blockAlign,
		total:      int(dec.PCMLen()/blockAlign) * channels,
	}, nil
}

// Probe reads the fmt and data chunk headers and reports the stream layout.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	dec, err := open(r)
	if err != nil {
		return audio.Info{}, err
	}

	if err := dec.FwdToPCM(); err != nil {
		return audio.Info{}, fmt.Errorf("%w: %w", ErrUnsupportedWavChunks, err)
	}

	blockAlign := int64(dec.NumChans) * int64(dec.BitDepth/8)

	return audio.Info{
		Frames:     int(dec.PCMLen() / blockAlign),
		SampleRate: int(dec.SampleRate),
		Channels:   int(dec.NumChans),
	}, nil
}

func open(r io.Reader) (*gowav.Decoder, error) {
	// go-audio needs to seek across chunks.
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading wav data: %w", err)
		}
		rs = bytes.NewReader(data)
	}

	dec := gowav.NewDecoder(rs)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, ErrNotWavFile
	}

	if dec.WavAudioFormat != formatPCM {
		return nil, ErrOnlyPCMSupported
	}

	switch dec.BitDepth {
	case 16, 24, 32:
	default:
		return nil, fmt.Errorf("%w: %d-bit", ErrUnsupportedBitDepth, dec.BitDepth)
	}

	if dec.NumChans == 0 || dec.SampleRate == 0 {
		return nil, ErrUnsupportedWavLayout
	}

	return dec, nil
}
