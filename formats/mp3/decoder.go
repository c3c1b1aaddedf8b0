// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/denoiseset/audio"
)

// go-mp3 always emits 16-bit little-endian stereo.
const (
	outChannels   = 2
	bytesPerFrame = 4
)

// mp3Reader is the part of gomp3.Decoder the source needs, so tests can fake it.
type mp3Reader interface {
	Read([]byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec        mp3Reader
	sampleRate int
	channels   int
	buf        []byte
	// drained is set by a seek at or past the end of the stream.
	drained    bool
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return cap(s.buf) / 2 }

func (s *source) ReadSamples(dst []float32) (int, error) {
	if s.drained {
		return 0, io.EOF
	}

	bytesNeeded := len(dst) * 2
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	n, err := s.dec.Read(s.buf)
	if n == 0 {
		return 0, err
	}

	samples := n / 2
	for i := range samples {
		val := int16(uint16(s.buf[2*i]) | uint16(s.buf[2*i+1])<<8)
		dst[i] = float32(val) / 32768.0
	}

	return samples, err
}

// SeekFrame positions the stream at frame. go-mp3 only knows frame offsets
// when it was built over an io.Seeker; otherwise audio.ErrNotSeekable is
// returned and the caller has to skip by reading. Seeking at or past the end
// leaves the source drained: the next read reports io.EOF.
func (s *source) SeekFrame(frame int) error {
	length := s.dec.Length()
	if length < 0 {
		return audio.ErrNotSeekable
	}

	// go-mp3 does not bounds-check the target frame.
	pos := int64(frame) * bytesPerFrame
	if pos >= length {
		s.drained = true
		return nil
	}

	if _, err := s.dec.Seek(pos, io.SeekStart); err != nil {
		// A truncated last frame is counted in Length but cannot be decoded.
		if errors.Is(err, io.EOF) {
			s.drained = true
			return nil
		}
		return fmt.Errorf("%w", err)
	}
	s.drained = false

	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   outChannels,
		buf:        make([]byte, 8192),
	}, nil
}

// Probe scans the frame headers. go-mp3 reports the decoded length in bytes
// of 16-bit stereo output.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w", err)
	}

	length := dec.Length()
	if length < 0 {
		return audio.Info{}, ErrUnknownLength
	}

	return audio.Info{
		Frames:     int(length / bytesPerFrame),
		SampleRate: dec.SampleRate(),
		Channels:   outChannels,
	}, nil
}
