// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/denoiseset/audio"
)

// oggReader is the part of oggvorbis.Reader the source needs, so tests can
// fake it.
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	SetPosition(pos int64) error
	Read([]float32) (int, error)
}

type source struct {
	dec        oggReader
	sampleRate int
	channels   int
}

func (s *source) SampleRate() int { return s.sampleRate }
func (s *source) Channels() int   { return s.channels }
func (s *source) Close() error    { return nil }
func (s *source) BufSize() int    { return 4096 }

// ReadSamples decodes straight into dst. oggvorbis counts interleaved values,
// not frames, so the request is trimmed to whole frames first.
func (s *source) ReadSamples(dst []float32) (int, error) {
	want := len(dst) - len(dst)%s.channels
	if want == 0 {
		return 0, nil
	}

	return s.dec.Read(dst[:want])
}

// SeekFrame positions the stream at frame. oggvorbis reports a zero length
// when it was not given an io.Seeker.
func (s *source) SeekFrame(frame int) error {
	if s.dec.Length() <= 0 {
		return audio.ErrNotSeekable
	}

	if err := s.dec.SetPosition(int64(frame)); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}

	return &source{
		dec:        dec,
		sampleRate: dec.SampleRate(),
		channels:   dec.Channels(),
	}, nil
}

// Probe reads the identification header and the last page granule position.
func (Decoder) Probe(r io.ReadSeeker) (audio.Info, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w", err)
	}

	return audio.Info{
		Frames:     int(dec.Length()),
		SampleRate: dec.SampleRate(),
		Channels:   dec.Channels(),
	}, nil
}
