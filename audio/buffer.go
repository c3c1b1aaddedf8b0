// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
	"io"
)

// Buffer holds decoded audio in planar layout: Buffer[channel][frame].
// Every channel slice has the same length.
type Buffer [][]float32

// NewBuffer allocates a zeroed buffer.
func NewBuffer(channels, frames int) Buffer {
	b := make(Buffer, channels)
	for c := range b {
		b[c] = make([]float32, frames)
	}
	return b
}

func (b Buffer) Channels() int { return len(b) }

func (b Buffer) Frames() int {
	if len(b) == 0 {
		return 0
	}
	return len(b[0])
}

// Clone returns a deep copy of b.
func (b Buffer) Clone() Buffer {
	out := make(Buffer, len(b))
	for c, ch := range b {
		out[c] = append([]float32(nil), ch...)
	}
	return out
}

// Fit returns a copy of b with every channel right-padded with zeros, or
// truncated, to exactly frames samples.
func (b Buffer) Fit(frames int) Buffer {
	out := NewBuffer(len(b), frames)
	for c, ch := range b {
		copy(out[c], ch)
	}
	return out
}

// Interleave flattens b into frame-major order (L R L R ...).
func (b Buffer) Interleave() []float32 {
	channels := b.Channels()
	frames := b.Frames()
	out := make([]float32, channels*frames)
	for f := range frames {
		base := f * channels
		for c := range channels {
			out[base+c] = b[c][f]
		}
	}
	return out
}

// Deinterleave splits interleaved samples into a planar buffer. A trailing
// partial frame is dropped.
func Deinterleave(samples []float32, channels int) Buffer {
	if channels <= 0 {
		return Buffer{}
	}
	frames := len(samples) / channels
	out := NewBuffer(channels, frames)
	for f := range frames {
		base := f * channels
		for c := range channels {
			out[c][f] = samples[base+c]
		}
	}
	return out
}

// bufferSource streams an in-memory Buffer through the Source interface so
// that it can feed the Resampler and channel mixers.
type bufferSource struct {
	data       []float32
	pos        int
	sampleRate int
	channels   int
}

// NewBufferSource wraps buf as a Source running at sampleRate.
func NewBufferSource(buf Buffer, sampleRate int) Source {
	return &bufferSource{
		data:       buf.Interleave(),
		sampleRate: sampleRate,
		channels:   buf.Channels(),
	}
}

func (s *bufferSource) SampleRate() int { return s.sampleRate }
func (s *bufferSource) Channels() int   { return s.channels }
func (s *bufferSource) BufSize() int    { return 4096 }
func (s *bufferSource) Close() error    { return nil }

func (s *bufferSource) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if s.pos >= len(s.data) {
		return 0, io.EOF
	}

	want := len(dst) - len(dst)%s.channels
	n := copy(dst[:want], s.data[s.pos:])
	s.pos += n

	return n, nil
}

// maxEmptyReads bounds how many (0, nil) reads ReadFrames tolerates in a row.
const maxEmptyReads = 16

// ReadFrames skips offset frames of src and then collects up to frames
// frames (frames < 0 reads until EOF). A stream that ends early yields a
// shorter buffer, never an error.
func ReadFrames(src Source, offset, frames int) (Buffer, error) {
	if offset < 0 {
		return nil, ErrInvalidWindow
	}

	channels := src.Channels()
	if channels <= 0 {
		return nil, fmt.Errorf("%w: source reports %d channels", ErrChannelRemix, channels)
	}

	chunkFrames := max(src.BufSize()/channels, 1024)
	chunk := make([]float32, chunkFrames*channels)

	skip := offset * channels
	if fs, ok := src.(FrameSeeker); ok && offset > 0 {
		err := fs.SeekFrame(offset)
		switch {
		case err == nil:
			skip = 0
		case !errors.Is(err, ErrNotSeekable):
			return nil, fmt.Errorf("seeking to frame %d: %w", offset, err)
		}
	}
	limit := -1
	if frames >= 0 {
		limit = frames * channels
	}

	var collected []float32
	if limit > 0 {
		collected = make([]float32, 0, limit)
	}

	empty := 0
	for limit < 0 || len(collected) < limit {
		want := len(chunk)
		if skip > 0 {
			want = min(want, skip)
		} else if limit >= 0 {
			want = min(want, limit-len(collected))
		}
		want -= want % channels
		if want == 0 {
			want = channels
		}

		n, err := src.ReadSamples(chunk[:want])
		if n > 0 {
			empty = 0
			data := chunk[:n]
			if skip > 0 {
				dropped := min(skip, n)
				skip -= dropped
				data = data[dropped:]
			}
			collected = append(collected, data...)
		}

		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}

		if n == 0 {
			empty++
			if empty >= maxEmptyReads {
				return nil, io.ErrNoProgress
			}
		}
	}

	if limit >= 0 && len(collected) > limit {
		collected = collected[:limit]
	}

	return Deinterleave(collected, channels), nil
}
