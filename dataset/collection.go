// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"fmt"

	"github.com/ik5/denoiseset/audio"
)

// Codec decodes a window of an audio file. frames may be FramesAll. The
// returned buffer may be shorter than requested near the end of the file;
// the int is the native sample rate.
type Codec interface {
	Decode(path string, offset, frames int) (audio.Buffer, int, error)
}

// Converter resamples and remixes a buffer.
type Converter interface {
	Convert(buf audio.Buffer, srcRate, dstRate, dstChannels int) (audio.Buffer, error)
}

// ConverterFunc adapts a function to Converter.
type ConverterFunc func(buf audio.Buffer, srcRate, dstRate, dstChannels int) (audio.Buffer, error)

func (f ConverterFunc) Convert(buf audio.Buffer, srcRate, dstRate, dstChannels int) (audio.Buffer, error) {
	return f(buf, srcRate, dstRate, dstChannels)
}

// Item is one materialized example.
type Item struct {
	Samples    audio.Buffer
	SampleRate int
	// Path of the decoded file; empty unless CollectionOptions.WithPath.
	Path string
}

type CollectionOptions struct {
	// SampleRate and Channels are the target layout; zero keeps what the
	// file has.
	SampleRate int
	Channels   int
	// Convert enables resampling and remixing to the target. Without it a
	// file that does not match fails with ErrRateMismatch or
	// ErrChannelMismatch.
	Convert bool
	// WithPath fills Item.Path.
	WithPath bool
	// Converter defaults to audio.Convert.
	Converter Converter
	// MixWith, when set, makes every read a synthetic mixture: the window
	// at the same position of MixWith[FileIndex] plus this collection's
	// window tiled as noise. See MixNoise.
	MixWith []FileRef
}

// Collection materializes windows of an ordered file list. It holds no
// mutable state, so Get may be called from several goroutines.
type Collection struct {
	files     []FileRef
	index     *SegmentIndex
	codec     Codec
	opts      CollectionOptions
	converter Converter
}

// NewCollection reads files through codec using the windows of index. index
// may have been built from another, aligned list; it is shared, not copied.
func NewCollection(files []FileRef, index *SegmentIndex, codec Codec, opts CollectionOptions) (*Collection, error) {
	if index == nil || codec == nil {
		return nil, fmt.Errorf("%w: collection needs an index and a codec", ErrInvalidInput)
	}
	if opts.SampleRate < 0 || opts.Channels < 0 {
		return nil, fmt.Errorf("%w: target rate %d, channels %d", ErrInvalidInput, opts.SampleRate, opts.Channels)
	}
	if len(files) != index.FileCount() {
		return nil, fmt.Errorf("%w: %d files for an index over %d", ErrCardinalityMismatch, len(files), index.FileCount())
	}
	if opts.MixWith != nil && len(opts.MixWith) != len(files) {
		return nil, fmt.Errorf("%w: %d files to mix with %d", ErrCardinalityMismatch, len(opts.MixWith), len(files))
	}

	c := &Collection{
		files:     append([]FileRef(nil), files...),
		index:     index,
		codec:     codec,
		opts:      opts,
		converter: opts.Converter,
	}
	if opts.MixWith != nil {
		c.opts.MixWith = append([]FileRef(nil), opts.MixWith...)
	}
	if c.converter == nil {
		c.converter = ConverterFunc(audio.Convert)
	}

	return c, nil
}

func (c *Collection) Len() int { return c.index.Len() }

// Get decodes example i. Every call goes back to the codec.
func (c *Collection) Get(i int) (Item, error) {
	seg, err := c.index.Resolve(i)
	if err != nil {
		return Item{}, err
	}

	ref := c.files[seg.FileIndex]
	buf, rate, err := c.codec.Decode(ref.Path, seg.Offset, seg.Frames)
	if err != nil {
		return Item{}, fmt.Errorf("decoding %q at %d: %w", ref.Path, seg.Offset, err)
	}

	if c.opts.MixWith != nil {
		buf, rate, err = c.mix(c.opts.MixWith[seg.FileIndex], seg, buf)
		if err != nil {
			return Item{}, err
		}
	}

	buf, err = c.conform(ref.Path, buf, rate)
	if err != nil {
		return Item{}, err
	}

	if seg.Frames != FramesAll && buf.Frames() != seg.Frames {
		buf = buf.Fit(seg.Frames)
	}

	item := Item{Samples: buf, SampleRate: rate}
	if c.opts.SampleRate > 0 {
		item.SampleRate = c.opts.SampleRate
	}
	if c.opts.WithPath {
		item.Path = ref.Path
	}

	return item, nil
}

// mix decodes the counterpart window and adds noise, the first channel of
// this collection's window, to its first channel. The result is mono at the
// counterpart's rate.
func (c *Collection) mix(counterpart FileRef, seg Segment, noise audio.Buffer) (audio.Buffer, int, error) {
	base, rate, err := c.codec.Decode(counterpart.Path, seg.Offset, seg.Frames)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %q at %d: %w", counterpart.Path, seg.Offset, err)
	}
	if base.Channels() == 0 || noise.Channels() == 0 {
		return nil, 0, fmt.Errorf("%w: no channels to mix for %q", ErrInvalidInput, counterpart.Path)
	}

	mixed, err := MixNoise(base[0], noise[0])
	if err != nil {
		return nil, 0, fmt.Errorf("mixing into %q at %d: %w", counterpart.Path, seg.Offset, err)
	}

	return audio.Buffer{mixed}, rate, nil
}

func (c *Collection) conform(path string, buf audio.Buffer, rate int) (audio.Buffer, error) {
	dstRate := rate
	if c.opts.SampleRate > 0 {
		dstRate = c.opts.SampleRate
	}
	dstChannels := buf.Channels()
	if c.opts.Channels > 0 {
		dstChannels = c.opts.Channels
	}

	if dstRate == rate && dstChannels == buf.Channels() {
		return buf, nil
	}

	if !c.opts.Convert {
		if dstRate != rate {
			return nil, fmt.Errorf("%w: %q is %d Hz, want %d Hz", ErrRateMismatch, path, rate, dstRate)
		}
		return nil, fmt.Errorf("%w: %q has %d channels, want %d", ErrChannelMismatch, path, buf.Channels(), dstChannels)
	}

	out, err := c.converter.Convert(buf, rate, dstRate, dstChannels)
	if err != nil {
		return nil, fmt.Errorf("converting %q: %w", path, err)
	}

	return out, nil
}
