// SPDX-License-Identifier: EPL-2.0

package codec

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/ik5/denoiseset/audio"
	"github.com/ik5/denoiseset/formats/aiff"
	"github.com/ik5/denoiseset/formats/mp3"
	"github.com/ik5/denoiseset/formats/vorbis"
	"github.com/ik5/denoiseset/formats/wav"
)

// DefaultRegistry returns a registry holding every bundled decoder, keyed by
// file extension without the dot.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	return reg
}

// FileCodec decodes audio files from disk, choosing the decoder by extension.
// It keeps no per-file state and is safe for concurrent use.
type FileCodec struct {
	registry *audio.Registry
	logger   logrus.FieldLogger
}

type Option func(*FileCodec)

// WithRegistry replaces the bundled decoders.
func WithRegistry(reg *audio.Registry) Option {
	return func(c *FileCodec) { c.registry = reg }
}

func WithLogger(logger logrus.FieldLogger) Option {
	return func(c *FileCodec) { c.logger = logger }
}

func NewFileCodec(opts ...Option) *FileCodec {
	c := &FileCodec{
		registry: DefaultRegistry(),
		logger:   logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Extensions lists the handled extensions with a leading dot, sorted.
func (c *FileCodec) Extensions() []string {
	formats := c.registry.Formats()
	exts := make([]string, len(formats))
	for i, f := range formats {
		exts[i] = "." + f
	}

	return exts
}

func (c *FileCodec) decoder(path string) (audio.Decoder, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	dec, ok := c.registry.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}

	return dec, nil
}

// Info reports the frame count, rate and channel count of path. Decoders
// that implement audio.Prober answer from the headers; the rest are decoded
// in full and counted.
func (c *FileCodec) Info(path string) (audio.Info, error) {
	dec, err := c.decoder(path)
	if err != nil {
		return audio.Info{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return audio.Info{}, fmt.Errorf("%w", err)
	}
	defer f.Close()

	if p, ok := dec.(audio.Prober); ok {
		info, err := p.Probe(f)
		if err != nil {
			return audio.Info{}, fmt.Errorf("probing %s: %w", path, err)
		}
		return info, nil
	}

	c.logger.WithField("path", path).Debug("decoder cannot probe, counting frames")

	src, err := dec.Decode(f)
	if err != nil {
		return audio.Info{}, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	frames, err := countFrames(src)
	if err != nil {
		return audio.Info{}, fmt.Errorf("decoding %s: %w", path, err)
	}

	return audio.Info{
		Frames:     frames,
		SampleRate: src.SampleRate(),
		Channels:   src.Channels(),
	}, nil
}

func countFrames(src audio.Source) (int, error) {
	channels := src.Channels()
	if channels <= 0 {
		return 0, fmt.Errorf("%w: source reports %d channels", audio.ErrChannelRemix, channels)
	}

	buf := make([]float32, max(src.BufSize(), 1024)*channels)
	samples := 0
	for {
		n, err := src.ReadSamples(buf)
		samples += n
		if err == io.EOF {
			return samples / channels, nil
		}
		if err != nil {
			return 0, fmt.Errorf("%w", err)
		}
	}
}

// Decode returns frames frames of path starting at frame offset, and the
// native sample rate. frames < 0 reads to the end. A file shorter than the
// request yields fewer frames without error.
func (c *FileCodec) Decode(path string, offset, frames int) (audio.Buffer, int, error) {
	dec, err := c.decoder(path)
	if err != nil {
		return nil, 0, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("%w", err)
	}
	defer f.Close()

	src, err := dec.Decode(f)
	if err != nil {
		return nil, 0, fmt.Errorf("decoding %s: %w", path, err)
	}
	defer src.Close()

	buf, err := audio.ReadFrames(src, offset, frames)
	if err != nil {
		return nil, 0, fmt.Errorf("reading %s: %w", path, err)
	}

	return buf, src.SampleRate(), nil
}
