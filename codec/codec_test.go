// SPDX-License-Identifier: EPL-2.0

package codec_test

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/denoiseset/audio"
	"github.com/ik5/denoiseset/codec"
	"github.com/ik5/denoiseset/formats/wav"
	"github.com/ik5/denoiseset/internal/audiotest"
)

// writeRamp writes a 16-bit WAV whose frame i holds i on every channel.
func writeRamp(t *testing.T, dir, name string, rate, channels, frames int) string {
	t.Helper()

	samples := make([]int16, frames*channels)
	for f := range frames {
		for c := range channels {
			samples[f*channels+c] = int16(f)
		}
	}

	path := filepath.Join(dir, name)
	out, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.WriteWAV16(out, rate, channels, samples))
	require.NoError(t, out.Close())

	return path
}

func TestFileCodec_Extensions(t *testing.T) {
	t.Parallel()

	assert.Equal(t,
		[]string{".aif", ".aiff", ".mp3", ".ogg", ".wav"},
		codec.NewFileCodec().Extensions())
}

func TestFileCodec_Info(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	tests := []struct {
		name     string
		rate     int
		channels int
		frames   int
	}{
		{name: "mono.wav", rate: 16000, channels: 1, frames: 1234},
		{name: "stereo.WAV", rate: 44100, channels: 2, frames: 500},
	}

	c := codec.NewFileCodec()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeRamp(t, dir, tt.name, tt.rate, tt.channels, tt.frames)

			info, err := c.Info(path)
			require.NoError(t, err)
			assert.Equal(t, audio.Info{Frames: tt.frames, SampleRate: tt.rate, Channels: tt.channels}, info)
		})
	}
}

func TestFileCodec_Decode(t *testing.T) {
	t.Parallel()

	path := writeRamp(t, t.TempDir(), "clip.wav", 8000, 2, 100)
	c := codec.NewFileCodec()

	tests := []struct {
		name   string
		offset int
		frames int
		first  float32
		want   int
	}{
		{name: "whole file", offset: 0, frames: -1, first: 0, want: 100},
		{name: "window", offset: 10, frames: 20, first: 10, want: 20},
		{name: "tail shorter than window", offset: 90, frames: 20, first: 90, want: 10},
		{name: "past end", offset: 200, frames: 20, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			buf, rate, err := c.Decode(path, tt.offset, tt.frames)
			require.NoError(t, err)
			assert.Equal(t, 8000, rate)
			require.Equal(t, 2, buf.Channels())
			require.Equal(t, tt.want, buf.Frames())
			if tt.want > 0 {
				assert.InDelta(t, tt.first/32768, buf[0][0], 1e-9)
				assert.InDelta(t, tt.first/32768, buf[1][0], 1e-9)
			}
		})
	}
}

func TestFileCodec_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	c := codec.NewFileCodec()

	_, err := c.Info(filepath.Join(dir, "notes.txt"))
	assert.ErrorIs(t, err, codec.ErrUnsupportedFormat)

	_, _, err = c.Decode(filepath.Join(dir, "notes.flac"), 0, 1)
	assert.ErrorIs(t, err, codec.ErrUnsupportedFormat)

	_, err = c.Info(filepath.Join(dir, "missing.wav"))
	assert.ErrorIs(t, err, fs.ErrNotExist)

	bogus := filepath.Join(dir, "bogus.wav")
	require.NoError(t, os.WriteFile(bogus, []byte("not really a wav file"), 0o600))

	_, _, err = c.Decode(bogus, 0, 1)
	assert.ErrorIs(t, err, wav.ErrNotWavFile)
}

// rampDecoder ignores its input and produces a 1000-frame ramp; it cannot probe.
type rampDecoder struct{}

func (rampDecoder) Decode(r io.Reader) (audio.Source, error) {
	return audiotest.NewRampSource(22050, 3, 1000), nil
}

func TestFileCodec_InfoWithoutProber(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "clip.raw")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	reg := audio.NewRegistry()
	reg.Register("raw", rampDecoder{})
	c := codec.NewFileCodec(codec.WithRegistry(reg))

	info, err := c.Info(path)
	require.NoError(t, err)
	assert.Equal(t, audio.Info{Frames: 1000, SampleRate: 22050, Channels: 3}, info)
	assert.Equal(t, []string{".raw"}, c.Extensions())
}

func TestFileCodec_ConcurrentDecode(t *testing.T) {
	t.Parallel()

	path := writeRamp(t, t.TempDir(), "clip.wav", 8000, 1, 4000)
	c := codec.NewFileCodec()

	var wg sync.WaitGroup
	errs := make([]error, 16)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf, _, err := c.Decode(path, i*100, 50)
			if err == nil && buf[0][0] != float32(i*100)/32768 {
				err = assert.AnError
			}
			errs[i] = err
		}()
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}

// testdata/short.mp3 is 40 MPEG-2 layer III frames (576 samples each) of mono
// speech at 22050 Hz; go-mp3 decodes it to stereo.
// testdata/short.ogg is one second of mono Vorbis at 44100 Hz.
func TestFileCodec_CompressedWindows(t *testing.T) {
	t.Parallel()

	c := codec.NewFileCodec()

	tests := []struct {
		name     string
		path     string
		rate     int
		channels int
		frames   int
	}{
		{name: "mp3", path: "testdata/short.mp3", rate: 22050, channels: 2, frames: 40 * 576},
		{name: "ogg", path: "testdata/short.ogg", rate: 44100, channels: 1, frames: 44100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			info, err := c.Info(tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.rate, info.SampleRate)
			assert.Equal(t, tt.channels, info.Channels)
			assert.Equal(t, tt.frames, info.Frames)

			buf, rate, err := c.Decode(tt.path, info.Frames/2, 1000)
			require.NoError(t, err)
			assert.Equal(t, tt.rate, rate)
			assert.Equal(t, tt.channels, buf.Channels())
			assert.Equal(t, 1000, buf.Frames(), "mid-file window")

			buf, _, err = c.Decode(tt.path, info.Frames-100, 1000)
			require.NoError(t, err)
			assert.Positive(t, buf.Frames(), "window over the end")
			assert.LessOrEqual(t, buf.Frames(), 100, "window over the end")

			for _, offset := range []int{info.Frames, info.Frames + 1, info.Frames * 3} {
				buf, _, err = c.Decode(tt.path, offset, 1000)
				require.NoError(t, err, "offset %d", offset)
				assert.Equal(t, 0, buf.Frames(), "offset %d", offset)
			}
		})
	}
}

func TestFileCodec_MP3WindowOverEndIsExact(t *testing.T) {
	t.Parallel()

	buf, _, err := codec.NewFileCodec().Decode("testdata/short.mp3", 40*576-100, 1000)
	require.NoError(t, err)
	assert.Equal(t, 100, buf.Frames())
}
