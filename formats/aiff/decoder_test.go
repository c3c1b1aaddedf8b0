// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"bytes"
	"io"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/denoiseset/audio"
)

// mockAiffReader hands out int samples like aiff.Decoder.PCMBuffer.
type mockAiffReader struct {
	format  *goaudio.Format
	samples []int
	offset  int
	err     error
}

func (m *mockAiffReader) Format() *goaudio.Format { return m.format }

func (m *mockAiffReader) PCMBuffer(buf *goaudio.IntBuffer) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	n := copy(buf.Data, m.samples[m.offset:])
	m.offset += n
	return n, nil
}

func newMock(channels int, samples ...int) *mockAiffReader {
	return &mockAiffReader{
		format:  &goaudio.Format{NumChannels: channels, SampleRate: 44100},
		samples: samples,
	}
}

func TestDecoder_InvalidInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data []byte
	}{
		{name: "garbage", data: []byte("This is not AIFF data")},
		{name: "empty", data: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Decoder{}.Decode(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrNotAiffFile)

			_, err = Decoder{}.Probe(bytes.NewReader(tt.data))
			assert.ErrorIs(t, err, ErrNotAiffFile)
		})
	}
}

func TestSource_ReadSamples(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMock(2, 0, 16384, -16384, -32768), sampleRate: 44100, channels: 2}

	got, err := audio.ReadFrames(src, 0, -1)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, -0.5}, got[0])
	assert.Equal(t, []float32{0.5, -1}, got[1])
}

func TestSource_ReadSamples_ShortReadIsEOF(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMock(1, 100, 200), channels: 1}

	buf := make([]float32, 4)
	n, err := src.ReadSamples(buf)
	assert.Equal(t, 2, n)
	assert.ErrorIs(t, err, io.EOF)

	n, err = src.ReadSamples(buf)
	assert.Equal(t, 0, n)
	assert.ErrorIs(t, err, io.EOF)
}

func TestSource_ReadSamples_Error(t *testing.T) {
	t.Parallel()

	m := newMock(1)
	m.err = io.ErrUnexpectedEOF
	src := &source{dec: m, channels: 1}

	_, err := src.ReadSamples(make([]float32, 4))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}

func TestSource_BufSize(t *testing.T) {
	t.Parallel()

	src := &source{dec: newMock(1, make([]int, 10000)...), channels: 1}
	assert.Equal(t, 4096, src.BufSize())

	_, err := src.ReadSamples(make([]float32, 8192))
	require.NoError(t, err)
	assert.Equal(t, 8192, src.BufSize())
	assert.NoError(t, src.Close())
}
