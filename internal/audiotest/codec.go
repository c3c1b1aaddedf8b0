// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/ik5/denoiseset/audio"
)

// ErrNoClip is returned by FakeCodec for paths that were never added.
var ErrNoClip = errors.New("audiotest: no clip for path")

type clip struct {
	samples    audio.Buffer
	sampleRate int
}

// FakeCodec serves decoded clips from memory. It is safe for concurrent use.
type FakeCodec struct {
	mtx     sync.RWMutex
	clips   map[string]clip
	decodes atomic.Int64
}

func NewFakeCodec() *FakeCodec {
	return &FakeCodec{clips: make(map[string]clip)}
}

// Add registers a clip; each channel argument is one planar channel.
func (c *FakeCodec) Add(path string, sampleRate int, channels ...[]float32) *FakeCodec {
	c.mtx.Lock()
	defer c.mtx.Unlock()

	c.clips[path] = clip{samples: audio.Buffer(channels).Clone(), sampleRate: sampleRate}
	return c
}

// Decodes returns how many Decode calls were served.
func (c *FakeCodec) Decodes() int { return int(c.decodes.Load()) }

func (c *FakeCodec) Info(path string) (audio.Info, error) {
	c.mtx.RLock()
	defer c.mtx.RUnlock()

	cl, ok := c.clips[path]
	if !ok {
		return audio.Info{}, fmt.Errorf("%w: %s", ErrNoClip, path)
	}
	return audio.Info{
		Frames:     cl.samples.Frames(),
		SampleRate: cl.sampleRate,
		Channels:   cl.samples.Channels(),
	}, nil
}

func (c *FakeCodec) Decode(path string, offset, frames int) (audio.Buffer, int, error) {
	c.decodes.Add(1)

	c.mtx.RLock()
	cl, ok := c.clips[path]
	c.mtx.RUnlock()
	if !ok {
		return nil, 0, fmt.Errorf("%w: %s", ErrNoClip, path)
	}

	total := cl.samples.Frames()
	start := min(offset, total)
	end := total
	if frames >= 0 {
		end = min(start+frames, total)
	}

	out := make(audio.Buffer, cl.samples.Channels())
	for ch, data := range cl.samples {
		out[ch] = append([]float32(nil), data[start:end]...)
	}
	return out, cl.sampleRate, nil
}

// Ramp returns n samples counting up from start.
func Ramp(start float32, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = start + float32(i)
	}
	return out
}

// Const returns n samples of v.
func Const(v float32, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = v
	}
	return out
}
