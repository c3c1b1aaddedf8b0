// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// ChannelMixer converts a Source to a different channel count:
//   - to mono by averaging all channels
//   - from mono by copying the single channel to every output channel
//   - otherwise by keeping the leading channels
//
// Upmixing anything other than mono is not supported.
type ChannelMixer struct {
	src      Source
	channels int
	tmp      []float32
}

// NewChannelMixer returns a mixer producing channels output channels.
func NewChannelMixer(src Source, channels int) (*ChannelMixer, error) {
	in := src.Channels()
	switch {
	case channels <= 0 || in <= 0:
		return nil, fmt.Errorf("%w: %d -> %d channels", ErrChannelRemix, in, channels)
	case channels == 1, in == 1, in >= channels:
	default:
		return nil, fmt.Errorf("%w: cannot upmix %d -> %d channels", ErrChannelRemix, in, channels)
	}

	return &ChannelMixer{
		src:      src,
		channels: channels,
		tmp:      make([]float32, 4096),
	}, nil
}

// NewMonoMixer averages every channel of src into one.
func NewMonoMixer(src Source) *ChannelMixer {
	return &ChannelMixer{
		src:      src,
		channels: 1,
		tmp:      make([]float32, 4096),
	}
}

func (m *ChannelMixer) SampleRate() int { return m.src.SampleRate() }
func (m *ChannelMixer) Channels() int   { return m.channels }
func (m *ChannelMixer) BufSize() int    { return m.src.BufSize() }
func (m *ChannelMixer) Close() error {
	err := m.src.Close()
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func (m *ChannelMixer) ReadSamples(dst []float32) (int, error) {
	if len(dst) == 0 {
		return 0, nil
	}
	if len(dst)%m.channels != 0 {
		return 0, ErrInvalidDstSize
	}

	in := m.src.Channels()
	if in == m.channels {
		return m.src.ReadSamples(dst)
	}

	maxFrames := len(dst) / m.channels
	samplesNeeded := maxFrames * in

	// Grow but never shrink tmp.
	if cap(m.tmp) < samplesNeeded {
		m.tmp = make([]float32, max(samplesNeeded, 8192))
	}
	m.tmp = m.tmp[:samplesNeeded]

	n, err := m.src.ReadSamples(m.tmp)
	if n == 0 {
		return 0, err
	}
	frames := n / in

	switch {
	case m.channels == 1:
		m.downmix(dst, frames, in)
	case in == 1:
		for f := range frames {
			base := f * m.channels
			for c := range m.channels {
				dst[base+c] = m.tmp[f]
			}
		}
	default:
		for f := range frames {
			copy(dst[f*m.channels:(f+1)*m.channels], m.tmp[f*in:f*in+m.channels])
		}
	}

	return frames * m.channels, err
}

func (m *ChannelMixer) downmix(dst []float32, frames, in int) {
	switch in {
	case 2:
		for f := range frames {
			idx := f << 1
			dst[f] = (m.tmp[idx] + m.tmp[idx+1]) * 0.5
		}
	case 4:
		for f := range frames {
			idx := f << 2
			dst[f] = (m.tmp[idx] + m.tmp[idx+1] + m.tmp[idx+2] + m.tmp[idx+3]) * 0.25
		}
	default:
		inv := float32(1.0) / float32(in)
		for f := range frames {
			sum := float32(0)
			base := f * in
			for c := range in {
				sum += m.tmp[base+c]
			}
			dst[f] = sum * inv
		}
	}
}
