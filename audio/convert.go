// SPDX-License-Identifier: EPL-2.0

package audio

import "fmt"

// Convert remixes buf to dstChannels and then resamples it from srcRate to
// dstRate. The input is never modified; when nothing needs converting buf
// itself is returned.
func Convert(buf Buffer, srcRate, dstRate, dstChannels int) (Buffer, error) {
	if srcRate <= 0 || dstRate <= 0 {
		return nil, fmt.Errorf("%w: %d -> %d Hz", ErrInvalidRate, srcRate, dstRate)
	}
	if dstChannels <= 0 || buf.Channels() == 0 {
		return nil, fmt.Errorf("%w: %d -> %d channels", ErrChannelRemix, buf.Channels(), dstChannels)
	}

	if buf.Channels() == dstChannels && srcRate == dstRate {
		return buf, nil
	}
	if buf.Frames() == 0 {
		return NewBuffer(dstChannels, 0), nil
	}

	var src Source = NewBufferSource(buf, srcRate)
	if buf.Channels() != dstChannels {
		mixer, err := NewChannelMixer(src, dstChannels)
		if err != nil {
			return nil, err
		}
		src = mixer
	}
	if srcRate != dstRate {
		src = NewResampler(src, dstRate)
	}
	defer src.Close()

	out, err := ReadFrames(src, 0, -1)
	if err != nil {
		return nil, fmt.Errorf("convert %d Hz/%d ch -> %d Hz/%d ch: %w",
			srcRate, buf.Channels(), dstRate, dstChannels, err)
	}

	return out, nil
}
