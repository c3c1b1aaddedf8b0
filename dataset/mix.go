// SPDX-License-Identifier: EPL-2.0

package dataset

import "fmt"

// MixNoise overlays noise onto clean, repeating noise end to end until it
// covers len(clean) samples. The result has the length of clean. Inputs are
// single channel and left untouched.
func MixNoise(clean, noise []float32) ([]float32, error) {
	if len(noise) == 0 {
		return nil, fmt.Errorf("%w: empty noise signal", ErrInvalidInput)
	}

	out := make([]float32, len(clean))
	for i, x := range clean {
		out[i] = x + noise[i%len(noise)]
	}

	return out, nil
}
