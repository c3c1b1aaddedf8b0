// SPDX-License-Identifier: EPL-2.0

package denoiseset

import (
	"fmt"

	"github.com/ik5/denoiseset/codec"
	"github.com/ik5/denoiseset/dataset"
	"github.com/ik5/denoiseset/discover"
)

func newCodec(opts dataset.Options) *codec.FileCodec {
	if opts.Logger == nil {
		return codec.NewFileCodec()
	}
	return codec.NewFileCodec(codec.WithLogger(opts.Logger))
}

// Open builds a paired dataset over noisy and clean that decodes files from
// disk with the bundled decoders.
func Open(noisy, clean []dataset.FileRef, opts dataset.Options) (*dataset.PairedDataset, error) {
	return dataset.NewPairedDataset(noisy, clean, newCodec(opts), opts)
}

// LoadNoisyCleanSet reads noisy.json and clean.json from dir and opens the
// paired dataset they describe.
func LoadNoisyCleanSet(dir string, opts dataset.Options) (*dataset.PairedDataset, error) {
	noisy, clean, err := dataset.LoadFileLists(dir)
	if err != nil {
		return nil, err
	}

	ds, err := Open(noisy, clean, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", dir, err)
	}

	return ds, nil
}

// FindAudioFiles lists the audio files under root that the bundled decoders
// handle, with their frame counts.
func FindAudioFiles(root string, opts discover.Options) ([]dataset.FileRef, error) {
	return discover.Find(root, codec.NewFileCodec(), opts)
}
