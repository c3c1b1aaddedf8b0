// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"fmt"

	"github.com/sirupsen/logrus"
)

// Options configures NewPairedDataset.
type Options struct {
	Matching Matching
	// MaxPairs caps MatchCrossProduct: zero uses DefaultMaxPairs, a
	// negative value removes the cap.
	MaxPairs  int
	Windowing Windowing

	SampleRate int
	Channels   int
	Convert    bool
	WithPath   bool
	Converter  Converter

	Logger logrus.FieldLogger
}

// DefaultOptions pairs with MatchZipSorted and pads short windows.
func DefaultOptions() Options {
	return Options{
		Matching:  MatchZipSorted,
		Windowing: Windowing{Pad: true},
	}
}

// PairedDataset serves (noisy, clean) example pairs. One SegmentIndex, built
// from the clean lengths, addresses both sides. The noisy side is a
// synthetic mixture of the clean window and the tiled noisy window.
type PairedDataset struct {
	files PairedFiles
	index *SegmentIndex
	noisy *Collection
	clean *Collection
}

func NewPairedDataset(noisy, clean []FileRef, codec Codec, opts Options) (*PairedDataset, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	pairOpts := []PairOption{WithPairLogger(logger)}
	if opts.MaxPairs != 0 {
		pairOpts = append(pairOpts, WithMaxPairs(opts.MaxPairs))
	}

	files, err := Pair(noisy, clean, opts.Matching, pairOpts...)
	if err != nil {
		return nil, fmt.Errorf("pairing: %w", err)
	}
	if len(files.Noisy) != len(files.Clean) {
		return nil, fmt.Errorf("%w: %d noisy, %d clean after pairing", ErrCardinalityMismatch, len(files.Noisy), len(files.Clean))
	}

	index, err := NewSegmentIndex(files.Clean, opts.Windowing)
	if err != nil {
		return nil, err
	}

	copts := CollectionOptions{
		SampleRate: opts.SampleRate,
		Channels:   opts.Channels,
		Convert:    opts.Convert,
		WithPath:   opts.WithPath,
		Converter:  opts.Converter,
	}

	cleanSet, err := NewCollection(files.Clean, index, codec, copts)
	if err != nil {
		return nil, err
	}

	copts.MixWith = files.Clean
	noisySet, err := NewCollection(files.Noisy, index, codec, copts)
	if err != nil {
		return nil, err
	}

	if noisySet.Len() != cleanSet.Len() {
		return nil, fmt.Errorf("%w: %d noisy, %d clean examples", ErrCardinalityMismatch, noisySet.Len(), cleanSet.Len())
	}

	logger.WithFields(logrus.Fields{
		"matching": opts.Matching.String(),
		"files":    files.Len(),
		"examples": index.Len(),
		"window":   opts.Windowing.Length,
	}).Info("paired dataset ready")

	return &PairedDataset{
		files: files,
		index: index,
		noisy: noisySet,
		clean: cleanSet,
	}, nil
}

func (d *PairedDataset) Len() int { return d.index.Len() }

// Get materializes example i on both sides. Nothing is cached.
func (d *PairedDataset) Get(i int) (noisy, clean Item, err error) {
	noisy, err = d.noisy.Get(i)
	if err != nil {
		return Item{}, Item{}, fmt.Errorf("noisy example %d: %w", i, err)
	}

	clean, err = d.clean.Get(i)
	if err != nil {
		return Item{}, Item{}, fmt.Errorf("clean example %d: %w", i, err)
	}

	return noisy, clean, nil
}

// Files returns copies of the aligned lists.
func (d *PairedDataset) Files() PairedFiles {
	return PairedFiles{
		Noisy: append([]FileRef(nil), d.files.Noisy...),
		Clean: append([]FileRef(nil), d.files.Clean...),
	}
}

// Index returns the index shared by both sides.
func (d *PairedDataset) Index() *SegmentIndex { return d.index }
