// SPDX-License-Identifier: EPL-2.0

// Package dataset exposes paired noisy/clean audio as a flat, lazily decoded
// list of fixed-length examples for training speech denoisers.
//
// # Indexing
//
// A SegmentIndex cuts each file of an ordered list into windows of
// Windowing.Length frames spaced Windowing.Stride apart, and resolves a flat
// example number back to (file, offset) by walking the files in order:
//
//	idx, _ := dataset.NewSegmentIndex(files, dataset.Windowing{Length: 16000, Stride: 8000, Pad: true})
//	seg, _ := idx.Resolve(42) // seg.File, seg.Offset, seg.Frames
//
// With Pad, a file shorter than the window and the partial window at the
// end of a file are kept and zero-filled when read.
//
// # Pairing
//
// Pair aligns the noisy and clean lists:
//
//   - MatchZipSorted sorts both lists and pairs them one to one.
//   - MatchCrossProduct pairs every noisy file with every clean file, capped
//     at DefaultMaxPairs. Configurations that say "sort" get this strategy.
//   - MatchDNS pairs by the id in fileid_<n>.wav and appends the files
//     without an id, each side sorted on its own.
//
// # Reading
//
// PairedDataset builds one index from the clean lengths and two Collections
// over it. Reading the noisy side decodes the clean window at the same
// position and adds the noisy window to it, repeated as often as needed
// (MixNoise). Only the first channel takes part in the mix.
//
//	ds, err := dataset.NewPairedDataset(noisy, clean, codec.NewFileCodec(), opts)
//	noisyItem, cleanItem, err := ds.Get(i)
//
// Every Get decodes from the codec again; nothing is cached, and a built
// dataset may be read from several goroutines.
package dataset
