// SPDX-License-Identifier: EPL-2.0

// Package denoiseset serves paired noisy/clean speech for training
// denoising models, decoding fixed-length windows from audio files on
// demand instead of loading whole corpora into memory.
//
// # Quick Start
//
// List the files of each side once and store the lists:
//
//	clean, _ := denoiseset.FindAudioFiles("corpus/clean", discover.Options{})
//	f, _ := os.Create("lists/clean.json")
//	dataset.WriteFileList(f, clean)
//
// Then open the pair and read examples by index:
//
//	opts := dataset.DefaultOptions()
//	opts.Windowing = dataset.Windowing{Length: 16000 * 4, Stride: 16000, Pad: true}
//	opts.SampleRate = 16000
//
//	ds, err := denoiseset.LoadNoisyCleanSet("lists", opts)
//	for i := range ds.Len() {
//		noisy, clean, err := ds.Get(i)
//		...
//	}
//
// # Packages
//
//   - dataset: file lists, windowing index, pairing, noise mixing
//   - codec: reads windows from files through the format decoders
//   - discover: walks directories and probes file lengths
//   - audio: sample buffers, resampling and channel remixing
//   - formats/wav, formats/mp3, formats/vorbis, formats/aiff: decoders
//
// Reads hold no shared state, so a dataset can be served to several
// loader goroutines at once.
package denoiseset
