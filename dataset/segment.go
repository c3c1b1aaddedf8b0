// SPDX-License-Identifier: EPL-2.0

package dataset

import "fmt"

// FramesAll asks the codec for every frame from the offset to the end.
const FramesAll = -1

// Windowing controls how files are cut into examples.
type Windowing struct {
	// Length of a window in frames. Zero means no windowing: each file is
	// one example read in full.
	Length int
	// Stride between window starts in frames. Zero defaults to Length.
	Stride int
	// Pad keeps short files and partial tail windows, to be zero-filled on
	// read, instead of dropping them.
	Pad bool
}

func (w Windowing) validate() error {
	if w.Length < 0 || w.Stride < 0 {
		return fmt.Errorf("%w: window %d, stride %d", ErrInvalidInput, w.Length, w.Stride)
	}
	if w.Length == 0 && w.Stride > 0 {
		return fmt.Errorf("%w: stride %d without a window length", ErrInvalidInput, w.Stride)
	}

	return nil
}

func (w Windowing) stride() int {
	if w.Stride == 0 {
		return w.Length
	}
	return w.Stride
}

// Count returns how many examples a file of the given length yields.
func (w Windowing) Count(frames int) int {
	switch {
	case w.Length == 0:
		return 1
	case frames < w.Length:
		if w.Pad {
			return 1
		}
		return 0
	case w.Pad:
		s := w.stride()
		return (frames-w.Length+s-1)/s + 1
	default:
		return (frames-w.Length)/w.stride() + 1
	}
}

// Segment locates one example: which file, where the window starts and how
// many frames to read.
type Segment struct {
	// FileIndex is the position of File in the indexed list, which is also
	// the pairing position shared by noisy and clean lists.
	FileIndex int
	File      FileRef
	// Local is the example number within the file.
	Local  int
	Offset int
	// Frames is the window length, or FramesAll.
	Frames int
}

// SegmentIndex maps a flat example index to a window inside one of an
// ordered list of files. It is immutable once built and safe to share.
type SegmentIndex struct {
	files  []FileRef
	counts []int
	total  int
	window Windowing
}

// NewSegmentIndex counts the examples of every file. The file order is kept
// exactly as given.
func NewSegmentIndex(files []FileRef, w Windowing) (*SegmentIndex, error) {
	if err := w.validate(); err != nil {
		return nil, err
	}

	idx := &SegmentIndex{
		files:  append([]FileRef(nil), files...),
		counts: make([]int, len(files)),
		window: w,
	}

	for i, f := range files {
		if f.Frames < 0 {
			return nil, fmt.Errorf("%w: negative frame count %d for %q", ErrInvalidInput, f.Frames, f.Path)
		}
		idx.counts[i] = w.Count(f.Frames)
		idx.total += idx.counts[i]
	}

	return idx, nil
}

// Len is the total number of examples.
func (idx *SegmentIndex) Len() int { return idx.total }

// FileCount is the number of indexed files, including ones that yield no
// examples.
func (idx *SegmentIndex) FileCount() int { return len(idx.files) }

// Counts returns the per-file example counts in file order.
func (idx *SegmentIndex) Counts() []int {
	return append([]int(nil), idx.counts...)
}

func (idx *SegmentIndex) Windowing() Windowing { return idx.window }

// Resolve walks the files in order, subtracting each file's count until i
// falls inside one.
func (idx *SegmentIndex) Resolve(i int) (Segment, error) {
	if i < 0 || i >= idx.total {
		return Segment{}, fmt.Errorf("%w: %d not in [0, %d)", ErrOutOfRange, i, idx.total)
	}

	local := i
	for f, n := range idx.counts {
		if local >= n {
			local -= n
			continue
		}

		seg := Segment{
			FileIndex: f,
			File:      idx.files[f],
			Local:     local,
			Frames:    FramesAll,
		}
		if idx.window.Length > 0 {
			seg.Offset = local * idx.window.stride()
			seg.Frames = idx.window.Length
		}

		return seg, nil
	}

	// unreachable while total is the sum of counts
	return Segment{}, fmt.Errorf("%w: %d", ErrOutOfRange, i)
}
