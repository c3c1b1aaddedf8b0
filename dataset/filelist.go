// SPDX-License-Identifier: EPL-2.0

package dataset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Names of the file lists LoadFileLists expects inside a dataset directory.
const (
	NoisyListName = "noisy.json"
	CleanListName = "clean.json"
)

// FileRef identifies one audio file and its length in frames.
//
// In JSON a FileRef is the two-element array ["path", frames].
type FileRef struct {
	Path   string
	Frames int
}

func (f FileRef) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]any{f.Path, f.Frames})
}

func (f *FileRef) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: file entry: %w", ErrInvalidInput, err)
	}
	if len(raw) != 2 {
		return fmt.Errorf("%w: file entry has %d elements, want [path, frames]", ErrInvalidInput, len(raw))
	}

	var ref FileRef
	if err := json.Unmarshal(raw[0], &ref.Path); err != nil {
		return fmt.Errorf("%w: file path: %w", ErrInvalidInput, err)
	}
	if err := json.Unmarshal(raw[1], &ref.Frames); err != nil {
		return fmt.Errorf("%w: frame count of %q: %w", ErrInvalidInput, ref.Path, err)
	}
	if ref.Frames < 0 {
		return fmt.Errorf("%w: negative frame count %d for %q", ErrInvalidInput, ref.Frames, ref.Path)
	}

	*f = ref
	return nil
}

// ReadFileList decodes a JSON array of file entries.
func ReadFileList(r io.Reader) ([]FileRef, error) {
	var files []FileRef
	if err := json.NewDecoder(r).Decode(&files); err != nil {
		return nil, fmt.Errorf("decoding file list: %w", err)
	}

	return files, nil
}

// ReadFileListFile reads the file list stored at path.
func ReadFileListFile(path string) ([]FileRef, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	files, err := ReadFileList(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return files, nil
}

// WriteFileList encodes files as a JSON array indented by four spaces.
func WriteFileList(w io.Writer, files []FileRef) error {
	if files == nil {
		files = []FileRef{}
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(files); err != nil {
		return fmt.Errorf("encoding file list: %w", err)
	}

	return nil
}

// LoadFileLists reads noisy.json and clean.json from dir.
func LoadFileLists(dir string) (noisy, clean []FileRef, err error) {
	noisy, err = ReadFileListFile(filepath.Join(dir, NoisyListName))
	if err != nil {
		return nil, nil, err
	}

	clean, err = ReadFileListFile(filepath.Join(dir, CleanListName))
	if err != nil {
		return nil, nil, err
	}

	return noisy, clean, nil
}
