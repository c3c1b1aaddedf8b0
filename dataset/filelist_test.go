// SPDX-License-Identifier: EPL-2.0

package dataset_test

import (
	"bytes"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/denoiseset/dataset"
)

func TestFileRef_JSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(ref("/data/clean/a.wav", 16000))
	require.NoError(t, err)
	assert.JSONEq(t, `["/data/clean/a.wav", 16000]`, string(data))

	var got dataset.FileRef
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, ref("/data/clean/a.wav", 16000), got)
}

func TestFileRef_UnmarshalInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		data string
	}{
		{name: "object", data: `{"path": "a.wav", "frames": 1}`},
		{name: "one element", data: `["a.wav"]`},
		{name: "three elements", data: `["a.wav", 1, 2]`},
		{name: "path not string", data: `[1, 2]`},
		{name: "frames not int", data: `["a.wav", "many"]`},
		{name: "negative frames", data: `["a.wav", -4]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var got dataset.FileRef
			err := json.Unmarshal([]byte(tt.data), &got)
			assert.ErrorIs(t, err, dataset.ErrInvalidInput)
		})
	}
}

func TestWriteFileList(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, dataset.WriteFileList(&buf, []dataset.FileRef{ref("a.wav", 3), ref("b.wav", 10)}))

	want := `[
    [
        "a.wav",
        3
    ],
    [
        "b.wav",
        10
    ]
]
`
	assert.Equal(t, want, buf.String())

	buf.Reset()
	require.NoError(t, dataset.WriteFileList(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())
}

func TestReadFileList_RoundTrip(t *testing.T) {
	t.Parallel()

	files := []dataset.FileRef{ref("x/1.wav", 1), ref("x/2.wav", 0), ref("y/\"quoted\".wav", 99)}

	var buf bytes.Buffer
	require.NoError(t, dataset.WriteFileList(&buf, files))

	got, err := dataset.ReadFileList(&buf)
	require.NoError(t, err)
	assert.Equal(t, files, got)
}

func TestReadFileList_Invalid(t *testing.T) {
	t.Parallel()

	_, err := dataset.ReadFileList(strings.NewReader(`[["a.wav", 1], ["b.wav"]]`))
	assert.ErrorIs(t, err, dataset.ErrInvalidInput)

	_, err = dataset.ReadFileList(strings.NewReader(`not json`))
	assert.Error(t, err)
}

func TestLoadFileLists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataset.NoisyListName),
		[]byte(`[["n/1.wav", 100], ["n/2.wav", 200]]`), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataset.CleanListName),
		[]byte(`[["c/1.wav", 110]]`), 0o600))

	noisy, clean, err := dataset.LoadFileLists(dir)
	require.NoError(t, err)
	assert.Equal(t, []dataset.FileRef{ref("n/1.wav", 100), ref("n/2.wav", 200)}, noisy)
	assert.Equal(t, []dataset.FileRef{ref("c/1.wav", 110)}, clean)
}

func TestLoadFileLists_Missing(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, dataset.NoisyListName), []byte(`[]`), 0o600))

	_, _, err := dataset.LoadFileLists(dir)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
