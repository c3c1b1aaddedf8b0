// SPDX-License-Identifier: EPL-2.0

package discover_test

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ik5/denoiseset/audio"
	"github.com/ik5/denoiseset/codec"
	"github.com/ik5/denoiseset/dataset"
	"github.com/ik5/denoiseset/discover"
	"github.com/ik5/denoiseset/formats/wav"
	"github.com/ik5/denoiseset/internal/infocache"
)

// sizeProber reports the file size in bytes as the frame count.
type sizeProber struct {
	mu    sync.Mutex
	calls map[string]int
	exts  []string
}

func newSizeProber(exts ...string) *sizeProber {
	return &sizeProber{calls: map[string]int{}, exts: exts}
}

func (p *sizeProber) Info(path string) (audio.Info, error) {
	p.mu.Lock()
	p.calls[path]++
	p.mu.Unlock()

	st, err := os.Stat(path)
	if err != nil {
		return audio.Info{}, err
	}
	return audio.Info{Frames: int(st.Size()), SampleRate: 8000, Channels: 1}, nil
}

func (p *sizeProber) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	n := 0
	for _, c := range p.calls {
		n += c
	}
	return n
}

type failingProber struct{}

var errProbe = errors.New("probe failed")

func (failingProber) Info(string) (audio.Info, error) { return audio.Info{}, errProbe }

func write(t *testing.T, path string, size int) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o600))

	resolved, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	return resolved
}

func quiet() discover.Options {
	logger, _ := logtest.NewNullLogger()
	return discover.Options{Logger: logger}
}

func TestFind(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	b := write(t, filepath.Join(root, "b.wav"), 20)
	a := write(t, filepath.Join(root, "sub", "deep", "a.WAV"), 10)
	c := write(t, filepath.Join(root, "c.mp3"), 5)
	write(t, filepath.Join(root, "notes.txt"), 3)
	write(t, filepath.Join(root, "wav"), 3)

	opts := quiet()
	opts.Extensions = []string{".wav", "MP3"}

	files, err := discover.Find(root, newSizeProber(), opts)
	require.NoError(t, err)

	want := []dataset.FileRef{{Path: b, Frames: 20}, {Path: c, Frames: 5}, {Path: a, Frames: 10}}
	assert.Equal(t, want, files)
	for _, f := range files {
		assert.True(t, filepath.IsAbs(f.Path), f.Path)
	}
}

func TestFind_ExtensionsFromProber(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	ogg := write(t, filepath.Join(root, "x.ogg"), 1)
	write(t, filepath.Join(root, "y.wav"), 1)

	files, err := discover.Find(root, newSizeProber(".ogg"), quiet())
	require.NoError(t, err)
	assert.Equal(t, []dataset.FileRef{{Path: ogg, Frames: 1}}, files)
}

func TestFind_DefaultExtensions(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := write(t, filepath.Join(root, "x.wav"), 2)
	write(t, filepath.Join(root, "y.mp3"), 2)

	files, err := discover.Find(root, newSizeProber(), quiet())
	require.NoError(t, err)
	assert.Equal(t, []dataset.FileRef{{Path: w, Frames: 2}}, files)
}

func TestFind_ResolvesSymlinks(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	target := write(t, filepath.Join(root, "store", "real.wav"), 4)
	links := filepath.Join(root, "links")
	require.NoError(t, os.MkdirAll(links, 0o755))
	if err := os.Symlink(target, filepath.Join(links, "alias.wav")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, err := discover.Find(links, newSizeProber(), quiet())
	require.NoError(t, err)
	assert.Equal(t, []dataset.FileRef{{Path: target, Frames: 4}}, files)
}

func TestFind_FollowSymlinks(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	root := filepath.Join(base, "corpus")
	local := write(t, filepath.Join(root, "local", "a.wav"), 1)
	shared := write(t, filepath.Join(base, "shared", "b.wav"), 2)

	if err := os.Symlink(filepath.Join(base, "shared"), filepath.Join(root, "shared")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}
	// A link back to the root and a second link to an already walked
	// directory must not repeat files or loop.
	require.NoError(t, os.Symlink(root, filepath.Join(root, "local", "loop")))
	require.NoError(t, os.Symlink(filepath.Join(root, "local"), filepath.Join(root, "again")))
	// A dangling link without an audio extension is ignored.
	require.NoError(t, os.Symlink(filepath.Join(base, "gone"), filepath.Join(root, "gone")))

	tests := []struct {
		name   string
		follow bool
		want   []dataset.FileRef
	}{
		{name: "not following", want: []dataset.FileRef{{Path: local, Frames: 1}}},
		{name: "following", follow: true, want: []dataset.FileRef{
			{Path: local, Frames: 1},
			{Path: shared, Frames: 2},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := quiet()
			opts.FollowSymlinks = tt.follow

			files, err := discover.Find(root, newSizeProber(), opts)
			require.NoError(t, err)
			assert.ElementsMatch(t, tt.want, files)
		})
	}
}

func TestFind_SymlinkedRoot(t *testing.T) {
	t.Parallel()

	base := t.TempDir()
	target := write(t, filepath.Join(base, "real", "a.wav"), 3)
	link := filepath.Join(base, "link")
	if err := os.Symlink(filepath.Join(base, "real"), link); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	files, err := discover.Find(link, newSizeProber(), quiet())
	require.NoError(t, err)
	assert.Equal(t, []dataset.FileRef{{Path: target, Frames: 3}}, files)
}

func TestFind_Errors(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	write(t, filepath.Join(root, "x.wav"), 1)

	_, err := discover.Find(root, failingProber{}, quiet())
	assert.ErrorIs(t, err, errProbe)

	_, err = discover.Find(filepath.Join(root, "missing"), newSizeProber(), quiet())
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFind_Cache(t *testing.T) {
	t.Parallel()

	cache, err := infocache.OpenInMemory()
	require.NoError(t, err)
	defer cache.Close()

	root := t.TempDir()
	path := write(t, filepath.Join(root, "a.wav"), 10)
	write(t, filepath.Join(root, "b.wav"), 30)

	opts := quiet()
	opts.Cache = cache
	prober := newSizeProber()

	first, err := discover.Find(root, prober, opts)
	require.NoError(t, err)
	require.Equal(t, 2, prober.Calls())

	second, err := discover.Find(root, prober, opts)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 2, prober.Calls())

	require.NoError(t, os.WriteFile(path, make([]byte, 15), 0o600))
	third, err := discover.Find(root, prober, opts)
	require.NoError(t, err)
	assert.Equal(t, 3, prober.Calls())
	assert.Equal(t, 15, third[0].Frames)
}

func TestFindAll(t *testing.T) {
	t.Parallel()

	r1, r2 := t.TempDir(), t.TempDir()
	z := write(t, filepath.Join(r1, "z.wav"), 1)
	a := write(t, filepath.Join(r2, "a.wav"), 2)

	files, err := discover.FindAll([]string{r1, r2}, newSizeProber(), quiet())
	require.NoError(t, err)
	assert.Equal(t, []dataset.FileRef{{Path: z, Frames: 1}, {Path: a, Frames: 2}}, files)
}

func TestFind_WithFileCodec(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	path := filepath.Join(root, "speech.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, wav.WriteWAV16(f, 16000, 2, make([]int16, 2*1600)))
	require.NoError(t, f.Close())
	write(t, filepath.Join(root, "readme.md"), 1)

	files, err := discover.Find(root, codec.NewFileCodec(), quiet())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, 1600, files[0].Frames)
}
