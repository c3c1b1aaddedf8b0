// SPDX-License-Identifier: EPL-2.0

// Package discover walks directory trees for audio files and returns them as
// dataset file references with their frame counts.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ik5/denoiseset/audio"
	"github.com/ik5/denoiseset/dataset"
)

// DefaultExtensions is used when neither Options nor the Prober name any.
var DefaultExtensions = []string{".wav"}

// Prober reports stream metadata for a file. codec.FileCodec implements it.
type Prober interface {
	Info(path string) (audio.Info, error)
}

// InfoCache stores probe results keyed by path, size and modification time.
// infocache.Cache implements it.
type InfoCache interface {
	Get(path string, size int64, modTime time.Time) (audio.Info, bool, error)
	Put(path string, size int64, modTime time.Time, info audio.Info) error
}

type extensioner interface {
	Extensions() []string
}

type Options struct {
	// Extensions to accept, with the leading dot; matched without regard
	// to case. Empty means the Prober's Extensions, or DefaultExtensions.
	Extensions     []string
	// FollowSymlinks descends into symlinked directories. Each directory
	// is walked once, so link cycles end.
	FollowSymlinks bool
	Cache          InfoCache
	Logger         logrus.FieldLogger
}

// Find lists every matching file under root as an absolute path with
// symlinks resolved, probes its length and returns the list sorted by path
// and then frame count. Symlinked directories are only descended into with
// Options.FollowSymlinks.
func Find(root string, prober Prober, opts Options) ([]dataset.FileRef, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	w := &walker{
		exts:    extensionSet(opts.Extensions, prober),
		follow:  opts.FollowSymlinks,
		visited: map[string]struct{}{},
	}

	start, err := resolve(root)
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	if err := w.walk(start); err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	paths := w.paths

	files := make([]dataset.FileRef, 0, len(paths))
	for _, path := range paths {
		info, err := probe(path, prober, opts.Cache, logger)
		if err != nil {
			return nil, err
		}
		files = append(files, dataset.FileRef{Path: path, Frames: info.Frames})
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].Path != files[j].Path {
			return files[i].Path < files[j].Path
		}
		return files[i].Frames < files[j].Frames
	})

	logger.WithFields(logrus.Fields{
		"root":  root,
		"files": len(files),
	}).Info("audio files discovered")

	return files, nil
}

// FindAll runs Find on each root and concatenates the results in root order.
func FindAll(roots []string, prober Prober, opts Options) ([]dataset.FileRef, error) {
	var all []dataset.FileRef
	for _, root := range roots {
		files, err := Find(root, prober, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, files...)
	}

	return all, nil
}

func extensionSet(exts []string, prober Prober) map[string]struct{} {
	if len(exts) == 0 {
		if e, ok := prober.(extensioner); ok {
			exts = e.Extensions()
		}
	}
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	set := make(map[string]struct{}, len(exts))
	for _, ext := range exts {
		ext = strings.ToLower(ext)
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		set[ext] = struct{}{}
	}

	return set
}

type walker struct {
	exts    map[string]struct{}
	follow  bool
	visited map[string]struct{}
	paths   []string
}

// walk collects matching files under dir, which must be a resolved path.
func (w *walker) walk(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if _, seen := w.visited[path]; seen {
				return fs.SkipDir
			}
			w.visited[path] = struct{}{}
			return nil
		}

		if w.follow && d.Type()&fs.ModeSymlink != 0 {
			// Dangling links fall through and fail in resolve if they match.
			if st, err := os.Stat(path); err == nil && st.IsDir() {
				target, err := resolve(path)
				if err != nil {
					return err
				}
				return w.walk(target)
			}
		}

		if _, ok := w.exts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		resolved, err := resolve(path)
		if err != nil {
			return err
		}
		w.paths = append(w.paths, resolved)

		return nil
	})
}

func resolve(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}

	resolved, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return "", fmt.Errorf("%w", err)
	}

	return resolved, nil
}

func probe(path string, prober Prober, cache InfoCache, logger logrus.FieldLogger) (audio.Info, error) {
	var st os.FileInfo
	if cache != nil {
		var err error
		st, err = os.Stat(path)
		if err != nil {
			return audio.Info{}, fmt.Errorf("%w", err)
		}

		info, ok, err := cache.Get(path, st.Size(), st.ModTime())
		if err != nil {
			return audio.Info{}, err
		}
		if ok {
			return info, nil
		}
	}

	info, err := prober.Info(path)
	if err != nil {
		return audio.Info{}, fmt.Errorf("probing %s: %w", path, err)
	}

	logger.WithFields(logrus.Fields{
		"path":   path,
		"frames": info.Frames,
		"rate":   info.SampleRate,
	}).Debug("probed")

	if cache != nil {
		if err := cache.Put(path, st.Size(), st.ModTime(), info); err != nil {
			return audio.Info{}, err
		}
	}

	return info, nil
}
