// SPDX-License-Identifier: EPL-2.0

// Package infocache persists audio probe results in a badger store so that
// repeated scans of a corpus skip files that did not change.
//
// Entries are keyed by the xxhash of the absolute path and carry the file
// size and modification time they were probed at; a lookup with a different
// size or time misses. Entries are never evicted.
package infocache

import (
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/OneOfOne/xxhash"
	"github.com/dgraph-io/badger/v3"

	"github.com/ik5/denoiseset/audio"
)

// value layout: size | modtime ns | frames | rate | channels | path
const headerLen = 8 + 8 + 8 + 4 + 4

var ErrCorruptEntry = errors.New("corrupt info cache entry")

type Cache struct {
	db *badger.DB
}

// Open opens or creates the cache stored in dir.
func Open(dir string) (*Cache, error) {
	return open(badger.DefaultOptions(dir).WithLogger(nil))
}

// OpenInMemory returns a cache that lives only as long as the process.
func OpenInMemory() (*Cache, error) {
	return open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
}

func open(opts badger.Options) (*Cache, error) {
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening info cache: %w", err)
	}

	return &Cache{db: db}, nil
}

func (c *Cache) Close() error {
	if err := c.db.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}

	return nil
}

func key(path string) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, xxhash.ChecksumString64(path))
	return k
}

func encode(path string, size int64, modTime time.Time, info audio.Info) []byte {
	val := make([]byte, headerLen+len(path))
	binary.BigEndian.PutUint64(val[0:], uint64(size))
	binary.BigEndian.PutUint64(val[8:], uint64(modTime.UnixNano()))
	binary.BigEndian.PutUint64(val[16:], uint64(info.Frames))
	binary.BigEndian.PutUint32(val[24:], uint32(info.SampleRate))
	binary.BigEndian.PutUint32(val[28:], uint32(info.Channels))
	copy(val[headerLen:], path)

	return val
}

type entry struct {
	path    string
	size    int64
	modNano int64
	info    audio.Info
}

func decode(val []byte) (entry, error) {
	if len(val) < headerLen {
		return entry{}, fmt.Errorf("%w: %d bytes", ErrCorruptEntry, len(val))
	}

	return entry{
		size:    int64(binary.BigEndian.Uint64(val[0:])),
		modNano: int64(binary.BigEndian.Uint64(val[8:])),
		info: audio.Info{
			Frames:     int(binary.BigEndian.Uint64(val[16:])),
			SampleRate: int(binary.BigEndian.Uint32(val[24:])),
			Channels:   int(binary.BigEndian.Uint32(val[28:])),
		},
		path: string(val[headerLen:]),
	}, nil
}

// Get returns the stored info for path if it was probed at the same size
// and modification time.
func (c *Cache) Get(path string, size int64, modTime time.Time) (audio.Info, bool, error) {
	var e entry
	err := c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key(path))
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			e, err = decode(val)
			return err
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return audio.Info{}, false, nil
	}
	if err != nil {
		return audio.Info{}, false, fmt.Errorf("reading info cache: %w", err)
	}

	if e.path != path || e.size != size || e.modNano != modTime.UnixNano() {
		return audio.Info{}, false, nil
	}

	return e.info, true, nil
}

// Put stores info for path, replacing any older entry.
func (c *Cache) Put(path string, size int64, modTime time.Time, info audio.Info) error {
	err := c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key(path), encode(path, size, modTime, info))
	})
	if err != nil {
		return fmt.Errorf("writing info cache: %w", err)
	}

	return nil
}
