// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package benchcache memoises method results on disk.
//
// A Cache wraps unary methods so that a call whose argument was seen
// before (by serialized equality, not identity) is answered from a
// persisted file instead of recomputing. Entries are keyed by a hash
// of the method's runtime name and the gob serialization of its
// argument, one file per entry under the cache root.
//
// Two hazards are inherent to this contract and deliberately not
// guarded against. The key does not cover the function body, so
// editing a method's logic without calling Clear serves stale
// results. And a non-deterministic method becomes deterministic once
// cached: every later call replays the first recorded result.
//
// Arguments and results are serialized with encoding/gob. Values of
// user-defined types must be registered with gob.Register before use.
package benchcache

import (
	"encoding/gob"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/bioc/CellBench/benchtab"
)

const entrySuffix = ".gob"

// A Cache persists method results under a root directory. The root is
// explicit per Cache; there is no process-wide cache state. A Cache
// is safe for concurrent use, and entry writes are atomic (written to
// a temporary file and renamed into place), so concurrent writers of
// the same key cannot interleave; the last one wins.
type Cache struct {
	root string
	log  *zap.Logger
}

// An Option configures a Cache.
type Option func(*Cache)

// Logger sets a logger for hit/miss debug output. The default
// discards everything.
func Logger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a Cache rooted at dir, creating the directory if
// needed.
func New(dir string, opts ...Option) (*Cache, error) {
	if dir == "" {
		return nil, fmt.Errorf("empty cache root")
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return nil, fmt.Errorf("creating cache root: %w", err)
	}
	c := &Cache{root: dir, log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Root returns the cache's root directory.
func (c *Cache) Root() string {
	return c.root
}

// Method wraps fn so repeated calls with a previously seen argument
// return the persisted result without invoking fn. Serialization and
// I/O failures propagate to the caller; there is no silent fallback
// to recomputation.
func (c *Cache) Method(fn benchtab.Method) benchtab.Method {
	name := funcName(fn)
	return func(v interface{}) (interface{}, error) {
		key, err := entryKey(name, v)
		if err != nil {
			return nil, fmt.Errorf("keying cache entry for %s: %w", name, err)
		}
		path := filepath.Join(c.root, key+entrySuffix)

		res, ok, err := readEntry(path)
		if err != nil {
			return nil, err
		}
		if ok {
			c.log.Debug("cache hit", zap.String("func", name), zap.String("key", key))
			return res, nil
		}

		c.log.Debug("cache miss", zap.String("func", name), zap.String("key", key))
		res, err = fn(v)
		if err != nil {
			return nil, err
		}
		if err := writeEntry(c.root, path, res); err != nil {
			return nil, err
		}
		return res, nil
	}
}

// Clear removes every entry under the cache root. A missing root is a
// no-op.
func (c *Cache) Clear() error {
	entries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("clearing cache: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), entrySuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(c.root, e.Name())); err != nil {
			return fmt.Errorf("clearing cache: %w", err)
		}
	}
	return nil
}

// funcName returns fn's runtime name. Wrappers produced by the same
// source location share a name, which is exactly the stale-entry
// hazard documented above.
func funcName(fn benchtab.Method) string {
	pc := reflect.ValueOf(fn).Pointer()
	if f := runtime.FuncForPC(pc); f != nil {
		return f.Name()
	}
	return fmt.Sprintf("func@%#x", pc)
}

// entryKey hashes the function name and the serialized argument.
func entryKey(name string, v interface{}) (string, error) {
	h := xxhash.New()
	h.WriteString(name)
	h.Write([]byte{0})
	if v == nil {
		h.WriteString("<nil>")
	} else if err := gob.NewEncoder(h).Encode(v); err != nil {
		return "", err
	}
	return strconv.FormatUint(h.Sum64(), 16), nil
}

type entry struct {
	Value interface{}
}

func readEntry(path string) (interface{}, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("reading cache entry: %w", err)
	}
	defer f.Close()
	var e entry
	if err := gob.NewDecoder(f).Decode(&e); err != nil {
		return nil, false, fmt.Errorf("decoding cache entry %s: %w", filepath.Base(path), err)
	}
	return e.Value, true, nil
}

func writeEntry(root, path string, res interface{}) error {
	tmp, err := os.CreateTemp(root, "tmp-*")
	if err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	defer func() {
		if tmp != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()
	if err := gob.NewEncoder(tmp).Encode(&entry{Value: res}); err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing cache entry: %w", err)
	}
	tmp = nil
	return nil
}
