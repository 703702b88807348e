// Copyright 2024 The CellBench Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package benchcache

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCacheHit(t *testing.T) {
	c, err := New(filepath.Join(t.TempDir(), ".CellBench"))
	require.NoError(t, err)

	calls := 0
	double := c.Method(func(v interface{}) (interface{}, error) {
		calls++
		return v.(int) * 2, nil
	})

	got, err := double(21)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, calls)

	// Second call with the same argument must not re-invoke.
	got, err = double(21)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
	assert.Equal(t, 1, calls)

	// A different argument recomputes under its own key.
	got, err = double(5)
	require.NoError(t, err)
	assert.Equal(t, 10, got)
	assert.Equal(t, 2, calls)
}

func TestCachePersistsAcrossCaches(t *testing.T) {
	root := filepath.Join(t.TempDir(), "cache")
	c1, err := New(root)
	require.NoError(t, err)

	calls := 0
	fn := func(v interface{}) (interface{}, error) {
		calls++
		return strings.ToUpper(v.(string)), nil
	}

	got, err := c1.Method(fn)("abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", got)

	// A fresh Cache over the same root sees the entry. The wrapped
	// function shares fn's runtime name, so the key matches.
	c2, err := New(root)
	require.NoError(t, err)
	got, err = c2.Method(fn)("abc")
	require.NoError(t, err)
	assert.Equal(t, "ABC", got)
	assert.Equal(t, 1, calls)
}

func TestCacheClear(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	calls := 0
	fn := c.Method(func(v interface{}) (interface{}, error) {
		calls++
		return v, nil
	})

	_, err = fn("x")
	require.NoError(t, err)
	require.NoError(t, c.Clear())

	entries, err := os.ReadDir(c.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = fn("x")
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestCacheClearMissingRoot(t *testing.T) {
	root := filepath.Join(t.TempDir(), "gone")
	c, err := New(root)
	require.NoError(t, err)
	require.NoError(t, os.RemoveAll(root))
	assert.NoError(t, c.Clear())
}

func TestCacheErrorNotCached(t *testing.T) {
	c, err := New(t.TempDir())
	require.NoError(t, err)

	calls := 0
	fn := c.Method(func(v interface{}) (interface{}, error) {
		calls++
		return nil, assert.AnError
	})

	_, err = fn(1)
	assert.Error(t, err)
	_, err = fn(1)
	assert.Error(t, err)
	assert.Equal(t, 2, calls, "failed calls must not be cached")
}

func TestCacheEmptyRoot(t *testing.T) {
	_, err := New("")
	assert.Error(t, err)
}
