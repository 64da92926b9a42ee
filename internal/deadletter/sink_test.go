// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

package deadletter_test

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gwngames/persister/internal/deadletter"
)

/*
TestSink_RecordAndReload verifies keyed set-and-save semantics: entries
accumulate across writes and the last error wins per envelope id.
*/
func TestSink_RecordAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persister.errors.json")
	sink := deadletter.NewSink(path)

	require.NoError(t, sink.Record("1000400a1", "parser failure"))
	require.NoError(t, sink.Record("1010500b2", "db timeout"))
	require.NoError(t, sink.Record("1000400a1", "parser failure (second attempt)"))

	entries, err := sink.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, 2)
	assert.Equal(t, "parser failure (second attempt)", entries["1000400a1"])
	assert.Equal(t, "db timeout", entries["1010500b2"])

	// The on-disk document must be a plain JSON object keyed by envelope id.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	fromDisk := map[string]string{}
	require.NoError(t, json.Unmarshal(raw, &fromDisk))
	assert.Equal(t, entries, fromDisk)
}

/*
TestSink_MissingFile verifies that a sink over a non-existent file reads as
empty instead of failing.
*/
func TestSink_MissingFile(t *testing.T) {
	sink := deadletter.NewSink(filepath.Join(t.TempDir(), "never-written.json"))

	entries, err := sink.Entries()
	require.NoError(t, err)
	assert.Empty(t, entries)
}

/*
TestSink_ConcurrentWriters verifies that parallel Record calls serialise
without losing entries.
*/
func TestSink_ConcurrentWriters(t *testing.T) {
	sink := deadletter.NewSink(filepath.Join(t.TempDir(), "persister.errors.json"))

	const writers = 16
	var wg sync.WaitGroup
	wg.Add(writers)
	for i := 0; i < writers; i++ {
		go func(n int) {
			defer wg.Done()
			assert.NoError(t, sink.Record(fmt.Sprintf("msg-%d", n), "boom"))
		}(i)
	}
	wg.Wait()

	entries, err := sink.Entries()
	require.NoError(t, err)
	assert.Len(t, entries, writers)
}
