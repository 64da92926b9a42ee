// Copyright (c) 2026 GwnGames. All rights reserved.
// Author: dev@gwngames.com

/*
Package deadletter persists envelopes that exhausted their retry budget.

The sink is a single JSON object file mapping envelope id to the last error
string. Each write is load-update-save with an atomic file replacement, so a
crash mid-write never leaves a truncated file behind. A mutex serialises
concurrent writers; sink failures are logged and swallowed because losing a
diagnostics entry must never block ingestion.
*/
package deadletter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

// Sink appends failed envelope ids to a persistent JSON file.
type Sink struct {
	path string
	mu   sync.Mutex
}

// NewSink creates a sink writing to the given file path. The file is created
// lazily on the first recorded failure.
func NewSink(path string) *Sink {
	return &Sink{path: path}
}

// Path returns the sink's file path.
func (sink *Sink) Path() string {
	return sink.path
}

// Record stores the error text for the given envelope id, overwriting any
// previous entry for the same id.
func (sink *Sink) Record(envelopeID string, errorText string) error {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	entries, err := sink.load()
	if err != nil {
		return err
	}

	entries[envelopeID] = errorText
	return sink.save(entries)
}

// Entries returns a copy of the current envelope id -> error map.
func (sink *Sink) Entries() (map[string]string, error) {
	sink.mu.Lock()
	defer sink.mu.Unlock()

	return sink.load()
}

// load reads the whole map from disk. A missing file yields an empty map.
func (sink *Sink) load() (map[string]string, error) {
	raw, err := os.ReadFile(sink.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("deadletter: read %s: %w", sink.path, err)
	}

	entries := map[string]string{}
	if len(raw) == 0 {
		return entries, nil
	}
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("deadletter: parse %s: %w", sink.path, err)
	}

	return entries, nil
}

// save rewrites the whole map via a temp file + rename so readers never see
// a partial document.
func (sink *Sink) save(entries map[string]string) error {
	raw, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("deadletter: encode: %w", err)
	}

	tempPath := sink.path + ".tmp"
	if err := os.WriteFile(tempPath, raw, 0o644); err != nil {
		return fmt.Errorf("deadletter: write %s: %w", tempPath, err)
	}

	if err := os.Rename(tempPath, sink.path); err != nil {
		return fmt.Errorf("deadletter: replace %s: %w", sink.path, err)
	}

	return nil
}
