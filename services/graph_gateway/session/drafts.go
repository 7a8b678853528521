// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package session persists overlay editing drafts in BadgerDB.
//
// A draft is the serialized overlay state of one editing session (base
// snapshot plus pending deltas). Saving a draft lets a UI resume an
// interrupted session after a crash or restart without losing unsaved
// edits. Drafts are process-local and single-writer per session id.
//
// License: BadgerDB is Apache 2.0 licensed (github.com/dgraph-io/badger).
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"

	"github.com/AleutianAI/AleutianGraph/pkg/graphedit"
)

// ErrDraftNotFound is returned by Load when no draft exists for the
// session id.
var ErrDraftNotFound = errors.New("draft not found")

// draftKeyPrefix namespaces draft keys within the database.
const draftKeyPrefix = "draft/"

// Config holds configuration for the draft store.
type Config struct {
	// Path is the directory for BadgerDB files.
	// Ignored when InMemory is true.
	Path string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool
}

// DefaultConfig returns production defaults: durable, synchronous writes.
func DefaultConfig(path string) Config {
	return Config{Path: path, SyncWrites: true}
}

// InMemoryConfig returns a configuration for tests: no disk I/O.
func InMemoryConfig() Config {
	return Config{InMemory: true}
}

// DraftStore is a BadgerDB-backed store of overlay drafts keyed by
// session id. Safe for concurrent use.
type DraftStore struct {
	db *badger.DB
}

// Open creates the draft store, creating the directory if needed.
// Caller must call Close when done.
func Open(cfg Config) (*DraftStore, error) {
	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if cfg.Path == "" {
			return nil, errors.New("path is required for persistent draft store")
		}
		if err := os.MkdirAll(cfg.Path, 0750); err != nil {
			return nil, fmt.Errorf("create draft directory %s: %w", cfg.Path, err)
		}
		opts = badger.DefaultOptions(cfg.Path)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithLogger(nil) // Badger's internal logging is noise here

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open draft store: %w", err)
	}
	return &DraftStore{db: db}, nil
}

// Close releases the underlying database.
func (s *DraftStore) Close() error {
	return s.db.Close()
}

// Save stores the snapshot under the session id, replacing any previous
// draft.
func (s *DraftStore) Save(sessionID string, snap graphedit.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode draft %s: %w", sessionID, err)
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(draftKey(sessionID), data)
	})
}

// Load retrieves the draft for the session id. Returns ErrDraftNotFound
// when no draft exists.
func (s *DraftStore) Load(sessionID string) (graphedit.Snapshot, error) {
	var snap graphedit.Snapshot
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(draftKey(sessionID))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrDraftNotFound
			}
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &snap)
		})
	})
	if err != nil {
		return graphedit.Snapshot{}, err
	}
	return snap, nil
}

// Delete removes the draft. Reports whether a draft existed.
func (s *DraftStore) Delete(sessionID string) (bool, error) {
	existed := false
	err := s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(draftKey(sessionID)); err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return nil
			}
			return err
		}
		existed = true
		return txn.Delete(draftKey(sessionID))
	})
	return existed, err
}

func draftKey(sessionID string) []byte {
	return []byte(draftKeyPrefix + sessionID)
}
