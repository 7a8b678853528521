// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package graphedit implements the overlay-based mutation tracker for a
// property graph.
//
// A Tracker holds an immutable base snapshot (the last graph state fetched
// from a backing store) plus four deltas: created items, modified items
// (partial patches keyed by id), and tombstone id sets for deleted nodes
// and edges. MergedView reconciles all of it into one consistent
// projection.
//
// # Lifecycle
//
// A typical editing session:
//  1. Create with NewTracker(base) after a fetch
//  2. Mutate with AddNode/UpdateNode/DeleteNode and the edge equivalents
//  3. Read PendingCommit() and persist it through the gateway
//  4. On acknowledged save, Promote() the committed ids into the base
//  5. ResetTo(view) after any fresh fetch, discarding all overlay state
//
// # Thread Safety
//
// Tracker is NOT safe for concurrent use. It models a single editing
// session with one writer; callers needing sharing must synchronize
// externally.
package graphedit

import "errors"

// Sentinel errors for overlay operations.
var (
	// ErrEmptyID is returned when an item is added without an id.
	// Ids are caller-supplied and required.
	ErrEmptyID = errors.New("item id must not be empty")

	// ErrDuplicateID is returned when an added item's id collides with an
	// id already present in the base snapshot or in the created set.
	ErrDuplicateID = errors.New("duplicate item id")

	// ErrNotFound is returned when updating an id that exists neither in
	// the base snapshot nor in the created set.
	ErrNotFound = errors.New("item not found")

	// ErrEndpointMissing is returned when an added edge references a node
	// id absent from the merged view.
	ErrEndpointMissing = errors.New("edge endpoint not in merged view")
)
