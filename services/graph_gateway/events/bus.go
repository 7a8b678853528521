// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package events provides the in-process change feed for the graph gateway.
//
// Every successful mutation (write, status update, delete) publishes a
// ChangeEvent; websocket sessions subscribe and stream events to connected
// UIs. Publishing never blocks: a subscriber whose buffer is full simply
// misses the event, and a UI that cares can refetch the graph.
package events

import (
	"sync"
	"time"
)

// EventKind identifies what mutated.
type EventKind string

const (
	KindWrite        EventKind = "write"
	KindStatusUpdate EventKind = "status_update"
	KindDeleteNode   EventKind = "delete_node"
	KindDeleteEdge   EventKind = "delete_edge"
)

// ChangeEvent describes one successful mutation.
type ChangeEvent struct {
	Kind      EventKind `json:"kind"`
	NodeIDs   []string  `json:"nodeIds,omitempty"`
	EdgeIDs   []string  `json:"edgeIds,omitempty"`
	Source    string    `json:"source,omitempty"` // which store served the mutation
	Timestamp int64     `json:"timestamp"`
}

// NewChangeEvent stamps an event with the current time.
func NewChangeEvent(kind EventKind, nodeIDs, edgeIDs []string, source string) ChangeEvent {
	return ChangeEvent{
		Kind:      kind,
		NodeIDs:   nodeIDs,
		EdgeIDs:   edgeIDs,
		Source:    source,
		Timestamp: time.Now().UnixMilli(),
	}
}

// subscriberBuffer is the per-subscriber channel depth. A UI that falls
// more than this far behind starts missing events.
const subscriberBuffer = 16

// Bus is a minimal fan-out broadcaster. Safe for concurrent use.
type Bus struct {
	mu   sync.Mutex
	subs map[chan ChangeEvent]struct{}
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[chan ChangeEvent]struct{})}
}

// Subscribe registers a new subscriber and returns its event channel plus
// an unsubscribe function. The unsubscribe function is idempotent and
// closes the channel.
func (b *Bus) Subscribe() (<-chan ChangeEvent, func()) {
	ch := make(chan ChangeEvent, subscriberBuffer)

	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, ch)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber that has buffer room.
// Slow subscribers are skipped, never waited on.
func (b *Bus) Publish(event ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// SubscriberCount reports the number of live subscribers.
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}
