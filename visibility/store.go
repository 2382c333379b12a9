// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package visibility provides the thread-safe store of per-instance
// component visibility overrides, and the immutable [Snapshot] of it
// that the render context reads once per frame.
//
// All operations are safe against unknown instance ids and malformed
// paths: reads return [Visible] and writes are no-ops.
package visibility

import (
	"bytes"
	"slices"
	"sync"

	"cogentcore.org/instvis/base/dotpath"
	"github.com/google/uuid"
)

// instanceSet is the override set of one managed instance, plus the
// derived set of strict ancestors of its paths.
type instanceSet struct {
	states   Overrides
	prefixes map[string]struct{}
}

func newInstanceSet() *instanceSet {
	return &instanceSet{states: Overrides{}}
}

// update rebuilds the prefix set from the states.
func (is *instanceSet) update() {
	is.prefixes = is.states.prefixes()
}

// hasDescendant returns whether path itself or any path below it is stored.
func (is *instanceSet) hasDescendant(path string) bool {
	if _, ok := is.states[path]; ok {
		return true
	}
	_, ok := is.prefixes[path]
	return ok
}

// Store is the visibility override store: instance id to the override
// set of that instance. A single mutex guards it, held only for the
// duration of each operation; the render context copies it once per
// frame with [Store.TakeSnapshot].
type Store struct {
	mu        sync.Mutex
	instances map[uuid.UUID]*instanceSet

	// version is incremented by every mutation.
	version uint64

	// snapshot is the last snapshot taken, reused while version is unchanged.
	snapshot *Snapshot
}

// NewStore returns a new empty [Store].
func NewStore() *Store {
	return &Store{instances: map[uuid.UUID]*instanceSet{}}
}

// changed must be called with the lock held after every mutation.
func (s *Store) changed() {
	s.version++
}

// SetState sets the override state of the component at the given path of
// the given instance. Setting [Visible] removes the entry, and removes the
// instance once it has no entries left. Nil ids, malformed paths and
// invalid states are no-ops. It returns whether the store changed.
func (s *Store) SetState(id uuid.UUID, path string, st State) bool {
	if id == uuid.Nil || !st.IsValid() {
		return false
	}
	cp, ok := dotpath.Canonical(path)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	is := s.instances[id]
	if is == nil {
		if st == Visible {
			return false
		}
		is = newInstanceSet()
		s.instances[id] = is
	}
	if !is.states.Set(cp, st) {
		return false
	}
	if len(is.states) == 0 {
		delete(s.instances, id)
	} else {
		is.update()
	}
	s.changed()
	return true
}

// GetState returns the override state of the component at the given path
// of the given instance, which is [Visible] if there is none.
func (s *Store) GetState(id uuid.UUID, path string) State {
	cp, ok := dotpath.Canonical(path)
	if !ok {
		return Visible
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	is := s.instances[id]
	if is == nil {
		return Visible
	}
	return is.states.Get(cp)
}

// IsHidden returns whether the component is [Hidden].
func (s *Store) IsHidden(id uuid.UUID, path string) bool {
	return s.GetState(id, path) == Hidden
}

// IsSuppressed returns whether the component is [Suppressed].
func (s *Store) IsSuppressed(id uuid.UUID, path string) bool {
	return s.GetState(id, path) == Suppressed
}

// IsTransparent returns whether the component is [Transparent].
func (s *Store) IsTransparent(id uuid.UUID, path string) bool {
	return s.GetState(id, path) == Transparent
}

// HasHiddenDescendant returns whether any override is stored at the given
// path or below it, for the given instance. It is a constant time lookup
// in the prefix set of the instance.
func (s *Store) HasHiddenDescendant(id uuid.UUID, prefix string) bool {
	cp, ok := dotpath.Canonical(prefix)
	if !ok {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	is := s.instances[id]
	if is == nil {
		return false
	}
	return is.hasDescendant(cp)
}

// IsManaged returns whether the instance has any overrides.
func (s *Store) IsManaged(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.instances[id]
	return ok
}

// Count returns the number of overrides of the instance.
func (s *Store) Count(id uuid.UUID) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	is := s.instances[id]
	if is == nil {
		return 0
	}
	return len(is.states)
}

// Len returns the number of managed instances.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.instances)
}

// ResetInstance removes all overrides of the instance.
// It returns whether the instance was managed.
func (s *Store) ResetInstance(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.instances[id]; !ok {
		return false
	}
	delete(s.instances, id)
	s.changed()
	return true
}

// ResetPath removes the overrides of the instance at the given path and
// below it, returning the number removed.
func (s *Store) ResetPath(id uuid.UUID, prefix string) int {
	cp, ok := dotpath.Canonical(prefix)
	if !ok {
		return 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	is := s.instances[id]
	if is == nil || !is.hasDescendant(cp) {
		return 0
	}
	n := 0
	for p := range is.states {
		if dotpath.HasPrefix(p, cp) {
			delete(is.states, p)
			n++
		}
	}
	if len(is.states) == 0 {
		delete(s.instances, id)
	} else {
		is.update()
	}
	s.changed()
	return n
}

// Clear removes all overrides of all instances, as on document close.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.instances) == 0 {
		return
	}
	s.instances = map[uuid.UUID]*instanceSet{}
	s.changed()
}

// ManagedInstances returns the ids of all instances with overrides,
// in byte order.
func (s *Store) ManagedInstances() []uuid.UUID {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(s.instances))
	for id := range s.instances {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	sortIDs(ids)
	return ids
}

// Overrides returns a copy of the overrides of the instance,
// or nil if it is not managed.
func (s *Store) Overrides(id uuid.UUID) Overrides {
	s.mu.Lock()
	defer s.mu.Unlock()
	is := s.instances[id]
	if is == nil {
		return nil
	}
	return is.states.Clone()
}

// Replace replaces all overrides of the instance with the given ones,
// dropping invalid and [Visible] entries. An empty set resets the
// instance. This is used to merge persisted overrides back on load.
func (s *Store) Replace(id uuid.UUID, ov Overrides) {
	if id == uuid.Nil {
		return
	}
	clean := ov.sanitized()
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(clean) == 0 {
		if _, ok := s.instances[id]; ok {
			delete(s.instances, id)
			s.changed()
		}
		return
	}
	is := &instanceSet{states: clean}
	is.update()
	s.instances[id] = is
	s.changed()
}

// Copy copies the overrides of src onto dst, replacing those of dst,
// as when a managed instance is duplicated. It returns whether
// src was managed.
func (s *Store) Copy(src, dst uuid.UUID) bool {
	if dst == uuid.Nil || src == dst {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	is := s.instances[src]
	if is == nil {
		return false
	}
	ns := &instanceSet{states: is.states.Clone()}
	ns.update()
	s.instances[dst] = ns
	s.changed()
	return true
}

// TakeSnapshot returns an immutable deep copy of all overrides, taken
// under a single lock acquisition. If nothing changed since the last
// snapshot, that snapshot is returned again.
func (s *Store) TakeSnapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.snapshot != nil && s.snapshot.version == s.version {
		return s.snapshot
	}
	sn := &Snapshot{version: s.version, views: make(map[uuid.UUID]*View, len(s.instances))}
	for id, is := range s.instances {
		sn.views[id] = &View{states: is.states.Clone(), prefixes: clonePrefixes(is.prefixes)}
	}
	s.snapshot = sn
	return sn
}

func clonePrefixes(pre map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(pre))
	for p := range pre {
		out[p] = struct{}{}
	}
	return out
}

func sortIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})
}
