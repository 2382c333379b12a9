// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visibility

import "github.com/google/uuid"

// Snapshot is an immutable copy of a [Store], taken once per render pass
// and then read without any locking. A nil Snapshot is valid and empty.
//
// Lookups take paths as given: the render traversal builds canonical
// paths with dotpath.Child, so they are not canonicalized again.
type Snapshot struct {
	version uint64
	views   map[uuid.UUID]*View
}

// View returns the overrides of the given instance, and whether it is
// managed. This is the single hash lookup done for every drawn instance.
func (sn *Snapshot) View(id uuid.UUID) (*View, bool) {
	if sn == nil {
		return nil, false
	}
	v, ok := sn.views[id]
	return v, ok
}

// IsManaged returns whether the instance has any overrides.
func (sn *Snapshot) IsManaged(id uuid.UUID) bool {
	_, ok := sn.View(id)
	return ok
}

// State returns the override state of the given path of the instance.
func (sn *Snapshot) State(id uuid.UUID, path string) State {
	v, _ := sn.View(id)
	return v.State(path)
}

// HasHiddenDescendant returns whether any override is stored at the given
// path of the instance or below it.
func (sn *Snapshot) HasHiddenDescendant(id uuid.UUID, prefix string) bool {
	v, _ := sn.View(id)
	return v.HasHiddenDescendant(prefix)
}

// Len returns the number of managed instances.
func (sn *Snapshot) Len() int {
	if sn == nil {
		return 0
	}
	return len(sn.views)
}

// ManagedInstances returns the ids of all managed instances, in byte order.
func (sn *Snapshot) ManagedInstances() []uuid.UUID {
	if sn == nil {
		return nil
	}
	ids := make([]uuid.UUID, 0, len(sn.views))
	for id := range sn.views {
		ids = append(ids, id)
	}
	sortIDs(ids)
	return ids
}

// View is the read-only override set of one instance in a [Snapshot].
// A nil View has no overrides.
type View struct {
	states   Overrides
	prefixes map[string]struct{}
}

// State returns the override state of the given path.
func (v *View) State(path string) State {
	if v == nil {
		return Visible
	}
	return v.states.Get(path)
}

// HasHiddenDescendant returns whether any override is stored at the given
// path or below it.
func (v *View) HasHiddenDescendant(prefix string) bool {
	if v == nil {
		return false
	}
	if _, ok := v.states[prefix]; ok {
		return true
	}
	_, ok := v.prefixes[prefix]
	return ok
}

// Len returns the number of overrides.
func (v *View) Len() int {
	if v == nil {
		return 0
	}
	return len(v.states)
}

// Overrides returns a copy of the overrides.
func (v *View) Overrides() Overrides {
	if v == nil {
		return nil
	}
	return v.states.Clone()
}
