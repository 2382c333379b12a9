// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drawfilter

import (
	"log/slog"

	"cogentcore.org/instvis/base/errors"
	"cogentcore.org/instvis/host"
	"cogentcore.org/instvis/math32"
	"cogentcore.org/instvis/visibility"
	"github.com/google/uuid"
)

// BoundingBox returns the world space bounding box of the instance,
// as the union of the transformed bounds of its surviving components.
// [visibility.Hidden] and [visibility.Suppressed] components are
// excluded. The box is empty if nothing survives.
func (f *Filter) BoundingBox(inst host.Instance) (bb math32.Box3) {
	bb = math32.B3Empty()
	if inst == nil {
		return
	}
	var id uuid.UUID
	defer func() {
		if err := errors.Recovered(recover()); err != nil {
			f.stats.recovered.Add(1)
			slog.Error("drawfilter: BoundingBox failed, using host bounds", "instance", id, "err", err)
			bb = f.hostBBox(inst)
		}
	}()
	id = inst.ID()
	view, managed := f.storeSnapshot().View(id)
	if !managed {
		return inst.BBox()
	}
	w := &walker{f: f, id: id, view: view, excluded: drawExcluded}
	w.visit = func(c host.Component, xf *math32.Matrix4, path string, transparent bool) {
		bb.ExpandByBox(c.BBox().MulMatrix4(xf))
	}
	w.walk(inst.Components(), transformOf(inst), "", 0, false)
	return
}

// Parts returns the paths of the leaf components of the instance that
// count for structural queries such as parts lists, in traversal order.
// Only [visibility.Suppressed] components are excluded: Hidden affects
// drawing only. Components the template hides are not listed, and
// nested instances at the depth limit are listed as one part.
func (f *Filter) Parts(inst host.Instance) (parts []string) {
	if inst == nil {
		return nil
	}
	var id uuid.UUID
	defer func() {
		if err := errors.Recovered(recover()); err != nil {
			f.stats.recovered.Add(1)
			slog.Error("drawfilter: Parts failed", "instance", id, "err", err)
			parts = nil
		}
	}()
	id = inst.ID()
	view, _ := f.storeSnapshot().View(id)
	w := &walker{f: f, id: id, view: view, excluded: structuralExcluded, expandAll: true}
	w.visit = func(c host.Component, xf *math32.Matrix4, path string, transparent bool) {
		parts = append(parts, path)
	}
	w.walk(inst.Components(), transformOf(inst), "", 0, false)
	return parts
}

// hostBBox returns the host bounds of the instance,
// or an empty box if the host fails to give them.
func (f *Filter) hostBBox(inst host.Instance) (bb math32.Box3) {
	defer func() {
		if err := errors.Recovered(recover()); err != nil {
			f.stats.recovered.Add(1)
			slog.Error("drawfilter: host bounds failed, using an empty box", "err", err)
			bb = math32.B3Empty()
		}
	}()
	return inst.BBox()
}

// storeSnapshot returns a current snapshot of the store, for queries
// made outside of the frame.
func (f *Filter) storeSnapshot() *visibility.Snapshot {
	if f.store == nil {
		return nil
	}
	return f.store.TakeSnapshot()
}
