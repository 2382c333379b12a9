// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drawfilter

import (
	"log/slog"

	"cogentcore.org/instvis/base/dotpath"
	"cogentcore.org/instvis/host"
	"cogentcore.org/instvis/math32"
	"cogentcore.org/instvis/visibility"
	"github.com/google/uuid"
)

// visitFunc is called for every component surviving the skip rules that
// is not descended into: a leaf, or a nested instance taken whole.
// The transform maps from the parent template space of c to world space.
type visitFunc func(c host.Component, xf *math32.Matrix4, path string, transparent bool)

// walker is one depth first traversal of the components of a top level
// instance, applying the skip rules of its overrides.
type walker struct {
	f    *Filter
	id   uuid.UUID
	view *visibility.View

	// excluded returns whether a component in the given state is skipped.
	excluded func(st visibility.State) bool

	// expandAll descends into every nested instance, not only
	// those with overrides below them.
	expandAll bool

	visit visitFunc
}

// drawExcluded is the skip rule for drawing and bounding boxes.
func drawExcluded(st visibility.State) bool {
	return st.Excluded()
}

// structuralExcluded is the skip rule for structural queries.
func structuralExcluded(st visibility.State) bool {
	return st == visibility.Suppressed
}

// transformOf returns the transform of the component, identity if nil.
func transformOf(c host.Component) *math32.Matrix4 {
	if xf := c.Transform(); xf != nil {
		return xf
	}
	return math32.Identity4()
}

// walk visits the given components of one template level, under the given
// parent path, with xf mapping that template space to world space.
func (w *walker) walk(comps []host.Component, xf *math32.Matrix4, parent string, depth int, transparent bool) {
	for i, c := range comps {
		if c == nil || !c.IsVisible() {
			continue
		}
		path := dotpath.Child(parent, i)
		st := w.view.State(path)
		if w.excluded(st) {
			w.f.stats.skipped.Add(1)
			continue
		}
		tr := transparent || st == visibility.Transparent
		if !c.IsInstance() || !(w.expandAll || w.view.HasHiddenDescendant(path)) {
			w.visit(c, xf, path, tr)
			continue
		}
		if depth >= w.f.Options.MaxDepth {
			w.f.depthExceeded(w.id, path, depth)
			w.visit(c, xf, path, tr)
			continue
		}
		w.f.stats.recursions.Add(1)
		w.walk(c.Components(), xf.Mul(transformOf(c)), path, depth+1, tr)
	}
}

// depthExceeded records a nesting depth cap hit, logging once per frame.
func (f *Filter) depthExceeded(id uuid.UUID, path string, depth int) {
	f.stats.depthExceeded.Add(1)
	if f.depthWarned.CompareAndSwap(false, true) {
		slog.Warn("drawfilter: nesting depth limit reached, drawing the rest whole",
			"instance", id, "path", path, "depth", depth, "limit", f.Options.MaxDepth)
	}
}
