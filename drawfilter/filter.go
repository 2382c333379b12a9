// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package drawfilter implements the render time filtering of template
// instances with visibility overrides. The host calls [Filter.BeginFrame]
// at the start of every render pass, [Filter.DrawObject] from its per
// object draw hook, and [Filter.DrawForeground] from its post pass.
//
// An instance without overrides costs one hash lookup and is left to the
// host. A managed instance has its host drawing suppressed, and the filter
// draws its surviving components itself, descending into nested instances
// only when they have overrides below them.
//
// No render entry point returns an error or panics: failures are logged,
// counted, and leave the object to the host.
package drawfilter

import (
	"image/color"
	"log/slog"
	"sync/atomic"

	"cogentcore.org/instvis/base/errors"
	"cogentcore.org/instvis/host"
	"cogentcore.org/instvis/math32"
	"cogentcore.org/instvis/visibility"
	"github.com/google/uuid"
)

// Options are the options of a [Filter].
type Options struct {
	// MaxDepth is the maximum template nesting depth descended into.
	// Nested instances at the limit are drawn whole.
	MaxDepth int

	// GhostAlpha is the opacity of the overlay drawn over transparent components.
	GhostAlpha float32

	// HighlightColor is the colour of selection highlights.
	HighlightColor color.RGBA

	// Debug logs every managed instance drawn, at the debug level.
	// Use [Filter.SetDebug] to change it after creation.
	Debug bool
}

// DefaultOptions returns the default [Options].
func DefaultOptions() Options {
	return Options{
		MaxDepth:       32,
		GhostAlpha:     0.3,
		HighlightColor: color.RGBA{255, 215, 0, 255},
	}
}

// highlight is a pending highlight overlay for the post pass.
type highlight struct {
	c  host.Component
	xf math32.Matrix4
}

// Filter is the render time draw filter of one [visibility.Store].
// Frame methods must be called from the render context; BoundingBox
// and Parts may be called from any goroutine.
type Filter struct {
	Options Options

	store *visibility.Store

	// snapshot is the snapshot of the store for the current frame.
	snapshot *visibility.Snapshot

	// highlights are pending for [Filter.DrawForeground].
	highlights []highlight

	// depthWarned is whether the depth cap was logged in this frame.
	depthWarned atomic.Bool

	// debug is [Options.Debug], settable while rendering.
	debug atomic.Bool

	stats stats
}

// New returns a new [Filter] reading from the given store.
func New(store *visibility.Store, opts Options) *Filter {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultOptions().MaxDepth
	}
	f := &Filter{Options: opts, store: store}
	f.debug.Store(opts.Debug)
	return f
}

// SetDebug sets whether every managed instance drawn is logged.
// It is safe to call while rendering.
func (f *Filter) SetDebug(on bool) {
	f.debug.Store(on)
}

// Counts returns the current instrumentation counters.
func (f *Filter) Counts() Counts {
	return f.stats.counts()
}

// ResetCounts resets all instrumentation counters to zero.
func (f *Filter) ResetCounts() {
	f.stats.reset()
}

// Snapshot returns the snapshot of the current frame.
func (f *Filter) Snapshot() *visibility.Snapshot {
	return f.snapshot
}

// BeginFrame takes the one snapshot of the store used for the whole
// frame, and drops any highlights left from the previous frame.
func (f *Filter) BeginFrame() {
	defer f.recover("BeginFrame")
	f.stats.frames.Add(1)
	f.depthWarned.Store(false)
	f.highlights = f.highlights[:0]
	if f.store == nil {
		f.snapshot = nil
		return
	}
	f.snapshot = f.store.TakeSnapshot()
}

// DrawObject is the per object draw hook. Objects other than managed
// template instances are left to the host. For a managed instance it sets
// [host.DrawEvent.SuppressDraw] and draws the surviving components, and
// if the instance is selected queues highlights for the post pass.
func (f *Filter) DrawObject(ev *host.DrawEvent) {
	if ev == nil || ev.Object == nil {
		return
	}
	nhl := len(f.highlights)
	var id uuid.UUID
	defer func() {
		if err := errors.Recovered(recover()); err != nil {
			f.stats.recovered.Add(1)
			slog.Error("drawfilter: DrawObject failed, leaving object to the host", "instance", id, "err", err)
			ev.SuppressDraw = false
			f.highlights = f.highlights[:nhl]
		}
	}()
	inst, ok := ev.Object.(host.Instance)
	if !ok || !inst.IsInstance() || ev.Pipeline == nil {
		return
	}
	id = inst.ID()
	f.stats.lookups.Add(1)
	view, managed := f.snapshot.View(id)
	if !managed {
		f.stats.passThrough.Add(1)
		return
	}
	f.stats.managed.Add(1)
	ev.SuppressDraw = true
	if f.debug.Load() {
		slog.Debug("drawfilter: drawing managed instance", "instance", id, "overrides", view.Len(), "selected", ev.Selected)
	}

	p := ev.Pipeline
	w := &walker{f: f, id: id, view: view, excluded: drawExcluded}
	w.visit = func(c host.Component, xf *math32.Matrix4, path string, transparent bool) {
		f.stats.drawn.Add(1)
		p.DrawComponent(c, xf)
		if transparent {
			f.stats.ghosts.Add(1)
			p.DrawOverlay(c, xf, host.Overlay{Kind: host.Ghost, Alpha: f.Options.GhostAlpha})
		}
	}
	xf := transformOf(inst)
	comps := inst.Components()
	w.walk(comps, xf, "", 0, false)

	if !ev.Selected {
		return
	}
	w.visit = func(c host.Component, xf *math32.Matrix4, path string, transparent bool) {
		f.highlights = append(f.highlights, highlight{c: c, xf: *xf})
	}
	w.walk(comps, xf, "", 0, false)
}

// DrawForeground is the post pass hook: it draws the highlight overlays
// queued by [Filter.DrawObject] for selected managed instances in this
// frame, after all depth tested drawing.
func (f *Filter) DrawForeground(p host.Pipeline) {
	defer f.recover("DrawForeground")
	hls := f.highlights
	f.highlights = f.highlights[:0]
	if p == nil {
		return
	}
	ov := host.Overlay{Kind: host.Highlight, Color: f.Options.HighlightColor, Alpha: 1}
	for i := range hls {
		f.stats.highlights.Add(1)
		p.DrawOverlay(hls[i].c, &hls[i].xf, ov)
	}
}

// PendingHighlights returns the number of highlights queued for the post pass.
func (f *Filter) PendingHighlights() int {
	return len(f.highlights)
}

// recover recovers and logs a panic in the named entry point.
func (f *Filter) recover(name string) {
	if err := errors.Recovered(recover()); err != nil {
		f.stats.recovered.Add(1)
		slog.Error("drawfilter: "+name+" failed", "err", err)
	}
}
