// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine is the client facing API of the per instance visibility
// engine. An [Engine] owns one override store together with the draw
// filter and the document event handler reading from it, and asks the
// host for a redraw whenever an override changes.
//
// All methods take an instance id and a dot separated component path
// such as "1.0.2", are synchronous, and accept unknown ids and malformed
// paths: mutations are then no-ops and queries return the default
// [visibility.Visible].
package engine

import (
	"cogentcore.org/instvis/base/errors"
	"cogentcore.org/instvis/docevents"
	"cogentcore.org/instvis/drawfilter"
	"cogentcore.org/instvis/host"
	"cogentcore.org/instvis/persist"
	"cogentcore.org/instvis/visibility"
	"github.com/google/uuid"
)

// APIVersion is the version of the engine API, for host adapters
// to check their compatibility.
const APIVersion = 2

// Engine is the per instance visibility engine of one document session.
type Engine struct {
	config   Config
	store    *visibility.Store
	filter   *drawfilter.Filter
	events   *docevents.Handler
	redrawer host.Redrawer
}

// New returns a new [Engine] with the given config, which is
// validated first with any problem logged, and the given redrawer, which may be nil.
func New(cfg Config, r host.Redrawer) *Engine {
	errors.Log(cfg.Validate())
	e := &Engine{config: cfg, store: visibility.NewStore(), redrawer: r}
	e.filter = drawfilter.New(e.store, cfg.FilterOptions())
	e.events = docevents.New(e.store, cfg.PersistOptions())
	e.events.Redrawer = r
	return e
}

// Config returns the validated config of the engine.
func (e *Engine) Config() Config {
	return e.config
}

// Store returns the override store of the engine.
func (e *Engine) Store() *visibility.Store {
	return e.store
}

// Filter returns the draw filter to install in the host display pipeline.
func (e *Engine) Filter() *drawfilter.Filter {
	return e.filter
}

// Events returns the document event handler to register with the host.
func (e *Engine) Events() *docevents.Handler {
	return e.events
}

func (e *Engine) redraw(changed bool) bool {
	if changed && e.redrawer != nil {
		e.redrawer.Redraw()
	}
	return changed
}

// SetState sets the override state of the component at the given path
// of the instance, requesting a redraw if it changed. Setting
// [visibility.Visible] removes the override.
func (e *Engine) SetState(id uuid.UUID, path string, st visibility.State) bool {
	return e.redraw(e.store.SetState(id, path, st))
}

// GetState returns the override state of the component at the given path.
func (e *Engine) GetState(id uuid.UUID, path string) visibility.State {
	return e.store.GetState(id, path)
}

func (e *Engine) IsHidden(id uuid.UUID, path string) bool {
	return e.store.IsHidden(id, path)
}

func (e *Engine) IsSuppressed(id uuid.UUID, path string) bool {
	return e.store.IsSuppressed(id, path)
}

func (e *Engine) IsTransparent(id uuid.UUID, path string) bool {
	return e.store.IsTransparent(id, path)
}

// HasHiddenDescendant returns whether any override is stored at
// the given path of the instance or below it.
func (e *Engine) HasHiddenDescendant(id uuid.UUID, path string) bool {
	return e.store.HasHiddenDescendant(id, path)
}

// IsManaged returns whether the instance has any override.
func (e *Engine) IsManaged(id uuid.UUID) bool {
	return e.store.IsManaged(id)
}

// HiddenCount returns the number of overrides of the instance.
func (e *Engine) HiddenCount(id uuid.UUID) int {
	return e.store.Count(id)
}

// ResetInstance removes all overrides of the instance.
func (e *Engine) ResetInstance(id uuid.UUID) bool {
	return e.redraw(e.store.ResetInstance(id))
}

// ResetPath removes the overrides at the given path of the instance
// and below it, showing the component with all of its children.
// It returns the number of overrides removed.
func (e *Engine) ResetPath(id uuid.UUID, path string) int {
	n := e.store.ResetPath(id, path)
	e.redraw(n > 0)
	return n
}

// ManagedInstances returns the ids of all instances with overrides.
func (e *Engine) ManagedInstances() []uuid.UUID {
	return e.store.ManagedInstances()
}

// Clear removes all overrides of all instances.
func (e *Engine) Clear() {
	n := e.store.Len()
	e.store.Clear()
	e.redraw(n > 0)
}

// SetDebugLogging sets whether every managed instance drawn is logged.
func (e *Engine) SetDebugLogging(on bool) {
	e.config.DebugLogging = on
	e.filter.SetDebug(on)
}

// Counts returns the instrumentation counters of the draw filter.
func (e *Engine) Counts() drawfilter.Counts {
	return e.filter.Counts()
}

// Save writes the overrides into the given document.
func (e *Engine) Save(doc host.Document) error {
	return persist.Save(e.store, doc, e.config.PersistOptions())
}

// Load merges the overrides persisted in the given document,
// returning the number of instances loaded.
func (e *Engine) Load(doc host.Document) (int, error) {
	n, err := persist.Load(e.store, doc, e.config.PersistOptions())
	e.redraw(n > 0)
	return n, err
}
