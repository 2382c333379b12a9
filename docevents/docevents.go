// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package docevents keeps a [visibility.Store] in sync with the lifecycle
// of the host document: overrides are loaded when a document is opened,
// saved before it is written, cleared when it is closed, and follow the
// deletion, restoration and duplication of instances.
package docevents

import (
	"log/slog"

	"cogentcore.org/instvis/base/errors"
	"cogentcore.org/instvis/host"
	"cogentcore.org/instvis/persist"
	"cogentcore.org/instvis/visibility"
	"github.com/google/uuid"
)

// Handler is a [host.DocumentEvents] receiver for one store.
// All of its methods run on the mutation context.
type Handler struct {
	// Options are the persistence options.
	Options persist.Options

	// Redrawer, if set, is asked for a redraw when
	// a notification changes the store.
	Redrawer host.Redrawer

	store *visibility.Store
}

// New returns a new [Handler] for the given store.
func New(store *visibility.Store, opts persist.Options) *Handler {
	return &Handler{Options: opts, store: store}
}

func (h *Handler) redraw() {
	if h.Redrawer != nil {
		h.Redrawer.Redraw()
	}
}

// EndOpenDocument loads the persisted overrides of the document.
func (h *Handler) EndOpenDocument(doc host.Document) {
	n, err := persist.Load(h.store, doc, h.Options)
	if errors.Log(err) != nil {
		return
	}
	slog.Debug("docevents: loaded overrides", "instances", n)
	if n > 0 {
		h.redraw()
	}
}

// BeginSaveDocument writes the overrides into the document.
func (h *Handler) BeginSaveDocument(doc host.Document) {
	errors.Log(persist.Save(h.store, doc, h.Options))
}

// CloseDocument clears the store.
func (h *Handler) CloseDocument(doc host.Document) {
	h.store.Clear()
}

// DeleteObject drops the overrides of a deleted instance.
func (h *Handler) DeleteObject(doc host.Document, id uuid.UUID) {
	if h.store.ResetInstance(id) {
		h.redraw()
	}
}

// AddObject loads the overrides attached to an added object, as when
// the deletion of an instance is undone or an instance is pasted.
func (h *Handler) AddObject(doc host.Document, id uuid.UUID) {
	if persist.LoadObject(h.store, doc, id) {
		h.redraw()
	}
}

// DuplicateObject gives a duplicate the overrides of its source.
// Overrides set since the last save are not in the attachments
// yet, so they are copied from the store.
func (h *Handler) DuplicateObject(doc host.Document, src, dst uuid.UUID) {
	if h.store.Copy(src, dst) {
		h.redraw()
	}
}

var _ host.DocumentEvents = (*Handler)(nil)
