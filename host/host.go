// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package host defines the narrow set of capabilities that the visibility
// engine consumes from a host modeling application: the per-object draw
// hook and its drawing primitives, access to template components, per-object
// and per-document persistence, and redraw requests.
package host

import (
	"image/color"

	"cogentcore.org/instvis/math32"
	"github.com/google/uuid"
)

// Object is any drawable host object with a stable identity.
type Object interface {
	// ID returns the identity of the object within its document.
	ID() uuid.UUID
}

// Component is one entry of the ordered component list of a template:
// either a leaf drawable or a nested template instance.
type Component interface {
	// IsInstance returns whether the component is a nested template instance.
	IsInstance() bool

	// IsVisible returns whether the template itself shows the component.
	// Overrides never make a component visible that the template hides.
	IsVisible() bool

	// Transform returns the local transform of a nested instance
	// relative to its parent template; nil means identity.
	Transform() *math32.Matrix4

	// Components returns the ordered components of a nested instance.
	Components() []Component

	// BBox returns the axis aligned bounds of the component in the space
	// of its parent template, with its own Transform applied.
	BBox() math32.Box3
}

// Instance is a placed top level instance of a template. Its Transform
// places it in world space, and its BBox is in world space.
type Instance interface {
	Object
	Component
}

// OverlayKinds are the kinds of overlay drawn by [Pipeline.DrawOverlay].
type OverlayKinds int32

const (
	// Ghost is an alpha blended copy drawn over the normal drawing.
	Ghost OverlayKinds = iota

	// Highlight is a selection highlight or wireframe.
	Highlight
)

// Overlay describes an overlay drawn by [Pipeline.DrawOverlay].
type Overlay struct {
	Kind OverlayKinds

	// Color is the colour of the overlay; the zero value
	// means the own colour of the component.
	Color color.RGBA

	// Alpha is the opacity of the overlay, from 0 to 1.
	Alpha float32
}

// Pipeline is the set of drawing primitives of the host display pipeline.
type Pipeline interface {
	// DrawComponent draws the component with the given transform from its
	// parent template space to world space. A nested instance is drawn
	// whole, with its own Transform applied by the host.
	DrawComponent(c Component, xf *math32.Matrix4)

	// DrawOverlay draws an overlay of the component, with the same
	// transform convention as DrawComponent.
	DrawOverlay(c Component, xf *math32.Matrix4, ov Overlay)
}

// DrawEvent is passed to the draw hook once per drawable object per frame.
type DrawEvent struct {
	// Object is the object about to be drawn.
	Object Object

	// Selected is whether the object is currently selected.
	Selected bool

	// Pipeline draws into the current frame.
	Pipeline Pipeline

	// SuppressDraw is set by the hook to skip the host's own drawing
	// of the object.
	SuppressDraw bool
}

// Document gives access to the objects of a host document.
type Document interface {
	// Objects returns all top level objects of the document.
	Objects() []Object

	// Object returns the object with the given id, if any.
	Object(id uuid.UUID) (Object, bool)
}

// Attachments is implemented by documents that can attach an opaque blob
// to an object, surviving save, load and duplication of the object.
type Attachments interface {
	Attachment(id uuid.UUID) ([]byte, bool)

	// SetAttachment attaches data to the object, returning false
	// if the object does not exist or cannot hold attachments.
	SetAttachment(id uuid.UUID, data []byte) bool

	RemoveAttachment(id uuid.UUID)
}

// KeyValueStore is implemented by documents that can store document
// level strings, surviving save and load.
type KeyValueStore interface {
	DocumentString(key string) (string, bool)
	SetDocumentString(key, value string)
	RemoveDocumentString(key string)
}

// Redrawer requests a redraw of the host views. Requests are
// fire and forget.
type Redrawer interface {
	Redraw()
}

// RedrawFunc is a function that implements [Redrawer].
type RedrawFunc func()

func (f RedrawFunc) Redraw() {
	if f != nil {
		f()
	}
}

// DocumentEvents receives document lifecycle and object notifications
// from the host, all on the mutation context.
type DocumentEvents interface {
	// EndOpenDocument is called after a document has been loaded.
	EndOpenDocument(doc Document)

	// BeginSaveDocument is called before a document is written.
	BeginSaveDocument(doc Document)

	// CloseDocument is called when a document is closed.
	CloseDocument(doc Document)

	// DeleteObject is called when an object is deleted.
	DeleteObject(doc Document, id uuid.UUID)

	// AddObject is called when an object is added, including when it is
	// restored by undo or pasted, with its attachments.
	AddObject(doc Document, id uuid.UUID)

	// DuplicateObject is called when dst has been created as a copy of src.
	DuplicateObject(doc Document, src, dst uuid.UUID)
}
