// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memhost

import (
	"fmt"
	"maps"
	"slices"

	"cogentcore.org/instvis/base/errors"
	"cogentcore.org/instvis/host"
	"cogentcore.org/instvis/math32"
	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

// AttachmentKey is the [Attributes.UserData] key of the
// visibility attachment.
const AttachmentKey = "instvis.visibility"

// Document is an in-memory host document. It implements [host.Document],
// [host.Attachments] and [host.KeyValueStore], and sends lifecycle
// notifications to its watchers. It is not safe for concurrent use; like
// a host document it belongs to the mutation context.
type Document struct {
	// NoAttachments disables the per-object attachment channel, as for
	// hosts that only have document strings.
	NoAttachments bool

	objects  []*Object
	byID     map[uuid.UUID]*Object
	strings  map[string]string
	watchers []host.DocumentEvents
}

// NewDocument returns a new empty document.
func NewDocument() *Document {
	return &Document{byID: map[uuid.UUID]*Object{}, strings: map[string]string{}}
}

// Watch adds a receiver of the notifications of the document.
func (d *Document) Watch(ev host.DocumentEvents) {
	d.watchers = append(d.watchers, ev)
}

// Add adds a top level object to the document.
func (d *Document) Add(o *Object) *Object {
	if o.UUID == uuid.Nil {
		o.UUID = uuid.New()
	}
	d.objects = append(d.objects, o)
	d.byID[o.UUID] = o
	for _, w := range d.watchers {
		w.AddObject(d, o.UUID)
	}
	return o
}

// Delete deletes the top level object with the given id, returning it.
func (d *Document) Delete(id uuid.UUID) (*Object, bool) {
	o, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	delete(d.byID, id)
	d.objects = slices.DeleteFunc(d.objects, func(x *Object) bool { return x == o })
	for _, w := range d.watchers {
		w.DeleteObject(d, id)
	}
	return o, true
}

// Duplicate adds a deep copy of the top level object with the given id,
// with a new id, sharing its definition. Attachments are copied too.
func (d *Document) Duplicate(id uuid.UUID) (*Object, error) {
	src, ok := d.byID[id]
	if !ok {
		return nil, fmt.Errorf("memhost: no object %s", id)
	}
	dst := &Object{}
	if err := copier.CopyWithOption(dst, src, copier.Option{CaseSensitive: true, DeepCopy: true}); err != nil {
		return nil, fmt.Errorf("memhost: duplicate %s: %w", id, err)
	}
	dst.UUID = uuid.New()
	dst.Def = src.Def
	d.objects = append(d.objects, dst)
	d.byID[dst.UUID] = dst
	for _, w := range d.watchers {
		w.DuplicateObject(d, src.UUID, dst.UUID)
	}
	return dst, nil
}

// Open notifies the watchers that the document has been loaded.
func (d *Document) Open() {
	for _, w := range d.watchers {
		w.EndOpenDocument(d)
	}
}

// Save notifies the watchers that the document is about to be written.
func (d *Document) Save() {
	for _, w := range d.watchers {
		w.BeginSaveDocument(d)
	}
}

// Close notifies the watchers that the document is closed.
func (d *Document) Close() {
	for _, w := range d.watchers {
		w.CloseDocument(d)
	}
}

// Reopen returns a new document holding the same objects, attachments
// and document strings, as when the document is saved and then loaded.
// Watchers are not carried over.
func (d *Document) Reopen() *Document {
	nd := NewDocument()
	nd.NoAttachments = d.NoAttachments
	for _, o := range d.objects {
		no := &Object{}
		errors.Log(copier.CopyWithOption(no, o, copier.Option{CaseSensitive: true, DeepCopy: true}))
		no.Def = o.Def
		nd.objects = append(nd.objects, no)
		nd.byID[no.UUID] = no
	}
	nd.strings = maps.Clone(d.strings)
	return nd
}

// Top returns the top level objects of the document.
func (d *Document) Top() []*Object {
	return d.objects
}

func (d *Document) Objects() []host.Object {
	objs := make([]host.Object, len(d.objects))
	for i, o := range d.objects {
		objs[i] = o
	}
	return objs
}

func (d *Document) Object(id uuid.UUID) (host.Object, bool) {
	o, ok := d.byID[id]
	if !ok {
		return nil, false
	}
	return o, true
}

func (d *Document) Attachment(id uuid.UUID) ([]byte, bool) {
	o, ok := d.byID[id]
	if !ok || d.NoAttachments {
		return nil, false
	}
	data, ok := o.Attrs.UserData[AttachmentKey]
	return data, ok
}

func (d *Document) SetAttachment(id uuid.UUID, data []byte) bool {
	o, ok := d.byID[id]
	if !ok || d.NoAttachments {
		return false
	}
	if o.Attrs.UserData == nil {
		o.Attrs.UserData = map[string][]byte{}
	}
	o.Attrs.UserData[AttachmentKey] = slices.Clone(data)
	return true
}

func (d *Document) RemoveAttachment(id uuid.UUID) {
	if o, ok := d.byID[id]; ok {
		delete(o.Attrs.UserData, AttachmentKey)
	}
}

func (d *Document) DocumentString(key string) (string, bool) {
	s, ok := d.strings[key]
	return s, ok
}

func (d *Document) SetDocumentString(key, value string) {
	d.strings[key] = value
}

func (d *Document) RemoveDocumentString(key string) {
	delete(d.strings, key)
}

// Hook is the draw hook interface of a display pipeline,
// as implemented by drawfilter.Filter.
type Hook interface {
	BeginFrame()
	DrawObject(ev *host.DrawEvent)
	DrawForeground(p host.Pipeline)
}

// Render draws one frame of the document into the pipeline, calling the
// hook the way a host display pipeline does: once at the start of the
// frame, once per object, and once for the foreground post pass.
// The hook may be nil.
func (d *Document) Render(hook Hook, p host.Pipeline, selected ...uuid.UUID) {
	if hook != nil {
		hook.BeginFrame()
	}
	world := math32.Identity4()
	for _, o := range d.objects {
		ev := &host.DrawEvent{Object: o, Selected: slices.Contains(selected, o.UUID), Pipeline: p}
		if hook != nil {
			hook.DrawObject(ev)
		}
		if !ev.SuppressDraw {
			p.DrawComponent(o, world)
			if ev.Selected {
				p.DrawOverlay(o, world, host.Overlay{Kind: host.Highlight, Alpha: 1})
			}
		}
	}
	if hook != nil {
		hook.DrawForeground(p)
	}
}

var (
	_ host.Document      = (*Document)(nil)
	_ host.Attachments   = (*Document)(nil)
	_ host.KeyValueStore = (*Document)(nil)
)
