// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package memhost is an in-memory host for the visibility engine:
// template definitions, placed instances, documents with per-object
// attachments and document strings, and a recording display pipeline.
// It is used by tests and by command line tools, and is a reference
// for writing host adapters.
package memhost

import (
	"cogentcore.org/instvis/host"
	"cogentcore.org/instvis/math32"
	"github.com/google/uuid"
)

// bboxDepth bounds the nesting depth of bounding box computation,
// so that self referencing templates terminate.
const bboxDepth = 64

// Kinds are the kinds of [Object].
type Kinds int32

const (
	// Leaf is a leaf geometry object.
	Leaf Kinds = iota

	// Instance is a template instance.
	Instance
)

// Attributes are the attributes of an [Object] that are copied
// with it when it is duplicated.
type Attributes struct {
	// Layer is the name of the layer of the object.
	Layer string

	// UserData holds the attachments of the object, by key.
	UserData map[string][]byte
}

// Object is a leaf geometry object or a template instance, either at the
// top level of a [Document] or a component of a [Definition].
// It implements [host.Instance].
type Object struct {
	UUID uuid.UUID
	Name string
	Kind Kinds

	// Def is the template of an instance.
	Def *Definition `copier:"-"`

	// Xform is the local transform of an instance.
	Xform math32.Matrix4

	// Box is the bounds of a leaf, in the space of its template.
	Box math32.Box3

	// Hidden is whether the object is hidden in its template.
	Hidden bool

	Attrs Attributes
}

// NewLeaf returns a new leaf object with the given name and bounds.
func NewLeaf(name string, box math32.Box3) *Object {
	return &Object{UUID: uuid.New(), Name: name, Kind: Leaf, Xform: *math32.Identity4(), Box: box}
}

// NewInstance returns a new instance of the given definition, placed
// with the given transform; nil means identity.
func NewInstance(name string, def *Definition, xf *math32.Matrix4) *Object {
	if xf == nil {
		xf = math32.Identity4()
	}
	return &Object{UUID: uuid.New(), Name: name, Kind: Instance, Def: def, Xform: *xf, Box: math32.B3Empty()}
}

// SetHidden sets whether the object is hidden in its template.
func (o *Object) SetHidden(hidden bool) *Object {
	o.Hidden = hidden
	return o
}

func (o *Object) ID() uuid.UUID { return o.UUID }

func (o *Object) IsInstance() bool { return o.Kind == Instance }

func (o *Object) IsVisible() bool { return !o.Hidden }

func (o *Object) Transform() *math32.Matrix4 {
	if o.Kind != Instance {
		return nil
	}
	return &o.Xform
}

func (o *Object) Components() []host.Component {
	if o.Kind != Instance || o.Def == nil {
		return nil
	}
	return o.Def.comps
}

func (o *Object) BBox() math32.Box3 {
	return o.bbox(0)
}

func (o *Object) bbox(depth int) math32.Box3 {
	if o.Kind != Instance {
		return o.Box
	}
	bb := math32.B3Empty()
	if o.Def == nil || depth >= bboxDepth {
		return bb
	}
	for _, c := range o.Def.Objects {
		if c.Hidden {
			continue
		}
		bb.ExpandByBox(c.bbox(depth + 1))
	}
	return bb.MulMatrix4(&o.Xform)
}

func (o *Object) String() string {
	return o.Name
}

// Definition is a template: a named, ordered list of component objects
// shared by all of its instances.
type Definition struct {
	Name    string
	Objects []*Object

	// comps are the objects as [host.Component]s.
	comps []host.Component
}

// NewDefinition returns a new definition with the given components.
func NewDefinition(name string, objs ...*Object) *Definition {
	d := &Definition{Name: name}
	for _, o := range objs {
		d.Add(o)
	}
	return d
}

// Add appends a component to the definition.
func (d *Definition) Add(o *Object) *Object {
	d.Objects = append(d.Objects, o)
	d.comps = append(d.comps, o)
	return o
}

// Remove removes the component at the given index, shifting the later
// ones down, as a structural edit of the template does.
func (d *Definition) Remove(index int) {
	if index < 0 || index >= len(d.Objects) {
		return
	}
	d.Objects = append(d.Objects[:index], d.Objects[index+1:]...)
	d.comps = append(d.comps[:index], d.comps[index+1:]...)
}

var _ host.Instance = (*Object)(nil)
