// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package memhost

import (
	"fmt"
	"image/color"
	"strings"
	"sync"

	"cogentcore.org/instvis/host"
	"cogentcore.org/instvis/math32"
)

// CallKinds are the kinds of [Call].
type CallKinds int32

const (
	Draw CallKinds = iota
	Ghost
	Highlight
)

func (k CallKinds) String() string {
	switch k {
	case Draw:
		return "draw"
	case Ghost:
		return "ghost"
	case Highlight:
		return "highlight"
	}
	return fmt.Sprintf("CallKinds(%d)", int32(k))
}

// Call is one recorded pipeline call.
type Call struct {
	Kind CallKinds

	// Object is the drawn component, always an [*Object].
	Object *Object

	// Transform is the transform the component was drawn with.
	Transform math32.Matrix4

	Alpha float32
	Color color.RGBA
}

func (c Call) String() string {
	return c.Kind.String() + " " + c.Object.Name
}

// Recorder is a [host.Pipeline] that records its calls.
// It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

func (r *Recorder) DrawComponent(c host.Component, xf *math32.Matrix4) {
	r.record(Call{Kind: Draw, Object: c.(*Object), Transform: *xf})
}

func (r *Recorder) DrawOverlay(c host.Component, xf *math32.Matrix4, ov host.Overlay) {
	k := Ghost
	if ov.Kind == host.Highlight {
		k = Highlight
	}
	r.record(Call{Kind: k, Object: c.(*Object), Transform: *xf, Alpha: ov.Alpha, Color: ov.Color})
}

func (r *Recorder) record(c Call) {
	r.mu.Lock()
	r.calls = append(r.calls, c)
	r.mu.Unlock()
}

// Calls returns a copy of the recorded calls.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Call(nil), r.calls...)
}

// Names returns the names of the objects of the recorded calls
// of the given kind, in order.
func (r *Recorder) Names(kind CallKinds) []string {
	var names []string
	for _, c := range r.Calls() {
		if c.Kind == kind {
			names = append(names, c.Object.Name)
		}
	}
	return names
}

// Reset drops all recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.calls = nil
	r.mu.Unlock()
}

// String returns the recorded calls, one per line.
func (r *Recorder) String() string {
	var b strings.Builder
	for _, c := range r.Calls() {
		b.WriteString(c.String())
		b.WriteByte('\n')
	}
	return b.String()
}

var _ host.Pipeline = (*Recorder)(nil)
