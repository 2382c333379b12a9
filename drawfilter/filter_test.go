// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drawfilter

import (
	"image/color"
	"sync"
	"testing"

	"cogentcore.org/instvis/host"
	"cogentcore.org/instvis/math32"
	"cogentcore.org/instvis/memhost"
	"cogentcore.org/instvis/visibility"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func unitBox(x float32) math32.Box3 {
	return math32.B3(x, 0, 0, x+1, 1, 1)
}

// flat returns a document with one instance of a template with
// the leaves a, b and c.
func flat() (*memhost.Document, *memhost.Object) {
	def := memhost.NewDefinition("flat",
		memhost.NewLeaf("a", unitBox(0)),
		memhost.NewLeaf("b", unitBox(2)),
		memhost.NewLeaf("c", unitBox(4)))
	doc := memhost.NewDocument()
	return doc, doc.Add(memhost.NewInstance("x", def, nil))
}

// nested returns a document with one instance of a template with a leaf a,
// a nested instance n of a template with the leaves p and q, and a leaf c.
func nested() (*memhost.Document, *memhost.Object) {
	inner := memhost.NewDefinition("inner",
		memhost.NewLeaf("p", unitBox(0)),
		memhost.NewLeaf("q", unitBox(2)))
	outer := memhost.NewDefinition("outer",
		memhost.NewLeaf("a", unitBox(0)),
		memhost.NewInstance("n", inner, math32.Translation4(0, 5, 0)),
		memhost.NewLeaf("c", unitBox(4)))
	doc := memhost.NewDocument()
	return doc, doc.Add(memhost.NewInstance("x", outer, math32.Translation4(10, 0, 0)))
}

func newFilter(st *visibility.Store) *Filter {
	return New(st, DefaultOptions())
}

func TestHiddenComponent(t *testing.T) {
	doc, x := flat()
	st := visibility.NewStore()
	st.SetState(x.UUID, "1", visibility.Hidden)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	doc.Render(f, rec)

	assert.Equal(t, []string{"a", "c"}, rec.Names(memhost.Draw))
	c := f.Counts()
	assert.Equal(t, int64(1), c.Frames)
	assert.Equal(t, int64(1), c.Managed)
	assert.Equal(t, int64(2), c.Drawn)
	assert.Equal(t, int64(1), c.Skipped)
	assert.Equal(t, int64(0), c.Recursions)
}

func TestNestedHiddenComponent(t *testing.T) {
	doc, x := nested()
	st := visibility.NewStore()
	st.SetState(x.UUID, "1.0", visibility.Hidden)
	require.True(t, st.HasHiddenDescendant(x.UUID, "1"))
	f := newFilter(st)
	rec := &memhost.Recorder{}
	doc.Render(f, rec)

	assert.Equal(t, []string{"a", "q", "c"}, rec.Names(memhost.Draw))
	assert.Equal(t, int64(1), f.Counts().Recursions)

	calls := rec.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, math32.Vec3(10, 0, 0), calls[0].Transform.Translation())
	assert.Equal(t, math32.Vec3(10, 5, 0), calls[1].Transform.Translation())
}

func TestNestedDrawnWhole(t *testing.T) {
	doc, x := nested()
	st := visibility.NewStore()
	st.SetState(x.UUID, "0", visibility.Hidden)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	doc.Render(f, rec)

	assert.Equal(t, []string{"n", "c"}, rec.Names(memhost.Draw))
	assert.Equal(t, int64(0), f.Counts().Recursions)
}

func TestUnmanagedPassThrough(t *testing.T) {
	doc, x := nested()
	f := newFilter(visibility.NewStore())
	rec := &memhost.Recorder{}
	doc.Render(f, rec)

	assert.Equal(t, []string{"x"}, rec.Names(memhost.Draw))
	c := f.Counts()
	assert.Equal(t, int64(1), c.Lookups)
	assert.Equal(t, int64(1), c.PassThrough)
	assert.Equal(t, int64(0), c.Managed)
	assert.Equal(t, int64(0), c.Drawn)
	assert.Equal(t, int64(0), c.Skipped)

	ev := &host.DrawEvent{Object: x, Pipeline: rec}
	f.DrawObject(ev)
	assert.False(t, ev.SuppressDraw)
}

func TestMixedDocument(t *testing.T) {
	doc, x := flat()
	y := doc.Add(memhost.NewInstance("y", x.Def, nil))
	st := visibility.NewStore()
	st.SetState(y.UUID, "0", visibility.Suppressed)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	doc.Render(f, rec)

	assert.Equal(t, []string{"x", "b", "c"}, rec.Names(memhost.Draw))
	c := f.Counts()
	assert.Equal(t, int64(2), c.Lookups)
	assert.Equal(t, int64(1), c.PassThrough)
	assert.Equal(t, int64(1), c.Managed)
}

func TestTransparent(t *testing.T) {
	doc, x := flat()
	st := visibility.NewStore()
	st.SetState(x.UUID, "1", visibility.Transparent)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	doc.Render(f, rec)

	assert.Equal(t, []string{"a", "b", "c"}, rec.Names(memhost.Draw))
	assert.Equal(t, []string{"b"}, rec.Names(memhost.Ghost))
	calls := rec.Calls()
	require.Len(t, calls, 4)
	assert.Equal(t, memhost.Ghost, calls[2].Kind)
	assert.InDelta(t, 0.3, calls[2].Alpha, 1e-6)
	assert.Equal(t, int64(1), f.Counts().Ghosts)
}

func TestTransparentInherited(t *testing.T) {
	doc, x := nested()
	st := visibility.NewStore()
	st.SetState(x.UUID, "1", visibility.Transparent)
	st.SetState(x.UUID, "1.0", visibility.Hidden)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	doc.Render(f, rec)

	assert.Equal(t, []string{"a", "q", "c"}, rec.Names(memhost.Draw))
	assert.Equal(t, []string{"q"}, rec.Names(memhost.Ghost))
}

func TestTransparentNestedWhole(t *testing.T) {
	doc, x := nested()
	st := visibility.NewStore()
	st.SetState(x.UUID, "1", visibility.Transparent)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	doc.Render(f, rec)

	// "1" is a prefix of itself, so the nested instance is descended into
	assert.Equal(t, []string{"a", "p", "q", "c"}, rec.Names(memhost.Draw))
	assert.Equal(t, []string{"p", "q"}, rec.Names(memhost.Ghost))
}

func TestTemplateHiddenStaysHidden(t *testing.T) {
	doc, x := flat()
	x.Def.Objects[2].SetHidden(true)
	st := visibility.NewStore()
	st.SetState(x.UUID, "2", visibility.Transparent)
	st.SetState(x.UUID, "0", visibility.Hidden)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	doc.Render(f, rec)

	assert.Equal(t, []string{"b"}, rec.Names(memhost.Draw))
	assert.Empty(t, rec.Names(memhost.Ghost))
}

func TestSelectionHighlights(t *testing.T) {
	doc, x := nested()
	doc.Add(memhost.NewLeaf("other", unitBox(20)))
	st := visibility.NewStore()
	st.SetState(x.UUID, "1.1", visibility.Hidden)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	doc.Render(f, rec, x.UUID)

	assert.Equal(t, "draw a\ndraw p\ndraw c\ndraw other\nhighlight a\nhighlight p\nhighlight c\n", rec.String())
	calls := rec.Calls()
	assert.Equal(t, color.RGBA{255, 215, 0, 255}, calls[4].Color)
	assert.Equal(t, float32(1), calls[4].Alpha)
	assert.Equal(t, math32.Vec3(10, 5, 0), calls[5].Transform.Translation())
	assert.Equal(t, 0, f.PendingHighlights())
	assert.Equal(t, int64(3), f.Counts().Highlights)

	// not selected in the next frame
	rec.Reset()
	doc.Render(f, rec)
	assert.Empty(t, rec.Names(memhost.Highlight))
}

func TestHighlightsDroppedAtNextFrame(t *testing.T) {
	_, x := flat()
	st := visibility.NewStore()
	st.SetState(x.UUID, "0", visibility.Hidden)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	f.BeginFrame()
	f.DrawObject(&host.DrawEvent{Object: x, Selected: true, Pipeline: rec})
	assert.Equal(t, 2, f.PendingHighlights())
	f.BeginFrame()
	assert.Equal(t, 0, f.PendingHighlights())
	f.DrawForeground(nil)
}

func TestSnapshotPerFrame(t *testing.T) {
	_, x := flat()
	st := visibility.NewStore()
	st.SetState(x.UUID, "0", visibility.Hidden)
	f := newFilter(st)
	rec := &memhost.Recorder{}

	f.BeginFrame()
	st.SetState(x.UUID, "1", visibility.Hidden)
	f.DrawObject(&host.DrawEvent{Object: x, Pipeline: rec})
	assert.Equal(t, []string{"b", "c"}, rec.Names(memhost.Draw))

	rec.Reset()
	f.BeginFrame()
	f.DrawObject(&host.DrawEvent{Object: x, Pipeline: rec})
	assert.Equal(t, []string{"c"}, rec.Names(memhost.Draw))
}

// chain returns an instance nested n templates deep, whose innermost
// template has the leaves x and y, and the path of y.
func chain(n int) (*memhost.Object, string) {
	def := memhost.NewDefinition("leafs", memhost.NewLeaf("x", unitBox(0)), memhost.NewLeaf("y", unitBox(2)))
	path := "1"
	for i := 0; i < n; i++ {
		def = memhost.NewDefinition("level", memhost.NewInstance("n", def, nil))
		path = "0." + path
	}
	return memhost.NewInstance("top", def, nil), path
}

func TestDepthLimit(t *testing.T) {
	top, path := chain(6)
	assert.Equal(t, "0.0.0.0.0.0.1", path)
	st := visibility.NewStore()
	st.SetState(top.UUID, path, visibility.Hidden)
	opts := DefaultOptions()
	opts.MaxDepth = 4
	f := New(st, opts)
	rec := &memhost.Recorder{}

	for range 2 {
		f.BeginFrame()
		ev := &host.DrawEvent{Object: top, Pipeline: rec}
		f.DrawObject(ev)
		assert.True(t, ev.SuppressDraw)
	}
	assert.Equal(t, []string{"n", "n"}, rec.Names(memhost.Draw))
	c := f.Counts()
	assert.Equal(t, int64(2), c.DepthExceeded)
	assert.Equal(t, int64(8), c.Recursions)
	assert.Equal(t, int64(0), c.Recovered)
}

func TestDepthAtLimit(t *testing.T) {
	top, path := chain(4)
	st := visibility.NewStore()
	st.SetState(top.UUID, path, visibility.Hidden)
	opts := DefaultOptions()
	opts.MaxDepth = 4
	f := New(st, opts)
	rec := &memhost.Recorder{}
	f.BeginFrame()
	f.DrawObject(&host.DrawEvent{Object: top, Pipeline: rec})
	assert.Equal(t, []string{"x"}, rec.Names(memhost.Draw))
	assert.Equal(t, int64(4), f.Counts().Recursions)
	assert.Equal(t, int64(0), f.Counts().DepthExceeded)
}

func TestDepthWithinLimit(t *testing.T) {
	top, path := chain(6)
	st := visibility.NewStore()
	st.SetState(top.UUID, path, visibility.Hidden)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	f.BeginFrame()
	f.DrawObject(&host.DrawEvent{Object: top, Pipeline: rec})
	assert.Equal(t, []string{"x"}, rec.Names(memhost.Draw))
	assert.Equal(t, int64(0), f.Counts().DepthExceeded)
}

func TestResetCounts(t *testing.T) {
	doc, _ := flat()
	f := newFilter(visibility.NewStore())
	doc.Render(f, &memhost.Recorder{})
	assert.NotZero(t, f.Counts().Frames)
	f.ResetCounts()
	assert.Equal(t, Counts{}, f.Counts())
}

func TestNilInputs(t *testing.T) {
	f := New(nil, Options{})
	assert.Equal(t, 32, f.Options.MaxDepth)
	f.BeginFrame()
	assert.Nil(t, f.Snapshot())
	f.DrawObject(nil)
	f.DrawObject(&host.DrawEvent{})
	_, x := flat()
	ev := &host.DrawEvent{Object: x, Pipeline: &memhost.Recorder{}}
	f.DrawObject(ev)
	assert.False(t, ev.SuppressDraw)
	f.DrawForeground(nil)
	assert.Equal(t, x.BBox(), f.BoundingBox(x))
	assert.Equal(t, []string{"0", "1", "2"}, f.Parts(x))
}

// badInstance is an instance whose components cannot be listed.
type badInstance struct {
	id uuid.UUID
}

func (b *badInstance) ID() uuid.UUID                { return b.id }
func (b *badInstance) IsInstance() bool             { return true }
func (b *badInstance) IsVisible() bool              { return true }
func (b *badInstance) Transform() *math32.Matrix4   { return nil }
func (b *badInstance) Components() []host.Component { panic("components unavailable") }
func (b *badInstance) BBox() math32.Box3            { return unitBox(7) }

func TestRecoverDrawObject(t *testing.T) {
	bad := &badInstance{id: uuid.New()}
	st := visibility.NewStore()
	st.SetState(bad.id, "0", visibility.Hidden)
	f := newFilter(st)
	rec := &memhost.Recorder{}
	f.BeginFrame()
	ev := &host.DrawEvent{Object: bad, Selected: true, Pipeline: rec}
	assert.NotPanics(t, func() { f.DrawObject(ev) })
	assert.False(t, ev.SuppressDraw)
	assert.Equal(t, 0, f.PendingHighlights())
	assert.Equal(t, int64(1), f.Counts().Recovered)

	assert.Equal(t, unitBox(7), f.BoundingBox(bad))
	assert.Nil(t, f.Parts(bad))
	assert.Equal(t, int64(3), f.Counts().Recovered)
}

// failingObject is a host object whose identity and bounds panic.
type failingObject struct {
	badInstance
}

func (b *failingObject) ID() uuid.UUID     { panic("host ID failed") }
func (b *failingObject) IsInstance() bool  { panic("host IsInstance failed") }
func (b *failingObject) BBox() math32.Box3 { panic("host BBox failed") }

// failingBounds is a managed instance whose components and bounds panic.
type failingBounds struct {
	badInstance
}

func (b *failingBounds) BBox() math32.Box3 { panic("host BBox failed") }

func TestRecoverHostCallbacks(t *testing.T) {
	f := newFilter(visibility.NewStore())
	rec := &memhost.Recorder{}
	f.BeginFrame()
	bad := &failingObject{}
	ev := &host.DrawEvent{Object: bad, Pipeline: rec}
	assert.NotPanics(t, func() { f.DrawObject(ev) })
	assert.False(t, ev.SuppressDraw)
	assert.Equal(t, int64(1), f.Counts().Recovered)

	var bb math32.Box3
	assert.NotPanics(t, func() { bb = f.BoundingBox(bad) })
	assert.True(t, bb.IsEmpty())
	assert.NotPanics(t, func() { assert.Nil(t, f.Parts(bad)) })
	assert.Empty(t, rec.Calls())
}

func TestRecoverManagedBounds(t *testing.T) {
	bad := &failingBounds{badInstance{id: uuid.New()}}
	st := visibility.NewStore()
	st.SetState(bad.id, "0", visibility.Hidden)
	f := newFilter(st)
	var bb math32.Box3
	assert.NotPanics(t, func() { bb = f.BoundingBox(bad) })
	assert.True(t, bb.IsEmpty())
	assert.Equal(t, int64(2), f.Counts().Recovered)
}

func TestConcurrentRender(t *testing.T) {
	doc, x := nested()
	st := visibility.NewStore()
	f := newFilter(st)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 500 {
			if i%2 == 0 {
				st.SetState(x.UUID, "1.0", visibility.Hidden)
			} else {
				st.ResetInstance(x.UUID)
			}
		}
	}()
	for range 200 {
		rec := &memhost.Recorder{}
		doc.Render(f, rec)
		names := rec.Names(memhost.Draw)
		if len(names) == 1 {
			assert.Equal(t, []string{"x"}, names)
		} else {
			assert.Equal(t, []string{"a", "q", "c"}, names)
		}
	}
	wg.Wait()
	assert.Equal(t, int64(0), f.Counts().Recovered)
}
