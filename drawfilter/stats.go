// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package drawfilter

import "sync/atomic"

// Counts are the instrumentation counters of a [Filter].
type Counts struct {
	// Frames is the number of frames begun.
	Frames int64

	// Lookups is the number of managed set lookups for drawn instances.
	Lookups int64

	// PassThrough is the number of instances left to the host unmodified.
	PassThrough int64

	// Managed is the number of instances drawn by the filter.
	Managed int64

	// Drawn is the number of draw calls issued, leaves or whole subtrees.
	Drawn int64

	// Ghosts is the number of transparent overlays drawn.
	Ghosts int64

	// Skipped is the number of components skipped by an override.
	Skipped int64

	// Recursions is the number of nested instances descended into.
	Recursions int64

	// DepthExceeded is the number of times the nesting depth cap was hit.
	DepthExceeded int64

	// Highlights is the number of highlight overlays drawn in the post pass.
	Highlights int64

	// Recovered is the number of panics recovered in render entry points.
	Recovered int64
}

type stats struct {
	frames, lookups, passThrough, managed, drawn, ghosts   atomic.Int64
	skipped, recursions, depthExceeded, highlights, recovered atomic.Int64
}

func (s *stats) counts() Counts {
	return Counts{
		Frames:        s.frames.Load(),
		Lookups:       s.lookups.Load(),
		PassThrough:   s.passThrough.Load(),
		Managed:       s.managed.Load(),
		Drawn:         s.drawn.Load(),
		Ghosts:        s.ghosts.Load(),
		Skipped:       s.skipped.Load(),
		Recursions:    s.recursions.Load(),
		DepthExceeded: s.depthExceeded.Load(),
		Highlights:    s.highlights.Load(),
		Recovered:     s.recovered.Load(),
	}
}

func (s *stats) reset() {
	for _, c := range []*atomic.Int64{&s.frames, &s.lookups, &s.passThrough, &s.managed, &s.drawn, &s.ghosts,
		&s.skipped, &s.recursions, &s.depthExceeded, &s.highlights, &s.recovered} {
		c.Store(0)
	}
}
