// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visibility

import (
	"maps"
	"slices"

	"cogentcore.org/instvis/base/dotpath"
)

// Overrides is the override set of one instance: component path to
// state, holding only non-[Visible] entries under canonical paths.
type Overrides map[string]State

// Set sets the state of the given path, removing it for [Visible].
// Invalid paths and states are ignored. It returns whether the
// set changed.
func (ov Overrides) Set(path string, st State) bool {
	cp, ok := dotpath.Canonical(path)
	if !ok || !st.IsValid() {
		return false
	}
	cur, has := ov[cp]
	if st == Visible {
		if has {
			delete(ov, cp)
		}
		return has
	}
	if has && cur == st {
		return false
	}
	ov[cp] = st
	return true
}

// Get returns the state of the given path, [Visible] if not present.
func (ov Overrides) Get(path string) State {
	if st, ok := ov[path]; ok {
		return st
	}
	return Visible
}

// Clone returns a copy of the overrides.
func (ov Overrides) Clone() Overrides {
	if ov == nil {
		return nil
	}
	return maps.Clone(ov)
}

// Paths returns the paths of the overrides in [dotpath.Less] order.
func (ov Overrides) Paths() []string {
	paths := slices.Collect(maps.Keys(ov))
	slices.SortFunc(paths, func(a, b string) int {
		switch {
		case dotpath.Less(a, b):
			return -1
		case dotpath.Less(b, a):
			return 1
		}
		return 0
	})
	return paths
}

// Equal returns whether both override sets hold the same entries.
func (ov Overrides) Equal(other Overrides) bool {
	return maps.Equal(ov, other)
}

// sanitized returns a copy holding only the valid, non-Visible
// entries of ov, under canonical paths.
func (ov Overrides) sanitized() Overrides {
	out := make(Overrides, len(ov))
	for p, st := range ov {
		out.Set(p, st)
	}
	return out
}

// prefixes returns every strict ancestor path of the entries.
// It is derived data, always rebuilt from the entries.
func (ov Overrides) prefixes() map[string]struct{} {
	pre := make(map[string]struct{}, len(ov))
	for p := range ov {
		for _, a := range dotpath.Ancestors(p) {
			if _, has := pre[a]; has {
				break // all further ancestors are already present
			}
			pre[a] = struct{}{}
		}
	}
	return pre
}
