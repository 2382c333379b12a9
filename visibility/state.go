// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visibility

import (
	"fmt"
	"strconv"
	"strings"
)

// State is the visibility override state of one component of an instance.
// An override can only further restrict what the template itself shows:
// it never makes a template-hidden component visible.
type State int32

const (
	// Visible is the default state. It is never stored explicitly.
	Visible State = iota

	// Hidden suppresses drawing of the component, and excludes
	// it from bounding boxes. It still counts for parts lists.
	Hidden

	// Suppressed is Hidden, and also excludes the component from
	// structural queries such as parts lists.
	Suppressed

	// Transparent draws the component with alpha blending.
	Transparent

	// StatesN is the number of states.
	StatesN
)

var stateNames = [...]string{"Visible", "Hidden", "Suppressed", "Transparent"}

// StateValues returns all valid states.
func StateValues() []State {
	return []State{Visible, Hidden, Suppressed, Transparent}
}

// String returns the name of the state.
func (st State) String() string {
	if !st.IsValid() {
		return "State(" + strconv.Itoa(int(st)) + ")"
	}
	return stateNames[st]
}

// IsValid returns whether the state is one of the defined states.
func (st State) IsValid() bool {
	return st >= Visible && st < StatesN
}

// Excluded returns whether the state removes the component from drawing
// and from bounding boxes: Hidden or Suppressed.
func (st State) Excluded() bool {
	return st == Hidden || st == Suppressed
}

// SetString sets the state from its name (case insensitive)
// or its integer value.
func (st *State) SetString(s string) error {
	v, err := ParseState(s)
	if err != nil {
		return err
	}
	*st = v
	return nil
}

// MarshalText implements [encoding.TextMarshaler].
func (st State) MarshalText() ([]byte, error) {
	return []byte(st.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (st *State) UnmarshalText(text []byte) error {
	return st.SetString(string(text))
}

// ParseState parses a state from its name (case insensitive)
// or its integer value.
func ParseState(s string) (State, error) {
	s = strings.TrimSpace(s)
	for i, nm := range stateNames {
		if strings.EqualFold(nm, s) {
			return State(i), nil
		}
	}
	v, err := strconv.Atoi(s)
	if err == nil && State(v).IsValid() {
		return State(v), nil
	}
	return Visible, fmt.Errorf("visibility: %q is not a valid State", s)
}
