// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package dotpath provides the path algebra for addressing a component
// at any nesting depth inside a template instance. A path is an ordered
// list of non-negative indexes whose canonical string form is dot-joined,
// so the third child of the first child of component 1 is "1.0.2".
// Equality is defined on the canonical string.
package dotpath

import (
	"strconv"
	"strings"
)

// Separator separates the indexes of a path.
const Separator = "."

// MaxIndex is the largest index accepted in a path element.
const MaxIndex = 1<<31 - 1

// Parse parses the given path string into its indexes.
// It returns false if the string is not a dot-separated sequence of
// non-negative integers; the empty string is not a valid path.
func Parse(path string) ([]int, bool) {
	if path == "" {
		return nil, false
	}
	n := strings.Count(path, Separator) + 1
	idxs := make([]int, 0, n)
	for len(path) > 0 {
		el := path
		if i := strings.IndexByte(path, '.'); i >= 0 {
			el = path[:i]
			path = path[i+1:]
			if path == "" {
				return nil, false // trailing separator
			}
		} else {
			path = ""
		}
		idx, ok := parseIndex(el)
		if !ok {
			return nil, false
		}
		idxs = append(idxs, idx)
	}
	return idxs, true
}

// parseIndex parses one path element, only accepting ascii digits.
// Leading zeros do not count toward the length limit.
func parseIndex(el string) (int, bool) {
	if el == "" {
		return 0, false
	}
	for i := 0; i < len(el); i++ {
		if el[i] < '0' || el[i] > '9' {
			return 0, false
		}
	}
	el = strings.TrimLeft(el, "0")
	if el == "" {
		return 0, true
	}
	if len(el) > 10 {
		return 0, false
	}
	v, err := strconv.ParseInt(el, 10, 64)
	if err != nil || v > MaxIndex {
		return 0, false
	}
	return int(v), true
}

// Join returns the canonical string form of the given indexes.
// It returns "" if there are none or any of them is negative.
func Join(idxs []int) string {
	if len(idxs) == 0 {
		return ""
	}
	var sb strings.Builder
	for i, idx := range idxs {
		if idx < 0 {
			return ""
		}
		if i > 0 {
			sb.WriteString(Separator)
		}
		sb.WriteString(strconv.Itoa(idx))
	}
	return sb.String()
}

// Valid returns whether the given string is a syntactically valid path.
func Valid(path string) bool {
	_, ok := Parse(path)
	return ok
}

// Canonical returns the canonical form of the given path, dropping
// leading zeros from each element ("01.2" becomes "1.2").
// It returns false if the path is not valid.
func Canonical(path string) (string, bool) {
	idxs, ok := Parse(path)
	if !ok {
		return "", false
	}
	return Join(idxs), true
}

// Child returns the path of the child at the given index under parent.
// The empty parent is the instance root, so Child("", 2) is "2".
func Child(parent string, index int) string {
	if parent == "" {
		return strconv.Itoa(index)
	}
	return parent + Separator + strconv.Itoa(index)
}

// Parent returns the parent path of the given path, which is
// "" for a top level path.
func Parent(path string) string {
	i := strings.LastIndex(path, Separator)
	if i < 0 {
		return ""
	}
	return path[:i]
}

// Ancestors returns every strict ancestor of the given path, nearest
// first, by repeatedly trimming at the last separator: the ancestors of
// "1.0.2" are "1.0" and "1".
func Ancestors(path string) []string {
	n := strings.Count(path, Separator)
	if n == 0 {
		return nil
	}
	anc := make([]string, 0, n)
	for {
		i := strings.LastIndex(path, Separator)
		if i < 0 {
			return anc
		}
		path = path[:i]
		anc = append(anc, path)
	}
}

// Depth returns the number of elements in the given path.
func Depth(path string) int {
	if path == "" {
		return 0
	}
	return strings.Count(path, Separator) + 1
}

// HasPrefix returns whether path equals prefix or is a descendant of it.
// Matching is per element, so "10" does not have the prefix "1".
func HasPrefix(path, prefix string) bool {
	if prefix == "" {
		return true
	}
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	return len(path) == len(prefix) || path[len(prefix)] == '.'
}

// Less orders paths element by element numerically, so "2" sorts
// before "10" and a parent sorts before its children. Invalid paths
// sort after valid ones, by string.
func Less(a, b string) bool {
	ia, oka := Parse(a)
	ib, okb := Parse(b)
	switch {
	case !oka && !okb:
		return a < b
	case !oka:
		return false
	case !okb:
		return true
	}
	for i := 0; i < len(ia) && i < len(ib); i++ {
		if ia[i] != ib[i] {
			return ia[i] < ib[i]
		}
	}
	return len(ia) < len(ib)
}
