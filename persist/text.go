// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package persist

import (
	"bytes"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"cogentcore.org/instvis/base/dotpath"
	"cogentcore.org/instvis/visibility"
	"github.com/google/uuid"
)

// Document text separators.
const (
	fieldSep = "|"
	stateSep = ":"
)

// EncodeDocument returns the whole document text of the given override
// sets: one line per instance with overrides, in id order, of the form
//
//	<instance id>|path:state|path:state...
//
// with states written as integers.
func EncodeDocument(sets map[uuid.UUID]visibility.Overrides) string {
	ids := make([]uuid.UUID, 0, len(sets))
	for id, ov := range sets {
		if len(ov) > 0 {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	var b strings.Builder
	for _, id := range ids {
		ov := sets[id]
		b.WriteString(id.String())
		for _, p := range ov.Paths() {
			b.WriteString(fieldSep)
			b.WriteString(p)
			b.WriteString(stateSep)
			b.WriteString(strconv.Itoa(int(ov[p])))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// DecodeDocument returns the override sets of the given document text.
// States may be integers or state names. Blank lines are ignored.
// Lines with an invalid instance id, and malformed entries, are dropped;
// the number of dropped lines and entries is returned.
func DecodeDocument(text string) (map[uuid.UUID]visibility.Overrides, int) {
	sets := map[uuid.UUID]visibility.Overrides{}
	dropped := 0
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, fieldSep)
		id, err := uuid.Parse(strings.TrimSpace(fields[0]))
		if err != nil {
			slog.Debug("persist: dropping document line", "line", i+1, "err", err)
			dropped++
			continue
		}
		ov := sets[id]
		if ov == nil {
			ov = visibility.Overrides{}
		}
		for _, f := range fields[1:] {
			p, st, ok := decodeTextEntry(f)
			if !ok {
				slog.Debug("persist: dropping malformed entry", "line", i+1, "entry", f)
				dropped++
				continue
			}
			ov.Set(p, st)
		}
		if len(ov) > 0 {
			sets[id] = ov
		}
	}
	return sets, dropped
}

// decodeTextEntry decodes one path:state entry.
func decodeTextEntry(f string) (string, visibility.State, bool) {
	ps, ss, ok := strings.Cut(f, stateSep)
	ps = strings.TrimSpace(ps)
	if !ok || !dotpath.Valid(ps) {
		return "", 0, false
	}
	st, err := visibility.ParseState(ss)
	if err != nil || st == visibility.Visible {
		return "", 0, false
	}
	return ps, st, true
}

func sortIDs(ids []uuid.UUID) {
	slices.SortFunc(ids, func(a, b uuid.UUID) int { return bytes.Compare(a[:], b[:]) })
}
