// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package persist serializes the visibility overrides of instances:
// a versioned binary chunk per instance, stored as an attachment of the
// instance object, and a whole document text encoding used when the
// host has no attachments.
package persist

import (
	"fmt"
	"log/slog"

	"cogentcore.org/instvis/base/dotpath"
	"cogentcore.org/instvis/base/errors"
	"cogentcore.org/instvis/visibility"
	"google.golang.org/protobuf/encoding/protowire"
)

const (
	// Version is the chunk version written by [Encode]:
	// entries of a path and a state.
	Version = 2

	// LegacyVersion is the earlier framing of this codec, whose entries
	// are bare paths of hidden components. [Decode] still reads it.
	LegacyVersion = 1
)

// Chunk field numbers.
const (
	fieldVersion protowire.Number = 1
	fieldCount   protowire.Number = 2
	fieldEntry   protowire.Number = 3
)

// Entry field numbers.
const (
	entryPath  protowire.Number = 1
	entryState protowire.Number = 2
)

var (
	// ErrUnsupportedVersion is returned by [Decode] for a chunk of an
	// unknown version. Such chunks are skipped.
	ErrUnsupportedVersion = errors.New("persist: unsupported chunk version")

	// ErrMalformed is returned by [Decode] for a chunk whose framing is
	// broken. Entries read before the damage are still returned.
	ErrMalformed = errors.New("persist: malformed chunk")
)

// Encode returns the chunk of the given overrides, with its entries in
// path order.
func Encode(ov visibility.Overrides) []byte {
	paths := ov.Paths()
	var b []byte
	b = protowire.AppendTag(b, fieldVersion, protowire.VarintType)
	b = protowire.AppendVarint(b, Version)
	b = protowire.AppendTag(b, fieldCount, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(len(paths)))
	var e []byte
	for _, p := range paths {
		e = e[:0]
		e = protowire.AppendTag(e, entryPath, protowire.BytesType)
		e = protowire.AppendString(e, p)
		e = protowire.AppendTag(e, entryState, protowire.VarintType)
		e = protowire.AppendVarint(e, uint64(ov[p]))
		b = protowire.AppendTag(b, fieldEntry, protowire.BytesType)
		b = protowire.AppendBytes(b, e)
	}
	return b
}

// Decode returns the overrides of the given chunk. Individually
// malformed entries are dropped. Unknown fields are ignored.
func Decode(data []byte) (visibility.Overrides, error) {
	var version uint64
	var count uint64
	hasVersion := false
	var entries [][]byte
	var ferr error
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			ferr = fmt.Errorf("%w: %v", ErrMalformed, protowire.ParseError(n))
			break
		}
		data = data[n:]
		switch {
		case num == fieldVersion && typ == protowire.VarintType:
			version, n = protowire.ConsumeVarint(data)
			hasVersion = true
		case num == fieldCount && typ == protowire.VarintType:
			count, n = protowire.ConsumeVarint(data)
		case num == fieldEntry && typ == protowire.BytesType:
			var e []byte
			e, n = protowire.ConsumeBytes(data)
			if n >= 0 {
				entries = append(entries, e)
			}
		default:
			n = protowire.ConsumeFieldValue(num, typ, data)
		}
		if n < 0 {
			ferr = fmt.Errorf("%w: field %d: %v", ErrMalformed, num, protowire.ParseError(n))
			break
		}
		data = data[n:]
	}
	if !hasVersion {
		if ferr != nil {
			return nil, ferr
		}
		return nil, fmt.Errorf("%w: no version", ErrMalformed)
	}
	var entry func([]byte) (string, visibility.State, bool)
	switch version {
	case Version:
		entry = decodeEntry
	case LegacyVersion:
		entry = decodeLegacyEntry
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	ov := visibility.Overrides{}
	for _, e := range entries {
		p, st, ok := entry(e)
		if !ok {
			slog.Debug("persist: dropping malformed entry", "version", version, "entry", e)
			continue
		}
		ov.Set(p, st)
	}
	if ferr == nil && count != uint64(len(entries)) {
		slog.Debug("persist: chunk entry count mismatch", "count", count, "entries", len(entries))
	}
	return ov, ferr
}

// decodeEntry decodes one path and state entry.
func decodeEntry(b []byte) (path string, st visibility.State, ok bool) {
	hasPath, hasState := false, false
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return "", 0, false
		}
		b = b[n:]
		switch {
		case num == entryPath && typ == protowire.BytesType:
			path, n = protowire.ConsumeString(b)
			hasPath = true
		case num == entryState && typ == protowire.VarintType:
			var v uint64
			v, n = protowire.ConsumeVarint(b)
			if v >= uint64(visibility.StatesN) {
				return "", 0, false
			}
			st = visibility.State(v)
			hasState = true
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return "", 0, false
		}
		b = b[n:]
	}
	if !hasPath || !hasState || !dotpath.Valid(path) || !st.IsValid() || st == visibility.Visible {
		return "", 0, false
	}
	return path, st, true
}

// decodeLegacyEntry decodes one hidden path.
func decodeLegacyEntry(b []byte) (string, visibility.State, bool) {
	path := string(b)
	if !dotpath.Valid(path) {
		return "", 0, false
	}
	return path, visibility.Hidden, true
}
