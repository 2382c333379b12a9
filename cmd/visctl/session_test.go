// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"cogentcore.org/instvis/engine"
	"cogentcore.org/instvis/visibility"
	"github.com/fsnotify/fsnotify"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const instanceA = "00000000-0000-0000-0000-00000000000a"

func newSession(t *testing.T) (*session, *bytes.Buffer) {
	out := &bytes.Buffer{}
	s, err := openSession(filepath.Join(t.TempDir(), "doc.vis"), engine.DefaultConfig(), out)
	require.NoError(t, err)
	return s, out
}

func TestSetSaveLoad(t *testing.T) {
	s, out := newSession(t)
	require.NoError(t, s.set(instanceA, "1.0", "hidden"))
	require.NoError(t, s.set(instanceA, "2", "3"))
	assert.Error(t, s.set("nope", "1", "hidden"))
	assert.Error(t, s.set(instanceA, "1.", "hidden"))
	assert.Error(t, s.set(instanceA, "1", "opaque"))
	require.NoError(t, s.save())

	b, err := os.ReadFile(s.file)
	require.NoError(t, err)
	assert.Equal(t, instanceA+"|1.0:1|2:3\n", string(b))

	re, err := openSession(s.file, engine.DefaultConfig(), out)
	require.NoError(t, err)
	id := uuid.MustParse(instanceA)
	assert.True(t, re.engine.IsHidden(id, "1.0"))
	assert.True(t, re.engine.IsTransparent(id, "2"))

	re.show()
	assert.Contains(t, out.String(), "1.0\tHidden")
	assert.Contains(t, out.String(), "2\tTransparent")
}

func TestReset(t *testing.T) {
	s, out := newSession(t)
	id := uuid.MustParse(instanceA)
	s.set(instanceA, "1.0", "1")
	s.set(instanceA, "1.1", "1")
	s.set(instanceA, "2", "1")
	require.NoError(t, s.reset(instanceA, "1"))
	assert.Equal(t, 1, s.engine.HiddenCount(id))
	require.NoError(t, s.reset(instanceA, ""))
	assert.False(t, s.engine.IsManaged(id))
	assert.Error(t, s.reset(instanceA, "x"))

	s.set(instanceA, "2", "1")
	s.clear()
	s.show()
	assert.Equal(t, "no overrides\n", out.String())
}

func TestEncodeDecode(t *testing.T) {
	s, _ := newSession(t)
	s.set(instanceA, "0", "Suppressed")
	chunk := filepath.Join(t.TempDir(), "a.chunk")
	require.NoError(t, s.encode(instanceA, chunk))

	other := uuid.New().String()
	require.NoError(t, s.decode(other, chunk))
	assert.True(t, s.engine.IsSuppressed(uuid.MustParse(other), "0"))
	assert.Error(t, s.decode(other, filepath.Join(t.TempDir(), "missing")))
}

func TestDecodeBadChunk(t *testing.T) {
	s, _ := newSession(t)
	id := uuid.MustParse(instanceA)
	require.NoError(t, s.set(instanceA, "1.0", "hidden"))
	chunk := filepath.Join(t.TempDir(), "bad.chunk")
	require.NoError(t, os.WriteFile(chunk, []byte{0xff, 0xff, 0xff}, 0o644))
	assert.Error(t, s.decode(instanceA, chunk))
	assert.True(t, s.engine.IsHidden(id, "1.0"))

	empty := filepath.Join(t.TempDir(), "empty.chunk")
	other := uuid.New().String()
	require.NoError(t, s.encode(other, empty))
	require.NoError(t, s.decode(instanceA, empty))
	assert.False(t, s.engine.IsManaged(id))
}

func TestShell(t *testing.T) {
	s, out := newSession(t)
	in := strings.Join([]string{
		"# comment",
		"set " + instanceA + " '1.0' Hidden",
		"set " + instanceA + " 2 Transparent",
		"reset " + instanceA + " 2",
		"set " + instanceA,
		"bogus",
		"show",
		"quit",
		"set " + instanceA + " 3 Hidden",
	}, "\n")
	require.NoError(t, s.shell(strings.NewReader(in)))
	assert.Contains(t, out.String(), "wrong number of arguments")
	assert.Contains(t, out.String(), `unknown command "bogus"`)

	b, err := os.ReadFile(s.file)
	require.NoError(t, err)
	assert.Equal(t, instanceA+"|1.0:1\n", string(b))
}

func TestWatchEvents(t *testing.T) {
	s, out := newSession(t)
	events := make(chan fsnotify.Event)
	errs := make(chan error)
	done := make(chan error)
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		done <- s.watchEvents(ctx, events, errs)
	}()

	require.NoError(t, os.WriteFile(s.file, []byte(instanceA+"|4:2\n"), 0666))
	events <- fsnotify.Event{Name: filepath.Join(filepath.Dir(s.file), "other"), Op: fsnotify.Write}
	events <- fsnotify.Event{Name: s.file, Op: fsnotify.Write}
	events <- fsnotify.Event{Name: s.file, Op: fsnotify.Chmod}
	cancel()
	require.NoError(t, <-done)

	assert.True(t, s.engine.IsSuppressed(uuid.MustParse(instanceA), "4"))
	assert.Equal(t, visibility.Suppressed, s.engine.GetState(uuid.MustParse(instanceA), "4"))
	assert.Contains(t, out.String(), "no overrides\n")
	assert.Contains(t, out.String(), "4\tSuppressed")
}
