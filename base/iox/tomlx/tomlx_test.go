// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tomlx

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Name  string
	Depth int
	Alpha float32
}

func TestSaveOpen(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "test.toml")
	in := &testStruct{Name: "outliner", Depth: 12, Alpha: 0.5}
	require.NoError(t, Save(in, fn))

	out := &testStruct{}
	require.NoError(t, Open(out, fn))
	assert.Equal(t, in, out)
}

func TestReadBytes(t *testing.T) {
	out := &testStruct{}
	require.NoError(t, ReadBytes(out, []byte("Name = \"a\"\nDepth = 3\n")))
	assert.Equal(t, "a", out.Name)
	assert.Equal(t, 3, out.Depth)

	b, err := WriteBytes(out)
	require.NoError(t, err)
	assert.Contains(t, string(b), "Depth = 3")

	assert.Error(t, Open(out, filepath.Join(t.TempDir(), "missing.toml")))
}
