// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package yamlx

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStruct struct {
	Name  string  `yaml:"name"`
	Depth int     `yaml:"depth"`
	Alpha float32 `yaml:"alpha"`
}

func TestSaveOpen(t *testing.T) {
	fn := filepath.Join(t.TempDir(), "test.yaml")
	in := &testStruct{Name: "outliner", Depth: 12, Alpha: 0.5}
	require.NoError(t, Save(in, fn))

	out := &testStruct{}
	require.NoError(t, Open(out, fn))
	assert.Equal(t, in, out)
}

func TestReadBytes(t *testing.T) {
	out := &testStruct{}
	require.NoError(t, ReadBytes(out, []byte("name: a\ndepth: 3\n")))
	assert.Equal(t, "a", out.Name)
	assert.Equal(t, 3, out.Depth)
}
