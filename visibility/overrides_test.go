// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package visibility

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverrides(t *testing.T) {
	ov := Overrides{}
	assert.True(t, ov.Set("10", Hidden))
	assert.True(t, ov.Set("2.1", Transparent))
	assert.True(t, ov.Set("2", Hidden))
	assert.False(t, ov.Set("2", Hidden))
	assert.False(t, ov.Set("x", Hidden))
	assert.Equal(t, []string{"2", "2.1", "10"}, ov.Paths())
	assert.Equal(t, Transparent, ov.Get("2.1"))
	assert.Equal(t, Visible, ov.Get("3"))

	assert.True(t, ov.Set("2", Visible))
	assert.False(t, ov.Set("2", Visible))

	cl := ov.Clone()
	assert.True(t, cl.Equal(ov))
	cl.Set("4", Hidden)
	assert.False(t, cl.Equal(ov))
	assert.Nil(t, Overrides(nil).Clone())

	pre := Overrides{"1.0.2": Hidden, "1.3": Hidden}.prefixes()
	assert.Equal(t, map[string]struct{}{"1": {}, "1.0": {}}, pre)
}
