// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const standardTol = float32(1.0e-6)

func tolAssertEqualVector(t *testing.T, vt, va Vector3) {
	t.Helper()
	assert.InDelta(t, vt.X, va.X, float64(standardTol))
	assert.InDelta(t, vt.Y, va.Y, float64(standardTol))
	assert.InDelta(t, vt.Z, va.Z, float64(standardTol))
}

func TestMatrix4(t *testing.T) {
	v0 := Vec3(0, 0, 0)
	vx := Vec3(1, 0, 0)
	vxyz := Vec3(1, 1, 1)

	assert.True(t, Identity4().IsIdentity())
	assert.Equal(t, vxyz, vxyz.MulMatrix4AsPoint(Identity4()))
	assert.Equal(t, vxyz, v0.MulMatrix4AsPoint(Translation4(1, 1, 1)))
	assert.Equal(t, vxyz.MulScalar(2), vxyz.MulMatrix4AsPoint(Scale4(2, 2, 2)))
	tolAssertEqualVector(t, Vec3(0, 1, 0), vx.MulMatrix4AsPoint(RotationZ4(DegToRad(90))))

	// 1,0,0 -> scale(2) = 2,0,0 -> rotate 90 = 0,2,0 -> trans 1,1,0 -> 1,3,0
	// multiplication order is *reverse* of "logical" order:
	m := Translation4(1, 1, 0).Mul(RotationZ4(DegToRad(90))).Mul(Scale4(2, 2, 2))
	tolAssertEqualVector(t, Vec3(1, 3, 0), vx.MulMatrix4AsPoint(m))
	assert.Equal(t, Vec3(1, 1, 0), Translation4(1, 1, 0).Translation())
}

func TestMatrix4MulIdentity(t *testing.T) {
	m := Translation4(3, 4, 5).Mul(Scale4(2, 3, 4))
	assert.Equal(t, *m, *m.Mul(Identity4()))
	assert.Equal(t, *m, *Identity4().Mul(m))
}
