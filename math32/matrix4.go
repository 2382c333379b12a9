// Copyright (c) 2026, Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

// Matrix4 is a 4x4 affine transform stored in column-major order:
// elements 12, 13 and 14 hold the translation.
type Matrix4 [16]float32

// Identity4 returns a new identity [Matrix4] matrix.
func Identity4() *Matrix4 {
	m := &Matrix4{}
	m.SetIdentity()
	return m
}

// Translation4 returns a new translation matrix.
func Translation4(x, y, z float32) *Matrix4 {
	m := Identity4()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// Scale4 returns a new scale matrix.
func Scale4(x, y, z float32) *Matrix4 {
	m := Identity4()
	m[0] = x
	m[5] = y
	m[10] = z
	return m
}

// RotationZ4 returns a new matrix rotating by the given angle in radians
// around the Z axis.
func RotationZ4(theta float32) *Matrix4 {
	c, s := Cos(theta), Sin(theta)
	m := Identity4()
	m[0] = c
	m[1] = s
	m[4] = -s
	m[5] = c
	return m
}

// SetIdentity sets this matrix as the identity matrix.
func (m *Matrix4) SetIdentity() {
	*m = Matrix4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// IsIdentity returns true if this matrix is the identity matrix.
func (m *Matrix4) IsIdentity() bool {
	return *m == *Identity4()
}

// Mul returns this matrix times other matrix (this matrix is unchanged).
// As a transform, other is applied first.
func (m *Matrix4) Mul(other *Matrix4) *Matrix4 {
	nm := &Matrix4{}
	nm.SetMulMatrices(m, other)
	return nm
}

// SetMulMatrices sets this matrix to a * b.
func (m *Matrix4) SetMulMatrices(a, b *Matrix4) {
	var r Matrix4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			r[col*4+row] = a[row]*b[col*4] + a[4+row]*b[col*4+1] + a[8+row]*b[col*4+2] + a[12+row]*b[col*4+3]
		}
	}
	*m = r
}

// Translation returns the translation part of this matrix.
func (m *Matrix4) Translation() Vector3 {
	return Vec3(m[12], m[13], m[14])
}
