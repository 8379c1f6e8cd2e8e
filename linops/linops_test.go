// Copyright 2025 The probnum Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package linops_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdi-shafiei/probnum/linops"
	"github.com/mahdi-shafiei/probnum/tensor"
)

func TestCongruenceOfSymmetricKronecker(t *testing.T) {
	ones, err := linops.NewMatrixMult(tensor.Ones(tensor.Shape{2, 2}))
	require.NoError(t, err)
	sigma, err := linops.NewSymmetricKronecker(linops.NewIdentity(2), ones)
	require.NoError(t, err)

	a, err := tensor.FromRows([][]float64{{1, -4, 0, 0}, {0, 0, 1, -4}})
	require.NoError(t, err)
	aop, err := linops.NewMatrixMult(a)
	require.NoError(t, err)

	cov, err := linops.Congruence(aop, sigma)
	require.NoError(t, err)
	assert.IsType(t, &linops.Product{}, cov)

	s := sigma.ToDense()
	at, err := tensor.MatMul(s, aop.T().ToDense())
	require.NoError(t, err)
	want, err := tensor.MatMul(a, at)
	require.NoError(t, err)
	assert.True(t, tensor.AllClose(cov.ToDense(), want, 1e-12, 1e-12))
}

func TestApplyShapeMismatch(t *testing.T) {
	_, err := linops.Apply(linops.NewIdentity(2), tensor.Vector(1, 2, 3))
	assert.ErrorIs(t, err, linops.ErrShapeMismatch)
}
