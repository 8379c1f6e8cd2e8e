// Copyright 2025 The probnum Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package prob_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mahdi-shafiei/probnum/linops"
	"github.com/mahdi-shafiei/probnum/prob"
	"github.com/mahdi-shafiei/probnum/tensor"
)

func TestPublicWorkflow(t *testing.T) {
	d, err := prob.NewNormal(tensor.Vector(-1, 3), linops.NewIdentity(2))
	require.NoError(t, err)
	x, err := prob.New(prob.WithDistribution(d))
	require.NoError(t, err)

	a, err := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	y, err := prob.MatMul(a, x)
	require.NoError(t, err)
	z, err := y.Add([]float64{1, 1})
	require.NoError(t, err)

	mean, err := z.Mean()
	require.NoError(t, err)
	assert.True(t, tensor.AllClose(mean, tensor.Vector(6, 10), 0, 0))

	cov, err := z.Cov()
	require.NoError(t, err)
	want, err := tensor.FromRows([][]float64{{5, 11}, {11, 25}})
	require.NoError(t, err)
	assert.True(t, tensor.AllClose(cov.ToDense(), want, 1e-12, 1e-12))
}

func TestPublicErrors(t *testing.T) {
	_, err := prob.New()
	assert.ErrorIs(t, err, prob.ErrInsufficientInfo)

	rv, err := prob.New(prob.WithDType(tensor.Int64))
	require.NoError(t, err)
	assert.Equal(t, tensor.Int64, rv.DType())

	c, err := prob.AsRandVar(0.1)
	require.NoError(t, err)
	assert.True(t, prob.IsDegenerate(c.Distribution()))
}
