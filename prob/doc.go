// Copyright 2025 The probnum Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package prob provides random variables with analytic moment propagation.
//
// # Overview
//
// A RandomVariable carries a shape, a data type and a distribution. Affine
// arithmetic with constants returns a new RandomVariable whose mean and
// covariance are transformed in closed form; covariances are lazy linear
// operators from package linops.
//
// # Basic Usage
//
//	mean := tensor.Vector(-1, 3)
//	d, _ := prob.NewNormal(mean, linops.NewIdentity(2))
//	x, _ := prob.New(prob.WithDistribution(d))
//
//	a, _ := tensor.FromRows([][]float64{{1, 2}, {3, 4}})
//	y, _ := prob.MatMul(a, x)      // y ~ N(A·μ, A·Σ·Aᵀ)
//	z, _ := y.Add([]float64{1, 1}) // shift the mean
//
// # Combining random variables
//
// A degenerate (Dirac) random variable combines with anything as the
// constant it holds. Combining two uncertain random variables fails with
// ErrUnknownDependence; use AddIndependent or SubIndependent when they are
// known to be independent.
package prob
