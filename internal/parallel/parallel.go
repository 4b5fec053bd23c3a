// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package parallel provides bounded fan-out over an index range.
package parallel

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// Workers returns the effective worker bound: n if positive, GOMAXPROCS otherwise.
func Workers(n int) int {
	if n > 0 {
		return n
	}

	return runtime.GOMAXPROCS(0)
}

// For calls f for every index in [0, n) using at most workers goroutines. The first error cancels the context passed
// to the remaining calls and is returned once all started calls have returned.
func For(parent context.Context, n, workers int, f func(ctx context.Context, i int) error) error {
	g, ctx := errgroup.WithContext(parent)
	g.SetLimit(Workers(workers))

	for i := range n {
		if ctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			return f(ctx, i)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	// the parent may have been cancelled before any call failed
	return parent.Err()
}
