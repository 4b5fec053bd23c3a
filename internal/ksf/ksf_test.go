// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package ksf

import (
	"testing"

	"github.com/bytemare/ksf"
	"github.com/stretchr/testify/require"
)

func TestIdentity(t *testing.T) {
	k := NewKSF(0)
	password := []byte("passphrase")

	require.Equal(t, password, k.Harden(password, []byte("salt"), 32))
	require.Nil(t, k.Params())
	require.NoError(t, k.Set())
	require.True(t, Available(0))
}

func TestArgon2id(t *testing.T) {
	require.True(t, Available(ksf.Argon2id))

	k := NewKSF(ksf.Argon2id)
	a := k.Harden([]byte("passphrase"), []byte("salt-salt-salt-s"), 32)
	b := k.Harden([]byte("passphrase"), []byte("salt-salt-salt-t"), 32)

	require.Len(t, a, 32)
	require.NotEqual(t, a, b)
}

func TestSetParameters(t *testing.T) {
	k := NewKSF(ksf.Argon2id)
	n := len(k.Params())

	err := k.Set(make([]int, n+1)...)
	require.ErrorIs(t, err, ErrParameters)
}
