// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package ksf provides the Key Stretching Functions used to harden vault passphrases.
package ksf

import (
	"errors"
	"fmt"

	"github.com/bytemare/ksf"
)

// ErrParameters indicates an invalid amount of KSF parameters.
var ErrParameters = errors.New("invalid number of KSF parameters")

// KSF wraps a key stretching function and exposes its functions.
type KSF struct {
	ksfInterface
}

// NewKSF returns a newly instantiated KSF. The zero identifier yields the identity KSF.
func NewKSF(id ksf.Identifier) *KSF {
	if id == 0 {
		return &KSF{&IdentityKSF{}}
	}

	return &KSF{id.Get()}
}

// Available returns whether the identifier designates a usable KSF, the identity KSF included.
func Available(id ksf.Identifier) bool {
	return id == 0 || id.Available()
}

// Set replaces the KSF parameters. If parameters are provided, they must match the amount of canonical parameters.
func (k *KSF) Set(parameters ...int) error {
	if len(parameters) == 0 {
		return nil
	}

	if len(parameters) != len(k.Params()) {
		return fmt.Errorf("%w: expected %d, got %d", ErrParameters, len(k.Params()), len(parameters))
	}

	k.Parameterize(parameters...)

	return nil
}

type ksfInterface interface {
	// Harden uses default parameters for the key derivation function over the input password and salt.
	Harden(password, salt []byte, length int) []byte

	// Parameterize replaces the functions parameters with the new ones.
	// Must match the amount of parameters for the KSF.
	Parameterize(parameters ...int)

	// Params returns the list of internal parameters. If none were provided or modified,
	// the recommended defaults values are used.
	Params() []int
}

// IdentityKSF represents a KSF with no operations.
type IdentityKSF struct{}

// Harden returns the password as is.
func (i IdentityKSF) Harden(password, _ []byte, _ int) []byte {
	return password
}

// Parameterize applies KSF parameters if defined.
func (i IdentityKSF) Parameterize(_ ...int) {
	// no-op
}

// Params returns nil, the identity KSF has no parameters.
func (i IdentityKSF) Params() []int {
	return nil
}
