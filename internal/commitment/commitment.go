// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package commitment implements hash-based commitments: digest = H(randomizer || value).
package commitment

import (
	"crypto/subtle"
	"slices"

	"github.com/bytemare/anonake/internal/encoding"
	"github.com/bytemare/anonake/internal/hashing"
	"github.com/bytemare/anonake/internal/random"
)

// RandomizerLength is the length of the commitment randomizer.
const RandomizerLength = 32

// Opening holds the committed value and the randomizer needed to recompute the digest.
type Opening struct {
	Value      []byte
	Randomizer []byte
}

// Serialize returns the opening's wire encoding: the length prefixed value followed by the randomizer.
func (o *Opening) Serialize() []byte {
	return encoding.Concat(encoding.EncodeVector(o.Value), o.Randomizer)
}

// Len returns the length of the serialized opening.
func (o *Opening) Len() int {
	return 2 + len(o.Value) + len(o.Randomizer)
}

// Clone returns a deep copy of the opening.
func (o *Opening) Clone() *Opening {
	if o == nil {
		return nil
	}

	return &Opening{
		Value:      slices.Clone(o.Value),
		Randomizer: slices.Clone(o.Randomizer),
	}
}

// Commit commits to x with fresh randomness, returning the digest and its opening.
func Commit(h hashing.Identifier, x []byte) ([]byte, *Opening) {
	opening := &Opening{
		Value:      slices.Clone(x),
		Randomizer: random.Bytes(RandomizerLength),
	}

	return digest(h, opening), opening
}

// Verify returns whether the opening matches the digest. It never fails otherwise.
func Verify(h hashing.Identifier, commitment []byte, opening *Opening) bool {
	if opening == nil || len(opening.Randomizer) != RandomizerLength {
		return false
	}

	return subtle.ConstantTimeCompare(commitment, digest(h, opening)) == 1
}

func digest(h hashing.Identifier, opening *Opening) []byte {
	return h.Sum(opening.Randomizer, opening.Value)
}
