// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package hashing wraps the hash functions used for commitments and session keys, and the KDF.
package hashing

import (
	"crypto"

	"github.com/bytemare/hash"
	"github.com/zeebo/blake3"
)

// Size is the output length of every supported hash function.
const Size = 32

// Identifier identifies a fixed 32-byte output hash function.
type Identifier byte

const (
	// SHA256 identifies SHA-256.
	SHA256 Identifier = 1 + iota

	// SHA3_256 identifies SHA3-256.
	SHA3_256

	// BLAKE3 identifies BLAKE3 with 32 bytes of output.
	BLAKE3

	maxID
)

// Available returns whether the Identifier designates a supported hash function.
func (i Identifier) Available() bool {
	return i > 0 && i < maxID
}

// String returns the hash function's name.
func (i Identifier) String() string {
	switch i {
	case SHA256:
		return "SHA-256"
	case SHA3_256:
		return "SHA3-256"
	case BLAKE3:
		return "BLAKE3"
	default:
		return "unknown"
	}
}

// Size returns the output length of the hash function.
func (i Identifier) Size() int {
	return Size
}

// Sum returns the digest over the concatenation of the input.
func (i Identifier) Sum(input ...[]byte) []byte {
	switch i {
	case BLAKE3:
		h := blake3.New()
		for _, in := range input {
			_, _ = h.Write(in)
		}

		return h.Sum(nil)
	case SHA3_256:
		return sumFixed(crypto.SHA3_256, input)
	case SHA256:
		return sumFixed(crypto.SHA256, input)
	default:
		panic("unknown hash function identifier")
	}
}

func sumFixed(id crypto.Hash, input [][]byte) []byte {
	h := hash.FromCrypto(id).GetHashFunction()
	for _, in := range input {
		_, _ = h.Write(in)
	}

	return h.Sum(nil)
}
