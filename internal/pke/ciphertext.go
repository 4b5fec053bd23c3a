// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package pke

import (
	"bytes"
	"slices"

	"github.com/bytemare/anonake/internal/encoding"
)

// Ciphertext is a KEM encapsulation with the AEAD nonce and sealed message.
type Ciphertext struct {
	Encapsulation []byte
	Nonce         []byte
	Sealed        []byte
}

// Serialize returns the wire encoding of the ciphertext.
func (c *Ciphertext) Serialize() []byte {
	return encoding.Concatenate(c.Encapsulation, c.Nonce, c.Sealed)
}

// Len returns the length of the serialized ciphertext.
func (c *Ciphertext) Len() int {
	return len(c.Encapsulation) + len(c.Nonce) + len(c.Sealed)
}

// Equal returns whether both ciphertexts are identical in every component.
func (c *Ciphertext) Equal(other *Ciphertext) bool {
	if c == nil || other == nil {
		return c == other
	}

	return bytes.Equal(c.Encapsulation, other.Encapsulation) &&
		bytes.Equal(c.Nonce, other.Nonce) &&
		bytes.Equal(c.Sealed, other.Sealed)
}

// Clone returns a deep copy of the ciphertext.
func (c *Ciphertext) Clone() *Ciphertext {
	if c == nil {
		return nil
	}

	return &Ciphertext{
		Encapsulation: slices.Clone(c.Encapsulation),
		Nonce:         slices.Clone(c.Nonce),
		Sealed:        slices.Clone(c.Sealed),
	}
}
