// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package message provides the six-round handshake message structures and their wire encodings.
//
// All identifiers are encoded on 4 bytes, signatures are prefixed with their 2-byte length, and every other field has
// a length fixed by the configuration.
package message

import (
	"slices"

	"github.com/bytemare/anonake/internal/commitment"
	"github.com/bytemare/anonake/internal/encoding"
	"github.com/bytemare/anonake/internal/pke"
)

const idLength = 4

func encodeID(id uint32) []byte {
	return encoding.I2OSP(int(id), idLength)
}

// M1 is the first message of the handshake, created by the client and sent to the server. It commits to the
// client's nonce.
type M1 struct {
	Commitment []byte `json:"c"`
	ID         uint32 `json:"i"`
}

// Serialize returns the byte encoding of M1.
func (m *M1) Serialize() []byte {
	return encoding.Concat(m.Commitment, encodeID(m.ID))
}

// Len returns the length of the serialized M1.
func (m *M1) Len() int {
	return len(m.Commitment) + idLength
}

// M2 is the server's broadcast, identical for every client in an epoch. It carries the server nonce sealed to every
// registered client, the seed the seals derive from, the ephemeral public key, and the server's signature over all
// of them.
type M2 struct {
	Ciphertexts        [][]byte `json:"c"`
	Seed               []byte   `json:"r"`
	EphemeralPublicKey []byte   `json:"e"`
	Signature          []byte   `json:"s"`
}

// SigningInput returns the byte string signed by the server: c_0 || ... || c_{N-1} || r || pk*.
func (m *M2) SigningInput() []byte {
	input := make([]byte, 0, m.Len())
	for _, c := range m.Ciphertexts {
		input = append(input, c...)
	}

	input = append(input, m.Seed...)

	return append(input, m.EphemeralPublicKey...)
}

// Serialize returns the byte encoding of M2.
func (m *M2) Serialize() []byte {
	return encoding.Concat(m.SigningInput(), encoding.EncodeVector(m.Signature))
}

// Len returns the length of the serialized M2.
func (m *M2) Len() int {
	length := len(m.Seed) + len(m.EphemeralPublicKey) + 2 + len(m.Signature)
	for _, c := range m.Ciphertexts {
		length += len(c)
	}

	return length
}

// M3 is the client's commitment to the server nonce it decrypted from M2.
type M3 struct {
	Commitment []byte `json:"c"`
	ID         uint32 `json:"i"`
}

// Serialize returns the byte encoding of M3.
func (m *M3) Serialize() []byte {
	return encoding.Concat(m.Commitment, encodeID(m.ID))
}

// Len returns the length of the serialized M3.
func (m *M3) Len() int {
	return len(m.Commitment) + idLength
}

// M4 reveals the seed, one proof per recipient when the broadcast scheme uses them, and the server's signature over
// both. Proofs are empty for schemes checked by re-encryption.
type M4 struct {
	Seed      []byte   `json:"r"`
	Proofs    [][]byte `json:"p"`
	Signature []byte   `json:"s"`
}

// SigningInput returns the byte string signed by the server: r || p_0 || ... || p_{N-1}.
func (m *M4) SigningInput() []byte {
	input := slices.Clone(m.Seed)
	for _, p := range m.Proofs {
		input = append(input, p...)
	}

	return input
}

// Serialize returns the byte encoding of M4.
func (m *M4) Serialize() []byte {
	return encoding.Concat(m.SigningInput(), encoding.EncodeVector(m.Signature))
}

// Len returns the length of the serialized M4.
func (m *M4) Len() int {
	length := len(m.Seed) + 2 + len(m.Signature)
	for _, p := range m.Proofs {
		length += len(p)
	}

	return length
}

// M5 is the last message of the handshake, created by the client and sent to the server. It carries the client's
// nonce and commitment randomizer encrypted to the ephemeral key, and the opening of the client's commitment to the
// server nonce.
type M5 struct {
	Ciphertext *pke.Ciphertext     `json:"c"`
	Opening    *commitment.Opening `json:"o"`
	ID         uint32              `json:"i"`
}

// Serialize returns the byte encoding of M5.
func (m *M5) Serialize() []byte {
	return encoding.Concatenate(m.Ciphertext.Serialize(), m.Opening.Serialize(), encodeID(m.ID))
}

// Len returns the length of the serialized M5.
func (m *M5) Len() int {
	return m.Ciphertext.Len() + m.Opening.Len() + idLength
}
