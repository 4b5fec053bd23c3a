// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package prf provides the keyed pseudorandom functions that schedule the per-recipient encryption randomness.
//
// Both functions are stream ciphers keyed with the 32-byte seed, where the 64-bit big-endian index sits in the
// high half of the counter block (AES-256-CTR) or in the nonce (ChaCha20), so that different indices never share
// keystream.
package prf

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/binary"
	"errors"

	"golang.org/x/crypto/chacha20"
)

// KeyLength is the length of the PRF key.
const KeyLength = 32

// ErrKeyLength is returned when the PRF key is not KeyLength bytes long.
var ErrKeyLength = errors.New("invalid PRF key length")

// Identifier identifies a PRF.
type Identifier byte

const (
	// AESCTR uses the AES-256-CTR keystream.
	AESCTR Identifier = 1 + iota

	// ChaCha20 uses the ChaCha20 keystream.
	ChaCha20

	maxID
)

// Available returns whether the Identifier designates a supported PRF.
func (i Identifier) Available() bool {
	return i > 0 && i < maxID
}

// String returns the PRF's name.
func (i Identifier) String() string {
	switch i {
	case AESCTR:
		return "AES-256-CTR"
	case ChaCha20:
		return "ChaCha20"
	default:
		return "unknown"
	}
}

// Evaluate returns length pseudorandom bytes for the index under key.
func (i Identifier) Evaluate(key []byte, index uint64, length int) ([]byte, error) {
	if len(key) != KeyLength {
		return nil, ErrKeyLength
	}

	out := make([]byte, length)

	switch i {
	case AESCTR:
		block, err := aes.NewCipher(key)
		if err != nil {
			return nil, err
		}

		iv := make([]byte, aes.BlockSize)
		binary.BigEndian.PutUint64(iv, index)
		cipher.NewCTR(block, iv).XORKeyStream(out, out)
	case ChaCha20:
		nonce := make([]byte, chacha20.NonceSize)
		binary.BigEndian.PutUint64(nonce[4:], index)

		s, err := chacha20.NewUnauthenticatedCipher(key, nonce)
		if err != nil {
			return nil, err
		}

		s.XORKeyStream(out, out)
	default:
		panic("unknown PRF identifier")
	}

	return out, nil
}
