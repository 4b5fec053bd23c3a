// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package broadcast implements the per-recipient encryption of the server nonce in the round 2 broadcast, and the
// check that lets every recipient verify, after the seed reveal, that all the others received the same nonce.
//
// Two schemes are provided. PKE encrypts the nonce with randomness scheduled by a PRF from the seed, and the check
// re-encrypts. XVRF masks the nonce with the output of a verifiable random function built from a unique signature
// over the seed, and the check verifies the revealed proofs.
package broadcast

import (
	"errors"

	"github.com/bytemare/anonake/internal/hashing"
	"github.com/bytemare/anonake/internal/kem"
	"github.com/bytemare/anonake/internal/pke"
	"github.com/bytemare/anonake/internal/prf"
	"github.com/bytemare/anonake/internal/signature"
)

var (
	// ErrUnique is returned when the XVRF is built over a signature scheme with randomized signatures.
	ErrUnique = errors.New("the X-VRF requires a deterministic signature scheme")

	// ErrCiphertextLength is returned when a broadcast ciphertext has the wrong length.
	ErrCiphertextLength = errors.New("invalid broadcast ciphertext length")

	// ErrNonceLength is returned when the nonce can't be masked by the scheme.
	ErrNonceLength = errors.New("invalid broadcast nonce length")
)

// Identifier identifies a broadcast scheme.
type Identifier byte

const (
	// PKE encrypts with PRF-scheduled randomness, and checks by re-encryption.
	PKE Identifier = 1 + iota

	// XVRF masks with an X-VRF output, and checks with the VRF proofs.
	XVRF

	maxID
)

// Available returns whether the Identifier designates a supported broadcast scheme.
func (i Identifier) Available() bool {
	return i > 0 && i < maxID
}

// String returns the scheme's name.
func (i Identifier) String() string {
	switch i {
	case PKE:
		return "PKE"
	case XVRF:
		return "X-VRF"
	default:
		return "unknown"
	}
}

// Scheme seals a nonce to each recipient of a broadcast, and checks a revealed broadcast.
type Scheme interface {
	// Name returns the scheme's name.
	Name() string

	// GenerateKeyPair returns a fresh recipient key pair.
	GenerateKeyPair() (publicKey, secretKey []byte, err error)

	// CiphertextLength returns the length of every ciphertext.
	CiphertextLength() int

	// ProofLength returns the length of every proof revealed with the seed. It is 0 if the scheme needs none.
	ProofLength() int

	// Seal returns recipient index's ciphertext of the nonce under the seed, and the proof to reveal later. Schemes
	// that encrypt ignore the secret key, schemes that evaluate a VRF ignore the public key.
	Seal(seed []byte, index int, publicKey, secretKey, nonce []byte) (ciphertext, proof []byte, err error)

	// Open returns the nonce in the recipient's ciphertext.
	Open(seed []byte, index int, secretKey, ciphertext []byte) ([]byte, error)

	// Verify returns whether ciphertext and proof are recipient index's share of a broadcast of the nonce under the
	// seed. An error is only returned if the check could not run.
	Verify(seed []byte, index int, publicKey, nonce, ciphertext, proof []byte) (bool, error)
}

// New returns the scheme of the identifier over the primitives. It panics if the identifier is not available.
func (i Identifier) New(k kem.KEM, f prf.Identifier, s signature.Scheme, h hashing.Identifier) (Scheme, error) {
	switch i {
	case PKE:
		return &encryption{kem: k, pke: pke.New(k), prf: f}, nil
	case XVRF:
		u, ok := s.(signature.UniqueScheme)
		if !ok {
			return nil, ErrUnique
		}

		return &xvrf{scheme: u, hash: h}, nil
	default:
		panic("unknown broadcast identifier")
	}
}
