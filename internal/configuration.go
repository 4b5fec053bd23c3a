// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package internal provides structures and functions to operate the protocol that are not part of the public API.
package internal

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bytemare/anonake/internal/broadcast"
	"github.com/bytemare/anonake/internal/hashing"
	"github.com/bytemare/anonake/internal/kem"
	"github.com/bytemare/anonake/internal/ksf"
	"github.com/bytemare/anonake/internal/parallel"
	"github.com/bytemare/anonake/internal/pke"
	"github.com/bytemare/anonake/internal/prf"
	"github.com/bytemare/anonake/internal/signature"
)

const (
	// NonceLength is the length of the client and server nonces.
	NonceLength = 32

	// SeedLength is the length of the PRF seed r.
	SeedLength = prf.KeyLength

	// IDLength is the length of an encoded client identifier.
	IDLength = 4

	// SessionPlaintextLength is the length of the client's round 5 plaintext, the nonce and its randomizer.
	SessionPlaintextLength = 2 * NonceLength
)

// Configuration is the internal representation of the instance runtime parameters.
type Configuration struct {
	Logger    *zap.Logger
	Encoded   []byte
	KEM       kem.KEM
	PKE       *pke.PKE
	Broadcast broadcast.Scheme
	Signature signature.Scheme
	KSF       *ksf.KSF
	Hash      hashing.Identifier
	Clients   int
	Workers   int
}

// SessionCiphertextLength returns the length of the client's round 5 ciphertext.
func (c *Configuration) SessionCiphertextLength() int {
	return c.PKE.CiphertextLength(SessionPlaintextLength)
}

// SealAll seals the nonce to every recipient under the seed, in index order, and returns the ciphertexts along with
// the proofs to reveal with the seed.
func (c *Configuration) SealAll(ctx context.Context, seed, nonce []byte,
	publicKeys, secretKeys [][]byte,
) (ciphertexts, proofs [][]byte, err error) {
	ciphertexts = make([][]byte, len(publicKeys))
	proofs = make([][]byte, len(publicKeys))

	err = parallel.For(ctx, len(publicKeys), c.Workers, func(_ context.Context, j int) error {
		ct, proof, err := c.Broadcast.Seal(seed, j, publicKeys[j], secretKeys[j], nonce)
		if err != nil {
			return fmt.Errorf("sealing to recipient %d: %w", j, err)
		}

		ciphertexts[j], proofs[j] = ct, proof

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return ciphertexts, proofs, nil
}

// SessionKey returns the session key K = H(n_S || n_i) and the session identifier sid = H(K).
func (c *Configuration) SessionKey(serverNonce, clientNonce []byte) (key, sid []byte) {
	key = c.Hash.Sum(serverNonce, clientNonce)
	return key, c.Hash.Sum(key)
}
