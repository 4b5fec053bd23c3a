// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package broadcast

import (
	"crypto/subtle"

	"github.com/bytemare/anonake/internal/kem"
	"github.com/bytemare/anonake/internal/pke"
	"github.com/bytemare/anonake/internal/prf"
)

// nonceLength is the length of the nonce every ciphertext carries.
const nonceLength = 32

type encryption struct {
	kem kem.KEM
	pke *pke.PKE
	prf prf.Identifier
}

func (e *encryption) Name() string {
	return PKE.String()
}

func (e *encryption) GenerateKeyPair() (publicKey, secretKey []byte, err error) {
	return e.kem.GenerateKeyPair()
}

func (e *encryption) CiphertextLength() int {
	return e.pke.CiphertextLength(nonceLength)
}

func (e *encryption) ProofLength() int {
	return 0
}

func (e *encryption) Seal(seed []byte, index int, publicKey, _, nonce []byte) (ciphertext, proof []byte, err error) {
	if len(nonce) != nonceLength {
		return nil, nil, ErrNonceLength
	}

	rho, err := e.prf.Evaluate(seed, uint64(index), e.pke.RandomnessLength())
	if err != nil {
		return nil, nil, err
	}

	c, err := e.pke.Encrypt(publicKey, nonce, rho)
	if err != nil {
		return nil, nil, err
	}

	return c.Serialize(), nil, nil
}

func (e *encryption) Open(_ []byte, _ int, secretKey, ciphertext []byte) ([]byte, error) {
	c, err := e.pke.Parse(ciphertext, nonceLength)
	if err != nil {
		return nil, ErrCiphertextLength
	}

	return e.pke.Decrypt(secretKey, c)
}

func (e *encryption) Verify(seed []byte, index int, publicKey, nonce, ciphertext, proof []byte) (bool, error) {
	if len(proof) != 0 {
		return false, nil
	}

	expected, _, err := e.Seal(seed, index, publicKey, nil, nonce)
	if err != nil {
		return false, err
	}

	return subtle.ConstantTimeCompare(expected, ciphertext) == 1, nil
}
