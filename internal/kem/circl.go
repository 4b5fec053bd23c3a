// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package kem

import (
	"fmt"

	"github.com/cloudflare/circl/kem"
)

// circlKEM adapts a circl KEM scheme to encoded keys.
type circlKEM struct {
	scheme kem.Scheme
}

func (c *circlKEM) Name() string        { return c.scheme.Name() }
func (c *circlKEM) PublicKeySize() int  { return c.scheme.PublicKeySize() }
func (c *circlKEM) CiphertextSize() int { return c.scheme.CiphertextSize() }
func (c *circlKEM) SeedSize() int       { return c.scheme.EncapsulationSeedSize() }

func (c *circlKEM) GenerateKeyPair() (publicKey, secretKey []byte, err error) {
	pk, sk, err := c.scheme.GenerateKeyPair()
	if err != nil {
		return nil, nil, fmt.Errorf("generating %s key pair: %w", c.scheme.Name(), err)
	}

	if publicKey, err = pk.MarshalBinary(); err != nil {
		return nil, nil, err
	}

	if secretKey, err = sk.MarshalBinary(); err != nil {
		return nil, nil, err
	}

	return publicKey, secretKey, nil
}

func (c *circlKEM) Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error) {
	pk, err := c.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrPublicKey, err)
	}

	return c.scheme.Encapsulate(pk)
}

func (c *circlKEM) EncapsulateDeterministically(publicKey, seed []byte) (ciphertext, sharedSecret []byte, err error) {
	if len(seed) != c.scheme.EncapsulationSeedSize() {
		return nil, nil, ErrSeedLength
	}

	pk, err := c.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrPublicKey, err)
	}

	return c.scheme.EncapsulateDeterministically(pk, seed)
}

func (c *circlKEM) Decapsulate(secretKey, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != c.scheme.CiphertextSize() {
		return nil, ErrCiphertext
	}

	sk, err := c.scheme.UnmarshalBinaryPrivateKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSecretKey, err)
	}

	return c.scheme.Decapsulate(sk, ciphertext)
}
