// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package kem

import (
	"crypto"

	group "github.com/bytemare/crypto"

	"github.com/bytemare/anonake/internal/encoding"
	"github.com/bytemare/anonake/internal/hashing"
	"github.com/bytemare/anonake/internal/random"
	"github.com/bytemare/anonake/internal/tag"
)

const (
	dhSeedLength   = 32
	dhSecretLength = 32
	dhKDF          = crypto.SHA256
)

// dhKEM is a hashed Diffie-Hellman KEM in a prime-order group. The ephemeral secret is hashed to a scalar from the
// encapsulation seed, and the shared secret binds the DH output to both public keys.
type dhKEM struct {
	name string
	g    group.Group
}

func newDHKEM(g group.Group, name string) *dhKEM {
	return &dhKEM{name: name, g: g}
}

func (d *dhKEM) Name() string        { return d.name }
func (d *dhKEM) PublicKeySize() int  { return d.g.ElementLength() }
func (d *dhKEM) CiphertextSize() int { return d.g.ElementLength() }
func (d *dhKEM) SeedSize() int       { return dhSeedLength }

func (d *dhKEM) GenerateKeyPair() (publicKey, secretKey []byte, err error) {
	sk := d.g.NewScalar().Random()
	pk := d.g.Base().Multiply(sk)

	return pk.Encode(), sk.Encode(), nil
}

func (d *dhKEM) decodeElement(input []byte, e error) (*group.Element, error) {
	if len(input) != d.g.ElementLength() {
		return nil, e
	}

	element := d.g.NewElement()
	if err := element.Decode(input); err != nil {
		return nil, e
	}

	if element.IsIdentity() {
		return nil, e
	}

	return element, nil
}

func (d *dhKEM) Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error) {
	return d.EncapsulateDeterministically(publicKey, random.Bytes(dhSeedLength))
}

func (d *dhKEM) EncapsulateDeterministically(publicKey, seed []byte) (ciphertext, sharedSecret []byte, err error) {
	if len(seed) != dhSeedLength {
		return nil, nil, ErrSeedLength
	}

	pk, err := d.decodeElement(publicKey, ErrPublicKey)
	if err != nil {
		return nil, nil, err
	}

	esk := d.g.HashToScalar(seed, []byte(tag.DHKEMEphemeral))
	epk := d.g.Base().Multiply(esk).Encode()
	dh := pk.Multiply(esk).Encode()

	return epk, d.sharedSecret(dh, epk, publicKey), nil
}

func (d *dhKEM) Decapsulate(secretKey, ciphertext []byte) ([]byte, error) {
	sk := d.g.NewScalar()
	if len(secretKey) != d.g.ScalarLength() || sk.Decode(secretKey) != nil || sk.IsZero() {
		return nil, ErrSecretKey
	}

	epk, err := d.decodeElement(ciphertext, ErrCiphertext)
	if err != nil {
		return nil, err
	}

	pk := d.g.Base().Multiply(sk).Encode()
	dh := epk.Multiply(sk).Encode()

	return d.sharedSecret(dh, ciphertext, pk), nil
}

func (d *dhKEM) sharedSecret(dh, epk, pk []byte) []byte {
	kdf := hashing.NewKDF(dhKDF)
	prk := kdf.Extract(nil, encoding.Concatenate(dh, epk, pk))

	return kdf.Expand(prk, []byte(tag.DHKEMSharedSecret), dhSecretLength)
}
