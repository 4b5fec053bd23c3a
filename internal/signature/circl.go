// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package signature

import (
	"fmt"

	"github.com/cloudflare/circl/sign"
)

type circlScheme struct {
	scheme sign.Scheme
}

func (c *circlScheme) Name() string {
	return c.scheme.Name()
}

func (c *circlScheme) SignatureSize() int {
	return c.scheme.SignatureSize()
}

func (c *circlScheme) GenerateKey() (publicKey, secretKey []byte, err error) {
	pk, sk, err := c.scheme.GenerateKey()
	if err != nil {
		return nil, nil, fmt.Errorf("generating %s key: %w", c.scheme.Name(), err)
	}

	if publicKey, err = pk.MarshalBinary(); err != nil {
		return nil, nil, err
	}

	if secretKey, err = sk.MarshalBinary(); err != nil {
		return nil, nil, err
	}

	return publicKey, secretKey, nil
}

func (c *circlScheme) NewSigner(secretKey []byte) (Signer, error) {
	sk, err := c.scheme.UnmarshalBinaryPrivateKey(secretKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningKey, err)
	}

	return &circlSigner{scheme: c.scheme, sk: sk}, nil
}

func (c *circlScheme) NewVerifier(publicKey []byte) (Verifier, error) {
	pk, err := c.scheme.UnmarshalBinaryPublicKey(publicKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationKey, err)
	}

	return &circlVerifier{scheme: c.scheme, pk: pk}, nil
}

type circlSigner struct {
	scheme sign.Scheme
	sk     sign.PrivateKey
}

func (s *circlSigner) Sign(message []byte) ([]byte, error) {
	return s.scheme.Sign(s.sk, message, nil), nil
}

type circlVerifier struct {
	scheme sign.Scheme
	pk     sign.PublicKey
}

func (v *circlVerifier) Verify(message, signature []byte) bool {
	return v.scheme.Verify(v.pk, message, signature, nil)
}
