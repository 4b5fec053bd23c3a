// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package signature

import (
	"bytes"
	"fmt"

	"github.com/tink-crypto/tink-go/v2/insecurecleartextkeyset"
	"github.com/tink-crypto/tink-go/v2/keyset"
	"github.com/tink-crypto/tink-go/v2/signature"
	"github.com/tink-crypto/tink-go/v2/tink"
)

// tinkScheme carries keys as binary serialized Tink keysets: the secret key is the cleartext private keyset and the
// public key is the public keyset without secrets.
type tinkScheme struct{}

func (tinkScheme) Name() string {
	return "ECDSA-P256-SHA256"
}

func (tinkScheme) GenerateKey() (publicKey, secretKey []byte, err error) {
	h, err := keyset.NewHandle(signature.ECDSAP256KeyTemplate())
	if err != nil {
		return nil, nil, fmt.Errorf("generating keyset: %w", err)
	}

	pub, err := h.Public()
	if err != nil {
		return nil, nil, fmt.Errorf("extracting public keyset: %w", err)
	}

	sk := new(bytes.Buffer)
	if err = insecurecleartextkeyset.Write(h, keyset.NewBinaryWriter(sk)); err != nil {
		return nil, nil, err
	}

	pk := new(bytes.Buffer)
	if err = pub.WriteWithNoSecrets(keyset.NewBinaryWriter(pk)); err != nil {
		return nil, nil, err
	}

	return pk.Bytes(), sk.Bytes(), nil
}

func (tinkScheme) NewSigner(secretKey []byte) (Signer, error) {
	h, err := insecurecleartextkeyset.Read(keyset.NewBinaryReader(bytes.NewReader(secretKey)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningKey, err)
	}

	s, err := signature.NewSigner(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSigningKey, err)
	}

	return &tinkSigner{s}, nil
}

func (tinkScheme) NewVerifier(publicKey []byte) (Verifier, error) {
	h, err := keyset.ReadWithNoSecrets(keyset.NewBinaryReader(bytes.NewReader(publicKey)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationKey, err)
	}

	v, err := signature.NewVerifier(h)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationKey, err)
	}

	return &tinkVerifier{v}, nil
}

type tinkSigner struct {
	s tink.Signer
}

func (t *tinkSigner) Sign(message []byte) ([]byte, error) {
	return t.s.Sign(message)
}

type tinkVerifier struct {
	v tink.Verifier
}

func (t *tinkVerifier) Verify(message, sig []byte) bool {
	return t.v.Verify(sig, message) == nil
}
