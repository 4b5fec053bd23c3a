// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package signature provides an additional abstraction and modularity to digital signature schemes.
package signature

import (
	"errors"

	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/cloudflare/circl/sign/mldsa/mldsa44"
	"github.com/cloudflare/circl/sign/mldsa/mldsa65"
	"github.com/cloudflare/circl/sign/mldsa/mldsa87"
)

var (
	// ErrSigningKey is returned when a signing key can't be decoded.
	ErrSigningKey = errors.New("invalid signing key")

	// ErrVerificationKey is returned when a verification key can't be decoded.
	ErrVerificationKey = errors.New("invalid signature verification key")
)

// Identifier indicates the signature scheme to be used.
type Identifier byte

const (
	// Ed25519 indicates usage of the Ed25519 signature scheme.
	Ed25519 Identifier = 1 + iota

	// MLDSA44 indicates usage of the ML-DSA-44 signature scheme.
	MLDSA44

	// MLDSA65 indicates usage of the ML-DSA-65 signature scheme.
	MLDSA65

	// MLDSA87 indicates usage of the ML-DSA-87 signature scheme.
	MLDSA87

	// ECDSAP256 indicates usage of ECDSA over P-256 with SHA-256, through Tink keysets.
	ECDSAP256

	maxID
)

// Scheme abstracts digital signature key generation and key loading.
type Scheme interface {
	// Name returns the name of the signature scheme.
	Name() string

	// GenerateKey generates a fresh encoded key pair.
	GenerateKey() (publicKey, secretKey []byte, err error)

	// NewSigner loads the encoded secret key.
	NewSigner(secretKey []byte) (Signer, error)

	// NewVerifier loads the encoded public key.
	NewVerifier(publicKey []byte) (Verifier, error)
}

// UniqueScheme is a Scheme whose signatures have a fixed size and are a deterministic function of the key and the
// message. Ed25519 and ML-DSA in its deterministic mode are unique, ECDSA is not.
type UniqueScheme interface {
	Scheme

	// SignatureSize returns the length of every signature.
	SignatureSize() int
}

// Signer signs messages with a loaded secret key. The message doesn't need to be hashed beforehand.
type Signer interface {
	Sign(message []byte) ([]byte, error)
}

// Verifier checks signatures against a loaded public key.
type Verifier interface {
	Verify(message, signature []byte) bool
}

// Available returns whether the Identifier designates a supported signature scheme.
func (i Identifier) Available() bool {
	return i > 0 && i < maxID
}

// String returns the scheme's name.
func (i Identifier) String() string {
	if !i.Available() {
		return "unknown"
	}

	return i.Get().Name()
}

// Get returns a Scheme implementation of the identifier. It panics if the identifier is not available.
func (i Identifier) Get() Scheme {
	switch i {
	case Ed25519:
		return &circlScheme{ed25519.Scheme()}
	case MLDSA44:
		return &circlScheme{mldsa44.Scheme()}
	case MLDSA65:
		return &circlScheme{mldsa65.Scheme()}
	case MLDSA87:
		return &circlScheme{mldsa87.Scheme()}
	case ECDSAP256:
		return &tinkScheme{}
	default:
		panic("unknown signature identifier")
	}
}
