// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package kem provides key encapsulation mechanisms that support deterministic encapsulation from a seed.
package kem

import (
	"errors"

	group "github.com/bytemare/crypto"
	"github.com/cloudflare/circl/kem/kyber/kyber1024"
	"github.com/cloudflare/circl/kem/kyber/kyber512"
	"github.com/cloudflare/circl/kem/kyber/kyber768"
	"github.com/cloudflare/circl/kem/mlkem/mlkem768"
)

var (
	// ErrPublicKey is returned when a public key can't be decoded.
	ErrPublicKey = errors.New("invalid KEM public key")

	// ErrSecretKey is returned when a secret key can't be decoded.
	ErrSecretKey = errors.New("invalid KEM secret key")

	// ErrCiphertext is returned when an encapsulation can't be decoded.
	ErrCiphertext = errors.New("invalid KEM ciphertext")

	// ErrSeedLength is returned when a deterministic encapsulation seed has the wrong length.
	ErrSeedLength = errors.New("invalid KEM encapsulation seed length")
)

// KEM is a key encapsulation mechanism over encoded keys.
type KEM interface {
	// Name returns the name of the KEM.
	Name() string

	// PublicKeySize returns the length of an encoded public key.
	PublicKeySize() int

	// CiphertextSize returns the length of an encapsulation.
	CiphertextSize() int

	// SeedSize returns the length of the seed required for deterministic encapsulation.
	SeedSize() int

	// GenerateKeyPair returns a fresh encoded key pair.
	GenerateKeyPair() (publicKey, secretKey []byte, err error)

	// Encapsulate returns an encapsulation and shared secret using fresh randomness.
	Encapsulate(publicKey []byte) (ciphertext, sharedSecret []byte, err error)

	// EncapsulateDeterministically returns an encapsulation and shared secret fully determined by the seed.
	EncapsulateDeterministically(publicKey, seed []byte) (ciphertext, sharedSecret []byte, err error)

	// Decapsulate recovers the shared secret from the encapsulation.
	Decapsulate(secretKey, ciphertext []byte) ([]byte, error)
}

// Identifier identifies a KEM.
type Identifier byte

const (
	// Ristretto255 is the hashed DH KEM over the Ristretto255 group.
	Ristretto255 Identifier = 1 + iota

	// P256 is the hashed DH KEM over the NIST P-256 group.
	P256

	// Secp256k1 is the hashed DH KEM over the secp256k1 group.
	Secp256k1

	// Kyber512 is the Kyber512 KEM.
	Kyber512

	// Kyber768 is the Kyber768 KEM.
	Kyber768

	// Kyber1024 is the Kyber1024 KEM.
	Kyber1024

	// MLKEM768 is the ML-KEM-768 KEM.
	MLKEM768

	maxID
)

// Available returns whether the Identifier designates a supported KEM.
func (i Identifier) Available() bool {
	return i > 0 && i < maxID
}

// String returns the KEM's name.
func (i Identifier) String() string {
	if !i.Available() {
		return "unknown"
	}

	return i.Get().Name()
}

// Get returns the KEM implementation. It panics if the identifier is not available.
func (i Identifier) Get() KEM {
	switch i {
	case Ristretto255:
		return newDHKEM(group.Ristretto255Sha512, "Ristretto255-DHKEM")
	case P256:
		return newDHKEM(group.P256Sha256, "P256-DHKEM")
	case Secp256k1:
		return newDHKEM(group.Secp256k1, "Secp256k1-DHKEM")
	case Kyber512:
		return &circlKEM{kyber512.Scheme()}
	case Kyber768:
		return &circlKEM{kyber768.Scheme()}
	case Kyber1024:
		return &circlKEM{kyber1024.Scheme()}
	case MLKEM768:
		return &circlKEM{mlkem768.Scheme()}
	default:
		panic("unknown KEM identifier")
	}
}
