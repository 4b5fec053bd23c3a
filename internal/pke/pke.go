// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package pke implements public key encryption as a KEM combined with AES-256-GCM.
//
// Encrypt is deterministic given its randomness, which is split into the KEM encapsulation seed and the AEAD nonce.
// Re-encrypting the same message under the same key and randomness reproduces the ciphertext byte for byte, which
// makes ciphertexts checkable. EncryptFresh draws its own randomness and uses a distinct key derivation label, so its
// ciphertexts never collide with deterministic ones.
package pke

import (
	"crypto"
	"crypto/aes"
	"crypto/cipher"
	"errors"
	"fmt"

	"github.com/bytemare/anonake/internal/hashing"
	"github.com/bytemare/anonake/internal/kem"
	"github.com/bytemare/anonake/internal/random"
	"github.com/bytemare/anonake/internal/tag"
)

const (
	// NonceLength is the length of the AEAD nonce.
	NonceLength = 12

	// Overhead is the length of the AEAD authentication tag.
	Overhead = 16

	keyLength = 32
	kdfHash   = crypto.SHA256
)

var (
	// ErrRandomnessLength is returned when the encryption randomness has the wrong length.
	ErrRandomnessLength = errors.New("invalid encryption randomness length")

	// ErrCiphertextLength is returned when parsing a ciphertext of unexpected length.
	ErrCiphertextLength = errors.New("invalid ciphertext length")

	// ErrDecryption is returned when a ciphertext does not authenticate.
	ErrDecryption = errors.New("ciphertext decryption failed")
)

// PKE encrypts to KEM public keys.
type PKE struct {
	kem kem.KEM
}

// New returns a PKE over the KEM.
func New(k kem.KEM) *PKE {
	return &PKE{kem: k}
}

// RandomnessLength returns the amount of randomness consumed by Encrypt.
func (p *PKE) RandomnessLength() int {
	return p.kem.SeedSize() + NonceLength
}

// CiphertextLength returns the length of a serialized ciphertext for a plaintext of the given length.
func (p *PKE) CiphertextLength(plaintextLength int) int {
	return p.kem.CiphertextSize() + NonceLength + plaintextLength + Overhead
}

// Encrypt deterministically encrypts the message to the public key using the randomness.
func (p *PKE) Encrypt(publicKey, message, randomness []byte) (*Ciphertext, error) {
	if len(randomness) != p.RandomnessLength() {
		return nil, ErrRandomnessLength
	}

	seed, nonce := randomness[:p.kem.SeedSize()], randomness[p.kem.SeedSize():]

	enc, ss, err := p.kem.EncapsulateDeterministically(publicKey, seed)
	if err != nil {
		return nil, err
	}

	return seal(ss, tag.EncryptionKey, enc, nonce, message)
}

// Decrypt decrypts a ciphertext produced by Encrypt.
func (p *PKE) Decrypt(secretKey []byte, c *Ciphertext) ([]byte, error) {
	return p.open(secretKey, tag.EncryptionKey, c)
}

// EncryptFresh encrypts the message to the public key with fresh randomness.
func (p *PKE) EncryptFresh(publicKey, message []byte) (*Ciphertext, error) {
	enc, ss, err := p.kem.Encapsulate(publicKey)
	if err != nil {
		return nil, err
	}

	return seal(ss, tag.FreshEncryptionKey, enc, random.Bytes(NonceLength), message)
}

// DecryptFresh decrypts a ciphertext produced by EncryptFresh.
func (p *PKE) DecryptFresh(secretKey []byte, c *Ciphertext) ([]byte, error) {
	return p.open(secretKey, tag.FreshEncryptionKey, c)
}

// Parse splits a serialized ciphertext carrying a plaintext of the given length.
func (p *PKE) Parse(input []byte, plaintextLength int) (*Ciphertext, error) {
	if len(input) != p.CiphertextLength(plaintextLength) {
		return nil, ErrCiphertextLength
	}

	encLength := p.kem.CiphertextSize()

	return &Ciphertext{
		Encapsulation: input[:encLength],
		Nonce:         input[encLength : encLength+NonceLength],
		Sealed:        input[encLength+NonceLength:],
	}, nil
}

func (p *PKE) open(secretKey []byte, label string, c *Ciphertext) ([]byte, error) {
	if c == nil || len(c.Encapsulation) != p.kem.CiphertextSize() || len(c.Nonce) != NonceLength {
		return nil, ErrCiphertextLength
	}

	ss, err := p.kem.Decapsulate(secretKey, c.Encapsulation)
	if err != nil {
		return nil, err
	}

	aead, err := newAEAD(ss, label)
	if err != nil {
		return nil, err
	}

	plaintext, err := aead.Open(nil, c.Nonce, c.Sealed, c.Encapsulation)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecryption, err)
	}

	return plaintext, nil
}

func seal(sharedSecret []byte, label string, enc, nonce, message []byte) (*Ciphertext, error) {
	aead, err := newAEAD(sharedSecret, label)
	if err != nil {
		return nil, err
	}

	return &Ciphertext{
		Encapsulation: enc,
		Nonce:         append([]byte(nil), nonce...),
		Sealed:        aead.Seal(nil, nonce, message, enc),
	}, nil
}

func newAEAD(sharedSecret []byte, label string) (cipher.AEAD, error) {
	key := hashing.NewKDF(kdfHash).DeriveKey(sharedSecret, []byte(label), keyLength)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
