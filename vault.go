// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package anonake

import (
	"bytes"
	"crypto"
	"crypto/aes"
	"crypto/cipher"

	"github.com/bytemare/anonake/internal"
	"github.com/bytemare/anonake/internal/encoding"
	"github.com/bytemare/anonake/internal/hashing"
	"github.com/bytemare/anonake/internal/ksf"
	"github.com/bytemare/anonake/internal/random"
	"github.com/bytemare/anonake/internal/tag"
)

const (
	vaultSaltLength  = 16
	vaultNonceLength = 12
	vaultKeyLength   = 32
)

// Seal encrypts the server's long-term key material (signing key and every registered key pair) under a key
// hardened from the passphrase with the configuration's KSF. The result can be stored and reopened with
// Configuration.OpenServer. Handshake state is not sealed.
func (s *Server) Seal(passphrase []byte) ([]byte, error) {
	header := s.conf.Encoded
	salt := random.Bytes(vaultSaltLength)
	nonce := random.Bytes(vaultNonceLength)

	aead, err := vault(s.conf.KSF, passphrase, salt)
	if err != nil {
		return nil, ErrVault.Join(err)
	}

	payload := encoding.WriteSlice(nil, s.signingKey)
	payload = encoding.WriteSlice(payload, s.verificationKey)
	payload = encoding.WriteSlices(payload, s.publicKeys)
	payload = encoding.WriteSlices(payload, s.secretKeys)

	defer clear(payload)

	return aead.Seal(encoding.Concatenate(header, salt, nonce), nonce, payload, header), nil
}

// OpenServer restores a server sealed with Server.Seal under the same configuration and passphrase.
func (c *Configuration) OpenServer(sealed, passphrase []byte) (*Server, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	header := conf.Encoded
	if len(sealed) < len(header)+vaultSaltLength+vaultNonceLength {
		return nil, ErrVault.Join(internal.ErrInvalidEncoding)
	}

	if !bytes.Equal(sealed[:len(header)], header) {
		return nil, ErrVault.Join(internal.ErrWrongConfiguration)
	}

	offset := len(header)
	salt := sealed[offset : offset+vaultSaltLength]
	offset += vaultSaltLength
	nonce := sealed[offset : offset+vaultNonceLength]
	offset += vaultNonceLength

	aead, err := vault(conf.KSF, passphrase, salt)
	if err != nil {
		return nil, ErrVault.Join(err)
	}

	payload, err := aead.Open(nil, nonce, sealed[offset:], header)
	if err != nil {
		return nil, ErrVault.Join(internal.ErrVaultPassphrase)
	}

	defer clear(payload)

	server, err := openVault(conf, payload)
	if err != nil {
		return nil, ErrVault.Join(err)
	}

	return server, nil
}

func openVault(conf *internal.Configuration, payload []byte) (*Server, error) {
	sk, rem, err := encoding.ReadSlice(payload)
	if err != nil {
		return nil, err
	}

	vk, rem, err := encoding.ReadSlice(rem)
	if err != nil {
		return nil, err
	}

	publicKeys, rem, err := encoding.ReadSlices(rem)
	if err != nil {
		return nil, err
	}

	secretKeys, rem, err := encoding.ReadSlices(rem)
	if err != nil {
		return nil, err
	}

	if len(rem) != 0 {
		return nil, internal.ErrInvalidEncoding
	}

	return newServer(conf, bytes.Clone(sk), bytes.Clone(vk), cloneAll(publicKeys), cloneAll(secretKeys))
}

func cloneAll(in [][]byte) [][]byte {
	out := make([][]byte, len(in))
	for i, b := range in {
		out[i] = bytes.Clone(b)
	}

	return out
}

// vault returns the AEAD keyed by the hardened passphrase.
func vault(k *ksf.KSF, passphrase, salt []byte) (cipher.AEAD, error) {
	hardened := k.Harden(passphrase, salt, vaultKeyLength)
	key := hashing.NewKDF(crypto.SHA256).DeriveKey(encoding.Concat(salt, hardened), []byte(tag.VaultKey), vaultKeyLength)

	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
