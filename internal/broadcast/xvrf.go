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

	"github.com/bytemare/anonake/internal/hashing"
	"github.com/bytemare/anonake/internal/signature"
	"github.com/bytemare/anonake/internal/tag"
)

// xvrf is the VRF obtained from a unique signature scheme: the proof over input x is pi = Sign(sk, x) and the output
// is y = H(tag || pi || x). The ciphertext is y XOR nonce.
//
// Recipient secret keys are signing keys, held by both the server and the recipient. The output stays pseudorandom to
// anyone holding only the public keys until the proofs are revealed.
type xvrf struct {
	scheme signature.UniqueScheme
	hash   hashing.Identifier
}

func (x *xvrf) Name() string {
	return XVRF.String()
}

func (x *xvrf) GenerateKeyPair() (publicKey, secretKey []byte, err error) {
	return x.scheme.GenerateKey()
}

func (x *xvrf) CiphertextLength() int {
	return x.hash.Size()
}

func (x *xvrf) ProofLength() int {
	return x.scheme.SignatureSize()
}

func (x *xvrf) evaluate(secretKey, input []byte) (output, proof []byte, err error) {
	signer, err := x.scheme.NewSigner(secretKey)
	if err != nil {
		return nil, nil, err
	}

	if proof, err = signer.Sign(input); err != nil {
		return nil, nil, err
	}

	return x.output(proof, input), proof, nil
}

func (x *xvrf) output(proof, input []byte) []byte {
	return x.hash.Sum([]byte(tag.XVRFOutput), proof, input)
}

func (x *xvrf) Seal(seed []byte, _ int, _, secretKey, nonce []byte) (ciphertext, proof []byte, err error) {
	if len(nonce) != x.hash.Size() {
		return nil, nil, ErrNonceLength
	}

	y, proof, err := x.evaluate(secretKey, seed)
	if err != nil {
		return nil, nil, err
	}

	subtle.XORBytes(y, y, nonce)

	return y, proof, nil
}

func (x *xvrf) Open(seed []byte, _ int, secretKey, ciphertext []byte) ([]byte, error) {
	if len(ciphertext) != x.hash.Size() {
		return nil, ErrCiphertextLength
	}

	y, proof, err := x.evaluate(secretKey, seed)
	if err != nil {
		return nil, err
	}

	clear(proof)
	subtle.XORBytes(y, y, ciphertext)

	return y, nil
}

func (x *xvrf) Verify(seed []byte, _ int, publicKey, nonce, ciphertext, proof []byte) (bool, error) {
	if len(ciphertext) != x.hash.Size() || len(nonce) != x.hash.Size() || len(proof) != x.ProofLength() {
		return false, nil
	}

	verifier, err := x.scheme.NewVerifier(publicKey)
	if err != nil {
		return false, err
	}

	if !verifier.Verify(seed, proof) {
		return false, nil
	}

	y := x.output(proof, seed)
	subtle.XORBytes(y, y, nonce)

	return subtle.ConstantTimeCompare(y, ciphertext) == 1, nil
}
