// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package anonake

// SignForTest signs the message with the server's long-term key, to forge broadcasts in tests.
func (s *Server) SignForTest(message []byte) ([]byte, error) {
	return s.signer.Sign(message)
}

// SealForTest seals the nonce to recipient index under seed with the configured broadcast scheme.
func (s *Server) SealForTest(seed, nonce []byte, index int) ([]byte, error) {
	ciphertext, _, err := s.conf.Broadcast.Seal(seed, index, s.publicKeys[index], s.secretKeys[index], nonce)
	return ciphertext, err
}
