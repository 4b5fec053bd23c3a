// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package internal

import "errors"

var (
	// ErrConfigurationInvalidLength happens when deserializing a configuration of invalid length.
	ErrConfigurationInvalidLength = errors.New("invalid encoded configuration length")

	// ErrInvalidKEM indicates an unsupported KEM identifier.
	ErrInvalidKEM = errors.New("invalid KEM identifier")

	// ErrInvalidSignature indicates an unsupported signature identifier.
	ErrInvalidSignature = errors.New("invalid signature identifier")

	// ErrInvalidHash indicates an unsupported hash function identifier.
	ErrInvalidHash = errors.New("invalid hash function identifier")

	// ErrInvalidPRF indicates an unsupported PRF identifier.
	ErrInvalidPRF = errors.New("invalid PRF identifier")

	// ErrInvalidBroadcast indicates an unsupported broadcast construction, or one the signature scheme can't serve.
	ErrInvalidBroadcast = errors.New("invalid broadcast identifier")

	// ErrInvalidKSF indicates an unsupported KSF identifier.
	ErrInvalidKSF = errors.New("invalid KSF identifier")

	// ErrInvalidClients indicates an invalid number of registered clients.
	ErrInvalidClients = errors.New("the number of clients must be between 1 and 65535")

	// ErrInvalidWorkers indicates a negative worker bound.
	ErrInvalidWorkers = errors.New("the number of workers must not be negative")

	// ErrBroadcastSignature indicates that the round 2 broadcast signature does not verify.
	ErrBroadcastSignature = errors.New("invalid broadcast signature")

	// ErrSeedSignature indicates that the round 4 reveal signature does not verify.
	ErrSeedSignature = errors.New("invalid reveal signature")

	// ErrSeedMismatch indicates that the seed revealed in round 4 differs from the one signed in round 2.
	ErrSeedMismatch = errors.New("revealed seed differs from the broadcast seed")

	// ErrConsistencyCheck indicates that a broadcast entry does not carry the server nonce to its recipient.
	ErrConsistencyCheck = errors.New("broadcast ciphertext consistency check failed")

	// ErrClientCommitment indicates that the client's nonce does not open its round 1 commitment.
	ErrClientCommitment = errors.New("client commitment does not open")

	// ErrServerCommitment indicates that the server's nonce does not open the client's round 3 commitment.
	ErrServerCommitment = errors.New("server commitment does not open")

	// ErrEpochClosed indicates a commitment to the server nonce arriving after the epoch's seed was revealed.
	ErrEpochClosed = errors.New("the epoch's seed was revealed before the commitment")

	// ErrUnexpectedState indicates an out of order operation.
	ErrUnexpectedState = errors.New("operation not allowed in the current state")

	// ErrAborted indicates that the handshake was previously aborted.
	ErrAborted = errors.New("handshake has been aborted")

	// ErrUnknownClient indicates a client identifier outside the registered range.
	ErrUnknownClient = errors.New("unknown client identifier")

	// ErrNilMessage indicates a nil message.
	ErrNilMessage = errors.New("nil message")

	// ErrInvalidMessageLength indicates a message of invalid length for the configuration.
	ErrInvalidMessageLength = errors.New("invalid message length for the configuration")

	// ErrInvalidPlaintextLength indicates a decrypted value of unexpected length.
	ErrInvalidPlaintextLength = errors.New("decrypted value has an invalid length")

	// ErrInvalidEncoding indicates a malformed encoding of credentials or key material.
	ErrInvalidEncoding = errors.New("invalid encoding")

	// ErrWrongConfiguration indicates encoded material produced under another configuration.
	ErrWrongConfiguration = errors.New("encoded material does not match the configuration")

	// ErrVaultPassphrase indicates that the vault can't be opened with the passphrase.
	ErrVaultPassphrase = errors.New("wrong vault passphrase or corrupted vault")
)
