// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package tag provides the static tag strings used for domain separation.
package tag

// These strings are the static tags and labels used throughout the protocol.
const (
	// Version is the protocol identifier prefixed to derivation labels.
	Version = "AnonSymAKE-v1-"

	// KEM tags.

	// DHKEMEphemeral is the hash-to-scalar dst for deterministic ephemeral keys of the group KEM.
	DHKEMEphemeral = Version + "DHKEM-Ephemeral"

	// DHKEMSharedSecret is the KDF info to expand the group KEM's shared secret.
	DHKEMSharedSecret = Version + "DHKEM-SharedSecret"

	// Encryption tags.

	// EncryptionKey is the KDF info to derive the deterministic mode's encryption key.
	EncryptionKey = Version + "EncryptionKey"

	// FreshEncryptionKey is the KDF info to derive the fresh randomness mode's encryption key.
	FreshEncryptionKey = Version + "FreshEncryptionKey"

	// XVRFOutput prefixes the hash of the signature and input into the X-VRF output.
	XVRFOutput = Version + "XVRF-Output"

	// Vault tags.

	// VaultKey is the KDF info to derive the sealing key from a hardened passphrase.
	VaultKey = Version + "VaultKey"
)
