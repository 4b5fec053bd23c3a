// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package anonake_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/bytemare/ksf"

	"github.com/bytemare/anonake"
	"github.com/bytemare/anonake/internal"
)

func TestVault(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		passphrase := []byte("correct horse battery staple")
		server, credentials := register(t, c.conf)

		sealed, err := server.Seal(passphrase)
		if err != nil {
			t.Fatal(err)
		}

		restored, err := c.conf.OpenServer(sealed, passphrase)
		if err != nil {
			t.Fatal(err)
		}

		if !bytes.Equal(restored.VerificationKey(), server.VerificationKey()) {
			t.Fatal("verification keys differ")
		}

		// the restored server serves the original credentials
		client := newClient(t, c.conf, credentials[0])
		if _, err = anonake.Handshake(context.Background(), client, restored); err != nil {
			t.Fatal(err)
		}

		_, err = c.conf.OpenServer(sealed, []byte("wrong"))
		expectErrors(t, err, anonake.ErrVault, anonake.ErrCodeVault, internal.ErrVaultPassphrase)

		tampered := bytes.Clone(sealed)
		tampered[len(tampered)-1] ^= 0xff

		_, err = c.conf.OpenServer(tampered, passphrase)
		expectErrors(t, err, anonake.ErrVault, internal.ErrVaultPassphrase)

		_, err = c.conf.OpenServer(sealed[:10], passphrase)
		expectErrors(t, err, anonake.ErrVault, internal.ErrInvalidEncoding)
	})
}

func TestVault_WrongConfiguration(t *testing.T) {
	conf := configurationTable[0].conf
	server, _ := register(t, conf)

	sealed, err := server.Seal([]byte("passphrase"))
	if err != nil {
		t.Fatal(err)
	}

	other := *conf
	other.Clients++

	_, err = other.OpenServer(sealed, []byte("passphrase"))
	expectErrors(t, err, anonake.ErrVault, internal.ErrWrongConfiguration)
}

func TestVault_Argon2id(t *testing.T) {
	conf := anonake.DefaultConfiguration()
	conf.Clients = 2

	if conf.KSF != ksf.Argon2id {
		t.Fatalf("unexpected default KSF %v", conf.KSF)
	}

	server, _ := register(t, conf)

	sealed, err := server.Seal([]byte("passphrase"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err = conf.OpenServer(sealed, []byte("passphrase")); err != nil {
		t.Fatal(err)
	}
}

func TestCredentials_Encoding(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server, credentials := register(t, c.conf)

		for _, creds := range credentials {
			encoded := creds.Encode(c.conf)

			decoded, err := c.conf.DecodeCredentials(encoded)
			if err != nil {
				t.Fatal(err)
			}

			if decoded.ID != creds.ID ||
				!bytes.Equal(decoded.DecryptionKey, creds.DecryptionKey) ||
				!bytes.Equal(decoded.ServerPublicKey, creds.ServerPublicKey) ||
				len(decoded.PublicKeys) != len(creds.PublicKeys) {
				t.Fatal("decoded credentials differ")
			}

			for j := range creds.PublicKeys {
				if !bytes.Equal(decoded.PublicKeys[j], creds.PublicKeys[j]) {
					t.Fatalf("public key %d differs", j)
				}
			}

			// decoded credentials are usable
			client := newClient(t, c.conf, decoded)
			if _, err = anonake.Handshake(context.Background(), client, server); err != nil {
				t.Fatal(err)
			}
		}
	})
}

func TestCredentials_Decoding(t *testing.T) {
	conf := configurationTable[0].conf
	_, credentials := register(t, conf)
	encoded := credentials[0].Encode(conf)

	_, err := conf.DecodeCredentials(encoded[:3])
	expectErrors(t, err, anonake.ErrCredentials, internal.ErrInvalidEncoding)

	_, err = conf.DecodeCredentials(encoded[:len(encoded)-1])
	expectErrors(t, err, anonake.ErrCredentials, internal.ErrInvalidEncoding)

	_, err = conf.DecodeCredentials(append(bytes.Clone(encoded), 0))
	expectErrors(t, err, anonake.ErrCredentials, internal.ErrInvalidEncoding)

	other := *conf
	other.Hash = anonake.BLAKE3

	_, err = other.DecodeCredentials(encoded)
	expectErrors(t, err, anonake.ErrCredentials, internal.ErrWrongConfiguration)

	_, err = (&anonake.Configuration{}).DecodeCredentials(encoded)
	expectErrors(t, err, anonake.ErrConfiguration)
}
