// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package anonake_test

import (
	"context"
	"errors"
	"log"
	"strings"
	"testing"

	"github.com/bytemare/anonake"
	"github.com/bytemare/anonake/message"
)

func init() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
}

// helper functions

type configuration struct {
	conf *anonake.Configuration
	name string
}

// The KSF is left to the identity function so that vault tests stay fast.
var configurationTable = []*configuration{
	{
		name: "Ristretto255-Ed25519-SHA256-AESCTR",
		conf: &anonake.Configuration{
			Clients:   3,
			KEM:       anonake.Ristretto255,
			Signature: anonake.Ed25519,
			Hash:      anonake.SHA256,
			PRF:       anonake.AESCTR,
			Broadcast: anonake.BroadcastPKE,
		},
	},
	{
		name: "P256-ECDSAP256-SHA3_256-ChaCha20",
		conf: &anonake.Configuration{
			Clients:   2,
			KEM:       anonake.P256,
			Signature: anonake.ECDSAP256,
			Hash:      anonake.SHA3_256,
			PRF:       anonake.ChaCha20,
			Broadcast: anonake.BroadcastPKE,
		},
	},
	{
		name: "Secp256k1-MLDSA44-BLAKE3-AESCTR",
		conf: &anonake.Configuration{
			Clients:   3,
			KEM:       anonake.Secp256k1,
			Signature: anonake.MLDSA44,
			Hash:      anonake.BLAKE3,
			PRF:       anonake.AESCTR,
			Broadcast: anonake.BroadcastPKE,
		},
	},
	{
		name: "Kyber512-MLDSA65-SHA256-ChaCha20",
		conf: &anonake.Configuration{
			Clients:   2,
			KEM:       anonake.Kyber512,
			Signature: anonake.MLDSA65,
			Hash:      anonake.SHA256,
			PRF:       anonake.ChaCha20,
			Broadcast: anonake.BroadcastPKE,
		},
	},
	{
		name: "Kyber768-Ed25519-BLAKE3-AESCTR",
		conf: &anonake.Configuration{
			Clients:   4,
			Workers:   2,
			KEM:       anonake.Kyber768,
			Signature: anonake.Ed25519,
			Hash:      anonake.BLAKE3,
			PRF:       anonake.AESCTR,
			Broadcast: anonake.BroadcastPKE,
		},
	},
	{
		name: "Kyber1024-MLDSA87-SHA3_256-AESCTR",
		conf: &anonake.Configuration{
			Clients:   2,
			KEM:       anonake.Kyber1024,
			Signature: anonake.MLDSA87,
			Hash:      anonake.SHA3_256,
			PRF:       anonake.AESCTR,
			Broadcast: anonake.BroadcastPKE,
		},
	},
	{
		name: "MLKEM768-Ed25519-SHA256-ChaCha20",
		conf: &anonake.Configuration{
			Clients:   3,
			Workers:   1,
			KEM:       anonake.MLKEM768,
			Signature: anonake.Ed25519,
			Hash:      anonake.SHA256,
			PRF:       anonake.ChaCha20,
			Broadcast: anonake.BroadcastPKE,
		},
	},
	{
		name: "Ristretto255-Ed25519-SHA256-XVRF",
		conf: &anonake.Configuration{
			Clients:   3,
			KEM:       anonake.Ristretto255,
			Signature: anonake.Ed25519,
			Hash:      anonake.SHA256,
			PRF:       anonake.AESCTR,
			Broadcast: anonake.BroadcastXVRF,
		},
	},
	{
		name: "MLKEM768-MLDSA44-SHA3_256-XVRF",
		conf: &anonake.Configuration{
			Clients:   2,
			Workers:   1,
			KEM:       anonake.MLKEM768,
			Signature: anonake.MLDSA44,
			Hash:      anonake.SHA3_256,
			PRF:       anonake.ChaCha20,
			Broadcast: anonake.BroadcastXVRF,
		},
	},
	{
		name: "SingleClient",
		conf: &anonake.Configuration{
			Clients:   1,
			KEM:       anonake.Ristretto255,
			Signature: anonake.Ed25519,
			Hash:      anonake.SHA256,
			PRF:       anonake.AESCTR,
			Broadcast: anonake.BroadcastPKE,
		},
	},
}

func testAll(t *testing.T, f func(*testing.T, *configuration)) {
	for _, test := range configurationTable {
		t.Run(test.name, func(t *testing.T) {
			f(t, test)
		})
	}
}

func register(t *testing.T, conf *anonake.Configuration) (*anonake.Server, []*anonake.Credentials) {
	t.Helper()

	server, credentials, err := conf.Registration()
	if err != nil {
		t.Fatal(err)
	}

	if len(credentials) != conf.Clients {
		t.Fatalf("expected %d credentials, got %d", conf.Clients, len(credentials))
	}

	return server, credentials
}

func newClient(t *testing.T, conf *anonake.Configuration, credentials *anonake.Credentials) *anonake.Client {
	t.Helper()

	client, err := conf.Client(credentials)
	if err != nil {
		t.Fatal(err)
	}

	return client
}

// exchange holds the messages of one handshake, driven round by round.
type exchange struct {
	client *anonake.Client
	server *anonake.Server
	m1     *message.M1
	m2     *message.M2
	m3     *message.M3
	m4     *message.M4
	m5     *message.M5
}

func (e *exchange) round1(t *testing.T) {
	t.Helper()

	var err error
	if e.m1, err = e.client.Round1(); err != nil {
		t.Fatal(err)
	}

	if err = e.server.ReceiveM1(e.m1); err != nil {
		t.Fatal(err)
	}
}

func (e *exchange) round2(t *testing.T) {
	t.Helper()

	var err error
	if e.m2, err = e.server.Round2(context.Background(), e.client.ID()); err != nil {
		t.Fatal(err)
	}

	if err = e.client.ReceiveM2(e.m2); err != nil {
		t.Fatal(err)
	}
}

func (e *exchange) round3(t *testing.T) {
	t.Helper()

	var err error
	if e.m3, err = e.client.Round3(); err != nil {
		t.Fatal(err)
	}

	if err = e.server.ReceiveM3(e.m3); err != nil {
		t.Fatal(err)
	}
}

func (e *exchange) round4(t *testing.T) {
	t.Helper()

	var err error
	if e.m4, err = e.server.Round4(e.client.ID()); err != nil {
		t.Fatal(err)
	}

	if err = e.client.ReceiveM4(e.m4); err != nil {
		t.Fatal(err)
	}
}

func (e *exchange) round5(t *testing.T) {
	t.Helper()

	var err error
	if e.m5, err = e.client.Round5(context.Background()); err != nil {
		t.Fatal(err)
	}

	if err = e.server.ReceiveM5(e.m5); err != nil {
		t.Fatal(err)
	}
}

func (e *exchange) round6(t *testing.T) {
	t.Helper()

	if err := e.server.Round6(e.client.ID()); err != nil {
		t.Fatal(err)
	}
}

func (e *exchange) run(t *testing.T) {
	t.Helper()
	e.round1(t)
	e.round2(t)
	e.round3(t)
	e.round4(t)
	e.round5(t)
	e.round6(t)
}

// copyM2 returns an independent copy of the broadcast, through its wire encoding.
func copyM2(t *testing.T, conf *anonake.Configuration, m2 *message.M2) *message.M2 {
	t.Helper()

	d, err := conf.Deserializer()
	if err != nil {
		t.Fatal(err)
	}

	c, err := d.M2(m2.Serialize())
	if err != nil {
		t.Fatal(err)
	}

	return c
}

// expectErrors verifies that err matches every target.
func expectErrors(t *testing.T, err error, targets ...error) {
	t.Helper()

	if err == nil {
		t.Fatal("expected an error")
	}

	for _, target := range targets {
		if !errors.Is(err, target) {
			t.Fatalf("expected error %q to match %q", err, target)
		}
	}
}

func expectClientAborted(t *testing.T, client *anonake.Client) {
	t.Helper()

	if client.State() != anonake.StateAborted {
		t.Fatalf("expected aborted client, got %s", client.State())
	}

	if _, err := client.SessionKey(); err == nil {
		t.Fatal("expected no session key from an aborted client")
	}
}

func expectServerAborted(t *testing.T, server *anonake.Server, id uint32) {
	t.Helper()

	state, err := server.State(id)
	if err != nil {
		t.Fatal(err)
	}

	if state != anonake.StateAborted {
		t.Fatalf("expected aborted slot, got %s", state)
	}

	if _, err = server.SessionKey(id); err == nil {
		t.Fatal("expected no session key from an aborted slot")
	}
}

func flip(b []byte) {
	b[len(b)/2] ^= 0xff
}

func hasPrefixFold(s, prefix string) bool {
	return strings.HasPrefix(strings.ToLower(s), strings.ToLower(prefix))
}
