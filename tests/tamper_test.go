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

	"github.com/bytemare/anonake"
	"github.com/bytemare/anonake/internal"
	"github.com/bytemare/anonake/internal/commitment"
	"github.com/bytemare/anonake/internal/hashing"
	"github.com/bytemare/anonake/internal/kem"
	"github.com/bytemare/anonake/internal/pke"
	"github.com/bytemare/anonake/internal/random"
	"github.com/bytemare/anonake/message"
)

func TestTamper_BroadcastSignature(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server, credentials := register(t, c.conf)
		e := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		e.round1(t)

		m2, err := server.Round2(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}

		tampered := copyM2(t, c.conf, m2)
		flip(tampered.Signature)

		if err = e.client.ReceiveM2(tampered); err != nil {
			t.Fatal(err)
		}

		_, err = e.client.Round3()
		expectErrors(t, err, anonake.ErrProtocolViolation, anonake.ErrCodeProtocolViolation,
			internal.ErrBroadcastSignature)
		expectClientAborted(t, e.client)

		// every later operation fails
		_, err = e.client.Round5(context.Background())
		expectErrors(t, err, anonake.ErrClientState, internal.ErrAborted)
	})
}

func TestTamper_BroadcastContent(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server, credentials := register(t, c.conf)
		e := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		e.round1(t)

		m2, err := server.Round2(context.Background(), 0)
		if err != nil {
			t.Fatal(err)
		}

		tampered := copyM2(t, c.conf, m2)
		flip(tampered.Seed)

		if err = e.client.ReceiveM2(tampered); err != nil {
			t.Fatal(err)
		}

		_, err = e.client.Round3()
		expectErrors(t, err, anonake.ErrProtocolViolation, internal.ErrBroadcastSignature)
		expectClientAborted(t, e.client)
	})
}

func TestTamper_SeedSignature(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server, credentials := register(t, c.conf)
		e := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		e.round1(t)
		e.round2(t)
		e.round3(t)

		m4, err := server.Round4(0)
		if err != nil {
			t.Fatal(err)
		}

		tampered := &message.M4{Seed: m4.Seed, Proofs: m4.Proofs, Signature: append([]byte(nil), m4.Signature...)}
		flip(tampered.Signature)

		if err = e.client.ReceiveM4(tampered); err != nil {
			t.Fatal(err)
		}

		_, err = e.client.Round5(context.Background())
		expectErrors(t, err, anonake.ErrProtocolViolation, internal.ErrSeedSignature)
		expectClientAborted(t, e.client)
	})
}

func TestTamper_RevealProofs(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		if c.conf.Broadcast != anonake.BroadcastXVRF {
			t.Skip("proofs are only revealed with the X-VRF broadcast")
		}

		server, credentials := register(t, c.conf)
		e := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		e.round1(t)
		e.round2(t)
		e.round3(t)

		m4, err := server.Round4(0)
		if err != nil {
			t.Fatal(err)
		}

		proofs := make([][]byte, len(m4.Proofs))
		for j, p := range m4.Proofs {
			proofs[j] = append([]byte(nil), p...)
		}

		flip(proofs[len(proofs)-1])

		if err = e.client.ReceiveM4(&message.M4{Seed: m4.Seed, Proofs: proofs, Signature: m4.Signature}); err != nil {
			t.Fatal(err)
		}

		_, err = e.client.Round5(context.Background())
		expectErrors(t, err, anonake.ErrProtocolViolation, internal.ErrSeedSignature)
		expectClientAborted(t, e.client)
	})
}

func TestTamper_SeedMismatch(t *testing.T) {
	conf := configurationTable[0].conf
	server, credentials := register(t, conf)

	e := &exchange{client: newClient(t, conf, credentials[0]), server: server}
	e.round1(t)
	e.round2(t)
	e.round3(t)

	// a correctly signed seed from another epoch
	server.Rotate()

	other := &exchange{client: newClient(t, conf, credentials[1]), server: server}
	other.run(t)

	if err := e.client.ReceiveM4(other.m4); err != nil {
		t.Fatal(err)
	}

	_, err := e.client.Round5(context.Background())
	expectErrors(t, err, anonake.ErrProtocolViolation, internal.ErrSeedMismatch)
	expectClientAborted(t, e.client)
}

func TestTamper_ServerOpening(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server, credentials := register(t, c.conf)
		e := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		e.round1(t)
		e.round2(t)
		e.round3(t)
		e.round4(t)

		m5, err := e.client.Round5(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		flip(m5.Opening.Randomizer)

		if err = server.ReceiveM5(m5); err != nil {
			t.Fatal(err)
		}

		err = server.Round6(0)
		expectErrors(t, err, anonake.ErrProtocolViolation, internal.ErrServerCommitment)
		expectServerAborted(t, server, 0)
	})
}

func TestTamper_ServerNonceSubstitution(t *testing.T) {
	// the client commits to and opens a value that is not the server nonce
	conf := configurationTable[0].conf
	server, credentials := register(t, conf)
	e := &exchange{client: newClient(t, conf, credentials[0]), server: server}
	e.round1(t)
	e.round2(t)

	if _, err := e.client.Round3(); err != nil {
		t.Fatal(err)
	}

	digest, opening := commitment.Commit(hashing.Identifier(conf.Hash), random.Bytes(internal.NonceLength))
	if err := server.ReceiveM3(&message.M3{Commitment: digest, ID: 0}); err != nil {
		t.Fatal(err)
	}

	e.round4(t)

	m5, err := e.client.Round5(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	m5.Opening = opening

	if err = server.ReceiveM5(m5); err != nil {
		t.Fatal(err)
	}

	err = server.Round6(0)
	expectErrors(t, err, anonake.ErrProtocolViolation, internal.ErrServerCommitment)
	expectServerAborted(t, server, 0)
}

func TestTamper_ClientOpening(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server, credentials := register(t, c.conf)
		e := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		e.round1(t)
		e.round2(t)
		e.round3(t)
		e.round4(t)

		m5, err := e.client.Round5(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		// a well-formed encryption of another nonce and randomizer
		p := pke.New(kem.Identifier(c.conf.KEM).Get())

		m5.Ciphertext, err = p.EncryptFresh(e.m2.EphemeralPublicKey, random.Bytes(internal.SessionPlaintextLength))
		if err != nil {
			t.Fatal(err)
		}

		if err = server.ReceiveM5(m5); err != nil {
			t.Fatal(err)
		}

		err = server.Round6(0)
		expectErrors(t, err, anonake.ErrProtocolViolation, internal.ErrClientCommitment)
		expectServerAborted(t, server, 0)
	})
}

func TestTamper_ClientCiphertext(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server, credentials := register(t, c.conf)
		e := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		e.round1(t)
		e.round2(t)
		e.round3(t)
		e.round4(t)

		m5, err := e.client.Round5(context.Background())
		if err != nil {
			t.Fatal(err)
		}

		flip(m5.Ciphertext.Sealed)

		if err = server.ReceiveM5(m5); err != nil {
			t.Fatal(err)
		}

		err = server.Round6(0)
		expectErrors(t, err, anonake.ErrPrimitive, pke.ErrDecryption)
		expectServerAborted(t, server, 0)

		// the slot can be reused for a new handshake
		retry := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		retry.run(t)
	})
}

func TestTamper_ReplayedM5(t *testing.T) {
	// a final message from a previous handshake is encrypted to a closed epoch's key
	conf := configurationTable[0].conf
	server, credentials := register(t, conf)

	first := &exchange{client: newClient(t, conf, credentials[0]), server: server}
	first.run(t)

	second := &exchange{client: newClient(t, conf, credentials[0]), server: server}
	second.round1(t)
	second.round2(t)
	second.round3(t)
	second.round4(t)

	if err := server.ReceiveM5(first.m5); err != nil {
		t.Fatal(err)
	}

	err := server.Round6(0)
	expectErrors(t, err, anonake.ErrPrimitive, pke.ErrDecryption)
	expectServerAborted(t, server, 0)
}

func TestTamper_BindAfterReveal(t *testing.T) {
	// an intruder learns the server nonce of a completed handshake and tries to reuse it
	testAll(t, func(t *testing.T, c *configuration) {
		if c.conf.Clients < 2 {
			t.Skip("needs at least two clients")
		}

		server, credentials := register(t, c.conf)
		honest := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		honest.run(t)

		hash := hashing.Identifier(c.conf.Hash)
		revealed := honest.m5.Opening.Value
		clientCommitment, clientOpening := commitment.Commit(hash, random.Bytes(internal.NonceLength))

		if err := server.ReceiveM1(&message.M1{Commitment: clientCommitment, ID: 1}); err != nil {
			t.Fatal(err)
		}

		m2, err := server.Round2(context.Background(), 1)
		if err != nil {
			t.Fatal(err)
		}

		if server.Epoch() != 2 || bytes.Equal(m2.Seed, honest.m2.Seed) {
			t.Fatal("expected the reveal to close the epoch")
		}

		serverCommitment, serverOpening := commitment.Commit(hash, revealed)
		if err = server.ReceiveM3(&message.M3{Commitment: serverCommitment, ID: 1}); err != nil {
			t.Fatal(err)
		}

		if _, err = server.Round4(1); err != nil {
			t.Fatal(err)
		}

		p := pke.New(kem.Identifier(c.conf.KEM).Get())

		ciphertext, err := p.EncryptFresh(m2.EphemeralPublicKey,
			append(append([]byte(nil), clientOpening.Value...), clientOpening.Randomizer...))
		if err != nil {
			t.Fatal(err)
		}

		if err = server.ReceiveM5(&message.M5{Ciphertext: ciphertext, Opening: serverOpening, ID: 1}); err != nil {
			t.Fatal(err)
		}

		err = server.Round6(1)
		expectErrors(t, err, anonake.ErrProtocolViolation, internal.ErrServerCommitment)
		expectServerAborted(t, server, 1)
	})
}

func TestTamper_CommitAfterReveal(t *testing.T) {
	// an intruder binds to the epoch, and waits for another client's reveal before committing
	testAll(t, func(t *testing.T, c *configuration) {
		if c.conf.Clients < 2 {
			t.Skip("needs at least two clients")
		}

		server, credentials := register(t, c.conf)
		hash := hashing.Identifier(c.conf.Hash)

		honest := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		honest.round1(t)
		honest.round2(t)
		honest.round3(t)

		clientCommitment, _ := commitment.Commit(hash, random.Bytes(internal.NonceLength))
		if err := server.ReceiveM1(&message.M1{Commitment: clientCommitment, ID: 1}); err != nil {
			t.Fatal(err)
		}

		if _, err := server.Round2(context.Background(), 1); err != nil {
			t.Fatal(err)
		}

		honest.round4(t)
		honest.round5(t)
		honest.round6(t)

		serverCommitment, _ := commitment.Commit(hash, honest.m5.Opening.Value)

		err := server.ReceiveM3(&message.M3{Commitment: serverCommitment, ID: 1})
		expectErrors(t, err, anonake.ErrProtocolViolation, internal.ErrEpochClosed)
		expectServerAborted(t, server, 1)

		if _, err = server.Round4(1); err == nil {
			t.Fatal("expected no reveal for an aborted slot")
		}

		// the honest handshake is unaffected
		if _, err = server.SessionKey(0); err != nil {
			t.Fatal(err)
		}
	})
}
