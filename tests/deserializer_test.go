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
	"testing"

	"github.com/bytemare/anonake"
	"github.com/bytemare/anonake/internal"
	"github.com/bytemare/anonake/internal/encoding"
)

func getDeserializer(t *testing.T, c *anonake.Configuration) *anonake.Deserializer {
	t.Helper()

	d, err := c.Deserializer()
	if err != nil {
		t.Fatal(err)
	}

	return d
}

func TestDeserializer_New(t *testing.T) {
	conf := &anonake.Configuration{Clients: 0, KEM: anonake.Ristretto255}
	if _, err := conf.Deserializer(); err == nil {
		t.Fatal("expected an error")
	}
}

func TestDeserializer_RoundTrip(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server, credentials := register(t, c.conf)
		e := &exchange{client: newClient(t, c.conf, credentials[len(credentials)-1]), server: server}
		e.run(t)

		d := getDeserializer(t, c.conf)

		type parser func([]byte) (interface{ Serialize() []byte }, error)

		checks := []struct {
			name  string
			input []byte
			parse parser
		}{
			{"M1", e.m1.Serialize(), func(b []byte) (interface{ Serialize() []byte }, error) { return d.M1(b) }},
			{"M2", e.m2.Serialize(), func(b []byte) (interface{ Serialize() []byte }, error) { return d.M2(b) }},
			{"M3", e.m3.Serialize(), func(b []byte) (interface{ Serialize() []byte }, error) { return d.M3(b) }},
			{"M4", e.m4.Serialize(), func(b []byte) (interface{ Serialize() []byte }, error) { return d.M4(b) }},
			{"M5", e.m5.Serialize(), func(b []byte) (interface{ Serialize() []byte }, error) { return d.M5(b) }},
		}

		for _, check := range checks {
			m, err := check.parse(check.input)
			if err != nil {
				t.Fatalf("%s: %v", check.name, err)
			}

			if !bytes.Equal(m.Serialize(), check.input) {
				t.Fatalf("%s: re-encoding differs", check.name)
			}
		}

		if e.m1.Len() != len(e.m1.Serialize()) || e.m2.Len() != len(e.m2.Serialize()) ||
			e.m3.Len() != len(e.m3.Serialize()) || e.m4.Len() != len(e.m4.Serialize()) ||
			e.m5.Len() != len(e.m5.Serialize()) {
			t.Fatal("Len() does not match the serialized length")
		}

		m5, _ := d.M5(e.m5.Serialize())
		if m5.ID != e.client.ID() {
			t.Fatalf("expected id %d, got %d", e.client.ID(), m5.ID)
		}
	})
}

func TestDeserializer_InvalidLength(t *testing.T) {
	testAll(t, func(t *testing.T, c *configuration) {
		server, credentials := register(t, c.conf)
		e := &exchange{client: newClient(t, c.conf, credentials[0]), server: server}
		e.run(t)

		d := getDeserializer(t, c.conf)

		for _, input := range [][]byte{nil, e.m1.Serialize()[1:], append(e.m1.Serialize(), 0)} {
			_, err := d.M1(input)
			expectErrors(t, err, anonake.ErrM1, internal.ErrInvalidMessageLength)
		}

		for _, input := range [][]byte{nil, e.m2.Serialize()[1:], append(e.m2.Serialize(), 0)} {
			_, err := d.M2(input)
			expectErrors(t, err, anonake.ErrM2, internal.ErrInvalidMessageLength)
		}

		for _, input := range [][]byte{nil, e.m3.Serialize()[1:], append(e.m3.Serialize(), 0)} {
			_, err := d.M3(input)
			expectErrors(t, err, anonake.ErrM3, internal.ErrInvalidMessageLength)
		}

		for _, input := range [][]byte{nil, e.m4.Serialize()[1:], append(e.m4.Serialize(), 0)} {
			_, err := d.M4(input)
			expectErrors(t, err, anonake.ErrM4, internal.ErrInvalidMessageLength)
		}

		for _, input := range [][]byte{nil, e.m5.Serialize()[1:], append(e.m5.Serialize(), 0)} {
			_, err := d.M5(input)
			expectErrors(t, err, anonake.ErrM5, internal.ErrInvalidMessageLength)
		}
	})
}

func TestDeserializer_M5OpeningLength(t *testing.T) {
	conf := configurationTable[0].conf
	server, credentials := register(t, conf)
	e := &exchange{client: newClient(t, conf, credentials[0]), server: server}
	e.run(t)

	// same total length, but the opened value is announced one byte shorter
	encoded := e.m5.Serialize()
	offset := e.m5.Ciphertext.Len()
	copy(encoded[offset:], encoding.I2OSP(internal.NonceLength-1, 2))

	_, err := getDeserializer(t, conf).M5(encoded)
	expectErrors(t, err, anonake.ErrM5, internal.ErrInvalidMessageLength)
}
