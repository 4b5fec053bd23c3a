// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package anonake

import (
	"github.com/bytemare/anonake/internal"
	"github.com/bytemare/anonake/internal/commitment"
	"github.com/bytemare/anonake/internal/encoding"
	"github.com/bytemare/anonake/message"
)

// Deserializer exposes the message deserialization functions.
type Deserializer struct {
	conf *internal.Configuration
}

func (d *Deserializer) commitmentMessageLength() int {
	return d.conf.Hash.Size() + internal.IDLength
}

func (d *Deserializer) parseCommitmentMessage(input []byte) ([]byte, uint32, bool) {
	if len(input) != d.commitmentMessageLength() {
		return nil, 0, false
	}

	offset := d.conf.Hash.Size()

	return input[:offset], uint32(encoding.OS2IP(input[offset:])), true
}

// M1 takes a serialized M1 message and returns a deserialized M1 structure.
func (d *Deserializer) M1(m1 []byte) (*message.M1, error) {
	c, id, ok := d.parseCommitmentMessage(m1)
	if !ok {
		return nil, ErrM1.Join(internal.ErrInvalidMessageLength)
	}

	return &message.M1{Commitment: c, ID: id}, nil
}

func (d *Deserializer) m2FixedLength() int {
	return d.conf.Clients*d.conf.Broadcast.CiphertextLength() + internal.SeedLength + d.conf.KEM.PublicKeySize()
}

// M2 takes a serialized M2 message and returns a deserialized M2 structure.
func (d *Deserializer) M2(m2 []byte) (*message.M2, error) {
	fixed := d.m2FixedLength()
	if len(m2) <= fixed {
		return nil, ErrM2.Join(internal.ErrInvalidMessageLength)
	}

	sig, n, err := encoding.DecodeVector(m2[fixed:])
	if err != nil || fixed+n != len(m2) {
		return nil, ErrM2.Join(internal.ErrInvalidMessageLength)
	}

	ciphertexts := split(m2, d.conf.Clients, d.conf.Broadcast.CiphertextLength())
	offset := d.conf.Clients * d.conf.Broadcast.CiphertextLength()

	return &message.M2{
		Ciphertexts:        ciphertexts,
		Seed:               m2[offset : offset+internal.SeedLength],
		EphemeralPublicKey: m2[offset+internal.SeedLength : fixed],
		Signature:          sig,
	}, nil
}

// M3 takes a serialized M3 message and returns a deserialized M3 structure.
func (d *Deserializer) M3(m3 []byte) (*message.M3, error) {
	c, id, ok := d.parseCommitmentMessage(m3)
	if !ok {
		return nil, ErrM3.Join(internal.ErrInvalidMessageLength)
	}

	return &message.M3{Commitment: c, ID: id}, nil
}

// M4 takes a serialized M4 message and returns a deserialized M4 structure.
func (d *Deserializer) M4(m4 []byte) (*message.M4, error) {
	fixed := internal.SeedLength + d.conf.Clients*d.conf.Broadcast.ProofLength()
	if len(m4) <= fixed {
		return nil, ErrM4.Join(internal.ErrInvalidMessageLength)
	}

	sig, n, err := encoding.DecodeVector(m4[fixed:])
	if err != nil || fixed+n != len(m4) {
		return nil, ErrM4.Join(internal.ErrInvalidMessageLength)
	}

	return &message.M4{
		Seed:      m4[:internal.SeedLength],
		Proofs:    split(m4[internal.SeedLength:fixed], d.conf.Clients, d.conf.Broadcast.ProofLength()),
		Signature: sig,
	}, nil
}

// split cuts the first n chunks of the given length from input.
func split(input []byte, n, length int) [][]byte {
	out := make([][]byte, n)
	for j := range out {
		out[j] = input[j*length : (j+1)*length]
	}

	return out
}

func (d *Deserializer) m5Length() int {
	return d.conf.SessionCiphertextLength() + 2 + internal.NonceLength + commitment.RandomizerLength +
		internal.IDLength
}

// M5 takes a serialized M5 message and returns a deserialized M5 structure.
func (d *Deserializer) M5(m5 []byte) (*message.M5, error) {
	if len(m5) != d.m5Length() {
		return nil, ErrM5.Join(internal.ErrInvalidMessageLength)
	}

	ctLength := d.conf.SessionCiphertextLength()

	ciphertext, err := d.conf.PKE.Parse(m5[:ctLength], internal.SessionPlaintextLength)
	if err != nil {
		return nil, ErrM5.Join(err)
	}

	value, n, err := encoding.DecodeVector(m5[ctLength:])
	if err != nil || len(value) != internal.NonceLength {
		return nil, ErrM5.Join(internal.ErrInvalidMessageLength)
	}

	offset := ctLength + n

	return &message.M5{
		Ciphertext: ciphertext,
		Opening: &commitment.Opening{
			Value:      value,
			Randomizer: m5[offset : offset+commitment.RandomizerLength],
		},
		ID: uint32(encoding.OS2IP(m5[offset+commitment.RandomizerLength:])),
	}, nil
}
