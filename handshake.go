// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package anonake

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

var errNilParty = errors.New("nil client or server")

// Party designates the sender of a handshake message.
type Party string

const (
	// PartyClient is the client.
	PartyClient Party = "client"

	// PartyServer is the server.
	PartyServer Party = "server"
)

// Round records the computation of one handshake round.
type Round struct {
	// Name is the round's name, e.g. "round1".
	Name string `json:"name" yaml:"name"`

	// Sender is the party that computed the round.
	Sender Party `json:"sender" yaml:"sender"`

	// Duration is the time spent computing the round, including the receiver's parsing of the message.
	Duration time.Duration `json:"duration" yaml:"duration"`

	// Length is the length of the serialized message, 0 for the server's final round.
	Length int `json:"length" yaml:"length"`
}

// Transcript is the record of one handshake run by Handshake.
type Transcript struct {
	Rounds     []Round `json:"rounds" yaml:"rounds"`
	SessionKey []byte  `json:"-" yaml:"-"`
	SessionID  []byte  `json:"sid" yaml:"sid"`
	ID         uint32  `json:"id" yaml:"id"`
}

// Total returns the total computation time of the handshake.
func (t *Transcript) Total() time.Duration {
	var total time.Duration
	for _, r := range t.Rounds {
		total += r.Duration
	}

	return total
}

// Bytes returns the total amount of bytes exchanged.
func (t *Transcript) Bytes() int {
	var total int
	for _, r := range t.Rounds {
		total += r.Length
	}

	return total
}

type serializable interface {
	Serialize() []byte
}

// transmit serializes the message and parses it back with the receiver's deserializer.
func transmit[M serializable](m M, parse func([]byte) (M, error)) (M, int, error) {
	encoded := m.Serialize()
	parsed, err := parse(encoded)

	return parsed, len(encoded), err
}

// Handshake runs all six rounds between the client and the server in-process, passing every message through its wire
// encoding, and returns the transcript. ctx is checked before every round. Client and server must come from the same
// registration. If the handshake fails once the server opened it, the client's slot is released so that it can retry.
func Handshake(ctx context.Context, client *Client, server *Server) (*Transcript, error) {
	if client == nil || server == nil {
		return nil, ErrConfiguration.Join(errNilParty)
	}

	t, opened, err := handshake(ctx, client, server)
	if err != nil {
		if opened {
			if rErr := server.Release(client.ID()); rErr == nil {
				server.log.Debug("released slot of failed handshake", zap.Uint32("client", client.ID()))
			}
		}

		return nil, err
	}

	return t, nil
}

func handshake(ctx context.Context, client *Client, server *Server) (*Transcript, bool, error) {
	d := &Deserializer{conf: server.conf}
	id := client.ID()
	t := &Transcript{ID: id, Rounds: make([]Round, 0, 6)}
	opened := false

	record := func(name string, sender Party, start time.Time, length int) {
		t.Rounds = append(t.Rounds, Round{Name: name, Sender: sender, Duration: time.Since(start), Length: length})
	}

	// Round 1
	if err := ctx.Err(); err != nil {
		return nil, opened, err
	}

	start := time.Now()

	m1, err := client.Round1()
	if err != nil {
		return nil, opened, err
	}

	m1, n, err := transmit(m1, d.M1)
	if err != nil {
		return nil, opened, err
	}

	if err = server.ReceiveM1(m1); err != nil {
		return nil, opened, err
	}

	opened = true

	record("round1", PartyClient, start, n)

	// Round 2
	if err = ctx.Err(); err != nil {
		return nil, opened, err
	}

	start = time.Now()

	m2, err := server.Round2(ctx, id)
	if err != nil {
		return nil, opened, err
	}

	m2, n, err = transmit(m2, d.M2)
	if err != nil {
		return nil, opened, err
	}

	if err = client.ReceiveM2(m2); err != nil {
		return nil, opened, err
	}

	record("round2", PartyServer, start, n)

	// Round 3
	if err = ctx.Err(); err != nil {
		return nil, opened, err
	}

	start = time.Now()

	m3, err := client.Round3()
	if err != nil {
		return nil, opened, err
	}

	m3, n, err = transmit(m3, d.M3)
	if err != nil {
		return nil, opened, err
	}

	if err = server.ReceiveM3(m3); err != nil {
		return nil, opened, err
	}

	record("round3", PartyClient, start, n)

	// Round 4
	if err = ctx.Err(); err != nil {
		return nil, opened, err
	}

	start = time.Now()

	m4, err := server.Round4(id)
	if err != nil {
		return nil, opened, err
	}

	m4, n, err = transmit(m4, d.M4)
	if err != nil {
		return nil, opened, err
	}

	if err = client.ReceiveM4(m4); err != nil {
		return nil, opened, err
	}

	record("round4", PartyServer, start, n)

	// Round 5
	if err = ctx.Err(); err != nil {
		return nil, opened, err
	}

	start = time.Now()

	m5, err := client.Round5(ctx)
	if err != nil {
		return nil, opened, err
	}

	m5, n, err = transmit(m5, d.M5)
	if err != nil {
		return nil, opened, err
	}

	if err = server.ReceiveM5(m5); err != nil {
		return nil, opened, err
	}

	record("round5", PartyClient, start, n)

	// Round 6
	if err = ctx.Err(); err != nil {
		return nil, opened, err
	}

	start = time.Now()

	if err = server.Round6(id); err != nil {
		return nil, opened, err
	}

	record("round6", PartyServer, start, 0)

	if t.SessionKey, err = client.SessionKey(); err != nil {
		return nil, opened, err
	}

	if t.SessionID, err = client.SessionID(); err != nil {
		return nil, opened, err
	}

	server.log.Debug("handshake complete",
		zap.Uint32("client", id),
		zap.Duration("total", t.Total()),
		zap.Int("bytes", t.Bytes()))

	return t, opened, nil
}
