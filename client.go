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
	"crypto/subtle"
	"errors"
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/bytemare/anonake/internal"
	"github.com/bytemare/anonake/internal/commitment"
	"github.com/bytemare/anonake/internal/encoding"
	"github.com/bytemare/anonake/internal/parallel"
	"github.com/bytemare/anonake/internal/random"
	"github.com/bytemare/anonake/internal/signature"
	"github.com/bytemare/anonake/message"
)

// Client is one handshake session of a registered client. It holds a reference to the immutable credentials and the
// per-handshake secret state. A Client is not safe for concurrent use, and a new one should be created per handshake.
type Client struct {
	conf          *internal.Configuration
	log           *zap.Logger
	credentials   *Credentials
	verifier      signature.Verifier
	commitment    []byte
	opening       *commitment.Opening
	m2            *message.M2
	serverNonce   []byte
	serverOpening *commitment.Opening
	m4            *message.M4
	sessionKey    []byte
	sessionID     []byte
	state         State
}

func newClient(conf *internal.Configuration, credentials *Credentials) (*Client, error) {
	if credentials == nil {
		return nil, ErrCredentials.Join(internal.ErrInvalidEncoding)
	}

	if len(credentials.PublicKeys) != conf.Clients || int(credentials.ID) >= conf.Clients {
		return nil, ErrCredentials.Join(internal.ErrUnknownClient)
	}

	verifier, err := conf.Signature.NewVerifier(credentials.ServerPublicKey)
	if err != nil {
		return nil, ErrCredentials.Join(err)
	}

	return &Client{
		conf:        conf,
		log:         conf.Logger.With(zap.Uint32("client", credentials.ID)),
		credentials: credentials,
		verifier:    verifier,
		state:       StateRegistered,
	}, nil
}

// ID returns the client's identifier.
func (c *Client) ID() uint32 {
	return c.credentials.ID
}

// State returns the session's current state.
func (c *Client) State() State {
	return c.state
}

// Round1 picks the client nonce and returns the M1 message committing to it.
func (c *Client) Round1() (*message.M1, error) {
	if err := c.expect(StateRegistered); err != nil {
		return nil, err
	}

	c.commitment, c.opening = commitment.Commit(c.conf.Hash, random.Bytes(internal.NonceLength))
	c.state = StateRound1

	return &message.M1{
		Commitment: slices.Clone(c.commitment),
		ID:         c.credentials.ID,
	}, nil
}

// ReceiveM2 stores the server's broadcast. It is verified in Round3.
func (c *Client) ReceiveM2(m2 *message.M2) error {
	if err := c.expect(StateRound1); err != nil {
		return err
	}

	if m2 == nil {
		return ErrM2.Join(internal.ErrNilMessage)
	}

	if len(m2.Ciphertexts) != c.conf.Clients || len(m2.Seed) != internal.SeedLength {
		return ErrM2.Join(internal.ErrInvalidMessageLength)
	}

	for _, ct := range m2.Ciphertexts {
		if len(ct) != c.conf.Broadcast.CiphertextLength() {
			return ErrM2.Join(internal.ErrInvalidMessageLength)
		}
	}

	c.m2 = m2
	c.state = StateRound2

	return nil
}

// Round3 verifies the broadcast signature, opens the server nonce from the client's own ciphertext, and returns
// the M3 message committing to it.
func (c *Client) Round3() (*message.M3, error) {
	if err := c.expect(StateRound2); err != nil {
		return nil, err
	}

	if !c.verifier.Verify(c.m2.SigningInput(), c.m2.Signature) {
		return nil, c.abort(ErrProtocolViolation.Join(internal.ErrBroadcastSignature))
	}

	c.log.Debug("broadcast signature verified")

	id := c.credentials.ID

	nonce, err := c.conf.Broadcast.Open(c.m2.Seed, int(id), c.credentials.DecryptionKey, c.m2.Ciphertexts[id])
	if err != nil {
		return nil, c.abort(ErrPrimitive.Join(err))
	}

	if len(nonce) != internal.NonceLength {
		clear(nonce)
		return nil, c.abort(ErrPrimitive.Join(internal.ErrInvalidPlaintextLength))
	}

	var digest []byte

	c.serverNonce = nonce
	digest, c.serverOpening = commitment.Commit(c.conf.Hash, nonce)
	c.state = StateRound3

	return &message.M3{
		Commitment: digest,
		ID:         c.credentials.ID,
	}, nil
}

// ReceiveM4 stores the server's seed and proofs reveal. It is verified in Round5.
func (c *Client) ReceiveM4(m4 *message.M4) error {
	if err := c.expect(StateRound3); err != nil {
		return err
	}

	if m4 == nil {
		return ErrM4.Join(internal.ErrNilMessage)
	}

	if len(m4.Proofs) != c.conf.Clients {
		return ErrM4.Join(internal.ErrInvalidMessageLength)
	}

	for _, p := range m4.Proofs {
		if len(p) != c.conf.Broadcast.ProofLength() {
			return ErrM4.Join(internal.ErrInvalidMessageLength)
		}
	}

	c.m4 = m4
	c.state = StateRound4

	return nil
}

// Round5 verifies the reveal signature and the consistency of the whole broadcast, derives the session key, and
// returns the M5 message. The consistency check honors ctx: if ctx is done before it finishes, its error is returned
// and Round5 can be called again.
func (c *Client) Round5(ctx context.Context) (*message.M5, error) {
	if err := c.expect(StateRound4); err != nil {
		return nil, err
	}

	if !c.verifier.Verify(c.m4.SigningInput(), c.m4.Signature) {
		return nil, c.abort(ErrProtocolViolation.Join(internal.ErrSeedSignature))
	}

	if subtle.ConstantTimeCompare(c.m4.Seed, c.m2.Seed) != 1 {
		return nil, c.abort(ErrProtocolViolation.Join(internal.ErrSeedMismatch))
	}

	c.log.Debug("seed signature verified")

	if err := c.checkConsistency(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		if errors.Is(err, internal.ErrConsistencyCheck) {
			return nil, c.abort(ErrProtocolViolation.Join(err))
		}

		return nil, c.abort(ErrPrimitive.Join(err))
	}

	c.log.Debug("broadcast consistency verified", zap.Int("ciphertexts", len(c.m2.Ciphertexts)))

	plaintext := encoding.Concat(c.opening.Value, c.opening.Randomizer)
	defer clear(plaintext)

	ciphertext, err := c.conf.PKE.EncryptFresh(c.m2.EphemeralPublicKey, plaintext)
	if err != nil {
		return nil, c.abort(ErrPrimitive.Join(err))
	}

	c.sessionKey, c.sessionID = c.conf.SessionKey(c.serverNonce, c.opening.Value)

	m5 := &message.M5{
		Ciphertext: ciphertext,
		Opening:    c.serverOpening.Clone(),
		ID:         c.credentials.ID,
	}

	c.discard()
	c.state = StateComplete

	c.log.Debug("handshake complete")

	return m5, nil
}

// checkConsistency verifies, with the revealed seed and proofs, that every ciphertext of the broadcast the server
// signed carries the server nonce to its registered key.
func (c *Client) checkConsistency(ctx context.Context) error {
	return parallel.For(ctx, c.conf.Clients, c.conf.Workers, func(_ context.Context, j int) error {
		ok, err := c.conf.Broadcast.Verify(c.m4.Seed, j, c.credentials.PublicKeys[j], c.serverNonce,
			c.m2.Ciphertexts[j], c.m4.Proofs[j])
		if err != nil {
			return fmt.Errorf("checking recipient %d: %w", j, err)
		}

		if !ok {
			return fmt.Errorf("%w: recipient %d", internal.ErrConsistencyCheck, j)
		}

		return nil
	})
}

// SessionKey returns the session key K once the handshake is complete.
func (c *Client) SessionKey() ([]byte, error) {
	if err := c.expect(StateComplete); err != nil {
		return nil, err
	}

	return slices.Clone(c.sessionKey), nil
}

// SessionID returns the session identifier sid = H(K) once the handshake is complete.
func (c *Client) SessionID() ([]byte, error) {
	if err := c.expect(StateComplete); err != nil {
		return nil, err
	}

	return slices.Clone(c.sessionID), nil
}

// Clone returns an independent copy of the session. The credentials are shared, received messages are shared
// read-only, and all secret state is copied.
func (c *Client) Clone() *Client {
	return &Client{
		conf:          c.conf,
		log:           c.log,
		credentials:   c.credentials,
		verifier:      c.verifier,
		commitment:    slices.Clone(c.commitment),
		opening:       c.opening.Clone(),
		m2:            c.m2,
		serverNonce:   slices.Clone(c.serverNonce),
		serverOpening: c.serverOpening.Clone(),
		m4:            c.m4,
		sessionKey:    slices.Clone(c.sessionKey),
		sessionID:     slices.Clone(c.sessionID),
		state:         c.state,
	}
}

func (c *Client) expect(state State) error {
	switch c.state {
	case state:
		return nil
	case StateAborted:
		return ErrClientState.Join(internal.ErrAborted)
	default:
		return ErrClientState.Join(fmt.Errorf("%w: in %s, expected %s", internal.ErrUnexpectedState, c.state, state))
	}
}

// discard zeroes the handshake secrets, keeping only the session key and identifier.
func (c *Client) discard() {
	if c.opening != nil {
		clear(c.opening.Value)
		clear(c.opening.Randomizer)
	}

	if c.serverOpening != nil {
		clear(c.serverOpening.Value)
		clear(c.serverOpening.Randomizer)
	}

	clear(c.serverNonce)

	c.opening, c.serverOpening, c.serverNonce = nil, nil, nil
	c.m2, c.m4 = nil, nil
}

// abort zeroes all secret state and moves the session to StateAborted. It returns err.
func (c *Client) abort(err error) error {
	c.log.Warn("handshake aborted", append(logFields(err), zap.Stringer("round", c.state))...)

	c.discard()
	clear(c.sessionKey)
	clear(c.sessionID)
	c.sessionKey, c.sessionID = nil, nil
	c.state = StateAborted

	return err
}
