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
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/bytemare/anonake/internal"
	"github.com/bytemare/anonake/internal/commitment"
	"github.com/bytemare/anonake/internal/pke"
	"github.com/bytemare/anonake/internal/random"
	"github.com/bytemare/anonake/internal/signature"
	"github.com/bytemare/anonake/message"
)

// Server holds the registered key material and one handshake slot per registered client. Handshakes with distinct
// client identifiers can run concurrently, each slot being protected by its own lock.
type Server struct {
	conf            *internal.Configuration
	log             *zap.Logger
	signer          signature.Signer
	current         *epoch
	signingKey      []byte
	verificationKey []byte
	publicKeys      [][]byte
	secretKeys      [][]byte
	slots           []*slot
	epochs          uint64
	epochMu         sync.Mutex
}

// epoch is the server's broadcast material. It is generated on the first round 2 after a rotation or a reveal, and
// shared by every slot bound to it, so that the broadcasts don't depend on the client's identity.
//
// The first round 4 reveals the seed and closes the epoch: no slot binds to it anymore, and slots that had not
// committed to the nonce by then are aborted.
type epoch struct {
	ephemeralSecretKey []byte
	nonce              []byte
	m2                 *message.M2
	m4                 *message.M4
	number             uint64
	revealed           atomic.Bool
}

type slot struct {
	epoch            *epoch
	clientCommitment []byte
	serverCommitment []byte
	ciphertext       *pke.Ciphertext
	opening          *commitment.Opening
	sessionKey       []byte
	sessionID        []byte
	state            State
	mu               sync.Mutex
}

func newServer(conf *internal.Configuration, signingKey, verificationKey []byte,
	publicKeys, secretKeys [][]byte,
) (*Server, error) {
	if len(publicKeys) != conf.Clients || len(secretKeys) != conf.Clients {
		return nil, internal.ErrInvalidClients
	}

	signer, err := conf.Signature.NewSigner(signingKey)
	if err != nil {
		return nil, err
	}

	slots := make([]*slot, conf.Clients)
	for i := range slots {
		slots[i] = &slot{state: StateRegistered}
	}

	return &Server{
		conf:            conf,
		log:             conf.Logger.Named("server"),
		signer:          signer,
		signingKey:      signingKey,
		verificationKey: verificationKey,
		publicKeys:      publicKeys,
		secretKeys:      secretKeys,
		slots:           slots,
	}, nil
}

func (s *Server) credentials(id uint32) *Credentials {
	return &Credentials{
		ID:              id,
		DecryptionKey:   slices.Clone(s.secretKeys[id]),
		PublicKeys:      s.publicKeys,
		ServerPublicKey: slices.Clone(s.verificationKey),
	}
}

// Credentials returns the registration credentials of the client id, e.g. to re-provision a client.
func (s *Server) Credentials(id uint32) (*Credentials, error) {
	if int64(id) >= int64(len(s.slots)) {
		return nil, ErrServerState.Join(internal.ErrUnknownClient)
	}

	return s.credentials(id), nil
}

// PublicKeys returns a copy of the registered clients' public broadcast keys, indexed by client identifier.
func (s *Server) PublicKeys() [][]byte {
	keys := make([][]byte, len(s.publicKeys))
	for i, pk := range s.publicKeys {
		keys[i] = slices.Clone(pk)
	}

	return keys
}

// VerificationKey returns the server's signature verification key, pinned in every client's credentials.
func (s *Server) VerificationKey() []byte {
	return slices.Clone(s.verificationKey)
}

// Rotate ends the current epoch: the next Round2 generates a new ephemeral key pair, nonce, and seed. Handshakes
// already bound to the previous epoch finish with it, as long as they commit before its seed is revealed.
func (s *Server) Rotate() {
	s.epochMu.Lock()
	defer s.epochMu.Unlock()

	s.current = nil
}

// Epoch returns the number of epochs generated so far.
func (s *Server) Epoch() uint64 {
	s.epochMu.Lock()
	defer s.epochMu.Unlock()

	return s.epochs
}

// State returns the state of the slot of client id.
func (s *Server) State(id uint32) (State, error) {
	sl, err := s.slot(id)
	if err != nil {
		return 0, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	return sl.state, nil
}

// ReceiveM1 opens a handshake for the client identified in m1, storing its commitment. Any previous handshake or
// session key in the slot is dropped.
func (s *Server) ReceiveM1(m1 *message.M1) error {
	if m1 == nil {
		return ErrM1.Join(internal.ErrNilMessage)
	}

	if len(m1.Commitment) != s.conf.Hash.Size() {
		return ErrM1.Join(internal.ErrInvalidMessageLength)
	}

	sl, err := s.slot(m1.ID)
	if err != nil {
		return ErrM1.Join(internal.ErrUnknownClient)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	switch sl.state {
	case StateRegistered, StateComplete, StateAborted:
	default:
		s.log.Debug("handshake restarted", zap.Uint32("client", m1.ID), zap.Stringer("round", sl.state))
	}

	sl.reset()
	sl.clientCommitment = slices.Clone(m1.Commitment)
	sl.state = StateRound1

	return nil
}

// Round2 binds the slot of client id to the current epoch and returns the epoch's broadcast. The broadcast is the
// same for every client of the epoch and must not be modified. Generating an epoch honors ctx: if ctx is done before
// it finishes, its error is returned and Round2 can be called again.
func (s *Server) Round2(ctx context.Context, id uint32) (*message.M2, error) {
	sl, err := s.slot(id)
	if err != nil {
		return nil, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if err = sl.expect(StateRound1); err != nil {
		return nil, err
	}

	e, err := s.epoch(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}

		return nil, s.abort(sl, id, ErrPrimitive.Join(err))
	}

	sl.epoch = e
	sl.state = StateRound2

	return e.m2, nil
}

// ReceiveM3 stores the client's commitment to the server nonce. If the seed of the slot's epoch was revealed in the
// meantime, the nonce can be recovered from the broadcast, and the handshake is aborted.
func (s *Server) ReceiveM3(m3 *message.M3) error {
	if m3 == nil {
		return ErrM3.Join(internal.ErrNilMessage)
	}

	if len(m3.Commitment) != s.conf.Hash.Size() {
		return ErrM3.Join(internal.ErrInvalidMessageLength)
	}

	sl, err := s.slot(m3.ID)
	if err != nil {
		return ErrM3.Join(internal.ErrUnknownClient)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if err = sl.expect(StateRound2); err != nil {
		return err
	}

	if sl.epoch.revealed.Load() {
		return s.abort(sl, m3.ID, ErrProtocolViolation.Join(internal.ErrEpochClosed))
	}

	sl.serverCommitment = slices.Clone(m3.Commitment)
	sl.state = StateRound3

	return nil
}

// Round4 returns the epoch's seed and proofs reveal to client id, closing the epoch. Like M2, it is the same for every
// client of the epoch.
func (s *Server) Round4(id uint32) (*message.M4, error) {
	sl, err := s.slot(id)
	if err != nil {
		return nil, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if err = sl.expect(StateRound3); err != nil {
		return nil, err
	}

	if !sl.epoch.revealed.Swap(true) {
		s.log.Debug("epoch closed", zap.Uint64("epoch", sl.epoch.number), zap.Uint32("client", id))
	}

	sl.state = StateRound4

	return sl.epoch.m4, nil
}

// ReceiveM5 stores the client's final message. It is verified in Round6.
func (s *Server) ReceiveM5(m5 *message.M5) error {
	if m5 == nil || m5.Ciphertext == nil || m5.Opening == nil {
		return ErrM5.Join(internal.ErrNilMessage)
	}

	sl, err := s.slot(m5.ID)
	if err != nil {
		return ErrM5.Join(internal.ErrUnknownClient)
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if err = sl.expect(StateRound4); err != nil {
		return err
	}

	sl.ciphertext = m5.Ciphertext.Clone()
	sl.opening = m5.Opening.Clone()
	sl.state = StateRound5

	return nil
}

// Round6 decrypts the client's nonce, verifies both commitments, and derives the session key of client id.
func (s *Server) Round6(id uint32) error {
	sl, err := s.slot(id)
	if err != nil {
		return err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if err = sl.expect(StateRound5); err != nil {
		return err
	}

	plaintext, err := s.conf.PKE.DecryptFresh(sl.epoch.ephemeralSecretKey, sl.ciphertext)
	if err != nil {
		return s.abort(sl, id, ErrPrimitive.Join(err))
	}

	defer clear(plaintext)

	if len(plaintext) != internal.SessionPlaintextLength {
		return s.abort(sl, id, ErrPrimitive.Join(internal.ErrInvalidPlaintextLength))
	}

	clientOpening := &commitment.Opening{
		Value:      plaintext[:internal.NonceLength],
		Randomizer: plaintext[internal.NonceLength:],
	}

	if !commitment.Verify(s.conf.Hash, sl.clientCommitment, clientOpening) {
		return s.abort(sl, id, ErrProtocolViolation.Join(internal.ErrClientCommitment))
	}

	if !commitment.Verify(s.conf.Hash, sl.serverCommitment, sl.opening) ||
		subtle.ConstantTimeCompare(sl.opening.Value, sl.epoch.nonce) != 1 {
		return s.abort(sl, id, ErrProtocolViolation.Join(internal.ErrServerCommitment))
	}

	s.log.Debug("commitments verified", zap.Uint32("client", id), zap.Uint64("epoch", sl.epoch.number))

	sl.sessionKey, sl.sessionID = s.conf.SessionKey(sl.epoch.nonce, clientOpening.Value)
	sl.discard()
	sl.state = StateComplete

	return nil
}

// SessionKey returns the session key K of client id's completed handshake.
func (s *Server) SessionKey(id uint32) ([]byte, error) {
	sl, err := s.slot(id)
	if err != nil {
		return nil, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if err = sl.expect(StateComplete); err != nil {
		return nil, err
	}

	return slices.Clone(sl.sessionKey), nil
}

// SessionID returns the session identifier of client id's completed handshake.
func (s *Server) SessionID(id uint32) ([]byte, error) {
	sl, err := s.slot(id)
	if err != nil {
		return nil, err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	if err = sl.expect(StateComplete); err != nil {
		return nil, err
	}

	return slices.Clone(sl.sessionID), nil
}

// Release drops any handshake state and session key of client id, returning the slot to StateRegistered.
func (s *Server) Release(id uint32) error {
	sl, err := s.slot(id)
	if err != nil {
		return err
	}

	sl.mu.Lock()
	defer sl.mu.Unlock()

	sl.reset()

	return nil
}

func (s *Server) slot(id uint32) (*slot, error) {
	if int64(id) >= int64(len(s.slots)) {
		return nil, ErrServerState.Join(fmt.Errorf("%w: %d", internal.ErrUnknownClient, id))
	}

	return s.slots[id], nil
}

// epoch returns the current epoch, generating it if there is none or its seed was revealed. Concurrent callers wait
// for the same generation.
func (s *Server) epoch(ctx context.Context) (*epoch, error) {
	s.epochMu.Lock()
	defer s.epochMu.Unlock()

	if s.current != nil && !s.current.revealed.Load() {
		return s.current, nil
	}

	e, err := s.newEpoch(ctx)
	if err != nil {
		return nil, err
	}

	s.epochs++
	e.number = s.epochs
	s.current = e

	s.log.Debug("new epoch", zap.Uint64("epoch", e.number))

	return e, nil
}

func (s *Server) newEpoch(ctx context.Context) (*epoch, error) {
	pk, sk, err := s.conf.KEM.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("ephemeral key: %w", err)
	}

	nonce := random.Bytes(internal.NonceLength)
	seed := random.Bytes(internal.SeedLength)

	ciphertexts, proofs, err := s.conf.SealAll(ctx, seed, nonce, s.publicKeys, s.secretKeys)
	if err != nil {
		return nil, err
	}

	m2 := &message.M2{
		Ciphertexts:        ciphertexts,
		Seed:               seed,
		EphemeralPublicKey: pk,
	}

	if m2.Signature, err = s.signer.Sign(m2.SigningInput()); err != nil {
		return nil, fmt.Errorf("signing broadcast: %w", err)
	}

	m4 := &message.M4{Seed: seed, Proofs: proofs}
	if m4.Signature, err = s.signer.Sign(m4.SigningInput()); err != nil {
		return nil, fmt.Errorf("signing reveal: %w", err)
	}

	return &epoch{
		ephemeralSecretKey: sk,
		nonce:              nonce,
		m2:                 m2,
		m4:                 m4,
	}, nil
}

// abort moves the slot to StateAborted, dropping its secrets. It returns err.
func (s *Server) abort(sl *slot, id uint32, err error) error {
	s.log.Warn("handshake aborted",
		append(logFields(err), zap.Uint32("client", id), zap.Stringer("round", sl.state))...)

	sl.reset()
	sl.state = StateAborted

	return err
}

func (sl *slot) expect(state State) error {
	switch sl.state {
	case state:
		return nil
	case StateAborted:
		return ErrServerState.Join(internal.ErrAborted)
	default:
		return ErrServerState.Join(fmt.Errorf("%w: in %s, expected %s", internal.ErrUnexpectedState, sl.state, state))
	}
}

// discard drops the per-handshake inputs, keeping the session key and identifier.
func (sl *slot) discard() {
	if sl.opening != nil {
		clear(sl.opening.Value)
		clear(sl.opening.Randomizer)
	}

	sl.epoch = nil
	sl.clientCommitment, sl.serverCommitment = nil, nil
	sl.ciphertext, sl.opening = nil, nil
}

func (sl *slot) reset() {
	sl.discard()
	clear(sl.sessionKey)
	clear(sl.sessionID)
	sl.sessionKey, sl.sessionID = nil, nil
	sl.state = StateRegistered
}
