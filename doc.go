// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package anonake implements an anonymous symmetric-key authenticated key exchange.
//
// N clients are registered with a single server and share a pool of credentials: every client holds its own
// decryption key, the public keys of all registered clients, and the server's signature verification key. Any client
// can then run a six-round handshake with the server to derive a shared session key and session identifier. The
// server's messages (M2 and M4) are byte-identical for all clients of an epoch, so that a client can't be singled out
// by their content. To guarantee that, the client checks the whole broadcast against the revealed seed before
// disclosing its nonce, and aborts on any difference. The check is either a re-encryption (BroadcastPKE) or the
// verification of revealed X-VRF proofs (BroadcastXVRF).
//
// The first Round4 of an epoch reveals its seed and closes it: the next Round2 starts a new epoch, and handshakes of
// the closed epoch that had not sent M3 yet are aborted.
//
// A handshake goes as follows:
//
//	client                               server
//	Round1()          --- M1 --->        ReceiveM1()
//	ReceiveM2()       <--- M2 ---        Round2()
//	Round3()          --- M3 --->        ReceiveM3()
//	ReceiveM4()       <--- M4 ---        Round4()
//	Round5()          --- M5 --->        ReceiveM5()
//	                                     Round6()
//
// Any failed verification is fatal: the session or slot is moved to StateAborted, its secrets are dropped, and an
// ErrProtocolViolation error is returned. Handshake runs all rounds in-process.
package anonake
