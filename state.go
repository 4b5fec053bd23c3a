// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package anonake

// State is the position of a client session or a server slot in the handshake.
type State byte

const (
	// StateRegistered is the initial state: credentials are set, no handshake is in progress.
	StateRegistered State = iota

	// StateRound1 follows the client's commitment to its nonce.
	StateRound1

	// StateRound2 follows the server's broadcast.
	StateRound2

	// StateRound3 follows the client's commitment to the server nonce.
	StateRound3

	// StateRound4 follows the server's seed reveal.
	StateRound4

	// StateRound5 follows the client's final message, before the server verified it.
	StateRound5

	// StateComplete indicates a successful handshake: the session key is available.
	StateComplete

	// StateAborted indicates a failed verification or primitive. Secret state has been discarded.
	StateAborted
)

// String returns the state's name.
func (s State) String() string {
	switch s {
	case StateRegistered:
		return "registered"
	case StateRound1:
		return "round1"
	case StateRound2:
		return "round2"
	case StateRound3:
		return "round3"
	case StateRound4:
		return "round4"
	case StateRound5:
		return "round5"
	case StateComplete:
		return "complete"
	case StateAborted:
		return "aborted"
	default:
		return "unknown"
	}
}
