// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding

import (
	"encoding/binary"
	"errors"
)

var (
	errInputNegative  = errors.New("negative input")
	errInputLarge     = errors.New("input is too high for length")
	errLengthNegative = errors.New("length is negative or 0")
	errLengthTooBig   = errors.New("requested length is > 4")

	errInputEmpty    = errors.New("nil or empty input")
	errInputTooLarge = errors.New("input too large for integer")
)

// I2OSP 32-bit Integer to Octet Stream Primitive on maximum 4 bytes.
func I2OSP(value, length int) []byte {
	if length <= 0 {
		panic(errLengthNegative)
	}

	if length > 4 {
		panic(errLengthTooBig)
	}

	if value < 0 {
		panic(errInputNegative)
	}

	if uint64(value) >= 1<<(8*uint(length)) {
		panic(errInputLarge)
	}

	out := binary.BigEndian.AppendUint32(make([]byte, 0, 4), uint32(value))

	return out[4-length:]
}

// OS2IP Octet Stream to Integer Primitive on maximum 4 bytes / 32 bits.
func OS2IP(input []byte) int {
	if len(input) == 0 {
		panic(errInputEmpty)
	}

	if len(input) > 4 {
		panic(errInputTooLarge)
	}

	var buf [4]byte
	copy(buf[4-len(input):], input)

	return int(binary.BigEndian.Uint32(buf[:]))
}
