// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

// Package encoding provides encoding utilities.
package encoding

import (
	"errors"
)

var (
	// ErrI2OSPLength is returned when a vector length header size is not supported.
	ErrI2OSPLength = errors.New("requested size is too big")

	// ErrDecodeVector is returned when a length prefixed vector is truncated.
	ErrDecodeVector = errors.New("truncated length prefixed vector")
)

// EncodeVectorLen prefixes in with its length encoded on length bytes.
func EncodeVectorLen(in []byte, length int) []byte {
	switch length {
	case 1, 2:
		return append(I2OSP(len(in), length), in...)
	default:
		panic(ErrI2OSPLength)
	}
}

// EncodeVector prefixes in with its length encoded on 2 bytes.
func EncodeVector(in []byte) []byte {
	return EncodeVectorLen(in, 2)
}

// DecodeVector reads a 2-byte length prefixed vector from the start of in, and returns it along with the total
// amount of bytes consumed.
func DecodeVector(in []byte) ([]byte, int, error) {
	if len(in) < 2 {
		return nil, 0, ErrDecodeVector
	}

	dataLen := OS2IP(in[0:2])
	offset := 2 + dataLen

	if len(in) < offset {
		return nil, 0, ErrDecodeVector
	}

	return in[2:offset], offset, nil
}
