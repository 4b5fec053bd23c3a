// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package encoding

import (
	"errors"

	"github.com/tchajed/marshal"
)

// ErrShortBuffer is returned when reading past the end of a marshalled buffer.
var ErrShortBuffer = errors.New("marshalled buffer is too short")

// ReadInt reads a 64-bit integer from the start of b and returns the remainder.
func ReadInt(b []byte) (uint64, []byte, error) {
	if len(b) < 8 {
		return 0, nil, ErrShortBuffer
	}

	data, rem := marshal.ReadInt(b)

	return data, rem, nil
}

// ReadBytes reads length bytes from the start of b and returns the remainder.
func ReadBytes(b []byte, length uint64) ([]byte, []byte, error) {
	if uint64(len(b)) < length {
		return nil, nil, ErrShortBuffer
	}

	data, rem := marshal.ReadBytes(b, length)

	return data, rem, nil
}

// ReadSlice reads a 64-bit length prefixed byte slice from the start of b and returns the remainder.
func ReadSlice(b []byte) ([]byte, []byte, error) {
	length, rem, err := ReadInt(b)
	if err != nil {
		return nil, nil, err
	}

	return ReadBytes(rem, length)
}

// WriteSlice appends the 64-bit length prefixed data to b.
func WriteSlice(b, data []byte) []byte {
	b = marshal.WriteInt(b, uint64(len(data)))
	return marshal.WriteBytes(b, data)
}

// ReadSlices reads a count prefixed sequence of length prefixed byte slices.
func ReadSlices(b []byte) ([][]byte, []byte, error) {
	count, rem, err := ReadInt(b)
	if err != nil {
		return nil, nil, err
	}

	// every slice carries at least its 8-byte length header
	if count > uint64(len(rem))/8 {
		return nil, nil, ErrShortBuffer
	}

	out := make([][]byte, count)
	for i := range out {
		if out[i], rem, err = ReadSlice(rem); err != nil {
			return nil, nil, err
		}
	}

	return out, rem, nil
}

// WriteSlices appends the count prefixed sequence of length prefixed slices to b.
func WriteSlices(b []byte, data [][]byte) []byte {
	b = marshal.WriteInt(b, uint64(len(data)))
	for _, d := range data {
		b = WriteSlice(b, d)
	}

	return b
}
