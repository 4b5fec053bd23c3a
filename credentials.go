// SPDX-License-Identifier: MIT
//
// Copyright (C) 2020-2025 Daniel Bourdrez. All Rights Reserved.
//
// This source code is licensed under the MIT license found in the
// LICENSE file in the root directory of this source tree or at
// https://spdx.org/licenses/MIT.html

package anonake

import (
	"bytes"
	"math"
	"slices"

	"github.com/tchajed/marshal"

	"github.com/bytemare/anonake/internal"
	"github.com/bytemare/anonake/internal/encoding"
)

// Credentials is what a client receives at registration: its own decryption key, the public keys of every registered
// client, and the pinned server verification key. Credentials are immutable and may be shared by any number of
// sessions. The PublicKeys vector is shared by all credentials of the same registration.
//
// With the X-VRF broadcast, the decryption key is the client's VRF signing key, which the server holds too.
type Credentials struct {
	DecryptionKey   []byte
	PublicKeys      [][]byte
	ServerPublicKey []byte
	ID              uint32
}

// Encode encodes the credentials into a byte slice, prefixed by the configuration's encoding.
func (c *Credentials) Encode(conf *Configuration) []byte {
	b := conf.Serialize()
	b = marshal.WriteInt(b, uint64(c.ID))
	b = encoding.WriteSlice(b, c.DecryptionKey)
	b = encoding.WriteSlice(b, c.ServerPublicKey)

	return encoding.WriteSlices(b, c.PublicKeys)
}

// DecodeCredentials decodes credentials produced by Credentials.Encode under the same configuration.
func (c *Configuration) DecodeCredentials(data []byte) (*Credentials, error) {
	if err := c.verify(); err != nil {
		return nil, err
	}

	header := c.Serialize()
	if len(data) < len(header) {
		return nil, ErrCredentials.Join(internal.ErrInvalidEncoding)
	}

	if !bytes.Equal(data[:len(header)], header) {
		return nil, ErrCredentials.Join(internal.ErrWrongConfiguration)
	}

	id, rem, err := encoding.ReadInt(data[len(header):])
	if err != nil {
		return nil, ErrCredentials.Join(internal.ErrInvalidEncoding, err)
	}

	dk, rem, err := encoding.ReadSlice(rem)
	if err != nil {
		return nil, ErrCredentials.Join(internal.ErrInvalidEncoding, err)
	}

	spk, rem, err := encoding.ReadSlice(rem)
	if err != nil {
		return nil, ErrCredentials.Join(internal.ErrInvalidEncoding, err)
	}

	pks, rem, err := encoding.ReadSlices(rem)
	if err != nil {
		return nil, ErrCredentials.Join(internal.ErrInvalidEncoding, err)
	}

	if len(rem) != 0 {
		return nil, ErrCredentials.Join(internal.ErrInvalidEncoding)
	}

	creds := &Credentials{
		ID:              uint32(min(id, math.MaxUint32)),
		DecryptionKey:   slices.Clone(dk),
		PublicKeys:      make([][]byte, len(pks)),
		ServerPublicKey: slices.Clone(spk),
	}

	for i, pk := range pks {
		creds.PublicKeys[i] = slices.Clone(pk)
	}

	if err = c.checkCredentials(creds); err != nil {
		return nil, err
	}

	return creds, nil
}

// checkCredentials verifies the credentials' structure against the configuration.
func (c *Configuration) checkCredentials(creds *Credentials) error {
	if creds == nil {
		return ErrCredentials.Join(internal.ErrInvalidEncoding)
	}

	if len(creds.PublicKeys) != c.Clients || int64(creds.ID) >= int64(c.Clients) {
		return ErrCredentials.Join(internal.ErrUnknownClient)
	}

	return nil
}
