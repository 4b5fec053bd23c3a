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
	"fmt"
	"math"
	"strings"

	"github.com/bytemare/ksf"
	"go.uber.org/zap"

	"github.com/bytemare/anonake/internal"
	"github.com/bytemare/anonake/internal/broadcast"
	"github.com/bytemare/anonake/internal/encoding"
	"github.com/bytemare/anonake/internal/hashing"
	"github.com/bytemare/anonake/internal/kem"
	internalKSF "github.com/bytemare/anonake/internal/ksf"
	"github.com/bytemare/anonake/internal/parallel"
	"github.com/bytemare/anonake/internal/pke"
	"github.com/bytemare/anonake/internal/prf"
	"github.com/bytemare/anonake/internal/signature"
)

// KEM identifies the key encapsulation mechanism behind the public key encryption.
type KEM byte

const (
	// Ristretto255 is a hashed Diffie-Hellman KEM over the Ristretto255 group.
	Ristretto255 = KEM(kem.Ristretto255)

	// P256 is a hashed Diffie-Hellman KEM over the NIST P-256 group.
	P256 = KEM(kem.P256)

	// Secp256k1 is a hashed Diffie-Hellman KEM over the secp256k1 group.
	Secp256k1 = KEM(kem.Secp256k1)

	// Kyber512 is the Kyber512 KEM.
	Kyber512 = KEM(kem.Kyber512)

	// Kyber768 is the Kyber768 KEM.
	Kyber768 = KEM(kem.Kyber768)

	// Kyber1024 is the Kyber1024 KEM.
	Kyber1024 = KEM(kem.Kyber1024)

	// MLKEM768 is the ML-KEM-768 KEM.
	MLKEM768 = KEM(kem.MLKEM768)
)

// Available returns whether the KEM is supported.
func (k KEM) Available() bool { return kem.Identifier(k).Available() }

// String returns the KEM's name.
func (k KEM) String() string { return kem.Identifier(k).String() }

// Signature identifies the server's signature scheme.
type Signature byte

const (
	// Ed25519 identifies Ed25519.
	Ed25519 = Signature(signature.Ed25519)

	// MLDSA44 identifies ML-DSA-44.
	MLDSA44 = Signature(signature.MLDSA44)

	// MLDSA65 identifies ML-DSA-65.
	MLDSA65 = Signature(signature.MLDSA65)

	// MLDSA87 identifies ML-DSA-87.
	MLDSA87 = Signature(signature.MLDSA87)

	// ECDSAP256 identifies ECDSA over P-256 with SHA-256.
	ECDSAP256 = Signature(signature.ECDSAP256)
)

// Available returns whether the signature scheme is supported.
func (s Signature) Available() bool { return signature.Identifier(s).Available() }

// String returns the signature scheme's name.
func (s Signature) String() string { return signature.Identifier(s).String() }

// Hash identifies the hash function used for commitments and session keys.
type Hash byte

const (
	// SHA256 identifies SHA-256.
	SHA256 = Hash(hashing.SHA256)

	// SHA3_256 identifies SHA3-256.
	SHA3_256 = Hash(hashing.SHA3_256) //nolint:revive,stylecheck // mirrors the algorithm name

	// BLAKE3 identifies BLAKE3.
	BLAKE3 = Hash(hashing.BLAKE3)
)

// Available returns whether the hash function is supported.
func (h Hash) Available() bool { return hashing.Identifier(h).Available() }

// String returns the hash function's name.
func (h Hash) String() string { return hashing.Identifier(h).String() }

// PRF identifies the keyed function scheduling the per-recipient encryption randomness.
type PRF byte

const (
	// AESCTR identifies the AES-256-CTR keystream.
	AESCTR = PRF(prf.AESCTR)

	// ChaCha20 identifies the ChaCha20 keystream.
	ChaCha20 = PRF(prf.ChaCha20)
)

// Available returns whether the PRF is supported.
func (p PRF) Available() bool { return prf.Identifier(p).Available() }

// String returns the PRF's name.
func (p PRF) String() string { return prf.Identifier(p).String() }

// Broadcast identifies how the server nonce is sealed to every client in round 2, and how clients check, after the
// reveal, that all of them received the same nonce.
type Broadcast byte

const (
	// BroadcastPKE encrypts the nonce with randomness derived from the seed, and is checked by re-encryption.
	BroadcastPKE = Broadcast(broadcast.PKE)

	// BroadcastXVRF masks the nonce with an X-VRF output over the seed, and is checked with the proofs revealed in
	// round 4. It requires a signature scheme with deterministic signatures, which excludes ECDSAP256.
	BroadcastXVRF = Broadcast(broadcast.XVRF)
)

// Available returns whether the broadcast construction is supported.
func (b Broadcast) Available() bool { return broadcast.Identifier(b).Available() }

// String returns the broadcast construction's name.
func (b Broadcast) String() string { return broadcast.Identifier(b).String() }

const (
	// DefaultClients is the number of registered clients of the default configuration.
	DefaultClients = 4

	// MaxClients is the maximum number of registered clients.
	MaxClients = math.MaxUint16

	confLength = 8
)

// Configuration represents the protocol's parameters. It is immutable once it produced a Server or a Client.
type Configuration struct {
	// Logger receives debug traces of verifications and warnings on aborts. A nil Logger disables logging.
	Logger *zap.Logger `json:"-"`

	// Clients is the number N of registered clients sharing the credential pool.
	Clients int `json:"clients"`

	// Workers bounds the parallel encryption and consistency check fan-out. 0 uses GOMAXPROCS.
	Workers int `json:"workers"`

	// KEM identifies the KEM of the public key encryption.
	KEM KEM `json:"kem"`

	// Signature identifies the server's signature scheme.
	Signature Signature `json:"sig"`

	// Hash identifies the hash function for commitments and session keys.
	Hash Hash `json:"hash"`

	// PRF identifies the randomness scheduling function of the PKE broadcast.
	PRF PRF `json:"prf"`

	// Broadcast identifies the round 2 broadcast construction.
	Broadcast Broadcast `json:"broadcast"`

	// KSF identifies the key stretching function used to seal server key material. 0 means no stretching.
	KSF ksf.Identifier `json:"ksf"`
}

// DefaultConfiguration returns a default configuration with strong parameters.
func DefaultConfiguration() *Configuration {
	return &Configuration{
		Clients:   DefaultClients,
		KEM:       Ristretto255,
		Signature: Ed25519,
		Hash:      SHA256,
		PRF:       AESCTR,
		Broadcast: BroadcastPKE,
		KSF:       ksf.Argon2id,
	}
}

func (c *Configuration) verify() error {
	if !c.KEM.Available() {
		return ErrConfiguration.Join(internal.ErrInvalidKEM)
	}

	if !c.Signature.Available() {
		return ErrConfiguration.Join(internal.ErrInvalidSignature)
	}

	if !c.Hash.Available() {
		return ErrConfiguration.Join(internal.ErrInvalidHash)
	}

	if !c.PRF.Available() {
		return ErrConfiguration.Join(internal.ErrInvalidPRF)
	}

	if !c.Broadcast.Available() {
		return ErrConfiguration.Join(internal.ErrInvalidBroadcast)
	}

	if c.Broadcast == BroadcastXVRF {
		if _, ok := signature.Identifier(c.Signature).Get().(signature.UniqueScheme); !ok {
			return ErrConfiguration.Join(fmt.Errorf("%w: %s needs deterministic signatures, %s are randomized",
				internal.ErrInvalidBroadcast, c.Broadcast, c.Signature))
		}
	}

	if !internalKSF.Available(c.KSF) {
		return ErrConfiguration.Join(internal.ErrInvalidKSF)
	}

	if c.Clients < 1 || c.Clients > MaxClients {
		return ErrConfiguration.Join(internal.ErrInvalidClients)
	}

	if c.Workers < 0 {
		return ErrConfiguration.Join(internal.ErrInvalidWorkers)
	}

	return nil
}

// toInternal builds the internal representation of the configuration parameters.
func (c *Configuration) toInternal() (*internal.Configuration, error) {
	if err := c.verify(); err != nil {
		return nil, err
	}

	logger := c.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	k := kem.Identifier(c.KEM).Get()
	s := signature.Identifier(c.Signature).Get()
	h := hashing.Identifier(c.Hash)

	b, err := broadcast.Identifier(c.Broadcast).New(k, prf.Identifier(c.PRF), s, h)
	if err != nil {
		return nil, ErrConfiguration.Join(internal.ErrInvalidBroadcast, err)
	}

	return &internal.Configuration{
		Logger:    logger,
		Encoded:   c.Serialize(),
		KEM:       k,
		PKE:       pke.New(k),
		Broadcast: b,
		Signature: s,
		KSF:       internalKSF.NewKSF(c.KSF),
		Hash:      h,
		Clients:   c.Clients,
		Workers:   c.Workers,
	}, nil
}

// Serialize returns the byte encoding of the configuration's protocol parameters. The Logger and Workers are runtime
// settings and are not encoded.
func (c *Configuration) Serialize() []byte {
	return encoding.Concatenate(
		[]byte{byte(c.KEM), byte(c.Signature), byte(c.Hash), byte(c.PRF), byte(c.Broadcast), byte(c.KSF)},
		encoding.I2OSP(c.Clients, 2),
	)
}

// String returns a human-readable description of the configuration.
func (c *Configuration) String() string {
	return fmt.Sprintf("%s-%s-%s-%s-%s-N%d", c.KEM, c.Signature, c.Hash, c.PRF, c.Broadcast, c.Clients)
}

// DeserializeConfiguration decodes the input and returns a Configuration.
func DeserializeConfiguration(encoded []byte) (*Configuration, error) {
	if len(encoded) != confLength {
		return nil, ErrConfiguration.Join(internal.ErrConfigurationInvalidLength)
	}

	c := &Configuration{
		KEM:       KEM(encoded[0]),
		Signature: Signature(encoded[1]),
		Hash:      Hash(encoded[2]),
		PRF:       PRF(encoded[3]),
		Broadcast: Broadcast(encoded[4]),
		KSF:       ksf.Identifier(encoded[5]),
		Clients:   encoding.OS2IP(encoded[6:8]),
	}

	if err := c.verify(); err != nil {
		return nil, err
	}

	return c, nil
}

// Registration runs the trusted setup: it creates the server's signing key pair and one broadcast key pair per client,
// and returns the server along with the credentials to distribute to each client, indexed by client identifier.
func (c *Configuration) Registration() (*Server, []*Credentials, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, nil, err
	}

	vk, sk, err := conf.Signature.GenerateKey()
	if err != nil {
		return nil, nil, ErrRegistration.Join(err)
	}

	publicKeys := make([][]byte, conf.Clients)
	secretKeys := make([][]byte, conf.Clients)

	err = parallel.For(context.Background(), conf.Clients, conf.Workers, func(_ context.Context, i int) error {
		pk, dk, err := conf.Broadcast.GenerateKeyPair()
		if err != nil {
			return fmt.Errorf("client %d: %w", i, err)
		}

		publicKeys[i], secretKeys[i] = pk, dk

		return nil
	})
	if err != nil {
		return nil, nil, ErrRegistration.Join(err)
	}

	server, err := newServer(conf, sk, vk, publicKeys, secretKeys)
	if err != nil {
		return nil, nil, ErrRegistration.Join(err)
	}

	credentials := make([]*Credentials, conf.Clients)
	for i := range credentials {
		credentials[i] = server.credentials(uint32(i))
	}

	conf.Logger.Info("registration complete",
		zap.Int("clients", conf.Clients),
		zap.String("kem", conf.KEM.Name()),
		zap.String("broadcast", conf.Broadcast.Name()),
		zap.String("signature", conf.Signature.Name()))

	return server, credentials, nil
}

// Client returns a new handshake session for the credentials.
func (c *Configuration) Client(credentials *Credentials) (*Client, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return newClient(conf, credentials)
}

// Deserializer returns a pointer to a Deserializer structure for the configuration.
func (c *Configuration) Deserializer() (*Deserializer, error) {
	conf, err := c.toInternal()
	if err != nil {
		return nil, err
	}

	return &Deserializer{conf: conf}, nil
}

// ParseKEM returns the KEM of the given case-insensitive name.
func ParseKEM(name string) (KEM, error) {
	for _, k := range SupportedKEMs() {
		if strings.EqualFold(name, k.String()) || strings.EqualFold(name, kemAliases[k]) {
			return k, nil
		}
	}

	return 0, ErrConfiguration.Join(fmt.Errorf("%w: %q", internal.ErrInvalidKEM, name))
}

// ParseSignature returns the signature scheme of the given case-insensitive name.
func ParseSignature(name string) (Signature, error) {
	for _, s := range SupportedSignatures() {
		if strings.EqualFold(name, s.String()) || strings.EqualFold(name, signatureAliases[s]) {
			return s, nil
		}
	}

	return 0, ErrConfiguration.Join(fmt.Errorf("%w: %q", internal.ErrInvalidSignature, name))
}

// ParseHash returns the hash function of the given case-insensitive name.
func ParseHash(name string) (Hash, error) {
	for _, h := range SupportedHashes() {
		if strings.EqualFold(name, h.String()) || strings.EqualFold(name, strings.ReplaceAll(h.String(), "-", "")) {
			return h, nil
		}
	}

	return 0, ErrConfiguration.Join(fmt.Errorf("%w: %q", internal.ErrInvalidHash, name))
}

// ParsePRF returns the PRF of the given case-insensitive name.
func ParsePRF(name string) (PRF, error) {
	for _, p := range SupportedPRFs() {
		if strings.EqualFold(name, p.String()) || strings.EqualFold(name, prfAliases[p]) {
			return p, nil
		}
	}

	return 0, ErrConfiguration.Join(fmt.Errorf("%w: %q", internal.ErrInvalidPRF, name))
}

// ParseBroadcast returns the broadcast construction of the given case-insensitive name.
func ParseBroadcast(name string) (Broadcast, error) {
	for _, b := range SupportedBroadcasts() {
		if strings.EqualFold(name, b.String()) || strings.EqualFold(name, strings.ReplaceAll(b.String(), "-", "")) {
			return b, nil
		}
	}

	return 0, ErrConfiguration.Join(fmt.Errorf("%w: %q", internal.ErrInvalidBroadcast, name))
}

var (
	kemAliases = map[KEM]string{
		Ristretto255: "ristretto255",
		P256:         "p256",
		Secp256k1:    "secp256k1",
		Kyber512:     "kyber512",
		Kyber768:     "kyber768",
		Kyber1024:    "kyber1024",
		MLKEM768:     "mlkem768",
	}

	signatureAliases = map[Signature]string{
		Ed25519:   "ed25519",
		MLDSA44:   "mldsa44",
		MLDSA65:   "mldsa65",
		MLDSA87:   "mldsa87",
		ECDSAP256: "ecdsa-p256",
	}

	prfAliases = map[PRF]string{
		AESCTR:   "aes-ctr",
		ChaCha20: "chacha20",
	}
)

// SupportedKEMs lists the supported KEMs.
func SupportedKEMs() []KEM {
	return []KEM{Ristretto255, P256, Secp256k1, Kyber512, Kyber768, Kyber1024, MLKEM768}
}

// SupportedSignatures lists the supported signature schemes.
func SupportedSignatures() []Signature {
	return []Signature{Ed25519, MLDSA44, MLDSA65, MLDSA87, ECDSAP256}
}

// SupportedHashes lists the supported hash functions.
func SupportedHashes() []Hash {
	return []Hash{SHA256, SHA3_256, BLAKE3}
}

// SupportedPRFs lists the supported PRFs.
func SupportedPRFs() []PRF {
	return []PRF{AESCTR, ChaCha20}
}

// SupportedBroadcasts lists the supported broadcast constructions.
func SupportedBroadcasts() []Broadcast {
	return []Broadcast{BroadcastPKE, BroadcastXVRF}
}
