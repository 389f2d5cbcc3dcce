/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package legacy packs and unpacks Aries RFC 0019 envelopes (authcrypt and anoncrypt).
package legacy

import (
	"crypto/ed25519"
	"crypto/rand"
	"io"
)

const (
	// encodingType is the `typ` string identifier in a message that identifies the format as being legacy.
	encodingType = "JWM/1.0"
	encAlgorithm = "chacha20poly1305_ietf"

	// AuthCrypt is the `alg` of an envelope carrying an encrypted sender key.
	AuthCrypt = "Authcrypt"
	// AnonCrypt is the `alg` of an envelope without sender.
	AnonCrypt = "Anoncrypt"
)

// KeyResolver returns the ed25519 private key for a base58 verkey, or an error if it is not held locally.
type KeyResolver func(verKey string) (ed25519.PrivateKey, error)

// Envelope is the result of an unpack.
type Envelope struct {
	Message []byte
	// FromVerKey is empty for anoncrypted envelopes.
	FromVerKey string
	ToVerKey   string
}

// Packer represents a Pack/Unpacker that outputs/reads legacy Aries envelopes.
type Packer struct {
	randSource io.Reader
}

// Opt configures the Packer.
type Opt func(p *Packer)

// WithRandSource overrides crypto/rand as the entropy source.
func WithRandSource(r io.Reader) Opt {
	return func(p *Packer) {
		p.randSource = r
	}
}

// New will create a Packer that encrypts messages using the legacy Aries format.
// Note: legacy Packer does not support XChacha20Poly1035 (XC20P), only Chacha20Poly1035 (C20P).
func New(opts ...Opt) *Packer {
	p := &Packer{randSource: rand.Reader}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// EncodingType returns the type of the encoding, as in the `Typ` field of the envelope header.
func (p *Packer) EncodingType() string {
	return encodingType
}

// legacyEnvelope is the full payload envelope for the JSON message.
type legacyEnvelope struct {
	Protected  string `json:"protected,omitempty"`
	IV         string `json:"iv,omitempty"`
	CipherText string `json:"ciphertext,omitempty"`
	Tag        string `json:"tag,omitempty"`
}

// protected is the protected header of the JSON envelope.
type protected struct {
	Enc        string      `json:"enc,omitempty"`
	Typ        string      `json:"typ,omitempty"`
	Alg        string      `json:"alg,omitempty"`
	Recipients []recipient `json:"recipients,omitempty"`
}

type recipient struct {
	EncryptedKey string          `json:"encrypted_key,omitempty"`
	Header       recipientHeader `json:"header,omitempty"`
}

type recipientHeader struct {
	KID    string `json:"kid,omitempty"`
	Sender string `json:"sender,omitempty"`
	IV     string `json:"iv,omitempty"`
}
