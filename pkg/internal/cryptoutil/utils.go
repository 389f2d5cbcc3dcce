/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cryptoutil

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"io"

	"github.com/teserakt-io/golang-ed25519/extra25519"
	"golang.org/x/crypto/blake2b"
	chacha "golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/box"
)

// Curve25519KeySize number of bytes in a Curve25519 public or private key.
const Curve25519KeySize = 32

// NonceSize size of a nonce used by Box encryption (XSalsa20Poly1305).
const NonceSize = 24

// ErrKeyNotFound is returned when key not found.
var ErrKeyNotFound = errors.New("key not found")

// ErrInvalidKey is used when a key is invalid.
var ErrInvalidKey = errors.New("invalid key")

// errEmptyRecipients is used when recipients list is empty.
var errEmptyRecipients = errors.New("empty recipients")

// KeyPair holds an ed25519 key pair as raw bytes.
type KeyPair struct {
	Priv []byte
	Pub  []byte
}

// IsKeyPairValid returns true if both halves of the pair are set.
func IsKeyPairValid(kp KeyPair) bool {
	return kp.Priv != nil && kp.Pub != nil
}

// VerifyKeys checks the optional sender pair and every recipient key.
func VerifyKeys(sender *KeyPair, recipients [][]byte) error {
	if len(recipients) == 0 {
		return errEmptyRecipients
	}

	if sender != nil && (!IsKeyPairValid(*sender) || len(sender.Pub) != ed25519.PublicKeySize) {
		return fmt.Errorf("sender: %w", ErrInvalidKey)
	}

	for _, k := range recipients {
		if len(k) != ed25519.PublicKeySize {
			return ErrInvalidKey
		}
	}

	return nil
}

// IsChachaKeyValid will return true if key size is the same as chacha20poly1305.keySize
// false otherwise.
func IsChachaKeyValid(key []byte) bool {
	return len(key) == chacha.KeySize
}

// PublicEd25519toCurve25519 takes an Ed25519 public key and provides the corresponding Curve25519 public key.
func PublicEd25519toCurve25519(pub []byte) ([]byte, error) {
	if len(pub) == 0 {
		return nil, errors.New("key is nil")
	}

	if len(pub) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("%d-byte key size is invalid", len(pub))
	}

	pkOut := new([Curve25519KeySize]byte)
	pKIn := new([Curve25519KeySize]byte)
	copy(pKIn[:], pub)

	success := extra25519.PublicKeyToCurve25519(pkOut, pKIn)
	if !success {
		return nil, errors.New("error converting public key")
	}

	return pkOut[:], nil
}

// SecretEd25519toCurve25519 converts a secret key from Ed25519 to curve25519 format.
func SecretEd25519toCurve25519(priv []byte) ([]byte, error) {
	if len(priv) == 0 {
		return nil, errors.New("key is nil")
	}

	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("%d-byte key size is invalid", len(priv))
	}

	sKIn := new([ed25519.PrivateKeySize]byte)
	copy(sKIn[:], priv)

	sKOut := new([Curve25519KeySize]byte)
	extra25519.PrivateKeyToCurve25519(sKOut, sKIn)

	return sKOut[:], nil
}

// SodiumBoxSeal encrypts msg for recPub the way libsodium's crypto_box_seal() does.
// The output is the ephemeral public key followed by the box.
func SodiumBoxSeal(msg []byte, recPub *[Curve25519KeySize]byte, randSource io.Reader) ([]byte, error) {
	var nonce [NonceSize]byte

	epk, esk, err := box.GenerateKey(randSource)
	if err != nil {
		return nil, err
	}

	nonceSlice, err := makeNonce(epk[:], recPub[:])
	if err != nil {
		return nil, err
	}

	copy(nonce[:], nonceSlice)

	out := make([]byte, len(epk))
	copy(out, epk[:])

	return box.Seal(out, msg, &nonce, recPub, esk), nil
}

// SodiumBoxSealOpen opens a box sealed by SodiumBoxSeal.
func SodiumBoxSealOpen(msg []byte, recPub, recPriv *[Curve25519KeySize]byte) ([]byte, error) {
	if len(msg) < Curve25519KeySize {
		return nil, errors.New("message too short")
	}

	var epk [Curve25519KeySize]byte

	copy(epk[:], msg[:Curve25519KeySize])

	nonceSlice, err := makeNonce(epk[:], recPub[:])
	if err != nil {
		return nil, err
	}

	var nonce [NonceSize]byte

	copy(nonce[:], nonceSlice)

	out, success := box.Open(nil, msg[Curve25519KeySize:], &nonce, &epk, recPriv)
	if !success {
		return nil, errors.New("failed to unpack")
	}

	return out, nil
}

// makeNonce derives the sealed box nonce: blake2b-24(epk || rpk).
func makeNonce(pub1, pub2 []byte) ([]byte, error) {
	nonceWriter, err := blake2b.New(NonceSize, nil)
	if err != nil {
		return nil, err
	}

	_, err = nonceWriter.Write(pub1)
	if err != nil {
		return nil, err
	}

	_, err = nonceWriter.Write(pub2)
	if err != nil {
		return nil, err
	}

	return nonceWriter.Sum(nil), nil
}
