/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcutil/base58"

	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
)

// didSize is the number of verkey bytes an unqualified DID is made of.
const didSize = 16

type keyRecord struct {
	Verkey  string `json:"verkey"`
	Signkey string `json:"signkey"`
}

type didRecord struct {
	DID    string `json:"did"`
	Verkey string `json:"verkey"`
}

// CreateAndStoreMyDID creates an ed25519 key pair and the DID derived from it.
// A 32 byte seed makes the result deterministic.
func (s *Store) CreateAndStoreMyDID(seed []byte) (string, string, error) {
	var (
		priv ed25519.PrivateKey
		err  error
	)

	switch len(seed) {
	case 0:
		_, priv, err = ed25519.GenerateKey(rand.Reader)
		if err != nil {
			return "", "", fmt.Errorf("generate key: %w", err)
		}
	case ed25519.SeedSize:
		priv = ed25519.NewKeyFromSeed(seed)
	default:
		return "", "", fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}

	pub := priv.Public().(ed25519.PublicKey)
	verkey := base58.Encode(pub)
	myDID := base58.Encode(pub[:didSize])

	keyBytes, err := json.Marshal(keyRecord{Verkey: verkey, Signkey: base58.Encode(priv)})
	if err != nil {
		return "", "", err
	}

	didBytes, err := json.Marshal(didRecord{DID: myDID, Verkey: verkey})
	if err != nil {
		return "", "", err
	}

	if err = s.AddRecord(CategoryDid, myDID, didBytes); err != nil {
		return "", "", fmt.Errorf("store did: %w", err)
	}

	if err = s.AddRecord(CategoryVerKey, verkey, keyBytes); err != nil {
		return "", "", fmt.Errorf("store key: %w", err)
	}

	logger.Debugf("created did %s with verkey %s", myDID, verkey)

	return myDID, verkey, nil
}

// KeyForLocalDID returns the verkey of a DID created in this wallet.
func (s *Store) KeyForLocalDID(myDID string) (string, error) {
	raw, err := s.GetRecord(CategoryDid, myDID)
	if err != nil {
		return "", err
	}

	var rec didRecord
	if err = json.Unmarshal(raw, &rec); err != nil {
		return "", fmt.Errorf("decode did record: %w", err)
	}

	return rec.Verkey, nil
}

// Sign signs msg with the private key of verkey.
func (s *Store) Sign(verkey string, msg []byte) ([]byte, error) {
	priv, err := s.privateKey(verkey)
	if err != nil {
		return nil, err
	}

	return ed25519.Sign(priv, msg), nil
}

// Verify checks an ed25519 signature. The key does not have to be held by the wallet.
func (s *Store) Verify(verkey string, msg, signature []byte) (bool, error) {
	pub := base58.Decode(verkey)
	if len(pub) != ed25519.PublicKeySize {
		return false, fmt.Errorf("%w: %s", did.ErrInvalidVerkey, verkey)
	}

	return ed25519.Verify(pub, msg, signature), nil
}

func (s *Store) privateKey(verkey string) (ed25519.PrivateKey, error) {
	raw, err := s.GetRecord(CategoryVerKey, verkey)
	if err != nil {
		return nil, err
	}

	var rec keyRecord
	if err = json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode key record: %w", err)
	}

	priv := base58.Decode(rec.Signkey)
	if len(priv) != ed25519.PrivateKeySize {
		return nil, fmt.Errorf("key record %s holds an invalid private key", verkey)
	}

	return priv, nil
}

// PackMessage packs msg for recipients, authcrypted from sender when it is set.
func (s *Store) PackMessage(sender *string, recipients []string, msg []byte) ([]byte, error) {
	var senderKey ed25519.PrivateKey

	if sender != nil {
		priv, err := s.privateKey(*sender)
		if err != nil {
			return nil, fmt.Errorf("pack message: sender key: %w", err)
		}

		senderKey = priv
	}

	recKeys := make([][]byte, 0, len(recipients))

	for _, r := range recipients {
		raw := base58.Decode(r)
		if len(raw) != ed25519.PublicKeySize {
			return nil, fmt.Errorf("pack message: %w: %s", did.ErrInvalidVerkey, r)
		}

		recKeys = append(recKeys, raw)
	}

	return s.packer.Pack(msg, senderKey, recKeys)
}

// UnpackMessage decrypts an envelope addressed to one of the wallet keys.
func (s *Store) UnpackMessage(envelope []byte) (*UnpackedMessage, error) {
	env, err := s.packer.Unpack(envelope, s.privateKey)
	if err != nil {
		return nil, fmt.Errorf("unpack message: %w", err)
	}

	return &UnpackedMessage{
		Message:         string(env.Message),
		SenderVerkey:    env.FromVerKey,
		RecipientVerkey: env.ToVerKey,
	}, nil
}
