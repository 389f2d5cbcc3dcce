/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

import (
	"bytes"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/multiformats/go-multibase"
)

const (
	didKeyPrefix = "did:key:"
	// abbreviated verkeys carry only the half of the key that is not part of the DID.
	abbreviatedPrefix = "~"
	abbreviatedSize   = 16
)

// ErrInvalidVerkey is returned for strings that are not base58 ed25519 verkeys.
var ErrInvalidVerkey = errors.New("invalid verkey")

// ed25519 public key multicodec, varint encoded.
var ed25519Codec = []byte{0xed, 0x01} //nolint:gochecknoglobals

// ValidateVerkey accepts a base58 encoded 32 byte key, or "~" followed by a base58 encoded 16 byte key.
func ValidateVerkey(verkey string) error {
	if verkey == "" {
		return fmt.Errorf("%w: empty", ErrInvalidVerkey)
	}

	expected := ed25519.PublicKeySize
	value := verkey

	if strings.HasPrefix(verkey, abbreviatedPrefix) {
		expected = abbreviatedSize
		value = strings.TrimPrefix(verkey, abbreviatedPrefix)
	}

	decoded := base58.Decode(value)
	if len(decoded) != expected {
		return fmt.Errorf("%w: %s decodes to %d bytes", ErrInvalidVerkey, verkey, len(decoded))
	}

	return nil
}

// DIDKeyToVerkey converts a did:key of an ed25519 key to its base58 verkey.
func DIDKeyToVerkey(didKey string) (string, error) {
	if !strings.HasPrefix(didKey, didKeyPrefix) {
		return "", fmt.Errorf("%w: %s is not a did:key", ErrInvalidVerkey, didKey)
	}

	enc, data, err := multibase.Decode(strings.TrimPrefix(didKey, didKeyPrefix))
	if err != nil {
		return "", fmt.Errorf("%w: decode did:key: %w", ErrInvalidVerkey, err)
	}

	if enc != multibase.Base58BTC {
		return "", fmt.Errorf("%w: unsupported multibase encoding %c", ErrInvalidVerkey, enc)
	}

	if !bytes.HasPrefix(data, ed25519Codec) || len(data) != len(ed25519Codec)+ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: did:key is not an ed25519 key", ErrInvalidVerkey)
	}

	return base58.Encode(data[len(ed25519Codec):]), nil
}

// VerkeyToDIDKey converts a full base58 verkey to did:key form.
func VerkeyToDIDKey(verkey string) (string, error) {
	raw := base58.Decode(verkey)
	if len(raw) != ed25519.PublicKeySize {
		return "", fmt.Errorf("%w: %s", ErrInvalidVerkey, verkey)
	}

	mb, err := multibase.Encode(multibase.Base58BTC, append(append([]byte{}, ed25519Codec...), raw...))
	if err != nil {
		return "", err
	}

	return didKeyPrefix + mb, nil
}

// normalizeKey returns the base58 verkey for a verkey or did:key entry.
func normalizeKey(entry string) (string, error) {
	if strings.HasPrefix(entry, didKeyPrefix) {
		return DIDKeyToVerkey(entry)
	}

	if err := ValidateVerkey(entry); err != nil {
		return "", err
	}

	return entry, nil
}
