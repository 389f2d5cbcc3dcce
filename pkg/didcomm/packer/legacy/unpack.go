/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package legacy

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	chacha "golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/box"

	"github.com/hyperledger/aries-vcx-go/pkg/internal/cryptoutil"
)

// Unpack will decode the envelope using the legacy format.
// The recipient is the first header kid for which keys returns a private key.
func (p *Packer) Unpack(envelope []byte, keys KeyResolver) (*Envelope, error) {
	var envelopeData legacyEnvelope

	err := json.Unmarshal(envelope, &envelopeData)
	if err != nil {
		return nil, err
	}

	protectedBytes, err := base64.URLEncoding.DecodeString(envelopeData.Protected)
	if err != nil {
		return nil, err
	}

	var protectedData protected

	err = json.Unmarshal(protectedBytes, &protectedData)
	if err != nil {
		return nil, err
	}

	if protectedData.Typ != encodingType {
		return nil, fmt.Errorf("message type %s not supported", protectedData.Typ)
	}

	if protectedData.Alg != AuthCrypt && protectedData.Alg != AnonCrypt {
		return nil, fmt.Errorf("message format %s not supported", protectedData.Alg)
	}

	recip, priv, err := findRecipient(protectedData.Recipients, keys)
	if err != nil {
		return nil, err
	}

	cek, senderKey, err := getCEK(recip, priv, protectedData.Alg)
	if err != nil {
		return nil, err
	}

	data, err := decodeCipherText(cek, &envelopeData)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		Message:    data,
		FromVerKey: senderKey,
		ToVerKey:   recip.Header.KID,
	}, nil
}

func findRecipient(recipients []recipient, keys KeyResolver) (*recipient, ed25519.PrivateKey, error) {
	if len(recipients) == 0 {
		return nil, nil, errors.New("envelope has no recipients")
	}

	var errs []error

	for i := range recipients {
		priv, err := keys(recipients[i].Header.KID)
		if err == nil {
			return &recipients[i], priv, nil
		}

		errs = append(errs, err)
	}

	return nil, nil, fmt.Errorf("no key accessible: %w", errors.Join(errs...))
}

func getCEK(recip *recipient, priv ed25519.PrivateKey, alg string) (*[chacha.KeySize]byte, string, error) {
	recPKCurve, err := cryptoutil.PublicEd25519toCurve25519(base58.Decode(recip.Header.KID))
	if err != nil {
		return nil, "", err
	}

	recSKCurve, err := cryptoutil.SecretEd25519toCurve25519(priv)
	if err != nil {
		return nil, "", err
	}

	pk := (*[cryptoutil.Curve25519KeySize]byte)(recPKCurve)
	sk := (*[cryptoutil.Curve25519KeySize]byte)(recSKCurve)

	encCEK, err := base64.URLEncoding.DecodeString(recip.EncryptedKey)
	if err != nil {
		return nil, "", err
	}

	var (
		cekSlice  []byte
		senderKey string
	)

	if alg == AnonCrypt {
		cekSlice, err = cryptoutil.SodiumBoxSealOpen(encCEK, pk, sk)
		if err != nil {
			return nil, "", fmt.Errorf("failed to decrypt CEK: %w", err)
		}
	} else {
		var senderCurve []byte

		senderKey, senderCurve, err = decodeSender(recip.Header.Sender, pk, sk)
		if err != nil {
			return nil, "", err
		}

		nonceSlice, e := base64.URLEncoding.DecodeString(recip.Header.IV)
		if e != nil {
			return nil, "", e
		}

		if len(nonceSlice) != cryptoutil.NonceSize {
			return nil, "", errors.New("invalid recipient nonce")
		}

		var ok bool

		cekSlice, ok = box.Open(nil, encCEK, (*[cryptoutil.NonceSize]byte)(nonceSlice),
			(*[cryptoutil.Curve25519KeySize]byte)(senderCurve), sk)
		if !ok {
			return nil, "", errors.New("failed to decrypt CEK")
		}
	}

	if !cryptoutil.IsChachaKeyValid(cekSlice) {
		return nil, "", cryptoutil.ErrInvalidKey
	}

	return (*[chacha.KeySize]byte)(cekSlice), senderKey, nil
}

func decodeSender(b64Sender string, pk, sk *[cryptoutil.Curve25519KeySize]byte) (string, []byte, error) {
	encSender, err := base64.URLEncoding.DecodeString(b64Sender)
	if err != nil {
		return "", nil, err
	}

	senderPub, err := cryptoutil.SodiumBoxSealOpen(encSender, pk, sk)
	if err != nil {
		return "", nil, fmt.Errorf("failed to decrypt sender: %w", err)
	}

	senderPubCurve, err := cryptoutil.PublicEd25519toCurve25519(base58.Decode(string(senderPub)))
	if err != nil {
		return "", nil, err
	}

	return string(senderPub), senderPubCurve, nil
}

// decodeCipherText decodes (from base64) and decrypts the ciphertext using chacha20poly1305.
func decodeCipherText(cek *[chacha.KeySize]byte, envelope *legacyEnvelope) ([]byte, error) {
	aad := []byte(envelope.Protected)

	cipherText, err := base64.URLEncoding.DecodeString(envelope.CipherText)
	if err != nil {
		return nil, err
	}

	nonce, err := base64.URLEncoding.DecodeString(envelope.IV)
	if err != nil {
		return nil, err
	}

	tag, err := base64.URLEncoding.DecodeString(envelope.Tag)
	if err != nil {
		return nil, err
	}

	chachaCipher, err := chacha.New(cek[:])
	if err != nil {
		return nil, err
	}

	if len(nonce) != chachaCipher.NonceSize() {
		return nil, errors.New("invalid envelope nonce")
	}

	payload := append(cipherText, tag...)

	return chachaCipher.Open(nil, nonce, payload, aad)
}
