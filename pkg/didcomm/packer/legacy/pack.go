/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package legacy

import (
	"crypto/ed25519"
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/btcsuite/btcutil/base58"
	chacha "golang.org/x/crypto/chacha20poly1305"
	"golang.org/x/crypto/nacl/box"
	"golang.org/x/crypto/poly1305"

	"github.com/hyperledger/aries-vcx-go/pkg/internal/cryptoutil"
)

// Pack will encode the payload argument for the recipients.
// A nil sender produces an Anoncrypt envelope, otherwise an Authcrypt one.
func (p *Packer) Pack(payload []byte, sender ed25519.PrivateKey, recipients [][]byte) ([]byte, error) {
	var senderKP *cryptoutil.KeyPair
	if sender != nil {
		senderKP = &cryptoutil.KeyPair{Priv: sender, Pub: sender.Public().(ed25519.PublicKey)}
	}

	if err := cryptoutil.VerifyKeys(senderKP, recipients); err != nil {
		return nil, fmt.Errorf("pack: %w", err)
	}

	nonce := make([]byte, chacha.NonceSize)

	_, err := p.randSource.Read(nonce)
	if err != nil {
		return nil, err
	}

	// cek (content encryption key) is a symmetric key, for chacha20, a symmetric cipher
	_, cek, err := box.GenerateKey(p.randSource)
	if err != nil {
		return nil, err
	}

	chachaCipher, err := chacha.New(cek[:])
	if err != nil {
		return nil, err
	}

	alg := AnonCrypt
	if senderKP != nil {
		alg = AuthCrypt
	}

	recs, err := p.buildRecipients(cek, senderKP, recipients)
	if err != nil {
		return nil, err
	}

	protectedBytes, err := json.Marshal(protected{
		Enc:        encAlgorithm,
		Typ:        encodingType,
		Alg:        alg,
		Recipients: recs,
	})
	if err != nil {
		return nil, err
	}

	protectedB64 := base64.URLEncoding.EncodeToString(protectedBytes)

	// Additional data is b64encode(jsonencode(protected))
	symPld := chachaCipher.Seal(nil, nonce, payload, []byte(protectedB64))

	// symPld has a length of len(pld) + poly1035.TagSize
	tag := symPld[len(symPld)-poly1305.TagSize:]
	cipherText := symPld[0 : len(symPld)-poly1305.TagSize]

	return json.Marshal(legacyEnvelope{
		Protected:  protectedB64,
		IV:         base64.URLEncoding.EncodeToString(nonce),
		CipherText: base64.URLEncoding.EncodeToString(cipherText),
		Tag:        base64.URLEncoding.EncodeToString(tag),
	})
}

func (p *Packer) buildRecipients(cek *[chacha.KeySize]byte, sender *cryptoutil.KeyPair,
	recKeys [][]byte) ([]recipient, error) {
	encodedRecipients := make([]recipient, 0, len(recKeys))

	for _, recKey := range recKeys {
		var (
			rec *recipient
			err error
		)

		if sender == nil {
			rec, err = p.buildAnonRecipient(cek, recKey)
		} else {
			rec, err = p.buildAuthRecipient(cek, sender, recKey)
		}

		if err != nil {
			return nil, err
		}

		encodedRecipients = append(encodedRecipients, *rec)
	}

	return encodedRecipients, nil
}

// buildAuthRecipient encrypts the CEK and the sender pub key for one recipient.
func (p *Packer) buildAuthRecipient(cek *[chacha.KeySize]byte, sender *cryptoutil.KeyPair,
	recKey []byte) (*recipient, error) {
	var nonce [cryptoutil.NonceSize]byte

	_, err := p.randSource.Read(nonce[:])
	if err != nil {
		return nil, err
	}

	senderSKCurve, err := cryptoutil.SecretEd25519toCurve25519(sender.Priv)
	if err != nil {
		return nil, err
	}

	recPKCurve, err := cryptoutil.PublicEd25519toCurve25519(recKey)
	if err != nil {
		return nil, err
	}

	encCEK := box.Seal(nil, cek[:], &nonce,
		(*[cryptoutil.Curve25519KeySize]byte)(recPKCurve), (*[cryptoutil.Curve25519KeySize]byte)(senderSKCurve))

	encSender, err := cryptoutil.SodiumBoxSeal([]byte(base58.Encode(sender.Pub)),
		(*[cryptoutil.Curve25519KeySize]byte)(recPKCurve), p.randSource)
	if err != nil {
		return nil, err
	}

	return &recipient{
		EncryptedKey: base64.URLEncoding.EncodeToString(encCEK),
		Header: recipientHeader{
			KID:    base58.Encode(recKey),
			Sender: base64.URLEncoding.EncodeToString(encSender),
			IV:     base64.URLEncoding.EncodeToString(nonce[:]),
		},
	}, nil
}

func (p *Packer) buildAnonRecipient(cek *[chacha.KeySize]byte, recKey []byte) (*recipient, error) {
	recPKCurve, err := cryptoutil.PublicEd25519toCurve25519(recKey)
	if err != nil {
		return nil, err
	}

	encCEK, err := cryptoutil.SodiumBoxSeal(cek[:], (*[cryptoutil.Curve25519KeySize]byte)(recPKCurve), p.randSource)
	if err != nil {
		return nil, err
	}

	return &recipient{
		EncryptedKey: base64.URLEncoding.EncodeToString(encCEK),
		Header: recipientHeader{
			KID: base58.Encode(recKey),
		},
	}, nil
}
