/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package cryptoutil

import (
	"crypto/ed25519"
	"crypto/rand"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVerifyKeys(t *testing.T) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	require.False(t, IsKeyPairValid(KeyPair{}))
	require.True(t, IsKeyPairValid(KeyPair{Priv: priv, Pub: pub}))

	require.EqualError(t, VerifyKeys(nil, nil), errEmptyRecipients.Error())
	require.ErrorIs(t, VerifyKeys(nil, [][]byte{[]byte("abc")}), ErrInvalidKey)
	require.ErrorIs(t, VerifyKeys(&KeyPair{Pub: pub}, [][]byte{pub}), ErrInvalidKey)
	require.NoError(t, VerifyKeys(nil, [][]byte{pub}))
	require.NoError(t, VerifyKeys(&KeyPair{Priv: priv, Pub: pub}, [][]byte{pub}))
}

func TestEd25519toCurve25519(t *testing.T) {
	t.Run("invalid keys", func(t *testing.T) {
		_, err := PublicEd25519toCurve25519(nil)
		require.EqualError(t, err, "key is nil")

		_, err = PublicEd25519toCurve25519([]byte("short"))
		require.EqualError(t, err, "5-byte key size is invalid")

		_, err = SecretEd25519toCurve25519(nil)
		require.EqualError(t, err, "key is nil")

		_, err = SecretEd25519toCurve25519(make([]byte, 10))
		require.Error(t, err)
	})

	t.Run("converted keys form a sealed box pair", func(t *testing.T) {
		pub, priv, err := ed25519.GenerateKey(rand.Reader)
		require.NoError(t, err)

		pkCurve, err := PublicEd25519toCurve25519(pub)
		require.NoError(t, err)
		require.True(t, IsChachaKeyValid(pkCurve))

		skCurve, err := SecretEd25519toCurve25519(priv)
		require.NoError(t, err)

		sealed, err := SodiumBoxSeal([]byte("hello"), (*[Curve25519KeySize]byte)(pkCurve), rand.Reader)
		require.NoError(t, err)

		opened, err := SodiumBoxSealOpen(sealed, (*[Curve25519KeySize]byte)(pkCurve), (*[Curve25519KeySize]byte)(skCurve))
		require.NoError(t, err)
		require.Equal(t, "hello", string(opened))
	})

	t.Run("sealed box open failures", func(t *testing.T) {
		var pk, sk [Curve25519KeySize]byte

		_, err := SodiumBoxSealOpen([]byte("short"), &pk, &sk)
		require.EqualError(t, err, "message too short")

		_, err = SodiumBoxSealOpen(make([]byte, 64), &pk, &sk)
		require.EqualError(t, err, "failed to unpack")
	})
}
