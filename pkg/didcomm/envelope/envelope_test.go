/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package envelope

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

const ackMsg = `{"@type":"https://didcomm.org/notification/1.0/ack","@id":"1","status":"OK"}`

func newWallet(t *testing.T) *wallet.Store {
	t.Helper()

	w, err := wallet.New(mem.NewProvider(), "envelope")
	require.NoError(t, err)

	return w
}

func newKey(t *testing.T, w wallet.Wallet) string {
	t.Helper()

	_, vk, err := w.CreateAndStoreMyDID(nil)
	require.NoError(t, err)

	return vk
}

func didDoc(recipientKey string, routingKeys ...string) *did.AriesDidDoc {
	doc := did.NewAriesDidDoc()
	doc.SetID("VsKV7grR1BUE29mG2Fm2kX")
	doc.SetServiceEndpoint("https://agent.example.com")
	doc.SetRecipientKeys([]string{recipientKey})
	doc.SetRoutingKeys(routingKeys)

	return doc
}

func TestCreate(t *testing.T) {
	ctx := context.Background()

	sender := newWallet(t)
	senderVK := newKey(t, sender)

	t.Run("recipient only", func(t *testing.T) {
		recipient := newWallet(t)
		recipientVK := newKey(t, recipient)

		packed, err := Create(ctx, sender, []byte(ackMsg), &senderVK, didDoc(recipientVK))
		require.NoError(t, err)

		msg, senderKey, err := AnonUnpack(ctx, recipient, packed)
		require.NoError(t, err)
		require.Equal(t, ackMsg, msg)
		require.NotNil(t, senderKey)
		require.Equal(t, senderVK, *senderKey)
	})

	t.Run("routing keys wrap in order", func(t *testing.T) {
		recipient := newWallet(t)
		recipientVK := newKey(t, recipient)

		mediator := newWallet(t)
		routingKey1 := newKey(t, mediator)
		routingKey2 := newKey(t, mediator)

		packed, err := Create(ctx, sender, []byte(ackMsg), &senderVK, didDoc(recipientVK, routingKey1, routingKey2))
		require.NoError(t, err)

		// outermost layer is for the last routing key and forwards to the first one
		outer, senderKey, err := AnonUnpack(ctx, mediator, packed)
		require.NoError(t, err)
		require.Nil(t, senderKey)

		var fwd Forward
		require.NoError(t, json.Unmarshal([]byte(outer), &fwd))
		require.Equal(t, ForwardMsgType, fwd.Type)
		require.Equal(t, routingKey1, fwd.To)

		inner, _, err := AnonUnpack(ctx, mediator, fwd.Msg)
		require.NoError(t, err)

		require.NoError(t, json.Unmarshal([]byte(inner), &fwd))
		require.Equal(t, recipientVK, fwd.To)

		msg, err := AuthUnpack(ctx, recipient, fwd.Msg, senderVK)
		require.NoError(t, err)
		require.Equal(t, ackMsg, msg)
	})

	t.Run("no recipient keys", func(t *testing.T) {
		doc := did.NewAriesDidDoc()
		doc.SetID("VsKV7grR1BUE29mG2Fm2kX")

		_, err := Create(ctx, sender, []byte(ackMsg), &senderVK, doc)
		require.ErrorIs(t, err, ErrNotReady)

		_, err = Create2(ctx, sender, []byte(ackMsg), &senderVK, "", nil)
		require.ErrorIs(t, err, ErrNotReady)
	})

	t.Run("unresolvable recipient key", func(t *testing.T) {
		doc := did.NewAriesDidDoc()
		doc.SetID("VsKV7grR1BUE29mG2Fm2kX")
		doc.Service[0].RecipientKeys = []string{"#9"}

		_, err := Create(ctx, sender, []byte(ackMsg), &senderVK, doc)
		require.ErrorIs(t, err, did.ErrKeyNotFound)
	})

	t.Run("cancelled context", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		_, err := Create2(cctx, sender, []byte(ackMsg), &senderVK, newKey(t, newWallet(t)),
			[]string{newKey(t, newWallet(t))})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestAuthUnpack(t *testing.T) {
	ctx := context.Background()

	sender := newWallet(t)
	senderVK := newKey(t, sender)

	recipient := newWallet(t)
	recipientVK := newKey(t, recipient)

	t.Run("anoncrypted", func(t *testing.T) {
		packed, err := Create2(ctx, sender, []byte(ackMsg), nil, recipientVK, nil)
		require.NoError(t, err)

		_, err = AuthUnpack(ctx, recipient, packed, senderVK)
		require.ErrorIs(t, err, ErrAuthentication)
		require.ErrorContains(t, err, "anoncrypted")
	})

	t.Run("unexpected sender", func(t *testing.T) {
		packed, err := Create2(ctx, sender, []byte(ackMsg), &senderVK, recipientVK, nil)
		require.NoError(t, err)

		_, err = AuthUnpack(ctx, recipient, packed, recipientVK)
		require.ErrorIs(t, err, ErrAuthentication)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := AuthUnpack(ctx, recipient, []byte("{}"), senderVK)
		require.Error(t, err)
	})
}
