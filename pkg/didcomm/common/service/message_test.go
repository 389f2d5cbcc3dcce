/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMessage_Registration(t *testing.T) {
	m := Message{}
	require.Nil(t, m.MsgEvents())

	t.Run("nil channel", func(t *testing.T) {
		require.ErrorIs(t, m.RegisterMsgEvent(nil), ErrNilChannel)
	})

	t.Run("register and unregister", func(t *testing.T) {
		ch := make(chan<- StateMsg)
		other := make(chan<- StateMsg)

		require.NoError(t, m.RegisterMsgEvent(ch))
		require.NoError(t, m.RegisterMsgEvent(ch))
		require.NoError(t, m.RegisterMsgEvent(other))
		require.Len(t, m.MsgEvents(), 3)

		require.NoError(t, m.UnregisterMsgEvent(ch))
		require.Len(t, m.MsgEvents(), 1)

		require.NoError(t, m.UnregisterMsgEvent(ch))
		require.NoError(t, m.UnregisterMsgEvent(other))
		require.Empty(t, m.MsgEvents())
	})
}

func TestMessage_Notify(t *testing.T) {
	m := Message{}

	first := make(chan StateMsg, 1)
	second := make(chan StateMsg, 1)
	require.NoError(t, m.RegisterMsgEvent(first))
	require.NoError(t, m.RegisterMsgEvent(second))

	msg := StateMsg{ProtocolName: "connections", Type: PostState, StateID: "Inviter/Completed", ThreadID: "th"}
	m.Notify(msg)

	require.Equal(t, msg, <-first)
	require.Equal(t, msg, <-second)

	require.NoError(t, m.UnregisterMsgEvent(second))
	m.Notify(StateMsg{StateID: "Inviter/Failed"})

	require.Equal(t, "Inviter/Failed", (<-first).StateID)
	require.Empty(t, second)
}

func TestMessage_NotifyDoesNotBlock(t *testing.T) {
	m := Message{}

	unbuffered := make(chan StateMsg)
	full := make(chan StateMsg, 1)
	ready := make(chan StateMsg, 1)

	require.NoError(t, m.RegisterMsgEvent(unbuffered))
	require.NoError(t, m.RegisterMsgEvent(full))
	require.NoError(t, m.RegisterMsgEvent(ready))

	full <- StateMsg{StateID: "Issuer/RequestReceived"}

	done := make(chan struct{})

	go func() {
		defer close(done)

		m.Notify(StateMsg{ProtocolName: "issue-credential", StateID: "Issuer/CredentialSet", ThreadID: "th"})
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		require.Fail(t, "notify blocked on a subscriber that is not reading")
	}

	require.Equal(t, uint64(2), m.Dropped())
	require.Equal(t, "Issuer/RequestReceived", (<-full).StateID)
	require.Equal(t, "Issuer/CredentialSet", (<-ready).StateID)
	require.Empty(t, unbuffered)
}
