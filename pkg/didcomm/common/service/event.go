/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

import "errors"

// ErrNilChannel is returned when a nil channel is registered.
var ErrNilChannel = errors.New("channel is nil")

// StateMsgType state msg type.
type StateMsgType int

const (
	// PreState pre state.
	PreState StateMsgType = iota

	// PostState post state.
	PostState
)

// StateMsg is sent to the channels registered with Message.RegisterMsgEvent when an exchange changes state.
type StateMsg struct {
	// Name of the protocol, e.g. "connections" or "issue-credential".
	ProtocolName string

	// type of the message (pre or post), refer service.StateMsgType
	Type StateMsgType

	// StateID is the state name after the transition (PostState) or before it (PreState).
	StateID string

	// ThreadID of the exchange.
	ThreadID string

	// Msg is the inbound message that caused the transition, nil for locally driven ones.
	Msg DIDCommMsgMap
}
