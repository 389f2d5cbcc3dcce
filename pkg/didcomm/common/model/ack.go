/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package model

import (
	"github.com/google/uuid"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/decorator"
)

// AckStatusOK is the status of a positive acknowledgement.
const AckStatusOK = "OK"

// Ack acknowledgement struct.
type Ack struct {
	Type   string            `json:"@type,omitempty"`
	ID     string            `json:"@id,omitempty"`
	Status string            `json:"status,omitempty"`
	Thread *decorator.Thread `json:"~thread,omitempty"`
	Timing *decorator.Timing `json:"~timing,omitempty"`
}

// NewAck builds an OK ack of msgType on thread thid.
func NewAck(msgType, thid string) *Ack {
	return &Ack{
		Type:   msgType,
		ID:     uuid.New().String(),
		Status: AckStatusOK,
		Thread: decorator.NewThread(thid),
		Timing: decorator.NewTiming(),
	}
}

// MsgType returns the @type of the ack.
func (a *Ack) MsgType() string {
	return a.Type
}

// MsgID returns the @id of the ack.
func (a *Ack) MsgID() string {
	return a.ID
}

// ThreadDecorator returns the ~thread of the ack.
func (a *Ack) ThreadDecorator() *decorator.Thread {
	return a.Thread
}
