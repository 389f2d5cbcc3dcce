/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package envelope

import (
	"encoding/json"

	"github.com/google/uuid"
)

// ForwardMsgType is the routing forward message type.
const ForwardMsgType = "https://didcomm.org/routing/1.0/forward"

// Forward asks a mediator to pass msg on to the holder of the To key.
type Forward struct {
	Type string          `json:"@type"`
	ID   string          `json:"@id"`
	To   string          `json:"to"`
	Msg  json.RawMessage `json:"msg"`
}

// NewForward wraps a packed envelope for the given key.
func NewForward(to string, packed []byte) *Forward {
	return &Forward{
		Type: ForwardMsgType,
		ID:   uuid.New().String(),
		To:   to,
		Msg:  packed,
	}
}
