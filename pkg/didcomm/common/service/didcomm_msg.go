/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/decorator"
)

const (
	jsonID     = "@id"
	jsonType   = "@type"
	jsonThread = "~thread"
	jsonThID   = "thid"
	jsonPthID  = "pthid"
)

// DIDCommMessage is implemented by every protocol message that can be checked against a thread.
type DIDCommMessage interface {
	MsgType() string
	MsgID() string
	// ThreadDecorator returns nil when the message has no ~thread.
	ThreadDecorator() *decorator.Thread
}

// DIDCommMsgMap is a generic inbound message, decoded lazily into a typed message.
type DIDCommMsgMap map[string]interface{}

// ParseDIDCommMsgMap returns DIDCommMsg with Header.
func ParseDIDCommMsgMap(payload []byte) (DIDCommMsgMap, error) {
	var msg DIDCommMsgMap

	err := json.Unmarshal(payload, &msg)
	if err != nil {
		return nil, fmt.Errorf("invalid payload data format: %w", err)
	}

	if msg.Type() == "" {
		return nil, errors.New("message has no @type")
	}

	return msg, nil
}

// NewDIDCommMsgMap converts a typed message to a DIDCommMsgMap.
func NewDIDCommMsgMap(v interface{}) (DIDCommMsgMap, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	return ParseDIDCommMsgMap(raw)
}

// ID returns the message @id.
func (m DIDCommMsgMap) ID() string {
	return m.stringField(jsonID)
}

// Type returns the message @type.
func (m DIDCommMsgMap) Type() string {
	return m.stringField(jsonType)
}

// ThreadID returns ~thread.thid.
func (m DIDCommMsgMap) ThreadID() string {
	return threadField(m, jsonThID)
}

// ParentThreadID returns ~thread.pthid.
func (m DIDCommMsgMap) ParentThreadID() string {
	return threadField(m, jsonPthID)
}

// MsgType implements DIDCommMessage.
func (m DIDCommMsgMap) MsgType() string {
	return m.Type()
}

// MsgID implements DIDCommMessage.
func (m DIDCommMsgMap) MsgID() string {
	return m.ID()
}

// ThreadDecorator implements DIDCommMessage.
func (m DIDCommMsgMap) ThreadDecorator() *decorator.Thread {
	if m == nil {
		return nil
	}

	if _, ok := m[jsonThread].(map[string]interface{}); !ok {
		return nil
	}

	return &decorator.Thread{ID: m.ThreadID(), PID: m.ParentThreadID()}
}

// Decode converts message to the given type.
func (m DIDCommMsgMap) Decode(v interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       mapstructure.StringToTimeHookFunc(time.RFC3339Nano),
		WeaklyTypedInput: true,
		Result:           v,
		TagName:          "json",
	})
	if err != nil {
		return err
	}

	return decoder.Decode(m)
}

func (m DIDCommMsgMap) stringField(key string) string {
	if m == nil {
		return ""
	}

	res, ok := m[key].(string)
	if !ok {
		return ""
	}

	return res
}

func threadField(m DIDCommMsgMap, key string) string {
	if m == nil {
		return ""
	}

	thread, ok := m[jsonThread].(map[string]interface{})
	if !ok {
		return ""
	}

	res, ok := thread[key].(string)
	if !ok {
		return ""
	}

	return res
}
