/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package decorator

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// Thread thread data.
type Thread struct {
	ID             string         `json:"thid"`
	PID            string         `json:"pthid,omitempty"`
	SenderOrder    int            `json:"sender_order,omitempty"`
	ReceivedOrders map[string]int `json:"received_orders,omitempty"`
}

// NewThread returns a thread decorator for thid.
func NewThread(thid string) *Thread {
	return &Thread{ID: thid}
}

// Timing keeps message timestamps.
type Timing struct {
	OutTime     *time.Time `json:"out_time,omitempty"`
	ExpiresTime *time.Time `json:"expires_time,omitempty"`
}

// NewTiming stamps out_time with the current UTC time.
func NewTiming() *Timing {
	now := time.Now().UTC()

	return &Timing{OutTime: &now}
}

// PleaseAck asks the recipient to acknowledge.
type PleaseAck struct {
	On []string `json:"on,omitempty"`
}

// Attachment is an embedded ~attach entry.
type Attachment struct {
	ID       string         `json:"@id"`
	MimeType string         `json:"mime-type,omitempty"`
	Data     AttachmentData `json:"data"`
}

// AttachmentData holds the attachment contents.
type AttachmentData struct {
	Base64 string      `json:"base64,omitempty"`
	JSON   interface{} `json:"json,omitempty"`
}

// NewBase64JSONAttachment encodes v as JSON inside a base64 attachment.
func NewBase64JSONAttachment(id string, v interface{}) (Attachment, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return Attachment{}, fmt.Errorf("marshal attachment %s: %w", id, err)
	}

	return Attachment{
		ID:       id,
		MimeType: "application/json",
		Data:     AttachmentData{Base64: base64.StdEncoding.EncodeToString(raw)},
	}, nil
}

// Fetch returns the raw contents of the attachment.
func (d *AttachmentData) Fetch() ([]byte, error) {
	switch {
	case d.Base64 != "":
		return base64.StdEncoding.DecodeString(d.Base64)
	case d.JSON != nil:
		return json.Marshal(d.JSON)
	}

	return nil, errors.New("no contents in this attachment")
}

// DecodeBase64JSON returns the JSON contents of the attachment.
func (a *Attachment) DecodeBase64JSON() (json.RawMessage, error) {
	raw, err := a.Data.Fetch()
	if err != nil {
		return nil, fmt.Errorf("attachment %s: %w", a.ID, err)
	}

	if !json.Valid(raw) {
		return nil, fmt.Errorf("attachment %s: contents are not JSON", a.ID)
	}

	return raw, nil
}
