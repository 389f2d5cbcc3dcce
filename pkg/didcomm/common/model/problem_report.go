/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package model

import (
	"github.com/google/uuid"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/decorator"
)

// ProblemReport problem report definition.
type ProblemReport struct {
	Type        string            `json:"@type"`
	ID          string            `json:"@id"`
	Thread      *decorator.Thread `json:"~thread,omitempty"`
	Timing      *decorator.Timing `json:"~timing,omitempty"`
	Description *Code             `json:"description,omitempty"`
	Comment     string            `json:"comment,omitempty"`
	WebRedirect interface{}       `json:"~web-redirect,omitempty"`
}

// Code represents a problem report code.
type Code struct {
	Code string `json:"code"`
	En   string `json:"en,omitempty"`
}

// NewProblemReport builds a problem report of msgType on thread thid.
func NewProblemReport(msgType, thid, code, comment string) *ProblemReport {
	return &ProblemReport{
		Type:        msgType,
		ID:          uuid.New().String(),
		Thread:      decorator.NewThread(thid),
		Timing:      decorator.NewTiming(),
		Description: &Code{Code: code, En: comment},
		Comment:     comment,
	}
}

// ThreadID returns the thid of the report, or "" without thread.
func (p *ProblemReport) ThreadID() string {
	if p == nil || p.Thread == nil {
		return ""
	}

	return p.Thread.ID
}

// MsgType returns the @type of the report.
func (p *ProblemReport) MsgType() string {
	return p.Type
}

// MsgID returns the @id of the report.
func (p *ProblemReport) MsgID() string {
	return p.ID
}

// ThreadDecorator returns the ~thread of the report.
func (p *ProblemReport) ThreadDecorator() *decorator.Thread {
	return p.Thread
}
