/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"errors"
	"fmt"
)

// ErrThreadIDMismatch is returned when a message does not belong to the expected thread.
var ErrThreadIDMismatch = errors.New("thread id mismatch")

type threadRule int

const (
	// the message @id is the thread id (first message of a protocol).
	matchMsgID threadRule = iota
	// ~thread is required and thid or pthid must match.
	matchThread
	// a missing ~thread passes, otherwise as matchThread.
	matchOptThread
)

const (
	connectionsPrefix = "https://didcomm.org/connections/1.0/"
	issuancePrefix    = "https://didcomm.org/issue-credential/1.0/"
	notificationAck   = "https://didcomm.org/notification/1.0/ack"

	notificationProblem = "https://didcomm.org/notification/1.0/problem-report"
	reportProblem       = "https://didcomm.org/report-problem/1.0/problem-report"
	basicMessage        = "https://didcomm.org/basicmessage/1.0/message"
	trustPing           = "https://didcomm.org/trust_ping/1.0/ping"
	trustPingResponse   = "https://didcomm.org/trust_ping/1.0/ping_response"
	routingForward      = "https://didcomm.org/routing/1.0/forward"
)

// threadRules maps message types to how their thread is checked. Unknown types require a thread.
var threadRules = map[string]threadRule{ //nolint:gochecknoglobals
	connectionsPrefix + "invitation":     matchMsgID,
	connectionsPrefix + "request":        matchOptThread,
	connectionsPrefix + "response":       matchThread,
	connectionsPrefix + "problem_report": matchThread,

	issuancePrefix + "propose-credential": matchOptThread,
	issuancePrefix + "offer-credential":   matchOptThread,
	issuancePrefix + "request-credential": matchOptThread,
	issuancePrefix + "issue-credential":   matchThread,
	issuancePrefix + "ack":                matchThread,
	issuancePrefix + "problem-report":     matchOptThread,

	notificationAck:     matchThread,
	notificationProblem: matchOptThread,
	reportProblem:       matchOptThread,
	basicMessage:        matchOptThread,
	trustPing:           matchOptThread,
	trustPingResponse:   matchThread,
	routingForward:      matchMsgID,
}

// VerifyThreadID fails with ErrThreadIDMismatch unless msg belongs to the thread expected.
func VerifyThreadID(expected string, msg DIDCommMessage) error {
	rule, ok := threadRules[msg.MsgType()]
	if !ok {
		rule = matchThread
	}

	var match bool

	switch rule {
	case matchMsgID:
		match = msg.MsgID() == expected
	case matchThread:
		match = threadMatches(expected, msg)
	case matchOptThread:
		match = msg.ThreadDecorator() == nil || threadMatches(expected, msg)
	}

	if !match {
		return fmt.Errorf("%w: expected %s, message %s (%s)", ErrThreadIDMismatch, expected, msg.MsgID(), msg.MsgType())
	}

	return nil
}

func threadMatches(expected string, msg DIDCommMessage) bool {
	thread := msg.ThreadDecorator()
	if thread == nil {
		return false
	}

	return thread.ID == expected || (thread.PID != "" && thread.PID == expected)
}
