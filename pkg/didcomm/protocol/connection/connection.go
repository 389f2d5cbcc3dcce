/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package connection implements the Aries connection protocol (RFC 0160) as typed exchange
// handles. A Connection is parameterized by its role and state, and each transition is a
// function that only accepts the handle in the state it leaves, so calling a transition out of
// order does not compile. Handles are values: a transition returns a new handle and leaves its
// input untouched, so a failed transition can be retried with the same handle.
//
// Handles are stored erased as a GenericConnection and brought back with Recover, which fails
// with ErrWrongState rather than guessing when the stored state is not the one requested.
package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/envelope"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport"
	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

var logger = log.New("aries-vcx/connection")

var (
	// ErrWrongState is returned when a handle is not in the role or state an operation needs.
	ErrWrongState = errors.New("connection is in the wrong state")
	// ErrNotReady is returned when the counterparty DID doc is not known yet.
	ErrNotReady = errors.New("connection has no counterparty DID doc")
	// ErrNoEndpoint is returned when the counterparty DID doc has no service endpoint.
	ErrNoEndpoint = service.ErrNoEndpoint
	// ErrUnexpectedMessage is returned when a message of the wrong type is offered to a transition.
	ErrUnexpectedMessage = errors.New("unexpected message type")
)

// Connection is an exchange handle of role R in state S.
type Connection[R Role, S State] struct {
	sourceID     string
	pairwiseInfo PairwiseInfo
	role         R
	state        S
}

// NewInvitee returns an invitee handle waiting for an invitation.
func NewInvitee(sourceID string, pairwiseInfo PairwiseInfo) Connection[Invitee, InviteeInitial] {
	return Connection[Invitee, InviteeInitial]{sourceID: sourceID, pairwiseInfo: pairwiseInfo}
}

// NewInviter returns an inviter handle that has not created its invitation yet.
func NewInviter(sourceID string, pairwiseInfo PairwiseInfo) Connection[Inviter, InviterInitial] {
	return Connection[Inviter, InviterInitial]{sourceID: sourceID, pairwiseInfo: pairwiseInfo}
}

// SourceID returns the caller supplied label of the handle.
func (c Connection[R, S]) SourceID() string {
	return c.sourceID
}

// PairwiseInfo returns the local DID and verkey of the relationship.
func (c Connection[R, S]) PairwiseInfo() PairwiseInfo {
	return c.pairwiseInfo
}

// State returns the state payload.
func (c Connection[R, S]) State() S {
	return c.state
}

// ThinState returns the role and state tags of the handle.
func (c Connection[R, S]) ThinState() ThinState {
	return c.state.Thin()
}

// ThreadID returns the thread of the exchange, empty before an invitation exists.
func (c Connection[R, S]) ThreadID() string {
	return c.state.threadID()
}

// TheirDidDoc returns the counterparty DID doc, nil when the state holds none.
func (c Connection[R, S]) TheirDidDoc() *did.AriesDidDoc {
	return c.state.theirDidDoc()
}

// RemoteDID returns the id of the counterparty DID doc, empty when there is none.
func (c Connection[R, S]) RemoteDID() string {
	return remoteDID(c.state)
}

// RemoteVK returns the first recipient key of the counterparty.
func (c Connection[R, S]) RemoteVK() (string, error) {
	return remoteVK(c.state)
}

// IsTerminal reports whether the handle is Completed or Failed.
func (c Connection[R, S]) IsTerminal() bool {
	return c.state.Thin().IsTerminal()
}

// EncryptMessage packs msg for the counterparty, authcrypted with the pairwise verkey.
func (c Connection[R, S]) EncryptMessage(ctx context.Context, w wallet.Wallet, msg interface{}) ([]byte, error) {
	return encryptMessage(ctx, w, c.pairwiseInfo, c.state, msg)
}

// SendMessage encrypts msg and delivers it to the counterparty service endpoint.
func (c Connection[R, S]) SendMessage(ctx context.Context, w wallet.Wallet, msg interface{},
	t transport.Transport) error {
	return sendMessage(ctx, w, c.pairwiseInfo, c.state, msg, t)
}

// MarshalJSON encodes the handle exactly as its erased GenericConnection.
func (c Connection[R, S]) MarshalJSON() ([]byte, error) {
	return json.Marshal(Erase(c))
}

// UnmarshalJSON decodes a GenericConnection and recovers it as a handle of role R in state S.
func (c *Connection[R, S]) UnmarshalJSON(data []byte) error {
	var g GenericConnection

	if err := json.Unmarshal(data, &g); err != nil {
		return err
	}

	recovered, err := Recover[R, S](g)
	if err != nil {
		return err
	}

	*c = recovered

	return nil
}

// guard is the runtime check run by every transition, for handles that were not produced by
// a transition.
func guard[R Role, S State](c Connection[R, S]) error {
	thin := c.state.Thin()

	if roleOf(c.role) != thin.Role {
		return fmt.Errorf("%w: %s handle holds a %s state", ErrWrongState, roleOf(c.role), thin)
	}

	return c.state.check()
}

func roleOf[R Role](r R) RoleTag {
	switch any(r).(type) {
	case Inviter:
		return RoleInviter
	default:
		return RoleInvitee
	}
}

// transition builds the next handle of the same relationship.
func transition[R Role, S State, N State](c Connection[R, S], next N) Connection[R, N] {
	logger.Debugf("connection %s: %s -> %s", c.sourceID, c.state.Thin(), next.Thin())

	return Connection[R, N]{
		sourceID:     c.sourceID,
		pairwiseInfo: c.pairwiseInfo,
		role:         c.role,
		state:        next,
	}
}

func remoteDID(s GenericState) string {
	doc := s.theirDidDoc()
	if doc == nil {
		return ""
	}

	return doc.ID
}

func remoteVK(s GenericState) (string, error) {
	doc := s.theirDidDoc()
	if doc == nil {
		return "", ErrNotReady
	}

	keys, err := doc.RecipientKeys()
	if err != nil {
		return "", err
	}

	if len(keys) == 0 {
		return "", fmt.Errorf("%w: no recipient key in DID doc %s", ErrNotReady, doc.ID)
	}

	return keys[0], nil
}

func encryptMessage(ctx context.Context, w wallet.Wallet, pw PairwiseInfo, s GenericState,
	msg interface{}) ([]byte, error) {
	doc := s.theirDidDoc()
	if doc == nil {
		return nil, fmt.Errorf("encrypt message in %s: %w", s.Thin(), ErrNotReady)
	}

	data, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("marshal message: %w", err)
	}

	senderVK := pw.PwVK

	return envelope.Create(ctx, w, data, &senderVK, doc)
}

func sendMessage(ctx context.Context, w wallet.Wallet, pw PairwiseInfo, s GenericState, msg interface{},
	t transport.Transport) error {
	doc := s.theirDidDoc()
	if doc == nil {
		return fmt.Errorf("send message in %s: %w", s.Thin(), ErrNotReady)
	}

	endpoint, ok := doc.GetEndpoint()
	if !ok {
		return fmt.Errorf("send message to %s: %w", doc.ID, ErrNoEndpoint)
	}

	env, err := encryptMessage(ctx, w, pw, s, msg)
	if err != nil {
		return err
	}

	return t.Send(ctx, env, endpoint)
}

type completed interface {
	InviteeCompleted | InviterCompleted
	GenericState
}

// HandleDisclose records the protocols a connected counterparty advertised.
func HandleDisclose[R Role, S completed](c Connection[R, S], msg *Disclose) (Connection[R, S], error) {
	if err := guard(c); err != nil {
		return c, err
	}

	if msg == nil {
		return c, errors.New("handle disclose: no message")
	}

	var s GenericState

	switch st := any(c.state).(type) {
	case InviteeCompleted:
		st.Protocols = msg.Protocols
		s = st
	case InviterCompleted:
		st.Protocols = msg.Protocols
		s = st
	}

	next := c
	next.state = s.(S) //nolint:forcetypeassert

	return next, nil
}
