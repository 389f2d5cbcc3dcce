/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport"
	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

// GenericConnection holds a connection of any role and state, for storage and for callers that
// don't know the state statically. Its JSON is
//
//	{"source_id": ..., "pairwise_info": {...}, "state": {"<Role>": {"<State>": payload}}}
//
// and is the same as the JSON of the typed handle it was erased from.
type GenericConnection struct {
	sourceID     string
	pairwiseInfo PairwiseInfo
	state        GenericState
}

type serializableConnection struct {
	SourceID     string                                `json:"source_id"`
	PairwiseInfo PairwiseInfo                          `json:"pairwise_info"`
	State        map[RoleTag]map[StateTag]GenericState `json:"state"`
}

type rawConnection struct {
	SourceID     string                                   `json:"source_id"`
	PairwiseInfo PairwiseInfo                             `json:"pairwise_info"`
	State        map[RoleTag]map[StateTag]json.RawMessage `json:"state"`
}

// Erase converts a typed handle to a GenericConnection.
func Erase[R Role, S State](c Connection[R, S]) GenericConnection {
	return GenericConnection{
		sourceID:     c.sourceID,
		pairwiseInfo: c.pairwiseInfo,
		state:        c.state,
	}
}

// Recover converts g back to a typed handle. It fails with ErrWrongState unless g holds
// exactly a state of type S for role R.
func Recover[R Role, S State](g GenericConnection) (Connection[R, S], error) {
	var c Connection[R, S]

	if g.state == nil {
		return c, fmt.Errorf("%w: empty generic connection", ErrWrongState)
	}

	s, ok := g.state.(S)
	if !ok {
		var want S

		return c, fmt.Errorf("%w: want %s, have %s", ErrWrongState, want.Thin(), g.state.Thin())
	}

	c = Connection[R, S]{sourceID: g.sourceID, pairwiseInfo: g.pairwiseInfo, state: s}

	if roleOf(c.role) != s.Thin().Role {
		return Connection[R, S]{}, fmt.Errorf("%w: %s state recovered as %s", ErrWrongState, s.Thin(), roleOf(c.role))
	}

	return c, nil
}

// State returns the role and state tags.
func (g *GenericConnection) State() ThinState {
	if g.state == nil {
		return ThinState{}
	}

	return g.state.Thin()
}

// Payload returns the state payload.
func (g *GenericConnection) Payload() GenericState {
	return g.state
}

// SourceID returns the caller supplied label.
func (g *GenericConnection) SourceID() string {
	return g.sourceID
}

// PairwiseInfo returns the local DID and verkey.
func (g *GenericConnection) PairwiseInfo() PairwiseInfo {
	return g.pairwiseInfo
}

// ThreadID returns the thread id, empty in the initial states.
func (g *GenericConnection) ThreadID() string {
	if g.state == nil {
		return ""
	}

	return g.state.threadID()
}

// TheirDidDoc returns the counterparty DID doc, or nil.
func (g *GenericConnection) TheirDidDoc() *did.AriesDidDoc {
	if g.state == nil {
		return nil
	}

	return g.state.theirDidDoc()
}

// BootstrapDidDoc returns the DID doc an invitee built from the invitation, or nil.
func (g *GenericConnection) BootstrapDidDoc() *did.AriesDidDoc {
	return bootstrapOf(g.state)
}

// Invitation returns the invitation of an Invited connection, or nil.
func (g *GenericConnection) Invitation() *Invitation {
	return invitationOf(g.state)
}

// RemoteDID returns the counterparty DID, or "".
func (g *GenericConnection) RemoteDID() string {
	if g.state == nil {
		return ""
	}

	return remoteDID(g.state)
}

// RemoteVK returns the counterparty verkey, or ErrNotReady.
func (g *GenericConnection) RemoteVK() (string, error) {
	if g.state == nil {
		return "", ErrNotReady
	}

	return remoteVK(g.state)
}

// ProblemReport returns the report of a Failed connection, or nil.
func (g *GenericConnection) ProblemReport() *ProblemReport {
	switch s := g.state.(type) {
	case InviteeFailed:
		return s.ProblemReport
	case InviterFailed:
		return s.ProblemReport
	}

	return nil
}

// EncryptMessage packs msg for the counterparty.
func (g *GenericConnection) EncryptMessage(ctx context.Context, w wallet.Wallet, msg interface{}) ([]byte, error) {
	if g.state == nil {
		return nil, ErrNotReady
	}

	return encryptMessage(ctx, w, g.pairwiseInfo, g.state, msg)
}

// SendMessage encrypts msg and delivers it to the counterparty.
func (g *GenericConnection) SendMessage(ctx context.Context, w wallet.Wallet, msg interface{},
	t transport.Transport) error {
	if g.state == nil {
		return ErrNotReady
	}

	return sendMessage(ctx, w, g.pairwiseInfo, g.state, msg, t)
}

// HandleProblemReport moves a non-terminal connection of either role to Failed.
func (g *GenericConnection) HandleProblemReport(report *ProblemReport) (GenericConnection, error) {
	if g.state == nil {
		return GenericConnection{}, ErrNotReady
	}

	failed, err := failedState(g.state, report)
	if err != nil {
		return GenericConnection{}, err
	}

	logger.Debugf("connection %s: %s -> %s", g.sourceID, g.state.Thin(), failed.Thin())

	return GenericConnection{sourceID: g.sourceID, pairwiseInfo: g.pairwiseInfo, state: failed}, nil
}

// MarshalJSON implements json.Marshaler.
func (g GenericConnection) MarshalJSON() ([]byte, error) {
	if g.state == nil {
		return nil, errors.New("marshal generic connection: no state")
	}

	thin := g.state.Thin()

	return json.Marshal(serializableConnection{
		SourceID:     g.sourceID,
		PairwiseInfo: g.pairwiseInfo,
		State:        map[RoleTag]map[StateTag]GenericState{thin.Role: {thin.State: g.state}},
	})
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *GenericConnection) UnmarshalJSON(data []byte) error {
	var raw rawConnection

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	if len(raw.State) != 1 {
		return fmt.Errorf("%w: state must hold exactly one role", ErrWrongState)
	}

	for role, states := range raw.State {
		if len(states) != 1 {
			return fmt.Errorf("%w: %s must hold exactly one state", ErrWrongState, role)
		}

		for tag, payload := range states {
			decode, ok := stateTable[ThinState{Role: role, State: tag}]
			if !ok {
				return fmt.Errorf("%w: unknown state %s/%s", ErrWrongState, role, tag)
			}

			s, err := decode(payload)
			if err != nil {
				return fmt.Errorf("decode %s/%s state: %w", role, tag, err)
			}

			*g = GenericConnection{sourceID: raw.SourceID, pairwiseInfo: raw.PairwiseInfo, state: s}
		}
	}

	return nil
}

func invitationOf(s GenericState) *Invitation {
	switch st := s.(type) {
	case InviteeInvited:
		return st.Invitation
	case InviterInvited:
		return st.Invitation
	}

	return nil
}

// failedState returns the Failed state of s's role for report. Terminal states refuse it.
func failedState(s GenericState, report *ProblemReport) (GenericState, error) {
	thin := s.Thin()

	if thin.IsTerminal() {
		return nil, fmt.Errorf("%w: problem report received in terminal state %s", ErrWrongState, thin)
	}

	if report == nil {
		return nil, errors.New("handle problem report: no report")
	}

	thid := s.threadID()
	if thid != "" {
		if err := service.VerifyThreadID(thid, report); err != nil {
			return nil, fmt.Errorf("handle problem report: %w", err)
		}
	}

	if thin.Role == RoleInviter {
		return InviterFailed{ThreadID: thid, ProblemReport: report}, nil
	}

	return InviteeFailed{ThreadID: thid, ProblemReport: report}, nil
}
