/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
)

// RoleTag names a role in the erased representation.
type RoleTag string

// StateTag names a state in the erased representation.
type StateTag string

// Role and state tags.
const (
	RoleInviter RoleTag = "Inviter"
	RoleInvitee RoleTag = "Invitee"

	StateInitial   StateTag = "Initial"
	StateInvited   StateTag = "Invited"
	StateRequested StateTag = "Requested"
	StateCompleted StateTag = "Completed"
	StateFailed    StateTag = "Failed"
)

// ThinState identifies a role and state without the state payload.
type ThinState struct {
	Role  RoleTag
	State StateTag
}

// IsTerminal reports whether no transition leaves the state.
func (t ThinState) IsTerminal() bool {
	return t.State == StateCompleted || t.State == StateFailed
}

func (t ThinState) String() string {
	return string(t.Role) + "/" + string(t.State)
}

// Inviter is the role of the party that creates the invitation.
type Inviter struct{}

// Invitee is the role of the party that accepts the invitation.
type Invitee struct{}

// Role constrains the role parameter of Connection.
type Role interface {
	Inviter | Invitee
}

// GenericState is a state payload of either role.
type GenericState interface {
	Thin() ThinState
	threadID() string
	theirDidDoc() *did.AriesDidDoc
	// check reports missing payload, for states that did not come from a transition.
	check() error
}

// InviteeState constrains the states of the invitee.
type InviteeState interface {
	InviteeInitial | InviteeInvited | InviteeRequested | InviteeCompleted | InviteeFailed
	GenericState
}

// InviterState constrains the states of the inviter.
type InviterState interface {
	InviterInitial | InviterInvited | InviterRequested | InviterCompleted | InviterFailed
	GenericState
}

// State constrains the state parameter of Connection.
type State interface {
	InviteeInitial | InviteeInvited | InviteeRequested | InviteeCompleted | InviteeFailed |
		InviterInitial | InviterInvited | InviterRequested | InviterCompleted | InviterFailed
	GenericState
}

// InviteeInitial is the invitee before an invitation is accepted.
type InviteeInitial struct{}

// InviteeInvited holds the accepted invitation and the bootstrap DID doc built from it.
type InviteeInvited struct {
	DidDoc     *did.AriesDidDoc `json:"did_doc"`
	Invitation *Invitation      `json:"invitation"`
}

// InviteeRequested holds the request sent to the inviter.
type InviteeRequested struct {
	DidDoc   *did.AriesDidDoc `json:"did_doc"`
	ThreadID string           `json:"thread_id"`
	Request  *Request         `json:"request"`
}

// InviteeCompleted holds the DID doc from the inviter's response.
type InviteeCompleted struct {
	DidDoc          *did.AriesDidDoc     `json:"did_doc"`
	BootstrapDidDoc *did.AriesDidDoc     `json:"bootstrap_did_doc"`
	ThreadID        string               `json:"thread_id"`
	Protocols       []ProtocolDescriptor `json:"protocols,omitempty"`
}

// InviteeFailed holds the problem report that ended the exchange.
type InviteeFailed struct {
	ThreadID      string         `json:"thread_id"`
	ProblemReport *ProblemReport `json:"problem_report"`
}

// InviterInitial is the inviter before it creates an invitation.
type InviterInitial struct{}

// InviterInvited holds the invitation sent to the invitee.
type InviterInvited struct {
	Invitation *Invitation `json:"invitation"`
}

// InviterRequested holds the signed response to the invitee's request.
type InviterRequested struct {
	SignedResponse *SignedResponse  `json:"signed_response"`
	DidDoc         *did.AriesDidDoc `json:"did_doc"`
	ThreadID       string           `json:"thread_id"`
}

// InviterCompleted holds the invitee's DID doc after it confirmed the connection.
type InviterCompleted struct {
	DidDoc    *did.AriesDidDoc     `json:"did_doc"`
	ThreadID  string               `json:"thread_id"`
	Protocols []ProtocolDescriptor `json:"protocols,omitempty"`
}

// InviterFailed holds the problem report that ended the exchange.
type InviterFailed struct {
	ThreadID      string         `json:"thread_id"`
	ProblemReport *ProblemReport `json:"problem_report"`
}

// stateTable maps every tag to a decoder of its payload. Thin() of each state type must agree
// with its entry here.
var stateTable = map[ThinState]func([]byte) (GenericState, error){ //nolint:gochecknoglobals
	{RoleInvitee, StateInitial}:   decodeState[InviteeInitial],
	{RoleInvitee, StateInvited}:   decodeState[InviteeInvited],
	{RoleInvitee, StateRequested}: decodeState[InviteeRequested],
	{RoleInvitee, StateCompleted}: decodeState[InviteeCompleted],
	{RoleInvitee, StateFailed}:    decodeState[InviteeFailed],
	{RoleInviter, StateInitial}:   decodeState[InviterInitial],
	{RoleInviter, StateInvited}:   decodeState[InviterInvited],
	{RoleInviter, StateRequested}: decodeState[InviterRequested],
	{RoleInviter, StateCompleted}: decodeState[InviterCompleted],
	{RoleInviter, StateFailed}:    decodeState[InviterFailed],
}

func decodeState[S State](raw []byte) (GenericState, error) {
	var s S

	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}

	return s, nil
}

func missing(t ThinState, field string) error {
	return fmt.Errorf("%w: %s has no %s", ErrWrongState, t, field)
}

func invitationThread(inv *Invitation) string {
	if inv == nil {
		return ""
	}

	return inv.ID
}

// Thin implements GenericState.
func (InviteeInitial) Thin() ThinState { return ThinState{RoleInvitee, StateInitial} }

func (InviteeInitial) threadID() string              { return "" }
func (InviteeInitial) theirDidDoc() *did.AriesDidDoc { return nil }
func (InviteeInitial) check() error                  { return nil }

// Thin implements GenericState.
func (InviteeInvited) Thin() ThinState { return ThinState{RoleInvitee, StateInvited} }

func (s InviteeInvited) threadID() string              { return invitationThread(s.Invitation) }
func (s InviteeInvited) theirDidDoc() *did.AriesDidDoc { return s.DidDoc }

func (s InviteeInvited) check() error {
	switch {
	case s.Invitation == nil:
		return missing(s.Thin(), "invitation")
	case s.DidDoc == nil:
		return missing(s.Thin(), "bootstrap DID doc")
	}

	return nil
}

// Thin implements GenericState.
func (InviteeRequested) Thin() ThinState { return ThinState{RoleInvitee, StateRequested} }

func (s InviteeRequested) threadID() string              { return s.ThreadID }
func (s InviteeRequested) theirDidDoc() *did.AriesDidDoc { return s.DidDoc }

func (s InviteeRequested) check() error {
	switch {
	case s.DidDoc == nil:
		return missing(s.Thin(), "bootstrap DID doc")
	case s.ThreadID == "":
		return missing(s.Thin(), "thread id")
	}

	return nil
}

// Thin implements GenericState.
func (InviteeCompleted) Thin() ThinState { return ThinState{RoleInvitee, StateCompleted} }

func (s InviteeCompleted) threadID() string              { return s.ThreadID }
func (s InviteeCompleted) theirDidDoc() *did.AriesDidDoc { return s.DidDoc }

func (s InviteeCompleted) check() error {
	switch {
	case s.DidDoc == nil:
		return missing(s.Thin(), "DID doc")
	case s.ThreadID == "":
		return missing(s.Thin(), "thread id")
	}

	return nil
}

// Thin implements GenericState.
func (InviteeFailed) Thin() ThinState { return ThinState{RoleInvitee, StateFailed} }

func (s InviteeFailed) threadID() string            { return s.ThreadID }
func (InviteeFailed) theirDidDoc() *did.AriesDidDoc { return nil }
func (InviteeFailed) check() error                  { return nil }

// Thin implements GenericState.
func (InviterInitial) Thin() ThinState { return ThinState{RoleInviter, StateInitial} }

func (InviterInitial) threadID() string              { return "" }
func (InviterInitial) theirDidDoc() *did.AriesDidDoc { return nil }
func (InviterInitial) check() error                  { return nil }

// Thin implements GenericState.
func (InviterInvited) Thin() ThinState { return ThinState{RoleInviter, StateInvited} }

func (s InviterInvited) threadID() string            { return invitationThread(s.Invitation) }
func (InviterInvited) theirDidDoc() *did.AriesDidDoc { return nil }

func (s InviterInvited) check() error {
	if s.Invitation == nil {
		return missing(s.Thin(), "invitation")
	}

	return nil
}

// Thin implements GenericState.
func (InviterRequested) Thin() ThinState { return ThinState{RoleInviter, StateRequested} }

func (s InviterRequested) threadID() string              { return s.ThreadID }
func (s InviterRequested) theirDidDoc() *did.AriesDidDoc { return s.DidDoc }

func (s InviterRequested) check() error {
	switch {
	case s.SignedResponse == nil:
		return missing(s.Thin(), "signed response")
	case s.DidDoc == nil:
		return missing(s.Thin(), "DID doc")
	case s.ThreadID == "":
		return missing(s.Thin(), "thread id")
	}

	return nil
}

// Thin implements GenericState.
func (InviterCompleted) Thin() ThinState { return ThinState{RoleInviter, StateCompleted} }

func (s InviterCompleted) threadID() string              { return s.ThreadID }
func (s InviterCompleted) theirDidDoc() *did.AriesDidDoc { return s.DidDoc }

func (s InviterCompleted) check() error {
	switch {
	case s.DidDoc == nil:
		return missing(s.Thin(), "DID doc")
	case s.ThreadID == "":
		return missing(s.Thin(), "thread id")
	}

	return nil
}

// Thin implements GenericState.
func (InviterFailed) Thin() ThinState { return ThinState{RoleInviter, StateFailed} }

func (s InviterFailed) threadID() string            { return s.ThreadID }
func (InviterFailed) theirDidDoc() *did.AriesDidDoc { return nil }
func (InviterFailed) check() error                  { return nil }
