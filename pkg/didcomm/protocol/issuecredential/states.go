/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/model"
)

// StateName names an issuer state.
type StateName string

// Issuer state names. StateFailed is reported for a Finished exchange that did not succeed.
const (
	StateInitial          StateName = "Initial"
	StateOfferSet         StateName = "OfferSet"
	StateProposalReceived StateName = "ProposalReceived"
	StateRequestReceived  StateName = "RequestReceived"
	StateCredentialSet    StateName = "CredentialSet"
	StateFinished         StateName = "Finished"
	StateFailed           StateName = "Failed"
)

// IssuerState is one of the issuer state payloads.
type IssuerState interface {
	Name() StateName
}

// OfferInfo is what the issuer needs to issue against an offer.
type OfferInfo struct {
	CredentialJSON string  `json:"credential_json"`
	CredDefID      string  `json:"cred_def_id"`
	RevRegID       *string `json:"rev_reg_id,omitempty"`
	TailsFile      *string `json:"tails_file,omitempty"`
}

// RevocationInfoV1 locates an issued credential in its registry.
type RevocationInfoV1 struct {
	CredRevID *string `json:"cred_rev_id,omitempty"`
	RevRegID  *string `json:"rev_reg_id,omitempty"`
	TailsFile *string `json:"tails_file,omitempty"`
}

// InitialState is the issuer before an offer or proposal.
type InitialState struct{}

// OfferSetState holds the offer built for the holder.
type OfferSetState struct {
	Offer          *OfferCredential `json:"offer"`
	CredentialJSON string           `json:"credential_json"`
	CredDefID      string           `json:"cred_def_id"`
	RevRegID       *string          `json:"rev_reg_id,omitempty"`
	TailsFile      *string          `json:"tails_file,omitempty"`
}

// ProposalReceivedState holds a proposal from the holder.
type ProposalReceivedState struct {
	CredentialProposal *ProposeCredential `json:"credential_proposal"`
	OfferInfo          *OfferInfo         `json:"offer_info,omitempty"`
}

// RequestReceivedState holds the holder's request for the offered credential.
type RequestReceivedState struct {
	Offer     *OfferCredential   `json:"offer"`
	CredData  string             `json:"cred_data"`
	RevRegID  *string            `json:"rev_reg_id,omitempty"`
	TailsFile *string            `json:"tails_file,omitempty"`
	Request   *RequestCredential `json:"request"`
	// Pending is a credential already built whose send failed. It is sent again instead of
	// signing a new one, so the registry index it holds is not lost.
	Pending *CredentialSetState `json:"pending_credential,omitempty"`
}

// CredentialSetState holds the issued credential message.
type CredentialSetState struct {
	MsgIssueCredential *IssueCredential  `json:"msg_issue_credential"`
	RevocationInfoV1   *RevocationInfoV1 `json:"revocation_info_v1,omitempty"`
}

// FinishedState closes the exchange.
type FinishedState struct {
	CredID           *string           `json:"cred_id,omitempty"`
	ThreadID         *string           `json:"thread_id,omitempty"`
	RevocationInfoV1 *RevocationInfoV1 `json:"revocation_info_v1,omitempty"`
	Status           Status            `json:"status"`
}

// Name implements IssuerState.
func (InitialState) Name() StateName { return StateInitial }

// Name implements IssuerState.
func (OfferSetState) Name() StateName { return StateOfferSet }

// Name implements IssuerState.
func (ProposalReceivedState) Name() StateName { return StateProposalReceived }

// Name implements IssuerState.
func (RequestReceivedState) Name() StateName { return StateRequestReceived }

// Name implements IssuerState.
func (CredentialSetState) Name() StateName { return StateCredentialSet }

// Name implements IssuerState.
func (FinishedState) Name() StateName { return StateFinished }

func requestReceivedFrom(s OfferSetState, request *RequestCredential) RequestReceivedState {
	return RequestReceivedState{
		Offer:     s.Offer,
		CredData:  s.CredentialJSON,
		RevRegID:  s.RevRegID,
		TailsFile: s.TailsFile,
		Request:   request,
	}
}

func finishedFromCredentialSet(s CredentialSetState) FinishedState {
	return FinishedState{RevocationInfoV1: s.RevocationInfoV1, Status: Status{Kind: StatusSuccess}}
}

func finishedFromOfferSet(s OfferSetState, report *model.ProblemReport) FinishedState {
	return FinishedState{
		RevocationInfoV1: &RevocationInfoV1{RevRegID: s.RevRegID, TailsFile: s.TailsFile},
		Status:           Status{Kind: StatusFailed, ProblemReport: report},
	}
}

func finishedFromRequest(s RequestReceivedState, report *model.ProblemReport) FinishedState {
	info := &RevocationInfoV1{RevRegID: s.RevRegID, TailsFile: s.TailsFile}
	if s.Pending != nil && s.Pending.RevocationInfoV1 != nil {
		info = s.Pending.RevocationInfoV1
	}

	return FinishedState{
		RevocationInfoV1: info,
		Status:           Status{Kind: StatusFailed, ProblemReport: report},
	}
}

// StatusKind is the outcome of a finished exchange.
type StatusKind uint32

// Status codes as reported by CredentialStatus.
const (
	StatusUndefined StatusKind = iota
	StatusSuccess
	StatusFailed
	StatusDeclined
)

var statusNames = map[StatusKind]string{ //nolint:gochecknoglobals
	StatusUndefined: "Undefined",
	StatusSuccess:   "Success",
	StatusFailed:    "Failed",
	StatusDeclined:  "Declined",
}

func (k StatusKind) String() string {
	return statusNames[k]
}

// Status is the outcome of a finished exchange. Failed and Declined carry the problem report.
//
// It encodes as "Undefined" or "Success", or as {"Failed": report} and {"Declined": report}.
type Status struct {
	Kind          StatusKind
	ProblemReport *model.ProblemReport
}

// MarshalJSON implements json.Marshaler.
func (s Status) MarshalJSON() ([]byte, error) {
	switch s.Kind {
	case StatusUndefined, StatusSuccess:
		return json.Marshal(s.Kind.String())
	case StatusFailed, StatusDeclined:
		return json.Marshal(map[string]*model.ProblemReport{s.Kind.String(): s.ProblemReport})
	}

	return nil, fmt.Errorf("unknown status %d", s.Kind)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Status) UnmarshalJSON(data []byte) error {
	var name string

	if err := json.Unmarshal(data, &name); err == nil {
		switch name {
		case "Undefined":
			*s = Status{Kind: StatusUndefined}
		case "Success":
			*s = Status{Kind: StatusSuccess}
		default:
			return fmt.Errorf("unknown status %q", name)
		}

		return nil
	}

	var withReport map[string]*model.ProblemReport

	if err := json.Unmarshal(data, &withReport); err != nil {
		return fmt.Errorf("decode status: %w", err)
	}

	if len(withReport) != 1 {
		return fmt.Errorf("decode status: want one variant, have %d", len(withReport))
	}

	for name, report := range withReport {
		switch name {
		case "Failed":
			*s = Status{Kind: StatusFailed, ProblemReport: report}
		case "Declined":
			*s = Status{Kind: StatusDeclined, ProblemReport: report}
		default:
			return fmt.Errorf("unknown status %q", name)
		}
	}

	return nil
}

var stateTable = map[StateName]func([]byte) (IssuerState, error){ //nolint:gochecknoglobals
	StateInitial:          decodeState[InitialState],
	StateOfferSet:         decodeState[OfferSetState],
	StateProposalReceived: decodeState[ProposalReceivedState],
	StateRequestReceived:  decodeState[RequestReceivedState],
	StateCredentialSet:    decodeState[CredentialSetState],
	StateFinished:         decodeState[FinishedState],
}

func decodeState[S IssuerState](raw []byte) (IssuerState, error) {
	var s S

	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}

	return s, nil
}

func marshalState(s IssuerState) ([]byte, error) {
	return json.Marshal(map[StateName]IssuerState{s.Name(): s})
}

func unmarshalState(data []byte) (IssuerState, error) {
	var raw map[StateName]json.RawMessage

	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	if len(raw) != 1 {
		return nil, fmt.Errorf("%w: state must hold exactly one variant", ErrInvalidState)
	}

	for name, payload := range raw {
		decode, ok := stateTable[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown state %s", ErrInvalidState, name)
		}

		s, err := decode(payload)
		if err != nil {
			return nil, fmt.Errorf("decode %s state: %w", name, err)
		}

		return s, nil
	}

	return nil, nil
}
