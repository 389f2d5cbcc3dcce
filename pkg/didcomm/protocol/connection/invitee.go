/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/model"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/decorator"
	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
	"github.com/hyperledger/aries-vcx-go/pkg/ledger"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

// AcceptInvitation builds the bootstrap DID doc from inv and adopts the invitation id as
// thread id. The service of a public invitation is read from r.
func AcceptInvitation(ctx context.Context, c Connection[Invitee, InviteeInitial], r ledger.Reader,
	inv *Invitation) (Connection[Invitee, InviteeInvited], error) {
	var next Connection[Invitee, InviteeInvited]

	if err := guard(c); err != nil {
		return next, err
	}

	if inv == nil || inv.ID == "" {
		return next, errors.New("accept invitation: invitation has no @id")
	}

	doc, err := bootstrapDidDoc(ctx, r, inv)
	if err != nil {
		return next, fmt.Errorf("accept invitation %s: %w", inv.ID, err)
	}

	return transition(c, InviteeInvited{DidDoc: doc, Invitation: inv}), nil
}

func bootstrapDidDoc(ctx context.Context, r ledger.Reader, inv *Invitation) (*did.AriesDidDoc, error) {
	doc := did.NewAriesDidDoc()

	var svc did.AriesService

	if inv.IsPublic() {
		if r == nil {
			return nil, errors.New("public invitation needs a ledger to resolve its service")
		}

		s, err := r.GetService(ctx, inv.DID)
		if err != nil {
			return nil, fmt.Errorf("resolve service of %s: %w", inv.DID, err)
		}

		doc.SetID(inv.DID)
		svc = *s
	} else {
		doc.SetID(inv.ID)
		svc = did.AriesService{
			ServiceEndpoint: inv.ServiceEndpoint,
			RecipientKeys:   inv.RecipientKeys,
			RoutingKeys:     inv.RoutingKeys,
		}
	}

	if len(svc.RecipientKeys) == 0 {
		return nil, fmt.Errorf("%w: invitation has no recipient keys", did.ErrInvalidDIDDoc)
	}

	doc.SetServiceEndpoint(svc.ServiceEndpoint)
	doc.SetRecipientKeys(svc.RecipientKeys)
	doc.SetRoutingKeys(svc.RoutingKeys)

	if err := doc.Validate(); err != nil {
		return nil, err
	}

	return doc, nil
}

// PrepareRequest builds the connection request advertising endpoint and routingKeys. A request
// to a pairwise invitation joins the invitation thread; a request to a public invitation opens
// its own thread under the invitation.
func PrepareRequest(c Connection[Invitee, InviteeInvited], endpoint string,
	routingKeys []string) (Connection[Invitee, InviteeRequested], error) {
	var next Connection[Invitee, InviteeRequested]

	if err := guard(c); err != nil {
		return next, err
	}

	doc := did.NewAriesDidDoc()
	doc.SetID(c.pairwiseInfo.PwDID)
	doc.SetServiceEndpoint(endpoint)
	doc.SetRecipientKeys([]string{c.pairwiseInfo.PwVK})
	doc.SetRoutingKeys(routingKeys)

	request := &Request{
		Type:  RequestMsgType,
		ID:    uuid.New().String(),
		Label: c.sourceID,
		Connection: &ConnectionData{
			DID:    c.pairwiseInfo.PwDID,
			DIDDoc: doc,
		},
		Timing: decorator.NewTiming(),
	}

	invitation := c.state.Invitation
	if invitation.IsPublic() {
		request.Thread = &decorator.Thread{ID: request.ID, PID: invitation.ID}
	} else {
		request.Thread = decorator.NewThread(invitation.ID)
	}

	return transition(c, InviteeRequested{
		DidDoc:   c.state.DidDoc,
		ThreadID: request.Thread.ID,
		Request:  request,
	}), nil
}

// HandleResponse checks the response thread and its signature against the invitation key, and
// takes the inviter's DID doc from the signed connection.
func HandleResponse(_ context.Context, c Connection[Invitee, InviteeRequested], w wallet.Wallet,
	response *SignedResponse) (Connection[Invitee, InviteeCompleted], error) {
	var next Connection[Invitee, InviteeCompleted]

	if err := guard(c); err != nil {
		return next, err
	}

	if err := service.VerifyThreadID(c.ThreadID(), response); err != nil {
		return next, fmt.Errorf("handle response: %w", err)
	}

	keys, err := c.state.DidDoc.RecipientKeys()
	if err != nil {
		return next, fmt.Errorf("handle response: %w", err)
	}

	if len(keys) == 0 {
		return next, fmt.Errorf("handle response: %w: no invitation key", ErrNotReady)
	}

	decoded, err := DecodeSignedResponse(w, response, keys[0])
	if err != nil {
		return next, fmt.Errorf("handle response: %w", err)
	}

	theirDoc := decoded.Connection.DIDDoc
	if theirDoc == nil {
		return next, fmt.Errorf("handle response: %w: response has no DID doc", did.ErrInvalidDIDDoc)
	}

	if err = theirDoc.Validate(); err != nil {
		return next, fmt.Errorf("handle response: %w", err)
	}

	return transition(c, InviteeCompleted{
		DidDoc:          theirDoc,
		BootstrapDidDoc: c.state.DidDoc,
		ThreadID:        c.state.ThreadID,
	}), nil
}

// GetAck returns the ack that confirms the connection to the inviter.
func GetAck(c Connection[Invitee, InviteeCompleted]) *model.Ack {
	return model.NewAck(AckMsgType, c.ThreadID())
}

// bootstrapped constrains the invitee states that hold the bootstrap DID doc.
type bootstrapped interface {
	InviteeInvited | InviteeRequested | InviteeCompleted
	GenericState
}

// BootstrapDidDoc returns the DID doc built from the invitation.
func BootstrapDidDoc[S bootstrapped](c Connection[Invitee, S]) *did.AriesDidDoc {
	return bootstrapOf(c.state)
}

func bootstrapOf(s GenericState) *did.AriesDidDoc {
	switch st := s.(type) {
	case InviteeInvited:
		return st.DidDoc
	case InviteeRequested:
		return st.DidDoc
	case InviteeCompleted:
		return st.BootstrapDidDoc
	}

	return nil
}

// HandleInviteeProblemReport moves a non-terminal invitee to InviteeFailed.
func HandleInviteeProblemReport[S InviteeState](c Connection[Invitee, S],
	report *ProblemReport) (Connection[Invitee, InviteeFailed], error) {
	var next Connection[Invitee, InviteeFailed]

	if err := guard(c); err != nil {
		return next, err
	}

	failed, err := failedState(c.state, report)
	if err != nil {
		return next, err
	}

	return transition(c, failed.(InviteeFailed)), nil //nolint:forcetypeassert
}
