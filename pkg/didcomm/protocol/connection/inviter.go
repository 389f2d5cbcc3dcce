/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/decorator"
	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

// CreateInvitation creates a pairwise invitation for the handle's verkey. Its id becomes the
// thread id.
func CreateInvitation(c Connection[Inviter, InviterInitial], routingKeys []string,
	endpoint string) (Connection[Inviter, InviterInvited], error) {
	var next Connection[Inviter, InviterInvited]

	if err := guard(c); err != nil {
		return next, err
	}

	for _, k := range routingKeys {
		if err := did.ValidateVerkey(k); err != nil {
			return next, fmt.Errorf("create invitation: routing key: %w", err)
		}
	}

	invitation := &Invitation{
		Type:            InvitationMsgType,
		ID:              uuid.New().String(),
		Label:           c.sourceID,
		RecipientKeys:   []string{c.pairwiseInfo.PwVK},
		ServiceEndpoint: endpoint,
		RoutingKeys:     routingKeys,
	}

	return transition(c, InviterInvited{Invitation: invitation}), nil
}

// HandleRequest validates the request and answers it with a response signed by the invitation
// key. The response advertises a new pairwise DID, which replaces the handle's pairwise info.
func HandleRequest(ctx context.Context, c Connection[Inviter, InviterInvited], w wallet.Wallet, request *Request,
	endpoint string, routingKeys []string) (Connection[Inviter, InviterRequested], error) {
	var next Connection[Inviter, InviterRequested]

	if err := guard(c); err != nil {
		return next, err
	}

	if err := service.VerifyThreadID(c.ThreadID(), request); err != nil {
		return next, fmt.Errorf("handle request: %w", err)
	}

	if request.Connection == nil || request.Connection.DIDDoc == nil {
		return next, fmt.Errorf("handle request: %w: request has no DID doc", did.ErrInvalidDIDDoc)
	}

	if err := request.Connection.DIDDoc.Validate(); err != nil {
		return next, fmt.Errorf("handle request: %w", err)
	}

	pw, err := CreatePairwiseInfo(ctx, w)
	if err != nil {
		return next, fmt.Errorf("handle request: %w", err)
	}

	doc := did.NewAriesDidDoc()
	doc.SetID(pw.PwDID)
	doc.SetServiceEndpoint(endpoint)
	doc.SetRecipientKeys([]string{pw.PwVK})
	doc.SetRoutingKeys(routingKeys)

	thid := request.threadID()

	signed, err := SignResponse(w, c.pairwiseInfo.PwVK, &Response{
		Type:       ResponseMsgType,
		ID:         uuid.New().String(),
		Connection: ConnectionData{DID: pw.PwDID, DIDDoc: doc},
		Thread:     &decorator.Thread{ID: thid, PID: request.parentThreadID()},
		PleaseAck:  &decorator.PleaseAck{On: []string{PlsAckOnReceipt}},
		Timing:     decorator.NewTiming(),
	})
	if err != nil {
		return next, fmt.Errorf("handle request: %w", err)
	}

	next = transition(c, InviterRequested{
		SignedResponse: signed,
		DidDoc:         request.Connection.DIDDoc,
		ThreadID:       thid,
	})
	next.pairwiseInfo = pw

	return next, nil
}

// AcknowledgeConnection completes the connection on an ack or a trust ping from the invitee.
func AcknowledgeConnection(c Connection[Inviter, InviterRequested],
	msg service.DIDCommMessage) (Connection[Inviter, InviterCompleted], error) {
	var next Connection[Inviter, InviterCompleted]

	if err := guard(c); err != nil {
		return next, err
	}

	if t := msg.MsgType(); t != AckMsgType && t != TrustPingMsgType {
		return next, fmt.Errorf("acknowledge connection: %w: %s", ErrUnexpectedMessage, t)
	}

	if err := service.VerifyThreadID(c.ThreadID(), msg); err != nil {
		return next, fmt.Errorf("acknowledge connection: %w", err)
	}

	return transition(c, InviterCompleted{DidDoc: c.state.DidDoc, ThreadID: c.state.ThreadID}), nil
}

// GetSignedResponse returns the response to send to the invitee.
func GetSignedResponse(c Connection[Inviter, InviterRequested]) *SignedResponse {
	return c.state.SignedResponse
}

type invited interface {
	InviteeInvited | InviterInvited
	GenericState
}

// GetInvitation returns the invitation of an invited handle of either role.
func GetInvitation[R Role, S invited](c Connection[R, S]) *Invitation {
	return invitationOf(c.state)
}

// HandleInviterProblemReport moves a non-terminal inviter to InviterFailed.
func HandleInviterProblemReport[S InviterState](c Connection[Inviter, S],
	report *ProblemReport) (Connection[Inviter, InviterFailed], error) {
	var next Connection[Inviter, InviterFailed]

	if err := guard(c); err != nil {
		return next, err
	}

	failed, err := failedState(c.state, report)
	if err != nil {
		return next, err
	}

	return transition(c, failed.(InviterFailed)), nil //nolint:forcetypeassert
}
