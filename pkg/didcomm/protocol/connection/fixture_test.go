/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"testing"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

const (
	inviterEndpoint = "https://inviter.example.com"
	inviteeEndpoint = "https://invitee.example.com"
)

func newWallet(t *testing.T, name string) *wallet.Store {
	t.Helper()

	w, err := wallet.New(mem.NewProvider(), name)
	require.NoError(t, err)

	return w
}

func newPairwise(t *testing.T, w wallet.Wallet) PairwiseInfo {
	t.Helper()

	pw, err := CreatePairwiseInfo(context.Background(), w)
	require.NoError(t, err)

	return pw
}

func didDoc(id, endpoint string, recipientKeys ...string) *did.AriesDidDoc {
	doc := did.NewAriesDidDoc()
	doc.SetID(id)
	doc.SetServiceEndpoint(endpoint)
	doc.SetRecipientKeys(recipientKeys)

	return doc
}

// exchange holds both sides of one connection in every state they pass through.
type exchange struct {
	inviterWallet *wallet.Store
	inviteeWallet *wallet.Store

	inviterInitial   Connection[Inviter, InviterInitial]
	inviterInvited   Connection[Inviter, InviterInvited]
	inviterRequested Connection[Inviter, InviterRequested]
	inviterCompleted Connection[Inviter, InviterCompleted]
	inviterFailed    Connection[Inviter, InviterFailed]

	inviteeInitial   Connection[Invitee, InviteeInitial]
	inviteeInvited   Connection[Invitee, InviteeInvited]
	inviteeRequested Connection[Invitee, InviteeRequested]
	inviteeCompleted Connection[Invitee, InviteeCompleted]
	inviteeFailed    Connection[Invitee, InviteeFailed]
}

func newExchange(t *testing.T) *exchange {
	t.Helper()

	ctx := context.Background()

	e := &exchange{
		inviterWallet: newWallet(t, "inviter"),
		inviteeWallet: newWallet(t, "invitee"),
	}

	var err error

	e.inviterInitial = NewInviter("alice", newPairwise(t, e.inviterWallet))
	e.inviterInvited, err = CreateInvitation(e.inviterInitial, nil, inviterEndpoint)
	require.NoError(t, err)

	e.inviteeInitial = NewInvitee("bob", newPairwise(t, e.inviteeWallet))
	e.inviteeInvited, err = AcceptInvitation(ctx, e.inviteeInitial, nil, GetInvitation(e.inviterInvited))
	require.NoError(t, err)

	e.inviteeRequested, err = PrepareRequest(e.inviteeInvited, inviteeEndpoint, nil)
	require.NoError(t, err)

	e.inviterRequested, err = HandleRequest(ctx, e.inviterInvited, e.inviterWallet,
		e.inviteeRequested.State().Request, inviterEndpoint, nil)
	require.NoError(t, err)

	e.inviteeCompleted, err = HandleResponse(ctx, e.inviteeRequested, e.inviteeWallet,
		GetSignedResponse(e.inviterRequested))
	require.NoError(t, err)

	e.inviterCompleted, err = AcknowledgeConnection(e.inviterRequested, GetAck(e.inviteeCompleted))
	require.NoError(t, err)

	e.inviteeFailed, err = HandleInviteeProblemReport(e.inviteeRequested,
		NewProblemReport(e.inviteeRequested.ThreadID(), ProblemCodeResponseNotAccepted, "bad response"))
	require.NoError(t, err)

	e.inviterFailed, err = HandleInviterProblemReport(e.inviterRequested,
		NewProblemReport(e.inviterRequested.ThreadID(), ProblemCodeRequestNotAccepted, "bad request"))
	require.NoError(t, err)

	return e
}

func (e *exchange) generics() []GenericConnection {
	return []GenericConnection{
		Erase(e.inviterInitial),
		Erase(e.inviterInvited),
		Erase(e.inviterRequested),
		Erase(e.inviterCompleted),
		Erase(e.inviterFailed),
		Erase(e.inviteeInitial),
		Erase(e.inviteeInvited),
		Erase(e.inviteeRequested),
		Erase(e.inviteeCompleted),
		Erase(e.inviteeFailed),
	}
}
