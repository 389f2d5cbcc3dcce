/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/model"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/envelope"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/decorator"
	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
	transportMocks "github.com/hyperledger/aries-vcx-go/pkg/internal/gomocks/transport"
	"github.com/hyperledger/aries-vcx-go/pkg/ledger"
)

func TestInviteeHappyPath(t *testing.T) {
	ctx := context.Background()

	inviterWallet := newWallet(t, "inviter")
	inviteeWallet := newWallet(t, "invitee")

	_, k1, err := inviterWallet.CreateAndStoreMyDID(nil)
	require.NoError(t, err)

	invitation := &Invitation{
		Type:            InvitationMsgType,
		ID:              "inv-1",
		RecipientKeys:   []string{k1},
		ServiceEndpoint: "https://x",
	}

	c := NewInvitee("s", newPairwise(t, inviteeWallet))
	require.Equal(t, ThinState{RoleInvitee, StateInitial}, c.ThinState())
	require.Empty(t, c.ThreadID())
	require.Nil(t, c.TheirDidDoc())

	invited, err := AcceptInvitation(ctx, c, nil, invitation)
	require.NoError(t, err)
	require.Equal(t, "inv-1", invited.ThreadID())
	require.Equal(t, invitation, GetInvitation(invited))

	bootstrap := BootstrapDidDoc(invited)
	keys, err := bootstrap.RecipientKeys()
	require.NoError(t, err)
	require.Equal(t, []string{k1}, keys)

	endpoint, ok := bootstrap.GetEndpoint()
	require.True(t, ok)
	require.Equal(t, "https://x", endpoint)

	requested, err := PrepareRequest(invited, inviteeEndpoint, nil)
	require.NoError(t, err)
	require.Equal(t, "inv-1", requested.ThreadID())

	request := requested.State().Request
	require.Equal(t, RequestMsgType, request.Type)
	require.Equal(t, "s", request.Label)
	require.Equal(t, "inv-1", request.Thread.ID)
	require.Equal(t, c.PairwiseInfo().PwDID, request.Connection.DID)

	requestKeys, err := request.Connection.DIDDoc.RecipientKeys()
	require.NoError(t, err)
	require.Equal(t, []string{c.PairwiseInfo().PwVK}, requestKeys)

	signed, err := SignResponse(inviterWallet, k1, &Response{
		Type:       ResponseMsgType,
		ID:         "resp-1",
		Connection: ConnectionData{DID: "VsKV7grR1BUE29mG2Fm2kX", DIDDoc: didDoc("VsKV7grR1BUE29mG2Fm2kX", "https://x", k1)},
		Thread:     decorator.NewThread("inv-1"),
	})
	require.NoError(t, err)

	completed, err := HandleResponse(ctx, requested, inviteeWallet, signed)
	require.NoError(t, err)
	require.True(t, completed.IsTerminal())
	require.Equal(t, "inv-1", completed.ThreadID())
	require.Equal(t, "VsKV7grR1BUE29mG2Fm2kX", completed.RemoteDID())

	remoteVK, err := completed.RemoteVK()
	require.NoError(t, err)
	require.Equal(t, k1, remoteVK)
	require.Equal(t, bootstrap, BootstrapDidDoc(completed))

	ack := GetAck(completed)
	require.Equal(t, AckMsgType, ack.Type)
	require.Equal(t, "inv-1", ack.Thread.ID)
	require.Equal(t, model.AckStatusOK, ack.Status)

	t.Run("input handle is untouched", func(t *testing.T) {
		require.Equal(t, ThinState{RoleInvitee, StateRequested}, requested.ThinState())
		require.Equal(t, request, requested.State().Request)
		require.Equal(t, ThinState{RoleInvitee, StateInvited}, invited.ThinState())
	})
}

func TestExchange(t *testing.T) {
	e := newExchange(t)

	t.Run("inviter adopts a new pairwise DID", func(t *testing.T) {
		require.NotEqual(t, e.inviterInvited.PairwiseInfo(), e.inviterRequested.PairwiseInfo())

		response, err := DecodeSignedResponse(e.inviteeWallet, GetSignedResponse(e.inviterRequested),
			e.inviterInvited.PairwiseInfo().PwVK)
		require.NoError(t, err)
		require.Equal(t, e.inviterRequested.PairwiseInfo().PwDID, response.Connection.DID)
		require.Equal(t, []string{PlsAckOnReceipt}, response.PleaseAck.On)
	})

	t.Run("both sides agree", func(t *testing.T) {
		thid := GetInvitation(e.inviterInvited).ID

		require.Equal(t, thid, e.inviterCompleted.ThreadID())
		require.Equal(t, thid, e.inviteeCompleted.ThreadID())

		inviterVK, err := e.inviteeCompleted.RemoteVK()
		require.NoError(t, err)
		require.Equal(t, e.inviterCompleted.PairwiseInfo().PwVK, inviterVK)

		inviteeVK, err := e.inviterCompleted.RemoteVK()
		require.NoError(t, err)
		require.Equal(t, e.inviteeCompleted.PairwiseInfo().PwVK, inviteeVK)

		require.Equal(t, e.inviteeCompleted.PairwiseInfo().PwDID, e.inviterCompleted.RemoteDID())
		require.Equal(t, e.inviterCompleted.PairwiseInfo().PwDID, e.inviteeCompleted.RemoteDID())
	})

	t.Run("failed states keep the report", func(t *testing.T) {
		require.True(t, e.inviteeFailed.IsTerminal())
		require.Equal(t, ProblemCodeResponseNotAccepted, e.inviteeFailed.State().ProblemReport.ProblemCode)
		require.Equal(t, e.inviteeRequested.ThreadID(), e.inviteeFailed.ThreadID())
		require.Equal(t, ProblemCodeRequestNotAccepted, e.inviterFailed.State().ProblemReport.ProblemCode)
	})
}

func TestExchangeOverTransport(t *testing.T) {
	ctx := context.Background()
	e := newExchange(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	var sent []byte

	tr := transportMocks.NewMockTransport(ctrl)
	tr.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, data []byte, _ string) error {
			sent = data

			return nil
		}).AnyTimes()

	t.Run("request reaches the invitation endpoint", func(t *testing.T) {
		require.NoError(t, e.inviteeRequested.SendMessage(ctx, e.inviteeWallet, e.inviteeRequested.State().Request, tr))

		msg, senderVK, err := envelope.AnonUnpack(ctx, e.inviterWallet, sent)
		require.NoError(t, err)
		require.Equal(t, e.inviteeRequested.PairwiseInfo().PwVK, *senderVK)

		var request Request
		require.NoError(t, json.Unmarshal([]byte(msg), &request))

		requested, err := HandleRequest(ctx, e.inviterInvited, e.inviterWallet, &request, inviterEndpoint, nil)
		require.NoError(t, err)
		require.Equal(t, e.inviteeRequested.ThreadID(), requested.ThreadID())
	})

	t.Run("ack from the invitee completes the inviter", func(t *testing.T) {
		require.NoError(t, e.inviteeCompleted.SendMessage(ctx, e.inviteeWallet, GetAck(e.inviteeCompleted), tr))

		inviteeVK, err := e.inviterRequested.RemoteVK()
		require.NoError(t, err)

		msg, err := envelope.AuthUnpack(ctx, e.inviterWallet, sent, inviteeVK)
		require.NoError(t, err)

		m, err := service.ParseDIDCommMsgMap([]byte(msg))
		require.NoError(t, err)

		completed, err := AcknowledgeConnection(e.inviterRequested, m)
		require.NoError(t, err)
		require.Equal(t, ThinState{RoleInviter, StateCompleted}, completed.ThinState())
	})
}

func TestAcceptInvitation(t *testing.T) {
	ctx := context.Background()
	w := newWallet(t, "invitee")
	c := NewInvitee("s", newPairwise(t, w))
	key := newPairwise(t, w).PwVK

	t.Run("public invitation resolves the ledger service", func(t *testing.T) {
		l, err := ledger.NewMemLedger(mem.NewProvider())
		require.NoError(t, err)

		svc := did.AriesService{ServiceEndpoint: "https://public.example.com", RecipientKeys: []string{key}}
		require.NoError(t, l.PublishService(ctx, "VsKV7grR1BUE29mG2Fm2kX", &svc))

		invitation := &Invitation{Type: InvitationMsgType, ID: "inv-pub", DID: "VsKV7grR1BUE29mG2Fm2kX"}

		invited, err := AcceptInvitation(ctx, c, l, invitation)
		require.NoError(t, err)

		doc := BootstrapDidDoc(invited)
		require.Equal(t, "VsKV7grR1BUE29mG2Fm2kX", doc.ID)

		endpoint, ok := doc.GetEndpoint()
		require.True(t, ok)
		require.Equal(t, "https://public.example.com", endpoint)

		requested, err := PrepareRequest(invited, inviteeEndpoint, nil)
		require.NoError(t, err)

		request := requested.State().Request
		require.Equal(t, request.ID, request.Thread.ID)
		require.Equal(t, "inv-pub", request.Thread.PID)
		require.Equal(t, request.ID, requested.ThreadID())
	})

	t.Run("public invitation without ledger", func(t *testing.T) {
		_, err := AcceptInvitation(ctx, c, nil, &Invitation{ID: "inv-pub", DID: "VsKV7grR1BUE29mG2Fm2kX"})
		require.Error(t, err)
	})

	t.Run("public invitation with unknown DID", func(t *testing.T) {
		l, err := ledger.NewMemLedger(mem.NewProvider())
		require.NoError(t, err)

		_, err = AcceptInvitation(ctx, c, l, &Invitation{ID: "inv-pub", DID: "unknown"})
		require.ErrorIs(t, err, ledger.ErrNotFound)
	})

	t.Run("no recipient keys", func(t *testing.T) {
		_, err := AcceptInvitation(ctx, c, nil, &Invitation{ID: "inv-1", ServiceEndpoint: "https://x"})
		require.ErrorIs(t, err, did.ErrInvalidDIDDoc)
	})

	t.Run("no id", func(t *testing.T) {
		_, err := AcceptInvitation(ctx, c, nil, &Invitation{RecipientKeys: []string{key}})
		require.Error(t, err)

		_, err = AcceptInvitation(ctx, c, nil, nil)
		require.Error(t, err)
	})
}

func TestCreateInvitation(t *testing.T) {
	w := newWallet(t, "inviter")
	c := NewInviter("alice", newPairwise(t, w))

	t.Run("success", func(t *testing.T) {
		routingKey := newPairwise(t, w).PwVK

		invited, err := CreateInvitation(c, []string{routingKey}, inviterEndpoint)
		require.NoError(t, err)

		inv := GetInvitation(invited)
		require.NotEmpty(t, inv.ID)
		require.Equal(t, inv.ID, invited.ThreadID())
		require.Equal(t, []string{c.PairwiseInfo().PwVK}, inv.RecipientKeys)
		require.Equal(t, []string{routingKey}, inv.RoutingKeys)
		require.Equal(t, "alice", inv.Label)
		require.False(t, inv.IsPublic())
		require.Nil(t, invited.TheirDidDoc())
	})

	t.Run("invalid routing key", func(t *testing.T) {
		_, err := CreateInvitation(c, []string{"not-a-key"}, inviterEndpoint)
		require.ErrorIs(t, err, did.ErrInvalidVerkey)
	})
}

func TestThreadMismatch(t *testing.T) {
	ctx := context.Background()
	e := newExchange(t)

	t.Run("response", func(t *testing.T) {
		before, err := json.Marshal(e.inviteeRequested)
		require.NoError(t, err)

		response := *GetSignedResponse(e.inviterRequested)
		response.Thread = decorator.NewThread("other")

		_, err = HandleResponse(ctx, e.inviteeRequested, e.inviteeWallet, &response)
		require.ErrorIs(t, err, service.ErrThreadIDMismatch)

		after, err := json.Marshal(e.inviteeRequested)
		require.NoError(t, err)
		require.Equal(t, before, after)
	})

	t.Run("request", func(t *testing.T) {
		request := *e.inviteeRequested.State().Request
		request.Thread = decorator.NewThread("other")

		_, err := HandleRequest(ctx, e.inviterInvited, e.inviterWallet, &request, inviterEndpoint, nil)
		require.ErrorIs(t, err, service.ErrThreadIDMismatch)
	})

	t.Run("ack", func(t *testing.T) {
		_, err := AcknowledgeConnection(e.inviterRequested, model.NewAck(AckMsgType, "other"))
		require.ErrorIs(t, err, service.ErrThreadIDMismatch)
	})

	t.Run("problem report", func(t *testing.T) {
		_, err := HandleInviteeProblemReport(e.inviteeRequested,
			NewProblemReport("other", ProblemCodeResponseNotAccepted, ""))
		require.ErrorIs(t, err, service.ErrThreadIDMismatch)

		_, err = HandleInviterProblemReport(e.inviterInvited,
			NewProblemReport("other", ProblemCodeRequestNotAccepted, ""))
		require.ErrorIs(t, err, service.ErrThreadIDMismatch)
	})
}

func TestHandleRequestErrors(t *testing.T) {
	ctx := context.Background()
	e := newExchange(t)

	t.Run("no DID doc", func(t *testing.T) {
		request := *e.inviteeRequested.State().Request
		request.Connection = nil

		_, err := HandleRequest(ctx, e.inviterInvited, e.inviterWallet, &request, inviterEndpoint, nil)
		require.ErrorIs(t, err, did.ErrInvalidDIDDoc)
	})

	t.Run("invalid DID doc", func(t *testing.T) {
		request := *e.inviteeRequested.State().Request
		doc := *request.Connection.DIDDoc
		doc.ID = ""
		request.Connection = &ConnectionData{DID: "x", DIDDoc: &doc}

		_, err := HandleRequest(ctx, e.inviterInvited, e.inviterWallet, &request, inviterEndpoint, nil)
		require.ErrorIs(t, err, did.ErrInvalidDIDDoc)
	})

	t.Run("canceled context", func(t *testing.T) {
		canceled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := HandleRequest(canceled, e.inviterInvited, e.inviterWallet, e.inviteeRequested.State().Request,
			inviterEndpoint, nil)
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestHandleResponseSignature(t *testing.T) {
	ctx := context.Background()
	e := newExchange(t)

	t.Run("signed by another key", func(t *testing.T) {
		other := newPairwise(t, e.inviterWallet).PwVK

		signed, err := SignResponse(e.inviterWallet, other, &Response{
			Type:       ResponseMsgType,
			ID:         "resp",
			Connection: ConnectionData{DID: "x", DIDDoc: didDoc("x", inviterEndpoint, other)},
			Thread:     decorator.NewThread(e.inviteeRequested.ThreadID()),
		})
		require.NoError(t, err)

		_, err = HandleResponse(ctx, e.inviteeRequested, e.inviteeWallet, signed)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("tampered connection", func(t *testing.T) {
		response := *GetSignedResponse(e.inviterRequested)
		sig := *response.ConnectionSignature
		other, err := SignResponse(e.inviterWallet, e.inviterInvited.PairwiseInfo().PwVK, &Response{
			Type:       ResponseMsgType,
			Connection: ConnectionData{DID: "y", DIDDoc: didDoc("y", "https://evil.example.com", sig.SignVerKey)},
		})
		require.NoError(t, err)

		sig.SignedData = other.ConnectionSignature.SignedData
		response.ConnectionSignature = &sig

		_, err = HandleResponse(ctx, e.inviteeRequested, e.inviteeWallet, &response)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("missing signature", func(t *testing.T) {
		response := *GetSignedResponse(e.inviterRequested)
		response.ConnectionSignature = nil

		_, err := HandleResponse(ctx, e.inviteeRequested, e.inviteeWallet, &response)
		require.ErrorIs(t, err, ErrInvalidSignature)
	})
}

func TestAcknowledgeConnection(t *testing.T) {
	e := newExchange(t)
	thid := e.inviterRequested.ThreadID()

	t.Run("trust ping", func(t *testing.T) {
		completed, err := AcknowledgeConnection(e.inviterRequested, NewPing(thid, "hi"))
		require.NoError(t, err)
		require.Equal(t, e.inviterRequested.TheirDidDoc(), completed.TheirDidDoc())
	})

	t.Run("wrong message type", func(t *testing.T) {
		_, err := AcknowledgeConnection(e.inviterRequested, NewProblemReport(thid, ProblemCodeRequestNotAccepted, ""))
		require.ErrorIs(t, err, ErrUnexpectedMessage)
	})
}

func TestTerminalStates(t *testing.T) {
	e := newExchange(t)

	t.Run("problem report in completed", func(t *testing.T) {
		_, err := HandleInviteeProblemReport(e.inviteeCompleted,
			NewProblemReport(e.inviteeCompleted.ThreadID(), ProblemCodeResponseNotAccepted, ""))
		require.ErrorIs(t, err, ErrWrongState)

		_, err = HandleInviterProblemReport(e.inviterCompleted,
			NewProblemReport(e.inviterCompleted.ThreadID(), ProblemCodeRequestNotAccepted, ""))
		require.ErrorIs(t, err, ErrWrongState)
	})

	t.Run("problem report in failed", func(t *testing.T) {
		_, err := HandleInviteeProblemReport(e.inviteeFailed,
			NewProblemReport(e.inviteeFailed.ThreadID(), ProblemCodeResponseNotAccepted, ""))
		require.ErrorIs(t, err, ErrWrongState)

		_, err = HandleInviterProblemReport(e.inviterFailed,
			NewProblemReport(e.inviterFailed.ThreadID(), ProblemCodeRequestNotAccepted, ""))
		require.ErrorIs(t, err, ErrWrongState)
	})

	t.Run("problem report before a thread exists", func(t *testing.T) {
		failed, err := HandleInviteeProblemReport(e.inviteeInitial, NewProblemReport("any", "code", ""))
		require.NoError(t, err)
		require.Empty(t, failed.ThreadID())
	})

	t.Run("nil problem report", func(t *testing.T) {
		_, err := HandleInviteeProblemReport(e.inviteeRequested, nil)
		require.Error(t, err)
	})
}

func TestHandleDisclose(t *testing.T) {
	e := newExchange(t)

	disclose := &Disclose{
		Type:      DiscloseMsgType,
		ID:        "d-1",
		Protocols: []ProtocolDescriptor{{PID: "https://didcomm.org/issue-credential/1.0", Roles: []string{"holder"}}},
	}

	invitee, err := HandleDisclose(e.inviteeCompleted, disclose)
	require.NoError(t, err)
	require.Equal(t, disclose.Protocols, invitee.State().Protocols)
	require.Empty(t, e.inviteeCompleted.State().Protocols)

	inviter, err := HandleDisclose(e.inviterCompleted, disclose)
	require.NoError(t, err)
	require.Equal(t, disclose.Protocols, inviter.State().Protocols)

	_, err = HandleDisclose(e.inviterCompleted, nil)
	require.Error(t, err)
}

func TestGuard(t *testing.T) {
	t.Run("state without payload", func(t *testing.T) {
		c := Connection[Invitee, InviteeInvited]{sourceID: "s"}

		_, err := PrepareRequest(c, inviteeEndpoint, nil)
		require.ErrorIs(t, err, ErrWrongState)
	})

	t.Run("decoded state without payload", func(t *testing.T) {
		var c Connection[Inviter, InviterRequested]

		require.NoError(t, json.Unmarshal([]byte(
			`{"source_id":"s","pairwise_info":{"pw_did":"d","pw_vk":"k"},"state":{"Inviter":{"Requested":{}}}}`), &c))

		_, err := AcknowledgeConnection(c, model.NewAck(AckMsgType, ""))
		require.ErrorIs(t, err, ErrWrongState)
	})
}

func TestEncryptAndSend(t *testing.T) {
	ctx := context.Background()
	e := newExchange(t)

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	ack := GetAck(e.inviteeCompleted)

	t.Run("not ready", func(t *testing.T) {
		tr := transportMocks.NewMockTransport(ctrl)

		_, err := e.inviteeInitial.EncryptMessage(ctx, e.inviteeWallet, ack)
		require.ErrorIs(t, err, ErrNotReady)

		err = e.inviterInvited.SendMessage(ctx, e.inviterWallet, ack, tr)
		require.ErrorIs(t, err, ErrNotReady)

		_, err = e.inviteeFailed.RemoteVK()
		require.ErrorIs(t, err, ErrNotReady)
	})

	t.Run("no endpoint", func(t *testing.T) {
		tr := transportMocks.NewMockTransport(ctrl)

		invited, err := AcceptInvitation(ctx, e.inviteeInitial, nil, &Invitation{
			ID:            "inv-2",
			RecipientKeys: []string{e.inviterInitial.PairwiseInfo().PwVK},
		})
		require.NoError(t, err)

		err = invited.SendMessage(ctx, e.inviteeWallet, ack, tr)
		require.ErrorIs(t, err, ErrNoEndpoint)
	})

	t.Run("transport error", func(t *testing.T) {
		tr := transportMocks.NewMockTransport(ctrl)
		tr.EXPECT().Send(gomock.Any(), gomock.Any(), inviterEndpoint).Return(errors.New("offline"))

		err := e.inviteeCompleted.SendMessage(ctx, e.inviteeWallet, ack, tr)
		require.EqualError(t, err, "offline")
	})

	t.Run("encrypted for the counterparty", func(t *testing.T) {
		packed, err := e.inviterCompleted.EncryptMessage(ctx, e.inviterWallet, ack)
		require.NoError(t, err)

		msg, err := envelope.AuthUnpack(ctx, e.inviteeWallet, packed, e.inviterCompleted.PairwiseInfo().PwVK)
		require.NoError(t, err)
		require.Contains(t, msg, AckMsgType)
	})
}
