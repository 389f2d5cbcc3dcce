/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/connection"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport"
	"github.com/hyperledger/aries-vcx-go/pkg/ledger"
	connstore "github.com/hyperledger/aries-vcx-go/pkg/store/connection"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

// ProtocolName names the connection protocol in state notifications.
const ProtocolName = "connections"

var logger = log.New("aries-vcx/client/connection")

// ErrUnknownConnection is returned when no stored connection matches a message thread.
var ErrUnknownConnection = errors.New("no connection for thread")

// Provider contains the collaborators of the connection client.
type Provider interface {
	Wallet() wallet.Wallet
	Ledger() ledger.Reader
	Transport() transport.Transport
	StorageProvider() storage.Provider
	ServiceEndpoint() string
	RoutingKeys() []string
}

// Client drives connections of both roles and keeps them in the connection store. Every
// transition is announced to the channels registered through RegisterMsgEvent.
type Client struct {
	service.Message
	wallet      wallet.Wallet
	ledger      ledger.Reader
	transport   transport.Transport
	recorder    *connstore.Recorder
	endpoint    string
	routingKeys []string
}

// New returns a connection client.
func New(p Provider) (*Client, error) {
	recorder, err := connstore.NewRecorder(p.StorageProvider())
	if err != nil {
		return nil, err
	}

	return &Client{
		wallet:      p.Wallet(),
		ledger:      p.Ledger(),
		transport:   p.Transport(),
		recorder:    recorder,
		endpoint:    p.ServiceEndpoint(),
		routingKeys: p.RoutingKeys(),
	}, nil
}

// CreateInvitation starts an inviter connection and returns the invitation to hand to the invitee.
func (c *Client) CreateInvitation(ctx context.Context, label string) (*connection.Invitation, error) {
	pw, err := connection.CreatePairwiseInfo(ctx, c.wallet)
	if err != nil {
		return nil, fmt.Errorf("create invitation: %w", err)
	}

	invited, err := connection.CreateInvitation(connection.NewInviter(label, pw), c.routingKeys, c.endpoint)
	if err != nil {
		return nil, err
	}

	if err = c.save("", connection.Erase(invited), nil); err != nil {
		return nil, err
	}

	return connection.GetInvitation(invited), nil
}

// ReceiveInvitation starts an invitee connection for inv and returns its thread id.
func (c *Client) ReceiveInvitation(ctx context.Context, label string, inv *connection.Invitation) (string, error) {
	pw, err := connection.CreatePairwiseInfo(ctx, c.wallet)
	if err != nil {
		return "", fmt.Errorf("receive invitation: %w", err)
	}

	invited, err := connection.AcceptInvitation(ctx, connection.NewInvitee(label, pw), c.ledger, inv)
	if err != nil {
		return "", err
	}

	return invited.ThreadID(), c.save("", connection.Erase(invited), nil)
}

// SendRequest sends the connection request of the invitee on thid. It returns the thread id of
// the request, which differs from thid for public invitations.
func (c *Client) SendRequest(ctx context.Context, thid string) (string, error) {
	invited, err := load[connection.Invitee, connection.InviteeInvited](c, thid)
	if err != nil {
		return "", err
	}

	requested, err := connection.PrepareRequest(invited, c.endpoint, c.routingKeys)
	if err != nil {
		return "", err
	}

	if err = requested.SendMessage(ctx, c.wallet, requested.State().Request, c.transport); err != nil {
		return "", fmt.Errorf("send request: %w", err)
	}

	return requested.ThreadID(), c.save(thid, connection.Erase(requested), nil)
}

// AcceptRequest answers a request to one of the client's invitations and returns the thread id.
func (c *Client) AcceptRequest(ctx context.Context, request *connection.Request) (string, error) {
	g, err := c.lookup(request)
	if err != nil {
		return "", err
	}

	invited, err := connection.Recover[connection.Inviter, connection.InviterInvited](g)
	if err != nil {
		return "", err
	}

	requested, err := connection.HandleRequest(ctx, invited, c.wallet, request, c.endpoint, c.routingKeys)
	if err != nil {
		return "", err
	}

	return requested.ThreadID(), c.save(invited.ThreadID(), connection.Erase(requested), request)
}

// SendResponse sends the signed response of the inviter on thid.
func (c *Client) SendResponse(ctx context.Context, thid string) error {
	requested, err := load[connection.Inviter, connection.InviterRequested](c, thid)
	if err != nil {
		return err
	}

	return requested.SendMessage(ctx, c.wallet, connection.GetSignedResponse(requested), c.transport)
}

// AcceptResponse completes the invitee connection the response answers.
func (c *Client) AcceptResponse(ctx context.Context, response *connection.SignedResponse) (string, error) {
	g, err := c.lookup(response)
	if err != nil {
		return "", err
	}

	requested, err := connection.Recover[connection.Invitee, connection.InviteeRequested](g)
	if err != nil {
		return "", err
	}

	completed, err := connection.HandleResponse(ctx, requested, c.wallet, response)
	if err != nil {
		return "", err
	}

	return completed.ThreadID(), c.save(completed.ThreadID(), connection.Erase(completed), response)
}

// SendAck confirms the completed invitee connection on thid to the inviter.
func (c *Client) SendAck(ctx context.Context, thid string) error {
	completed, err := load[connection.Invitee, connection.InviteeCompleted](c, thid)
	if err != nil {
		return err
	}

	return completed.SendMessage(ctx, c.wallet, connection.GetAck(completed), c.transport)
}

// ProcessAck completes the inviter connection acknowledged by msg, an ack or a trust ping.
func (c *Client) ProcessAck(_ context.Context, msg service.DIDCommMessage) (string, error) {
	g, err := c.lookup(msg)
	if err != nil {
		return "", err
	}

	requested, err := connection.Recover[connection.Inviter, connection.InviterRequested](g)
	if err != nil {
		return "", err
	}

	completed, err := connection.AcknowledgeConnection(requested, msg)
	if err != nil {
		return "", err
	}

	return completed.ThreadID(), c.save(completed.ThreadID(), connection.Erase(completed), msg)
}

// ProcessProblemReport fails the connection the report refers to.
func (c *Client) ProcessProblemReport(report *connection.ProblemReport) (string, error) {
	g, err := c.lookup(report)
	if err != nil {
		return "", err
	}

	failed, err := g.HandleProblemReport(report)
	if err != nil {
		return "", err
	}

	return failed.ThreadID(), c.save(g.ThreadID(), failed, report)
}

// ProcessDisclose records the protocols the counterparty of a completed connection supports.
func (c *Client) ProcessDisclose(thid string, msg *connection.Disclose) error {
	g, err := c.GetByThreadID(thid)
	if err != nil {
		return err
	}

	var next connection.GenericConnection

	switch g.State().Role {
	case connection.RoleInvitee:
		next, err = disclose[connection.Invitee, connection.InviteeCompleted](g, msg)
	default:
		next, err = disclose[connection.Inviter, connection.InviterCompleted](g, msg)
	}

	if err != nil {
		return err
	}

	return c.save(thid, next, msg)
}

func disclose[R connection.Role, S interface {
	connection.InviteeCompleted | connection.InviterCompleted
	connection.State
}](g connection.GenericConnection, msg *connection.Disclose) (connection.GenericConnection, error) {
	typed, err := connection.Recover[R, S](g)
	if err != nil {
		return connection.GenericConnection{}, err
	}

	typed, err = connection.HandleDisclose(typed, msg)
	if err != nil {
		return connection.GenericConnection{}, err
	}

	return connection.Erase(typed), nil
}

// HandleInbound decodes an unpacked connection message and applies it. It returns the thread id
// of the connection it changed.
func (c *Client) HandleInbound(ctx context.Context, msg service.DIDCommMsgMap) (string, error) {
	switch msg.Type() {
	case connection.RequestMsgType:
		var request connection.Request
		if err := msg.Decode(&request); err != nil {
			return "", fmt.Errorf("decode request: %w", err)
		}

		return c.AcceptRequest(ctx, &request)
	case connection.ResponseMsgType:
		var response connection.SignedResponse
		if err := msg.Decode(&response); err != nil {
			return "", fmt.Errorf("decode response: %w", err)
		}

		return c.AcceptResponse(ctx, &response)
	case connection.AckMsgType, connection.TrustPingMsgType:
		return c.ProcessAck(ctx, msg)
	case connection.ProblemReportMsgType:
		var report connection.ProblemReport
		if err := msg.Decode(&report); err != nil {
			return "", fmt.Errorf("decode problem report: %w", err)
		}

		return c.ProcessProblemReport(&report)
	}

	return "", fmt.Errorf("%w: %s", connection.ErrUnexpectedMessage, msg.Type())
}

// GetByThreadID returns the stored connection on thid.
func (c *Client) GetByThreadID(thid string) (connection.GenericConnection, error) {
	return c.recorder.GetConnection(thid)
}

// ListByState returns the stored connections in state.
func (c *Client) ListByState(state connection.ThinState) ([]connection.GenericConnection, error) {
	return c.recorder.QueryByState(state)
}

// ListConnections returns every stored connection.
func (c *Client) ListConnections() ([]connection.GenericConnection, error) {
	return c.recorder.QueryConnections()
}

// DeleteConnection removes the stored connection on thid.
func (c *Client) DeleteConnection(thid string) error {
	return c.recorder.RemoveConnection(thid)
}

func load[R connection.Role, S connection.State](c *Client, thid string) (connection.Connection[R, S], error) {
	g, err := c.GetByThreadID(thid)
	if err != nil {
		return connection.Connection[R, S]{}, err
	}

	return connection.Recover[R, S](g)
}

// lookup finds the connection of an inbound message by thread id, then by parent thread id.
func (c *Client) lookup(msg service.DIDCommMessage) (connection.GenericConnection, error) {
	var candidates []string

	if t := msg.ThreadDecorator(); t != nil {
		candidates = append(candidates, t.ID, t.PID)
	}

	candidates = append(candidates, msg.MsgID())

	for _, thid := range candidates {
		if thid == "" {
			continue
		}

		g, err := c.GetByThreadID(thid)
		if err == nil {
			return g, nil
		}

		if !errors.Is(err, storage.ErrDataNotFound) {
			return g, err
		}
	}

	return connection.GenericConnection{}, fmt.Errorf("%w: %s", ErrUnknownConnection, msg.MsgType())
}

func (c *Client) save(oldThid string, g connection.GenericConnection, msg interface{}) error {
	if err := c.recorder.MoveConnection(oldThid, g); err != nil {
		return err
	}

	logger.Debugf("connection %s is %s", g.ThreadID(), g.State())

	notification := service.StateMsg{
		ProtocolName: ProtocolName,
		Type:         service.PostState,
		StateID:      g.State().String(),
		ThreadID:     g.ThreadID(),
	}

	if msg != nil {
		m, err := service.NewDIDCommMsgMap(msg)
		if err != nil {
			logger.Warnf("failed to convert %T for state notification: %s", msg, err)
		} else {
			notification.Msg = m
		}
	}

	c.Notify(notification)

	return nil
}
