/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/model"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/connection"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/issuecredential"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport"
	"github.com/hyperledger/aries-vcx-go/pkg/ledger"
	issuerstore "github.com/hyperledger/aries-vcx-go/pkg/store/issuer"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

// ProtocolName names the issue-credential protocol in state notifications.
const ProtocolName = "issue-credential"

var logger = log.New("aries-vcx/client/issuecredential")

var (
	errEmptyOffer    = errors.New("received an empty offer")
	errEmptyProposal = errors.New("received an empty proposal")
)

// Provider contains the collaborators of the issuer client.
type Provider interface {
	Wallet() wallet.Wallet
	Ledger() ledger.Reader
	CredentialIssuer() issuecredential.CredentialIssuer
	StorageProvider() storage.Provider
}

// Client keeps the issuer side of issue-credential exchanges and routes inbound messages to them
// by thread id. Every transition is announced to the channels registered through RegisterMsgEvent.
type Client struct {
	service.Message
	wallet   wallet.Wallet
	ledger   ledger.Reader
	issuer   issuecredential.CredentialIssuer
	recorder *issuerstore.Recorder
}

// New returns an issuer client.
func New(p Provider) (*Client, error) {
	recorder, err := issuerstore.NewRecorder(p.StorageProvider())
	if err != nil {
		return nil, err
	}

	return &Client{
		wallet:   p.Wallet(),
		ledger:   p.Ledger(),
		issuer:   p.CredentialIssuer(),
		recorder: recorder,
	}, nil
}

// ConnectionSender sends issuer messages to the counterparty of conn.
func ConnectionSender(conn connection.GenericConnection, w wallet.Wallet,
	t transport.Transport) issuecredential.SendFunc {
	return func(ctx context.Context, msg service.DIDCommMessage) error {
		return conn.SendMessage(ctx, w, msg, t)
	}
}

// CreateOffer starts an exchange with an offer for offerJSON and returns the offer to send.
func (c *Client) CreateOffer(sourceID, offerJSON string, preview issuecredential.CredentialPreview, comment string,
	info *issuecredential.OfferInfo) (*issuecredential.OfferCredential, error) {
	sm, err := issuecredential.NewIssuerSM(sourceID).BuildCredentialOfferMsg(offerJSON, preview, comment, info)
	if err != nil {
		return nil, err
	}

	if err = c.save(sm, nil); err != nil {
		return nil, err
	}

	return sm.GetCredentialOfferMsg()
}

// AcceptProposal answers the proposal on thid with an offer for offerJSON.
func (c *Client) AcceptProposal(thid, offerJSON string, preview issuecredential.CredentialPreview, comment string,
	info *issuecredential.OfferInfo) (*issuecredential.OfferCredential, error) {
	sm, err := c.recorder.Get(thid)
	if err != nil {
		return nil, err
	}

	if sm, err = sm.BuildCredentialOfferMsg(offerJSON, preview, comment, info); err != nil {
		return nil, err
	}

	if err = c.save(sm, nil); err != nil {
		return nil, err
	}

	return sm.GetCredentialOfferMsg()
}

// SendOffer sends the offer of the exchange on thid.
func (c *Client) SendOffer(ctx context.Context, thid string, send issuecredential.SendFunc) error {
	sm, err := c.recorder.Get(thid)
	if err != nil {
		return err
	}

	offer, err := sm.GetCredentialOfferMsg()
	if err != nil {
		return err
	}

	if offer == nil {
		return errEmptyOffer
	}

	return send(ctx, offer)
}

// SendCredential builds and sends the credential of the exchange on thid. A credential that
// can't be built finishes the exchange and the holder gets a problem report instead. After a
// failed send the next call sends the same credential again.
func (c *Client) SendCredential(ctx context.Context, thid string, send issuecredential.SendFunc) error {
	sm, err := c.recorder.Get(thid)
	if err != nil {
		return err
	}

	next, sendErr := sm.SendCredential(ctx, c.wallet, c.issuer, send)

	// a failed send keeps the built credential pending on the record
	if next.GetState() != sm.GetState() || sendErr != nil {
		if err = c.save(next, nil); err != nil {
			return err
		}
	}

	return sendErr
}

// HandleInbound applies an unpacked issue-credential message to the exchange on its thread and
// returns the thread id. A proposal on an unknown thread starts a new exchange.
func (c *Client) HandleInbound(msg service.DIDCommMsgMap) (string, error) {
	switch msg.Type() {
	case issuecredential.ProposeCredentialMsgType:
		var proposal issuecredential.ProposeCredential
		if err := msg.Decode(&proposal); err != nil {
			return "", fmt.Errorf("decode proposal: %w", err)
		}

		return c.handleProposal(&proposal, msg)
	case issuecredential.RequestCredentialMsgType:
		var request issuecredential.RequestCredential
		if err := msg.Decode(&request); err != nil {
			return "", fmt.Errorf("decode request: %w", err)
		}

		return c.apply(msg, func(sm issuecredential.IssuerSM) (issuecredential.IssuerSM, error) {
			return sm.ReceiveRequest(&request)
		})
	case issuecredential.AckMsgType:
		var ack model.Ack
		if err := msg.Decode(&ack); err != nil {
			return "", fmt.Errorf("decode ack: %w", err)
		}

		return c.apply(msg, func(sm issuecredential.IssuerSM) (issuecredential.IssuerSM, error) {
			return sm.ReceiveAck(&ack)
		})
	case issuecredential.ProblemReportMsgType:
		var report model.ProblemReport
		if err := msg.Decode(&report); err != nil {
			return "", fmt.Errorf("decode problem report: %w", err)
		}

		return c.apply(msg, func(sm issuecredential.IssuerSM) (issuecredential.IssuerSM, error) {
			return sm.ReceiveProblemReport(&report)
		})
	}

	return "", fmt.Errorf("unsupported message type %s", msg.Type())
}

func (c *Client) handleProposal(proposal *issuecredential.ProposeCredential, msg service.DIDCommMsgMap) (string,
	error) {
	if proposal.ID == "" {
		return "", errEmptyProposal
	}

	if thid := msg.ThreadID(); thid != "" {
		if _, err := c.recorder.Get(thid); err == nil {
			return c.apply(msg, func(sm issuecredential.IssuerSM) (issuecredential.IssuerSM, error) {
				return sm.ReceiveProposal(proposal)
			})
		}
	}

	sm := issuecredential.IssuerSMFromProposal(proposal.ID, proposal)

	return sm.ThreadID(), c.save(sm, msg)
}

func (c *Client) apply(msg service.DIDCommMsgMap,
	transition func(issuecredential.IssuerSM) (issuecredential.IssuerSM, error)) (string, error) {
	thid := msg.ThreadID()
	if thid == "" {
		thid = msg.ID()
	}

	sm, err := c.recorder.Get(thid)
	if err != nil {
		return "", err
	}

	next, err := transition(sm)
	if err != nil {
		return "", err
	}

	if next.GetState() == sm.GetState() {
		logger.Debugf("issuer %s: %s left the state unchanged", thid, msg.Type())

		return thid, nil
	}

	return thid, c.save(next, msg)
}

// RevokeCredential revokes the credential issued on thid in the wallet registry.
func (c *Client) RevokeCredential(ctx context.Context, thid string) error {
	sm, err := c.recorder.Get(thid)
	if err != nil {
		return err
	}

	return sm.RevokeLocal(ctx, c.wallet, c.issuer)
}

// IsRevoked reports whether the credential issued on thid is revoked on the ledger.
func (c *Client) IsRevoked(ctx context.Context, thid string) (bool, error) {
	sm, err := c.recorder.Get(thid)
	if err != nil {
		return false, err
	}

	return sm.IsRevoked(ctx, c.ledger)
}

// GetByThreadID returns the exchange on thid.
func (c *Client) GetByThreadID(thid string) (issuecredential.IssuerSM, error) {
	return c.recorder.Get(thid)
}

// ListByState returns the exchanges in state.
func (c *Client) ListByState(state issuecredential.StateName) ([]issuecredential.IssuerSM, error) {
	return c.recorder.QueryByState(state)
}

func (c *Client) save(sm issuecredential.IssuerSM, msg service.DIDCommMsgMap) error {
	if err := c.recorder.Save(sm); err != nil {
		return err
	}

	c.Notify(service.StateMsg{
		ProtocolName: ProtocolName,
		Type:         service.PostState,
		StateID:      string(sm.GetState()),
		ThreadID:     sm.ThreadID(),
		Msg:          msg,
	})

	return nil
}
