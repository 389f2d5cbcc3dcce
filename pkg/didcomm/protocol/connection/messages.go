/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"github.com/google/uuid"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/decorator"
	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
)

const (
	connectionsSpec = "https://didcomm.org/connections/1.0/"

	// InvitationMsgType defines the connection invitation message type.
	InvitationMsgType = connectionsSpec + "invitation"
	// RequestMsgType defines the connection request message type.
	RequestMsgType = connectionsSpec + "request"
	// ResponseMsgType defines the connection response message type.
	ResponseMsgType = connectionsSpec + "response"
	// ProblemReportMsgType defines the connection problem report message type.
	ProblemReportMsgType = connectionsSpec + "problem_report"
	// AckMsgType defines the ack that completes a connection.
	AckMsgType = "https://didcomm.org/notification/1.0/ack"
	// TrustPingMsgType defines the trust ping message type.
	TrustPingMsgType = "https://didcomm.org/trust_ping/1.0/ping"
	// DiscloseMsgType defines the discover-features disclose message type.
	DiscloseMsgType = "https://didcomm.org/discover-features/1.0/disclose"

	signatureType = "https://didcomm.org/signature/1.0/ed25519Sha512_single"

	// PlsAckOnReceipt asks for an ack as soon as the message is received.
	PlsAckOnReceipt = "RECEIPT"
)

// Problem codes of the connection protocol.
const (
	ProblemCodeRequestNotAccepted      = "request_not_accepted"
	ProblemCodeRequestProcessingError  = "request_processing_error"
	ProblemCodeResponseNotAccepted     = "response_not_accepted"
	ProblemCodeResponseProcessingError = "response_processing_error"
)

// Invitation defines Connection protocol invitation message
// https://github.com/hyperledger/aries-rfcs/tree/main/features/0160-connection-protocol#0-invitation-to-connect
//
// A public invitation carries only a DID whose service is read from the ledger.
type Invitation struct {
	Type            string   `json:"@type,omitempty"`
	ID              string   `json:"@id,omitempty"`
	Label           string   `json:"label,omitempty"`
	RecipientKeys   []string `json:"recipientKeys,omitempty"`
	ServiceEndpoint string   `json:"serviceEndpoint,omitempty"`
	RoutingKeys     []string `json:"routingKeys,omitempty"`
	DID             string   `json:"did,omitempty"`
}

// IsPublic reports whether the invitation refers to a public DID.
func (i *Invitation) IsPublic() bool {
	return i.DID != ""
}

// MsgType implements service.DIDCommMessage.
func (i *Invitation) MsgType() string { return i.Type }

// MsgID implements service.DIDCommMessage.
func (i *Invitation) MsgID() string { return i.ID }

// ThreadDecorator implements service.DIDCommMessage. Invitations start a thread.
func (i *Invitation) ThreadDecorator() *decorator.Thread { return nil }

// ConnectionData is the connection attribute of requests and responses.
type ConnectionData struct {
	DID    string           `json:"DID"`
	DIDDoc *did.AriesDidDoc `json:"DIDDoc"`
}

// Request defines a2a Connection request
// https://github.com/hyperledger/aries-rfcs/tree/main/features/0160-connection-protocol#1-connection-request
type Request struct {
	Type       string            `json:"@type,omitempty"`
	ID         string            `json:"@id,omitempty"`
	Label      string            `json:"label"`
	Connection *ConnectionData   `json:"connection,omitempty"`
	Thread     *decorator.Thread `json:"~thread,omitempty"`
	Timing     *decorator.Timing `json:"~timing,omitempty"`
}

// MsgType implements service.DIDCommMessage.
func (r *Request) MsgType() string { return r.Type }

// MsgID implements service.DIDCommMessage.
func (r *Request) MsgID() string { return r.ID }

// ThreadDecorator implements service.DIDCommMessage.
func (r *Request) ThreadDecorator() *decorator.Thread { return r.Thread }

// threadID is the thread a request opens or joins: its ~thread.thid, or its @id without one.
func (r *Request) threadID() string {
	if r.Thread != nil && r.Thread.ID != "" {
		return r.Thread.ID
	}

	return r.ID
}

func (r *Request) parentThreadID() string {
	if r.Thread == nil {
		return ""
	}

	return r.Thread.PID
}

// Response is the connection response before signing.
type Response struct {
	Type       string               `json:"@type,omitempty"`
	ID         string               `json:"@id,omitempty"`
	Connection ConnectionData       `json:"connection"`
	Thread     *decorator.Thread    `json:"~thread,omitempty"`
	PleaseAck  *decorator.PleaseAck `json:"~please_ack,omitempty"`
	Timing     *decorator.Timing    `json:"~timing,omitempty"`
}

// SignedResponse defines a2a Connection response
// https://github.com/hyperledger/aries-rfcs/tree/main/features/0160-connection-protocol#2-connection-response
type SignedResponse struct {
	Type                string               `json:"@type,omitempty"`
	ID                  string               `json:"@id,omitempty"`
	ConnectionSignature *ConnectionSignature `json:"connection~sig,omitempty"`
	Thread              *decorator.Thread    `json:"~thread,omitempty"`
	PleaseAck           *decorator.PleaseAck `json:"~please_ack,omitempty"`
	Timing              *decorator.Timing    `json:"~timing,omitempty"`
}

// MsgType implements service.DIDCommMessage.
func (r *SignedResponse) MsgType() string { return r.Type }

// MsgID implements service.DIDCommMessage.
func (r *SignedResponse) MsgID() string { return r.ID }

// ThreadDecorator implements service.DIDCommMessage.
func (r *SignedResponse) ThreadDecorator() *decorator.Thread { return r.Thread }

// ConnectionSignature connection signature.
type ConnectionSignature struct {
	Type       string `json:"@type,omitempty"`
	Signature  string `json:"signature,omitempty"`
	SignedData string `json:"sig_data,omitempty"`
	SignVerKey string `json:"signer,omitempty"`
}

// ProblemReport is sent when a request or response can't be accepted.
type ProblemReport struct {
	Type        string            `json:"@type,omitempty"`
	ID          string            `json:"@id,omitempty"`
	ProblemCode string            `json:"problem-code,omitempty"`
	Explain     string            `json:"explain,omitempty"`
	Thread      *decorator.Thread `json:"~thread,omitempty"`
	Timing      *decorator.Timing `json:"~timing,omitempty"`
}

// NewProblemReport builds a connection problem report on thread thid.
func NewProblemReport(thid, code, explain string) *ProblemReport {
	return &ProblemReport{
		Type:        ProblemReportMsgType,
		ID:          uuid.New().String(),
		ProblemCode: code,
		Explain:     explain,
		Thread:      decorator.NewThread(thid),
		Timing:      decorator.NewTiming(),
	}
}

// MsgType implements service.DIDCommMessage.
func (p *ProblemReport) MsgType() string { return p.Type }

// MsgID implements service.DIDCommMessage.
func (p *ProblemReport) MsgID() string { return p.ID }

// ThreadDecorator implements service.DIDCommMessage.
func (p *ProblemReport) ThreadDecorator() *decorator.Thread { return p.Thread }

// Ping is a trust ping. The inviter accepts it in place of an ack.
type Ping struct {
	Type              string            `json:"@type,omitempty"`
	ID                string            `json:"@id,omitempty"`
	Comment           string            `json:"comment,omitempty"`
	ResponseRequested bool              `json:"response_requested,omitempty"`
	Thread            *decorator.Thread `json:"~thread,omitempty"`
	Timing            *decorator.Timing `json:"~timing,omitempty"`
}

// NewPing builds a trust ping on thread thid.
func NewPing(thid, comment string) *Ping {
	return &Ping{
		Type:    TrustPingMsgType,
		ID:      uuid.New().String(),
		Comment: comment,
		Thread:  decorator.NewThread(thid),
		Timing:  decorator.NewTiming(),
	}
}

// MsgType implements service.DIDCommMessage.
func (p *Ping) MsgType() string { return p.Type }

// MsgID implements service.DIDCommMessage.
func (p *Ping) MsgID() string { return p.ID }

// ThreadDecorator implements service.DIDCommMessage.
func (p *Ping) ThreadDecorator() *decorator.Thread { return p.Thread }

// ProtocolDescriptor is one protocol disclosed by the counterparty.
type ProtocolDescriptor struct {
	PID   string   `json:"pid"`
	Roles []string `json:"roles,omitempty"`
}

// Disclose lists the protocols the counterparty supports.
type Disclose struct {
	Type      string               `json:"@type,omitempty"`
	ID        string               `json:"@id,omitempty"`
	Protocols []ProtocolDescriptor `json:"protocols"`
	Thread    *decorator.Thread    `json:"~thread,omitempty"`
}

// MsgType implements service.DIDCommMessage.
func (d *Disclose) MsgType() string { return d.Type }

// MsgID implements service.DIDCommMessage.
func (d *Disclose) MsgID() string { return d.ID }

// ThreadDecorator implements service.DIDCommMessage.
func (d *Disclose) ThreadDecorator() *decorator.Thread { return d.Thread }
