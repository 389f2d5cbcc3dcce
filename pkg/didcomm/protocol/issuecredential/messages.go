/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/model"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/decorator"
)

const (
	issueCredentialSpec = "https://didcomm.org/issue-credential/1.0/"

	// ProposeCredentialMsgType defines the propose-credential message type.
	ProposeCredentialMsgType = issueCredentialSpec + "propose-credential"
	// OfferCredentialMsgType defines the offer-credential message type.
	OfferCredentialMsgType = issueCredentialSpec + "offer-credential"
	// RequestCredentialMsgType defines the request-credential message type.
	RequestCredentialMsgType = issueCredentialSpec + "request-credential"
	// IssueCredentialMsgType defines the issue-credential message type.
	IssueCredentialMsgType = issueCredentialSpec + "issue-credential"
	// AckMsgType defines the ack of an issued credential.
	AckMsgType = issueCredentialSpec + "ack"
	// ProblemReportMsgType defines the issue-credential problem report message type.
	ProblemReportMsgType = issueCredentialSpec + "problem-report"
	// CredentialPreviewMsgType defines the type of a credential preview.
	CredentialPreviewMsgType = issueCredentialSpec + "credential-preview"
)

// Attachment ids of the indy credential formats.
const (
	AttachIDCredentialOffer   = "libindy-cred-offer-0"
	AttachIDCredentialRequest = "libindy-cred-request-0"
	AttachIDCredential        = "libindy-cred-0"
)

// ProblemCodeIssuanceAbandoned is reported when the issuer can't create the credential.
const ProblemCodeIssuanceAbandoned = "issuance-abandoned"

// CredentialAttribute is one attribute of a credential preview.
type CredentialAttribute struct {
	Name     string `json:"name"`
	MimeType string `json:"mime-type,omitempty"`
	Value    string `json:"value"`
}

// CredentialPreview lists the attributes the issuer intends to issue.
type CredentialPreview struct {
	Type       string                `json:"@type"`
	Attributes []CredentialAttribute `json:"attributes"`
}

// NewCredentialPreview returns an empty preview.
func NewCredentialPreview() CredentialPreview {
	return CredentialPreview{Type: CredentialPreviewMsgType, Attributes: []CredentialAttribute{}}
}

// AddAttribute appends a text attribute.
func (p *CredentialPreview) AddAttribute(name, value string) {
	p.Attributes = append(p.Attributes, CredentialAttribute{Name: name, Value: value})
}

// ProposeCredential is sent by a holder to ask for a credential.
type ProposeCredential struct {
	Type               string            `json:"@type,omitempty"`
	ID                 string            `json:"@id,omitempty"`
	Comment            string            `json:"comment,omitempty"`
	CredentialProposal CredentialPreview `json:"credential_proposal"`
	SchemaID           string            `json:"schema_id,omitempty"`
	CredDefID          string            `json:"cred_def_id,omitempty"`
	Thread             *decorator.Thread `json:"~thread,omitempty"`
	Timing             *decorator.Timing `json:"~timing,omitempty"`
}

// MsgType implements service.DIDCommMessage.
func (m *ProposeCredential) MsgType() string { return m.Type }

// MsgID implements service.DIDCommMessage.
func (m *ProposeCredential) MsgID() string { return m.ID }

// ThreadDecorator implements service.DIDCommMessage.
func (m *ProposeCredential) ThreadDecorator() *decorator.Thread { return m.Thread }

// OfferCredential carries the indy credential offer and its preview.
type OfferCredential struct {
	Type              string                 `json:"@type,omitempty"`
	ID                string                 `json:"@id,omitempty"`
	Comment           string                 `json:"comment,omitempty"`
	CredentialPreview CredentialPreview      `json:"credential_preview"`
	OffersAttach      []decorator.Attachment `json:"offers~attach"`
	Thread            *decorator.Thread      `json:"~thread,omitempty"`
	Timing            *decorator.Timing      `json:"~timing,omitempty"`
}

// MsgType implements service.DIDCommMessage.
func (m *OfferCredential) MsgType() string { return m.Type }

// MsgID implements service.DIDCommMessage.
func (m *OfferCredential) MsgID() string { return m.ID }

// ThreadDecorator implements service.DIDCommMessage.
func (m *OfferCredential) ThreadDecorator() *decorator.Thread { return m.Thread }

// RequestCredential carries the holder's indy credential request.
type RequestCredential struct {
	Type           string                 `json:"@type,omitempty"`
	ID             string                 `json:"@id,omitempty"`
	Comment        string                 `json:"comment,omitempty"`
	RequestsAttach []decorator.Attachment `json:"requests~attach"`
	Thread         *decorator.Thread      `json:"~thread,omitempty"`
	Timing         *decorator.Timing      `json:"~timing,omitempty"`
}

// NewRequestCredential builds a request on thread thid for the indy request JSON.
func NewRequestCredential(thid, request string) (*RequestCredential, error) {
	attach, err := decorator.NewBase64JSONAttachment(AttachIDCredentialRequest, json.RawMessage(request))
	if err != nil {
		return nil, err
	}

	return &RequestCredential{
		Type:           RequestCredentialMsgType,
		ID:             uuid.New().String(),
		RequestsAttach: []decorator.Attachment{attach},
		Thread:         decorator.NewThread(thid),
	}, nil
}

// MsgType implements service.DIDCommMessage.
func (m *RequestCredential) MsgType() string { return m.Type }

// MsgID implements service.DIDCommMessage.
func (m *RequestCredential) MsgID() string { return m.ID }

// ThreadDecorator implements service.DIDCommMessage.
func (m *RequestCredential) ThreadDecorator() *decorator.Thread { return m.Thread }

// IssueCredential carries the signed credential.
type IssueCredential struct {
	Type              string                 `json:"@type,omitempty"`
	ID                string                 `json:"@id,omitempty"`
	Comment           string                 `json:"comment,omitempty"`
	CredentialsAttach []decorator.Attachment `json:"credentials~attach"`
	Thread            *decorator.Thread      `json:"~thread,omitempty"`
	PleaseAck         *decorator.PleaseAck   `json:"~please_ack,omitempty"`
	Timing            *decorator.Timing      `json:"~timing,omitempty"`
}

// MsgType implements service.DIDCommMessage.
func (m *IssueCredential) MsgType() string { return m.Type }

// MsgID implements service.DIDCommMessage.
func (m *IssueCredential) MsgID() string { return m.ID }

// ThreadDecorator implements service.DIDCommMessage.
func (m *IssueCredential) ThreadDecorator() *decorator.Thread { return m.Thread }

// NewAck acknowledges the credential issued on thread thid.
func NewAck(thid string) *model.Ack {
	return model.NewAck(AckMsgType, thid)
}

// NewProblemReport builds an issue-credential problem report on thread thid.
func NewProblemReport(thid, comment string) *model.ProblemReport {
	return model.NewProblemReport(ProblemReportMsgType, thid, ProblemCodeIssuanceAbandoned, comment)
}

// attachmentString returns the JSON contents of the attachment with id, or of the first one.
func attachmentString(attachments []decorator.Attachment, id string) (string, error) {
	if len(attachments) == 0 {
		return "", fmt.Errorf("attachment %s not found", id)
	}

	a := attachments[0]

	for i := range attachments {
		if attachments[i].ID == id {
			a = attachments[i]

			break
		}
	}

	raw, err := a.DecodeBase64JSON()
	if err != nil {
		return "", err
	}

	return string(raw), nil
}
