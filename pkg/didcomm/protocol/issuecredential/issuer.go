/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcx-go/pkg/anoncreds"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/model"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/decorator"
	"github.com/hyperledger/aries-vcx-go/pkg/ledger"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

var logger = log.New("aries-vcx/issuecredential")

var (
	// ErrInvalidState is returned when an operation is not available in the current state.
	ErrInvalidState = errors.New("issuer is in the wrong state")
	// ErrNotReady is returned when the issuer has nothing to build or send yet.
	ErrNotReady = errors.New("issuer is not ready")
	// ErrNotRevokable is returned for revocation queries on a credential issued without a registry.
	ErrNotRevokable = errors.New("credential is not revokable")
)

// CredentialIssuer signs and revokes credentials with the issuer's wallet-held keys and
// registries. *anoncreds.Issuer implements it.
type CredentialIssuer interface {
	IssuerCreateCredential(ctx context.Context, w wallet.Wallet, offer, request string,
		values anoncreds.CredentialValues, revRegID, tailsDir *string) (string, *uint32, error)
	RevokeCredentialLocal(ctx context.Context, w wallet.Wallet, revRegID string, credRevID uint32) error
}

// SendFunc delivers a message to the holder.
type SendFunc func(ctx context.Context, msg service.DIDCommMessage) error

// IssuerSM is the issuer side of an issue-credential v1 exchange. It is a value: every
// transition returns the next machine and leaves its receiver unchanged.
type IssuerSM struct {
	sourceID string
	threadID string
	state    IssuerState
}

type issuerSMJSON struct {
	SourceID string          `json:"source_id"`
	ThreadID string          `json:"thread_id"`
	State    json.RawMessage `json:"state"`
}

// NewIssuerSM starts an exchange on a new thread.
func NewIssuerSM(sourceID string) IssuerSM {
	return IssuerSM{sourceID: sourceID, threadID: uuid.New().String(), state: InitialState{}}
}

// IssuerSMFromProposal starts an exchange from a holder's proposal, on the proposal's thread.
func IssuerSMFromProposal(sourceID string, proposal *ProposeCredential) IssuerSM {
	return IssuerSM{
		sourceID: sourceID,
		threadID: proposal.ID,
		state:    ProposalReceivedState{CredentialProposal: proposal},
	}
}

// SourceID returns the caller supplied label.
func (sm IssuerSM) SourceID() string {
	return sm.sourceID
}

// ThreadID returns the exchange thread id.
func (sm IssuerSM) ThreadID() string {
	return sm.threadID
}

// State returns the state payload.
func (sm IssuerSM) State() IssuerState {
	if sm.state == nil {
		return InitialState{}
	}

	return sm.state
}

// GetState names the state. A Finished exchange that did not succeed reports StateFailed.
func (sm IssuerSM) GetState() StateName {
	if s, ok := sm.state.(FinishedState); ok && s.Status.Kind != StatusSuccess {
		return StateFailed
	}

	return sm.State().Name()
}

// IsTerminalState reports whether the exchange is Finished.
func (sm IssuerSM) IsTerminalState() bool {
	_, ok := sm.state.(FinishedState)

	return ok
}

// CredentialStatus returns the status code of a Finished exchange, StatusUndefined before.
func (sm IssuerSM) CredentialStatus() uint32 {
	if s, ok := sm.state.(FinishedState); ok {
		return uint32(s.Status.Kind)
	}

	return uint32(StatusUndefined)
}

func (sm IssuerSM) step(next IssuerState) IssuerSM {
	logger.Debugf("issuer %s: %s -> %s", sm.sourceID, sm.State().Name(), next.Name())

	return IssuerSM{sourceID: sm.sourceID, threadID: sm.threadID, state: next}
}

func (sm IssuerSM) warnUnexpected(what string) {
	logger.Warnf("issuer %s: unable to receive %s in state %s", sm.sourceID, what, sm.State().Name())
}

// BuildCredentialOfferMsg builds the offer for offerJSON. The offer id is the thread id.
func (sm IssuerSM) BuildCredentialOfferMsg(offerJSON string, preview CredentialPreview, comment string,
	offerInfo *OfferInfo) (IssuerSM, error) {
	switch sm.State().(type) {
	case InitialState, OfferSetState, ProposalReceivedState:
	default:
		return sm, fmt.Errorf("%w: can't build an offer in state %s", ErrInvalidState, sm.State().Name())
	}

	if offerInfo == nil {
		return sm, errors.New("build credential offer: no offer info")
	}

	attach, err := decorator.NewBase64JSONAttachment(AttachIDCredentialOffer, json.RawMessage(offerJSON))
	if err != nil {
		return sm, fmt.Errorf("build credential offer: %w", err)
	}

	offer := &OfferCredential{
		Type:              OfferCredentialMsgType,
		ID:                sm.threadID,
		Comment:           comment,
		CredentialPreview: preview,
		OffersAttach:      []decorator.Attachment{attach},
		Timing:            decorator.NewTiming(),
	}

	return sm.step(OfferSetState{
		Offer:          offer,
		CredentialJSON: offerInfo.CredentialJSON,
		CredDefID:      offerInfo.CredDefID,
		RevRegID:       offerInfo.RevRegID,
		TailsFile:      offerInfo.TailsFile,
	}), nil
}

// GetCredentialOfferMsg returns the offer built in OfferSet.
func (sm IssuerSM) GetCredentialOfferMsg() (*OfferCredential, error) {
	s, ok := sm.state.(OfferSetState)
	if !ok {
		return nil, fmt.Errorf("%w: no offer in state %s", ErrInvalidState, sm.State().Name())
	}

	return s.Offer, nil
}

// GetProposal returns the holder's proposal in ProposalReceived.
func (sm IssuerSM) GetProposal() (*ProposeCredential, error) {
	s, ok := sm.state.(ProposalReceivedState)
	if !ok {
		return nil, fmt.Errorf("%w: proposal is only available in %s", ErrInvalidState, StateProposalReceived)
	}

	return s.CredentialProposal, nil
}

// ReceiveProposal handles a holder's proposal.
func (sm IssuerSM) ReceiveProposal(proposal *ProposeCredential) (IssuerSM, error) {
	if err := service.VerifyThreadID(sm.threadID, proposal); err != nil {
		return sm, fmt.Errorf("receive proposal: %w", err)
	}

	switch sm.State().(type) {
	case InitialState:
		next := sm.step(ProposalReceivedState{CredentialProposal: proposal})
		next.threadID = proposal.ID

		return next, nil
	case OfferSetState:
		return sm.step(ProposalReceivedState{CredentialProposal: proposal}), nil
	}

	sm.warnUnexpected("credential proposal")

	return sm, nil
}

// ReceiveRequest handles the holder's request for the offered credential.
func (sm IssuerSM) ReceiveRequest(request *RequestCredential) (IssuerSM, error) {
	if err := service.VerifyThreadID(sm.threadID, request); err != nil {
		return sm, fmt.Errorf("receive request: %w", err)
	}

	if s, ok := sm.state.(OfferSetState); ok {
		return sm.step(requestReceivedFrom(s, request)), nil
	}

	sm.warnUnexpected("credential request")

	return sm, nil
}

// BuildCredential signs the requested credential. A signing failure is not returned: it
// finishes the exchange as Failed with a problem report explaining it. A credential kept
// pending by a failed send is reused as is.
func (sm IssuerSM) BuildCredential(ctx context.Context, w wallet.Wallet, issuer CredentialIssuer) (IssuerSM, error) {
	s, ok := sm.state.(RequestReceivedState)
	if !ok {
		return sm, fmt.Errorf("%w: can't build a credential in state %s", ErrNotReady, sm.State().Name())
	}

	if s.Pending != nil {
		return sm.step(*s.Pending), nil
	}

	msg, credRevID, err := createCredential(ctx, w, issuer, s, sm.threadID)
	if err != nil {
		report := NewProblemReport(sm.threadID, err.Error())

		logger.Errorf("issuer %s: failed to create credential, generated problem report %s: %s",
			sm.sourceID, report.ID, err)

		return sm.step(finishedFromRequest(s, report)), nil
	}

	info := &RevocationInfoV1{RevRegID: s.RevRegID, TailsFile: s.TailsFile}

	if credRevID != nil {
		id := strconv.FormatUint(uint64(*credRevID), 10)
		info.CredRevID = &id
	}

	return sm.step(CredentialSetState{MsgIssueCredential: msg, RevocationInfoV1: info}), nil
}

func createCredential(ctx context.Context, w wallet.Wallet, issuer CredentialIssuer, s RequestReceivedState,
	thid string) (*IssueCredential, *uint32, error) {
	if s.Request == nil || s.Offer == nil {
		return nil, nil, errors.New("missing offer or request")
	}

	if err := service.VerifyThreadID(thid, s.Request); err != nil {
		return nil, nil, fmt.Errorf("cannot handle credential request: %w", err)
	}

	offer, err := attachmentString(s.Offer.OffersAttach, AttachIDCredentialOffer)
	if err != nil {
		return nil, nil, fmt.Errorf("credential offer: %w", err)
	}

	request, err := attachmentString(s.Request.RequestsAttach, AttachIDCredentialRequest)
	if err != nil {
		return nil, nil, fmt.Errorf("credential request: %w", err)
	}

	values, err := EncodeAttributes(s.CredData)
	if err != nil {
		return nil, nil, err
	}

	credential, credRevID, err := issuer.IssuerCreateCredential(ctx, w, offer, request, values, s.RevRegID,
		s.TailsFile)
	if err != nil {
		return nil, nil, err
	}

	attach, err := decorator.NewBase64JSONAttachment(AttachIDCredential, json.RawMessage(credential))
	if err != nil {
		return nil, nil, err
	}

	return &IssueCredential{
		Type:              IssueCredentialMsgType,
		ID:                uuid.New().String(),
		CredentialsAttach: []decorator.Attachment{attach},
		Thread:            decorator.NewThread(thid),
		PleaseAck:         &decorator.PleaseAck{On: []string{}},
	}, credRevID, nil
}

// GetMsgIssueCredential returns the credential message, stamped with the current time.
func (sm IssuerSM) GetMsgIssueCredential() (*IssueCredential, error) {
	s, ok := sm.state.(CredentialSetState)
	if !ok || s.MsgIssueCredential == nil {
		return nil, fmt.Errorf("%w: no credential in state %s", ErrNotReady, sm.State().Name())
	}

	msg := *s.MsgIssueCredential
	msg.Timing = decorator.NewTiming()

	return &msg, nil
}

// SendCredential builds the credential if needed and sends it. When the send fails the
// machine stays in RequestReceived with the built credential pending, so a retry sends the
// same credential without allocating another registry index. From CredentialSet it resends
// the stored credential.
func (sm IssuerSM) SendCredential(ctx context.Context, w wallet.Wallet, issuer CredentialIssuer,
	send SendFunc) (IssuerSM, error) {
	next := sm

	switch sm.State().(type) {
	case RequestReceivedState:
		built, err := sm.BuildCredential(ctx, w, issuer)
		if err != nil {
			return sm, err
		}

		if s, failed := built.state.(FinishedState); failed {
			if err = send(ctx, s.Status.ProblemReport); err != nil {
				logger.Warnf("issuer %s: send problem report: %s", sm.sourceID, err)
			}

			return built, nil
		}

		next = built
	case CredentialSetState:
	default:
		return sm, fmt.Errorf("%w: can't send a credential in state %s", ErrNotReady, sm.State().Name())
	}

	msg, err := next.GetMsgIssueCredential()
	if err != nil {
		return sm, err
	}

	if err = send(ctx, msg); err != nil {
		return keepPending(sm, next), fmt.Errorf("send credential: %w", err)
	}

	return next, nil
}

// keepPending records the credential of built on the RequestReceived machine sm.
func keepPending(sm, built IssuerSM) IssuerSM {
	s, ok := sm.state.(RequestReceivedState)
	if !ok {
		return sm
	}

	set, ok := built.state.(CredentialSetState)
	if !ok {
		return sm
	}

	s.Pending = &set
	sm.state = s

	return sm
}

// ReceiveAck finishes the exchange once the holder acknowledged the credential.
func (sm IssuerSM) ReceiveAck(ack *model.Ack) (IssuerSM, error) {
	if err := service.VerifyThreadID(sm.threadID, ack); err != nil {
		return sm, fmt.Errorf("receive ack: %w", err)
	}

	if s, ok := sm.state.(CredentialSetState); ok {
		return sm.step(finishedFromCredentialSet(s)), nil
	}

	sm.warnUnexpected("credential ack")

	return sm, nil
}

// ReceiveProblemReport fails an offered exchange. After the credential was set the exchange
// still finishes as successful.
func (sm IssuerSM) ReceiveProblemReport(report *model.ProblemReport) (IssuerSM, error) {
	if err := service.VerifyThreadID(sm.threadID, report); err != nil {
		return sm, fmt.Errorf("receive problem report: %w", err)
	}

	switch s := sm.State().(type) {
	case OfferSetState:
		return sm.step(finishedFromOfferSet(s, report)), nil
	case CredentialSetState:
		return sm.step(finishedFromCredentialSet(s)), nil
	}

	sm.warnUnexpected("problem report")

	return sm, nil
}

// GetProblemReport returns the report of a Failed or Declined exchange.
func (sm IssuerSM) GetProblemReport() (*model.ProblemReport, error) {
	if s, ok := sm.state.(FinishedState); ok {
		if s.Status.Kind == StatusFailed || s.Status.Kind == StatusDeclined {
			return s.Status.ProblemReport, nil
		}
	}

	return nil, fmt.Errorf("%w: no problem report in state %s", ErrNotReady, sm.GetState())
}

// GetRevocationInfo returns the revocation info of an issued credential, or nil.
func (sm IssuerSM) GetRevocationInfo() *RevocationInfoV1 {
	switch s := sm.State().(type) {
	case CredentialSetState:
		return s.RevocationInfoV1
	case FinishedState:
		return s.RevocationInfoV1
	}

	return nil
}

// GetRevRegID returns the registry id the credential is or will be issued against.
func (sm IssuerSM) GetRevRegID() (string, error) {
	var revRegID *string

	switch s := sm.State().(type) {
	case InitialState:
		return "", fmt.Errorf("%w: no revocation info in the initial state", ErrInvalidState)
	case OfferSetState:
		revRegID = s.RevRegID
	case ProposalReceivedState:
		if s.OfferInfo != nil {
			revRegID = s.OfferInfo.RevRegID
		}
	case RequestReceivedState:
		revRegID = s.RevRegID
	case CredentialSetState, FinishedState:
		info := sm.GetRevocationInfo()
		if info == nil {
			return "", fmt.Errorf("%w: no revocation info found, is this credential revokable?", ErrInvalidState)
		}

		revRegID = info.RevRegID
	}

	if revRegID == nil {
		return "", fmt.Errorf("%w: no revocation registry id found", ErrInvalidState)
	}

	return *revRegID, nil
}

// GetRevID returns the registry index of an issued credential.
func (sm IssuerSM) GetRevID() (uint32, error) {
	info := sm.GetRevocationInfo()
	if info == nil {
		return 0, fmt.Errorf("%w: no revocation info found, is this credential revokable?", ErrInvalidState)
	}

	if info.CredRevID == nil {
		return 0, fmt.Errorf("%w: revocation info has no rev id", ErrInvalidState)
	}

	id, err := strconv.ParseUint(*info.CredRevID, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("parse cred rev id %q: %w", *info.CredRevID, err)
	}

	return uint32(id), nil
}

// IsRevokable reports whether the issued credential has a registry index.
func (sm IssuerSM) IsRevokable() bool {
	info := sm.GetRevocationInfo()

	return info != nil && info.CredRevID != nil
}

// IsRevoked reads the registry delta from the ledger and reports whether the credential was revoked.
func (sm IssuerSM) IsRevoked(ctx context.Context, r ledger.Reader) (bool, error) {
	if !sm.IsRevokable() {
		return false, ErrNotRevokable
	}

	revRegID, err := sm.GetRevRegID()
	if err != nil {
		return false, err
	}

	revID, err := sm.GetRevID()
	if err != nil {
		return false, err
	}

	to := uint64(time.Now().Unix())

	raw, _, err := r.GetRevRegDelta(ctx, revRegID, nil, &to)
	if err != nil {
		return false, fmt.Errorf("get revocation registry delta: %w", err)
	}

	delta, err := anoncreds.ParseRevocationRegistryDelta(raw)
	if err != nil {
		return false, err
	}

	return delta.IsRevoked(revID), nil
}

// RevokeLocal revokes the issued credential in the issuer's wallet. The change reaches the
// ledger when the registry's local revocations are published.
func (sm IssuerSM) RevokeLocal(ctx context.Context, w wallet.Wallet, issuer CredentialIssuer) error {
	if !sm.IsRevokable() {
		return ErrNotRevokable
	}

	revRegID, err := sm.GetRevRegID()
	if err != nil {
		return err
	}

	revID, err := sm.GetRevID()
	if err != nil {
		return err
	}

	return issuer.RevokeCredentialLocal(ctx, w, revRegID, revID)
}

// MarshalJSON implements json.Marshaler.
func (sm IssuerSM) MarshalJSON() ([]byte, error) {
	state, err := marshalState(sm.State())
	if err != nil {
		return nil, err
	}

	return json.Marshal(issuerSMJSON{SourceID: sm.sourceID, ThreadID: sm.threadID, State: state})
}

// UnmarshalJSON implements json.Unmarshaler.
func (sm *IssuerSM) UnmarshalJSON(data []byte) error {
	var raw issuerSMJSON

	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	state, err := unmarshalState(raw.State)
	if err != nil {
		return err
	}

	*sm = IssuerSM{sourceID: raw.SourceID, threadID: raw.ThreadID, state: state}

	return nil
}
