/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

var logger = log.New("aries-vcx/anoncreds")

var (
	// ErrRegistryFull is returned when a registry has no index left.
	ErrRegistryFull = errors.New("the revocation registry is full")
	// ErrRevocationIDNotFound is returned when an index can't be revoked.
	ErrRevocationIDNotFound = errors.New("revocation id not found in revocation registry")
	// ErrNoLocalRevocations is returned when publishing without a cached delta.
	ErrNoLocalRevocations = errors.New("no local revocations")
)

// DeltaPublisher writes registry deltas to a ledger.
type DeltaPublisher interface {
	PublishRevRegDelta(ctx context.Context, submitterDID, revRegID, delta string) error
}

// Issuer keeps the issuer's credential definitions and registries in a wallet and
// drives the engine over them.
type Issuer struct {
	engine CredentialEngine
	locks  *keyedMutex
}

// NewIssuer returns an issuer over engine.
func NewIssuer(engine CredentialEngine) *Issuer {
	return &Issuer{engine: engine, locks: newKeyedMutex()}
}

// Engine returns the wrapped engine.
func (i *Issuer) Engine() CredentialEngine {
	return i.engine
}

// IssuerCreateAndStoreCredentialDefinition creates a credential definition and stores
// its public and private parts.
func (i *Issuer) IssuerCreateAndStoreCredentialDefinition(ctx context.Context, w wallet.Wallet, issuerDID,
	schema, tag string, supportRevocation bool) (string, string, error) {
	credDefID, credDef, credDefPriv, kcp, err := i.engine.CreateCredentialDefinition(ctx, issuerDID, schema, tag,
		supportRevocation)
	if err != nil {
		return "", "", fmt.Errorf("create credential definition: %w", err)
	}

	for _, rec := range []struct {
		category wallet.RecordCategory
		value    string
	}{
		{wallet.CategoryCredDef, credDef},
		{wallet.CategoryCredDefPriv, credDefPriv},
		{wallet.CategoryCredKeyCorr, kcp},
	} {
		if err = w.AddRecord(rec.category, credDefID, []byte(rec.value)); err != nil {
			return "", "", fmt.Errorf("store %s %s: %w", rec.category, credDefID, err)
		}
	}

	return credDefID, credDef, nil
}

// IssuerCreateCredentialOffer creates an offer for a stored credential definition.
func (i *Issuer) IssuerCreateCredentialOffer(ctx context.Context, w wallet.Wallet, credDefID string) (string, error) {
	credDef, err := w.GetRecord(wallet.CategoryCredDef, credDefID)
	if err != nil {
		return "", err
	}

	kcp, err := w.GetRecord(wallet.CategoryCredKeyCorr, credDefID)
	if err != nil {
		return "", err
	}

	return i.engine.CreateCredentialOffer(ctx, string(credDef), string(kcp))
}

// IssuerCreateAndStoreRevocationRegistry creates a registry for credDefID. It returns the stored
// registry when one with the same id exists.
func (i *Issuer) IssuerCreateAndStoreRevocationRegistry(ctx context.Context, w wallet.Wallet, issuerDID,
	credDefID, tailsDir string, maxCredNum uint32, tag string,
	issuance IssuanceType) (string, *RevocationRegistryDefinition, string, error) {
	revRegID := RegistryID(issuerDID, credDefID, tag)

	unlock := i.locks.lock(revRegID)
	defer unlock()

	regDef, errDef := loadRegDef(w, revRegID)
	registry, errReg := w.GetRecord(wallet.CategoryRevReg, revRegID)

	if errDef == nil && errReg == nil {
		logger.Debugf("revocation registry %s already exists", revRegID)

		return revRegID, regDef, string(registry), nil
	}

	credDef, err := w.GetRecord(wallet.CategoryCredDef, credDefID)
	if err != nil {
		return "", nil, "", err
	}

	regDef, regDefPriv, reg, err := i.engine.CreateRevocationRegistry(ctx, issuerDID, string(credDef), tag, issuance,
		maxCredNum, tailsDir)
	if err != nil {
		return "", nil, "", fmt.Errorf("create revocation registry: %w", err)
	}

	regDef.ID = revRegID

	info := RevocationRegistryInfo{ID: revRegID, CurrID: 0, UsedIDs: IDSet{}}

	infoBytes, err := json.Marshal(info)
	if err != nil {
		return "", nil, "", err
	}

	regDefBytes, err := json.Marshal(regDef)
	if err != nil {
		return "", nil, "", err
	}

	for _, rec := range []struct {
		category wallet.RecordCategory
		value    []byte
	}{
		{wallet.CategoryRevRegInfo, infoBytes},
		{wallet.CategoryRevRegDef, regDefBytes},
		{wallet.CategoryRevRegDefPriv, []byte(regDefPriv)},
		{wallet.CategoryRevReg, []byte(reg)},
	} {
		if err = w.AddRecord(rec.category, revRegID, rec.value); err != nil {
			return "", nil, "", fmt.Errorf("store %s %s: %w", rec.category, revRegID, err)
		}
	}

	logger.Infof("created revocation registry %s (%s, max %d)", revRegID, issuance, maxCredNum)

	return revRegID, regDef, reg, nil
}

type credentialOffer struct {
	CredDefID string `json:"cred_def_id"`
}

// IssuerCreateCredential signs a credential. With a registry id it allocates the next registry
// index and returns it.
func (i *Issuer) IssuerCreateCredential(ctx context.Context, w wallet.Wallet, offer, request string,
	values CredentialValues, revRegID, tailsDir *string) (string, *uint32, error) {
	var o credentialOffer
	if err := json.Unmarshal([]byte(offer), &o); err != nil {
		return "", nil, fmt.Errorf("parse credential offer: %w", err)
	}

	credDef, err := w.GetRecord(wallet.CategoryCredDef, o.CredDefID)
	if err != nil {
		return "", nil, err
	}

	credDefPriv, err := w.GetRecord(wallet.CategoryCredDefPriv, o.CredDefID)
	if err != nil {
		return "", nil, err
	}

	if revRegID == nil {
		logger.Warnf("missing revocation registry id (tails dir %v), issuing non revokable credential", tailsDir)

		cred, _, e := i.engine.CreateCredential(ctx, string(credDef), string(credDefPriv), offer, request, values, nil)
		if e != nil {
			return "", nil, fmt.Errorf("create credential: %w", e)
		}

		return cred, nil, nil
	}

	unlock := i.locks.lock(*revRegID)
	defer unlock()

	reg, err := loadRegistry(w, *revRegID)
	if err != nil {
		return "", nil, err
	}

	reg.info.CurrID++

	if reg.info.CurrID > reg.def.MaxCredNum {
		return "", nil, fmt.Errorf("%w: %s", ErrRegistryFull, *revRegID)
	}

	if reg.def.IssuanceType == IssuanceOnDemand {
		reg.info.UsedIDs.Insert(reg.info.CurrID)
	}

	cfg := &RevocationConfig{
		RegDef:     reg.def,
		RegDefPriv: reg.defPriv,
		Registry:   reg.registry,
		Index:      reg.info.CurrID,
		UsedIDs:    reg.info.UsedIDs.Sorted(),
	}

	if tailsDir != nil {
		cfg.TailsDir = *tailsDir
	}

	cred, updated, err := i.engine.CreateCredential(ctx, string(credDef), string(credDefPriv), offer, request,
		values, cfg)
	if err != nil {
		return "", nil, fmt.Errorf("create credential: %w", err)
	}

	reg.registry = updated

	if err = reg.save(w); err != nil {
		return "", nil, err
	}

	credRevID := reg.info.CurrID

	return cred, &credRevID, nil
}

// RevokeCredentialLocal revokes credRevID in the wallet copy of the registry and caches the
// resulting delta until it is published.
func (i *Issuer) RevokeCredentialLocal(ctx context.Context, w wallet.Wallet, revRegID string,
	credRevID uint32) error {
	unlock := i.locks.lock(revRegID)
	defer unlock()

	reg, err := loadRegistry(w, revRegID)
	if err != nil {
		return err
	}

	switch reg.def.IssuanceType {
	case IssuanceOnDemand:
		if !reg.info.UsedIDs.Remove(credRevID) {
			return fmt.Errorf("%w: %d", ErrRevocationIDNotFound, credRevID)
		}
	default:
		if !reg.info.UsedIDs.Insert(credRevID) {
			return fmt.Errorf("%w: %d", ErrRevocationIDNotFound, credRevID)
		}
	}

	credDef, err := w.GetRecord(wallet.CategoryCredDef, reg.def.CredDefID)
	if err != nil {
		return err
	}

	updated, delta, err := i.engine.RevokeCredential(ctx, string(credDef), reg.def, reg.defPriv, reg.registry,
		credRevID)
	if err != nil {
		return fmt.Errorf("revoke credential: %w", err)
	}

	cached, err := getDelta(w, revRegID)
	if err != nil {
		return err
	}

	reg.registry = updated
	reg.delta = MergeDeltas(cached, delta)

	return reg.save(w)
}

// GetRevRegDelta returns the cached delta, or nil when there is none.
func (i *Issuer) GetRevRegDelta(_ context.Context, w wallet.Wallet, revRegID string) (*RevocationRegistryDelta, error) {
	unlock := i.locks.lock(revRegID)
	defer unlock()

	return getDelta(w, revRegID)
}

// ClearRevRegDelta removes the cached delta.
func (i *Issuer) ClearRevRegDelta(_ context.Context, w wallet.Wallet, revRegID string) error {
	unlock := i.locks.lock(revRegID)
	defer unlock()

	return clearDelta(w, revRegID)
}

// PublishLocalRevocations publishes the cached delta and clears it.
func (i *Issuer) PublishLocalRevocations(ctx context.Context, w wallet.Wallet, ledger DeltaPublisher,
	submitterDID, revRegID string) error {
	unlock := i.locks.lock(revRegID)
	defer unlock()

	delta, err := getDelta(w, revRegID)
	if err != nil {
		return err
	}

	if delta == nil {
		return fmt.Errorf("%w: %s", ErrNoLocalRevocations, revRegID)
	}

	raw, err := json.Marshal(delta)
	if err != nil {
		return err
	}

	if err = ledger.PublishRevRegDelta(ctx, submitterDID, revRegID, string(raw)); err != nil {
		return fmt.Errorf("publish revocation registry delta: %w", err)
	}

	return clearDelta(w, revRegID)
}

func getDelta(w wallet.Wallet, revRegID string) (*RevocationRegistryDelta, error) {
	raw, err := w.GetRecord(wallet.CategoryRevRegDelta, revRegID)
	if errors.Is(err, wallet.ErrRecordNotFound) {
		logger.Debugf("no cached delta for %s", revRegID)

		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return ParseRevocationRegistryDelta(string(raw))
}

func clearDelta(w wallet.Wallet, revRegID string) error {
	err := w.DeleteRecord(wallet.CategoryRevRegDelta, revRegID)
	if errors.Is(err, wallet.ErrRecordNotFound) {
		return nil
	}

	return err
}
