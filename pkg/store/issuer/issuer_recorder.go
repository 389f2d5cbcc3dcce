/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package issuer persists issuer state machines keyed by thread id.
package issuer

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/issuecredential"
)

const (
	// Namespace is the name of the issuer store.
	Namespace = "issuer"

	issuerTag = "issuer"
	stateTag  = "state"
)

var logger = log.New("aries-vcx/store/issuer")

// Recorder stores issuer state machines.
type Recorder struct {
	store storage.Store
}

// NewRecorder opens the issuer store of p.
func NewRecorder(p storage.Provider) (*Recorder, error) {
	store, err := p.OpenStore(Namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to open issuer store: %w", err)
	}

	err = p.SetStoreConfig(Namespace, storage.StoreConfiguration{TagNames: []string{issuerTag, stateTag}})
	if err != nil {
		return nil, fmt.Errorf("failed to set issuer store config: %w", err)
	}

	return &Recorder{store: store}, nil
}

// Save stores sm under its thread id.
func (r *Recorder) Save(sm issuecredential.IssuerSM) error {
	raw, err := json.Marshal(sm)
	if err != nil {
		return fmt.Errorf("save issuer %s: %w", sm.ThreadID(), err)
	}

	logger.Debugf("saving issuer %s in state %s", sm.ThreadID(), sm.GetState())

	return r.store.Put(sm.ThreadID(), raw,
		storage.Tag{Name: issuerTag},
		storage.Tag{Name: stateTag, Value: string(sm.GetState())})
}

// Get returns the issuer on thid, or an error wrapping storage.ErrDataNotFound.
func (r *Recorder) Get(thid string) (issuecredential.IssuerSM, error) {
	var sm issuecredential.IssuerSM

	raw, err := r.store.Get(thid)
	if err != nil {
		return sm, fmt.Errorf("get issuer %s: %w", thid, err)
	}

	if err = json.Unmarshal(raw, &sm); err != nil {
		return sm, fmt.Errorf("decode issuer %s: %w", thid, err)
	}

	return sm, nil
}

// Delete removes the issuer on thid.
func (r *Recorder) Delete(thid string) error {
	return r.store.Delete(thid)
}

// QueryByState returns the issuers in state.
func (r *Recorder) QueryByState(state issuecredential.StateName) ([]issuecredential.IssuerSM, error) {
	return r.query(stateTag + ":" + string(state))
}

// QueryAll returns every stored issuer.
func (r *Recorder) QueryAll() ([]issuecredential.IssuerSM, error) {
	return r.query(issuerTag)
}

func (r *Recorder) query(expression string) ([]issuecredential.IssuerSM, error) {
	itr, err := r.store.Query(expression)
	if err != nil {
		return nil, fmt.Errorf("query issuers: %w", err)
	}

	defer func() {
		if e := itr.Close(); e != nil {
			logger.Warnf("failed to close issuer iterator: %s", e)
		}
	}()

	var result []issuecredential.IssuerSM

	for more, err := itr.Next(); more || err != nil; more, err = itr.Next() {
		if err != nil {
			return nil, fmt.Errorf("query issuers: %w", err)
		}

		raw, err := itr.Value()
		if err != nil {
			return nil, fmt.Errorf("query issuers: %w", err)
		}

		var sm issuecredential.IssuerSM
		if err = json.Unmarshal(raw, &sm); err != nil {
			return nil, fmt.Errorf("decode issuer: %w", err)
		}

		result = append(result, sm)
	}

	return result, nil
}
