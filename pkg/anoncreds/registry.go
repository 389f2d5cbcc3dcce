/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

// registry is the wallet state of one revocation registry, loaded for a read-modify-write.
type registry struct {
	id       string
	def      *RevocationRegistryDefinition
	defPriv  string
	registry string
	info     RevocationRegistryInfo
	delta    *RevocationRegistryDelta
}

func loadRegDef(w wallet.Wallet, revRegID string) (*RevocationRegistryDefinition, error) {
	raw, err := w.GetRecord(wallet.CategoryRevRegDef, revRegID)
	if err != nil {
		return nil, err
	}

	var def RevocationRegistryDefinition
	if err = json.Unmarshal(raw, &def); err != nil {
		return nil, fmt.Errorf("decode revocation registry definition %s: %w", revRegID, err)
	}

	return &def, nil
}

func loadRegistry(w wallet.Wallet, revRegID string) (*registry, error) {
	def, err := loadRegDef(w, revRegID)
	if err != nil {
		return nil, err
	}

	defPriv, err := w.GetRecord(wallet.CategoryRevRegDefPriv, revRegID)
	if err != nil {
		return nil, err
	}

	reg, err := w.GetRecord(wallet.CategoryRevReg, revRegID)
	if err != nil {
		return nil, err
	}

	rawInfo, err := w.GetRecord(wallet.CategoryRevRegInfo, revRegID)
	if err != nil {
		return nil, err
	}

	r := &registry{id: revRegID, def: def, defPriv: string(defPriv), registry: string(reg)}

	if err = json.Unmarshal(rawInfo, &r.info); err != nil {
		return nil, fmt.Errorf("decode revocation registry info %s: %w", revRegID, err)
	}

	if r.info.UsedIDs == nil {
		r.info.UsedIDs = IDSet{}
	}

	return r, nil
}

// save commits the registry, its info and the delta, when one is set, in a single wallet batch.
func (r *registry) save(w wallet.Wallet) error {
	info, err := json.Marshal(r.info)
	if err != nil {
		return err
	}

	records := []wallet.Record{
		{Category: wallet.CategoryRevReg, Name: r.id, Value: []byte(r.registry)},
		{Category: wallet.CategoryRevRegInfo, Name: r.id, Value: info},
	}

	if r.delta != nil {
		delta, mErr := json.Marshal(r.delta)
		if mErr != nil {
			return mErr
		}

		records = append(records, wallet.Record{Category: wallet.CategoryRevRegDelta, Name: r.id, Value: delta})
	}

	if err = w.PutRecords(records...); err != nil {
		return fmt.Errorf("save revocation registry %s: %w", r.id, err)
	}

	return nil
}
