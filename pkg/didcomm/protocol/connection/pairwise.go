/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"context"
	"fmt"

	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

// PairwiseInfo is the local DID and verkey used for one relationship.
type PairwiseInfo struct {
	PwDID string `json:"pw_did"`
	PwVK  string `json:"pw_vk"`
}

// CreatePairwiseInfo creates a fresh DID and verkey in w.
func CreatePairwiseInfo(ctx context.Context, w wallet.Wallet) (PairwiseInfo, error) {
	if err := ctx.Err(); err != nil {
		return PairwiseInfo{}, err
	}

	pwDID, pwVK, err := w.CreateAndStoreMyDID(nil)
	if err != nil {
		return PairwiseInfo{}, fmt.Errorf("create pairwise info: %w", err)
	}

	return PairwiseInfo{PwDID: pwDID, PwVK: pwVK}, nil
}
