/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import (
	"encoding/json"
	"fmt"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// IssuanceType controls which registry indices count as issued.
type IssuanceType string

const (
	// IssuanceByDefault treats every index as issued until revoked.
	IssuanceByDefault IssuanceType = "ISSUANCE_BY_DEFAULT"
	// IssuanceOnDemand treats an index as issued once a credential is created for it.
	IssuanceOnDemand IssuanceType = "ISSUANCE_ON_DEMAND"
)

// IDSet is a set of registry indices. It serializes as a sorted JSON array.
type IDSet map[uint32]struct{}

// NewIDSet returns a set holding ids.
func NewIDSet(ids ...uint32) IDSet {
	s := make(IDSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}

	return s
}

// Has reports whether id is in the set.
func (s IDSet) Has(id uint32) bool {
	_, ok := s[id]

	return ok
}

// Insert adds id and reports whether it was absent.
func (s IDSet) Insert(id uint32) bool {
	if s.Has(id) {
		return false
	}

	s[id] = struct{}{}

	return true
}

// Remove deletes id and reports whether it was present.
func (s IDSet) Remove(id uint32) bool {
	if !s.Has(id) {
		return false
	}

	delete(s, id)

	return true
}

// Sorted returns the members in ascending order.
func (s IDSet) Sorted() []uint32 {
	ids := maps.Keys(s)
	slices.Sort(ids)

	return ids
}

// MarshalJSON implements json.Marshaler.
func (s IDSet) MarshalJSON() ([]byte, error) {
	ids := s.Sorted()
	if ids == nil {
		ids = []uint32{}
	}

	return json.Marshal(ids)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *IDSet) UnmarshalJSON(data []byte) error {
	var ids []uint32
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}

	*s = NewIDSet(ids...)

	return nil
}

// RevocationRegistryInfo is the issuer-side bookkeeping of a registry.
type RevocationRegistryInfo struct {
	ID      string `json:"id"`
	CurrID  uint32 `json:"curr_id"`
	UsedIDs IDSet  `json:"used_ids"`
}

// RevocationRegistryDefinition is the subset of a registry definition the issuer bookkeeping reads.
type RevocationRegistryDefinition struct {
	ID            string       `json:"id"`
	CredDefID     string       `json:"credDefId"`
	Tag           string       `json:"tag,omitempty"`
	IssuanceType  IssuanceType `json:"issuanceType"`
	MaxCredNum    uint32       `json:"maxCredNum"`
	TailsLocation string       `json:"tailsLocation,omitempty"`
	TailsHash     string       `json:"tailsHash,omitempty"`
}

// RevocationRegistryDelta is a change to a registry accumulator.
type RevocationRegistryDelta struct {
	Accum   string   `json:"accum"`
	Issued  []uint32 `json:"issued"`
	Revoked []uint32 `json:"revoked"`
}

// ParseRevocationRegistryDelta decodes a delta as returned by a ledger.
func ParseRevocationRegistryDelta(data string) (*RevocationRegistryDelta, error) {
	var d RevocationRegistryDelta
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return nil, fmt.Errorf("parse revocation registry delta: %w", err)
	}

	return &d, nil
}

// IsRevoked reports whether index is in the revoked list.
func (d *RevocationRegistryDelta) IsRevoked(index uint32) bool {
	return slices.Contains(d.Revoked, index)
}

// CredentialValue is one attribute of a credential.
type CredentialValue struct {
	Raw     string `json:"raw"`
	Encoded string `json:"encoded"`
}

// CredentialValues maps attribute names to their values.
type CredentialValues map[string]CredentialValue

// RevocationConfig is what the engine needs to issue a revocable credential.
type RevocationConfig struct {
	RegDef     *RevocationRegistryDefinition
	RegDefPriv string
	Registry   string
	Index      uint32
	UsedIDs    []uint32
	TailsDir   string
}

// RegistryID builds the ledger id of a CL_ACCUM registry.
func RegistryID(issuerDID, credDefID, tag string) string {
	return fmt.Sprintf("%s:4:%s:CL_ACCUM:%s", issuerDID, credDefID, tag)
}
