/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package wallet holds keys, DIDs and records for an agent and packs DIDComm envelopes with them.
package wallet

import (
	"errors"

	"github.com/hyperledger/aries-framework-go/spi/storage"
)

// RecordCategory groups wallet records.
type RecordCategory string

// Record categories.
const (
	CategoryCredDef       RecordCategory = "CredDef"
	CategoryCredDefPriv   RecordCategory = "CredDefPriv"
	CategoryCredKeyCorr   RecordCategory = "CredKeyCorrectnessProof"
	CategoryRevReg        RecordCategory = "RevReg"
	CategoryRevRegDef     RecordCategory = "RevRegDef"
	CategoryRevRegDefPriv RecordCategory = "RevRegDefPriv"
	CategoryRevRegInfo    RecordCategory = "RevRegInfo"
	CategoryRevRegDelta   RecordCategory = "RevRegDelta"
	CategoryVerKey        RecordCategory = "VerKey"
	CategoryDid           RecordCategory = "Did"
)

func allCategories() []string {
	return []string{
		string(CategoryCredDef), string(CategoryCredDefPriv), string(CategoryCredKeyCorr),
		string(CategoryRevReg), string(CategoryRevRegDef), string(CategoryRevRegDefPriv),
		string(CategoryRevRegInfo), string(CategoryRevRegDelta), string(CategoryVerKey), string(CategoryDid),
	}
}

var (
	// ErrRecordNotFound is returned for missing records and keys.
	ErrRecordNotFound = storage.ErrDataNotFound
	// ErrDuplicateRecord is returned when adding a record that already exists.
	ErrDuplicateRecord = errors.New("record already exists")
)

// UnpackedMessage is the result of UnpackMessage.
type UnpackedMessage struct {
	Message string `json:"message"`
	// SenderVerkey is empty for anoncrypted messages.
	SenderVerkey    string `json:"sender_verkey,omitempty"`
	RecipientVerkey string `json:"recipient_verkey"`
}

// Wallet is the key and record store consumed by the protocols.
type Wallet interface {
	// CreateAndStoreMyDID creates an ed25519 key (from seed when given) and its DID.
	CreateAndStoreMyDID(seed []byte) (did, verkey string, err error)
	KeyForLocalDID(did string) (string, error)
	Sign(verkey string, msg []byte) ([]byte, error)
	Verify(verkey string, msg, signature []byte) (bool, error)

	// PackMessage authcrypts msg when sender is set, anoncrypts otherwise.
	PackMessage(sender *string, recipients []string, msg []byte) ([]byte, error)
	UnpackMessage(envelope []byte) (*UnpackedMessage, error)

	AddRecord(category RecordCategory, name string, value []byte) error
	GetRecord(category RecordCategory, name string) ([]byte, error)
	UpdateRecordValue(category RecordCategory, name string, value []byte) error
	DeleteRecord(category RecordCategory, name string) error
	// PutRecords writes all records in one storage batch, creating or overwriting each.
	PutRecords(records ...Record) error
}

// Record is one entry of a PutRecords batch.
type Record struct {
	Category RecordCategory
	Name     string
	Value    []byte
}
