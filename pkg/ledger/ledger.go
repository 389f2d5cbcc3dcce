/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ledger defines the ledger read and write surface the protocols consume and a
// caching reader over it.
package ledger

import (
	"context"
	"errors"

	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
)

var (
	// ErrLedgerReject is returned when the ledger refuses a transaction.
	ErrLedgerReject = errors.New("ledger rejected the transaction")
	// ErrLedgerNack is returned when the ledger could not process a transaction.
	ErrLedgerNack = errors.New("ledger did not acknowledge the transaction")
	// ErrNotFound is returned for reads of objects that are not on the ledger.
	ErrNotFound = errors.New("ledger object not found")
)

// Reader reads anoncreds objects and endpoints. Objects are returned as JSON.
type Reader interface {
	GetSchema(ctx context.Context, schemaID string) (string, error)
	GetCredDef(ctx context.Context, credDefID string) (string, error)
	GetRevRegDef(ctx context.Context, revRegID string) (string, error)
	// GetRevRegDelta returns the delta of revRegID between from and to along with its
	// timestamp. Nil bounds mean the registry creation and now.
	GetRevRegDelta(ctx context.Context, revRegID string, from, to *uint64) (string, uint64, error)
	// GetService returns the agent service of a public DID.
	GetService(ctx context.Context, pubDID string) (*did.AriesService, error)
}

// Writer publishes anoncreds objects.
type Writer interface {
	PublishSchema(ctx context.Context, submitterDID, schema string) error
	PublishCredDef(ctx context.Context, submitterDID, credDef string) error
	PublishRevRegDef(ctx context.Context, submitterDID, revRegDef string) error
	PublishRevRegDelta(ctx context.Context, submitterDID, revRegID, delta string) error
}

// Ledger is a Reader and a Writer.
type Ledger interface {
	Reader
	Writer
}
