/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-vcx-go/pkg/anoncreds"
	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
)

const memLedgerStore = "ledger"

// MemLedger is a Ledger kept in a storage provider, for local agents and tests. Published
// deltas are merged into one accumulated delta per registry.
type MemLedger struct {
	mu    sync.Mutex
	store storage.Store
	now   func() time.Time
}

type deltaEntry struct {
	Delta     *anoncreds.RevocationRegistryDelta `json:"delta"`
	Timestamp uint64                             `json:"timestamp"`
}

// NewMemLedger opens the ledger store in p.
func NewMemLedger(p storage.Provider) (*MemLedger, error) {
	store, err := p.OpenStore(memLedgerStore)
	if err != nil {
		return nil, fmt.Errorf("open ledger store: %w", err)
	}

	return &MemLedger{store: store, now: time.Now}, nil
}

// GetSchema implements Reader.
func (l *MemLedger) GetSchema(_ context.Context, schemaID string) (string, error) {
	return l.get("schema", schemaID)
}

// GetCredDef implements Reader.
func (l *MemLedger) GetCredDef(_ context.Context, credDefID string) (string, error) {
	return l.get("creddef", credDefID)
}

// GetRevRegDef implements Reader.
func (l *MemLedger) GetRevRegDef(_ context.Context, revRegID string) (string, error) {
	return l.get("revregdef", revRegID)
}

// GetRevRegDelta returns the accumulated delta. The bounds are ignored.
func (l *MemLedger) GetRevRegDelta(_ context.Context, revRegID string, _, _ *uint64) (string, uint64, error) {
	raw, err := l.get("revregdelta", revRegID)
	if err != nil {
		return "", 0, err
	}

	var e deltaEntry
	if err = json.Unmarshal([]byte(raw), &e); err != nil {
		return "", 0, fmt.Errorf("decode delta entry: %w", err)
	}

	delta, err := json.Marshal(e.Delta)
	if err != nil {
		return "", 0, err
	}

	return string(delta), e.Timestamp, nil
}

// GetService implements Reader.
func (l *MemLedger) GetService(_ context.Context, pubDID string) (*did.AriesService, error) {
	raw, err := l.get("service", pubDID)
	if err != nil {
		return nil, err
	}

	var svc did.AriesService
	if err = json.Unmarshal([]byte(raw), &svc); err != nil {
		return nil, fmt.Errorf("decode service: %w", err)
	}

	return &svc, nil
}

// PublishSchema implements Writer.
func (l *MemLedger) PublishSchema(_ context.Context, _, schema string) error {
	return l.publishNew("schema", schema)
}

// PublishCredDef implements Writer.
func (l *MemLedger) PublishCredDef(_ context.Context, _, credDef string) error {
	return l.publishNew("creddef", credDef)
}

// PublishRevRegDef implements Writer.
func (l *MemLedger) PublishRevRegDef(_ context.Context, _, revRegDef string) error {
	return l.publishNew("revregdef", revRegDef)
}

// PublishRevRegDelta merges delta into the registry's accumulated delta.
func (l *MemLedger) PublishRevRegDelta(ctx context.Context, _, revRegID, delta string) error {
	next, err := anoncreds.ParseRevocationRegistryDelta(delta)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrLedgerReject, err)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err = l.get("revregdef", revRegID); err != nil {
		return fmt.Errorf("%w: unknown revocation registry %s", ErrLedgerReject, revRegID)
	}

	var prev *anoncreds.RevocationRegistryDelta

	if raw, _, e := l.GetRevRegDelta(ctx, revRegID, nil, nil); e == nil {
		if prev, err = anoncreds.ParseRevocationRegistryDelta(raw); err != nil {
			return err
		}
	} else if !errors.Is(e, ErrNotFound) {
		return e
	}

	entry, err := json.Marshal(deltaEntry{
		Delta:     anoncreds.MergeDeltas(prev, next),
		Timestamp: uint64(l.now().Unix()),
	})
	if err != nil {
		return err
	}

	return l.put("revregdelta", revRegID, entry)
}

// PublishService sets the agent service of a public DID.
func (l *MemLedger) PublishService(_ context.Context, pubDID string, svc *did.AriesService) error {
	raw, err := json.Marshal(svc)
	if err != nil {
		return err
	}

	return l.put("service", pubDID, raw)
}

func (l *MemLedger) publishNew(kind, object string) error {
	var obj struct {
		ID string `json:"id"`
	}

	if err := json.Unmarshal([]byte(object), &obj); err != nil || obj.ID == "" {
		return fmt.Errorf("%w: %s has no id", ErrLedgerReject, kind)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, err := l.get(kind, obj.ID); err == nil {
		return fmt.Errorf("%w: %s %s already published", ErrLedgerReject, kind, obj.ID)
	}

	return l.put(kind, obj.ID, []byte(object))
}

func (l *MemLedger) get(kind, id string) (string, error) {
	raw, err := l.store.Get(kind + ":" + id)
	if errors.Is(err, storage.ErrDataNotFound) {
		return "", fmt.Errorf("%w: %s %s", ErrNotFound, kind, id)
	} else if err != nil {
		return "", err
	}

	return string(raw), nil
}

func (l *MemLedger) put(kind, id string, value []byte) error {
	if err := l.store.Put(kind+":"+id, value); err != nil {
		return fmt.Errorf("%w: %w", ErrLedgerNack, err)
	}

	return nil
}
