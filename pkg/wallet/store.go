/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package wallet

import (
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/packer/legacy"
)

var logger = log.New("aries-vcx/wallet")

// Store is a Wallet on top of a storage provider.
type Store struct {
	name   string
	store  storage.Store
	packer *legacy.Packer
}

// New opens the store called name in p and returns a wallet over it.
func New(p storage.Provider, name string) (*Store, error) {
	store, err := p.OpenStore(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open store for wallet '%s' : %w", name, err)
	}

	err = p.SetStoreConfig(name, storage.StoreConfiguration{TagNames: allCategories()})
	if err != nil {
		return nil, fmt.Errorf("failed to set store config for wallet '%s' : %w", name, err)
	}

	logger.Debugf("opened wallet %s", name)

	return &Store{name: name, store: store, packer: legacy.New()}, nil
}

// Name returns the wallet name.
func (s *Store) Name() string {
	return s.name
}

// AddRecord stores a new record, failing with ErrDuplicateRecord if it exists.
func (s *Store) AddRecord(category RecordCategory, name string, value []byte) error {
	key := recordKey(category, name)

	_, err := s.store.Get(key)
	if errors.Is(err, storage.ErrDataNotFound) {
		return s.put(category, key, value)
	} else if err != nil {
		return err
	}

	return fmt.Errorf("%w: %s", ErrDuplicateRecord, key)
}

// GetRecord returns the record value or ErrRecordNotFound.
func (s *Store) GetRecord(category RecordCategory, name string) ([]byte, error) {
	value, err := s.store.Get(recordKey(category, name))
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", recordKey(category, name), err)
	}

	return value, nil
}

// UpdateRecordValue replaces the value of an existing record.
func (s *Store) UpdateRecordValue(category RecordCategory, name string, value []byte) error {
	key := recordKey(category, name)

	if _, err := s.store.Get(key); err != nil {
		return fmt.Errorf("update record %s: %w", key, err)
	}

	return s.put(category, key, value)
}

// DeleteRecord removes an existing record.
func (s *Store) DeleteRecord(category RecordCategory, name string) error {
	key := recordKey(category, name)

	if _, err := s.store.Get(key); err != nil {
		return fmt.Errorf("delete record %s: %w", key, err)
	}

	return s.store.Delete(key)
}

// PutRecords commits records through a single storage batch.
func (s *Store) PutRecords(records ...Record) error {
	ops := make([]storage.Operation, 0, len(records))

	for _, r := range records {
		if r.Value == nil {
			return fmt.Errorf("put record %s: empty value", recordKey(r.Category, r.Name))
		}

		ops = append(ops, storage.Operation{
			Key:   recordKey(r.Category, r.Name),
			Value: r.Value,
			Tags:  []storage.Tag{{Name: string(r.Category)}},
		})
	}

	if err := s.store.Batch(ops); err != nil {
		return fmt.Errorf("put records: %w", err)
	}

	return nil
}

func (s *Store) put(category RecordCategory, key string, value []byte) error {
	return s.store.Put(key, value, storage.Tag{Name: string(category)})
}

func recordKey(category RecordCategory, name string) string {
	return fmt.Sprintf("%s:%s", category, name)
}
