/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"encoding/json"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/connection"
)

const (
	// Namespace is the name of the connection store.
	Namespace = "connection"

	connTag  = "conn"
	stateTag = "state"
)

var logger = log.New("aries-vcx/store/connection")

// Lookup is the read only side of the connection store.
type Lookup struct {
	store storage.Store
}

// NewLookup opens the connection store of p.
func NewLookup(p storage.Provider) (*Lookup, error) {
	store, err := p.OpenStore(Namespace)
	if err != nil {
		return nil, fmt.Errorf("failed to open connection store: %w", err)
	}

	err = p.SetStoreConfig(Namespace, storage.StoreConfiguration{TagNames: []string{connTag, stateTag}})
	if err != nil {
		return nil, fmt.Errorf("failed to set connection store config: %w", err)
	}

	return &Lookup{store: store}, nil
}

// GetConnection returns the connection on threadID. It fails with storage.ErrDataNotFound when
// there is none.
func (l *Lookup) GetConnection(threadID string) (connection.GenericConnection, error) {
	var g connection.GenericConnection

	raw, err := l.store.Get(threadID)
	if err != nil {
		return g, fmt.Errorf("get connection %s: %w", threadID, err)
	}

	if err = json.Unmarshal(raw, &g); err != nil {
		return g, fmt.Errorf("decode connection %s: %w", threadID, err)
	}

	return g, nil
}

// QueryConnections returns every stored connection.
func (l *Lookup) QueryConnections() ([]connection.GenericConnection, error) {
	return l.query(connTag)
}

// QueryByState returns the connections in state.
func (l *Lookup) QueryByState(state connection.ThinState) ([]connection.GenericConnection, error) {
	return l.query(stateTag + ":" + state.String())
}

func (l *Lookup) query(expression string) ([]connection.GenericConnection, error) {
	itr, err := l.store.Query(expression)
	if err != nil {
		return nil, fmt.Errorf("query connections: %w", err)
	}

	defer func() {
		if e := itr.Close(); e != nil {
			logger.Warnf("failed to close connection iterator: %s", e)
		}
	}()

	var records []connection.GenericConnection

	for {
		more, err := itr.Next()
		if err != nil {
			return nil, fmt.Errorf("query connections: %w", err)
		}

		if !more {
			break
		}

		raw, err := itr.Value()
		if err != nil {
			return nil, fmt.Errorf("query connections: %w", err)
		}

		var g connection.GenericConnection
		if err = json.Unmarshal(raw, &g); err != nil {
			return nil, fmt.Errorf("decode connection: %w", err)
		}

		records = append(records, g)
	}

	return records, nil
}
