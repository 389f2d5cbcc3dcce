/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/connection"
)

// ErrNoThreadID is returned when saving a connection that has not started a thread.
var ErrNoThreadID = errors.New("connection has no thread id")

// Recorder is the read-write connection store. Connections are keyed by thread id.
type Recorder struct {
	*Lookup
}

// NewRecorder returns a recorder over the connection store of p.
func NewRecorder(p storage.Provider) (*Recorder, error) {
	lookup, err := NewLookup(p)
	if err != nil {
		return nil, fmt.Errorf("failed to create new connection recorder : %w", err)
	}

	return &Recorder{lookup}, nil
}

// SaveConnection stores g under its thread id, replacing the previous record.
func (r *Recorder) SaveConnection(g connection.GenericConnection) error {
	thid := g.ThreadID()
	if thid == "" {
		return fmt.Errorf("save connection %s: %w", g.SourceID(), ErrNoThreadID)
	}

	raw, err := json.Marshal(g)
	if err != nil {
		return fmt.Errorf("save connection %s: %w", thid, err)
	}

	logger.Debugf("saving connection %s in state %s", thid, g.State())

	return r.store.Put(thid, raw,
		storage.Tag{Name: connTag},
		storage.Tag{Name: stateTag, Value: g.State().String()})
}

// MoveConnection stores g and removes the record kept under oldThreadID when its thread changed.
func (r *Recorder) MoveConnection(oldThreadID string, g connection.GenericConnection) error {
	if err := r.SaveConnection(g); err != nil {
		return err
	}

	if oldThreadID == "" || oldThreadID == g.ThreadID() {
		return nil
	}

	return r.RemoveConnection(oldThreadID)
}

// RemoveConnection deletes the connection on threadID.
func (r *Recorder) RemoveConnection(threadID string) error {
	if err := r.store.Delete(threadID); err != nil {
		return fmt.Errorf("remove connection %s: %w", threadID, err)
	}

	return nil
}
