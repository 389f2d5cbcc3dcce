/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package service

import (
	"sync"
	"sync/atomic"

	"github.com/hyperledger/aries-framework-go/component/log"
)

var logger = log.New("aries-vcx/service")

// Message fans state change notifications out to the registered channels.
// The zero value is ready to use.
type Message struct {
	mu      sync.RWMutex
	subs    []chan<- StateMsg
	dropped atomic.Uint64
}

// MsgEvents returns a snapshot of the registered channels.
func (m *Message) MsgEvents() []chan<- StateMsg {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.subs) == 0 {
		return nil
	}

	return append(make([]chan<- StateMsg, 0, len(m.subs)), m.subs...)
}

// RegisterMsgEvent subscribes ch to state changes. A channel registered twice receives every
// notification twice.
func (m *Message) RegisterMsgEvent(ch chan<- StateMsg) error {
	if ch == nil {
		return ErrNilChannel
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.subs = append(m.subs, ch)

	return nil
}

// UnregisterMsgEvent drops every subscription of ch.
func (m *Message) UnregisterMsgEvent(ch chan<- StateMsg) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.subs[:0]

	for _, sub := range m.subs {
		if sub != ch {
			kept = append(kept, sub)
		}
	}

	for i := len(kept); i < len(m.subs); i++ {
		m.subs[i] = nil
	}

	m.subs = kept

	return nil
}

// Notify offers msg to every subscriber without blocking. A subscriber whose channel is full
// misses msg and the drop is counted.
func (m *Message) Notify(msg StateMsg) {
	for _, ch := range m.MsgEvents() {
		select {
		case ch <- msg:
		default:
			m.dropped.Add(1)
			logger.Warnf("dropped %s state %s for thread %s: subscriber channel is full",
				msg.ProtocolName, msg.StateID, msg.ThreadID)
		}
	}
}

// Dropped returns how many notifications were lost to full channels.
func (m *Message) Dropped() uint64 {
	return m.dropped.Load()
}
