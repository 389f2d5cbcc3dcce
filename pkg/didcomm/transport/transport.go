/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package transport moves packed envelopes between agents.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// MediaTypeEncryptedEnvelope is the content type of packed DIDComm v1 envelopes.
const MediaTypeEncryptedEnvelope = "application/didcomm-envelope-enc"

// ErrUnsupportedEndpoint is returned when no outbound client serves the endpoint scheme.
var ErrUnsupportedEndpoint = errors.New("unsupported endpoint")

// Transport delivers packed envelopes to a service endpoint.
type Transport interface {
	Send(ctx context.Context, data []byte, endpoint string) error
}

// OutboundTransport is a Transport for a set of URL schemes.
type OutboundTransport interface {
	Transport
	Accept(endpoint string) bool
}

// InboundMessageHandler handles a packed envelope received by an inbound transport.
type InboundMessageHandler func(ctx context.Context, payload []byte) error

// Dispatcher sends through the first outbound transport that accepts the endpoint.
type Dispatcher struct {
	outbound []OutboundTransport
}

// NewDispatcher returns a dispatcher over outbound, tried in order.
func NewDispatcher(outbound ...OutboundTransport) *Dispatcher {
	return &Dispatcher{outbound: outbound}
}

// Send implements Transport.
func (d *Dispatcher) Send(ctx context.Context, data []byte, endpoint string) error {
	for _, ot := range d.outbound {
		if ot.Accept(endpoint) {
			return ot.Send(ctx, data, endpoint)
		}
	}

	return fmt.Errorf("%w: %s", ErrUnsupportedEndpoint, endpoint)
}

// HasScheme reports whether endpoint parses as a URL with one of schemes.
func HasScheme(endpoint string, schemes ...string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}

	for _, s := range schemes {
		if strings.EqualFold(u.Scheme, s) {
			return true
		}
	}

	return false
}
