/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package ws sends DIDComm envelopes over WebSocket.
package ws

import (
	"context"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"
	"nhooyr.io/websocket"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport"
)

var logger = log.New("aries-vcx/transport/ws")

// OutboundClient websocket outbound.
type OutboundClient struct{}

// NewOutbound creates a client for Outbound WS transport.
func NewOutbound() *OutboundClient {
	return &OutboundClient{}
}

// Send writes data as a single binary frame on a new connection to endpoint.
func (cs *OutboundClient) Send(ctx context.Context, data []byte, endpoint string) error {
	if endpoint == "" {
		return errors.New("url is mandatory")
	}

	client, _, err := websocket.Dial(ctx, endpoint, nil)
	if err != nil {
		return fmt.Errorf("websocket client : %w", err)
	}

	defer func() {
		err = client.Close(websocket.StatusNormalClosure, "closing the connection")
		if err != nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
			logger.Errorf("failed to close connection: %v", err)
		}
	}()

	if err := client.Write(ctx, websocket.MessageBinary, data); err != nil {
		return fmt.Errorf("websocket write message : %w", err)
	}

	return nil
}

// Accept reports whether endpoint is a ws(s) URL.
func (cs *OutboundClient) Accept(endpoint string) bool {
	return transport.HasScheme(endpoint, "ws", "wss")
}
