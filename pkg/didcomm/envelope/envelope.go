/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package envelope builds and opens the encrypted envelopes exchanged over a connection,
// including the forward wrapping required by mediators.
package envelope

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

var logger = log.New("aries-vcx/envelope")

var (
	// ErrNotReady is returned when the DID doc has nothing to encrypt for.
	ErrNotReady = errors.New("envelope: no recipient key")
	// ErrAuthentication is returned by AuthUnpack when the sender can't be authenticated.
	ErrAuthentication = errors.New("envelope: message did not pass authentication check")
)

// Create packs data for the first recipient key of doc and wraps it once per routing key.
func Create(ctx context.Context, w wallet.Wallet, data []byte, senderVK *string, doc *did.AriesDidDoc) ([]byte, error) {
	recipientKeys, err := doc.RecipientKeys()
	if err != nil {
		return nil, fmt.Errorf("create envelope: %w", err)
	}

	if len(recipientKeys) == 0 {
		return nil, ErrNotReady
	}

	return Create2(ctx, w, data, senderVK, recipientKeys[0], doc.RoutingKeys())
}

// Create2 packs data for recipientKey and wraps it in forward messages for routingKeys, in order.
func Create2(ctx context.Context, w wallet.Wallet, data []byte, senderVK *string, recipientKey string,
	routingKeys []string) ([]byte, error) {
	if recipientKey == "" {
		return nil, ErrNotReady
	}

	logger.Debugf("packing for %s with %d routing keys", recipientKey, len(routingKeys))

	packed, err := w.PackMessage(senderVK, []string{recipientKey}, data)
	if err != nil {
		return nil, fmt.Errorf("pack for recipient: %w", err)
	}

	to := recipientKey

	for _, routingKey := range routingKeys {
		if err = ctx.Err(); err != nil {
			return nil, err
		}

		packed, err = wrapIntoForward(w, packed, to, routingKey)
		if err != nil {
			return nil, err
		}

		to = routingKey
	}

	return packed, nil
}

func wrapIntoForward(w wallet.Wallet, packed []byte, to, routingKey string) ([]byte, error) {
	fwd, err := json.Marshal(NewForward(to, packed))
	if err != nil {
		return nil, fmt.Errorf("marshal forward: %w", err)
	}

	out, err := w.PackMessage(nil, []string{routingKey}, fwd)
	if err != nil {
		return nil, fmt.Errorf("pack forward for %s: %w", routingKey, err)
	}

	return out, nil
}

// AnonUnpack opens an envelope and returns the message and the sender key, when there is one.
func AnonUnpack(_ context.Context, w wallet.Wallet, data []byte) (string, *string, error) {
	unpacked, err := w.UnpackMessage(data)
	if err != nil {
		return "", nil, err
	}

	if unpacked.SenderVerkey == "" {
		return unpacked.Message, nil, nil
	}

	sender := unpacked.SenderVerkey

	return unpacked.Message, &sender, nil
}

// AuthUnpack opens an envelope that must be authcrypted by expectedVK.
func AuthUnpack(ctx context.Context, w wallet.Wallet, data []byte, expectedVK string) (string, error) {
	msg, sender, err := AnonUnpack(ctx, w, data)
	if err != nil {
		return "", err
	}

	if sender == nil {
		logger.Errorf("auth unpack: message was anoncrypted")

		return "", fmt.Errorf("%w: message was anoncrypted", ErrAuthentication)
	}

	if *sender != expectedVK {
		logger.Errorf("auth unpack: sender %s, expected %s", *sender, expectedVK)

		return "", fmt.Errorf("%w: expected sender verkey %s, got %s", ErrAuthentication, expectedVK, *sender)
	}

	return msg, nil
}
