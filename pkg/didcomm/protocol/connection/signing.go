/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

const timestampLength = 8

// ErrInvalidSignature is returned when a signed response does not verify against the expected key.
var ErrInvalidSignature = errors.New("invalid connection signature")

// SignResponse signs the connection attribute of resp with signerVK. The signed data is an
// 8-byte big-endian timestamp followed by the connection JSON.
func SignResponse(w wallet.Wallet, signerVK string, resp *Response) (*SignedResponse, error) {
	connAttributeBytes, err := json.Marshal(resp.Connection)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal connection : %w", err)
	}

	sigData := make([]byte, timestampLength, timestampLength+len(connAttributeBytes))
	binary.BigEndian.PutUint64(sigData, uint64(time.Now().Unix()))
	sigData = append(sigData, connAttributeBytes...)

	signature, err := w.Sign(signerVK, sigData)
	if err != nil {
		return nil, fmt.Errorf("signing data: %w", err)
	}

	return &SignedResponse{
		Type: resp.Type,
		ID:   resp.ID,
		ConnectionSignature: &ConnectionSignature{
			Type:       signatureType,
			Signature:  base64.URLEncoding.EncodeToString(signature),
			SignedData: base64.URLEncoding.EncodeToString(sigData),
			SignVerKey: signerVK,
		},
		Thread:    resp.Thread,
		PleaseAck: resp.PleaseAck,
		Timing:    resp.Timing,
	}, nil
}

// DecodeSignedResponse verifies signed against expectedVK and returns the response it carries.
func DecodeSignedResponse(w wallet.Wallet, signed *SignedResponse, expectedVK string) (*Response, error) {
	connSig := signed.ConnectionSignature
	if connSig == nil {
		return nil, fmt.Errorf("%w: missing connection~sig", ErrInvalidSignature)
	}

	if connSig.SignVerKey != expectedVK {
		return nil, fmt.Errorf("%w: signer %s is not the invitation key %s", ErrInvalidSignature,
			connSig.SignVerKey, expectedVK)
	}

	sigData, err := base64.URLEncoding.DecodeString(connSig.SignedData)
	if err != nil {
		return nil, fmt.Errorf("decode signature data: %w", err)
	}

	signature, err := base64.URLEncoding.DecodeString(connSig.Signature)
	if err != nil {
		return nil, fmt.Errorf("decode signature: %w", err)
	}

	ok, err := w.Verify(expectedVK, sigData, signature)
	if err != nil {
		return nil, fmt.Errorf("verify signature: %w", err)
	}

	if !ok {
		return nil, fmt.Errorf("%w: signature does not verify", ErrInvalidSignature)
	}

	if len(sigData) <= timestampLength {
		return nil, fmt.Errorf("%w: missing connection attribute bytes", ErrInvalidSignature)
	}

	var conn ConnectionData
	if err = json.Unmarshal(sigData[timestampLength:], &conn); err != nil {
		return nil, fmt.Errorf("JSON unmarshalling of connection: %w", err)
	}

	return &Response{
		Type:       signed.Type,
		ID:         signed.ID,
		Connection: conn,
		Thread:     signed.Thread,
		PleaseAck:  signed.PleaseAck,
		Timing:     signed.Timing,
	}, nil
}
