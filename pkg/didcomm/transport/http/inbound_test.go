/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package http

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport"
)

func TestNewInboundHandler(t *testing.T) {
	_, err := NewInboundHandler(nil)
	require.EqualError(t, err, "failed to create NewInboundHandler")

	var received []byte

	handler, err := NewInboundHandler(func(_ context.Context, payload []byte) error {
		received = payload

		return nil
	})
	require.NoError(t, err)

	post := func(method, ct string, body []byte) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, "/", bytes.NewReader(body))
		req.Header.Set("Content-Type", ct)

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		return rec
	}

	t.Run("accepted", func(t *testing.T) {
		rec := post(http.MethodPost, transport.MediaTypeEncryptedEnvelope, []byte("envelope"))
		require.Equal(t, http.StatusAccepted, rec.Code)
		require.Equal(t, "envelope", string(received))
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := post(http.MethodGet, transport.MediaTypeEncryptedEnvelope, nil)
		require.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})

	t.Run("wrong content type", func(t *testing.T) {
		rec := post(http.MethodPost, "application/json", []byte("envelope"))
		require.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	})

	t.Run("empty payload", func(t *testing.T) {
		rec := post(http.MethodPost, transport.MediaTypeEncryptedEnvelope, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("handler error still accepted", func(t *testing.T) {
		h, err := NewInboundHandler(func(context.Context, []byte) error { return errors.New("unpack failed") })
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/", bytes.NewReader([]byte("envelope")))
		req.Header.Set("Content-Type", transport.MediaTypeEncryptedEnvelope)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		require.Equal(t, http.StatusAccepted, rec.Code)
	})
}

func TestInbound_StartStop(t *testing.T) {
	_, err := NewInbound("", func(context.Context, []byte) error { return nil })
	require.EqualError(t, err, "http address is mandatory")

	_, err = NewInbound("localhost:0", nil)
	require.ErrorContains(t, err, "new HTTP inbound handler failed")

	received := make(chan []byte, 1)

	inbound, err := NewInbound("localhost:0", func(_ context.Context, payload []byte) error {
		received <- payload

		return nil
	})
	require.NoError(t, err)
	require.NoError(t, inbound.Start())

	ot, err := NewOutbound(WithOutboundHTTPClient(&http.Client{Timeout: clientTimeout}))
	require.NoError(t, err)

	require.NoError(t, ot.Send(context.Background(), []byte("envelope"), "http://"+inbound.Addr()+"/"))

	select {
	case got := <-received:
		require.Equal(t, "envelope", string(got))
	case <-time.After(time.Second):
		t.Fatal("inbound handler was not called")
	}

	require.NoError(t, inbound.Stop(context.Background()))
}
