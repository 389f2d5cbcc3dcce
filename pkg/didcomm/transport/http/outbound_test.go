/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport"
)

const clientTimeout = time.Second

type mockHTTPHandler struct {
	calls  int32
	status func(call int32) int
	body   []byte
	ct     string
}

func (m *mockHTTPHandler) ServeHTTP(res http.ResponseWriter, req *http.Request) {
	call := atomic.AddInt32(&m.calls, 1)

	m.body, _ = io.ReadAll(req.Body) //nolint:errcheck
	m.ct = req.Header.Get("Content-Type")

	res.WriteHeader(m.status(call))
}

func TestNewOutbound(t *testing.T) {
	_, err := NewOutbound()
	require.EqualError(t, err, "creation of outbound transport requires an HTTP client")

	ot, err := NewOutbound(WithOutboundTimeout(clientTimeout), WithOutboundTLSConfig(nil))
	require.NoError(t, err)
	require.Equal(t, clientTimeout, ot.client.Timeout)

	ot, err = NewOutbound(WithOutboundHTTPClient(&http.Client{}), WithRetry(3, time.Millisecond))
	require.NoError(t, err)
	require.EqualValues(t, 3, ot.maxRetries)

	require.True(t, ot.Accept("http://example.com"))
	require.True(t, ot.Accept("https://example.com"))
	require.False(t, ot.Accept("ws://example.com"))
	require.False(t, ot.Accept("123:22"))
}

func TestOutboundHTTPClient_Send(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		for _, status := range []int{http.StatusOK, http.StatusAccepted} {
			h := &mockHTTPHandler{status: func(int32) int { return status }}
			server := httptest.NewServer(h)

			ot, err := NewOutbound(WithOutboundHTTPClient(server.Client()))
			require.NoError(t, err)

			require.NoError(t, ot.Send(ctx, []byte("envelope"), server.URL))
			require.Equal(t, "envelope", string(h.body))
			require.Equal(t, transport.MediaTypeEncryptedEnvelope, h.ct)

			server.Close()
		}
	})

	t.Run("client error is not retried", func(t *testing.T) {
		h := &mockHTTPHandler{status: func(int32) int { return http.StatusBadRequest }}
		server := httptest.NewServer(h)
		defer server.Close()

		ot, err := NewOutbound(WithOutboundHTTPClient(server.Client()), WithRetry(3, time.Millisecond))
		require.NoError(t, err)

		err = ot.Send(ctx, []byte("bad"), server.URL)
		require.ErrorIs(t, err, ErrUnsuccessfulStatus)
		require.EqualValues(t, 1, atomic.LoadInt32(&h.calls))
	})

	t.Run("server error is retried until success", func(t *testing.T) {
		h := &mockHTTPHandler{status: func(call int32) int {
			if call < 3 {
				return http.StatusServiceUnavailable
			}

			return http.StatusAccepted
		}}
		server := httptest.NewServer(h)
		defer server.Close()

		ot, err := NewOutbound(WithOutboundHTTPClient(server.Client()), WithRetry(3, time.Millisecond))
		require.NoError(t, err)

		require.NoError(t, ot.Send(ctx, []byte("envelope"), server.URL))
		require.EqualValues(t, 3, atomic.LoadInt32(&h.calls))
	})

	t.Run("retries exhausted", func(t *testing.T) {
		h := &mockHTTPHandler{status: func(int32) int { return http.StatusInternalServerError }}
		server := httptest.NewServer(h)
		defer server.Close()

		ot, err := NewOutbound(WithOutboundHTTPClient(server.Client()), WithRetry(2, time.Millisecond))
		require.NoError(t, err)

		err = ot.Send(ctx, []byte("envelope"), server.URL)
		require.ErrorIs(t, err, ErrUnsuccessfulStatus)
		require.EqualValues(t, 3, atomic.LoadInt32(&h.calls))
	})

	t.Run("bad url", func(t *testing.T) {
		ot, err := NewOutbound(WithOutboundHTTPClient(&http.Client{Timeout: clientTimeout}))
		require.NoError(t, err)

		require.EqualError(t, ot.Send(ctx, []byte("envelope"), ""), "url is mandatory")
		require.Error(t, ot.Send(ctx, []byte("envelope"), "serverURL"))
		require.Error(t, ot.Send(ctx, []byte("envelope"), "http://[::1"))
	})
}
