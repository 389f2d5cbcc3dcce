/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package http is the HTTP(S) transport for DIDComm envelopes.
package http

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/hyperledger/aries-framework-go/component/log"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport"
)

var logger = log.New("aries-vcx/transport/http")

// ErrUnsuccessfulStatus is returned when the agent does not answer 200 or 202.
var ErrUnsuccessfulStatus = errors.New("received unsuccessful POST HTTP status from agent")

// outboundCommHTTPOpts holds options for the HTTP outbound transport.
type outboundCommHTTPOpts struct {
	client        *http.Client
	timeout       time.Duration
	maxRetries    uint64
	retryInterval time.Duration
}

// OutboundHTTPOpt is an outbound HTTP transport option.
type OutboundHTTPOpt func(opts *outboundCommHTTPOpts)

// WithOutboundHTTPClient option is for creating an Outbound HTTP transport using an http.Client instance.
func WithOutboundHTTPClient(client *http.Client) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		opts.client = client
	}
}

// WithOutboundTimeout option is for creating an Outbound HTTP transport using a client timeout value.
func WithOutboundTimeout(timeout time.Duration) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		opts.timeout = timeout
	}
}

// WithOutboundTLSConfig option is for creating an Outbound HTTP transport using a tls.Config instance.
func WithOutboundTLSConfig(tlsConfig *tls.Config) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		opts.client = &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: tlsConfig,
			},
		}
	}
}

// WithRetry retries a failed send up to maxRetries more times, interval apart.
func WithRetry(maxRetries uint64, interval time.Duration) OutboundHTTPOpt {
	return func(opts *outboundCommHTTPOpts) {
		opts.maxRetries = maxRetries
		opts.retryInterval = interval
	}
}

// OutboundHTTPClient represents the Outbound HTTP transport instance.
type OutboundHTTPClient struct {
	client        *http.Client
	maxRetries    uint64
	retryInterval time.Duration
}

// NewOutbound creates a new instance of Outbound HTTP transport to Post requests to other Agents.
// An http.Client or tls.Config option is mandatory to create a transport instance.
func NewOutbound(opts ...OutboundHTTPOpt) (*OutboundHTTPClient, error) {
	clOpts := &outboundCommHTTPOpts{}

	for _, opt := range opts {
		opt(clOpts)
	}

	if clOpts.client == nil {
		return nil, errors.New("creation of outbound transport requires an HTTP client")
	}

	if clOpts.timeout > 0 {
		clOpts.client.Timeout = clOpts.timeout
	}

	return &OutboundHTTPClient{
		client:        clOpts.client,
		maxRetries:    clOpts.maxRetries,
		retryInterval: clOpts.retryInterval,
	}, nil
}

// Send posts the envelope to endpoint, retrying transient failures.
func (cs *OutboundHTTPClient) Send(ctx context.Context, data []byte, endpoint string) error {
	if endpoint == "" {
		return errors.New("url is mandatory")
	}

	b := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(cs.retryInterval), cs.maxRetries), ctx)

	return backoff.RetryNotify(func() error {
		return cs.post(ctx, data, endpoint)
	}, b, func(err error, next time.Duration) {
		logger.Warnf("HTTP Transport - send to [%s] failed, retrying in %s: %v", endpoint, next, err)
	})
}

func (cs *OutboundHTTPClient) post(ctx context.Context, data []byte, endpoint string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return backoff.Permanent(fmt.Errorf("build request: %w", err))
	}

	req.Header.Set("Content-Type", transport.MediaTypeEncryptedEnvelope)

	resp, err := cs.client.Do(req)
	if err != nil {
		logger.Errorf("HTTP Transport - Error posting did envelope to agent at [%s]: %v", endpoint, err)

		return err
	}

	defer func() {
		if e := resp.Body.Close(); e != nil {
			logger.Errorf("HTTP Transport - Error closing response body: %v", e)
		}
	}()

	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode == http.StatusOK || resp.StatusCode == http.StatusAccepted {
		return nil
	}

	err = fmt.Errorf("%w at [%s]: status: %s", ErrUnsuccessfulStatus, endpoint, resp.Status)

	if resp.StatusCode < http.StatusInternalServerError {
		return backoff.Permanent(err)
	}

	return err
}

// Accept reports whether endpoint is an http(s) URL.
func (cs *OutboundHTTPClient) Accept(endpoint string) bool {
	return transport.HasScheme(endpoint, "http", "https")
}
