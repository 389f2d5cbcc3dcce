/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package http

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/rs/cors"

	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport"
)

const readHeaderTimeout = 5 * time.Second

// NewInboundHandler will create a new handler to enforce Did-Comm HTTP transport specs
// then routes processing to the mandatory 'msgHandler' argument.
func NewInboundHandler(msgHandler transport.InboundMessageHandler) (http.Handler, error) {
	if msgHandler == nil {
		logger.Errorf("Error creating a new inbound handler: message handler function is nil")

		return nil, errors.New("failed to create NewInboundHandler")
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		processPOSTRequest(w, r, msgHandler)
	}), nil
}

func processPOSTRequest(w http.ResponseWriter, r *http.Request, msgHandler transport.InboundMessageHandler) {
	if valid := validateHTTPMethod(w, r); !valid {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		logger.Errorf("Error reading request body: %s - returning Code: %d", err, http.StatusInternalServerError)
		http.Error(w, "Failed to read payload", http.StatusInternalServerError)

		return
	}

	if len(body) == 0 {
		http.Error(w, "Empty payload", http.StatusBadRequest)

		return
	}

	w.WriteHeader(http.StatusAccepted)

	if err = msgHandler(r.Context(), body); err != nil {
		logger.Errorf("inbound message handler: %v", err)
	}
}

// validateHTTPMethod validate HTTP method and content-type.
func validateHTTPMethod(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		http.Error(w, "HTTP Method not allowed", http.StatusMethodNotAllowed)

		return false
	}

	ct := r.Header.Get("Content-type")
	if ct != transport.MediaTypeEncryptedEnvelope {
		http.Error(w, fmt.Sprintf("Unsupported Content-type \"%s\"", ct), http.StatusUnsupportedMediaType)

		return false
	}

	return true
}

// Inbound is an HTTP server for incoming envelopes.
type Inbound struct {
	server   *http.Server
	listener net.Listener
}

// NewInbound builds an inbound server on addr routing "/" to msgHandler.
func NewInbound(addr string, msgHandler transport.InboundMessageHandler) (*Inbound, error) {
	if addr == "" {
		return nil, errors.New("http address is mandatory")
	}

	handler, err := NewInboundHandler(msgHandler)
	if err != nil {
		return nil, errors.Wrap(err, "new HTTP inbound handler failed")
	}

	router := mux.NewRouter()
	router.Handle("/", handler)

	return &Inbound{
		server: &http.Server{
			Addr: addr,
			Handler: cors.New(cors.Options{
				AllowedMethods: []string{http.MethodPost},
				AllowedHeaders: []string{"Origin", "Accept", "Content-Type", "X-Requested-With"},
			}).Handler(router),
			ReadHeaderTimeout: readHeaderTimeout,
		},
	}, nil
}

// Start listens and serves in the background.
func (i *Inbound) Start() error {
	l, err := net.Listen("tcp", i.server.Addr)
	if err != nil {
		return errors.Wrapf(err, "listen on %s", i.server.Addr)
	}

	i.listener = l

	go func() {
		if err := i.server.Serve(l); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Errorf("HTTP inbound server stopped: %v", err)
		}
	}()

	logger.Infof("HTTP inbound listening on %s", l.Addr())

	return nil
}

// Addr returns the bound address after Start.
func (i *Inbound) Addr() string {
	if i.listener == nil {
		return i.server.Addr
	}

	return i.listener.Addr().String()
}

// Stop shuts the server down.
func (i *Inbound) Stop(ctx context.Context) error {
	if err := i.server.Shutdown(ctx); err != nil {
		return errors.Wrap(err, "shutdown HTTP inbound")
	}

	return nil
}
