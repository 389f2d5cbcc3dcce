/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package agent assembles the wallet, transport, ledger and credential collaborators from
// configuration and exposes the connection and issuer clients built on them.
package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hyperledger/aries-framework-go/component/log"
	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/hyperledger/aries-framework-go/spi/storage"

	"github.com/hyperledger/aries-vcx-go/pkg/anoncreds"
	connclient "github.com/hyperledger/aries-vcx-go/pkg/client/connection"
	issuerclient "github.com/hyperledger/aries-vcx-go/pkg/client/issuecredential"
	"github.com/hyperledger/aries-vcx-go/pkg/common/logging"
	"github.com/hyperledger/aries-vcx-go/pkg/config"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/common/service"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/envelope"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/protocol/issuecredential"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport"
	httptransport "github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport/http"
	"github.com/hyperledger/aries-vcx-go/pkg/didcomm/transport/ws"
	"github.com/hyperledger/aries-vcx-go/pkg/ledger"
	"github.com/hyperledger/aries-vcx-go/pkg/wallet"
)

var logger = log.New("aries-vcx/agent")

// ErrNoCredentialEngine is returned by issuer operations of an agent built without a credential engine.
var ErrNoCredentialEngine = errors.New("agent has no credential engine")

// Agent owns the collaborators every protocol operation is given.
type Agent struct {
	cfg           *config.Config
	storeProvider storage.Provider
	wallet        *wallet.Store
	reader        ledger.Reader
	ledgerCache   *ledger.CachedReader
	engine        anoncreds.CredentialEngine
	anoncreds     *anoncreds.Issuer
	transport     transport.Transport
	inbound       *httptransport.Inbound
	logProvider   *logging.Provider
	connections   *connclient.Client
	issuer        *issuerclient.Client
}

// Option configures the agent.
type Option func(a *Agent) error

// WithStorageProvider sets the storage provider of the wallet and the protocol records.
func WithStorageProvider(p storage.Provider) Option {
	return func(a *Agent) error {
		if p == nil {
			return errors.New("storage provider is nil")
		}

		a.storeProvider = p

		return nil
	}
}

// WithLedger sets the ledger the agent reads through its cache.
func WithLedger(r ledger.Reader) Option {
	return func(a *Agent) error {
		a.reader = r

		return nil
	}
}

// WithCredentialEngine sets the CL signature engine used to issue and revoke credentials.
func WithCredentialEngine(e anoncreds.CredentialEngine) Option {
	return func(a *Agent) error {
		a.engine = e

		return nil
	}
}

// WithTransport replaces the default outbound dispatcher.
func WithTransport(t transport.Transport) Option {
	return func(a *Agent) error {
		a.transport = t

		return nil
	}
}

// New builds an agent for cfg. Collaborators not supplied through opts are created from cfg:
// an in-memory store, a ledger kept in that store, and HTTP and WebSocket outbound transports.
func New(cfg *config.Config, opts ...Option) (*Agent, error) {
	if cfg == nil {
		cfg = config.Default()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	a := &Agent{cfg: cfg}

	for _, option := range opts {
		if err := option(a); err != nil {
			return nil, fmt.Errorf("error in option passed to New: %w", err)
		}
	}

	p, err := logging.Initialize(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initialize logging: %w", err)
	}

	a.logProvider = p

	// order matters: the clients need every other collaborator
	for _, create := range []func() error{
		a.createStorage,
		a.createWallet,
		a.createLedger,
		a.createTransport,
		a.createAnoncreds,
		a.createClients,
		a.startInbound,
	} {
		if err = create(); err != nil {
			return nil, err
		}
	}

	logger.Infof("agent %s ready, endpoint %q", cfg.Agent.Label, cfg.Agent.ServiceEndpoint)

	return a, nil
}

func (a *Agent) createStorage() error {
	if a.storeProvider == nil {
		a.storeProvider = mem.NewProvider()
	}

	return nil
}

func (a *Agent) createWallet() error {
	w, err := wallet.New(a.storeProvider, a.cfg.Wallet.Name)
	if err != nil {
		return fmt.Errorf("create wallet: %w", err)
	}

	a.wallet = w

	return nil
}

func (a *Agent) createLedger() error {
	if a.reader == nil {
		l, err := ledger.NewMemLedger(a.storeProvider)
		if err != nil {
			return fmt.Errorf("create ledger: %w", err)
		}

		a.reader = l
	}

	a.ledgerCache = ledger.NewCachedReader(a.reader, a.cfg.Ledger.CacheSize, a.cfg.Ledger.CacheTTL)

	return nil
}

func (a *Agent) createTransport() error {
	if a.transport != nil {
		return nil
	}

	outbound, err := httptransport.NewOutbound(
		httptransport.WithOutboundHTTPClient(&http.Client{}),
		httptransport.WithOutboundTimeout(a.cfg.Transport.Timeout),
		httptransport.WithRetry(a.cfg.Transport.MaxRetries, a.cfg.Transport.RetryInterval))
	if err != nil {
		return fmt.Errorf("create outbound transport: %w", err)
	}

	a.transport = transport.NewDispatcher(outbound, ws.NewOutbound())

	return nil
}

func (a *Agent) createAnoncreds() error {
	if a.engine != nil {
		a.anoncreds = anoncreds.NewIssuer(a.engine)
	}

	return nil
}

func (a *Agent) createClients() error {
	connections, err := connclient.New(a)
	if err != nil {
		return fmt.Errorf("create connection client: %w", err)
	}

	a.connections = connections

	if a.anoncreds == nil {
		return nil
	}

	issuer, err := issuerclient.New(a)
	if err != nil {
		return fmt.Errorf("create issuer client: %w", err)
	}

	a.issuer = issuer

	return nil
}

func (a *Agent) startInbound() error {
	if a.cfg.Transport.InboundAddr == "" {
		return nil
	}

	inbound, err := httptransport.NewInbound(a.cfg.Transport.InboundAddr, a.HandleInbound)
	if err != nil {
		return fmt.Errorf("create inbound transport: %w", err)
	}

	if err = inbound.Start(); err != nil {
		return fmt.Errorf("start inbound transport: %w", err)
	}

	a.inbound = inbound

	return nil
}

// Wallet returns the agent wallet.
func (a *Agent) Wallet() wallet.Wallet {
	return a.wallet
}

// Ledger returns the cached ledger reader.
func (a *Agent) Ledger() ledger.Reader {
	return a.ledgerCache
}

// Transport returns the outbound transport.
func (a *Agent) Transport() transport.Transport {
	return a.transport
}

// StorageProvider returns the store of the protocol records.
func (a *Agent) StorageProvider() storage.Provider {
	return a.storeProvider
}

// ServiceEndpoint returns the endpoint advertised in invitations.
func (a *Agent) ServiceEndpoint() string {
	return a.cfg.Agent.ServiceEndpoint
}

// RoutingKeys returns the routing keys advertised in invitations.
func (a *Agent) RoutingKeys() []string {
	return a.cfg.Agent.RoutingKeys
}

// Label returns the label of the agent.
func (a *Agent) Label() string {
	return a.cfg.Agent.Label
}

// CredentialIssuer returns the anoncreds issuer, nil without a credential engine.
func (a *Agent) CredentialIssuer() issuecredential.CredentialIssuer {
	if a.anoncreds == nil {
		return nil
	}

	return a.anoncreds
}

// Anoncreds returns the anoncreds issuer used for credential definitions and registries.
func (a *Agent) Anoncreds() (*anoncreds.Issuer, error) {
	if a.anoncreds == nil {
		return nil, ErrNoCredentialEngine
	}

	return a.anoncreds, nil
}

// Connections returns the connection client.
func (a *Agent) Connections() *connclient.Client {
	return a.connections
}

// Issuer returns the issue-credential client.
func (a *Agent) Issuer() (*issuerclient.Client, error) {
	if a.issuer == nil {
		return nil, ErrNoCredentialEngine
	}

	return a.issuer, nil
}

// InboundAddr returns the address the inbound transport listens on, empty when it is disabled.
func (a *Agent) InboundAddr() string {
	if a.inbound == nil {
		return ""
	}

	return a.inbound.Addr()
}

// HandleInbound unpacks an envelope addressed to the agent and applies the message to the
// protocol it belongs to.
func (a *Agent) HandleInbound(ctx context.Context, payload []byte) error {
	unpacked, _, err := envelope.AnonUnpack(ctx, a.wallet, payload)
	if err != nil {
		return fmt.Errorf("unpack inbound message: %w", err)
	}

	msg, err := service.ParseDIDCommMsgMap([]byte(unpacked))
	if err != nil {
		return fmt.Errorf("parse inbound message: %w", err)
	}

	thid, err := a.Route(ctx, msg)
	if err != nil {
		logger.Warnf("inbound %s: %s", msg.Type(), err)

		return err
	}

	logger.Debugf("inbound %s applied to thread %s", msg.Type(), thid)

	return nil
}

// Route hands an unpacked message to the client of its protocol and returns the thread id it changed.
func (a *Agent) Route(ctx context.Context, msg service.DIDCommMsgMap) (string, error) {
	switch msg.Type() {
	case issuecredential.ProposeCredentialMsgType, issuecredential.RequestCredentialMsgType,
		issuecredential.AckMsgType, issuecredential.ProblemReportMsgType:
		if a.issuer == nil {
			return "", ErrNoCredentialEngine
		}

		return a.issuer.HandleInbound(msg)
	}

	return a.connections.HandleInbound(ctx, msg)
}

// Close stops the inbound transport and flushes the logs.
func (a *Agent) Close(ctx context.Context) error {
	if a.inbound != nil {
		if err := a.inbound.Stop(ctx); err != nil {
			return err
		}
	}

	if err := a.logProvider.Sync(); err != nil {
		logger.Debugf("log sync: %s", err)
	}

	return nil
}
