/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package did models the legacy Aries DID document exchanged by the connection protocol.
package did

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

const (
	// Context is the only supported @context value.
	Context = "https://w3id.org/did/v1"
	// KeyType is the supported public key type.
	KeyType = "Ed25519VerificationKey2018"
	// KeyAuthenticationType is the supported authentication type.
	KeyAuthenticationType = "Ed25519SignatureAuthentication2018"
	// ServiceType is the type of the default service.
	ServiceType = "IndyAgent"

	defaultServiceID = "did:example:123456789abcdefghi;indy"
)

var (
	// ErrInvalidDIDDoc is returned when a document fails validation.
	ErrInvalidDIDDoc = errors.New("invalid did document")
	// ErrKeyNotFound is returned when a key reference does not resolve to a public key.
	ErrKeyNotFound = errors.New("key not found in did document")
)

var schemaLoader = gojsonschema.NewStringLoader(schema) //nolint:gochecknoglobals

// Ed25519PublicKey is an entry of publicKey.
type Ed25519PublicKey struct {
	ID              string `json:"id"`
	Type            string `json:"type"`
	Controller      string `json:"controller"`
	PublicKeyBase58 string `json:"publicKeyBase58"`
}

// Authentication references a public key usable for authentication.
type Authentication struct {
	Type      string `json:"type"`
	PublicKey string `json:"publicKey"`
}

// AriesService describes how to reach the document's subject.
type AriesService struct {
	ID              string   `json:"id"`
	Type            string   `json:"type"`
	Priority        int      `json:"priority"`
	RecipientKeys   []string `json:"recipientKeys"`
	RoutingKeys     []string `json:"routingKeys"`
	ServiceEndpoint string   `json:"serviceEndpoint"`
}

// NewAriesService returns the default IndyAgent service.
func NewAriesService() AriesService {
	return AriesService{
		ID:            defaultServiceID,
		Type:          ServiceType,
		RecipientKeys: []string{},
		RoutingKeys:   []string{},
	}
}

// AriesDidDoc is the legacy DID document. service[0] is canonical.
type AriesDidDoc struct {
	Context        string             `json:"@context"`
	ID             string             `json:"id"`
	PublicKey      []Ed25519PublicKey `json:"publicKey"`
	Authentication []Authentication   `json:"authentication"`
	Service        []AriesService     `json:"service"`
}

// NewAriesDidDoc returns a document with the supported context and one default service.
func NewAriesDidDoc() *AriesDidDoc {
	return &AriesDidDoc{
		Context:        Context,
		PublicKey:      []Ed25519PublicKey{},
		Authentication: []Authentication{},
		Service:        []AriesService{NewAriesService()},
	}
}

// ParseAriesDidDoc checks the JSON structure of data and unmarshals it.
func ParseAriesDidDoc(data []byte) (*AriesDidDoc, error) {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("validation of DID doc failed: %w", err)
	}

	if !result.Valid() {
		errMsg := "did document not valid:\n"
		for _, desc := range result.Errors() {
			errMsg += fmt.Sprintf("- %s\n", desc)
		}

		return nil, fmt.Errorf("%w: %s", ErrInvalidDIDDoc, errMsg)
	}

	doc := &AriesDidDoc{}

	err = json.Unmarshal(data, doc)
	if err != nil {
		return nil, fmt.Errorf("unmarshal DID doc: %w", err)
	}

	return doc, nil
}

// SetID sets the document id.
func (d *AriesDidDoc) SetID(id string) {
	d.ID = id
}

// SetServiceEndpoint sets the endpoint of service[0].
func (d *AriesDidDoc) SetServiceEndpoint(endpoint string) {
	if len(d.Service) > 0 {
		d.Service[0].ServiceEndpoint = endpoint
	}
}

// SetRecipientKeys adds each base58 key as a public key "<id>#<n>", an authentication
// entry and a service[0] recipient key.
func (d *AriesDidDoc) SetRecipientKeys(keys []string) {
	for i, key := range keys {
		ref := buildKeyReference(d.ID, strconv.Itoa(i+1))

		d.PublicKey = append(d.PublicKey, Ed25519PublicKey{
			ID:              ref,
			Type:            KeyType,
			Controller:      d.ID,
			PublicKeyBase58: key,
		})

		d.Authentication = append(d.Authentication, Authentication{
			Type:      KeyAuthenticationType,
			PublicKey: ref,
		})

		if len(d.Service) > 0 {
			d.Service[0].RecipientKeys = append(d.Service[0].RecipientKeys, key)
		}
	}
}

// SetRoutingKeys appends routing keys to service[0].
func (d *AriesDidDoc) SetRoutingKeys(keys []string) {
	if len(d.Service) > 0 {
		d.Service[0].RoutingKeys = append(d.Service[0].RoutingKeys, keys...)
	}
}

// Validate checks the document. See the package tests for the accepted shapes.
func (d *AriesDidDoc) Validate() error {
	if d.Context != Context {
		return fmt.Errorf("%w: unsupported @context value: %q", ErrInvalidDIDDoc, d.Context)
	}

	if d.ID == "" {
		return fmt.Errorf("%w: id is empty", ErrInvalidDIDDoc)
	}

	for _, svc := range d.Service {
		for _, entry := range svc.RecipientKeys {
			pk, err := d.getKey(entry)
			if err != nil {
				return err
			}

			if err := d.checkAuthenticationKey(pk.ID); err != nil {
				return err
			}
		}

		for _, entry := range svc.RoutingKeys {
			if _, err := normalizeKey(entry); err != nil {
				return fmt.Errorf("%w: routing key: %w", ErrInvalidDIDDoc, err)
			}
		}
	}

	return nil
}

// RecipientKeys returns the resolved values of the service[0] recipient keys.
func (d *AriesDidDoc) RecipientKeys() ([]string, error) {
	if len(d.Service) == 0 {
		return []string{}, nil
	}

	keys := make([]string, 0, len(d.Service[0].RecipientKeys))

	for _, entry := range d.Service[0].RecipientKeys {
		pk, err := d.getKey(entry)
		if err != nil {
			return nil, err
		}

		keys = append(keys, pk.PublicKeyBase58)
	}

	return keys, nil
}

// RoutingKeys returns the service[0] routing keys as base58 verkeys.
func (d *AriesDidDoc) RoutingKeys() []string {
	if len(d.Service) == 0 {
		return []string{}
	}

	keys := make([]string, 0, len(d.Service[0].RoutingKeys))

	for _, k := range d.Service[0].RoutingKeys {
		if v, err := normalizeKey(k); err == nil {
			k = v
		}

		keys = append(keys, k)
	}

	return keys
}

// GetEndpoint returns the service[0] endpoint.
func (d *AriesDidDoc) GetEndpoint() (string, bool) {
	if len(d.Service) == 0 || d.Service[0].ServiceEndpoint == "" {
		return "", false
	}

	return d.Service[0].ServiceEndpoint, true
}

// GetService returns a copy of service[0] with resolved recipient and routing keys.
func (d *AriesDidDoc) GetService() (*AriesService, error) {
	if len(d.Service) == 0 {
		return nil, fmt.Errorf("%w: no service found on did doc %s", ErrInvalidDIDDoc, d.ID)
	}

	recipientKeys, err := d.RecipientKeys()
	if err != nil {
		return nil, err
	}

	svc := d.Service[0]
	svc.RecipientKeys = recipientKeys
	svc.RoutingKeys = d.RoutingKeys()

	return &svc, nil
}

// getKey resolves a recipient key entry by value when it is a verkey, by reference otherwise.
func (d *AriesDidDoc) getKey(entry string) (*Ed25519PublicKey, error) {
	var (
		pk  *Ed25519PublicKey
		err error
	)

	if key, e := normalizeKey(entry); e == nil {
		pk, err = d.findKeyByValue(key)
	} else {
		pk, err = d.findKeyByReference(parseKeyReference(entry))
	}

	if err != nil {
		return nil, err
	}

	if pk.Type != KeyType {
		return nil, fmt.Errorf("%w: unsupported PublicKey type: %q", ErrInvalidDIDDoc, pk.Type)
	}

	if err := ValidateVerkey(pk.PublicKeyBase58); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDIDDoc, err)
	}

	return pk, nil
}

func (d *AriesDidDoc) findKeyByValue(key string) (*Ed25519PublicKey, error) {
	for i := range d.PublicKey {
		if d.PublicKey[i].PublicKeyBase58 == key {
			return &d.PublicKey[i], nil
		}
	}

	return nil, fmt.Errorf("%w: no public key with value %s", ErrKeyNotFound, key)
}

func (d *AriesDidDoc) findKeyByReference(ref keyReference) (*Ed25519PublicKey, error) {
	for i := range d.PublicKey {
		id := d.PublicKey[i].ID
		if id == ref.keyID || (ref.did != "" && id == buildKeyReference(ref.did, ref.keyID)) {
			return &d.PublicKey[i], nil
		}
	}

	return nil, fmt.Errorf("%w: no public key for reference %s", ErrKeyNotFound, ref)
}

// checkAuthenticationKey passes when authentication is empty (legacy documents).
func (d *AriesDidDoc) checkAuthenticationKey(keyID string) error {
	if len(d.Authentication) == 0 {
		return nil
	}

	for _, auth := range d.Authentication {
		if auth.PublicKey != keyID && parseKeyReference(auth.PublicKey).keyID != keyID {
			continue
		}

		if auth.Type != KeyAuthenticationType && auth.Type != KeyType {
			return fmt.Errorf("%w: unsupported Authentication type: %q", ErrInvalidDIDDoc, auth.Type)
		}

		return nil
	}

	return fmt.Errorf("%w: cannot find Authentication record key: %q", ErrInvalidDIDDoc, keyID)
}

type keyReference struct {
	did   string
	keyID string
}

func (r keyReference) String() string {
	if r.did == "" {
		return r.keyID
	}

	return buildKeyReference(r.did, r.keyID)
}

func parseKeyReference(ref string) keyReference {
	parts := strings.Split(ref, "#")
	if len(parts) == 1 {
		return keyReference{keyID: parts[0]}
	}

	return keyReference{did: parts[0], keyID: parts[1]}
}

func buildKeyReference(did, id string) string {
	return did + "#" + id
}
