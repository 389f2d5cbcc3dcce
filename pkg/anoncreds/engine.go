/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package anoncreds

import "context"

// CredentialEngine is the CL signature implementation. Inputs and outputs other than the
// registry bookkeeping types are opaque JSON.
type CredentialEngine interface {
	CreateCredentialDefinition(ctx context.Context, issuerDID, schema, tag string,
		supportRevocation bool) (credDefID, credDef, credDefPriv, keyCorrectnessProof string, err error)
	CreateCredentialOffer(ctx context.Context, credDef, keyCorrectnessProof string) (string, error)
	// CreateCredential returns the updated registry when rev is set.
	CreateCredential(ctx context.Context, credDef, credDefPriv, offer, request string, values CredentialValues,
		rev *RevocationConfig) (credential, registry string, err error)
	RevokeCredential(ctx context.Context, credDef string, regDef *RevocationRegistryDefinition, regDefPriv,
		registry string, index uint32) (string, *RevocationRegistryDelta, error)
	CreateRevocationRegistry(ctx context.Context, issuerDID, credDef, tag string, issuance IssuanceType,
		maxCredNum uint32, tailsDir string) (*RevocationRegistryDefinition, string, string, error)

	ProverCreateProof(ctx context.Context, proofRequest, requestedCredentials, linkSecret, schemas, credDefs,
		revStates string) (string, error)
	VerifierVerifyProof(ctx context.Context, proofRequest, proof, schemas, credDefs, revRegDefs,
		revRegs string) (bool, error)
}
