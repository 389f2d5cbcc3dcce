/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package anoncreds keeps the issuer-side state of anonymous credentials: credential
// definitions, revocation registries, their index allocation and the delta of local
// revocations not yet published. Signatures are left to a CredentialEngine.
//
// Every read-modify-write of a registry runs under a lock keyed by the registry id, so
// concurrent issuance and revocation against one registry are serialized while different
// registries proceed in parallel.
package anoncreds
