/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

// Package vcx implements the Aries connection protocol (RFC 0160) and the issuer side of
// issue-credential 1.0 with indy-style revocation registry bookkeeping.
//
// Packages for end developer usage
//
// pkg/framework/agent: Builds the wallet, transport, ledger and anoncreds collaborators from a
// pkg/config Config and exposes the clients below.
//
// pkg/client/connection: Drives inviter and invitee connections and stores them by thread id.
//
// pkg/client/issuecredential: Drives issuer exchanges, from offer or proposal to credential and
// revocation.
//
// pkg/didcomm/protocol/connection and pkg/didcomm/protocol/issuecredential: The typed state
// machines the clients persist. They can be used directly when the caller keeps its own records.
//
// Basic workflow
//
//	1) Load a configuration with config.FromFile.
//	2) Create an agent with agent.New, passing a credential engine when issuing.
//	3) Connect with agent.Connections(), then issue with agent.Issuer().
//	4) Call agent.Close() to release resources.
package vcx
