/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package did

// nolint:lll
const schema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": [
    "@context",
    "service"
  ],
  "properties": {
    "@context": {
      "type": "string"
    },
    "id": {
      "type": "string"
    },
    "publicKey": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["id", "type", "publicKeyBase58"],
        "properties": {
          "id": {"type": "string"},
          "type": {"type": "string"},
          "controller": {"type": "string"},
          "publicKeyBase58": {"type": "string"}
        }
      }
    },
    "authentication": {
      "type": ["array", "null"],
      "items": {
        "type": "object",
        "required": ["type", "publicKey"],
        "properties": {
          "type": {"type": "string"},
          "publicKey": {"type": "string"}
        }
      }
    },
    "service": {
      "type": "array",
      "items": {
        "type": "object",
        "properties": {
          "id": {"type": "string"},
          "type": {"type": "string"},
          "priority": {"type": "integer"},
          "recipientKeys": {"type": ["array", "null"], "items": {"type": "string"}},
          "routingKeys": {"type": ["array", "null"], "items": {"type": "string"}},
          "serviceEndpoint": {"type": "string"}
        }
      }
    }
  }
}`
