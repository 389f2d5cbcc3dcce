/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strconv"

	"github.com/hyperledger/aries-vcx-go/pkg/anoncreds"
)

// ErrInvalidAttributes is returned when credential data has none of the accepted shapes.
var ErrInvalidAttributes = errors.New("invalid credential attributes")

// EncodeAttributes converts credential data to the raw and encoded values the credential
// engine signs. The data is either an object of names to values, an object of names to
// single-value arrays (legacy) or an array of {"name", "value"} objects.
func EncodeAttributes(attributes string) (anoncreds.CredentialValues, error) {
	var byName map[string]json.RawMessage

	if err := json.Unmarshal([]byte(attributes), &byName); err == nil {
		return encodeByName(byName)
	}

	var list []map[string]json.RawMessage

	if err := json.Unmarshal([]byte(attributes), &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAttributes, err)
	}

	values := make(anoncreds.CredentialValues, len(list))

	for _, entry := range list {
		name, err := stringField(entry, "name")
		if err != nil {
			return nil, err
		}

		value, err := stringField(entry, "value")
		if err != nil {
			return nil, err
		}

		values[name] = anoncreds.CredentialValue{Raw: value, Encoded: encodeValue(value)}
	}

	return values, nil
}

func encodeByName(byName map[string]json.RawMessage) (anoncreds.CredentialValues, error) {
	values := make(anoncreds.CredentialValues, len(byName))

	for name, raw := range byName {
		var value string

		if err := json.Unmarshal(raw, &value); err != nil {
			var legacy []string

			if e := json.Unmarshal(raw, &legacy); e != nil || len(legacy) == 0 {
				return nil, fmt.Errorf("%w: value of %s is neither a string nor a list of strings",
					ErrInvalidAttributes, name)
			}

			logger.Warnf("attribute %s uses the legacy list format, pass the value as a string", name)

			value = legacy[0]
		}

		values[name] = anoncreds.CredentialValue{Raw: value, Encoded: encodeValue(value)}
	}

	return values, nil
}

func stringField(entry map[string]json.RawMessage, key string) (string, error) {
	raw, ok := entry[key]
	if !ok {
		return "", fmt.Errorf("%w: no %q field", ErrInvalidAttributes, key)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: %q is not a string", ErrInvalidAttributes, key)
	}

	return s, nil
}

// encodeValue keeps 32-bit integers as they are and maps anything else to the decimal form of
// its SHA-256 digest.
func encodeValue(value string) string {
	if _, err := strconv.ParseInt(value, 10, 32); err == nil {
		return value
	}

	digest := sha256.Sum256([]byte(value))

	return new(big.Int).SetBytes(digest[:]).String()
}
