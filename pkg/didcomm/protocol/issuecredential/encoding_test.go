/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package issuecredential

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const wilsonLaneEncoded = "68086943237164982734333428280784300550565381723532936263016368251445461241953"

func TestEncodeAttributes(t *testing.T) {
	t.Run("object", func(t *testing.T) {
		values, err := EncodeAttributes(`{"address2":"101 Wilson Lane","zip":"87121","empty":""}`)
		require.NoError(t, err)
		require.Len(t, values, 3)
		require.Equal(t, "101 Wilson Lane", values["address2"].Raw)
		require.Equal(t, wilsonLaneEncoded, values["address2"].Encoded)
		require.Equal(t, "87121", values["zip"].Raw)
		require.Equal(t, "87121", values["zip"].Encoded)
		require.NotEmpty(t, values["empty"].Encoded)
	})

	t.Run("legacy lists", func(t *testing.T) {
		values, err := EncodeAttributes(`{"address2":["101 Wilson Lane"],"zip":["87121"]}`)
		require.NoError(t, err)
		require.Equal(t, wilsonLaneEncoded, values["address2"].Encoded)
		require.Equal(t, "87121", values["zip"].Encoded)
	})

	t.Run("name value list", func(t *testing.T) {
		values, err := EncodeAttributes(`[{"name":"address2","value":"101 Wilson Lane"},{"name":"zip","value":"87121"}]`)
		require.NoError(t, err)
		require.Equal(t, wilsonLaneEncoded, values["address2"].Encoded)
		require.Equal(t, "87121", values["zip"].Raw)
	})

	t.Run("invalid", func(t *testing.T) {
		for _, data := range []string{
			`"plain string"`,
			`{`,
			`{"a":1}`,
			`{"a":[]}`,
			`[{"value":"v"}]`,
			`[{"name":"a"}]`,
			`[{"name":1,"value":"v"}]`,
		} {
			_, err := EncodeAttributes(data)
			require.ErrorIs(t, err, ErrInvalidAttributes, data)
		}
	})
}

func TestEncodeValue(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		encoded string
	}{
		{"int32", "87121", "87121"},
		{"negative", "-5", "-5"},
		{"max int32", "2147483647", "2147483647"},
		{"above int32", "2147483648", encodeValue("2147483648")},
		{"text", "101 Wilson Lane", wilsonLaneEncoded},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.encoded, encodeValue(tc.value))
		})
	}

	require.NotEqual(t, "2147483648", encodeValue("2147483648"))
}
