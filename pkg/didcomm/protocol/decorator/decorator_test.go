/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package decorator

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAttachmentData_Fetch(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		expected := map[string]interface{}{
			"FirstName": "John",
			"LastName":  "Doe",
		}
		bits, err := (&AttachmentData{JSON: expected}).Fetch()
		require.NoError(t, err)
		result := make(map[string]interface{})
		err = json.Unmarshal(bits, &result)
		require.NoError(t, err)
		require.Equal(t, expected, result)
	})
	t.Run("base64", func(t *testing.T) {
		encoded := base64.StdEncoding.EncodeToString([]byte(`{"FirstName":"John"}`))
		bytes, err := (&AttachmentData{Base64: encoded}).Fetch()
		require.NoError(t, err)
		require.JSONEq(t, `{"FirstName":"John"}`, string(bytes))
	})
	t.Run("invalid base64", func(t *testing.T) {
		_, err := (&AttachmentData{Base64: "invalid"}).Fetch()
		require.Error(t, err)
	})
	t.Run("no contents", func(t *testing.T) {
		_, err := (&AttachmentData{}).Fetch()
		require.Error(t, err)
	})
}

func TestBase64JSONAttachment(t *testing.T) {
	att, err := NewBase64JSONAttachment("libindy-cred-offer-0", map[string]string{"schema_id": "s1"})
	require.NoError(t, err)
	require.Equal(t, "application/json", att.MimeType)

	raw, err := att.DecodeBase64JSON()
	require.NoError(t, err)
	require.JSONEq(t, `{"schema_id":"s1"}`, string(raw))

	att.Data.Base64 = base64.StdEncoding.EncodeToString([]byte("not json"))
	_, err = att.DecodeBase64JSON()
	require.EqualError(t, err, "attachment libindy-cred-offer-0: contents are not JSON")

	_, err = NewBase64JSONAttachment("x", func() {})
	require.Error(t, err)
}

func TestThreadAndTiming(t *testing.T) {
	raw, err := json.Marshal(NewThread("abc"))
	require.NoError(t, err)
	require.JSONEq(t, `{"thid":"abc"}`, string(raw))

	timing := NewTiming()
	require.NotNil(t, timing.OutTime)

	raw, err = json.Marshal(timing)
	require.NoError(t, err)
	require.Contains(t, string(raw), "out_time")
	require.NotContains(t, string(raw), "expires_time")
}
