/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/hyperledger/aries-framework-go/component/storageutil/mem"
	"github.com/stretchr/testify/require"

	"github.com/hyperledger/aries-vcx-go/pkg/anoncreds"
	"github.com/hyperledger/aries-vcx-go/pkg/doc/did"
)

func TestMemLedger(t *testing.T) {
	ctx := context.Background()

	l, err := NewMemLedger(mem.NewProvider())
	require.NoError(t, err)

	l.now = func() time.Time { return time.Unix(1700000000, 0) }

	var _ Ledger = l

	t.Run("schema and credential definition", func(t *testing.T) {
		require.NoError(t, l.PublishSchema(ctx, "did", `{"id":"schema-1"}`))
		require.ErrorIs(t, l.PublishSchema(ctx, "did", `{"id":"schema-1"}`), ErrLedgerReject)
		require.ErrorIs(t, l.PublishSchema(ctx, "did", `{}`), ErrLedgerReject)

		s, err := l.GetSchema(ctx, "schema-1")
		require.NoError(t, err)
		require.Equal(t, `{"id":"schema-1"}`, s)

		require.NoError(t, l.PublishCredDef(ctx, "did", `{"id":"creddef-1"}`))

		_, err = l.GetCredDef(ctx, "creddef-2")
		require.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("revocation deltas accumulate", func(t *testing.T) {
		err := l.PublishRevRegDelta(ctx, "did", "reg-1", `{"accum":"a1","issued":[],"revoked":[1]}`)
		require.ErrorIs(t, err, ErrLedgerReject)

		require.NoError(t, l.PublishRevRegDef(ctx, "did", `{"id":"reg-1"}`))

		_, _, err = l.GetRevRegDelta(ctx, "reg-1", nil, nil)
		require.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, l.PublishRevRegDelta(ctx, "did", "reg-1", `{"accum":"a1","issued":[],"revoked":[1]}`))
		require.NoError(t, l.PublishRevRegDelta(ctx, "did", "reg-1", `{"accum":"a2","issued":[],"revoked":[3]}`))

		raw, ts, err := l.GetRevRegDelta(ctx, "reg-1", nil, nil)
		require.NoError(t, err)
		require.EqualValues(t, 1700000000, ts)

		d, err := anoncreds.ParseRevocationRegistryDelta(raw)
		require.NoError(t, err)
		require.Equal(t, "a2", d.Accum)
		require.Equal(t, []uint32{1, 3}, d.Revoked)

		require.ErrorIs(t, l.PublishRevRegDelta(ctx, "did", "reg-1", `[`), ErrLedgerReject)
	})

	t.Run("service", func(t *testing.T) {
		svc := did.NewAriesService()
		svc.ServiceEndpoint = "https://agent.example.com"
		svc.RecipientKeys = []string{"GJ1SzoWzavQYfNL9XkaJdrQejfztN4XqdsiV4ct3LXKL"}

		require.NoError(t, l.PublishService(ctx, "VsKV7grR1BUE29mG2Fm2kX", &svc))

		got, err := l.GetService(ctx, "VsKV7grR1BUE29mG2Fm2kX")
		require.NoError(t, err)
		require.Equal(t, &svc, got)

		_, err = l.GetService(ctx, "unknown")
		require.ErrorIs(t, err, ErrNotFound)
	})
}
