/*
Copyright SecureKey Technologies Inc. All Rights Reserved.

SPDX-License-Identifier: Apache-2.0
*/

package connection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

type recoverer struct {
	thin ThinState
	// roundTrip recovers g as the typed handle and re-encodes it.
	roundTrip func(g GenericConnection) ([]byte, error)
}

func recoverAs[R Role, S State]() recoverer {
	var s S

	return recoverer{
		thin: s.Thin(),
		roundTrip: func(g GenericConnection) ([]byte, error) {
			c, err := Recover[R, S](g)
			if err != nil {
				return nil, err
			}

			return json.Marshal(c)
		},
	}
}

func allRecoverers() []recoverer {
	return []recoverer{
		recoverAs[Invitee, InviteeInitial](),
		recoverAs[Invitee, InviteeInvited](),
		recoverAs[Invitee, InviteeRequested](),
		recoverAs[Invitee, InviteeCompleted](),
		recoverAs[Invitee, InviteeFailed](),
		recoverAs[Inviter, InviterInitial](),
		recoverAs[Inviter, InviterInvited](),
		recoverAs[Inviter, InviterRequested](),
		recoverAs[Inviter, InviterCompleted](),
		recoverAs[Inviter, InviterFailed](),
	}
}

func TestSerializationParity(t *testing.T) {
	e := newExchange(t)

	typed := []json.Marshaler{
		e.inviterInitial, e.inviterInvited, e.inviterRequested, e.inviterCompleted, e.inviterFailed,
		e.inviteeInitial, e.inviteeInvited, e.inviteeRequested, e.inviteeCompleted, e.inviteeFailed,
	}
	generics := e.generics()

	for i, g := range generics {
		g := g

		t.Run(g.State().String(), func(t *testing.T) {
			fromTyped, err := json.Marshal(typed[i])
			require.NoError(t, err)

			fromGeneric, err := json.Marshal(g)
			require.NoError(t, err)
			require.JSONEq(t, string(fromTyped), string(fromGeneric))

			var decoded GenericConnection
			require.NoError(t, json.Unmarshal(fromGeneric, &decoded))
			require.Equal(t, g.State(), decoded.State())
			require.Equal(t, g.SourceID(), decoded.SourceID())
			require.Equal(t, g.PairwiseInfo(), decoded.PairwiseInfo())

			again, err := json.Marshal(decoded)
			require.NoError(t, err)
			require.JSONEq(t, string(fromGeneric), string(again))
		})
	}
}

func TestGenericShape(t *testing.T) {
	e := newExchange(t)

	data, err := json.Marshal(e.inviteeRequested)
	require.NoError(t, err)

	var raw struct {
		State map[string]map[string]json.RawMessage `json:"state"`
	}
	require.NoError(t, json.Unmarshal(data, &raw))

	require.Len(t, raw.State, 1)
	require.Contains(t, raw.State, "Invitee")
	require.Contains(t, raw.State["Invitee"], "Requested")

	var top map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &top))
	require.Contains(t, top, "source_id")
	require.Contains(t, top, "pairwise_info")
}

func TestRecover(t *testing.T) {
	e := newExchange(t)

	for _, g := range e.generics() {
		g := g

		t.Run(g.State().String(), func(t *testing.T) {
			want, err := json.Marshal(g)
			require.NoError(t, err)

			for _, r := range allRecoverers() {
				got, err := r.roundTrip(g)
				if r.thin == g.State() {
					require.NoError(t, err)
					require.JSONEq(t, string(want), string(got))

					continue
				}

				require.ErrorIs(t, err, ErrWrongState, "recovered %s as %s", g.State(), r.thin)
			}
		})
	}

	t.Run("typed values survive", func(t *testing.T) {
		c, err := Recover[Invitee, InviteeCompleted](Erase(e.inviteeCompleted))
		require.NoError(t, err)
		require.Equal(t, e.inviteeCompleted, c)
	})

	t.Run("state of the other role", func(t *testing.T) {
		_, err := Recover[Inviter, InviteeInitial](Erase(e.inviteeInitial))
		require.ErrorIs(t, err, ErrWrongState)
	})

	t.Run("empty generic", func(t *testing.T) {
		_, err := Recover[Invitee, InviteeInitial](GenericConnection{})
		require.ErrorIs(t, err, ErrWrongState)
	})

	t.Run("typed decode of another state", func(t *testing.T) {
		data, err := json.Marshal(e.inviterCompleted)
		require.NoError(t, err)

		var c Connection[Inviter, InviterRequested]
		require.ErrorIs(t, json.Unmarshal(data, &c), ErrWrongState)
	})
}

func TestStateTable(t *testing.T) {
	require.Len(t, stateTable, len(allRecoverers()))

	for thin, decode := range stateTable {
		s, err := decode([]byte(`{}`))
		require.NoError(t, err)
		require.Equal(t, thin, s.Thin())
	}

	for _, r := range allRecoverers() {
		require.Contains(t, stateTable, r.thin)
	}
}

func TestGenericUnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no state", `{"source_id":"s","state":{}}`},
		{"two roles", `{"source_id":"s","state":{"Invitee":{"Initial":{}},"Inviter":{"Initial":{}}}}`},
		{"two states", `{"source_id":"s","state":{"Invitee":{"Initial":{},"Invited":{}}}}`},
		{"unknown state", `{"source_id":"s","state":{"Invitee":{"Pending":{}}}}`},
		{"unknown role", `{"source_id":"s","state":{"Mediator":{"Initial":{}}}}`},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			var g GenericConnection
			require.ErrorIs(t, json.Unmarshal([]byte(tc.data), &g), ErrWrongState)
		})
	}

	t.Run("bad payload", func(t *testing.T) {
		var g GenericConnection
		require.Error(t, json.Unmarshal([]byte(`{"state":{"Invitee":{"Requested":{"thread_id":1}}}}`), &g))
	})

	t.Run("marshal empty", func(t *testing.T) {
		_, err := json.Marshal(GenericConnection{})
		require.Error(t, err)
	})
}

func TestGenericAccessors(t *testing.T) {
	e := newExchange(t)

	t.Run("initial", func(t *testing.T) {
		g := Erase(e.inviteeInitial)

		require.Equal(t, "bob", g.SourceID())
		require.Empty(t, g.ThreadID())
		require.Nil(t, g.TheirDidDoc())
		require.Nil(t, g.BootstrapDidDoc())
		require.Nil(t, g.Invitation())
		require.Nil(t, g.ProblemReport())
		require.Empty(t, g.RemoteDID())

		_, err := g.RemoteVK()
		require.ErrorIs(t, err, ErrNotReady)
	})

	t.Run("invited", func(t *testing.T) {
		g := Erase(e.inviterInvited)
		require.Equal(t, GetInvitation(e.inviterInvited), g.Invitation())

		g = Erase(e.inviteeInvited)
		require.Equal(t, GetInvitation(e.inviteeInvited), g.Invitation())
		require.Equal(t, BootstrapDidDoc(e.inviteeInvited), g.BootstrapDidDoc())
	})

	t.Run("completed", func(t *testing.T) {
		g := Erase(e.inviteeCompleted)

		require.Equal(t, e.inviteeCompleted.ThreadID(), g.ThreadID())
		require.Equal(t, e.inviteeCompleted.RemoteDID(), g.RemoteDID())
		require.Equal(t, e.inviteeCompleted.State(), g.Payload())

		vk, err := g.RemoteVK()
		require.NoError(t, err)

		want, err := e.inviteeCompleted.RemoteVK()
		require.NoError(t, err)
		require.Equal(t, want, vk)
	})

	t.Run("failed", func(t *testing.T) {
		g := Erase(e.inviterFailed)
		require.Equal(t, ProblemCodeRequestNotAccepted, g.ProblemReport().ProblemCode)
	})
}

func TestGenericHandleProblemReport(t *testing.T) {
	e := newExchange(t)

	t.Run("moves either role to failed", func(t *testing.T) {
		for _, g := range []GenericConnection{Erase(e.inviterInvited), Erase(e.inviteeRequested)} {
			g := g

			failed, err := g.HandleProblemReport(NewProblemReport(g.ThreadID(), ProblemCodeRequestProcessingError, ""))
			require.NoError(t, err)
			require.Equal(t, g.State().Role, failed.State().Role)
			require.Equal(t, StateFailed, failed.State().State)
			require.Equal(t, g.ThreadID(), failed.ThreadID())
			require.Equal(t, g.PairwiseInfo(), failed.PairwiseInfo())
		}
	})

	t.Run("terminal states refuse", func(t *testing.T) {
		for _, g := range []GenericConnection{Erase(e.inviterCompleted), Erase(e.inviteeFailed)} {
			g := g

			_, err := g.HandleProblemReport(NewProblemReport(g.ThreadID(), ProblemCodeRequestProcessingError, ""))
			require.ErrorIs(t, err, ErrWrongState)
		}
	})

	t.Run("empty", func(t *testing.T) {
		var g GenericConnection

		_, err := g.HandleProblemReport(NewProblemReport("", ProblemCodeRequestProcessingError, ""))
		require.ErrorIs(t, err, ErrNotReady)
	})
}
