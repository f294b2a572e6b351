package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageValidator(t *testing.T) {
	v, err := NewMessageValidator()
	require.NoError(t, err)

	cases := []struct {
		name    string
		raw     string
		kind    string
		wantErr bool
	}{
		{"join", `{"type":"join","role":"player","username":"a","team":"red"}`, MsgJoin, false},
		{"join capitalised", `{"Type":"Join","Role":"spectator"}`, MsgJoin, false},
		{"join msgpack", `{"type":"join","role":"player","username":"a","team":"red","encoding":"msgpack"}`, MsgJoin, false},
		{"join bad encoding", `{"type":"join","encoding":"xml"}`, MsgJoin, true},
		{"join numeric username", `{"type":"join","username":7}`, MsgJoin, true},
		{"join null fields", `{"type":"join","role":"player","username":null,"team":null}`, MsgJoin, false},
		{"join numeric role", `{"type":"join","role":7,"username":"bob","team":"red"}`, MsgJoin, true},
		{"action", `{"type":"action","a":3,"b":0}`, MsgAction, false},
		{"action missing b", `{"type":"action","a":3}`, MsgAction, true},
		{"action fractional", `{"type":"action","a":1.5,"b":0}`, MsgAction, true},
		{"action string code", `{"type":"action","a":"3","b":0}`, MsgAction, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			kind, err := v.Kind([]byte(tc.raw))
			assert.Equal(t, tc.kind, kind)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMessageValidatorRejectsUnknown(t *testing.T) {
	v, err := NewMessageValidator()
	require.NoError(t, err)

	_, err = v.Kind([]byte(`{"type":"chat","text":"hi"}`))
	assert.ErrorIs(t, err, errUnknownMessage)

	_, err = v.Kind([]byte(`{"a":1}`))
	assert.ErrorIs(t, err, errUnknownMessage)

	_, err = v.Kind([]byte(`not json`))
	assert.Error(t, err)
}

func TestJoinRejectionNamesTheBadField(t *testing.T) {
	v, err := NewMessageValidator()
	require.NoError(t, err)

	cases := map[string]error{
		`{"type":"join","role":7,"username":"bob","team":"red"}`:       ErrInvalidRole,
		`{"type":"join","role":"player","username":7,"team":"red"}`:    ErrMissingUsername,
		`{"type":"join","role":"player","username":"bob","team":true}`: ErrMissingTeam,
		`{"type":"join","role":[],"username":7,"team":7}`:              ErrInvalidRole,
		`{"Type":"join","Team":{},"role":"player","username":"bob"}`:   ErrMissingTeam,
		`{"type":"join","encoding":"xml"}`:                             ErrInvalidRole,
	}
	for raw, want := range cases {
		_, err := v.Kind([]byte(raw))
		require.Error(t, err, raw)
		assert.ErrorIs(t, joinRejection(err), want, raw)
	}
}
