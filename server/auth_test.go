package main

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := OpenDB(filepath.Join(t.TempDir(), "tanks.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func newTestAuth(t *testing.T, db *DB, cfg AuthConfig) *Auth {
	t.Helper()
	a := NewAuth(db, cfg, nil)
	a.cost = bcrypt.MinCost
	return a
}

func TestRegisterAndLogin(t *testing.T) {
	a := newTestAuth(t, openTestDB(t), AuthConfig{})

	id, token, err := a.Register("Alice", "hunter2")
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	gotID, name, err := a.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, id, gotID)
	assert.Equal(t, "Alice", name)

	loginID, _, err := a.Login("alice", "hunter2", "10.0.0.1")
	require.NoError(t, err, "usernames are case-insensitive")
	assert.Equal(t, id, loginID)

	_, _, err = a.Login("alice", "wrong", "10.0.0.1")
	assert.ErrorIs(t, err, errBadCredentials)

	_, _, err = a.Register("ALICE", "other1")
	assert.Error(t, err)
}

func TestRegisterValidation(t *testing.T) {
	a := newTestAuth(t, openTestDB(t), AuthConfig{})

	_, _, err := a.Register("x", "hunter2")
	assert.Error(t, err)
	_, _, err = a.Register("someone", "abc")
	assert.Error(t, err)
}

func TestAccountsDisabledWithoutDB(t *testing.T) {
	a := newTestAuth(t, nil, AuthConfig{JWTSecret: "s3cret"})

	_, _, err := a.Register("alice", "hunter2")
	assert.ErrorIs(t, err, errNoAccounts)
	assert.NoError(t, a.CheckReservation("alice", ""))
}

func TestLoginRateLimit(t *testing.T) {
	a := newTestAuth(t, openTestDB(t), AuthConfig{})
	for i := 0; i < maxLoginAttempts; i++ {
		_, _, err := a.Login("nobody", "pw", "10.0.0.9")
		assert.ErrorIs(t, err, errBadCredentials)
	}
	_, _, err := a.Login("nobody", "pw", "10.0.0.9")
	assert.ErrorIs(t, err, errRateLimited)

	_, _, err = a.Login("nobody", "pw", "10.0.0.10")
	assert.ErrorIs(t, err, errBadCredentials, "limits are per address")
}

func TestCheckReservation(t *testing.T) {
	db := openTestDB(t)
	a := newTestAuth(t, db, AuthConfig{})
	_, aliceToken, err := a.Register("alice", "hunter2")
	require.NoError(t, err)
	_, bobToken, err := a.Register("bob", "hunter2")
	require.NoError(t, err)

	assert.NoError(t, a.CheckReservation("carol", ""), "unregistered names are free")
	assert.NoError(t, a.CheckReservation("Alice", aliceToken))
	assert.ErrorIs(t, a.CheckReservation("alice", ""), ErrUsernameReserved)
	assert.ErrorIs(t, a.CheckReservation("alice", bobToken), ErrUsernameReserved)
	assert.ErrorIs(t, a.CheckReservation("alice", "garbage"), ErrUsernameReserved)
}

func TestSecretPersistsAcrossRestarts(t *testing.T) {
	db := openTestDB(t)
	first := newTestAuth(t, db, AuthConfig{})
	_, token, err := first.Register("alice", "hunter2")
	require.NoError(t, err)

	second := newTestAuth(t, db, AuthConfig{})
	_, _, err = second.ValidateToken(token)
	assert.NoError(t, err)
}

func TestAdminLogin(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("letmein"), bcrypt.MinCost)
	require.NoError(t, err)
	a := newTestAuth(t, openTestDB(t), AuthConfig{AdminPasswordHash: string(hash)})

	_, err = a.AdminLogin("nope", "10.0.0.1")
	assert.ErrorIs(t, err, errBadCredentials)

	token, err := a.AdminLogin("letmein", "10.0.0.1")
	require.NoError(t, err)
	assert.NoError(t, a.ValidateAdminToken(token))

	_, userToken, err := a.Register("alice", "hunter2")
	require.NoError(t, err)
	assert.ErrorIs(t, a.ValidateAdminToken(userToken), errNotAdmin)
	_, _, err = a.ValidateToken(token)
	assert.Error(t, err, "admin tokens carry no account")
}

func TestAdminLoginDisabledWithoutHash(t *testing.T) {
	a := newTestAuth(t, nil, AuthConfig{JWTSecret: "s3cret"})
	_, err := a.AdminLogin("anything", "10.0.0.1")
	assert.ErrorIs(t, err, errNotAdmin)
}
