package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemorySessionStore_Lifecycle(t *testing.T) {
	store := NewMemorySessionStore()
	user := SessionUser{ID: 5, Username: "alice1"}

	token, err := store.Create(user, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	got, ok := store.Get(token)
	require.True(t, ok)
	assert.Equal(t, user, got)

	store.Destroy(token)
	_, ok = store.Get(token)
	assert.False(t, ok)

	// idempotent
	store.Destroy(token)
}

func TestMemorySessionStore_TokensAreIndependent(t *testing.T) {
	store := NewMemorySessionStore()

	t1, err := store.Create(SessionUser{ID: 1, Username: "alice1"}, time.Hour)
	require.NoError(t, err)
	t2, err := store.Create(SessionUser{ID: 2, Username: "bob"}, time.Hour)
	require.NoError(t, err)
	require.NotEqual(t, t1, t2)

	store.Destroy(t1)

	_, ok := store.Get(t1)
	assert.False(t, ok)
	got, ok := store.Get(t2)
	require.True(t, ok)
	assert.Equal(t, "bob", got.Username)
}

func TestMemorySessionStore_Expiry(t *testing.T) {
	store := NewMemorySessionStore()

	token, err := store.Create(SessionUser{ID: 1, Username: "alice1"}, -time.Second)
	require.NoError(t, err)

	_, ok := store.Get(token)
	assert.False(t, ok)
}

func TestMemorySessionStore_UnknownToken(t *testing.T) {
	store := NewMemorySessionStore()
	_, ok := store.Get("no-such-token")
	assert.False(t, ok)
}
