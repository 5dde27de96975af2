package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey_DeterministicAndCallerScoped(t *testing.T) {
	a := Key("/api/v1/roles", "page=1", "account-1")
	b := Key("/api/v1/roles", "page=1", "account-1")
	other := Key("/api/v1/roles", "page=1", "account-2")

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, other)
	assert.True(t, len(a) > len("/api/v1/roles|"))
}

func TestStore_GetSet(t *testing.T) {
	s := NewStore(16, time.Minute)
	key := Key("/api/v1/roles", "", "account-1")

	_, ok := s.Get(key)
	require.False(t, ok)

	s.Set(key, []byte("payload"))
	got, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), got)
}

func TestStore_InvalidatePrefixDropsOnlyMatchingRoutes(t *testing.T) {
	s := NewStore(16, time.Minute)
	roles := Key("/api/v1/roles", "", "account-1")
	codes := Key("/api/v1/codes", "", "account-1")
	s.Set(roles, []byte("roles"))
	s.Set(codes, []byte("codes"))

	s.InvalidatePrefix("/api/v1/roles")

	_, ok := s.Get(roles)
	assert.False(t, ok)
	_, ok = s.Get(codes)
	assert.True(t, ok)
}

func TestStore_EntriesExpire(t *testing.T) {
	s := NewStore(16, 20*time.Millisecond)
	key := Key("/api/v1/roles", "", "account-1")
	s.Set(key, []byte("payload"))

	time.Sleep(60 * time.Millisecond)

	_, ok := s.Get(key)
	assert.False(t, ok)
}

func TestStore_Purge(t *testing.T) {
	s := NewStore(16, time.Minute)
	s.Set(Key("/api/v1/roles", "", "account-1"), []byte("roles"))
	s.Set(Key("/api/v1/codes", "", "account-1"), []byte("codes"))

	s.Purge()

	assert.Equal(t, 0, s.Len())
}
