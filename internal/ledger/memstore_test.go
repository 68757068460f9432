package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStore_SetGetRoundTrip(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := NewMemStore()

	require.NoError(s.Set(ctx, "wallet-a", "cred-1", []byte("payload"), NoExpiry))

	value, remaining, found, err := s.Get(ctx, "wallet-a", "cred-1")
	require.NoError(err)
	require.True(found)
	require.Equal([]byte("payload"), value)
	require.Equal(time.Duration(0), remaining)
}

func TestMemStore_NamespaceIsolation(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemStore()

	_ = s.Set(ctx, "wallet-a", "cred-1", []byte("a"), NoExpiry)
	_, _, found, _ := s.Get(ctx, "wallet-b", "cred-1")

	assert.False(found, "entries must not leak across namespaces")
}

func TestMemStore_ExpiredEntryIsNotFound(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemStore()

	_ = s.Set(ctx, "wallet-a", "cred-1", []byte("a"), 1*time.Millisecond)
	time.Sleep(5 * time.Millisecond)

	_, _, found, err := s.Get(ctx, "wallet-a", "cred-1")
	assert.NoError(err)
	assert.False(found)
}

func TestMemStore_ExtendTTL_BumpsBelowFloor(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := NewMemStore()

	_ = s.Set(ctx, "wallet-a", "cred-1", []byte("a"), 1*time.Second)

	require.NoError(s.ExtendTTL(ctx, "wallet-a", "cred-1", 1*time.Hour, 24*time.Hour))

	_, remaining, found, err := s.Get(ctx, "wallet-a", "cred-1")
	require.NoError(err)
	require.True(found)
	require.Greater(remaining, 23*time.Hour)
}

func TestMemStore_ExtendTTL_NoOpAboveFloor(t *testing.T) {
	require := require.New(t)
	ctx := context.Background()
	s := NewMemStore()

	_ = s.Set(ctx, "wallet-a", "cred-1", []byte("a"), 2*time.Hour)

	require.NoError(s.ExtendTTL(ctx, "wallet-a", "cred-1", 1*time.Hour, 24*time.Hour))

	_, remaining, found, err := s.Get(ctx, "wallet-a", "cred-1")
	require.NoError(err)
	require.True(found)
	require.Less(remaining, 3*time.Hour)
}

func TestMemStore_Sweep_RemovesExpiredOnly(t *testing.T) {
	assert := assert.New(t)
	ctx := context.Background()
	s := NewMemStore()

	_ = s.Set(ctx, "wallet-a", "expired", []byte("a"), 1*time.Millisecond)
	_ = s.Set(ctx, "wallet-a", "alive", []byte("b"), 1*time.Hour)
	time.Sleep(5 * time.Millisecond)

	swept := s.Sweep()
	assert.Equal(1, swept)

	_, _, found, _ := s.Get(ctx, "wallet-a", "alive")
	assert.True(found)
}
