package redlock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T) redis.UniversalClient {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func TestLockerLockUnlock(t *testing.T) {
	client := newTestClient(t)
	locker := NewLocker(client, "payout:aff_1", "holder-a")

	require.NoError(t, locker.Lock(context.Background(), 5*time.Second))

	// A second holder cannot take the same key while it is held.
	other := NewLocker(client, "payout:aff_1", "holder-b")
	err := other.Lock(context.Background(), 5*time.Second)
	assert.EqualError(t, err, "lock for key payout:aff_1 is already held")

	require.NoError(t, locker.Unlock(context.Background()))

	// Released, the key is free again.
	assert.NoError(t, other.Lock(context.Background(), 5*time.Second))
}

func TestLockerUnlockNotHolder(t *testing.T) {
	client := newTestClient(t)
	locker := NewLocker(client, "payout:aff_2", "holder-a")
	require.NoError(t, locker.Lock(context.Background(), 5*time.Second))

	impostor := NewLocker(client, "payout:aff_2", "holder-b")
	err := impostor.Unlock(context.Background())
	assert.Error(t, err)

	// The legitimate holder still owns the key.
	assert.NoError(t, locker.Unlock(context.Background()))
}

func TestLockerExtendLock(t *testing.T) {
	client := newTestClient(t)
	locker := NewLocker(client, "payout:aff_3", "holder-a")
	require.NoError(t, locker.Lock(context.Background(), time.Second))
	assert.NoError(t, locker.ExtendLock(context.Background(), time.Minute))
}

func TestWaitLockTimesOut(t *testing.T) {
	client := newTestClient(t)
	locker := NewLocker(client, "payout:aff_4", "holder-a")
	require.NoError(t, locker.Lock(context.Background(), time.Minute))

	other := NewLocker(client, "payout:aff_4", "holder-b")
	err := other.WaitLock(context.Background(), time.Minute, 200*time.Millisecond)
	assert.Error(t, err)
}
