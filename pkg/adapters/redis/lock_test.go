package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/taxaquery/pkg/adapters/redis"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisLocker_LockUnlock(t *testing.T) {
	tax, mr := newTaxonomy(t, redis.WithPrefix("taxa:"))
	locker := tax.Locker()
	ctx := context.Background()

	unlock, err := locker.Lock(ctx, "seed", 5*time.Second)
	require.NoError(t, err)
	assert.True(t, mr.Exists("taxa:lock:seed"), "lock key should be set")

	require.NoError(t, unlock(ctx))
	assert.False(t, mr.Exists("taxa:lock:seed"), "lock key should be removed after unlock")
}

func TestRedisLocker_Contention(t *testing.T) {
	tax, mr := newTaxonomy(t)
	first, second := tax.Locker(), tax.Locker()
	ctx := context.Background()

	unlock1, err := first.Lock(ctx, "seed", 5*time.Second)
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 300*time.Millisecond)
	defer cancel()
	start := time.Now()
	_, err = second.Lock(waitCtx, "seed", 5*time.Second)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.GreaterOrEqual(t, time.Since(start), 250*time.Millisecond, "should block until the deadline")

	require.NoError(t, unlock1(ctx))

	unlock2, err := second.Lock(ctx, "seed", 5*time.Second)
	require.NoError(t, err)
	defer unlock2(ctx)
	assert.True(t, mr.Exists("taxaquery:taxon:lock:seed"))
}

func TestRedisLocker_StaleUnlockKeepsNewHolder(t *testing.T) {
	tax, mr := newTaxonomy(t)
	ctx := context.Background()

	unlock1, err := tax.Locker().Lock(ctx, "seed", time.Second)
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	unlock2, err := tax.Locker().Lock(ctx, "seed", 5*time.Second)
	require.NoError(t, err)

	require.NoError(t, unlock1(ctx))
	assert.True(t, mr.Exists("taxaquery:taxon:lock:seed"), "expired holder must not release the new lock")

	require.NoError(t, unlock2(ctx))
	assert.False(t, mr.Exists("taxaquery:taxon:lock:seed"))
}
