package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ Locker = (*Local)(nil)
	_ Locker = (*Redis)(nil)
)

func newRedisLocker(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedis(client, WithPollInterval(5*time.Millisecond)), mr
}

func lockers(t *testing.T) map[string]Locker {
	r, _ := newRedisLocker(t)
	return map[string]Locker{"local": NewLocal(), "redis": r}
}

func TestMutualExclusionSameKey(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			var inside, maxInside int32
			var wg sync.WaitGroup
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					unlock, err := l.Lock(context.Background(), LearnerKey("ada"))
					if !assert.NoError(t, err) {
						return
					}
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(2 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					unlock()
				}()
			}
			wg.Wait()
			assert.Equal(t, int32(1), maxInside)
		})
	}
}

func TestDifferentKeysDoNotContend(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			unlockA, err := l.Lock(context.Background(), LearnerKey("ada"))
			require.NoError(t, err)
			defer unlockA()

			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			unlockB, err := l.Lock(ctx, LearnerKey("grace"))
			require.NoError(t, err)
			unlockB()
		})
	}
}

func TestLockHonoursContext(t *testing.T) {
	for name, l := range lockers(t) {
		t.Run(name, func(t *testing.T) {
			unlock, err := l.Lock(context.Background(), "k")
			require.NoError(t, err)
			defer unlock()

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
			defer cancel()
			_, err = l.Lock(ctx, "k")
			assert.ErrorIs(t, err, context.DeadlineExceeded)
		})
	}
}

func TestLocal_EntriesReleased(t *testing.T) {
	l := NewLocal()
	unlock, err := l.Lock(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 1, l.size())

	unlock()
	unlock() // idempotent
	assert.Equal(t, 0, l.size())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hold, _ := l.Lock(context.Background(), "k")
	_, err = l.Lock(ctx, "k")
	assert.ErrorIs(t, err, context.Canceled)
	hold()
	assert.Equal(t, 0, l.size())
}

func TestRedis_ReleaseOnlyOwnToken(t *testing.T) {
	r, mr := newRedisLocker(t)
	unlock, err := r.Lock(context.Background(), "k")
	require.NoError(t, err)
	assert.True(t, mr.Exists("codetrain:lock:k"))

	// Simulate expiry and takeover by another holder.
	mr.Set("codetrain:lock:k", "someone-else")
	unlock()
	got, err := mr.Get("codetrain:lock:k")
	require.NoError(t, err)
	assert.Equal(t, "someone-else", got)
}

func TestRedis_TTLExpiresAbandonedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()
	r := NewRedis(client, WithTTL(time.Second), WithPollInterval(5*time.Millisecond))

	_, err := r.Lock(context.Background(), "k")
	require.NoError(t, err)
	mr.FastForward(2 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlock, err := r.Lock(ctx, "k")
	require.NoError(t, err)
	unlock()
	assert.False(t, mr.Exists("codetrain:lock:k"))
}

func TestDialRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	r, err := DialRedis(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer r.Close()

	_, err = DialRedis(context.Background(), "not a url")
	assert.Error(t, err)
}
