package lock

import (
	"context"
	"errors"
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
	monday  = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	tuesday = time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)
)

func newRedisLocker(t *testing.T, wait time.Duration) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisLocker(client, 5*time.Second, wait), mr
}

func TestDayKey(t *testing.T) {
	assert.Equal(t, "salon:lock:day:2025-03-10", DayKey(monday.Add(15*time.Hour)))
}

func TestRedisLocker_ReleasesAfterRun(t *testing.T) {
	locker, mr := newRedisLocker(t, 0)
	ctx := context.Background()

	err := locker.WithDayLock(ctx, monday, func(ctx context.Context) error {
		assert.True(t, mr.Exists(DayKey(monday)))
		return nil
	})
	require.NoError(t, err)
	assert.False(t, mr.Exists(DayKey(monday)))

	// ошибка fn возвращается как есть, ключ тоже освобождается
	boom := errors.New("boom")
	err = locker.WithDayLock(ctx, monday, func(ctx context.Context) error { return boom })
	assert.ErrorIs(t, err, boom)
	assert.False(t, mr.Exists(DayKey(monday)))
}

func TestRedisLocker_BusyDay(t *testing.T) {
	locker, mr := newRedisLocker(t, 0)
	ctx := context.Background()

	require.NoError(t, mr.Set(DayKey(monday), "someone-else"))

	called := false
	err := locker.WithDayLock(ctx, monday, func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, ErrLockNotAcquired)
	assert.False(t, called)

	// чужой ключ не удаляется
	val, err := mr.Get(DayKey(monday))
	require.NoError(t, err)
	assert.Equal(t, "someone-else", val)

	// другой день не заблокирован
	require.NoError(t, locker.WithDayLock(ctx, tuesday, func(ctx context.Context) error { return nil }))
}

func TestRedisLocker_WaitsForRelease(t *testing.T) {
	locker, mr := newRedisLocker(t, 2*time.Second)
	require.NoError(t, mr.Set(DayKey(monday), "someone-else"))

	go func() {
		time.Sleep(150 * time.Millisecond)
		mr.Del(DayKey(monday))
	}()

	err := locker.WithDayLock(context.Background(), monday, func(ctx context.Context) error { return nil })
	assert.NoError(t, err)
}

func TestRedisLocker_BackendDown(t *testing.T) {
	locker, mr := newRedisLocker(t, 0)
	mr.Close()

	err := locker.WithDayLock(context.Background(), monday, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrLockBackend)
}

func TestLocalLocker_Serializes(t *testing.T) {
	locker := NewLocalLocker(5 * time.Second)

	var inside, maxInside int32
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := locker.WithDayLock(context.Background(), monday, func(ctx context.Context) error {
				n := atomic.AddInt32(&inside, 1)
				for {
					m := atomic.LoadInt32(&maxInside)
					if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inside, -1)
				return nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), maxInside)
}

func TestLocalLocker_Timeout(t *testing.T) {
	locker := NewLocalLocker(20 * time.Millisecond)
	release := make(chan struct{})
	acquired := make(chan struct{})

	go func() {
		_ = locker.WithDayLock(context.Background(), monday, func(ctx context.Context) error {
			close(acquired)
			<-release
			return nil
		})
	}()
	<-acquired

	err := locker.WithDayLock(context.Background(), monday, func(ctx context.Context) error { return nil })
	assert.ErrorIs(t, err, ErrLockNotAcquired)

	require.NoError(t, locker.WithDayLock(context.Background(), tuesday, func(ctx context.Context) error { return nil }))
	close(release)
}

func (l *LocalLocker) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.gates)
}

func TestLocalLocker_ForgetsReleasedDays(t *testing.T) {
	locker := NewLocalLocker(time.Second)

	for day := 0; day < 30; day++ {
		date := monday.AddDate(0, 0, day)
		require.NoError(t, locker.WithDayLock(context.Background(), date, func(ctx context.Context) error {
			assert.Equal(t, 1, locker.size())
			return nil
		}))
	}
	assert.Equal(t, 0, locker.size())

	release := make(chan struct{})
	acquired := make(chan struct{})
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = locker.WithDayLock(context.Background(), monday, func(ctx context.Context) error {
			close(acquired)
			<-release
			return nil
		})
	}()
	<-acquired

	waited := make(chan error)
	go func() {
		waited <- locker.WithDayLock(context.Background(), monday, func(ctx context.Context) error { return nil })
	}()

	close(release)
	<-done
	require.NoError(t, <-waited)
	assert.Equal(t, 0, locker.size())
}
