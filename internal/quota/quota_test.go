package quota

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/model"
	"shorturl-analytics/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type memoryStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func (s *memoryStore) Increment(_ context.Context, ip string) (int64, error) {
	if s.err != nil {
		return 0, s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.counts == nil {
		s.counts = make(map[string]int64)
	}
	s.counts[ip]++
	return s.counts[ip], nil
}

func TestLimiter_FourthRequestDenied(t *testing.T) {
	l := NewLimiter(&memoryStore{}, 0, zap.NewNop().Sugar())
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		d, err := l.Admit(ctx, "1.2.3.4")
		require.NoError(t, err)
		assert.True(t, d.Allowed, "第 %d 次应放行", i)
		assert.Equal(t, int64(i), d.Count)
	}

	d, err := l.Admit(ctx, "1.2.3.4")
	require.NoError(t, err)
	assert.False(t, d.Allowed)
	assert.Equal(t, apperror.CodeQuotaExceeded, d.Reason)

	assert.ErrorIs(t, l.Check(ctx, "1.2.3.4"), apperror.ErrQuotaExceeded)
	assert.NoError(t, l.Check(ctx, "5.6.7.8"), "其他 IP 不受影响")
}

func TestLimiter_MissingIPSharesUnknownBucket(t *testing.T) {
	store := &memoryStore{}
	l := NewLimiter(store, 3, zap.NewNop().Sugar())
	ctx := context.Background()

	for _, ip := range []string{"", "  ", model.UnknownValue} {
		require.NoError(t, l.Check(ctx, ip))
	}
	assert.ErrorIs(t, l.Check(ctx, ""), apperror.ErrQuotaExceeded)
	assert.Equal(t, int64(4), store.counts[model.UnknownValue])
	assert.NotContains(t, store.counts, "")
}

func TestLimiter_StoreErrorPropagates(t *testing.T) {
	storeErr := errors.New("redis down")
	l := NewLimiter(&memoryStore{err: storeErr}, 3, zap.NewNop().Sugar())

	_, err := l.Admit(context.Background(), "1.2.3.4")
	assert.ErrorIs(t, err, storeErr)
}

func TestRedisStore_ConcurrentAdmitsNeverExceedLimit(t *testing.T) {
	client, _ := testutil.NewRedis(t)
	l := NewLimiter(NewRedisStore(client, 0), 3, zap.NewNop().Sugar())

	var admitted atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d, err := l.Admit(context.Background(), "9.9.9.9")
			assert.NoError(t, err)
			if d.Allowed {
				admitted.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(3), admitted.Load())
}

func TestRedisStore_PermanentByDefault(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	store := NewRedisStore(client, 0)
	ctx := context.Background()

	_, err := store.Increment(ctx, "1.1.1.1")
	require.NoError(t, err)

	assert.Zero(t, mr.TTL(redisKeyPrefix+"1.1.1.1"), "没有窗口时不设置过期")
	assert.True(t, mr.Exists(redisKeyPrefix+"1.1.1.1:updated_at"))
}

func TestRedisStore_WindowExpires(t *testing.T) {
	client, mr := testutil.NewRedis(t)
	store := NewRedisStore(client, time.Hour)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := store.Increment(ctx, "1.1.1.1")
		require.NoError(t, err)
	}
	assert.Equal(t, time.Hour, mr.TTL(redisKeyPrefix+"1.1.1.1"))

	mr.FastForward(61 * time.Minute)

	c, err := store.Increment(ctx, "1.1.1.1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c)
}
