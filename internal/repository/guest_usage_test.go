package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"shorturl-analytics/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestUsageRepository_IncrementCreatesAndCounts(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGuestUsageRepository(db, 0)
	ctx := context.Background()

	for want := int64(1); want <= 4; want++ {
		got, err := repo.Increment(ctx, "10.0.0.1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	other, err := repo.Increment(ctx, "10.0.0.2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other, "不同 IP 分别计数")

	assert.Equal(t, int64(4), testutil.GuestUsage(t, db, "10.0.0.1"))
	assert.Zero(t, testutil.GuestUsage(t, db, "10.9.9.9"))
}

func TestGuestUsageRepository_ConcurrentIncrements(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewGuestUsageRepository(db, 0)
	ctx := context.Background()

	const n = 25
	results := make(chan int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := repo.Increment(ctx, "10.0.0.1")
			assert.NoError(t, err)
			results <- c
		}()
	}
	wg.Wait()
	close(results)

	seen := make(map[int64]bool)
	for c := range results {
		assert.False(t, seen[c], "计数 %d 被返回了两次", c)
		seen[c] = true
	}
	assert.Len(t, seen, n)

	assert.Equal(t, int64(n), testutil.GuestUsage(t, db, "10.0.0.1"))
}

func TestGuestUsageRepository_WindowResets(t *testing.T) {
	repo := NewGuestUsageRepository(testutil.NewDB(t), time.Hour)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return now }

	for i := 0; i < 3; i++ {
		_, err := repo.Increment(ctx, "10.0.0.1")
		require.NoError(t, err)
	}

	now = now.Add(30 * time.Minute)
	c, err := repo.Increment(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, int64(4), c, "窗口内继续累计")

	now = now.Add(2 * time.Hour)
	c, err = repo.Increment(ctx, "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), c, "超过窗口后重新计数")
}
