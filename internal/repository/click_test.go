package repository

import (
	"context"
	"sync"
	"testing"
	"time"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/model"
	"shorturl-analytics/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClickRepository_AppendIncrementsCount(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClickRepository(db)
	links := NewLinkRepository(db)
	ctx := context.Background()
	link := testutil.CreateLink(t, db, "abc", "https://example.com", nil)

	country := "Germany"
	event := &model.ClickEvent{LinkID: link.ID, Timestamp: time.Now(), IP: "8.8.8.8", UserAgent: "curl", Referrer: "unknown", Country: &country}
	require.NoError(t, repo.Append(ctx, event))
	assert.NotZero(t, event.ID)

	got, err := links.FindBySlug(ctx, "abc")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ClickCount)

	events, err := repo.ListByLink(ctx, link.ID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Germany", *events[0].Country)
}

func TestClickRepository_AppendUnknownLink(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClickRepository(db)

	err := repo.Append(context.Background(), &model.ClickEvent{LinkID: 42, Timestamp: time.Now()})

	assert.ErrorIs(t, err, apperror.ErrNotFound)
	var count int64
	db.Model(&model.ClickEvent{}).Count(&count)
	assert.Zero(t, count, "链接不存在时不写入点击")
}

func TestClickRepository_ConcurrentAppends(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClickRepository(db)
	ctx := context.Background()
	link := testutil.CreateLink(t, db, "hot", "https://example.com", nil)

	const n = 40
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, repo.Append(ctx, &model.ClickEvent{LinkID: link.ID, Timestamp: time.Now(), IP: "1.2.3.4"}))
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(n), testutil.ClickCount(t, db, link.ID))

	var stored model.Link
	require.NoError(t, db.First(&stored, link.ID).Error)
	assert.Equal(t, int64(n), stored.ClickCount)
}

func TestClickRepository_ListByOwner(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewClickRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice@example.com")
	a1 := testutil.CreateLink(t, db, "a1", "https://example.com", alice)
	a2 := testutil.CreateLink(t, db, "a2", "https://example.com", alice)
	guest := testutil.CreateLink(t, db, "g", "https://example.com", nil)

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	testutil.CreateClick(t, db, a2.ID, base.Add(2*time.Hour), "1.1.1.1", "ua")
	testutil.CreateClick(t, db, a1.ID, base, "2.2.2.2", "ua")
	testutil.CreateClick(t, db, guest.ID, base, "3.3.3.3", "ua")

	events, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "2.2.2.2", events[0].IP, "按时间正序")
	assert.Equal(t, "1.1.1.1", events[1].IP)
}
