package repository

import (
	"context"
	"testing"
	"time"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/model"
	"shorturl-analytics/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkRepository_CreateDuplicateSlug(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &model.Link{Slug: "promo", Original: "https://a.example"}))
	err := repo.Create(ctx, &model.Link{Slug: "promo", Original: "https://b.example"})

	assert.ErrorIs(t, err, apperror.ErrSlugTaken)
}

func TestLinkRepository_SlugExistsAndFind(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()
	testutil.CreateLink(t, db, "abc123", "https://example.com/x?y=1", nil)

	exists, err := repo.SlugExists(ctx, "abc123")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.SlugExists(ctx, "nope")
	require.NoError(t, err)
	assert.False(t, exists)

	link, err := repo.FindBySlug(ctx, "abc123")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/x?y=1", link.Original)
	assert.Nil(t, link.UserID)

	_, err = repo.FindBySlug(ctx, "nope")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLinkRepository_FindOwned(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice@example.com")
	bob := testutil.CreateUser(t, db, "bob@example.com")
	link := testutil.CreateLink(t, db, "alice1", "https://example.com", alice)

	got, err := repo.FindOwned(ctx, alice.ID, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice1", got.Slug)

	_, err = repo.FindOwned(ctx, bob.ID, link.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound, "其他用户的链接视为不存在")

	_, err = repo.FindOwned(ctx, alice.ID, link.ID+100)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestLinkRepository_ListByOwnerNewestFirst(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()
	alice := testutil.CreateUser(t, db, "alice@example.com")
	bob := testutil.CreateUser(t, db, "bob@example.com")

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, slug := range []string{"first", "second", "third"} {
		require.NoError(t, db.Create(&model.Link{
			Slug: slug, Original: "https://example.com", UserID: &alice.ID,
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		}).Error)
	}
	testutil.CreateLink(t, db, "bobs", "https://example.com", bob)
	testutil.CreateLink(t, db, "guest", "https://example.com", nil)

	links, err := repo.ListByOwner(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, "third", links[0].Slug)
	assert.Equal(t, "first", links[2].Slug)

	empty, err := repo.ListByOwner(ctx, 999)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)
}

func TestLinkRepository_DeleteCascadesClicks(t *testing.T) {
	db := testutil.NewDB(t)
	repo := NewLinkRepository(db)
	ctx := context.Background()

	link := testutil.CreateLink(t, db, "gone", "https://example.com", nil)
	keep := testutil.CreateLink(t, db, "kept", "https://example.com", nil)
	now := time.Now()
	testutil.CreateClick(t, db, link.ID, now, "1.1.1.1", "ua")
	testutil.CreateClick(t, db, link.ID, now, "2.2.2.2", "ua")
	testutil.CreateClick(t, db, keep.ID, now, "3.3.3.3", "ua")

	require.NoError(t, repo.Delete(ctx, link.ID))

	assert.Zero(t, testutil.ClickCount(t, db, link.ID))
	assert.Equal(t, int64(1), testutil.ClickCount(t, db, keep.ID))

	_, err := repo.FindBySlug(ctx, "gone")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	assert.ErrorIs(t, repo.Delete(ctx, link.ID), apperror.ErrNotFound)
}
