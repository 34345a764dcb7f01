// Package testutil 测试辅助：内存 sqlite、miniredis 和测试数据构造
package testutil

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"shorturl-analytics/internal/model"
	"shorturl-analytics/pkg/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var dbSeq atomic.Int64

// NewDB 为每个测试创建独立的内存数据库并完成迁移。
// 单连接保证 sqlite 在并发测试下不会出现 "database is locked"。
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:testdb_%d?mode=memory&cache=shared&_foreign_keys=on", dbSeq.Add(1))

	db, err := database.OpenDialector(sqlite.Open(dsn))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewRedis 启动 miniredis 并返回连接它的客户端
func NewRedis(t testing.TB) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

// CreateUser 插入一个测试用户
func CreateUser(t testing.TB, db *gorm.DB, email string) *model.User {
	t.Helper()

	user := &model.User{Email: email, Name: strings.Split(email, "@")[0]}
	require.NoError(t, user.SetPassword("password123"))
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateLink 插入一个测试链接，owner 为 nil 表示匿名
func CreateLink(t testing.TB, db *gorm.DB, slug, original string, owner *model.User) *model.Link {
	t.Helper()

	link := &model.Link{Slug: slug, Original: original}
	if owner != nil {
		link.UserID = &owner.ID
	}
	require.NoError(t, db.Create(link).Error)
	return link
}

// CreateClick 直接插入点击事件，用于构造历史数据
func CreateClick(t testing.TB, db *gorm.DB, linkID uint, ts time.Time, ip, ua string) *model.ClickEvent {
	t.Helper()

	event := &model.ClickEvent{LinkID: linkID, Timestamp: ts, IP: ip, UserAgent: ua, Referrer: model.UnknownValue}
	require.NoError(t, db.Create(event).Error)
	require.NoError(t, db.Model(&model.Link{}).Where("id = ?", linkID).
		Update("click_count", gorm.Expr("click_count + 1")).Error)
	return event
}

// ClickCount 链接当前的点击事件数
func ClickCount(t testing.TB, db *gorm.DB, linkID uint) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(&model.ClickEvent{}).Where("link_id = ?", linkID).Count(&count).Error)
	return count
}

// GuestUsage ip 当前的匿名配额计数，没有记录时为 0
func GuestUsage(t testing.TB, db *gorm.DB, ip string) int64 {
	t.Helper()

	var usage model.GuestUsage
	require.NoError(t, db.Where("ip = ?", ip).Limit(1).Find(&usage).Error)
	return usage.Count
}
