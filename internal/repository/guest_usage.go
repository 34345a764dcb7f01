package repository

import (
	"context"
	"fmt"
	"time"

	"shorturl-analytics/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GuestUsageRepository 基于数据库的匿名配额计数
type GuestUsageRepository struct {
	db     *gorm.DB
	window time.Duration
	now    func() time.Time
}

// NewGuestUsageRepository window 为 0 时计数永不重置
func NewGuestUsageRepository(db *gorm.DB, window time.Duration) *GuestUsageRepository {
	return &GuestUsageRepository{db: db, window: window, now: time.Now}
}

// Increment 对 ip 的计数做一次原子的 upsert 自增，返回自增后的值。
// 自增和读取在同一事务内，行锁保证并发请求拿到各自的计数。
func (r *GuestUsageRepository) Increment(ctx context.Context, ip string) (int64, error) {
	now := r.now().UTC()
	countExpr := gorm.Expr("guest_usages.usage_count + 1")
	if r.window > 0 {
		countExpr = gorm.Expr(
			"CASE WHEN guest_usages.updated_at < ? THEN 1 ELSE guest_usages.usage_count + 1 END",
			now.Add(-r.window),
		)
	}

	var usage model.GuestUsage
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "ip"}},
			// MySQL 按顺序求值赋值语句，usage_count 必须先于 updated_at
			DoUpdates: clause.Set{
				{Column: clause.Column{Name: "usage_count"}, Value: countExpr},
				{Column: clause.Column{Name: "updated_at"}, Value: now},
			},
		}).Create(&model.GuestUsage{IP: ip, Count: 1, UpdatedAt: now}).Error
		if err != nil {
			return err
		}
		return tx.Where("ip = ?", ip).First(&usage).Error
	})
	if err != nil {
		return 0, fmt.Errorf("increment guest usage: %w", err)
	}
	return usage.Count, nil
}
