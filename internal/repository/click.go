package repository

import (
	"context"
	"fmt"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/model"

	"gorm.io/gorm"
)

// ClickRepository 点击事件的追加写入与查询
type ClickRepository struct {
	db *gorm.DB
}

// NewClickRepository 创建点击事件仓库
func NewClickRepository(db *gorm.DB) *ClickRepository {
	return &ClickRepository{db: db}
}

// Append 写入一条点击事件，并在同一事务中把链接的 click_count 加一。
// 链接已不存在时返回 ErrNotFound，不写入任何数据。
func (r *ClickRepository) Append(ctx context.Context, event *model.ClickEvent) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.Link{}).
			Where("id = ?", event.LinkID).
			Update("click_count", gorm.Expr("click_count + 1"))
		if res.Error != nil {
			return fmt.Errorf("increment click count: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.ErrNotFound
		}
		if err := tx.Create(event).Error; err != nil {
			return fmt.Errorf("insert click event: %w", err)
		}
		return nil
	})
}

// ListByLink 按时间正序返回链接的全部点击
func (r *ClickRepository) ListByLink(ctx context.Context, linkID uint) ([]model.ClickEvent, error) {
	events := make([]model.ClickEvent, 0)
	err := r.db.WithContext(ctx).
		Where("link_id = ?", linkID).
		Order("timestamp ASC").Order("id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list clicks: %w", err)
	}
	return events, nil
}

// ListByOwner 按时间正序返回用户所有链接的点击
func (r *ClickRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.ClickEvent, error) {
	events := make([]model.ClickEvent, 0)
	err := r.db.WithContext(ctx).
		Joins("JOIN links ON links.id = click_events.link_id").
		Where("links.user_id = ?", ownerID).
		Order("click_events.timestamp ASC").Order("click_events.id ASC").
		Find(&events).Error
	if err != nil {
		return nil, fmt.Errorf("list owner clicks: %w", err)
	}
	return events, nil
}
