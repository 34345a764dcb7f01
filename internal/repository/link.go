package repository

import (
	"context"
	"errors"
	"fmt"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/model"

	"gorm.io/gorm"
)

// LinkRepository 短链接的持久化
type LinkRepository struct {
	db *gorm.DB
}

// NewLinkRepository 创建短链接仓库
func NewLinkRepository(db *gorm.DB) *LinkRepository {
	return &LinkRepository{db: db}
}

// Create 插入短链接，slug 唯一约束冲突返回 apperror.ErrSlugTaken
func (r *LinkRepository) Create(ctx context.Context, link *model.Link) error {
	err := r.db.WithContext(ctx).Create(link).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperror.ErrSlugTaken
	}
	if err != nil {
		return fmt.Errorf("create link: %w", err)
	}
	return nil
}

// SlugExists 检查短码是否已被占用
func (r *LinkRepository) SlugExists(ctx context.Context, slug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Link{}).Where("slug = ?", slug).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return count > 0, nil
}

// FindBySlug 按短码查找
func (r *LinkRepository) FindBySlug(ctx context.Context, slug string) (*model.Link, error) {
	var link model.Link
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&link).Error
	return r.found(&link, err)
}

// FindOwned 查找属于 ownerID 的链接，不存在或不属于该用户都返回 ErrNotFound
func (r *LinkRepository) FindOwned(ctx context.Context, ownerID, linkID uint) (*model.Link, error) {
	var link model.Link
	err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", linkID, ownerID).First(&link).Error
	return r.found(&link, err)
}

// ListByOwner 按创建时间倒序列出用户的链接
func (r *LinkRepository) ListByOwner(ctx context.Context, ownerID uint) ([]model.Link, error) {
	links := make([]model.Link, 0)
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at DESC").Order("id DESC").
		Find(&links).Error
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// Delete 在事务中删除链接及其全部点击事件
func (r *LinkRepository) Delete(ctx context.Context, linkID uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("link_id = ?", linkID).Delete(&model.ClickEvent{}).Error; err != nil {
			return fmt.Errorf("delete click events: %w", err)
		}
		res := tx.Delete(&model.Link{}, linkID)
		if res.Error != nil {
			return fmt.Errorf("delete link: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return apperror.ErrNotFound
		}
		return nil
	})
}

func (r *LinkRepository) found(link *model.Link, err error) (*model.Link, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find link: %w", err)
	}
	return link, nil
}
