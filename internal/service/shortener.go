// Package service 编排短链接的创建、列表和删除
package service

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/model"
	"shorturl-analytics/internal/shortcode"

	"go.uber.org/zap"
)

// LinkStore 短链接存储
type LinkStore interface {
	Create(ctx context.Context, link *model.Link) error
	SlugExists(ctx context.Context, slug string) (bool, error)
	FindOwned(ctx context.Context, ownerID, linkID uint) (*model.Link, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.Link, error)
	Delete(ctx context.Context, linkID uint) error
}

// QuotaChecker 匿名配额，超出时返回 apperror.ErrQuotaExceeded
type QuotaChecker interface {
	Check(ctx context.Context, ip string) error
}

// CacheInvalidator 删除链接后清理重定向缓存
type CacheInvalidator interface {
	Forget(ctx context.Context, slug string)
}

// ShortenRequest OwnerID 为 nil 表示匿名请求
type ShortenRequest struct {
	Original string
	Slug     string
	OwnerID  *uint
	ClientIP string
}

type Shortener struct {
	links   LinkStore
	quota   QuotaChecker
	gen     *shortcode.Generator
	cache   CacheInvalidator
	baseURL string
	logger  *zap.SugaredLogger
}

// NewShortener cache 可以为 nil；baseURL 为空时使用请求的来源拼接短链接
func NewShortener(links LinkStore, quota QuotaChecker, gen *shortcode.Generator, cache CacheInvalidator, baseURL string, logger *zap.SugaredLogger) *Shortener {
	return &Shortener{
		links:   links,
		quota:   quota,
		gen:     gen,
		cache:   cache,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger.Named("shortener"),
	}
}

// ValidateURL 只接受带主机名的 http / https 绝对地址
func ValidateURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return apperror.ErrInvalidURL
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return apperror.ErrInvalidURL
	}
	return nil
}

// Shorten 创建短链接。
// 匿名请求先占用一次配额；随机短码在插入时撞上唯一索引会重新生成，
// 自定义短码被占用直接返回 ErrSlugTaken。
func (s *Shortener) Shorten(ctx context.Context, req ShortenRequest) (*model.Link, error) {
	original := strings.TrimSpace(req.Original)
	if err := ValidateURL(original); err != nil {
		return nil, err
	}
	requested := shortcode.Normalize(req.Slug)
	if requested != "" {
		if err := shortcode.Validate(requested); err != nil {
			return nil, err
		}
	}

	if req.OwnerID == nil {
		if err := s.quota.Check(ctx, req.ClientIP); err != nil {
			return nil, err
		}
	}

	for i := 0; i < s.gen.MaxAttempts(); i++ {
		slug, err := s.gen.Issue(ctx, requested, s.links.SlugExists)
		if err != nil {
			return nil, err
		}

		link := &model.Link{Slug: slug, Original: original, UserID: req.OwnerID}
		err = s.links.Create(ctx, link)
		if err == nil {
			s.logger.Infof("创建短链接 %s -> %s", slug, original)
			return link, nil
		}
		if !errors.Is(err, apperror.ErrSlugTaken) || requested != "" {
			return nil, err
		}
		// 检查和插入之间被其他请求抢占
		s.logger.Debugf("短码 %s 插入时冲突，重新生成", slug)
	}
	return nil, apperror.ErrSlugExhausted
}

// ShortURL 拼接完整短链接，origin 形如 http://host
func (s *Shortener) ShortURL(link *model.Link, origin string) string {
	base := s.baseURL
	if base == "" {
		base = strings.TrimRight(origin, "/")
	}
	return base + "/" + link.Slug
}

// List 列出用户的链接，最新的在前
func (s *Shortener) List(ctx context.Context, ownerID uint) ([]model.Link, error) {
	return s.links.ListByOwner(ctx, ownerID)
}

// Delete 删除用户自己的链接及其点击记录
func (s *Shortener) Delete(ctx context.Context, ownerID, linkID uint) error {
	link, err := s.links.FindOwned(ctx, ownerID, linkID)
	if err != nil {
		return err
	}
	if err := s.links.Delete(ctx, link.ID); err != nil {
		return err
	}
	if s.cache != nil {
		s.cache.Forget(ctx, link.Slug)
	}
	s.logger.Infof("用户 %d 删除短链接 %s", ownerID, link.Slug)
	return nil
}
