// Package redirect 把短码解析为目标地址并触发点击记录
package redirect

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/click"
	"shorturl-analytics/internal/model"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const cacheKeyPrefix = "shortlink:"

// LinkFinder 按短码查找链接，不存在时返回 apperror.ErrNotFound
type LinkFinder interface {
	FindBySlug(ctx context.Context, slug string) (*model.Link, error)
}

// ClickSink 点击记录
type ClickSink interface {
	Record(ctx context.Context, linkID uint, visit click.Visit) (*model.ClickEvent, error)
	Dispatch(ctx context.Context, linkID uint, visit click.Visit)
}

type cachedLink struct {
	ID     uint   `json:"id"`
	Target string `json:"target"`
}

// Resolver 重定向解析器。cache 为 nil 时直接查库
type Resolver struct {
	links    LinkFinder
	clicks   ClickSink
	cache    *redis.Client
	cacheTTL time.Duration
	async    bool
	logger   *zap.SugaredLogger
}

// NewResolver async 为 true 时点击在后台记录
func NewResolver(links LinkFinder, clicks ClickSink, cache *redis.Client, cacheTTL time.Duration, async bool, logger *zap.SugaredLogger) *Resolver {
	if cacheTTL <= 0 {
		cacheTTL = 24 * time.Hour
	}
	return &Resolver{
		links:    links,
		clicks:   clicks,
		cache:    cache,
		cacheTTL: cacheTTL,
		async:    async,
		logger:   logger.Named("redirect"),
	}
}

// Resolve 返回原样保存的目标地址。
// 短码不存在返回 apperror.ErrNotFound 且不记录点击；存储错误原样返回。
func (r *Resolver) Resolve(ctx context.Context, slug string, visit click.Visit) (string, error) {
	entry, err := r.lookup(ctx, slug)
	if err != nil {
		return "", err
	}

	if r.async {
		r.clicks.Dispatch(ctx, entry.ID, visit)
	} else if _, err := r.clicks.Record(ctx, entry.ID, visit); err != nil {
		// 缓存命中但链接已被删除
		if errors.Is(err, apperror.ErrNotFound) {
			r.Forget(ctx, slug)
			return "", apperror.ErrNotFound
		}
		r.logger.Errorf("记录点击失败 slug=%s: %v", slug, err)
	}

	return entry.Target, nil
}

// Forget 删除短码缓存
func (r *Resolver) Forget(ctx context.Context, slug string) {
	if r.cache == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := r.cache.Del(ctx, cacheKeyPrefix+slug).Err(); err != nil {
		r.logger.Warnf("删除缓存失败 slug=%s: %v", slug, err)
	}
}

func (r *Resolver) lookup(ctx context.Context, slug string) (*cachedLink, error) {
	if entry, ok := r.fromCache(ctx, slug); ok {
		return entry, nil
	}

	link, err := r.links.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	entry := &cachedLink{ID: link.ID, Target: link.Original}
	if r.toCache(ctx, slug, entry) {
		r.evictIfDeleted(ctx, slug)
	}
	return entry, nil
}

// evictIfDeleted 写缓存后再查一次库。
// 查库和写缓存之间链接可能已被删除且 Forget 已经执行，这时由本次请求删掉自己写入的缓存。
func (r *Resolver) evictIfDeleted(ctx context.Context, slug string) {
	if _, err := r.links.FindBySlug(ctx, slug); errors.Is(err, apperror.ErrNotFound) {
		r.logger.Debugf("短码 %s 写缓存期间已被删除", slug)
		r.Forget(ctx, slug)
	}
}

func (r *Resolver) fromCache(ctx context.Context, slug string) (*cachedLink, bool) {
	if r.cache == nil {
		return nil, false
	}
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	val, err := r.cache.Get(ctx, cacheKeyPrefix+slug).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warnf("读取缓存失败 slug=%s: %v", slug, err)
		}
		return nil, false
	}

	var entry cachedLink
	if err := json.Unmarshal(val, &entry); err != nil || entry.ID == 0 {
		return nil, false
	}
	return &entry, true
}

// toCache 返回是否写入成功
func (r *Resolver) toCache(ctx context.Context, slug string, entry *cachedLink) bool {
	if r.cache == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	data, _ := json.Marshal(entry)
	if err := r.cache.Set(ctx, cacheKeyPrefix+slug, data, r.cacheTTL).Err(); err != nil {
		r.logger.Warnf("写入缓存失败 slug=%s: %v", slug, err)
		return false
	}
	return true
}
