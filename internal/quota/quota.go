// Package quota 实现匿名用户按 IP 的创建配额。
//
// 计数必须在存储层以一次原子的"自增并返回新值"完成，
// 先自增再比较，保证同一 IP 的并发请求不会同时通过。
package quota

import (
	"context"
	"fmt"
	"strings"

	"shorturl-analytics/internal/apperror"
	"shorturl-analytics/internal/model"

	"go.uber.org/zap"
)

// DefaultLimit 匿名用户可创建的链接数
const DefaultLimit = 3

// Store 原子自增计数器
type Store interface {
	Increment(ctx context.Context, ip string) (int64, error)
}

// Decision 配额检查结果
type Decision struct {
	Allowed bool
	Count   int64
	Reason  string
}

// Limiter 匿名配额检查
type Limiter struct {
	store  Store
	limit  int64
	logger *zap.SugaredLogger
}

// NewLimiter 创建配额检查器，limit <= 0 时使用 DefaultLimit
func NewLimiter(store Store, limit int64, logger *zap.SugaredLogger) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Limiter{store: store, limit: limit, logger: logger.Named("guest_quota")}
}

// Limit 返回配额上限
func (l *Limiter) Limit() int64 {
	return l.limit
}

// Admit 记录一次匿名创建尝试并判断是否放行
func (l *Limiter) Admit(ctx context.Context, ip string) (Decision, error) {
	ip = bucketKey(ip)
	count, err := l.store.Increment(ctx, ip)
	if err != nil {
		return Decision{}, fmt.Errorf("guest quota: %w", err)
	}
	if count > l.limit {
		l.logger.Infof("IP %s 超出匿名配额 (%d/%d)", ip, count, l.limit)
		return Decision{Allowed: false, Count: count, Reason: apperror.CodeQuotaExceeded}, nil
	}
	return Decision{Allowed: true, Count: count}, nil
}

// bucketKey 拿不到客户端 IP 的请求共用 model.UnknownValue 一个计数
func bucketKey(ip string) string {
	if ip = strings.TrimSpace(ip); ip == "" {
		return model.UnknownValue
	}
	return ip
}

// Check 与 Admit 相同，拒绝时返回 apperror.ErrQuotaExceeded
func (l *Limiter) Check(ctx context.Context, ip string) error {
	d, err := l.Admit(ctx, ip)
	if err != nil {
		return err
	}
	if !d.Allowed {
		return apperror.ErrQuotaExceeded
	}
	return nil
}
