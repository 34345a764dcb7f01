// Package click 记录每次重定向产生的点击事件。
// 记录失败和地理位置查询失败只写日志，不影响重定向。
package click

import (
	"context"
	"strings"
	"sync"
	"time"

	"shorturl-analytics/internal/geo"
	"shorturl-analytics/internal/model"

	"go.uber.org/zap"
)

// Visit 请求中能拿到的访问信息，字段可能为空
type Visit struct {
	IP        string
	UserAgent string
	Referrer  string
}

// Normalize 空字段替换为 model.UnknownValue
func (v Visit) Normalize() Visit {
	return Visit{
		IP:        orUnknown(v.IP),
		UserAgent: orUnknown(v.UserAgent),
		Referrer:  orUnknown(v.Referrer),
	}
}

func orUnknown(s string) string {
	if s = strings.TrimSpace(s); s == "" {
		return model.UnknownValue
	}
	return s
}

// EventStore 点击事件的追加写入
type EventStore interface {
	Append(ctx context.Context, event *model.ClickEvent) error
}

// Options 超时设置
type Options struct {
	GeoTimeout    time.Duration
	RecordTimeout time.Duration
}

// Recorder 点击记录器
type Recorder struct {
	store   EventStore
	locator geo.Locator
	opts    Options
	logger  *zap.SugaredLogger
	now     func() time.Time
	wg      sync.WaitGroup
}

// NewRecorder locator 为 nil 时不做地理位置解析
func NewRecorder(store EventStore, locator geo.Locator, opts Options, logger *zap.SugaredLogger) *Recorder {
	if locator == nil {
		locator = geo.Nop{}
	}
	if opts.GeoTimeout <= 0 {
		opts.GeoTimeout = 2 * time.Second
	}
	if opts.RecordTimeout <= 0 {
		opts.RecordTimeout = 5 * time.Second
	}
	return &Recorder{
		store:   store,
		locator: locator,
		opts:    opts,
		logger:  logger.Named("click_recorder"),
		now:     time.Now,
	}
}

// Record 同步写入一条点击事件
func (r *Recorder) Record(ctx context.Context, linkID uint, visit Visit) (*model.ClickEvent, error) {
	visit = visit.Normalize()
	event := &model.ClickEvent{
		LinkID:    linkID,
		Timestamp: r.now().UTC(),
		IP:        visit.IP,
		UserAgent: visit.UserAgent,
		Referrer:  visit.Referrer,
	}

	if loc, ok := r.locate(ctx, visit.IP); ok {
		event.Country = &loc.Country
		if loc.City != "" {
			event.City = &loc.City
		}
	}

	if err := r.store.Append(ctx, event); err != nil {
		return nil, err
	}
	return event, nil
}

// Dispatch 在后台记录点击，不阻塞调用方。
// 使用脱离请求生命周期的 context，请求结束后仍能完成写入。
func (r *Recorder) Dispatch(ctx context.Context, linkID uint, visit Visit) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()

		bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.opts.RecordTimeout)
		defer cancel()

		if _, err := r.Record(bg, linkID, visit); err != nil {
			r.logger.Errorf("记录点击失败 link=%d: %v", linkID, err)
		}
	}()
}

// Wait 等待所有后台记录完成，用于优雅退出和测试
func (r *Recorder) Wait() {
	r.wg.Wait()
}

func (r *Recorder) locate(ctx context.Context, ip string) (geo.Location, bool) {
	if ip == model.UnknownValue {
		return geo.Location{}, false
	}
	lookupCtx, cancel := context.WithTimeout(ctx, r.opts.GeoTimeout)
	defer cancel()

	loc, ok := r.locator.Lookup(lookupCtx, ip)
	if !ok {
		r.logger.Debugf("IP %s 未解析出地理位置，按无国家记录", ip)
	}
	return loc, ok
}
