package analytics

import (
	"context"
	"time"

	"shorturl-analytics/internal/model"
)

// LinkStore 按归属查找链接
type LinkStore interface {
	FindOwned(ctx context.Context, ownerID, linkID uint) (*model.Link, error)
}

// ClickStore 读取点击历史
type ClickStore interface {
	ListByLink(ctx context.Context, linkID uint) ([]model.ClickEvent, error)
	ListByOwner(ctx context.Context, ownerID uint) ([]model.ClickEvent, error)
}

// LinkSummary 报表中的链接信息
type LinkSummary struct {
	ID       uint   `json:"id"`
	Slug     string `json:"slug"`
	Original string `json:"original"`
}

// LinkReport 单个链接的报表
type LinkReport struct {
	URL LinkSummary `json:"url"`
	Report
}

// UserReport 用户全部链接的报表
type UserReport struct {
	Report
	Countries []CountryCount `json:"countries"`
}

// CountryReport 地图视图
type CountryReport struct {
	TotalClicks int64          `json:"totalClicks"`
	Countries   []CountryCount `json:"countries"`
}

// Service 只读，不加锁，与并发写入之间不要求事务一致
type Service struct {
	links  LinkStore
	clicks ClickStore
	now    func() time.Time
}

func NewService(links LinkStore, clicks ClickStore) *Service {
	return &Service{links: links, clicks: clicks, now: time.Now}
}

// ForLink 链接不存在或不属于 ownerID 时返回 apperror.ErrNotFound
func (s *Service) ForLink(ctx context.Context, ownerID, linkID uint) (*LinkReport, error) {
	link, err := s.links.FindOwned(ctx, ownerID, linkID)
	if err != nil {
		return nil, err
	}
	events, err := s.clicks.ListByLink(ctx, link.ID)
	if err != nil {
		return nil, err
	}
	return &LinkReport{
		URL:    LinkSummary{ID: link.ID, Slug: link.Slug, Original: link.Original},
		Report: Summarize(events, s.now()),
	}, nil
}

func (s *Service) ForUser(ctx context.Context, ownerID uint) (*UserReport, error) {
	events, err := s.clicks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	return &UserReport{
		Report:    Summarize(events, s.now()),
		Countries: CountryTotals(events),
	}, nil
}

func (s *Service) Countries(ctx context.Context, ownerID uint) (*CountryReport, error) {
	events, err := s.clicks.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	countries := CountryTotals(events)
	var total int64
	for _, c := range countries {
		total += c.Clicks
	}
	return &CountryReport{TotalClicks: total, Countries: countries}, nil
}
