// Package analytics 对点击事件做汇总统计。
//
// 独立访客按 IP 去重：共享出口 IP 的多个访客只算一个，轮换 IP 的同一访客会算多个，
// 这是已知的近似。
package analytics

import (
	"sort"
	"time"

	"shorturl-analytics/internal/model"
)

const (
	WindowDays   = 30
	TopCountries = 10
	TopDevices   = 5
	TopReferrers = 5
	RecentLimit  = 50

	unknownLabel = "Unknown"
	directLabel  = "Direct"
	dateLayout   = "2006-01-02"
)

type DayCount struct {
	Date   string `json:"date"`
	Clicks int64  `json:"clicks"`
}

type CountryCount struct {
	Country string `json:"country"`
	Clicks  int64  `json:"clicks"`
}

type DeviceCount struct {
	Device string `json:"device"`
	Clicks int64  `json:"clicks"`
}

type ReferrerCount struct {
	Referrer string `json:"referrer"`
	Clicks   int64  `json:"clicks"`
}

type RecentClick struct {
	Timestamp time.Time `json:"timestamp"`
	IP        string    `json:"ip"`
	UserAgent string    `json:"userAgent"`
	Referrer  string    `json:"referrer"`
	Country   string    `json:"country,omitempty"`
}

// Report 一组点击事件的汇总
type Report struct {
	TotalClicks     int64           `json:"totalClicks"`
	UniqueVisitors  int64           `json:"uniqueVisitors"`
	ClicksByDay     []DayCount      `json:"clicksByDay"`
	ClicksByCountry []CountryCount  `json:"clicksByCountry"`
	ClicksByDevice  []DeviceCount   `json:"clicksByDevice"`
	TopReferrers    []ReferrerCount `json:"topReferrers"`
	RecentClicks    []RecentClick   `json:"recentClicks"`
}

// Summarize 汇总 events。
// 每日统计只包含 now 之前 WindowDays 天内的点击，总数包含全部点击。
func Summarize(events []model.ClickEvent, now time.Time) Report {
	cutoff := now.AddDate(0, 0, -WindowDays)

	visitors := make(map[string]struct{}, len(events))
	days := make(map[string]int64)
	countries := newTally()
	devices := newTally()
	referrers := newTally()

	for i := range events {
		e := &events[i]
		visitors[e.IP] = struct{}{}

		if !e.Timestamp.Before(cutoff) {
			days[e.Timestamp.UTC().Format(dateLayout)]++
		}

		// 没有解析出国家时退化为按 IP 分组
		if e.HasCountry() {
			countries.add(*e.Country)
		} else {
			countries.add(orLabel(e.IP, unknownLabel))
		}
		devices.add(orLabel(e.UserAgent, unknownLabel))
		referrers.add(referrerLabel(e.Referrer))
	}

	report := Report{
		TotalClicks:     int64(len(events)),
		UniqueVisitors:  int64(len(visitors)),
		ClicksByDay:     dailySeries(days),
		ClicksByCountry: make([]CountryCount, 0),
		ClicksByDevice:  make([]DeviceCount, 0),
		TopReferrers:    make([]ReferrerCount, 0),
		RecentClicks:    recent(events, RecentLimit),
	}
	for _, b := range countries.top(TopCountries) {
		report.ClicksByCountry = append(report.ClicksByCountry, CountryCount{Country: b.key, Clicks: b.count})
	}
	for _, b := range devices.top(TopDevices) {
		report.ClicksByDevice = append(report.ClicksByDevice, DeviceCount{Device: b.key, Clicks: b.count})
	}
	for _, b := range referrers.top(TopReferrers) {
		report.TopReferrers = append(report.TopReferrers, ReferrerCount{Referrer: b.key, Clicks: b.count})
	}
	return report
}

// CountryTotals 只统计解析出国家的点击，用于地图展示
func CountryTotals(events []model.ClickEvent) []CountryCount {
	t := newTally()
	for i := range events {
		if events[i].HasCountry() {
			t.add(*events[i].Country)
		}
	}
	out := make([]CountryCount, 0, len(t.keys))
	for _, b := range t.top(0) {
		out = append(out, CountryCount{Country: b.key, Clicks: b.count})
	}
	return out
}

func dailySeries(days map[string]int64) []DayCount {
	out := make([]DayCount, 0, len(days))
	for date, clicks := range days {
		out = append(out, DayCount{Date: date, Clicks: clicks})
	}
	// yyyy-mm-dd 字典序即日期顺序
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

func recent(events []model.ClickEvent, limit int) []RecentClick {
	sorted := make([]*model.ClickEvent, len(events))
	for i := range events {
		sorted[i] = &events[i]
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Timestamp.Equal(sorted[j].Timestamp) {
			return sorted[i].ID > sorted[j].ID
		}
		return sorted[i].Timestamp.After(sorted[j].Timestamp)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}

	out := make([]RecentClick, 0, len(sorted))
	for _, e := range sorted {
		rc := RecentClick{
			Timestamp: e.Timestamp.UTC(),
			IP:        orLabel(e.IP, unknownLabel),
			UserAgent: orLabel(e.UserAgent, unknownLabel),
			Referrer:  e.Referrer,
		}
		if e.HasCountry() {
			rc.Country = *e.Country
		}
		out = append(out, rc)
	}
	return out
}

func orLabel(s, label string) string {
	if s == "" {
		return label
	}
	return s
}

func referrerLabel(s string) string {
	if s == "" || s == model.UnknownValue {
		return directLabel
	}
	return s
}

type bucket struct {
	key   string
	count int64
}

// tally 计数并记住首次出现的顺序，排序时同票按首次出现先后
type tally struct {
	index   map[string]int
	keys    []string
	buckets []bucket
}

func newTally() *tally {
	return &tally{index: make(map[string]int)}
}

func (t *tally) add(key string) {
	if i, ok := t.index[key]; ok {
		t.buckets[i].count++
		return
	}
	t.index[key] = len(t.buckets)
	t.keys = append(t.keys, key)
	t.buckets = append(t.buckets, bucket{key: key, count: 1})
}

// top n <= 0 时返回全部
func (t *tally) top(n int) []bucket {
	out := make([]bucket, len(t.buckets))
	copy(out, t.buckets)
	sort.SliceStable(out, func(i, j int) bool { return out[i].count > out[j].count })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
