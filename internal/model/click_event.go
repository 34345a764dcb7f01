package model

import (
	"time"
)

// UnknownValue 请求中缺失 IP / User-Agent / Referer 时写入的占位值
const UnknownValue = "unknown"

// ClickEvent 一次重定向产生的点击事件，只追加不修改
type ClickEvent struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	LinkID    uint      `gorm:"not null;index" json:"linkId"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	IP        string    `gorm:"size:45" json:"ip"`
	UserAgent string    `gorm:"type:text" json:"userAgent"`
	Referrer  string    `gorm:"type:text" json:"referrer"`
	Country   *string   `gorm:"size:100" json:"country,omitempty"`
	City      *string   `gorm:"size:100" json:"city,omitempty"`
}

func (ClickEvent) TableName() string {
	return "click_events"
}

// HasCountry 是否带有解析出的国家
func (e *ClickEvent) HasCountry() bool {
	return e.Country != nil && *e.Country != ""
}
