package model

import (
	"time"
)

// GuestUsage 按客户端 IP 统计的匿名创建次数
type GuestUsage struct {
	IP        string    `gorm:"primaryKey;size:45" json:"ip"`
	Count     int64     `gorm:"column:usage_count;not null;default:0" json:"count"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (GuestUsage) TableName() string {
	return "guest_usages"
}
