package model

import (
	"time"
)

// Link 短链接模型，slug 全局唯一且创建后不可修改
type Link struct {
	ID         uint         `gorm:"primarykey" json:"id"`
	Slug       string       `gorm:"size:64;uniqueIndex;not null" json:"slug"`
	Original   string       `gorm:"type:text;not null" json:"original"`
	UserID     *uint        `gorm:"index" json:"userId,omitempty"` // 匿名链接为 nil
	ClickCount int64        `gorm:"default:0" json:"clicks"`
	CreatedAt  time.Time    `json:"createdAt"`
	Clicks     []ClickEvent `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// TableName 指定表名
func (Link) TableName() string {
	return "links"
}
