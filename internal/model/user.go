package model

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// User 用户模型，只作为链接的归属方
type User struct {
	ID           uint       `gorm:"primarykey" json:"id"`
	Email        string     `gorm:"type:varchar(100);uniqueIndex;not null" json:"email"`
	Name         string     `gorm:"type:varchar(50)" json:"name"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	Links        []Link     `gorm:"foreignKey:UserID" json:"-"`
	CreatedAt    time.Time  `json:"createdAt"`
	LastLogin    *time.Time `json:"lastLogin,omitempty"`
}

// SetPassword 加密并设置密码
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword 校验密码
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// AllModels 需要自动迁移的全部模型
func AllModels() []interface{} {
	return []interface{}{&User{}, &Link{}, &ClickEvent{}, &GuestUsage{}}
}
