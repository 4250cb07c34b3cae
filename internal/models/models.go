package models

import (
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type Role struct {
	ID          uint    `gorm:"primaryKey;autoIncrement"     json:"id"`
	Name        string  `gorm:"size:20;uniqueIndex;not null" json:"name"`
	Description *string `gorm:"size:100"                     json:"description"`
	Users       []User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"users"`
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"     json:"id"`
	Username     string    `gorm:"size:20;uniqueIndex;not null" json:"username"`
	PasswordHash string    `gorm:"not null"                     json:"-"`
	Email        *string   `gorm:"size:255"                     json:"email"`
	FIO          *string   `gorm:"column:fio;size:50"           json:"fio"`
	RoleID       uint      `gorm:"index;not null"               json:"role_id"`
	Role         Role      `json:"role"`
	Summaries    []Summary `gorm:"constraint:OnDelete:CASCADE;" json:"summaries"`
	Comments     []Comment `gorm:"constraint:OnDelete:CASCADE;" json:"comments"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Summary struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Title       string    `gorm:"size:50;not null"         json:"title"`
	Description *string   `gorm:"size:1000"                json:"description"`
	UserID      uint      `gorm:"index;not null"           json:"user_id"`
	User        User      `json:"user"`
	Comments    []Comment `gorm:"constraint:OnDelete:CASCADE;" json:"comments"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Comment struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Text      string    `gorm:"size:360;not null"        json:"text"`
	UserID    uint      `gorm:"index;not null"           json:"user_id"`
	SummaryID uint      `gorm:"index;not null"           json:"summary_id"`
	User      User      `json:"user"`
	Summary   Summary   `json:"summary"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// All lists every persisted model in migration order.
func All() []any {
	return []any{&Role{}, &User{}, &Summary{}, &Comment{}}
}
