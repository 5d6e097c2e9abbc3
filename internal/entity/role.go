package entity

import "time"

// Role is a named tier with a monthly spending cap in rupiah.
type Role struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	NamaRole  string    `gorm:"size:100;uniqueIndex;not null" json:"nama_role"`
	LimitRole int       `gorm:"not null" json:"limit_role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Role) TableName() string { return "role" }
