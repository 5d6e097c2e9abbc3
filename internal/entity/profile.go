package entity

import (
	"time"

	"github.com/google/uuid"
)

// Profile is the domain record attached one-to-one to an identity
// account; the id is the account id. The row is removed by the store's
// cascade when the account is deleted.
type Profile struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	PemilikMobil   string    `gorm:"size:100;not null" json:"pemilik_mobil"`
	PersonalNumber string    `gorm:"size:50;not null" json:"personal_number"`
	PlatNomor      string    `gorm:"size:20;not null" json:"plat_nomor"`
	RoleID         *uint     `json:"role_id"`
	Role           *Role     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"role,omitempty"`
	IsAdmin        bool      `gorm:"default:false" json:"is_admin"`
	CreatedAt      time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Profile) TableName() string { return "user_profile" }
