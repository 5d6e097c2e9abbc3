package entity

import (
	"time"

	"github.com/google/uuid"
)

// Reimbursement is a single fuel-purchase claim. Rows are immutable
// after creation; there are no update or delete operations.
type Reimbursement struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	UserID            uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	Profile           *Profile  `gorm:"foreignKey:UserID" json:"-"`
	HargaBbm          int       `gorm:"not null" json:"harga_bbm"`
	SpedometerSebelum int       `gorm:"not null" json:"spedometer_sebelum"`
	SpedometerSetelah *int      `json:"spedometer_setelah"`
	JenisBbm          string    `gorm:"size:50;not null" json:"jenis_bbm"`
	HargaPerLiter     int       `gorm:"not null" json:"harga_per_liter"`
	JumlahLiterBbm    float64   `gorm:"not null" json:"jumlah_liter_bbm"`
	StrukPembelian    string    `gorm:"type:text;not null" json:"struk_pembelian"`
	CreatedAt         time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Reimbursement) TableName() string { return "reimburse" }

// SelisihKm is the odometer delta, nil when the after reading was not
// reported.
func (r *Reimbursement) SelisihKm() *int {
	if r.SpedometerSetelah == nil {
		return nil
	}
	d := *r.SpedometerSetelah - r.SpedometerSebelum
	return &d
}
