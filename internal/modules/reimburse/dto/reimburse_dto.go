package dto

import (
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
)

// ReceiptFile is the uploaded purchase receipt, streamed straight from
// the multipart form.
type ReceiptFile struct {
	Reader      io.Reader
	FileName    string
	ContentType string
	Size        int64
}

// CreateReimburseInput carries the raw multipart form values; numeric
// parsing and validation happen in the service.
type CreateReimburseInput struct {
	HargaBbm          string
	SpedometerSebelum string
	SpedometerSetelah string
	JenisBbm          string
	HargaPerLiter     string
	JumlahLiterBbm    string
	Receipt           *ReceiptFile
}

type ReimburseItem struct {
	ID                uint      `json:"id"`
	HargaBbm          int       `json:"harga_bbm"`
	SpedometerSebelum int       `json:"spedometer_sebelum"`
	SpedometerSetelah *int      `json:"spedometer_setelah"`
	SelisihKm         *int      `json:"selisih_km"`
	JenisBbm          string    `json:"jenis_bbm"`
	HargaPerLiter     int       `json:"harga_per_liter"`
	JumlahLiterBbm    float64   `json:"jumlah_liter_bbm"`
	StrukPembelian    string    `json:"struk_pembelian"`
	CreatedAt         time.Time `json:"created_at"`
}

type CreatedReimburse struct {
	ReimburseItem
	UserID               uuid.UUID `json:"user_id"`
	TotalHargaCalculated float64   `json:"total_harga_calculated"`
}

type OwnerPayload struct {
	ID             uuid.UUID    `json:"id"`
	PemilikMobil   string       `json:"pemilik_mobil"`
	PersonalNumber string       `json:"personal_number"`
	PlatNomor      string       `json:"plat_nomor"`
	Role           *entity.Role `json:"role"`
}

type AdminReimburseItem struct {
	ReimburseItem
	User OwnerPayload `json:"user"`
}

type LimitOwner struct {
	PemilikMobil   string `json:"pemilik_mobil"`
	PersonalNumber string `json:"personal_number"`
	PlatNomor      string `json:"plat_nomor"`
}

type LimitInfo struct {
	TotalLimit     int `json:"total_limit"`
	UsedThisMonth  int `json:"used_this_month"`
	RemainingLimit int `json:"remaining_limit"`
	Month          int `json:"month"`
	Year           int `json:"year"`
}

type LimitResponse struct {
	User  LimitOwner   `json:"user"`
	Role  *entity.Role `json:"role"`
	Limit LimitInfo    `json:"limit"`
}

type HistorySummary struct {
	TotalRecords int `json:"total_records"`
	TotalAmount  int `json:"total_amount"`
}
