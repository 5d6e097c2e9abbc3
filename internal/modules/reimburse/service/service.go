package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/reimburse/dto"
	"github.com/ayorahman/reimburse-bbm-api/internal/modules/reimburse/repository"
	userRepo "github.com/ayorahman/reimburse-bbm-api/internal/modules/user/repository"
	"github.com/ayorahman/reimburse-bbm-api/pkg/apperror"
	"github.com/ayorahman/reimburse-bbm-api/pkg/storage"
)

const (
	// maxReceiptSize caps receipt uploads at 5 MB.
	maxReceiptSize = 5 << 20
	// hargaTolerance is the allowed rounding gap in rupiah between the
	// claimed total and harga_per_liter x jumlah_liter_bbm.
	hargaTolerance = 100
)

var allowedReceiptTypes = map[string]bool{
	"image/jpeg": true,
	"image/jpg":  true,
	"image/png":  true,
}

type ReimburseService interface {
	Create(ctx context.Context, userID uuid.UUID, input dto.CreateReimburseInput) (*dto.CreatedReimburse, error)
	GetUserLimit(ctx context.Context, userID uuid.UUID) (*dto.LimitResponse, error)
	GetHistory(ctx context.Context, userID uuid.UUID, filter string) ([]dto.ReimburseItem, dto.HistorySummary, error)
	GetAllForAdmin(ctx context.Context, filter string) ([]dto.AdminReimburseItem, error)
}

type reimburseService struct {
	repo     repository.ReimburseRepository
	profiles userRepo.ProfileRepository
	images   storage.ImageStorage
	folder   string
}

func NewReimburseService(
	repo repository.ReimburseRepository,
	profiles userRepo.ProfileRepository,
	images storage.ImageStorage,
	folder string,
) ReimburseService {
	return &reimburseService{
		repo:     repo,
		profiles: profiles,
		images:   images,
		folder:   folder,
	}
}

// Create validates the claim, checks the caller's monthly limit, then
// uploads the receipt and inserts the row. Upload and insert are two
// separate calls: when the insert fails the uploaded file is deleted
// again as compensation.
//
// The limit check reads the month's usage before the insert, so two
// concurrent submissions by the same user can both pass it. That race
// is accepted; the stores expose no cross-call isolation here.
func (s *reimburseService) Create(ctx context.Context, userID uuid.UUID, input dto.CreateReimburseInput) (*dto.CreatedReimburse, error) {
	if input.HargaBbm == "" || input.SpedometerSebelum == "" || input.JenisBbm == "" ||
		input.HargaPerLiter == "" || input.JumlahLiterBbm == "" || input.Receipt == nil {
		return nil, apperror.Validation("Semua field harus diisi: harga_bbm, spedometer_sebelum, jenis_bbm, harga_per_liter, jumlah_liter_bbm, dan struk_pembelian.")
	}

	if !allowedReceiptTypes[input.Receipt.ContentType] {
		return nil, apperror.Validation("Hanya file gambar (JPEG, PNG) yang diperbolehkan.")
	}
	if input.Receipt.Size > maxReceiptSize {
		return nil, apperror.Validation("Ukuran file struk maksimal 5MB.")
	}

	hargaBbm, err1 := strconv.Atoi(input.HargaBbm)
	spedoSebelum, err2 := strconv.Atoi(input.SpedometerSebelum)
	hargaPerLiter, err3 := strconv.Atoi(input.HargaPerLiter)
	jumlahLiter, err4 := strconv.ParseFloat(input.JumlahLiterBbm, 64)
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return nil, apperror.Validation("Format angka tidak valid untuk harga_bbm, spedometer, harga_per_liter, atau jumlah_liter_bbm.")
	}

	var spedoSetelah *int
	if input.SpedometerSetelah != "" {
		n, err := strconv.Atoi(input.SpedometerSetelah)
		if err != nil {
			return nil, apperror.Validation("Format angka tidak valid untuk harga_bbm, spedometer, harga_per_liter, atau jumlah_liter_bbm.")
		}
		spedoSetelah = &n
	}

	expected := int(math.Round(float64(hargaPerLiter) * jumlahLiter))
	if abs(expected-hargaBbm) > hargaTolerance {
		return nil, apperror.Validation(fmt.Sprintf(
			"Harga BBM (%d) tidak sesuai dengan perhitungan: %d x %g = %d",
			hargaBbm, hargaPerLiter, jumlahLiter, expected,
		))
	}

	if spedoSetelah != nil && *spedoSetelah <= spedoSebelum {
		return nil, apperror.Validation("Spedometer setelah harus lebih besar dari spedometer sebelum.")
	}

	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Data user tidak ditemukan.")
		}
		return nil, err
	}

	limitRole := 0
	if profile.Role != nil {
		limitRole = profile.Role.LimitRole
	}

	start, end := monthRange(time.Now())
	used, err := s.repo.SumByUserBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	if used+int64(hargaBbm) > int64(limitRole) {
		return nil, apperror.Validation(fmt.Sprintf(
			"Reimburse melebihi limit. Limit: %d, Sudah digunakan: %d, Sisa limit: %d",
			limitRole, used, int64(limitRole)-used,
		))
	}

	fileName := fmt.Sprintf("%s_%d%s",
		userID, time.Now().UnixMilli(), strings.ToLower(filepath.Ext(input.Receipt.FileName)))

	fileURL, err := s.images.UploadImage(ctx, input.Receipt.Reader, s.folder, fileName)
	if err != nil {
		return nil, fmt.Errorf("gagal upload struk: %w", err)
	}

	row := &entity.Reimbursement{
		UserID:            userID,
		HargaBbm:          hargaBbm,
		SpedometerSebelum: spedoSebelum,
		SpedometerSetelah: spedoSetelah,
		JenisBbm:          input.JenisBbm,
		HargaPerLiter:     hargaPerLiter,
		JumlahLiterBbm:    jumlahLiter,
		StrukPembelian:    fileURL,
	}

	if err := s.repo.Create(ctx, row); err != nil {
		if delErr := s.images.DeleteImage(ctx, fileURL); delErr != nil {
			zap.L().Error("compensation failed: orphaned receipt file",
				zap.String("file_url", fileURL),
				zap.Error(delErr),
			)
		}
		return nil, fmt.Errorf("gagal menyimpan data reimburse: %w", err)
	}

	return &dto.CreatedReimburse{
		ReimburseItem:        toItem(row),
		UserID:               row.UserID,
		TotalHargaCalculated: float64(hargaPerLiter) * jumlahLiter,
	}, nil
}

func (s *reimburseService) GetUserLimit(ctx context.Context, userID uuid.UUID) (*dto.LimitResponse, error) {
	profile, err := s.profiles.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Data user tidak ditemukan.")
		}
		return nil, err
	}

	now := time.Now()
	start, end := monthRange(now)
	used, err := s.repo.SumByUserBetween(ctx, userID, start, end)
	if err != nil {
		return nil, err
	}

	limitRole := 0
	if profile.Role != nil {
		limitRole = profile.Role.LimitRole
	}

	remaining := limitRole - int(used)
	if remaining < 0 {
		remaining = 0
	}

	return &dto.LimitResponse{
		User: dto.LimitOwner{
			PemilikMobil:   profile.PemilikMobil,
			PersonalNumber: profile.PersonalNumber,
			PlatNomor:      profile.PlatNomor,
		},
		Role: profile.Role,
		Limit: dto.LimitInfo{
			TotalLimit:     limitRole,
			UsedThisMonth:  int(used),
			RemainingLimit: remaining,
			Month:          int(now.Month()),
			Year:           now.Year(),
		},
	}, nil
}

func (s *reimburseService) GetHistory(ctx context.Context, userID uuid.UUID, filter string) ([]dto.ReimburseItem, dto.HistorySummary, error) {
	rows, err := s.repo.FindByUser(ctx, userID, GetDateFilter(filter, time.Now()))
	if err != nil {
		return nil, dto.HistorySummary{}, err
	}

	items := make([]dto.ReimburseItem, 0, len(rows))
	total := 0
	for _, row := range rows {
		items = append(items, toItem(row))
		total += row.HargaBbm
	}

	return items, dto.HistorySummary{
		TotalRecords: len(items),
		TotalAmount:  total,
	}, nil
}

func (s *reimburseService) GetAllForAdmin(ctx context.Context, filter string) ([]dto.AdminReimburseItem, error) {
	rows, err := s.repo.FindAllWithOwner(ctx, GetDateFilter(filter, time.Now()))
	if err != nil {
		return nil, err
	}

	items := make([]dto.AdminReimburseItem, 0, len(rows))
	for _, row := range rows {
		item := dto.AdminReimburseItem{
			ReimburseItem: toItem(row),
			User:          dto.OwnerPayload{ID: row.UserID},
		}
		if row.Profile != nil {
			item.User.PemilikMobil = row.Profile.PemilikMobil
			item.User.PersonalNumber = row.Profile.PersonalNumber
			item.User.PlatNomor = row.Profile.PlatNomor
			item.User.Role = row.Profile.Role
		}
		items = append(items, item)
	}

	return items, nil
}

func toItem(row *entity.Reimbursement) dto.ReimburseItem {
	return dto.ReimburseItem{
		ID:                row.ID,
		HargaBbm:          row.HargaBbm,
		SpedometerSebelum: row.SpedometerSebelum,
		SpedometerSetelah: row.SpedometerSetelah,
		SelisihKm:         row.SelisihKm(),
		JenisBbm:          row.JenisBbm,
		HargaPerLiter:     row.HargaPerLiter,
		JumlahLiterBbm:    row.JumlahLiterBbm,
		StrukPembelian:    row.StrukPembelian,
		CreatedAt:         row.CreatedAt,
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
