package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/ayorahman/reimburse-bbm-api/internal/entity"
)

// DateRange is a half-open interval: created_at >= Start and < End.
type DateRange struct {
	Start time.Time
	End   time.Time
}

type ReimburseRepository interface {
	Create(ctx context.Context, reimburse *entity.Reimbursement) error
	FindByUser(ctx context.Context, userID uuid.UUID, rng *DateRange) ([]*entity.Reimbursement, error)
	FindAllWithOwner(ctx context.Context, rng *DateRange) ([]*entity.Reimbursement, error)
	SumByUserBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) (int64, error)
}

type reimburseRepository struct {
	db *gorm.DB
}

func NewReimburseRepository(db *gorm.DB) ReimburseRepository {
	return &reimburseRepository{db: db}
}

func (r *reimburseRepository) Create(ctx context.Context, reimburse *entity.Reimbursement) error {
	return r.db.WithContext(ctx).Create(reimburse).Error
}

func (r *reimburseRepository) FindByUser(ctx context.Context, userID uuid.UUID, rng *DateRange) ([]*entity.Reimbursement, error) {
	query := r.db.WithContext(ctx).Where("user_id = ?", userID)
	query = applyRange(query, rng)

	var rows []*entity.Reimbursement
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reimburseRepository) FindAllWithOwner(ctx context.Context, rng *DateRange) ([]*entity.Reimbursement, error) {
	query := r.db.WithContext(ctx).
		Preload("Profile").
		Preload("Profile.Role")
	query = applyRange(query, rng)

	var rows []*entity.Reimbursement
	if err := query.Order("created_at DESC, id DESC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *reimburseRepository) SumByUserBetween(ctx context.Context, userID uuid.UUID, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&entity.Reimbursement{}).
		Where("user_id = ? AND created_at >= ? AND created_at < ?", userID, start, end).
		Select("COALESCE(SUM(harga_bbm), 0)").
		Scan(&total).Error
	return total, err
}

func applyRange(query *gorm.DB, rng *DateRange) *gorm.DB {
	if rng == nil {
		return query
	}
	return query.Where("created_at >= ? AND created_at < ?", rng.Start, rng.End)
}
